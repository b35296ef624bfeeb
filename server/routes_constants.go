package server

// Route path constants
const (
	RouteHealth = "/api/health"

	// Session lifecycle
	RouteLogin  = "/api/login"
	RouteLogout = "/api/logout"

	// Session-bound data
	RouteGrades     = "/api/grades"
	RouteAttendance = "/api/attendance"
	RouteTimetable  = "/api/timetable"

	// Preflight requests for anything under /api/
	RouteAPIPrefix = "/api/"
)

// Request headers carrying the session token. HeaderSessionID wins when both are present.
const (
	HeaderSessionID     = "X-Session-Id"
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-Id"
)
