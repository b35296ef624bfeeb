package server

func (s *Server) initRoutes() {
	// Public
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))

	// Session required
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteGrades, ChainMiddleware(s.GradesHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAttendance, ChainMiddleware(s.AttendanceHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteTimetable, ChainMiddleware(s.TimetableHandler(), s.APIMiddleware(s.RequireSession())...))

	// The CORS middleware answers preflights before the handler runs
	s.RegisterRouteHandler("OPTIONS "+RouteAPIPrefix, ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
}
