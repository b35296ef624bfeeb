package librus

// Wire shapes of the Librus REST API. Only the fields the gateway reads are declared.

type idRef struct {
	ID int `json:"Id"`
}

type meResponse struct {
	Me struct {
		Account struct {
			Login     string `json:"Login"`
			FirstName string `json:"FirstName"`
			LastName  string `json:"LastName"`
		} `json:"Account"`
		User struct {
			FirstName string `json:"FirstName"`
			LastName  string `json:"LastName"`
		} `json:"User"`
		Class *idRef `json:"Class"`
	} `json:"Me"`
}

type classResponse struct {
	Class struct {
		Number     int    `json:"Number"`
		Symbol     string `json:"Symbol"`
		ClassTutor *idRef `json:"ClassTutor"`
	} `json:"Class"`
}

type userModel struct {
	ID        int    `json:"Id"`
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
}

type usersResponse struct {
	Users []userModel `json:"Users"`
}

type subjectsResponse struct {
	Subjects []struct {
		ID   int    `json:"Id"`
		Name string `json:"Name"`
	} `json:"Subjects"`
}

type categoriesResponse struct {
	Categories []struct {
		ID   int    `json:"Id"`
		Name string `json:"Name"`
	} `json:"Categories"`
}

type gradeModel struct {
	ID                    int    `json:"Id"`
	Grade                 string `json:"Grade"`
	Date                  string `json:"Date"`
	Semester              int    `json:"Semester"`
	Subject               idRef  `json:"Subject"`
	Category              idRef  `json:"Category"`
	AddedBy               idRef  `json:"AddedBy"`
	IsConstituent         bool   `json:"IsConstituent"`
	IsSemester            bool   `json:"IsSemester"`
	IsSemesterProposition bool   `json:"IsSemesterProposition"`
	IsFinal               bool   `json:"IsFinal"`
	IsFinalProposition    bool   `json:"IsFinalProposition"`
}

type gradesResponse struct {
	Grades []gradeModel `json:"Grades"`
}

type attendanceModel struct {
	ID       int    `json:"Id"`
	Lesson   *idRef `json:"Lesson"`
	Date     string `json:"Date"`
	AddDate  string `json:"AddDate"`
	LessonNo int    `json:"LessonNo"`
	Semester int    `json:"Semester"`
	Type     idRef  `json:"Type"`
}

type attendancesResponse struct {
	Attendances []attendanceModel `json:"Attendances"`
}

type attendanceResponse struct {
	Attendance attendanceModel `json:"Attendance"`
}

type attendanceType struct {
	ID             int    `json:"Id"`
	Name           string `json:"Name"`
	Short          string `json:"Short"`
	IsPresenceKind bool   `json:"IsPresenceKind"`
}

type attendanceTypesResponse struct {
	Types []attendanceType `json:"Types"`
}

type lessonResponse struct {
	Lesson struct {
		Subject idRef `json:"Subject"`
		Teacher idRef `json:"Teacher"`
	} `json:"Lesson"`
}

type lessonRef struct {
	SubjectID int
	TeacherID int
}

type timetableEntry struct {
	HourFrom string `json:"HourFrom"`
	HourTo   string `json:"HourTo"`
	Subject  struct {
		Name string `json:"Name"`
	} `json:"Subject"`
	Teacher struct {
		FirstName string `json:"FirstName"`
		LastName  string `json:"LastName"`
	} `json:"Teacher"`
	Classroom *struct {
		Symbol string `json:"Symbol"`
	} `json:"Classroom"`
	IsCanceled bool `json:"IsCanceled"`
}

// timetableResponse maps a date (YYYY-MM-DD) to lesson slots; each slot holds zero or more entries.
type timetableResponse struct {
	Timetable map[string][][]timetableEntry `json:"Timetable"`
}
