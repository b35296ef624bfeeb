package librus

import (
	"bytes"
	"encoding/json"
)

// Account is the logged in Librus account (parent or student login).
type Account struct {
	NameSurname string `json:"nameSurname"`
	Login       string `json:"login"`
}

// Student describes the pupil the account gives access to.
type Student struct {
	NameSurname string `json:"nameSurname"`
	Class       string `json:"class"`
	Index       string `json:"index"`
	Educator    string `json:"educator"`
}

// Identity is cached on the session at login and never refreshed.
type Identity struct {
	Account Account  `json:"account"`
	Student *Student `json:"student"`
}

type Grade struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
	Info  string `json:"info"`
}

type SemesterGrades struct {
	Grades      []Grade  `json:"grades"`
	Average     *float64 `json:"average"`
	TempAverage *float64 `json:"tempAverage"`
}

type SubjectGrades struct {
	Name        string           `json:"name"`
	Semester    []SemesterGrades `json:"semester"`
	Average     *float64         `json:"average"`
	TempAverage *float64         `json:"tempAverage"`
}

// AbsenceCell is one raw attendance slot. Subject is usually only known
// after the detail has been fetched.
type AbsenceCell struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Subject string `json:"subject,omitempty"`
}

// AbsenceRow is one school day. Table is indexed by lesson number and
// holds nil for lessons without an entry.
type AbsenceRow struct {
	Date  string         `json:"date"`
	Table []*AbsenceCell `json:"table"`
}

// RawAbsences maps a semester key ("0", "1") to its day rows.
type RawAbsences map[string][]AbsenceRow

type AbsenceDetail struct {
	ID         int    `json:"id"`
	Type       string `json:"type"`
	Subject    string `json:"subject"`
	Date       string `json:"date"`
	LessonHour string `json:"lessonHour"`
	Teacher    string `json:"teacher"`
	AddedAt    string `json:"addedAt"`
}

type Lesson struct {
	Subject  string `json:"subject"`
	Teacher  string `json:"teacher"`
	Room     string `json:"room"`
	Canceled bool   `json:"canceled,omitempty"`
}

type DayLessons struct {
	Day     string
	Lessons []*Lesson
}

// Week keeps the days in calendar order; it encodes as a JSON object whose
// keys follow that order. Day is the weekday name, or "Monday 2024-01-08"
// when the range spans more than one week.
type Week []DayLessons

func (w Week) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range w {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(d.Day)
		if err != nil {
			return nil, err
		}
		lessons := d.Lessons
		if lessons == nil {
			lessons = []*Lesson{}
		}
		value, err := json.Marshal(lessons)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type Timetable struct {
	Hours []string `json:"hours"`
	Table Week     `json:"table"`
}
