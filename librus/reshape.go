package librus

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/librus-gateway/internal/utils"
)

const (
	semesterCount  = 2
	defaultSubject = "Inne"
	dateLayout     = "2006-01-02"
)

// groupAttendances regroups the flat attendance list into semester -> day rows,
// slotting each entry at its lesson number.
func groupAttendances(list []attendanceModel, types map[int]attendanceType) RawAbsences {
	type dayKey struct {
		semester string
		date     string
	}
	rows := map[dayKey]*AbsenceRow{}

	for _, a := range list {
		key := dayKey{semester: strconv.Itoa(semesterIndex(a.Semester)), date: a.Date}
		row, ok := rows[key]
		if !ok {
			row = &AbsenceRow{Date: a.Date, Table: []*AbsenceCell{}}
			rows[key] = row
		}

		t := types[a.Type.ID]
		cell := &AbsenceCell{ID: a.ID, Type: utils.Coalesce(t.Short, t.Name)}

		slot := a.LessonNo
		if slot < 0 {
			slot = 0
		}
		for len(row.Table) <= slot {
			row.Table = append(row.Table, nil)
		}
		if row.Table[slot] == nil {
			row.Table[slot] = cell
		} else {
			row.Table = append(row.Table, cell)
		}
	}

	result := RawAbsences{}
	for key, row := range rows {
		result[key.semester] = append(result[key.semester], *row)
	}
	for sem := range result {
		sort.Slice(result[sem], func(i, j int) bool {
			return result[sem][i].Date < result[sem][j].Date
		})
	}
	return result
}

func groupGrades(grades []gradeModel, subjects, categories, users map[int]string) []SubjectGrades {
	bySubject := map[int]*SubjectGrades{}
	values := map[int][][]float64{}

	for _, g := range grades {
		sg, ok := bySubject[g.Subject.ID]
		if !ok {
			sg = &SubjectGrades{
				Name:     utils.Coalesce(subjects[g.Subject.ID], defaultSubject),
				Semester: make([]SemesterGrades, semesterCount),
			}
			for i := range sg.Semester {
				sg.Semester[i].Grades = []Grade{}
			}
			bySubject[g.Subject.ID] = sg
			values[g.Subject.ID] = make([][]float64, semesterCount)
		}
		idx := semesterIndex(g.Semester)
		sem := &sg.Semester[idx]

		switch {
		case g.IsSemesterProposition:
			sem.TempAverage = numericGrade(g.Grade)
		case g.IsFinalProposition:
			sg.TempAverage = numericGrade(g.Grade)
		case g.IsSemester, g.IsFinal:
			// summary grades are not part of the running list
		default:
			sem.Grades = append(sem.Grades, Grade{
				ID:    g.ID,
				Value: g.Grade,
				Info:  gradeInfo(categories[g.Category.ID], g.Date, users[g.AddedBy.ID]),
			})
			if v, ok := gradeValue(g.Grade); ok && g.IsConstituent {
				values[g.Subject.ID][idx] = append(values[g.Subject.ID][idx], v)
			}
		}
	}

	result := make([]SubjectGrades, 0, len(bySubject))
	for id, sg := range bySubject {
		var all []float64
		for i, v := range values[id] {
			sg.Semester[i].Average = average(v)
			all = append(all, v...)
		}
		sg.Average = average(all)
		result = append(result, *sg)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func buildTimetable(days map[string][][]timetableEntry) Timetable {
	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	tt := Timetable{Hours: []string{}, Table: Week{}}
	for _, date := range dates {
		slots := days[date]
		lessons := make([]*Lesson, len(slots))
		for i, slot := range slots {
			if len(slot) == 0 {
				continue
			}
			e := slot[0]
			lesson := &Lesson{
				Subject:  e.Subject.Name,
				Teacher:  joinName(e.Teacher.FirstName, e.Teacher.LastName),
				Canceled: e.IsCanceled,
			}
			if e.Classroom != nil {
				lesson.Room = e.Classroom.Symbol
			}
			lessons[i] = lesson

			for len(tt.Hours) <= i {
				tt.Hours = append(tt.Hours, "")
			}
			if tt.Hours[i] == "" && e.HourFrom != "" {
				tt.Hours[i] = e.HourFrom + " - " + e.HourTo
			}
		}
		tt.Table = append(tt.Table, DayLessons{Day: dayName(date), Lessons: lessons})
	}

	// A range longer than a week repeats weekday names; the date keeps each key unique.
	if hasRepeatedDay(tt.Table) {
		for i := range tt.Table {
			tt.Table[i].Day += " " + dates[i]
		}
	}
	return tt
}

func hasRepeatedDay(week Week) bool {
	seen := make(map[string]struct{}, len(week))
	for _, d := range week {
		if _, ok := seen[d.Day]; ok {
			return true
		}
		seen[d.Day] = struct{}{}
	}
	return false
}

func semesterIndex(semester int) int {
	if semester >= semesterCount {
		return semesterCount - 1
	}
	if semester < 1 {
		return 0
	}
	return semester - 1
}

// gradeValue parses Polish school grades: "4+" is 4.5, "4-" is 3.75.
func gradeValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	modifier := 0.0
	switch {
	case strings.HasSuffix(s, "+"):
		modifier = 0.5
		s = strings.TrimSuffix(s, "+")
	case strings.HasSuffix(s, "-"):
		modifier = -0.25
		s = strings.TrimSuffix(s, "-")
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 1 || n > 6 {
		return 0, false
	}
	return n + modifier, true
}

func numericGrade(s string) *float64 {
	if v, ok := gradeValue(s); ok {
		return utils.Ptr(v)
	}
	return nil
}

func average(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return utils.Ptr(math.Round(sum/float64(len(values))*100) / 100)
}

func gradeInfo(category, date, teacher string) string {
	var lines []string
	if category != "" {
		lines = append(lines, "Kategoria: "+category)
	}
	if date != "" {
		lines = append(lines, "Data: "+date)
	}
	if teacher != "" {
		lines = append(lines, "Nauczyciel: "+teacher)
	}
	return strings.Join(lines, "\n")
}

func dayName(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.Weekday().String()
}
