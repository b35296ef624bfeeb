package attendance

import (
	"github.com/jrsteele09/librus-gateway/internal/utils"
	"github.com/jrsteele09/librus-gateway/librus"
)

const (
	DefaultSubject = "Inne"
	DefaultType    = "inne"
)

type SubjectStat struct {
	Total   int            `json:"total"`
	PerType map[string]int `json:"perType"`
}

type Details struct {
	PerSubject    map[string]*SubjectStat `json:"perSubject"`
	TotalDetailed int                     `json:"totalDetailed"`
}

// Fold buckets details by subject and counts types within each bucket.
// Subject and type are free text; missing values fall back to the defaults.
func Fold(details []librus.AbsenceDetail) Details {
	perSubject := make(map[string]*SubjectStat)
	for _, d := range details {
		subject := utils.Coalesce(d.Subject, DefaultSubject)
		stat, ok := perSubject[subject]
		if !ok {
			stat = &SubjectStat{PerType: make(map[string]int)}
			perSubject[subject] = stat
		}
		stat.Total++
		stat.PerType[utils.Coalesce(d.Type, DefaultType)]++
	}
	return Details{PerSubject: perSubject, TotalDetailed: len(details)}
}
