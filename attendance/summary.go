package attendance

import (
	"math"

	"github.com/jrsteele09/librus-gateway/internal/utils"
	"github.com/jrsteele09/librus-gateway/librus"
)

// Summary counts every raw cell, including repeats, the way the register shows them.
type Summary struct {
	Total       int              `json:"total"`
	PerType     map[string]int   `json:"perType"`
	PerCategory map[Category]int `json:"perCategory"`
	// PresentPct is nil when there are no entries.
	PresentPct *float64 `json:"presentPct"`
}

func Summarize(raw librus.RawAbsences, classify Classifier) Summary {
	if classify == nil {
		classify = DefaultClassifier
	}

	all := cells(raw)
	s := Summary{
		Total:       len(all),
		PerType:     make(map[string]int),
		PerCategory: make(map[Category]int),
	}

	absent := 0
	for _, c := range all {
		s.PerType[utils.Coalesce(c.Type, DefaultType)]++
		category := classify(c.Type)
		s.PerCategory[category]++
		if IsAbsence(category) {
			absent++
		}
	}

	if s.Total > 0 {
		pct := math.Max(0, float64(s.Total-absent)/float64(s.Total)*100)
		s.PresentPct = utils.Ptr(math.Round(pct*100) / 100)
	}
	return s
}
