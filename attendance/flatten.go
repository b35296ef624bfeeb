package attendance

import (
	"sort"

	"github.com/jrsteele09/librus-gateway/librus"
)

// cells returns every non-nil cell, walking semesters in key order.
func cells(raw librus.RawAbsences) []librus.AbsenceCell {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []librus.AbsenceCell
	for _, k := range keys {
		for _, row := range raw[k] {
			for _, cell := range row.Table {
				if cell != nil {
					out = append(out, *cell)
				}
			}
		}
	}
	return out
}

// Flatten returns the cells that carry an id. Placeholder slots are skipped.
func Flatten(raw librus.RawAbsences) []librus.AbsenceCell {
	all := cells(raw)
	out := all[:0]
	for _, c := range all {
		if c.ID != 0 {
			out = append(out, c)
		}
	}
	return out
}

// UniqueIDs returns each id once, in first-seen order.
func UniqueIDs(entries []librus.AbsenceCell) []int {
	seen := make(map[int]struct{}, len(entries))
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		ids = append(ids, e.ID)
	}
	return ids
}
