package attendance

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Category string

const (
	CategoryAbsent   Category = "absent"
	CategoryLate     Category = "late"
	CategoryReleased Category = "released"
	CategoryPresent  Category = "present"
	CategoryOther    Category = "other"
)

// Classifier maps a free-text attendance type to a Category.
type Classifier func(typ string) Category

// Rule matches when the normalized type contains any of Contains.
type Rule struct {
	Category Category
	Contains []string
}

// Polish Synergia labels, checked in order. "nieobecnosc" must win over "obec".
var PolishRules = []Rule{
	{Category: CategoryAbsent, Contains: []string{"nieobec", "nb"}},
	{Category: CategoryLate, Contains: []string{"spóź", "spoz"}},
	{Category: CategoryReleased, Contains: []string{"zwoln"}},
	{Category: CategoryPresent, Contains: []string{"obec"}},
}

// DefaultClassifier ignores case and diacritics, so "Spóźnienie" and "SPOZNIENIE" are both late.
var DefaultClassifier = SubstringClassifier(PolishRules)

// SubstringClassifier builds a Classifier from rules checked in order.
func SubstringClassifier(rules []Rule) Classifier {
	normalized := make([]Rule, len(rules))
	for i, r := range rules {
		contains := make([]string, len(r.Contains))
		for j, c := range r.Contains {
			contains[j] = normalize(c)
		}
		normalized[i] = Rule{Category: r.Category, Contains: contains}
	}

	return func(typ string) Category {
		key := normalize(typ)
		for _, r := range normalized {
			for _, c := range r.Contains {
				if strings.Contains(key, c) {
					return r.Category
				}
			}
		}
		return CategoryOther
	}
}

// IsAbsence reports whether the category counts against attendance.
func IsAbsence(c Category) bool {
	return c == CategoryAbsent || c == CategoryLate
}

func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}
