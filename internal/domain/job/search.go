package job

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s and strips combining marks, so "Matemática" and
// "matematica" compare equal. Stored search columns and query terms both go
// through Fold.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

func (f Filter) Matches(j Job) bool {
	if term := Fold(f.Title); term != "" && !strings.Contains(Fold(j.Title), term) {
		return false
	}
	if term := Fold(f.Location); term != "" && !strings.Contains(Fold(j.Location), term) {
		return false
	}
	return true
}
