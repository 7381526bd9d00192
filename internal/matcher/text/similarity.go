package text

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio is the Gestalt (Ratcliff/Obershelp) similarity of a and b in [0..1]:
// 2*M/T over matching blocks, computed per character.
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}
