package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d\.\-]`)

// ParseFloatBR parses "8,50", "1.234,56", "R$ 4,20", "8.5" (spreadsheet cell).
func ParseFloatBR(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	repl := strings.NewReplacer("\u00A0", "", "\u202F", "", " ", "", "\t", "", "R$", "")
	s = repl.Replace(s)
	// "1.234,56": dot is a thousands separator when a comma follows
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// FormatPriceBR renders 8.5 as "8,50".
func FormatPriceBR(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}
