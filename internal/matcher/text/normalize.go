package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ImageExtensions accepted by the file index (lowercase, with dot).
var ImageExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".webp": {},
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var reImageExt = regexp.MustCompile(`\.(png|jpg|jpeg|gif|bmp|webp)$`)

// "arroz 5kg", "queijo 0,5 kg", "suco 2"
var reTrailingQty = regexp.MustCompile(`\s+\d+(?:[.,]\d+)?\s*(?:kg|g|mg)?$`)

var reNonAlnum = regexp.MustCompile(`[^a-z0-9\s]+`)

var separators = strings.NewReplacer("_", " ", "-", " ", ".", " ")

// Normalize lowercases, strips accents, file extension and trailing
// quantity, and reduces everything else to single-spaced [a-z0-9] tokens.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	out := StripAccents(strings.ToLower(s))

	// 1) extension before the dots turn into spaces
	out = reImageExt.ReplaceAllString(strings.TrimSpace(out), "")

	// 2) separators and punctuation
	out = separators.Replace(out)
	out = reNonAlnum.ReplaceAllString(out, " ")
	out = collapseSpaces(out)

	// 3) quantity suffixes, until nothing changes
	return stripTrailingQty(out)
}

// StripAccents removes combining marks after compatibility decomposition.
func StripAccents(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

func stripTrailingQty(s string) string {
	prev := ""
	out := s
	for out != prev {
		prev = out
		out = strings.TrimSpace(reTrailingQty.ReplaceAllString(out, ""))
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
