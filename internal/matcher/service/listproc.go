package service

import (
	"regexp"
	"strings"

	"catalog-matcher/internal/matcher/model"
)

// "Arroz Tio Joao 1kg 8,50" → ("Arroz Tio Joao 1kg", "8,50")
var rePriceTail = regexp.MustCompile(`^(.+?)\s+(\d+[.,]\d{2}(?i:kg)?)\s*$`)

// "Suco A ou Suco B"
var reAlternatives = regexp.MustCompile(`(?i)\s+ou\s+`)

const commentMarker = "#"

// Searcher is the part of Matcher the list processor needs.
type Searcher interface {
	Search(term string, topN int) []model.Candidate
}

// ListProcessor resolves every product of a raw order list.
type ListProcessor struct {
	search     Searcher
	thresholds func() model.Thresholds
}

// NewListProcessor reads thresholds on every call so that settings changes
// apply without rebuilding the processor.
func NewListProcessor(s Searcher, thresholds func() model.Thresholds) *ListProcessor {
	return &ListProcessor{search: s, thresholds: thresholds}
}

// ParseLines splits raw text into product lines, skipping blanks and
// comments. Alternatives joined by "ou" are not split here.
func ParseLines(raw string) []model.ProductLine {
	var out []model.ProductLine
	for _, line := range strings.FieldsFunc(raw, isLineBreak) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}
		if pl, ok := ParseLine(line); ok {
			out = append(out, pl)
		}
	}
	return out
}

// CR alone (old Mac exports) and the Unicode separators also end a line.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// ParseLine strips decoration and splits off a trailing price.
func ParseLine(line string) (model.ProductLine, bool) {
	line = strings.TrimSpace(strings.ReplaceAll(line, "*", ""))
	if line == "" {
		return model.ProductLine{}, false
	}
	if m := rePriceTail.FindStringSubmatch(line); m != nil {
		return model.ProductLine{Name: strings.TrimSpace(m[1]), Price: strings.TrimSpace(m[2])}, true
	}
	return model.ProductLine{Name: line}, true
}

// Alternatives splits "A ou B" into trimmed, non-empty names.
func Alternatives(name string) []string {
	var out []string
	for _, p := range reAlternatives.Split(name, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Process emits one result per alternative name, in input order.
func (lp *ListProcessor) Process(raw string) []model.MatchResult {
	th := lp.thresholds()
	var results []model.MatchResult

	for _, pl := range ParseLines(raw) {
		for _, name := range Alternatives(pl.Name) {
			hits := lp.search.Search(name, DefaultTopN)

			r := model.MatchResult{
				Product:      name,
				Price:        pl.Price,
				Alternatives: []model.Candidate{},
			}
			if len(hits) > 0 {
				r.Match = hits[0].Key
				r.Score = hits[0].Score
				r.Alternatives = append(r.Alternatives, hits[1:]...)
			}
			r.Status = th.Classify(r.Score)
			results = append(results, r)
		}
	}
	return results
}
