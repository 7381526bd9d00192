package text

import "strings"

const (
	// CorrectionRatio is the similarity a token must exceed to be
	// rewritten by a fuzzy dictionary hit.
	CorrectionRatio = 0.86
)

// Pipeline applies normalize → correct → expand with a fixed vocabulary.
type Pipeline struct {
	dict Dictionaries
}

func NewPipeline(d Dictionaries) *Pipeline {
	if d.Abbreviations == nil {
		d.Abbreviations = map[string]string{}
	}
	if d.StopWords == nil {
		d.StopWords = map[string]struct{}{}
	}
	if d.Distinctive == nil {
		d.Distinctive = map[string]struct{}{}
	}
	return &Pipeline{dict: d}
}

// Preprocess turns any text into a comparison key.
func (p *Pipeline) Preprocess(s string) string {
	return p.Expand(p.Correct(Normalize(s)))
}

// Correct rewrites known misspellings, exact entry first, then the best
// fuzzy entry above CorrectionRatio.
func (p *Pipeline) Correct(s string) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		tokens[i] = p.correctToken(tok)
	}
	return strings.Join(tokens, " ")
}

func (p *Pipeline) correctToken(tok string) string {
	for _, c := range p.dict.Corrections {
		if c.From == tok {
			return c.To
		}
	}
	best := tok
	bestRatio := 0.0
	for _, c := range p.dict.Corrections {
		r := Ratio(tok, c.From)
		if r > CorrectionRatio && r > bestRatio {
			best = c.To
			bestRatio = r
		}
	}
	return best
}

// Expand replaces abbreviated tokens, keeping token order.
func (p *Pipeline) Expand(s string) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if full, ok := p.dict.Abbreviations[tok]; ok {
			tokens[i] = full
		}
	}
	return strings.Join(tokens, " ")
}

// Keywords reduces a preprocessed string to its meaningful token set.
func (p *Pipeline) Keywords(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		_, distinctive := p.dict.Distinctive[tok]
		_, stop := p.dict.StopWords[tok]
		if !distinctive && stop {
			continue
		}
		if len(tok) > 1 || isDigits(tok) {
			out[tok] = struct{}{}
		}
	}
	return out
}

// IsDistinctive reports whether tok strongly disambiguates a product.
func (p *Pipeline) IsDistinctive(tok string) bool {
	_, ok := p.dict.Distinctive[tok]
	return ok
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
