package service

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"catalog-matcher/internal/matcher/model"
	"catalog-matcher/internal/matcher/text"
)

const (
	DefaultTopN   = 5
	maxCandidates = 500
	minScore      = 30.0
)

// Learned resolves a term to a previously confirmed file key.
type Learned interface {
	Lookup(term string) (string, bool)
}

// Matcher ranks indexed files for a free-text product name.
type Matcher struct {
	pipe    *text.Pipeline
	scorer  *Scorer
	index   *FileIndex
	learned Learned
	logger  zerolog.Logger
}

func NewMatcher(p *text.Pipeline, idx *FileIndex, learned Learned, logger zerolog.Logger) *Matcher {
	return &Matcher{
		pipe:    p,
		scorer:  NewScorer(p),
		index:   idx,
		learned: learned,
		logger:  logger,
	}
}

// Search returns up to topN candidates scoring at least 30, best first.
// A learned mapping whose key is still indexed wins outright with 100.
func (m *Matcher) Search(term string, topN int) []model.Candidate {
	if topN <= 0 {
		topN = DefaultTopN
	}

	// (1) learned mapping
	if m.learned != nil {
		if key, ok := m.learned.Lookup(term); ok {
			if m.index.Has(key) {
				return []model.Candidate{{Key: key, Score: 100}}
			}
			m.logger.Debug().Str("term", term).Str("key", key).Msg("learned key not indexed, scoring")
		}
	}

	// (2) pre-filter by keyword substrings
	all := m.index.Keys()
	cands := m.prefilter(m.pipe.Preprocess(term), all)

	// (3) never empty just because of the filter
	if len(cands) == 0 {
		cands = all
	}

	// (4) bound the work
	if len(cands) > maxCandidates {
		cands = cands[:maxCandidates]
	}

	// (5) score against the raw term and key
	out := make([]model.Candidate, 0, len(cands))
	for _, key := range cands {
		if s := m.scorer.Score(term, key); s >= minScore {
			out = append(out, model.Candidate{Key: key, Score: s})
		}
	}

	// (6) rank
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

func (m *Matcher) prefilter(norm string, keys []string) []string {
	words := m.pipe.Keywords(norm)
	out := make([]string, 0)
	for _, key := range keys {
		lk := strings.ToLower(key)
		if len(words) == 0 {
			if strings.Contains(lk, norm) {
				out = append(out, key)
			}
			continue
		}
		for w := range words {
			if strings.Contains(lk, w) {
				out = append(out, key)
				break
			}
		}
	}
	return out
}
