package service

import (
	"math"

	"catalog-matcher/internal/matcher/text"
)

// tuned weights, keep as is
const (
	weightCoverageQuery = 45.0
	weightCoverageCand  = 20.0
	weightSequence      = 30.0
	fuzzyHitWeight      = 0.75
	fuzzyHitRatio       = 0.82
	distinctiveBonus    = 0.04
	subsetBonus         = 12.0
)

// Scorer ranks a candidate label against a query in 0..100.
type Scorer struct {
	pipe *text.Pipeline
}

func NewScorer(p *text.Pipeline) *Scorer { return &Scorer{pipe: p} }

// Score combines keyword coverage both ways, near-miss keyword hits,
// full-string similarity and small bonuses. Equal preprocessed strings
// score exactly 100.
func (s *Scorer) Score(query, candidate string) float64 {
	q := s.pipe.Preprocess(query)
	c := s.pipe.Preprocess(candidate)

	kq := s.pipe.Keywords(q)
	kc := s.pipe.Keywords(c)
	if len(kq) == 0 || len(kc) == 0 {
		return 0
	}

	common := 0
	distinctive := 0
	for w := range kq {
		if _, ok := kc[w]; ok {
			common++
			if s.pipe.IsDistinctive(w) {
				distinctive++
			}
		}
	}

	fuzzyHits := 0
	for wq := range kq {
		if _, ok := kc[wq]; ok {
			continue
		}
		for wc := range kc {
			if _, ok := kq[wc]; ok {
				continue
			}
			if text.Ratio(wq, wc) >= fuzzyHitRatio {
				fuzzyHits++
				break
			}
		}
	}

	matched := float64(common) + fuzzyHitWeight*float64(fuzzyHits)
	covQ := matched / float64(len(kq))
	covC := matched / float64(len(kc))
	seq := text.Ratio(q, c)
	bonus := float64(distinctive) * distinctiveBonus

	raw := covQ*weightCoverageQuery + covC*weightCoverageCand + seq*weightSequence + bonus*100

	if q == c {
		return 100
	}
	if common == len(kq) {
		raw += subsetBonus
	}

	return round2(math.Max(0, math.Min(100, raw)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
