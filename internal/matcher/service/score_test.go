package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"catalog-matcher/internal/matcher/text"
)

func newScorer() *Scorer { return NewScorer(text.NewPipeline(text.Default())) }

func TestScoreEqualAfterPreprocess(t *testing.T) {
	s := newScorer()

	assert.Equal(t, 100.0, s.Score("Arroz Tio Joao", "arroz_tio_joao.png"))
	assert.Equal(t, 100.0, s.Score("ling temp", "linguica_temperado_500g.jpg"))
	assert.Equal(t, 100.0, s.Score("feijao carioca", "feijao carioca"))
}

func TestScoreAbbreviatedQueryReachesHighThreshold(t *testing.T) {
	s := newScorer()
	assert.GreaterOrEqual(t, s.Score("ling temp", "linguica_temperado_500g.jpg"), 80.0)
	// root folder name in the key
	assert.InDelta(t, 98.33, s.Score("ling temp", "produtos/linguica_temperado_500g.jpg"), 1e-9)
}

func TestScoreSubsetBonus(t *testing.T) {
	s := newScorer()
	// coverage 45 + 15, sequence 30*28/36, subset 12
	assert.InDelta(t, 95.33, s.Score("arroz tio joao", "imagens/arroz_tio_joao_5kg.png"), 1e-9)
}

func TestScoreEmptyKeywords(t *testing.T) {
	s := newScorer()

	assert.Equal(t, 0.0, s.Score("", "arroz.png"))
	assert.Equal(t, 0.0, s.Score("de a o", "arroz.png"))
	assert.Equal(t, 0.0, s.Score("arroz", ""))
	assert.Equal(t, 0.0, s.Score("arroz", "x.png"))
}

func TestScoreFuzzyHitRanksAboveMiss(t *testing.T) {
	s := newScorer()

	near := s.Score("biscoito morango", "biscoito_morangos.png")
	miss := s.Score("biscoito morango", "biscoito_chocolate.png")
	assert.Greater(t, near, miss)
}

func TestScoreDistinctiveBonus(t *testing.T) {
	s := NewScorer(text.NewPipeline(text.Dictionaries{Distinctive: text.Set("sadia")}))
	plain := NewScorer(text.NewPipeline(text.Dictionaries{}))

	q, c := "frango sadia", "frango sadia inteiro"
	assert.InDelta(t, 4.0, s.Score(q, c)-plain.Score(q, c), 1e-9)
}

func TestScoreBounded(t *testing.T) {
	s := newScorer()
	pairs := [][2]string{
		{"a", "b"},
		{"sem sem com com", "com sem"},
		{"frango sadia inteiro congelado temperado", "frango_sadia_inteiro_congelado_temperado_mignon_seara.png"},
		{"x y z 1 2 3", "1 2 3"},
		{"Arroz", "Arroz Tio Joao Tipo 1 Pacote 5kg Branco Longo Fino.jpg"},
		{"pepino", "pepeino"},
		{"123", "123.png"},
	}
	for _, p := range pairs {
		got := s.Score(p[0], p[1])
		assert.GreaterOrEqual(t, got, 0.0, "%q vs %q", p[0], p[1])
		assert.LessOrEqual(t, got, 100.0, "%q vs %q", p[0], p[1])
		assert.Equal(t, round2(got), got)
	}
}

func TestScoreSelf(t *testing.T) {
	s := newScorer()
	for _, q := range []string{"arroz", "Ling Temp", "Frango Sadia 1kg", "123"} {
		assert.Equal(t, 100.0, s.Score(q, q), q)
	}
}
