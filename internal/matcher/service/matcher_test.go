package service

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-matcher/internal/matcher/text"
)

type fakeLearned map[string]string

func (f fakeLearned) Lookup(term string) (string, bool) {
	k, ok := f[text.NewPipeline(text.Default()).Preprocess(term)]
	return k, ok
}

func newTestMatcher(t *testing.T, learned Learned) *Matcher {
	idx := NewFileIndex(catalogFs(t), zerolog.Nop())
	idx.Rebuild([]string{"/img/produtos", "/extra/bebidas"})
	return NewMatcher(text.NewPipeline(text.Default()), idx, learned, zerolog.Nop())
}

func TestSearchRanksByScore(t *testing.T) {
	m := newTestMatcher(t, nil)

	res := m.Search("ling temp", 5)
	require.Len(t, res, 1)
	assert.Equal(t, "produtos/linguica_temperado_500g.jpg", res[0].Key)
	assert.InDelta(t, 98.33, res[0].Score, 1e-9)
}

func TestSearchNoQualifyingCandidate(t *testing.T) {
	m := newTestMatcher(t, nil)
	assert.Empty(t, m.Search("xyz", 5))
	assert.Empty(t, m.Search("", 5))
}

func TestSearchLearnedMapping(t *testing.T) {
	m := newTestMatcher(t, fakeLearned{"arroz branco": "produtos/arroz_tio_joao_5kg.png"})

	res := m.Search("Arroz Branco", 5)
	require.Len(t, res, 1)
	assert.Equal(t, "produtos/arroz_tio_joao_5kg.png", res[0].Key)
	assert.Equal(t, 100.0, res[0].Score)
}

func TestSearchStaleLearnedMappingFallsThrough(t *testing.T) {
	m := newTestMatcher(t, fakeLearned{
		"feijao preto":   "produtos/sumiu.png",
		"pepino japones": "produtos/sumiu.png",
	})

	res := m.Search("feijao preto", 5)
	require.NotEmpty(t, res)
	assert.Equal(t, "produtos/graos/feijao_carioca.JPEG", res[0].Key)
	assert.Less(t, res[0].Score, 100.0)

	assert.Empty(t, m.Search("pepino japones", 5))
}

func TestSearchTopN(t *testing.T) {
	m := newTestMatcher(t, nil)

	// every key contains "produtos" or "bebidas"; "produtos" is a keyword here
	all := m.Search("produtos", 0)
	assert.LessOrEqual(t, len(all), DefaultTopN)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Score, all[i].Score)
	}

	one := m.Search("produtos", 1)
	assert.LessOrEqual(t, len(one), 1)
}

func TestPrefilter(t *testing.T) {
	m := newTestMatcher(t, nil)
	keys := m.index.Keys()

	assert.Equal(t, []string{"bebidas/suco_uva.png"}, m.prefilter("suco uva", keys))
	assert.Empty(t, m.prefilter("pepino", keys))
	// no keywords: the whole term must be a substring
	assert.Empty(t, m.prefilter("a o", keys))
}
