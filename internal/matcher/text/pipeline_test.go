package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrect(t *testing.T) {
	p := NewPipeline(Default())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"exact entry", "pepeino japones", "pepino japones"},
		{"fuzzy entry", "espagete", "espaguete"},
		{"fuzzy one letter short", "vodka smirnof", "vodka smirnoff"},
		{"below threshold", "arrozz", "arrozz"},
		{"unknown word", "feijao", "feijao"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Correct(tt.in))
		})
	}
}

func TestCorrectTieKeepsFirstEntry(t *testing.T) {
	p := NewPipeline(Dictionaries{
		Corrections: []Pair{
			{"salgadinha", "first"},
			{"salgadinhe", "second"},
		},
	})
	// both entries are 0.9 similar
	assert.Equal(t, "first", p.Correct("salgadinhu"))

	p = NewPipeline(Dictionaries{
		Corrections: []Pair{
			{"salgadinhe", "second"},
			{"salgadinha", "first"},
		},
	})
	assert.Equal(t, "second", p.Correct("salgadinhu"))
}

func TestExpand(t *testing.T) {
	p := NewPipeline(Dictionaries{Abbreviations: map[string]string{"ling": "linguica", "temp": "temperado"}})

	assert.Equal(t, "linguica temperado", p.Expand("ling temp"))
	assert.Equal(t, "temperado x linguica", p.Expand("temp x ling"))
	assert.Equal(t, "", p.Expand(""))
}

func TestPreprocess(t *testing.T) {
	p := NewPipeline(Default())

	assert.Equal(t, "linguica temperado", p.Preprocess("Ling Temp"))
	assert.Equal(t, "linguica temperado", p.Preprocess("linguica_temperado_500g.jpg"))
	assert.Equal(t, "pacote biscoito", p.Preprocess("PCT Bisc"))

	inputs := []string{
		"Ling Temp", "Arrroz Tio João 5kg", "cx refri 2l", "Smisrnof", "un", "espagute 500g",
		"Frango Sadia inteiro congelado", "", "#$%",
	}
	for _, in := range inputs {
		once := p.Preprocess(in)
		assert.Equal(t, once, p.Preprocess(once), "input %q", in)
	}
}

func TestKeywords(t *testing.T) {
	p := NewPipeline(Default())

	got := p.Keywords("arroz de 5 a kg sem x arroz")
	assert.Equal(t, Set("arroz", "5", "sem"), got)

	assert.Empty(t, p.Keywords(""))
	assert.Empty(t, p.Keywords("de da o a"))
}

func TestKeywordsDistinctiveBeatsStopWord(t *testing.T) {
	p := NewPipeline(Dictionaries{
		StopWords:   Set("com", "de"),
		Distinctive: Set("com"),
	})
	assert.Equal(t, Set("cafe", "com", "leite"), p.Keywords("cafe com leite de"))
}

func TestNewPipelineZeroDictionaries(t *testing.T) {
	p := NewPipeline(Dictionaries{})
	require.NotNil(t, p)
	assert.Equal(t, "ling temp", p.Preprocess("Ling Temp"))
	assert.False(t, p.IsDistinctive("sem"))
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 1.0, Ratio("abc", "abc"))
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))
	assert.InDelta(t, 0.9, Ratio("salgadinhu", "salgadinha"), 1e-9)
	assert.InDelta(t, 0.7778, Ratio("arroz tio joao", "imagens arroz tio joao"), 1e-4)
}
