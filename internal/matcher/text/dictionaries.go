package text

// Pair is one misspelling → correction entry. Corrections keep insertion
// order: on equal similarity the first entry wins.
type Pair struct {
	From string
	To   string
}

// Dictionaries is the immutable vocabulary the pipeline runs on.
type Dictionaries struct {
	Corrections   []Pair
	Abbreviations map[string]string
	StopWords     map[string]struct{}
	Distinctive   map[string]struct{}
}

// Default returns the built-in vocabulary for grocery order lists.
func Default() Dictionaries {
	return Dictionaries{
		Corrections: []Pair{
			{"pepeino", "pepino"},
			{"arrroz", "arroz"},
			{"smisrnof", "smirnoff"},
			{"espagute", "espaguete"},
			{"salgadimho", "salgadinho"},
		},
		Abbreviations: map[string]string{
			"ling":  "linguica",
			"bov":   "bovino",
			"sui":   "suino",
			"fgo":   "frango",
			"temp":  "temperado",
			"cong":  "congelado",
			"amac":  "amaciante",
			"bisc":  "biscoito",
			"refri": "refrigerante",
			"pct":   "pacote",
			"cx":    "caixa",
			"un":    "unidade",
		},
		StopWords: Set(
			"de", "da", "do", "dos", "das", "e", "a", "o", "as", "os",
			"kg", "g", "ml", "l", "unidade",
		),
		Distinctive: Set(
			"sem", "com", "inteiro", "inteira", "temperado", "congelado",
			"mignon", "sadia", "seara",
		),
	}
}

// Set builds a lookup set from words.
func Set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
