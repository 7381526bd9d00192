package model

// Status is the confidence tier of a match.
type Status string

const (
	StatusOK       Status = "OK"
	StatusReview   Status = "REVISAR"        // needs review
	StatusVerify   Status = "VERIFICAR"      // needs verification
	StatusNotFound Status = "NAO_ENCONTRADO" // not found
)

// Thresholds are percentages in 0..100.
type Thresholds struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
}

// Classify maps a score onto exactly one tier; lower bounds are inclusive.
func (t Thresholds) Classify(score float64) Status {
	switch {
	case score >= float64(t.High):
		return StatusOK
	case score >= float64(t.Medium):
		return StatusReview
	case score > 0:
		return StatusVerify
	default:
		return StatusNotFound
	}
}

// ProductLine is one parsed order-list line. Price stays text ("8,50").
type ProductLine struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Candidate is a file key with its score.
type Candidate struct {
	Key   string  `json:"key"`
	Score float64 `json:"score"`
}

type MatchResult struct {
	Product      string      `json:"produto"`
	Price        string      `json:"preco"`
	Match        string      `json:"match,omitempty"` // empty when nothing qualified
	Score        float64     `json:"pontuacao"`
	Alternatives []Candidate `json:"alternativas"`
	Status       Status      `json:"status"`
}

// Summary counts results per status.
type Summary struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}

func Summarize(results []MatchResult) Summary {
	s := Summary{
		Total: len(results),
		ByStatus: map[Status]int{
			StatusOK: 0, StatusReview: 0, StatusVerify: 0, StatusNotFound: 0,
		},
	}
	for _, r := range results {
		s.ByStatus[r.Status]++
	}
	return s
}
