package model

import "time"

// Kind classifies where in the number tower a result settled
type Kind string

const (
	KindInteger   Kind = "integer"
	KindRational  Kind = "rational"
	KindRoot      Kind = "root"
	KindAlgebraic Kind = "algebraic"
)

// Result is the outcome of evaluating one expression.
// It is what the cache stores and what the renderer writes.
type Result struct {
	Expression  string    `json:"expression"`           // Input as given
	Normalized  string    `json:"normalized"`           // Canonical form of the parsed expression
	Kind        Kind      `json:"kind"`                 // Tower level after simplification
	Value       string    `json:"value"`                // Exact value
	Decimal     string    `json:"decimal,omitempty"`    // Periodic decimal form (rationals only)
	Approx      string    `json:"approx,omitempty"`     // Decimal approximation (irrationals only)
	Periodic    bool      `json:"periodic"`             // Whether the decimal expansion repeats
	Polynomial  []string  `json:"polynomial,omitempty"` // Minimal coefficients, constant term first
	RootIndex   *int      `json:"root_index,omitempty"` // Index into the ascending real roots
	EvaluatedAt time.Time `json:"evaluated_at"`
	Cached      bool      `json:"cached"`
}

// Summary aggregates a set of results for batch output
type Summary struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	ByKind    map[Kind]int `json:"by_kind"`
}

// Summarize counts results by outcome and kind; nil entries are failures
func Summarize(results []*Result) Summary {
	s := Summary{Total: len(results), ByKind: make(map[Kind]int)}
	for _, r := range results {
		if r == nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.ByKind[r.Kind]++
	}
	return s
}
