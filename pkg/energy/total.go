// 22 Feb 2026

package energy

import (
	"github.com/dgront/surpass/pkg/system"
)

// Total is an additive composite: a list of energy terms with real
// weights. A zero weight disables a term without removing it.
type Total struct {
	terms   []Energy
	weights []float64
}

// NewTotal makes an empty composite.
func NewTotal() *Total { return &Total{} }

// Add appends a weighted term and returns the composite for chaining.
func (t *Total) Add(e Energy, weight float64) *Total {
	t.terms = append(t.terms, e)
	t.weights = append(t.weights, weight)
	return t
}

// Len returns the number of terms.
func (t *Total) Len() int { return len(t.terms) }

// Cutoff returns the largest cutoff over all terms; the neighbor cell
// side must be at least this.
func (t *Total) Cutoff() float64 {
	max := 0.0
	for _, e := range t.terms {
		if c := e.Cutoff(); c > max {
			max = c
		}
	}
	return max
}

func (t *Total) Evaluate(s *system.System) float64 {
	total := 0.0
	for i, e := range t.terms {
		if t.weights[i] == 0 {
			continue
		}
		total += t.weights[i] * e.Evaluate(s)
	}
	return total
}

func (t *Total) EvaluateDelta(s *system.System, p *system.Proposal) float64 {
	total := 0.0
	for i, e := range t.terms {
		if t.weights[i] == 0 {
			continue
		}
		total += t.weights[i] * e.EvaluateDelta(s, p)
	}
	return total
}
