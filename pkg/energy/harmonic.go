// 21 Feb 2026

package energy

import (
	"math"

	"github.com/dgront/surpass/pkg/quant"
	"github.com/dgront/surpass/pkg/system"
)

// SimpleHarmonic is a spring along every consecutive bead pair inside
// a chain: U = k (d - r0)^2. It is not mediated by the neighbor index.
type SimpleHarmonic struct {
	k, r0 float64
}

// NewSimpleHarmonic makes a bond term with force constant k and
// equilibrium length r0, both in real units.
func NewSimpleHarmonic(k, r0 float64) *SimpleHarmonic {
	return &SimpleHarmonic{k: k, r0: r0}
}

// Cutoff returns 0: bonds do not size the neighbor cells.
func (e *SimpleHarmonic) Cutoff() float64 { return 0 }

func (e *SimpleHarmonic) bond(s *system.System, a, b quant.Point) float64 {
	d := math.Sqrt(s.Space().Dist2(a, b)) - e.r0
	return e.k * d * d
}

func (e *SimpleHarmonic) Evaluate(s *system.System) float64 {
	total := 0.0
	for c := 0; c < s.CountChains(); c++ {
		r := s.ChainAtoms(c)
		for i := r.Start + 1; i < r.End; i++ {
			total += e.bond(s, s.CA(i-1), s.CA(i))
		}
	}
	return total
}

// EvaluateDelta rescores the bonds touching any moved bead. A bond
// with both ends moved is counted from its left end only.
func (e *SimpleHarmonic) EvaluateDelta(s *system.System, p *system.Proposal) float64 {
	delta := 0.0
	for k := 0; k < p.Len(); k++ {
		i := p.Atom(k)
		r := s.ChainAtoms(s.Chain(i))
		if j := i - 1; j >= r.Start && !p.Contains(j) {
			delta += e.bondDiff(s, p, i, j)
		}
		if j := i + 1; j < r.End {
			// from here also when both ends moved, so the pair is
			// scored exactly once
			delta += e.bondDiff(s, p, i, j)
		}
	}
	return delta
}

// bondDiff is the before/after difference for the bond i-j, taking
// the proposed position for any moved end.
func (e *SimpleHarmonic) bondDiff(s *system.System, p *system.Proposal, i, j int) float64 {
	ai, bi := s.CA(i), s.CA(j)
	an, bn := ai, bi
	if q, ok := p.PosOf(i); ok {
		an = q
	}
	if q, ok := p.PosOf(j); ok {
		bn = q
	}
	return e.bond(s, an, bn) - e.bond(s, ai, bi)
}
