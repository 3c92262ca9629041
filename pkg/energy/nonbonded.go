// 21 Feb 2026

package energy

import (
	"github.com/dgront/surpass/pkg/system"
)

// NonBonded evaluates a pairwise kernel over all non-bonded bead
// pairs, using the system's cell list to find candidates. Directly
// bonded pairs (consecutive beads of one chain) are excluded; their
// geometry belongs to bond terms.
type NonBonded struct {
	kernel NonBondedKernel

	// scratch for delta evaluation: seen[j] == stamp marks partner j
	// as already counted for the current moved bead, so a partner
	// found around both the old and the new position is not counted
	// twice. No allocation happens per step.
	seen  []int64
	stamp int64
}

// NewNonBonded wraps a kernel into an energy term.
func NewNonBonded(kernel NonBondedKernel) *NonBonded {
	return &NonBonded{kernel: kernel}
}

func (e *NonBonded) Cutoff() float64 { return e.kernel.DistanceCutoff() }

// Evaluate computes the total from scratch. Every pair within cutoff
// shows up in the 3x3x3 neighborhood of both its members; counting
// only j < i keeps each pair once.
func (e *NonBonded) Evaluate(s *system.System) float64 {
	sp := s.Space()
	total := 0.0
	for i := 1; i < s.CountAtoms(); i++ {
		pi := s.CA(i)
		s.ForNeighbors(i, func(j int) {
			if j >= i || s.BondedPair(i, j) {
				return
			}
			total += e.kernel.EnergyForDistanceSquared(sp.Dist2Int(pi, s.CA(j)))
		})
	}
	return total
}

// EvaluateDelta computes the energy change the proposal would cause.
// For each moved bead the candidate partners are the union of the
// cells around its old and its new position, queried while the index
// still reflects the old configuration; pairs where both beads move
// are handled once at the end from the proposal alone.
func (e *NonBonded) EvaluateDelta(s *system.System, p *system.Proposal) float64 {
	if cap(e.seen) < s.CountAtoms() {
		e.seen = make([]int64, s.CountAtoms())
	}
	sp := s.Space()
	delta := 0.0
	for k := 0; k < p.Len(); k++ {
		i := p.Atom(k)
		oldPos := s.CA(i)
		newPos := p.Pos(k)
		e.stamp++
		visit := func(j int) {
			if e.seen[j] == e.stamp {
				return
			}
			e.seen[j] = e.stamp
			if p.Contains(j) || s.BondedPair(i, j) {
				return
			}
			pj := s.CA(j)
			delta += e.kernel.EnergyForDistanceSquared(sp.Dist2Int(newPos, pj)) -
				e.kernel.EnergyForDistanceSquared(sp.Dist2Int(oldPos, pj))
		}
		s.ForNeighbors(i, visit)
		s.ForNeighborsAt(newPos, i, visit)
	}
	// pairs inside the moved set, each once
	for a := 0; a < p.Len(); a++ {
		for b := a + 1; b < p.Len(); b++ {
			i, j := p.Atom(a), p.Atom(b)
			if s.BondedPair(i, j) {
				continue
			}
			delta += e.kernel.EnergyForDistanceSquared(sp.Dist2Int(p.Pos(a), p.Pos(b))) -
				e.kernel.EnergyForDistanceSquared(sp.Dist2Int(s.CA(i), s.CA(j)))
		}
	}
	return delta
}
