// 17 Feb 2026

package mover

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dgront/surpass/pkg/system"
)

// Terminal moves the first or the last bead of a random chain to a
// fresh random direction, keeping the bond to its neighbor at the
// target length give or take the tolerance.
type Terminal struct {
	bondLength float64
	tol        float64
}

// NewTerminal makes a terminal mover. tol is how far from bondLength
// the regrown bond may end up.
func NewTerminal(bondLength, tol float64) *Terminal {
	return &Terminal{bondLength: bondLength, tol: tol}
}

func (m *Terminal) Name() string { return "terminal" }
func (m *Terminal) MaxRange() float64 { return m.tol }
func (m *Terminal) SetMaxRange(r float64) { m.tol = r }

func (m *Terminal) Propose(s *system.System, rng *rand.Rand, p *system.Proposal) bool {
	p.Clear()
	r := randChain(s, rng)
	if r.Len() < 2 {
		return false
	}
	var moved, anchor int
	if rng.Intn(2) == 0 {
		moved, anchor = r.Start, r.Start+1
	} else {
		moved, anchor = r.End-1, r.End-2
	}
	length := m.bondLength + (2*rng.Float64()-1)*m.tol
	dir := randUnit(rng)
	pos := r3.Add(s.CAVec(anchor), r3.Scale(length, dir))
	p.Add(moved, s.Space().PointFromVec(pos))
	return true
}

// randUnit draws a uniformly distributed direction.
func randUnit(rng *rand.Rand) r3.Vec {
	for {
		v := r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		n := r3.Norm(v)
		if n > 1e-12 {
			return r3.Scale(1/n, v)
		}
	}
}
