// 18 Feb 2026

package mover

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dgront/surpass/pkg/system"
)

// Pivot picks a bond of a random chain and rotates the shorter side
// of the chain around it by a random angle. When the fragment would
// not fit into the proposal the mover declines and the step is null.
type Pivot struct {
	maxAngle float64 // radians
}

// NewPivot makes a pivot mover with the given angle limit in radians.
func NewPivot(maxAngle float64) *Pivot { return &Pivot{maxAngle: maxAngle} }

func (m *Pivot) Name() string { return "pivot" }
func (m *Pivot) MaxRange() float64 { return m.maxAngle }
func (m *Pivot) SetMaxRange(r float64) { m.maxAngle = r }

func (m *Pivot) Propose(s *system.System, rng *rand.Rand, p *system.Proposal) bool {
	p.Clear()
	r := randChain(s, rng)
	if r.Len() < 3 {
		return false
	}
	// bond between j and j+1
	j := r.Start + rng.Intn(r.Len()-1)

	// the two fragments flanking the bond; rotate the shorter one
	left := j - r.Start          // beads [r.Start, j)
	right := r.End - (j + 2)     // beads [j+2, r.End)
	var from, to, step int       // iteration from the axis outwards
	if left <= right {
		from, to, step = j-1, r.Start-1, -1
		if left == 0 {
			return false
		}
		if left > p.Cap() {
			return false
		}
	} else {
		from, to, step = j+2, r.End, 1
		if right == 0 || right > p.Cap() {
			return false
		}
	}

	angle := (2*rng.Float64() - 1) * m.maxAngle
	axisA := s.CAVec(j)
	axisB := nearestFrom(s, j+1, j, axisA)
	if r3.Norm(r3.Sub(axisB, axisA)) < 1e-9 {
		return false
	}

	sp := s.Space()
	// walk away from the axis, unwrapping each bead against the
	// previous one so box wraps cannot tear the fragment
	ref := j
	refVec := axisA
	if step > 0 {
		ref = j + 1
		refVec = axisB
	}
	for i := from; i != to; i += step {
		v := nearestFrom(s, i, ref, refVec)
		rotated, _ := rotateAbout(v, axisA, axisB, angle)
		if p.Add(i, sp.PointFromVec(rotated)) != nil {
			return false
		}
		ref, refVec = i, v
	}
	return true
}
