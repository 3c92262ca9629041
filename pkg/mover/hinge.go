// 17 Feb 2026

package mover

import (
	"math/rand"

	"github.com/dgront/surpass/pkg/system"
)

// Hinge is a crankshaft move: an internal bead rotates by a random
// angle around the axis through its two chain neighbors. Both
// flanking bond lengths are preserved by construction, up to the
// quantization error on write.
type Hinge struct {
	maxAngle float64 // radians
}

// NewHinge makes a hinge mover with the given angle limit in radians.
func NewHinge(maxAngle float64) *Hinge { return &Hinge{maxAngle: maxAngle} }

func (m *Hinge) Name() string { return "hinge" }
func (m *Hinge) MaxRange() float64 { return m.maxAngle }
func (m *Hinge) SetMaxRange(r float64) { m.maxAngle = r }

func (m *Hinge) Propose(s *system.System, rng *rand.Rand, p *system.Proposal) bool {
	p.Clear()
	r := randChain(s, rng)
	if r.Len() < 3 {
		return false
	}
	i := r.Start + 1 + rng.Intn(r.Len()-2)
	angle := (2*rng.Float64() - 1) * m.maxAngle

	// unwrap the three beads into the frame of the left neighbor
	a := s.CAVec(i - 1)
	v := nearestFrom(s, i, i-1, a)
	b := nearestFrom(s, i+1, i-1, a)

	rotated, ok := rotateAbout(v, a, b, angle)
	if !ok { // neighbors on top of each other, no axis
		return false
	}
	p.Add(i, s.Space().PointFromVec(rotated))
	return true
}
