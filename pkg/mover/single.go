// 16 Feb 2026

package mover

import (
	"math/rand"

	"github.com/dgront/surpass/pkg/quant"
	"github.com/dgront/surpass/pkg/system"
)

// SingleAtom displaces one internal bead of a random chain by a
// vector no longer than its step limit. Termini are left to the
// Terminal mover.
type SingleAtom struct {
	maxStep float64 // real units
}

// NewSingleAtom makes a single-atom mover with the given maximum
// displacement in real units.
func NewSingleAtom(maxStep float64) *SingleAtom { return &SingleAtom{maxStep: maxStep} }

func (m *SingleAtom) Name() string { return "single-atom" }
func (m *SingleAtom) MaxRange() float64 { return m.maxStep }
func (m *SingleAtom) SetMaxRange(r float64) { m.maxStep = r }

func (m *SingleAtom) Propose(s *system.System, rng *rand.Rand, p *system.Proposal) bool {
	p.Clear()
	r := randChain(s, rng)
	if r.Len() < 3 {
		return false
	}
	i := r.Start + 1 + rng.Intn(r.Len()-2)

	sp := s.Space()
	step := sp.Units(m.maxStep)
	if step < 1 {
		return false
	}
	// uniform in the ball of radius step, rejection from the cube
	var dx, dy, dz int32
	for {
		dx = rng.Int31n(2*step+1) - step
		dy = rng.Int31n(2*step+1) - step
		dz = rng.Int31n(2*step+1) - step
		d2 := int64(dx)*int64(dx) + int64(dy)*int64(dy) + int64(dz)*int64(dz)
		if d2 != 0 && d2 <= int64(step)*int64(step) {
			break
		}
	}
	old := s.CA(i)
	p.Add(i, quant.Point{
		X: sp.Wrap(old.X + dx),
		Y: sp.Wrap(old.Y + dy),
		Z: sp.Wrap(old.Z + dz),
	})
	return true
}
