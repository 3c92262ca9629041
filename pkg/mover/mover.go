// 16 Feb 2026

// Package mover holds the strategies that fill a move proposal:
// single-atom, terminal, hinge and pivot perturbations. A mover never
// touches the system or the neighbor index; it only reads coordinates
// and writes wrapped integer positions into the proposal.
package mover

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dgront/surpass/pkg/system"
)

// Mover fills a proposal with 1..N moved beads. Propose returns false
// when the mover declines (for example the fragment would not fit into
// the proposal); the protocol treats that as a null step. MaxRange and
// SetMaxRange expose the step or angle limit so an adaptive protocol
// can tune acceptance.
type Mover interface {
	Propose(s *system.System, rng *rand.Rand, p *system.Proposal) bool
	MaxRange() float64
	SetMaxRange(r float64)
	Name() string
}

// nearestFrom returns the real position of bead i in the periodic
// image closest to refVec, where refVec is an already unwrapped image
// of bead ref. Rotations happen in this frame so a chain crossing a
// box wall keeps its shape.
func nearestFrom(s *system.System, i, ref int, refVec r3.Vec) r3.Vec {
	sp := s.Space()
	a, b := s.CA(i), s.CA(ref)
	return r3.Vec{
		X: refVec.X + sp.IntToReal(sp.ClosestDeltaInt(a.X, b.X)),
		Y: refVec.Y + sp.IntToReal(sp.ClosestDeltaInt(a.Y, b.Y)),
		Z: refVec.Z + sp.IntToReal(sp.ClosestDeltaInt(a.Z, b.Z)),
	}
}

// rotateAbout rotates v by angle around the axis through a and b.
func rotateAbout(v, a, b r3.Vec, angle float64) (r3.Vec, bool) {
	axis := r3.Sub(b, a)
	if r3.Norm(axis) < 1e-9 {
		return v, false
	}
	rot := r3.NewRotation(angle, axis)
	return r3.Add(a, rot.Rotate(r3.Sub(v, a))), true
}

// randChain picks a chain uniformly.
func randChain(s *system.System, rng *rand.Rand) system.Range {
	return s.ChainAtoms(rng.Intn(s.CountChains()))
}
