// 20 Feb 2026

// Package energy scores SURPASS conformations. Non-bonded terms are
// pure kernels over integer squared distances, evaluated through the
// system's cell list; bonded terms walk consecutive beads directly.
// Every term can score a whole system or the exact difference a
// proposal would make, without ever mutating the system.
package energy

import (
	"github.com/dgront/surpass/pkg/system"
)

// Energy is one term of the force field.
type Energy interface {
	// Evaluate computes the term from scratch.
	Evaluate(s *system.System) float64
	// EvaluateDelta computes the energy difference the proposal would
	// cause if applied. The system is left untouched.
	EvaluateDelta(s *system.System, p *system.Proposal) float64
	// Cutoff returns the interaction distance in real units beyond
	// which the term is zero; the neighbor cell side must be at least
	// the largest cutoff over all terms. Bonded terms return 0.
	Cutoff() float64
}

// NonBondedKernel maps an integer squared distance to an energy
// contribution. Kernels are stateless; the quantization of their
// radii happens once at construction.
type NonBondedKernel interface {
	EnergyForDistanceSquared(d2 int64) float64
	// DistanceCutoff is the real-space distance beyond which the
	// kernel returns 0.
	DistanceCutoff() float64
}
