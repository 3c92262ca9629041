// 24 Feb 2026

// Package mc drives SURPASS trajectories: the Metropolis acceptance
// criterion, the isothermal protocol that runs outer/inner sweeps,
// and an adaptive wrapper that tunes mover ranges toward a target
// acceptance rate. One trajectory owns its system, proposal, RNG and
// observers exclusively; nothing here is safe to share across
// goroutines, and nothing needs to be.
package mc

import (
	"math"
	"math/rand"
)

// AcceptanceCriterion decides whether a proposed energy change is
// taken.
type AcceptanceCriterion interface {
	Check(energyBefore, energyAfter float64) bool
}

// AcceptanceStatistics counts accepted and rejected proposals.
type AcceptanceStatistics struct {
	NAccepted int64
	NRejected int64
}

// SuccessRate returns the accepted fraction, 0 when nothing was tried.
func (a AcceptanceStatistics) SuccessRate() float64 {
	sum := a.NAccepted + a.NRejected
	if sum == 0 {
		return 0
	}
	return float64(a.NAccepted) / float64(sum)
}

// RecentSuccessRate returns the accepted fraction of the attempts
// made since prev was recorded.
func (a AcceptanceStatistics) RecentSuccessRate(prev AcceptanceStatistics) float64 {
	acc := a.NAccepted - prev.NAccepted
	rej := a.NRejected - prev.NRejected
	if acc+rej == 0 {
		return 0
	}
	return float64(acc) / float64(acc+rej)
}

// Reset zeroes the counters.
func (a *AcceptanceStatistics) Reset() { a.NAccepted, a.NRejected = 0, 0 }

// Metropolis accepts when the energy drops, and otherwise with
// probability exp(-dE/T). It carries its own RNG so trajectories
// stay reproducible, and counts its verdicts.
type Metropolis struct {
	Temperature float64
	rng         *rand.Rand
	stats       AcceptanceStatistics
}

// NewMetropolis makes a criterion for the given temperature (in units
// of the Boltzmann constant) and RNG seed.
func NewMetropolis(temperature float64, seed int64) *Metropolis {
	return &Metropolis{
		Temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Check applies the Metropolis rule. An infinite energy increase is
// never accepted: exp(-inf) is exactly zero.
func (m *Metropolis) Check(energyBefore, energyAfter float64) bool {
	ok := false
	if energyAfter <= energyBefore {
		ok = true
	} else {
		deltaE := energyAfter - energyBefore
		ok = m.rng.Float64() < math.Exp(-deltaE/m.Temperature)
	}
	if ok {
		m.stats.NAccepted++
	} else {
		m.stats.NRejected++
	}
	return ok
}

// Stats returns the verdict counters so far.
func (m *Metropolis) Stats() AcceptanceStatistics { return m.stats }

// ResetStats zeroes the verdict counters.
func (m *Metropolis) ResetStats() { m.stats.Reset() }
