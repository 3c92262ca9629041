// 24 Feb 2026

package mc

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/dgront/surpass/pkg/energy"
	"github.com/dgront/surpass/pkg/mover"
	"github.com/dgront/surpass/pkg/system"
)

// Observer is a passive measurement sink, called between outer
// cycles. Observers own their output and any rolling state.
type Observer interface {
	Observe(s *system.System) error
	Close() error
}

type weightedMover struct {
	m      mover.Mover
	weight float64
	stats  AcceptanceStatistics
}

// Isothermal runs a constant-temperature Monte Carlo trajectory:
// inner steps propose/score/accept single moves, outer cycles feed
// the observers. The protocol owns the running energy, the proposal
// buffer, the RNG and the per-mover acceptance statistics.
type Isothermal struct {
	// StrictObservers makes an observer error abort the run instead
	// of being counted and skipped.
	StrictObservers bool

	sys       *system.System
	total     energy.Energy
	criterion AcceptanceCriterion
	rng       *rand.Rand
	proposal  *system.Proposal
	movers    []weightedMover
	sumWeight float64
	observers []Observer

	runningE        float64
	seeded          bool
	nullSteps       int64
	observerErrs    int64
	lastObserverErr error
}

// NewIsothermal wires a protocol. The running energy is seeded from a
// from-scratch evaluation on the first Run call.
func NewIsothermal(s *system.System, total energy.Energy, criterion AcceptanceCriterion,
	rng *rand.Rand, proposalCap int) *Isothermal {
	return &Isothermal{
		sys:       s,
		total:     total,
		criterion: criterion,
		rng:       rng,
		proposal:  system.NewProposal(proposalCap),
	}
}

// AddMover registers a mover with a sampling weight.
func (p *Isothermal) AddMover(m mover.Mover, weight float64) {
	if weight <= 0 {
		return
	}
	p.movers = append(p.movers, weightedMover{m: m, weight: weight})
	p.sumWeight += weight
}

// AddObserver appends an observer; observers run in registration
// order between outer cycles.
func (p *Isothermal) AddObserver(o Observer) { p.observers = append(p.observers, o) }

// CountMovers returns the number of registered movers.
func (p *Isothermal) CountMovers() int { return len(p.movers) }

// Mover returns the i-th registered mover.
func (p *Isothermal) Mover(i int) mover.Mover { return p.movers[i].m }

// MoverStats returns acceptance counters of the i-th mover.
func (p *Isothermal) MoverStats(i int) AcceptanceStatistics { return p.movers[i].stats }

// ResetMoverStats zeroes all per-mover counters.
func (p *Isothermal) ResetMoverStats() {
	for i := range p.movers {
		p.movers[i].stats.Reset()
	}
}

// Energy returns the running total energy.
func (p *Isothermal) Energy() float64 { return p.runningE }

// NullSteps returns how many steps were null because a mover
// declined.
func (p *Isothermal) NullSteps() int64 { return p.nullSteps }

// ObserverErrors returns how many observer calls failed in
// non-strict mode, with the most recent error.
func (p *Isothermal) ObserverErrors() (int64, error) {
	return p.observerErrs, p.lastObserverErr
}

// pickMover draws a mover with probability proportional to weight.
func (p *Isothermal) pickMover() *weightedMover {
	x := p.rng.Float64() * p.sumWeight
	for i := range p.movers {
		x -= p.movers[i].weight
		if x < 0 {
			return &p.movers[i]
		}
	}
	return &p.movers[len(p.movers)-1]
}

// Run executes outer*inner Monte Carlo steps, observing between
// outer cycles. Cancellation is checked at the top of each outer
// iteration and leaves the system fully coherent.
func (p *Isothermal) Run(ctx context.Context, outerSteps, innerSteps int) error {
	if len(p.movers) == 0 {
		return fmt.Errorf("no movers registered")
	}
	if !p.seeded {
		p.runningE = p.total.Evaluate(p.sys)
		p.seeded = true
	}
	for o := 0; o < outerSteps; o++ {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for i := 0; i < innerSteps; i++ {
			wm := p.pickMover()
			if !wm.m.Propose(p.sys, p.rng, p.proposal) {
				p.nullSteps++
				continue
			}
			deltaE := p.total.EvaluateDelta(p.sys, p.proposal)
			if p.criterion.Check(p.runningE, p.runningE+deltaE) {
				p.sys.Apply(p.proposal)
				p.runningE += deltaE
				wm.stats.NAccepted++
			} else {
				wm.stats.NRejected++
			}
		}
		for _, obs := range p.observers {
			if err := obs.Observe(p.sys); err != nil {
				if p.StrictObservers {
					return fmt.Errorf("observer: %w", err)
				}
				p.observerErrs++
				p.lastObserverErr = err
			}
		}
	}
	return nil
}

// CloseObservers closes every observer, returning the first error.
func (p *Isothermal) CloseObservers() error {
	var first error
	for _, obs := range p.observers {
		if err := obs.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
