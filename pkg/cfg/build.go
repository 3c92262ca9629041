// 1 Mar 2026

package cfg

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/dgront/surpass/pkg/mc"
	"github.com/dgront/surpass/pkg/measure"
	"github.com/dgront/surpass/pkg/mover"
	"github.com/dgront/surpass/pkg/ssread"
	"github.com/dgront/surpass/pkg/system"
)

// Simulation is a fully wired trajectory, ready to Run.
type Simulation struct {
	Sys      *system.System
	Proto    *mc.Isothermal
	Adaptive *mc.Adaptive

	outer, inner int
}

// Build constructs the system, the energy, the protocol and the
// observers described by the configuration.
func (c *Cfg) Build() (*Simulation, error) {
	ss := c.Chains
	if c.ChainsFile != "" {
		var err error
		if ss, err = ssread.ReadFile(c.ChainsFile); err != nil {
			return nil, err
		}
	}

	var box system.BoxDef
	if c.BoxSide > 0 {
		box = system.FixedSide(c.BoxSide)
	} else {
		box = system.Density(c.Density)
	}

	// the cell side must cover the largest interaction distance
	cutoff, clash := 0.0, 0.0
	if ev := c.Energy.ExcludedVolume; ev != nil {
		cutoff = math.Max(cutoff, ev.RRep)
		clash = math.Max(clash, ev.RRep)
	}
	if ct := c.Energy.Contact; ct != nil {
		cutoff = math.Max(cutoff, ct.RMax)
		clash = math.Max(clash, ct.RRep)
	}
	opts := &system.Options{
		BondLength:  c.bondLength(),
		ClashRadius: clash,
		CellSide:    cutoff,
	}

	rng := rand.New(rand.NewSource(c.Seed))
	sys, err := system.BySecondaryStructure(ss, box, opts, rng)
	if err != nil {
		return nil, fmt.Errorf("building the system: %w", err)
	}

	total := c.terms(sys.Space())
	proto := mc.NewIsothermal(sys, total,
		mc.NewMetropolis(c.Temperature, c.Seed+1), rng, system.DefaultProposalCap)

	if sa := c.Movers.SingleAtom; sa != nil {
		proto.AddMover(mover.NewSingleAtom(sa.MaxStep), weight(sa.Weight))
	}
	if tm := c.Movers.Terminal; tm != nil {
		proto.AddMover(mover.NewTerminal(c.bondLength(), tm.Tol), weight(tm.Weight))
	}
	if h := c.Movers.Hinge; h != nil {
		proto.AddMover(mover.NewHinge(radians(h.MaxAngleDeg)), weight(h.Weight))
	}
	if pv := c.Movers.Pivot; pv != nil {
		proto.AddMover(mover.NewPivot(radians(pv.MaxAngleDeg)), weight(pv.Weight))
	}

	if err := c.addObservers(proto, sys); err != nil {
		return nil, err
	}

	sim := &Simulation{Sys: sys, Proto: proto, outer: c.OuterSteps, inner: c.InnerSteps}
	if c.Adaptive {
		sim.Adaptive = mc.NewAdaptive(proto)
	}
	return sim, nil
}

func (c *Cfg) addObservers(proto *mc.Isothermal, sys *system.System) error {
	if path := c.Observers.Measurements; path != "" {
		var ms []measure.Measurement
		for k := 0; k < sys.CountChains(); k++ {
			ms = append(ms, measure.NewREndSquared(k), measure.NewRgSquared(k),
				measure.NewChainCM(k))
		}
		rec, err := measure.RecordToFile(path, ms...)
		if err != nil {
			return err
		}
		proto.AddObserver(rec)
	}
	if path := c.Observers.Trajectory; path != "" {
		tr, err := measure.PDBTrajectoryToFile(path)
		if err != nil {
			return err
		}
		proto.AddObserver(tr)
	}
	if ct := c.Observers.Contacts; ct != nil {
		cf, err := measure.ContactFrequencyToFile(sys, ct.RContact, ct.File)
		if err != nil {
			return err
		}
		proto.AddObserver(cf)
	}
	if w := c.Observers.CMDisplacement; w != nil {
		cd, err := measure.CMDisplacementToFile(sys, w.Window, w.File)
		if err != nil {
			return err
		}
		proto.AddObserver(cd)
	}
	if w := c.Observers.REndAutocorr; w != nil {
		ac, err := measure.AutocorrelateToFile(measure.NewREndVector(0), w.Window, w.File)
		if err != nil {
			return err
		}
		proto.AddObserver(ac)
	}
	return nil
}

// Run executes the configured trajectory and closes the observers.
func (s *Simulation) Run(ctx context.Context) error {
	var err error
	if s.Adaptive != nil {
		err = s.Adaptive.Run(ctx, s.outer, s.inner)
	} else {
		err = s.Proto.Run(ctx, s.outer, s.inner)
	}
	if cerr := s.Proto.CloseObservers(); err == nil {
		err = cerr
	}
	return err
}

// weight defaults a left-out mover or term weight to 1.
func weight(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
