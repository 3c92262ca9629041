// 25 Feb 2026

package mc

import (
	"context"
	"math"
)

// Adaptive wraps an isothermal protocol and, after each window of
// outer cycles, nudges every mover's range toward a target acceptance
// rate: multiply by (1+alpha) when the mover is accepted too often,
// divide when too rarely. alpha decays as 1/sqrt(window), so early
// windows adjust briskly and later ones settle. Ranges stay within a
// fixed factor of their starting value.
type Adaptive struct {
	// TargetRate is the acceptance rate to steer toward.
	TargetRate float64
	// Alpha0 is the initial adjustment amplitude.
	Alpha0 float64
	// WindowOuter is how many outer cycles form one adjustment
	// window.
	WindowOuter int

	proto   *Isothermal
	window  int
	minimum []float64
	maximum []float64
}

// NewAdaptive wraps a protocol with mover-range adaptation. Allowed
// ranges are pinned to [1/4, 4] times each mover's range at wrap
// time.
func NewAdaptive(proto *Isothermal) *Adaptive {
	a := &Adaptive{
		TargetRate:  0.4,
		Alpha0:      0.2,
		WindowOuter: 10,
		proto:       proto,
	}
	for i := 0; i < proto.CountMovers(); i++ {
		r := proto.Mover(i).MaxRange()
		a.minimum = append(a.minimum, r/4)
		a.maximum = append(a.maximum, r*4)
	}
	return a
}

// Proto returns the wrapped protocol.
func (a *Adaptive) Proto() *Isothermal { return a.proto }

// Run executes the trajectory in adjustment windows.
func (a *Adaptive) Run(ctx context.Context, outerSteps, innerSteps int) error {
	for done := 0; done < outerSteps; {
		w := a.WindowOuter
		if w > outerSteps-done {
			w = outerSteps - done
		}
		if err := a.proto.Run(ctx, w, innerSteps); err != nil {
			return err
		}
		done += w
		a.adjust()
	}
	return nil
}

func (a *Adaptive) adjust() {
	a.window++
	alpha := a.Alpha0 / math.Sqrt(float64(a.window))
	for i := 0; i < a.proto.CountMovers(); i++ {
		stats := a.proto.MoverStats(i)
		if stats.NAccepted+stats.NRejected == 0 {
			continue
		}
		m := a.proto.Mover(i)
		r := m.MaxRange()
		if stats.SuccessRate() > a.TargetRate {
			r *= 1 + alpha
		} else {
			r /= 1 + alpha
		}
		if r < a.minimum[i] {
			r = a.minimum[i]
		}
		if r > a.maximum[i] {
			r = a.maximum[i]
		}
		m.SetMaxRange(r)
	}
	a.proto.ResetMoverStats()
}
