// 18 Feb 2026

package mover_test

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/dgront/surpass/pkg/mover"
	"github.com/dgront/surpass/pkg/system"
)

func build(t *testing.T, ss []string, seed int64) *system.System {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	s, err := system.BySecondaryStructure(ss, system.FixedSide(40), nil, rng)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func inBox(s *system.System, p *system.Proposal) bool {
	li := s.Space().BoxSideInt()
	for k := 0; k < p.Len(); k++ {
		q := p.Pos(k)
		if q.X < 0 || q.X >= li || q.Y < 0 || q.Y >= li || q.Z < 0 || q.Z >= li {
			return false
		}
	}
	return true
}

func TestSingleAtomStaysInternalAndBounded(t *testing.T) {
	s := build(t, []string{"HHHHHHHHHH", "EEEE"}, 1)
	m := NewSingleAtom(1.0)
	rng := rand.New(rand.NewSource(2))
	p := system.NewProposal(system.DefaultProposalCap)
	for n := 0; n < 500; n++ {
		if !m.Propose(s, rng, p) {
			continue
		}
		if p.Len() != 1 {
			t.Fatal("single-atom moved", p.Len(), "beads")
		}
		i := p.Atom(0)
		r := s.ChainAtoms(s.Chain(i))
		if i == r.Start || i == r.End-1 {
			t.Fatal("single-atom touched a terminus")
		}
		if !inBox(s, p) {
			t.Fatal("proposed position outside the box")
		}
		d2 := s.Space().Dist2(s.CA(i), p.Pos(0))
		if d2 > 1.0*1.0+1e-9 {
			t.Fatalf("step %g longer than the 1 A limit", math.Sqrt(d2))
		}
	}
}

func TestTerminalKeepsBondLength(t *testing.T) {
	s := build(t, []string{"CCCCCCCC"}, 3)
	m := NewTerminal(3.8, 0.2)
	rng := rand.New(rand.NewSource(4))
	p := system.NewProposal(system.DefaultProposalCap)
	for n := 0; n < 500; n++ {
		if !m.Propose(s, rng, p) {
			t.Fatal("terminal mover declined on a healthy chain")
		}
		i := p.Atom(0)
		r := s.ChainAtoms(s.Chain(i))
		var anchor int
		switch i {
		case r.Start:
			anchor = r.Start + 1
		case r.End - 1:
			anchor = r.End - 2
		default:
			t.Fatal("terminal mover moved an internal bead")
		}
		if !inBox(s, p) {
			t.Fatal("proposed position outside the box")
		}
		bond := math.Sqrt(s.Space().Dist2(p.Pos(0), s.CA(anchor)))
		slack := 0.2 + 2.0/s.Space().Q()
		if bond < 3.8-slack || bond > 3.8+slack {
			t.Fatalf("regrown bond is %g, want 3.8 within %g", bond, slack)
		}
	}
}

// Hinge: flanking bonds of the pivoted bead must be preserved within
// a couple of quanta.
func TestHingePreservesFlankingBonds(t *testing.T) {
	s := build(t, []string{"HHHHHHHHHH"}, 5)
	m := NewHinge(math.Pi / 2)
	rng := rand.New(rand.NewSource(6))
	p := system.NewProposal(system.DefaultProposalCap)
	tol := 2.0 / s.Space().Q()
	for n := 0; n < 500; n++ {
		if !m.Propose(s, rng, p) {
			continue
		}
		i := p.Atom(0)
		before1 := math.Sqrt(s.DistanceSquared(i-1, i))
		before2 := math.Sqrt(s.DistanceSquared(i, i+1))
		after1 := math.Sqrt(s.Space().Dist2(s.CA(i-1), p.Pos(0)))
		after2 := math.Sqrt(s.Space().Dist2(p.Pos(0), s.CA(i+1)))
		if math.Abs(before1-after1) > tol || math.Abs(before2-after2) > tol {
			t.Fatalf("hinge changed flanking bonds: %g->%g, %g->%g",
				before1, after1, before2, after2)
		}
	}
}

// Pivot must preserve every bond of the rotated fragment and decline
// when the fragment would overflow the proposal.
func TestPivotPreservesBonds(t *testing.T) {
	s := build(t, []string{"HHHHHHHHHH"}, 7)
	m := NewPivot(math.Pi / 4)
	rng := rand.New(rand.NewSource(8))
	p := system.NewProposal(system.DefaultProposalCap)
	tol := 3.0 / s.Space().Q()
	proposedOnce := false
	for n := 0; n < 500; n++ {
		if !m.Propose(s, rng, p) {
			continue
		}
		proposedOnce = true
		// all bonds inside the chain, using proposed positions where
		// a bead moved
		r := s.ChainAtoms(s.Chain(p.Atom(0)))
		for i := r.Start + 1; i < r.End; i++ {
			a := s.CA(i - 1)
			if q, ok := p.PosOf(i - 1); ok {
				a = q
			}
			b := s.CA(i)
			if q, ok := p.PosOf(i); ok {
				b = q
			}
			bond := math.Sqrt(s.Space().Dist2(a, b))
			if math.Abs(bond-3.8) > tol+0.2 {
				t.Fatalf("pivot stretched bond %d-%d to %g", i-1, i, bond)
			}
		}
	}
	if !proposedOnce {
		t.Fatal("pivot never produced a proposal on a 10-bead chain")
	}
}

func TestPivotDeclinesOversizedFragment(t *testing.T) {
	// 30 beads, proposal capacity 2: most bonds flank fragments
	// bigger than the capacity, so declines must happen
	s := build(t, []string{"HHHHHHHHHHHHHHHHHHHHHHHHHHHHHH"}, 9)
	m := NewPivot(math.Pi / 4)
	rng := rand.New(rand.NewSource(10))
	p := system.NewProposal(2)
	declined := 0
	for n := 0; n < 200; n++ {
		if !m.Propose(s, rng, p) {
			declined++
			continue
		}
		if p.Len() > p.Cap() {
			t.Fatal("accepted fragment larger than capacity")
		}
	}
	if declined == 0 {
		t.Error("pivot never declined although most fragments exceed capacity")
	}
}

func TestMaxRangeRoundTrip(t *testing.T) {
	movers := []Mover{
		NewSingleAtom(1.0), NewTerminal(3.8, 0.2), NewHinge(0.5), NewPivot(0.7),
	}
	for _, m := range movers {
		m.SetMaxRange(0.123)
		if m.MaxRange() != 0.123 {
			t.Errorf("%s: SetMaxRange did not stick", m.Name())
		}
	}
}
