// 13 Feb 2026

package system_test

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dgront/surpass/pkg/quant"
	. "github.com/dgront/surpass/pkg/system"
)

func TestParseSS(t *testing.T) {
	if _, err := ParseSS("HHECCC"); err != nil {
		t.Error("valid string rejected:", err)
	}
	for _, bad := range []string{"", "HHX", "hhh", "H E"} {
		if _, err := ParseSS(bad); !errors.Is(err, ErrBadSSCode) {
			t.Errorf("ParseSS(%q) gave %v, want ErrBadSSCode", bad, err)
		}
	}
}

func mustBuild(t *testing.T, ss []string, box BoxDef, seed int64) *System {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	s, err := BySecondaryStructure(ss, box, nil, rng)
	if err != nil {
		t.Fatal("BySecondaryStructure:", err)
	}
	return s
}

func TestChainPartition(t *testing.T) {
	s := mustBuild(t, []string{"HHHHHHHH", "EEEEEEEE", "CCCC"}, FixedSide(60), 1)
	if s.CountChains() != 3 {
		t.Fatal("want 3 chains, got", s.CountChains())
	}
	at := 0
	for k := 0; k < s.CountChains(); k++ {
		r := s.ChainAtoms(k)
		if r.Start != at {
			t.Errorf("chain %d starts at %d, want %d", k, r.Start, at)
		}
		for i := r.Start; i < r.End; i++ {
			if s.Chain(i) != k {
				t.Errorf("atom %d maps to chain %d, want %d", i, s.Chain(i), k)
			}
		}
		at = r.End
	}
	if at != s.CountAtoms() {
		t.Errorf("chain ranges cover %d atoms of %d", at, s.CountAtoms())
	}
}

func TestDensityBoxSide(t *testing.T) {
	s := mustBuild(t, []string{"CCCCC"}, Density(0.001), 2)
	want := math.Cbrt(5 / 0.001)
	if got := s.Space().BoxSide(); math.Abs(got-want) > 1e-9 {
		t.Errorf("box side %g, want %g", got, want)
	}
}

func TestBuilderGeometry(t *testing.T) {
	s := mustBuild(t, []string{"HHHHHHHHHH", "EEEEEEEEEE"}, FixedSide(50), 3)
	// bond lengths within a couple of quanta of 3.8
	tol := 2.0 / s.Space().Q()
	for k := 0; k < s.CountChains(); k++ {
		r := s.ChainAtoms(k)
		for i := r.Start + 1; i < r.End; i++ {
			b := math.Sqrt(s.DistanceSquared(i-1, i))
			if math.Abs(b-3.8) > tol {
				t.Errorf("bond %d-%d is %g, want 3.8 within %g", i-1, i, b, tol)
			}
		}
	}
	// self avoidance: no non-bonded pair below the clash radius
	for i := 0; i < s.CountAtoms(); i++ {
		for j := 0; j < i; j++ {
			if s.BondedPair(i, j) {
				continue
			}
			if d2 := s.DistanceSquared(i, j); d2 < 4.0*4.0 {
				t.Errorf("beads %d and %d clash: d=%g", i, j, math.Sqrt(d2))
			}
		}
	}
}

func TestBuilderInfeasibleDensity(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	// 60 beads into a box that cannot hold them at a 4 A clash radius
	_, err := BySecondaryStructure(
		[]string{"CCCCCCCCCCCCCCCCCCCCCCCCCCCCCC", "CCCCCCCCCCCCCCCCCCCCCCCCCCCCCC"},
		FixedSide(15.1), &Options{CellSide: 5, MaxBeadTries: 20, MaxChainRuns: 3}, rng)
	if !errors.Is(err, ErrGeometry) {
		t.Errorf("got %v, want ErrGeometry", err)
	}
}

func TestProposalOverflow(t *testing.T) {
	p := NewProposal(2)
	if err := p.Add(0, quant.Point{}); err != nil {
		t.Fatal(err)
	}
	if err := p.Add(1, quant.Point{}); err != nil {
		t.Fatal(err)
	}
	if err := p.Add(2, quant.Point{}); !errors.Is(err, ErrProposalOverflow) {
		t.Errorf("got %v, want ErrProposalOverflow", err)
	}
	if !p.Contains(1) || p.Contains(2) {
		t.Error("Contains is confused")
	}
	p.Clear()
	if p.Len() != 0 || p.Contains(0) {
		t.Error("Clear did not clear")
	}
}

// brute force neighbor search for comparison
func bruteNeighbors(s *System, i int, cutoff float64) []int {
	var out []int
	for j := 0; j < s.CountAtoms(); j++ {
		if j != i && s.DistanceSquared(i, j) <= cutoff*cutoff {
			out = append(out, j)
		}
	}
	return out
}

func neighborSet(s *System, i int) []int {
	var out []int
	s.ForNeighbors(i, func(j int) { out = append(out, j) })
	sort.Ints(out)
	return out
}

func TestCellListFindsEverythingWithinCutoff(t *testing.T) {
	s := mustBuild(t, []string{"HHHHHHHHHHHHHHHHHHHH", "CCCCCCCCCCCCCCCCCCCC"}, FixedSide(40), 5)
	const cutoff = 8.0 // the default cell side
	for i := 0; i < s.CountAtoms(); i++ {
		got := neighborSet(s, i)
		for _, j := range bruteNeighbors(s, i, cutoff) {
			if !containsInt(got, j) {
				t.Fatalf("neighbor %d of %d (d=%g) missed by the cell list",
					j, i, math.Sqrt(s.DistanceSquared(i, j)))
			}
		}
	}
}

func TestCellListDeterministicOrder(t *testing.T) {
	s := mustBuild(t, []string{"HHHHHHHHHH"}, FixedSide(40), 6)
	var first, second []int
	s.ForNeighbors(3, func(j int) { first = append(first, j) })
	s.ForNeighbors(3, func(j int) { second = append(second, j) })
	if len(first) != len(second) {
		t.Fatal("emission count changed between identical queries")
	}
	for k := range first {
		if first[k] != second[k] {
			t.Fatal("emission order changed between identical queries")
		}
	}
}

// Apply a proposal and its inverse; positions and neighbor sets must
// come back exactly.
func TestApplyThenInverseRestoresState(t *testing.T) {
	s := mustBuild(t, []string{"HHHHHHHHHH"}, FixedSide(40), 7)
	before := make([]quant.Point, s.CountAtoms())
	for i := range before {
		before[i] = s.CA(i)
	}
	beforeNbr := make([][]int, s.CountAtoms())
	for i := range beforeNbr {
		beforeNbr[i] = neighborSet(s, i)
	}

	fwd := NewProposal(2)
	inv := NewProposal(2)
	old := s.CA(4)
	moved := quant.Point{X: s.Space().Wrap(old.X + 100), Y: old.Y, Z: old.Z}
	fwd.Add(4, moved)
	inv.Add(4, old)

	s.Apply(fwd)
	if s.CA(4) != moved {
		t.Fatal("Apply did not move the bead")
	}
	s.Apply(inv)

	for i := range before {
		if s.CA(i) != before[i] {
			t.Fatalf("bead %d at %v, want %v after inverse", i, s.CA(i), before[i])
		}
	}
	for i := range beforeNbr {
		after := neighborSet(s, i)
		if len(after) != len(beforeNbr[i]) {
			t.Fatalf("neighbor set of %d changed size after inverse", i)
		}
		for k := range after {
			if after[k] != beforeNbr[i][k] {
				t.Fatalf("neighbor set of %d changed after inverse", i)
			}
		}
	}
}

func TestFromVecs(t *testing.T) {
	pos := []r3.Vec{
		{X: 10, Y: 10, Z: 10}, {X: 13.8, Y: 10, Z: 10}, {X: 17.6, Y: 10, Z: 10},
	}
	s, err := FromVecs([]string{"CCC"}, FixedSide(40), nil, pos)
	if err != nil {
		t.Fatal(err)
	}
	if got := math.Sqrt(s.DistanceSquared(0, 1)); math.Abs(got-3.8) > 0.05 {
		t.Errorf("bond 0-1 = %g, want 3.8", got)
	}
	if _, err := FromVecs([]string{"CCC"}, FixedSide(40), nil, pos[:2]); err == nil {
		t.Error("mismatched position count accepted")
	}
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
