// 12 Feb 2026

package system

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dgront/surpass/pkg/quant"
)

// BoxDef says how big the periodic box should be. Either give the
// side directly or give a bead density and let the box grow with the
// system.
type BoxDef interface {
	boxSide(nAtoms int) (float64, error)
}

// FixedSide is a box of the given side length in real units.
type FixedSide float64

func (f FixedSide) boxSide(int) (float64, error) {
	if f <= 0 {
		return 0, fmt.Errorf("box side must be positive, got %g", float64(f))
	}
	return float64(f), nil
}

// Density sets the box side to (nAtoms / rho)^(1/3).
type Density float64

func (d Density) boxSide(nAtoms int) (float64, error) {
	if d <= 0 {
		return 0, fmt.Errorf("density must be positive, got %g", float64(d))
	}
	return math.Cbrt(float64(nAtoms) / float64(d)), nil
}

// Options tunes the system builder. The zero value gets sensible
// SURPASS defaults from fill().
type Options struct {
	BondLength   float64 // distance between consecutive beads, A
	ClashRadius  float64 // self-avoidance radius for the builder, A
	CellSide     float64 // neighbor cell side; at least the largest kernel cutoff
	MaxBeadTries int     // placement attempts per bead before restarting a chain
	MaxChainRuns int     // restarts per chain before giving up
}

func (o *Options) fill() {
	if o.BondLength == 0 {
		o.BondLength = 3.8
	}
	if o.ClashRadius == 0 {
		o.ClashRadius = 4.0
	}
	if o.CellSide == 0 {
		o.CellSide = 2 * o.ClashRadius
	}
	if o.MaxBeadTries == 0 {
		o.MaxBeadTries = 500
	}
	if o.MaxChainRuns == 0 {
		o.MaxChainRuns = 50
	}
}

// BySecondaryStructure builds a system from one secondary structure
// string per chain. Chains are laid out as random self-avoiding walks
// with the builder's bond length; a bead clashing with anything
// already placed is re-drawn, a chain that runs out of attempts is
// restarted, and when even that fails the whole construction fails
// with ErrGeometry.
func BySecondaryStructure(ssStrings []string, box BoxDef, opts *Options, rng *rand.Rand) (*System, error) {
	if len(ssStrings) == 0 {
		return nil, fmt.Errorf("%w: no chains given", ErrBadSSCode)
	}
	var o Options
	if opts != nil {
		o = *opts
	}
	o.fill()

	var ss []SSCode
	chains := make([]Range, 0, len(ssStrings))
	at := 0
	for k, str := range ssStrings {
		codes, err := ParseSS(str)
		if err != nil {
			return nil, fmt.Errorf("chain %d: %w", k, err)
		}
		if len(codes) < 2 {
			return nil, fmt.Errorf("chain %d: %w: need at least 2 beads", k, ErrBadSSCode)
		}
		ss = append(ss, codes...)
		chains = append(chains, Range{Start: at, End: at + len(codes)})
		at += len(codes)
	}
	nAtoms := at

	side, err := box.boxSide(nAtoms)
	if err != nil {
		return nil, err
	}
	space, err := quant.NewSpace(side, o.CellSide)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeometry, err)
	}

	s := &System{
		space:   space,
		atoms:   make([]quant.Point, nAtoms),
		chainOf: make([]int16, nAtoms),
		chains:  chains,
		ss:      ss,
	}
	for k, r := range chains {
		for i := r.Start; i < r.End; i++ {
			s.chainOf[i] = int16(k)
		}
	}

	placed := 0 // atoms of finished chains
	for k, r := range chains {
		if err := growChain(s, r, placed, &o, rng); err != nil {
			return nil, fmt.Errorf("chain %d: %w", k, err)
		}
		placed = r.End
	}

	s.cells = newCellList(space, nAtoms)
	s.RebuildCells()
	return s, nil
}

// FromVecs builds a system with explicit bead positions instead of a
// random walk, one vector per secondary structure code. Positions are
// quantized and wrapped into the box.
func FromVecs(ssStrings []string, box BoxDef, opts *Options, pos []r3.Vec) (*System, error) {
	var o Options
	if opts != nil {
		o = *opts
	}
	o.fill()

	var ss []SSCode
	chains := make([]Range, 0, len(ssStrings))
	at := 0
	for k, str := range ssStrings {
		codes, err := ParseSS(str)
		if err != nil {
			return nil, fmt.Errorf("chain %d: %w", k, err)
		}
		ss = append(ss, codes...)
		chains = append(chains, Range{Start: at, End: at + len(codes)})
		at += len(codes)
	}
	if len(pos) != at {
		return nil, fmt.Errorf("%d positions for %d beads", len(pos), at)
	}
	side, err := box.boxSide(at)
	if err != nil {
		return nil, err
	}
	space, err := quant.NewSpace(side, o.CellSide)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeometry, err)
	}
	s := &System{
		space:   space,
		atoms:   make([]quant.Point, at),
		chainOf: make([]int16, at),
		chains:  chains,
		ss:      ss,
	}
	for k, r := range chains {
		for i := r.Start; i < r.End; i++ {
			s.chainOf[i] = int16(k)
		}
	}
	for i, v := range pos {
		s.atoms[i] = space.PointFromVec(v)
	}
	s.cells = newCellList(space, at)
	s.RebuildCells()
	return s, nil
}

// growChain lays out one chain as a self-avoiding walk. placed is the
// number of atoms of earlier chains that must be avoided too.
func growChain(s *System, r Range, placed int, o *Options, rng *rand.Rand) error {
	clash2 := o.ClashRadius * o.ClashRadius
	for run := 0; run < o.MaxChainRuns; run++ {
		if tryGrowChain(s, r, placed, o, clash2, rng) {
			return nil
		}
	}
	return fmt.Errorf("%w: could not place %d beads after %d runs (density too high for clash radius %g?)",
		ErrGeometry, r.Len(), o.MaxChainRuns, o.ClashRadius)
}

func tryGrowChain(s *System, r Range, placed int, o *Options, clash2 float64, rng *rand.Rand) bool {
	side := s.space.BoxSide()
	// first bead anywhere in the box that does not clash
	for try := 0; ; try++ {
		if try >= o.MaxBeadTries {
			return false
		}
		v := r3.Vec{X: rng.Float64() * side, Y: rng.Float64() * side, Z: rng.Float64() * side}
		s.atoms[r.Start] = s.space.PointFromVec(v)
		if !clashes(s, r.Start, r.Start, placed, r, clash2) {
			break
		}
	}
	for i := r.Start + 1; i < r.End; i++ {
		ok := false
		prev := s.space.VecFromPoint(s.atoms[i-1])
		for try := 0; try < o.MaxBeadTries; try++ {
			v := r3.Add(prev, r3.Scale(o.BondLength, randUnit(rng)))
			s.atoms[i] = s.space.PointFromVec(v)
			if !clashes(s, i, r.Start, placed, r, clash2) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// clashes checks bead i of the partially built chain [r.Start, i]
// against the beads placed so far, skipping its bonded predecessor.
func clashes(s *System, i, chainStart, placed int, r Range, clash2 float64) bool {
	for j := 0; j < placed; j++ {
		if s.space.Dist2(s.atoms[i], s.atoms[j]) < clash2 {
			return true
		}
	}
	for j := chainStart; j < i-1; j++ {
		if s.space.Dist2(s.atoms[i], s.atoms[j]) < clash2 {
			return true
		}
	}
	return false
}

// randUnit draws a uniformly distributed direction.
func randUnit(rng *rand.Rand) r3.Vec {
	for {
		v := r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		n := r3.Norm(v)
		if n > 1e-12 {
			return r3.Scale(1/n, v)
		}
	}
}
