// 11 Feb 2026

// Package system holds the canonical state of a SURPASS simulation:
// the quantized positions of all C-alpha beads, the chain layout, the
// secondary structure annotation and the cell-list neighbor index.
// The only way to change coordinates after construction is to Apply a
// Proposal, which keeps the neighbor index coherent as a side effect.
package system

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dgront/surpass/pkg/quant"
)

var (
	// ErrBadSSCode says a secondary structure string held something
	// other than H, E or C.
	ErrBadSSCode = errors.New("invalid secondary structure code")
	// ErrGeometry says the chain builder could not place beads at the
	// requested density.
	ErrGeometry = errors.New("geometry infeasible")
)

// SSCode is a one-letter secondary structure annotation.
type SSCode byte

const (
	Helix  SSCode = 'H'
	Strand SSCode = 'E'
	Coil   SSCode = 'C'
)

// ParseSS validates a secondary structure string and returns it as
// codes, one per bead.
func ParseSS(s string) ([]SSCode, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty string", ErrBadSSCode)
	}
	out := make([]SSCode, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case 'H', 'E', 'C':
			out[i] = SSCode(c)
		default:
			return nil, fmt.Errorf("%w: %q at position %d", ErrBadSSCode, c, i)
		}
	}
	return out, nil
}

// Range is a half-open run [Start, End) of atom indices.
type Range struct {
	Start, End int
}

// Len returns the number of atoms in the range.
func (r Range) Len() int { return r.End - r.Start }

// System owns the beads of one or more chains in a periodic box.
type System struct {
	space   *quant.Space
	atoms   []quant.Point
	chainOf []int16 // chain index per atom
	chains  []Range // sorted, disjoint, covering [0, len(atoms))
	ss      []SSCode
	cells   *cellList
}

// Space returns the quantized coordinate space of the box.
func (s *System) Space() *quant.Space { return s.space }

// CountAtoms returns the total number of beads over all chains.
func (s *System) CountAtoms() int { return len(s.atoms) }

// CountChains returns the number of chains.
func (s *System) CountChains() int { return len(s.chains) }

// ChainAtoms returns the atom range occupied by chain k.
func (s *System) ChainAtoms(k int) Range { return s.chains[k] }

// Chain returns the index of the chain atom i belongs to.
func (s *System) Chain(i int) int { return int(s.chainOf[i]) }

// CA returns the quantized position of bead i.
func (s *System) CA(i int) quant.Point { return s.atoms[i] }

// CAVec returns the real position of bead i inside the box.
func (s *System) CAVec(i int) r3.Vec { return s.space.VecFromPoint(s.atoms[i]) }

// CANearestVec returns the real position of bead i in the periodic
// image closest to bead ref.
func (s *System) CANearestVec(i, ref int) r3.Vec {
	return s.space.NearestVec(s.atoms[i], s.atoms[ref])
}

// SS returns the secondary structure code of bead i.
func (s *System) SS(i int) SSCode { return s.ss[i] }

// DistanceSquared returns the real minimum-image squared distance
// between beads i and j.
func (s *System) DistanceSquared(i, j int) float64 {
	return s.space.Dist2(s.atoms[i], s.atoms[j])
}

// BondedPair reports whether i and j are directly bonded, i.e. they
// are consecutive beads of the same chain. Non-bonded kernels skip
// such pairs; their geometry is ruled by bond terms, not contacts.
func (s *System) BondedPair(i, j int) bool {
	if s.chainOf[i] != s.chainOf[j] {
		return false
	}
	d := i - j
	return d == 1 || d == -1
}

// Apply commits a proposal: coordinates are overwritten and the
// neighbor index is told about every bead that changed cell. A
// proposal written by one of the movers is always applicable, so
// there is no error to return.
func (s *System) Apply(p *Proposal) {
	for k := 0; k < p.Len(); k++ {
		i := p.Atom(k)
		old := s.atoms[i]
		s.atoms[i] = p.Pos(k)
		s.cells.onMove(i, old, s.atoms[i])
	}
}

// RebuildCells repopulates the neighbor index from scratch.
func (s *System) RebuildCells() { s.cells.rebuild(s.atoms) }

// ForNeighbors calls visit for every atom in the 3x3x3 cells around
// bead i, skipping i itself. Emission order is deterministic:
// cell-major, then insertion order within a cell.
func (s *System) ForNeighbors(i int, visit func(j int)) {
	s.cells.forNeighbors(s.atoms[i], i, visit)
}

// ForNeighborsAt is ForNeighbors with an explicit query center. It is
// used to scan around a proposed position while the index still
// reflects the old configuration. skip is an atom index to omit, or a
// negative value to omit nothing.
func (s *System) ForNeighborsAt(center quant.Point, skip int, visit func(j int)) {
	s.cells.forNeighbors(center, skip, visit)
}
