// 9 Feb 2026

// Package quant maps real Cartesian coordinates into signed integers
// modulo a cubic periodic box. All the hot-path geometry (minimum image,
// squared distances) happens in integer units, so results do not depend
// on the floating point mood of the machine. A coordinate only becomes
// a float again when somebody wants to measure something.
package quant

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// CellShift is the log2 of the number of integer units per cell side.
// Cell indices are computed by shifting a quantized coordinate right by
// this amount. With the default excluded-volume radius of 4 A and a
// cutoff-sized cell, a repulsive radius spans roughly 30 integer units.
const CellShift = 6

// UnitsPerCell is the cell side in integer units.
const UnitsPerCell = 1 << CellShift

// Point is a quantized atom position. Each component lies in [0, Li).
type Point struct {
	X, Y, Z int32
}

// Space ties a real cubic box of side L to its integer representation
// of side Li. Li is always NCells * UnitsPerCell, so the cell grid
// divides the box exactly.
type Space struct {
	l      float64 // box side, real units
	li     int32   // box side, integer units
	half   int32   // li / 2, the minimum-image branch point
	q      float64 // integer units per real unit: li / l
	invQ   float64
	nCells int32 // cells per box side
}

// NewSpace builds the integer space for a box of real side boxSide,
// with cells of at least cellSide (the largest kernel cutoff). The
// number of cells per side must come out at three or more, otherwise
// the 3x3x3 neighborhood scan would visit a cell twice.
func NewSpace(boxSide, cellSide float64) (*Space, error) {
	if boxSide <= 0 || cellSide <= 0 {
		return nil, fmt.Errorf("box side %g and cell side %g must be positive", boxSide, cellSide)
	}
	nCells := int32(boxSide / cellSide)
	if nCells < 3 {
		return nil, fmt.Errorf("box side %g holds only %d cells of %g; need at least 3",
			boxSide, nCells, cellSide)
	}
	li := nCells * UnitsPerCell
	q := float64(li) / boxSide
	return &Space{
		l: boxSide, li: li, half: li / 2,
		q: q, invQ: boxSide / float64(li),
		nCells: nCells,
	}, nil
}

// BoxSide returns the real box side length.
func (s *Space) BoxSide() float64 { return s.l }

// BoxSideInt returns the box side in integer units.
func (s *Space) BoxSideInt() int32 { return s.li }

// NCells returns the number of cells along one box side.
func (s *Space) NCells() int32 { return s.nCells }

// Q returns the quantization factor (integer units per real unit).
func (s *Space) Q() float64 { return s.q }

// RealToInt converts a real coordinate to its integer residue in
// [0, Li). Values outside the box, including negative ones, wrap.
func (s *Space) RealToInt(x float64) int32 {
	i := int64(math.Round(x * s.q))
	li := int64(s.li)
	i %= li
	if i < 0 {
		i += li
	}
	return int32(i)
}

// IntToReal converts an integer coordinate back to real units.
func (s *Space) IntToReal(i int32) float64 { return float64(i) * s.invQ }

// Units converts a real length (a cutoff, a step limit) to integer
// units without wrapping.
func (s *Space) Units(r float64) int32 { return int32(math.Round(r * s.q)) }

// Wrap maps an arbitrary integer coordinate into [0, Li).
func (s *Space) Wrap(i int32) int32 {
	i %= s.li
	if i < 0 {
		i += s.li
	}
	return i
}

// ClosestDeltaInt returns the minimum-image difference a-b.
// The result lies in [-Li/2, Li/2].
func (s *Space) ClosestDeltaInt(a, b int32) int32 {
	d := a - b
	if d > s.half {
		d -= s.li
	} else if d < -s.half {
		d += s.li
	}
	return d
}

// Dist2Int returns the minimum-image squared distance between two
// points in integer units. int64 so three squared deltas cannot
// overflow.
func (s *Space) Dist2Int(a, b Point) int64 {
	dx := int64(s.ClosestDeltaInt(a.X, b.X))
	dy := int64(s.ClosestDeltaInt(a.Y, b.Y))
	dz := int64(s.ClosestDeltaInt(a.Z, b.Z))
	return dx*dx + dy*dy + dz*dz
}

// Dist2 returns the minimum-image squared distance in real units.
func (s *Space) Dist2(a, b Point) float64 {
	return float64(s.Dist2Int(a, b)) * s.invQ * s.invQ
}

// PointFromVec quantizes a real position, wrapping into the box.
func (s *Space) PointFromVec(v r3.Vec) Point {
	return Point{s.RealToInt(v.X), s.RealToInt(v.Y), s.RealToInt(v.Z)}
}

// VecFromPoint converts a quantized position to a real vector in
// [0, L)^3.
func (s *Space) VecFromPoint(p Point) r3.Vec {
	return r3.Vec{X: s.IntToReal(p.X), Y: s.IntToReal(p.Y), Z: s.IntToReal(p.Z)}
}

// NearestVec converts p to real coordinates in the periodic image
// closest to ref. Movers rotate in this unwrapped frame so a chain
// crossing a box wall does not get torn apart.
func (s *Space) NearestVec(p, ref Point) r3.Vec {
	return r3.Vec{
		X: s.IntToReal(ref.X) + float64(s.ClosestDeltaInt(p.X, ref.X))*s.invQ,
		Y: s.IntToReal(ref.Y) + float64(s.ClosestDeltaInt(p.Y, ref.Y))*s.invQ,
		Z: s.IntToReal(ref.Z) + float64(s.ClosestDeltaInt(p.Z, ref.Z))*s.invQ,
	}
}

// CellIndex returns the flat index of the cell containing p.
func (s *Space) CellIndex(p Point) int32 {
	cx := p.X >> CellShift
	cy := p.Y >> CellShift
	cz := p.Z >> CellShift
	return cx + s.nCells*(cy+s.nCells*cz)
}

// CellCoords splits a flat cell index back into grid coordinates.
func (s *Space) CellCoords(idx int32) (cx, cy, cz int32) {
	cx = idx % s.nCells
	idx /= s.nCells
	cy = idx % s.nCells
	cz = idx / s.nCells
	return cx, cy, cz
}

// WrapCell maps a possibly negative cell coordinate onto the grid.
func (s *Space) WrapCell(c int32) int32 {
	c %= s.nCells
	if c < 0 {
		c += s.nCells
	}
	return c
}
