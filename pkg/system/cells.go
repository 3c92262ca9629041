// 12 Feb 2026

package system

import (
	"github.com/dgront/surpass/pkg/quant"
)

// cellList is a 3-D grid of buckets over the periodic box. Each bucket
// holds the indices of the atoms whose quantized position falls inside
// that cell, in insertion order. The cell side is at least the largest
// kernel cutoff, so a pair within cutoff is always found in the 3x3x3
// block around either atom.
type cellList struct {
	space  *quant.Space
	bins   [][]int32
	cellOf []int32 // current cell of each atom, for cheap removal
}

func newCellList(space *quant.Space, nAtoms int) *cellList {
	n := int(space.NCells())
	return &cellList{
		space:  space,
		bins:   make([][]int32, n*n*n),
		cellOf: make([]int32, nAtoms),
	}
}

// rebuild clears every bucket and repopulates from the atom array.
func (c *cellList) rebuild(atoms []quant.Point) {
	for i := range c.bins {
		c.bins[i] = c.bins[i][:0]
	}
	for i, p := range atoms {
		idx := c.space.CellIndex(p)
		c.bins[idx] = append(c.bins[idx], int32(i))
		c.cellOf[i] = idx
	}
}

// onMove relocates atom i from its old cell to the cell of its new
// position. A move within one cell is a no-op.
func (c *cellList) onMove(i int, old, new quant.Point) {
	from := c.space.CellIndex(old)
	to := c.space.CellIndex(new)
	if from == to {
		return
	}
	bin := c.bins[from]
	for k, a := range bin {
		if a == int32(i) {
			c.bins[from] = append(bin[:k], bin[k+1:]...)
			break
		}
	}
	c.bins[to] = append(c.bins[to], int32(i))
	c.cellOf[i] = to
}

// forNeighbors visits every atom in the 27 cells around center,
// skipping the atom with index skip. The 27 cells are walked in a
// fixed z-major order and atoms within a bucket in insertion order,
// so a trajectory is reproducible given the RNG seed.
func (c *cellList) forNeighbors(center quant.Point, skip int, visit func(j int)) {
	s := c.space
	cx := center.X >> quant.CellShift
	cy := center.Y >> quant.CellShift
	cz := center.Z >> quant.CellShift
	n := s.NCells()
	for dz := int32(-1); dz <= 1; dz++ {
		z := s.WrapCell(cz + dz)
		for dy := int32(-1); dy <= 1; dy++ {
			y := s.WrapCell(cy + dy)
			for dx := int32(-1); dx <= 1; dx++ {
				x := s.WrapCell(cx + dx)
				for _, a := range c.bins[x+n*(y+n*z)] {
					if int(a) == skip {
						continue
					}
					visit(int(a))
				}
			}
		}
	}
}
