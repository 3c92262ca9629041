// 11 Feb 2026

package system

import (
	"errors"

	"github.com/dgront/surpass/pkg/quant"
)

// ErrProposalOverflow says a mover wanted to move more beads than the
// proposal can hold. The protocol counts it as a null step.
var ErrProposalOverflow = errors.New("proposal capacity exceeded")

// Proposal is a fixed-capacity bundle of "bead i goes to position p"
// records. It is the only channel through which coordinates change.
// Movers overwrite it on every step; evaluating it against a System
// never touches the System.
type Proposal struct {
	atoms []int
	pos   []quant.Point
	n     int
}

// DefaultProposalCap is large enough for the pivot mover's fragment.
const DefaultProposalCap = 8

// NewProposal makes an empty proposal with room for capacity beads.
func NewProposal(capacity int) *Proposal {
	if capacity < 1 {
		capacity = 1
	}
	return &Proposal{
		atoms: make([]int, capacity),
		pos:   make([]quant.Point, capacity),
	}
}

// Clear forgets all recorded moves. Capacity is kept.
func (p *Proposal) Clear() { p.n = 0 }

// Cap returns the slot capacity.
func (p *Proposal) Cap() int { return len(p.atoms) }

// Len returns the number of beads this proposal would move.
func (p *Proposal) Len() int { return p.n }

// Add records one moved bead. It fails with ErrProposalOverflow when
// the capacity is used up.
func (p *Proposal) Add(atom int, pos quant.Point) error {
	if p.n >= len(p.atoms) {
		return ErrProposalOverflow
	}
	p.atoms[p.n] = atom
	p.pos[p.n] = pos
	p.n++
	return nil
}

// Atom returns the bead index of slot k.
func (p *Proposal) Atom(k int) int { return p.atoms[k] }

// Pos returns the proposed position of slot k.
func (p *Proposal) Pos(k int) quant.Point { return p.pos[k] }

// Contains reports whether atom is among the moved beads. The slot
// count is small so a linear scan is the right tool.
func (p *Proposal) Contains(atom int) bool {
	for k := 0; k < p.n; k++ {
		if p.atoms[k] == atom {
			return true
		}
	}
	return false
}

// PosOf returns the proposed position of the given bead and whether
// the proposal moves it at all.
func (p *Proposal) PosOf(atom int) (quant.Point, bool) {
	for k := 0; k < p.n; k++ {
		if p.atoms[k] == atom {
			return p.pos[k], true
		}
	}
	return quant.Point{}, false
}
