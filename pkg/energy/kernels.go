// 20 Feb 2026

package energy

import (
	"github.com/dgront/surpass/pkg/quant"
)

// ExcludedVolume is the hard-core kernel: a flat penalty inside the
// repulsion radius, zero outside.
type ExcludedVolume struct {
	rRep     float64
	ePenalty float64
	iRep2    int64
}

// NewExcludedVolume builds the kernel for the given space. rRep is
// the repulsion radius in real units, ePenalty the (large, positive)
// energy of a clash.
func NewExcludedVolume(sp *quant.Space, rRep, ePenalty float64) *ExcludedVolume {
	i := int64(sp.Units(rRep))
	return &ExcludedVolume{rRep: rRep, ePenalty: ePenalty, iRep2: i * i}
}

func (k *ExcludedVolume) DistanceCutoff() float64 { return k.rRep }

func (k *ExcludedVolume) EnergyForDistanceSquared(d2 int64) float64 {
	if d2 < k.iRep2 {
		return k.ePenalty
	}
	return 0
}

// CaContact is the three-shell contact kernel: a repulsive core below
// rRep, an attractive well on (rMin, rMax], zero elsewhere.
type CaContact struct {
	rMax         float64
	eRep, eCont  float64
	iRep2, iMin2 int64
	iMax2        int64
}

// NewCaContact builds the contact kernel. The shells are
// [0, rRep) -> eRep, (rMin, rMax] -> eCont, everything else 0.
func NewCaContact(sp *quant.Space, rRep, rMin, rMax, eRep, eCont float64) *CaContact {
	ir := int64(sp.Units(rRep))
	in := int64(sp.Units(rMin))
	ix := int64(sp.Units(rMax))
	return &CaContact{
		rMax: rMax, eRep: eRep, eCont: eCont,
		iRep2: ir * ir, iMin2: in * in, iMax2: ix * ix,
	}
}

func (k *CaContact) DistanceCutoff() float64 { return k.rMax }

func (k *CaContact) EnergyForDistanceSquared(d2 int64) float64 {
	if d2 < k.iRep2 {
		return k.eRep
	}
	if d2 > k.iMin2 && d2 <= k.iMax2 {
		return k.eCont
	}
	return 0
}
