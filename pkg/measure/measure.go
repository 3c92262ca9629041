// 26 Feb 2026

// Package measure takes numbers out of a running simulation: per-chain
// measurements (center of mass, end-to-end, radius of gyration) and
// the observers that turn them into files (tabulated values, center of
// mass displacement, autocorrelation, a contact-frequency map and a
// PDB trajectory). Observers satisfy the protocol's Observer interface
// and own their output streams.
package measure

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dgront/surpass/pkg/system"
)

// Measurement evaluates one property of the current conformation. The
// returned slice has one entry per column named in Header; the header
// uses tabs between column names.
type Measurement interface {
	Measure(s *system.System) []float64
	Header() string
}

// unwrapChain walks along chain r and returns real positions where
// each bead sits in the periodic image closest to its predecessor.
// The first bead anchors the walk inside the box. buf is reused when
// large enough.
func unwrapChain(s *system.System, r system.Range, buf []r3.Vec) []r3.Vec {
	sp := s.Space()
	if cap(buf) < r.Len() {
		buf = make([]r3.Vec, r.Len())
	}
	buf = buf[:r.Len()]
	buf[0] = s.CAVec(r.Start)
	for i := r.Start + 1; i < r.End; i++ {
		a, b := s.CA(i), s.CA(i-1)
		prev := buf[i-1-r.Start]
		buf[i-r.Start] = r3.Vec{
			X: prev.X + sp.IntToReal(sp.ClosestDeltaInt(a.X, b.X)),
			Y: prev.Y + sp.IntToReal(sp.ClosestDeltaInt(a.Y, b.Y)),
			Z: prev.Z + sp.IntToReal(sp.ClosestDeltaInt(a.Z, b.Z)),
		}
	}
	return buf
}

// ChainCenter returns the center of mass of chain k, computed in the
// unwrapped frame anchored at the chain's first bead.
func ChainCenter(s *system.System, k int) r3.Vec {
	r := s.ChainAtoms(k)
	var sum r3.Vec
	for _, v := range unwrapChain(s, r, nil) {
		sum = r3.Add(sum, v)
	}
	return r3.Scale(1/float64(r.Len()), sum)
}

// ChainCM measures the center of mass of one chain.
type ChainCM struct{ whichChain int }

// NewChainCM makes a center-of-mass measurement for chain k.
func NewChainCM(k int) *ChainCM { return &ChainCM{whichChain: k} }

func (m *ChainCM) Measure(s *system.System) []float64 {
	cm := ChainCenter(s, m.whichChain)
	return []float64{cm.X, cm.Y, cm.Z}
}

func (m *ChainCM) Header() string { return cols(m.whichChain, "cm-X", "cm-Y", "cm-Z") }

// REndSquared measures the squared end-to-end distance of one chain
// under the minimum-image convention.
type REndSquared struct{ whichChain int }

// NewREndSquared makes an end-to-end squared distance measurement for
// chain k.
func NewREndSquared(k int) *REndSquared { return &REndSquared{whichChain: k} }

func (m *REndSquared) Measure(s *system.System) []float64 {
	r := s.ChainAtoms(m.whichChain)
	return []float64{s.DistanceSquared(r.Start, r.End-1)}
}

func (m *REndSquared) Header() string { return cols(m.whichChain, "r-end-squared") }

// REndVector measures the end-to-end vector of one chain, with the
// last bead unwrapped into the image closest to the first.
type REndVector struct{ whichChain int }

// NewREndVector makes an end-to-end vector measurement for chain k.
func NewREndVector(k int) *REndVector { return &REndVector{whichChain: k} }

func (m *REndVector) Measure(s *system.System) []float64 {
	r := s.ChainAtoms(m.whichChain)
	start := s.CAVec(r.Start)
	end := s.CANearestVec(r.End-1, r.Start)
	d := r3.Sub(end, start)
	return []float64{d.X, d.Y, d.Z}
}

func (m *REndVector) Header() string {
	return cols(m.whichChain, "r-end-X", "r-end-Y", "r-end-Z")
}

// RgSquared measures the squared radius of gyration of one chain in
// the unwrapped frame.
type RgSquared struct{ whichChain int }

// NewRgSquared makes a squared gyration radius measurement for chain
// k.
func NewRgSquared(k int) *RgSquared { return &RgSquared{whichChain: k} }

func (m *RgSquared) Measure(s *system.System) []float64 {
	r := s.ChainAtoms(m.whichChain)
	vs := unwrapChain(s, r, nil)
	var cm r3.Vec
	for _, v := range vs {
		cm = r3.Add(cm, v)
	}
	cm = r3.Scale(1/float64(len(vs)), cm)
	sum := 0.0
	for _, v := range vs {
		d := r3.Sub(v, cm)
		sum += d.X*d.X + d.Y*d.Y + d.Z*d.Z
	}
	return []float64{sum / float64(len(vs))}
}

func (m *RgSquared) Header() string { return cols(m.whichChain, "rg-squared") }

// cols builds a tab-joined header with the chain index appended to
// each column name.
func cols(chain int, names ...string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%s-%d", n, chain)
	}
	return strings.Join(out, "\t")
}
