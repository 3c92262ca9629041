// 26 Feb 2026

package measure

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dgront/surpass/pkg/system"
)

// CMDisplacement accumulates the mean squared displacement of every
// chain's center of mass against a rolling window of earlier frames.
// Lag t covers t observation intervals; the averaged curve is written
// on Close, one "lag value" row per lag.
type CMDisplacement struct {
	boxLen   float64
	tMax     int
	nSamples int64

	displacements []float64
	history       [][]r3.Vec // per chain, newest first
	w             io.Writer
	c             io.Closer
}

// NewCMDisplacement makes the observer for the given system with a
// window of tMax frames, writing its curve to w on Close.
func NewCMDisplacement(s *system.System, tMax int, w io.Writer) *CMDisplacement {
	cd := &CMDisplacement{
		boxLen:        s.Space().BoxSide(),
		tMax:          tMax,
		displacements: make([]float64, tMax),
		history:       make([][]r3.Vec, s.CountChains()),
		w:             w,
	}
	if c, ok := w.(io.Closer); ok {
		cd.c = c
	}
	return cd
}

// CMDisplacementToFile is NewCMDisplacement writing to a new file.
func CMDisplacementToFile(s *system.System, tMax int, path string) (*CMDisplacement, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("displacement file: %w", err)
	}
	return NewCMDisplacement(s, tMax, f), nil
}

// closestDx2 is the squared minimum-image separation of two
// coordinates in a box of side l.
func closestDx2(a, b, l float64) float64 {
	dx := math.Abs(a - b)
	if dx > l/2 {
		dx = l - dx
	}
	return dx * dx
}

// Observe records the current centers of mass and, once the window is
// full, adds the displacement from every stored frame to the curve.
func (cd *CMDisplacement) Observe(s *system.System) error {
	for k := 0; k < s.CountChains(); k++ {
		cm := ChainCenter(s, k)
		h := cd.history[k]
		if len(h) < cd.tMax {
			cd.history[k] = append([]r3.Vec{cm}, h...)
			continue
		}
		for t := 0; t < cd.tMax; t++ {
			cd.displacements[t] += closestDx2(cm.X, h[t].X, cd.boxLen) +
				closestDx2(cm.Y, h[t].Y, cd.boxLen) +
				closestDx2(cm.Z, h[t].Z, cd.boxLen)
		}
		copy(h[1:], h[:cd.tMax-1])
		h[0] = cm
		cd.nSamples++
	}
	return nil
}

// Samples returns how many full-window displacement samples went into
// the curve.
func (cd *CMDisplacement) Samples() int64 { return cd.nSamples }

// Curve returns the averaged displacement per lag, nil before the
// first full window.
func (cd *CMDisplacement) Curve() []float64 {
	if cd.nSamples == 0 {
		return nil
	}
	out := make([]float64, cd.tMax)
	for i, d := range cd.displacements {
		out[i] = d / float64(cd.nSamples)
	}
	return out
}

// Close writes the curve and closes the output file if the observer
// opened one.
func (cd *CMDisplacement) Close() error {
	bw := bufio.NewWriter(cd.w)
	for i, v := range cd.Curve() {
		if _, err := fmt.Fprintf(bw, "%4d %g\n", i+1, v); err != nil {
			return err
		}
	}
	err := bw.Flush()
	if cd.c != nil {
		if cerr := cd.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
