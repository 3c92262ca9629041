// 26 Feb 2026

package measure

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dgront/surpass/pkg/system"
)

// Autocorrelate accumulates the autocorrelation of one measurement
// over a rolling window of tMax frames. Each observation is dotted
// against the stored ones, so vector-valued measurements correlate
// component-wise. The curve, normalized by its first lag, is written
// on Close.
type Autocorrelate struct {
	m        Measurement
	tMax     int
	nSamples int64

	correlations []float64
	observations [][]float64 // newest first
	w            io.Writer
	c            io.Closer
}

// NewAutocorrelate wraps a measurement with a window of tMax frames,
// writing the normalized curve to w on Close.
func NewAutocorrelate(m Measurement, tMax int, w io.Writer) *Autocorrelate {
	a := &Autocorrelate{
		m:            m,
		tMax:         tMax,
		correlations: make([]float64, tMax),
		w:            w,
	}
	if c, ok := w.(io.Closer); ok {
		a.c = c
	}
	return a
}

// AutocorrelateToFile is NewAutocorrelate writing to a new file.
func AutocorrelateToFile(m Measurement, tMax int, path string) (*Autocorrelate, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("autocorrelation file: %w", err)
	}
	return NewAutocorrelate(m, tMax, f), nil
}

// Observe measures the current conformation and correlates it with
// the stored window.
func (a *Autocorrelate) Observe(s *system.System) error {
	v := a.m.Measure(s)
	if int(a.nSamples) < a.tMax {
		a.observations = append([][]float64{v}, a.observations...)
		a.nSamples++
		return nil
	}
	for t := 0; t < a.tMax; t++ {
		a.correlations[t] += dot(a.observations[t], v)
	}
	copy(a.observations[1:], a.observations[:a.tMax-1])
	a.observations[0] = v
	a.nSamples++
	return nil
}

// Samples returns the number of observations made so far.
func (a *Autocorrelate) Samples() int64 { return a.nSamples }

// Values returns the accumulated correlation per lag, averaged over
// the samples.
func (a *Autocorrelate) Values() []float64 {
	out := make([]float64, a.tMax)
	if a.nSamples == 0 {
		return out
	}
	for i, c := range a.correlations {
		out[i] = c / float64(a.nSamples)
	}
	return out
}

// Normalized returns the correlation curve divided by its first lag.
// The first entry is 1 unless nothing was accumulated.
func (a *Autocorrelate) Normalized() []float64 {
	vals := a.Values()
	if vals[0] == 0 {
		return vals
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v / vals[0]
	}
	return out
}

// Close writes the normalized curve and closes the output file if the
// observer opened one.
func (a *Autocorrelate) Close() error {
	bw := bufio.NewWriter(a.w)
	if _, err := fmt.Fprintf(bw, "# n_samples: %d\n", a.nSamples); err != nil {
		return err
	}
	for i, v := range a.Normalized() {
		if _, err := fmt.Fprintf(bw, "%4d %g\n", i+1, v); err != nil {
			return err
		}
	}
	err := bw.Flush()
	if a.c != nil {
		if cerr := a.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
