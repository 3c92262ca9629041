// 2 Mar 2026

// Package acorr computes the autocorrelation of one column of a
// measurement file, the kind written during a simulation. The file is
// mapped into memory rather than read, which costs nothing on small
// files and wins on long trajectories.
package acorr

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/edsrzf/mmap-go"
)

// CmdFlag holds the command line options.
type CmdFlag struct {
	Column int // 1-based column to correlate
	TMax   int // number of lags to compute
}

// Series returns the normalized autocorrelation of xs for lags
// 0..tMax, mean subtracted. The zero lag is always 1. Lags beyond the
// data come out as 0.
func Series(xs []float64, tMax int) []float64 {
	out := make([]float64, tMax+1)
	if len(xs) == 0 {
		return out
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var c0 float64
	for _, x := range xs {
		c0 += (x - mean) * (x - mean)
	}
	if c0 == 0 { // a constant signal correlates with nothing
		out[0] = 1
		return out
	}
	for lag := 0; lag <= tMax && lag < len(xs); lag++ {
		var c float64
		for i := 0; i+lag < len(xs); i++ {
			c += (xs[i] - mean) * (xs[i+lag] - mean)
		}
		out[lag] = c / c0
	}
	return out
}

// Column extracts one 1-based whitespace-separated column from the
// measurement data, skipping '#' comment lines.
func Column(data []byte, column int) ([]float64, error) {
	if column < 1 {
		return nil, fmt.Errorf("columns count from 1, got %d", column)
	}
	var out []float64
	line := 0
	for len(data) > 0 {
		line++
		row := data
		if ndx := bytes.IndexByte(data, '\n'); ndx >= 0 {
			row, data = data[:ndx], data[ndx+1:]
		} else {
			data = nil
		}
		fields := bytes.Fields(row)
		if len(fields) == 0 || fields[0][0] == '#' {
			continue
		}
		if column > len(fields) {
			return nil, fmt.Errorf("line %d has %d columns, wanted column %d",
				line, len(fields), column)
		}
		v, err := strconv.ParseFloat(string(fields[column-1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// readInput maps infile into memory, or slurps stdin when no name is
// given. The returned cleanup must be called when done with the data.
func readInput(infile string) ([]byte, func(), error) {
	if infile == "" {
		data, err := io.ReadAll(os.Stdin)
		return data, func() {}, err
	}
	fp, err := os.Open(infile)
	if err != nil {
		return nil, nil, err
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		fp.Close()
		return nil, nil, fmt.Errorf("mapping %s: %w", infile, err)
	}
	cleanup := func() { mm.Unmap(); fp.Close() }
	return mm, cleanup, nil
}

// Mymain reads a measurement file and writes the autocorrelation of
// the chosen column, one "lag value" row per lag.
func Mymain(flags *CmdFlag, infile, outfile string) error {
	if flags.TMax < 1 {
		return fmt.Errorf("at least one lag is needed")
	}
	data, cleanup, err := readInput(infile)
	if err != nil {
		return fmt.Errorf("reading measurements: %w", err)
	}
	defer cleanup()

	xs, err := Column(data, flags.Column)
	if err != nil {
		return err
	}
	if len(xs) == 0 {
		return fmt.Errorf("no data rows found")
	}

	out := os.Stdout
	if outfile != "" {
		if out, err = os.Create(outfile); err != nil {
			return fmt.Errorf("output file: %w", err)
		}
		defer out.Close()
	}
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "# %d values, column %d\n", len(xs), flags.Column)
	for lag, v := range Series(xs, flags.TMax) {
		fmt.Fprintf(w, "%4d %g\n", lag, v)
	}
	return w.Flush()
}
