// 26 Feb 2026

package measure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dgront/surpass/pkg/system"
)

// Record is an observer writing one row of measurement values per
// observation. The first row is a header prefixed with '#'; columns
// are tab separated.
type Record struct {
	w     *bufio.Writer
	c     io.Closer
	ms    []Measurement
	wrote bool
}

// NewRecord tabulates the given measurements into w.
func NewRecord(w io.Writer, ms ...Measurement) *Record {
	r := &Record{w: bufio.NewWriter(w), ms: ms}
	if c, ok := w.(io.Closer); ok {
		r.c = c
	}
	return r
}

// RecordToFile tabulates the given measurements into a new file.
func RecordToFile(path string, ms ...Measurement) (*Record, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("measurement file: %w", err)
	}
	return NewRecord(f, ms...), nil
}

// Observe writes the header on first call, then one value row.
func (r *Record) Observe(s *system.System) error {
	if !r.wrote {
		r.wrote = true
		heads := make([]string, len(r.ms))
		for i, m := range r.ms {
			heads[i] = m.Header()
		}
		if _, err := fmt.Fprintf(r.w, "#%s\n", strings.Join(heads, "\t")); err != nil {
			return err
		}
	}
	for i, m := range r.ms {
		for j, v := range m.Measure(s) {
			if i > 0 || j > 0 {
				if err := r.w.WriteByte('\t'); err != nil {
					return err
				}
			}
			if _, err := r.w.WriteString(strconv.FormatFloat(v, 'g', 7, 64)); err != nil {
				return err
			}
		}
	}
	return r.w.WriteByte('\n')
}

// Close flushes the table and closes the underlying file if Record
// opened one.
func (r *Record) Close() error {
	err := r.w.Flush()
	if r.c != nil {
		if cerr := r.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
