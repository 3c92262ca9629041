// 27 Feb 2026

package measure

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/andrew-torda/matrix"

	"github.com/dgront/surpass/pkg/system"
)

// ContactFrequency counts, for every non-bonded bead pair, the
// fraction of observed frames in which the pair sat closer than the
// contact radius. The symmetric frequency matrix is written on Close,
// one row per bead.
type ContactFrequency struct {
	d2Max  int64
	frames int64
	counts *matrix.FMatrix2d
	w      io.Writer
	c      io.Closer
}

// NewContactFrequency makes the observer for the given system and
// real-space contact radius, writing its map to w on Close.
func NewContactFrequency(s *system.System, rContact float64, w io.Writer) *ContactFrequency {
	n := s.CountAtoms()
	i := int64(s.Space().Units(rContact))
	cf := &ContactFrequency{
		d2Max:  i * i,
		counts: matrix.NewFMatrix2d(n, n),
		w:      w,
	}
	if c, ok := w.(io.Closer); ok {
		cf.c = c
	}
	return cf
}

// ContactFrequencyToFile is NewContactFrequency writing to a new
// file.
func ContactFrequencyToFile(s *system.System, rContact float64, path string) (*ContactFrequency, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("contact map file: %w", err)
	}
	return NewContactFrequency(s, rContact, f), nil
}

// Observe counts the contacts of the current frame.
func (cf *ContactFrequency) Observe(s *system.System) error {
	cf.frames++
	sp := s.Space()
	m := cf.counts.Mat
	for i := 1; i < s.CountAtoms(); i++ {
		for j := 0; j < i; j++ {
			if s.BondedPair(i, j) {
				continue
			}
			if sp.Dist2Int(s.CA(i), s.CA(j)) < cf.d2Max {
				m[i][j]++
				m[j][i]++
			}
		}
	}
	return nil
}

// Frames returns how many frames went into the map.
func (cf *ContactFrequency) Frames() int64 { return cf.frames }

// Frequency returns the fraction of frames in which beads i and j
// were in contact.
func (cf *ContactFrequency) Frequency(i, j int) float64 {
	if cf.frames == 0 {
		return 0
	}
	return float64(cf.counts.Mat[i][j]) / float64(cf.frames)
}

// Close writes the frequency matrix and closes the output file if the
// observer opened one.
func (cf *ContactFrequency) Close() error {
	bw := bufio.NewWriter(cf.w)
	n := len(cf.counts.Mat)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(bw, "%.4f", cf.Frequency(i, j)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	err := bw.Flush()
	if cf.c != nil {
		if cerr := cf.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
