// 27 Feb 2026

package measure

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dgront/surpass/pkg/system"
)

// chainLetters indexes chain identifiers for PDB output. More than 36
// chains would wrap around, which nobody has asked for yet.
const chainLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// PDBTrajectory writes each observation as one MODEL/ENDMDL frame of
// C-alpha ATOM records. Residue numbers restart at 1 in every chain;
// chains are lettered A, B and so on. Chains are unwrapped so a
// molecule crossing a box wall stays in one piece.
type PDBTrajectory struct {
	w      *bufio.Writer
	c      io.Closer
	iModel int
}

// NewPDBTrajectory makes a trajectory observer writing frames to w.
func NewPDBTrajectory(w io.Writer) *PDBTrajectory {
	t := &PDBTrajectory{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		t.c = c
	}
	return t
}

// PDBTrajectoryToFile is NewPDBTrajectory writing to a new file.
func PDBTrajectoryToFile(path string) (*PDBTrajectory, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trajectory file: %w", err)
	}
	return NewPDBTrajectory(f), nil
}

// Observe appends one frame.
func (t *PDBTrajectory) Observe(s *system.System) error {
	t.iModel++
	if _, err := fmt.Fprintf(t.w, "MODEL %8d\n", t.iModel); err != nil {
		return err
	}
	serial := 0
	for k := 0; k < s.CountChains(); k++ {
		chainID := chainLetters[k%len(chainLetters)]
		for i, v := range unwrapChain(s, s.ChainAtoms(k), nil) {
			serial++
			_, err := fmt.Fprintf(t.w,
				"ATOM  %5d  CA  ALA %c%4d    %8.3f%8.3f%8.3f  1.00  0.00           C\n",
				serial, chainID, i+1, v.X, v.Y, v.Z)
			if err != nil {
				return err
			}
		}
	}
	if _, err := t.w.WriteString("ENDMDL\n"); err != nil {
		return err
	}
	return t.w.Flush()
}

// Close closes the output file if the observer opened one.
func (t *PDBTrajectory) Close() error {
	err := t.w.Flush()
	if t.c != nil {
		if cerr := t.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
