// 3 Mar 2026

// Package brokenio wraps writers so they fail on purpose. Observers
// write trajectory and measurement files; their error paths are
// easiest to test with a writer that gives up after a set number of
// bytes.
package brokenio

import (
	"fmt"
	"io"
)

// BrknWrtr is an io.Writer that accepts a fixed number of bytes and
// then fails every call, like a disk running full.
type BrknWrtr struct {
	wrtrOrig  io.Writer
	byteLimit int
	nByte     int
}

// NewWriter wraps w so it fails once byteLimit bytes have gone
// through.
func NewWriter(w io.Writer, byteLimit int) *BrknWrtr {
	return &BrknWrtr{wrtrOrig: w, byteLimit: byteLimit}
}

// Write passes data through until the limit, then reports a short
// write.
func (b *BrknWrtr) Write(p []byte) (int, error) {
	room := b.byteLimit - b.nByte
	if room <= 0 {
		return 0, fmt.Errorf("no space left after %d bytes", b.nByte)
	}
	if len(p) <= room {
		n, err := b.wrtrOrig.Write(p)
		b.nByte += n
		return n, err
	}
	n, err := b.wrtrOrig.Write(p[:room])
	b.nByte += n
	if err != nil {
		return n, err
	}
	return n, fmt.Errorf("wrote %d of %d bytes, no space left", n, len(p))
}

// NBytes returns how many bytes went through so far.
func (b *BrknWrtr) NBytes() int { return b.nByte }
