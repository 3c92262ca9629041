// 28 Feb 2026

// Package ssread reads per-chain secondary structure strings from a
// fasta-like file. A '>' line opens a new entry and the rest of it is
// an ignored comment; the following lines hold the structure string
// over H, E and C. White space inside a body is tolerated. A file may
// also hold one bare entry with no '>' line at all.
package ssread

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dgront/surpass/pkg/system"
	"github.com/dgront/surpass/pkg/white"
)

// ErrNoEntries means the input held no secondary structure at all.
var ErrNoEntries = errors.New("no secondary structure entries")

// Read collects the secondary structure strings from rdr, one per
// chain, validated against the H/E/C alphabet.
func Read(rdr io.Reader) ([]string, error) {
	var out []string
	var cur []byte
	open := false

	flush := func() error {
		if !open {
			return nil
		}
		if len(cur) == 0 {
			return fmt.Errorf("entry %d: empty secondary structure", len(out)+1)
		}
		if _, err := system.ParseSS(string(cur)); err != nil {
			return fmt.Errorf("entry %d: %w", len(out)+1, err)
		}
		out = append(out, string(cur))
		cur = nil
		open = false
		return nil
	}

	scanner := bufio.NewScanner(rdr)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) > 0 && line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			open = true
			continue
		}
		body := append([]byte(nil), line...)
		white.Remove(&body)
		if len(body) == 0 {
			continue
		}
		cur = append(cur, body...)
		open = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading secondary structure: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoEntries
	}
	return out, nil
}

// ReadFile reads secondary structure entries from a file.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("secondary structure file: %w", err)
	}
	defer f.Close()
	out, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
