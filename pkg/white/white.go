// 27 Feb 2026

// Package white strips white space from byte slices, in place. Readers
// that accumulate sequence bodies line by line use it to tolerate
// indented or broken input.
package white

var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

// Remove deletes all white space from *ps in place. The slice shrinks,
// its capacity is untouched.
func Remove(ps *[]byte) {
	s := *ps
	n := 0
	for _, c := range s {
		if !asciiSpace[c] {
			s[n] = c
			n++
		}
	}
	*ps = s[:n]
}
