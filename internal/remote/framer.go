// Package remote reads newline-terminated text commands from a byte stream
// (a Bluetooth serial bridge in production) and turns them into
// logic.Commands.
package remote

import "unicode/utf8"

// MaxLineLength caps a buffered command line. Bytes past the cap are
// dropped until the next newline, and a rune cut by the cap is dropped
// whole.
const MaxLineLength = 80

// Framer splits a byte stream into lines. Carriage returns are ignored and
// a partial line is kept until its newline arrives.
type Framer struct {
	buf []byte
}

// Feed consumes p and returns every line completed by it. Empty lines are
// not returned.
func (f *Framer) Feed(p []byte) []string {
	var lines []string
	for _, c := range p {
		switch c {
		case '\r':
		case '\n':
			if line := completeRunes(f.buf); len(line) > 0 {
				lines = append(lines, string(line))
			}
			f.buf = f.buf[:0]
		default:
			if len(f.buf) < MaxLineLength {
				f.buf = append(f.buf, c)
			}
		}
	}
	return lines
}

// Pending returns the bytes of the unfinished line.
func (f *Framer) Pending() int {
	return len(f.buf)
}

// completeRunes drops a trailing rune whose bytes were cut off.
func completeRunes(b []byte) []byte {
	i := len(b) - 1
	for i > 0 && !utf8.RuneStart(b[i]) {
		i--
	}
	if i >= 0 && !utf8.FullRune(b[i:]) {
		return b[:i]
	}
	return b
}
