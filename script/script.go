// Package script loads MOG command scripts: plain text files with one
// command per line. Blank lines are skipped and everything after a '#' is a
// comment. Consumers receive (line number, trimmed command) pairs, with line
// numbers counted over the physical file so errors can point at the source.
package script

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"
)

// Scanner yields the commands of a script one at a time, in the manner of
// bufio.Scanner: call Scan until it returns false, then check Err.
type Scanner struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    string
	lineNum int
}

// New returns a Scanner reading commands from r.
func New(r io.Reader) *Scanner {
	return &Scanner{scanner: bufio.NewScanner(r)}
}

// Open returns a Scanner over the script file at path. The caller must call
// Close when done.
func Open(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	s := New(f)
	s.closer = f

	return s, nil
}

// Scan advances to the next command, skipping blank lines and comments.
// It returns false at end of input or on read error.
func (s *Scanner) Scan() bool {
	for s.scanner.Scan() {
		s.lineNum++

		line := s.scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.line = line

		return true
	}

	return false
}

// Line returns the current command, trimmed of comments and whitespace.
func (s *Scanner) Line() string { return s.line }

// LineNum returns the 1-based physical line number of the current command.
func (s *Scanner) LineNum() int { return s.lineNum }

// Err returns the first error encountered while reading, if any.
func (s *Scanner) Err() error { return s.scanner.Err() }

// Close closes the underlying file for Scanners created with Open. It is a
// no-op for reader-backed Scanners.
func (s *Scanner) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}

// All returns an iterator over the remaining (lineNumber, command) pairs.
// Check Err after the loop, as with Scan.
func (s *Scanner) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for s.Scan() {
			if !yield(s.lineNum, s.line) {
				return
			}
		}
	}
}
