package console

import "bytes"

// Splitter turns a byte stream into newline-delimited lines. Bytes after the
// last delimiter are held until a later Feed completes them.
type Splitter struct {
	pending []byte
}

// NewSplitter creates an empty splitter.
func NewSplitter() *Splitter {
	return &Splitter{}
}

// Feed consumes p and returns every line it completes, delimiters stripped.
func (s *Splitter) Feed(p []byte) []string {
	var lines []string
	for {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			break
		}
		if len(s.pending) == 0 {
			lines = append(lines, string(p[:i]))
		} else {
			s.pending = append(s.pending, p[:i]...)
			lines = append(lines, string(s.pending))
			s.pending = s.pending[:0]
		}
		p = p[i+1:]
	}
	s.pending = append(s.pending, p...)
	return lines
}

// Pending returns the bytes held since the last delimiter.
func (s *Splitter) Pending() string {
	return string(s.pending)
}

// Flush returns and clears the held partial line, if any. It is called only
// once the stream has ended.
func (s *Splitter) Flush() (string, bool) {
	if len(s.pending) == 0 {
		return "", false
	}
	line := string(s.pending)
	s.pending = s.pending[:0]
	return line, true
}
