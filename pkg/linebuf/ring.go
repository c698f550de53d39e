// Package linebuf holds the most recent console lines in a fixed-capacity ring.
package linebuf

// DefaultCapacity is the number of lines the daemon retains.
const DefaultCapacity = 16

// Ring is a fixed-capacity, insertion-ordered ring of lines.
// It is not safe for concurrent use; Buffer adds the guard.
type Ring struct {
	lines []string
	head  int // index of the oldest line
	size  int
}

// NewRing creates a ring holding at most capacity lines.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		panic("linebuf: capacity must be positive")
	}
	return &Ring{lines: make([]string, capacity)}
}

// Push appends line as the newest entry, evicting the oldest one when full.
func (r *Ring) Push(line string) {
	if r.size < len(r.lines) {
		r.lines[(r.head+r.size)%len(r.lines)] = line
		r.size++
		return
	}
	r.lines[r.head] = line
	r.head = (r.head + 1) % len(r.lines)
}

// Lines returns a copy of the retained lines, oldest first.
func (r *Ring) Lines() []string {
	out := make([]string, r.size)
	for i := range out {
		out[i] = r.lines[(r.head+i)%len(r.lines)]
	}
	return out
}

// Len returns the number of retained lines.
func (r *Ring) Len() int { return r.size }

// Cap returns the ring capacity.
func (r *Ring) Cap() int { return len(r.lines) }
