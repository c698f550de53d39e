package linebuf

import "sync"

// Buffer is a Ring shared between the console reader and the read path.
// Each Append and Snapshot holds the lock for exactly one ring operation.
type Buffer struct {
	mu    sync.RWMutex
	ring  *Ring
	total uint64
}

// New creates a buffer retaining at most capacity lines.
func New(capacity int) *Buffer {
	return &Buffer{ring: NewRing(capacity)}
}

// Append adds line as the newest entry.
func (b *Buffer) Append(line string) {
	b.mu.Lock()
	b.ring.Push(line)
	b.total++
	b.mu.Unlock()
}

// Snapshot returns an ordered copy of the retained lines, oldest first.
func (b *Buffer) Snapshot() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ring.Lines()
}

// Stats reports the retained line count, capacity and lines appended so far.
func (b *Buffer) Stats() (retained, capacity int, total uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ring.Len(), b.ring.Cap(), b.total
}
