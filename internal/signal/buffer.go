// Package signal provides the bounded sample buffers, smoothing filters and
// summary statistics that the motion and tempo detectors are built on.
package signal

// Buffer is a fixed-capacity ring buffer. Pushing into a full buffer evicts
// the oldest entry. A Buffer is owned by a single goroutine.
type Buffer[T any] struct {
	items []T
	start int
	size  int
}

// NewBuffer creates a Buffer holding at most capacity entries. A capacity
// below one is raised to one.
func NewBuffer[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

// Push appends v, evicting the oldest entry when the buffer is full.
func (b *Buffer[T]) Push(v T) {
	if b.size < len(b.items) {
		b.items[(b.start+b.size)%len(b.items)] = v
		b.size++
		return
	}
	b.items[b.start] = v
	b.start = (b.start + 1) % len(b.items)
}

// Len returns the number of buffered entries.
func (b *Buffer[T]) Len() int {
	return b.size
}

// Cap returns the buffer capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.items)
}

// Full reports whether the next Push will evict an entry.
func (b *Buffer[T]) Full() bool {
	return b.size == len(b.items)
}

// Slice returns a copy of the buffered entries, oldest first.
func (b *Buffer[T]) Slice() []T {
	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.start+i)%len(b.items)]
	}
	return out
}

// Tail returns a copy of the newest n entries, oldest first. It returns
// every entry when fewer than n are buffered.
func (b *Buffer[T]) Tail(n int) []T {
	if n > b.size {
		n = b.size
	}
	if n < 0 {
		n = 0
	}
	out := make([]T, n)
	offset := b.size - n
	for i := 0; i < n; i++ {
		out[i] = b.items[(b.start+offset+i)%len(b.items)]
	}
	return out
}

// Last returns the newest entry.
func (b *Buffer[T]) Last() (T, bool) {
	var zero T
	if b.size == 0 {
		return zero, false
	}
	return b.items[(b.start+b.size-1)%len(b.items)], true
}

// Reset drops every entry without releasing storage.
func (b *Buffer[T]) Reset() {
	var zero T
	for i := range b.items {
		b.items[i] = zero
	}
	b.start = 0
	b.size = 0
}
