// Package arena is the scratch space for string values built while
// evaluating a single statement. It is a plain bump allocator over a
// fixed block, reset at every statement boundary. Anything that has
// to outlive the statement must be copied out first, the store does
// that on assignment.
package arena

import "errors"

// DefaultSize matches the original interpreter's scratch block
const DefaultSize = 512

// MaxAlloc is the longest single string the dialect allows
const MaxAlloc = 255

var (
	// ErrTooLong - a single allocation over MaxAlloc bytes
	ErrTooLong = errors.New("string too long")
	// ErrNoSpace - the statement used up the whole scratch block
	ErrNoSpace = errors.New("out of scratch space")
)

// Arena hands out byte slices from a fixed block
type Arena struct {
	buf  []byte
	next int
}

// New creates an arena of the given size, or DefaultSize if size
// is not positive
func New(size int) *Arena {
	if size <= 0 {
		size = DefaultSize
	}
	return &Arena{buf: make([]byte, size)}
}

// Alloc carves off a fresh slice of n bytes
func (a *Arena) Alloc(n int) ([]byte, error) {
	if n > MaxAlloc {
		return nil, ErrTooLong
	}
	if a.next+n > len(a.buf) {
		return nil, ErrNoSpace
	}
	p := a.buf[a.next : a.next+n : a.next+n]
	a.next += n
	return p, nil
}

// Reset throws away everything allocated since the last reset
func (a *Arena) Reset() {
	a.next = 0
}

// Avail reports how many bytes are left before the next reset
func (a *Arena) Avail() int {
	return len(a.buf) - a.next
}
