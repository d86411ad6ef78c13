package charbuffer

import (
	"errors"
)

var (
	ErrOverflow = errors.New("Buffer overflow. Not enough remaining capacity.")
	ErrReadOnly = errors.New("Buffer is read-only")
	ErrBadCap   = errors.New("Capacity must be greater than zero")
)

// Buffer is a fixed-capacity rune buffer used as a character sink.
// Characters are appended by Put/WriteChars until capacity is exhausted.
// A read-only view shares the backing array but rejects every write.
type Buffer struct {
	chars    []rune
	pos      int
	readOnly bool
}

// New allocates a Buffer with the given capacity.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, ErrBadCap
	}
	return &Buffer{chars: make([]rune, capacity)}, nil
}

// Wrap builds a Buffer over an existing rune slice.
// The slice content is kept; the write position starts at len(p).
func Wrap(p []rune) *Buffer {
	return &Buffer{chars: p, pos: len(p)}
}

// Remaining returns how many more runes the buffer can accept.
func (b *Buffer) Remaining() int {
	return len(b.chars) - b.pos
}

// HasRemaining reports whether at least one rune can still be written.
func (b *Buffer) HasRemaining() bool {
	return b.Remaining() > 0
}

// Len returns the number of runes written so far.
func (b *Buffer) Len() int {
	return b.pos
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return len(b.chars)
}

// ReadOnly reports whether this view rejects writes.
func (b *Buffer) ReadOnly() bool {
	return b.readOnly
}

// Put appends a single rune.
func (b *Buffer) Put(c rune) error {
	if b.readOnly {
		return ErrReadOnly
	}
	if b.pos >= len(b.chars) {
		return ErrOverflow
	}
	b.chars[b.pos] = c
	b.pos++
	return nil
}

// WriteChars appends p, filling the remaining space. When p does not fit,
// the remaining space is filled first and ErrOverflow is returned together
// with the count actually written.
func (b *Buffer) WriteChars(p []rune) (int, error) {
	if b.readOnly {
		return 0, ErrReadOnly
	}
	n := copy(b.chars[b.pos:], p)
	b.pos += n
	if n < len(p) {
		return n, ErrOverflow
	}
	return n, nil
}

// Chars returns the written portion of the backing array.
// The slice aliases the buffer; it is only valid until the next write or Reset.
func (b *Buffer) Chars() []rune {
	return b.chars[:b.pos]
}

// String renders the written portion as a string.
func (b *Buffer) String() string {
	return string(b.chars[:b.pos])
}

// Reset discards the written content, keeping the capacity.
func (b *Buffer) Reset() error {
	if b.readOnly {
		return ErrReadOnly
	}
	b.pos = 0
	return nil
}

// AsReadOnly returns a read-only view sharing the backing array.
func (b *Buffer) AsReadOnly() *Buffer {
	return &Buffer{chars: b.chars, pos: b.pos, readOnly: true}
}
