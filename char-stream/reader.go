package charstream

import (
	"errors"
)

/* Reading Rules

type Source interface {
    ReadChars(p []rune) (n int, err error)
}

1. A ReadChars() call will read up to len(p) runes into p, when possible.
2. After a ReadChars() call, n may be less than len(p).
3. Upon error, a ReadChars() call may still return n runes in p.
   Depending on your own use, you may choose to keep the runes in p or just retry.
4. When a ReadChars() call exhausts available data, a source may return a non-zero n and err=io.EOF.
   However, depending on implementation, a source may choose to return a non-zero n and err=nil at the end of stream.
   In that case, any subsequent read ops must return n=0, err=io.EOF.
5. A ReadChars() call must not return n=0 and err=nil unless len(p) == 0,
   so a caller never needs to spin on empty reads.

*/

var (
	ErrClosed           = errors.New("Stream closed")
	ErrMarkUnsupported  = errors.New("Mark not supported")
	ErrResetUnsupported = errors.New("Reset not supported")
	ErrNegativeSkip     = errors.New("Skip count is negative")
	ErrOutOfRange       = errors.New("Read range out of bounds")
	ErrNilSink          = errors.New("Nil sink")
	ErrNilLock          = errors.New("Nil lock object")
)

// Source is the mandatory primitive set a concrete character stream supplies.
// Everything else a Stream offers is layered on top of these two methods.
type Source interface {
	// ReadChars reads up to len(p) runes into p following the Reading Rules
	// above. It blocks until at least one rune is available, an error
	// occurs, or the end of the stream is reached.
	ReadChars(p []rune) (n int, err error)
	// Close releases the underlying resource. After Close, ReadChars must
	// fail instead of returning stale data.
	Close() error
}

// Marker is the optional checkpoint capability. A Source that implements it
// makes Stream.Mark/Reset work; otherwise both fail as unsupported.
type Marker interface {
	// Mark establishes a checkpoint valid for at least readAheadLimit
	// subsequently-read runes.
	Mark(readAheadLimit int) error
	// Reset repositions the source at the last mark, or at a
	// source-defined default position when no mark was set.
	Reset() error
}

// Readier is the optional non-blocking probe capability.
type Readier interface {
	// Ready reports whether the next read is guaranteed not to block.
	// A false return is not a guarantee that the next read will block.
	Ready() (bool, error)
}

// Sink is a destination accepting runes in bulk, in order.
type Sink interface {
	WriteChars(p []rune) (n int, err error)
}
