package charstream

import (
	"io"
	"sync"
	"sync/atomic"

	charbuffer "github.com/usherasnick/charstream-gadgets/char-buffer"
	streamlock "github.com/usherasnick/charstream-gadgets/stream-lock"
)

const (
	// 跳读缓冲与转移缓冲的上限.
	maxSkipBuffer  = 8192
	transferWindow = 8192
)

// Stream wraps a Source and supplies the full character-input capability set:
// single/bulk reads, sink reads, mark/reset, skip and bulk transfer.
// Optional capabilities (Marker, Readier) are picked up from the Source by
// type assertion; a Source that lacks them gets the conservative defaults.
type Stream struct {
	src    Source
	lock   sync.Locker
	closed int32

	skipBuf []rune // guarded by lock; grow-only, capped at maxSkipBuffer
}

// New returns a Stream synchronized on its own fresh lock.
// It panics when src is nil.
func New(src Source) *Stream {
	if src == nil {
		panic("charstream: nil source")
	}
	return &Stream{src: src, lock: &streamlock.Lock{}}
}

// NewWithLock returns a Stream whose critical sections synchronize on the
// given lock. Several streams may share one lock to serialize across them.
func NewWithLock(src Source, lock sync.Locker) (*Stream, error) {
	if src == nil {
		panic("charstream: nil source")
	}
	if lock == nil {
		return nil, ErrNilLock
	}
	return &Stream{src: src, lock: lock}, nil
}

// Locker exposes the sync object. A Source with its own shared state mutated
// from read paths should guard it with this same lock.
func (s *Stream) Locker() sync.Locker {
	return s.lock
}

func (s *Stream) ensureOpen() error {
	if atomic.LoadInt32(&s.closed) != 0 {
		return ErrClosed
	}
	return nil
}

// ReadChar reads a single rune, blocking until one is available, an error
// occurs, or the end of the stream is reached. A rune delivered together
// with an underlying failure is returned together with it; only io.EOF is
// deferred to the next call once a rune was read.
func (s *Stream) ReadChar() (rune, error) {
	var cb [1]rune
	n, err := s.Read(cb[:])
	if n > 0 {
		if err == io.EOF {
			err = nil
		}
		return cb[0], err
	}
	if err == nil {
		err = io.EOF
	}
	return 0, err
}

// Read reads up to len(p) runes into p.
func (s *Stream) Read(p []rune) (int, error) {
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	return s.src.ReadChars(p)
}

// ReadRange reads up to n runes into p starting at off.
// It fails with ErrOutOfRange before touching the source when off or n is
// negative or n exceeds len(p)-off; n==0 returns immediately.
func (s *Stream) ReadRange(p []rune, off, n int) (int, error) {
	if off < 0 || n < 0 || n > len(p)-off {
		return 0, ErrOutOfRange
	}
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return s.src.ReadChars(p[off : off+n])
}

// ReadBuffer reads up to dst.Remaining() runes and puts them into dst.
// A nil dst fails with ErrNilSink and a read-only dst with
// charbuffer.ErrReadOnly, in both cases without touching the source.
func (s *Stream) ReadBuffer(dst *charbuffer.Buffer) (int, error) {
	if dst == nil {
		return 0, ErrNilSink
	}
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}
	if dst.ReadOnly() {
		return 0, charbuffer.ErrReadOnly
	}
	rem := dst.Remaining()
	if rem == 0 {
		return 0, nil
	}
	scratch := make([]rune, rem)
	n, err := s.src.ReadChars(scratch)
	if n > 0 {
		if w, werr := dst.WriteChars(scratch[:n]); werr != nil {
			return w, werr
		}
	}
	return n, err
}

// MarkSupported reports whether the underlying Source implements Marker.
func (s *Stream) MarkSupported() bool {
	_, ok := s.src.(Marker)
	return ok
}

// Mark establishes a checkpoint Reset can return to, valid for at least
// readAheadLimit subsequently-read runes.
func (s *Stream) Mark(readAheadLimit int) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if m, ok := s.src.(Marker); ok {
		return m.Mark(readAheadLimit)
	}
	return ErrMarkUnsupported
}

// Reset repositions the stream at the last mark.
func (s *Stream) Reset() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if m, ok := s.src.(Marker); ok {
		return m.Reset()
	}
	return ErrResetUnsupported
}

// Ready reports whether the next read is guaranteed not to block.
// Sources without the Readier capability always report false.
func (s *Stream) Ready() (bool, error) {
	if err := s.ensureOpen(); err != nil {
		return false, err
	}
	if r, ok := s.src.(Readier); ok {
		return r.Ready()
	}
	return false, nil
}

// Skip discards up to n runes and returns the count actually skipped, which
// is less than n only at end of stream. The loop serializes on the sync
// object since it mutates the instance-owned scratch buffer.
func (s *Stream) Skip(n int64) (int64, error) {
	if n < 0 {
		return 0, ErrNegativeSkip
	}
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}
	nn := maxSkipBuffer
	if n < int64(nn) {
		nn = int(n)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if len(s.skipBuf) < nn {
		s.skipBuf = make([]rune, nn)
	}
	r := n
	for r > 0 {
		want := nn
		if r < int64(want) {
			want = int(r)
		}
		nc, err := s.src.ReadChars(s.skipBuf[:want])
		r -= int64(nc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return n - r, err
		}
	}
	return n - r, nil
}

// TransferTo reads the remaining stream and writes every rune, in order, to
// sink. It closes neither end. On a mid-transfer error the count already
// delivered is returned alongside it; no rollback is attempted and the
// stream is left wherever reading stopped.
func (s *Stream) TransferTo(sink Sink) (int64, error) {
	if sink == nil {
		return 0, ErrNilSink
	}
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}
	var transferred int64
	buf := make([]rune, transferWindow)
	for {
		n, err := s.src.ReadChars(buf)
		if n > 0 {
			w, werr := sink.WriteChars(buf[:n])
			transferred += int64(w)
			if werr != nil {
				return transferred, werr
			}
		}
		if err == io.EOF {
			return transferred, nil
		}
		if err != nil {
			return transferred, err
		}
	}
}

// Close closes the Source and latches the stream closed. Closing twice has
// no additional effect; the second call never fails.
func (s *Stream) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	return s.src.Close()
}
