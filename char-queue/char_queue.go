package charqueue

import (
	"errors"
	"io"
	"sync"

	"github.com/gammazero/deque"
)

var ErrWriteClosed = errors.New("Queue closed for writing")

// Queue is a capacity-bounded FIFO of runes. Writers block while the queue
// is full and readers block while it is empty, so a Queue works both as a
// character sink and, once writing is closed, as a draining character source.
type Queue struct {
	q       deque.Deque
	cap     int
	cond    *sync.Cond
	wClosed bool
}

func NewQueue(cap int) *Queue {
	if cap == 0 {
		cap = 128
	}
	q := &Queue{cap: cap}
	q.cond = sync.NewCond(&sync.Mutex{})
	return q
}

// WriteChars appends p rune by rune, blocking whenever the queue is full.
// It reports how many runes were accepted before a concurrent CloseWrite.
func (q *Queue) WriteChars(p []rune) (int, error) {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	for i, c := range p {
		for q.q.Len() >= q.cap && !q.wClosed {
			q.cond.Wait()
		}
		if q.wClosed {
			return i, ErrWriteClosed
		}
		q.q.PushBack(c)
		q.cond.Signal()
	}
	return len(p), nil
}

// ReadChars pops up to len(p) runes in FIFO order, blocking while the queue
// is empty and still writable. A drained queue closed for writing reports
// io.EOF.
func (q *Queue) ReadChars(p []rune) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	for q.q.Len() == 0 && !q.wClosed {
		q.cond.Wait()
	}
	if q.q.Len() == 0 {
		return 0, io.EOF
	}

	n := len(p)
	if q.q.Len() < n {
		n = q.q.Len()
	}
	for i := 0; i < n; i++ {
		p[i] = q.q.PopFront().(rune)
	}
	q.cond.Broadcast()
	return n, nil
}

// CloseWrite makes further writes fail and wakes every blocked reader and
// writer. Buffered runes stay readable.
func (q *Queue) CloseWrite() {
	q.cond.L.Lock()
	q.wClosed = true
	q.cond.L.Unlock()
	q.cond.Broadcast()
}

func (q *Queue) Close() error {
	q.CloseWrite()
	return nil
}

func (q *Queue) Len() int {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	return q.q.Len()
}
