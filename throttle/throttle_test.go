package throttle

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	charstream "github.com/usherasnick/charstream-gadgets/char-stream"
)

var _ charstream.Source = (*Reader)(nil)

type repeatSource struct {
	left   int
	closed bool
}

func (r *repeatSource) ReadChars(p []rune) (int, error) {
	if r.left == 0 {
		return 0, io.EOF
	}
	n := len(p)
	if r.left < n {
		n = r.left
	}
	for i := 0; i < n; i++ {
		p[i] = 'z'
	}
	r.left -= n
	return n, nil
}

func (r *repeatSource) Close() error {
	r.closed = true
	return nil
}

func TestThrottledReadDeliversEverything(t *testing.T) {
	src := &repeatSource{left: 50}
	s := charstream.New(NewReader(src, 1000))

	buf := make([]rune, 7)
	total := 0
	for {
		n, err := s.Read(buf)
		total += n
		if err == io.EOF {
			break
		}
		assert.Empty(t, err)
	}
	assert.Equal(t, 50, total)
}

func TestThrottledReadPacesConsumer(t *testing.T) {
	// burst capacity == quota, so reading 2x quota has to take
	// at least about a second
	src := &repeatSource{left: 100}
	r := NewReader(src, 50)

	start := time.Now()
	buf := make([]rune, 10)
	for {
		_, err := r.ReadChars(buf)
		if err == io.EOF {
			break
		}
		assert.Empty(t, err)
	}
	assert.True(t, time.Since(start) >= 500*time.Millisecond)
}

func TestThrottledClose(t *testing.T) {
	src := &repeatSource{left: 1}
	r := NewReader(src, 10)
	assert.Empty(t, r.Close())
	assert.True(t, src.closed)
}
