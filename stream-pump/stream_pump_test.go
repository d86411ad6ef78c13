package streampump

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	charqueue "github.com/usherasnick/charstream-gadgets/char-queue"
	charstream "github.com/usherasnick/charstream-gadgets/char-stream"
)

type textSource struct {
	data []rune
	pos  int
}

func (s *textSource) ReadChars(p []rune) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}

func (s *textSource) Close() error { return nil }

func TestPump(t *testing.T) {
	p := NewPump(&PumpCfg{WorkerNum: 4})
	p.Start()

	sinks := make([]*charqueue.Queue, 16)
	var want int64
	for i := 0; i < 16; i++ {
		text := fmt.Sprintf("payload-%06d", i)
		want += int64(len(text))
		sinks[i] = charqueue.NewQueue(64)
		err := p.Submit(Task{
			Name:   fmt.Sprintf("task-%02d", i),
			Stream: charstream.New(&textSource{data: []rune(text)}),
			Sink:   sinks[i],
		})
		assert.Empty(t, err)
	}

	p.Close()
	assert.Equal(t, want, p.Stat())

	buf := make([]rune, 64)
	n, err := sinks[3].ReadChars(buf)
	assert.Empty(t, err)
	assert.Equal(t, "payload-000003", string(buf[:n]))
}

func TestPumpCountsFailedTransfers(t *testing.T) {
	p := NewPump(&PumpCfg{WorkerNum: 1, QueueSize: 4})
	p.Start()

	// a sink closed for writing fails the transfer mid-way;
	// the runes delivered before the failure still count
	sink := charqueue.NewQueue(8)
	sink.CloseWrite()
	err := p.Submit(Task{
		Name:   "broken-sink",
		Stream: charstream.New(&textSource{data: []rune("abc")}),
		Sink:   sink,
	})
	assert.Empty(t, err)

	time.Sleep(100 * time.Millisecond)
	p.Close()
	assert.Equal(t, int64(0), p.Stat())
}

func TestPumpNilCfg(t *testing.T) {
	assert.Empty(t, NewPump(nil))
}

func TestPumpSubmitAfterClose(t *testing.T) {
	p := NewPump(&PumpCfg{WorkerNum: 1})
	p.Start()
	p.Close()

	// a closed pump must refuse immediately instead of waiting
	// out the submit timeout
	start := time.Now()
	err := p.Submit(Task{
		Name:   "late",
		Stream: charstream.New(&textSource{data: []rune("abc")}),
		Sink:   charqueue.NewQueue(8),
	})
	assert.NotEmpty(t, err)
	assert.True(t, time.Since(start) < time.Second)

	// closing again stays harmless
	p.Close()
	assert.Equal(t, int64(0), p.Stat())
}
