package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	charqueue "github.com/usherasnick/charstream-gadgets/char-queue"
	charstream "github.com/usherasnick/charstream-gadgets/char-stream"
	streampump "github.com/usherasnick/charstream-gadgets/stream-pump"
	"github.com/usherasnick/charstream-gadgets/throttle"
)

// textSource 演示用的内存字符源.
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

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	p := streampump.NewPump(&streampump.PumpCfg{WorkerNum: 2})
	p.Start()

	payload := strings.Repeat("all work and no play makes jack a dull boy\n", 64)
	sink := charqueue.NewQueue(4096)

	src := throttle.NewReader(&textSource{data: []rune(payload)}, 2048)
	if err := p.Submit(streampump.Task{
		Name:   "demo",
		Stream: charstream.New(src),
		Sink:   sink,
	}); err != nil {
		log.Error().Err(err).Msg("submit failed")
		return
	}

	p.Close()
	log.Info().Msgf("pumped %d runes", p.Stat())
}
