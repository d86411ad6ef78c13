package charstream

import "io"

// nullSource reads no characters.
type nullSource struct{}

func (nullSource) ReadChars(p []rune) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return 0, io.EOF
}

func (nullSource) Close() error { return nil }

// NullStream returns a Stream that reads no characters. While open, every
// read form reports end of stream, Skip skips nothing, Ready reports false
// and TransferTo transfers nothing. After Close, stateful operations fail
// with ErrClosed. Mark and reset are not supported.
func NullStream() *Stream {
	return New(nullSource{})
}
