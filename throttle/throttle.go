package throttle

import (
	"time"

	"github.com/juju/ratelimit"
	"github.com/rs/zerolog/log"

	charstream "github.com/usherasnick/charstream-gadgets/char-stream"
)

// Reader 限速字符源, 用于调控下游消费字符的速率.
// Max(runes/sec) == quota
// 注意: 包装后可选能力(Mark/Reset/Ready)不再透出, 限速源只保留读和关闭.
type Reader struct {
	src    charstream.Source
	quota  int
	bucket *ratelimit.Bucket
}

// NewReader 返回Reader实例, 每秒最多放行quota个字符.
func NewReader(src charstream.Source, quota int) *Reader {
	if quota <= 0 {
		quota = 1
	}
	r := Reader{src: src, quota: quota}

	interval := time.Second / time.Duration(quota)
	if interval <= 0 {
		interval = time.Nanosecond
	}
	r.bucket = ratelimit.NewBucket(interval, int64(quota))

	return &r
}

// ReadChars 先从底层源读取字符, 再按实际读取量从令牌桶取令牌,
// 令牌不足时等待, 以此压平消费速率.
func (r *Reader) ReadChars(p []rune) (int, error) {
	n, err := r.src.ReadChars(p)
	if n > 0 {
		r.take(int64(n))
	}
	return n, err
}

// Close 关闭底层字符源.
func (r *Reader) Close() error {
	return r.src.Close()
}

func (r *Reader) take(x int64) {
	if r.bucket == nil {
		return
	}
	waitUntilAvailable := r.bucket.Take(x)
	if waitUntilAvailable != 0 {
		log.Warn().Msgf("rune quota limit exceeds, wait %s until resource turns to be available", waitUntilAvailable.String())
		time.Sleep(waitUntilAvailable)
	}
}
