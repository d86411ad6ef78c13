package streampump

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	charstream "github.com/usherasnick/charstream-gadgets/char-stream"
)

const (
	__DefaultWorkerNum = 4
	__DefaultQueueSize = 16

	__DefaultSubmitTimeout = 10 * time.Second
	__DefaultCloseTimeout  = 5 * time.Second
)

// PumpCfg 泵配置
type PumpCfg struct {
	WorkerNum int
	QueueSize int
}

// Task 一次完整的字符转移: 把Stream中剩余的字符全部灌入Sink.
type Task struct {
	Name   string
	Stream *charstream.Stream
	Sink   charstream.Sink
}

// Pump 字符流泵, 并发地执行Task, 不关闭任何一端.
type Pump struct {
	mu sync.RWMutex

	cfg                  *PumpCfg
	taskQ                chan Task
	done                 chan struct{}
	closed               bool
	transferredPerThread []int64
}

// NewPump 返回Pump实例.
func NewPump(cfg *PumpCfg) *Pump {
	if cfg == nil {
		log.Error().Msg("no pump config")
		return nil
	}
	if cfg.WorkerNum == 0 {
		cfg.WorkerNum = __DefaultWorkerNum
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = __DefaultQueueSize
	}

	return &Pump{
		cfg:                  cfg,
		taskQ:                make(chan Task, cfg.QueueSize),
		done:                 make(chan struct{}),
		transferredPerThread: make([]int64, cfg.WorkerNum),
	}
}

// Start 开始运行泵的所有工作协程.
func (p *Pump) Start() {
	log.Info().Msgf("start pump with %d workers", p.cfg.WorkerNum)
	go p.run()
}

// Submit 提交一个转移任务, 泵已关闭则立刻报错,
// 任务队列长时间满载则放弃并报错.
func (p *Pump) Submit(task Task) error {
	// 持有读锁直到入队完成, Close会等待所有在途的Submit
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		log.Warn().Msgf("submit task %s to a closed pump", task.Name)
		return fmt.Errorf("submit task %s to a closed pump", task.Name)
	}

	select {
	case p.taskQ <- task:
	case <-time.After(__DefaultSubmitTimeout):
		log.Warn().Msgf("timeout to submit task %s", task.Name)
		return fmt.Errorf("timeout to submit task %s", task.Name)
	}
	return nil
}

// Close 停止泵, 等待已提交的任务全部完成.
func (p *Pump) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.taskQ)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		log.Info().Msg("pump has done")
	case <-time.After(__DefaultCloseTimeout):
		log.Warn().Msg("timeout to close pump")
	}
}

func (p *Pump) run() {
	var wg sync.WaitGroup
	for i := 0; i < p.cfg.WorkerNum; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for task := range p.taskQ {
				n, err := task.Stream.TransferTo(task.Sink)
				if err != nil {
					log.Error().Err(err).Msgf("pump task %s failed after %d runes", task.Name, n)
				}
				atomic.AddInt64(&p.transferredPerThread[idx], n)
			}
		}(i)
	}
	wg.Wait()
	close(p.done)
}

// Stat 返回泵已经转移的字符总数.
func (p *Pump) Stat() int64 {
	var total int64
	for i := range p.transferredPerThread {
		total += atomic.LoadInt64(&p.transferredPerThread[i])
	}
	return total
}
