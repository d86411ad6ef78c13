package streamlock

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/petermattis/goid"
)

const mutexLocked = 1

// Lock 字符流的同步对象 (可重入互斥锁).
// 流的Skip等临界区操作会持有该锁并回调数据源, 如果数据源也对同一把锁加锁,
// 普通互斥锁会死锁, 因此这里允许同一goroutine重入.
// 多个流实例可以共享同一个Lock, 以此实现跨流的串行化.
type Lock struct {
	mu sync.Mutex

	owner int64 // 当前持有锁的goroutine id
	depth int32 // 重入次数
}

// Holder 返回锁的拥有者和重入次数.
func (l *Lock) Holder() string {
	return fmt.Sprintf("owner (%d), depth (%d)", atomic.LoadInt64(&l.owner), atomic.LoadInt32(&l.depth))
}

// Lock 加锁, 同一goroutine允许重入.
func (l *Lock) Lock() {
	gid := goid.Get()
	if atomic.LoadInt64(&l.owner) == gid {
		atomic.AddInt32(&l.depth, 1)
		return
	}
	l.mu.Lock()
	atomic.StoreInt64(&l.owner, gid)
	atomic.StoreInt32(&l.depth, 1)
}

// Unlock 解锁, 只有锁的拥有者可以解锁, 重入多少次就需要解锁多少次.
func (l *Lock) Unlock() {
	gid := goid.Get()
	if atomic.LoadInt64(&l.owner) != gid {
		panic(fmt.Sprintf("goroutine (%d) does not hold the lock, but the owner (%d) does", gid, atomic.LoadInt64(&l.owner)))
	}
	if atomic.AddInt32(&l.depth, -1) != 0 {
		return
	}
	atomic.StoreInt64(&l.owner, -1)
	l.mu.Unlock()
}

// TryLock 尝试获取锁(非阻塞), 拥有者重入时总是成功.
func (l *Lock) TryLock() bool {
	gid := goid.Get()
	if atomic.LoadInt64(&l.owner) == gid {
		atomic.AddInt32(&l.depth, 1)
		return true
	}
	if !atomic.CompareAndSwapInt32((*int32)(unsafe.Pointer(&l.mu)), 0, mutexLocked) {
		// fast path only
		return false
	}
	atomic.StoreInt64(&l.owner, gid)
	atomic.StoreInt32(&l.depth, 1)
	return true
}
