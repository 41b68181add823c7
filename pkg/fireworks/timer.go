package fireworks

import (
	"container/heap"
	"time"
)

// TimerQueue 按绝对时间触发的延迟事件队列
//
// 事件与实体生命周期无关：调度它的实体即使已被移除，事件仍会按时执行。
// 队列只在模拟所在的 goroutine 上使用，不加锁。
type TimerQueue struct {
	events timerHeap
	seq    uint64
}

type timerEvent struct {
	at  time.Time
	seq uint64
	fn  func()
}

type timerHeap []timerEvent

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(timerEvent)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = timerEvent{}
	*h = old[:n-1]
	return ev
}

// NewTimerQueue 创建空队列
func NewTimerQueue() *TimerQueue {
	return &TimerQueue{}
}

// Schedule 在 at 时刻（或之后的第一次 RunDue）执行 fn
func (q *TimerQueue) Schedule(at time.Time, fn func()) {
	q.seq++
	heap.Push(&q.events, timerEvent{at: at, seq: q.seq, fn: fn})
}

// RunDue 按时间顺序执行所有 at <= now 的事件，返回执行数量
// 事件内再调度的新事件若同样到期，也会在本次调用中执行
func (q *TimerQueue) RunDue(now time.Time) int {
	ran := 0
	for len(q.events) > 0 && !q.events[0].at.After(now) {
		ev := heap.Pop(&q.events).(timerEvent)
		ev.fn()
		ran++
	}
	return ran
}

// Len 等待中的事件数
func (q *TimerQueue) Len() int {
	return len(q.events)
}
