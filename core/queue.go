package core

import "sync"

const (
	defaultQueueCap     = 16
	compactMinCap       = 64 // Don't compact if capacity is less than this
	compactShrinkFactor = 4  // Trigger compaction when len < cap/4
)

// TaskQueue is the ordered hand-off point between producer goroutines and the
// dispatcher's dedicated goroutine. Strict FIFO: insertion at the tail,
// removal at the head, no reordering across producers.
//
// The queue is unbounded. Push only ever waits for the lock, never for the
// consumer, so producers issuing fire-and-forget calls can run arbitrarily
// far ahead of execution.
//
// The running flag lives under the same lock as the task slice so that the
// consumer's emptiness check and its decision to wait are one atomic step;
// a producer's Push/Signal can never slip between them (missed-wakeup race).
type TaskQueue[R any] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []Task[R]
	running bool
}

// NewTaskQueue creates an empty queue in the running state.
func NewTaskQueue[R any]() *TaskQueue[R] {
	q := &TaskQueue[R]{
		tasks:   make([]Task[R], 0, defaultQueueCap),
		running: true,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a task and signals the waiting consumer. It reports false,
// without enqueueing, once Stop has been called.
func (q *TaskQueue[R]) Push(t Task[R]) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.running {
		return false
	}
	q.tasks = append(q.tasks, t)
	q.cond.Signal()
	return true
}

// WaitNext blocks until a task is available or the queue is stopped. It pops
// exactly one task from the head. The second return value is false when the
// queue has been stopped; tasks still pending at that point are dropped,
// matching the shutdown contract (only the in-flight task is finished).
func (q *TaskQueue[R]) WaitNext() (Task[R], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if !q.running {
			return nil, false
		}
		if len(q.tasks) > 0 {
			t := q.tasks[0]
			// Zero out the element in the underlying array to prevent memory leak
			q.tasks[0] = nil
			q.tasks = q.tasks[1:]
			q.maybeCompactLocked()
			return t, true
		}
		q.cond.Wait()
	}
}

// Stop clears the running flag and wakes every waiter. Idempotent.
func (q *TaskQueue[R]) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.running = false
	q.cond.Broadcast()
}

// Running reports whether the queue still accepts tasks.
func (q *TaskQueue[R]) Running() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

func (q *TaskQueue[R]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *TaskQueue[R]) IsEmpty() bool {
	return q.Len() == 0
}

func (q *TaskQueue[R]) maybeCompactLocked() {
	n := len(q.tasks)
	c := cap(q.tasks)

	if c < compactMinCap {
		return
	}
	if n == 0 {
		q.tasks = make([]Task[R], 0, defaultQueueCap)
		return
	}
	if n*compactShrinkFactor >= c {
		return
	}

	newCap := max(max(c/2, defaultQueueCap), n)

	newSlice := make([]Task[R], n, newCap)
	copy(newSlice, q.tasks)
	q.tasks = newSlice
}
