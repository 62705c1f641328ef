package core

import (
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// WorkerState describes the lifecycle of the dispatcher's dedicated goroutine.
type WorkerState int32

const (
	// StateStarting: goroutine launched, resource not yet constructed.
	StateStarting WorkerState = iota

	// StateInitialized: resource constructed; initialization barrier released.
	StateInitialized

	// StateRunning: the drain-or-wait loop is active.
	StateRunning

	// StateStopping: Stop has cleared the running flag; the worker finishes
	// the task it is executing (if any) and exits the loop on its next wait.
	StateStopping

	// StateTerminated: resource disposed, goroutine exited.
	StateTerminated
)

func (s WorkerState) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Dispatcher owns a stateful resource that must only ever be constructed,
// mutated, and destroyed by a single designated goroutine, while exposing a
// thread-safe calling surface to arbitrary producer goroutines.
//
// Exactly one task runs against the resource at any instant, in strict FIFO
// submission order, regardless of how many goroutines submit concurrently.
// Callers never receive a reference to the resource; all interaction crosses
// the boundary as queued tasks or through the read-only Inspect accessors.
//
// There is no task cancellation and no timeout: a blocking call waits until
// the worker reaches its task, however long the queue is.
type Dispatcher[R any] struct {
	queue   *TaskQueue[R]
	barrier *Barrier

	// Written once by the dedicated goroutine before the barrier releases;
	// read by Inspect accessors only after Barrier.Wait.
	resource R

	// Held by the worker around each task execution. InspectExclusive takes
	// it to read state that a queued task can mutate.
	execMu sync.Mutex

	state      atomic.Int32
	executed   atomic.Int64
	rejected   atomic.Int64
	terminated chan struct{}
	stopOnce   sync.Once

	name            string
	panicHandler    PanicHandler
	metrics         Metrics
	rejectedHandler RejectedTaskHandler
	logger          Logger
}

// New creates a dispatcher with default configuration and no disposer, and
// immediately launches the dedicated goroutine. It does NOT wait for the
// resource to be constructed; callers that need the resource ready should
// call WaitUntilInitialized or issue a blocking call, either of which
// transitively waits.
func New[R any](factory Factory[R]) *Dispatcher[R] {
	return NewWithConfig(factory, nil, DefaultConfig())
}

// NewWithDisposer creates a dispatcher whose disposer runs on the dedicated
// goroutine after the task loop exits, before Stop returns.
func NewWithDisposer[R any](factory Factory[R], disposer Disposer[R]) *Dispatcher[R] {
	return NewWithConfig(factory, disposer, DefaultConfig())
}

// NewWithConfig creates a dispatcher with the given configuration. A nil
// config behaves like DefaultConfig except that OS thread pinning stays off.
// Nil handlers inside the config fall back to the defaults.
func NewWithConfig[R any](factory Factory[R], disposer Disposer[R], config *Config) *Dispatcher[R] {
	if config == nil {
		config = &Config{}
	}
	config = config.withDefaults()

	d := &Dispatcher[R]{
		queue:           NewTaskQueue[R](),
		barrier:         NewBarrier(),
		terminated:      make(chan struct{}),
		name:            config.Name,
		panicHandler:    config.PanicHandler,
		metrics:         config.Metrics,
		rejectedHandler: config.RejectedTaskHandler,
		logger:          config.Logger,
	}

	go d.worker(factory, disposer, config.LockOSThread)

	return d
}

// Name returns the dispatcher's configured name.
func (d *Dispatcher[R]) Name() string {
	return d.name
}

// State returns the current lifecycle state of the dedicated goroutine.
func (d *Dispatcher[R]) State() WorkerState {
	return WorkerState(d.state.Load())
}

// IsClosed reports whether Stop has begun.
func (d *Dispatcher[R]) IsClosed() bool {
	return !d.queue.Running()
}

// WaitUntilInitialized blocks until the dedicated goroutine has finished
// constructing the resource. Any number of goroutines may call this
// concurrently; all are released together, and later calls return
// immediately.
func (d *Dispatcher[R]) WaitUntilInitialized() {
	d.barrier.Wait()
}

// Post submits a task fire-and-forget: it enqueues, signals, and returns
// immediately. No result or error from the task itself is observable through
// this call; a failure inside the task can only be seen through the
// resource's own side effects. Correctness of a Post relative to other calls
// relies on the queue's FIFO ordering.
//
// Post returns ErrDispatcherStopped if Stop has already begun.
func (d *Dispatcher[R]) Post(task Task[R]) error {
	return d.enqueue(task)
}

// Run submits a task and blocks the calling goroutine until the dedicated
// goroutine has fully executed it. Because the caller is provably suspended
// for the task's entire lifetime, the task may capture references to the
// caller's locals.
//
// Run returns ErrDispatcherStopped if Stop has already begun, or if the task
// was accepted but then dropped by Stop before the worker reached it, and
// ErrTaskPanicked if the task panicked before completing.
func (d *Dispatcher[R]) Run(task Task[R]) error {
	done := make(chan error, 1)

	wrapped := func(r R) {
		defer func() {
			if rec := recover(); rec != nil {
				done <- ErrTaskPanicked
				// Re-panic so the worker loop reports it through the
				// PanicHandler like any other task panic.
				panic(rec)
			}
		}()
		task(r)
		done <- nil
	}

	if err := d.enqueue(wrapped); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-d.terminated:
		// The worker exited; if the task ran, its completion send
		// happened before the terminated channel closed.
		select {
		case err := <-done:
			return err
		default:
			return ErrDispatcherStopped
		}
	}
}

// RunResult submits an operation returning a typed value and blocks until the
// dedicated goroutine has executed it. The operation's value and error come
// back through a one-shot channel unchanged; the dispatcher never wraps,
// retries, or escalates the resource's own errors. If Stop drops the
// operation before the worker reaches it, the caller gets
// ErrDispatcherStopped instead of blocking forever.
//
// This is a free function because Go methods cannot introduce type parameters.
func RunResult[R, T any](d *Dispatcher[R], op func(resource R) (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}
	out := make(chan outcome, 1)

	wrapped := func(r R) {
		defer func() {
			if rec := recover(); rec != nil {
				out <- outcome{err: ErrTaskPanicked}
				panic(rec)
			}
		}()
		v, err := op(r)
		out <- outcome{value: v, err: err}
	}

	if err := d.enqueue(wrapped); err != nil {
		var zero T
		return zero, err
	}
	select {
	case res := <-out:
		return res.value, res.err
	case <-d.terminated:
		select {
		case res := <-out:
			return res.value, res.err
		default:
			var zero T
			return zero, ErrDispatcherStopped
		}
	}
}

// Inspect waits for initialization, then reads resource state directly on the
// calling goroutine, bypassing the queue. This is only safe for state that no
// queued task can mutate after construction; for anything mutable use
// InspectExclusive or a blocking RunResult.
func Inspect[R, T any](d *Dispatcher[R], read func(resource R) T) T {
	d.barrier.Wait()
	return read(d.resource)
}

// InspectExclusive is Inspect with the execution lock held, excluding a
// concurrently running task. Use it for state that can be changed by an
// enqueued task and also read directly.
func InspectExclusive[R, T any](d *Dispatcher[R], read func(resource R) T) T {
	d.barrier.Wait()
	d.execMu.Lock()
	defer d.execMu.Unlock()
	return read(d.resource)
}

// Stats returns a point-in-time snapshot for observability pollers.
func (d *Dispatcher[R]) Stats() DispatcherStats {
	return DispatcherStats{
		Name:     d.name,
		State:    d.State(),
		Pending:  d.queue.Len(),
		Executed: d.executed.Load(),
		Rejected: d.rejected.Load(),
		Closed:   d.IsClosed(),
	}
}

// Stop clears the running flag under the queue lock, wakes the worker, and
// joins it. When Stop returns, the in-flight task (if any) has finished, the
// disposer has run on the dedicated goroutine, and the goroutine has exited.
// Tasks still queued but not yet started are dropped; blocking callers
// waiting on a dropped task are released with ErrDispatcherStopped. Safe to
// call more than once and from several goroutines; every call blocks until
// termination.
func (d *Dispatcher[R]) Stop() {
	d.stopOnce.Do(func() {
		d.state.Store(int32(StateStopping))
		d.queue.Stop()
		d.logger.Debug("dispatcher stopping", F("dispatcher", d.name))
	})
	<-d.terminated
}

func (d *Dispatcher[R]) enqueue(task Task[R]) error {
	if !d.queue.Push(task) {
		d.rejected.Add(1)
		d.metrics.RecordTaskRejected(d.name, "stopped")
		d.rejectedHandler.HandleRejectedTask(d.name, "stopped")
		return ErrDispatcherStopped
	}
	d.metrics.RecordQueueDepth(d.name, d.queue.Len())
	return nil
}

// worker occupies the dedicated goroutine for the dispatcher's whole
// lifetime: construct the resource, release the barrier, drain tasks, then
// dispose the resource before returning. The resource must be released on
// the goroutine that created it; this is the only safe place.
func (d *Dispatcher[R]) worker(factory Factory[R], disposer Disposer[R], lockThread bool) {
	defer close(d.terminated)

	if lockThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	// CAS keeps Stop's Stopping store from being overwritten when Stop
	// races initialization.
	d.resource = factory()
	d.state.CompareAndSwap(int32(StateStarting), int32(StateInitialized))
	d.barrier.Release()
	d.logger.Debug("dispatcher initialized", F("dispatcher", d.name))

	d.state.CompareAndSwap(int32(StateInitialized), int32(StateRunning))
	for {
		task, ok := d.queue.WaitNext()
		if !ok {
			break
		}
		d.metrics.RecordQueueDepth(d.name, d.queue.Len())
		d.executeTask(task)
	}

	if disposer != nil {
		disposer(d.resource)
	}
	d.state.Store(int32(StateTerminated))
	d.logger.Info("dispatcher terminated",
		F("dispatcher", d.name),
		F("executed", d.executed.Load()),
		F("rejected", d.rejected.Load()))
}

func (d *Dispatcher[R]) executeTask(task Task[R]) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			d.metrics.RecordTaskPanic(d.name, rec)
			d.panicHandler.HandlePanic(d.name, rec, debug.Stack())
		}
		d.metrics.RecordTaskDuration(d.name, time.Since(start))
		d.executed.Add(1)
	}()

	d.execMu.Lock()
	defer d.execMu.Unlock()
	task(d.resource)
}
