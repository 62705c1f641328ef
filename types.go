package activeobject

import "github.com/activeobj/go-active-object/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the activeobject package for most use cases.

// Task is the unit of work (Closure) executed against the owned resource.
type Task[R any] = core.Task[R]

// Factory constructs the owned resource on the dedicated goroutine.
type Factory[R any] = core.Factory[R]

// Disposer releases the owned resource on the dedicated goroutine.
type Disposer[R any] = core.Disposer[R]

// Dispatcher is the thread-safe facade over the dedicated goroutine.
type Dispatcher[R any] = core.Dispatcher[R]

// WorkerState describes the dedicated goroutine's lifecycle.
type WorkerState = core.WorkerState

// Config holds dispatcher configuration options.
type Config = core.Config

// DispatcherStats is a point-in-time observability snapshot.
type DispatcherStats = core.DispatcherStats

// Worker lifecycle states
const (
	StateStarting    WorkerState = core.StateStarting
	StateInitialized WorkerState = core.StateInitialized
	StateRunning     WorkerState = core.StateRunning
	StateStopping    WorkerState = core.StateStopping
	StateTerminated  WorkerState = core.StateTerminated
)

// Sentinel errors
var (
	ErrDispatcherStopped = core.ErrDispatcherStopped
	ErrTaskPanicked      = core.ErrTaskPanicked
)

// DefaultConfig returns a config with default handlers and OS thread pinning
// enabled.
var DefaultConfig = core.DefaultConfig

// New creates a dispatcher with default configuration and launches its
// dedicated goroutine.
func New[R any](factory Factory[R]) *Dispatcher[R] {
	return core.New(factory)
}

// NewWithDisposer creates a dispatcher whose disposer runs on the dedicated
// goroutine during Stop.
func NewWithDisposer[R any](factory Factory[R], disposer Disposer[R]) *Dispatcher[R] {
	return core.NewWithDisposer(factory, disposer)
}

// NewWithConfig creates a dispatcher with an explicit configuration.
func NewWithConfig[R any](factory Factory[R], disposer Disposer[R], config *Config) *Dispatcher[R] {
	return core.NewWithConfig(factory, disposer, config)
}

// RunResult submits a blocking operation returning a typed value.
func RunResult[R, T any](d *Dispatcher[R], op func(resource R) (T, error)) (T, error) {
	return core.RunResult(d, op)
}

// Inspect reads resource state directly after the initialization barrier.
// Only safe for state immutable after construction.
func Inspect[R, T any](d *Dispatcher[R], read func(resource R) T) T {
	return core.Inspect(d, read)
}

// InspectExclusive is Inspect with the execution lock held, for state that a
// queued task can mutate.
func InspectExclusive[R, T any](d *Dispatcher[R], read func(resource R) T) T {
	return core.InspectExclusive(d, read)
}
