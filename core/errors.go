package core

import "errors"

var (
	// ErrDispatcherStopped is returned when a task is submitted after Stop
	// has begun. Late submissions are a reported programming error, not a
	// silent no-op; they are also counted through the RejectedTaskHandler
	// and metrics.
	ErrDispatcherStopped = errors.New("dispatcher stopped")

	// ErrTaskPanicked is returned by a blocking call whose task panicked
	// before completing. The panic itself is reported through the
	// dispatcher's PanicHandler; the queue is not poisoned and subsequent
	// tasks execute normally.
	ErrTaskPanicked = errors.New("task panicked")
)
