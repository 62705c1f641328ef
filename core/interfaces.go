package core

import (
	"fmt"
	"time"
)

// =============================================================================
// PanicHandler: Interface for handling task panics
// =============================================================================

// PanicHandler is called when a task panics during execution on the
// dispatcher's dedicated goroutine.
//
// Implementations should be thread-safe; for a single dispatcher the handler
// is only ever invoked from the dedicated goroutine, but one handler may be
// shared by several dispatchers.
type PanicHandler interface {
	// HandlePanic is called when a task panics.
	//
	// Parameters:
	// - dispatcherName: The name of the dispatcher where the panic occurred
	// - panicInfo: The panic value recovered from the task
	// - stackTrace: The stack trace at the time of panic
	HandlePanic(dispatcherName string, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler provides a basic panic handler that logs to stdout.
type DefaultPanicHandler struct{}

// HandlePanic prints panic information to stdout.
func (h *DefaultPanicHandler) HandlePanic(dispatcherName string, panicInfo any, stackTrace []byte) {
	fmt.Printf("[Dispatcher %s] Panic: %v\nStack trace:\n%s",
		dispatcherName, panicInfo, stackTrace)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting dispatcher execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods should be non-blocking and fast to avoid impacting task execution
// performance; they run on the dedicated goroutine and on producer goroutines.
type Metrics interface {
	// RecordTaskDuration records how long a task took to execute.
	RecordTaskDuration(dispatcherName string, duration time.Duration)

	// RecordTaskPanic records that a task panicked during execution.
	RecordTaskPanic(dispatcherName string, panicInfo any)

	// RecordQueueDepth records the current queue depth.
	RecordQueueDepth(dispatcherName string, depth int)

	// RecordTaskRejected records that a task was rejected (e.g., submitted
	// after shutdown began).
	RecordTaskRejected(dispatcherName string, reason string)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordTaskDuration is a no-op.
func (m *NilMetrics) RecordTaskDuration(dispatcherName string, duration time.Duration) {}

// RecordTaskPanic is a no-op.
func (m *NilMetrics) RecordTaskPanic(dispatcherName string, panicInfo any) {}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(dispatcherName string, depth int) {}

// RecordTaskRejected is a no-op.
func (m *NilMetrics) RecordTaskRejected(dispatcherName string, reason string) {}

// =============================================================================
// RejectedTaskHandler: Interface for handling rejected tasks
// =============================================================================

// RejectedTaskHandler is called when a task is rejected by the dispatcher.
// This happens when a task is submitted after Stop has begun.
//
// Implementations should be thread-safe as they may be called concurrently.
type RejectedTaskHandler interface {
	// HandleRejectedTask is called when a task is rejected.
	//
	// Parameters:
	// - dispatcherName: The name of the dispatcher
	// - reason: Why the task was rejected (e.g., "stopped")
	HandleRejectedTask(dispatcherName string, reason string)
}

// DefaultRejectedTaskHandler provides a basic handler that logs rejected tasks.
type DefaultRejectedTaskHandler struct{}

// HandleRejectedTask logs the rejected task.
func (h *DefaultRejectedTaskHandler) HandleRejectedTask(dispatcherName string, reason string) {
	fmt.Printf("[Dispatcher %s] Task rejected: %s\n", dispatcherName, reason)
}

// =============================================================================
// Config: Configuration for Dispatcher
// =============================================================================

// Config holds configuration options for a Dispatcher.
// All handlers are optional; if not provided, default implementations will be used.
type Config struct {
	// Name identifies the dispatcher in logs and metrics.
	Name string

	// LockOSThread pins the dedicated goroutine to one OS thread for the
	// dispatcher's whole lifetime. Required when the owned resource relies
	// on thread-local state (cgo, GL contexts). DefaultConfig enables it.
	LockOSThread bool

	// PanicHandler is called when a task panics. Defaults to DefaultPanicHandler.
	PanicHandler PanicHandler

	// Metrics is called to record task execution metrics. Defaults to NilMetrics.
	Metrics Metrics

	// RejectedTaskHandler is called when a task is rejected. Defaults to DefaultRejectedTaskHandler.
	RejectedTaskHandler RejectedTaskHandler

	// Logger receives lifecycle events. Defaults to DefaultLogger.
	Logger Logger
}

// DefaultConfig returns a config with default handlers and OS thread pinning
// enabled.
func DefaultConfig() *Config {
	return &Config{
		Name:                "dispatcher",
		LockOSThread:        true,
		PanicHandler:        &DefaultPanicHandler{},
		Metrics:             &NilMetrics{},
		RejectedTaskHandler: &DefaultRejectedTaskHandler{},
		Logger:              NewDefaultLogger(),
	}
}

func (c *Config) withDefaults() *Config {
	out := *c
	if out.Name == "" {
		out.Name = "dispatcher"
	}
	if out.PanicHandler == nil {
		out.PanicHandler = &DefaultPanicHandler{}
	}
	if out.Metrics == nil {
		out.Metrics = &NilMetrics{}
	}
	if out.RejectedTaskHandler == nil {
		out.RejectedTaskHandler = &DefaultRejectedTaskHandler{}
	}
	if out.Logger == nil {
		out.Logger = NewDefaultLogger()
	}
	return &out
}
