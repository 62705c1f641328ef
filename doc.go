// Package activeobject provides a single-worker active-object executor for Go.
//
// An active object owns a stateful resource that must only ever be touched by
// one dedicated goroutine: the resource is constructed there, every operation
// against it runs there, and it is destroyed there. Arbitrary goroutines
// interact with the resource through a thread-safe dispatcher that queues
// operations in strict FIFO order.
//
// # Quick Start
//
// Create a dispatcher around a factory for the owned resource:
//
//	d := activeobject.New(func() *Cache { return OpenCache() })
//	defer d.Stop()
//
//	// Fire-and-forget: enqueue and return immediately.
//	d.Post(func(c *Cache) { c.Invalidate("key") })
//
//	// Blocking with a typed result.
//	v, err := activeobject.RunResult(d, func(c *Cache) (string, error) {
//		return c.Get("key")
//	})
//
// # Key Concepts
//
// Dispatcher: the public-facing facade. It launches the dedicated goroutine
// on construction and returns immediately; use WaitUntilInitialized (or any
// blocking call) to wait for the resource to exist.
//
// Calling conventions: each operation is either fire-and-forget (Post),
// blocking (Run, RunResult), or a direct read (Inspect, InspectExclusive)
// that bypasses the queue after the initialization barrier. Which convention
// an operation uses is part of its contract.
//
// Ordering: tasks execute one at a time, in exactly the order their enqueue
// calls returned, no matter how many goroutines submit concurrently. There is
// no cancellation, no timeout, and no priority lane.
//
// # Thread Affinity
//
// With the default configuration the dedicated goroutine is pinned to one OS
// thread for the dispatcher's whole lifetime, so resources relying on
// thread-local state (cgo handles, GL contexts) work unmodified. The render
// subpackage shows a full facade over such a resource.
//
// For metrics integration, see the observability/prometheus subpackage.
package activeobject
