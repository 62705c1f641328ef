package core

// Task is the unit of work (Closure). It executes exactly once, on the
// dispatcher's dedicated goroutine, against the owned resource.
//
// A task enqueued through Post (fire-and-forget) must take owned copies of
// its arguments: the caller may have returned long before the task runs.
// A task enqueued through Run or RunResult (blocking) may safely capture
// references to the caller's locals, because the caller stays suspended until
// the task has finished executing.
type Task[R any] func(resource R)

// Factory constructs the owned resource. It is invoked exactly once, on the
// dispatcher's dedicated goroutine, before the initialization barrier is
// released. The factory has no error return; a resource that can fail to
// initialize should report that through its own operations.
type Factory[R any] func() R

// Disposer releases the owned resource. It runs on the dedicated goroutine
// after the task loop has exited, so resources whose teardown requires the
// context established at construction (TLS, cgo handles, GPU contexts) are
// released where they were created.
type Disposer[R any] func(resource R)
