package core

// DispatcherStats represents runtime observability state for a dispatcher.
type DispatcherStats struct {
	Name     string
	State    WorkerState
	Pending  int
	Executed int64
	Rejected int64
	Closed   bool
}
