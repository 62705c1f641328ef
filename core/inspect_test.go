package core

import (
	"sync/atomic"
	"testing"
	"time"
)

// TestInspect_WaitsForInitialization verifies direct reads force init
// Given: A factory that takes 100ms
// When: Inspect is called immediately after construction
// Then: It returns the constructed resource's state, never a zero value
func TestInspect_WaitsForInitialization(t *testing.T) {
	// Arrange
	d := NewWithConfig(func() *testResource {
		time.Sleep(100 * time.Millisecond)
		return &testResource{value: 11}
	}, nil, quietConfig("inspect-init"))
	defer d.Stop()

	// Act
	got := Inspect(d, func(r *testResource) int {
		return r.value
	})

	// Assert
	if got != 11 {
		t.Errorf("Inspect = %d, want 11 (read must wait for the factory)", got)
	}
}

// TestInspectExclusive_ExcludesRunningTask verifies the guarded direct read
// Given: A queued task mutating a value in two steps with a pause between
// When: InspectExclusive reads while the task is mid-flight
// Then: The read never observes the torn intermediate state
func TestInspectExclusive_ExcludesRunningTask(t *testing.T) {
	// Arrange
	type pair struct{ a, b int }
	d := NewWithConfig(func() *pair { return &pair{} }, nil, quietConfig("inspect-excl"))
	defer d.Stop()

	started := make(chan struct{})
	var closeOnce atomic.Bool
	for i := 1; i <= 20; i++ {
		n := i
		d.Post(func(p *pair) {
			if closeOnce.CompareAndSwap(false, true) {
				close(started)
			}
			// Torn write: a and b only agree once the task completes.
			p.a = n
			time.Sleep(time.Millisecond)
			p.b = n
		})
	}
	<-started

	// Act / Assert
	for i := 0; i < 50; i++ {
		torn := InspectExclusive(d, func(p *pair) bool {
			return p.a != p.b
		})
		if torn {
			t.Fatal("InspectExclusive observed a task's intermediate state")
		}
	}
}
