// Package render provides a threaded facade over a rendering engine.
//
// A rendering engine typically wraps a graphics context that is bound to the
// thread it was created on, so the engine must be constructed, driven, and
// destroyed by one dedicated goroutine. ThreadedEngine hides that constraint:
// it owns the engine through a core.Dispatcher and exposes one method per
// engine operation, each with a fixed calling convention (fire-and-forget,
// blocking, or direct read) that callers can rely on.
package render

import "fmt"

// Status is the result code of a drawing operation.
type Status int

const (
	StatusOK Status = iota
	StatusBadValue
	StatusNoMemory
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBadValue:
		return "bad value"
	case StatusNoMemory:
		return "no memory"
	default:
		return "unknown"
	}
}

// CleanupMode selects how much state CleanupPostRender releases.
type CleanupMode int

const (
	// CleanOutputResources releases only per-frame output resources.
	CleanOutputResources CleanupMode = iota

	// CleanAll additionally releases long-lived allocations.
	CleanAll
)

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height int
}

// Rect is an axis-aligned rectangle in pixel coordinates.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() int { return r.Bottom - r.Top }

// DisplaySettings describes the output target of a draw call.
type DisplaySettings struct {
	PhysicalDisplay Rect
	Clip            Rect
	MaxLuminance    float64
}

// LayerSettings describes one layer composited by DrawLayers.
type LayerSettings struct {
	Geometry             Rect
	Alpha                float64
	BackgroundBlurRadius int
}

// Buffer identifies an external graphics buffer handed to the engine.
type Buffer struct {
	ID     uint64
	Width  int
	Height int
}

// Engine is the stateful rendering resource owned by the dispatcher's
// dedicated goroutine. Implementations do not need to be thread-safe: the
// ThreadedEngine facade guarantees that construction, every operation, and
// Cleanup all happen on that one goroutine (or, for the read-only accessors
// noted on ThreadedEngine, under the facade's own synchronization).
type Engine interface {
	// PrimeCache warms shader and texture caches.
	PrimeCache()

	// Dump appends engine diagnostics to prefix and returns the result.
	Dump(prefix string) string

	// GenTextures allocates count texture names.
	GenTextures(count int) []uint32

	// DeleteTextures releases previously allocated texture names.
	DeleteTextures(names []uint32)

	// MapExternalBuffer registers an external buffer with the engine.
	MapExternalBuffer(buf Buffer, renderable bool)

	// UnmapExternalBuffer releases a previously mapped buffer.
	UnmapExternalBuffer(buf Buffer)

	// MaxTextureSize reports the largest supported texture dimension.
	// Immutable after construction.
	MaxTextureSize() int

	// MaxViewportDims reports the largest supported viewport dimension.
	// Immutable after construction.
	MaxViewportDims() int

	// IsProtected reports whether the protected context is active. Mutable
	// via UseProtectedContext.
	IsProtected() bool

	// SupportsProtectedContent reports a capability fixed at construction.
	SupportsProtectedContent() bool

	// UseProtectedContext switches the protected context on or off and
	// reports whether the switch took effect.
	UseProtectedContext(enabled bool) bool

	// SupportsBackgroundBlur reports a capability fixed at construction.
	SupportsBackgroundBlur() bool

	// DrawLayers composites layers into the target buffer and returns the
	// engine's status code.
	DrawLayers(display DisplaySettings, layers []LayerSettings, target Buffer) (Status, error)

	// CleanupPostRender releases per-frame state after a draw and reports
	// whether anything was released.
	CleanupPostRender(mode CleanupMode) bool

	// SetViewportAndProjection sets the viewport and source crop for
	// subsequent draws.
	SetViewportAndProjection(viewport, sourceCrop Rect)

	// OnPrimaryDisplaySizeChanged notifies the engine that the primary
	// display was resized.
	OnPrimaryDisplaySizeChanged(size Size)

	// CleanFramebufferCache evicts cached framebuffers.
	CleanFramebufferCache()

	// ContextPriority reports the scheduling priority of the context.
	ContextPriority() int

	// Cleanup releases the engine. Called exactly once, on the goroutine
	// that constructed the engine.
	Cleanup()
}

// ErrNoLayers is returned by engines asked to draw an empty layer list.
var ErrNoLayers = fmt.Errorf("render: draw called with no layers")
