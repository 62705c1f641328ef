package render

import (
	"github.com/activeobj/go-active-object/core"
)

// EngineFactory constructs the engine on the dedicated goroutine.
type EngineFactory func() Engine

// ThreadedEngine forwards every Engine operation to an engine instance owned
// by a dedicated goroutine. The facade is a pure pass-through plus queuing:
// each operation's argument and return semantics belong to the engine.
//
// The calling convention of each method is part of the contract:
//
//   - fire-and-forget (returns before the engine runs the operation):
//     PrimeCache, MapExternalBuffer, UnmapExternalBuffer,
//     CleanFramebufferCache, OnPrimaryDisplaySizeChanged
//   - blocking (returns after the engine ran the operation):
//     Dump, GenTextures, DeleteTextures, UseProtectedContext, DrawLayers,
//     CleanupPostRender, SetViewportAndProjection, ContextPriority
//   - direct read (waits for initialization, bypasses the queue):
//     MaxTextureSize, MaxViewportDims, SupportsProtectedContent,
//     SupportsBackgroundBlur — immutable after construction, and
//     IsProtected — mutable via UseProtectedContext, so it additionally
//     excludes the task currently executing.
type ThreadedEngine struct {
	d *core.Dispatcher[Engine]
}

// NewThreadedEngine launches the dedicated goroutine and returns immediately;
// the engine is constructed asynchronously. Call WaitUntilInitialized or any
// blocking operation to wait for it.
func NewThreadedEngine(factory EngineFactory) *ThreadedEngine {
	config := core.DefaultConfig()
	config.Name = "render-engine"
	return NewThreadedEngineWithConfig(factory, config)
}

// NewThreadedEngineWithConfig is NewThreadedEngine with an explicit
// dispatcher configuration (name, logger, metrics, panic handling).
func NewThreadedEngineWithConfig(factory EngineFactory, config *core.Config) *ThreadedEngine {
	d := core.NewWithConfig(
		func() Engine { return factory() },
		func(e Engine) { e.Cleanup() },
		config,
	)
	return &ThreadedEngine{d: d}
}

// WaitUntilInitialized blocks until the engine has been constructed.
func (t *ThreadedEngine) WaitUntilInitialized() {
	t.d.WaitUntilInitialized()
}

// Stats exposes the underlying dispatcher snapshot for observability.
func (t *ThreadedEngine) Stats() core.DispatcherStats {
	return t.d.Stats()
}

// Close stops the dedicated goroutine. The in-flight operation (if any)
// finishes, queued-but-unstarted operations are dropped, and the engine's
// Cleanup runs on the goroutine that constructed it before Close returns.
// Idempotent.
func (t *ThreadedEngine) Close() {
	t.d.Stop()
}

// PrimeCache is fire-and-forget.
func (t *ThreadedEngine) PrimeCache() {
	_ = t.d.Post(func(e Engine) {
		e.PrimeCache()
	})
}

// Dump blocks and returns the engine diagnostics.
func (t *ThreadedEngine) Dump(prefix string) (string, error) {
	return core.RunResult(t.d, func(e Engine) (string, error) {
		return e.Dump(prefix), nil
	})
}

// GenTextures blocks and returns the allocated texture names.
func (t *ThreadedEngine) GenTextures(count int) ([]uint32, error) {
	return core.RunResult(t.d, func(e Engine) ([]uint32, error) {
		return e.GenTextures(count), nil
	})
}

// DeleteTextures blocks until the names have been released. The slice is
// captured by reference; that is safe because the caller stays suspended
// until the operation completes.
func (t *ThreadedEngine) DeleteTextures(names []uint32) error {
	return t.d.Run(func(e Engine) {
		e.DeleteTextures(names)
	})
}

// MapExternalBuffer is fire-and-forget. Buffer is passed by value, so the
// task owns its copy regardless of what the caller does afterwards.
func (t *ThreadedEngine) MapExternalBuffer(buf Buffer, renderable bool) {
	_ = t.d.Post(func(e Engine) {
		e.MapExternalBuffer(buf, renderable)
	})
}

// UnmapExternalBuffer is fire-and-forget.
func (t *ThreadedEngine) UnmapExternalBuffer(buf Buffer) {
	_ = t.d.Post(func(e Engine) {
		e.UnmapExternalBuffer(buf)
	})
}

// MaxTextureSize is a direct read; the value is fixed at construction.
func (t *ThreadedEngine) MaxTextureSize() int {
	return core.Inspect(t.d, func(e Engine) int {
		return e.MaxTextureSize()
	})
}

// MaxViewportDims is a direct read; the value is fixed at construction.
func (t *ThreadedEngine) MaxViewportDims() int {
	return core.Inspect(t.d, func(e Engine) int {
		return e.MaxViewportDims()
	})
}

// IsProtected is a direct read of state that a queued UseProtectedContext can
// change, so it excludes the task currently executing.
func (t *ThreadedEngine) IsProtected() bool {
	return core.InspectExclusive(t.d, func(e Engine) bool {
		return e.IsProtected()
	})
}

// SupportsProtectedContent is a direct read; the capability is fixed at
// construction.
func (t *ThreadedEngine) SupportsProtectedContent() bool {
	return core.Inspect(t.d, func(e Engine) bool {
		return e.SupportsProtectedContent()
	})
}

// UseProtectedContext blocks and reports whether the switch took effect.
func (t *ThreadedEngine) UseProtectedContext(enabled bool) (bool, error) {
	return core.RunResult(t.d, func(e Engine) (bool, error) {
		return e.UseProtectedContext(enabled), nil
	})
}

// SupportsBackgroundBlur is a direct read; the capability is fixed at
// construction.
func (t *ThreadedEngine) SupportsBackgroundBlur() bool {
	return core.Inspect(t.d, func(e Engine) bool {
		return e.SupportsBackgroundBlur()
	})
}

// DrawLayers blocks and returns the engine's status code and error unchanged.
// The layers slice is captured by reference; the caller stays suspended for
// the whole draw.
func (t *ThreadedEngine) DrawLayers(display DisplaySettings, layers []LayerSettings, target Buffer) (Status, error) {
	return core.RunResult(t.d, func(e Engine) (Status, error) {
		return e.DrawLayers(display, layers, target)
	})
}

// CleanupPostRender blocks and reports whether the engine released any
// per-frame state.
func (t *ThreadedEngine) CleanupPostRender(mode CleanupMode) (bool, error) {
	return core.RunResult(t.d, func(e Engine) (bool, error) {
		return e.CleanupPostRender(mode), nil
	})
}

// SetViewportAndProjection blocks until the engine has taken the new
// viewport, so a draw issued right after cannot race it.
func (t *ThreadedEngine) SetViewportAndProjection(viewport, sourceCrop Rect) error {
	return t.d.Run(func(e Engine) {
		e.SetViewportAndProjection(viewport, sourceCrop)
	})
}

// OnPrimaryDisplaySizeChanged is fire-and-forget. Size is passed by value, so
// the task owns its copy.
func (t *ThreadedEngine) OnPrimaryDisplaySizeChanged(size Size) {
	_ = t.d.Post(func(e Engine) {
		e.OnPrimaryDisplaySizeChanged(size)
	})
}

// CleanFramebufferCache is fire-and-forget.
func (t *ThreadedEngine) CleanFramebufferCache() {
	_ = t.d.Post(func(e Engine) {
		e.CleanFramebufferCache()
	})
}

// ContextPriority blocks and returns the context's scheduling priority.
func (t *ThreadedEngine) ContextPriority() (int, error) {
	return core.RunResult(t.d, func(e Engine) (int, error) {
		return e.ContextPriority(), nil
	})
}
