package render

import (
	"fmt"
	"sort"
)

// SoftwareEngine is an in-memory Engine used in tests, examples, and as a
// fallback when no hardware backend is available. It is deliberately not
// thread-safe; the ThreadedEngine facade serializes every call.
type SoftwareEngine struct {
	maxTextureSize  int
	maxViewportDims int
	protectedOK     bool
	blurOK          bool
	priority        int

	nextTexture uint32
	textures    map[uint32]bool
	mapped      map[uint64]Buffer
	protected   bool
	primed      bool
	drawCount   int
	cleanedUp   bool

	viewport    Rect
	sourceCrop  Rect
	displaySize Size

	// Output resources accumulated by draws, released by CleanupPostRender.
	framebuffers int
}

// SoftwareEngineOptions configures a SoftwareEngine. Zero values fall back
// to defaults.
type SoftwareEngineOptions struct {
	MaxTextureSize  int
	MaxViewportDims int
	ProtectedOK     bool
	BlurOK          bool
	Priority        int
}

// NewSoftwareEngine creates a software engine with the given capabilities.
func NewSoftwareEngine(opts SoftwareEngineOptions) *SoftwareEngine {
	if opts.MaxTextureSize == 0 {
		opts.MaxTextureSize = 4096
	}
	if opts.MaxViewportDims == 0 {
		opts.MaxViewportDims = 4096
	}
	return &SoftwareEngine{
		maxTextureSize:  opts.MaxTextureSize,
		maxViewportDims: opts.MaxViewportDims,
		protectedOK:     opts.ProtectedOK,
		blurOK:          opts.BlurOK,
		priority:        opts.Priority,
		nextTexture:     1,
		textures:        make(map[uint32]bool),
		mapped:          make(map[uint64]Buffer),
	}
}

func (e *SoftwareEngine) PrimeCache() {
	e.primed = true
}

func (e *SoftwareEngine) Dump(prefix string) string {
	return fmt.Sprintf("%sSoftwareEngine{textures=%d mapped=%d draws=%d protected=%t display=%dx%d}",
		prefix, len(e.textures), len(e.mapped), e.drawCount, e.protected,
		e.displaySize.Width, e.displaySize.Height)
}

func (e *SoftwareEngine) GenTextures(count int) []uint32 {
	names := make([]uint32, count)
	for i := range names {
		names[i] = e.nextTexture
		e.textures[e.nextTexture] = true
		e.nextTexture++
	}
	return names
}

func (e *SoftwareEngine) DeleteTextures(names []uint32) {
	for _, name := range names {
		delete(e.textures, name)
	}
}

func (e *SoftwareEngine) MapExternalBuffer(buf Buffer, renderable bool) {
	e.mapped[buf.ID] = buf
}

func (e *SoftwareEngine) UnmapExternalBuffer(buf Buffer) {
	delete(e.mapped, buf.ID)
}

func (e *SoftwareEngine) MaxTextureSize() int { return e.maxTextureSize }

func (e *SoftwareEngine) MaxViewportDims() int { return e.maxViewportDims }

func (e *SoftwareEngine) IsProtected() bool { return e.protected }

func (e *SoftwareEngine) SupportsProtectedContent() bool { return e.protectedOK }

func (e *SoftwareEngine) UseProtectedContext(enabled bool) bool {
	if enabled && !e.protectedOK {
		return false
	}
	e.protected = enabled
	return true
}

func (e *SoftwareEngine) SupportsBackgroundBlur() bool { return e.blurOK }

func (e *SoftwareEngine) DrawLayers(display DisplaySettings, layers []LayerSettings, target Buffer) (Status, error) {
	if len(layers) == 0 {
		return StatusBadValue, ErrNoLayers
	}
	for _, layer := range layers {
		if layer.Geometry.Width() > e.maxTextureSize || layer.Geometry.Height() > e.maxTextureSize {
			return StatusBadValue, fmt.Errorf("render: layer %v exceeds max texture size %d",
				layer.Geometry, e.maxTextureSize)
		}
	}
	e.drawCount++
	e.framebuffers++
	return StatusOK, nil
}

func (e *SoftwareEngine) CleanupPostRender(mode CleanupMode) bool {
	released := e.framebuffers > 0
	e.framebuffers = 0
	if mode == CleanAll {
		released = released || e.primed
		e.primed = false
	}
	return released
}

func (e *SoftwareEngine) SetViewportAndProjection(viewport, sourceCrop Rect) {
	e.viewport = viewport
	e.sourceCrop = sourceCrop
}

func (e *SoftwareEngine) OnPrimaryDisplaySizeChanged(size Size) {
	e.displaySize = size
}

func (e *SoftwareEngine) CleanFramebufferCache() {
	e.primed = false
}

func (e *SoftwareEngine) ContextPriority() int { return e.priority }

func (e *SoftwareEngine) Cleanup() {
	e.cleanedUp = true
	e.textures = nil
	e.mapped = nil
}

// TextureNames returns the currently allocated texture names in ascending
// order. Only meaningful from the owning goroutine; used by diagnostics.
func (e *SoftwareEngine) TextureNames() []uint32 {
	names := make([]uint32, 0, len(e.textures))
	for name := range e.textures {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
