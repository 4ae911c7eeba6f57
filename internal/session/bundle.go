package session

import (
	"fmt"

	"sceneloop/internal/assets"
	"sceneloop/internal/graphics"
)

// Options is the session configuration surface. Every resource is
// optional; whatever the caller does not inject is default-constructed
// once, at session start.
type Options struct {
	// Store seeds the context's caller state map. Identity is preserved.
	Store map[string]any

	// Extra fields are copied into the context verbatim.
	Extra map[string]any

	// Pre-built resource overrides.
	Scene    graphics.Scene
	Camera   graphics.Camera
	Renderer graphics.Renderer
	Assets   *assets.Manager

	// NewRenderer overrides default renderer construction, for callers
	// that want a specific backend without pre-building the renderer.
	NewRenderer func() (graphics.Renderer, error)
}

// Default camera field of view, degrees.
const defaultFOV float32 = 75.0

// newContext builds the resource bundle and shared context for one
// session. It runs exactly once per session and fails if the container has
// no extent, which would produce a degenerate camera aspect ratio; callers
// must mount after layout.
func newContext(width, height int, pixelRatio float64, opts Options) (*Context, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("container has zero extent (%dx%d)", width, height)
	}

	scene := opts.Scene
	if scene == nil {
		scene = graphics.NewGroup()
	}

	camera := opts.Camera
	if camera == nil {
		camera = graphics.NewPerspectiveCamera(defaultFOV, width, height)
	}

	renderer := opts.Renderer
	if renderer == nil {
		construct := opts.NewRenderer
		if construct == nil {
			construct = func() (graphics.Renderer, error) { return graphics.NewGLRenderer() }
		}
		r, err := construct()
		if err != nil {
			return nil, fmt.Errorf("renderer construction: %v", err)
		}
		renderer = r
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	renderer.SetPixelRatio(pixelRatio)
	renderer.SetSize(width, height)

	manager := opts.Assets
	if manager == nil {
		manager = assets.NewManager()
	}

	store := opts.Store
	if store == nil {
		store = make(map[string]any)
	}

	extra := make(map[string]any, len(opts.Extra))
	for k, v := range opts.Extra {
		extra[k] = v
	}

	return &Context{
		Store:    store,
		Scene:    scene,
		Camera:   camera,
		Renderer: renderer,
		Assets:   manager,
		Extra:    extra,
	}, nil
}
