package session

import (
	"sceneloop/internal/assets"
	"sceneloop/internal/graphics"
)

// StoreManualRender is the store key that suppresses the per-tick render
// pass, leaving rendering to the caller's update handler.
const StoreManualRender = "manualRender"

// Context is the single mutable record passed by reference into every
// session callback. The four resource handles are assigned exactly once at
// session start and stay non-nil for the rest of the session; callbacks
// must not reassign them.
type Context struct {
	// Store is the caller's state map. Its identity is preserved for the
	// whole session.
	Store map[string]any

	Scene    graphics.Scene
	Camera   graphics.Camera
	Renderer graphics.Renderer
	Assets   *assets.Manager

	// Extra carries caller-supplied extension fields, copied in verbatim
	// when the context is created.
	Extra map[string]any
}

// ManualRender reports whether the store currently suppresses the render
// pass.
func (c *Context) ManualRender() bool {
	v, ok := c.Store[StoreManualRender].(bool)
	return ok && v
}
