package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext provides shared per-frame context for all renderables
type RenderContext struct {
	Camera     Camera
	Proj       mgl32.Mat4
	Width      int
	Height     int
	PixelRatio float64
}

// Renderable interface defines the lifecycle for renderable features
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
}

// Scene is the opaque scene-graph root handle passed through the session
// context. The renderer only needs to enumerate its renderables.
type Scene interface {
	Renderables() []Renderable
}

// Group is the default scene: a flat, append-only list of renderables.
type Group struct {
	children []Renderable
}

func NewGroup(children ...Renderable) *Group {
	return &Group{children: children}
}

func (g *Group) Add(r Renderable) {
	g.children = append(g.children, r)
}

func (g *Group) Renderables() []Renderable {
	return g.children
}
