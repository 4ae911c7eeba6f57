package graphics

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/rs/zerolog/log"
)

// Renderer is the output side of a session's resource bundle: it draws a
// scene through a camera and owns the sizing of its output surface.
type Renderer interface {
	Render(scene Scene, camera Camera)
	SetSize(width, height int)
	SetPixelRatio(ratio float64)
	Dispose()
}

// GLRenderer orchestrates rendering of a scene's renderables through the
// OpenGL backend. Renderables are initialized lazily the first time they
// are seen and disposed in reverse initialization order.
type GLRenderer struct {
	width      int
	height     int
	pixelRatio float64

	initErr   map[Renderable]error
	initOrder []Renderable
}

// NewGLRenderer initializes the OpenGL bindings and global render state.
// Requires a current GL context on the calling thread.
func NewGLRenderer() (*GLRenderer, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	return &GLRenderer{
		pixelRatio: 1,
		initErr:    make(map[Renderable]error),
	}, nil
}

// Render executes one render pass: clear, then draw every renderable with
// the shared per-frame context. A renderable whose Init fails is logged
// once and skipped from then on.
func (r *GLRenderer) Render(scene Scene, camera Camera) {
	gl.ClearColor(0.06, 0.06, 0.09, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	ctx := RenderContext{
		Camera:     camera,
		Proj:       camera.ProjectionMatrix(),
		Width:      r.width,
		Height:     r.height,
		PixelRatio: r.pixelRatio,
	}

	for _, renderable := range scene.Renderables() {
		err, seen := r.initErr[renderable]
		if !seen {
			err = renderable.Init()
			r.initErr[renderable] = err
			if err != nil {
				log.Error().Err(err).Msg("renderable init failed, skipping")
			} else {
				r.initOrder = append(r.initOrder, renderable)
			}
		}
		if err != nil {
			continue
		}
		renderable.Render(ctx)
	}
}

// SetSize resizes the output surface to the given logical dimensions.
func (r *GLRenderer) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.applyViewport()
}

// SetPixelRatio sets the output pixel density (device pixels per logical
// pixel).
func (r *GLRenderer) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	r.pixelRatio = ratio
	r.applyViewport()
}

func (r *GLRenderer) applyViewport() {
	if r.width <= 0 || r.height <= 0 {
		return
	}
	gl.Viewport(0, 0, int32(float64(r.width)*r.pixelRatio), int32(float64(r.height)*r.pixelRatio))
}

// Dispose cleans up all renderables in reverse order
func (r *GLRenderer) Dispose() {
	for i := len(r.initOrder) - 1; i >= 0; i-- {
		r.initOrder[i].Dispose()
	}
	r.initOrder = nil
	r.initErr = make(map[Renderable]error)
}
