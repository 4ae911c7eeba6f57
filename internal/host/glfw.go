package host

import (
	"fmt"
	"sort"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog/log"

	"sceneloop/internal/config"
)

// Window adapts a glfw.Window to the Host interface and drives the
// frame-pacing primitive off the window's swap cycle. glfw.Init must have
// been called and Run must stay on the main thread.
type Window struct {
	win     *glfw.Window
	limiter *frameLimiter

	nextReq FrameRequest
	pending map[FrameRequest]func(float64)

	nextSub    int
	resizeSubs map[int]func(int, int)
}

// NewWindow creates the native window and makes its context current.
// backend selects the context to request (config.BackendGL41 or
// config.BackendGLES3).
func NewWindow(width, height int, title, backend string) (*Window, error) {
	switch backend {
	case "", config.BackendGL41:
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	case config.BackendGLES3:
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
		glfw.WindowHint(glfw.ContextVersionMajor, 3)
		glfw.WindowHint(glfw.ContextVersionMinor, 0)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}
	win.MakeContextCurrent()

	// Disable V-Sync; we use our own frame limiter
	glfw.SwapInterval(0)

	w := &Window{
		win:        win,
		limiter:    newFrameLimiter(),
		pending:    make(map[FrameRequest]func(float64)),
		resizeSubs: make(map[int]func(int, int)),
	}

	win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		log.Debug().Int("width", width).Int("height", height).Msg("window resized")
		for _, fn := range w.resizeSubs {
			fn(width, height)
		}
	})

	return w, nil
}

func (w *Window) Size() (int, int) {
	return w.win.GetSize()
}

func (w *Window) PixelRatio() float64 {
	sx, _ := w.win.GetContentScale()
	return float64(sx)
}

func (w *Window) RequestFrame(fn func(timestampMS float64)) FrameRequest {
	w.nextReq++
	w.pending[w.nextReq] = fn
	return w.nextReq
}

func (w *Window) CancelFrame(req FrameRequest) {
	delete(w.pending, req)
}

func (w *Window) OnResize(fn func(width, height int)) func() {
	w.nextSub++
	id := w.nextSub
	w.resizeSubs[id] = fn
	return func() {
		delete(w.resizeSubs, id)
	}
}

// Handle exposes the underlying glfw window for input callbacks.
func (w *Window) Handle() *glfw.Window {
	return w.win
}

// Run pumps events and dispatches pending frame callbacks until the window
// should close. One loop iteration is one display frame: callbacks
// requested during a dispatch run on the next iteration, never the same
// one.
func (w *Window) Run() {
	for !w.win.ShouldClose() {
		glfw.PollEvents()
		w.dispatchFrame(glfw.GetTime() * 1000)
		w.win.SwapBuffers()
		w.limiter.Wait()
	}
}

func (w *Window) dispatchFrame(timestampMS float64) {
	if len(w.pending) == 0 {
		return
	}
	due := w.pending
	w.pending = make(map[FrameRequest]func(float64), len(due))

	// Dispatch in request order
	ids := make([]FrameRequest, 0, len(due))
	for id := range due {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		due[id](timestampMS)
	}
}
