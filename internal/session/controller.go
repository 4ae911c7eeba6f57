// Package session binds the lifecycle of a mounted container to one
// continuously running render session: resources are created on Start,
// a frame scheduler drives the update/render sequence for the session's
// lifetime, container resizes recompute projection and viewport, asset
// load events are forwarded to the current handlers, and teardown runs
// exactly once on Stop.
package session

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"sceneloop/internal/host"
)

// State is the session lifecycle state. A controller owns exactly one
// session; there is no way back to Running after Stop — a fresh session
// needs a fresh controller.
type State int

const (
	Unstarted State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// ErrStopped is returned by Start on a controller whose session already
// ended.
var ErrStopped = errors.New("session: controller already stopped")

// Controller orchestrates one render session against a host container.
// All methods must run on the host's UI thread, except SetCallbacks which
// may be called from anywhere.
type Controller struct {
	host  host.Host
	opts  Options
	reg   Registry
	ctx   *Context
	sched *scheduler

	state       State
	unsubResize func()
}

func New(h host.Host, opts Options) *Controller {
	return &Controller{host: h, opts: opts}
}

// SetCallbacks replaces the handler set; see Registry.Set. Safe to call in
// any state, any number of times.
func (c *Controller) SetCallbacks(cb Callbacks) {
	c.reg.Set(cb)
}

// Context returns the shared context, nil before Start.
func (c *Controller) Context() *Context {
	return c.ctx
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Start creates the resource bundle, wires asset events, invokes the start
// handler, and requests the first frame. Starting a running controller is
// a no-op; a zero pending-request handle still reads as "not started", so
// the check covers both the state and the scheduler. A stopped controller
// cannot be restarted.
func (c *Controller) Start() error {
	if c.state == Running || (c.sched != nil && c.sched.pending != 0) {
		return nil
	}
	if c.state == Stopped {
		return ErrStopped
	}

	width, height := c.host.Size()
	ctx, err := newContext(width, height, c.host.PixelRatio(), c.opts)
	if err != nil {
		return fmt.Errorf("session start: %v", err)
	}
	c.ctx = ctx
	c.wireAssetEvents()

	c.sched = &scheduler{host: c.host, reg: &c.reg, ctx: ctx}

	if cb := c.reg.Current(); cb.OnStart != nil {
		invoke("start", func() { cb.OnStart(ctx) })
	}

	c.sched.pending = c.host.RequestFrame(c.sched.tick)
	c.unsubResize = c.host.OnResize(func(int, int) { c.Resize() })
	c.state = Running

	log.Debug().Int("width", width).Int("height", height).Msg("session started")
	return nil
}

// Stop tears the session down: the destroy handler runs first, then the
// pending frame request is cancelled and the resize subscription released.
// Stop runs at most once; later calls are no-ops. A tick the host already
// dispatched before cancellation may still complete after Stop returns.
func (c *Controller) Stop() {
	if c.state != Running {
		return
	}
	c.state = Stopped

	if cb := c.reg.Current(); cb.OnDestroy != nil {
		invoke("destroy", func() { cb.OnDestroy(c.ctx) })
	}
	c.sched.cancel()
	if c.unsubResize != nil {
		c.unsubResize()
		c.unsubResize = nil
	}

	log.Debug().Msg("session stopped")
}

// Resize recomputes the camera's viewport and projection matrix and
// resizes the renderer output to the container's current dimensions. Zero
// extents (a minimized window) keep the last good viewport.
func (c *Controller) Resize() {
	if c.state != Running {
		return
	}
	width, height := c.host.Size()
	if width <= 0 || height <= 0 {
		return
	}
	c.ctx.Camera.SetViewport(width, height)
	c.ctx.Camera.UpdateProjectionMatrix()
	c.ctx.Renderer.SetSize(width, height)
}

// FrameTimings is the previous tick's measured durations, milliseconds.
type FrameTimings struct {
	DeltaMS  float64
	UpdateMS float64
	RenderMS float64
}

// LastFrame returns the previous tick's timings. Zero before first tick.
func (c *Controller) LastFrame() FrameTimings {
	if c.sched == nil {
		return FrameTimings{}
	}
	return FrameTimings{
		DeltaMS:  c.sched.lastDeltaMS,
		UpdateMS: c.sched.lastUpdateMS,
		RenderMS: c.sched.lastRenderMS,
	}
}

// wireAssetEvents points the asset manager's hooks at thin forwarders.
// Each forwarder captures the registry, not a handler value, and reads the
// current handler at event time — handler replacement takes effect without
// re-wiring.
func (c *Controller) wireAssetEvents() {
	ctx := c.ctx
	ctx.Assets.OnProgress = func(item string, loaded, total int) {
		if f := c.reg.Current().OnLoadProgress; f != nil {
			f(ctx, item, loaded, total)
		}
	}
	ctx.Assets.OnError = func(url string) {
		if f := c.reg.Current().OnLoadError; f != nil {
			f(ctx, url)
		}
	}
	ctx.Assets.OnLoad = func() {
		if f := c.reg.Current().OnLoad; f != nil {
			f(ctx)
		}
	}
}
