package session

import (
	"math"
	"sort"
	"testing"

	"sceneloop/internal/assets"
	"sceneloop/internal/graphics"
	"sceneloop/internal/host"
)

// fakeHost is a manually pumped Host: each pump call plays one frame.
type fakeHost struct {
	width, height int
	ratio         float64

	nextReq host.FrameRequest
	pending map[host.FrameRequest]func(float64)

	nextSub    int
	resizeSubs map[int]func(int, int)
}

func newFakeHost(width, height int) *fakeHost {
	return &fakeHost{
		width:      width,
		height:     height,
		ratio:      1,
		pending:    map[host.FrameRequest]func(float64){},
		resizeSubs: map[int]func(int, int){},
	}
}

func (f *fakeHost) Size() (int, int)    { return f.width, f.height }
func (f *fakeHost) PixelRatio() float64 { return f.ratio }

func (f *fakeHost) RequestFrame(fn func(float64)) host.FrameRequest {
	f.nextReq++
	f.pending[f.nextReq] = fn
	return f.nextReq
}

func (f *fakeHost) CancelFrame(req host.FrameRequest) {
	delete(f.pending, req)
}

func (f *fakeHost) OnResize(fn func(int, int)) func() {
	f.nextSub++
	id := f.nextSub
	f.resizeSubs[id] = fn
	return func() { delete(f.resizeSubs, id) }
}

// pump dispatches all pending frame callbacks at the given timestamp, the
// way one host frame would.
func (f *fakeHost) pump(timestampMS float64) {
	due := f.pending
	f.pending = map[host.FrameRequest]func(float64){}
	ids := make([]host.FrameRequest, 0, len(due))
	for id := range due {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		due[id](timestampMS)
	}
}

func (f *fakeHost) resize(width, height int) {
	f.width = width
	f.height = height
	for _, fn := range f.resizeSubs {
		fn(width, height)
	}
}

// fakeRenderer records sizing and render calls.
type fakeRenderer struct {
	width, height int
	ratio         float64
	renders       int
	events        *[]string
}

func (r *fakeRenderer) Render(scene graphics.Scene, camera graphics.Camera) {
	r.renders++
	if r.events != nil {
		*r.events = append(*r.events, "render")
	}
}
func (r *fakeRenderer) SetSize(width, height int)   { r.width, r.height = width, height }
func (r *fakeRenderer) SetPixelRatio(ratio float64) { r.ratio = ratio }
func (r *fakeRenderer) Dispose()                    {}

func newTestController(h *fakeHost) (*Controller, *fakeRenderer) {
	r := &fakeRenderer{}
	c := New(h, Options{Renderer: r})
	return c, r
}

func TestDefaultBundle(t *testing.T) {
	h := newFakeHost(800, 600)
	h.ratio = 2
	c, r := newTestController(h)

	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	ctx := c.Context()
	if ctx.Scene == nil || ctx.Camera == nil || ctx.Renderer == nil || ctx.Assets == nil {
		t.Fatal("resource handles must all be assigned at start")
	}

	cam, ok := ctx.Camera.(*graphics.PerspectiveCamera)
	if !ok {
		t.Fatalf("default camera: got %T, want *graphics.PerspectiveCamera", ctx.Camera)
	}
	if cam.FOV != 75 {
		t.Errorf("default FOV: got %v, want 75", cam.FOV)
	}
	if want := float32(800.0 / 600.0); cam.AspectRatio != want {
		t.Errorf("aspect: got %v, want %v", cam.AspectRatio, want)
	}
	if cam.NearPlane != 0.1 || cam.FarPlane != 1000 {
		t.Errorf("planes: got %v/%v, want 0.1/1000", cam.NearPlane, cam.FarPlane)
	}

	if r.width != 800 || r.height != 600 {
		t.Errorf("renderer size: got %dx%d, want 800x600", r.width, r.height)
	}
	if r.ratio != 2 {
		t.Errorf("pixel ratio: got %v, want 2", r.ratio)
	}
}

func TestPixelRatioFallback(t *testing.T) {
	h := newFakeHost(640, 480)
	h.ratio = 0 // unknown
	c, r := newTestController(h)

	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if r.ratio != 1 {
		t.Errorf("pixel ratio fallback: got %v, want 1", r.ratio)
	}
}

func TestZeroExtentContainerFailsStart(t *testing.T) {
	c, _ := newTestController(newFakeHost(0, 600))
	if err := c.Start(); err == nil {
		t.Fatal("expected error for zero-extent container")
	}
	if c.State() != Unstarted {
		t.Errorf("state after failed start: got %v, want unstarted", c.State())
	}
}

func TestStartIdempotent(t *testing.T) {
	h := newFakeHost(800, 600)
	c, _ := newTestController(h)

	starts := 0
	c.SetCallbacks(Callbacks{OnStart: func(ctx *Context) { starts++ }})

	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("second start: %v", err)
	}

	if starts != 1 {
		t.Errorf("OnStart invocations: got %d, want 1", starts)
	}
	if len(h.pending) != 1 {
		t.Errorf("pending frame requests: got %d, want 1", len(h.pending))
	}
}

func TestStopCancelsPending(t *testing.T) {
	h := newFakeHost(800, 600)
	c, _ := newTestController(h)

	updates := 0
	c.SetCallbacks(Callbacks{OnUpdate: func(ctx *Context, dt float64) { updates++ }})

	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.pump(16)
	c.Stop()

	if len(h.pending) != 0 {
		t.Fatalf("pending after stop: got %d, want 0", len(h.pending))
	}
	h.pump(32)
	if updates != 1 {
		t.Errorf("updates after stop: got %d, want 1", updates)
	}
}

func TestStopTwiceRunsDestroyOnce(t *testing.T) {
	h := newFakeHost(800, 600)
	c, _ := newTestController(h)

	destroys := 0
	c.SetCallbacks(Callbacks{OnDestroy: func(ctx *Context) { destroys++ }})

	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.Stop()
	c.Stop()

	if destroys != 1 {
		t.Errorf("OnDestroy invocations: got %d, want 1", destroys)
	}
	if c.State() != Stopped {
		t.Errorf("state: got %v, want stopped", c.State())
	}
}

func TestStartAfterStop(t *testing.T) {
	c, _ := newTestController(newFakeHost(800, 600))
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.Stop()
	if err := c.Start(); err != ErrStopped {
		t.Fatalf("restart: got %v, want ErrStopped", err)
	}
}

func TestCallbackSwapBetweenTicks(t *testing.T) {
	h := newFakeHost(800, 600)
	c, _ := newTestController(h)

	var calls []string
	c.SetCallbacks(Callbacks{OnUpdate: func(ctx *Context, dt float64) { calls = append(calls, "old") }})

	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.pump(1000)
	c.SetCallbacks(Callbacks{OnUpdate: func(ctx *Context, dt float64) { calls = append(calls, "new") }})
	h.pump(2000)

	if len(calls) != 2 || calls[0] != "old" || calls[1] != "new" {
		t.Fatalf("calls: got %v, want [old new]", calls)
	}
}

func TestManualRenderSuppressesRenderPass(t *testing.T) {
	h := newFakeHost(800, 600)
	events := []string{}
	r := &fakeRenderer{events: &events}
	store := map[string]any{StoreManualRender: true}
	c := New(h, Options{Renderer: r, Store: store})

	c.SetCallbacks(Callbacks{OnUpdate: func(ctx *Context, dt float64) { events = append(events, "update") }})
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	h.pump(16)
	if r.renders != 0 {
		t.Fatalf("manualRender tick rendered %d times, want 0", r.renders)
	}
	if len(events) != 1 || events[0] != "update" {
		t.Fatalf("events: got %v, want [update]", events)
	}

	// Clearing the flag restores update-then-render.
	store[StoreManualRender] = false
	h.pump(32)
	if r.renders != 1 {
		t.Fatalf("renders: got %d, want 1", r.renders)
	}
	if len(events) != 3 || events[1] != "update" || events[2] != "render" {
		t.Fatalf("events: got %v, want update before render", events)
	}
}

func TestFirstTickScenario(t *testing.T) {
	// Container 800x600, no camera injected, first tick at t=1000ms with a
	// zero baseline: delta comes out as a full second.
	h := newFakeHost(800, 600)
	c, r := newTestController(h)

	var gotDT float64
	c.SetCallbacks(Callbacks{OnUpdate: func(ctx *Context, dt float64) { gotDT = dt }})
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.pump(1000)

	if gotDT != 1.0 {
		t.Errorf("first delta: got %v, want 1.0", gotDT)
	}
	if r.renders != 1 {
		t.Errorf("renders: got %d, want 1", r.renders)
	}
	cam := c.Context().Camera.(*graphics.PerspectiveCamera)
	if math.Abs(float64(cam.AspectRatio)-800.0/600.0) > 1e-6 {
		t.Errorf("aspect: got %v, want 1.333", cam.AspectRatio)
	}

	// Subsequent deltas are frame-to-frame.
	h.pump(1016)
	if math.Abs(gotDT-0.016) > 1e-9 {
		t.Errorf("second delta: got %v, want 0.016", gotDT)
	}
}

func TestResizeUpdatesCameraAndRenderer(t *testing.T) {
	h := newFakeHost(800, 600)
	c, r := newTestController(h)
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	h.resize(400, 300)

	cam := c.Context().Camera.(*graphics.PerspectiveCamera)
	if want := float32(400.0 / 300.0); cam.AspectRatio != want {
		t.Errorf("aspect after resize: got %v, want %v", cam.AspectRatio, want)
	}
	if r.width != 400 || r.height != 300 {
		t.Errorf("renderer after resize: got %dx%d, want 400x300", r.width, r.height)
	}
}

func TestResizeIgnoredAfterStop(t *testing.T) {
	h := newFakeHost(800, 600)
	c, r := newTestController(h)
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.Stop()

	if len(h.resizeSubs) != 0 {
		t.Fatalf("resize subscriptions after stop: got %d, want 0", len(h.resizeSubs))
	}
	h.resize(400, 300)
	if r.width != 800 || r.height != 600 {
		t.Errorf("renderer resized after stop: got %dx%d, want 800x600", r.width, r.height)
	}
}

func TestOrthographicResizeKeepsVerticalExtent(t *testing.T) {
	h := newFakeHost(800, 600)
	cam := graphics.NewOrthographicCamera(10, 800, 600)
	c := New(h, Options{Renderer: &fakeRenderer{}, Camera: cam})
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	h.resize(800, 400)

	if cam.Top != 10 || cam.Bottom != -10 {
		t.Errorf("vertical extent changed: got %v..%v", cam.Bottom, cam.Top)
	}
	if want := float32(20); cam.Right != want || cam.Left != -want {
		t.Errorf("horizontal extent: got %v..%v, want -20..20", cam.Left, cam.Right)
	}
}

func TestAssetEventForwarding(t *testing.T) {
	h := newFakeHost(800, 600)
	manager := assets.NewManager()
	c := New(h, Options{Renderer: &fakeRenderer{}, Assets: manager})

	type progress struct {
		item          string
		loaded, total int
	}
	var got []progress
	var errs []string
	loads := 0
	c.SetCallbacks(Callbacks{
		OnLoadProgress: func(ctx *Context, item string, loaded, total int) {
			if ctx != c.Context() {
				t.Error("forwarder must pass the shared context")
			}
			got = append(got, progress{item, loaded, total})
		},
		OnLoadError: func(ctx *Context, url string) { errs = append(errs, url) },
		OnLoad:      func(ctx *Context) { loads++ },
	})
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	manager.ItemStart("a.png")
	manager.ItemStart("b.png")
	manager.ItemEnd("a.png")
	manager.ItemError("b.png")

	if len(got) != 1 || got[0] != (progress{"a.png", 1, 2}) {
		t.Errorf("progress: got %v", got)
	}
	if len(errs) != 1 || errs[0] != "b.png" {
		t.Errorf("errors: got %v", errs)
	}
	if loads != 1 {
		t.Errorf("OnLoad invocations: got %d, want 1", loads)
	}
}

func TestAssetHandlerSwapWithoutRewire(t *testing.T) {
	h := newFakeHost(800, 600)
	manager := assets.NewManager()
	c := New(h, Options{Renderer: &fakeRenderer{}, Assets: manager})
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	var seen []string
	c.SetCallbacks(Callbacks{OnLoadProgress: func(ctx *Context, item string, loaded, total int) {
		seen = append(seen, "first:"+item)
	}})
	manager.ItemStart("a")
	manager.ItemEnd("a")

	c.SetCallbacks(Callbacks{OnLoadProgress: func(ctx *Context, item string, loaded, total int) {
		seen = append(seen, "second:"+item)
	}})
	manager.ItemStart("b")
	manager.ItemEnd("b")

	if len(seen) != 2 || seen[0] != "first:a" || seen[1] != "second:b" {
		t.Fatalf("seen: got %v", seen)
	}
}

func TestHandlerPanicIsolated(t *testing.T) {
	h := newFakeHost(800, 600)
	c, r := newTestController(h)

	ticks := 0
	c.SetCallbacks(Callbacks{OnUpdate: func(ctx *Context, dt float64) {
		ticks++
		panic("caller bug")
	}})
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	h.pump(16)
	h.pump(32)

	if ticks != 2 {
		t.Errorf("ticks: got %d, want 2 (loop must survive handler panics)", ticks)
	}
	if r.renders != 2 {
		t.Errorf("renders: got %d, want 2", r.renders)
	}
}

func TestStopDuringTickLetsItComplete(t *testing.T) {
	// The scheduler re-requests before dispatch, so a stop issued from
	// inside a tick cancels the next frame but the current one finishes.
	h := newFakeHost(800, 600)
	c, r := newTestController(h)

	c.SetCallbacks(Callbacks{OnUpdate: func(ctx *Context, dt float64) { c.Stop() }})
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.pump(16)

	if r.renders != 1 {
		t.Errorf("in-flight tick renders: got %d, want 1", r.renders)
	}
	if len(h.pending) != 0 {
		t.Errorf("pending after mid-tick stop: got %d, want 0", len(h.pending))
	}
}

func TestStoreIdentityAndExtraCopy(t *testing.T) {
	h := newFakeHost(800, 600)
	store := map[string]any{"hp": 3}
	extra := map[string]any{"tag": "demo"}
	c := New(h, Options{Renderer: &fakeRenderer{}, Store: store, Extra: extra})
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	ctx := c.Context()
	ctx.Store["hp"] = 2
	if store["hp"] != 2 {
		t.Error("store identity must be preserved across the session")
	}

	extra["tag"] = "mutated"
	if ctx.Extra["tag"] != "demo" {
		t.Error("extra fields must be copied at creation")
	}
}
