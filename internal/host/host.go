// Package host defines the capability surface a render session needs from
// its embedding environment: container dimensions, display pixel density,
// a frame-pacing primitive, and scoped resize notifications. Sessions never
// bind to ambient globals; each subscription is released on teardown.
package host

// FrameRequest identifies one pending frame callback. The zero value is
// never issued and means "no request pending".
type FrameRequest uint64

// Host is implemented by the embedding environment (a window, an offscreen
// surface, a test harness).
type Host interface {
	// Size returns the container's current logical dimensions.
	Size() (width, height int)

	// PixelRatio returns the display's device pixel ratio. Implementations
	// return 0 when the ratio is unknown; callers fall back to 1.
	PixelRatio() float64

	// RequestFrame schedules fn to run exactly once on the next frame,
	// with a millisecond timestamp.
	RequestFrame(fn func(timestampMS float64)) FrameRequest

	// CancelFrame drops a pending request. Unknown or zero requests are
	// ignored.
	CancelFrame(req FrameRequest)

	// OnResize subscribes fn to container size changes and returns an
	// unsubscribe func.
	OnResize(fn func(width, height int)) func()
}
