package session

import (
	"time"

	"github.com/rs/zerolog/log"

	"sceneloop/internal/host"
)

// scheduler drives the per-frame update/render sequence off the host's
// frame-pacing primitive. One tick corresponds to exactly one frame-pacing
// callback; ticks are never skipped or coalesced.
type scheduler struct {
	host host.Host
	reg  *Registry
	ctx  *Context

	pending    host.FrameRequest
	lastTickMS float64

	// last-tick timings, read by Controller.LastFrame on the same thread.
	lastDeltaMS  float64
	lastUpdateMS float64
	lastRenderMS float64
}

// tick computes the delta, re-requests the next frame before dispatch so
// scheduling survives a panicking handler, invokes the current update
// handler, then renders unless the store suppresses it. lastTickMS moves
// forward only after dispatch.
func (s *scheduler) tick(timestampMS float64) {
	dt := (timestampMS - s.lastTickMS) / 1000.0

	s.pending = s.host.RequestFrame(s.tick)

	cb := s.reg.Current()
	updateStart := time.Now()
	if cb.OnUpdate != nil {
		invoke("update", func() { cb.OnUpdate(s.ctx, dt) })
	}
	s.lastUpdateMS = float64(time.Since(updateStart).Microseconds()) / 1000.0

	s.lastRenderMS = 0
	if !s.ctx.ManualRender() {
		renderStart := time.Now()
		s.ctx.Camera.UpdateProjectionMatrix()
		s.ctx.Renderer.Render(s.ctx.Scene, s.ctx.Camera)
		s.lastRenderMS = float64(time.Since(renderStart).Microseconds()) / 1000.0
	}

	s.lastTickMS = timestampMS
	s.lastDeltaMS = dt * 1000.0
}

// cancel drops the pending frame request, if any. A tick the host already
// dispatched still runs to completion.
func (s *scheduler) cancel() {
	if s.pending != 0 {
		s.host.CancelFrame(s.pending)
		s.pending = 0
	}
}

// invoke isolates a caller-supplied handler: a panic is logged and the
// frame loop continues.
func invoke(stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("stage", stage).Msg("session handler panicked")
		}
	}()
	fn()
}
