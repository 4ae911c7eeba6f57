package host

import (
	"time"

	"sceneloop/internal/config"
)

// frameLimiter paces Window.Run iterations to the configured FPS cap
type frameLimiter struct {
	next time.Time
}

func newFrameLimiter() *frameLimiter {
	return &frameLimiter{}
}

// Wait blocks until the next frame slot. Sleep stops short of the
// deadline and the remainder is spun away; at tight caps the sleep
// granularity alone would overshoot.
func (f *frameLimiter) Wait() {
	limit := config.GetFPSLimit()
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)

	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		// spin out the last stretch
		if time.Until(f.next) <= 0 {
			break
		}
	}

	// After a stall longer than one frame, rebase the schedule rather
	// than burning frames catching up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
