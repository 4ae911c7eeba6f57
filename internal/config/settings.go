package config

import "sync"

// FrameSettings holds runtime-adjustable frame pacing configuration
type FrameSettings struct {
	mu       sync.RWMutex
	fpsLimit int
}

var globalFrameSettings = &FrameSettings{
	fpsLimit: 120, // default value
}

// GetFPSLimit returns the current frame rate cap (0 = uncapped)
func GetFPSLimit() int {
	globalFrameSettings.mu.RLock()
	defer globalFrameSettings.mu.RUnlock()
	return globalFrameSettings.fpsLimit
}

// SetFPSLimit sets the frame rate cap
func SetFPSLimit(limit int) {
	globalFrameSettings.mu.Lock()
	defer globalFrameSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}

	globalFrameSettings.fpsLimit = limit
}
