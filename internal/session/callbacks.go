package session

import "sync"

// Callbacks is the full set of optional session event handlers. An absent
// handler is simply skipped, never an error.
type Callbacks struct {
	OnStart        func(ctx *Context)
	OnUpdate       func(ctx *Context, dt float64)
	OnDestroy      func(ctx *Context)
	OnLoad         func(ctx *Context)
	OnLoadError    func(ctx *Context, url string)
	OnLoadProgress func(ctx *Context, item string, loaded, total int)
}

// Registry holds the latest caller-supplied handler set. The scheduler and
// lifecycle transitions read through the registry at dispatch time, so
// replacing the set never restarts the session and no tick ever sees a
// stale handler.
type Registry struct {
	mu sync.RWMutex
	cb Callbacks
}

// Set replaces the handler set wholesale. It takes effect on the next tick
// or lifecycle transition; in-flight invocations using the previous set
// are not retried.
func (r *Registry) Set(cb Callbacks) {
	r.mu.Lock()
	r.cb = cb
	r.mu.Unlock()
}

// Current returns the handler set as of now.
func (r *Registry) Current() Callbacks {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cb
}
