// Package assets provides the asset-loading coordinator a render session
// forwards its load events from, plus synchronous loaders for the formats
// the viewer consumes.
package assets

import "sync"

// Manager coordinates asset loads and reports them through three
// overridable hooks. Hooks fire synchronously on the loading goroutine;
// a nil hook is skipped. Per-item errors are non-fatal: they count toward
// batch completion and never halt other loads.
type Manager struct {
	// OnProgress fires after every finished item with the item's URL and
	// the batch counters.
	OnProgress func(item string, loaded, total int)
	// OnError fires once per failed item with its URL.
	OnError func(url string)
	// OnLoad fires when every started item has finished or failed.
	OnLoad func()

	mu     sync.Mutex
	total  int
	loaded int
	failed int
}

func NewManager() *Manager {
	return &Manager{}
}

// ItemStart registers url as in flight.
func (m *Manager) ItemStart(url string) {
	m.mu.Lock()
	m.total++
	m.mu.Unlock()
}

// ItemEnd marks url as loaded, fires progress, and fires completion when
// the batch has drained.
func (m *Manager) ItemEnd(url string) {
	m.mu.Lock()
	m.loaded++
	loaded, total := m.loaded, m.total
	done := m.loaded+m.failed == m.total
	onProgress, onLoad := m.OnProgress, m.OnLoad
	m.mu.Unlock()

	if onProgress != nil {
		onProgress(url, loaded, total)
	}
	if done && onLoad != nil {
		onLoad()
	}
}

// ItemError marks url as failed. The failure still counts toward batch
// completion.
func (m *Manager) ItemError(url string) {
	m.mu.Lock()
	m.failed++
	done := m.loaded+m.failed == m.total
	onError, onLoad := m.OnError, m.OnLoad
	m.mu.Unlock()

	if onError != nil {
		onError(url)
	}
	if done && onLoad != nil {
		onLoad()
	}
}

// Progress returns the batch counters: loaded, failed, total.
func (m *Manager) Progress() (loaded, failed, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded, m.failed, m.total
}
