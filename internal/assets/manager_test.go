package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerProgressSequence(t *testing.T) {
	m := NewManager()

	type event struct {
		item          string
		loaded, total int
	}
	var events []event
	loads := 0
	m.OnProgress = func(item string, loaded, total int) {
		events = append(events, event{item, loaded, total})
	}
	m.OnLoad = func() { loads++ }

	m.ItemStart("a")
	m.ItemStart("b")
	m.ItemStart("c")
	m.ItemEnd("a")
	m.ItemEnd("b")
	assert.Equal(t, 0, loads, "completion must wait for the whole batch")
	m.ItemEnd("c")

	assert.Equal(t, []event{{"a", 1, 3}, {"b", 2, 3}, {"c", 3, 3}}, events)
	assert.Equal(t, 1, loads)
}

func TestManagerErrorsAreNonFatal(t *testing.T) {
	m := NewManager()

	var errs []string
	loads := 0
	m.OnError = func(url string) { errs = append(errs, url) }
	m.OnLoad = func() { loads++ }

	m.ItemStart("ok")
	m.ItemStart("bad")
	m.ItemError("bad")
	assert.Equal(t, 0, loads)
	m.ItemEnd("ok")

	assert.Equal(t, []string{"bad"}, errs)
	assert.Equal(t, 1, loads, "failed items still count toward completion")

	loaded, failed, total := m.Progress()
	assert.Equal(t, 1, loaded)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 2, total)
}

func TestManagerNilHooksSkipped(t *testing.T) {
	m := NewManager()
	// No hooks registered; must not panic.
	m.ItemStart("a")
	m.ItemEnd("a")
	m.ItemStart("b")
	m.ItemError("b")
}
