package window

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(Config{
		BaseZIndex:  10,
		DefaultSize: Size{Width: 600, Height: 400},
		Placement:   FixedPlacement{X: 100, Y: 80},
	})
}

func TestOpenOrFocusCreatesWindow(t *testing.T) {
	m := newTestManager()

	w := m.OpenOrFocus("notepad-app", "Notepad", "notepad", nil, nil)

	assert.Equal(t, "notepad-app", w.ID)
	assert.Equal(t, "Notepad", w.Title)
	assert.Equal(t, "notepad", w.Content)
	assert.True(t, w.IsOpen)
	assert.False(t, w.IsMinimized)
	assert.Equal(t, 11, w.ZIndex)
	assert.Equal(t, Position{X: 100, Y: 80}, w.Position)
	assert.Equal(t, Size{Width: 600, Height: 400}, w.Size)
}

func TestOpenOrFocusExplicitGeometry(t *testing.T) {
	m := newTestManager()

	w := m.OpenOrFocus("notepad-app", "Notepad", nil, &Position{X: 150, Y: 150}, &Size{Width: 400, Height: 300})

	assert.Equal(t, Position{X: 150, Y: 150}, w.Position)
	assert.Equal(t, Size{Width: 400, Height: 300}, w.Size)
}

func TestOpenOrFocusDeduplicates(t *testing.T) {
	m := newTestManager()

	ids := []string{"a", "b", "a", "c", "b", "a", "a"}
	for _, id := range ids {
		m.OpenOrFocus(id, id, nil, nil, nil)
	}

	require.Equal(t, 3, m.Len())
	seen := map[string]int{}
	for _, w := range m.List() {
		seen[w.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "window %s duplicated", id)
	}

	// Insertion order survives refocusing.
	list := m.List()
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "c", list[2].ID)
}

func TestOpenOrFocusExistingKeepsTitleAndContent(t *testing.T) {
	m := newTestManager()

	m.OpenOrFocus("settings-app", "Settings", "first", nil, nil)
	w := m.OpenOrFocus("settings-app", "Other", "second", &Position{X: 1, Y: 1}, nil)

	assert.Equal(t, "Settings", w.Title)
	assert.Equal(t, "first", w.Content)
	assert.Equal(t, Position{X: 100, Y: 80}, w.Position)
	assert.Equal(t, 12, w.ZIndex)
}

func TestOpenOrFocusRestoresMinimized(t *testing.T) {
	m := newTestManager()

	m.OpenOrFocus("a", "A", nil, nil, nil)
	require.True(t, m.ToggleMinimize("a"))

	w := m.OpenOrFocus("a", "A", nil, nil, nil)
	assert.True(t, w.IsOpen)
	assert.False(t, w.IsMinimized)
}

func TestToggleMinimize(t *testing.T) {
	m := newTestManager()
	m.OpenOrFocus("a", "A", nil, nil, nil)

	require.True(t, m.ToggleMinimize("a"))
	w, _ := m.Get("a")
	assert.True(t, w.IsMinimized)
	assert.True(t, w.IsOpen)
	assert.Equal(t, 11, w.ZIndex, "minimizing must not restack")

	require.True(t, m.ToggleMinimize("a"))
	w, _ = m.Get("a")
	assert.False(t, w.IsMinimized)
	assert.True(t, w.IsOpen)

	assert.False(t, m.ToggleMinimize("missing"))
}

func TestBringToFrontScenario(t *testing.T) {
	m := newTestManager()

	a := m.OpenOrFocus("A", "A", nil, nil, nil)
	b := m.OpenOrFocus("B", "B", nil, nil, nil)
	require.Equal(t, 11, a.ZIndex)
	require.Equal(t, 12, b.ZIndex)

	require.True(t, m.BringToFront("A"))

	a, _ = m.Get("A")
	b, _ = m.Get("B")
	assert.Equal(t, 13, a.ZIndex)
	assert.Equal(t, 12, b.ZIndex)

	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, "A", active.ID)
}

func TestBringToFrontIdempotent(t *testing.T) {
	m := newTestManager()
	m.OpenOrFocus("A", "A", nil, nil, nil)
	m.OpenOrFocus("B", "B", nil, nil, nil)

	m.BringToFront("A")
	first, _ := m.Get("A")

	assert.False(t, m.BringToFront("A"))
	second, _ := m.Get("A")
	assert.Equal(t, first.ZIndex, second.ZIndex)
	assert.Equal(t, 13, m.CurrentZIndex())
}

func TestBringToFrontRestoresMinimizedTopmost(t *testing.T) {
	m := newTestManager()
	m.OpenOrFocus("A", "A", nil, nil, nil)
	m.ToggleMinimize("A")

	require.True(t, m.BringToFront("A"))
	w, _ := m.Get("A")
	assert.False(t, w.IsMinimized)
	assert.Equal(t, 12, w.ZIndex)
}

func TestBringToFrontAfterOverlayAllocation(t *testing.T) {
	m := newTestManager()
	m.OpenOrFocus("A", "A", nil, nil, nil)

	// An overlay took the counter past A, but A is still the topmost window.
	m.AllocateTopZIndex()
	assert.False(t, m.BringToFront("A"))

	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, "A", active.ID)
}

func TestBringToFrontUnknown(t *testing.T) {
	m := newTestManager()
	m.OpenOrFocus("A", "A", nil, nil, nil)

	assert.False(t, m.BringToFront("missing"))
	assert.Equal(t, 11, m.CurrentZIndex())
}

func TestCloseUnknownIsNoop(t *testing.T) {
	m := newTestManager()
	m.OpenOrFocus("A", "A", nil, nil, nil)
	before := m.List()

	assert.False(t, m.Close("x"))
	assert.Equal(t, before, m.List())
}

func TestClose(t *testing.T) {
	m := newTestManager()
	m.OpenOrFocus("A", "A", nil, nil, nil)
	m.OpenOrFocus("B", "B", nil, nil, nil)

	require.True(t, m.Close("B"))
	_, ok := m.Get("B")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())

	// Reopening after close creates a fresh window on top.
	w := m.OpenOrFocus("B", "B again", nil, nil, nil)
	assert.Equal(t, "B again", w.Title)
	assert.Equal(t, 13, w.ZIndex)
}

func TestCloseAll(t *testing.T) {
	m := newTestManager()
	m.OpenOrFocus("A", "A", nil, nil, nil)
	m.OpenOrFocus("B", "B", nil, nil, nil)

	assert.Equal(t, 2, m.CloseAll())
	assert.Equal(t, 0, m.Len())
	_, ok := m.Active()
	assert.False(t, ok)

	w := m.OpenOrFocus("C", "C", nil, nil, nil)
	assert.Equal(t, 13, w.ZIndex, "counter survives close-all")
}

func TestVisibleAndActive(t *testing.T) {
	m := newTestManager()
	m.OpenOrFocus("A", "A", nil, nil, nil)
	m.OpenOrFocus("B", "B", nil, nil, nil)
	m.OpenOrFocus("C", "C", nil, nil, nil)
	m.BringToFront("A")
	m.ToggleMinimize("A")

	visible := m.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, "B", visible[0].ID)
	assert.Equal(t, "C", visible[1].ID)

	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, "C", active.ID, "minimized window is never active")
}

func TestListReturnsCopies(t *testing.T) {
	m := newTestManager()
	m.OpenOrFocus("A", "A", nil, nil, nil)

	list := m.List()
	list[0].Title = "mutated"

	w, _ := m.Get("A")
	assert.Equal(t, "A", w.Title)
}

func TestUniformPlacementStaysInArea(t *testing.T) {
	p := NewUniformPlacement(DefaultArea, rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		pos := p.Place()
		assert.GreaterOrEqual(t, pos.X, 50)
		assert.Less(t, pos.X, 250)
		assert.GreaterOrEqual(t, pos.Y, 50)
		assert.Less(t, pos.Y, 150)
	}
}

func TestNewManagerFillsDefaults(t *testing.T) {
	m := NewManager(Config{BaseZIndex: 0})

	w := m.OpenOrFocus("A", "A", nil, nil, nil)
	assert.Equal(t, 1, w.ZIndex)
	assert.Equal(t, Size{Width: 600, Height: 400}, w.Size)
}
