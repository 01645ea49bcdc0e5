package window

import "slices"

// Config holds window manager settings.
type Config struct {
	BaseZIndex  int
	DefaultSize Size
	Placement   Placement
}

// DefaultConfig returns the settings of the stock desktop.
func DefaultConfig() Config {
	return Config{
		BaseZIndex:  10,
		DefaultSize: Size{Width: 600, Height: 400},
		Placement:   NewUniformPlacement(DefaultArea, nil),
	}
}

// Manager owns the window collection of one desktop.
//
// Manager is not safe for concurrent use; the owning desktop session
// serialises calls.
type Manager struct {
	windows     []*Window // insertion order
	z           *ZAllocator
	defaultSize Size
	placement   Placement
}

// NewManager creates an empty window manager.
func NewManager(cfg Config) *Manager {
	if cfg.DefaultSize.Width <= 0 || cfg.DefaultSize.Height <= 0 {
		cfg.DefaultSize = DefaultConfig().DefaultSize
	}
	if cfg.Placement == nil {
		cfg.Placement = NewUniformPlacement(DefaultArea, nil)
	}
	return &Manager{
		z:           NewZAllocator(cfg.BaseZIndex),
		defaultSize: cfg.DefaultSize,
		placement:   cfg.Placement,
	}
}

// OpenOrFocus opens the window with the given id, or restores and raises it
// if it already exists. An existing window keeps its title, content and
// geometry. Nil position or size fall back to the configured defaults.
func (m *Manager) OpenOrFocus(id, title string, content Content, pos *Position, size *Size) Window {
	z := m.z.AllocateTopZIndex()

	if w := m.find(id); w != nil {
		w.IsOpen = true
		w.IsMinimized = false
		w.ZIndex = z
		return *w
	}

	w := &Window{
		ID:      id,
		Title:   title,
		Content: content,
		IsOpen:  true,
		ZIndex:  z,
	}
	if pos != nil {
		w.Position = *pos
	} else {
		w.Position = m.placement.Place()
	}
	if size != nil {
		w.Size = *size
	} else {
		w.Size = m.defaultSize
	}

	m.windows = append(m.windows, w)
	return *w
}

// ToggleMinimize flips the minimized flag. Restoring a window also marks it
// open. Reports false for an unknown id.
func (m *Manager) ToggleMinimize(id string) bool {
	w := m.find(id)
	if w == nil {
		return false
	}
	if w.IsMinimized {
		w.IsOpen = true
	}
	w.IsMinimized = !w.IsMinimized
	return true
}

// Close discards the window. Reports false for an unknown id.
func (m *Manager) Close(id string) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	m.windows = slices.Delete(m.windows, i, i+1)
	return true
}

// CloseAll discards every window and returns how many were closed. The z
// counter keeps running.
func (m *Manager) CloseAll() int {
	n := len(m.windows)
	m.windows = nil
	return n
}

// BringToFront raises the window above all others and un-minimizes it.
// It is a no-op, reporting false, when the window is unknown or is already
// topmost and showing.
func (m *Manager) BringToFront(id string) bool {
	w := m.find(id)
	if w == nil {
		return false
	}
	if w.ZIndex == m.maxZ() && !w.IsMinimized {
		return false
	}
	w.ZIndex = m.z.AllocateTopZIndex()
	w.IsMinimized = false
	return true
}

// AllocateTopZIndex reserves a stacking value above every window for an
// overlay such as the start menu.
func (m *Manager) AllocateTopZIndex() int {
	return m.z.AllocateTopZIndex()
}

// CurrentZIndex returns the last allocated stacking value.
func (m *Manager) CurrentZIndex() int {
	return m.z.Current()
}

// Get returns a copy of the window with the given id.
func (m *Manager) Get(id string) (Window, bool) {
	w := m.find(id)
	if w == nil {
		return Window{}, false
	}
	return *w, true
}

// List returns copies of all windows in the order they were first opened.
func (m *Manager) List() []Window {
	out := make([]Window, 0, len(m.windows))
	for _, w := range m.windows {
		out = append(out, *w)
	}
	return out
}

// Visible returns the windows to render, bottom to top.
func (m *Manager) Visible() []Window {
	out := make([]Window, 0, len(m.windows))
	for _, w := range m.windows {
		if w.Visible() {
			out = append(out, *w)
		}
	}
	slices.SortFunc(out, func(a, b Window) int { return a.ZIndex - b.ZIndex })
	return out
}

// Active returns the topmost visible window, the one the taskbar highlights.
func (m *Manager) Active() (Window, bool) {
	var top *Window
	for _, w := range m.windows {
		if w.Visible() && (top == nil || w.ZIndex > top.ZIndex) {
			top = w
		}
	}
	if top == nil {
		return Window{}, false
	}
	return *top, true
}

// Len returns the number of windows in the collection.
func (m *Manager) Len() int {
	return len(m.windows)
}

func (m *Manager) find(id string) *Window {
	if i := m.index(id); i >= 0 {
		return m.windows[i]
	}
	return nil
}

func (m *Manager) index(id string) int {
	return slices.IndexFunc(m.windows, func(w *Window) bool { return w.ID == id })
}

// maxZ is the highest stacking value held by any window.
func (m *Manager) maxZ() int {
	if len(m.windows) == 0 {
		return m.z.Current()
	}
	top := m.windows[0].ZIndex
	for _, w := range m.windows[1:] {
		top = max(top, w.ZIndex)
	}
	return top
}
