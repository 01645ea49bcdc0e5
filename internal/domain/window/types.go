package window

// Content is the opaque payload rendered inside a window. The manager stores
// and returns it and never looks inside.
type Content any

// Position is the top-left corner of a window on the desktop.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Size is the outer dimension of a window.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Window is a simulated application surface.
type Window struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     Content  `json:"content,omitempty"`
	IsOpen      bool     `json:"is_open"`
	IsMinimized bool     `json:"is_minimized"`
	Position    Position `json:"position"`
	Size        Size     `json:"size"`
	ZIndex      int      `json:"z_index"`
}

// Visible reports whether the window should be rendered on screen.
func (w Window) Visible() bool {
	return w.IsOpen && !w.IsMinimized
}
