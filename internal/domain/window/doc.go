// Package window implements the desktop window manager.
//
// The manager owns the collection of application windows, their open and
// minimized flags, their geometry and their stacking order. Stacking uses a
// single monotonically increasing z counter owned by the manager: every
// focus-affecting operation allocates the next value, so "most recently
// focused" is a strict total order with no ties and no re-sort.
//
// Window ids are the de-duplication key. Opening an id that already exists
// restores and raises the existing window instead of creating another one.
//
// Operations on unknown ids are silent no-ops; they report false so callers
// can log them, but never fail.
//
// Example Usage:
//
//	m := window.NewManager(window.DefaultConfig())
//	w := m.OpenOrFocus("notepad-app", "Notepad", nil, nil, nil)
//	m.ToggleMinimize(w.ID)
//	active, ok := m.Active()
package window
