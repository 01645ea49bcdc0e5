package desktop

import (
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/explorer"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
)

// TaskbarItem is one button on the taskbar.
type TaskbarItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Active    bool   `json:"active"`
	Minimized bool   `json:"minimized"`
}

// Snapshot is everything the renderer needs to draw a desktop.
type Snapshot struct {
	SessionID      string          `json:"session_id"`
	Version        uint64          `json:"version"`
	Locked         bool            `json:"locked"`
	User           catalog.User    `json:"user"`
	Windows        []window.Window `json:"windows"`
	Visible        []string        `json:"visible"`
	ActiveWindowID string          `json:"active_window_id,omitempty"`
	Taskbar        []TaskbarItem   `json:"taskbar"`
	StartMenu      StartMenu       `json:"start_menu"`
	Settings       Settings        `json:"settings"`
	DesktopIcons   []catalog.App   `json:"desktop_icons"`
	Explorer       explorer.State  `json:"explorer"`
}

// Result is the outcome of a desktop operation. Changed is false for
// operations that turned out to be no-ops, such as closing an unknown
// window.
type Result struct {
	Changed  bool     `json:"changed"`
	Snapshot Snapshot `json:"snapshot"`
}

// snapshot renders the session. Callers hold s.mu.
func (s *Session) snapshot() Snapshot {
	windows := s.windows.List()

	visible := s.windows.Visible()
	visibleIDs := make([]string, len(visible))
	for i, w := range visible {
		visibleIDs[i] = w.ID
	}

	var activeID string
	if w, ok := s.windows.Active(); ok {
		activeID = w.ID
	}

	taskbar := make([]TaskbarItem, 0, len(windows))
	for _, w := range windows {
		if !w.IsOpen {
			continue
		}
		taskbar = append(taskbar, TaskbarItem{
			ID:        w.ID,
			Title:     w.Title,
			Active:    w.ID == activeID,
			Minimized: w.IsMinimized,
		})
	}

	menu := StartMenu{
		Open: s.menuOpen,
		User: s.catalog.User,
		Apps: s.catalog.StartMenuApps(),
	}
	if s.menuOpen {
		menu.ZIndex = s.menuZ
	}

	return Snapshot{
		SessionID:      s.id.String(),
		Version:        s.version,
		Locked:         s.locked,
		User:           s.catalog.User,
		Windows:        windows,
		Visible:        visibleIDs,
		ActiveWindowID: activeID,
		Taskbar:        taskbar,
		StartMenu:      menu,
		Settings:       s.settings,
		DesktopIcons:   s.catalog.DesktopApps(),
		Explorer:       s.nav.State(),
	}
}
