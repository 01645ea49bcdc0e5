package desktop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/explorer"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
)

func testConfig() Config {
	return Config{
		MaxSessions: 4,
		Window: window.Config{
			BaseZIndex:  10,
			DefaultSize: window.Size{Width: 600, Height: 400},
			Placement:   window.FixedPlacement{X: 100, Y: 100},
		},
		Username:   "user@example.com",
		Password:   "password",
		BcryptCost: bcrypt.MinCost,
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(catalog.MustLoad(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	return m
}

func newUnlockedSession(t *testing.T) *Session {
	t.Helper()
	s, err := newTestManager(t).Create()
	require.NoError(t, err)
	_, err = s.Unlock("user@example.com", "password")
	require.NoError(t, err)
	return s
}

func TestSessionStartsLocked(t *testing.T) {
	s, err := newTestManager(t).Create()
	require.NoError(t, err)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.True(t, snap.Locked)
	assert.Empty(t, snap.Windows)
	assert.Equal(t, "Simulated User", snap.User.Name)
	assert.Len(t, snap.DesktopIcons, 5)

	_, err = s.LaunchApp("notepad-app")
	assert.ErrorIs(t, err, ErrLocked)
	_, err = s.SelectNode("documents")
	assert.ErrorIs(t, err, ErrLocked)
}

func TestUnlock(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "missing username", username: "  ", password: "password", wantErr: ErrUsernameRequired},
		{name: "missing password", username: "user@example.com", wantErr: ErrPasswordRequired},
		{name: "wrong password", username: "user@example.com", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "wrong user", username: "root", password: "password", wantErr: ErrInvalidCredentials},
		{name: "valid", username: "user@example.com", password: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := newTestManager(t).Create()
			require.NoError(t, err)

			res, err := s.Unlock(tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				snap, _ := s.Snapshot()
				assert.True(t, snap.Locked)
				return
			}
			require.NoError(t, err)
			assert.True(t, res.Changed)
			assert.False(t, res.Snapshot.Locked)
		})
	}
}

func TestUnlockLockout(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cfg := testConfig()
	cfg.MaxUnlockFailures = 3
	cfg.UnlockCooldown = 30 * time.Second
	cfg.Clock = func() time.Time { return now }

	m, err := NewManager(catalog.MustLoad(), cfg, zap.NewNop())
	require.NoError(t, err)
	s, err := m.Create()
	require.NoError(t, err)

	// Empty fields never count towards the lockout.
	for i := 0; i < 5; i++ {
		_, err = s.Unlock("", "password")
		require.ErrorIs(t, err, ErrUsernameRequired)
	}
	for i := 0; i < 3; i++ {
		_, err = s.Unlock("user@example.com", "guess")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err = s.Unlock("user@example.com", "password")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.Contains(t, err.Error(), "30s")

	now = now.Add(30 * time.Second)
	res, err := s.Unlock("user@example.com", "password")
	require.NoError(t, err)
	assert.False(t, res.Snapshot.Locked)
}

func TestLaunchAppStacksWindows(t *testing.T) {
	s := newUnlockedSession(t)

	res, err := s.LaunchApp("settings-app")
	require.NoError(t, err)
	require.Len(t, res.Snapshot.Windows, 1)
	assert.Equal(t, 11, res.Snapshot.Windows[0].ZIndex)

	res, err = s.LaunchApp("notepad-app")
	require.NoError(t, err)
	notepad := res.Snapshot.Windows[1]
	assert.Equal(t, 12, notepad.ZIndex)
	assert.Equal(t, window.Position{X: 150, Y: 150}, notepad.Position)
	assert.Equal(t, window.Size{Width: 400, Height: 300}, notepad.Size)
	assert.Equal(t, "notepad-app", res.Snapshot.ActiveWindowID)

	// Relaunching focuses instead of duplicating.
	res, err = s.LaunchApp("settings-app")
	require.NoError(t, err)
	assert.Len(t, res.Snapshot.Windows, 2)
	assert.Equal(t, "settings-app", res.Snapshot.ActiveWindowID)
	assert.Equal(t, []string{"notepad-app", "settings-app"}, res.Snapshot.Visible)
}

func TestLaunchAppEdgeCases(t *testing.T) {
	s := newUnlockedSession(t)

	_, err := s.LaunchApp("ghost")
	assert.ErrorIs(t, err, ErrUnknownApp)

	res, err := s.LaunchApp("recycle-bin")
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, res.Snapshot.Windows)

	res, err = s.LaunchApp("my-computer")
	require.NoError(t, err)
	assert.Equal(t, "file-explorer-my-computer", res.Snapshot.Windows[0].ID)
	assert.Equal(t, "My Computer", res.Snapshot.Windows[0].Title)
}

func TestStartMenu(t *testing.T) {
	s := newUnlockedSession(t)
	_, err := s.LaunchApp("settings-app")
	require.NoError(t, err)

	res, err := s.ToggleStartMenu()
	require.NoError(t, err)
	assert.True(t, res.Snapshot.StartMenu.Open)
	assert.Equal(t, 12, res.Snapshot.StartMenu.ZIndex)

	// Launching closes the menu and the new window stacks above it.
	res, err = s.LaunchApp("notepad-app")
	require.NoError(t, err)
	assert.False(t, res.Snapshot.StartMenu.Open)
	w := res.Snapshot.Windows[1]
	assert.Equal(t, 13, w.ZIndex)

	res, err = s.ToggleStartMenu()
	require.NoError(t, err)
	assert.True(t, res.Snapshot.StartMenu.Open)
	res, err = s.ToggleStartMenu()
	require.NoError(t, err)
	assert.False(t, res.Snapshot.StartMenu.Open)
}

func TestSearchApps(t *testing.T) {
	s := newUnlockedSession(t)

	labels := func(apps []catalog.App) []string {
		out := make([]string, len(apps))
		for i, a := range apps {
			out[i] = a.Label
		}
		return out
	}

	all, err := s.SearchApps("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := s.SearchApps("NOTE")
	require.NoError(t, err)
	assert.Equal(t, []string{"Notepad"}, labels(got))

	got, err = s.SearchApps("*e*r")
	require.NoError(t, err)
	assert.Equal(t, []string{"File Explorer"}, labels(got))

	_, err = s.SearchApps("[")
	assert.ErrorIs(t, err, ErrBadQuery)
}

func TestWindowOperations(t *testing.T) {
	s := newUnlockedSession(t)
	_, err := s.LaunchApp("settings-app")
	require.NoError(t, err)
	_, err = s.LaunchApp("notepad-app")
	require.NoError(t, err)

	res, err := s.ToggleMinimize("notepad-app")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "settings-app", res.Snapshot.ActiveWindowID)
	require.Len(t, res.Snapshot.Taskbar, 2)
	assert.True(t, res.Snapshot.Taskbar[1].Minimized)

	// Taskbar click restores and raises.
	res, err = s.ActivateTaskbarItem("notepad-app")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "notepad-app", res.Snapshot.ActiveWindowID)
	assert.True(t, res.Snapshot.Taskbar[1].Active)

	res, err = s.BringToFront("notepad-app")
	require.NoError(t, err)
	assert.False(t, res.Changed)

	res, err = s.CloseWindow("ghost")
	require.NoError(t, err)
	assert.False(t, res.Changed)

	res, err = s.CloseWindow("notepad-app")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Len(t, res.Snapshot.Windows, 1)
}

func TestOpenWindow(t *testing.T) {
	s := newUnlockedSession(t)

	res, err := s.OpenWindow(OpenRequest{
		ID:      "file-viewer-img1",
		Title:   "<b>beach.jpg</b>",
		Content: map[string]any{"kind": "image"},
	})
	require.NoError(t, err)
	require.Len(t, res.Snapshot.Windows, 1)
	assert.Equal(t, "beach.jpg", res.Snapshot.Windows[0].Title)
	assert.Equal(t, window.Position{X: 100, Y: 100}, res.Snapshot.Windows[0].Position)

	_, err = s.OpenWindow(OpenRequest{ID: "bad id!", Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidWindow)
	_, err = s.OpenWindow(OpenRequest{ID: "x", Title: "<i></i>"})
	assert.ErrorIs(t, err, ErrInvalidWindow)
	_, err = s.OpenWindow(OpenRequest{ID: "x", Title: "x", Size: &window.Size{}})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestSignOut(t *testing.T) {
	s := newUnlockedSession(t)
	_, err := s.LaunchApp("settings-app")
	require.NoError(t, err)
	_, err = s.ToggleStartMenu()
	require.NoError(t, err)

	res, err := s.SignOut()
	require.NoError(t, err)
	assert.True(t, res.Snapshot.Locked)
	assert.Empty(t, res.Snapshot.Windows)
	assert.False(t, res.Snapshot.StartMenu.Open)

	_, err = s.SignOut()
	assert.ErrorIs(t, err, ErrLocked)
}

func TestUpdateSettings(t *testing.T) {
	ptr := func(v string) *string { return &v }
	scale := func(v int) *int { return &v }
	on := func(v bool) *bool { return &v }

	tests := []struct {
		name    string
		update  SettingsUpdate
		want    func(*Settings)
		changed bool
		wantErr bool
	}{
		{name: "accent", update: SettingsUpdate{AccentColor: ptr("purple")}, want: func(s *Settings) { s.AccentColor = "purple" }, changed: true},
		{name: "dark mode and scaling", update: SettingsUpdate{DarkMode: on(true), Scaling: scale(150)}, want: func(s *Settings) { s.DarkMode = true; s.Scaling = 150 }, changed: true},
		{name: "resolution", update: SettingsUpdate{Resolution: ptr("1366x768")}, want: func(s *Settings) { s.Resolution = "1366x768" }, changed: true},
		{name: "notifications off", update: SettingsUpdate{Notifications: on(false)}, want: func(s *Settings) { s.Notifications = false }, changed: true},
		{name: "clear wallpaper", update: SettingsUpdate{WallpaperURL: ptr("")}, want: func(s *Settings) { s.WallpaperURL = "" }, changed: true},
		{name: "same values", update: SettingsUpdate{AccentColor: ptr("blue"), Scaling: scale(100)}},
		{name: "empty update"},
		{name: "unknown accent", update: SettingsUpdate{AccentColor: ptr("orange")}, wantErr: true},
		{name: "odd scaling", update: SettingsUpdate{Scaling: scale(110)}, wantErr: true},
		{name: "unknown resolution", update: SettingsUpdate{Resolution: ptr("800x600")}, wantErr: true},
		{name: "script wallpaper", update: SettingsUpdate{WallpaperURL: ptr("javascript:alert(1)")}, wantErr: true},
		{name: "one bad field rejects all", update: SettingsUpdate{DarkMode: on(true), Scaling: scale(90)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newUnlockedSession(t)
			before, err := s.Snapshot()
			require.NoError(t, err)
			assert.Equal(t, DefaultSettings(), before.Settings)

			res, err := s.UpdateSettings(tt.update)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSettings)
				after, err := s.Snapshot()
				require.NoError(t, err)
				assert.Equal(t, before.Version, after.Version)
				assert.Equal(t, DefaultSettings(), after.Settings)
				return
			}
			require.NoError(t, err)

			want := DefaultSettings()
			if tt.want != nil {
				tt.want(&want)
			}
			assert.Equal(t, tt.changed, res.Changed)
			assert.Equal(t, want, res.Snapshot.Settings)
			if tt.changed {
				assert.Equal(t, before.Version+1, res.Snapshot.Version)
			} else {
				assert.Equal(t, before.Version, res.Snapshot.Version)
			}
		})
	}
}

func TestUpdateSettingsPublishes(t *testing.T) {
	s := newUnlockedSession(t)
	updates, cancel := s.Subscribe(4)
	defer cancel()

	dark := true
	_, err := s.UpdateSettings(SettingsUpdate{DarkMode: &dark})
	require.NoError(t, err)

	select {
	case snap := <-updates:
		assert.True(t, snap.Settings.DarkMode)
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}

	_, err = s.Lock()
	require.NoError(t, err)
	_, err = s.UpdateSettings(SettingsUpdate{DarkMode: &dark})
	assert.ErrorIs(t, err, ErrLocked)
}

func TestLockKeepsWindows(t *testing.T) {
	s := newUnlockedSession(t)
	_, err := s.LaunchApp("settings-app")
	require.NoError(t, err)

	res, err := s.Lock()
	require.NoError(t, err)
	assert.True(t, res.Snapshot.Locked)
	assert.Len(t, res.Snapshot.Windows, 1)

	res, err = s.Unlock("user@example.com", "password")
	require.NoError(t, err)
	assert.Len(t, res.Snapshot.Windows, 1)
}

func TestExplorerPassthrough(t *testing.T) {
	s := newUnlockedSession(t)

	res, err := s.SelectNode("doc-work")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	require.Len(t, res.Snapshot.Explorer.CurrentPath, 2)
	assert.True(t, res.Snapshot.Explorer.CanNavigateUp)

	_, err = s.SelectNode("missing")
	assert.ErrorIs(t, err, explorer.ErrNodeNotFound)

	res, err = s.NavigateUp()
	require.NoError(t, err)
	assert.Equal(t, "documents", res.Snapshot.Explorer.SelectedNodeID)

	res, err = s.NavigateUp()
	require.NoError(t, err)
	assert.False(t, res.Changed)

	intent, res, err := s.OpenEntry(explorer.FileItem{ID: "doc-work", Name: "Work", Type: explorer.ItemFolder})
	require.NoError(t, err)
	assert.Equal(t, explorer.IntentNavigate, intent.Kind)
	assert.Equal(t, "doc-work", res.Snapshot.Explorer.SelectedNodeID)

	intent, res, err = s.OpenEntry(explorer.FileItem{ID: "report-q1", Name: "Quarterly Report.docx", Type: explorer.ItemFile})
	require.NoError(t, err)
	assert.Equal(t, explorer.IntentOpenFile, intent.Kind)
	assert.False(t, res.Changed)

	_, err = s.SelectItem("report-q1")
	require.NoError(t, err)
	res, err = s.SetViewMode(explorer.ViewTable)
	require.NoError(t, err)
	assert.Equal(t, "report-q1", res.Snapshot.Explorer.SelectedItemID)
	assert.Equal(t, explorer.ViewTable, res.Snapshot.Explorer.ViewMode)

	res, err = s.NavigateHome()
	require.NoError(t, err)
	assert.Equal(t, "desktop", res.Snapshot.Explorer.SelectedNodeID)

	res, err = s.Refresh()
	require.NoError(t, err)
	assert.Equal(t, "desktop", res.Snapshot.Explorer.SelectedNodeID)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	s := newUnlockedSession(t)
	updates, cancel := s.Subscribe(8)

	_, err := s.LaunchApp("notepad-app")
	require.NoError(t, err)
	_, err = s.CloseWindow("ghost")
	require.NoError(t, err)
	_, err = s.CloseWindow("notepad-app")
	require.NoError(t, err)

	first := <-updates
	second := <-updates
	assert.Len(t, first.Windows, 1)
	assert.Empty(t, second.Windows)
	assert.Equal(t, first.Version+1, second.Version)
	assert.Empty(t, updates, "no-ops are not published")

	cancel()
	_, open := <-updates
	assert.False(t, open)
	cancel()
}

func TestSubscriberDoesNotBlock(t *testing.T) {
	s := newUnlockedSession(t)
	updates, cancel := s.Subscribe(1)
	defer cancel()

	for i := 0; i < 5; i++ {
		_, err := s.ToggleStartMenu()
		require.NoError(t, err)
	}
	assert.Len(t, updates, 1)
}

func TestMetricsRecorded(t *testing.T) {
	metrics := monitoring.NewMetrics()
	m, err := NewManager(catalog.MustLoad(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	m.WithMetrics(metrics)

	s, err := m.Create()
	require.NoError(t, err)
	_, _ = s.Unlock("user@example.com", "wrong")
	_, err = s.Unlock("user@example.com", "password")
	require.NoError(t, err)

	assert.Equal(t, int64(1), metrics.Snapshot().ActiveSessions)
	require.NoError(t, m.Delete(s.ID()))
	assert.Equal(t, int64(0), metrics.Snapshot().ActiveSessions)
}
