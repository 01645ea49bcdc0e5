package desktop

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/explorer"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// OpenRequest describes an arbitrary window to open or focus.
type OpenRequest struct {
	ID       string
	Title    string
	Content  window.Content
	Position *window.Position
	Size     *window.Size
}

// Info summarises a session for listings and health output.
type Info struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Locked    bool      `json:"locked"`
	Windows   int       `json:"windows"`
	Version   uint64    `json:"version"`
}

// Session is one desktop. It is safe for concurrent use; operations are
// applied one at a time.
type Session struct {
	id        id.DesktopID
	createdAt time.Time
	catalog   *catalog.Catalog
	auth      *Authenticator
	guard     *resilience.Breaker
	logger    *zap.Logger
	metrics   *monitoring.Metrics

	mu       sync.Mutex
	closed   bool
	locked   bool
	windows  *window.Manager
	nav      *explorer.Navigator
	menuOpen bool
	menuZ    int
	settings Settings
	version  uint64
	ops      uint64
	subs     map[uint64]chan Snapshot
	nextSub  uint64
}

func newSession(sid id.DesktopID, cat *catalog.Catalog, auth *Authenticator, cfg Config, logger *zap.Logger, metrics *monitoring.Metrics) (*Session, error) {
	nav, err := explorer.NewNavigator(cat.Tree, cat.Listings)
	if err != nil {
		return nil, fmt.Errorf("failed to create navigator: %w", err)
	}
	logger = logger.With(zap.String("session", sid.String()))
	guard := resilience.New("unlock", resilience.Settings{
		MaxFailures: cfg.MaxUnlockFailures,
		Cooldown:    cfg.UnlockCooldown,
		IsFailure:   func(err error) bool { return errors.Is(err, ErrInvalidCredentials) },
		OnStateChange: func(_ string, from, to resilience.State) {
			logger.Info("unlock guard state changed",
				zap.Stringer("from", from), zap.Stringer("to", to))
		},
		Clock: cfg.Clock,
	})
	return &Session{
		id:        sid,
		createdAt: time.Now(),
		catalog:   cat,
		auth:      auth,
		guard:     guard,
		logger:    logger,
		metrics:   metrics,
		locked:    true,
		windows:   window.NewManager(cfg.Window),
		nav:       nav,
		settings:  DefaultSettings(),
		subs:      make(map[uint64]chan Snapshot),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id.String()
}

// Info returns a summary of the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:        s.id.String(),
		CreatedAt: s.createdAt,
		Locked:    s.locked,
		Windows:   s.windows.Len(),
		Version:   s.version,
	}
}

// Snapshot returns the current desktop. It is available while locked.
func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Snapshot{}, ErrSessionNotFound
	}
	return s.snapshot(), nil
}

// Subscribe returns a channel receiving a snapshot after every change and
// a function that cancels the subscription. A subscriber that falls more
// than buffer snapshots behind misses the intermediate ones. The channel
// is closed on cancel or when the session is destroyed.
func (s *Session) Subscribe(buffer int) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, max(buffer, 1))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	key := s.nextSub
	s.nextSub++
	s.subs[key] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[key]; ok {
			delete(s.subs, key)
			close(c)
		}
	}
}

// Unlock dismisses the lock screen when the credential matches. After
// repeated wrong passwords further attempts are refused for a cooldown.
func (s *Session) Unlock(username, password string) (Result, error) {
	return s.apply(false, func() (bool, error) {
		if !s.locked {
			return false, nil
		}
		err := s.guard.Execute(func() error {
			return s.auth.Verify(username, password)
		})
		if errors.Is(err, resilience.ErrOpen) {
			return false, fmt.Errorf("%w: retry in %s", ErrTooManyAttempts,
				s.guard.RetryAfter().Round(time.Second))
		}
		if s.metrics != nil {
			s.metrics.RecordUnlock(err == nil)
		}
		if err != nil {
			s.logger.Info("unlock rejected", zap.Error(err))
			return false, err
		}
		s.locked = false
		s.logger.Info("desktop unlocked")
		return true, nil
	})
}

// Lock shows the lock screen. Windows stay as they are.
func (s *Session) Lock() (Result, error) {
	return s.apply(false, func() (bool, error) {
		if s.locked {
			return false, nil
		}
		s.locked = true
		s.menuOpen = false
		s.logger.Info("desktop locked")
		return true, nil
	})
}

// SignOut closes every window and returns to the lock screen.
func (s *Session) SignOut() (Result, error) {
	return s.apply(true, func() (bool, error) {
		closed := s.windows.CloseAll()
		s.menuOpen = false
		s.locked = true
		s.logger.Info("signed out", zap.Int("windows_closed", closed))
		return true, nil
	})
}

// LaunchApp opens or focuses the window of a catalog app and closes the
// start menu. Apps without a window do nothing.
func (s *Session) LaunchApp(appID string) (Result, error) {
	return s.apply(true, func() (bool, error) {
		app, ok := s.catalog.App(appID)
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrUnknownApp, appID)
		}
		if !app.Launchable() {
			return false, nil
		}
		var content window.Content
		if app.Content != nil {
			content = app.Content
		}
		w := s.windows.OpenOrFocus(app.WindowID, app.Title, content, app.Position, app.Size)
		s.menuOpen = false
		s.recordWindow("launch", true)
		s.logger.Debug("app launched", zap.String("app", appID), zap.Int("z_index", w.ZIndex))
		return true, nil
	})
}

// OpenWindow opens or focuses an arbitrary window and closes the start
// menu.
func (s *Session) OpenWindow(req OpenRequest) (Result, error) {
	if err := utils.ValidateID(req.ID, "id", true); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	title, err := utils.SanitizeTitle(req.Title)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	if title == "" {
		return Result{}, fmt.Errorf("%w: title is required", ErrInvalidWindow)
	}
	if err := utils.ValidateContent(req.Content); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	if req.Size != nil && (req.Size.Width <= 0 || req.Size.Height <= 0) {
		return Result{}, fmt.Errorf("%w: size must be positive", ErrInvalidWindow)
	}

	return s.apply(true, func() (bool, error) {
		s.windows.OpenOrFocus(req.ID, title, req.Content, req.Position, req.Size)
		s.menuOpen = false
		s.recordWindow("open", true)
		return true, nil
	})
}

// ToggleMinimize minimizes or restores a window.
func (s *Session) ToggleMinimize(windowID string) (Result, error) {
	return s.windowOp("minimize", func() bool { return s.windows.ToggleMinimize(windowID) })
}

// CloseWindow closes a window.
func (s *Session) CloseWindow(windowID string) (Result, error) {
	return s.windowOp("close", func() bool { return s.windows.Close(windowID) })
}

// BringToFront raises a window, for example when its frame is clicked.
func (s *Session) BringToFront(windowID string) (Result, error) {
	return s.windowOp("focus", func() bool { return s.windows.BringToFront(windowID) })
}

// ActivateTaskbarItem handles a taskbar click: a minimized window is
// restored, then the window is raised.
func (s *Session) ActivateTaskbarItem(windowID string) (Result, error) {
	return s.windowOp("activate", func() bool {
		w, ok := s.windows.Get(windowID)
		if !ok {
			return false
		}
		restored := w.IsMinimized && s.windows.ToggleMinimize(windowID)
		raised := s.windows.BringToFront(windowID)
		return restored || raised
	})
}

// ToggleStartMenu opens or closes the start menu. An opening menu stacks
// above every window.
func (s *Session) ToggleStartMenu() (Result, error) {
	return s.apply(true, func() (bool, error) {
		s.menuOpen = !s.menuOpen
		if s.menuOpen {
			s.menuZ = s.windows.AllocateTopZIndex()
		}
		return true, nil
	})
}

// SearchApps filters the start menu entries by label.
func (s *Session) SearchApps(query string) ([]catalog.App, error) {
	if err := utils.ValidateQuery(query); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadQuery, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionNotFound
	}
	if s.locked {
		return nil, ErrLocked
	}
	return filterApps(s.catalog.StartMenuApps(), query)
}

// UpdateSettings changes the desktop settings. Values are checked before
// anything is applied, so a rejected update changes nothing.
func (s *Session) UpdateSettings(u SettingsUpdate) (Result, error) {
	if err := u.Validate(); err != nil {
		return Result{}, err
	}
	return s.apply(true, func() (bool, error) {
		changed := u.apply(&s.settings)
		if changed {
			s.logger.Debug("settings updated",
				zap.String("accent", s.settings.AccentColor),
				zap.Bool("dark_mode", s.settings.DarkMode))
		}
		return changed, nil
	})
}

// SelectNode navigates the explorer to a tree node.
func (s *Session) SelectNode(nodeID string) (Result, error) {
	return s.explorerOp("select", func() (bool, error) {
		return true, s.nav.SelectNode(nodeID)
	})
}

// NavigateUp moves the explorer to the parent folder.
func (s *Session) NavigateUp() (Result, error) {
	return s.explorerOp("up", func() (bool, error) {
		return s.nav.NavigateUp(), nil
	})
}

// NavigateHome moves the explorer to its first root.
func (s *Session) NavigateHome() (Result, error) {
	return s.explorerOp("home", func() (bool, error) {
		s.nav.NavigateHome()
		return true, nil
	})
}

// Refresh re-reads the current explorer listing.
func (s *Session) Refresh() (Result, error) {
	return s.explorerOp("refresh", func() (bool, error) {
		s.nav.Refresh()
		return true, nil
	})
}

// OpenEntry opens an explorer listing entry. Folders are navigated into;
// other entries come back as an intent for the caller.
func (s *Session) OpenEntry(item explorer.FileItem) (explorer.Intent, Result, error) {
	var intent explorer.Intent
	res, err := s.explorerOp("open", func() (bool, error) {
		var err error
		intent, err = s.nav.OpenEntry(item)
		return intent.Kind == explorer.IntentNavigate, err
	})
	return intent, res, err
}

// SelectItem highlights an entry of the current listing.
func (s *Session) SelectItem(itemID string) (Result, error) {
	return s.explorerOp("select_item", func() (bool, error) {
		return true, s.nav.SelectItem(itemID)
	})
}

// SetViewMode switches the explorer listing between list and table.
func (s *Session) SetViewMode(mode explorer.ViewMode) (Result, error) {
	return s.explorerOp("view", func() (bool, error) {
		return true, s.nav.SetViewMode(mode)
	})
}

func (s *Session) windowOp(op string, fn func() bool) (Result, error) {
	return s.apply(true, func() (bool, error) {
		changed := fn()
		s.recordWindow(op, changed)
		return changed, nil
	})
}

func (s *Session) explorerOp(op string, fn func() (bool, error)) (Result, error) {
	return s.apply(true, func() (bool, error) {
		changed, err := fn()
		if s.metrics != nil {
			s.metrics.RecordExplorerOp(op, err)
		}
		if err != nil {
			return false, err
		}
		return changed, nil
	})
}

func (s *Session) recordWindow(op string, changed bool) {
	if s.metrics != nil {
		s.metrics.RecordWindowOp(op, changed)
	}
	if !changed {
		s.logger.Debug("window operation was a no-op", zap.String("op", op))
	}
}

// apply runs fn under the session lock. When fn reports a change the
// version moves on and subscribers receive the new snapshot.
func (s *Session) apply(needUnlocked bool, fn func() (bool, error)) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Result{}, ErrSessionNotFound
	}
	if needUnlocked && s.locked {
		return Result{}, ErrLocked
	}

	changed, err := fn()
	if err != nil {
		return Result{}, err
	}
	if !changed {
		return Result{Snapshot: s.snapshot()}, nil
	}

	s.version++
	s.ops++
	snap := s.snapshot()
	s.publish(snap)
	return Result{Changed: true, Snapshot: snap}, nil
}

// publish hands snap to every subscriber without blocking. Callers hold s.mu.
func (s *Session) publish(snap Snapshot) {
	for key, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			s.logger.Debug("subscriber lagging, snapshot dropped",
				zap.Uint64("subscriber", key),
				zap.Uint64("version", snap.Version))
		}
	}
}

// close ends every subscription and rejects further operations. It returns
// the number of operations applied over the session's life.
func (s *Session) close() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.ops
	}
	s.closed = true
	for key, ch := range s.subs {
		delete(s.subs, key)
		close(ch)
	}
	return s.ops
}

// IsClientError reports whether err was caused by the request rather than
// the server.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrLocked, ErrUsernameRequired, ErrPasswordRequired, ErrInvalidCredentials, ErrTooManyAttempts,
		ErrUnknownApp, ErrInvalidWindow, ErrBadQuery, ErrInvalidSettings, ErrSessionNotFound,
		explorer.ErrNodeNotFound, explorer.ErrItemNotFound, explorer.ErrInvalidViewMode,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
