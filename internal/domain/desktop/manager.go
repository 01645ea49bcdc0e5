package desktop

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
)

// Config holds desktop session settings.
type Config struct {
	MaxSessions int
	Window      window.Config
	Username    string
	Password    string
	BcryptCost  int
	// MaxUnlockFailures wrong passwords in a row lock the lock screen for
	// UnlockCooldown.
	MaxUnlockFailures uint32
	UnlockCooldown    time.Duration
	// Clock replaces time.Now for the unlock cooldown in tests.
	Clock func() time.Time
}

// Stats summarises the live sessions.
type Stats struct {
	Sessions int `json:"sessions"`
	Locked   int `json:"locked"`
	Windows  int `json:"windows"`
}

// Manager keeps the live desktop sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // Protected by mu
	catalog  *catalog.Catalog
	auth     *Authenticator
	cfg      Config
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewManager creates a session manager over a catalog.
func NewManager(cat *catalog.Catalog, cfg Config, logger *zap.Logger) (*Manager, error) {
	auth, err := NewAuthenticator(cfg.Username, cfg.Password, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		catalog:  cat,
		auth:     auth,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Catalog returns the catalog sessions are built from.
func (m *Manager) Catalog() *catalog.Catalog {
	return m.catalog
}

// Create starts a new, locked desktop.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		return nil, fmt.Errorf("%w (limit %d)", ErrTooManySessions, m.cfg.MaxSessions)
	}

	s, err := newSession(id.NewDesktopID(), m.catalog, m.auth, m.cfg, m.logger, m.metrics)
	if err != nil {
		return nil, err
	}
	m.sessions[s.ID()] = s

	if m.metrics != nil {
		m.metrics.SessionOpened()
	}
	m.logger.Info("session created", zap.String("session", s.ID()))
	return s, nil
}

// Get returns a live session.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, sessionID)
	}
	return s, nil
}

// Delete destroys a session and ends its subscriptions.
func (m *Manager) Delete(sessionID string) error {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, sessionID)
	}
	m.destroy(s)
	return nil
}

// List returns a summary of every session, oldest first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	// Session ids are monotonic ULIDs.
	slices.SortFunc(sessions, func(a, b *Session) int {
		return strings.Compare(string(a.id), string(b.id))
	})

	out := make([]Info, len(sessions))
	for i, s := range sessions {
		out[i] = s.Info()
	}
	return out
}

// Stats returns session statistics.
func (m *Manager) Stats() Stats {
	var st Stats
	for _, info := range m.List() {
		st.Sessions++
		st.Windows += info.Windows
		if info.Locked {
			st.Locked++
		}
	}
	return st
}

// Shutdown destroys every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		m.destroy(s)
	}
}

func (m *Manager) destroy(s *Session) {
	ops := s.close()
	if m.metrics != nil {
		m.metrics.SessionClosed(ops)
	}
	m.logger.Info("session destroyed", zap.String("session", s.ID()), zap.Uint64("operations", ops))
}
