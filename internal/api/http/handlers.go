package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// Version is reported by the root endpoint.
const Version = "0.3.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	desktops *desktop.Manager
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	started  time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(desktops *desktop.Manager, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		desktops: desktops,
		metrics:  metrics,
		logger:   logger,
		started:  time.Now(),
	}
}

// Register mounts every desktop route on r.
func (h *Handlers) Register(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/apps", h.ListApps)

	r.GET("/sessions", h.ListSessions)
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions/:id", h.GetSession)
	r.DELETE("/sessions/:id", h.DeleteSession)

	r.POST("/sessions/:id/unlock", h.Unlock)
	r.POST("/sessions/:id/lock", h.Lock)
	r.POST("/sessions/:id/sign-out", h.SignOut)
	r.PUT("/sessions/:id/settings", h.UpdateSettings)

	r.POST("/sessions/:id/apps/:app/launch", h.LaunchApp)
	r.POST("/sessions/:id/windows", h.OpenWindow)
	r.POST("/sessions/:id/windows/:wid/minimize", h.MinimizeWindow)
	r.POST("/sessions/:id/windows/:wid/focus", h.FocusWindow)
	r.POST("/sessions/:id/windows/:wid/activate", h.ActivateWindow)
	r.DELETE("/sessions/:id/windows/:wid", h.CloseWindow)

	r.POST("/sessions/:id/start-menu/toggle", h.ToggleStartMenu)
	r.GET("/sessions/:id/start-menu/apps", h.SearchApps)

	r.POST("/sessions/:id/explorer/select", h.SelectNode)
	r.POST("/sessions/:id/explorer/up", h.NavigateUp)
	r.POST("/sessions/:id/explorer/home", h.NavigateHome)
	r.POST("/sessions/:id/explorer/refresh", h.Refresh)
	r.POST("/sessions/:id/explorer/open", h.OpenEntry)
	r.POST("/sessions/:id/explorer/items/:item/select", h.SelectItem)
	r.PUT("/sessions/:id/explorer/view", h.SetViewMode)
}

// Root reports the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "WebDesk desktop service",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":   "healthy",
		"uptime":   time.Since(h.started).Round(time.Second).String(),
		"sessions": h.desktops.Stats(),
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// ListApps lists the catalog apps and the desktop layout
func (h *Handlers) ListApps(c *gin.Context) {
	cat := h.desktops.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"apps":       cat.Apps,
		"desktop":    cat.Desktop,
		"start_menu": cat.StartMenu,
	})
}

// ListSessions lists live desktops
func (h *Handlers) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessions": h.desktops.List(),
		"stats":    h.desktops.Stats(),
	})
}

// CreateSession starts a new locked desktop
func (h *Handlers) CreateSession(c *gin.Context) {
	s, err := h.desktops.Create()
	if err != nil {
		h.respondError(c, err)
		return
	}
	snap, err := s.Snapshot()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// GetSession returns the current snapshot of a desktop
func (h *Handlers) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := s.Snapshot()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// DeleteSession destroys a desktop
func (h *Handlers) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.desktops.Delete(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": id})
}

type unlockRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Unlock dismisses the lock screen
func (h *Handlers) Unlock(c *gin.Context) {
	var req unlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateString(req.Username, "username", 0, utils.MaxUsernameLength, false); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateString(req.Password, "password", 0, utils.MaxPasswordLength, false); err != nil {
		badRequest(c, err)
		return
	}
	h.apply(c, func(s *desktop.Session) (desktop.Result, error) {
		return s.Unlock(req.Username, req.Password)
	})
}

// Lock shows the lock screen
func (h *Handlers) Lock(c *gin.Context) {
	h.apply(c, (*desktop.Session).Lock)
}

// SignOut closes every window and locks the desktop
func (h *Handlers) SignOut(c *gin.Context) {
	h.apply(c, (*desktop.Session).SignOut)
}

// UpdateSettings changes appearance, display and notification settings
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var req desktop.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.apply(c, func(s *desktop.Session) (desktop.Result, error) {
		return s.UpdateSettings(req)
	})
}

// session resolves the :id parameter, writing the error response itself
// when the session is unknown.
func (h *Handlers) session(c *gin.Context) (*desktop.Session, bool) {
	s, err := h.desktops.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return s, true
}

// apply runs a desktop operation and writes its result.
func (h *Handlers) apply(c *gin.Context, op func(*desktop.Session) (desktop.Result, error)) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	res, err := op(s)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
