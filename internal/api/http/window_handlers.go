package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
)

type openWindowRequest struct {
	ID       string           `json:"id" binding:"required"`
	Title    string           `json:"title" binding:"required"`
	Content  any              `json:"content"`
	Position *window.Position `json:"position"`
	Size     *window.Size     `json:"size"`
}

// LaunchApp opens or focuses a catalog app
func (h *Handlers) LaunchApp(c *gin.Context) {
	appID := c.Param("app")
	h.apply(c, func(s *desktop.Session) (desktop.Result, error) {
		return s.LaunchApp(appID)
	})
}

// OpenWindow opens or focuses an arbitrary window
func (h *Handlers) OpenWindow(c *gin.Context) {
	var req openWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.apply(c, func(s *desktop.Session) (desktop.Result, error) {
		return s.OpenWindow(desktop.OpenRequest{
			ID:       req.ID,
			Title:    req.Title,
			Content:  req.Content,
			Position: req.Position,
			Size:     req.Size,
		})
	})
}

// MinimizeWindow toggles the minimized state of a window
func (h *Handlers) MinimizeWindow(c *gin.Context) {
	wid := c.Param("wid")
	h.apply(c, func(s *desktop.Session) (desktop.Result, error) {
		return s.ToggleMinimize(wid)
	})
}

// FocusWindow raises a window
func (h *Handlers) FocusWindow(c *gin.Context) {
	wid := c.Param("wid")
	h.apply(c, func(s *desktop.Session) (desktop.Result, error) {
		return s.BringToFront(wid)
	})
}

// ActivateWindow handles a taskbar click
func (h *Handlers) ActivateWindow(c *gin.Context) {
	wid := c.Param("wid")
	h.apply(c, func(s *desktop.Session) (desktop.Result, error) {
		return s.ActivateTaskbarItem(wid)
	})
}

// CloseWindow closes a window
func (h *Handlers) CloseWindow(c *gin.Context) {
	wid := c.Param("wid")
	h.apply(c, func(s *desktop.Session) (desktop.Result, error) {
		return s.CloseWindow(wid)
	})
}

// ToggleStartMenu opens or closes the start menu
func (h *Handlers) ToggleStartMenu(c *gin.Context) {
	h.apply(c, (*desktop.Session).ToggleStartMenu)
}

// SearchApps filters the start menu
func (h *Handlers) SearchApps(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	query := c.Query("q")
	apps, err := s.SearchApps(query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "apps": apps})
}
