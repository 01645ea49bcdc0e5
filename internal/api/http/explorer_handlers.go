package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/explorer"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

type selectNodeRequest struct {
	NodeID string `json:"node_id" binding:"required"`
}

type openEntryRequest struct {
	ID           string            `json:"id" binding:"required"`
	Name         string            `json:"name"`
	Type         explorer.ItemType `json:"type" binding:"required"`
	Size         string            `json:"size"`
	DateModified string            `json:"date_modified"`
}

type viewModeRequest struct {
	Mode explorer.ViewMode `json:"mode" binding:"required"`
}

// SelectNode navigates the explorer to a tree node
func (h *Handlers) SelectNode(c *gin.Context) {
	var req selectNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateID(req.NodeID, "node_id", true); err != nil {
		badRequest(c, err)
		return
	}
	h.apply(c, func(s *desktop.Session) (desktop.Result, error) {
		return s.SelectNode(req.NodeID)
	})
}

// NavigateUp moves to the parent folder
func (h *Handlers) NavigateUp(c *gin.Context) {
	h.apply(c, (*desktop.Session).NavigateUp)
}

// NavigateHome moves to the first root
func (h *Handlers) NavigateHome(c *gin.Context) {
	h.apply(c, (*desktop.Session).NavigateHome)
}

// Refresh re-reads the current listing
func (h *Handlers) Refresh(c *gin.Context) {
	h.apply(c, (*desktop.Session).Refresh)
}

// OpenEntry opens a listing entry. Files come back as an open_file intent.
func (h *Handlers) OpenEntry(c *gin.Context) {
	var req openEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.Type.Valid() {
		badRequest(c, errInvalidItemType(req.Type))
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}

	intent, res, err := s.OpenEntry(explorer.FileItem{
		ID:           req.ID,
		Name:         utils.SanitizeText(req.Name),
		Type:         req.Type,
		Size:         req.Size,
		DateModified: req.DateModified,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"changed":  res.Changed,
		"intent":   intent,
		"snapshot": res.Snapshot,
	})
}

// SelectItem highlights a listing entry
func (h *Handlers) SelectItem(c *gin.Context) {
	itemID := c.Param("item")
	h.apply(c, func(s *desktop.Session) (desktop.Result, error) {
		return s.SelectItem(itemID)
	})
}

// SetViewMode switches between list and table
func (h *Handlers) SetViewMode(c *gin.Context) {
	var req viewModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.apply(c, func(s *desktop.Session) (desktop.Result, error) {
		return s.SetViewMode(req.Mode)
	})
}
