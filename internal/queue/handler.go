package queue

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /queue/join  body: {format}
func (h *Handler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	player := c.GetString("player_id")
	name := c.GetString("display_name")

	err := h.svc.Join(c.Request.Context(), player, name, req.Format)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"queued": true, "format": req.Format})
	case errors.Is(err, ErrInvalidFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown format"})
	case errors.Is(err, ErrAlreadyQueued):
		c.JSON(http.StatusConflict, gin.H{"error": "already in a queue"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// POST /queue/leave
func (h *Handler) Leave(c *gin.Context) {
	player := c.GetString("player_id")

	err := h.svc.Leave(c.Request.Context(), player)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"left": true})
	case errors.Is(err, ErrNotQueued):
		c.JSON(http.StatusConflict, gin.H{"error": "not in any queue"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GET /queue
func (h *Handler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Snapshot(c.Request.Context()))
}
