package ledger

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/exotiicpro1-sg/Familia-Ranked/internal/utils"
)

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// GET /stats            -> the caller's own stats
// GET /stats?player=ID  -> someone else's
// Players are created lazily here too, so a fresh player sees default
// stats instead of a 404.
func (h *Handler) Stats(c *gin.Context) {
	id := c.Query("player")
	name := ""
	if id == "" {
		id = c.GetString("player_id")
		name = c.GetString("display_name")
	}
	if err := h.store.Ensure(c.Request.Context(), id, name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	p, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /leaderboard?limit=10
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	top, err := h.store.Top(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, top)
}

// POST /admin/adjust  body: {player, amount, reason}  (admin route)
func (h *Handler) AdjustRating(c *gin.Context) {
	var req struct {
		Player string `json:"player" binding:"required"`
		Amount int    `json:"amount" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.store.AdjustRating(c.Request.Context(), req.Player, req.Amount)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	utils.Info.Printf("rating of %s adjusted by %d (%s) by %s", req.Player, req.Amount, req.Reason, c.GetString("player_id"))
	c.JSON(http.StatusOK, p)
}
