package match

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

type reportRequest struct {
	MatchCode string `json:"matchCode" binding:"required"`
	Result    string `json:"result" binding:"required"`
}

// POST /match/report  body: {matchCode, result}
// result: "A" | "B" | "win" | "loss"
func (h *Handler) Report(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	outcome, err := ParseOutcome(req.Result)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "result must be A, B, win or loss"})
		return
	}
	reporter := c.GetString("player_id")
	admin := c.GetBool("is_admin")

	res, err := h.svc.Report(c.Request.Context(), req.MatchCode, reporter, outcome, admin)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /match/force  body: {matchCode, result}  (admin route)
// Bypasses the captain check entirely; the result must name a team.
func (h *Handler) ForceReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	outcome, err := ParseOutcome(req.Result)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "result must be A or B"})
		return
	}

	res, err := h.svc.Report(c.Request.Context(), req.MatchCode, "", outcome, true)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /match/void  body: {matchCode}  (admin route)
func (h *Handler) Void(c *gin.Context) {
	var req struct {
		MatchCode string `json:"matchCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.svc.Void(c.Request.Context(), req.MatchCode)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// GET /match/:code
func (h *Handler) Get(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
	case errors.Is(err, ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"error": "match already resolved"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "only captains can report this match"})
	case errors.Is(err, ErrInvalidOutcome):
		c.JSON(http.StatusBadRequest, gin.H{"error": "outcome could not be resolved"})
	default:
		// storage failures are retryable
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
