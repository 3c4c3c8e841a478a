package presence

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gymtrack/internal/auth"
	"gymtrack/internal/logger"
	"gymtrack/internal/member"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ReconcileOnRead force-closes stale open visits before a request is served,
// so presence and session reads never leak a visit someone abandoned hours
// ago. Reconciliation failures are logged, never surfaced to the caller.
func ReconcileOnRead(service Service, thresholdMinutes int) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := service.ReconcileStale(c.Request.Context(), thresholdMinutes)
		if err != nil {
			logger.Error("inline stale-session check failed", "error", err)
		} else if count > 0 {
			logger.Info("auto-closed stale sessions", "count", count)
		}
		c.Next()
	}
}

// CheckIn godoc
// @Summary      Check a member into the gym
// @Description  Records gym entry for the member. Callers may only check in themselves unless they are staff.
// @Tags         presence
// @Security     BearerAuth
// @Produce      json
// @Param        memberID  path      int  true  "Member ID"
// @Success      200       {object}  Result
// @Failure      400       {object}  api.ErrorResponse
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Failure      409       {object}  api.ErrorResponse
// @Router       /members/{memberID}/checkin [post]
func (h *Handler) CheckIn(c *gin.Context) {
	memberID, ok := h.targetMember(c)
	if !ok {
		return
	}

	result, err := h.service.CheckIn(c.Request.Context(), memberID)
	if err != nil {
		switch {
		case errors.Is(err, member.ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		case errors.Is(err, ErrAlreadyInGym):
			c.JSON(http.StatusConflict, gin.H{"error": "Member is already in the gym"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// CheckOut godoc
// @Summary      Check a member out of the gym
// @Description  Records gym exit and creates a session for the completed visit. Callers may only check out themselves unless they are staff.
// @Tags         presence
// @Security     BearerAuth
// @Produce      json
// @Param        memberID  path      int  true  "Member ID"
// @Success      200       {object}  Result
// @Failure      400       {object}  api.ErrorResponse
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Failure      409       {object}  api.ErrorResponse
// @Router       /members/{memberID}/checkout [post]
func (h *Handler) CheckOut(c *gin.Context) {
	memberID, ok := h.targetMember(c)
	if !ok {
		return
	}

	result, err := h.service.CheckOut(c.Request.Context(), memberID)
	if err != nil {
		switch {
		case errors.Is(err, member.ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		case errors.Is(err, ErrNotInGym):
			c.JSON(http.StatusConflict, gin.H{"error": "Member is not in the gym"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// Reconcile godoc
// @Summary      Force-close stale open visits
// @Description  Staff endpoint for scheduled runs. threshold_minutes of 0 (or omitted) closes every open visit.
// @Tags         presence
// @Security     BearerAuth
// @Produce      json
// @Param        threshold_minutes  query     int  false  "Stale threshold in minutes"
// @Success      200  {object}  api.ReconcileResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /admin/reconcile [post]
func (h *Handler) Reconcile(c *gin.Context) {
	threshold := 0
	if raw := c.Query("threshold_minutes"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid threshold_minutes"})
			return
		}
		threshold = parsed
	}

	count, err := h.service.ReconcileStale(c.Request.Context(), threshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reconciled": count})
}

// targetMember resolves the memberID path param and enforces the self-or-staff
// policy shared by check-in and check-out.
func (h *Handler) targetMember(c *gin.Context) (int, bool) {
	callerID, exists := auth.GetMemberID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
		return 0, false
	}

	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return 0, false
	}

	if callerID != memberID && !auth.IsStaff(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own gym status"})
		return 0, false
	}

	return memberID, true
}
