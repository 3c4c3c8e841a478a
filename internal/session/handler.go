package session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gymtrack/internal/auth"
	"gymtrack/internal/member"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary      List gym sessions
// @Description  Staff see every session; members see only their own.
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  ListResponse
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /sessions [get]
func (h *Handler) List(c *gin.Context) {
	callerID, exists := auth.GetMemberID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
		return
	}

	var (
		sessions []WithMember
		err      error
	)
	if auth.IsStaff(c) {
		sessions, err = h.service.ListAll(c.Request.Context())
	} else {
		sessions, err = h.service.ListForMember(c.Request.Context(), callerID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, ListResponse{Count: len(sessions), Sessions: sessions})
}

// ListByMember godoc
// @Summary      List a member's recent sessions
// @Description  Most recent sessions first, capped at 50. Members may only view their own history.
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Param        memberID  path      int  true  "Member ID"
// @Success      200       {object}  ListResponse
// @Failure      400       {object}  api.ErrorResponse
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /members/{memberID}/sessions [get]
func (h *Handler) ListByMember(c *gin.Context) {
	callerID, exists := auth.GetMemberID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
		return
	}

	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	if callerID != memberID && !auth.IsStaff(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own sessions"})
		return
	}

	sessions, err := h.service.ListForMember(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, ListResponse{Count: len(sessions), Sessions: sessions})
}
