package member

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gymtrack/internal/auth"
)

// RequireActiveSubscription gates gym features behind subscription validity.
// Staff always pass. Validity is derived from the stored date range on every
// request, never cached.
func RequireActiveSubscription(service Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.IsStaff(c) {
			c.Next()
			return
		}

		memberID, exists := auth.GetMemberID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
			c.Abort()
			return
		}

		m, err := service.GetByID(c.Request.Context(), memberID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not found"})
			c.Abort()
			return
		}

		if !m.HasActiveSubscription(time.Now()) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Your subscription has expired. Please renew your subscription to continue.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
