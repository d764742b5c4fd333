package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/service"
	"github.com/formaplan/formaplan-api/pkg/response"
)

// AdminLock refreshes the single-admin-session lock on every mutating request
// by an admin. A lost lock means another session took over, so the request is
// rejected and the client must steal the lock back or log in again.
// Non-admin callers and read requests pass through untouched.
func AdminLock(lockSvc *service.AdminLockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if lockSvc == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		claims := CurrentUser(c)
		if claims == nil || claims.Role != models.RoleAdmin {
			c.Next()
			return
		}

		if err := lockSvc.Heartbeat(c.Request.Context(), claims.UserID); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
