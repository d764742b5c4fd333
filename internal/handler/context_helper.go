package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/formaplan/formaplan-api/internal/middleware"
	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/planning"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.CurrentUser(c)
}

// dateQuery reads a required YYYY-MM-DD query parameter.
func dateQuery(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, key+" query parameter is required")
	}
	parsed, err := planning.ParseDate(raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrInvalidDate, key+" must be formatted as YYYY-MM-DD")
	}
	return parsed, nil
}
