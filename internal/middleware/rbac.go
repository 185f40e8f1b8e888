package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/edumetrics-ng/results-api/internal/models"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
	"github.com/edumetrics-ng/results-api/pkg/response"
)

// RequireCapability gates a route on the caller's role carrying every listed
// capability flag. Permissions hang off the role via the capability bitmask,
// so routes never enumerate role names.
func RequireCapability(caps ...models.Capability) gin.HandlerFunc {
	var required models.Capability
	for _, c := range caps {
		required |= c
	}
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if !models.HasCapability(claims.Role, required) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
