package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edumetrics-ng/results-api/internal/middleware"
	"github.com/edumetrics-ng/results-api/internal/models"
)

// currentClaims extracts the authenticated user's claims from the request
// context. Routes behind the JWT middleware always have them.
func currentClaims(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}

// tenantFromContext derives the tenant scope for the authenticated caller.
// Every service call below the handler layer carries this scope explicitly.
func tenantFromContext(c *gin.Context) (models.TenantContext, *models.JWTClaims, bool) {
	claims, ok := currentClaims(c)
	if !ok {
		return models.TenantContext{}, nil, false
	}
	return models.TenantContext{SchoolID: claims.SchoolID}, claims, true
}
