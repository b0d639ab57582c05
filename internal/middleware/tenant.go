package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/utils"
)

// Auth and identity live upstream of this service; the tenant and the acting
// user arrive as headers and are trusted as-is.
const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderActorID  = "X-User-ID"
)

// TenantMiddleware requires a tenant id on every request and places it in the
// context for downstream handlers. The acting user id is optional.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(HeaderTenantID)
		if tenantID == "" {
			utils.BadRequest(c, "X-Tenant-ID header required")
			c.Abort()
			return
		}
		c.Set("tenantID", tenantID)
		if actorID := c.GetHeader(HeaderActorID); actorID != "" {
			c.Set("actorID", actorID)
		}
		c.Next()
	}
}

// GetTenantIDFromContext returns the tenant id set by TenantMiddleware.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	tenantID, exists := c.Get("tenantID")
	if !exists {
		return "", false
	}
	idStr, ok := tenantID.(string)
	return idStr, ok
}

// GetActorIDFromContext returns the acting user id, if one was provided.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorID, exists := c.Get("actorID")
	if !exists {
		return "", false
	}
	idStr, ok := actorID.(string)
	return idStr, ok
}
