package tenant

import (
	"github.com/gin-gonic/gin"

	"github.com/mizusato/orghub/internal/constants"
	apierrors "github.com/mizusato/orghub/internal/errors"
)

// ResolveTenant resolves the organization from the request host and stores
// the tenant Context on the gin context. Resolution failure is not an error
// here; routes that need a tenant add RequireTenant.
func ResolveTenant(resolver *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, err := resolver.Resolve(c.Request.Context(), c.Request.Host, nil)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		c.Set(constants.ContextKeyTenant, tc)
		c.Next()
	}
}

// RequireTenant aborts with 404 when no organization was resolved. An
// unknown subdomain is indistinguishable from a missing page.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := FromGin(c)
		if !ok || !tc.Resolved() {
			apierrors.NotFound(c, "Organization not found")
			c.Abort()
			return
		}
		c.Next()
	}
}

// FromGin retrieves the tenant Context stored by ResolveTenant.
func FromGin(c *gin.Context) (Context, bool) {
	v, exists := c.Get(constants.ContextKeyTenant)
	if !exists {
		return Context{}, false
	}
	tc, ok := v.(Context)
	return tc, ok
}
