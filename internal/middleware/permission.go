package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/mizusato/orghub/internal/authz"
	apierrors "github.com/mizusato/orghub/internal/errors"
	"github.com/mizusato/orghub/internal/services"
	"github.com/mizusato/orghub/internal/tenant"
)

// RequirePermission authorizes the request against the resolved tenant.
// Admins of any organization pass; everyone else needs the permission through
// a role bound in the tenant.
func RequirePermission(authorizer *services.AuthzService, perm authz.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var organizationID uint64
		if tc, ok := tenant.FromGin(c); ok {
			organizationID = tc.OrganizationID
		}

		allowed, err := authorizer.Authorize(userID, perm, organizationID)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		if !allowed {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
