package middleware

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/mizusato/orghub/internal/errors"
	"github.com/mizusato/orghub/internal/services"
	"github.com/mizusato/orghub/internal/tenant"
)

// RequireMembership checks that the authenticated user belongs to the
// resolved tenant. Non-members get 404 rather than 403 so the response does
// not confirm the organization exists.
func RequireMembership(memberships *services.MembershipService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		tc, ok := tenant.FromGin(c)
		if !ok || !tc.Resolved() {
			apierrors.NotFound(c, "Organization not found")
			c.Abort()
			return
		}

		isMember, err := memberships.HasUser(tc.OrganizationID, userID)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		if !isMember {
			apierrors.NotFound(c, "Organization not found")
			c.Abort()
			return
		}

		c.Next()
	}
}
