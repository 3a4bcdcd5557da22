package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mizusato/orghub/internal/dto"
	apierrors "github.com/mizusato/orghub/internal/errors"
	"github.com/mizusato/orghub/internal/services"
	"github.com/mizusato/orghub/internal/tenant"
)

// RoleHandler coordinates role HTTP handlers within the tenant organization.
type RoleHandler struct {
	roleService *services.RoleService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
	}
}

// ListRoles returns the tenant organization's roles.
func (h *RoleHandler) ListRoles(c *gin.Context) {
	tc, _ := tenant.FromGin(c)

	roles, err := h.roleService.ListRoles(tc.OrganizationID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch roles")
		return
	}

	roleDTOs := make([]dto.RoleDTO, len(roles))
	for i, role := range roles {
		roleDTOs[i] = dto.ToRoleDTO(role)
	}

	c.JSON(http.StatusOK, gin.H{
		"roles": roleDTOs,
	})
}

// AssignRole binds a role to a user within the tenant organization.
func (h *RoleHandler) AssignRole(c *gin.Context) {
	tc, _ := tenant.FromGin(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type AssignRoleRequest struct {
		RoleID uint64 `json:"role_id" binding:"required"`
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.roleService.AssignRole(c.Request.Context(), userID, req.RoleID, tc.OrganizationID); err != nil {
		respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role assigned",
	})
}

// RevokeRole removes a role binding from a user within the tenant
// organization.
func (h *RoleHandler) RevokeRole(c *gin.Context) {
	tc, _ := tenant.FromGin(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}
	roleID, err := strconv.ParseUint(c.Param("role_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid role ID")
		return
	}

	if err := h.roleService.RevokeRole(userID, roleID, tc.OrganizationID); err != nil {
		respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role revoked",
	})
}

// ListUserRoles returns the roles a user holds within the tenant
// organization.
func (h *RoleHandler) ListUserRoles(c *gin.Context) {
	tc, _ := tenant.FromGin(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	roles, err := h.roleService.RolesFor(userID, tc.OrganizationID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch roles")
		return
	}

	roleDTOs := make([]dto.RoleDTO, len(roles))
	for i, role := range roles {
		roleDTOs[i] = dto.ToRoleDTO(role)
	}

	c.JSON(http.StatusOK, gin.H{
		"roles": roleDTOs,
	})
}

func respondRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRoleNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrRoleOrganizationMismatch):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
