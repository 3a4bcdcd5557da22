package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mizusato/orghub/internal/dto"
	apierrors "github.com/mizusato/orghub/internal/errors"
	"github.com/mizusato/orghub/internal/middleware"
	"github.com/mizusato/orghub/internal/services"
	"github.com/mizusato/orghub/internal/tenant"
)

// OrganizationHandler coordinates organization HTTP handlers. Tenant-scoped
// routes read the organization from the resolved tenant context, never from
// a URL parameter.
type OrganizationHandler struct {
	orgService    *services.OrganizationService
	memberService *services.MembershipService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService, memberService *services.MembershipService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:    orgService,
		memberService: memberService,
	}
}

// CreateOrganization registers a new organization and onboards its owner.
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	type CreateOrgRequest struct {
		Name       string `json:"name" binding:"required,max=255"`
		Slug       string `json:"slug" binding:"max=100"`
		Email      string `json:"email" binding:"omitempty,email"`
		Phone      string `json:"phone" binding:"max=50"`
		Website    string `json:"website" binding:"max=255"`
		OwnerName  string `json:"owner_name" binding:"max=255"`
		OwnerEmail string `json:"owner_email" binding:"omitempty,email"`
		OwnerPhone string `json:"owner_phone" binding:"max=50"`
	}

	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.Create(c.Request.Context(), services.CreateInput{
		Name:       req.Name,
		Slug:       req.Slug,
		Email:      req.Email,
		Phone:      req.Phone,
		Website:    req.Website,
		OwnerName:  req.OwnerName,
		OwnerEmail: req.OwnerEmail,
		OwnerPhone: req.OwnerPhone,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOrganizationName):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrSlugTaken):
			apierrors.Conflict(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to create organization")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org))
}

// GetOrganization returns the resolved tenant's organization.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	tc, _ := tenant.FromGin(c)

	org, err := h.orgService.Get(tc.OrganizationID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// UpdateOrganization updates the tenant organization's name and contacts.
// The slug is not updatable; it doubles as the subdomain key.
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	tc, _ := tenant.FromGin(c)

	type UpdateOrgRequest struct {
		Name       *string `json:"name" binding:"omitempty,max=255"`
		Email      *string `json:"email" binding:"omitempty,email"`
		Phone      *string `json:"phone" binding:"omitempty,max=50"`
		Website    *string `json:"website" binding:"omitempty,max=255"`
		OwnerName  *string `json:"owner_name" binding:"omitempty,max=255"`
		OwnerEmail *string `json:"owner_email" binding:"omitempty,email"`
		OwnerPhone *string `json:"owner_phone" binding:"omitempty,max=50"`
	}

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.Update(tc.OrganizationID, services.UpdateInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Website:    req.Website,
		OwnerName:  req.OwnerName,
		OwnerEmail: req.OwnerEmail,
		OwnerPhone: req.OwnerPhone,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// DeleteOrganization soft-deletes the tenant organization and everything it
// owns.
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	tc, _ := tenant.FromGin(c)

	if err := h.orgService.Delete(tc.OrganizationID); err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Organization deleted successfully",
	})
}

// ListMyOrganizations returns the organizations the authenticated user
// belongs to, flagging their default.
func (h *OrganizationHandler) ListMyOrganizations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.memberService.ListForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch organizations")
		return
	}

	orgs := make([]dto.OrganizationWithDefaultDTO, len(memberships))
	for i, m := range memberships {
		orgs[i] = dto.ToOrganizationWithDefaultDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"organizations": orgs,
	})
}

// SetDefaultOrganization marks the tenant organization as the user's default.
func (h *OrganizationHandler) SetDefaultOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	tc, _ := tenant.FromGin(c)

	if err := h.memberService.SetDefault(tc.OrganizationID, userID); err != nil {
		if errors.Is(err, services.ErrMembershipNotFound) {
			apierrors.NotFound(c, "Membership not found")
			return
		}
		apierrors.InternalError(c, "Failed to set default organization")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Default organization updated",
	})
}

// ListMembers returns the tenant organization's members.
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	tc, _ := tenant.FromGin(c)

	members, err := h.memberService.ListMembers(tc.OrganizationID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch members")
		return
	}

	memberDTOs := make([]dto.MembershipDTO, len(members))
	for i, m := range members {
		memberDTOs[i] = dto.ToMembershipDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"members": memberDTOs,
	})
}

// RemoveMember removes a member from the tenant organization.
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	tc, _ := tenant.FromGin(c)

	targetUserID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	currentUserID, _ := middleware.GetUserID(c)
	if targetUserID == currentUserID {
		apierrors.BadRequest(c, "Cannot remove yourself")
		return
	}

	if err := h.memberService.RemoveUser(tc.OrganizationID, targetUserID); err != nil {
		if errors.Is(err, services.ErrMembershipNotFound) {
			apierrors.NotFound(c, "Membership not found")
			return
		}
		apierrors.InternalError(c, "Failed to remove member")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

func respondOrganizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidOrganizationName):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
