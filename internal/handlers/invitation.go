package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mizusato/orghub/internal/dto"
	apierrors "github.com/mizusato/orghub/internal/errors"
	"github.com/mizusato/orghub/internal/middleware"
	"github.com/mizusato/orghub/internal/models"
	"github.com/mizusato/orghub/internal/repository"
	"github.com/mizusato/orghub/internal/services"
	"github.com/mizusato/orghub/internal/tenant"
	"github.com/mizusato/orghub/internal/utils"
)

// InvitationHandler coordinates invitation HTTP handlers. Issuance, listing,
// and revocation are tenant-scoped; lookup and acceptance go by token alone,
// because invitees reach the system before belonging to any tenant.
type InvitationHandler struct {
	invService *services.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invService: invService,
	}
}

// CreateInvitation issues an invitation for the tenant organization. The
// response carries the raw token; it is never retrievable again.
func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	tc, _ := tenant.FromGin(c)
	userID, _ := middleware.GetUserID(c)

	type CreateInvitationRequest struct {
		Email   string   `json:"email" binding:"required,email"`
		Name    string   `json:"name" binding:"max=255"`
		Roles   []string `json:"roles"`
		TTLDays int      `json:"ttl_days" binding:"omitempty,min=1,max=90"`
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	inv, rawToken, err := h.invService.Issue(c.Request.Context(), services.IssueInput{
		OrganizationID: tc.OrganizationID,
		Email:          req.Email,
		Name:           req.Name,
		Roles:          req.Roles,
		InvitedBy:      &userID,
		TTL:            time.Duration(req.TTLDays) * 24 * time.Hour,
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToIssuedInvitationDTO(*inv, rawToken))
}

// ListInvitations returns the tenant organization's invitations, filterable
// by status and email.
func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	tc, _ := tenant.FromGin(c)
	params := utils.GetPaginationParams(c)

	filter := repository.InvitationFilter{
		Status: models.InvitationStatus(c.Query("status")),
		Email:  c.Query("email"),
	}

	invitations, total, err := h.invService.List(tc.OrganizationID, filter, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch invitations")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationListResponse(invitations, params.Page, params.Limit, total))
}

// RevokeInvitation cancels a pending invitation in the tenant organization.
func (h *InvitationHandler) RevokeInvitation(c *gin.Context) {
	tc, _ := tenant.FromGin(c)

	invID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid invitation ID")
		return
	}

	inv, err := h.invService.Revoke(tc.OrganizationID, invID)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*inv))
}

// LookupInvitation resolves an invitation by raw token so the invitee can see
// what they were invited to before authenticating. Expired invitations are
// reported as such, not hidden.
func (h *InvitationHandler) LookupInvitation(c *gin.Context) {
	rawToken := c.Param("token")
	if rawToken == "" {
		apierrors.BadRequest(c, "Token is required")
		return
	}

	inv, err := h.invService.FindByRawToken(rawToken)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*inv))
}

// AcceptInvitation accepts an invitation for the authenticated user.
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type AcceptRequest struct {
		Token string `json:"token" binding:"required"`
	}

	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	inv, err := h.invService.AcceptByToken(c.Request.Context(), req.Token, userID)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Invitation accepted",
		"invitation": dto.ToInvitationDTO(*inv),
	})
}

func respondInvitationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvitationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvitationExpired):
		apierrors.Gone(c, apierrors.ErrCodeInvitationExpired, err.Error())
	case errors.Is(err, services.ErrInvitationNotPending):
		apierrors.Gone(c, apierrors.ErrCodeInvitationUsed, err.Error())
	case errors.Is(err, services.ErrInvitationEmailEmpty):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
