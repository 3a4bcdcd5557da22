package dto

import (
	"time"

	"github.com/mizusato/orghub/internal/models"
)

// InvitationDTO represents an invitation in API responses. The token hash
// never leaves the server; the raw token appears only in the issuance
// response.
type InvitationDTO struct {
	ID             uint64                  `json:"id"`
	OrganizationID uint64                  `json:"organization_id"`
	Email          string                  `json:"email"`
	Name           string                  `json:"name,omitempty"`
	Roles          []string                `json:"roles"`
	Status         models.InvitationStatus `json:"status"`
	InvitedBy      *uint64                 `json:"invited_by"`
	ExpiresAt      time.Time               `json:"expires_at"`
	AcceptedAt     *time.Time              `json:"accepted_at,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	Organization   *OrganizationDTO        `json:"organization,omitempty"`
}

// IssuedInvitationDTO is the issuance response. Token is the one and only
// server-side exposure of the raw invite token.
type IssuedInvitationDTO struct {
	InvitationDTO
	Token string `json:"token"`
}

// InvitationListResponse represents a paginated list of invitations
type InvitationListResponse struct {
	Invitations []InvitationDTO `json:"invitations"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
	TotalCount  int64           `json:"total_count"`
	TotalPages  int             `json:"total_pages"`
}

// ToInvitationDTO converts an Invitation model to InvitationDTO
func ToInvitationDTO(inv models.Invitation) InvitationDTO {
	dto := InvitationDTO{
		ID:             inv.ID,
		OrganizationID: inv.OrganizationID,
		Email:          inv.Email,
		Name:           inv.Name,
		Roles:          inv.Roles,
		Status:         inv.Status,
		InvitedBy:      inv.InvitedBy,
		ExpiresAt:      inv.ExpiresAt,
		AcceptedAt:     inv.AcceptedAt,
		CreatedAt:      inv.CreatedAt,
	}

	// Include organization if preloaded
	if inv.Organization.ID != 0 {
		org := ToOrganizationDTO(inv.Organization)
		dto.Organization = &org
	}

	return dto
}

// ToIssuedInvitationDTO pairs the stored invitation with its raw token
func ToIssuedInvitationDTO(inv models.Invitation, rawToken string) IssuedInvitationDTO {
	return IssuedInvitationDTO{
		InvitationDTO: ToInvitationDTO(inv),
		Token:         rawToken,
	}
}

// ToInvitationListResponse converts a slice of invitations to a paginated
// response
func ToInvitationListResponse(invitations []models.Invitation, page, pageSize int, totalCount int64) InvitationListResponse {
	items := make([]InvitationDTO, len(invitations))
	for i, inv := range invitations {
		items[i] = ToInvitationDTO(inv)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return InvitationListResponse{
		Invitations: items,
		Page:        page,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
	}
}
