package dto

import (
	"time"

	"github.com/mizusato/orghub/internal/models"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Website   string    `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MembershipDTO represents a member in an organization
type MembershipDTO struct {
	User      UserDTO   `json:"user"`
	IsDefault bool      `json:"is_default"`
	JoinedAt  time.Time `json:"joined_at"`
}

// OrganizationWithDefaultDTO represents an organization in a user's
// membership list, flagging their default one
type OrganizationWithDefaultDTO struct {
	OrganizationDTO
	IsDefault bool `json:"is_default"`
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:        org.ID,
		Name:      org.Name,
		Slug:      org.Slug,
		Email:     org.Email,
		Phone:     org.Phone,
		Website:   org.Website,
		CreatedAt: org.CreatedAt,
	}
}

// ToMembershipDTO converts a membership to DTO; the User relation must be
// preloaded
func ToMembershipDTO(member models.Membership) MembershipDTO {
	return MembershipDTO{
		User:      ToUserDTO(member.User),
		IsDefault: member.IsDefault,
		JoinedAt:  member.CreatedAt,
	}
}

// ToOrganizationWithDefaultDTO converts a membership to the user-facing
// organization entry; the Organization relation must be preloaded
func ToOrganizationWithDefaultDTO(member models.Membership) OrganizationWithDefaultDTO {
	return OrganizationWithDefaultDTO{
		OrganizationDTO: ToOrganizationDTO(member.Organization),
		IsDefault:       member.IsDefault,
	}
}
