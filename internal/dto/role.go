package dto

import (
	"github.com/mizusato/orghub/internal/models"
)

// RoleDTO represents a role in API responses
type RoleDTO struct {
	ID             uint64   `json:"id"`
	OrganizationID uint64   `json:"organization_id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
}

// ToRoleDTO converts a Role model to RoleDTO
func ToRoleDTO(role models.Role) RoleDTO {
	dto := RoleDTO{
		ID:             role.ID,
		OrganizationID: role.OrganizationID,
		Name:           role.Name,
		Slug:           role.Slug,
		Description:    role.Description,
	}

	// Include permission names if preloaded
	if len(role.Permissions) > 0 {
		dto.Permissions = make([]string, len(role.Permissions))
		for i, p := range role.Permissions {
			dto.Permissions[i] = p.Name
		}
	}

	return dto
}
