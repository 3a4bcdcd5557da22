package dto

import (
	"github.com/mizusato/orghub/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID                    uint64  `json:"id"`
	UID                   string  `json:"uid"`
	FirstName             string  `json:"first_name"`
	LastName              string  `json:"last_name"`
	Email                 string  `json:"email"`
	Phone                 string  `json:"phone,omitempty"`
	CurrentOrganizationID *uint64 `json:"current_organization_id"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:                    user.ID,
		UID:                   user.UID,
		FirstName:             user.FirstName,
		LastName:              user.LastName,
		Email:                 user.Email,
		Phone:                 user.Phone,
		CurrentOrganizationID: user.CurrentOrganizationID,
	}
}
