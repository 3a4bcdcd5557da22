package models

import "time"

// RoleBinding grants a role to a user within one organization. The binding
// carries its own OrganizationID even though the role already belongs to an
// organization: it lets a single table answer "which roles does this user
// hold in this org" without joining through roles, and the service layer
// rejects bindings whose organization differs from the role's.
type RoleBinding struct {
	UserID         uint64    `gorm:"primarykey" json:"user_id"`
	RoleID         uint64    `gorm:"primarykey" json:"role_id"`
	OrganizationID uint64    `gorm:"not null;index" json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}
