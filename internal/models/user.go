package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a global identity. Users are not owned by a tenant; the email is
// unique across the whole system, and CurrentOrganizationID points at the
// tenant the user is currently acting in (nil until they join one).
type User struct {
	ID                    uint64         `gorm:"primarykey" json:"id"`
	UID                   string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"uid"`
	FirstName             string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName              string         `gorm:"type:varchar(100)" json:"last_name"`
	Email                 string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone                 string         `gorm:"type:varchar(50)" json:"phone"`
	PasswordHash          string         `gorm:"type:varchar(255);not null" json:"-"`
	CurrentOrganizationID *uint64        `gorm:"index" json:"current_organization_id"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Memberships     []Membership  `gorm:"foreignKey:UserID" json:"-"`
	RoleBindings    []RoleBinding `gorm:"foreignKey:UserID" json:"-"`
	SentInvitations []Invitation  `gorm:"foreignKey:InvitedBy" json:"-"`
}

// FullName joins the name parts for display.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
