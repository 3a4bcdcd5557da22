package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization is the tenant root. All tenant-owned rows carry its ID.
// The slug doubles as the subdomain key and never changes after creation.
type Organization struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	Slug       string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Email      string         `gorm:"type:varchar(255)" json:"email"`
	Phone      string         `gorm:"type:varchar(50)" json:"phone"`
	Website    string         `gorm:"type:varchar(255)" json:"website"`
	OwnerName  string         `gorm:"type:varchar(255)" json:"owner_name"`
	OwnerEmail string         `gorm:"type:varchar(255)" json:"owner_email"`
	OwnerPhone string         `gorm:"type:varchar(50)" json:"owner_phone"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Memberships []Membership `gorm:"foreignKey:OrganizationID" json:"memberships,omitempty"`
	Roles       []Role       `gorm:"foreignKey:OrganizationID" json:"roles,omitempty"`
	Invitations []Invitation `gorm:"foreignKey:OrganizationID" json:"invitations,omitempty"`
	Teams       []Team       `gorm:"foreignKey:OrganizationID" json:"teams,omitempty"`
}
