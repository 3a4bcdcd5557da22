package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is tenant-owned. Slug uniqueness is scoped to the organization, so
// two tenants can each have a role slugged "owner".
type Role struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	OrganizationID uint64         `gorm:"not null;uniqueIndex:idx_roles_org_slug" json:"organization_id"`
	Name           string         `gorm:"type:varchar(100);not null" json:"name"`
	Slug           string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_roles_org_slug" json:"slug"`
	Description    string         `gorm:"type:varchar(255)" json:"description"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Permissions  []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}
