package models

import "time"

// Permission is global, shared by every tenant's roles. Names follow the
// "resource:action" format, with "resource:*" and "*" wildcards.
type Permission struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Roles []Role `gorm:"many2many:role_permissions" json:"roles,omitempty"`
}
