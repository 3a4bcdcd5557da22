package models

import "time"

// RolePermission is the Role×Permission join row.
type RolePermission struct {
	RoleID       uint64    `gorm:"primarykey" json:"role_id"`
	PermissionID uint64    `gorm:"primarykey" json:"permission_id"`
	CreatedAt    time.Time `json:"created_at"`
}
