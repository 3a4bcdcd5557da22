package database

import (
	"gorm.io/gorm"

	"github.com/mizusato/orghub/internal/utils"
)

// TenantScope filters a query to rows owned by the given organization.
// Every tenant-owned repository call goes through this; there is no ambient
// "current organization" global.
func TenantScope(organizationID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", organizationID)
	}
}

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
