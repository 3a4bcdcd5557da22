package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes creates the lookup indexes the hot paths rely on. AutoMigrate
// already covers the unique indexes declared on the models; everything here
// is a plain secondary index, created only if missing.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"invitations", "idx_invitations_token_hash_status", "token_hash, status"},
		{"invitations", "idx_invitations_expires_at", "expires_at"},
		{"role_bindings", "idx_role_bindings_user_org", "user_id, organization_id"},
		{"memberships", "idx_memberships_user_id", "user_id"},
		{"roles", "idx_roles_organization_id", "organization_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
