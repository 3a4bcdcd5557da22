package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mizusato/orghub/internal/authz"
	"github.com/mizusato/orghub/internal/models"
	"github.com/mizusato/orghub/internal/repository"
)

type roleTestEnv struct {
	db      *gorm.DB
	service *RoleService
	org     *models.Organization
	other   *models.Organization
}

func setupRoleTestEnv(t *testing.T) roleTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.RoleBinding{},
	)
	require.NoError(t, err)

	org := &models.Organization{Name: "Acme", Slug: "acme"}
	require.NoError(t, db.Create(org).Error)
	other := &models.Organization{Name: "Globex", Slug: "globex"}
	require.NoError(t, db.Create(other).Error)

	roleRepo := repository.NewRoleRepository(db)
	service := NewRoleService(roleRepo, nil)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return roleTestEnv{
		db:      db,
		service: service,
		org:     org,
		other:   other,
	}
}

func TestRoleService_Seeding(t *testing.T) {
	env := setupRoleTestEnv(t)

	require.NoError(t, env.service.SeedPermissions())
	require.NoError(t, env.service.SeedOrganizationRoles(env.org))

	roles, err := env.service.ListRoles(env.org.ID)
	require.NoError(t, err)
	require.Len(t, roles, len(authz.DefaultRoles))

	var permissions int64
	require.NoError(t, env.db.Model(&models.Permission{}).Count(&permissions).Error)
	require.EqualValues(t, len(authz.AllPermissionNames()), permissions)
}

func TestRoleService_SeedingIsIdempotent(t *testing.T) {
	env := setupRoleTestEnv(t)

	require.NoError(t, env.service.SeedPermissions())
	require.NoError(t, env.service.SeedOrganizationRoles(env.org))

	var rolesBefore, permsBefore, linksBefore int64
	require.NoError(t, env.db.Model(&models.Role{}).Count(&rolesBefore).Error)
	require.NoError(t, env.db.Model(&models.Permission{}).Count(&permsBefore).Error)
	require.NoError(t, env.db.Model(&models.RolePermission{}).Count(&linksBefore).Error)

	require.NoError(t, env.service.SeedPermissions())
	require.NoError(t, env.service.SeedOrganizationRoles(env.org))

	var rolesAfter, permsAfter, linksAfter int64
	require.NoError(t, env.db.Model(&models.Role{}).Count(&rolesAfter).Error)
	require.NoError(t, env.db.Model(&models.Permission{}).Count(&permsAfter).Error)
	require.NoError(t, env.db.Model(&models.RolePermission{}).Count(&linksAfter).Error)

	require.Equal(t, rolesBefore, rolesAfter)
	require.Equal(t, permsBefore, permsAfter)
	require.Equal(t, linksBefore, linksAfter)
}

func TestRoleService_SeedingIsPerTenant(t *testing.T) {
	env := setupRoleTestEnv(t)

	require.NoError(t, env.service.SeedPermissions())
	require.NoError(t, env.service.SeedOrganizationRoles(env.org))
	require.NoError(t, env.service.SeedOrganizationRoles(env.other))

	// Both tenants carry their own "owner" role.
	var owners int64
	require.NoError(t, env.db.Model(&models.Role{}).
		Where("slug = ?", authz.RoleOwner).
		Count(&owners).Error)
	require.EqualValues(t, 2, owners)
}

func TestRoleService_AssignRole(t *testing.T) {
	env := setupRoleTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.SeedPermissions())
	require.NoError(t, env.service.SeedOrganizationRoles(env.org))

	user := createTestUser(t, env.db, "assignee@example.com")

	var staff models.Role
	require.NoError(t, env.db.Where("organization_id = ? AND slug = ?", env.org.ID, authz.RoleStaff).
		First(&staff).Error)

	require.NoError(t, env.service.AssignRole(ctx, user.ID, staff.ID, env.org.ID))

	roles, err := env.service.RolesFor(user.ID, env.org.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	require.Equal(t, authz.RoleStaff, roles[0].Slug)

	// Assigning the same role again leaves a single binding.
	require.NoError(t, env.service.AssignRole(ctx, user.ID, staff.ID, env.org.ID))
	var bindings int64
	require.NoError(t, env.db.Model(&models.RoleBinding{}).
		Where("user_id = ? AND role_id = ?", user.ID, staff.ID).
		Count(&bindings).Error)
	require.EqualValues(t, 1, bindings)
}

func TestRoleService_AssignRole_OrganizationMismatch(t *testing.T) {
	env := setupRoleTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.SeedPermissions())
	require.NoError(t, env.service.SeedOrganizationRoles(env.org))

	user := createTestUser(t, env.db, "outsider@example.com")

	var staff models.Role
	require.NoError(t, env.db.Where("organization_id = ? AND slug = ?", env.org.ID, authz.RoleStaff).
		First(&staff).Error)

	// Binding a role from org while acting in other is refused.
	err := env.service.AssignRole(ctx, user.ID, staff.ID, env.other.ID)
	require.ErrorIs(t, err, ErrRoleOrganizationMismatch)
}

func TestRoleService_RevokeRole(t *testing.T) {
	env := setupRoleTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.SeedPermissions())
	require.NoError(t, env.service.SeedOrganizationRoles(env.org))

	user := createTestUser(t, env.db, "revokee@example.com")

	var staff models.Role
	require.NoError(t, env.db.Where("organization_id = ? AND slug = ?", env.org.ID, authz.RoleStaff).
		First(&staff).Error)

	require.NoError(t, env.service.AssignRole(ctx, user.ID, staff.ID, env.org.ID))
	require.NoError(t, env.service.RevokeRole(user.ID, staff.ID, env.org.ID))

	roles, err := env.service.RolesFor(user.ID, env.org.ID)
	require.NoError(t, err)
	require.Empty(t, roles)
}
