package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mizusato/orghub/internal/authz"
	"github.com/mizusato/orghub/internal/models"
	"github.com/mizusato/orghub/internal/repository"
)

type authzTestEnv struct {
	db       *gorm.DB
	service  *AuthzService
	roleSvc  *RoleService
	roleRepo repository.RoleRepository
	org      *models.Organization
	other    *models.Organization
}

func setupAuthzTestEnv(t *testing.T) authzTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Membership{},
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
	roleSvc := NewRoleService(roleRepo, nil)
	require.NoError(t, roleSvc.SeedPermissions())
	require.NoError(t, roleSvc.SeedOrganizationRoles(org))
	require.NoError(t, roleSvc.SeedOrganizationRoles(other))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authzTestEnv{
		db:       db,
		service:  NewAuthzService(roleRepo),
		roleSvc:  roleSvc,
		roleRepo: roleRepo,
		org:      org,
		other:    other,
	}
}

func bindSeededRole(t *testing.T, env authzTestEnv, userID uint64, orgID uint64, slug string) {
	t.Helper()
	role, err := env.roleRepo.FindByNameOrSlug(orgID, slug)
	require.NoError(t, err)
	require.NoError(t, env.roleRepo.Bind(userID, role.ID, orgID))
}

func TestAuthzService_RolePermission(t *testing.T) {
	env := setupAuthzTestEnv(t)

	user := createTestUser(t, env.db, "staffer@example.com")
	bindSeededRole(t, env, user.ID, env.org.ID, authz.RoleStaff)

	// Staff can view users...
	ok, err := env.service.Authorize(user.ID, authz.Perm(authz.ResourceUsers, authz.ActionView), env.org.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// ...but cannot delete them.
	ok, err = env.service.Authorize(user.ID, authz.Perm(authz.ResourceUsers, authz.ActionDelete), env.org.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAuthzService_ScopedToOrganization(t *testing.T) {
	env := setupAuthzTestEnv(t)

	user := createTestUser(t, env.db, "local@example.com")
	bindSeededRole(t, env, user.ID, env.org.ID, authz.RoleManager)

	// A manager in one organization holds nothing in another.
	ok, err := env.service.Authorize(user.ID, authz.Perm(authz.ResourceInvitations, authz.ActionCreate), env.other.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAuthzService_AdminAnywhereBypassesEverything(t *testing.T) {
	env := setupAuthzTestEnv(t)

	user := createTestUser(t, env.db, "root@example.com")
	bindSeededRole(t, env, user.ID, env.org.ID, authz.RoleAdmin)

	// Admin in org passes checks in other, where they hold no role at all.
	ok, err := env.service.Authorize(user.ID, authz.Perm(authz.ResourceOrganizations, authz.ActionForceDelete), env.other.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// Even with no resolvable organization.
	ok, err = env.service.Authorize(user.ID, authz.Perm(authz.ResourceUsers, authz.ActionDelete), 0)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAuthzService_FailsClosedWithoutTenant(t *testing.T) {
	env := setupAuthzTestEnv(t)

	user := createTestUser(t, env.db, "plain@example.com")
	bindSeededRole(t, env, user.ID, env.org.ID, authz.RoleOwner)

	ok, err := env.service.Authorize(user.ID, authz.Perm(authz.ResourceUsers, authz.ActionView), 0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAuthzService_WildcardPermissions(t *testing.T) {
	env := setupAuthzTestEnv(t)

	user := createTestUser(t, env.db, "wild@example.com")

	// A custom role holding the resource wildcard grants every team action.
	teamLead := &models.Role{
		OrganizationID: env.org.ID,
		Name:           "Team Lead",
		Slug:           "team-lead",
	}
	require.NoError(t, env.roleRepo.FirstOrCreate(teamLead))
	perm, err := env.roleRepo.EnsurePermission(string(authz.Wildcard(authz.ResourceTeams)), "")
	require.NoError(t, err)
	require.NoError(t, env.roleRepo.AttachPermission(teamLead.ID, perm.ID))
	require.NoError(t, env.roleRepo.Bind(user.ID, teamLead.ID, env.org.ID))

	ok, err := env.service.Authorize(user.ID, authz.Perm(authz.ResourceTeams, authz.ActionForceDelete), env.org.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// The wildcard does not bleed into other resources.
	ok, err = env.service.Authorize(user.ID, authz.Perm(authz.ResourceUsers, authz.ActionDelete), env.org.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAuthzService_SuperWildcard(t *testing.T) {
	env := setupAuthzTestEnv(t)

	user := createTestUser(t, env.db, "super@example.com")

	super := &models.Role{
		OrganizationID: env.org.ID,
		Name:           "Superuser",
		Slug:           "superuser",
	}
	require.NoError(t, env.roleRepo.FirstOrCreate(super))
	perm, err := env.roleRepo.EnsurePermission(string(authz.All), "")
	require.NoError(t, err)
	require.NoError(t, env.roleRepo.AttachPermission(super.ID, perm.ID))
	require.NoError(t, env.roleRepo.Bind(user.ID, super.ID, env.org.ID))

	ok, err := env.service.Authorize(user.ID, authz.Perm(authz.ResourcePermissions, authz.ActionForceDelete), env.org.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// Still scoped: the super wildcard lives on a role in one organization.
	ok, err = env.service.Authorize(user.ID, authz.Perm(authz.ResourceUsers, authz.ActionView), env.other.ID)
	require.NoError(t, err)
	require.False(t, ok)
}
