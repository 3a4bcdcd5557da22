package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mizusato/orghub/internal/models"
	"github.com/mizusato/orghub/internal/repository"
)

type membershipTestEnv struct {
	db      *gorm.DB
	service *MembershipService
	org     *models.Organization
	other   *models.Organization
}

func setupMembershipTestEnv(t *testing.T) membershipTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Membership{},
	)
	require.NoError(t, err)

	org := &models.Organization{Name: "Acme", Slug: "acme"}
	require.NoError(t, db.Create(org).Error)
	other := &models.Organization{Name: "Globex", Slug: "globex"}
	require.NoError(t, db.Create(other).Error)

	memberRepo := repository.NewMembershipRepository(db)
	userRepo := repository.NewUserRepository(db)
	service := NewMembershipService(memberRepo, userRepo, nil)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return membershipTestEnv{
		db:      db,
		service: service,
		org:     org,
		other:   other,
	}
}

func TestMembershipService_AddUser_FirstBecomesDefault(t *testing.T) {
	env := setupMembershipTestEnv(t)
	ctx := context.Background()

	user := createTestUser(t, env.db, "joiner@example.com")

	added, err := env.service.AddUser(ctx, env.org.ID, user.ID)
	require.NoError(t, err)
	require.True(t, added)

	var member models.Membership
	require.NoError(t, env.db.Where("organization_id = ? AND user_id = ?", env.org.ID, user.ID).
		First(&member).Error)
	require.True(t, member.IsDefault)

	// A second organization does not steal the default.
	added, err = env.service.AddUser(ctx, env.other.ID, user.ID)
	require.NoError(t, err)
	require.True(t, added)

	var second models.Membership
	require.NoError(t, env.db.Where("organization_id = ? AND user_id = ?", env.other.ID, user.ID).
		First(&second).Error)
	require.False(t, second.IsDefault)
}

func TestMembershipService_AddUser_Idempotent(t *testing.T) {
	env := setupMembershipTestEnv(t)
	ctx := context.Background()

	user := createTestUser(t, env.db, "repeat@example.com")

	added, err := env.service.AddUser(ctx, env.org.ID, user.ID)
	require.NoError(t, err)
	require.True(t, added)

	added, err = env.service.AddUser(ctx, env.org.ID, user.ID)
	require.NoError(t, err)
	require.False(t, added)

	var memberships int64
	require.NoError(t, env.db.Model(&models.Membership{}).
		Where("user_id = ?", user.ID).Count(&memberships).Error)
	require.EqualValues(t, 1, memberships)
}

func TestMembershipService_SetDefault_Swaps(t *testing.T) {
	env := setupMembershipTestEnv(t)
	ctx := context.Background()

	user := createTestUser(t, env.db, "swapper@example.com")

	_, err := env.service.AddUser(ctx, env.org.ID, user.ID)
	require.NoError(t, err)
	_, err = env.service.AddUser(ctx, env.other.ID, user.ID)
	require.NoError(t, err)

	require.NoError(t, env.service.SetDefault(env.other.ID, user.ID))

	// Exactly one default, and it moved.
	var defaults []models.Membership
	require.NoError(t, env.db.Where("user_id = ? AND is_default = ?", user.ID, true).
		Find(&defaults).Error)
	require.Len(t, defaults, 1)
	require.Equal(t, env.other.ID, defaults[0].OrganizationID)
}

func TestMembershipService_SetDefault_NotAMember(t *testing.T) {
	env := setupMembershipTestEnv(t)

	user := createTestUser(t, env.db, "stranger@example.com")

	err := env.service.SetDefault(env.org.ID, user.ID)
	require.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestMembershipService_RemoveUser(t *testing.T) {
	env := setupMembershipTestEnv(t)
	ctx := context.Background()

	user := createTestUser(t, env.db, "leaver@example.com")

	_, err := env.service.AddUser(ctx, env.org.ID, user.ID)
	require.NoError(t, err)

	require.NoError(t, env.service.RemoveUser(env.org.ID, user.ID))

	has, err := env.service.HasUser(env.org.ID, user.ID)
	require.NoError(t, err)
	require.False(t, has)

	// Removing again reports the missing membership.
	err = env.service.RemoveUser(env.org.ID, user.ID)
	require.ErrorIs(t, err, ErrMembershipNotFound)
}
