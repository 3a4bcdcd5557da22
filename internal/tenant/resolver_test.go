package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mizusato/orghub/internal/models"
)

// mapSlugCache is an in-memory SlugCache for tests.
type mapSlugCache struct {
	entries map[string]uint64
	sets    int
}

func (c *mapSlugCache) Get(ctx context.Context, slug string) (uint64, bool, error) {
	id, ok := c.entries[slug]
	return id, ok, nil
}

func (c *mapSlugCache) Set(ctx context.Context, slug string, organizationID uint64) error {
	c.entries[slug] = organizationID
	c.sets++
	return nil
}

func setupResolverTest(t *testing.T) (*gorm.DB, *models.Organization) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Organization{}))

	org := &models.Organization{Name: "Acme", Slug: "acme"}
	require.NoError(t, db.Create(org).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, org
}

func TestResolver_ResolveSubdomain(t *testing.T) {
	db, org := setupResolverTest(t)
	r := NewResolver(db, nil, "example.com")
	ctx := context.Background()

	tc, err := r.Resolve(ctx, "acme.example.com", nil)
	require.NoError(t, err)
	require.True(t, tc.Resolved())
	require.Equal(t, org.ID, tc.OrganizationID)
	require.Equal(t, "acme", tc.Slug)

	// Ports and case don't matter.
	tc, err = r.Resolve(ctx, "ACME.example.com:8080", nil)
	require.NoError(t, err)
	require.Equal(t, org.ID, tc.OrganizationID)
}

func TestResolver_ApexHasNoTenant(t *testing.T) {
	db, _ := setupResolverTest(t)
	r := NewResolver(db, nil, "example.com")

	tc, err := r.Resolve(context.Background(), "example.com", nil)
	require.NoError(t, err)
	require.False(t, tc.Resolved())
}

func TestResolver_UnknownSlugResolvesToNothing(t *testing.T) {
	db, _ := setupResolverTest(t)
	r := NewResolver(db, nil, "example.com")

	// Unknown slug is not an error; the HTTP boundary decides what to do.
	tc, err := r.Resolve(context.Background(), "ghost.example.com", nil)
	require.NoError(t, err)
	require.False(t, tc.Resolved())
}

func TestResolver_OverrideWins(t *testing.T) {
	db, _ := setupResolverTest(t)
	r := NewResolver(db, nil, "example.com")

	override := &Context{OrganizationID: 42, Slug: "forced"}
	tc, err := r.Resolve(context.Background(), "acme.example.com", override)
	require.NoError(t, err)
	require.EqualValues(t, 42, tc.OrganizationID)
	require.Equal(t, "forced", tc.Slug)
}

func TestResolver_CacheReadThrough(t *testing.T) {
	db, org := setupResolverTest(t)
	cache := &mapSlugCache{entries: map[string]uint64{}}
	r := NewResolver(db, cache, "example.com")
	ctx := context.Background()

	// First lookup misses the cache and populates it.
	tc, err := r.ResolveSlug(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, org.ID, tc.OrganizationID)
	require.Equal(t, 1, cache.sets)

	// Second lookup is served from the cache even if the row disappears.
	require.NoError(t, db.Unscoped().Delete(&models.Organization{}, org.ID).Error)
	tc, err = r.ResolveSlug(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, org.ID, tc.OrganizationID)
	require.Equal(t, 1, cache.sets)
}

func TestResolver_OnlyInnermostLabelCounts(t *testing.T) {
	db, org := setupResolverTest(t)
	r := NewResolver(db, nil, "example.com")

	// The label closest to the main domain is the slug.
	tc, err := r.Resolve(context.Background(), "deep.acme.example.com", nil)
	require.NoError(t, err)
	require.Equal(t, org.ID, tc.OrganizationID)
	require.Equal(t, "acme", tc.Slug)
}
