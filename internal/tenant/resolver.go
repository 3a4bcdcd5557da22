package tenant

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mizusato/orghub/internal/constants"
	"github.com/mizusato/orghub/internal/models"
)

// SlugCache is the read-through cache in front of the slug→organization-id
// lookup. Entries expire by TTL only; slugs are immutable so stale reads are
// bounded and harmless.
type SlugCache interface {
	Get(ctx context.Context, slug string) (uint64, bool, error)
	Set(ctx context.Context, slug string, organizationID uint64) error
}

// RedisSlugCache stores slug lookups in redis with a fixed TTL.
type RedisSlugCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlugCache(client *redis.Client) *RedisSlugCache {
	return &RedisSlugCache{
		client: client,
		ttl:    constants.SlugCacheTTLMinutes * time.Minute,
	}
}

func (c *RedisSlugCache) Get(ctx context.Context, slug string) (uint64, bool, error) {
	val, err := c.client.Get(ctx, constants.SlugCacheKeyPrefix+slug).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("slug cache get: %w", err)
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return id, true, nil
}

func (c *RedisSlugCache) Set(ctx context.Context, slug string, organizationID uint64) error {
	key := constants.SlugCacheKeyPrefix + slug
	if err := c.client.Set(ctx, key, strconv.FormatUint(organizationID, 10), c.ttl).Err(); err != nil {
		return fmt.Errorf("slug cache set: %w", err)
	}
	return nil
}

// Resolver maps a request host to the owning organization.
type Resolver struct {
	db         *gorm.DB
	cache      SlugCache
	mainDomain string
}

// NewResolver creates a Resolver. cache may be nil, in which case every
// lookup hits the database.
func NewResolver(db *gorm.DB, cache SlugCache, mainDomain string) *Resolver {
	return &Resolver{db: db, cache: cache, mainDomain: mainDomain}
}

// Resolve applies the resolution order: an explicit override wins (tests and
// CLI tools bypass subdomain inference this way), then the subdomain label of
// the host is looked up as an organization slug. An unknown slug resolves to
// the zero Context, never an error; the HTTP boundary turns that into a 404.
func (r *Resolver) Resolve(ctx context.Context, host string, override *Context) (Context, error) {
	if override != nil {
		return *override, nil
	}

	slug := r.extractSlug(host)
	if slug == "" {
		return Context{}, nil
	}
	return r.ResolveSlug(ctx, slug)
}

// ResolveSlug looks up a slug through the cache, falling back to the
// database and populating the cache on a hit.
func (r *Resolver) ResolveSlug(ctx context.Context, slug string) (Context, error) {
	if r.cache != nil {
		if id, ok, err := r.cache.Get(ctx, slug); err == nil && ok {
			return Context{OrganizationID: id, Slug: slug}, nil
		}
		// Cache errors degrade to a database lookup.
	}

	var org models.Organization
	err := r.db.WithContext(ctx).Select("id", "slug").Where("slug = ?", slug).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Context{}, nil
	}
	if err != nil {
		return Context{}, fmt.Errorf("failed to resolve organization slug: %w", err)
	}

	if r.cache != nil {
		// Best effort; a failed write just means the next request queries again.
		_ = r.cache.Set(ctx, slug, org.ID)
	}

	return Context{OrganizationID: org.ID, Slug: org.Slug}, nil
}

// extractSlug pulls the organization slug out of the request host. The first
// subdomain label under the configured main domain is the slug; the apex
// domain itself carries no tenant.
func (r *Resolver) extractSlug(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)

	if host == r.mainDomain {
		return ""
	}
	if suffix := "." + r.mainDomain; strings.HasSuffix(host, suffix) {
		prefix := strings.TrimSuffix(host, suffix)
		// Only the label closest to the main domain counts.
		if i := strings.LastIndexByte(prefix, '.'); i >= 0 {
			prefix = prefix[i+1:]
		}
		return prefix
	}

	// Host does not belong to the main domain: treat the first label of a
	// three-part host as a slug, anything shorter as tenantless.
	parts := strings.Split(host, ".")
	if len(parts) >= 3 {
		return parts[0]
	}
	return ""
}
