package constants

// Context keys shared between middleware and handlers.
const (
	ContextKeyUserID = "user_id"
	ContextKeyTenant = "tenant"
)

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "orghub_session"

// Pagination bounds.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth limits.
const (
	MinPasswordLength = 8
)

// Invitation defaults.
const (
	DefaultInvitationTTLDays = 7
	InvitationTokenLength    = 64
)

// Tenant slug cache.
const (
	SlugCacheKeyPrefix = "org_id_by_slug:"
	SlugCacheTTLMinutes = 60
)
