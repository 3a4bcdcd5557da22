// Package tenant resolves the active organization for a request and carries
// it as an explicit value. There is no process-wide "current organization";
// every tenant-scoped call receives the Context (or the organization ID it
// holds) as an argument.
package tenant

// Context identifies the organization a request is acting in. The zero value
// means "no tenant resolved": queries run unscoped and tenant-guarded routes
// respond 404.
type Context struct {
	OrganizationID uint64
	Slug           string
}

// Resolved reports whether an organization was identified.
func (c Context) Resolved() bool {
	return c.OrganizationID != 0
}
