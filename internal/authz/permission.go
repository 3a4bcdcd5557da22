// Package authz defines the permission string model and the default
// role-to-permission mapping seeded into every organization.
package authz

import "strings"

// Action is the closed set of verbs a permission can name.
type Action string

const (
	ActionViewAny     Action = "view_any"
	ActionView        Action = "view"
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionRestore     Action = "restore"
	ActionForceDelete Action = "force_delete"
)

// Resource enumerates the entity kinds permissions apply to.
type Resource string

const (
	ResourceOrganizations Resource = "organizations"
	ResourceUsers         Resource = "users"
	ResourceTeams         Resource = "teams"
	ResourceInvitations   Resource = "invitations"
	ResourceRoles         Resource = "roles"
	ResourcePermissions   Resource = "permissions"
)

// Permission is a canonical permission name: "resource:action",
// the resource wildcard "resource:*", or the super wildcard "*".
type Permission string

// All matches every permission on every resource.
const All Permission = "*"

// Perm is the single place permission strings are assembled.
func Perm(r Resource, a Action) Permission {
	return Permission(string(r) + ":" + string(a))
}

// Wildcard matches every action on the resource.
func Wildcard(r Resource) Permission {
	return Permission(string(r) + ":*")
}

// Resource returns the resource segment, or "" for the super wildcard.
func (p Permission) Resource() string {
	if p == All {
		return ""
	}
	if i := strings.IndexByte(string(p), ':'); i >= 0 {
		return string(p)[:i]
	}
	return string(p)
}

// MatchNames returns the stored permission names that satisfy p: the exact
// name, the resource wildcard, and the super wildcard.
func (p Permission) MatchNames() []string {
	if p == All {
		return []string{string(All)}
	}
	return []string{
		string(p),
		p.Resource() + ":*",
		string(All),
	}
}
