package authz

// Default role slugs materialized for every organization.
const (
	RoleAdmin    = "admin"
	RoleOwner    = "owner"
	RoleManager  = "manager"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// DefaultRoles lists the seeded role slugs in seeding order.
var DefaultRoles = []string{RoleAdmin, RoleOwner, RoleManager, RoleStaff, RoleCustomer}

// DefaultRolePermissions maps each seeded role to the permission names it
// grants. The admin role additionally bypasses all checks globally (see
// services.AuthzService); the grants here only matter for enumeration.
var DefaultRolePermissions = map[string][]Permission{
	RoleAdmin: {
		Perm(ResourceOrganizations, ActionViewAny), Perm(ResourceOrganizations, ActionView),
		Perm(ResourceOrganizations, ActionCreate), Perm(ResourceOrganizations, ActionUpdate),
		Perm(ResourceOrganizations, ActionDelete), Perm(ResourceOrganizations, ActionRestore),
		Perm(ResourceOrganizations, ActionForceDelete),

		Perm(ResourceUsers, ActionViewAny), Perm(ResourceUsers, ActionView),
		Perm(ResourceUsers, ActionCreate), Perm(ResourceUsers, ActionUpdate),
		Perm(ResourceUsers, ActionDelete), Perm(ResourceUsers, ActionRestore),
		Perm(ResourceUsers, ActionForceDelete),

		Perm(ResourceTeams, ActionViewAny), Perm(ResourceTeams, ActionView),
		Perm(ResourceTeams, ActionCreate), Perm(ResourceTeams, ActionUpdate),
		Perm(ResourceTeams, ActionDelete), Perm(ResourceTeams, ActionRestore),
		Perm(ResourceTeams, ActionForceDelete),

		Perm(ResourceInvitations, ActionViewAny), Perm(ResourceInvitations, ActionView),
		Perm(ResourceInvitations, ActionCreate), Perm(ResourceInvitations, ActionUpdate),
		Perm(ResourceInvitations, ActionDelete), Perm(ResourceInvitations, ActionRestore),
		Perm(ResourceInvitations, ActionForceDelete),

		Perm(ResourceRoles, ActionViewAny), Perm(ResourceRoles, ActionView),
		Perm(ResourceRoles, ActionCreate), Perm(ResourceRoles, ActionUpdate),
		Perm(ResourceRoles, ActionDelete), Perm(ResourceRoles, ActionRestore),
		Perm(ResourceRoles, ActionForceDelete),

		Perm(ResourcePermissions, ActionViewAny), Perm(ResourcePermissions, ActionView),
		Perm(ResourcePermissions, ActionCreate), Perm(ResourcePermissions, ActionUpdate),
		Perm(ResourcePermissions, ActionDelete), Perm(ResourcePermissions, ActionRestore),
		Perm(ResourcePermissions, ActionForceDelete),
	},
	RoleOwner: {
		Perm(ResourceOrganizations, ActionView), Perm(ResourceOrganizations, ActionCreate),
		Perm(ResourceOrganizations, ActionUpdate), Perm(ResourceOrganizations, ActionDelete),

		Perm(ResourceUsers, ActionViewAny), Perm(ResourceUsers, ActionView),
		Perm(ResourceUsers, ActionCreate), Perm(ResourceUsers, ActionUpdate),
		Perm(ResourceUsers, ActionDelete), Perm(ResourceUsers, ActionRestore),
		Perm(ResourceUsers, ActionForceDelete),

		Perm(ResourceTeams, ActionViewAny), Perm(ResourceTeams, ActionView),
		Perm(ResourceTeams, ActionCreate), Perm(ResourceTeams, ActionUpdate),
		Perm(ResourceTeams, ActionDelete), Perm(ResourceTeams, ActionRestore),
		Perm(ResourceTeams, ActionForceDelete),

		Perm(ResourceInvitations, ActionViewAny), Perm(ResourceInvitations, ActionView),
		Perm(ResourceInvitations, ActionCreate), Perm(ResourceInvitations, ActionUpdate),
		Perm(ResourceInvitations, ActionDelete), Perm(ResourceInvitations, ActionRestore),
		Perm(ResourceInvitations, ActionForceDelete),

		Perm(ResourceRoles, ActionViewAny), Perm(ResourceRoles, ActionView),
		Perm(ResourceRoles, ActionCreate), Perm(ResourceRoles, ActionUpdate),
		Perm(ResourceRoles, ActionDelete), Perm(ResourceRoles, ActionRestore),
		Perm(ResourceRoles, ActionForceDelete),

		Perm(ResourcePermissions, ActionViewAny), Perm(ResourcePermissions, ActionView),
	},
	RoleManager: {
		Perm(ResourceOrganizations, ActionView), Perm(ResourceOrganizations, ActionUpdate),

		Perm(ResourceUsers, ActionViewAny), Perm(ResourceUsers, ActionView),

		Perm(ResourceTeams, ActionViewAny), Perm(ResourceTeams, ActionView),
		Perm(ResourceTeams, ActionCreate), Perm(ResourceTeams, ActionUpdate),
		Perm(ResourceTeams, ActionDelete),

		Perm(ResourceInvitations, ActionViewAny), Perm(ResourceInvitations, ActionView),
		Perm(ResourceInvitations, ActionCreate), Perm(ResourceInvitations, ActionUpdate),
		Perm(ResourceInvitations, ActionDelete),
	},
	RoleStaff: {
		Perm(ResourceUsers, ActionView), Perm(ResourceUsers, ActionUpdate),
		Perm(ResourceTeams, ActionView),
	},
	RoleCustomer: {
		Perm(ResourceUsers, ActionView), Perm(ResourceUsers, ActionUpdate),
	},
}

// AllPermissionNames returns the deduplicated permission catalog implied by
// the default mapping, used to seed the global permissions table.
func AllPermissionNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, role := range DefaultRoles {
		for _, p := range DefaultRolePermissions[role] {
			if _, ok := seen[string(p)]; ok {
				continue
			}
			seen[string(p)] = struct{}{}
			names = append(names, string(p))
		}
	}
	return names
}
