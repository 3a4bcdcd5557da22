package repository

import (
	"github.com/mizusato/orghub/internal/models"
	"github.com/mizusato/orghub/internal/utils"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// FindBySlug finds an organization by its subdomain slug
	FindBySlug(slug string) (*models.Organization, error)

	// Update updates an organization; the slug column is never touched
	Update(org *models.Organization) error

	// SoftDelete soft-deletes an organization and its tenant-owned rows
	SoftDelete(id uint64) error

	// HasRoles reports whether any roles exist for the organization
	HasRoles(organizationID uint64) (bool, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// SetCurrentOrganization points the user at the given organization
	SetCurrentOrganization(userID, organizationID uint64) error
}

// MembershipRepository manages the User×Organization join rows
type MembershipRepository interface {
	// Add inserts a membership row
	Add(member *models.Membership) error

	// Find returns the membership for (organization, user)
	Find(organizationID, userID uint64) (*models.Membership, error)

	// Remove deletes the membership for (organization, user)
	Remove(organizationID, userID uint64) error

	// ListByUser lists a user's memberships with organizations preloaded
	ListByUser(userID uint64) ([]models.Membership, error)

	// ListByOrganization lists an organization's members with users preloaded
	ListByOrganization(organizationID uint64) ([]models.Membership, error)

	// CountByUser counts how many organizations the user belongs to
	CountByUser(userID uint64) (int64, error)

	// SetDefault marks the membership as the user's default and clears the
	// flag everywhere else, in one transaction
	SetDefault(userID, organizationID uint64) error
}

// RoleRepository covers roles, the global permission catalog, and
// user-role bindings
type RoleRepository interface {
	// FindByID finds a role by ID
	FindByID(id uint64) (*models.Role, error)

	// FindByNameOrSlug resolves a role within an organization by name or slug
	FindByNameOrSlug(organizationID uint64, nameOrSlug string) (*models.Role, error)

	// ListByOrganization lists an organization's roles
	ListByOrganization(organizationID uint64) ([]models.Role, error)

	// FirstOrCreate finds a role by (organization_id, slug) or inserts it
	FirstOrCreate(role *models.Role) error

	// FindPermissionByName finds a global permission by exact name
	FindPermissionByName(name string) (*models.Permission, error)

	// EnsurePermission inserts a permission unless it already exists
	EnsurePermission(name, description string) (*models.Permission, error)

	// AttachPermission links a permission to a role, skipping duplicates
	AttachPermission(roleID, permissionID uint64) error

	// Bind grants the role to the user within the organization, skipping
	// duplicates
	Bind(userID, roleID, organizationID uint64) error

	// Unbind revokes the role from the user within the organization
	Unbind(userID, roleID, organizationID uint64) error

	// RolesForUser lists the roles bound to the user in the organization
	RolesForUser(userID, organizationID uint64) ([]models.Role, error)

	// UserHasPermission reports whether any role bound to the user in the
	// organization carries one of the given permission names
	UserHasPermission(userID, organizationID uint64, permissionNames []string) (bool, error)

	// UserHasRoleAnywhere reports whether the user holds a role with the
	// given name in any organization
	UserHasRoleAnywhere(userID uint64, roleName string) (bool, error)
}

// InvitationFilter narrows invitation listings
type InvitationFilter struct {
	Status models.InvitationStatus
	Email  string
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Issue revokes any pending invitation for (organization, email) and
	// inserts the new pending row, atomically
	Issue(inv *models.Invitation) error

	// FindByID finds an invitation by ID scoped to the organization
	FindByID(organizationID, id uint64) (*models.Invitation, error)

	// FindByTokenHash finds an invitation by token hash without tenant
	// scoping; the token itself identifies the organization
	FindByTokenHash(hash string) (*models.Invitation, error)

	// List lists an organization's invitations with filtering and pagination
	List(organizationID uint64, filter InvitationFilter, page utils.PaginationParams) ([]models.Invitation, int64, error)

	// UpdateStatus persists a status transition
	UpdateStatus(inv *models.Invitation) error

	// Accept applies the acceptance steps in one transaction: membership
	// create-if-absent, default organization bookkeeping, role bindings, and
	// the status flip. Returns whether the user is a new member and the role
	// IDs actually bound.
	Accept(inv *models.Invitation, user *models.User, roles []models.Role) (newMember bool, boundRoleIDs []uint64, err error)

	// ExpireLapsed bulk-marks pending invitations past their deadline as
	// expired, returning the number of rows changed
	ExpireLapsed() (int64, error)
}
