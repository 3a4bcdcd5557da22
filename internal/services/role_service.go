package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mizusato/orghub/internal/authz"
	"github.com/mizusato/orghub/internal/events"
	"github.com/mizusato/orghub/internal/models"
	"github.com/mizusato/orghub/internal/repository"
	"github.com/mizusato/orghub/internal/utils"
)

var (
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleOrganizationMismatch flags an attempt to bind a role from one
	// organization while acting in another. This is a programming or data
	// integrity bug, never a user-input condition.
	ErrRoleOrganizationMismatch = errors.New("role belongs to a different organization")
)

// RoleService manages organization-scoped role bindings and the per-tenant
// default role set.
type RoleService struct {
	roleRepo repository.RoleRepository
	events   events.Publisher
}

// NewRoleService creates a new RoleService.
func NewRoleService(roleRepo repository.RoleRepository, publisher events.Publisher) *RoleService {
	return &RoleService{roleRepo: roleRepo, events: publisher}
}

// AssignRole binds the role to the user within the organization. The binding
// carries the organization ID of the granting context, and that context must
// match the role's own organization.
func (s *RoleService) AssignRole(ctx context.Context, userID, roleID, organizationID uint64) error {
	role, err := s.roleRepo.FindByID(roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to find role: %w", err)
	}

	if role.OrganizationID != organizationID {
		return ErrRoleOrganizationMismatch
	}

	if err := s.roleRepo.Bind(userID, roleID, organizationID); err != nil {
		return fmt.Errorf("failed to bind role: %w", err)
	}

	if s.events != nil {
		_ = s.events.Publish(ctx, events.RolesAssignedToUser{
			UserID:         userID,
			OrganizationID: organizationID,
			RoleIDs:        []uint64{roleID},
		})
	}

	return nil
}

// RevokeRole removes the binding for (user, role) within the organization.
func (s *RoleService) RevokeRole(userID, roleID, organizationID uint64) error {
	if err := s.roleRepo.Unbind(userID, roleID, organizationID); err != nil {
		return fmt.Errorf("failed to unbind role: %w", err)
	}
	return nil
}

// ListRoles returns the organization's roles.
func (s *RoleService) ListRoles(organizationID uint64) ([]models.Role, error) {
	roles, err := s.roleRepo.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// RolesFor returns the roles the user holds within the organization.
func (s *RoleService) RolesFor(userID, organizationID uint64) ([]models.Role, error) {
	roles, err := s.roleRepo.RolesForUser(userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// SeedPermissions materializes the global permission catalog. Permissions are
// shared by all tenants and seeded once; re-running changes nothing.
func (s *RoleService) SeedPermissions() error {
	for _, name := range authz.AllPermissionNames() {
		if _, err := s.roleRepo.EnsurePermission(name, ""); err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", name, err)
		}
	}
	return nil
}

// SeedOrganizationRoles materializes the default role set for one
// organization from the static role→permission mapping. Idempotent: existing
// roles are matched by (organization_id, slug) and reused, and permissions
// already attached are left alone.
func (s *RoleService) SeedOrganizationRoles(org *models.Organization) error {
	for _, roleSlug := range authz.DefaultRoles {
		role := &models.Role{
			OrganizationID: org.ID,
			Name:           strings.ToUpper(roleSlug[:1]) + roleSlug[1:],
			Slug:           utils.Slugify(roleSlug),
			Description:    fmt.Sprintf("Default %s role for %s", roleSlug, org.Name),
		}
		if err := s.roleRepo.FirstOrCreate(role); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", roleSlug, err)
		}

		for _, permName := range authz.DefaultRolePermissions[roleSlug] {
			perm, err := s.roleRepo.FindPermissionByName(string(permName))
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Catalog not seeded for this name; skip rather than fail
					// the whole seeding pass.
					continue
				}
				return fmt.Errorf("failed to look up permission %s: %w", permName, err)
			}
			if err := s.roleRepo.AttachPermission(role.ID, perm.ID); err != nil {
				return fmt.Errorf("failed to attach permission %s: %w", permName, err)
			}
		}
	}
	return nil
}
