package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mizusato/orghub/internal/models"
	"github.com/mizusato/orghub/internal/repository"
	"github.com/mizusato/orghub/internal/utils"
)

var (
	ErrOrganizationNotFound    = errors.New("organization not found")
	ErrInvalidOrganizationName = errors.New("organization name cannot be empty")
	// ErrSlugTaken means the derived or requested subdomain slug is already
	// registered to another organization.
	ErrSlugTaken = errors.New("organization slug is already taken")
)

// OrganizationService handles organization lifecycle operations.
type OrganizationService struct {
	orgRepo    repository.OrganizationRepository
	onboarding *OnboardingService
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository, onboarding *OnboardingService) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo, onboarding: onboarding}
}

// CreateInput represents parameters to create an organization.
type CreateInput struct {
	Name string
	// Slug is optional; when empty it is derived from the name. Once stored
	// it never changes, because it doubles as the subdomain key.
	Slug       string
	Email      string
	Phone      string
	Website    string
	OwnerName  string
	OwnerEmail string
	OwnerPhone string
}

// Create registers a new organization and runs onboarding: default roles,
// the owner account, and the owner's membership and role binding.
func (s *OrganizationService) Create(ctx context.Context, input CreateInput) (*models.Organization, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidOrganizationName
	}

	slug := utils.Slugify(input.Slug)
	if slug == "" {
		slug = utils.Slugify(name)
	}
	if slug == "" {
		return nil, ErrInvalidOrganizationName
	}

	if _, err := s.orgRepo.FindBySlug(slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}

	org := &models.Organization{
		Name:       name,
		Slug:       slug,
		Email:      strings.TrimSpace(input.Email),
		Phone:      strings.TrimSpace(input.Phone),
		Website:    strings.TrimSpace(input.Website),
		OwnerName:  strings.TrimSpace(input.OwnerName),
		OwnerEmail: strings.ToLower(strings.TrimSpace(input.OwnerEmail)),
		OwnerPhone: strings.TrimSpace(input.OwnerPhone),
	}

	if err := s.orgRepo.Create(org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	if s.onboarding != nil {
		if err := s.onboarding.Onboard(ctx, org.ID, OwnerData{}); err != nil {
			// The organization row exists; onboarding can be retried. Surface
			// the failure so the caller knows setup is incomplete.
			return org, fmt.Errorf("organization created but onboarding failed: %w", err)
		}
	}

	return org, nil
}

// Get retrieves an organization by ID.
func (s *OrganizationService) Get(id uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// GetBySlug retrieves an organization by its subdomain slug.
func (s *OrganizationService) GetBySlug(slug string) (*models.Organization, error) {
	org, err := s.orgRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// UpdateInput represents updatable organization fields. Nil pointers leave
// the field unchanged. The slug is deliberately absent.
type UpdateInput struct {
	Name       *string
	Email      *string
	Phone      *string
	Website    *string
	OwnerName  *string
	OwnerEmail *string
	OwnerPhone *string
}

// Update modifies an organization's name and contact details.
func (s *OrganizationService) Update(id uint64, input UpdateInput) (*models.Organization, error) {
	org, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidOrganizationName
		}
		org.Name = name
	}
	if input.Email != nil {
		org.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		org.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Website != nil {
		org.Website = strings.TrimSpace(*input.Website)
	}
	if input.OwnerName != nil {
		org.OwnerName = strings.TrimSpace(*input.OwnerName)
	}
	if input.OwnerEmail != nil {
		org.OwnerEmail = strings.ToLower(strings.TrimSpace(*input.OwnerEmail))
	}
	if input.OwnerPhone != nil {
		org.OwnerPhone = strings.TrimSpace(*input.OwnerPhone)
	}

	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

// Delete soft-deletes the organization together with its tenant-owned rows.
func (s *OrganizationService) Delete(id uint64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.orgRepo.SoftDelete(id); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	return nil
}
