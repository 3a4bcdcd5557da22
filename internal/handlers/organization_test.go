package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mizusato/orghub/internal/database"
	"github.com/mizusato/orghub/internal/dto"
	"github.com/mizusato/orghub/internal/models"
	"github.com/mizusato/orghub/internal/repository"
	"github.com/mizusato/orghub/internal/services"
	"github.com/mizusato/orghub/internal/tenant"
)

// OrganizationHandlerTestSuite defines the test suite for OrganizationHandler
type OrganizationHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *OrganizationHandler
}

// SetupTest runs before each test
func (suite *OrganizationHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Membership{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.RoleBinding{},
		&models.Invitation{},
		&models.Team{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	orgRepo := repository.NewOrganizationRepository(suite.db)
	memberRepo := repository.NewMembershipRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)

	onboarding := services.NewOnboardingService(suite.db, nil)
	orgService := services.NewOrganizationService(orgRepo, onboarding)
	memberService := services.NewMembershipService(memberRepo, userRepo, nil)

	suite.handler = NewOrganizationHandler(orgService, memberService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *OrganizationHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *OrganizationHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		UID:          email,
		Email:        email,
		FirstName:    "Test",
		PasswordHash: "hashedpassword",
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *OrganizationHandlerTestSuite) createTestOrganization(name, slug string) *models.Organization {
	org := &models.Organization{Name: name, Slug: slug}
	suite.Require().NoError(suite.db.Create(org).Error)
	return org
}

func (suite *OrganizationHandlerTestSuite) addMember(orgID, userID uint64, isDefault bool) {
	suite.Require().NoError(suite.db.Create(&models.Membership{
		OrganizationID: orgID,
		UserID:         userID,
		IsDefault:      isDefault,
	}).Error)
}

func (suite *OrganizationHandlerTestSuite) serveJSON(r *gin.Engine, method, url string, payload any) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (suite *OrganizationHandlerTestSuite) TestCreateOrganization() {
	creator := suite.createTestUser("founder@example.com")

	r := gin.New()
	r.POST("/api/organizations", asUser(creator.ID, tenant.Context{}), suite.handler.CreateOrganization)

	w := suite.serveJSON(r, http.MethodPost, "/api/organizations", map[string]string{
		"name":        "Acme Corp",
		"owner_email": "founder@example.com",
		"owner_name":  "Ada Lovelace",
	})

	suite.Equal(http.StatusCreated, w.Code)

	var created dto.OrganizationDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.Equal("Acme Corp", created.Name)
	suite.Equal("acme-corp", created.Slug)

	// Onboarding attached the owner as a default member with seeded roles.
	var member models.Membership
	suite.Require().NoError(suite.db.Where("organization_id = ?", created.ID).First(&member).Error)
	suite.True(member.IsDefault)

	var roleCount int64
	suite.Require().NoError(suite.db.Model(&models.Role{}).
		Where("organization_id = ?", created.ID).Count(&roleCount).Error)
	suite.NotZero(roleCount)
}

func (suite *OrganizationHandlerTestSuite) TestCreateOrganization_DuplicateSlug() {
	creator := suite.createTestUser("founder@example.com")
	suite.createTestOrganization("Acme", "acme")

	r := gin.New()
	r.POST("/api/organizations", asUser(creator.ID, tenant.Context{}), suite.handler.CreateOrganization)

	w := suite.serveJSON(r, http.MethodPost, "/api/organizations", map[string]string{
		"name":        "Another Acme",
		"slug":        "acme",
		"owner_email": "founder@example.com",
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *OrganizationHandlerTestSuite) TestGetOrganization() {
	org := suite.createTestOrganization("Acme", "acme")
	user := suite.createTestUser("member@example.com")
	suite.addMember(org.ID, user.ID, true)
	tc := tenant.Context{OrganizationID: org.ID, Slug: org.Slug}

	r := gin.New()
	r.GET("/api/org", asUser(user.ID, tc), suite.handler.GetOrganization)

	w := suite.serveJSON(r, http.MethodGet, "/api/org", nil)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.OrganizationDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(org.ID, got.ID)
	suite.Equal("acme", got.Slug)
}

func (suite *OrganizationHandlerTestSuite) TestUpdateOrganization_SlugStaysPut() {
	org := suite.createTestOrganization("Acme", "acme")
	user := suite.createTestUser("admin@example.com")
	tc := tenant.Context{OrganizationID: org.ID, Slug: org.Slug}

	r := gin.New()
	r.PUT("/api/org", asUser(user.ID, tc), suite.handler.UpdateOrganization)

	w := suite.serveJSON(r, http.MethodPut, "/api/org", map[string]string{
		"name":  "Acme Renamed",
		"email": "hello@acme.example",
	})

	suite.Equal(http.StatusOK, w.Code)

	var updated models.Organization
	suite.Require().NoError(suite.db.First(&updated, org.ID).Error)
	suite.Equal("Acme Renamed", updated.Name)
	suite.Equal("hello@acme.example", updated.Email)
	suite.Equal("acme", updated.Slug)
}

func (suite *OrganizationHandlerTestSuite) TestListMyOrganizations() {
	user := suite.createTestUser("member@example.com")
	first := suite.createTestOrganization("First", "first")
	second := suite.createTestOrganization("Second", "second")
	suite.addMember(first.ID, user.ID, true)
	suite.addMember(second.ID, user.ID, false)

	r := gin.New()
	r.GET("/api/organizations", asUser(user.ID, tenant.Context{}), suite.handler.ListMyOrganizations)

	w := suite.serveJSON(r, http.MethodGet, "/api/organizations", nil)

	suite.Equal(http.StatusOK, w.Code)
	var response struct {
		Organizations []dto.OrganizationWithDefaultDTO `json:"organizations"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Len(response.Organizations, 2)

	defaults := 0
	for _, o := range response.Organizations {
		if o.IsDefault {
			defaults++
			suite.Equal(first.ID, o.ID)
		}
	}
	suite.Equal(1, defaults)
}

func (suite *OrganizationHandlerTestSuite) TestSetDefaultOrganization_NotAMember() {
	user := suite.createTestUser("outsider@example.com")
	org := suite.createTestOrganization("Acme", "acme")
	tc := tenant.Context{OrganizationID: org.ID, Slug: org.Slug}

	r := gin.New()
	r.POST("/api/org/default", asUser(user.ID, tc), suite.handler.SetDefaultOrganization)

	w := suite.serveJSON(r, http.MethodPost, "/api/org/default", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *OrganizationHandlerTestSuite) TestRemoveMember() {
	org := suite.createTestOrganization("Acme", "acme")
	admin := suite.createTestUser("admin@example.com")
	target := suite.createTestUser("target@example.com")
	suite.addMember(org.ID, admin.ID, true)
	suite.addMember(org.ID, target.ID, false)
	tc := tenant.Context{OrganizationID: org.ID, Slug: org.Slug}

	r := gin.New()
	r.DELETE("/api/org/members/:user_id", asUser(admin.ID, tc), suite.handler.RemoveMember)

	w := suite.serveJSON(r, http.MethodDelete, "/api/org/members/"+strconv.FormatUint(target.ID, 10), nil)
	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Membership{}).
		Where("organization_id = ? AND user_id = ?", org.ID, target.ID).Count(&count).Error)
	suite.Zero(count)
}

func (suite *OrganizationHandlerTestSuite) TestRemoveMember_Self() {
	org := suite.createTestOrganization("Acme", "acme")
	admin := suite.createTestUser("admin@example.com")
	suite.addMember(org.ID, admin.ID, true)
	tc := tenant.Context{OrganizationID: org.ID, Slug: org.Slug}

	r := gin.New()
	r.DELETE("/api/org/members/:user_id", asUser(admin.ID, tc), suite.handler.RemoveMember)

	w := suite.serveJSON(r, http.MethodDelete, "/api/org/members/"+strconv.FormatUint(admin.ID, 10), nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

// TestOrganizationHandlerTestSuite runs the test suite
func TestOrganizationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationHandlerTestSuite))
}
