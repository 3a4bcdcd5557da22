package main

import (
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mizusato/orghub/internal/authz"
	"github.com/mizusato/orghub/internal/config"
	"github.com/mizusato/orghub/internal/constants"
	"github.com/mizusato/orghub/internal/database"
	"github.com/mizusato/orghub/internal/events"
	"github.com/mizusato/orghub/internal/handlers"
	"github.com/mizusato/orghub/internal/middleware"
	"github.com/mizusato/orghub/internal/repository"
	"github.com/mizusato/orghub/internal/services"
	"github.com/mizusato/orghub/internal/tenant"
	"github.com/mizusato/orghub/pkg/queue"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if cfg.GinMode != "release" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	jobQueue := queue.NewQueue(redisClient, logger)
	publisher := events.NewQueuePublisher(jobQueue, logger)

	db := database.GetDB()

	// Repositories
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	invRepo := repository.NewInvitationRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	authzService := services.NewAuthzService(roleRepo)
	roleService := services.NewRoleService(roleRepo, publisher)
	memberService := services.NewMembershipService(memberRepo, userRepo, publisher)
	onboardingService := services.NewOnboardingService(db, publisher)
	orgService := services.NewOrganizationService(orgRepo, onboardingService)
	invService := services.NewInvitationService(invRepo, orgRepo, roleRepo, userRepo, publisher, cfg.InvitationTTLDays)

	// Tenant resolution with a redis-backed slug cache
	slugCache := tenant.NewRedisSlugCache(redisClient)
	resolver := tenant.NewResolver(db, slugCache, cfg.MainDomain)

	r := gin.Default()

	store, err := redisStore.NewStore(
		10,
		"tcp",
		cfg.RedisAddr,
		"",
		cfg.RedisPassword,
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logger.Fatal("failed to create redis store", zap.Error(err))
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Every request carries a tenant context, resolved or not. Routes that
	// need one add RequireTenant.
	r.Use(tenant.ResolveTenant(resolver))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService, memberService)
	invHandler := handlers.NewInvitationHandler(invService)
	roleHandler := handlers.NewRoleHandler(roleService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Organization registration and the user's own list; neither needs a
		// resolved tenant.
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth())
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListMyOrganizations)
		}

		// Invitation lookup and acceptance go by token, not subdomain; the
		// invitee is not a member of the tenant yet.
		invitations := api.Group("/invitations")
		{
			invitations.GET("/:token", invHandler.LookupInvitation)
			invitations.POST("/accept", middleware.RequireAuth(), invHandler.AcceptInvitation)
		}

		// Tenant-scoped routes, addressed via the organization subdomain.
		org := api.Group("/org")
		org.Use(tenant.RequireTenant(), middleware.RequireAuth())
		{
			org.GET("", middleware.RequireMembership(memberService), orgHandler.GetOrganization)
			org.PUT("",
				middleware.RequirePermission(authzService, authz.Perm(authz.ResourceOrganizations, authz.ActionUpdate)),
				orgHandler.UpdateOrganization)
			org.DELETE("",
				middleware.RequirePermission(authzService, authz.Perm(authz.ResourceOrganizations, authz.ActionDelete)),
				orgHandler.DeleteOrganization)
			org.POST("/default", middleware.RequireMembership(memberService), orgHandler.SetDefaultOrganization)

			org.GET("/members",
				middleware.RequirePermission(authzService, authz.Perm(authz.ResourceUsers, authz.ActionViewAny)),
				orgHandler.ListMembers)
			org.DELETE("/members/:user_id",
				middleware.RequirePermission(authzService, authz.Perm(authz.ResourceUsers, authz.ActionDelete)),
				orgHandler.RemoveMember)

			org.POST("/invitations",
				middleware.RequirePermission(authzService, authz.Perm(authz.ResourceInvitations, authz.ActionCreate)),
				invHandler.CreateInvitation)
			org.GET("/invitations",
				middleware.RequirePermission(authzService, authz.Perm(authz.ResourceInvitations, authz.ActionViewAny)),
				invHandler.ListInvitations)
			org.POST("/invitations/:id/revoke",
				middleware.RequirePermission(authzService, authz.Perm(authz.ResourceInvitations, authz.ActionDelete)),
				invHandler.RevokeInvitation)

			org.GET("/roles",
				middleware.RequirePermission(authzService, authz.Perm(authz.ResourceRoles, authz.ActionViewAny)),
				roleHandler.ListRoles)
			org.GET("/users/:user_id/roles",
				middleware.RequirePermission(authzService, authz.Perm(authz.ResourceRoles, authz.ActionViewAny)),
				roleHandler.ListUserRoles)
			org.POST("/users/:user_id/roles",
				middleware.RequirePermission(authzService, authz.Perm(authz.ResourceRoles, authz.ActionUpdate)),
				roleHandler.AssignRole)
			org.DELETE("/users/:user_id/roles/:role_id",
				middleware.RequirePermission(authzService, authz.Perm(authz.ResourceRoles, authz.ActionUpdate)),
				roleHandler.RevokeRole)
		}
	}

	logger.Info("server starting", zap.String("addr", ":8080"))
	if err := r.Run(":8080"); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
