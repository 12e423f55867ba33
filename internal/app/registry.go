package app

import (
	"database/sql"
	"os"

	"go-saas/internal/aggregator"
	"go-saas/internal/auth"
	"go-saas/internal/authz"
	"go-saas/internal/file"
	"go-saas/internal/invitation"
	"go-saas/internal/mailer"
	"go-saas/internal/messaging/kafka"
	"go-saas/internal/middleware"
	"go-saas/internal/passwordreset"
	"go-saas/internal/provisioner"
	"go-saas/internal/registry"
	"go-saas/internal/resolver"
	"go-saas/internal/shared/counter"
	"go-saas/internal/signup"
	"go-saas/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	registryRepo := registry.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	sessionRepo := auth.NewSessionRepository(gormDB)
	invitationRepo := invitation.NewRepository(gormDB)
	resetRepo := passwordreset.NewRepository(gormDB)
	fileRepo := file.NewRepository(gormDB)
	usageRepo := aggregator.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Core ---
	roles, err := authz.NewRoleHierarchy()
	if err != nil {
		return err
	}
	issuer := auth.NewIssuer([]byte(os.Getenv("JWT_SECRET")), roles)
	authMW := middleware.AuthMiddleware(issuer)
	prober := resolver.NewProber(gormDB)
	sender := mailer.NewLogSender()

	// --- Services ---
	registryService := registry.NewService(registryRepo)
	resolverService := resolver.NewService(registryRepo, prober)
	aggregatorService := aggregator.NewService(usageRepo, registryRepo, outboxRepo, rdb)
	authService := auth.NewService(issuer, roles, sessionRepo, userRepo, registryRepo, resolverService)
	userService := user.NewService(userRepo, resolverService, aggregatorService)
	invitationService := invitation.NewService(
		invitationRepo, userRepo, registryRepo, resolverService,
		authService, aggregatorService, sender,
	)
	resetService := passwordreset.NewService(resetRepo, userRepo, resolverService, sessionRepo, sender)
	fileService := file.NewService(fileRepo, aggregatorService)
	cloner := provisioner.NewCloner(gormDB)
	provisionerService := provisioner.NewService(registryRepo, userRepo, cloner, aggregatorService)
	signupService := signup.NewService(provisionerService, counterRepo, authService, sender)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	companyHandler := registry.NewHandler(registryService)
	userHandler := user.NewHandler(userService)
	invitationHandler := invitation.NewHandler(invitationService)
	resetHandler := passwordreset.NewHandler(resetService)
	fileHandler := file.NewHandler(fileService)
	usageHandler := aggregator.NewHandler(aggregatorService)
	signupHandler := signup.NewHandler(signupService)

	router.Use(middleware.ContextLogger(zap.L()))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMW)
		signup.RegisterRoutes(api, signupHandler, rdb)
		registry.RegisterRoutes(api, companyHandler, roles, authMW)
		user.RegisterRoutes(api, userHandler, roles, authMW)
		invitation.RegisterRoutes(api, invitationHandler, roles, authMW)
		passwordreset.RegisterRoutes(api, resetHandler)
		file.RegisterRoutes(api, fileHandler, authMW)
		aggregator.RegisterRoutes(api, usageHandler, roles, authMW)
	}

	return nil
}
