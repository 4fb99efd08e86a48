// Package routes defines the API routing configuration.
// It wires repositories, services, and handlers in dependency order and
// registers all HTTP routes.
package routes

import (
	"custos/internal/config"
	"custos/internal/handlers"
	"custos/internal/middleware"
	"custos/internal/models"
	"custos/internal/repositories"
	"custos/internal/services/addressing"
	"custos/internal/services/auth"
	"custos/internal/services/kycdata"
	"custos/internal/services/offchain"
	"custos/internal/services/preapproval"
	"custos/internal/services/signer"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes wires all services in initialization order: config first,
// then signer, codec, and provider, then the evaluator and engine. All
// HTTP routes are registered here.
func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Offchain) error {
	// Repositories
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	subAddressRepo := repositories.NewSubAddressRepository(db)
	commandRepo := repositories.NewPaymentCommandRepository(db, repositories.CacheService)
	preApprovalRepo := repositories.NewPreApprovalRepository(db)

	// Core services, leaves first
	complianceSigner, err := signer.NewService(cfg.CompliancePrivateKey)
	if err != nil {
		return err
	}
	codec := addressing.NewCodec(cfg.HRP)
	addressService := addressing.NewService(subAddressRepo, codec, cfg.VaspAddress)
	kycProvider := kycdata.NewProvider(userRepo)

	evaluator := offchain.NewEvaluator(codec, subAddressRepo, kycProvider, complianceSigner)
	commandStore := offchain.NewCommandStore(commandRepo, subAddressRepo, codec)
	engine := offchain.NewLocalEngine(evaluator, commandStore, codec, cfg.VaspAddress)
	dispatch := offchain.NewDispatch(engine)

	preApprovalService := preapproval.NewService(preApprovalRepo, addressService, repositories.CacheService)
	authService := auth.NewService(userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	offchainHandler := handlers.NewOffchainHandler(dispatch, commandRepo, addressService)
	preApprovalHandler := handlers.NewPreApprovalHandler(preApprovalService)

	// VASP-to-VASP endpoint, no user auth
	app.Post("/offchain/v2/command", offchainHandler.HandleInboundCommand)

	app.Get("/health", handlers.HealthCheck)

	// Public user endpoints
	api := app.Group("/api")
	api.Post("/register", authHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)

	// Protected user endpoints
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.LogoutUser)

	offchainGroup := protected.Group("/offchain")
	offchainGroup.Post("/account_identifier",
		middleware.HasPermission(models.PermissionAccountWrite), offchainHandler.CreateAccountIdentifier)
	offchainGroup.Get("/query/payment_command",
		middleware.HasPermission(models.PermissionCommandRead), offchainHandler.ListPaymentCommands)
	offchainGroup.Get("/query/payment_command/:reference_id",
		middleware.HasPermission(models.PermissionCommandRead), offchainHandler.GetPaymentCommand)

	approvals := offchainGroup.Group("/funds_pull_pre_approvals")
	approvals.Get("/",
		middleware.HasPermission(models.PermissionPreApprovalRead), preApprovalHandler.ListPreApprovals)
	approvals.Post("/",
		middleware.HasPermission(models.PermissionPreApprovalWrite), preApprovalHandler.CreateAndApprovePreApproval)
	approvals.Put("/:funds_pull_pre_approval_id",
		middleware.HasPermission(models.PermissionPreApprovalWrite), preApprovalHandler.UpdatePreApprovalStatus)

	return nil
}
