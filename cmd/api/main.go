package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gadget-prima-pos/internal/checkout"
	"gadget-prima-pos/internal/config"
	"gadget-prima-pos/internal/handler"
	"gadget-prima-pos/internal/middleware"
	"gadget-prima-pos/internal/model"
	"gadget-prima-pos/internal/pricing"
	"gadget-prima-pos/internal/repository"
	"gadget-prima-pos/internal/service"
	"gadget-prima-pos/internal/ws"
	"gadget-prima-pos/pkg/database"
	"gadget-prima-pos/pkg/jwt"
	"gadget-prima-pos/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zlog := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer zlog.Sync()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(
		&model.Category{}, &model.Brand{}, &model.Product{},
		&model.Transaction{}, &model.TransactionItem{},
		&model.StockHistory{}, &model.Expense{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 3. Seed default privileges, roles, categories, and admin user
	seedDefaults(db, zlog)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(zlog)
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	brandRepo := repository.NewBrandRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	historyRepo := repository.NewStockHistoryRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	tokens := jwt.NewManager(cfg.JWT)
	engine := pricing.NewEngine(cfg.Business)
	sessions := checkout.NewSessionStore(cfg.Checkout.SessionTTL, zlog)

	checkoutService := checkout.NewService(db, productRepo, txRepo, historyRepo, sessions, engine, wsHub, zlog, cfg.Checkout)
	catalogService := service.NewCatalogService(db, productRepo, categoryRepo, historyRepo, wsHub)
	reportService := service.NewReportService(txRepo, expenseRepo, engine)
	dashService := service.NewDashboardService(txRepo, productRepo)
	authService := service.NewAuthService(userRepo, tokens, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	expenseService := service.NewExpenseService(expenseRepo)

	productHandler := handler.NewProductHandler(catalogService, cfg.Upload)
	masterdataHandler := handler.NewMasterdataHandler(categoryRepo, brandRepo)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, cfg.Checkout)
	txHandler := handler.NewTransactionHandler(txRepo, checkoutService)
	reportHandler := handler.NewReportHandler(reportService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)
	expenseHandler := handler.NewExpenseHandler(expenseService)

	// 6. Background workers: idle-cart janitor and QRIS expirer
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	go sessions.RunJanitor(workerCtx, cfg.Checkout.JanitorInterval)
	go checkoutService.RunExpirer(workerCtx)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// Product images
	app.Static("/uploads", cfg.Upload.Dir)

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo, tokens), authHandler.Heartbeat) // Heartbeat uses Auth but available to all authenticated

	// Payment gateway callback (shared-secret header, no JWT)
	api.Post("/payments/qris/callback", checkoutHandler.QRISCallback)

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo, tokens))

	// Dashboard Routes (authenticated users can view)
	protected.Get("/dashboard/stats", dashHandler.GetStats)
	protected.Get("/dashboard/revenue-series", dashHandler.GetRevenueSeries)
	protected.Get("/dashboard/hourly", dashHandler.GetHourlyRevenue)
	protected.Get("/dashboard/best-sellers", dashHandler.GetBestSellers)
	protected.Get("/dashboard/category-revenue", dashHandler.GetCategoryRevenue)
	protected.Get("/dashboard/payment-breakdown", dashHandler.GetPaymentBreakdown)
	protected.Get("/dashboard/recent-transactions", dashHandler.GetRecentTransactions)

	// Product Routes (with privilege checks)
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/generate-sku", middleware.RequirePrivilege("product:create"), productHandler.GenerateSKU)
	protected.Get("/products/price-from-margin", middleware.RequireAnyPrivilege("product:create", "product:update"), productHandler.PriceFromMargin)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Get("/products/:id/history", productHandler.GetStockHistory)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), productHandler.DeleteProduct)

	// Master Data Routes
	protected.Get("/categories", masterdataHandler.GetCategories)
	protected.Post("/categories", middleware.RequirePrivilege("masterdata:manage"), masterdataHandler.CreateCategory)
	protected.Put("/categories/:id", middleware.RequirePrivilege("masterdata:manage"), masterdataHandler.UpdateCategory)
	protected.Delete("/categories/:id", middleware.RequirePrivilege("masterdata:manage"), masterdataHandler.DeleteCategory)
	protected.Get("/brands", masterdataHandler.GetBrands)
	protected.Post("/brands", middleware.RequirePrivilege("masterdata:manage"), masterdataHandler.CreateBrand)
	protected.Put("/brands/:id", middleware.RequirePrivilege("masterdata:manage"), masterdataHandler.UpdateBrand)
	protected.Delete("/brands/:id", middleware.RequirePrivilege("masterdata:manage"), masterdataHandler.DeleteBrand)

	// Checkout Routes (register sessions)
	register := protected.Group("/checkout", middleware.RequirePrivilege("checkout:operate"))
	register.Post("/sessions", checkoutHandler.StartSession)
	register.Get("/sessions/:id", checkoutHandler.GetCart)
	register.Post("/sessions/:id/items", checkoutHandler.AddItem)
	register.Patch("/sessions/:id/items/:productId", checkoutHandler.UpdateQuantity)
	register.Delete("/sessions/:id/items/:productId", checkoutHandler.RemoveItem)
	register.Delete("/sessions/:id", checkoutHandler.ClearCart)
	register.Post("/sessions/:id/pay", checkoutHandler.Pay)
	register.Post("/sessions/:id/pay/qris", checkoutHandler.PayQRIS)

	// Transaction Routes (with privilege checks)
	protected.Get("/transactions", middleware.RequirePrivilege("transaction:view"), txHandler.GetTransactions)
	protected.Get("/transactions/:id", middleware.RequirePrivilege("transaction:view"), txHandler.GetTransaction)
	protected.Post("/transactions/:id/cancel", middleware.RequirePrivilege("transaction:cancel"), txHandler.CancelTransaction)

	// Expense Routes
	protected.Get("/expenses", middleware.RequirePrivilege("expense:view"), expenseHandler.GetExpenses)
	protected.Post("/expenses", middleware.RequirePrivilege("expense:manage"), expenseHandler.CreateExpense)
	protected.Put("/expenses/:id", middleware.RequirePrivilege("expense:manage"), expenseHandler.UpdateExpense)
	protected.Delete("/expenses/:id", middleware.RequirePrivilege("expense:manage"), expenseHandler.DeleteExpense)

	// Report Routes
	protected.Get("/reports/summary", middleware.RequirePrivilege("report:view"), reportHandler.GetSummary)
	protected.Get("/reports/export", middleware.RequirePrivilege("report:export"), reportHandler.ExportCSV)

	// User Management Routes (with privilege checks)
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges Route (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	stopWorkers()
	if err := app.Shutdown(); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exited")
}

// seedDefaults creates default privileges, roles, categories, and the
// admin user if they don't exist
func seedDefaults(db *gorm.DB, zlog *zap.Logger) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	userRepo := repository.NewUserRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		zlog.Warn("failed to seed privileges", zap.Error(err))
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		zlog.Warn("failed to seed roles", zap.Error(err))
	}

	// 3. Seed default product categories with their SKU prefixes
	if err := categoryRepo.SeedDefaults(); err != nil {
		zlog.Warn("failed to seed categories", zap.Error(err))
	}

	// 4. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// ADMIN gets everything
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		db.Model(&adminRole).Association("Privileges").Replace(allPrivileges)
		zlog.Info("role assigned all privileges", zap.String("role", model.RoleAdmin))
	}

	// The store roles get their fixed privilege sets
	for code, privilegeCodes := range model.RolePrivileges {
		role, err := roleRepo.FindByCode(code)
		if err != nil || len(role.Privileges) > 0 {
			continue
		}
		privileges, err := privilegeRepo.FindByCodes(privilegeCodes)
		if err != nil {
			zlog.Warn("failed to resolve role privileges", zap.String("role", code), zap.Error(err))
			continue
		}
		db.Model(&role).Association("Privileges").Replace(privileges)
		zlog.Info("role privileges seeded", zap.String("role", code))
	}

	// 5. Create default admin user
	if _, err := userRepo.FindByEmail("admin@gadgetprima.id"); err != nil {
		adminRole, _ := roleRepo.FindByCode(model.RoleAdmin)

		admin := &model.User{
			Email:      "admin@gadgetprima.id",
			FullName:   "Administrator",
			RoleID:     &adminRole.ID,
			IsActive:   true,
			Privileges: adminRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			zlog.Warn("failed to hash admin password", zap.Error(err))
			return
		}

		if err := userRepo.Create(admin); err != nil {
			zlog.Warn("failed to create admin user", zap.Error(err))
		} else {
			zlog.Info("admin user created", zap.String("email", admin.Email))
		}
	}
}
