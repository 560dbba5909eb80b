package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/repairpos/backend/internal/application/catalog"
	crmapp "github.com/repairpos/backend/internal/application/crm"
	diagnosticapp "github.com/repairpos/backend/internal/application/diagnostic"
	financeapp "github.com/repairpos/backend/internal/application/finance"
	gamificationapp "github.com/repairpos/backend/internal/application/gamification"
	identityapp "github.com/repairpos/backend/internal/application/identity"
	integrationapp "github.com/repairpos/backend/internal/application/integration"
	inventoryapp "github.com/repairpos/backend/internal/application/inventory"
	kanbanapp "github.com/repairpos/backend/internal/application/kanban"
	marketplaceapp "github.com/repairpos/backend/internal/application/marketplace"
	messagingapp "github.com/repairpos/backend/internal/application/messaging"
	repairapp "github.com/repairpos/backend/internal/application/repair"
	reportapp "github.com/repairpos/backend/internal/application/report"
	salesapp "github.com/repairpos/backend/internal/application/sales"
	"github.com/repairpos/backend/internal/infrastructure/auth"
	"github.com/repairpos/backend/internal/infrastructure/cache"
	"github.com/repairpos/backend/internal/infrastructure/config"
	"github.com/repairpos/backend/internal/infrastructure/event"
	"github.com/repairpos/backend/internal/infrastructure/integrations"
	"github.com/repairpos/backend/internal/infrastructure/logger"
	"github.com/repairpos/backend/internal/infrastructure/metrics"
	"github.com/repairpos/backend/internal/infrastructure/migration"
	"github.com/repairpos/backend/internal/infrastructure/persistence"
	"github.com/repairpos/backend/internal/infrastructure/printing"
	"github.com/repairpos/backend/internal/infrastructure/scheduler"
	"github.com/repairpos/backend/internal/infrastructure/storage"
	"github.com/repairpos/backend/internal/infrastructure/telemetry"
	"github.com/repairpos/backend/internal/interfaces/http/handler"
	"github.com/repairpos/backend/internal/interfaces/http/middleware"
	"github.com/repairpos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/repairpos/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			RepairPOS API
//	@version		1.0
//	@description	Point of sale and repair workbench for phone and electronics repair shops
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/repairpos/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting RepairPOS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled {
		err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
			Enabled:         cfg.Telemetry.DBTraceEnabled,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBName:          cfg.Database.DBName,
		}, log)
		if err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(db, cfg.Database.MigrationsPath, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	registry := metrics.NewRegistry(cfg.Metrics.Namespace)

	// Redis backs the token blacklist and the dashboard cache when enabled
	var (
		blacklist    auth.TokenBlacklist
		summaryCache reportapp.SummaryCache
	)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = client.Close() }()
		blacklist = auth.NewRedisTokenBlacklist(client)
		summaryCache = cache.NewRedisCache(client, "repairpos:")
	} else {
		memoryCache := cache.NewMemoryCache(time.Minute)
		defer func() { _ = memoryCache.Close() }()
		blacklist = auth.NewInMemoryTokenBlacklist()
		summaryCache = memoryCache
	}

	eventBus := event.NewInMemoryEventBus(log)
	txScope := persistence.NewGormTransactionScope(db.DB, registry.Business.DBOperationDuration)
	gateway := integrations.NewClient(cfg.Integrations, log)

	// Repositories
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	returnRepo := persistence.NewGormSaleReturnRepository(db.DB)
	orderRepo := persistence.NewGormServiceOrderRepository(db.DB)
	columnRepo := persistence.NewGormColumnRepository(db.DB)
	cardRepo := persistence.NewGormCardRepository(db.DB)
	nodeRepo := persistence.NewGormNodeRepository(db.DB)
	receivableRepo := persistence.NewGormReceivableRepository(db.DB)
	payableRepo := persistence.NewGormPayableRepository(db.DB)
	commissionRuleRepo := persistence.NewGormCommissionRuleRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRepository(db.DB)
	pricingRuleRepo := persistence.NewGormPricingRuleRepository(db.DB)
	priceHistoryRepo := persistence.NewGormPriceHistoryRepository(db.DB)
	reimbursementRepo := persistence.NewGormReimbursementRepository(db.DB)
	integrationRepo := persistence.NewGormIntegrationConfigRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	pointRepo := persistence.NewGormPointRepository(db.DB)
	badgeRepo := persistence.NewGormBadgeRepository(db.DB)
	reportQueries := persistence.NewGormReportQueries(db.DB)

	// Optional document rendering and photo storage. Interfaces stay nil when disabled.
	orderConfig := repairapp.ServiceOrderServiceConfig{
		OrderRepo:    orderRepo,
		CustomerRepo: customerRepo,
		ProductRepo:  productRepo,
		UserRepo:     userRepo,
		BranchRepo:   branchRepo,
		TxScope:      txScope,
		Events:       eventBus,
		MaxPhotoSize: cfg.Storage.MaxUploadSize,
		PhotoURLTTL:  cfg.Storage.PresignTTL,
		Logger:       log,
	}
	saleConfig := salesapp.SaleServiceConfig{
		SaleRepo:        saleRepo,
		ReturnRepo:      returnRepo,
		ProductRepo:     productRepo,
		CustomerRepo:    customerRepo,
		BranchRepo:      branchRepo,
		PricingRuleRepo: pricingRuleRepo,
		TxScope:         txScope,
		Events:          eventBus,
		Logger:          log,
	}
	if cfg.Printing.Enabled {
		engine, err := printing.NewTemplateEngine(cfg.Printing.ShopName)
		if err != nil {
			log.Fatal("Failed to load print templates", zap.Error(err))
		}
		renderer := printing.NewDocumentRenderer(engine, printing.NewChromedpRenderer(cfg.Printing, log), log)
		defer func() { _ = renderer.Close() }()
		orderConfig.Renderer = renderer
		saleConfig.Renderer = renderer
		log.Info("PDF printing enabled", zap.Bool("remote", cfg.Printing.RemoteURL != ""))
	}
	if cfg.Storage.Enabled {
		objects, err := storage.NewS3ObjectStorage(ctx, cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := objects.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare photo bucket", zap.Error(err), zap.String("bucket", objects.Bucket()))
		}
		orderConfig.Storage = objects
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authConfig := identityapp.DefaultAuthServiceConfig()
	if cfg.JWT.MaxLoginAttempts > 0 {
		authConfig.MaxLoginAttempts = cfg.JWT.MaxLoginAttempts
	}
	if cfg.JWT.LockDuration > 0 {
		authConfig.LockDuration = cfg.JWT.LockDuration
	}
	authService := identityapp.NewAuthService(userRepo, roleRepo, jwtService, blacklist, authConfig, log)
	branchService := identityapp.NewBranchService(branchRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, branchRepo, eventBus, log)

	productService := catalogapp.NewProductService(productRepo, eventBus, log)
	productImportService := catalogapp.NewProductImportService(productRepo, eventBus, log)
	stockService := inventoryapp.NewStockService(stockRepo, productRepo, txScope, log)
	customerService := crmapp.NewCustomerService(customerRepo, saleRepo, orderRepo, log)
	leadService := crmapp.NewLeadService(leadRepo, txScope, log)
	saleService := salesapp.NewSaleService(saleConfig)
	orderService := repairapp.NewServiceOrderService(orderConfig)
	boardService := kanbanapp.NewBoardService(kanbanapp.BoardServiceConfig{
		ColumnRepo: columnRepo,
		CardRepo:   cardRepo,
		TxScope:    txScope,
		Repairs:    orderService,
		Logger:     log,
	})
	wizardService := diagnosticapp.NewWizardService(nodeRepo, log)

	accountService := financeapp.NewAccountService(receivableRepo, payableRepo, customerRepo, log)
	commissionService := financeapp.NewCommissionService(commissionRuleRepo, commissionRepo, log)
	pricingService := financeapp.NewPricingService(pricingRuleRepo, priceHistoryRepo, productRepo, customerRepo, log)
	reimbursementService := financeapp.NewReimbursementService(reimbursementRepo, userRepo, txScope, log)

	dashboardService := reportapp.NewDashboardService(reportapp.DashboardServiceConfig{
		Queries:        reportQueries,
		OrderRepo:      orderRepo,
		StockRepo:      stockRepo,
		ReceivableRepo: receivableRepo,
		PayableRepo:    payableRepo,
		CommissionRepo: commissionRepo,
		Cache:          summaryCache,
		CacheTTL:       cfg.Dashboard.CacheTTL,
		Logger:         log,
	})
	reportService := reportapp.NewReportService(reportQueries)

	integrationService := integrationapp.NewIntegrationService(integrationRepo, gateway, log)
	messageService := messagingapp.NewMessageService(messageRepo, integrationRepo, gateway, log)
	listingService := marketplaceapp.NewListingService(marketplaceapp.ListingServiceConfig{
		Repo:        listingRepo,
		ProductRepo: productRepo,
		Configs:     integrationRepo,
		Gateway:     gateway,
		Logger:      log,
	})
	gamificationService := gamificationapp.NewGamificationService(pointRepo, badgeRepo, userRepo, log)

	// Event subscriptions
	eventBus.Subscribe(kanbanapp.NewBoardSyncHandler(columnRepo, cardRepo, txScope, log))
	eventBus.Subscribe(financeapp.NewCommissionHandler(commissionRuleRepo, commissionRepo, userRepo, roleRepo, log))
	eventBus.Subscribe(financeapp.NewPriceHistoryHandler(priceHistoryRepo, log))
	eventBus.Subscribe(gamificationapp.NewPointsHandler(gamificationService))
	eventBus.Subscribe(messagingapp.NewReadyNotificationHandler(messageService, customerRepo, cfg.Printing.ShopName, log))
	eventBus.Subscribe(metrics.NewEventRecorder(registry.Business))
	log.Info("Event handlers registered")

	// Background jobs
	var (
		jobs        *scheduler.Scheduler
		syncTrigger *scheduler.IntervalTrigger
	)
	if cfg.Scheduler.Enabled {
		jobs = scheduler.NewScheduler(scheduler.ConfigFrom(cfg.Scheduler), log)
		jobs.Register(scheduler.JobListingSync, scheduler.NewListingSyncExecutor(
			listingService, cfg.Scheduler.ListingStaleAfter, cfg.Scheduler.ListingSyncBatch, log))
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start job scheduler", zap.Error(err))
		}
		syncTrigger = scheduler.NewIntervalTrigger(scheduler.JobListingSync, cfg.Scheduler.ListingSyncInterval, jobs, log)
		if err := syncTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start listing sync trigger", zap.Error(err))
		}
	}

	if cfg.App.AdminUsername != "" && cfg.App.AdminPassword != "" {
		created, err := userService.Bootstrap(ctx, handler.DefaultTenantID, cfg.App.AdminUsername, cfg.App.AdminPassword)
		if err != nil {
			log.Fatal("Failed to bootstrap admin account", zap.Error(err))
		}
		if created {
			log.Info("Admin account created", zap.String("username", cfg.App.AdminUsername))
		}
	}

	h := handlers{
		system:       handler.NewSystemHandler(cfg.App.Name, version, db),
		auth:         handler.NewAuthHandler(authService),
		identity:     handler.NewIdentityHandler(branchService, roleService, userService),
		products:     handler.NewProductHandler(productService, productImportService),
		inventory:    handler.NewInventoryHandler(stockService),
		crm:          handler.NewCRMHandler(customerService, leadService),
		sales:        handler.NewSaleHandler(saleService),
		orders:       handler.NewServiceOrderHandler(orderService),
		kanban:       handler.NewKanbanHandler(boardService),
		diagnostic:   handler.NewDiagnosticHandler(wizardService),
		finance:      handler.NewFinanceHandler(accountService, commissionService, pricingService, reimbursementService),
		reports:      handler.NewReportHandler(dashboardService, reportService),
		integrations: handler.NewIntegrationHandler(integrationService),
		messages:     handler.NewMessageHandler(messageService),
		listings:     handler.NewListingHandler(listingService),
		gamification: handler.NewGamificationHandler(gamificationService),
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(nil); err != nil {
		log.Warn("Failed to set trusted proxies", zap.Error(err))
	}

	stopCleanup := make(chan struct{})
	defer close(stopCleanup)

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.Metrics.Enabled {
		engine.Use(middleware.Metrics(registry.HTTP, cfg.Metrics.Path, "/health"))
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go limiter.RunCleanup(time.Minute, stopCleanup)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.GET("/health", h.system.Health)
	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(registry.Handler()))
	}
	if cfg.HTTP.SwaggerEnabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		Validator: jwtService,
		Blacklist: blacklist,
		SkipPaths: publicPaths,
		Logger:    log,
	}))
	registerRoutes(r, h)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if jobs != nil {
		syncTrigger.Stop()
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Warn("Job scheduler did not stop in time", zap.Error(err))
		}
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	log.Info("Server exited")
}

func runMigrations(db *persistence.Database, dir string, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, dir, log)
	if err != nil {
		return err
	}
	// closing the migrator would close the shared connection pool
	return m.Up()
}
