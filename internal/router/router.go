package router

import (
	"time"

	"github.com/wasssssim/verger-du-coin/internal/config"
	"github.com/wasssssim/verger-du-coin/internal/handler"
	"github.com/wasssssim/verger-du-coin/internal/infra"
	"github.com/wasssssim/verger-du-coin/internal/middleware"
	"github.com/wasssssim/verger-du-coin/internal/repository"
	"github.com/wasssssim/verger-du-coin/internal/service"
	"github.com/wasssssim/verger-du-coin/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// rdb may be nil: the price cache and receipt emails are then disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	stockRepo := repository.NewStockRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	cardRepo := repository.NewLoyaltyCardRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	reportRepo := repository.NewDailyReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	policy := service.LoyaltyPolicy{
		PointsPerCurrencyUnit: cfg.PointsPerCurrencyUnit(),
		PointsPerDiscountUnit: cfg.LoyaltyPointsPerDiscountUnit,
	}
	authSvc := service.NewAuthService(userRepo, customerRepo, cfg)
	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo, rdb)
	inventorySvc := service.NewInventoryService(locationRepo, stockRepo, movementRepo, productRepo)
	loyaltySvc := service.NewLoyaltyService(cardRepo, customerRepo, policy)
	customerSvc := service.NewCustomerService(customerRepo, cardRepo, userRepo)
	reportSvc := service.NewReportService(reportRepo, saleRepo, locationRepo)

	deps := service.SaleDeps{
		Sales:     saleRepo,
		Products:  productRepo,
		Locations: locationRepo,
		Customers: customerRepo,
		Stocks:    stockRepo,
		Inventory: inventorySvc,
		Loyalty:   loyaltySvc,
	}
	// Receipt jobs need the Redis queue
	if rdb != nil {
		deps.Receipts = worker.NewDispatcher(rdb)
	}
	saleSvc := service.NewSaleService(deps)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	productsH := handler.NewProductsHandler(productSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	loyaltyH := handler.NewLoyaltyHandler(loyaltySvc)
	salesH := handler.NewSalesHandler(saleSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, mailCB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Public
	auth := api.Group("/auth")
	{
		auth.POST("/token", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/token/refresh", authH.Refresh)
	}
	api.GET("/products", productsH.List)
	api.GET("/products/in_season", productsH.InSeason)
	api.GET("/products/lookup/:code", productsH.Lookup)
	api.GET("/products/categories", categoriesH.List)
	api.GET("/products/categories/:id", categoriesH.Get)
	api.GET("/products/:id", productsH.Get)
	api.POST("/customers", customersH.Create)

	// Protected routes
	v := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
	staff := middleware.RequireStaff()
	admin := middleware.RequireAdmin()
	{
		prods := v.Group("/products", admin)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
			prods.POST("/categories", categoriesH.Create)
			prods.PUT("/categories/:id", categoriesH.Update)
			prods.DELETE("/categories/:id", categoriesH.Delete)
		}

		inv := v.Group("/inventory")
		{
			inv.GET("/locations", staff, inventoryH.ListLocations)
			inv.GET("/locations/:id", staff, inventoryH.GetLocation)
			inv.POST("/locations", admin, inventoryH.CreateLocation)
			inv.PUT("/locations/:id", admin, inventoryH.UpdateLocation)
			inv.DELETE("/locations/:id", admin, inventoryH.DeleteLocation)

			inv.GET("/stocks", staff, inventoryH.ListStocks)
			inv.GET("/stocks/low_stock", staff, inventoryH.LowStock)
			inv.GET("/stocks/:id", staff, inventoryH.GetStock)

			inv.GET("/movements", staff, inventoryH.ListMovements)
			inv.POST("/movements", staff, inventoryH.CreateMovement)
		}

		cust := v.Group("/customers")
		{
			cust.GET("/me", customersH.Me)
			cust.GET("", staff, customersH.List)
			cust.POST("/search_by_card", staff, customersH.SearchByCard)
			cust.GET("/:id", staff, customersH.Get)
			cust.PUT("/:id", staff, customersH.Update)
			cust.DELETE("/:id", staff, customersH.Delete)
			cust.POST("/:id/anonymize", admin, customersH.Anonymize)
		}

		loyalty := v.Group("/loyalty", staff)
		{
			loyalty.GET("", loyaltyH.List)
			loyalty.GET("/:id", loyaltyH.Get)
			loyalty.POST("/:id/redeem", loyaltyH.Redeem)
		}

		sales := v.Group("/sales")
		{
			sales.POST("", salesH.Create)
			sales.POST("/sync", salesH.Sync)
			sales.GET("", staff, salesH.List)
			sales.GET("/statistics", staff, salesH.Statistics)
			sales.GET("/:id", staff, salesH.Get)
			sales.PUT("/:id", staff, salesH.Update)
			sales.DELETE("/:id", admin, salesH.Delete)
		}

		reports := v.Group("/reports", admin)
		{
			reports.GET("", reportsH.List)
			reports.POST("", reportsH.Create)
			reports.POST("/generate", reportsH.Generate)
			reports.GET("/:id", reportsH.Get)
			reports.PUT("/:id", reportsH.Update)
			reports.DELETE("/:id", reportsH.Delete)
		}

		users := v.Group("/users", admin)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
