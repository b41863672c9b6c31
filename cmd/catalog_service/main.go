package main

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	catalogAPI "github.com/grondverzet/machinery-cms/internal/catalog/api"
	catalogRepo "github.com/grondverzet/machinery-cms/internal/catalog/repository"
	catalogService "github.com/grondverzet/machinery-cms/internal/catalog/service"
	"github.com/grondverzet/machinery-cms/internal/httpx"
	"github.com/grondverzet/machinery-cms/internal/platform/cache"
	"github.com/grondverzet/machinery-cms/internal/platform/config"
	"github.com/grondverzet/machinery-cms/internal/platform/database"
	"github.com/grondverzet/machinery-cms/internal/platform/logger"
	pricingAPI "github.com/grondverzet/machinery-cms/internal/pricing/api"
	pricingRepo "github.com/grondverzet/machinery-cms/internal/pricing/repository"
	pricingService "github.com/grondverzet/machinery-cms/internal/pricing/service"
	quoteAPI "github.com/grondverzet/machinery-cms/internal/quote/api"
	quoteRepo "github.com/grondverzet/machinery-cms/internal/quote/repository"
	quoteService "github.com/grondverzet/machinery-cms/internal/quote/service"
	userAPI "github.com/grondverzet/machinery-cms/internal/user/api"
	userRepo "github.com/grondverzet/machinery-cms/internal/user/repository"
	userService "github.com/grondverzet/machinery-cms/internal/user/service"
)

func main() {
	// Load Config
	config.Load()
	dbCfg := config.LoadCatalogDBConfig()
	serverCfg := config.LoadServerConfig("8080")
	authCfg := config.LoadAuthConfig()
	cacheCfg := config.LoadCacheConfig()

	logger.Info("Starting Catalog Service...")

	// Setup Database
	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database for Catalog Service", err)
		return
	}
	defer db.Close()

	// Setup Response Cache
	respCache := cache.New(cacheCfg.TTL, cacheCfg.SweepInterval)
	defer respCache.Stop()

	// Setup Dependencies
	productRepository := catalogRepo.NewPostgresProductRepository(db)
	taxonomyRepository := catalogRepo.NewPostgresTaxonomyRepository(db)
	priceRepository := pricingRepo.NewPostgresPriceRepository(db)
	quoteRepository := quoteRepo.NewPostgresQuoteRepository(db)
	userRepository := userRepo.NewPostgresUserRepository(db)

	catSvc := catalogService.NewCatalogService(productRepository)
	taxSvc := catalogService.NewTaxonomyService(taxonomyRepository)
	priceSvc := pricingService.NewPricingService(priceRepository)
	quoteSvc := quoteService.NewQuoteService(quoteRepository)
	userSvc := userService.NewUserService(userRepository, authCfg.JWTSecret, authCfg.TokenTTL)

	productHandler := catalogAPI.NewProductHandler(catSvc)
	taxonomyHandler := catalogAPI.NewTaxonomyHandler(taxSvc)
	priceHandler := pricingAPI.NewPriceHandler(catSvc, priceSvc)
	quoteHandler := quoteAPI.NewQuoteHandler(quoteSvc)
	userHandler := userAPI.NewUserHandler(userSvc)
	adminHandler := catalogAPI.NewAdminHandler(catSvc, taxSvc, priceSvc, respCache)
	adminPriceHandler := pricingAPI.NewAdminPriceHandler(catSvc, priceSvc, respCache)

	// Setup Gin Router
	router := gin.New()
	router.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())
	router.RedirectTrailingSlash = false

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		productHandler.RegisterRoutes(apiGroup, respCache)
		taxonomyHandler.RegisterRoutes(apiGroup, respCache)
		priceHandler.RegisterRoutes(apiGroup, httpx.Authenticate(authCfg.JWTSecret))
		quoteHandler.RegisterPublicRoutes(apiGroup)
		userHandler.RegisterRoutes(apiGroup, httpx.Authenticate(authCfg.JWTSecret))
	}

	adminGroup := router.Group("/api/admin",
		httpx.Authenticate(authCfg.JWTSecret), httpx.RequireAdmin())
	{
		adminHandler.RegisterRoutes(adminGroup)
		adminPriceHandler.RegisterRoutes(adminGroup)
		quoteHandler.RegisterAdminRoutes(adminGroup)
	}

	// Static storefront: everything outside /api serves files from the web
	// directory, falling back to index.html for extensionless paths.
	staticServer(router, serverCfg.StaticDir)

	logger.Info("Catalog Service running on port " + serverCfg.Port)
	if err := router.Run(serverCfg.Port); err != nil {
		logger.Error("Failed to run Catalog Service server", err)
	}
}

func staticServer(router *gin.Engine, staticDir string) {
	fs := http.FileServer(http.Dir(staticDir))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if filepath.Ext(c.Request.URL.Path) == "" && c.Request.URL.Path != "/" {
			c.File(filepath.Join(staticDir, "index.html"))
			return
		}
		fs.ServeHTTP(c.Writer, c.Request)
	})
}
