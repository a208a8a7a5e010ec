package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"kneexEngine/app/echo-server/router"
	"kneexEngine/business/cart"
	"kneexEngine/business/events"
	"kneexEngine/business/pageview"
	"kneexEngine/business/trending"
	"kneexEngine/business/visitor"
	"kneexEngine/internal/authstate"
	"kneexEngine/internal/middleware"
	"kneexEngine/internal/outbound"
	"kneexEngine/internal/repository/localstore"
	psqlRepo "kneexEngine/internal/repository/postgres"
	redisRepo "kneexEngine/internal/repository/redis"
	"kneexEngine/internal/rest"
	"kneexEngine/pkg/config"
	"kneexEngine/pkg/database"
	redisdb "kneexEngine/pkg/database/redis"
	"kneexEngine/pkg/logger"
	"kneexEngine/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Kneex client engine", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to record store", "error", err)
	}

	logger.Info("Record store connected successfully")

	local, err := localstore.New(cfg.Local.StateDir, cfg.App.SnapshotKey)
	if err != nil {
		logger.Fatal("Failed to open device-local store", "error", err)
	}

	// Optional trending cache
	var trendingCache trending.Cache
	if cfg.Redis.Enabled {
		redisClient, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, trending cache disabled", "error", err)
		} else {
			defer redisdb.CloseRedisClient(redisClient)
			trendingCache = redisRepo.NewTrendingCache(redisClient, cfg.Trending.CacheTTL)
		}
	}

	// Best-effort outbound calls share one queue so shutdown can drain them
	queue := outbound.NewQueue(10 * time.Second)

	// Init repo
	visitorRepo := psqlRepo.NewVisitorRepository(db)
	pageViewRepo := psqlRepo.NewPageViewRepository(db)
	eventRepo := psqlRepo.NewEventRepository(db)
	cartRepo := psqlRepo.NewCartRepository(db)
	analyticsRepo := psqlRepo.NewAnalyticsRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)

	// Init service
	authState := authstate.New()
	visitorService := visitor.NewService(local, visitorRepo, queue, deviceDescriptor(cfg))
	eventService := events.NewService(eventRepo, visitorService, queue)
	pageViewTracker := pageview.NewTracker(pageViewRepo, visitorService, queue)
	trendingService := trending.NewService(analyticsRepo, productRepo, trendingCache, cfg.Trending.PoolSize)
	cartService := cart.NewService(cartRepo, local, authState, queue)

	// Identity transitions fan out to the visitor linkage and the cart
	authState.OnChange(visitorService.OnAuthStateChange)
	authState.OnChange(cartService.OnAuthStateChange)

	// Init handler
	trackHandler := rest.NewTrackHandler(pageViewTracker, eventService)
	identityHandler := rest.NewIdentityHandler(authState)
	trendingHandler := rest.NewTrendingHandler(trendingService, cfg.Trending.SearchDebounce)
	cartHandler := rest.NewCartHandler(cartService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupTrackRoutes(api, trackHandler)
	router.SetupIdentityRoutes(api, identityHandler)
	router.SetupTrendingRoutes(api, trendingHandler)
	router.SetupCartRoutes(api, cartHandler)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Goroutine server
	go func() {
		addr := fmt.Sprintf("127.0.0.1:%s", cfg.Server.Port)
		logger.Info("Engine listening", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down engine...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close the open page view, then let in-flight best-effort calls finish
	pageViewTracker.Shutdown()
	if err := queue.Drain(ctx); err != nil {
		logger.Warn("Outbound queue did not drain in time", "error", err)
	}

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Engine stopped")
}

// deviceDescriptor is the coarse client tag on the visitor row, the
// user-agent equivalent for a sidecar engine.
func deviceDescriptor(cfg *config.Config) string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s/%s %s engine/%s", runtime.GOOS, runtime.GOARCH, hostname, cfg.App.Version)
}
