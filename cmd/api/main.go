package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/shop_dashboard/internal/cache"
	"github.com/GTDGit/shop_dashboard/internal/config"
	"github.com/GTDGit/shop_dashboard/internal/database"
	"github.com/GTDGit/shop_dashboard/internal/handler"
	"github.com/GTDGit/shop_dashboard/internal/middleware"
	"github.com/GTDGit/shop_dashboard/internal/models"
	"github.com/GTDGit/shop_dashboard/internal/repository"
	"github.com/GTDGit/shop_dashboard/internal/service"
	"github.com/GTDGit/shop_dashboard/internal/sse"
	"github.com/GTDGit/shop_dashboard/internal/store"
	"github.com/GTDGit/shop_dashboard/internal/utils"
	"github.com/GTDGit/shop_dashboard/internal/worker"
	"github.com/GTDGit/shop_dashboard/pkg/shopapi"
)

// main is the entrypoint of the shop dashboard API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting shop dashboard")

	// 3. Context for workers and graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Local store, optionally backed by Postgres and Redis
	local := &store.MemoryStore{}
	hub := sse.NewHub(16)

	db := connectDatabase(cfg)
	if db != nil {
		defer db.Close()
	}

	var snapshots *cache.SnapshotCache
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, snapshot will not survive restarts")
		} else {
			defer redisClient.Close()
			snapshots = cache.NewSnapshotCache(redisClient, cfg.Redis.SnapshotTTL)
			log.Info().Msg("redis connected successfully")
		}
	}

	if db != nil {
		snapshotWorker := newSnapshotWorker(db, local, snapshots, cfg.Worker.SnapshotRefreshInterval).
			WithNotifier(sse.NewHubNotifier(hub))
		snapshotWorker.WarmStart(ctx)
		go snapshotWorker.Start(ctx)
	} else {
		log.Warn().Msg("DB_HOST not set, dashboard will rely on the shop API only")
		if snap, ok := restoreSnapshot(ctx, snapshots); ok {
			local.Replace(snap)
		}
	}

	// 5. Upstream client and services
	shopClient := shopapi.NewClient(shopapi.Config{
		BaseURL: cfg.ShopAPI.BaseURL,
		Token:   cfg.ShopAPI.Token,
		Timeout: cfg.ShopAPI.Timeout,
		Debug:   cfg.Env != "production",
	})

	money := utils.NewCurrencyFormatter(cfg.Dashboard.Locale, cfg.Dashboard.CurrencySymbol)
	dashboardSvc := service.NewDashboardService(shopClient, local, money, cfg.Dashboard.Location)

	// 6. Handlers and middleware
	authLimiter := middleware.NewInvalidAuthRateLimiter(ctx, 5, time.Minute)
	handlers := &Handlers{
		Health:    handler.NewHealthHandler(shopClient, local),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		SSE:       handler.NewSSEHandler(hub, cfg.JWTSecret, authLimiter),
	}

	var jwtMw *middleware.JWTMiddleware
	if cfg.JWTSecret != "" {
		jwtMw = middleware.NewJWTMiddleware(cfg.JWTSecret, authLimiter)
	} else {
		log.Warn().Msg("JWT_SECRET not set, dashboard routes are public")
	}

	// 7. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 8. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("shop_api", shopClient.BaseURL()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 9. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 10. Cancel context to stop workers
	cancel()

	// 11. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	Dashboard *handler.DashboardHandler
	SSE       *handler.SSEHandler
}

// setupRoutes registers all routes. jwtMiddleware may be nil, in which case
// the dashboard routes are public.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	dashboard := router.Group("/v1/dashboard")
	dashboard.GET("/events", handlers.SSE.Stream)

	protected := dashboard.Group("")
	if jwtMiddleware != nil {
		protected.Use(jwtMiddleware.Handle())
	}
	{
		protected.GET("/stats", handlers.Dashboard.GetStats)
		protected.GET("/summary", handlers.Dashboard.GetSummary)
		protected.GET("/low-stock", handlers.Dashboard.GetLowStock)
	}
}

// connectDatabase opens Postgres and applies migrations. It returns nil when
// no database is configured or it cannot be reached.
func connectDatabase(cfg *config.Config) *sqlx.DB {
	if !cfg.DB.Enabled() {
		return nil
	}

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed, continuing without local data")
		return nil
	}

	if err := database.Migrate(db.DB, cfg.DB.MigrationsDir); err != nil {
		log.Error().Err(err).Msg("migration failed, continuing without local data")
		_ = db.Close()
		return nil
	}
	log.Info().Msg("migrations completed successfully")
	return db
}

func newSnapshotWorker(db *sqlx.DB, local *store.MemoryStore, snapshots *cache.SnapshotCache, interval time.Duration) *worker.SnapshotWorker {
	var sc worker.SnapshotCache
	if snapshots != nil {
		sc = snapshots
	}
	return worker.NewSnapshotWorker(
		repository.NewProductRepository(db),
		repository.NewBillRepository(db),
		repository.NewCustomerRepository(db),
		local,
		sc,
		interval,
	)
}

// restoreSnapshot returns the last cached snapshot, if any.
func restoreSnapshot(ctx context.Context, snapshots *cache.SnapshotCache) (models.Snapshot, bool) {
	if snapshots == nil {
		return models.Snapshot{}, false
	}
	snap, err := snapshots.Load(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("no cached snapshot available")
		return models.Snapshot{}, false
	}
	log.Info().Time("loaded_at", snap.LoadedAt).Msg("serving cached snapshot without database")
	return snap, true
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
