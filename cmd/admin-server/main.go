package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/caregrid/admin-api/internal/config"
	"github.com/caregrid/admin-api/internal/domain/booking"
	"github.com/caregrid/admin-api/internal/domain/catalog"
	"github.com/caregrid/admin-api/internal/domain/company"
	"github.com/caregrid/admin-api/internal/domain/directory"
	"github.com/caregrid/admin-api/internal/platform/auth"
	"github.com/caregrid/admin-api/internal/platform/blobstore"
	"github.com/caregrid/admin-api/internal/platform/cache"
	"github.com/caregrid/admin-api/internal/platform/db"
	"github.com/caregrid/admin-api/internal/platform/drafts"
	"github.com/caregrid/admin-api/internal/platform/middleware"
	"github.com/caregrid/admin-api/pkg/editsession"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "admin-server",
		Short: "CareGrid Admin API Server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	// migrate down - keep as warning
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Rollback last migration (not supported)",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("WARNING: migrate down is destructive and not supported by the built-in runner.")
			fmt.Println("Restore from a database backup or write a forward migration instead.")
			return nil
		},
	})

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// List cache: Redis when configured, in-process otherwise
	var cacheStore cache.Store = cache.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, falling back to in-process cache")
		} else {
			defer redisStore.Close()
			cacheStore = redisStore
			logger.Info().Msg("connected to redis")
		}
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
		}))
	}

	// API group
	apiV1 := e.Group("/api/v1")

	// Rate limiting middleware
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Repositories
	centerRepo := directory.NewDiagnosticCenterRepo(pool)
	doctorRepo := directory.NewDoctorRepo(pool)
	slotRepo := directory.NewDoctorSlotRepo(pool)
	staffRepo := directory.NewStaffRepo(pool)
	packageRepo := catalog.NewHealthPackageRepo(pool)
	testRepo := catalog.NewLabTestRepo(pool)
	xrayRepo := catalog.NewXRayServiceRepo(pool)
	bookingRepo := booking.NewRepo(pool)
	companyRepo := company.NewCompanyRepo(pool)
	employeeRepo := company.NewEmployeeRepo(pool)
	questionRepo := company.NewHRAQuestionRepo(pool)

	// Attachment store
	blobs := blobstore.NewInMemoryBlobStore()

	// Services
	directorySvc := directory.NewService(centerRepo, doctorRepo, slotRepo, staffRepo)
	catalogSvc := catalog.NewService(packageRepo, testRepo, xrayRepo)
	bookingSvc := booking.NewService(bookingRepo, blobs, logger)
	companySvc := company.NewService(companyRepo, employeeRepo, questionRepo)

	// Each domain's routes get their own cache prefix so writes
	// invalidate only the lists they touch.
	cached := func(resource string) *echo.Group {
		g := apiV1.Group("")
		g.Use(cache.Middleware(cacheStore, resource, cfg.ListCacheTTL))
		return g
	}

	directory.NewHandler(directorySvc).RegisterRoutes(cached("directory"))
	catalog.NewHandler(catalogSvc).RegisterRoutes(cached("catalog"))
	booking.NewHandler(bookingSvc).RegisterRoutes(cached("booking"))
	company.NewHandler(companySvc).RegisterRoutes(cached("company"))

	blobstore.NewBlobHandler(blobs).RegisterRoutes(apiV1)

	// Server-side edit drafts
	draftMgr := drafts.NewManager()
	draftMgr.Register("doctors", draftResource(directorySvc.GetDoctor, directorySvc.UpdateDoctor))
	draftMgr.Register("staff", draftResource(directorySvc.GetStaff, directorySvc.UpdateStaff))
	draftMgr.Register("employees", draftResource(companySvc.GetEmployee, companySvc.UpdateEmployee))
	draftMgr.Register("xrays", draftResource(catalogSvc.GetXRay, catalogSvc.UpdateXRay))
	drafts.NewHandler(draftMgr).RegisterRoutes(apiV1)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// draftResource adapts a typed get/update pair to the drafts field-map
// contract via a JSON round trip, so every registered resource edits
// the same fields its REST representation exposes.
func draftResource[T any](
	load func(ctx context.Context, id uuid.UUID) (*T, error),
	save func(ctx context.Context, v *T) error,
) drafts.Resource {
	return drafts.Resource{
		Load: func(ctx context.Context, id string) (editsession.Record, error) {
			uid, err := uuid.Parse(id)
			if err != nil {
				return nil, fmt.Errorf("invalid id %q: %w", id, err)
			}
			v, err := load(ctx, uid)
			if err != nil {
				return nil, err
			}
			return toRecord(v)
		},
		Submit: func(ctx context.Context, draft editsession.Record) (editsession.Record, error) {
			v := new(T)
			if err := fromRecord(draft, v); err != nil {
				return nil, err
			}
			if err := save(ctx, v); err != nil {
				return nil, err
			}
			return toRecord(v)
		},
	}
}

func toRecord(v interface{}) (editsession.Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec editsession.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

func fromRecord(rec editsession.Record, dst interface{}) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode draft: %w", err)
	}
	return nil
}
