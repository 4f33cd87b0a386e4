package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/admission/internal/app/controllers"
	appMigrations "github.com/yigit/admission/internal/app/migrations"
	appRepos "github.com/yigit/admission/internal/app/repositories"
	"github.com/yigit/admission/internal/app/repositories/memory"
	appRoutes "github.com/yigit/admission/internal/app/routes"
	appServices "github.com/yigit/admission/internal/app/services"
	"github.com/yigit/admission/internal/config"
	"github.com/yigit/admission/internal/db"
	appMiddleware "github.com/yigit/admission/internal/middleware"
	"github.com/yigit/admission/internal/pkg/helpers"
	"github.com/yigit/admission/internal/pkg/logger"
	"github.com/yigit/admission/internal/pkg/metrics"
	"github.com/yigit/admission/internal/pkg/session"
	"github.com/yigit/admission/internal/seed"
)

// ConfigPathEnv overrides the default configuration file location
const ConfigPathEnv = "ADMISSION_CONFIG"

// Options tweaks the wiring; the zero value is what the server uses
type Options struct {
	// BcryptCost overrides the password hashing cost for seeded and registered accounts.
	BcryptCost int
	Clock      func() time.Time
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	Sessions       *session.Manager
	Sweeper        *session.Sweeper
	AuthMiddleware *appMiddleware.AuthMiddleware
	LoginLimiter   *appMiddleware.RateLimiter
	Metrics        *metrics.Metrics
	Logger         zerolog.Logger

	closers []func()
}

// Close stops the sweeper and releases storage and session connections
func (d *Dependencies) Close(ctx context.Context) {
	if d.Sweeper != nil {
		d.Sweeper.Stop(ctx)
	}
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv(ConfigPathEnv)
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStorage opens the configured repository backend, applies migrations for
// Postgres and seeds default data when enabled. The returned func releases it.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger, opts Options) (*appRepos.Repositories, func(), error) {
	var (
		repos   *appRepos.Repositories
		release = func() {}
	)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory storage, data is lost on restart")
		repos = memory.NewRepositories(memory.NewDB())

	default:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		release = database.Close
		lgr.Info().Msg("Database connection successfully established.")

		migrationsDir := cfg.Database.MigrationsDir
		if _, err := os.Stat(migrationsDir); err != nil {
			release()
			lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
			return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
		}
		migrator := appMigrations.NewMigrator(database.Pool, lgr)
		if _, err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
			release()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}

		repos = appRepos.NewRepositories(database.Pool)
	}

	if cfg.Database.Seed {
		seedOpts := seed.Options{BcryptCost: opts.BcryptCost, Now: opts.Clock}
		if err := seed.CreateDefaultData(ctx, repos, lgr, seedOpts); err != nil {
			// Startup continues; missing seed rows only affect demo accounts
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return repos, release, nil
}

// SetupSessions builds the session manager over the configured store
func SetupSessions(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*session.Manager, func(), error) {
	ttl := helpers.ParseDuration(cfg.Session.TTL, 24*time.Hour)

	if cfg.Session.Store == config.SessionStoreRedis {
		client, err := session.NewRedisClient(ctx, cfg.Session.RedisURL)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to session redis")
			return nil, nil, err
		}
		lgr.Info().Str("prefix", cfg.Session.KeyPrefix).Msg("Sessions stored in redis")
		closeClient := func() {
			if err := client.Close(); err != nil {
				lgr.Warn().Err(err).Msg("Failed to close session redis client")
			}
		}
		return session.NewManager(session.NewRedisStore(client, cfg.Session.KeyPrefix), ttl), closeClient, nil
	}

	lgr.Info().Int("capacity", cfg.Session.Capacity).Msg("Sessions stored in memory")
	return session.NewManager(session.NewMemoryStore(cfg.Session.Capacity), ttl), func() {}, nil
}

// BuildDependencies initializes storage, sessions, services and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, lgr zerolog.Logger, opts Options) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Metrics: metrics.New()}

	repos, releaseStorage, err := SetupStorage(ctx, cfg, lgr, opts)
	if err != nil {
		return nil, err
	}
	deps.Repos = repos
	deps.closers = append(deps.closers, releaseStorage)

	sessions, releaseSessions, err := SetupSessions(ctx, cfg, lgr)
	if err != nil {
		deps.Close(ctx)
		return nil, err
	}
	deps.Sessions = sessions
	deps.closers = append(deps.closers, releaseSessions)
	if opts.Clock != nil {
		deps.Sessions.WithClock(opts.Clock)
	}

	deps.LoginLimiter = appMiddleware.NewRateLimiter(cfg.Server.LoginRateLimit, cfg.Server.LoginBurst)

	// An empty interval disables the sweep
	if cfg.Session.SweepInterval != "" {
		sweepInterval := helpers.ParseDuration(cfg.Session.SweepInterval, 10*time.Minute)
		deps.Sweeper, err = session.NewSweeper(sessions.Store(), sweepInterval)
		if err != nil {
			deps.Close(ctx)
			return nil, fmt.Errorf("failed to schedule session sweep: %w", err)
		}
		deps.Sweeper.OnSwept(func(removed int) {
			deps.Metrics.SessionsSwept(removed)
			idle := deps.LoginLimiter.Cleanup(sweepInterval)
			if removed > 0 || idle > 0 {
				lgr.Debug().Int("sessions", removed).Int("limiters", idle).Msg("Expired entries swept")
			}
		})
	}

	deps.Services = appServices.NewServices(appServices.Dependencies{
		Repos:    repos,
		Sessions: sessions,
		Metrics:  deps.Metrics,
		Logger:   lgr,
		Admission: appServices.AdmissionPolicy{
			MaxAspirationsPerExam: cfg.Admission.MaxAspirationsPerExam,
			EnforceQuota:          cfg.Admission.EnforceQuota,
			MaxPriority:           cfg.Admission.MaxPriority,
		},
		Payment: appServices.PaymentPolicy{
			AspirationFee: cfg.Payment.AspirationFee,
			Currency:      cfg.Payment.Currency,
			Methods:       cfg.Payment.Methods,
		},
		Clock:      opts.Clock,
		BcryptCost: opts.BcryptCost,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(sessions)

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.Services.Auth, lgr),
		User:       appControllers.NewUserController(deps.Services.User, lgr),
		Catalog:    appControllers.NewCatalogController(deps.Services.Catalog),
		Aspiration: appControllers.NewAspirationController(deps.Services.Aspiration, lgr),
		Payment:    appControllers.NewPaymentController(deps.Services.Payment),
		Approval:   appControllers.NewApprovalController(deps.Services.Approval),
		Health:     appControllers.NewHealthController(repos.Ping),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(lgr),
		appMiddleware.RequestLogger(),
		appMiddleware.Metrics(deps.Metrics),
		appMiddleware.CORS(cfg.Server.AllowedOrigins),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.LoginLimiter, deps.Metrics)
	appRoutes.SetupSwagger(router, "")

	return router, nil
}
