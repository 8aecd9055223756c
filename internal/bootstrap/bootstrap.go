package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/Dinesh259/Free-Solutions/internal/app/controllers"
	appMigrations "github.com/Dinesh259/Free-Solutions/internal/app/migrations"
	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	appRepos "github.com/Dinesh259/Free-Solutions/internal/app/repositories"
	memoryRepos "github.com/Dinesh259/Free-Solutions/internal/app/repositories/memory"
	mongoRepos "github.com/Dinesh259/Free-Solutions/internal/app/repositories/mongo"
	postgresRepos "github.com/Dinesh259/Free-Solutions/internal/app/repositories/postgres"
	appRoutes "github.com/Dinesh259/Free-Solutions/internal/app/routes"
	appServices "github.com/Dinesh259/Free-Solutions/internal/app/services"
	"github.com/Dinesh259/Free-Solutions/internal/config"
	"github.com/Dinesh259/Free-Solutions/internal/db"
	appMiddleware "github.com/Dinesh259/Free-Solutions/internal/middleware"
	pkgAuth "github.com/Dinesh259/Free-Solutions/internal/pkg/auth"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/filestorage"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/helpers"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/logger"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/session"
	"github.com/Dinesh259/Free-Solutions/internal/seed"
	"github.com/Dinesh259/Free-Solutions/internal/web"
)

// Storage holds the repositories of the configured driver and the clients
// that have to be closed on shutdown
type Storage struct {
	Repos    *appRepos.Repositories
	Postgres *db.PostgresDB
	Mongo    *db.MongoDB
	Redis    *redis.Client
}

// Close releases every open client
func (s *Storage) Close(ctx context.Context) error {
	var err error
	if s.Redis != nil {
		err = errors.Join(err, s.Redis.Close())
	}
	if s.Mongo != nil {
		err = errors.Join(err, s.Mongo.Close(ctx))
	}
	if s.Postgres != nil {
		s.Postgres.Close()
	}
	return err
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Sessions       *session.Manager
	FileStorage    *filestorage.LocalStorage
	Hasher         *pkgAuth.PasswordHasher
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFromSettings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStorage connects the configured database driver. PostgreSQL schemas
// are migrated, MongoDB indexes created.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	storage := &Storage{}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		pg, err := db.NewPostgresDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		storage.Postgres = pg
		lgr.Info().Msg("Database connection successfully established.")

		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(pg.Pool, lgr).Migrate(ctx); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			pg.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")
		storage.Repos = postgresRepos.NewRepositories(pg.Pool)

	case config.DriverMongo:
		lgr.Info().Msg("Connecting to MongoDB...")
		mdb, err := db.NewMongoDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to MongoDB")
			return nil, err
		}
		storage.Mongo = mdb

		repos, err := mongoRepos.NewRepositories(ctx, mdb.Database)
		if err != nil {
			_ = mdb.Close(context.Background())
			return nil, fmt.Errorf("failed to prepare mongo collections: %w", err)
		}
		storage.Repos = repos
		lgr.Info().Str("database", cfg.Database.MongoDatabase).Msg("MongoDB connection established.")

	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory storage, data is lost on restart")
		storage.Repos = memoryRepos.NewRepositories()

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	return storage, nil
}

// SetupSessionStore creates the session store selected by the configuration.
// A redis store keeps its client on storage so it is closed on shutdown.
func SetupSessionStore(ctx context.Context, cfg *config.Config, storage *Storage, lgr zerolog.Logger) (session.Store, error) {
	switch cfg.Session.Store {
	case config.DriverRedis:
		client, err := db.NewRedisClient(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis")
			return nil, err
		}
		storage.Redis = client
		return session.NewRedisStore(client, sessionTTL(cfg)), nil

	case config.DriverPostgres:
		if storage.Postgres == nil {
			return nil, errors.New("postgres session store requires the postgres driver")
		}
		return session.NewPostgresStore(storage.Postgres.Pool), nil

	case config.DriverMongo:
		if storage.Mongo == nil {
			return nil, errors.New("mongo session store requires the mongo driver")
		}
		store, err := session.NewMongoStore(ctx, storage.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare session collection: %w", err)
		}
		return store, nil

	case config.DriverMemory:
		return session.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unsupported session store %q", cfg.Session.Store)
}

func sessionTTL(cfg *config.Config) time.Duration {
	return helpers.ParseDuration(cfg.Session.TTL, session.DefaultTTL)
}

// taxonomyOf builds the curriculum taxonomy from the configuration
func taxonomyOf(cfg *config.Config) *models.Taxonomy {
	subjects := make([]models.Subject, 0, len(cfg.Curriculum.Subjects))
	for _, s := range cfg.Curriculum.Subjects {
		subjects = append(subjects, models.Subject{
			Name:              strings.TrimSpace(s.Name),
			ExerciseOrganized: s.ExerciseOrganized,
		})
	}
	return models.NewTaxonomy(subjects)
}

// BuildDependencies initializes application services, middleware and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, store session.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(
		cfg.Server.StoragePath,
		cfg.Upload.BaseURL,
		cfg.Upload.MaxFileSize,
		cfg.Upload.AllowedTypes,
	)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	translator, err := appMiddleware.SetupValidation()
	if err != nil {
		return nil, fmt.Errorf("failed to set up validation: %w", err)
	}
	binder := appMiddleware.NewFormBinder(translator)

	deps.Sessions = session.NewManager(store, sessionTTL(cfg))
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Sessions, appMiddleware.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
	})

	deps.Hasher = pkgAuth.NewPasswordHasher(cfg.Auth.BcryptCost)
	resetTokens := pkgAuth.NewResetTokenService(pkgAuth.ResetTokenConfig{
		SecretKey:   cfg.Auth.ResetTokenSecret,
		TTL:         helpers.ParseDuration(cfg.Auth.ResetTokenTTL, 15*time.Minute),
		TokenIssuer: cfg.Auth.Issuer,
	})

	deps.Services = &appServices.Services{
		Auth: appServices.NewAuthService(
			repos.Users,
			deps.Hasher,
			resetTokens,
			deps.Sessions,
			appServices.AuthConfig{
				MinPasswordLength: cfg.Auth.MinPasswordLength,
				AllowDOBReset:     cfg.Auth.AllowDOBReset,
			},
			logger.Component("auth"),
		),
		Navigator: appServices.NewNavigatorService(repos.Contents, taxonomyOf(cfg), logger.Component("navigator")),
		Content:   appServices.NewContentService(repos.Contents, deps.FileStorage, logger.Component("content")),
		Export:    appServices.NewExportService(repos.Contents, logger.Component("export")),
	}

	deps.Controllers = appRoutes.Controllers{
		Auth:    appControllers.NewAuthController(deps.Services.Auth, deps.AuthMiddleware, binder, lgr),
		Profile: appControllers.NewProfileController(deps.Services.Auth, deps.Sessions, binder, lgr),
		Student: appControllers.NewStudentController(deps.Services.Navigator, lgr),
		Admin: appControllers.NewAdminController(
			deps.Services.Content,
			deps.Services.Export,
			deps.Services.Navigator,
			binder,
			lgr,
		),
		Health: appControllers.NewHealthController(repos.Health, lgr),
	}

	return deps, nil
}

// SeedDefaultData creates the default accounts when seeding is enabled.
// Failures are logged and do not stop the startup.
func SeedDefaultData(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, deps *Dependencies, lgr zerolog.Logger) {
	if !cfg.Seed.Enabled {
		return
	}
	opts := seed.Options{
		Admin:   seed.Account{Mobile: cfg.Seed.AdminMobile, Password: cfg.Seed.AdminPassword},
		Student: seed.Account{Mobile: cfg.Seed.StudentMobile, Password: cfg.Seed.StudentPassword},
	}
	if err := seed.CreateDefaultData(ctx, repos.Users, deps.Hasher, opts, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware, templates and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case strings.EqualFold(cfg.Server.Mode, gin.TestMode):
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.BodyLimit(cfg.Server.MaxRequestSize),
	)
	router.MaxMultipartMemory = cfg.Upload.MaxFileSize
	// Curriculum names may contain "/", links carry it as %2F inside one segment
	router.UseRawPath = true
	router.UnescapePathValues = true

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.FileStorage.BasePath())
	return router, nil
}
