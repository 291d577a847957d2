package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/collegeerp/internal/app/controllers"
	appMigrations "github.com/yigit/collegeerp/internal/app/migrations"
	"github.com/yigit/collegeerp/internal/app/pages"
	appRepos "github.com/yigit/collegeerp/internal/app/repositories"
	"github.com/yigit/collegeerp/internal/app/repositories/memory"
	appRoutes "github.com/yigit/collegeerp/internal/app/routes"
	appServices "github.com/yigit/collegeerp/internal/app/services"
	"github.com/yigit/collegeerp/internal/config"
	"github.com/yigit/collegeerp/internal/db"
	appMiddleware "github.com/yigit/collegeerp/internal/middleware"
	pkgAuth "github.com/yigit/collegeerp/internal/pkg/auth"
	"github.com/yigit/collegeerp/internal/pkg/helpers"
	"github.com/yigit/collegeerp/internal/pkg/logger"
	"github.com/yigit/collegeerp/internal/pkg/oidc"
	"github.com/yigit/collegeerp/internal/pkg/validation"
	"github.com/yigit/collegeerp/internal/seed"
	"github.com/yigit/collegeerp/migrations"
)

// DefaultConfigPath is where the config file is looked up relative to the working directory
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    *appRoutes.Controllers
	Pages          *pages.Handler
	SSO            *pages.SSOHandler // nil when single sign-on is disabled
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFromStrings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
// The memory driver needs neither; it returns a nil database.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, *appRepos.Repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using the in-memory database; data is lost on restart")
		return nil, memory.NewRepositories(memory.Open()), nil
	}

	lgr.Info().Str("host", cfg.Database.Host).Str("dbname", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := RunMigrations(ctx, cfg, database, lgr); err != nil {
		database.Close()
		return nil, nil, err
	}
	return database, appRepos.NewRepositories(database), nil
}

// RunMigrations applies the SQL migrations, preferring the configured
// directory over the copy embedded in the binary
func RunMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database, lgr)

	var err error
	if dir := cfg.Database.MigrationsDir; dir != "" {
		if _, statErr := os.Stat(dir); statErr == nil {
			err = migrator.MigrateFromDirectory(ctx, dir)
		} else {
			lgr.Info().Str("path", dir).Msg("Migrations directory not found, using embedded migrations")
			err = migrator.Migrate(ctx, migrations.Files)
		}
	} else {
		err = migrator.Migrate(ctx, migrations.Files)
	}
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes services, controllers and page handlers.
// With single sign-on enabled the provider is discovered here, so ctx bounds
// the discovery request.
func BuildDependencies(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) (*Dependencies, error) {
	pkgAuth.SetBcryptCost(cfg.Auth.BcryptCost)
	if err := validation.Setup(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	deps := &Dependencies{Repos: repos, Logger: lgr}

	mapping := oidc.RoleMapping{AdminRole: cfg.OIDC.AdminRole, ViewRole: cfg.OIDC.ViewRole}
	deps.Services = appServices.NewServices(repos, mapping, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Services.Auth, lgr.With().Str("component", "auth").Logger())

	controllerLogger := lgr.With().Str("component", "api").Logger()
	deps.Controllers = &appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.Services.Auth, deps.Services.Catalog, controllerLogger),
		Attendance: appControllers.NewAttendanceController(deps.Services.Attendance, controllerLogger),
		Marks:      appControllers.NewMarksController(deps.Services.Marks, controllerLogger),
		Timetable:  appControllers.NewTimetableController(deps.Services.Timetable, controllerLogger),
		Admin:      appControllers.NewAdminController(deps.Services.Catalog, controllerLogger),
	}

	pageLogger := lgr.With().Str("component", "pages").Logger()
	var provider oidc.Authenticator
	if cfg.OIDC.Enabled {
		p, err := oidc.NewProvider(ctx, oidc.Config{
			IssuerURL:             cfg.OIDC.IssuerURL,
			ClientID:              cfg.OIDC.ClientID,
			ClientSecret:          cfg.OIDC.ClientSecret,
			RedirectURL:           cfg.OIDC.RedirectURL,
			Scopes:                cfg.OIDC.Scopes,
			PostLogoutRedirectURL: cfg.OIDC.PostLogoutRedirectURL,
		})
		if err != nil {
			lgr.Error().Err(err).Str("issuer", cfg.OIDC.IssuerURL).Msg("Failed to initialize OIDC provider")
			return nil, err
		}
		provider = p

		states := pkgAuth.NewStateService(pkgAuth.StateConfig{
			SecretKey: cfg.OIDCStateSecret(),
			TTL:       helpers.ParseDuration(cfg.OIDC.StateTTL, 10*time.Minute),
			Issuer:    cfg.Server.BaseURL,
		})
		deps.SSO = pages.NewSSOHandler(provider, states, deps.Services, pageLogger)
		lgr.Info().Str("issuer", cfg.OIDC.IssuerURL).Msg("Single sign-on enabled")
	}
	deps.Pages = pages.NewHandler(deps.Services, provider, pageLogger)

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

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	store := cookie.NewStore([]byte(cfg.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Server.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(cfg.Server.SessionName, store))

	tmpl, err := pages.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	appRoutes.SetupPageRoutes(router, deps.Pages, deps.SSO, deps.AuthMiddleware)

	return router, nil
}

// SeedIfEnabled loads the demo data when configured; the memory driver is always seeded
func SeedIfEnabled(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) {
	if !cfg.Database.Seed && cfg.Database.Driver != config.DriverMemory {
		return
	}
	if err := seed.CreateDefaultData(ctx, repos, seed.DefaultOptions, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}
