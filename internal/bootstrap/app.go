package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	googleauth "toolfinder-backend/internal/auth"
	"toolfinder-backend/internal/catalog"
	"toolfinder-backend/internal/llm"
	anthropicllm "toolfinder-backend/internal/llm/anthropic"
	openaillm "toolfinder-backend/internal/llm/openai"
	"toolfinder-backend/internal/profiles"
	"toolfinder-backend/internal/recommendations"
	"toolfinder-backend/internal/recommendations/engine"
	"toolfinder-backend/internal/services/health"
	"toolfinder-backend/internal/shared/config"
	"toolfinder-backend/internal/shared/server"
	"toolfinder-backend/internal/shared/server/middleware"
	"toolfinder-backend/internal/shared/storage/db"
	"toolfinder-backend/internal/shared/storage/object"
	localstore "toolfinder-backend/internal/shared/storage/object/local"
	s3store "toolfinder-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies and the router built from them.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	SQLite    *sqlx.DB
	Snapshots object.Store
	LLM       llm.Completer

	CatalogRepo            catalog.Repo
	ProfilesRepo           profiles.Repo
	CatalogService         *catalog.Service
	ProfilesService        *profiles.Service
	RecommendationsService *recommendations.Service
	GoogleAuth             *googleauth.GoogleService
	Health                 *health.Service
}

// Build prepares dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	app := &App{Config: cfg}

	snapshots, err := buildSnapshotStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Snapshots = snapshots

	if err := buildStorage(ctx, app); err != nil {
		app.Close()
		return nil, err
	}
	if err := seedCatalog(ctx, app); err != nil {
		app.Close()
		return nil, err
	}

	completer, err := buildCompleter(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.LLM = completer

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:                 app.Config,
		CatalogHandler:         catalog.NewHandler(app.CatalogService),
		ProfileHandler:         profiles.NewHandler(app.ProfilesService),
		RecommendationsHandler: recommendations.NewHandler(app.RecommendationsService),
		GoogleAuth:             app.GoogleAuth,
		Health:                 app.Health,
		Limiter:                middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Close releases database handles.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.SQLite != nil {
		_ = a.SQLite.Close()
	}
}

func buildStorage(ctx context.Context, app *App) error {
	cfg := app.Config
	switch cfg.CatalogStore {
	case "postgres":
		sqlDB, err := connectPostgres(ctx, cfg)
		if err != nil {
			return err
		}
		if sqlDB != nil {
			app.DB = sqlDB
			app.CatalogRepo = &catalog.PGRepo{DB: sqlDB}
			app.ProfilesRepo = &profiles.PGRepo{DB: sqlDB}
			return nil
		}
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." && cfg.SQLitePath != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		sdb, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		if err := db.RunMigrations(ctx, sdb.DB, db.DialectSQLite); err != nil {
			_ = sdb.Close()
			return err
		}
		app.SQLite = sdb
		app.CatalogRepo = &catalog.SQLiteRepo{DB: sdb}
		app.ProfilesRepo = profiles.NewMemoryRepo()
		log.Printf("bootstrap: sqlite catalog at %s; profiles are in memory", cfg.SQLitePath)
		return nil
	}
	app.CatalogRepo = catalog.NewMemoryRepo()
	app.ProfilesRepo = profiles.NewMemoryRepo()
	return nil
}

// connectPostgres returns a nil handle in dev-like environments when the database
// is unreachable so the service still starts on memory repositories.
func connectPostgres(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB, db.DialectPostgres)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database unavailable; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// seedCatalog fills an empty catalog from the configured snapshot, or with the
// demo catalog outside production.
func seedCatalog(ctx context.Context, app *App) error {
	existing, err := app.CatalogRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("check catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	if name := strings.TrimSpace(app.Config.CatalogSeedKey); name != "" {
		n, err := catalog.ImportSnapshot(ctx, app.CatalogRepo, app.Snapshots, name)
		if err != nil {
			return fmt.Errorf("seed catalog from snapshot %q: %w", name, err)
		}
		log.Printf("bootstrap: seeded %d tools from snapshot %s", n, name)
		return nil
	}
	if app.Config.Env == "production" {
		log.Printf("bootstrap: catalog is empty")
		return nil
	}
	n, err := catalog.Seed(ctx, app.CatalogRepo, catalog.DemoCatalog())
	if err != nil {
		return fmt.Errorf("seed demo catalog: %w", err)
	}
	log.Printf("bootstrap: seeded %d demo tools", n)
	return nil
}

func buildSnapshotStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.SnapshotStore {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("SNAPSHOT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildCompleter returns nil when no provider is configured; the engine then
// ranks without query expansion and explanations fall back to the rationale.
func buildCompleter(cfg config.Config) (llm.Completer, error) {
	switch cfg.LLMProvider {
	case "openai":
		c, err := openaillm.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		return llm.WithRetry(c, "openai"), nil
	case "anthropic":
		c, err := anthropicllm.NewClient(cfg.AnthropicAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		return llm.WithRetry(c, "anthropic"), nil
	default:
		return nil, nil
	}
}

func buildServices(app *App) {
	cfg := app.Config
	app.CatalogService = catalog.NewService(app.CatalogRepo)
	app.ProfilesService = profiles.NewService(app.ProfilesRepo)
	app.RecommendationsService = &recommendations.Service{
		Engine: engine.New(recommendations.NewLLMExpander(app.LLM), engine.Options{
			DiversityCap:     cfg.DiversityCap,
			ExpansionTimeout: cfg.ExpansionTimeout,
			DefaultLimit:     cfg.DefaultLimit,
		}),
		Catalog:   app.CatalogService,
		Sessions:  app.ProfilesService,
		Explainer: recommendations.NewExplainer(app.LLM),
	}
	app.GoogleAuth = googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		app.ProfilesService,
	)

	app.Health = health.NewService()
	if app.DB != nil {
		app.Health.Register("database", db.Check(app.DB, "postgres"))
	}
	if app.SQLite != nil {
		app.Health.Register("sqlite", db.Check(app.SQLite.DB, "sqlite"))
	}
	app.Health.Register("catalog", func(ctx context.Context) error {
		tools, err := app.CatalogRepo.List(ctx)
		if err != nil {
			return err
		}
		if len(tools) == 0 {
			return errors.New("catalog is empty")
		}
		return nil
	})
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
