package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolfinder-backend/internal/catalog"
	"toolfinder-backend/internal/shared/config"
	localstore "toolfinder-backend/internal/shared/storage/object/local"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return config.Config{
		Env:            "dev",
		CatalogStore:   "memory",
		SnapshotStore:  "local",
		LocalStoreDir:  t.TempDir(),
		LLMProvider:    "none",
		DiversityCap:   0.25,
		DefaultLimit:   20,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}
}

func TestBuildMemorySeedsDemoCatalog(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer app.Close()

	tools, err := app.CatalogRepo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tools, len(catalog.DemoCatalog()))
	assert.Nil(t, app.LLM)

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/tools/figma", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestBuildSQLiteCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.CatalogStore = "sqlite"
	cfg.SQLitePath = ":memory:"

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.SQLite)
	_, isSQLite := app.CatalogRepo.(*catalog.SQLiteRepo)
	assert.True(t, isSQLite)
	stats, err := app.CatalogService.Categories(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, stats)
}

func TestBuildSeedsFromSnapshot(t *testing.T) {
	cfg := testConfig(t)
	store := localstore.New(cfg.LocalStoreDir)

	source := catalog.NewMemoryRepo()
	_, err := catalog.Seed(context.Background(), source, catalog.DemoCatalog()[:3])
	require.NoError(t, err)
	_, _, err = catalog.ExportSnapshot(context.Background(), source, store, "small", time.Now())
	require.NoError(t, err)

	cfg.CatalogSeedKey = "small"
	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	tools, err := app.CatalogRepo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tools, 3)
}

func TestBuildFailsOnMissingSnapshot(t *testing.T) {
	cfg := testConfig(t)
	cfg.CatalogSeedKey = "missing"
	_, err := Build(context.Background(), cfg)
	assert.Error(t, err)
}

func TestPostgresFallsBackInDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.CatalogStore = "postgres"

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()
	assert.Nil(t, app.DB)
	_, isMemory := app.CatalogRepo.(*catalog.MemoryRepo)
	assert.True(t, isMemory)

	cfg.Env = "production"
	_, err = Build(context.Background(), cfg)
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestBuildCompleter(t *testing.T) {
	cfg := testConfig(t)

	c, err := buildCompleter(cfg)
	require.NoError(t, err)
	assert.Nil(t, c)

	cfg.LLMProvider = "openai"
	_, err = buildCompleter(cfg)
	assert.Error(t, err, "model and key are required")

	cfg.LLMModel = "gpt-4o-mini"
	cfg.OpenAIAPIKey = "k"
	c, err = buildCompleter(cfg)
	require.NoError(t, err)
	assert.NotNil(t, c)

	cfg.LLMProvider = "anthropic"
	_, err = buildCompleter(cfg)
	assert.Error(t, err)
}

func TestSnapshotStoreRequiresBucket(t *testing.T) {
	cfg := testConfig(t)
	cfg.SnapshotStore = "s3"
	_, err := buildSnapshotStore(context.Background(), cfg)
	assert.ErrorContains(t, err, "S3_BUCKET")
}

func TestHealthReportsCatalog(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer app.Close()

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"catalog":"ok"`)
}
