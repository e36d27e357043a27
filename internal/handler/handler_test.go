package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chunkdex/internal/config"
	"chunkdex/internal/database"
	"chunkdex/internal/digestcache"
	"chunkdex/internal/metrics"
	"chunkdex/internal/repository"
	"chunkdex/internal/scanner"
	"chunkdex/internal/service"
	"chunkdex/pkg/chunk"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(format string, args ...any) {}
func (noopLogger) Info(format string, args ...any)  {}
func (noopLogger) Warn(format string, args ...any)  {}
func (noopLogger) Error(format string, args ...any) {}
func (noopLogger) Fatal(format string, args ...any) {}

func newTestHandler(t *testing.T) (*Handler, *repository.IndexRepository) {
	t.Helper()
	dir := t.TempDir()
	mgr := database.NewManager(config.DatabaseConfig{
		DataDir:         dir,
		DatabaseName:    "test.db",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}, noopLogger{})
	require.NoError(t, mgr.Initialize())
	t.Cleanup(func() { mgr.Close() })

	cache, err := digestcache.Open(filepath.Join(dir, "digest"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	repo := repository.New(mgr)
	sc := scanner.New(config.ScanConfig{FileIncludePatterns: config.DefaultFileIncludePatterns})
	mr, err := metrics.New()
	require.NoError(t, err)
	svc := service.New(sc, cache, repo, mr, noopLogger{}, 0)

	return New(repo, svc, noopLogger{}), repo
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestHandler(t)
	engine := gin.New()
	engine.GET("/healthz", h.Healthz)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestLookupRequiresID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestHandler(t)
	engine := gin.New()
	engine.GET("/lookup", h.Lookup)

	req := httptest.NewRequest(http.MethodGet, "/lookup", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLookupReturnsMatchesFromRepository(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, repo := newTestHandler(t)

	fileID, err := repo.UpsertFile("a.c", "digest1", "c")
	require.NoError(t, err)
	require.NoError(t, repo.InsertRecords(fileID, []chunk.Record{
		{Line: 1, Column: 5, Scope: "<global>", IDKind: chunk.IDFunction, SubKind: chunk.SubKindDefinition, Name: "print_event_filter"},
	}))

	engine := gin.New()
	engine.GET("/lookup", h.Lookup)

	req := httptest.NewRequest(http.MethodGet, "/lookup?id=print_event_filter&defs=1", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "print_event_filter")
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestLookupBodyFiltersCombineWithQueryFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, repo := newTestHandler(t)

	fileID, err := repo.UpsertFile("a.c", "digest1", "c")
	require.NoError(t, err)
	require.NoError(t, repo.InsertRecords(fileID, []chunk.Record{
		{Line: 1, Column: 5, Scope: "<global>", IDKind: chunk.IDFunction, SubKind: chunk.SubKindReference, Name: "f"},
	}))

	engine := gin.New()
	engine.POST("/lookup", h.Lookup)

	req := httptest.NewRequest(http.MethodPost, "/lookup?id=f", strings.NewReader(`{"refs":true}`))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestIndexRequiresRoot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestHandler(t)
	engine := gin.New()
	engine.POST("/index", h.Index)

	req := httptest.NewRequest(http.MethodPost, "/index", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndexRunsAgainstRoot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestHandler(t)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.c"), []byte("int f(void) { return 0; }\n"), 0o644))

	engine := gin.New()
	engine.POST("/index", h.Index)

	body := `{"root":"` + root + `"}`
	req := httptest.NewRequest(http.MethodPost, "/index", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"files_indexed":1`)
}
