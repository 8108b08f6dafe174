package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlake/fundbench/internal/events"
	"github.com/meridianlake/fundbench/internal/metrics"
	"github.com/meridianlake/fundbench/internal/modules/auth"
	"github.com/meridianlake/fundbench/internal/modules/benchmark"
	benchmarkhandlers "github.com/meridianlake/fundbench/internal/modules/benchmark/handlers"
	"github.com/meridianlake/fundbench/internal/modules/catalog"
	"github.com/meridianlake/fundbench/internal/modules/charts"
)

// staticFetcher serves a fixed CSV catalog
type staticFetcher struct{}

func (staticFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	csv := "ASSET CLASS,VINTAGE,FM REGION,FUND SIZE (USD MN),NET IRR (%),NET TVPI (X),NET DPI (X)\n" +
		"Venture Capital,2010,Europe,75,12.5,1.8,0.9\n"
	return []byte(csv), nil
}

func setupTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	log := zerolog.New(nil).Level(zerolog.Disabled)
	bus := events.NewBus(log)

	loader := catalog.NewLoader(catalog.LoaderConfig{
		Fetcher:  staticFetcher{},
		EventBus: bus,
		Source:   "funds.csv",
		Log:      log,
	})
	_, err := loader.Load(context.Background())
	require.NoError(t, err)

	authService := auth.NewService([]string{"analyst@meridianlake.com"}, "test-secret", time.Hour, log)
	benchmarkService := benchmark.NewService(loader, log).WithYearFunc(func() int { return 2024 })

	srv := New(Config{
		Port:             0,
		DevMode:          true,
		Log:              log,
		AuthService:      authService,
		AuthHandler:      auth.NewHandler(authService, log),
		CatalogHandler:   catalog.NewHandler(loader, log),
		BenchmarkHandler: benchmarkhandlers.NewHandler(benchmarkService, charts.NewService(log), nil, log),
		EventBus:         bus,
	})

	token, err := authService.Login("analyst@meridianlake.com")
	require.NoError(t, err)

	return srv, token
}

func TestHealthIsPublic(t *testing.T) {
	srv, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fundbench")
}

func TestAPIRequiresSession(t *testing.T) {
	srv, token := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/benchmark/options", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/benchmark/options", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginFlow(t *testing.T) {
	srv, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email": "analyst@meridianlake.com"}`))
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "analyst@meridianlake.com")
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	srv, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email": "intruder@example.com"}`))
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalogStatus(t *testing.T) {
	srv, token := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Loaded      bool   `json:"loaded"`
		RecordCount int    `json:"record_count"`
		Source      string `json:"source"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Loaded)
	assert.Equal(t, 1, body.RecordCount)
	assert.Equal(t, "funds.csv", body.Source)
}

func TestMetricsPathLabelUsesRoutePattern(t *testing.T) {
	srv, _ := setupTestServer(t)
	m := metrics.New()
	srv.cfg.Metrics = m

	// A matched route and a scanner-style probe path
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/wp-admin/setup-config.php?step=1", nil)
	srv.router.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `path="/health"`)
	// Raw request paths must never become label values
	assert.NotContains(t, body, "wp-admin")
}

func TestStartReturnsServerClosedAfterShutdown(t *testing.T) {
	srv, _ := setupTestServer(t)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Give the listener a moment to bind before shutting down
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}

func TestBenchmarkEndToEnd(t *testing.T) {
	srv, token := setupTestServer(t)

	query := `{
		"fund_name": "Alpha Fund I",
		"asset_class": "Venture Capital (all stages)",
		"vintage": 2010,
		"geography": "Europe",
		"fund_size": "$50mn-$100mn",
		"net_irr": 12.5,
		"net_tvpi": 1.8,
		"net_dpi": 0.9
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/benchmark/", strings.NewReader(query))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"match_count":1`)
}
