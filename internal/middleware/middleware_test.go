package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"voxdesk/internal/logger"
	"voxdesk/internal/metrics"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusCreated)
}

func TestRateLimiterPerTenant(t *testing.T) {
	rl := NewRateLimiter(0, 2)
	h := rl.Middleware(http.HandlerFunc(okHandler))

	send := func(tenant string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/calls", nil)
		req.Header.Set(TenantHeader, tenant)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	before := testutil.ToFloat64(metrics.HttpRateLimitRejectionsTotal)
	assert.Equal(t, http.StatusCreated, send("a"))
	assert.Equal(t, http.StatusCreated, send("a"))
	assert.Equal(t, http.StatusTooManyRequests, send("a"))
	assert.Equal(t, http.StatusCreated, send("b"))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HttpRateLimitRejectionsTotal))
}

func TestRateLimiterRejectionBody(t *testing.T) {
	h := NewRateLimiter(0, 1).Middleware(http.HandlerFunc(okHandler))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/calls", nil)
		req.Header.Set(TenantHeader, "tenant-z")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusCreated, send().Code)
	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"`+ThrottledMessage+`"}`, rec.Body.String())
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Metrics, Logging(logger.Nop()))
	router.HandleFunc("/api/contacts/{id}", okHandler).Methods(http.MethodGet)

	counter := metrics.HttpRequestsTotal.WithLabelValues("/api/contacts/{id}", "201", http.MethodGet)
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contacts/abc", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestLoggingTagsTenant(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	h := Logging(log)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set(TenantHeader, "tenant-a")
	h.ServeHTTP(httptest.NewRecorder(), req)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "request", entries[0].Message)
	assert.Equal(t, "tenant-a", first["sub_account_id"])
	assert.Equal(t, "/api/contacts", first["path"])
	assert.EqualValues(t, http.StatusCreated, first["status"])

	second := entries[1].ContextMap()
	assert.NotContains(t, second, "sub_account_id")
	assert.Equal(t, "/health", second["path"])
}
