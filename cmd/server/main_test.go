package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/iho/mmconsole/internal/infrastructure/config"
	"github.com/iho/mmconsole/internal/infrastructure/metrics"
)

func fakeCoreBanking(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /accounts/1001", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"accountNo":"1001","name":"call money","currency":"BDT","glNumber":"1102001"}`)
	})
	mux.HandleFunc("GET /accounts/1001/balance", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"accountCcy":"BDT","previousDayOpeningBalance":"1000","todayCredits":"0","todayDebits":"0"}`)
	})
	mux.HandleFunc("GET /accounts/1001/overdraft", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"isOverdraftAccount":false}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	return cfg
}

func testMetrics() *metrics.Metrics {
	return metrics.NewWithRegisterer(prometheus.NewRegistry())
}

func TestBuild_HTTPBackendWithMemoryDrafts(t *testing.T) {
	cfg := testConfig(t)
	cfg.AccountBackend = config.BackendHTTP
	cfg.DraftStore = config.DraftStoreMemory
	cfg.CoreBankingURL = fakeCoreBanking(t).URL
	cfg.CoreBankingMaxRetries = 0

	a, err := build(context.Background(), cfg, zerolog.Nop(), testMetrics())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer a.close()

	if a.limiter == nil {
		t.Fatalf("expected default rate limit to install a limiter")
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1001", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"1001"`) {
		t.Fatalf("expected account lookup through core banking, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/drafts/", strings.NewReader(`{}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected draft creation, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBuild_RedisDraftStore(t *testing.T) {
	s := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.AccountBackend = config.BackendHTTP
	cfg.DraftStore = config.DraftStoreRedis
	cfg.CoreBankingURL = fakeCoreBanking(t).URL
	cfg.RedisURL = "redis://" + s.Addr()
	cfg.RateLimitRPS = 0

	a, err := build(context.Background(), cfg, zerolog.Nop(), testMetrics())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer a.close()

	if a.limiter != nil {
		t.Fatalf("expected rate limiting to be disabled")
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected ready with redis up, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/drafts/", strings.NewReader(`{}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected draft creation, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(s.Keys()) == 0 {
		t.Fatalf("expected draft to be stored in redis")
	}
}

func TestBuild_RedisUnavailable(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	cfg := testConfig(t)
	cfg.AccountBackend = config.BackendHTTP
	cfg.DraftStore = config.DraftStoreRedis
	cfg.RedisURL = "redis://" + addr

	if _, err := build(context.Background(), cfg, zerolog.Nop(), testMetrics()); err == nil {
		t.Fatalf("expected build to fail without redis")
	}
}

func TestBuild_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.AccountBackend = "mainframe"

	if _, err := build(context.Background(), cfg, zerolog.Nop(), testMetrics()); err == nil {
		t.Fatalf("expected unknown backend to be rejected")
	}
}
