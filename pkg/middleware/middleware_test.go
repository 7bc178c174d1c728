package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/JaimeStill/stance/pkg/middleware"
)

func TestChainOrder(t *testing.T) {
	var order []string
	var mw middleware.Chain

	mw.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "first")
			next.ServeHTTP(w, r)
		})
	})

	mw.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "second")
			next.ServeHTTP(w, r)
		})
	})

	handler := mw.Then(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if want := []string{"first", "second", "handler"}; !slices.Equal(order, want) {
		t.Errorf("order: got %v, want %v", order, want)
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func enabledCORS() *middleware.CORSConfig {
	return &middleware.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"X-Stance-Report-Id", "Content-Disposition"},
		MaxAge:         3600,
	}
}

func TestCORSDisabled(t *testing.T) {
	cfg := &middleware.CORSConfig{Enabled: false}
	handler := middleware.CORS(cfg)(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://example.com")
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS headers should not be set when disabled")
	}
}

func TestCORSAllowedOrigin(t *testing.T) {
	handler := middleware.CORS(enabledCORS())(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/classify", nil)
	req.Header.Set("Origin", "http://example.com")
	handler.ServeHTTP(rec, req)

	h := rec.Header()
	if got := h.Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Errorf("allow-origin: got %q", got)
	}
	if got := h.Get("Access-Control-Allow-Methods"); got != "GET, POST" {
		t.Errorf("allow-methods: got %q", got)
	}
	if got := h.Get("Access-Control-Expose-Headers"); got != "X-Stance-Report-Id, Content-Disposition" {
		t.Errorf("expose-headers: got %q", got)
	}
	if got := h.Get("Access-Control-Max-Age"); got != "3600" {
		t.Errorf("max-age: got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	handler := middleware.CORS(enabledCORS())(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://evil.com")
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS headers should not be set for disallowed origin")
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	handler := middleware.CORS(enabledCORS())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/tables/classify", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rec.Code)
	}
	if called {
		t.Error("preflight should not reach the handler")
	}
}

func TestCORSFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_CORS_ENABLED", "true")
	t.Setenv("TEST_CORS_ORIGINS", "http://a.com, ,http://b.com")
	t.Setenv("TEST_CORS_EXPOSED", "X-Stance-Rows")

	cfg := &middleware.CORSConfig{}
	env := &middleware.CORSEnv{
		Enabled:        "TEST_CORS_ENABLED",
		Origins:        "TEST_CORS_ORIGINS",
		ExposedHeaders: "TEST_CORS_EXPOSED",
	}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if !cfg.Enabled {
		t.Error("enabled: got false, want true")
	}
	if want := []string{"http://a.com", "http://b.com"}; !slices.Equal(cfg.Origins, want) {
		t.Errorf("origins: got %v, want %v", cfg.Origins, want)
	}
	if want := []string{"X-Stance-Rows"}; !slices.Equal(cfg.ExposedHeaders, want) {
		t.Errorf("exposed headers: got %v", cfg.ExposedHeaders)
	}
	if cfg.MaxAge != 3600 {
		t.Errorf("max_age default: got %d", cfg.MaxAge)
	}
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		write     bool
		wantLevel string
	}{
		{"implicit 200", 0, true, "level=INFO"},
		{"client error", http.StatusBadRequest, false, "level=INFO"},
		{"server error", http.StatusBadGateway, false, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				if tt.write {
					w.Write([]byte("ok"))
				}
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/categories?x=1", nil))

			out := buf.String()
			want := tt.status
			if want == 0 {
				want = http.StatusOK
			}
			if !strings.Contains(out, "status="+strconv.Itoa(want)) {
				t.Errorf("log missing status %d: %s", want, out)
			}
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("log level: want %s in %s", tt.wantLevel, out)
			}
			if !strings.Contains(out, `uri="/api/categories?x=1"`) {
				t.Errorf("log missing uri: %s", out)
			}
		})
	}
}
