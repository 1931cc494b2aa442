package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumelift/internal/config"
	resumeliftErrors "resumelift/internal/errors"
	"resumelift/internal/observability"
	"resumelift/internal/types"
)

func testServer(t *testing.T, apiKeys []string) *Server {
	t.Helper()

	logger, err := resumeliftErrors.New("error")
	if err != nil {
		t.Fatal(err)
	}

	appCfg := &config.Config{}
	appCfg.AI.CascadeOrder = []string{"gemini", "openai", "claude"}

	return NewServer(appCfg, ServerConfig{
		Host:           "localhost",
		Port:           "0",
		Version:        "test",
		APIKeys:        apiKeys,
		MaxRequestSize: 1024 * 1024,
	}, logger)
}

func disabledObservability(t *testing.T) *observability.ObservabilityManager {
	t.Helper()
	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{
		ServiceName: "resumelift-test",
		Enabled:     false,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return om
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"long key", "abcdefghijklmnop", "abcdefgh****"},
		{"short key", "short", "****"},
		{"exactly eight", "12345678", "****"},
		{"empty", "", "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskAPIKey(tt.key); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	called := false
	next := func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}

	t.Run("no keys configured skips auth", func(t *testing.T) {
		called = false
		s := testServer(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/optimize", nil)
		rec := httptest.NewRecorder()
		s.authMiddleware(next)(rec, req)

		if !called {
			t.Error("Expected handler to run without authentication")
		}
	})

	t.Run("missing key rejected", func(t *testing.T) {
		called = false
		s := testServer(t, []string{"secret-key-123"})

		req := httptest.NewRequest(http.MethodPost, "/optimize", nil)
		rec := httptest.NewRecorder()
		s.authMiddleware(next)(rec, req)

		if called {
			t.Error("Handler must not run without an API key")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid X-API-Key accepted", func(t *testing.T) {
		called = false
		s := testServer(t, []string{"secret-key-123"})

		req := httptest.NewRequest(http.MethodPost, "/optimize", nil)
		req.Header.Set("X-API-Key", "secret-key-123")
		rec := httptest.NewRecorder()
		s.authMiddleware(next)(rec, req)

		if !called {
			t.Error("Expected handler to run with a valid key")
		}
	})

	t.Run("valid Bearer token accepted", func(t *testing.T) {
		called = false
		s := testServer(t, []string{"secret-key-123"})

		req := httptest.NewRequest(http.MethodPost, "/optimize", nil)
		req.Header.Set("Authorization", "Bearer secret-key-123")
		rec := httptest.NewRecorder()
		s.authMiddleware(next)(rec, req)

		if !called {
			t.Error("Expected handler to run with a valid bearer token")
		}
	})

	t.Run("invalid key rejected", func(t *testing.T) {
		called = false
		s := testServer(t, []string{"secret-key-123"})

		req := httptest.NewRequest(http.MethodPost, "/optimize", nil)
		req.Header.Set("X-API-Key", "wrong-key")
		rec := httptest.NewRecorder()
		s.authMiddleware(next)(rec, req)

		if called {
			t.Error("Handler must not run with an invalid key")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})
}

func TestHealthHandlerDegradedWithoutProviders(t *testing.T) {
	s := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 when no provider is available, got %d", rec.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if response["status"] != "degraded" {
		t.Errorf("Expected status 'degraded', got %v", response["status"])
	}
}

func TestHealthHandlerRejectsNonGet(t *testing.T) {
	s := testServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestStatsHandler(t *testing.T) {
	s := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	s.statsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if response["service"] != "resumelift" {
		t.Errorf("Expected service 'resumelift', got %v", response["service"])
	}
	if _, ok := response["cascade"]; !ok {
		t.Error("Expected cascade info in stats response")
	}
}

func TestScoreHandler(t *testing.T) {
	s := testServer(t, nil)
	handler := s.createScoreHandler(disabledObservability(t))

	req := ScoreRequest{
		BaseScore:     70,
		ResumeContent: "EXPERIENCE\nBuilt Go services.",
		Suggestions: []types.Suggestion{
			{ID: "s1", Category: types.CategoryContent, Text: "Quantify achievements", IsApplied: true},
		},
		Keywords: []types.Keyword{
			{ID: "k1", Text: "kubernetes", IsApplied: false},
		},
	}

	rec := postJSON(t, handler, "/score", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var breakdown types.ScoreBreakdown
	if err := json.Unmarshal(rec.Body.Bytes(), &breakdown); err != nil {
		t.Fatal(err)
	}
	if breakdown.Base != 70 {
		t.Errorf("Expected base 70, got %v", breakdown.Base)
	}
	if breakdown.Total < breakdown.Base {
		t.Errorf("Applied suggestion must raise the total above the base, got %v", breakdown.Total)
	}
	if breakdown.Potential < breakdown.Total {
		t.Errorf("Potential %v cannot be below total %v", breakdown.Potential, breakdown.Total)
	}
}

func TestScoreHandlerRejectsBadContentType(t *testing.T) {
	s := testServer(t, nil)
	handler := s.createScoreHandler(disabledObservability(t))

	req := httptest.NewRequest(http.MethodPost, "/score", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without application/json, got %d", rec.Code)
	}
}

func TestSimulateHandler(t *testing.T) {
	s := testServer(t, nil)
	handler := s.createSimulateHandler(disabledObservability(t))

	base := ScoreRequest{
		BaseScore:     70,
		ResumeContent: "EXPERIENCE\nBuilt Go services.",
		Suggestions: []types.Suggestion{
			{ID: "s1", Category: types.CategoryContent, Text: "Quantify achievements"},
		},
		Keywords: []types.Keyword{
			{ID: "k1", Text: "kubernetes"},
		},
	}

	t.Run("suggestion", func(t *testing.T) {
		rec := postJSON(t, handler, "/score/simulate", SimulateRequest{
			ScoreRequest: base, ItemType: "suggestion", Index: 0,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var result types.SimulationResult
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatal(err)
		}
		if result.PointImpact <= 0 {
			t.Errorf("Expected positive point impact, got %v", result.PointImpact)
		}
		if result.NewScore <= base.BaseScore {
			t.Errorf("Expected new score above base, got %v", result.NewScore)
		}
	})

	t.Run("keyword out of range", func(t *testing.T) {
		rec := postJSON(t, handler, "/score/simulate", SimulateRequest{
			ScoreRequest: base, ItemType: "keyword", Index: 5,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for out-of-range index, got %d", rec.Code)
		}
	})

	t.Run("unknown item type", func(t *testing.T) {
		rec := postJSON(t, handler, "/score/simulate", SimulateRequest{
			ScoreRequest: base, ItemType: "section", Index: 0,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for unknown item type, got %d", rec.Code)
		}
	})
}

func TestValidateOptimizeRequest(t *testing.T) {
	s := testServer(t, nil)

	t.Run("empty resume rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		if s.validateOptimizeRequest(rec, &OptimizeRequest{ResumeContent: "   "}) {
			t.Error("Expected validation to fail for blank resume content")
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("valid request passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ok := s.validateOptimizeRequest(rec, &OptimizeRequest{
			ResumeContent:  "EXPERIENCE\nBuilt things.",
			JobDescription: "Builder wanted.",
		})
		if !ok {
			t.Error("Expected validation to pass")
		}
	})
}

func TestRateLimiter(t *testing.T) {
	logger, err := resumeliftErrors.New("error")
	if err != nil {
		t.Fatal(err)
	}

	limiter := NewRateLimiter(60, time.Minute, 2, logger)
	defer limiter.Close()

	t.Run("burst then deny", func(t *testing.T) {
		if !limiter.Allow("ip:10.0.0.1") || !limiter.Allow("ip:10.0.0.1") {
			t.Fatal("Expected burst capacity to admit the first requests")
		}
		if limiter.Allow("ip:10.0.0.1") {
			t.Error("Expected the third immediate request to be denied")
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		if !limiter.Allow("ip:10.0.0.2") {
			t.Error("A fresh key must not be affected by another key's usage")
		}
	})

	t.Run("stats", func(t *testing.T) {
		stats := limiter.GetStats()
		if stats["burst_capacity"] != 2 {
			t.Errorf("Expected burst capacity 2, got %v", stats["burst_capacity"])
		}
		if stats["active_limiters"].(int) < 2 {
			t.Errorf("Expected at least 2 active limiters, got %v", stats["active_limiters"])
		}
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
	}{
		{"remote addr", "192.168.1.10:4321", nil, "192.168.1.10"},
		{"x-forwarded-for", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:1234", map[string]string{"X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"invalid forwarded falls through", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "not-an-ip"}, "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestGetRateLimitKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/optimize", nil)
	req.RemoteAddr = "192.168.1.10:4321"
	req.Header.Set("X-API-Key", "my-key")

	if key := getRateLimitKey(req, true, true); key != "api:my-key" {
		t.Errorf("Expected API key preference, got %q", key)
	}
	if key := getRateLimitKey(req, false, true); key != "ip:192.168.1.10" {
		t.Errorf("Expected IP key, got %q", key)
	}
	if key := getRateLimitKey(req, false, false); key != "" {
		t.Errorf("Expected empty key when both modes disabled, got %q", key)
	}
}
