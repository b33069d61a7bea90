package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/foliogen/internal/middleware"
	"github.com/hitoshi/foliogen/internal/model"
	"github.com/hitoshi/foliogen/internal/normalizer"
	"github.com/hitoshi/foliogen/internal/portfolio"
)

const routerTestSecret = "router-test-secret"

// newTestRouter はテスト用のルーターを構築するヘルパー。
func newTestRouter(t *testing.T, deps *RouterDeps) http.Handler {
	t.Helper()

	if deps.AuthSecret == "" {
		deps.AuthSecret = routerTestSecret
	}
	if deps.CORSAllowedOrigin == "" {
		deps.CORSAllowedOrigin = "http://localhost:3000"
	}
	if deps.RateLimiter == nil {
		rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
		t.Cleanup(rl.Stop)
		deps.RateLimiter = rl
	}
	if deps.ProfileService == nil {
		deps.ProfileService = &mockProfileService{}
	}
	if deps.PortfolioService == nil {
		deps.PortfolioService = &mockPortfolioService{}
	}
	if deps.EntitlementService == nil {
		deps.EntitlementService = &mockEntitlementService{}
	}

	return NewRouter(deps)
}

func TestRouter_Healthz_NoAuth(t *testing.T) {
	r := newTestRouter(t, &RouterDeps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestRouter_Healthz_Unhealthy_Returns503(t *testing.T) {
	r := newTestRouter(t, &RouterDeps{
		Healthcheck: func() error { return context.DeadlineExceeded },
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusServiceUnavailable)
	}
}

func TestRouter_Tiers_NoAuth(t *testing.T) {
	r := newTestRouter(t, &RouterDeps{})

	req := httptest.NewRequest(http.MethodGet, "/api/tiers", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestRouter_ProtectedRoutes_RequireAuth(t *testing.T) {
	r := newTestRouter(t, &RouterDeps{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/profiles/import"},
		{http.MethodPost, "/api/profiles/validate"},
		{http.MethodPost, "/api/portfolios"},
		{http.MethodGet, "/api/portfolios"},
		{http.MethodGet, "/api/portfolios/pf-1"},
		{http.MethodDelete, "/api/portfolios/pf-1"},
		{http.MethodGet, "/api/entitlement"},
		{http.MethodGet, "/api/entitlement/check"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Result().StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
			}
		})
	}
}

func TestRouter_ImportFlow_EndToEnd(t *testing.T) {
	svc := &mockProfileService{
		importFn: func(ctx context.Context, input string, mode normalizer.Mode) (*portfolio.ImportResult, error) {
			return &portfolio.ImportResult{
				Profile: &model.Profile{Personal: model.PersonalInfo{Name: "山田太郎"}},
				Report:  model.ValidationReport{Valid: true},
			}, nil
		},
	}

	r := newTestRouter(t, &RouterDeps{ProfileService: svc})

	body := `{"input": "{\"name\":\"山田太郎\"}", "mode": "structured"}`
	req := httptest.NewRequest(http.MethodPost, "/api/profiles/import", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+middleware.SignToken("user-e2e", routerTestSecret))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got importProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Profile.Personal.Name != "山田太郎" {
		t.Errorf("name = %q, want %q", got.Profile.Personal.Name, "山田太郎")
	}
}

func TestRouter_GenerateFlow_EndToEnd(t *testing.T) {
	svc := &mockPortfolioService{
		generateFn: func(ctx context.Context, input portfolio.GenerateInput) (*model.Portfolio, error) {
			if input.UserID != "user-e2e" {
				t.Errorf("userID = %q, want %q", input.UserID, "user-e2e")
			}
			return &model.Portfolio{ID: "pf-1", Title: "タイトル", CreatedAt: time.Now()}, nil
		},
	}

	r := newTestRouter(t, &RouterDeps{PortfolioService: svc})

	body := `{"profile": {"personal": {"name": "山田太郎"}}, "model": "gpt-4o-mini"}`
	req := httptest.NewRequest(http.MethodPost, "/api/portfolios", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+middleware.SignToken("user-e2e", routerTestSecret))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusCreated)
	}
}

func TestRouter_ImportRateLimit_Applied(t *testing.T) {
	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     100,
		GeneralBurst:    200,
		ImportRate:      1,
		ImportBurst:     1,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(rl.Stop)

	r := newTestRouter(t, &RouterDeps{RateLimiter: rl})

	token := middleware.SignToken("user-limited", routerTestSecret)

	body := `{"input": "{}", "mode": "structured"}`
	req1 := httptest.NewRequest(http.MethodPost, "/api/profiles/import", bytes.NewBufferString(body))
	req1.Header.Set("Authorization", "Bearer "+token)
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, req1)

	if w1.Result().StatusCode != http.StatusOK {
		t.Fatalf("request 1: status = %d, want %d", w1.Result().StatusCode, http.StatusOK)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/profiles/import", bytes.NewBufferString(body))
	req2.Header.Set("Authorization", "Bearer "+token)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)

	if w2.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("request 2: status = %d, want %d", w2.Result().StatusCode, http.StatusTooManyRequests)
	}
}

func TestRouter_SecurityHeaders_Present(t *testing.T) {
	r := newTestRouter(t, &RouterDeps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if got := w.Result().Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", got, "nosniff")
	}
}
