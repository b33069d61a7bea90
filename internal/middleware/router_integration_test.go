package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// TestRouterIntegration_ProtectedRoute_WithMiddlewareChain は
// Auth -> RateLimit のミドルウェアチェーンがchi.Routerで正しく動作することを検証する。
func TestRouterIntegration_ProtectedRoute_WithMiddlewareChain(t *testing.T) {
	const secret = "router-test-secret"

	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     100,
		GeneralBurst:    200,
		ImportRate:      1,
		ImportBurst:     1,
		CleanupInterval: 1 * time.Minute,
	})
	defer rl.Stop()

	r := chi.NewRouter()

	// ヘルスチェック（認証不要）
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// 認証が必要なルートグループ
	r.Group(func(r chi.Router) {
		r.Use(NewAuthMiddleware(secret))
		r.Use(rl.GeneralMiddleware())

		r.Get("/api/portfolios", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := UserIDFromContext(r.Context())
			json.NewEncoder(w).Encode(map[string]string{"user_id": userID})
		})

		r.With(rl.ImportMiddleware()).Post("/api/profiles/import", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := UserIDFromContext(r.Context())
			json.NewEncoder(w).Encode(map[string]string{"user_id": userID, "status": "imported"})
		})
	})

	token := SignToken("user-router-test", secret)

	// テスト1: GET /api/portfolios は認証ありで通る
	t.Run("GET_portfolios_with_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/portfolios", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
		}

		var body map[string]string
		json.NewDecoder(w.Result().Body).Decode(&body)
		if body["user_id"] != "user-router-test" {
			t.Errorf("user_id = %q, want %q", body["user_id"], "user-router-test")
		}
	})

	// テスト2: GET /api/portfolios は認証なしで401
	t.Run("GET_portfolios_no_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/portfolios", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
		}
	})

	// テスト3: POST /api/profiles/import は取り込み専用レート制限の対象
	t.Run("POST_import_rate_limited", func(t *testing.T) {
		req1 := httptest.NewRequest(http.MethodPost, "/api/profiles/import", nil)
		req1.Header.Set("Authorization", "Bearer "+token)
		w1 := httptest.NewRecorder()
		r.ServeHTTP(w1, req1)

		if w1.Result().StatusCode != http.StatusOK {
			t.Fatalf("request 1: status = %d, want %d", w1.Result().StatusCode, http.StatusOK)
		}

		// バースト1なので2回目は429
		req2 := httptest.NewRequest(http.MethodPost, "/api/profiles/import", nil)
		req2.Header.Set("Authorization", "Bearer "+token)
		w2 := httptest.NewRecorder()
		r.ServeHTTP(w2, req2)

		if w2.Result().StatusCode != http.StatusTooManyRequests {
			t.Errorf("request 2: status = %d, want %d", w2.Result().StatusCode, http.StatusTooManyRequests)
		}
	})

	// テスト4: 取り込みレート制限は一般APIのルートに影響しない
	t.Run("GET_portfolios_unaffected_by_import_limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/portfolios", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
		}
	})

	// テスト5: ヘルスチェックは認証不要
	t.Run("healthz_no_auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
		}
	})
}
