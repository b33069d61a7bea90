package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestMiddlewareChain_Auth_GETRequest は
// Auth ミドルウェアでGETリクエストが通ることを検証する。
func TestMiddlewareChain_Auth_GETRequest(t *testing.T) {
	const secret = "chain-secret"
	authMW := NewAuthMiddleware(secret)

	var capturedUserID string
	handler := authMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserIDFromContext(r.Context())
		capturedUserID = userID
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set("Authorization", "Bearer "+SignToken("user-chain-test", secret))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if capturedUserID != "user-chain-test" {
		t.Errorf("userID = %q, want %q", capturedUserID, "user-chain-test")
	}
}

// TestMiddlewareChain_CORSAndAuth_POSTRequest は
// CORS -> Auth のチェーンでPOSTリクエストがトークン付きで通ることを検証する。
func TestMiddlewareChain_CORSAndAuth_POSTRequest(t *testing.T) {
	const secret = "chain-secret"
	corsMW := NewCORSMiddleware("http://localhost:3000")
	authMW := NewAuthMiddleware(secret)

	handlerCalled := false
	handler := corsMW(authMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/test", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Authorization", "Bearer "+SignToken("user-post-test", secret))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if !handlerCalled {
		t.Error("handler should have been called")
	}
}

// TestMiddlewareChain_NoToken_Returns401 は
// トークンがない場合に401が返されることを検証する。
func TestMiddlewareChain_NoToken_Returns401(t *testing.T) {
	authMW := NewAuthMiddleware("chain-secret")

	handler := authMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	// 未認証で401が返ること
	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}
