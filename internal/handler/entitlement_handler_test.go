package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/foliogen/internal/model"
)

// --- モック定義 ---

// mockEntitlementService はEntitlementServiceInterfaceのモック実装。
type mockEntitlementService struct {
	ensureRecordFn        func(ctx context.Context, userID string) (*model.UserRecord, error)
	requireSubscriptionFn func(ctx context.Context, userID string, action model.Action, returnTo string) *model.UpgradeRedirect
}

func (m *mockEntitlementService) EnsureRecord(ctx context.Context, userID string) (*model.UserRecord, error) {
	if m.ensureRecordFn != nil {
		return m.ensureRecordFn(ctx, userID)
	}
	return &model.UserRecord{
		UserID:             userID,
		SubscriptionTier:   "free",
		SubscriptionStatus: model.SubscriptionStatusTrial,
	}, nil
}

func (m *mockEntitlementService) RequireSubscription(ctx context.Context, userID string, action model.Action, returnTo string) *model.UpgradeRedirect {
	if m.requireSubscriptionFn != nil {
		return m.requireSubscriptionFn(ctx, userID, action, returnTo)
	}
	return nil
}

// --- GET /api/entitlement テスト ---

func TestEntitlementHandler_Get_ReturnsTierAndUsage(t *testing.T) {
	trialEnds := time.Now().Add(7 * 24 * time.Hour)
	svc := &mockEntitlementService{
		ensureRecordFn: func(ctx context.Context, userID string) (*model.UserRecord, error) {
			return &model.UserRecord{
				UserID:             userID,
				SubscriptionTier:   "free",
				SubscriptionStatus: model.SubscriptionStatusTrial,
				PortfolioCount:     1,
				AICreditsUsed:      3,
				TrialEndsAt:        &trialEnds,
			}, nil
		},
	}

	h := NewEntitlementHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/entitlement", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.Get(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got entitlementResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Tier != "free" {
		t.Errorf("tier = %q, want %q", got.Tier, "free")
	}
	if got.PortfolioLimit != 1 {
		t.Errorf("portfolio_limit = %d, want 1", got.PortfolioLimit)
	}
	if got.AICreditLimit != 5 {
		t.Errorf("ai_credit_limit = %d, want 5", got.AICreditLimit)
	}
	if got.AICreditsUsed != 3 {
		t.Errorf("ai_credits_used = %d, want 3", got.AICreditsUsed)
	}
	if got.TrialEndsAt == nil {
		t.Error("trial_ends_at should be present")
	}
}

func TestEntitlementHandler_Get_UnknownTier_Returns403(t *testing.T) {
	svc := &mockEntitlementService{
		ensureRecordFn: func(ctx context.Context, userID string) (*model.UserRecord, error) {
			return &model.UserRecord{
				UserID:           userID,
				SubscriptionTier: "legacy_gold",
			}, nil
		},
	}

	h := NewEntitlementHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/entitlement", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Result().StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusForbidden)
	}

	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodeUnknownTier {
		t.Errorf("code = %q, want %q", errResp["code"], model.ErrCodeUnknownTier)
	}
}

func TestEntitlementHandler_Get_NoUserID_Returns401(t *testing.T) {
	h := NewEntitlementHandler(&mockEntitlementService{})

	req := httptest.NewRequest(http.MethodGet, "/api/entitlement", nil)
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

// --- GET /api/entitlement/check テスト ---

func TestEntitlementHandler_Check_Allowed(t *testing.T) {
	h := NewEntitlementHandler(&mockEntitlementService{})

	req := httptest.NewRequest(http.MethodGet, "/api/entitlement/check?action=create_portfolio", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.Check(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got upgradeRedirectResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !got.Allowed {
		t.Error("allowed should be true")
	}
}

func TestEntitlementHandler_Check_Denied_Returns402WithUpgrade(t *testing.T) {
	svc := &mockEntitlementService{
		requireSubscriptionFn: func(ctx context.Context, userID string, action model.Action, returnTo string) *model.UpgradeRedirect {
			if action != model.ActionUseAI {
				t.Errorf("action = %q, want %q", action, model.ActionUseAI)
			}
			return &model.UpgradeRedirect{
				Reason:   "AI credit limit reached",
				ReturnTo: returnTo,
			}
		},
	}

	h := NewEntitlementHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/entitlement/check?action=use_ai&return_to=/editor", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.Check(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusPaymentRequired)
	}

	var got upgradeRedirectResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Allowed {
		t.Error("allowed should be false")
	}
	if got.ReturnTo != "/editor" {
		t.Errorf("return_to = %q, want %q", got.ReturnTo, "/editor")
	}
	if got.Upgrade == "" {
		t.Error("upgrade URL should be present")
	}
}

func TestEntitlementHandler_Check_UnknownAction_Returns400(t *testing.T) {
	h := NewEntitlementHandler(&mockEntitlementService{})

	req := httptest.NewRequest(http.MethodGet, "/api/entitlement/check?action=delete_everything", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.Check(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// --- GET /api/tiers テスト ---

func TestEntitlementHandler_Tiers_ReturnsCatalog(t *testing.T) {
	h := NewEntitlementHandler(&mockEntitlementService{})

	req := httptest.NewRequest(http.MethodGet, "/api/tiers", nil)
	w := httptest.NewRecorder()

	h.Tiers(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got map[string][]tierResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	tiers := got["tiers"]
	if len(tiers) != 3 {
		t.Fatalf("tiers = %d entries, want 3", len(tiers))
	}
	if tiers[0].ID != "free" {
		t.Errorf("first tier = %q, want %q", tiers[0].ID, "free")
	}
	if tiers[2].PortfolioLimit != -1 {
		t.Errorf("business portfolio_limit = %d, want -1 (unlimited)", tiers[2].PortfolioLimit)
	}
}
