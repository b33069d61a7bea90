package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/foliogen/internal/entitlement"
	"github.com/hitoshi/foliogen/internal/middleware"
	"github.com/hitoshi/foliogen/internal/model"
)

// EntitlementServiceInterface はエンタイトルメントハンドラーが必要とするサービスインターフェース。
type EntitlementServiceInterface interface {
	// EnsureRecord はユーザーレコードが存在しない場合にトライアル状態で作成して返す。
	EnsureRecord(ctx context.Context, userID string) (*model.UserRecord, error)
	// RequireSubscription は拒否時にアップグレード導線へのリダイレクト信号を返す。
	RequireSubscription(ctx context.Context, userID string, action model.Action, returnTo string) *model.UpgradeRedirect
}

// EntitlementHandler はプランと利用量のHTTPハンドラー。
type EntitlementHandler struct {
	service EntitlementServiceInterface
}

// NewEntitlementHandler はEntitlementHandlerを生成する。
func NewEntitlementHandler(service EntitlementServiceInterface) *EntitlementHandler {
	return &EntitlementHandler{service: service}
}

// entitlementResponse はユーザーのプランと利用量のAPIレスポンス。
type entitlementResponse struct {
	Tier               string     `json:"tier"`
	TierName           string     `json:"tier_name"`
	SubscriptionStatus string     `json:"subscription_status"`
	PortfolioCount     int        `json:"portfolio_count"`
	PortfolioLimit     int        `json:"portfolio_limit"`
	AICreditsUsed      int        `json:"ai_credits_used"`
	AICreditLimit      int        `json:"ai_credit_limit"`
	CustomDomain       bool       `json:"custom_domain"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
}

// tierResponse はプラン定義のAPIレスポンス。
type tierResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	PriceCents     int      `json:"price_cents"`
	Features       []string `json:"features"`
	PortfolioLimit int      `json:"portfolio_limit"`
	CustomDomain   bool     `json:"custom_domain"`
	AICreditLimit  int      `json:"ai_credit_limit"`
}

// upgradeRedirectResponse はアクセス拒否時のアップグレード導線レスポンス。
type upgradeRedirectResponse struct {
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason,omitempty"`
	ReturnTo string `json:"return_to,omitempty"`
	Upgrade  string `json:"upgrade,omitempty"`
}

// Get はユーザーの現在のプランと利用量を取得する。
// レコードが存在しない場合はトライアル状態で作成する。
// GET /api/entitlement
func (h *EntitlementHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	record, err := h.service.EnsureRecord(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	tier, ok := entitlement.ResolveTier(record.SubscriptionTier)
	if !ok {
		middleware.WriteError(w, model.NewUnknownTierError(record.SubscriptionTier))
		return
	}

	writeJSON(w, http.StatusOK, entitlementResponse{
		Tier:               tier.ID,
		TierName:           tier.Name,
		SubscriptionStatus: string(record.SubscriptionStatus),
		PortfolioCount:     record.PortfolioCount,
		PortfolioLimit:     tier.PortfolioLimit,
		AICreditsUsed:      record.AICreditsUsed,
		AICreditLimit:      tier.AICreditLimit,
		CustomDomain:       tier.CustomDomain,
		TrialEndsAt:        record.TrialEndsAt,
	})
}

// Check は指定操作の実行可否を判定する。
// 拒否の場合は402でアップグレード導線を返す。
// GET /api/entitlement/check?action=create_portfolio&return_to=/editor
func (h *EntitlementHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	action := model.Action(r.URL.Query().Get("action"))
	switch action {
	case model.ActionCreatePortfolio, model.ActionUseAI:
	default:
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "未対応の操作です。",
			Category: "validation",
			Action:   "create_portfolio または use_ai を指定してください。",
		})
		return
	}

	redirect := h.service.RequireSubscription(r.Context(), userID, action, r.URL.Query().Get("return_to"))
	if redirect != nil {
		writeJSON(w, http.StatusPaymentRequired, upgradeRedirectResponse{
			Allowed:  false,
			Reason:   redirect.Reason,
			ReturnTo: redirect.ReturnTo,
			Upgrade:  "/pricing",
		})
		return
	}

	writeJSON(w, http.StatusOK, upgradeRedirectResponse{Allowed: true})
}

// Tiers はプランカタログを返す。表示用で認証不要。
// GET /api/tiers
func (h *EntitlementHandler) Tiers(w http.ResponseWriter, r *http.Request) {
	tiers := entitlement.Tiers()

	resp := make([]tierResponse, len(tiers))
	for i, t := range tiers {
		resp[i] = tierResponse{
			ID:             t.ID,
			Name:           t.Name,
			PriceCents:     t.PriceCents,
			Features:       t.Features,
			PortfolioLimit: t.PortfolioLimit,
			CustomDomain:   t.CustomDomain,
			AICreditLimit:  t.AICreditLimit,
		}
	}

	writeJSON(w, http.StatusOK, map[string][]tierResponse{"tiers": resp})
}
