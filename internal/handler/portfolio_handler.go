package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/foliogen/internal/metrics"
	"github.com/hitoshi/foliogen/internal/middleware"
	"github.com/hitoshi/foliogen/internal/model"
	"github.com/hitoshi/foliogen/internal/portfolio"
)

// PortfolioServiceInterface はポートフォリオハンドラーが必要とするサービスインターフェース。
type PortfolioServiceInterface interface {
	// Generate はエンタイトルメントとセキュリティ検証を通過した場合にのみ生成・永続化する。
	Generate(ctx context.Context, input portfolio.GenerateInput) (*model.Portfolio, error)
	// List はユーザーのポートフォリオ一覧を返す。
	List(ctx context.Context, userID string) ([]*model.Portfolio, error)
	// Get は指定IDのポートフォリオを取得する。
	Get(ctx context.Context, userID, portfolioID string) (*model.Portfolio, error)
	// Delete は指定IDのポートフォリオを削除する。
	Delete(ctx context.Context, userID, portfolioID string) error
}

// PortfolioHandler はポートフォリオ管理のHTTPハンドラー。
type PortfolioHandler struct {
	service PortfolioServiceInterface
	metrics metrics.MetricsCollector
}

// NewPortfolioHandler はPortfolioHandlerを生成する。
// metricsはnilでもよい（記録をスキップする）。
func NewPortfolioHandler(service PortfolioServiceInterface, collector metrics.MetricsCollector) *PortfolioHandler {
	return &PortfolioHandler{
		service: service,
		metrics: collector,
	}
}

// generatePortfolioRequest はポートフォリオ生成リクエストのボディ。
type generatePortfolioRequest struct {
	Profile profilePayload `json:"profile"`
	Title   string         `json:"title"`
	Request string         `json:"request"`
	Model   string         `json:"model"`
}

// portfolioResponse はポートフォリオのAPIレスポンス。
type portfolioResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// portfolioListResponse はポートフォリオ一覧のAPIレスポンス。
type portfolioListResponse struct {
	Portfolios []portfolioResponse `json:"portfolios"`
}

// Generate はポートフォリオ生成を処理する。
// POST /api/portfolios
func (h *PortfolioHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req generatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	start := time.Now()
	p, err := h.service.Generate(r.Context(), portfolio.GenerateInput{
		UserID:  userID,
		Profile: req.Profile.toModelProfile(),
		Title:   req.Title,
		Request: req.Request,
		ModelID: req.Model,
	})
	if err != nil {
		h.recordGenerateFailure(err)
		middleware.WriteError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordGenerationSuccess()
		h.metrics.RecordGenerationLatency(time.Since(start))
	}

	writeJSON(w, http.StatusCreated, toPortfolioResponse(p))
}

// recordGenerateFailure は生成失敗をエラー種別に応じてメトリクスに記録する。
func (h *PortfolioHandler) recordGenerateFailure(err error) {
	if h.metrics == nil {
		return
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		h.metrics.RecordGenerationFailure()
		return
	}

	switch apiErr.Code {
	case model.ErrCodePortfolioLimit:
		h.metrics.RecordAccessDenied(string(model.ActionCreatePortfolio))
	case model.ErrCodeAICreditLimit:
		h.metrics.RecordAccessDenied(string(model.ActionUseAI))
	case model.ErrCodeSubscriptionRequired, model.ErrCodeAccessDenied,
		model.ErrCodeUnknownTier, model.ErrCodeProfileNotFound:
		h.metrics.RecordAccessDenied("subscription")
	default:
		h.metrics.RecordGenerationFailure()
	}
}

// List はユーザーのポートフォリオ一覧を取得する。
// GET /api/portfolios
func (h *PortfolioHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	portfolios, err := h.service.List(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	resp := portfolioListResponse{Portfolios: []portfolioResponse{}}
	for _, p := range portfolios {
		resp.Portfolios = append(resp.Portfolios, toPortfolioResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get はポートフォリオ詳細を取得する。
// GET /api/portfolios/{id}
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	portfolioID := chi.URLParam(r, "id")

	p, err := h.service.Get(r.Context(), userID, portfolioID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPortfolioResponse(p))
}

// Delete はポートフォリオを削除する。
// DELETE /api/portfolios/{id}
func (h *PortfolioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	portfolioID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, portfolioID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toPortfolioResponse はmodel.PortfolioからAPIレスポンスに変換する。
func toPortfolioResponse(p *model.Portfolio) portfolioResponse {
	return portfolioResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}
