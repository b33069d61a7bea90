// Package handler はHTTP APIハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/foliogen/internal/metrics"
	"github.com/hitoshi/foliogen/internal/middleware"
	"github.com/hitoshi/foliogen/internal/model"
	"github.com/hitoshi/foliogen/internal/normalizer"
	"github.com/hitoshi/foliogen/internal/portfolio"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	// Import は生のプロフィール入力を正規化し、検証レポート付きで返す。
	Import(ctx context.Context, input string, mode normalizer.Mode) (*portfolio.ImportResult, error)
}

// ProfileHandler はプロフィール取り込みのHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
	metrics metrics.MetricsCollector
}

// NewProfileHandler はProfileHandlerを生成する。
// metricsはnilでもよい（記録をスキップする）。
func NewProfileHandler(service ProfileServiceInterface, collector metrics.MetricsCollector) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		metrics: collector,
	}
}

// importProfileRequest はプロフィール取り込みリクエストのボディ。
type importProfileRequest struct {
	Input string `json:"input"`
	Mode  string `json:"mode"`
}

// importProfileResponse はプロフィール取り込みレスポンス。
type importProfileResponse struct {
	Profile profilePayload           `json:"profile"`
	Report  validationReportResponse `json:"report"`
}

// validationReportResponse は検証レポートのAPIレスポンス。
type validationReportResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Import はプロフィール取り込みを処理する。
// POST /api/profiles/import
func (h *ProfileHandler) Import(w http.ResponseWriter, r *http.Request) {
	req, mode, ok := h.decodeImportRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.Import(r.Context(), req.Input, mode)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordImportFailure(string(mode))
		}
		middleware.WriteError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordImportSuccess(string(mode))
	}

	writeJSON(w, http.StatusOK, importProfileResponse{
		Profile: toProfilePayload(result.Profile),
		Report:  toValidationReportResponse(result.Report),
	})
}

// Validate はプロフィールの検証のみを実行する。
// 取り込みと同じ正規化パイプラインを通すが、レポートだけを返す。
// POST /api/profiles/validate
func (h *ProfileHandler) Validate(w http.ResponseWriter, r *http.Request) {
	req, mode, ok := h.decodeImportRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.Import(r.Context(), req.Input, mode)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toValidationReportResponse(result.Report))
}

// decodeImportRequest はリクエストボディをデコードし取り込みモードを解決する。
// 失敗時はエラーレスポンスを書き込みfalseを返す。
func (h *ProfileHandler) decodeImportRequest(w http.ResponseWriter, r *http.Request) (importProfileRequest, normalizer.Mode, bool) {
	var req importProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return req, "", false
	}

	if req.Input == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "入力が空です。",
			Category: "validation",
			Action:   "プロフィールデータを入力してください。",
		})
		return req, "", false
	}

	mode := normalizer.Mode(req.Mode)
	switch mode {
	case "":
		mode = normalizer.ModeStructured
	case normalizer.ModeStructured, normalizer.ModeText:
	default:
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "未対応の取り込みモードです。",
			Category: "validation",
			Action:   "structured または text を指定してください。",
		})
		return req, "", false
	}

	return req, mode, true
}

// toValidationReportResponse はmodel.ValidationReportからAPIレスポンスに変換する。
func toValidationReportResponse(report model.ValidationReport) validationReportResponse {
	errs := report.Errors
	if errs == nil {
		errs = []string{}
	}
	return validationReportResponse{
		Valid:  report.Valid,
		Errors: errs,
	}
}
