package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hitoshi/foliogen/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// 原因カテゴリと対処方法を含む。
type ErrorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// statusForCode はエラーコードをHTTPステータスコードに対応付ける。
var statusForCode = map[string]int{
	model.ErrCodeParseFailed:          http.StatusBadRequest,
	model.ErrCodeValidationFailed:     http.StatusUnprocessableEntity,
	model.ErrCodeInvalidURL:           http.StatusBadRequest,
	model.ErrCodeSSRFBlocked:          http.StatusBadRequest,
	model.ErrCodeProfileNotFound:      http.StatusNotFound,
	model.ErrCodePortfolioNotFound:    http.StatusNotFound,
	model.ErrCodeFeedNotDetected:      http.StatusNotFound,
	model.ErrCodeSubscriptionRequired: http.StatusPaymentRequired,
	model.ErrCodeUnknownTier:          http.StatusForbidden,
	model.ErrCodePortfolioLimit:       http.StatusForbidden,
	model.ErrCodeAICreditLimit:        http.StatusForbidden,
	model.ErrCodeAccessDenied:         http.StatusForbidden,
	model.ErrCodeAIRateLimited:        http.StatusTooManyRequests,
	model.ErrCodePromptRejected:       http.StatusBadRequest,
	model.ErrCodeModelNotAllowed:      http.StatusBadRequest,
	model.ErrCodeFetchFailed:          http.StatusBadGateway,
	model.ErrCodeGenerationFailed:     http.StatusBadGateway,
}

// StatusForError はエラーに対応するHTTPステータスコードを返す。
// 型付きAPIError以外は500として扱う。
func StatusForError(err error) int {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		if status, ok := statusForCode[apiErr.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteError はエラーの種別に応じたステータスコードでレスポンスを書き込む。
// 型付きAPIError以外は詳細を漏らさず500を返す。
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		WriteErrorResponse(w, StatusForError(err), apiErr)
		return
	}
	WriteInternalServerError(w)
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}
