// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"time"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, billing, security, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeParseFailed          = "PARSE_FAILED"
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeProfileNotFound      = "PROFILE_NOT_FOUND"
	ErrCodeSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
	ErrCodeUnknownTier          = "UNKNOWN_TIER"
	ErrCodePortfolioLimit       = "PORTFOLIO_LIMIT"
	ErrCodeAICreditLimit        = "AI_CREDIT_LIMIT"
	ErrCodeAccessDenied         = "ACCESS_DENIED"
	ErrCodeAIRateLimited        = "AI_RATE_LIMITED"
	ErrCodePromptRejected       = "PROMPT_REJECTED"
	ErrCodeModelNotAllowed      = "MODEL_NOT_ALLOWED"
	ErrCodeInvalidURL           = "INVALID_URL"
	ErrCodeSSRFBlocked          = "SSRF_BLOCKED"
	ErrCodePortfolioNotFound    = "PORTFOLIO_NOT_FOUND"
	ErrCodeGenerationFailed     = "GENERATION_FAILED"
	ErrCodeFetchFailed          = "FETCH_FAILED"
	ErrCodeFeedNotDetected      = "FEED_NOT_DETECTED"
)

// NewParseFailedError は構造化入力のパース失敗エラーを生成する。
// テキストモードの取り込みはこのエラーを返さない（欠損フィールドに劣化する）。
func NewParseFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeParseFailed,
		Message:  fmt.Sprintf("プロフィールデータの解析に失敗しました: %s", reason),
		Category: "validation",
		Action:   "入力データが正しいJSON形式かどうか確認してください。",
	}
}

// NewValidationFailedError はプロフィール検証失敗エラーを生成する。
// countには違反したルールの件数を渡す。
func NewValidationFailedError(count int) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("プロフィールの検証で%d件の問題が見つかりました。", count),
		Category: "validation",
		Action:   "指摘された項目を修正して再度お試しください。",
	}
}

// NewProfileNotFoundError はユーザーレコード未検出エラーを生成する。
func NewProfileNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeProfileNotFound,
		Message:  "ユーザープロフィールが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewSubscriptionRequiredError は有効なサブスクリプションが必要なエラーを生成する。
func NewSubscriptionRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeSubscriptionRequired,
		Message:  "この操作には有効なサブスクリプションが必要です。",
		Category: "billing",
		Action:   "プランをアップグレードしてください。",
	}
}

// NewUnknownTierError は未知のプランIDエラーを生成する。
func NewUnknownTierError(tierID string) *APIError {
	return &APIError{
		Code:     ErrCodeUnknownTier,
		Message:  fmt.Sprintf("不明なサブスクリプションプランです: %s", tierID),
		Category: "billing",
		Action:   "サポートへお問い合わせください。",
	}
}

// NewPortfolioLimitError はポートフォリオ作成上限エラーを生成する。
func NewPortfolioLimitError(limit int) *APIError {
	return &APIError{
		Code:     ErrCodePortfolioLimit,
		Message:  fmt.Sprintf("ポートフォリオ数が現在のプランの上限（%d件）に達しています。", limit),
		Category: "billing",
		Action:   "不要なポートフォリオを削除するか、プランをアップグレードしてください。",
	}
}

// NewAICreditLimitError はAIクレジット上限エラーを生成する。
func NewAICreditLimitError(limit int) *APIError {
	return &APIError{
		Code:     ErrCodeAICreditLimit,
		Message:  fmt.Sprintf("AI生成クレジットが現在のプランの上限（%d回）に達しています。", limit),
		Category: "billing",
		Action:   "翌請求期間まで待つか、プランをアップグレードしてください。",
	}
}

// NewAccessDeniedError は汎用のアクセス拒否エラーを生成する。
// 外部ストア障害時のフェイルクローズにも使用する。
func NewAccessDeniedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeAccessDenied,
		Message:  fmt.Sprintf("この操作は許可されていません: %s", reason),
		Category: "billing",
		Action:   "しばらく待ってから再度お試しください。解決しない場合はサポートへお問い合わせください。",
	}
}

// NewAIRateLimitedError はAI生成のレート制限エラーを生成する。
// resetAtにはレートウィンドウのリセット時刻を渡す。
func NewAIRateLimitedError(resetAt time.Time) *APIError {
	return &APIError{
		Code:     ErrCodeAIRateLimited,
		Message:  fmt.Sprintf("AI生成リクエストが多すぎます。%s以降に再度お試しください。", resetAt.Format(time.RFC3339)),
		Category: "security",
		Action:   "表示された時刻以降に再度お試しください。",
	}
}

// NewPromptRejectedError はプロンプト拒否エラーを生成する。
// 詳細な拒否理由はセキュリティログにのみ記録し、ユーザーへは汎用メッセージを返す。
func NewPromptRejectedError() *APIError {
	return &APIError{
		Code:     ErrCodePromptRejected,
		Message:  "入力内容に許可されていない要素が含まれています。",
		Category: "security",
		Action:   "入力内容を見直して再度お試しください。",
	}
}

// NewModelNotAllowedError は許可リスト外モデルのエラーを生成する。
func NewModelNotAllowedError(modelID string) *APIError {
	return &APIError{
		Code:     ErrCodeModelNotAllowed,
		Message:  fmt.Sprintf("指定されたモデルは利用できません: %s", modelID),
		Category: "security",
		Action:   "利用可能なモデルを指定してください。",
	}
}

// NewInvalidURLError は無効なURLエラーを生成する。
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("無効なURLです: %s", reason),
		Category: "validation",
		Action:   "正しいURL形式（http:// または https:// で始まるURL）を入力してください。",
	}
}

// NewSSRFBlockedError はSSRFブロックエラーを生成する。
func NewSSRFBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeSSRFBlocked,
		Message:  "セキュリティポリシーにより、指定されたURLへのアクセスがブロックされました。",
		Category: "validation",
		Action:   "公開されているWebサイトのURLを入力してください。ローカルネットワークやプライベートIPへのアクセスは許可されていません。",
	}
}

// NewPortfolioNotFoundError はポートフォリオ未検出エラーを生成する。
func NewPortfolioNotFoundError(portfolioID string) *APIError {
	return &APIError{
		Code:     ErrCodePortfolioNotFound,
		Message:  fmt.Sprintf("指定されたポートフォリオが見つかりません: %s", portfolioID),
		Category: "validation",
		Action:   "ポートフォリオIDを確認してください。",
	}
}

// NewGenerationFailedError は外部生成コラボレーターの失敗エラーを生成する。
func NewGenerationFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeGenerationFailed,
		Message:  "コンテンツの生成に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewFetchFailedError は外部サイトの取得失敗エラーを生成する。
func NewFetchFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeFetchFailed,
		Message:  fmt.Sprintf("サイトの取得に失敗しました: %s", reason),
		Category: "system",
		Action:   "URLが正しいか確認し、しばらく待ってから再度お試しください。",
	}
}

// NewFeedNotDetectedError はブログフィード未検出エラーを生成する。
func NewFeedNotDetectedError(inputURL string) *APIError {
	return &APIError{
		Code:     ErrCodeFeedNotDetected,
		Message:  fmt.Sprintf("指定されたサイトからフィードを検出できませんでした: %s", inputURL),
		Category: "validation",
		Action:   "フィードを公開しているサイトのURLを入力してください。",
	}
}

// ErrIntegrityFailure は保護プロンプトの完全性チェック失敗を表す。
// 設定レベルの致命的エラーであり、エンドユーザーへ詳細を表示してはならない。
type ErrIntegrityFailure struct {
	PromptID string
	Detail   string
}

// Error はerrorインターフェースを実装する。
func (e *ErrIntegrityFailure) Error() string {
	return fmt.Sprintf("protected prompt integrity compromised: %s: %s", e.PromptID, e.Detail)
}
