package security

import (
	"log/slog"

	"github.com/hitoshi/foliogen/internal/model"
)

// promptExcerptLen はセキュリティログに記録するプロンプト抜粋の最大長（rune）。
// フルテキストは決してログに残さない。
const promptExcerptLen = 50

// SecurityMetrics はセキュリティイベントのメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type SecurityMetrics interface {
	RecordRateLimitDenied()
	RecordPromptRejected(kind string)
	RecordModelRejected()
}

// MediatorConfig はMediatorの設定を保持する。
type MediatorConfig struct {
	AllowedModels []string
}

// Mediator はAI生成リクエストの中央ポリシーポイント。
// レート制限 → モデル検証 → プロンプト検証/サニタイズ → 安全な合成、の順に
// 全リクエストを仲介し、どの拒否経路でも必ずセキュリティイベントを記録する
// （ログは省略可能な計装ではなく仕様上の副作用）。
//
// エンタイトルメント判定は呼び出し側の責務であり、Mediatorは行わない。
type Mediator struct {
	config    MediatorConfig
	limiter   *AIRateLimiter
	validator *PromptValidator
	registry  *PromptRegistry
	metrics   SecurityMetrics
}

// NewMediator はMediatorの新しいインスタンスを生成する。
// metricsはnil許容（テスト用）。
func NewMediator(
	config MediatorConfig,
	limiter *AIRateLimiter,
	validator *PromptValidator,
	registry *PromptRegistry,
	metrics SecurityMetrics,
) *Mediator {
	return &Mediator{
		config:    config,
		limiter:   limiter,
		validator: validator,
		registry:  registry,
		metrics:   metrics,
	}
}

// ValidateModel はモデルIDが許可リストに含まれるかを判定する。
// 許可リスト外のモデルは他の条件に関わらず拒否される。
func (m *Mediator) ValidateModel(modelID string) bool {
	for _, allowed := range m.config.AllowedModels {
		if modelID == allowed {
			return true
		}
	}
	return false
}

// SecureAIRequest はAI生成リクエストのエンドツーエンド仲介を行う。
// 成功時は外部生成コラボレーターへ渡す合成済みプロンプトを返す。
// 拒否時はセキュリティイベントを記録した上で型付きエラーを返し、
// 外部生成コラボレーターへは決して進まない。
func (m *Mediator) SecureAIRequest(req model.GenerationRequest) (string, error) {
	// 1. レート制限
	decision := m.limiter.Check(req.UserID)
	if !decision.Allowed {
		m.logSecurityEvent(req.UserID, "rate_limit_exceeded",
			slog.Time("reset_at", decision.ResetAt),
		)
		if m.metrics != nil {
			m.metrics.RecordRateLimitDenied()
		}
		return "", model.NewAIRateLimitedError(decision.ResetAt)
	}

	// 2. モデル検証
	if !m.ValidateModel(req.ModelID) {
		m.logSecurityEvent(req.UserID, "model_not_allowed",
			slog.String("model_id", req.ModelID),
		)
		if m.metrics != nil {
			m.metrics.RecordModelRejected()
		}
		return "", model.NewModelNotAllowedError(req.ModelID)
	}

	// 3. プロンプト検証・サニタイズ
	validation := m.validator.Validate(req.Input)
	if !validation.Valid {
		m.logSecurityEvent(req.UserID, "prompt_rejected",
			slog.String("reason", validation.Reason),
			slog.String("prompt_excerpt", excerpt(req.Input)),
		)
		if m.metrics != nil {
			m.metrics.RecordPromptRejected(validation.Reason)
		}
		return "", model.NewPromptRejectedError()
	}

	// 4. 保護プロンプトとの安全な合成
	composed, err := m.registry.BuildSecurePrompt(req.PromptID, validation.Sanitized, req.Context)
	if err != nil {
		m.logSecurityEvent(req.UserID, "prompt_composition_failed",
			slog.String("prompt_id", req.PromptID),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	return composed, nil
}

// logSecurityEvent はセキュリティイベントを構造化ログに記録する。
// ユーザーID・イベント種別・最小限の診断コンテキストのみを含める。
func (m *Mediator) logSecurityEvent(userID, event string, attrs ...any) {
	args := append([]any{
		slog.String("user_id", userID),
		slog.String("event", event),
	}, attrs...)
	slog.Warn("security_event", args...)
}

// excerpt はログ記録用にプロンプトの先頭だけを切り出す。
func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= promptExcerptLen {
		return text
	}
	return string(runes[:promptExcerptLen]) + "…"
}
