package entitlement

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/foliogen/internal/model"
	"github.com/hitoshi/foliogen/internal/repository"
)

// 拒否理由。DenialErrorでの型付きエラーへの変換に使用する。
const (
	ReasonCheckFailed          = "entitlement check failed"
	ReasonProfileNotFound      = "profile not found"
	ReasonSubscriptionRequired = "active subscription required"
	ReasonUnknownTier          = "unknown subscription tier"
	ReasonPortfolioLimit       = "portfolio limit reached"
	ReasonAICreditLimit        = "AI credit limit reached"
)

// Config はエンタイトルメント判定の設定値。
type Config struct {
	// PaywallEnabled がfalseの場合、全操作を無条件に許可する。
	PaywallEnabled bool
	// SubscriptionRequired がtrueの場合、有効なサブスクリプションを要求する。
	SubscriptionRequired bool
	// TrialDays は新規ユーザーレコード作成時のトライアル期間（日数）。
	TrialDays int
}

// Service はエンタイトルメントゲートのサービス層。
// 外部ストアのプランと利用量カウンタを参照してallow/denyを判定する。
// ストア障害時は拒否にフォールバックする（フェイルクローズ）。
type Service struct {
	config Config
	repo   repository.UserRecordRepository
	logger *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(config Config, repo repository.UserRecordRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		config: config,
		repo:   repo,
		logger: logger,
	}
}

// CheckAccess は指定ユーザーが操作を実行できるか判定する。
// 判定の失敗は例外として伝搬せず、理由付きの拒否として返す。
func (s *Service) CheckAccess(ctx context.Context, userID string, action model.Action) model.AccessResult {
	if !s.config.PaywallEnabled {
		return model.AccessResult{Allowed: true}
	}

	record, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		// ストア障害はフェイルクローズ
		s.logger.Error("entitlement store lookup failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return model.AccessResult{Allowed: false, Reason: ReasonCheckFailed}
	}
	if record == nil {
		return model.AccessResult{Allowed: false, Reason: ReasonProfileNotFound}
	}

	if s.config.SubscriptionRequired && !s.hasValidSubscription(record) {
		return model.AccessResult{Allowed: false, Reason: ReasonSubscriptionRequired}
	}

	tier, ok := ResolveTier(record.SubscriptionTier)
	if !ok {
		return model.AccessResult{Allowed: false, Reason: ReasonUnknownTier + ": " + record.SubscriptionTier}
	}

	switch action {
	case model.ActionCreatePortfolio:
		if tier.PortfolioLimit != Unlimited && record.PortfolioCount >= tier.PortfolioLimit {
			return model.AccessResult{Allowed: false, Reason: ReasonPortfolioLimit, Limit: tier.PortfolioLimit}
		}
	case model.ActionUseAI:
		if tier.AICreditLimit != Unlimited && record.AICreditsUsed >= tier.AICreditLimit {
			return model.AccessResult{Allowed: false, Reason: ReasonAICreditLimit, Limit: tier.AICreditLimit}
		}
	}

	return model.AccessResult{Allowed: true}
}

// hasValidSubscription はサブスクリプションが有効か判定する。
// activeに加え、期限内のトライアルも有効として扱う。
func (s *Service) hasValidSubscription(record *model.UserRecord) bool {
	switch record.SubscriptionStatus {
	case model.SubscriptionStatusActive:
		return true
	case model.SubscriptionStatusTrial:
		return record.TrialEndsAt != nil && record.TrialEndsAt.After(time.Now())
	default:
		return false
	}
}

// UpdateUsage は操作に対応する利用量カウンタをamountだけ増やす。
// 未知の操作は何もしない。
func (s *Service) UpdateUsage(ctx context.Context, userID string, action model.Action, amount int) error {
	switch action {
	case model.ActionCreatePortfolio:
		return s.repo.IncrementPortfolioCount(ctx, userID, amount)
	case model.ActionUseAI:
		return s.repo.IncrementAICredits(ctx, userID, amount)
	default:
		return nil
	}
}

// RequireSubscription はCheckAccessをラップし、拒否時にアップグレード導線への
// リダイレクト信号を返す。呼び出し側はこの信号を握り潰してはならない。
func (s *Service) RequireSubscription(ctx context.Context, userID string, action model.Action, returnTo string) *model.UpgradeRedirect {
	result := s.CheckAccess(ctx, userID, action)
	if result.Allowed {
		return nil
	}

	s.logger.Info("access denied",
		slog.String("user_id", userID),
		slog.String("action", string(action)),
		slog.String("reason", result.Reason),
	)

	return &model.UpgradeRedirect{
		Reason:   result.Reason,
		ReturnTo: returnTo,
	}
}

// DenialError は拒否結果を対応する型付きAPIErrorに変換する。
// 呼び出し側がHTTPレスポンスやログに使用する。
func DenialError(result model.AccessResult) *model.APIError {
	switch {
	case result.Reason == ReasonProfileNotFound:
		return model.NewProfileNotFoundError()
	case result.Reason == ReasonSubscriptionRequired:
		return model.NewSubscriptionRequiredError()
	case result.Reason == ReasonPortfolioLimit:
		return model.NewPortfolioLimitError(result.Limit)
	case result.Reason == ReasonAICreditLimit:
		return model.NewAICreditLimitError(result.Limit)
	case strings.HasPrefix(result.Reason, ReasonUnknownTier):
		return model.NewUnknownTierError(strings.TrimPrefix(result.Reason, ReasonUnknownTier+": "))
	default:
		return model.NewAccessDeniedError(result.Reason)
	}
}

// EnsureRecord はユーザーレコードが存在しない場合にトライアル状態で作成して返す。
// 既存の場合はそのまま返す。
func (s *Service) EnsureRecord(ctx context.Context, userID string) (*model.UserRecord, error) {
	record, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	now := time.Now()
	trialEnds := now.AddDate(0, 0, s.config.TrialDays)
	record = &model.UserRecord{
		UserID:             userID,
		SubscriptionTier:   "free",
		SubscriptionStatus: model.SubscriptionStatusTrial,
		TrialEndsAt:        &trialEnds,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
