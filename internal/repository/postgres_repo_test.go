package repository

import (
	"testing"
	"time"

	"github.com/hitoshi/foliogen/internal/model"
)

// PostgresUserRecordRepoはUserRecordRepositoryインターフェースを満たすことを検証
func TestPostgresUserRecordRepo_ImplementsInterface(t *testing.T) {
	var _ UserRecordRepository = (*PostgresUserRecordRepo)(nil)
}

// PostgresPortfolioRepoはPortfolioRepositoryインターフェースを満たすことを検証
func TestPostgresPortfolioRepo_ImplementsInterface(t *testing.T) {
	var _ PortfolioRepository = (*PostgresPortfolioRepo)(nil)
}

// NewPostgresUserRecordRepoが正しく初期化されることを検証
func TestNewPostgresUserRecordRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRecordRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresPortfolioRepoが正しく初期化されることを検証
func TestNewPostgresPortfolioRepo_Initializes(t *testing.T) {
	repo := NewPostgresPortfolioRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// ユニットテスト: 新規ユーザーレコードの構築が妥当な初期値を持つこと
// （DB接続なしでロジックのみ検証）
func TestUserRecord_InitialValues(t *testing.T) {
	now := time.Now()
	record := &model.UserRecord{
		UserID:             "user-1",
		SubscriptionTier:   "free",
		SubscriptionStatus: model.SubscriptionStatusTrial,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if record.PortfolioCount != 0 {
		t.Errorf("PortfolioCount = %d, want 0", record.PortfolioCount)
	}
	if record.AICreditsUsed != 0 {
		t.Errorf("AICreditsUsed = %d, want 0", record.AICreditsUsed)
	}
	if record.TrialEndsAt != nil {
		t.Error("TrialEndsAt should be nil until a trial is started")
	}
}
