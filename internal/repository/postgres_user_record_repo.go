package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/foliogen/internal/model"
)

// PostgresUserRecordRepo はPostgreSQLを使用したユーザーレコードリポジトリ。
type PostgresUserRecordRepo struct {
	db *sql.DB
}

// NewPostgresUserRecordRepo はPostgresUserRecordRepoを生成する。
func NewPostgresUserRecordRepo(db *sql.DB) *PostgresUserRecordRepo {
	return &PostgresUserRecordRepo{db: db}
}

// FindByUserID は指定ユーザーのレコードを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRecordRepo) FindByUserID(ctx context.Context, userID string) (*model.UserRecord, error) {
	record := &model.UserRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, subscription_tier, subscription_status, stripe_customer_id,
		        portfolio_count, ai_credits_used, trial_ends_at, created_at, updated_at
		 FROM user_records WHERE user_id = $1`,
		userID,
	).Scan(
		&record.UserID, &record.SubscriptionTier, &record.SubscriptionStatus,
		&record.StripeCustomerID, &record.PortfolioCount, &record.AICreditsUsed,
		&record.TrialEndsAt, &record.CreatedAt, &record.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user record: %w", err)
	}

	return record, nil
}

// Create は新規ユーザーレコードを作成する。
func (r *PostgresUserRecordRepo) Create(ctx context.Context, record *model.UserRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_records (user_id, subscription_tier, subscription_status, stripe_customer_id,
		                           portfolio_count, ai_credits_used, trial_ends_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.UserID, record.SubscriptionTier, record.SubscriptionStatus, record.StripeCustomerID,
		record.PortfolioCount, record.AICreditsUsed, record.TrialEndsAt, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user record: %w", err)
	}
	return nil
}

// IncrementPortfolioCount はポートフォリオ数をamountだけ増やす。
func (r *PostgresUserRecordRepo) IncrementPortfolioCount(ctx context.Context, userID string, amount int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE user_records
		 SET portfolio_count = portfolio_count + $2, updated_at = NOW()
		 WHERE user_id = $1`,
		userID, amount,
	)
	if err != nil {
		return fmt.Errorf("failed to increment portfolio count: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user record not found: %s", userID)
	}
	return nil
}

// IncrementAICredits は消費済みAIクレジットをamountだけ増やす。
func (r *PostgresUserRecordRepo) IncrementAICredits(ctx context.Context, userID string, amount int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE user_records
		 SET ai_credits_used = ai_credits_used + $2, updated_at = NOW()
		 WHERE user_id = $1`,
		userID, amount,
	)
	if err != nil {
		return fmt.Errorf("failed to increment AI credits: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user record not found: %s", userID)
	}
	return nil
}

// compile-time interface check
var _ UserRecordRepository = (*PostgresUserRecordRepo)(nil)
