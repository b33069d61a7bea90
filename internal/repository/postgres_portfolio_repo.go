package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/foliogen/internal/model"
)

// PostgresPortfolioRepo はPostgreSQLを使用したポートフォリオリポジトリ。
type PostgresPortfolioRepo struct {
	db *sql.DB
}

// NewPostgresPortfolioRepo はPostgresPortfolioRepoを生成する。
func NewPostgresPortfolioRepo(db *sql.DB) *PostgresPortfolioRepo {
	return &PostgresPortfolioRepo{db: db}
}

// Create はポートフォリオを作成する。
func (r *PostgresPortfolioRepo) Create(ctx context.Context, p *model.Portfolio) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO portfolios (id, user_id, title, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.UserID, p.Title, p.Content, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}
	return nil
}

// FindByID は指定IDのポートフォリオを取得する。見つからない場合はnilを返す。
func (r *PostgresPortfolioRepo) FindByID(ctx context.Context, id string) (*model.Portfolio, error) {
	p := &model.Portfolio{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, created_at FROM portfolios WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find portfolio: %w", err)
	}

	return p, nil
}

// ListByUserID はユーザーのポートフォリオ一覧を作成日時の降順で返す。
func (r *PostgresPortfolioRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Portfolio, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, created_at
		 FROM portfolios WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []*model.Portfolio
	for rows.Next() {
		p := &model.Portfolio{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate portfolios: %w", err)
	}

	return portfolios, nil
}

// CountByUserID はユーザーのポートフォリオ数を返す。
func (r *PostgresPortfolioRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM portfolios WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count portfolios: %w", err)
	}
	return count, nil
}

// Delete は指定IDのポートフォリオを削除する。
func (r *PostgresPortfolioRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM portfolios WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("portfolio not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ PortfolioRepository = (*PostgresPortfolioRepo)(nil)
