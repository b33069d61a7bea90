// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/foliogen/internal/model"
)

// UserRecordRepository はユーザーのエンタイトルメント情報の永続化インターフェース。
// エンタイトルメントゲートから見た「外部ストア」に相当する。
type UserRecordRepository interface {
	// FindByUserID は指定ユーザーのレコードを取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.UserRecord, error)

	// Create は新規ユーザーレコードを作成する。
	Create(ctx context.Context, record *model.UserRecord) error

	// IncrementPortfolioCount はポートフォリオ数をamountだけ増やす。
	// 単一のUPDATE文で行い、複数インスタンス間でもアトミックに反映される。
	IncrementPortfolioCount(ctx context.Context, userID string, amount int) error

	// IncrementAICredits は消費済みAIクレジットをamountだけ増やす。
	// 単一のUPDATE文で行い、複数インスタンス間でもアトミックに反映される。
	IncrementAICredits(ctx context.Context, userID string, amount int) error
}

// PortfolioRepository は生成済みポートフォリオの永続化インターフェース。
type PortfolioRepository interface {
	// Create はポートフォリオを作成する。
	Create(ctx context.Context, p *model.Portfolio) error

	// FindByID は指定IDのポートフォリオを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Portfolio, error)

	// ListByUserID はユーザーのポートフォリオ一覧を作成日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Portfolio, error)

	// CountByUserID はユーザーのポートフォリオ数を返す。
	CountByUserID(ctx context.Context, userID string) (int, error)

	// Delete は指定IDのポートフォリオを削除する。
	Delete(ctx context.Context, id string) error
}
