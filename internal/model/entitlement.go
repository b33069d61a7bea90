// Package model はドメインモデルを定義する。
package model

import "time"

// SubscriptionStatus はサブスクリプションの状態を表す。
type SubscriptionStatus string

const (
	// SubscriptionStatusActive は有効なサブスクリプション状態。
	SubscriptionStatusActive SubscriptionStatus = "active"
	// SubscriptionStatusTrial はトライアル期間中の状態。
	SubscriptionStatusTrial SubscriptionStatus = "trial"
	// SubscriptionStatusCanceled は解約済みの状態。
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	// SubscriptionStatusPastDue は支払い遅延の状態。
	SubscriptionStatusPastDue SubscriptionStatus = "past_due"
)

// SubscriptionTier はサブスクリプションプランを表す。
// 固定カタログとして定義され、ユーザーが編集することはない。
// 上限値の -1 は無制限を意味する。
type SubscriptionTier struct {
	ID             string
	Name           string
	PriceCents     int
	Features       []string
	PortfolioLimit int
	CustomDomain   bool
	AICreditLimit  int
}

// UserRecord は外部ストアが保持するユーザーのエンタイトルメント情報を表す。
// 決済処理自体は外部（Stripe）の責務であり、ここでは参照のみを保持する。
type UserRecord struct {
	UserID             string
	SubscriptionTier   string
	SubscriptionStatus SubscriptionStatus
	StripeCustomerID   string
	PortfolioCount     int
	AICreditsUsed      int
	TrialEndsAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Action はエンタイトルメント判定の対象となる操作を表す。
type Action string

const (
	// ActionCreatePortfolio はポートフォリオ作成操作。
	ActionCreatePortfolio Action = "create_portfolio"
	// ActionUseAI はAI生成クレジットを消費する操作。
	ActionUseAI Action = "use_ai"
)

// AccessResult はエンタイトルメント判定の結果を表す。
// 拒否の場合はReasonに人間可読の理由を保持する。
// 上限超過による拒否の場合、Limitに該当プランの上限値を保持する。
type AccessResult struct {
	Allowed bool
	Reason  string
	Limit   int
}

// UpgradeRedirect はアクセス拒否時にアップグレード導線へ誘導するための制御信号。
// 例外ではなく戻り値として伝搬し、呼び出し側が握り潰してはならない。
type UpgradeRedirect struct {
	Reason   string
	ReturnTo string
}

// Portfolio は生成済みポートフォリオを表す。
type Portfolio struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	CreatedAt time.Time
}
