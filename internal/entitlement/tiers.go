// Package entitlement はサブスクリプションプランと利用量に基づくアクセス制御を提供する。
package entitlement

import "github.com/hitoshi/foliogen/internal/model"

// Unlimited は上限値としての無制限を表す。
const Unlimited = -1

// tierCatalog は固定のプランカタログ。ユーザーが編集することはない。
var tierCatalog = map[string]model.SubscriptionTier{
	"free": {
		ID:         "free",
		Name:       "フリー",
		PriceCents: 0,
		Features: []string{
			"ポートフォリオ1件",
			"AI生成 月5回",
		},
		PortfolioLimit: 1,
		CustomDomain:   false,
		AICreditLimit:  5,
	},
	"pro": {
		ID:         "pro",
		Name:       "プロ",
		PriceCents: 900,
		Features: []string{
			"ポートフォリオ5件",
			"AI生成 月100回",
			"カスタムドメイン",
		},
		PortfolioLimit: 5,
		CustomDomain:   true,
		AICreditLimit:  100,
	},
	"business": {
		ID:         "business",
		Name:       "ビジネス",
		PriceCents: 2900,
		Features: []string{
			"ポートフォリオ無制限",
			"AI生成 無制限",
			"カスタムドメイン",
		},
		PortfolioLimit: Unlimited,
		CustomDomain:   true,
		AICreditLimit:  Unlimited,
	},
}

// ResolveTier はプランIDからプラン定義を解決する。
// 未知のIDの場合はfalseを返す。
func ResolveTier(tierID string) (model.SubscriptionTier, bool) {
	tier, ok := tierCatalog[tierID]
	return tier, ok
}

// Tiers はカタログ内の全プランを返す。表示用。
func Tiers() []model.SubscriptionTier {
	return []model.SubscriptionTier{
		tierCatalog["free"],
		tierCatalog["pro"],
		tierCatalog["business"],
	}
}
