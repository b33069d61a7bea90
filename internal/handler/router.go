package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/foliogen/internal/metrics"
	"github.com/hitoshi/foliogen/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	AuthSecret        string
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// サービス
	ProfileService     ProfileServiceInterface
	PortfolioService   PortfolioServiceInterface
	EntitlementService EntitlementServiceInterface

	// メトリクス（nil可）
	Metrics metrics.MetricsCollector

	// Healthcheck はDB疎通確認。nilの場合は常に健全として扱う。
	Healthcheck func() error
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → CORS → Auth → RateLimit(General)
//
// ヘルスチェックとプランカタログは認証チェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	profileHandler := NewProfileHandler(deps.ProfileService, deps.Metrics)
	portfolioHandler := NewPortfolioHandler(deps.PortfolioService, deps.Metrics)
	entitlementHandler := NewEntitlementHandler(deps.EntitlementService)

	// --- 認証不要のルート ---

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if deps.Healthcheck != nil {
			if err := deps.Healthcheck(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/tiers", entitlementHandler.Tiers)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.AuthSecret))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// プロフィール取り込み（取り込み専用レート制限を追加）
		r.Route("/api/profiles", func(r chi.Router) {
			r.With(deps.RateLimiter.ImportMiddleware()).Post("/import", profileHandler.Import)
			r.Post("/validate", profileHandler.Validate)
		})

		// ポートフォリオ管理
		r.Route("/api/portfolios", func(r chi.Router) {
			r.Post("/", portfolioHandler.Generate)
			r.Get("/", portfolioHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", portfolioHandler.Get)
				r.Delete("/", portfolioHandler.Delete)
			})
		})

		// プランと利用量
		r.Route("/api/entitlement", func(r chi.Router) {
			r.Get("/", entitlementHandler.Get)
			r.Get("/check", entitlementHandler.Check)
		})
	})

	return r
}
