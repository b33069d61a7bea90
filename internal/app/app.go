package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hitoshi/foliogen/internal/blog"
	"github.com/hitoshi/foliogen/internal/config"
	"github.com/hitoshi/foliogen/internal/database"
	"github.com/hitoshi/foliogen/internal/entitlement"
	"github.com/hitoshi/foliogen/internal/generation"
	"github.com/hitoshi/foliogen/internal/handler"
	"github.com/hitoshi/foliogen/internal/logger"
	"github.com/hitoshi/foliogen/internal/metrics"
	"github.com/hitoshi/foliogen/internal/middleware"
	"github.com/hitoshi/foliogen/internal/normalizer"
	"github.com/hitoshi/foliogen/internal/portfolio"
	"github.com/hitoshi/foliogen/internal/repository"
	"github.com/hitoshi/foliogen/internal/security"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRecordRepo := repository.NewPostgresUserRecordRepo(db)
	portfolioRepo := repository.NewPostgresPortfolioRepo(db)

	// 3. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. セキュリティレイヤーの初期化
	urlGuard := security.NewURLGuard()
	sanitizer := security.NewSanitizer()

	aiLimiter := security.NewAIRateLimiter(security.AIRateLimiterConfig{
		Enabled:            cfg.AIRateLimitEnabled,
		MaxRequestsPerHour: cfg.AIMaxRequestsPerHour,
	})
	defer aiLimiter.Stop()

	promptValidator := security.NewPromptValidator(security.PromptValidatorConfig{
		MaxLength:            cfg.MaxPromptLength,
		ContentFilterEnabled: cfg.ContentFilterEnabled,
	}, sanitizer)

	promptRegistry := security.NewPromptRegistry(cfg.PromptIntegrityCheck)

	mediator := security.NewMediator(
		security.MediatorConfig{AllowedModels: cfg.AllowedModels},
		aiLimiter, promptValidator, promptRegistry, collector,
	)

	// 5. ドメインサービスの初期化
	entitlementService := entitlement.NewService(entitlement.Config{
		PaywallEnabled:       cfg.PaywallEnabled,
		SubscriptionRequired: cfg.SubscriptionRequired,
		TrialDays:            cfg.TrialDays,
	}, userRecordRepo, slog.Default())

	normalizerService := normalizer.NewService()

	blogDetector := blog.NewDetector(urlGuard, cfg.BlogFetchTimeout, cfg.BlogMaxSize)
	blogFetcher := blog.NewFetcher(urlGuard, cfg.BlogFetchTimeout, cfg.BlogMaxSize, slog.Default())

	generator := generation.NewOpenAIClient(generation.Config{
		BaseURL: cfg.GenerationAPIURL,
		APIKey:  cfg.GenerationAPIKey,
		Timeout: cfg.GenerationTimeout,
	}, slog.Default())

	portfolioService := portfolio.NewService(
		normalizerService, sanitizer, urlGuard, entitlementService,
		mediator, generator, portfolioRepo, blogDetector, blogFetcher,
		slog.Default(),
	)

	// 6. ルーターの構築
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitGeneral > 0 {
		// configのRateLimitGeneralはreq/min単位なのでreq/secに変換する
		rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
		rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	}
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		AuthSecret:        cfg.SessionSecret,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),

		ProfileService:     portfolioService,
		PortfolioService:   portfolioService,
		EntitlementService: entitlementService,

		Metrics:     collector,
		Healthcheck: db.Ping,
	})

	// /metrics はAPIミドルウェアチェーンの外に置く（Prometheusスクレイプ用）
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	mux.Handle("/", router)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /healthz エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/healthz", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
