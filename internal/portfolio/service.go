// Package portfolio はプロフィール取り込みからポートフォリオ生成までの
// オーケストレーションを提供する。
package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/foliogen/internal/blog"
	"github.com/hitoshi/foliogen/internal/entitlement"
	"github.com/hitoshi/foliogen/internal/generation"
	"github.com/hitoshi/foliogen/internal/model"
	"github.com/hitoshi/foliogen/internal/normalizer"
	"github.com/hitoshi/foliogen/internal/profile"
	"github.com/hitoshi/foliogen/internal/repository"
	"github.com/hitoshi/foliogen/internal/security"
)

// ImportResult はプロフィール取り込みの結果を表す。
type ImportResult struct {
	Profile *model.Profile
	Report  model.ValidationReport
}

// GenerateInput はポートフォリオ生成リクエストを表す。
type GenerateInput struct {
	UserID  string
	Profile model.Profile
	Title   string
	Request string
	ModelID string
}

// Service はポートフォリオ機能のオーケストレーション層。
// 取り込みはNormalizer→サニタイズ→URL検証→Validatorの順、
// 生成はエンタイトルメントゲート→Optimizer→セキュリティメディエーター→
// 外部生成コラボレーター→永続化の順に各コンポーネントを通す。
type Service struct {
	normalizer  *normalizer.Service
	sanitizer   *security.Sanitizer
	urlGuard    security.URLGuardService
	entitlement *entitlement.Service
	mediator    *security.Mediator
	generator   generation.TextGenerator
	repo        repository.PortfolioRepository
	detector    *blog.Detector
	fetcher     *blog.Fetcher
	logger      *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	norm *normalizer.Service,
	sanitizer *security.Sanitizer,
	urlGuard security.URLGuardService,
	ent *entitlement.Service,
	mediator *security.Mediator,
	generator generation.TextGenerator,
	repo repository.PortfolioRepository,
	detector *blog.Detector,
	fetcher *blog.Fetcher,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		normalizer:  norm,
		sanitizer:   sanitizer,
		urlGuard:    urlGuard,
		entitlement: ent,
		mediator:    mediator,
		generator:   generator,
		repo:        repo,
		detector:    detector,
		fetcher:     fetcher,
		logger:      logger,
	}
}

// Import は生のプロフィール入力を正規化し、検証レポート付きで返す。
// 構造化モードのパース失敗は型付きエラーとして返す。
// 検証失敗はエラーではなくレポートで表現する（呼び出し側がブロックか警告かを決める）。
func (s *Service) Import(ctx context.Context, input string, mode normalizer.Mode) (*ImportResult, error) {
	p, err := s.normalizer.Parse(input, mode)
	if err != nil {
		return nil, err
	}

	s.sanitizeProfile(p)

	if err := s.validateProfileURLs(p); err != nil {
		return nil, err
	}

	report := profile.Validate(p)

	s.logger.Info("profile imported",
		slog.String("mode", string(mode)),
		slog.Int("work_count", len(p.Work)),
		slog.Int("skill_count", len(p.Skills)),
		slog.Bool("valid", report.Valid),
	)

	return &ImportResult{Profile: p, Report: report}, nil
}

// sanitizeProfile はユーザー入力由来のテキストフィールドからHTMLタグを除去する。
func (s *Service) sanitizeProfile(p *model.Profile) {
	p.Personal.Name = s.sanitizer.SanitizeField(p.Personal.Name)
	p.Personal.Headline = s.sanitizer.SanitizeField(p.Personal.Headline)
	p.Personal.Location = s.sanitizer.SanitizeField(p.Personal.Location)
	p.Personal.Summary = s.sanitizer.SanitizeField(p.Personal.Summary)

	for i := range p.Work {
		p.Work[i].Title = s.sanitizer.SanitizeField(p.Work[i].Title)
		p.Work[i].Company = s.sanitizer.SanitizeField(p.Work[i].Company)
		p.Work[i].Description = s.sanitizer.SanitizeField(p.Work[i].Description)
	}
	for i := range p.Education {
		p.Education[i].Institution = s.sanitizer.SanitizeField(p.Education[i].Institution)
		p.Education[i].Degree = s.sanitizer.SanitizeField(p.Education[i].Degree)
		p.Education[i].Description = s.sanitizer.SanitizeField(p.Education[i].Description)
	}
	for i := range p.Projects {
		p.Projects[i].Name = s.sanitizer.SanitizeField(p.Projects[i].Name)
		p.Projects[i].Description = s.sanitizer.SanitizeField(p.Projects[i].Description)
	}
	for i := range p.Skills {
		p.Skills[i] = s.sanitizer.SanitizeField(p.Skills[i])
	}
}

// validateProfileURLs はプロフィール内のURLフィールドをSSRFガードで検証する。
func (s *Service) validateProfileURLs(p *model.Profile) error {
	if s.urlGuard == nil {
		return nil
	}
	for _, rawURL := range []string{p.Contact.Website, p.Contact.LinkedIn, p.Personal.ImageURL} {
		if rawURL == "" {
			continue
		}
		if err := s.urlGuard.ValidateURL(rawURL); err != nil {
			return err
		}
	}
	return nil
}

// Generate はエンタイトルメントとセキュリティ検証を通過した場合にのみ
// ポートフォリオを生成・永続化する。
// 拒否されたリクエストは利用量カウンタを加算せず、外部生成コラボレーターにも到達しない。
func (s *Service) Generate(ctx context.Context, input GenerateInput) (*model.Portfolio, error) {
	// エンタイトルメントゲート（AI利用とポートフォリオ作成の両方）
	if result := s.entitlement.CheckAccess(ctx, input.UserID, model.ActionUseAI); !result.Allowed {
		return nil, entitlement.DenialError(result)
	}
	if result := s.entitlement.CheckAccess(ctx, input.UserID, model.ActionCreatePortfolio); !result.Allowed {
		return nil, entitlement.DenialError(result)
	}

	optimized := profile.Optimize(input.Profile)

	// ブログ記事によるコンテキスト補強（ベストエフォート）
	var posts []model.BlogPost
	if s.fetcher != nil && s.detector != nil {
		posts = s.fetcher.Enrich(ctx, s.detector, optimized.Contact.Website)
	}

	composed, err := s.mediator.SecureAIRequest(model.GenerationRequest{
		UserID:   input.UserID,
		PromptID: "PORTFOLIO_GENERATOR",
		Input:    input.Request,
		ModelID:  input.ModelID,
		Context:  buildContext(&optimized, posts),
	})
	if err != nil {
		return nil, err
	}

	content, err := s.generator.Generate(ctx, composed, input.ModelID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = defaultTitle(&optimized)
	}

	p := &model.Portfolio{
		ID:        uuid.New().String(),
		UserID:    input.UserID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("ポートフォリオの保存に失敗しました: %w", err)
	}

	// 成功時のみ利用量を加算する
	if err := s.entitlement.UpdateUsage(ctx, input.UserID, model.ActionUseAI, 1); err != nil {
		s.logger.Error("failed to update AI usage",
			slog.String("user_id", input.UserID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.entitlement.UpdateUsage(ctx, input.UserID, model.ActionCreatePortfolio, 1); err != nil {
		s.logger.Error("failed to update portfolio count",
			slog.String("user_id", input.UserID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("portfolio generated",
		slog.String("user_id", input.UserID),
		slog.String("portfolio_id", p.ID),
		slog.String("model", input.ModelID),
	)

	return p, nil
}

// List はユーザーのポートフォリオ一覧を返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Portfolio, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Get は指定IDのポートフォリオを取得する。
// 他ユーザーのポートフォリオは未検出として扱う。
func (s *Service) Get(ctx context.Context, userID, portfolioID string) (*model.Portfolio, error) {
	p, err := s.repo.FindByID(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("ポートフォリオの取得に失敗しました: %w", err)
	}
	if p == nil || p.UserID != userID {
		return nil, model.NewPortfolioNotFoundError(portfolioID)
	}
	return p, nil
}

// Delete は指定IDのポートフォリオを削除する。
func (s *Service) Delete(ctx context.Context, userID, portfolioID string) error {
	p, err := s.repo.FindByID(ctx, portfolioID)
	if err != nil {
		return fmt.Errorf("ポートフォリオの取得に失敗しました: %w", err)
	}
	if p == nil || p.UserID != userID {
		return model.NewPortfolioNotFoundError(portfolioID)
	}
	if err := s.repo.Delete(ctx, portfolioID); err != nil {
		return fmt.Errorf("ポートフォリオの削除に失敗しました: %w", err)
	}
	return nil
}

// buildContext は最適化済みプロフィールとブログ記事から生成コンテキストを構築する。
func buildContext(p *model.Profile, posts []model.BlogPost) map[string]string {
	ctx := map[string]string{}

	if p.Personal.Name != "" {
		ctx["name"] = p.Personal.Name
	}
	if p.Personal.Headline != "" {
		ctx["headline"] = p.Personal.Headline
	}
	if p.Personal.Summary != "" {
		ctx["summary"] = p.Personal.Summary
	}
	if len(p.Skills) > 0 {
		ctx["skills"] = strings.Join(p.Skills, ", ")
	}

	if len(p.Work) > 0 {
		var lines []string
		for _, w := range p.Work {
			line := w.Title
			if w.Company != "" {
				line += " at " + w.Company
			}
			if w.StartDate != "" {
				line += " (" + w.StartDate
				if w.EndDate != "" {
					line += " - " + w.EndDate
				} else if w.Current {
					line += " - present"
				}
				line += ")"
			}
			lines = append(lines, line)
		}
		ctx["experience"] = strings.Join(lines, "; ")
	}

	if len(posts) > 0 {
		var lines []string
		for _, post := range posts {
			line := post.Title
			if post.PublishedAt != "" {
				line += " (" + post.PublishedAt + ")"
			}
			lines = append(lines, line)
		}
		ctx["recent_posts"] = strings.Join(lines, "; ")
	}

	return ctx
}

// defaultTitle はタイトル未指定時の既定タイトルを返す。
func defaultTitle(p *model.Profile) string {
	if p.Personal.Name != "" {
		return p.Personal.Name + "のポートフォリオ"
	}
	return "ポートフォリオ"
}
