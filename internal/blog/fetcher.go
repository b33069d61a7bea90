package blog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/foliogen/internal/model"
	"github.com/mmcdole/gofeed"
)

// maxPosts はコンテキスト補強に使用するブログ記事の最大件数。
const maxPosts = 5

// Fetcher はフィードURLからブログ記事を取得する。
type Fetcher struct {
	urlGuard    URLValidator
	timeout     time.Duration
	maxBodySize int64
	logger      *slog.Logger
}

// NewFetcher はFetcherの新しいインスタンスを生成する。
func NewFetcher(urlGuard URLValidator, timeout time.Duration, maxBodySize int64, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxBodySize <= 0 {
		maxBodySize = 5 * 1024 * 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		urlGuard:    urlGuard,
		timeout:     timeout,
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

// FetchPosts はフィードURLから記事を取得し、新しい順に最大5件返す。
func (f *Fetcher) FetchPosts(ctx context.Context, feedURL string) ([]model.BlogPost, error) {
	if f.urlGuard != nil {
		if err := f.urlGuard.ValidateURL(feedURL); err != nil {
			return nil, model.NewSSRFBlockedError()
		}
	}

	client := f.getHTTPClient()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, model.NewInvalidURLError(err.Error())
	}
	req.Header.Set("User-Agent", "Foliogen/1.0 Portfolio Builder")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, model.NewFetchFailedError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, model.NewFetchFailedError(fmt.Sprintf("予期しないHTTPステータス: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, model.NewFetchFailedError(fmt.Sprintf("レスポンスの読み取りに失敗: %v", err))
	}

	parser := gofeed.NewParser()
	parsedFeed, err := parser.ParseString(string(body))
	if err != nil {
		return nil, model.NewFetchFailedError(fmt.Sprintf("フィードのパースに失敗: %v", err))
	}

	return convertItems(parsedFeed.Items), nil
}

// Enrich はプロフィールのWebサイトからブログ記事を検出・取得する。
// ベストエフォートであり、失敗はログに記録して空スライスを返す。
func (f *Fetcher) Enrich(ctx context.Context, detector *Detector, websiteURL string) []model.BlogPost {
	if websiteURL == "" {
		return nil
	}

	feedURL, err := detector.DetectFeedURL(ctx, websiteURL)
	if err != nil {
		f.logger.Info("ブログフィードを検出できませんでした",
			slog.String("website_url", websiteURL),
			slog.String("error", err.Error()),
		)
		return nil
	}

	posts, err := f.FetchPosts(ctx, feedURL)
	if err != nil {
		f.logger.Info("ブログ記事の取得に失敗しました",
			slog.String("feed_url", feedURL),
			slog.String("error", err.Error()),
		)
		return nil
	}

	f.logger.Info("ブログ記事を取得しました",
		slog.String("feed_url", feedURL),
		slog.Int("post_count", len(posts)),
	)
	return posts
}

// convertItems はgofeedの記事をmodel.BlogPostに変換する。
// 公開日時の新しい順を前提とし、先頭から最大5件を採用する。
func convertItems(items []*gofeed.Item) []model.BlogPost {
	posts := make([]model.BlogPost, 0, maxPosts)

	for _, item := range items {
		if item == nil || item.Title == "" {
			continue
		}
		if len(posts) >= maxPosts {
			break
		}

		post := model.BlogPost{
			Title:   item.Title,
			URL:     item.Link,
			Summary: item.Description,
		}

		if item.PublishedParsed != nil {
			post.PublishedAt = item.PublishedParsed.Format("2006-01-02")
		} else if item.UpdatedParsed != nil {
			post.PublishedAt = item.UpdatedParsed.Format("2006-01-02")
		}

		posts = append(posts, post)
	}

	return posts
}

// getHTTPClient はHTTPクライアントを取得する。
func (f *Fetcher) getHTTPClient() *http.Client {
	if f.urlGuard != nil {
		return f.urlGuard.NewSafeClient(f.timeout, f.maxBodySize)
	}
	return &http.Client{Timeout: f.timeout}
}
