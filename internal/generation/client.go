// Package generation は外部のテキスト生成コラボレーターへのクライアントを提供する。
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/foliogen/internal/model"
)

// TextGenerator はテキスト生成のインターフェース。
// 合成済みプロンプトとモデルIDを受け取り、生成テキストを返す。
// ストリーミングやツール呼び出しはこの層では扱わない。
type TextGenerator interface {
	Generate(ctx context.Context, prompt, modelID string) (string, error)
}

// Config はOpenAIClientの設定値。
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// OpenAIClient はOpenAI互換のchat completions APIクライアント。
type OpenAIClient struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// NewOpenAIClient はOpenAIClientの新しいインスタンスを生成する。
func NewOpenAIClient(config Config, logger *slog.Logger) *OpenAIClient {
	if config.Timeout <= 0 {
		config.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate は合成済みプロンプトを外部APIに送信し、生成テキストを返す。
// 失敗の詳細はログにのみ記録し、呼び出し側には汎用エラーを返す。
func (c *OpenAIClient) Generate(ctx context.Context, prompt, modelID string) (string, error) {
	reqBody := chatRequest{
		Model: modelID,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generation request: %w", err)
	}

	url := c.config.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("generation request failed",
			slog.String("model", modelID),
			slog.String("error", err.Error()),
		)
		return "", model.NewGenerationFailedError()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		c.logger.Error("generation response read failed",
			slog.String("model", modelID),
			slog.String("error", err.Error()),
		)
		return "", model.NewGenerationFailedError()
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Error("generation response parse failed",
			slog.String("model", modelID),
			slog.Int("http_status", resp.StatusCode),
			slog.String("error", err.Error()),
		)
		return "", model.NewGenerationFailedError()
	}

	if resp.StatusCode != http.StatusOK || parsed.Error != nil {
		errMsg := ""
		if parsed.Error != nil {
			errMsg = parsed.Error.Message
		}
		c.logger.Error("generation API returned error",
			slog.String("model", modelID),
			slog.Int("http_status", resp.StatusCode),
			slog.String("api_error", errMsg),
		)
		return "", model.NewGenerationFailedError()
	}

	if len(parsed.Choices) == 0 {
		c.logger.Error("generation response has no choices",
			slog.String("model", modelID),
		)
		return "", model.NewGenerationFailedError()
	}

	c.logger.Info("generation completed",
		slog.String("model", modelID),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return parsed.Choices[0].Message.Content, nil
}

// compile-time interface check
var _ TextGenerator = (*OpenAIClient)(nil)
