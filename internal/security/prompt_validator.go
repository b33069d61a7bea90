package security

import (
	"fmt"
	"regexp"

	"github.com/hitoshi/foliogen/internal/model"
)

// injectionSignatures はプロンプトインジェクションの固定シグネチャ。
// 既存の指示を上書きしようとするフレーズ、システム/アシスタントロールの偽装、
// 埋め込みスクリプト、危険なURIスキーム、インラインコード実行構文を検出する。
// 最初のマッチで拒否し、以降のパターンは評価しない。
var injectionSignatures = []*regexp.Regexp{
	// 指示の上書き・無効化
	regexp.MustCompile(`(?i)ignore\s+(?:all\s+)?(?:previous|prior|above)\s+instructions`),
	regexp.MustCompile(`(?i)disregard\s+(?:all\s+)?(?:previous|prior|above)`),
	regexp.MustCompile(`(?i)forget\s+(?:everything|all)\s+(?:you|above)`),
	regexp.MustCompile(`(?i)override\s+(?:the\s+)?system\s+prompt`),
	regexp.MustCompile(`(?i)reveal\s+(?:the\s+|your\s+)?system\s+prompt`),
	// ロール偽装
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(?:a|an|the)\b`),
	regexp.MustCompile(`(?i)act\s+as\s+(?:if\s+you\s+are\s+)?(?:the\s+)?(?:system|admin|root)`),
	regexp.MustCompile(`(?i)^\s*(?:system|assistant)\s*:`),
	regexp.MustCompile(`(?i)\n\s*(?:system|assistant)\s*:`),
	// 埋め込みスクリプト・危険URI
	regexp.MustCompile(`(?i)<\s*script[\s>]`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)data\s*:\s*text/html`),
	// インラインコード実行構文
	regexp.MustCompile(`(?i)\beval\s*\(`),
	regexp.MustCompile(`(?i)\bexec\s*\(`),
	regexp.MustCompile("(?s)```.*?(?:eval|exec|import\\s+os|subprocess).*?```"),
}

// inappropriatePatterns はコンテンツフィルタ有効時に追加で拒否するパターン。
// 小さな固定リストであり、網羅的なモデレーションではない。
var inappropriatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:porn|nsfw)\b`),
	regexp.MustCompile(`(?i)\bchild\s+abuse\b`),
	regexp.MustCompile(`(?i)\b(?:make|build)\s+(?:a\s+)?bomb\b`),
}

// PromptValidatorConfig はプロンプト検証の設定を保持する。
type PromptValidatorConfig struct {
	MaxLength            int
	ContentFilterEnabled bool
}

// PromptValidator はユーザー入力プロンプトの検証とサニタイズを提供する。
type PromptValidator struct {
	config    PromptValidatorConfig
	sanitizer *Sanitizer
}

// NewPromptValidator はPromptValidatorの新しいインスタンスを生成する。
func NewPromptValidator(config PromptValidatorConfig, sanitizer *Sanitizer) *PromptValidator {
	if config.MaxLength <= 0 {
		config.MaxLength = 4000
	}
	return &PromptValidator{
		config:    config,
		sanitizer: sanitizer,
	}
}

// Validate はユーザー入力プロンプトを検証し、成功時はサニタイズ済みテキストを返す。
// 検証はレート制限の状態を変更しない。
// 拒否時のReasonはセキュリティログ専用で、ユーザーへ返してはならない
// （ユーザーへは汎用のPROMPT_REJECTEDメッセージのみ）。
func (v *PromptValidator) Validate(text string) model.PromptValidation {
	// インジェクションシグネチャ: 最初のマッチで拒否
	for i, sig := range injectionSignatures {
		if sig.MatchString(text) {
			return model.PromptValidation{
				Valid:  false,
				Reason: fmt.Sprintf("injection signature matched (pattern %d)", i),
			}
		}
	}

	if len([]rune(text)) > v.config.MaxLength {
		return model.PromptValidation{
			Valid:  false,
			Reason: fmt.Sprintf("prompt length %d exceeds limit %d", len([]rune(text)), v.config.MaxLength),
		}
	}

	if v.config.ContentFilterEnabled {
		for i, pat := range inappropriatePatterns {
			if pat.MatchString(text) {
				return model.PromptValidation{
					Valid:  false,
					Reason: fmt.Sprintf("content filter matched (pattern %d)", i),
				}
			}
		}
	}

	return model.PromptValidation{
		Valid:     true,
		Sanitized: v.sanitizer.SanitizePrompt(text),
	}
}
