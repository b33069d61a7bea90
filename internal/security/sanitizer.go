package security

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// excessNewlinePattern は3行以上連続する改行。
var excessNewlinePattern = regexp.MustCompile(`\n{3,}`)

// Sanitizer はユーザー由来テキストのサニタイズ機能を提供する。
// bluemondayのStrictPolicy（全タグ除去）を使用し、AI生成へ渡る
// プロンプトと取り込まれたプロフィールの各フィールドに適用する。
// 同一入力に対して常に同一出力を返す（冪等）。
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer はSanitizerの新しいインスタンスを生成する。
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizePrompt はプロンプト用テキストをサニタイズする。
// HTML風タグを除去し、3行以上の連続改行を2行に畳み込み、前後をトリムする。
// タグ除去で生じたHTMLエンティティはプレーンテキストへ戻す
// （出力はHTMLではなく生成バックエンドへ渡すテキストであるため）。
func (s *Sanitizer) SanitizePrompt(text string) string {
	cleaned := s.policy.Sanitize(text)
	cleaned = html.UnescapeString(cleaned)
	cleaned = excessNewlinePattern.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

// SanitizeField は取り込まれたプロフィールの1フィールドをサニタイズする。
// プロフィールはポートフォリオページに埋め込まれるため、
// タグは保存前にすべて除去する。
func (s *Sanitizer) SanitizeField(text string) string {
	cleaned := s.policy.Sanitize(text)
	cleaned = html.UnescapeString(cleaned)
	return strings.TrimSpace(cleaned)
}
