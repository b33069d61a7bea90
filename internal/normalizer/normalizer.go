// Package normalizer は異種プロフィール入力の正規化を提供する。
//
// 上流のプロフィールソース（構造化エクスポート・フリーテキスト）は
// このシステムの管理外にあり、少なくとも2つの互換性のない形で届く。
// normalizerはその揺らぎを境界で吸収し、下流の全コンポーネントが
// 単一の正規形（model.Profile）だけを扱えるようにする。
package normalizer

import (
	"time"

	"github.com/hitoshi/foliogen/internal/model"
)

// Mode は入力形式を表す。
type Mode string

const (
	// ModeStructured は構造化データ（JSON）入力。
	ModeStructured Mode = "structured"
	// ModeText はフリーテキスト入力。
	ModeText Mode = "text"
)

// Service はプロフィール正規化のサービス層。
// Parseは入力を変更しない純粋な変換であり、呼び出しごとに新しいProfileを構築する。
type Service struct{}

// NewService はServiceの新しいインスタンスを生成する。
func NewService() *Service {
	return &Service{}
}

// Parse は生のプロフィール入力を正規化済みProfileへ変換する。
// 構造化モードではJSONとして不正な入力に対してPARSE_FAILEDエラーを返す。
// テキストモードは決して失敗せず、抽出できないフィールドは空のまま返す
// （ベストエフォートの劣化動作）。
func (s *Service) Parse(input string, mode Mode) (*model.Profile, error) {
	switch mode {
	case ModeText:
		return parseText(input), nil
	default:
		return parseStructured(input)
	}
}

// dateLayouts は日付正規化で試行する入力形式。上から順に評価する。
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01",
	"2006/01",
	"01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2006",
	"Jan 2006",
	"2006",
}

// normalizeDate は日付文字列をYYYY-MM-DD形式へ正規化する。
// いずれの形式でも解釈できない場合は元の文字列をそのまま返す（エラーにしない）。
func normalizeDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// firstNonEmpty は優先順に並んだ候補から最初の非空文字列を返す。
// 構造化モードの代替キー解決（例: name ← name または fullName）に使用する。
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
