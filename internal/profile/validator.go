// Package profile は正規化済みプロフィールの検証と最適化を提供する。
package profile

import (
	"fmt"

	"github.com/hitoshi/foliogen/internal/model"
)

// Validate は正規化済みプロフィールの完全性を検査する。
// 全ルールを独立に評価し、違反した全件を返す（先頭で打ち切らない）。
// 呼び出し側は単一エラー前提の処理をしてはならない。
//
// ルール:
//   - 氏名必須
//   - 肩書き必須
//   - 職歴1件以上必須
//   - 各職歴は会社名と役職の両方が必須（インデックス付きで報告）
func Validate(p *model.Profile) model.ValidationReport {
	errs := make([]string, 0)

	if p.Personal.Name == "" {
		errs = append(errs, "氏名は必須です")
	}
	if p.Personal.Headline == "" {
		errs = append(errs, "肩書きは必須です")
	}
	if len(p.Work) == 0 {
		errs = append(errs, "職歴が1件以上必要です")
	}
	for i, w := range p.Work {
		if w.Company == "" {
			errs = append(errs, fmt.Sprintf("職歴%d件目: 会社名は必須です", i+1))
		}
		if w.Title == "" {
			errs = append(errs, fmt.Sprintf("職歴%d件目: 役職は必須です", i+1))
		}
	}

	return model.ValidationReport{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}
