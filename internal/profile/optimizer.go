package profile

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/hitoshi/foliogen/internal/model"
)

// 下流の生成処理はプロンプト予算に上限があるため、
// 切り詰めは生成側に任せず、ここで決定的に行う。
const (
	maxExperiences = 10
	maxSkills      = 20
	maxProjects    = 6
)

var (
	multiSpacePattern   = regexp.MustCompile(`[ \t]{2,}`)
	multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
)

// Optimize はプロフィールを生成向けに整形した新しい値を返す。
// 入力は変更しない（純粋変換）。同一入力に対して常に同一出力を返し、
// Optimize(Optimize(p)) == Optimize(p) が成り立つ（冪等）。
//
//   - 概要の連続空白・過剰な空行を畳み込む
//   - 職歴を開始日の降順に並べ、直近10件に切り詰める
//     （解釈不能・空の開始日はエポック相当として最古扱い）
//   - スキルを先頭20件に切り詰める（与えられた順序のまま、重複排除なし）
//   - プロジェクトを先頭6件に切り詰める
func Optimize(p model.Profile) model.Profile {
	out := p

	out.Personal.Summary = collapseWhitespace(p.Personal.Summary)

	out.Work = make([]model.WorkExperience, len(p.Work))
	copy(out.Work, p.Work)
	sort.SliceStable(out.Work, func(i, j int) bool {
		return startDateOf(out.Work[i]).After(startDateOf(out.Work[j]))
	})
	if len(out.Work) > maxExperiences {
		out.Work = out.Work[:maxExperiences]
	}

	if len(p.Skills) > maxSkills {
		out.Skills = append([]string(nil), p.Skills[:maxSkills]...)
	}
	if len(p.Projects) > maxProjects {
		out.Projects = append([]model.Project(nil), p.Projects[:maxProjects]...)
	}

	return out
}

// startDateOf は職歴の開始日をソートキーとして解釈する。
// YYYY-MM-DDとして解釈できない場合はエポック（最古）を返す。
func startDateOf(w model.WorkExperience) time.Time {
	t, err := time.Parse("2006-01-02", w.StartDate)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}

// collapseWhitespace は連続する空白と3行以上の空行を畳み込み、前後をトリムする。
func collapseWhitespace(s string) string {
	s = multiSpacePattern.ReplaceAllString(s, " ")
	s = multiNewlinePattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
