package normalizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hitoshi/foliogen/internal/model"
)

// sectionKeywords はセクション見出しの検出キーワード。
// 50文字未満の行の小文字形がこれらを含む場合、新しいセクションの開始とみなす。
var sectionKeywords = []string{
	"experience",
	"education",
	"skills",
	"certifications",
	"projects",
	"volunteer",
	"about",
	"summary",
}

// sectionHeaderMaxLen はセクション見出しとみなす行の最大長。
const sectionHeaderMaxLen = 50

var (
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern    = regexp.MustCompile(`(?:\+?1[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	urlPattern      = regexp.MustCompile(`https?://[^\s)>\]]+`)
	linkedinPattern = regexp.MustCompile(`https?://(?:www\.)?linkedin\.com/in/[A-Za-z0-9_%-]+/?`)
	locationPattern = regexp.MustCompile(`(?i)\b(?:located|based|from)(?:\s+in)?\s+([^\n,.!?]+)`)
)

// parseText はフリーテキスト入力をヒューリスティックに分割して正規化する。
// 正規表現ベースの近似パーサーであり、抽出できなかったフィールドは
// 空のまま返す（エラーにはしない）。
//
// 既知の制約: テキストモードでは資格・言語・プロジェクト・ボランティアの
// 抽出は行わず、常に空シーケンスを返す。上流ソースの形式が安定していない
// ため、推測による抽出は意図的に実装していない。
func parseText(input string) *model.Profile {
	sections := segmentSections(input)

	profile := &model.Profile{
		Work:           make([]model.WorkExperience, 0),
		Education:      make([]model.Education, 0),
		Certifications: make([]model.Certification, 0),
		Languages:      make([]model.Language, 0),
		Projects:       make([]model.Project, 0),
		Volunteer:      make([]model.VolunteerExperience, 0),
		Skills:         make([]string, 0),
	}

	// ヘッダーセクション: 1行目=氏名、2行目=肩書き、所在地はフレーズ検出
	header := sections["header"]
	nonBlank := nonBlankLines(header)
	if len(nonBlank) > 0 {
		profile.Personal.Name = nonBlank[0]
	}
	if len(nonBlank) > 1 {
		profile.Personal.Headline = nonBlank[1]
	}
	if m := locationPattern.FindStringSubmatch(header); m != nil {
		profile.Personal.Location = strings.TrimSpace(m[1])
	}

	// 連絡先: 全セクションを連結したテキストから抽出する
	profile.Contact = extractContact(input)

	// 概要セクション（about / summary）
	if summary, ok := sections["summary"]; ok {
		profile.Personal.Summary = strings.TrimSpace(summary)
	} else if about, ok := sections["about"]; ok {
		profile.Personal.Summary = strings.TrimSpace(about)
	}

	// 職歴・学歴: 空行区切りのブロック単位で抽出する
	if exp, ok := sections["experience"]; ok {
		profile.Work = extractWorkBlocks(exp)
	}
	if edu, ok := sections["education"]; ok {
		profile.Education = extractEducationBlocks(edu)
	}

	// スキル: カンマ・改行・箇条書き記号で分割する
	if skills, ok := sections["skills"]; ok {
		profile.Skills = splitSkills(skills)
	}

	return profile
}

// segmentSections は入力をセクション名→本文のマップに分割する。
// セクション見出しより前の内容は暗黙の"header"セクションに属する。
func segmentSections(input string) map[string]string {
	sections := make(map[string]string)
	current := "header"
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			sections[current] += buf.String()
			buf.Reset()
		}
	}

	for _, line := range strings.Split(input, "\n") {
		if name, ok := matchSectionHeader(line); ok {
			flush()
			current = name
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	flush()

	return sections
}

// matchSectionHeader は行がセクション見出しかどうかを判定する。
// 50文字未満かつ小文字形がキーワードを含む行を見出しとみなす。
func matchSectionHeader(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) >= sectionHeaderMaxLen {
		return "", false
	}
	lower := strings.ToLower(trimmed)
	for _, keyword := range sectionKeywords {
		if strings.Contains(lower, keyword) {
			return keyword, true
		}
	}
	return "", false
}

// extractContact は入力全体から連絡先情報を正規表現で抽出する。
// websiteには最初にマッチした汎用URLを採用する。
// LinkedIn URLが見つからない場合、LinkedInは空文字列のまま。
func extractContact(input string) model.ContactInfo {
	contact := model.ContactInfo{}

	if m := emailPattern.FindString(input); m != "" {
		contact.Email = m
	}
	if m := phonePattern.FindString(input); m != "" {
		contact.Phone = strings.TrimSpace(m)
	}
	if m := urlPattern.FindString(input); m != "" {
		contact.Website = m
	}
	if m := linkedinPattern.FindString(input); m != "" {
		contact.LinkedIn = m
	}

	return contact
}

// extractWorkBlocks は職歴セクションを空行区切りのブロックに分割して写像する。
// ブロックの1行目=役職、2行目=会社名、残り=説明文。2行未満のブロックは捨てる。
func extractWorkBlocks(section string) []model.WorkExperience {
	result := make([]model.WorkExperience, 0)
	for _, block := range splitBlocks(section) {
		if len(block) < 2 {
			continue
		}
		result = append(result, model.WorkExperience{
			ID:           fmt.Sprintf("work_%d", len(result)),
			Title:        block[0],
			Company:      block[1],
			Description:  strings.Join(block[2:], " "),
			Achievements: make([]string, 0),
		})
	}
	return result
}

// extractEducationBlocks は学歴セクションをブロック単位で写像する。
// ブロックの1行目=学校名、2行目=学位、残り=説明文。2行未満のブロックは捨てる。
func extractEducationBlocks(section string) []model.Education {
	result := make([]model.Education, 0)
	for _, block := range splitBlocks(section) {
		if len(block) < 2 {
			continue
		}
		result = append(result, model.Education{
			ID:          fmt.Sprintf("edu_%d", len(result)),
			Institution: block[0],
			Degree:      block[1],
			Description: strings.Join(block[2:], " "),
		})
	}
	return result
}

// splitBlocks はセクション本文を空行区切りのブロック（非空行のリスト）に分割する。
func splitBlocks(section string) [][]string {
	var blocks [][]string
	var current []string

	for _, line := range strings.Split(section, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, trimmed)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	return blocks
}

// skillSplitPattern はスキル分割の区切り: カンマ、改行、箇条書き記号。
var skillSplitPattern = regexp.MustCompile(`[,\n•·]`)

// splitSkills はスキルセクションを個々のスキル文字列へ分割する。
// 前後の空白を除去し、空要素を捨てる。重複排除は行わない。
func splitSkills(section string) []string {
	parts := skillSplitPattern.Split(section, -1)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// nonBlankLines は非空行のみをトリムして返す。
func nonBlankLines(text string) []string {
	var result []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
