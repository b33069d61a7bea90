package normalizer

import (
	"regexp"
	"strings"
)

// achievementVerbs は達成事項の文頭を示す動詞。
var achievementVerbs = []string{
	"achieved",
	"delivered",
	"increased",
	"decreased",
	"improved",
	"reduced",
	"accomplished",
}

// bulletPrefixPattern は箇条書き行の先頭記号。
var bulletPrefixPattern = regexp.MustCompile(`^\s*[-*•·]\s*`)

// achievementSentencePattern は達成動詞で始まる文節を検出する。
// マッチした位置から行末・文末までを達成事項として捕捉する。
var achievementSentencePattern = regexp.MustCompile(
	`(?i)\b(` + strings.Join(achievementVerbs, "|") + `)\b([^.\n]*)`)

// ExtractAchievements は職歴の説明文から達成事項を抽出する。
// 箇条書き行（-, *, •, · で始まる行）の残り部分と、
// 達成動詞で始まる文節を捕捉する。構造化モードの職歴補強に使用する。
func ExtractAchievements(description string) []string {
	result := make([]string, 0)
	if description == "" {
		return result
	}

	seen := make(map[string]struct{})
	add := func(s string) {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return
		}
		if _, ok := seen[trimmed]; ok {
			return
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}

	for _, line := range strings.Split(description, "\n") {
		if loc := bulletPrefixPattern.FindStringIndex(line); loc != nil {
			add(line[loc[1]:])
			continue
		}

		// 箇条書きでない行は達成動詞で始まる文節を探す
		for _, m := range achievementSentencePattern.FindAllStringSubmatch(line, -1) {
			add(m[1] + m[2])
		}
	}

	return result
}
