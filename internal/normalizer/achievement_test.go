package normalizer

import "testing"

// TestExtractAchievements_Bullets は箇条書き行からの達成事項抽出を検証する。
func TestExtractAchievements_Bullets(t *testing.T) {
	desc := "Platform work.\n- Shipped the v2 API\n* Migrated to Kubernetes\n• Cut deploy time in half"

	got := ExtractAchievements(desc)
	want := []string{"Shipped the v2 API", "Migrated to Kubernetes", "Cut deploy time in half"}

	if len(got) != len(want) {
		t.Fatalf("ExtractAchievements = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestExtractAchievements_Verbs は達成動詞で始まる文節の抽出を検証する。
func TestExtractAchievements_Verbs(t *testing.T) {
	desc := "Ran the data team. Reduced query latency by 80%. Improved onboarding."

	got := ExtractAchievements(desc)
	if len(got) != 2 {
		t.Fatalf("ExtractAchievements = %v, want 2 entries", got)
	}
	if got[0] != "Reduced query latency by 80%" {
		t.Errorf("got[0] = %q", got[0])
	}
	if got[1] != "Improved onboarding" {
		t.Errorf("got[1] = %q", got[1])
	}
}

// TestExtractAchievements_Empty は空の説明文で空スライスを返すことを検証する。
func TestExtractAchievements_Empty(t *testing.T) {
	got := ExtractAchievements("")
	if got == nil || len(got) != 0 {
		t.Errorf("ExtractAchievements(\"\") = %v, want empty non-nil slice", got)
	}
}

// TestExtractAchievements_NoMatches は達成事項を含まない説明文で空になることを検証する。
func TestExtractAchievements_NoMatches(t *testing.T) {
	got := ExtractAchievements("Worked on various things with the team.")
	if len(got) != 0 {
		t.Errorf("ExtractAchievements = %v, want empty", got)
	}
}
