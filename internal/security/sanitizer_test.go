package security

import "testing"

// TestSanitizePrompt_StripsTags はHTML風タグの除去を検証する。
func TestSanitizePrompt_StripsTags(t *testing.T) {
	s := NewSanitizer()

	cases := []struct {
		input string
		want  string
	}{
		{"plain text", "plain text"},
		{"<p>hello</p>", "hello"},
		{"a <img src=x onerror=alert(1)> b", "a  b"},
		{"  padded  ", "padded"},
	}

	for _, c := range cases {
		if got := s.SanitizePrompt(c.input); got != c.want {
			t.Errorf("SanitizePrompt(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}

// TestSanitizePrompt_CollapsesNewlines は3行以上の連続改行が2行に
// 畳み込まれることを検証する。
func TestSanitizePrompt_CollapsesNewlines(t *testing.T) {
	s := NewSanitizer()

	got := s.SanitizePrompt("a\n\n\nb\n\n\n\n\nc")
	want := "a\n\nb\n\nc"
	if got != want {
		t.Errorf("SanitizePrompt = %q, want %q", got, want)
	}
}

// TestSanitizePrompt_Idempotent は同一入力に対する冪等性を検証する。
func TestSanitizePrompt_Idempotent(t *testing.T) {
	s := NewSanitizer()

	input := "<div>Go engineer</div>\n\n\n\nwith 10 years' experience & more"
	once := s.SanitizePrompt(input)
	twice := s.SanitizePrompt(once)
	if once != twice {
		t.Errorf("not idempotent: once=%q twice=%q", once, twice)
	}
}

// TestSanitizeField はプロフィールフィールドのタグ除去を検証する。
func TestSanitizeField(t *testing.T) {
	s := NewSanitizer()

	got := s.SanitizeField("<b>Acme</b> Corp")
	if got != "Acme Corp" {
		t.Errorf("SanitizeField = %q, want Acme Corp", got)
	}
}
