package security

import (
	"errors"
	"strings"
	"testing"

	"github.com/hitoshi/foliogen/internal/model"
)

// TestPromptRegistry_Get は登録済み保護プロンプトの取得を検証する。
func TestPromptRegistry_Get(t *testing.T) {
	r := NewPromptRegistry(true)

	p, err := r.Get("LINKEDIN_PARSER")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if p.ID != "LINKEDIN_PARSER" {
		t.Errorf("ID = %q", p.ID)
	}
	if !p.Locked {
		t.Error("Locked = false, want true")
	}
	if !strings.HasPrefix(p.Hash, "sha256:") {
		t.Errorf("Hash = %q, want sha256: prefix", p.Hash)
	}
}

// TestPromptRegistry_NotFound は未登録IDの取得が失敗することを検証する。
func TestPromptRegistry_NotFound(t *testing.T) {
	r := NewPromptRegistry(true)

	_, err := r.Get("NO_SUCH_PROMPT")
	if err == nil {
		t.Fatal("expected error for unknown prompt ID, got nil")
	}
	// 未検出は完全性エラーではない
	var integrityErr *model.ErrIntegrityFailure
	if errors.As(err, &integrityErr) {
		t.Error("not-found should not be an integrity failure")
	}
}

// TestPromptRegistry_IntegrityFailure はロック・ハッシュの検証失敗が
// 致命的なErrIntegrityFailureになることを検証する。
func TestPromptRegistry_IntegrityFailure(t *testing.T) {
	r := NewPromptRegistry(true)

	// レジストリ内部のエントリを改ざんした状態を再現する
	p := r.prompts["LINKEDIN_PARSER"]
	p.Hash = "md5:deadbeef"
	r.prompts["LINKEDIN_PARSER"] = p

	_, err := r.Get("LINKEDIN_PARSER")
	var integrityErr *model.ErrIntegrityFailure
	if !errors.As(err, &integrityErr) {
		t.Fatalf("error = %v, want ErrIntegrityFailure", err)
	}

	p.Hash = hashContent("tampered content")
	r.prompts["LINKEDIN_PARSER"] = p
	_, err = r.Get("LINKEDIN_PARSER")
	if !errors.As(err, &integrityErr) {
		t.Fatalf("error = %v, want ErrIntegrityFailure for hash mismatch", err)
	}
}

// TestPromptRegistry_IntegrityCheckDisabled は完全性チェック無効時に
// 検証がスキップされることを検証する。
func TestPromptRegistry_IntegrityCheckDisabled(t *testing.T) {
	r := NewPromptRegistry(false)

	p := r.prompts["LINKEDIN_PARSER"]
	p.Hash = "bogus"
	r.prompts["LINKEDIN_PARSER"] = p

	if _, err := r.Get("LINKEDIN_PARSER"); err != nil {
		t.Errorf("Get returned error with integrity check disabled: %v", err)
	}
}

// TestBuildSecurePrompt_Ordering は合成プロンプトが保護コンテンツで始まり
// ユーザーテキストで終わる固定順序であることを検証する。
func TestBuildSecurePrompt_Ordering(t *testing.T) {
	r := NewPromptRegistry(true)

	protected, err := r.Get("LINKEDIN_PARSER")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	composed, err := r.BuildSecurePrompt("LINKEDIN_PARSER", "parse this profile", nil)
	if err != nil {
		t.Fatalf("BuildSecurePrompt returned error: %v", err)
	}

	if !strings.HasPrefix(composed, protected.Content) {
		t.Error("composed prompt must start with the exact protected content")
	}
	if !strings.HasSuffix(composed, "parse this profile") {
		t.Error("composed prompt must end with the user text")
	}
}

// TestBuildSecurePrompt_ContextBlock はコンテキストが保護コンテンツの後、
// ユーザー入力の前にキー順で直列化されることを検証する。
func TestBuildSecurePrompt_ContextBlock(t *testing.T) {
	r := NewPromptRegistry(true)

	composed, err := r.BuildSecurePrompt("PORTFOLIO_GENERATOR", "make it punchy", map[string]string{
		"name": "Jane",
		"job":  "Designer",
	})
	if err != nil {
		t.Fatalf("BuildSecurePrompt returned error: %v", err)
	}

	ctxIdx := strings.Index(composed, "job: Designer")
	userIdx := strings.Index(composed, "make it punchy")
	if ctxIdx == -1 || userIdx == -1 {
		t.Fatalf("composed prompt missing context or user input:\n%s", composed)
	}
	if ctxIdx > userIdx {
		t.Error("context block must come before user input")
	}
	// キー順の安定直列化: job が name より先
	if nameIdx := strings.Index(composed, "name: Jane"); nameIdx < ctxIdx {
		t.Error("context keys must be serialized in sorted order")
	}
}

// TestBuildSecurePrompt_UnknownID は未登録IDでの合成が失敗することを検証する。
func TestBuildSecurePrompt_UnknownID(t *testing.T) {
	r := NewPromptRegistry(true)

	if _, err := r.BuildSecurePrompt("NO_SUCH_PROMPT", "hello", nil); err == nil {
		t.Fatal("expected error for unknown prompt ID, got nil")
	}
}
