package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestNewSafeClientTimeout はタイムアウト設定が反映されることをテストする。
func TestNewSafeClientTimeout(t *testing.T) {
	guard := NewURLGuard()
	timeout := 5 * time.Second
	client := guard.NewSafeClient(timeout, 5*1024*1024)
	if client.Timeout != timeout {
		t.Errorf("expected timeout %v, got %v", timeout, client.Timeout)
	}
}

// TestNewSafeClientBlocksLoopback はSafeClientがループバックへのリクエストを
// ブロックすることをテストする。httptestサーバーは127.0.0.1で起動されるため、
// safeurlがDialerレベルでブロックする。
func TestNewSafeClientBlocksLoopback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	guard := NewURLGuard()
	client := guard.NewSafeClient(5*time.Second, 5*1024*1024)

	_, err := client.Get(ts.URL)
	if err == nil {
		t.Fatal("expected error for loopback address request, got nil")
	}
}

// TestValidateURL_PublicURL は公開URLの検証が成功することをテストする。
func TestValidateURL_PublicURL(t *testing.T) {
	guard := NewURLGuard()

	publicURLs := []string{
		"https://example.com",
		"https://johnsmith.dev",
		"http://blog.example.org",
		"https://linkedin.com/in/someone",
	}

	for _, u := range publicURLs {
		t.Run(u, func(t *testing.T) {
			if err := guard.ValidateURL(u); err != nil {
				t.Errorf("ValidateURL(%q) returned error: %v", u, err)
			}
		})
	}
}

// TestValidateURL_BlockedAddresses はプライベートIP・ループバック・
// メタデータIPの拒否をテストする。
func TestValidateURL_BlockedAddresses(t *testing.T) {
	guard := NewURLGuard()

	blockedURLs := []string{
		"http://10.0.0.1/",
		"http://172.16.0.1/",
		"http://192.168.1.100/",
		"http://127.0.0.1/",
		"http://localhost/",
		"http://169.254.169.254/latest/meta-data/",
		"http://[::1]/",
	}

	for _, u := range blockedURLs {
		t.Run(u, func(t *testing.T) {
			if err := guard.ValidateURL(u); err == nil {
				t.Errorf("ValidateURL(%q) should have returned error", u)
			}
		})
	}
}

// TestValidateURL_InvalidURL は無効なURL・許可外スキームの拒否をテストする。
func TestValidateURL_InvalidURL(t *testing.T) {
	guard := NewURLGuard()

	invalidURLs := []string{
		"",
		"not-a-url",
		"ftp://example.com/",
		"file:///etc/passwd",
		"javascript:alert(1)",
	}

	for _, u := range invalidURLs {
		t.Run(u, func(t *testing.T) {
			if err := guard.ValidateURL(u); err == nil {
				t.Errorf("ValidateURL(%q) should have returned error", u)
			}
		})
	}
}
