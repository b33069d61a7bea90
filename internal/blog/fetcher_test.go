package blog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/foliogen/internal/model"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Engineering Blog</title>
	<link>https://blog.example.com</link>
	<item>
		<title>Postmortem: the cache that lied</title>
		<link>https://blog.example.com/posts/1</link>
		<description>What happens when TTLs drift.</description>
		<pubDate>Mon, 02 Jun 2025 10:00:00 +0000</pubDate>
	</item>
	<item>
		<title>Profiling Go allocations</title>
		<link>https://blog.example.com/posts/2</link>
		<description>pprof in anger.</description>
		<pubDate>Wed, 14 May 2025 09:00:00 +0000</pubDate>
	</item>
</channel>
</rss>`

// TestFetchPosts はRSSフィードからブログ記事を取得できることを検証する。
func TestFetchPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	f := NewFetcher(nil, 0, 0, nil)
	posts, err := f.FetchPosts(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchPosts returned error: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].Title != "Postmortem: the cache that lied" {
		t.Errorf("posts[0].Title = %q", posts[0].Title)
	}
	if posts[0].PublishedAt != "2025-06-02" {
		t.Errorf("posts[0].PublishedAt = %q, want 2025-06-02", posts[0].PublishedAt)
	}
	if posts[1].URL != "https://blog.example.com/posts/2" {
		t.Errorf("posts[1].URL = %q", posts[1].URL)
	}
}

// TestFetchPosts_CapsAtFivePosts は記事が最大5件に制限されることを検証する。
func TestFetchPosts_CapsAtFivePosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>T</title>`)
		for i := 0; i < 8; i++ {
			fmt.Fprintf(w, `<item><title>Post %d</title><link>https://b.example.com/%d</link></item>`, i, i)
		}
		fmt.Fprint(w, `</channel></rss>`)
	}))
	defer server.Close()

	f := NewFetcher(nil, 0, 0, nil)
	posts, err := f.FetchPosts(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchPosts returned error: %v", err)
	}
	if len(posts) != maxPosts {
		t.Errorf("len(posts) = %d, want %d", len(posts), maxPosts)
	}
}

// TestFetchPosts_HTTPError は非200ステータスで取得失敗エラーを返すことを検証する。
func TestFetchPosts_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFetcher(nil, 0, 0, nil)
	_, err := f.FetchPosts(context.Background(), server.URL)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeFetchFailed {
		t.Fatalf("error = %v, want FETCH_FAILED", err)
	}
}

// TestFetchPosts_ParseError は非フィードボディでエラーを返すことを検証する。
func TestFetchPosts_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer server.Close()

	f := NewFetcher(nil, 0, 0, nil)
	if _, err := f.FetchPosts(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for non-feed body, got nil")
	}
}

// TestEnrich_BestEffort はEnrichが失敗時に空を返し、エラーを
// 伝搬しないことを検証する。
func TestEnrich_BestEffort(t *testing.T) {
	f := NewFetcher(nil, 0, 0, nil)
	d := NewDetector(nil, 0, 0)

	// 空URL
	if posts := f.Enrich(context.Background(), d, ""); posts != nil {
		t.Errorf("Enrich with empty URL = %v, want nil", posts)
	}

	// 到達不能なURL
	if posts := f.Enrich(context.Background(), d, "http://127.0.0.1:1/unreachable"); posts != nil {
		t.Errorf("Enrich with unreachable URL = %v, want nil", posts)
	}
}

// TestEnrich_Success はWebサイト→フィード検出→記事取得の一連の流れを検証する。
func TestEnrich_Success(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><head><link rel="alternate" type="application/rss+xml" href="%s/feed.xml"></head><body></body></html>`, server.URL)
	})
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	f := NewFetcher(nil, 0, 0, nil)
	d := NewDetector(nil, 0, 0)

	posts := f.Enrich(context.Background(), d, server.URL)
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
}
