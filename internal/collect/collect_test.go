package collect

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestExtractURLs(t *testing.T) {
	text := `See https://example.com/guide) and [https://two.example.com/post] plus "https://three.example.com".`
	urls := ExtractURLs(text)
	want := []string{"https://example.com/guide", "https://two.example.com/post", "https://three.example.com"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("got %v, want %v", urls, want)
	}
}

func TestExtractURLsEmpty(t *testing.T) {
	if urls := ExtractURLs(""); urls != nil {
		t.Errorf("expected nil for empty text, got %v", urls)
	}
	if urls := ExtractURLs("no links here"); urls != nil {
		t.Errorf("expected nil for linkless text, got %v", urls)
	}
}

func TestCollectSeedURLsOrderAndDedup(t *testing.T) {
	c := NewCollector(10)
	got := c.CollectSeedURLs(
		"best espresso machines",
		[]string{"https://seed.example.com/a/", "https://seed.example.com/b"},
		"Cited: https://cite.example.com/x and https://seed.example.com/a",
		"Overview mentions https://over.example.com/y and https://cite.example.com/x",
	)
	want := []string{
		"https://seed.example.com/a",
		"https://seed.example.com/b",
		"https://cite.example.com/x",
		"https://over.example.com/y",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCollectSeedURLsEmptyInput(t *testing.T) {
	c := NewCollector(10)
	if got := c.CollectSeedURLs("query", nil, "", ""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestCollectSeedURLsExpandsFeeds(t *testing.T) {
	rss := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Blog</title>
<item><title>One</title><link>https://blog.example.com/one</link></item>
<item><title>Two</title><link>https://blog.example.com/two</link></item>
<item><title>Three</title><link>https://blog.example.com/three</link></item>
</channel></rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rss)
	}))
	defer srv.Close()

	c := NewCollector(2)
	got := c.CollectSeedURLs("q", []string{srv.URL + "/feed.xml"}, "", "")
	want := []string{"https://blog.example.com/one", "https://blog.example.com/two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCollectSeedURLsKeepsUnparseableFeedSeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	feedURL := srv.URL + "/feed"
	c := NewCollector(10)
	got := c.CollectSeedURLs("q", []string{feedURL}, "", "")
	if len(got) != 1 || got[0] != feedURL {
		t.Errorf("expected unparseable feed seed kept as-is, got %v", got)
	}
}

func TestIsAcceptableURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://example.com/guide", true},
		{"http://example.com", true},
		{"ftp://example.com/file", false},
		{"https://reddit.com/r/espresso", false},
		{"https://www.reddit.com/r/espresso", false},
		{"https://YOUTUBE.com/watch?v=x", false},
		{"https://youtu.be/abc", false},
		{"https://www.wikipedia.org/wiki/Espresso", false},
		{"https://example.com/forum/thread-1", false},
		{"https://example.com/shop/item", false},
		{"https://example.com/category/coffee", false},
		{"https://example.com/tag/espresso", false},
		{"https://example.com/blog/products-we-love", false},
		{"https://example.com/guides/espresso", true},
	}
	for _, tc := range cases {
		if got := IsAcceptableURL(tc.url); got != tc.want {
			t.Errorf("IsAcceptableURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestSelectTopURLs(t *testing.T) {
	urls := []string{
		"https://a.example.com",
		"https://reddit.com/r/x",
		"https://b.example.com",
		"https://c.example.com",
		"https://d.example.com",
	}
	got := SelectTopURLs(urls, 3)
	want := []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSelectTopURLsEmptyResult(t *testing.T) {
	got := SelectTopURLs([]string{"https://quora.com/q", "ftp://x"}, 3)
	if len(got) != 0 {
		t.Errorf("expected empty selection, got %v", got)
	}
}
