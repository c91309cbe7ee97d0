package extract

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Text shorter than this after readability extraction triggers the
// generic HTML-to-text fallback.
const minReadabilityWords = 150

// maxTextChars caps extracted article text before it reaches prompts.
const maxTextChars = 120000

// Content is the readable content pulled from one URL.
type Content struct {
	URL   string
	Title string
	Text  string
}

// Extractor fetches URLs and extracts readable title/text.
type Extractor struct {
	client *http.Client
}

// NewExtractor creates an extractor with a bounded fetch timeout.
func NewExtractor(timeout time.Duration) *Extractor {
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Extractor{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Extract fetches one URL and returns its readable content. Primary
// extraction is readability; when that yields too little text the
// generic HTML-to-text fallback takes over.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (Content, error) {
	html, err := e.fetchHTML(ctx, pageURL)
	if err != nil {
		return Content{}, err
	}

	title, text := extractReadable(html, pageURL)
	if len(strings.Fields(text)) < minReadabilityWords {
		title, text = extractGeneric(html)
	}

	if len(text) > maxTextChars {
		text = text[:maxTextChars]
	}
	return Content{URL: pageURL, Title: title, Text: text}, nil
}

// ExtractAll fetches all URLs concurrently. Per-URL failures are
// logged and dropped; surviving results keep the input order.
func (e *Extractor) ExtractAll(ctx context.Context, urls []string) []Content {
	results := make([]*Content, len(urls))

	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			content, err := e.Extract(ctx, u)
			if err != nil {
				log.Printf("Skipping %s: %v", u, err)
				return
			}
			results[i] = &content
		}(i, u)
	}
	wg.Wait()

	var extracted []Content
	for _, r := range results {
		if r != nil {
			extracted = append(extracted, *r)
		}
	}
	return extracted
}

func (e *Extractor) fetchHTML(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "rankdraft/1.0 (seo content agent)")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// extractReadable runs readability over the page, taking the title
// from page metadata with "Untitled" as the default.
func extractReadable(html, pageURL string) (title, text string) {
	parsedURL, _ := url.Parse(pageURL)
	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return "Untitled", ""
	}

	title = strings.TrimSpace(article.Title)
	if title == "" {
		title = "Untitled"
	}
	return title, strings.TrimSpace(article.TextContent)
}

// extractGeneric strips non-content nodes and flattens the remaining
// text line by line, discarding blanks.
func extractGeneric(html string) (title, text string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "Untitled", ""
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = "Untitled"
	}

	doc.Find("script, style, noscript, svg").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Find("body").Text(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return title, strings.Join(lines, "\n")
}
