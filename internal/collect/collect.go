package collect

import (
	"log"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

var urlPattern = regexp.MustCompile(`https?://[^\s)\]>"']+`)

// ExtractURLs scans free text for http(s) URLs, stopping at whitespace
// and common trailing punctuation.
func ExtractURLs(text string) []string {
	if text == "" {
		return nil
	}
	return urlPattern.FindAllString(text, -1)
}

// Collector merges explicit seed URLs with URLs scraped out of
// citation/overview text. Seed URLs that point at an RSS/Atom feed are
// expanded into their item links.
type Collector struct {
	parser       *gofeed.Parser
	maxFeedItems int
}

// NewCollector creates a collector. maxFeedItems bounds how many item
// links one feed seed may contribute.
func NewCollector(maxFeedItems int) *Collector {
	if maxFeedItems <= 0 {
		maxFeedItems = 10
	}
	return &Collector{parser: gofeed.NewParser(), maxFeedItems: maxFeedItems}
}

// CollectSeedURLs produces a deduplicated ordered candidate list:
// explicit seeds first, then citation-text URLs, then overview-text
// URLs, keeping first-seen order. The query is unused for lookup,
// reserved for future search integration.
func (c *Collector) CollectSeedURLs(query string, seedURLs []string, citationsText, overviewText string) []string {
	_ = query

	var collected []string
	for _, seed := range seedURLs {
		collected = append(collected, c.expandSeed(seed)...)
	}
	collected = append(collected, ExtractURLs(citationsText)...)
	collected = append(collected, ExtractURLs(overviewText)...)

	seen := make(map[string]struct{})
	var unique []string
	for _, u := range collected {
		cleaned := strings.TrimRight(strings.TrimSpace(u), "/ ")
		if cleaned == "" {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		unique = append(unique, cleaned)
	}
	return unique
}

// expandSeed returns a feed seed's item links, or the seed itself for
// ordinary URLs and on any parse failure.
func (c *Collector) expandSeed(seed string) []string {
	if !looksLikeFeed(seed) {
		return []string{seed}
	}

	feed, err := c.parser.ParseURL(seed)
	if err != nil {
		log.Printf("Failed to parse feed seed %s: %v", seed, err)
		return []string{seed}
	}

	var links []string
	for _, item := range feed.Items {
		if len(links) >= c.maxFeedItems {
			break
		}
		link := item.Link
		if link == "" {
			link = item.GUID
		}
		if link != "" {
			links = append(links, link)
		}
	}
	if len(links) == 0 {
		return []string{seed}
	}
	log.Printf("Expanded feed seed %s into %d item links", seed, len(links))
	return links
}

var feedHints = []string{"/feed", "/rss", "/atom", ".rss", ".atom"}

func looksLikeFeed(rawURL string) bool {
	lower := strings.ToLower(strings.TrimRight(rawURL, "/"))
	for _, hint := range feedHints {
		if strings.HasSuffix(lower, hint) {
			return true
		}
	}
	return strings.HasSuffix(lower, "feed.xml") || strings.HasSuffix(lower, "rss.xml") || strings.HasSuffix(lower, "atom.xml")
}
