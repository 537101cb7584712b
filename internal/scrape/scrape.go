package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// PageMeta is what an article page tells us about itself: a lead image for
// the slide background and a description for the caption.
type PageMeta struct {
	ImageURL    string
	Description string
}

// Extractor pulls og:/meta tags from article pages. Requests are rate
// limited so a ten-headline run does not hammer the publishers.
type Extractor struct {
	client  *http.Client
	limiter *rate.Limiter
	cache   *metaCache
}

func NewExtractor(timeout time.Duration) *Extractor {
	return &Extractor{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		cache:   newMetaCache(6 * time.Hour),
	}
}

// ExtractMeta fetches the page at url and reads its social-preview tags.
func (e *Extractor) ExtractMeta(ctx context.Context, url string) (PageMeta, error) {
	if meta, ok := e.cache.get(url); ok {
		return meta, nil
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return PageMeta{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PageMeta{}, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return PageMeta{}, fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PageMeta{}, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return PageMeta{}, fmt.Errorf("error parsing HTML: %w", err)
	}

	meta := extractMeta(doc)
	e.cache.set(url, meta)
	return meta, nil
}

func extractMeta(doc *goquery.Document) PageMeta {
	var meta PageMeta

	imageSelectors := []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
		`meta[property="og:image:url"]`,
	}
	for _, selector := range imageSelectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			content = strings.TrimSpace(content)
			if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
				meta.ImageURL = content
				break
			}
		}
	}

	descSelectors := []string{
		`meta[property="og:description"]`,
		`meta[name="description"]`,
		`meta[name="twitter:description"]`,
	}
	for _, selector := range descSelectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if content = strings.TrimSpace(content); content != "" {
				meta.Description = content
				break
			}
		}
	}

	return meta
}
