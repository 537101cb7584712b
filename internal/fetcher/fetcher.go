package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newsreel/internal/logger"
	"newsreel/internal/metrics"
)

const defaultAPIBase = "https://newsapi.org/v2"

// NewsItem is one accepted headline. It lives for a single run; only its
// title survives across runs, through the history store.
type NewsItem struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	Category    string
	FetchedAt   time.Time
}

// HistoryStore is the duplicate-suppression dependency.
type HistoryStore interface {
	IsDuplicate(candidate string) bool
	Add(headline string) error
}

// Fetcher produces up to Target clean, de-duplicated, category-tagged
// headlines per run.
type Fetcher struct {
	client  *http.Client
	apiBase string
	apiKey  string
	country string
	sources *SourcesConfig
	history HistoryStore
	target  int
	now     func() time.Time

	parseFeed func(ctx context.Context, url string) (*gofeed.Feed, error)
}

func New(apiKey, country string, sources *SourcesConfig, history HistoryStore, target int, timeout time.Duration) *Fetcher {
	parser := gofeed.NewParser()
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		apiBase: defaultAPIBase,
		apiKey:  apiKey,
		country: country,
		sources: sources,
		history: history,
		target:  target,
		now:     time.Now,
		parseFeed: func(ctx context.Context, url string) (*gofeed.Feed, error) {
			return parser.ParseURLWithContext(url, ctx)
		},
	}
}

// article is the wire shape shared by both sources.
type article struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
}

// FetchTopHeadlines runs the primary category pass, then the backup pass
// if the target was not reached. Every source failure degrades to zero
// results for that category. A short or empty result is valid: the caller
// decides whether it is worth posting.
func (f *Fetcher) FetchTopHeadlines(ctx context.Context) []NewsItem {
	var items []NewsItem

	for _, pass := range [][]CategoryTarget{f.sources.Categories, f.sources.BackupCategories} {
		for _, ct := range pass {
			if len(items) >= f.target {
				return items[:f.target]
			}
			items = f.collectCategory(ctx, ct, items)
		}
		if len(items) >= f.target {
			break
		}
	}

	if len(items) > f.target {
		items = items[:f.target]
	}
	return items
}

func (f *Fetcher) collectCategory(ctx context.Context, ct CategoryTarget, items []NewsItem) []NewsItem {
	articles, err := f.fetchFromAPI(ctx, ct.Name)
	if err != nil {
		logger.Warn("news API failed for category, trying RSS", "category", ct.Name, "error", err)
		articles, err = f.fetchFromRSS(ctx, ct.Name)
		if err != nil {
			logger.Warn("no source available for category, skipping", "category", ct.Name, "error", err)
			return items
		}
	}

	accepted := 0
	for _, a := range articles {
		if accepted >= ct.Count || len(items) >= f.target {
			break
		}

		item, ok := f.accept(a, ct.Name)
		if !ok {
			continue
		}

		items = append(items, item)
		accepted++
	}

	return items
}

// accept runs one candidate through cleaning and the filter chain, and
// records it in the history so later categories in the same run cannot
// re-accept a near-identical story.
func (f *Fetcher) accept(a article, category string) (NewsItem, bool) {
	title := CleanTitle(a.Title)
	if title == "" {
		return NewsItem{}, false
	}

	if !IsSafe(title) {
		logger.Debug("headline rejected by denylist", "title", title)
		return NewsItem{}, false
	}

	if !strings.HasPrefix(a.URL, "http://") && !strings.HasPrefix(a.URL, "https://") {
		logger.Debug("headline rejected, malformed URL", "url", a.URL)
		return NewsItem{}, false
	}

	if f.history.IsDuplicate(title) {
		logger.Debug("headline rejected as duplicate", "title", title)
		metrics.Global.IncrementDuplicatesFiltered()
		return NewsItem{}, false
	}

	if err := f.history.Add(title); err != nil {
		logger.Warn("failed to record headline in history", "error", err)
	}

	tagged := category
	if tagged == "" || tagged == "general" || tagged == "trending" {
		tagged = Categorize(title)
	}

	metrics.Global.IncrementHeadlinesFetched()

	return NewsItem{
		Title:       title,
		Description: strings.TrimSpace(a.Description),
		URL:         a.URL,
		ImageURL:    a.ImageURL,
		Category:    tagged,
		FetchedAt:   f.now(),
	}, true
}

type apiResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
	} `json:"articles"`
}

func (f *Fetcher) fetchFromAPI(ctx context.Context, category string) ([]article, error) {
	params := url.Values{}
	params.Set("country", f.country)
	params.Set("apiKey", f.apiKey)
	params.Set("pageSize", "20")
	params.Set("language", "en")
	if category != "" && category != "general" {
		params.Set("category", category)
	}

	endpoint := f.apiBase + "/top-headlines?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching headlines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news API error: status %d", resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("error parsing headlines: %w", err)
	}
	if parsed.Status != "ok" {
		return nil, fmt.Errorf("news API error: %s", parsed.Message)
	}

	articles := make([]article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		articles = append(articles, article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
		})
	}
	return articles, nil
}

func (f *Fetcher) fetchFromRSS(ctx context.Context, category string) ([]article, error) {
	feedURL, ok := f.sources.RSSFeeds[category]
	if !ok {
		return nil, fmt.Errorf("no RSS feed configured for category %q", category)
	}

	feed, err := f.parseFeed(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing RSS %s: %w", feedURL, err)
	}

	articles := make([]article, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := article{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
		}
		if item.Image != nil {
			a.ImageURL = item.Image.URL
		}
		articles = append(articles, a)
	}

	logger.Info("loaded headlines from RSS", "category", category, "count", len(articles))
	return articles, nil
}
