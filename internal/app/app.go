package app

import (
	"context"
	"time"

	"newsreel/internal/fetcher"
	"newsreel/internal/logger"
	"newsreel/internal/metrics"
	"newsreel/internal/scrape"
)

// The pipeline stages, as interfaces so a run can be exercised end to end
// with fakes.
type (
	HeadlineSource interface {
		FetchTopHeadlines(ctx context.Context) []fetcher.NewsItem
	}
	MetaExtractor interface {
		ExtractMeta(ctx context.Context, url string) (scrape.PageMeta, error)
	}
	SlideRenderer interface {
		GenerateAll(ctx context.Context, items []fetcher.NewsItem) ([]string, error)
	}
	CarouselPublisher interface {
		PostCarousel(ctx context.Context, paths []string, items []fetcher.NewsItem) error
	}
)

// Pipeline runs one full fetch → render → publish cycle. Every failure
// path degrades to "skip this cycle"; nothing here is fatal to the
// process.
type Pipeline struct {
	source    HeadlineSource
	extractor MetaExtractor
	renderer  SlideRenderer
	publisher CarouselPublisher
}

func NewPipeline(source HeadlineSource, extractor MetaExtractor, renderer SlideRenderer, publisher CarouselPublisher) *Pipeline {
	return &Pipeline{
		source:    source,
		extractor: extractor,
		renderer:  renderer,
		publisher: publisher,
	}
}

// RunOnce executes one posting cycle. A nil return with nothing posted
// means the cycle was legitimately skipped (no content); errors mean the
// cycle failed and will not be retried until the next schedule tick.
func (p *Pipeline) RunOnce(ctx context.Context) error {
	start := time.Now()
	logger.Info("starting post cycle")

	items := p.source.FetchTopHeadlines(ctx)
	if len(items) == 0 {
		logger.Info("no headlines available, skipping post")
		metrics.Global.IncrementRunsSkipped()
		return nil
	}
	logger.Info("fetched headlines", "count", len(items))

	p.backfillMeta(ctx, items)

	paths, err := p.renderer.GenerateAll(ctx, items)
	if err != nil {
		metrics.Global.SetError(err.Error())
		logger.Error("slide generation failed", "error", err)
		return err
	}

	if len(paths) < 2 {
		logger.Info("not enough slides for a carousel, skipping post", "slides", len(paths))
		metrics.Global.IncrementRunsSkipped()
		return nil
	}

	if err := p.publisher.PostCarousel(ctx, paths, items); err != nil {
		return err
	}

	metrics.Global.RecordRun(time.Since(start))
	logger.Info("post cycle finished", "duration", time.Since(start))
	return nil
}

// backfillMeta fills missing background images and descriptions from the
// article pages themselves. Best effort: a failed extraction just leaves
// the item as the news source delivered it.
func (p *Pipeline) backfillMeta(ctx context.Context, items []fetcher.NewsItem) {
	if p.extractor == nil {
		return
	}

	for i := range items {
		if items[i].ImageURL != "" && items[i].Description != "" {
			continue
		}

		meta, err := p.extractor.ExtractMeta(ctx, items[i].URL)
		if err != nil {
			logger.Debug("article meta extraction failed", "url", items[i].URL, "error", err)
			continue
		}

		if items[i].ImageURL == "" {
			items[i].ImageURL = meta.ImageURL
		}
		if items[i].Description == "" {
			items[i].Description = meta.Description
		}
	}
}
