package scraper

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aluiziolira/go-scrape-reviewers/config"
	"github.com/aluiziolira/go-scrape-reviewers/models"
	"github.com/aluiziolira/go-scrape-reviewers/parser"
	"github.com/aluiziolira/go-scrape-reviewers/product"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrBatchesConsumed is yielded when a page batch sequence is ranged over a
// second time.
var ErrBatchesConsumed = errors.New("scraper: page batches already consumed")

// ReviewPage is what the crawler needs from a parsed listing page.
type ReviewPage interface {
	PageCount() (int, error)
	ReviewerLinks() ([]string, error)
}

// PageParser turns a fetched body into a ReviewPage.
type PageParser interface {
	Parse(body []byte) (ReviewPage, error)
}

// ParserFunc adapts a function to PageParser.
type ParserFunc func(body []byte) (ReviewPage, error)

// Parse calls f(body).
func (f ParserFunc) Parse(body []byte) (ReviewPage, error) {
	return f(body)
}

// HTMLParser parses listing pages with the parser package.
var HTMLParser = ParserFunc(func(body []byte) (ReviewPage, error) {
	page, err := parser.Parse(body)
	if err != nil {
		return nil, err
	}
	return page, nil
})

// Crawler collects reviewer profile links for a product, one listing page at
// a time.
type Crawler struct {
	cfg     *config.Config
	fetcher Fetcher
	parser  PageParser
	logger  *slog.Logger
	Metrics *Metrics
}

// Option customises a Crawler.
type Option func(*Crawler)

// WithFetcher replaces the colly-backed fetcher.
func WithFetcher(f Fetcher) Option {
	return func(c *Crawler) {
		c.fetcher = f
	}
}

// WithParser replaces the HTML parser.
func WithParser(p PageParser) Option {
	return func(c *Crawler) {
		c.parser = p
	}
}

// WithLogger sets the logger used for crawl progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// NewCrawler builds a crawler configured from cfg. A nil cfg uses defaults.
func NewCrawler(cfg *config.Config, opts ...Option) (*Crawler, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Crawler{
		cfg:     cfg,
		parser:  HTMLParser,
		logger:  slog.Default(),
		Metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.fetcher == nil {
		c.fetcher = NewCollyFetcher(cfg, c.Metrics)
	}
	if cfg.PageCacheSize > 0 {
		cached, err := NewCachingFetcher(c.fetcher, cfg.PageCacheSize, c.Metrics)
		if err != nil {
			return nil, fmt.Errorf("create page cache: %w", err)
		}
		c.fetcher = cached
	}
	return c, nil
}

// CollectReviewerLinks returns every reviewer profile link for productURL
// under the star filter, pages in ascending order. Any failure aborts the
// crawl and no partial result is returned.
func (c *Crawler) CollectReviewerLinks(ctx context.Context, productURL string, stars product.Stars) ([]string, error) {
	result, err := c.Run(ctx, productURL, stars)
	if err != nil {
		return nil, err
	}
	return result.Links(), nil
}

// Run crawls every listing page of productURL for the star filter and keeps
// the per-page batches.
func (c *Crawler) Run(ctx context.Context, productURL string, stars product.Stars) (*models.CrawlResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := stars.Validate(); err != nil {
		c.recordError(err)
		return nil, err
	}
	p, err := product.NewProduct(productURL)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := c.logger.With(slog.String("crawl_id", id))
	start := time.Now()

	pageCount, err := c.CountReviewPages(ctx, p, stars)
	if err != nil {
		c.recordError(err)
		return nil, err
	}
	logger.Debug("discovered review pages",
		slog.String("reviews_url", p.ReviewsURL()),
		slog.String("stars", stars.String()),
		slog.Int("pages", pageCount),
	)

	var batches []models.PageBatch
	if c.cfg.Parallelism > 1 && pageCount > 1 {
		batches, err = c.collectConcurrent(ctx, p, stars, pageCount)
	} else {
		batches, err = c.collectSequential(ctx, p, stars, pageCount)
	}
	if err != nil {
		c.recordError(err)
		logger.Debug("crawl aborted", slog.Any("error", err))
		return nil, err
	}

	return &models.CrawlResult{
		ID:           id,
		ProductURL:   p.SourceURL(),
		ReviewsURL:   p.ReviewsURL(),
		Stars:        stars.String(),
		PageCount:    pageCount,
		Batches:      batches,
		StartTime:    start,
		EndTime:      time.Now(),
		RequestCount: pageCount + 1,
	}, nil
}

// CountReviewPages fetches the first listing page for the filter and reads
// the page count from its paging control.
func (c *Crawler) CountReviewPages(ctx context.Context, p *product.Product, stars product.Stars) (int, error) {
	page, err := c.fetchPage(ctx, p, stars, 1)
	if err != nil {
		return 0, err
	}
	return page.PageCount()
}

// Pages returns a lazy sequence of reviewer link batches, one per page from 1
// to pageCount. The sequence stops at the first error and can be ranged over
// only once.
func (c *Crawler) Pages(ctx context.Context, p *product.Product, stars product.Stars, pageCount int) iter.Seq2[models.PageBatch, error] {
	var consumed atomic.Bool
	return func(yield func(models.PageBatch, error) bool) {
		if !consumed.CompareAndSwap(false, true) {
			yield(models.PageBatch{}, ErrBatchesConsumed)
			return
		}
		for page := 1; page <= pageCount; page++ {
			links, err := c.pageLinks(ctx, p, stars, page)
			if err != nil {
				yield(models.PageBatch{}, err)
				return
			}
			if !yield(models.PageBatch{Page: page, Links: links}, nil) {
				return
			}
		}
	}
}

func (c *Crawler) collectSequential(ctx context.Context, p *product.Product, stars product.Stars, pageCount int) ([]models.PageBatch, error) {
	batches := make([]models.PageBatch, 0, pageCount)
	for batch, err := range c.Pages(ctx, p, stars, pageCount) {
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// collectConcurrent fetches up to Parallelism pages at once. Batches land in
// their page slot, so output order matches the sequential crawl.
func (c *Crawler) collectConcurrent(ctx context.Context, p *product.Product, stars product.Stars, pageCount int) ([]models.PageBatch, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Parallelism)

	batches := make([]models.PageBatch, pageCount)
	for page := 1; page <= pageCount; page++ {
		g.Go(func() error {
			links, err := c.pageLinks(gctx, p, stars, page)
			if err != nil {
				return err
			}
			batches[page-1] = models.PageBatch{Page: page, Links: links}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

func (c *Crawler) pageLinks(ctx context.Context, p *product.Product, stars product.Stars, pageNumber int) ([]string, error) {
	page, err := c.fetchPage(ctx, p, stars, pageNumber)
	if err != nil {
		return nil, err
	}
	links, err := page.ReviewerLinks()
	if err != nil {
		return nil, err
	}

	c.Metrics.AddPage(len(links))
	c.logger.Debug("extracted reviewer links",
		slog.Int("page", pageNumber),
		slog.Int("links", len(links)),
	)
	return links, nil
}

func (c *Crawler) fetchPage(ctx context.Context, p *product.Product, stars product.Stars, pageNumber int) (ReviewPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url, err := p.QueryURL(stars, pageNumber)
	if err != nil {
		return nil, err
	}
	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return c.parser.Parse(body)
}

func (c *Crawler) recordError(err error) {
	c.Metrics.IncError(crawlErrorLabel(err))
}

func crawlErrorLabel(err error) string {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return errorTypeLabel(fetchErr.Err)
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return "parse"
	}
	var invalid product.InvalidFilterError
	if errors.As(err, &invalid) {
		return "invalid_filter"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "other"
}
