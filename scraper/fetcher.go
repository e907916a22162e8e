package scraper

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/aluiziolira/go-scrape-reviewers/config"
	"github.com/gocolly/colly/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Fetcher retrieves the raw body of a listing page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CollyFetcher issues one GET per Fetch through a colly collector carrying
// the configured User-Agent. It never retries.
type CollyFetcher struct {
	collector *colly.Collector
	metrics   *Metrics
}

// NewCollyFetcher builds a synchronous collector configured from cfg.
func NewCollyFetcher(cfg *config.Config, metrics *Metrics) *CollyFetcher {
	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	return &CollyFetcher{
		collector: collector,
		metrics:   metrics,
	}
}

// WithTransport swaps the HTTP transport used by the collector.
func (f *CollyFetcher) WithTransport(transport http.RoundTripper) {
	f.collector.WithTransport(transport)
}

// Fetch returns the body of url. Transport failures and non-success statuses
// are reported as *FetchError.
func (f *CollyFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	// Callbacks are per collector, so each fetch gets its own clone sharing
	// the HTTP backend.
	c := f.collector.Clone()

	var (
		body   []byte
		status int
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	f.metrics.IncRequest("started")
	start := time.Now()
	err := c.Visit(url)
	f.metrics.ObserveDuration(time.Since(start))

	if err != nil {
		f.metrics.IncRequest("failed")
		return nil, &FetchError{URL: url, StatusCode: status, Err: classifyError(err, status)}
	}
	f.metrics.IncRequest("succeeded")
	return body, nil
}

// CachingFetcher serves repeated URLs from an LRU of page bodies. Failed
// fetches are not cached.
type CachingFetcher struct {
	next    Fetcher
	cache   *lru.Cache[string, []byte]
	metrics *Metrics
}

// NewCachingFetcher wraps next with a cache holding up to size pages.
func NewCachingFetcher(next Fetcher, size int, metrics *Metrics) (*CachingFetcher, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &CachingFetcher{
		next:    next,
		cache:   cache,
		metrics: metrics,
	}, nil
}

// Fetch returns a cached body for url or delegates to the wrapped fetcher.
func (f *CachingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if body, ok := f.cache.Get(url); ok {
		f.metrics.IncCacheHit()
		return body, nil
	}
	body, err := f.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	f.cache.Add(url, body)
	return body, nil
}
