package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/wikibox/internal/extract"
	"github.com/ppiankov/wikibox/internal/htmldoc"
	"github.com/ppiankov/wikibox/internal/logger"
	"github.com/ppiankov/wikibox/internal/model"
	"github.com/ppiankov/wikibox/internal/query"
)

// ErrDisallowed is returned when robots.txt forbids fetching the article
var ErrDisallowed = errors.New("disallowed by robots.txt")

// RobotsPolicy decides whether a URL may be fetched
type RobotsPolicy interface {
	CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error)
}

// Limiter paces outbound requests
type Limiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// CrawlDelayer is implemented by limiters that can honor a robots.txt crawl delay
type CrawlDelayer interface {
	SetCrawlDelay(rawURL string, delay time.Duration)
}

// ParseFunc turns a response body into a queryable document
type ParseFunc func(r io.Reader) (htmldoc.Document, error)

// Pipeline runs normalize -> build URL -> fetch -> parse -> extract for one query
type Pipeline struct {
	getter    Getter
	transport http.RoundTripper
	parse     ParseFunc
	extractor *extract.InfoboxExtractor
	robots    RobotsPolicy // nil disables robots.txt checks
	limiter   Limiter      // nil disables pacing
	log       *logger.Logger
	config    *model.Config
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithGetter replaces the HTTP fetcher
func WithGetter(g Getter) Option {
	return func(p *Pipeline) { p.getter = g }
}

// WithTransport sets the transport of the default fetcher
func WithTransport(rt http.RoundTripper) Option {
	return func(p *Pipeline) { p.transport = rt }
}

// WithParser replaces the HTML parser
func WithParser(parse ParseFunc) Option {
	return func(p *Pipeline) { p.parse = parse }
}

// WithRobots enables robots.txt checks
func WithRobots(r RobotsPolicy) Option {
	return func(p *Pipeline) { p.robots = r }
}

// WithLimiter enables request pacing
func WithLimiter(l Limiter) Option {
	return func(p *Pipeline) { p.limiter = l }
}

// WithLogger sets the diagnostic logger
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		parse:     parseHTML,
		extractor: extract.NewInfoboxExtractor(),
		log:       logger.Discard(),
		config:    cfg,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.getter == nil {
		p.getter = NewFetcher(FetcherOptions{
			Timeout:     cfg.HTTP.Timeout,
			UserAgent:   cfg.HTTP.UserAgent,
			MaxBytes:    cfg.HTTP.MaxBodyBytes,
			InsecureTLS: cfg.HTTP.InsecureTLS,
			HTTPProxy:   cfg.HTTP.HTTPProxy,
			HTTPSProxy:  cfg.HTTP.HTTPSProxy,
			NoProxy:     cfg.HTTP.NoProxy,
			Transport:   p.transport,
		})
	}

	return p
}

func parseHTML(r io.Reader) (htmldoc.Document, error) {
	return htmldoc.Parse(r)
}

// ArticleURL returns the article URL for a raw query
func (p *Pipeline) ArticleURL(raw string) (title string, articleURL string) {
	title = query.Normalize(raw)
	return title, query.BuildURLWithBase(p.config.Wiki.BaseURL, title)
}

// Lookup resolves one raw query to the fields of its article's infobox.
// A missing article is not an error: it yields a Lookup without fields.
func (p *Pipeline) Lookup(ctx context.Context, raw string) (*model.Lookup, error) {
	// 1. Normalize and build URL
	title, articleURL := p.ArticleURL(raw)
	log := p.log.With("title", title)
	log.Debug("built article URL", "url", articleURL)

	// 2. Politeness
	if p.robots != nil {
		allowed, crawlDelay, err := p.robots.CanFetch(ctx, articleURL)
		if err != nil {
			return nil, fmt.Errorf("robots: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", articleURL, ErrDisallowed)
		}
		if crawlDelay > 0 {
			log.Debug("robots.txt crawl delay", "delay", crawlDelay)
			if cd, ok := p.limiter.(CrawlDelayer); ok {
				cd.SetCrawlDelay(articleURL, crawlDelay)
			}
		}
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, articleURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	// 3. Fetch
	fetchResult, err := p.getter.Fetch(ctx, articleURL)
	if err != nil {
		return nil, err
	}
	log.Debug("fetched article",
		"status", fetchResult.Meta.StatusCode,
		"bytes", len(fetchResult.Body),
		"final_url", fetchResult.FinalURL)

	// 4. Parse
	doc, err := p.parse(bytes.NewReader(fetchResult.Body))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if titled, ok := doc.(interface{ Title() string }); ok {
		log.Debug("parsed page", "page_title", titled.Title())
	}

	// 5. Extract
	fields := p.extractor.Extract(doc)
	log.Debug("extracted infobox fields", "count", len(fields))

	return &model.Lookup{
		Query:    raw,
		Title:    title,
		URL:      articleURL,
		FinalURL: fetchResult.FinalURL,
		Meta:     fetchResult.Meta,
		Fields:   fields,
	}, nil
}
