package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/wikibox/internal/model"
	"github.com/ppiankov/wikibox/internal/util"
)

// Getter fetches a single URL
type Getter interface {
	Fetch(ctx context.Context, rawURL string) (*FetchResult, error)
}

// FetcherOptions configures a Fetcher
type FetcherOptions struct {
	Timeout     time.Duration
	UserAgent   string
	MaxBytes    int64
	InsecureTLS bool
	HTTPProxy   string
	HTTPSProxy  string
	NoProxy     string

	// Transport, when set, replaces the transport built from the proxy and
	// TLS fields above
	Transport http.RoundTripper
}

// maxRedirects is the number of redirects followed before the last response
// is returned as is
const maxRedirects = 3

// Fetcher fetches article HTML over HTTP
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a new Fetcher with the given options
func NewFetcher(opts FetcherOptions) *Fetcher {
	transport := opts.Transport
	if transport == nil {
		transport = util.NewTransport(util.TransportOptions{
			HTTPProxy:   opts.HTTPProxy,
			HTTPSProxy:  opts.HTTPSProxy,
			NoProxy:     opts.NoProxy,
			InsecureTLS: opts.InsecureTLS,
		})
	}

	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = model.DefaultConfig().HTTP.MaxBodyBytes
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent: opts.UserAgent,
		maxBytes:  maxBytes,
	}
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	Body     []byte
	Meta     model.FetchMeta
	FinalURL string
}

// Fetch performs one GET request. Every HTTP status is returned to the caller
// together with its body, including a redirect left unfollowed past the cap;
// only transport failures produce an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		Body: body,
		Meta: model.FetchMeta{
			StatusCode:   resp.StatusCode,
			ContentType:  resp.Header.Get("Content-Type"),
			LastModified: resp.Header.Get("Last-Modified"),
			ETag:         resp.Header.Get("ETag"),
		},
		FinalURL: resp.Request.URL.String(),
	}, nil
}
