package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/wikibox/internal/htmldoc"
	"github.com/ppiankov/wikibox/internal/model"
)

const japanHTML = `<!DOCTYPE html>
<html><head><title>Japan - Wikipedia</title></head>
<body>
<div id="mw-content-text"><div class="mw-parser-output">
<table class="infobox ib-country vcard">
<tbody>
<tr><th colspan="2" class="infobox-above">Japan</th></tr>
<tr><th scope="row" class="infobox-label">Capital</th><td class="infobox-data"><a href="/wiki/Tokyo">Tokyo</a></td></tr>
<tr><th scope="row" class="infobox-label">Population</th><td class="infobox-data">125 million</td></tr>
</tbody>
</table>
<p>Japan is an island country in East Asia.</p>
</div></div>
</body></html>`

func newWikiServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/Japan", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		_, _ = fmt.Fprint(w, japanHTML)
	})
	mux.HandleFunc("/wiki/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprint(w, `<html><body><p>Wikipedia does not have an article with this exact name.</p></body></html>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(baseURL string) *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.Wiki.BaseURL = baseURL
	return cfg
}

func TestPipeline_Lookup_EndToEnd(t *testing.T) {
	server := newWikiServer(t)
	p := NewPipeline(testConfig(server.URL + "/wiki/"))

	lookup, err := p.Lookup(context.Background(), "japan")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if lookup.Title != "Japan" {
		t.Errorf("Title = %q, want Japan", lookup.Title)
	}
	if lookup.URL != server.URL+"/wiki/Japan" {
		t.Errorf("URL = %q", lookup.URL)
	}
	if !lookup.Found() {
		t.Errorf("expected article to be found, status %d", lookup.Meta.StatusCode)
	}

	want := []model.Field{
		{Label: "Capital", Value: "Tokyo"},
		{Label: "Population", Value: "125 million"},
	}
	if diff := cmp.Diff(want, lookup.Fields); diff != "" {
		t.Errorf("Fields mismatch (-want +got):\n%s", diff)
	}
}

func TestPipeline_ArticleURL_Default(t *testing.T) {
	p := NewPipeline(model.DefaultConfig())

	title, articleURL := p.ArticleURL("japan")
	if title != "Japan" || articleURL != "https://en.wikipedia.org/wiki/Japan" {
		t.Errorf("ArticleURL(japan) = %q, %q", title, articleURL)
	}

	title, articleURL = p.ArticleURL("")
	if title != "" || articleURL != "https://en.wikipedia.org/wiki/" {
		t.Errorf("ArticleURL(\"\") = %q, %q", title, articleURL)
	}
}

func TestPipeline_Lookup_NotFound(t *testing.T) {
	server := newWikiServer(t)
	p := NewPipeline(testConfig(server.URL + "/wiki/"))

	lookup, err := p.Lookup(context.Background(), "no such place anywhere")
	if err != nil {
		t.Fatalf("expected 404 to be a non-error, got %v", err)
	}
	if lookup.Found() {
		t.Error("expected Found() to be false for 404")
	}
	if len(lookup.Fields) != 0 {
		t.Errorf("expected no fields, got %v", lookup.Fields)
	}
}

func TestPipeline_Lookup_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL + "/wiki/"
	server.Close()

	p := NewPipeline(testConfig(base))
	if _, err := p.Lookup(context.Background(), "japan"); err == nil {
		t.Fatal("expected error when server is unreachable")
	}
}

type stubGetter struct {
	calls []string
	body  string
}

func (s *stubGetter) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	s.calls = append(s.calls, rawURL)
	return &FetchResult{
		Body:     []byte(s.body),
		Meta:     model.FetchMeta{StatusCode: http.StatusOK},
		FinalURL: rawURL,
	}, nil
}

type stubRobots struct {
	allowed bool
	delay   time.Duration
	err     error
}

func (s *stubRobots) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	return s.allowed, s.delay, s.err
}

type stubLimiter struct {
	waited []string
	err    error
}

func (s *stubLimiter) Wait(ctx context.Context, rawURL string) error {
	s.waited = append(s.waited, rawURL)
	return s.err
}

func TestPipeline_Lookup_InjectedCollaborators(t *testing.T) {
	getter := &stubGetter{body: japanHTML}
	limiter := &stubLimiter{}
	p := NewPipeline(model.DefaultConfig(),
		WithGetter(getter),
		WithRobots(&stubRobots{allowed: true}),
		WithLimiter(limiter))

	lookup, err := p.Lookup(context.Background(), "  JAPAN ")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if diff := cmp.Diff([]string{"https://en.wikipedia.org/wiki/Japan"}, getter.calls); diff != "" {
		t.Errorf("fetch calls mismatch (-want +got):\n%s", diff)
	}
	if len(limiter.waited) != 1 {
		t.Errorf("expected one limiter wait, got %d", len(limiter.waited))
	}
	if len(lookup.Fields) != 2 {
		t.Errorf("expected 2 fields, got %d", len(lookup.Fields))
	}
}

func TestPipeline_Lookup_RobotsDisallowed(t *testing.T) {
	getter := &stubGetter{body: japanHTML}
	p := NewPipeline(model.DefaultConfig(),
		WithGetter(getter),
		WithRobots(&stubRobots{allowed: false}))

	_, err := p.Lookup(context.Background(), "japan")
	if !errors.Is(err, ErrDisallowed) {
		t.Fatalf("expected ErrDisallowed, got %v", err)
	}
	if len(getter.calls) != 0 {
		t.Errorf("expected no fetch after robots denial, got %v", getter.calls)
	}
}

func TestPipeline_Lookup_LimiterError(t *testing.T) {
	getter := &stubGetter{body: japanHTML}
	p := NewPipeline(model.DefaultConfig(),
		WithGetter(getter),
		WithLimiter(&stubLimiter{err: context.Canceled}))

	_, err := p.Lookup(context.Background(), "japan")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPipeline_Lookup_ParseError(t *testing.T) {
	parseErr := errors.New("boom")
	p := NewPipeline(model.DefaultConfig(),
		WithGetter(&stubGetter{}),
		WithParser(func(r io.Reader) (htmldoc.Document, error) { return nil, parseErr }))

	_, err := p.Lookup(context.Background(), "japan")
	if !errors.Is(err, parseErr) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

type delayLimiter struct {
	stubLimiter
	delays map[string]time.Duration
}

func (d *delayLimiter) SetCrawlDelay(rawURL string, delay time.Duration) {
	d.delays[rawURL] = delay
}

func TestPipeline_Lookup_CrawlDelayForwarded(t *testing.T) {
	limiter := &delayLimiter{delays: map[string]time.Duration{}}
	p := NewPipeline(model.DefaultConfig(),
		WithGetter(&stubGetter{body: japanHTML}),
		WithRobots(&stubRobots{allowed: true, delay: 3 * time.Second}),
		WithLimiter(limiter))

	if _, err := p.Lookup(context.Background(), "japan"); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got := limiter.delays["https://en.wikipedia.org/wiki/Japan"]; got != 3*time.Second {
		t.Errorf("expected crawl delay 3s to reach the limiter, got %v", got)
	}
	if len(limiter.waited) != 1 {
		t.Errorf("expected one limiter wait, got %d", len(limiter.waited))
	}
}

func TestPipeline_Lookup_RobotsError(t *testing.T) {
	p := NewPipeline(model.DefaultConfig(),
		WithGetter(&stubGetter{body: japanHTML}),
		WithRobots(&stubRobots{err: errors.New("bad url")}))

	if _, err := p.Lookup(context.Background(), "japan"); err == nil {
		t.Fatal("expected robots error to propagate")
	}
}

type countingTransport struct {
	calls int
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls++
	return http.DefaultTransport.RoundTrip(req)
}

func TestPipeline_Lookup_SharedTransport(t *testing.T) {
	server := newWikiServer(t)
	transport := &countingTransport{}
	p := NewPipeline(testConfig(server.URL+"/wiki/"), WithTransport(transport))

	lookup, err := p.Lookup(context.Background(), "japan")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(lookup.Fields) != 2 {
		t.Errorf("expected 2 fields, got %d", len(lookup.Fields))
	}
	if transport.calls != 1 {
		t.Errorf("expected the article fetch on the given transport, got %d round trips", transport.calls)
	}
}
