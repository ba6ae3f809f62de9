// Package htmlsource implements the page source over the published HTML
// catalog. Pages are fetched over HTTP at a bounded rate and the discipline
// and course fragments are isolated from the parsed DOM; nothing here
// interprets prerequisite text.
package htmlsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/specialistvlad/reqgraph/internal/ctxlog"
	"github.com/specialistvlad/reqgraph/internal/metrics"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerSecond paces page fetches when no rate is configured.
	DefaultRequestsPerSecond = 4
	defaultMaxPageSize       = 8 << 20
	requestTimeout           = 30 * time.Second
)

var (
	// ErrUnexpectedStatus is returned for non-200 page responses.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrPageTooLarge is returned when a page exceeds the size limit.
	ErrPageTooLarge = errors.New("page too large")
)

// DefaultNoneMarkers are requirement texts meaning "no requirements".
var DefaultNoneMarkers = []string{"Não há", "Não há."}

// Options configures a Source.
type Options struct {
	// BaseURL is the catalog root, e.g. ".../grad/catalogo2021/".
	BaseURL string
	// RequestsPerSecond bounds the fetch rate; zero selects the default and a
	// negative value disables pacing.
	RequestsPerSecond float64
	// Client performs the requests; nil selects a client with a timeout.
	Client *http.Client
	// NoneMarkers override DefaultNoneMarkers.
	NoneMarkers []string
	// MaxPageSize bounds a page body in bytes; zero selects 8 MiB.
	MaxPageSize int64
}

// Source fetches catalog pages. It is safe for concurrent use.
type Source struct {
	base        *url.URL
	client      *http.Client
	limiter     *rate.Limiter
	noneMarkers []string
	maxPageSize int64
}

// New validates opts and builds a Source.
func New(opts Options) (*Source, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	raw := opts.BaseURL
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base url '%s': %w", opts.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url '%s': scheme must be http or https", opts.BaseURL)
	}

	rps := opts.RequestsPerSecond
	if rps == 0 {
		rps = DefaultRequestsPerSecond
	}
	limit := rate.Limit(rps)
	if rps < 0 {
		limit = rate.Inf
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}

	markers := opts.NoneMarkers
	if markers == nil {
		markers = DefaultNoneMarkers
	}

	maxPageSize := opts.MaxPageSize
	if maxPageSize <= 0 {
		maxPageSize = defaultMaxPageSize
	}

	return &Source{
		base:        base,
		client:      client,
		limiter:     rate.NewLimiter(limit, 1),
		noneMarkers: markers,
		maxPageSize: maxPageSize,
	}, nil
}

// fetch downloads and parses the page at path, relative to the base URL.
func (s *Source) fetch(ctx context.Context, path string) (*html.Node, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid page path '%s': %w", path, err)
	}
	target := s.base.ResolveReference(ref).String()

	doc, err := s.get(ctx, target)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.PagesTotal.WithLabelValues(result).Inc()
	ctxlog.FromContext(ctx).Debug("Page fetched.", "url", target, "result", result)
	return doc, err
}

func (s *Source) get(ctx context.Context, target string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch '%s': %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET '%s' returned %s", ErrUnexpectedStatus, target, resp.Status)
	}

	// Read one byte past the limit so an oversized page fails instead of
	// parsing into a truncated DOM.
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxPageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", target, err)
	}
	if int64(len(body)) > s.maxPageSize {
		return nil, fmt.Errorf("%w: '%s' exceeds %d bytes", ErrPageTooLarge, target, s.maxPageSize)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse '%s': %w", target, err)
	}
	return doc, nil
}
