// Package loader turns document origins into text.
//
// Files are read from disk and handed to the Extractor registered for their
// extension. URLs are fetched over HTTP; HTML and other text responses are
// returned as the raw body so the page <title> stays visible to callers.
package loader

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// Default configuration values.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "docbase/1.0"
	// DefaultMaxResponseBytes is the largest response body accepted.
	DefaultMaxResponseBytes = 64 << 20
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader reads files and web pages.
type Loader struct {
	extractors map[string]driven.Extractor
	client     *http.Client
	userAgent  string
	maxBytes   int64
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the HTTP client used for urls.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) { l.client = client }
}

// WithTimeout sets the per-request timeout for urls.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) { l.client = &http.Client{Timeout: timeout} }
}

// WithMaxResponseBytes sets the largest url response accepted.
// Longer bodies fail with domain.ErrDocumentTooLarge.
func WithMaxResponseBytes(n int64) Option {
	return func(l *Loader) { l.maxBytes = n }
}

// New creates a loader using the given extractors. A later extractor
// claiming an extension overrides an earlier one.
func New(extractors []driven.Extractor, opts ...Option) *Loader {
	l := &Loader{
		extractors: make(map[string]driven.Extractor),
		client:     &http.Client{Timeout: DefaultTimeout},
		userAgent:  DefaultUserAgent,
		maxBytes:   DefaultMaxResponseBytes,
	}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			l.extractors[strings.ToLower(ext)] = e
		}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Extensions returns the file extensions with a registered extractor.
func (l *Loader) Extensions() []string {
	exts := make([]string, 0, len(l.extractors))
	for ext := range l.extractors {
		exts = append(exts, ext)
	}
	return exts
}

// IsParseable reports whether the origin can be loaded.
// Files need a registered extension; urls need an http or https scheme.
func (l *Loader) IsParseable(sourceType domain.SourceType, origin string) bool {
	switch sourceType {
	case domain.SourceTypeFile:
		_, ok := l.extractors[strings.ToLower(filepath.Ext(origin))]
		return ok
	case domain.SourceTypeURL:
		u, err := url.Parse(origin)
		return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	default:
		return false
	}
}

// Load returns the text of the origin.
func (l *Loader) Load(ctx context.Context, sourceType domain.SourceType, origin string) (string, error) {
	switch sourceType {
	case domain.SourceTypeFile:
		return l.loadFile(ctx, origin)
	case domain.SourceTypeURL:
		return l.loadURL(ctx, origin)
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedType, sourceType)
	}
}

func (l *Loader) loadFile(ctx context.Context, origin string) (string, error) {
	extractor, ok := l.extractors[strings.ToLower(filepath.Ext(origin))]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedType, origin)
	}

	content, err := os.ReadFile(origin)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrLoadFailure, err)
	}

	text, err := extractor.Extract(ctx, content)
	if err != nil {
		return "", fmt.Errorf("%w: extracting %s: %w", domain.ErrLoadFailure, filepath.Base(origin), err)
	}
	return text, nil
}

func (l *Loader) loadURL(ctx context.Context, origin string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrLoadFailure, err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrLoadFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %s returned status %d", domain.ErrLoadFailure, origin, resp.StatusCode)
	}

	// One byte past the cap tells a full body from a cut one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", domain.ErrLoadFailure, err)
	}
	if int64(len(body)) > l.maxBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrDocumentTooLarge, origin, l.maxBytes)
	}

	if isTextual(resp.Header.Get("Content-Type")) {
		return string(body), nil
	}

	// Binary responses go through the extractor for the url's extension.
	u, _ := url.Parse(origin)
	extractor, ok := l.extractors[strings.ToLower(path.Ext(u.Path))]
	if !ok {
		return "", fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedType, origin, resp.Header.Get("Content-Type"))
	}
	text, err := extractor.Extract(ctx, body)
	if err != nil {
		return "", fmt.Errorf("%w: extracting %s: %w", domain.ErrLoadFailure, origin, err)
	}
	return text, nil
}

// isTextual reports whether a Content-Type carries text.
// A missing header is treated as text.
func isTextual(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch {
	case strings.HasPrefix(mediaType, "text/"):
		return true
	case mediaType == "application/xhtml+xml",
		mediaType == "application/json",
		mediaType == "application/xml":
		return true
	default:
		return false
	}
}
