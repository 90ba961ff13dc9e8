// Package fetch retrieves finance pages over HTTP. Requests carry the
// headers of a desktop browser because Yahoo serves reduced markup, or a
// consent interstitial, to clients that look like bots.
package fetch

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// ErrNetwork reports a transport failure or a non-200 response.
var ErrNetwork = errors.New("network failure")

// DefaultUserAgent matches the Firefox build the request headers describe.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:134.0) Gecko/20100101 Firefox/134.0"

// DefaultAcceptLanguage is sent unless a regional edition asks otherwise.
const DefaultAcceptLanguage = "en-US,en;q=0.5"

// Fetcher is what page scrapers are written against: a URL in, the page
// body out. Implementations must honor ctx cancellation and report
// unreachable or refused pages with an error wrapping ErrNetwork.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Client fetches pages with a plain HTTP client.
type Client struct {
	client         *http.Client
	userAgent      string
	acceptLanguage string
}

// New creates a Client whose requests time out after the given duration.
func New(timeout time.Duration) *Client {
	return &Client{
		client:         &http.Client{Timeout: timeout},
		userAgent:      DefaultUserAgent,
		acceptLanguage: DefaultAcceptLanguage,
	}
}

// WithUserAgent overrides the User-Agent header and returns the client.
func (c *Client) WithUserAgent(ua string) *Client {
	if ua != "" {
		c.userAgent = ua
	}
	return c
}

// WithAcceptLanguage overrides the Accept-Language header and returns the
// client.
func (c *Client) WithAcceptLanguage(lang string) *Client {
	if lang != "" {
		c.acceptLanguage = lang
	}
	return c
}

// Fetch GETs url and returns the decoded response body.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	// Setting Accept-Encoding by hand disables the transport's automatic
	// gzip handling, so every listed encoding is decoded below.
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", c.acceptLanguage)
	req.Header.Set("Accept-Encoding", "gzip, deflate, br, zstd")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch URL: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: received non-200 response: %d for %s", ErrNetwork, resp.StatusCode, url)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return body, nil
}

// decodeBody unwraps the response body according to its Content-Encoding.
func decodeBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader

	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %v", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "zstd":
		zr, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %v", err)
		}
		defer zr.Close()
		reader = zr
	default:
		reader = resp.Body
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}
	return body, nil
}
