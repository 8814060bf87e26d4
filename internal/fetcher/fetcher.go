package fetcher

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Fetcher wraps HTTP clients with a User-Agent and gzip support. Content
// fetches get a longer timeout than metadata-only HEAD probes.
type Fetcher struct {
	client     *http.Client
	headClient *http.Client
	userAgent  string
}

// New creates a Fetcher with the given User-Agent.
func New(userAgent string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		headClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: userAgent,
	}
}

// Fetch retrieves the body of the given URL. It automatically decompresses
// gzip responses and URLs ending in .gz.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	log.Debug("GET", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	var reader io.Reader = resp.Body

	// Decompress if gzip content-encoding or .gz URL
	if resp.Header.Get("Content-Encoding") == "gzip" || strings.HasSuffix(url, ".gz") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decompressing gzip response from %s: %w", url, err)
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading body from %s: %w", url, err)
	}

	return body, nil
}

// LastModified issues a HEAD request and returns the page's Last-Modified
// timestamp. The second return is false when the header is absent or
// unparseable; err is non-nil only for transport-level failures.
func (f *Fetcher) LastModified(ctx context.Context, url string) (time.Time, bool, error) {
	log.Debug("HEAD", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.headClient.Do(req)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("HEAD %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return time.Time{}, false, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	lm := resp.Header.Get("Last-Modified")
	if lm == "" {
		return time.Time{}, false, nil
	}
	t, err := http.ParseTime(lm)
	if err != nil {
		log.Debug("unparseable Last-Modified", "url", url, "value", lm)
		return time.Time{}, false, nil
	}
	return t, true, nil
}
