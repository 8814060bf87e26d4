package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mdsync/mdsync/internal/converter"
	"github.com/mdsync/mdsync/internal/extractor"
	"github.com/mdsync/mdsync/internal/fetcher"
	"github.com/mdsync/mdsync/internal/index"
	"github.com/mdsync/mdsync/internal/manifest"
)

// Failure records a page that could not be fetched or written.
type Failure struct {
	Filename string
	Err      string
}

// Downloader fetches page content sequentially and writes one file per page
// into Dir. A failure on one page never stops the rest.
type Downloader struct {
	Fetcher *fetcher.Fetcher
	Dir     string
	Delay   time.Duration

	// HTML enables treating fetched bodies as HTML: the main content area is
	// extracted and converted to markdown with frontmatter before writing.
	HTML     bool
	Selector string
}

// Run downloads every page, or only those whose filename is in only when
// only is non-nil. Pages are processed in index order with Delay between
// downloads (never after the last). Returns the success count and the
// ordered list of failures.
func (d *Downloader) Run(ctx context.Context, pages []index.Page, only map[string]bool) (int, []Failure) {
	success := 0
	var failed []Failure
	attempted := 0

	for _, p := range pages {
		filename := p.Filename()
		if only != nil && !only[filename] {
			continue
		}

		if attempted > 0 {
			time.Sleep(d.Delay)
		}
		attempted++

		fmt.Printf("  %s... ", filename)
		if err := d.download(ctx, p); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			failed = append(failed, Failure{Filename: filename, Err: err.Error()})
			continue
		}
		fmt.Println("OK")
		success++
	}

	return success, failed
}

func (d *Downloader) download(ctx context.Context, p index.Page) error {
	body, err := d.Fetcher.Fetch(ctx, p.URL)
	if err != nil {
		return err
	}

	content := body
	if d.HTML {
		md, err := d.convert(body, p)
		if err != nil {
			return err
		}
		content = []byte(md)
	}

	path := filepath.Join(d.Dir, p.Filename())
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// convert turns an HTML body into markdown with a frontmatter header. The
// page title from the index is the fallback when the HTML has none.
func (d *Downloader) convert(body []byte, p index.Page) (string, error) {
	html, title, err := extractor.Extract(body, d.Selector)
	if err != nil {
		return "", fmt.Errorf("extraction: %w", err)
	}

	md, err := converter.ConvertHTML(html, p.URL)
	if err != nil {
		return "", fmt.Errorf("conversion: %w", err)
	}

	if title == "" {
		title = p.Title
	}
	return manifest.Frontmatter(title, p.URL, time.Now()) + md, nil
}
