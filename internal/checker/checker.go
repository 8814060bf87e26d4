// Package checker classifies each indexed page as new, updated, unchanged,
// or unknown by comparing the remote Last-Modified header against the local
// file's modification time.
package checker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mdsync/mdsync/internal/fetcher"
	"github.com/mdsync/mdsync/internal/index"
)

// Status is a page's freshness relative to its local copy.
type Status int

const (
	StatusNew Status = iota
	StatusUpdated
	StatusUnchanged
	// StatusUnknown means no remote timestamp was available, either because
	// the header was missing or the HEAD request failed.
	StatusUnknown
)

// Result aggregates one freshness pass over the whole index.
type Result struct {
	New       []string // filenames missing locally
	Updated   []string // filenames with a strictly newer remote timestamp
	Removed   []string // local files no longer listed in the index, sorted
	Unchanged int
	Unknown   int
}

// Targets returns the filenames an incremental sync should download: the
// union of new and updated pages.
func (r *Result) Targets() map[string]bool {
	t := make(map[string]bool, len(r.New)+len(r.Updated))
	for _, name := range r.New {
		t[name] = true
	}
	for _, name := range r.Updated {
		t[name] = true
	}
	return t
}

// Checker runs freshness checks against a local mirror directory.
type Checker struct {
	fetcher *fetcher.Fetcher
	dir     string
	delay   time.Duration
	exclude map[string]bool // filenames never reported as removed
}

// New creates a Checker for dir. delay is the pause inserted between
// successive HEAD requests. exclude names local files that belong to the
// tool itself (manifest, raw index cache).
func New(f *fetcher.Fetcher, dir string, delay time.Duration, exclude ...string) *Checker {
	ex := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		ex[name] = true
	}
	return &Checker{fetcher: f, dir: dir, delay: delay, exclude: ex}
}

// Run checks every page in index order, printing one progress line per
// page. A HEAD failure downgrades only that page to unknown; the pass
// always completes.
func (c *Checker) Run(ctx context.Context, pages []index.Page) *Result {
	res := &Result{}
	heads := 0

	for i, p := range pages {
		filename := p.Filename()
		fmt.Printf("  [%d/%d] %s... ", i+1, len(pages), filename)

		local := filepath.Join(c.dir, filename)
		info, err := os.Stat(local)
		if err != nil {
			fmt.Println("NEW")
			res.New = append(res.New, filename)
			continue
		}

		// Throttle between HEAD requests, never after the last.
		if heads > 0 {
			time.Sleep(c.delay)
		}
		heads++

		remote, ok, err := c.fetcher.LastModified(ctx, p.URL)
		if err != nil {
			log.Debug("freshness check failed", "file", filename, "error", err)
			ok = false
		}

		switch {
		case !ok:
			fmt.Println("(no Last-Modified header, skipped)")
			res.Unknown++
		case remote.After(info.ModTime()):
			fmt.Printf("UPDATED (remote: %s)\n", remote.Format("2006-01-02 15:04"))
			res.Updated = append(res.Updated, filename)
		default:
			fmt.Println("current")
			res.Unchanged++
		}
	}

	res.Removed = c.removed(pages)
	return res
}

// removed lists local .md files absent from the current index.
func (c *Checker) removed(pages []index.Page) []string {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil
	}

	listed := make(map[string]bool, len(pages))
	for _, p := range pages {
		listed[p.Filename()] = true
	}

	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") || c.exclude[name] {
			continue
		}
		if !listed[name] {
			removed = append(removed, name)
		}
	}
	sort.Strings(removed)
	return removed
}
