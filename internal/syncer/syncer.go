// Package syncer sequences one mdsync run: fetch the index, then run the
// mode the user picked (full sync, check-only, or incremental update).
package syncer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mdsync/mdsync/internal/checker"
	"github.com/mdsync/mdsync/internal/config"
	"github.com/mdsync/mdsync/internal/downloader"
	"github.com/mdsync/mdsync/internal/fetcher"
	"github.com/mdsync/mdsync/internal/index"
	"github.com/mdsync/mdsync/internal/manifest"
)

// Run executes one mdsync run. A failure to fetch or decode the index is
// fatal; per-page failures are collected and surface only through the
// returned error (and thus the exit status).
func Run(ctx context.Context, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f := fetcher.New(cfg.UserAgent)

	fmt.Printf("Fetching index from %s...\n", cfg.IndexURL)
	body, err := f.Fetch(ctx, cfg.IndexURL)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	indexText := string(body)

	reportIndexChange(cfg.OutputDir, cfg.IndexURL, indexText)

	pages := index.Parse(indexText)
	fmt.Printf("Found %d documentation pages.\n\n", len(pages))

	// Colliding filenames silently overwrite each other; the later index
	// entry wins.
	for _, name := range index.DuplicateFilenames(pages) {
		log.Warn("duplicate filename in index, later entry wins", "filename", name)
	}

	chk := checker.New(f, cfg.OutputDir,
		time.Duration(cfg.HeadDelayMS)*time.Millisecond,
		manifest.Filename, manifest.IndexCacheName(cfg.IndexURL))

	dl := &downloader.Downloader{
		Fetcher:  f,
		Dir:      cfg.OutputDir,
		Delay:    time.Duration(cfg.DelayMS) * time.Millisecond,
		HTML:     cfg.HTML,
		Selector: cfg.Selector,
	}

	switch {
	case cfg.Check:
		return runCheck(ctx, chk, pages)
	case cfg.Update:
		return runUpdate(ctx, cfg, chk, dl, pages, indexText)
	default:
		return runAll(ctx, cfg, dl, pages, indexText)
	}
}

// runCheck reports freshness without writing anything. It never fails.
func runCheck(ctx context.Context, chk *checker.Checker, pages []index.Page) error {
	fmt.Print("Checking for updates (HEAD requests only)...\n\n")
	res := chk.Run(ctx, pages)

	fmt.Print("\n--- Summary ---\n")
	fmt.Printf("  Unchanged: %d\n", res.Unchanged)
	if len(res.New) > 0 {
		fmt.Printf("  New pages (%d): %s\n", len(res.New), strings.Join(res.New, ", "))
	}
	if len(res.Updated) > 0 {
		fmt.Printf("  Updated (%d): %s\n", len(res.Updated), strings.Join(res.Updated, ", "))
	}
	if len(res.Removed) > 0 {
		fmt.Printf("  Removed from index (%d): %s\n", len(res.Removed), strings.Join(res.Removed, ", "))
	}
	if len(res.New) == 0 && len(res.Updated) == 0 && len(res.Removed) == 0 {
		fmt.Println("  Everything is up to date.")
	}
	return nil
}

// runUpdate downloads only pages the check classified as new or updated.
// When nothing qualifies, no file is touched.
func runUpdate(ctx context.Context, cfg *config.Config, chk *checker.Checker, dl *downloader.Downloader, pages []index.Page, indexText string) error {
	fmt.Print("Checking for updates...\n\n")
	res := chk.Run(ctx, pages)

	targets := res.Targets()
	if len(targets) == 0 {
		fmt.Println("\nEverything is up to date. Nothing to download.")
		return nil
	}

	fmt.Printf("\nDownloading %d changed page(s)...\n\n", len(targets))
	success, failed := dl.Run(ctx, pages, targets)

	if err := manifest.WriteIndexCache(cfg.OutputDir, cfg.IndexURL, indexText); err != nil {
		return err
	}
	// The manifest describes the whole mirror, so the count stays total/total
	// after an incremental sync.
	if err := manifest.Write(cfg.OutputDir, cfg.IndexURL, pages, len(pages)); err != nil {
		return err
	}

	fmt.Printf("\nUpdated %d page(s).\n", success)
	return reportFailures(failed)
}

// runAll downloads every page unconditionally.
func runAll(ctx context.Context, cfg *config.Config, dl *downloader.Downloader, pages []index.Page, indexText string) error {
	if err := manifest.WriteIndexCache(cfg.OutputDir, cfg.IndexURL, indexText); err != nil {
		return err
	}

	success, failed := dl.Run(ctx, pages, nil)

	fmt.Printf("\nDone: %d/%d pages saved to %s\n", success, len(pages), cfg.OutputDir)

	if err := manifest.Write(cfg.OutputDir, cfg.IndexURL, pages, success); err != nil {
		return err
	}
	return reportFailures(failed)
}

// reportFailures prints the failure list and converts it into the run's
// error, which becomes the nonzero exit status.
func reportFailures(failed []downloader.Failure) error {
	if len(failed) == 0 {
		return nil
	}
	fmt.Printf("\nFailed (%d):\n", len(failed))
	for _, f := range failed {
		fmt.Printf("  %s: %s\n", f.Filename, f.Err)
	}
	return fmt.Errorf("%d page(s) failed to download", len(failed))
}

// reportIndexChange tells the user whether the index differs from the copy
// cached by the previous run. Informational only.
func reportIndexChange(dir string, indexURL string, current string) {
	cache := filepath.Join(dir, manifest.IndexCacheName(indexURL))
	old, err := os.ReadFile(cache)
	if err != nil {
		return
	}
	if string(old) != current {
		fmt.Println("Index has changed since last download.")
	} else {
		fmt.Println("Index unchanged.")
	}
}
