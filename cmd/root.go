package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mdsync/mdsync/internal/config"
	"github.com/mdsync/mdsync/internal/syncer"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "mdsync",
	Short: "Mirror a remote markdown documentation set locally",
	Long: `mdsync downloads every page listed in a remote documentation index
(a plain-text list of titled markdown links) into a local directory, and
keeps the mirror current with cheap Last-Modified based checks.

Modes:
  mdsync --url URL            # full sync: download every page
  mdsync --url URL --check    # report new/updated/removed pages, no writes
  mdsync --url URL --update   # download only new and updated pages`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&cfg.IndexURL, "url", "", "documentation index URL (required)")
	rootCmd.Flags().StringVarP(&cfg.OutputDir, "output", "o", defaultOutputDir(), "output directory")
	rootCmd.Flags().BoolVar(&cfg.Check, "check", false, "check for updates without downloading")
	rootCmd.Flags().BoolVar(&cfg.Update, "update", false, "download only new and updated pages")
	rootCmd.Flags().IntVarP(&cfg.DelayMS, "delay", "d", 300, "delay between page downloads (ms)")
	rootCmd.Flags().IntVar(&cfg.HeadDelayMS, "head-delay", 100, "delay between update-check HEAD requests (ms)")
	rootCmd.Flags().BoolVar(&cfg.HTML, "html", false, "treat fetched pages as HTML and convert to markdown")
	rootCmd.Flags().StringVar(&cfg.Selector, "selector", "", "CSS selector for main content in --html mode (default: auto-detect)")
	rootCmd.Flags().StringVar(&cfg.UserAgent, "user-agent", "mdsync/1.0", "custom User-Agent string")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose logging")

	rootCmd.MarkFlagRequired("url")
	rootCmd.MarkFlagsMutuallyExclusive("check", "update")
}

func run(cmd *cobra.Command, args []string) error {
	if cfg.DelayMS < 0 || cfg.HeadDelayMS < 0 {
		return fmt.Errorf("delay must be non-negative")
	}
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	return syncer.Run(ctx, &cfg)
}

func defaultOutputDir() string {
	return filepath.Join(xdg.DataHome, "mdsync", "docs")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
