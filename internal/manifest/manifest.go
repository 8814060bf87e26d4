// Package manifest owns the files mdsync writes about itself: the _index.md
// summary of the last sync, the raw index cache used for change detection,
// and the frontmatter block for converted pages.
package manifest

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/mdsync/mdsync/internal/index"
)

// Filename is the well-known name of the manifest inside the mirror directory.
const Filename = "_index.md"

// Write produces the manifest: a generation timestamp, the source URL, a
// retrieved/total count, and one filename-to-title line per page. Any prior
// manifest is fully replaced.
func Write(dir string, indexURL string, pages []index.Page, retrieved int) error {
	var sb strings.Builder
	sb.WriteString("# Documentation Mirror\n")
	fmt.Fprintf(&sb, "# Downloaded: %s\n", time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "# Source: %s\n", indexURL)
	fmt.Fprintf(&sb, "# Pages: %d/%d\n\n", retrieved, len(pages))
	for _, p := range pages {
		fmt.Fprintf(&sb, "- %s: %s\n", p.Filename(), p.Title)
	}

	target := filepath.Join(dir, Filename)
	if err := os.WriteFile(target, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", target, err)
	}
	return nil
}

// IndexCacheName returns the filename for the raw index cache: the final
// path segment of the index URL, or "index.txt" when the URL has none.
func IndexCacheName(indexURL string) string {
	u, err := url.Parse(indexURL)
	if err != nil || u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return "index.txt"
	}
	return path.Base(u.Path)
}

// WriteIndexCache saves the raw index text so later runs can tell whether
// the index itself changed.
func WriteIndexCache(dir string, indexURL string, text string) error {
	target := filepath.Join(dir, IndexCacheName(indexURL))
	if err := os.WriteFile(target, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing index cache %s: %w", target, err)
	}
	return nil
}

// Frontmatter returns a YAML frontmatter block for a converted page.
func Frontmatter(title string, sourceURL string, fetchTime time.Time) string {
	return fmt.Sprintf("---\ntitle: %s\nsource_url: %s\nfetch_date: %s\n---\n\n",
		escapeYAML(title),
		sourceURL,
		fetchTime.Format(time.RFC3339),
	)
}

// escapeYAML wraps a string in double quotes if it contains characters that
// could break YAML parsing.
func escapeYAML(s string) string {
	if s == "" {
		return `""`
	}
	needsQuoting := strings.ContainsAny(s, `:#"'{}[]|>&*!%@`+"`") ||
		strings.HasPrefix(s, " ") ||
		strings.HasPrefix(s, "-")
	if needsQuoting {
		escaped := strings.ReplaceAll(s, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		return `"` + escaped + `"`
	}
	return s
}
