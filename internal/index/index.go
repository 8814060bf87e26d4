package index

import (
	"regexp"
	"strings"
)

// Page is a single titled link extracted from the remote index.
type Page struct {
	Title string
	URL   string
}

// entryRE matches one index entry: a dash, a bracketed title, and a
// parenthesized absolute URL ending in .md.
var entryRE = regexp.MustCompile(`^- \[(.+?)\]\((https?://[^)]+\.md)\)`)

// Parse extracts the ordered list of pages from raw index text. Lines that
// do not match the entry format are skipped.
func Parse(text string) []Page {
	var pages []Page
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if m := entryRE.FindStringSubmatch(line); m != nil {
			pages = append(pages, Page{Title: m[1], URL: m[2]})
		}
	}
	return pages
}

// Filename returns the local filename for the page, derived from the final
// path segment of its URL. Two URLs that differ only before the last
// segment map to the same file.
func (p Page) Filename() string {
	return Filename(p.URL)
}

// Filename returns the final path segment of a URL.
func Filename(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// DuplicateFilenames returns filenames that more than one page URL maps to,
// in first-seen order.
func DuplicateFilenames(pages []Page) []string {
	counts := make(map[string]int, len(pages))
	for _, p := range pages {
		counts[p.Filename()]++
	}
	var dups []string
	seen := make(map[string]bool)
	for _, p := range pages {
		name := p.Filename()
		if counts[name] > 1 && !seen[name] {
			dups = append(dups, name)
			seen[name] = true
		}
	}
	return dups
}
