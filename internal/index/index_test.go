package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdsync/mdsync/internal/index"
)

func TestParse(t *testing.T) {
	t.Run("extracts title and url verbatim", func(t *testing.T) {
		pages := index.Parse("- [Getting Started](https://docs.example.com/en/getting-started.md)")

		require.Len(t, pages, 1)
		assert.Equal(t, "Getting Started", pages[0].Title)
		assert.Equal(t, "https://docs.example.com/en/getting-started.md", pages[0].URL)
	})

	t.Run("skips malformed lines and preserves order", func(t *testing.T) {
		text := "# Docs\n" +
			"- [First](https://docs.example.com/first.md)\n" +
			"- Second without link\n" +
			"- [Third](https://docs.example.com/third.md)\n" +
			"random prose\n"

		pages := index.Parse(text)

		require.Len(t, pages, 2)
		assert.Equal(t, "First", pages[0].Title)
		assert.Equal(t, "Third", pages[1].Title)
	})

	t.Run("requires markdown extension", func(t *testing.T) {
		pages := index.Parse("- [HTML page](https://docs.example.com/page.html)")
		assert.Empty(t, pages)
	})

	t.Run("accepts plain http urls", func(t *testing.T) {
		pages := index.Parse("- [Local](http://127.0.0.1:8080/docs/a.md)")
		require.Len(t, pages, 1)
		assert.Equal(t, "http://127.0.0.1:8080/docs/a.md", pages[0].URL)
	})

	t.Run("returns nothing for empty input", func(t *testing.T) {
		assert.Empty(t, index.Parse(""))
		assert.Empty(t, index.Parse("no links here\nat all\n"))
	})
}

func TestFilename(t *testing.T) {
	t.Run("uses final path segment", func(t *testing.T) {
		p := index.Page{URL: "https://docs.example.com/en/hooks.md"}
		assert.Equal(t, "hooks.md", p.Filename())
	})

	t.Run("is deterministic", func(t *testing.T) {
		url := "https://docs.example.com/en/hooks.md"
		assert.Equal(t, index.Filename(url), index.Filename(url))
	})

	t.Run("collides for urls differing only before the last segment", func(t *testing.T) {
		a := index.Filename("https://docs.example.com/en/setup.md")
		b := index.Filename("https://docs.example.com/fr/setup.md")
		assert.Equal(t, a, b)
	})
}

func TestDuplicateFilenames(t *testing.T) {
	pages := []index.Page{
		{Title: "A", URL: "https://e.com/en/a.md"},
		{Title: "B", URL: "https://e.com/en/b.md"},
		{Title: "A again", URL: "https://e.com/fr/a.md"},
	}

	dups := index.DuplicateFilenames(pages)

	require.Len(t, dups, 1)
	assert.Equal(t, "a.md", dups[0])

	assert.Empty(t, index.DuplicateFilenames(pages[:2]))
}
