package downloader_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdsync/mdsync/internal/downloader"
	"github.com/mdsync/mdsync/internal/fetcher"
	"github.com/mdsync/mdsync/internal/index"
)

func docServer(t *testing.T, docs map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := docs[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun(t *testing.T) {
	f := fetcher.New("mdsync-test/1.0")

	t.Run("writes every page and reports success count", func(t *testing.T) {
		dir := t.TempDir()
		srv := docServer(t, map[string]string{
			"/a.md": "# Page A",
			"/b.md": "# Page B",
		})

		dl := &downloader.Downloader{Fetcher: f, Dir: dir}
		success, failed := dl.Run(t.Context(), []index.Page{
			{Title: "A", URL: srv.URL + "/a.md"},
			{Title: "B", URL: srv.URL + "/b.md"},
		}, nil)

		assert.Equal(t, 2, success)
		assert.Empty(t, failed)

		got, err := os.ReadFile(filepath.Join(dir, "a.md"))
		require.NoError(t, err)
		assert.Equal(t, "# Page A", string(got))
	})

	t.Run("records failures and keeps going", func(t *testing.T) {
		dir := t.TempDir()
		srv := docServer(t, map[string]string{"/b.md": "# Page B"})

		dl := &downloader.Downloader{Fetcher: f, Dir: dir}
		success, failed := dl.Run(t.Context(), []index.Page{
			{Title: "A", URL: srv.URL + "/a.md"},
			{Title: "B", URL: srv.URL + "/b.md"},
		}, nil)

		assert.Equal(t, 1, success)
		require.Len(t, failed, 1)
		assert.Equal(t, "a.md", failed[0].Filename)
		assert.Contains(t, failed[0].Err, "HTTP 404")

		assert.NoFileExists(t, filepath.Join(dir, "a.md"))
		assert.FileExists(t, filepath.Join(dir, "b.md"))
	})

	t.Run("restriction set limits downloads to listed filenames", func(t *testing.T) {
		dir := t.TempDir()
		srv := docServer(t, map[string]string{
			"/a.md": "# Page A",
			"/b.md": "# Page B",
		})

		dl := &downloader.Downloader{Fetcher: f, Dir: dir}
		success, failed := dl.Run(t.Context(), []index.Page{
			{Title: "A", URL: srv.URL + "/a.md"},
			{Title: "B", URL: srv.URL + "/b.md"},
		}, map[string]bool{"b.md": true})

		assert.Equal(t, 1, success)
		assert.Empty(t, failed)
		assert.NoFileExists(t, filepath.Join(dir, "a.md"))
		assert.FileExists(t, filepath.Join(dir, "b.md"))
	})

	t.Run("overwrites existing content", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("stale"), 0644))
		srv := docServer(t, map[string]string{"/a.md": "fresh"})

		dl := &downloader.Downloader{Fetcher: f, Dir: dir}
		success, _ := dl.Run(t.Context(), []index.Page{{Title: "A", URL: srv.URL + "/a.md"}}, nil)

		assert.Equal(t, 1, success)
		got, err := os.ReadFile(filepath.Join(dir, "a.md"))
		require.NoError(t, err)
		assert.Equal(t, "fresh", string(got))
	})

	t.Run("html mode converts to markdown with frontmatter", func(t *testing.T) {
		dir := t.TempDir()
		srv := docServer(t, map[string]string{
			"/page.md": `<html><head><title>Hooks Guide</title></head>` +
				`<body><nav>skip me</nav><main><h1>Hooks</h1><p>How hooks work.</p>` +
				`<p>More detail so the heuristic picks main.</p></main></body></html>`,
		})

		dl := &downloader.Downloader{Fetcher: f, Dir: dir, HTML: true}
		success, failed := dl.Run(t.Context(), []index.Page{
			{Title: "Hooks", URL: srv.URL + "/page.md"},
		}, nil)

		require.Empty(t, failed)
		assert.Equal(t, 1, success)

		got, err := os.ReadFile(filepath.Join(dir, "page.md"))
		require.NoError(t, err)
		content := string(got)
		assert.Contains(t, content, "title: Hooks Guide")
		assert.Contains(t, content, "source_url: "+srv.URL+"/page.md")
		assert.Contains(t, content, "# Hooks")
		assert.NotContains(t, content, "skip me")
	})
}
