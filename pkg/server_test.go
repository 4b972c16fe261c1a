package pkg

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.d7z.net/sw-cachelist/pkg/cachelist"
	"gopkg.d7z.net/sw-cachelist/pkg/config"
)

func newTestSite() fstest.MapFS {
	return fstest.MapFS{
		"_config.yml": {Data: []byte(`
baseurl: /blog
collections:
  tabs:
    sort_by: order
    permalink: /:collection/:name/
google_analytics:
  pv:
    proxy_url: https://pv.example.com/
    enabled: true
`)},
		"_tabs/tags.md":  {Data: []byte("---\norder: 1\n---\n")},
		"_tabs/about.md": {Data: []byte("---\norder: 2\n---\n")},
	}
}

func newTestServer(t *testing.T, fsys fstest.MapFS) *Server {
	generator, err := NewGeneratorFS(fsys, config.Default())
	require.NoError(t, err)
	server, err := NewServer(generator, "/assets/js/data/cache-list.js", 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })
	return server
}

func get(server http.Handler, method, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(method, path, nil))
	return recorder
}

func TestGeneratorLists(t *testing.T) {
	generator, err := NewGeneratorFS(newTestSite(), config.Default())
	require.NoError(t, err)
	lists, err := generator.Lists(context.Background())
	require.NoError(t, err)

	assert.Len(t, lists.Include, cachelist.FixedIncludes+2)
	assert.Equal(t, "/blog/assets/css/home.css", lists.Include[0])
	assert.Equal(t, []string{"/tabs/tags/", "/tabs/about/"}, lists.Include[12:14])
	assert.Equal(t, []string{"https://pv.example.com/", cachelist.PageviewsData, cachelist.ShieldsHost}, lists.Exclude)
}

func TestGeneratorCanceled(t *testing.T) {
	generator, err := NewGeneratorFS(newTestSite(), config.Default())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = generator.Lists(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGeneratorUnknownFormat(t *testing.T) {
	c := config.Default()
	c.Format = "xml"
	_, err := NewGeneratorFS(newTestSite(), c)
	require.Error(t, err)
}

func TestGeneratorWriteFile(t *testing.T) {
	c := config.Default()
	c.Site = t.TempDir()
	generator, err := NewGeneratorFS(newTestSite(), c)
	require.NoError(t, err)

	target, err := generator.WriteFile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(c.Site, "assets", "js", "data", "cache-list.js"), target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	expect := &bytes.Buffer{}
	require.NoError(t, generator.Generate(context.Background(), expect))
	assert.Equal(t, expect.String(), string(data))
	assert.Contains(t, string(data), "'/blog/sw.js'")
	assert.Contains(t, string(data), "'/img.shields.io/'")
}

func TestServerScript(t *testing.T) {
	server := newTestServer(t, newTestSite())

	resp := get(server, http.MethodGet, "/assets/js/data/cache-list.js")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "MISS", resp.Header().Get("X-Cache"))
	assert.Equal(t, "application/javascript; charset=utf-8", resp.Header().Get("Content-Type"))
	assert.NotEmpty(t, resp.Header().Get("Session-ID"))
	assert.Contains(t, resp.Body.String(), "const include = [")

	again := get(server, http.MethodGet, "/assets/js/data/cache-list.js")
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, "HIT", again.Header().Get("X-Cache"))
	assert.Equal(t, resp.Body.String(), again.Body.String())
	assert.NotEqual(t, resp.Header().Get("Session-ID"), again.Header().Get("Session-ID"))
}

func TestServerReloadsSite(t *testing.T) {
	fsys := newTestSite()
	server := newTestServer(t, fsys)

	first := get(server, http.MethodGet, "/assets/js/data/cache-list.json")
	require.Equal(t, http.StatusOK, first.Code)

	fsys["_tabs/archives.md"] = &fstest.MapFile{Data: []byte("---\norder: 3\n---\n")}
	second := get(server, http.MethodGet, "/assets/js/data/cache-list.json")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "MISS", second.Header().Get("X-Cache"))

	var lists cachelist.Lists
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &lists))
	assert.Len(t, lists.Include, cachelist.FixedIncludes+3)
	assert.Equal(t, "/tabs/archives/", lists.Include[14])
}

func TestServerErrors(t *testing.T) {
	server := newTestServer(t, newTestSite())
	assert.Equal(t, http.StatusNotFound, get(server, http.MethodGet, "/sw.js").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, get(server, http.MethodPost, "/assets/js/data/cache-list.js").Code)

	head := get(server, http.MethodHead, "/assets/js/data/cache-list.js")
	assert.Equal(t, http.StatusOK, head.Code)
	assert.Empty(t, head.Body.String())

	broken := newTestServer(t, fstest.MapFS{})
	assert.Equal(t, http.StatusInternalServerError, get(broken, http.MethodGet, "/assets/js/data/cache-list.js").Code)
}

func TestServerNotModified(t *testing.T) {
	server := newTestServer(t, newTestSite())
	first := get(server, http.MethodGet, "/assets/js/data/cache-list.js")
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	request := httptest.NewRequest(http.MethodGet, "/assets/js/data/cache-list.js", nil)
	request.Header.Set("If-None-Match", `"other", W/`+etag)
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNotModified, recorder.Code)
	assert.Empty(t, recorder.Body.String())
	assert.Equal(t, etag, recorder.Header().Get("ETag"))

	request = httptest.NewRequest(http.MethodGet, "/assets/js/data/cache-list.js", nil)
	request.Header.Set("If-None-Match", `"stale"`)
	recorder = httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, first.Body.String(), recorder.Body.String())
}
