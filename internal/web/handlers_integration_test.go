package web

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tutorial/internal/config"
	"tutorial/internal/logging"
	"tutorial/internal/metrics"
	"tutorial/internal/tutorial"
)

var errStoreDown = errors.New("store down")

type fakeStore struct{}

func (fakeStore) LoadContent(_ context.Context, slug string) (*tutorial.Content, error) {
	exercise, err := fakeStore{}.LoadExercise(context.Background(), slug)
	if err != nil || exercise == nil {
		return nil, err
	}

	return &tutorial.Content{
		Exercise: *exercise,
		Markdown: "# " + exercise.Title,
		HTML:     template.HTML("<p>Learn about " + exercise.Title + "</p>"),
		Files: []tutorial.File{
			{Name: "App.svelte", Contents: "<h1>Hello {name}</h1>"},
			{Name: "lib/answer.js", Contents: "export const answer = 42;"},
		},
	}, nil
}

func (fakeStore) LoadExercise(_ context.Context, slug string) (*tutorial.Exercise, error) {
	switch slug {
	case "intro-to-svelte":
		return &tutorial.Exercise{
			Slug:         slug,
			Title:        "Welcome to Svelte",
			PartTitle:    "Basic Svelte",
			ChapterTitle: "Introduction",
			Next:         &tutorial.Link{Slug: "your-first-component", Title: "Your first component"},
		}, nil
	case "global-transitions", "local-transitions":
		return &tutorial.Exercise{Slug: slug, Title: "Global transitions"}, nil
	case "broken":
		return nil, errStoreDown
	default:
		return nil, nil
	}
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return newTestServerWithConfig(t, config.Config{})
}

func newTestServerWithConfig(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()

	staticDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(staticDir, "tutorial.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatalf("write static file: %v", err)
	}

	m := metrics.New()
	service := tutorial.NewService(fakeStore{}, tutorial.WithObserver(m.ObserveOutcome))
	cfg.StaticDir = staticDir
	handler, err := NewHandler(cfg, service, Options{
		Logger:  logging.NewNop(),
		Metrics: m.Handler(),
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func requireBody(t *testing.T, body io.Reader) string {
	t.Helper()

	content, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(content)
}

func performRequest(handler http.Handler, method string, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestTutorialPageRendersHTML(t *testing.T) {
	t.Parallel()
	handler := newTestServer(t)

	rec := performRequest(handler, http.MethodGet, "/tutorial/intro-to-svelte")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: expected %d, got %d", http.StatusOK, rec.Code)
	}
	if contentType := rec.Header().Get("Content-Type"); !strings.Contains(contentType, "text/html") {
		t.Fatalf("content-type: expected html, got %q", contentType)
	}

	body := requireBody(t, rec.Body)
	for _, want := range []string{
		"<title>Welcome to Svelte • Svelte Tutorial</title>",
		`<meta name="description" content="Welcome to Svelte">`,
		`<article id="exercise" data-signals="{&#34;file&#34;:&#34;App.svelte&#34;}">`,
		"<p>Learn about Welcome to Svelte</p>",
		`<span>Basic Svelte</span>`,
		`href="/tutorial/your-first-component"`,
		`&lt;h1&gt;Hello {name}&lt;/h1&gt;`,
		`data-on:click="$file=&#34;lib/answer.js&#34;; @get(&#39;/tutorial/intro-to-svelte/live&#39;)"`,
		".chroma",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q", want)
		}
	}
	if strings.Contains(body, "event: datastar-patch-elements") {
		t.Fatalf("page should not include live SSE patch payload")
	}
}

func TestTutorialPageSelectsFileFromQuery(t *testing.T) {
	t.Parallel()
	handler := newTestServer(t)

	rec := performRequest(handler, http.MethodGet, "/tutorial/intro-to-svelte?file=lib/answer.js")
	body := requireBody(t, rec.Body)
	if !strings.Contains(body, `data-file="lib/answer.js"`) {
		t.Fatalf("expected lib/answer.js to be the active file")
	}
	if !strings.Contains(body, `class="file-tab active"`) {
		t.Fatalf("expected an active file tab")
	}
}

func TestDeprecatedSlugRedirects(t *testing.T) {
	t.Parallel()
	handler := newTestServer(t)

	cases := []struct {
		path     string
		location string
	}{
		{path: "/tutorial/local-transitions", location: "/tutorial/global-transitions"},
		{path: "/tutorial/local-transitions/live", location: "/tutorial/global-transitions/live"},
	}

	for _, tc := range cases {
		rec := performRequest(handler, http.MethodGet, tc.path)
		if rec.Code != http.StatusPermanentRedirect {
			t.Fatalf("%s status: expected %d, got %d", tc.path, http.StatusPermanentRedirect, rec.Code)
		}
		if got := rec.Header().Get("Location"); got != tc.location {
			t.Fatalf("%s location: expected %q, got %q", tc.path, tc.location, got)
		}
		if got := rec.Header().Get("Cache-Control"); got != cacheControlRedirect {
			t.Fatalf("%s cache-control: expected %q, got %q", tc.path, cacheControlRedirect, got)
		}
	}
}

func TestTutorialIndexRedirectsToStartSlug(t *testing.T) {
	t.Parallel()

	cases := []struct {
		startSlug string
		path      string
		location  string
	}{
		{startSlug: "intro-to-svelte", path: "/tutorial", location: "/tutorial/intro-to-svelte"},
		{startSlug: "intro-to-svelte", path: "/tutorial/", location: "/tutorial/intro-to-svelte"},
		{startSlug: "local-transitions", path: "/tutorial", location: "/tutorial/global-transitions"},
	}

	for _, tc := range cases {
		handler := newTestServerWithConfig(t, config.Config{StartSlug: tc.startSlug})
		rec := performRequest(handler, http.MethodGet, tc.path)
		if rec.Code != http.StatusTemporaryRedirect {
			t.Fatalf("%s status: expected %d, got %d", tc.path, http.StatusTemporaryRedirect, rec.Code)
		}
		if got := rec.Header().Get("Location"); got != tc.location {
			t.Fatalf("%s location: expected %q, got %q", tc.path, tc.location, got)
		}
	}
}

func TestTutorialIndexWithoutStartSlugNotFound(t *testing.T) {
	t.Parallel()
	handler := newTestServer(t)

	rec := performRequest(handler, http.MethodGet, "/tutorial")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: expected %d, got %d", http.StatusNotFound, rec.Code)
	}
	if body := requireBody(t, rec.Body); !strings.Contains(body, tutorial.NotFoundMessage) {
		t.Fatalf("expected not-found message in body")
	}
}

func TestLiveRouteReturnsPatch(t *testing.T) {
	t.Parallel()
	handler := newTestServer(t)

	query := url.Values{"datastar": []string{`{"file":"lib/answer.js"}`}}
	rec := performRequest(handler, http.MethodGet, "/tutorial/intro-to-svelte/live?"+query.Encode())
	if rec.Code != http.StatusOK {
		t.Fatalf("status: expected %d, got %d", http.StatusOK, rec.Code)
	}

	body := requireBody(t, rec.Body)
	if !strings.Contains(body, "event: datastar-patch-elements") {
		t.Fatalf("missing datastar patch event")
	}
	if !strings.Contains(body, "data: selector #exercise") {
		t.Fatalf("missing selector #exercise")
	}
	if !strings.Contains(body, "export const answer = 42;") {
		t.Fatalf("live patch should show the selected file")
	}
	if strings.Contains(body, "<title>") {
		t.Fatalf("live patch must not include the layout")
	}
}

func TestUnknownTutorialNotFound(t *testing.T) {
	t.Parallel()
	handler := newTestServer(t)

	cases := []struct {
		path    string
		message string
	}{
		{path: "/tutorial/does-not-exist", message: "No such tutorial found"},
		{path: "/tutorial/does-not-exist/live", message: "No such tutorial found"},
		{path: "/tutorial/bad.slug", message: "Page not found"},
		{path: "/", message: "Page not found"},
	}

	for _, tc := range cases {
		rec := performRequest(handler, http.MethodGet, tc.path)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s status: expected %d, got %d", tc.path, http.StatusNotFound, rec.Code)
		}
		if got := rec.Header().Get("Cache-Control"); got != cacheControlNoStore {
			t.Fatalf("%s cache-control: expected %q, got %q", tc.path, cacheControlNoStore, got)
		}
		body := requireBody(t, rec.Body)
		if !strings.Contains(body, tc.message) {
			t.Fatalf("%s body missing %q", tc.path, tc.message)
		}
	}
}

func TestStoreFailureIsServerError(t *testing.T) {
	t.Parallel()
	handler := newTestServer(t)

	rec := performRequest(handler, http.MethodGet, "/tutorial/broken")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: expected %d, got %d", http.StatusInternalServerError, rec.Code)
	}
}

func TestHealthStaticAndMetrics(t *testing.T) {
	t.Parallel()
	handler := newTestServer(t)

	recHealth := performRequest(handler, http.MethodGet, "/healthz")
	if body := strings.TrimSpace(requireBody(t, recHealth.Body)); body != "ok" {
		t.Fatalf("healthz body: expected %q, got %q", "ok", body)
	}

	recStatic := performRequest(handler, http.MethodGet, "/.tutorial/tutorial.css")
	if recStatic.Code != http.StatusOK {
		t.Fatalf("static status: expected %d, got %d", http.StatusOK, recStatic.Code)
	}
	if got := recStatic.Header().Get("Cache-Control"); got != cacheControlPublicHour {
		t.Fatalf("static cache-control: expected %q, got %q", cacheControlPublicHour, got)
	}

	_ = performRequest(handler, http.MethodGet, "/tutorial/intro-to-svelte")
	_ = performRequest(handler, http.MethodGet, "/tutorial/local-transitions")

	recMetrics := performRequest(handler, http.MethodGet, "/metrics")
	body := requireBody(t, recMetrics.Body)
	for _, want := range []string{
		`tutorial_resolutions_total{outcome="found"} 1`,
		`tutorial_resolutions_total{outcome="redirect"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}
