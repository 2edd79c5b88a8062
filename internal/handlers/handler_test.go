// handler_test.go provides shared fixtures for handler tests. These tests
// use temp-dir stores and skip the Valkey page cache, so they run anywhere.
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/config"
	"inkpress/internal/models"
	"inkpress/internal/posts"
	"inkpress/internal/query"
	"inkpress/internal/render"
	"inkpress/internal/store"
	"inkpress/internal/taxonomy"
)

// testEnv bundles everything a handler test needs.
type testEnv struct {
	renderer  *render.Renderer
	postStore *store.PostStore
	taxStore  *store.TaxonomyStore
	engine    *query.Engine
	lifecycle *posts.Manager
	taxMgr    *taxonomy.Manager
	cfg       *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New() error: %v", err)
	}

	dir := t.TempDir()
	ps := store.NewPostStore(dir)
	ts := store.NewTaxonomyStore(dir)

	return &testEnv{
		renderer:  renderer,
		postStore: ps,
		taxStore:  ts,
		engine:    query.NewEngine(ps, ts),
		lifecycle: posts.NewManager(ps, ts),
		taxMgr:    taxonomy.NewManager(ts, ps),
		cfg: &config.Config{
			Env:        "testing",
			AdminEmail: "admin@example.com",
		},
	}
}

// seedContent writes a small taxonomy and a few posts.
func (env *testEnv) seedContent(t *testing.T) {
	t.Helper()

	err := env.taxStore.Save(models.Taxonomy{
		Categories: []models.Category{{ID: 1, Name: "Tech"}, {ID: 2, Name: "Life"}},
		Topics:     []models.Topic{{ID: 1, Name: "Go", CategoryID: 1}},
		Groups:     []models.Group{{ID: 1, Name: "Basics", TopicID: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = env.postStore.Save([]models.Post{
		{ID: 1, Title: "Go basics", Content: "# Hello\n\nchannels", CategoryID: 1, TopicID: 1, GroupID: 1, Status: models.StatusPublic, CreatedAt: "2026-01-01 10:00"},
		{ID: 2, Title: "Go errors", Content: "wrap them", CategoryID: 1, TopicID: 1, GroupID: 1, Status: models.StatusPublic, CreatedAt: "2026-01-02 10:00"},
		{ID: 3, Title: "Secret draft", Content: "wip", CategoryID: 1, TopicID: 1, GroupID: 1, Status: models.StatusDraft, CreatedAt: "2026-01-03 10:00"},
	})
	if err != nil {
		t.Fatal(err)
	}
}

// withURLParam attaches a chi route parameter to the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withPostID is shorthand for the common {id} parameter.
func withPostID(r *http.Request, id int) *http.Request {
	return withURLParam(r, "id", strconv.Itoa(id))
}

func doGet(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, r)
	return rec
}
