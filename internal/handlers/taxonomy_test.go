package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTaxonomyHandlers(env *testEnv) *Taxonomy {
	return NewTaxonomy(env.renderer, env.taxMgr, env.taxStore, nil)
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestTaxonomyPage(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	tax := newTaxonomyHandlers(env)

	rec := doGet(tax.Page, httptest.NewRequest(http.MethodGet, "/admin/taxonomy", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"Tech", "Life", "Go", "Basics"} {
		if !strings.Contains(body, name) {
			t.Errorf("%q missing from taxonomy page", name)
		}
	}
}

func TestCreateCategoryAPI(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	tax := newTaxonomyHandlers(env)

	rec := httptest.NewRecorder()
	tax.CreateCategory(rec, jsonRequest(http.MethodPost, "/admin/api/taxonomy/categories", `{"name":"Science"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	doc := env.taxStore.Load()
	if doc.FindCategory(3) == nil {
		t.Error("category not persisted")
	}
}

func TestCreateCategoryAPIDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	tax := newTaxonomyHandlers(env)

	rec := httptest.NewRecorder()
	tax.CreateCategory(rec, jsonRequest(http.MethodPost, "/admin/api/taxonomy/categories", `{"name":"tech"}`))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 for duplicate", rec.Code)
	}
}

func TestCreateTopicAPIUnknownParent(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	tax := newTaxonomyHandlers(env)

	rec := httptest.NewRecorder()
	tax.CreateTopic(rec, jsonRequest(http.MethodPost, "/admin/api/taxonomy/topics", `{"name":"Swimming","category_id":99}`))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRenameCategoryAPI(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	tax := newTaxonomyHandlers(env)

	req := withPostID(jsonRequest(http.MethodPut, "/admin/api/taxonomy/categories/1", `{"name":"Technology"}`), 1)
	rec := httptest.NewRecorder()
	tax.RenameCategory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	doc := env.taxStore.Load()
	if got := doc.FindCategory(1).Name; got != "Technology" {
		t.Errorf("name = %q", got)
	}
}

func TestDeleteCategoryAPIInUse(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	tax := newTaxonomyHandlers(env)

	req := withPostID(jsonRequest(http.MethodDelete, "/admin/api/taxonomy/categories/1", ""), 1)
	rec := httptest.NewRecorder()
	tax.DeleteCategory(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 while posts reference the category", rec.Code)
	}

	var resp struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.OK || resp.Error == "" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestDeleteCategoryAPICascades(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	// Category 2 has no topics and no posts; deletable.
	tax := newTaxonomyHandlers(env)

	req := withPostID(jsonRequest(http.MethodDelete, "/admin/api/taxonomy/categories/2", ""), 2)
	rec := httptest.NewRecorder()
	tax.DeleteCategory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	doc := env.taxStore.Load()
	if doc.FindCategory(2) != nil {
		t.Error("category still present")
	}
}

func TestListTopicsAPI(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	tax := newTaxonomyHandlers(env)

	rec := doGet(tax.ListTopics, httptest.NewRequest(http.MethodGet, "/admin/api/taxonomy/topics?category_id=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Topics []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"topics"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Topics) != 1 || resp.Topics[0].Name != "Go" {
		t.Errorf("topics = %+v", resp.Topics)
	}
}

func TestTaxonomyAPIInvalidBody(t *testing.T) {
	env := newTestEnv(t)
	tax := newTaxonomyHandlers(env)

	rec := httptest.NewRecorder()
	tax.CreateCategory(rec, jsonRequest(http.MethodPost, "/admin/api/taxonomy/categories", `{not json`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
