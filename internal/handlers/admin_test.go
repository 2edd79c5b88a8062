package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"inkpress/internal/models"
)

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func newAdmin(env *testEnv) *Admin {
	return NewAdmin(env.renderer, env.engine, env.lifecycle, env.taxStore, nil, env.cfg)
}

func TestAdminPostsListShowsAllStatuses(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	admin := newAdmin(env)

	rec := doGet(admin.PostsList, httptest.NewRequest(http.MethodGet, "/admin/posts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Secret draft") {
		t.Error("draft missing from admin listing")
	}
	if !strings.Contains(body, "Draft") || !strings.Contains(body, "Public") {
		t.Error("status labels missing")
	}
}

func TestAdminPostCreate(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	admin := newAdmin(env)

	form := url.Values{
		"title":         {"Fresh post"},
		"content":       {"body"},
		"action":        {"public"},
		"category_mode": {"existing"},
		"category_id":   {"1"},
		"topic_mode":    {"existing"},
		"topic_id":      {"1"},
		"group_mode":    {"existing"},
		"group_id":      {"1"},
	}
	rec := httptest.NewRecorder()
	admin.PostCreate(rec, formRequest("/admin/posts", form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect, body: %s", rec.Code, rec.Body.String())
	}

	stored := env.postStore.Load(false)
	if len(stored) != 4 {
		t.Fatalf("store holds %d posts, want 4", len(stored))
	}
	last := stored[3]
	if last.Title != "Fresh post" || last.Status != models.StatusPublic {
		t.Errorf("created post = %+v", last)
	}
}

func TestAdminPostCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	admin := newAdmin(env)

	form := url.Values{
		"title":         {"   "},
		"content":       {"body"},
		"action":        {"public"},
		"category_mode": {"existing"},
		"category_id":   {"1"},
		"topic_mode":    {"existing"},
		"topic_id":      {"1"},
		"group_mode":    {"existing"},
		"group_id":      {"1"},
	}
	rec := httptest.NewRecorder()
	admin.PostCreate(rec, formRequest("/admin/posts", form))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want form re-render", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Title is required.") {
		t.Error("validation message missing")
	}
	if got := env.postStore.Load(false); len(got) != 3 {
		t.Error("invalid post was saved")
	}
}

func TestAdminPostCreateNewTaxonomy(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	admin := newAdmin(env)

	form := url.Values{
		"title":         {"Crossover"},
		"content":       {"body"},
		"action":        {"draft"},
		"category_mode": {"new"},
		"category_name": {"Science"},
		"topic_mode":    {"new"},
		"topic_name":    {"Physics"},
		"group_mode":    {"new"},
		"group_name":    {"Quantum"},
	}
	rec := httptest.NewRecorder()
	admin.PostCreate(rec, formRequest("/admin/posts", form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	doc := env.taxStore.Load()
	if len(doc.Categories) != 3 || len(doc.Topics) != 2 || len(doc.Groups) != 2 {
		t.Errorf("taxonomy = %d/%d/%d, want 3/2/2", len(doc.Categories), len(doc.Topics), len(doc.Groups))
	}
}

func TestAdminPostUpdateForcesDraft(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	admin := newAdmin(env)

	form := url.Values{
		"title":         {"Go basics, revised"},
		"content":       {"new body"},
		"category_mode": {"existing"},
		"category_id":   {"1"},
		"topic_mode":    {"existing"},
		"topic_id":      {"1"},
		"group_mode":    {"existing"},
		"group_id":      {"1"},
	}
	rec := httptest.NewRecorder()
	admin.PostUpdate(rec, withPostID(formRequest("/admin/posts/1", form), 1))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	stored := env.postStore.Load(false)
	if stored[0].Title != "Go basics, revised" || stored[0].Status != models.StatusDraft {
		t.Errorf("post after edit = %+v", stored[0])
	}
}

func TestAdminPostDelete(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	admin := newAdmin(env)

	rec := httptest.NewRecorder()
	admin.PostDelete(rec, withPostID(formRequest("/admin/posts/2/delete", url.Values{}), 2))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, p := range env.postStore.Load(false) {
		if p.ID == 2 {
			t.Error("post 2 still present")
		}
	}
}

func TestAdminPostSetStatus(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	admin := newAdmin(env)

	body := strings.NewReader(`{"target":"private"}`)
	req := withPostID(httptest.NewRequest(http.MethodPost, "/admin/api/posts/1/status", body), 1)
	rec := httptest.NewRecorder()
	admin.PostSetStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if env.postStore.Load(false)[0].Status != models.StatusPrivate {
		t.Error("status change not persisted")
	}
}

func TestAdminPostSetStatusRejectsDraft(t *testing.T) {
	env := newTestEnv(t)
	env.seedContent(t)
	admin := newAdmin(env)

	body := strings.NewReader(`{"target":"public"}`)
	req := withPostID(httptest.NewRequest(http.MethodPost, "/admin/api/posts/3/status", body), 3)
	rec := httptest.NewRecorder()
	admin.PostSetStatus(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422 for draft toggle", rec.Code)
	}
	if env.postStore.Load(false)[2].Status != models.StatusDraft {
		t.Error("draft status was changed")
	}
}

func TestAdminSettings(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.AdminTOTPSecret = "JBSWY3DPEHPK3PXP"
	admin := newAdmin(env)

	rec := doGet(admin.Settings, httptest.NewRequest(http.MethodGet, "/admin/settings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "admin@example.com") {
		t.Error("admin email missing")
	}
	if !strings.Contains(body, "data:image/png;base64,") {
		t.Error("TOTP QR code missing")
	}
}
