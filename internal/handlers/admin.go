// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"inkpress/internal/cache"
	"inkpress/internal/config"
	"inkpress/internal/models"
	"inkpress/internal/posts"
	"inkpress/internal/query"
	"inkpress/internal/render"
	"inkpress/internal/store"
	"inkpress/internal/taxonomy"
)

// Admin groups the admin panel HTTP handlers for post management and
// settings. pageCache may be nil when Valkey is not configured.
type Admin struct {
	renderer  *render.Renderer
	engine    *query.Engine
	lifecycle *posts.Manager
	taxonomy  *store.TaxonomyStore
	pageCache *cache.PageCache
	cfg       *config.Config
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(renderer *render.Renderer, engine *query.Engine, lifecycle *posts.Manager, taxonomyStore *store.TaxonomyStore, pageCache *cache.PageCache, cfg *config.Config) *Admin {
	return &Admin{
		renderer:  renderer,
		engine:    engine,
		lifecycle: lifecycle,
		taxonomy:  taxonomyStore,
		pageCache: pageCache,
		cfg:       cfg,
	}
}

// invalidatePages drops the whole public page cache after a mutation.
func (a *Admin) invalidatePages(r *http.Request) {
	if a.pageCache != nil {
		a.pageCache.InvalidateAll(r.Context())
	}
}

// --- Posts ---

// PostsList renders the posts management page. Admins see every post
// regardless of status, with the same search and filter pipeline as the
// public listing.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	params := query.ListParams{
		Page:       queryInt(r, "page"),
		Sort:       r.URL.Query().Get("sort"),
		Query:      r.URL.Query().Get("q"),
		CategoryID: queryInt(r, "category_id"),
		TopicID:    queryInt(r, "topic_id"),
		GroupID:    queryInt(r, "group_id"),
		PublicOnly: false,
	}
	result := a.engine.List(params)
	doc := a.taxonomy.Load()

	page := params.Page
	if page < 1 {
		page = 1
	}

	a.renderer.Page(w, r, "admin/posts", &render.PageData{
		Title:   "Posts",
		Section: "posts",
		Data: map[string]any{
			"Posts":       result.Posts,
			"Page":        page,
			"TotalPages":  result.TotalPages,
			"SearchQuery": result.SearchQuery,
			"CategoryID":  params.CategoryID,
			"Categories":  doc.Categories,
			"QuerySuffix": pageQuerySuffix(r),
		},
	})
}

// PostNew renders the new post form.
func (a *Admin) PostNew(w http.ResponseWriter, r *http.Request) {
	a.renderPostForm(w, r, nil, nil)
}

// renderPostForm renders the post editor for create (post == nil) or edit.
func (a *Admin) renderPostForm(w http.ResponseWriter, r *http.Request, post *models.Post, flashes []render.Flash) {
	doc := a.taxonomy.Load()

	data := map[string]any{
		"Categories": doc.Categories,
		"Topics":     doc.Topics,
		"Groups":     doc.Groups,
		"FormAction": "/admin/posts",
		// Selected ids are always present so templates can compare them.
		"SelectedCategory": 0,
		"SelectedTopic":    0,
		"SelectedGroup":    0,
	}
	title := "New post"
	if post != nil {
		data["Post"] = post
		data["FormAction"] = fmt.Sprintf("/admin/posts/%d", post.ID)
		data["SelectedCategory"] = post.CategoryID
		data["SelectedTopic"] = post.TopicID
		data["SelectedGroup"] = post.GroupID
		title = "Edit post"
	}

	a.renderer.Page(w, r, "admin/post_form", &render.PageData{
		Title:   title,
		Section: "posts",
		Data:    data,
		Flashes: flashes,
	})
}

// taxonomyRefFromForm reads one classification dimension from the editor
// form: <dim>_mode, <dim>_id, and <dim>_name fields.
func taxonomyRefFromForm(r *http.Request, dim string) posts.TaxonomyRef {
	id, _ := strconv.Atoi(r.FormValue(dim + "_id"))
	return posts.TaxonomyRef{
		Mode:    taxonomy.Mode(r.FormValue(dim + "_mode")),
		ID:      id,
		NewName: r.FormValue(dim + "_name"),
	}
}

// PostCreate handles the new post form submission.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	title := r.FormValue("title")
	content := r.FormValue("content")

	if errMsg := validatePost(title, content); errMsg != "" {
		a.renderPostForm(w, r, nil, []render.Flash{{Type: "error", Message: errMsg}})
		return
	}

	_, err := a.lifecycle.Create(posts.CreateParams{
		Title:    title,
		Content:  content,
		Action:   r.FormValue("action"),
		Category: taxonomyRefFromForm(r, "category"),
		Topic:    taxonomyRefFromForm(r, "topic"),
		Group:    taxonomyRefFromForm(r, "group"),
	})
	if err != nil {
		a.renderPostForm(w, r, nil, []render.Flash{{Type: "error", Message: mutationErrorMessage(err)}})
		return
	}

	a.invalidatePages(r)
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostEdit renders the edit post form.
func (a *Admin) PostEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	view, err := a.engine.Detail(id, true)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	a.renderPostForm(w, r, &view.Post, nil)
}

// PostUpdate handles the edit post form submission. The saved post always
// comes back as a draft.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")

	reRender := func(flash string) {
		view, derr := a.engine.Detail(id, true)
		if derr != nil {
			http.NotFound(w, r)
			return
		}
		a.renderPostForm(w, r, &view.Post, []render.Flash{{Type: "error", Message: flash}})
	}

	if errMsg := validatePost(title, content); errMsg != "" {
		reRender(errMsg)
		return
	}

	_, err = a.lifecycle.Update(id, posts.UpdateParams{
		Title:    title,
		Content:  content,
		Category: taxonomyRefFromForm(r, "category"),
		Topic:    taxonomyRefFromForm(r, "topic"),
		Group:    taxonomyRefFromForm(r, "group"),
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		reRender(mutationErrorMessage(err))
		return
	}

	a.invalidatePages(r)
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostDelete handles post deletion. Deleting an unknown id is a no-op.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := a.lifecycle.Delete(id); err != nil {
		slog.Error("delete post failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.invalidatePages(r)
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// --- Status API ---

// statusRequest is the JSON body for the status toggle endpoint.
type statusRequest struct {
	Target string `json:"target"`
}

// PostSetStatus flips a post between public and private via the JSON API.
// Drafts and invalid targets are rejected; edits are the only way out of
// draft.
func (a *Admin) PostSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "post not found"})
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid request body"})
		return
	}

	if !a.lifecycle.SetStatus(id, req.Target) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"ok": false, "error": "status not changed"})
		return
	}

	a.invalidatePages(r)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// --- Settings ---

// Settings renders the settings page, including the TOTP enrollment QR
// code when a second factor is configured.
func (a *Admin) Settings(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"AdminEmail":  a.cfg.AdminEmail,
		"TOTPEnabled": a.cfg.AdminTOTPSecret != "",
	}

	if a.cfg.AdminTOTPSecret != "" {
		uri := fmt.Sprintf("otpauth://totp/inkpress:%s?secret=%s&issuer=inkpress",
			a.cfg.AdminEmail, a.cfg.AdminTOTPSecret)
		qrPNG, err := qrcode.Encode(uri, qrcode.Medium, 256)
		if err != nil {
			slog.Error("qr code generation failed", "error", err)
		} else {
			data["TOTPQRCode"] = base64.StdEncoding.EncodeToString(qrPNG)
		}
	}

	a.renderer.Page(w, r, "admin/settings", &render.PageData{
		Title:   "Settings",
		Section: "settings",
		Data:    data,
	})
}

// writeJSON renders a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response failed", "error", err)
	}
}

// mutationErrorMessage maps store errors to user-facing form messages.
func mutationErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrDuplicateName):
		return "That name is already taken."
	case errors.Is(err, models.ErrEmptyName):
		return "Name must not be empty."
	case errors.Is(err, models.ErrNotFound):
		return "The selected item no longer exists."
	case errors.Is(err, models.ErrInvalidAction):
		return "Choose either draft or public."
	}
	slog.Error("post mutation failed", "error", err)
	return "An unexpected error occurred."
}
