// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/cache"
	"inkpress/internal/models"
	"inkpress/internal/render"
	"inkpress/internal/store"
	"inkpress/internal/taxonomy"
)

// Taxonomy groups the handlers for the taxonomy management page and its
// JSON API. Create, rename, and delete all go through the JSON API; the
// page itself is plain server-rendered HTML.
type Taxonomy struct {
	renderer  *render.Renderer
	manager   *taxonomy.Manager
	store     *store.TaxonomyStore
	pageCache *cache.PageCache
}

// NewTaxonomy creates a new Taxonomy handler group.
func NewTaxonomy(renderer *render.Renderer, manager *taxonomy.Manager, taxonomyStore *store.TaxonomyStore, pageCache *cache.PageCache) *Taxonomy {
	return &Taxonomy{
		renderer:  renderer,
		manager:   manager,
		store:     taxonomyStore,
		pageCache: pageCache,
	}
}

// invalidatePages drops the public page cache after a mutation: taxonomy
// names appear on every listing and post page.
func (t *Taxonomy) invalidatePages(r *http.Request) {
	if t.pageCache != nil {
		t.pageCache.InvalidateAll(r.Context())
	}
}

// Page renders the taxonomy management page with all three levels.
func (t *Taxonomy) Page(w http.ResponseWriter, r *http.Request) {
	doc := t.store.Load()

	t.renderer.Page(w, r, "admin/taxonomy", &render.PageData{
		Title:   "Taxonomy",
		Section: "taxonomy",
		Data: map[string]any{
			"Categories": doc.Categories,
			"Topics":     doc.Topics,
			"Groups":     doc.Groups,
		},
	})
}

// taxonomyRequest is the JSON body for create and rename calls.
type taxonomyRequest struct {
	Name       string `json:"name"`
	CategoryID int    `json:"category_id"`
	TopicID    int    `json:"topic_id"`
}

// decodeRequest reads the JSON body, writing an error response on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request) (*taxonomyRequest, bool) {
	var req taxonomyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid request body"})
		return nil, false
	}
	return &req, true
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// writeTaxonomyError maps manager errors to JSON API responses.
func writeTaxonomyError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "an unexpected error occurred"
	switch {
	case errors.Is(err, models.ErrDuplicateName):
		status, msg = http.StatusConflict, "that name is already taken"
	case errors.Is(err, models.ErrEmptyName):
		status, msg = http.StatusBadRequest, "name must not be empty"
	case errors.Is(err, models.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, models.ErrInUse):
		status, msg = http.StatusConflict, "still referenced by existing posts"
	}
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}

// --- Categories ---

// CreateCategory adds a new top-level category.
func (t *Taxonomy) CreateCategory(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	cat, err := t.manager.CreateCategory(req.Name)
	if err != nil {
		writeTaxonomyError(w, err)
		return
	}

	t.invalidatePages(r)
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "category": cat})
}

// RenameCategory changes a category's name.
func (t *Taxonomy) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeTaxonomyError(w, models.ErrNotFound)
		return
	}
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	if err := t.manager.RenameCategory(id, req.Name); err != nil {
		writeTaxonomyError(w, err)
		return
	}

	t.invalidatePages(r)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DeleteCategory removes a category and cascades to its topics and
// groups. Fails when any post still references the category.
func (t *Taxonomy) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeTaxonomyError(w, models.ErrNotFound)
		return
	}

	if err := t.manager.DeleteCategory(id); err != nil {
		writeTaxonomyError(w, err)
		return
	}

	t.invalidatePages(r)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// --- Topics ---

// ListTopics returns the topics that belong to a category, for dependent
// form selects.
func (t *Taxonomy) ListTopics(w http.ResponseWriter, r *http.Request) {
	categoryID := queryInt(r, "category_id")
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"topics": t.manager.TopicsByCategory(categoryID),
	})
}

// CreateTopic adds a topic under an existing category.
func (t *Taxonomy) CreateTopic(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	topic, err := t.manager.CreateTopic(req.CategoryID, req.Name)
	if err != nil {
		writeTaxonomyError(w, err)
		return
	}

	t.invalidatePages(r)
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "topic": topic})
}

// RenameTopic changes a topic's name.
func (t *Taxonomy) RenameTopic(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeTaxonomyError(w, models.ErrNotFound)
		return
	}
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	if err := t.manager.RenameTopic(id, req.Name); err != nil {
		writeTaxonomyError(w, err)
		return
	}

	t.invalidatePages(r)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DeleteTopic removes a topic and cascades to its groups.
func (t *Taxonomy) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeTaxonomyError(w, models.ErrNotFound)
		return
	}

	if err := t.manager.DeleteTopic(id); err != nil {
		writeTaxonomyError(w, err)
		return
	}

	t.invalidatePages(r)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// --- Groups ---

// ListGroups returns the groups that belong to a topic.
func (t *Taxonomy) ListGroups(w http.ResponseWriter, r *http.Request) {
	topicID := queryInt(r, "topic_id")
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"groups": t.manager.GroupsByTopic(topicID),
	})
}

// CreateGroup adds a group under an existing topic.
func (t *Taxonomy) CreateGroup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	group, err := t.manager.CreateGroup(req.TopicID, req.Name)
	if err != nil {
		writeTaxonomyError(w, err)
		return
	}

	t.invalidatePages(r)
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "group": group})
}

// RenameGroup changes a group's name.
func (t *Taxonomy) RenameGroup(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeTaxonomyError(w, models.ErrNotFound)
		return
	}
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	if err := t.manager.RenameGroup(id, req.Name); err != nil {
		writeTaxonomyError(w, err)
		return
	}

	t.invalidatePages(r)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DeleteGroup removes a group.
func (t *Taxonomy) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeTaxonomyError(w, models.ErrNotFound)
		return
	}

	if err := t.manager.DeleteGroup(id); err != nil {
		writeTaxonomyError(w, err)
		return
	}

	t.invalidatePages(r)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
