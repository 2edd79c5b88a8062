// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the inkpress blog.
// Handlers are grouped by concern (public, admin, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/cache"
	"inkpress/internal/markdown"
	"inkpress/internal/models"
	"inkpress/internal/query"
	"inkpress/internal/render"
)

// relatedLimit caps how many related posts show under an article.
const relatedLimit = 3

// Public groups handlers for the public-facing blog pages. It checks the
// Valkey page cache before running the listing pipeline, and stores
// rendered results on miss. pageCache may be nil when Valkey is not
// configured; pages then render on every request.
type Public struct {
	engine    *query.Engine
	renderer  *render.Renderer
	pageCache *cache.PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(engine *query.Engine, renderer *render.Renderer, pageCache *cache.PageCache) *Public {
	return &Public{
		engine:    engine,
		renderer:  renderer,
		pageCache: pageCache,
	}
}

// Index renders the public post listing with search, taxonomy filters,
// and pagination. Only public posts are visible here.
func (p *Public) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := cache.Key(r.URL.Path, r.URL.RawQuery)

	if p.pageCache != nil {
		if cached, ok := p.pageCache.Get(ctx, key); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	params := query.ListParams{
		Page:       queryInt(r, "page"),
		Sort:       r.URL.Query().Get("sort"),
		Query:      r.URL.Query().Get("q"),
		CategoryID: queryInt(r, "category_id"),
		TopicID:    queryInt(r, "topic_id"),
		GroupID:    queryInt(r, "group_id"),
		PublicOnly: true,
	}
	result := p.engine.List(params)

	page := params.Page
	if page < 1 {
		page = 1
	}

	data := &render.PageData{
		Title: "Posts",
		Data: map[string]any{
			"Posts":       result.Posts,
			"Page":        page,
			"TotalPages":  result.TotalPages,
			"Total":       result.Total,
			"Searched":    result.Searched,
			"SearchQuery": result.SearchQuery,
			"QuerySuffix": pageQuerySuffix(r),
		},
	}

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, "public/index", data); err != nil {
		slog.Error("render post index failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if p.pageCache != nil {
		p.pageCache.Set(ctx, key, buf.Bytes())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Show renders a single public post with its markdown body converted to
// HTML and a short list of related posts from the same category.
func (p *Public) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	key := cache.Key(r.URL.Path, "")
	if p.pageCache != nil {
		if cached, ok := p.pageCache.Get(ctx, key); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	post, err := p.engine.Detail(id, false)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("load post failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	contentHTML, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Error("markdown render failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	related := p.engine.Related(&post.Post, relatedLimit)

	var buf bytes.Buffer
	err = p.renderer.Render(&buf, "public/post", &render.PageData{
		Title: post.Title,
		Data: map[string]any{
			"Post":        post,
			"ContentHTML": contentHTML,
			"Related":     related,
		},
	})
	if err != nil {
		slog.Error("render post page failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if p.pageCache != nil {
		p.pageCache.Set(ctx, key, buf.Bytes())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Health reports server liveness for load balancers and uptime checks.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// queryInt parses an integer query parameter, returning 0 when absent
// or malformed.
func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

// pageQuerySuffix rebuilds the non-page query parameters as a suffix for
// pagination links, e.g. "&q=rust&category_id=2".
func pageQuerySuffix(r *http.Request) string {
	var suffix string
	if q := r.URL.Query().Get("q"); q != "" {
		suffix += "&q=" + url.QueryEscape(q)
	}
	for _, name := range []string{"category_id", "topic_id", "group_id"} {
		if v := queryInt(r, name); v > 0 {
			suffix += fmt.Sprintf("&%s=%d", name, v)
		}
	}
	if sort := r.URL.Query().Get("sort"); sort != "" {
		suffix += "&sort=" + url.QueryEscape(sort)
	}
	return suffix
}
