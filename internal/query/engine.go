// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package query builds the post listings served to both the public site and
// the admin panel: keyword search, taxonomy filters, sorting, pagination,
// and name enrichment of the returned page.
package query

import (
	"fmt"
	"sort"
	"strings"

	"inkpress/internal/models"
	"inkpress/internal/store"
)

// SortCreatedAsc requests oldest-first ordering. Every other sort value,
// including an unrecognized one, means newest first.
const SortCreatedAsc = "created_asc"

// DefaultLimit is the page size used when the caller passes none.
const DefaultLimit = 10

// ListParams are the inputs to List. A zero CategoryID/TopicID/GroupID
// means "no filter on that dimension" (taxonomy ids are always positive).
type ListParams struct {
	Page       int
	Limit      int
	Sort       string
	Query      string
	CategoryID int
	TopicID    int
	GroupID    int
	PublicOnly bool
}

// ListResult is the listing envelope consumed by the presentation layer.
type ListResult struct {
	Posts       []models.PostView `json:"posts"`
	TotalPages  int               `json:"total_pages"`
	Searched    bool              `json:"searched"`
	SearchQuery string            `json:"search_query"`
	Total       int               `json:"total"`
	Filtered    bool              `json:"filtered"`
}

// Engine runs the listing pipeline against the two stores.
type Engine struct {
	posts    *store.PostStore
	taxonomy *store.TaxonomyStore
}

// NewEngine creates an Engine over the given stores.
func NewEngine(posts *store.PostStore, taxonomy *store.TaxonomyStore) *Engine {
	return &Engine{posts: posts, taxonomy: taxonomy}
}

// List applies, in order: keyword search (case-insensitive substring on
// title or content), conjunctive taxonomy filters, created_at sort, and
// pagination. Only the returned page slice is enriched with taxonomy names.
func (e *Engine) List(p ListParams) ListResult {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}

	posts := e.posts.Load(p.PublicOnly)
	doc := e.taxonomy.Load()

	var res ListResult

	if q := strings.TrimSpace(p.Query); q != "" {
		res.Searched = true
		res.SearchQuery = q
		needle := strings.ToLower(q)

		matched := posts[:0]
		for _, post := range posts {
			if strings.Contains(strings.ToLower(post.Title), needle) ||
				strings.Contains(strings.ToLower(post.Content), needle) {
				matched = append(matched, post)
			}
		}
		posts = matched
	}

	if p.CategoryID != 0 {
		res.Filtered = true
		posts = filterPosts(posts, func(post models.Post) bool { return post.CategoryID == p.CategoryID })
	}
	if p.TopicID != 0 {
		res.Filtered = true
		posts = filterPosts(posts, func(post models.Post) bool { return post.TopicID == p.TopicID })
	}
	if p.GroupID != 0 {
		res.Filtered = true
		posts = filterPosts(posts, func(post models.Post) bool { return post.GroupID == p.GroupID })
	}

	// created_at is a fixed-width timestamp string, so plain string order
	// is chronological order.
	asc := p.Sort == SortCreatedAsc
	sort.SliceStable(posts, func(i, j int) bool {
		if asc {
			return posts[i].CreatedAt < posts[j].CreatedAt
		}
		return posts[i].CreatedAt > posts[j].CreatedAt
	})

	res.Total = len(posts)
	res.TotalPages = (res.Total + p.Limit - 1) / p.Limit
	if res.TotalPages < 1 {
		res.TotalPages = 1
	}

	start := (p.Page - 1) * p.Limit
	end := start + p.Limit
	if start > len(posts) {
		start = len(posts)
	}
	if end > len(posts) {
		end = len(posts)
	}

	res.Posts = enrich(posts[start:end], &doc)
	return res
}

// Detail returns a single post with taxonomy names resolved. When
// includeNonPublic is false, private and draft posts read as not found.
func (e *Engine) Detail(id int, includeNonPublic bool) (*models.PostView, error) {
	posts := e.posts.Load(false)
	doc := e.taxonomy.Load()

	for _, p := range posts {
		if p.ID != id {
			continue
		}
		if !includeNonPublic && !p.IsPublic() {
			break
		}
		view := enrich([]models.Post{p}, &doc)[0]
		return &view, nil
	}
	return nil, fmt.Errorf("post %d: %w", id, models.ErrNotFound)
}

// Related returns up to limit public posts in the same category as post,
// excluding the post itself, newest first.
func (e *Engine) Related(post *models.Post, limit int) []models.Post {
	posts := e.posts.Load(true)

	related := posts[:0]
	for _, p := range posts {
		if p.ID != post.ID && p.CategoryID == post.CategoryID {
			related = append(related, p)
		}
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].CreatedAt > related[j].CreatedAt
	})

	if len(related) > limit {
		related = related[:limit]
	}
	return related
}

// filterPosts keeps the posts for which keep returns true, reusing the
// backing array (the slice is private to the current call).
func filterPosts(posts []models.Post, keep func(models.Post) bool) []models.Post {
	out := posts[:0]
	for _, p := range posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// enrich attaches taxonomy names to a page of posts. Missing ids resolve
// to empty names rather than errors: posts may hold dangling references
// after a cascade delete.
func enrich(posts []models.Post, doc *models.Taxonomy) []models.PostView {
	categories := make(map[int]string, len(doc.Categories))
	for _, c := range doc.Categories {
		categories[c.ID] = c.Name
	}
	topics := make(map[int]string, len(doc.Topics))
	for _, t := range doc.Topics {
		topics[t.ID] = t.Name
	}
	groups := make(map[int]string, len(doc.Groups))
	for _, g := range doc.Groups {
		groups[g.ID] = g.Name
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, models.PostView{
			Post:         p,
			CategoryName: categories[p.CategoryID],
			TopicName:    topics[p.TopicID],
			GroupName:    groups[p.GroupID],
		})
	}
	return views
}
