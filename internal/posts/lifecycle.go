// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package posts owns the post lifecycle: create, update, delete, and
// publish-state transitions, coupled to taxonomy resolution.
package posts

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"inkpress/internal/models"
	"inkpress/internal/store"
	"inkpress/internal/taxonomy"
)

// Actions accepted by Create. "draft" deliberately maps to the private
// status: the post is saved hidden but ready, while the draft status is
// reserved for edits awaiting re-publish.
const (
	ActionDraft  = "draft"
	ActionPublic = "public"
)

// TaxonomyRef is one dimension of a post's classification as submitted by
// the editor form: either an existing id or a name to create.
type TaxonomyRef struct {
	Mode    taxonomy.Mode
	ID      int
	NewName string
}

// CreateParams carries the editor form fields for a new post.
type CreateParams struct {
	Title    string
	Content  string
	Action   string
	Category TaxonomyRef
	Topic    TaxonomyRef
	Group    TaxonomyRef
}

// UpdateParams carries the editor form fields for an existing post.
type UpdateParams struct {
	Title    string
	Content  string
	Category TaxonomyRef
	Topic    TaxonomyRef
	Group    TaxonomyRef
}

// Manager implements post create/update/delete and status transitions.
type Manager struct {
	posts    *store.PostStore
	taxonomy *store.TaxonomyStore
	resolver *taxonomy.Resolver
}

// NewManager creates a Manager over the given stores.
func NewManager(posts *store.PostStore, taxonomyStore *store.TaxonomyStore) *Manager {
	return &Manager{
		posts:    posts,
		taxonomy: taxonomyStore,
		resolver: taxonomy.NewResolver(taxonomyStore),
	}
}

// nextPostID returns max(existing ids, 0) + 1.
func nextPostID(posts []models.Post) int {
	max := 0
	for _, p := range posts {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// Create resolves the three taxonomy dimensions in order (each resolved id
// feeds the next level's parent), then appends and persists the new post.
func (m *Manager) Create(p CreateParams) (models.Post, error) {
	var status models.Status
	switch p.Action {
	case ActionDraft:
		status = models.StatusPrivate
	case ActionPublic:
		status = models.StatusPublic
	default:
		return models.Post{}, fmt.Errorf("action %q: %w", p.Action, models.ErrInvalidAction)
	}

	categoryID, err := m.resolver.ResolveCategory(p.Category.Mode, p.Category.ID, p.Category.NewName)
	if err != nil {
		return models.Post{}, err
	}

	// A just-created category cannot own any existing topic, so a new
	// category forces the topic into "new" mode as well.
	topicMode := p.Topic.Mode
	if p.Category.Mode == taxonomy.ModeNew {
		topicMode = taxonomy.ModeNew
	}

	topicID, err := m.resolver.ResolveTopic(topicMode, p.Topic.ID, p.Topic.NewName, categoryID)
	if err != nil {
		return models.Post{}, err
	}

	groupID, err := m.resolver.ResolveGroup(p.Group.Mode, p.Group.ID, p.Group.NewName, topicID)
	if err != nil {
		return models.Post{}, err
	}

	all := m.posts.Load(false)
	post := models.Post{
		ID:         nextPostID(all),
		Title:      strings.TrimSpace(p.Title),
		Content:    p.Content,
		CategoryID: categoryID,
		TopicID:    topicID,
		GroupID:    groupID,
		Status:     status,
		CreatedAt:  time.Now().Format(models.CreatedAtLayout),
	}

	all = append(all, post)
	if err := m.posts.Save(all); err != nil {
		return models.Post{}, err
	}

	slog.Info("post created", "id", post.ID, "status", int(post.Status))
	return post, nil
}

// Update overwrites the post's fields, resolving taxonomy references
// against a single in-memory copy of the document: new entities minted for
// earlier dimensions are visible to later ones, and nothing is persisted
// until all three resolved. Any validation failure therefore leaves both
// stores untouched. The post always drops back to draft for re-publish.
func (m *Manager) Update(postID int, p UpdateParams) (models.Post, error) {
	all := m.posts.Load(false)
	doc := m.taxonomy.Load()

	idx := -1
	for i := range all {
		if all[i].ID == postID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Post{}, fmt.Errorf("post %d: %w", postID, models.ErrNotFound)
	}

	var categoryID int
	if p.Category.Mode == taxonomy.ModeNew {
		name := strings.TrimSpace(p.Category.NewName)
		if name == "" {
			return models.Post{}, fmt.Errorf("category: %w", models.ErrEmptyName)
		}
		id, err := taxonomy.AddCategory(&doc, name)
		if err != nil {
			return models.Post{}, err
		}
		categoryID = id
	} else {
		if doc.FindCategory(p.Category.ID) == nil {
			return models.Post{}, fmt.Errorf("category %d: %w", p.Category.ID, models.ErrNotFound)
		}
		categoryID = p.Category.ID
	}

	var topicID int
	if p.Topic.Mode == taxonomy.ModeNew {
		name := strings.TrimSpace(p.Topic.NewName)
		if name == "" {
			return models.Post{}, fmt.Errorf("topic: %w", models.ErrEmptyName)
		}
		id, err := taxonomy.AddTopic(&doc, name, categoryID)
		if err != nil {
			return models.Post{}, err
		}
		topicID = id
	} else {
		if doc.FindTopic(p.Topic.ID) == nil {
			return models.Post{}, fmt.Errorf("topic %d: %w", p.Topic.ID, models.ErrNotFound)
		}
		topicID = p.Topic.ID
	}

	var groupID int
	if p.Group.Mode == taxonomy.ModeNew {
		name := strings.TrimSpace(p.Group.NewName)
		if name == "" {
			return models.Post{}, fmt.Errorf("group: %w", models.ErrEmptyName)
		}
		id, err := taxonomy.AddGroup(&doc, name, topicID)
		if err != nil {
			return models.Post{}, err
		}
		groupID = id
	} else {
		if doc.FindGroup(p.Group.ID) == nil {
			return models.Post{}, fmt.Errorf("group %d: %w", p.Group.ID, models.ErrNotFound)
		}
		groupID = p.Group.ID
	}

	post := &all[idx]
	post.Title = strings.TrimSpace(p.Title)
	post.Content = p.Content
	post.CategoryID = categoryID
	post.TopicID = topicID
	post.GroupID = groupID
	post.Status = models.StatusDraft

	if err := m.posts.Save(all); err != nil {
		return models.Post{}, err
	}
	if err := m.taxonomy.Save(doc); err != nil {
		return models.Post{}, err
	}

	slog.Info("post updated", "id", postID)
	return *post, nil
}

// Delete removes the post with the given id. A missing id is a silent
// no-op; the collection is rewritten either way.
func (m *Manager) Delete(postID int) error {
	all := m.posts.Load(false)

	kept := all[:0]
	for _, p := range all {
		if p.ID != postID {
			kept = append(kept, p)
		}
	}
	return m.posts.Save(kept)
}

// SetStatus flips a post between public and private. It reports success
// without writing when the post is already in the target state, and
// failure when the post is a draft, does not exist, or the target is not a
// recognized state. Drafts must go through the edit/re-publish flow.
func (m *Manager) SetStatus(postID int, target string) bool {
	var want models.Status
	switch target {
	case "public":
		want = models.StatusPublic
	case "private":
		want = models.StatusPrivate
	default:
		return false
	}

	all := m.posts.Load(false)
	for i := range all {
		if all[i].ID != postID {
			continue
		}
		if all[i].Status == models.StatusDraft {
			return false
		}
		if all[i].Status == want {
			return true
		}

		all[i].Status = want
		if err := m.posts.Save(all); err != nil {
			slog.Error("status change not persisted", "id", postID, "error", err)
			return false
		}
		return true
	}
	return false
}
