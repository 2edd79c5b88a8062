// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"fmt"
	"strings"

	"inkpress/internal/models"
	"inkpress/internal/store"
)

// Manager implements the explicit taxonomy management operations exposed to
// the admin panel. Deletes are guarded against posts still referencing the
// entity and cascade to dependent children.
type Manager struct {
	taxonomy *store.TaxonomyStore
	posts    *store.PostStore
}

// NewManager creates a Manager over the taxonomy and post stores. The post
// store is consulted only for in-use checks before deletion.
func NewManager(taxonomy *store.TaxonomyStore, posts *store.PostStore) *Manager {
	return &Manager{taxonomy: taxonomy, posts: posts}
}

// cleanName trims a taxonomy name and rejects blank ones.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", models.ErrEmptyName
	}
	return name, nil
}

// CreateCategory adds a new category and returns it.
func (m *Manager) CreateCategory(name string) (models.Category, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Category{}, err
	}

	doc := m.taxonomy.Load()
	id, err := AddCategory(&doc, name)
	if err != nil {
		return models.Category{}, err
	}
	if err := m.taxonomy.Save(doc); err != nil {
		return models.Category{}, err
	}
	return models.Category{ID: id, Name: name}, nil
}

// RenameCategory changes a category's name, keeping uniqueness.
func (m *Manager) RenameCategory(id int, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}

	doc := m.taxonomy.Load()
	c := doc.FindCategory(id)
	if c == nil {
		return fmt.Errorf("category %d: %w", id, models.ErrNotFound)
	}
	if err := m.checkCategoryName(&doc, name, id); err != nil {
		return err
	}

	c.Name = name
	return m.taxonomy.Save(doc)
}

// DeleteCategory removes a category together with its topics and those
// topics' groups. It refuses when any post still references the category.
func (m *Manager) DeleteCategory(id int) error {
	doc := m.taxonomy.Load()

	if doc.FindCategory(id) == nil {
		return fmt.Errorf("category %d: %w", id, models.ErrNotFound)
	}

	for _, p := range m.posts.Load(false) {
		if p.CategoryID == id {
			return fmt.Errorf("category %d: %w", id, models.ErrInUse)
		}
	}

	kept := doc.Categories[:0]
	for _, c := range doc.Categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	doc.Categories = kept

	// Cascade: drop the category's topics, remembering their ids so the
	// dependent groups go with them.
	removed := map[int]bool{}
	topics := doc.Topics[:0]
	for _, t := range doc.Topics {
		if t.CategoryID == id {
			removed[t.ID] = true
			continue
		}
		topics = append(topics, t)
	}
	doc.Topics = topics

	groups := doc.Groups[:0]
	for _, g := range doc.Groups {
		if !removed[g.TopicID] {
			groups = append(groups, g)
		}
	}
	doc.Groups = groups

	return m.taxonomy.Save(doc)
}

// CreateTopic adds a new topic under an existing category and returns it.
func (m *Manager) CreateTopic(categoryID int, name string) (models.Topic, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Topic{}, err
	}

	doc := m.taxonomy.Load()
	if doc.FindCategory(categoryID) == nil {
		return models.Topic{}, fmt.Errorf("category %d: %w", categoryID, models.ErrNotFound)
	}
	id, err := AddTopic(&doc, name, categoryID)
	if err != nil {
		return models.Topic{}, err
	}
	if err := m.taxonomy.Save(doc); err != nil {
		return models.Topic{}, err
	}
	return models.Topic{ID: id, Name: name, CategoryID: categoryID}, nil
}

// RenameTopic changes a topic's name, keeping uniqueness.
func (m *Manager) RenameTopic(id int, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}

	doc := m.taxonomy.Load()
	t := doc.FindTopic(id)
	if t == nil {
		return fmt.Errorf("topic %d: %w", id, models.ErrNotFound)
	}
	if err := m.checkTopicName(&doc, name, id); err != nil {
		return err
	}

	t.Name = name
	return m.taxonomy.Save(doc)
}

// DeleteTopic removes a topic and its groups, refusing when any post still
// references the topic.
func (m *Manager) DeleteTopic(id int) error {
	doc := m.taxonomy.Load()

	if doc.FindTopic(id) == nil {
		return fmt.Errorf("topic %d: %w", id, models.ErrNotFound)
	}

	for _, p := range m.posts.Load(false) {
		if p.TopicID == id {
			return fmt.Errorf("topic %d: %w", id, models.ErrInUse)
		}
	}

	topics := doc.Topics[:0]
	for _, t := range doc.Topics {
		if t.ID != id {
			topics = append(topics, t)
		}
	}
	doc.Topics = topics

	groups := doc.Groups[:0]
	for _, g := range doc.Groups {
		if g.TopicID != id {
			groups = append(groups, g)
		}
	}
	doc.Groups = groups

	return m.taxonomy.Save(doc)
}

// CreateGroup adds a new group under an existing topic and returns it.
func (m *Manager) CreateGroup(topicID int, name string) (models.Group, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Group{}, err
	}

	doc := m.taxonomy.Load()
	if doc.FindTopic(topicID) == nil {
		return models.Group{}, fmt.Errorf("topic %d: %w", topicID, models.ErrNotFound)
	}
	id, err := AddGroup(&doc, name, topicID)
	if err != nil {
		return models.Group{}, err
	}
	if err := m.taxonomy.Save(doc); err != nil {
		return models.Group{}, err
	}
	return models.Group{ID: id, Name: name, TopicID: topicID}, nil
}

// RenameGroup changes a group's name, keeping uniqueness.
func (m *Manager) RenameGroup(id int, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}

	doc := m.taxonomy.Load()
	g := doc.FindGroup(id)
	if g == nil {
		return fmt.Errorf("group %d: %w", id, models.ErrNotFound)
	}
	if err := m.checkGroupName(&doc, name, id); err != nil {
		return err
	}

	g.Name = name
	return m.taxonomy.Save(doc)
}

// DeleteGroup removes a group, refusing when any post still references it.
func (m *Manager) DeleteGroup(id int) error {
	doc := m.taxonomy.Load()

	if doc.FindGroup(id) == nil {
		return fmt.Errorf("group %d: %w", id, models.ErrNotFound)
	}

	for _, p := range m.posts.Load(false) {
		if p.GroupID == id {
			return fmt.Errorf("group %d: %w", id, models.ErrInUse)
		}
	}

	groups := doc.Groups[:0]
	for _, g := range doc.Groups {
		if g.ID != id {
			groups = append(groups, g)
		}
	}
	doc.Groups = groups

	return m.taxonomy.Save(doc)
}

// TopicsByCategory returns the topics belonging to the given category.
func (m *Manager) TopicsByCategory(categoryID int) []models.Topic {
	doc := m.taxonomy.Load()

	out := []models.Topic{}
	for _, t := range doc.Topics {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	return out
}

// GroupsByTopic returns the groups belonging to the given topic.
func (m *Manager) GroupsByTopic(topicID int) []models.Group {
	doc := m.taxonomy.Load()

	out := []models.Group{}
	for _, g := range doc.Groups {
		if g.TopicID == topicID {
			out = append(out, g)
		}
	}
	return out
}

// checkCategoryName enforces case-insensitive uniqueness of a category
// name, ignoring the entity with excludeID (0 when creating).
func (m *Manager) checkCategoryName(doc *models.Taxonomy, name string, excludeID int) error {
	want := canonicalName(name)
	for _, c := range doc.Categories {
		if c.ID != excludeID && canonicalName(c.Name) == want {
			return fmt.Errorf("category %q: %w", name, models.ErrDuplicateName)
		}
	}
	return nil
}

func (m *Manager) checkTopicName(doc *models.Taxonomy, name string, excludeID int) error {
	want := canonicalName(name)
	for _, t := range doc.Topics {
		if t.ID != excludeID && canonicalName(t.Name) == want {
			return fmt.Errorf("topic %q: %w", name, models.ErrDuplicateName)
		}
	}
	return nil
}

func (m *Manager) checkGroupName(doc *models.Taxonomy, name string, excludeID int) error {
	want := canonicalName(name)
	for _, g := range doc.Groups {
		if g.ID != excludeID && canonicalName(g.Name) == want {
			return fmt.Errorf("group %q: %w", name, models.ErrDuplicateName)
		}
	}
	return nil
}
