// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category is the top level of the three-level taxonomy. Names are unique
// case-insensitively across the category list.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Topic belongs to exactly one Category. Names are unique across the whole
// topic list, not per category.
type Topic struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CategoryID int    `json:"category_id"`
}

// Group belongs to exactly one Topic. Names are unique globally.
type Group struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	TopicID int    `json:"topic_id"`
}

// Taxonomy is the single document holding all three linked lists. It is
// always persisted and loaded as a whole.
type Taxonomy struct {
	Categories []Category `json:"categories"`
	Topics     []Topic    `json:"topics"`
	Groups     []Group    `json:"groups"`
}

// EmptyTaxonomy returns a document with non-nil empty lists, so the JSON
// encoding always contains the three array keys.
func EmptyTaxonomy() Taxonomy {
	return Taxonomy{
		Categories: []Category{},
		Topics:     []Topic{},
		Groups:     []Group{},
	}
}

// NextCategoryID returns max(existing ids, 0) + 1.
func (t *Taxonomy) NextCategoryID() int {
	max := 0
	for _, c := range t.Categories {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

// NextTopicID returns max(existing ids, 0) + 1.
func (t *Taxonomy) NextTopicID() int {
	max := 0
	for _, tp := range t.Topics {
		if tp.ID > max {
			max = tp.ID
		}
	}
	return max + 1
}

// NextGroupID returns max(existing ids, 0) + 1.
func (t *Taxonomy) NextGroupID() int {
	max := 0
	for _, g := range t.Groups {
		if g.ID > max {
			max = g.ID
		}
	}
	return max + 1
}

// FindCategory returns the category with the given id, or nil.
func (t *Taxonomy) FindCategory(id int) *Category {
	for i := range t.Categories {
		if t.Categories[i].ID == id {
			return &t.Categories[i]
		}
	}
	return nil
}

// FindTopic returns the topic with the given id, or nil.
func (t *Taxonomy) FindTopic(id int) *Topic {
	for i := range t.Topics {
		if t.Topics[i].ID == id {
			return &t.Topics[i]
		}
	}
	return nil
}

// FindGroup returns the group with the given id, or nil.
func (t *Taxonomy) FindGroup(id int) *Group {
	for i := range t.Groups {
		if t.Groups[i].ID == id {
			return &t.Groups[i]
		}
	}
	return nil
}
