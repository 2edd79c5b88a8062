// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"fmt"
	"strings"

	"inkpress/internal/models"
)

// canonicalName is the single canonicalization used for case-insensitive
// name comparison everywhere names are checked for uniqueness.
func canonicalName(name string) string {
	return strings.ToLower(name)
}

// AddCategory appends a new category to the in-memory document, enforcing
// case-insensitive uniqueness, and returns the minted id (max existing + 1).
// The caller decides when the document is persisted, so post-update flows
// can stage several additions and save once.
func AddCategory(doc *models.Taxonomy, name string) (int, error) {
	want := canonicalName(name)
	for _, c := range doc.Categories {
		if canonicalName(c.Name) == want {
			return 0, fmt.Errorf("category %q: %w", name, models.ErrDuplicateName)
		}
	}

	id := doc.NextCategoryID()
	doc.Categories = append(doc.Categories, models.Category{ID: id, Name: name})
	return id, nil
}

// AddTopic appends a new topic under categoryID. Topic names are unique
// across the whole list, not per category.
func AddTopic(doc *models.Taxonomy, name string, categoryID int) (int, error) {
	want := canonicalName(name)
	for _, t := range doc.Topics {
		if canonicalName(t.Name) == want {
			return 0, fmt.Errorf("topic %q: %w", name, models.ErrDuplicateName)
		}
	}

	id := doc.NextTopicID()
	doc.Topics = append(doc.Topics, models.Topic{ID: id, Name: name, CategoryID: categoryID})
	return id, nil
}

// AddGroup appends a new group under topicID.
func AddGroup(doc *models.Taxonomy, name string, topicID int) (int, error) {
	want := canonicalName(name)
	for _, g := range doc.Groups {
		if canonicalName(g.Name) == want {
			return 0, fmt.Errorf("group %q: %w", name, models.ErrDuplicateName)
		}
	}

	id := doc.NextGroupID()
	doc.Groups = append(doc.Groups, models.Group{ID: id, Name: name, TopicID: topicID})
	return id, nil
}
