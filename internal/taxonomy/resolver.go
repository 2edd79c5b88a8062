// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy keeps the category → topic → group hierarchy consistent:
// the Resolver turns "use existing id" / "create new" requests into concrete
// ids during post saves, and the Manager handles explicit CRUD with in-use
// guards and cascade deletes. Both share the same uniqueness and
// id-assignment rules.
package taxonomy

import (
	"fmt"

	"inkpress/internal/models"
	"inkpress/internal/store"
)

// Mode selects between reusing an existing taxonomy entity and creating a
// new one.
type Mode string

const (
	ModeExisting Mode = "existing"
	ModeNew      Mode = "new"
)

// Resolver resolves taxonomy references during post creation. Each
// successful "new" resolution is one full read-modify-write of the taxonomy
// store, so sequential resolutions see each other's committed state.
type Resolver struct {
	taxonomy *store.TaxonomyStore
}

// NewResolver creates a Resolver over the given taxonomy store.
func NewResolver(taxonomy *store.TaxonomyStore) *Resolver {
	return &Resolver{taxonomy: taxonomy}
}

// ResolveCategory returns the id of an existing category or creates a new
// one named newName. Existing ids are validated against the document.
func (r *Resolver) ResolveCategory(mode Mode, existingID int, newName string) (int, error) {
	doc := r.taxonomy.Load()

	if mode != ModeNew {
		if doc.FindCategory(existingID) == nil {
			return 0, fmt.Errorf("category %d: %w", existingID, models.ErrNotFound)
		}
		return existingID, nil
	}

	id, err := AddCategory(&doc, newName)
	if err != nil {
		return 0, err
	}
	if err := r.taxonomy.Save(doc); err != nil {
		return 0, err
	}
	return id, nil
}

// ResolveTopic returns the id of an existing topic or creates a new one
// under categoryID.
func (r *Resolver) ResolveTopic(mode Mode, existingID int, newName string, categoryID int) (int, error) {
	doc := r.taxonomy.Load()

	if mode != ModeNew {
		if doc.FindTopic(existingID) == nil {
			return 0, fmt.Errorf("topic %d: %w", existingID, models.ErrNotFound)
		}
		return existingID, nil
	}

	id, err := AddTopic(&doc, newName, categoryID)
	if err != nil {
		return 0, err
	}
	if err := r.taxonomy.Save(doc); err != nil {
		return 0, err
	}
	return id, nil
}

// ResolveGroup returns the id of an existing group or creates a new one
// under topicID.
func (r *Resolver) ResolveGroup(mode Mode, existingID int, newName string, topicID int) (int, error) {
	doc := r.taxonomy.Load()

	if mode != ModeNew {
		if doc.FindGroup(existingID) == nil {
			return 0, fmt.Errorf("group %d: %w", existingID, models.ErrNotFound)
		}
		return existingID, nil
	}

	id, err := AddGroup(&doc, newName, topicID)
	if err != nil {
		return 0, err
	}
	if err := r.taxonomy.Save(doc); err != nil {
		return 0, err
	}
	return id, nil
}
