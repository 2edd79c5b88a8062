// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"inkpress/internal/models"
)

// TaxonomyFile is the file name of the taxonomy document inside the data directory.
const TaxonomyFile = "categories.json"

// TaxonomyStore reads and writes the category/topic/group document.
type TaxonomyStore struct {
	mu   sync.Mutex
	path string
}

// NewTaxonomyStore creates a TaxonomyStore backed by categories.json under dataDir.
func NewTaxonomyStore(dataDir string) *TaxonomyStore {
	return &TaxonomyStore{path: filepath.Join(dataDir, TaxonomyFile)}
}

// Load reads the taxonomy document from disk. A missing or corrupt file
// yields an empty document with non-nil lists, never an error.
func (s *TaxonomyStore) Load() models.Taxonomy {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("taxonomy store unreadable, treating as empty", "path", s.path, "error", err)
		}
		return models.EmptyTaxonomy()
	}

	var doc models.Taxonomy
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.Warn("taxonomy store corrupt, treating as empty", "path", s.path, "error", err)
		return models.EmptyTaxonomy()
	}

	// A hand-edited file may omit one of the keys; keep the lists non-nil
	// so every consumer can append without checking.
	if doc.Categories == nil {
		doc.Categories = []models.Category{}
	}
	if doc.Topics == nil {
		doc.Topics = []models.Topic{}
	}
	if doc.Groups == nil {
		doc.Groups = []models.Group{}
	}

	return doc
}

// Save overwrites the whole taxonomy document on disk.
func (s *TaxonomyStore) Save(doc models.Taxonomy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(s.path, doc); err != nil {
		return fmt.Errorf("save taxonomy: %w", err)
	}
	return nil
}
