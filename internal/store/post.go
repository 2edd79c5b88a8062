// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists the two JSON documents backing the CMS: the post
// collection and the taxonomy document. Every mutation is a full-document
// rewrite; concurrent writers are last-write-wins. A mutex per store
// serializes file access within the process.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"inkpress/internal/models"
)

// PostsFile is the file name of the post collection inside the data directory.
const PostsFile = "posts.json"

// PostStore reads and writes the post collection.
type PostStore struct {
	mu   sync.Mutex
	path string
}

// NewPostStore creates a PostStore backed by posts.json under dataDir.
func NewPostStore(dataDir string) *PostStore {
	return &PostStore{path: filepath.Join(dataDir, PostsFile)}
}

// Load reads all posts from disk. When publicOnly is true, only posts with
// public status are returned. A missing or corrupt file yields an empty
// collection: the service stays available, the problem is only logged.
func (s *PostStore) Load(publicOnly bool) []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("post store unreadable, treating as empty", "path", s.path, "error", err)
		}
		return []models.Post{}
	}

	var posts []models.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		slog.Warn("post store corrupt, treating as empty", "path", s.path, "error", err)
		return []models.Post{}
	}
	if posts == nil {
		posts = []models.Post{}
	}

	if publicOnly {
		public := posts[:0]
		for _, p := range posts {
			if p.IsPublic() {
				public = append(public, p)
			}
		}
		posts = public
	}

	return posts
}

// Save overwrites the whole post collection on disk.
func (s *PostStore) Save(posts []models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if posts == nil {
		posts = []models.Post{}
	}
	if err := writeJSON(s.path, posts); err != nil {
		return fmt.Errorf("save posts: %w", err)
	}
	return nil
}

// writeJSON marshals v as indented JSON without HTML escaping (titles and
// content keep their literal characters on disk) and writes it in full.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
