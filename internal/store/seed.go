package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"inkpress/internal/models"
)

// Seed writes a small sample dataset when neither data file exists yet.
// It runs only in development mode and is a no-op once any data is present,
// so it never clobbers a real installation.
func Seed(dataDir string, posts *PostStore, taxonomy *TaxonomyStore) error {
	if exists(filepath.Join(dataDir, PostsFile)) || exists(filepath.Join(dataDir, TaxonomyFile)) {
		slog.Info("data files already present, skipping seed")
		return nil
	}

	doc := models.Taxonomy{
		Categories: []models.Category{
			{ID: 1, Name: "Tech"},
			{ID: 2, Name: "Life"},
		},
		Topics: []models.Topic{
			{ID: 1, Name: "Go", CategoryID: 1},
			{ID: 2, Name: "Databases", CategoryID: 1},
		},
		Groups: []models.Group{
			{ID: 1, Name: "Tutorials", TopicID: 1},
		},
	}
	if err := taxonomy.Save(doc); err != nil {
		return fmt.Errorf("seed taxonomy: %w", err)
	}

	now := time.Now().Format(models.CreatedAtLayout)
	sample := []models.Post{
		{
			ID:         1,
			Title:      "Hello from inkpress",
			Content:    "Welcome to your new blog. This sample post is **markdown**.\n\nEdit or delete it from the admin panel.",
			CategoryID: 1,
			TopicID:    1,
			GroupID:    1,
			Status:     models.StatusPublic,
			CreatedAt:  now,
		},
		{
			ID:         2,
			Title:      "A draft to finish later",
			Content:    "Drafts are only visible in the admin panel.",
			CategoryID: 2,
			TopicID:    2,
			GroupID:    1,
			Status:     models.StatusDraft,
			CreatedAt:  now,
		},
	}
	if err := posts.Save(sample); err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}

	slog.Info("seeded sample data", "dir", dataDir, "posts", len(sample))
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
