package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkpress/internal/models"
)

func samplePosts() []models.Post {
	return []models.Post{
		{ID: 1, Title: "First", Content: "body one", CategoryID: 1, TopicID: 1, GroupID: 1, Status: models.StatusPublic, CreatedAt: "2026-01-10 09:00"},
		{ID: 2, Title: "Second", Content: "body two", CategoryID: 1, TopicID: 1, GroupID: 1, Status: models.StatusDraft, CreatedAt: "2026-01-11 09:00"},
		{ID: 3, Title: "Third", Content: "body three", CategoryID: 2, TopicID: 2, GroupID: 2, Status: models.StatusPrivate, CreatedAt: "2026-01-12 09:00"},
	}
}

func TestPostStoreRoundtrip(t *testing.T) {
	s := NewPostStore(t.TempDir())

	if err := s.Save(samplePosts()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got := s.Load(false)
	if len(got) != 3 {
		t.Fatalf("Load() returned %d posts, want 3", len(got))
	}
	if got[0].Title != "First" || got[0].Status != models.StatusPublic {
		t.Errorf("first post = %+v", got[0])
	}
	if got[1].Status != models.StatusDraft {
		t.Errorf("second post status = %v, want draft", got[1].Status)
	}
}

func TestPostStoreLoadPublicOnly(t *testing.T) {
	s := NewPostStore(t.TempDir())
	if err := s.Save(samplePosts()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got := s.Load(true)
	if len(got) != 1 {
		t.Fatalf("Load(true) returned %d posts, want 1", len(got))
	}
	if got[0].ID != 1 {
		t.Errorf("public post id = %d, want 1", got[0].ID)
	}
}

func TestPostStoreLoadMissingFile(t *testing.T) {
	s := NewPostStore(t.TempDir())

	got := s.Load(false)
	if got == nil {
		t.Fatal("Load() returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("Load() returned %d posts, want 0", len(got))
	}
}

func TestPostStoreLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, PostsFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewPostStore(dir)
	got := s.Load(false)
	if len(got) != 0 {
		t.Errorf("Load() on corrupt file returned %d posts, want 0", len(got))
	}
}

func TestPostStoreStatusPersistsAsNumber(t *testing.T) {
	dir := t.TempDir()
	s := NewPostStore(dir)
	if err := s.Save([]models.Post{{ID: 1, Title: "T", Status: models.StatusDraft, CreatedAt: "2026-01-01 00:00"}}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, PostsFile))
	if err != nil {
		t.Fatal(err)
	}
	if want := `"status": 2`; !strings.Contains(string(raw), want) {
		t.Errorf("posts.json missing %q:\n%s", want, raw)
	}
}
