package taxonomy

import (
	"errors"
	"testing"

	"inkpress/internal/models"
)

func seedManager(t *testing.T) (*Manager, func() models.Taxonomy) {
	t.Helper()
	ts, ps := testStores(t)
	err := ts.Save(models.Taxonomy{
		Categories: []models.Category{{ID: 1, Name: "Tech"}, {ID: 2, Name: "Life"}},
		Topics: []models.Topic{
			{ID: 1, Name: "Go", CategoryID: 1},
			{ID: 2, Name: "Rust", CategoryID: 1},
			{ID: 3, Name: "Cooking", CategoryID: 2},
		},
		Groups: []models.Group{
			{ID: 1, Name: "Basics", TopicID: 1},
			{ID: 2, Name: "Advanced", TopicID: 2},
			{ID: 3, Name: "Recipes", TopicID: 3},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewManager(ts, ps), ts.Load
}

func TestCreateCategoryTrimsName(t *testing.T) {
	m, load := seedManager(t)

	cat, err := m.CreateCategory("  Science  ")
	if err != nil {
		t.Fatalf("CreateCategory() error: %v", err)
	}
	if cat.Name != "Science" {
		t.Errorf("name = %q, want trimmed", cat.Name)
	}
	if cat.ID != 3 {
		t.Errorf("id = %d, want 3", cat.ID)
	}
	doc := load()
	if doc.FindCategory(3) == nil {
		t.Error("category not persisted")
	}
}

func TestCreateCategoryEmptyName(t *testing.T) {
	m, _ := seedManager(t)

	if _, err := m.CreateCategory("   "); !errors.Is(err, models.ErrEmptyName) {
		t.Errorf("error = %v, want ErrEmptyName", err)
	}
}

func TestCreateTopicUnknownParent(t *testing.T) {
	m, _ := seedManager(t)

	if _, err := m.CreateTopic(99, "Swimming"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRenameCategory(t *testing.T) {
	m, load := seedManager(t)

	if err := m.RenameCategory(1, "Technology"); err != nil {
		t.Fatalf("RenameCategory() error: %v", err)
	}
	doc := load()
	if got := doc.FindCategory(1).Name; got != "Technology" {
		t.Errorf("name = %q, want Technology", got)
	}
}

func TestRenameCategoryToOwnNameIsAllowed(t *testing.T) {
	m, _ := seedManager(t)

	// Changing only the capitalization of the same record must not count
	// as a duplicate.
	if err := m.RenameCategory(1, "TECH"); err != nil {
		t.Errorf("RenameCategory() error: %v", err)
	}
}

func TestRenameCategoryDuplicate(t *testing.T) {
	m, _ := seedManager(t)

	if err := m.RenameCategory(1, "life"); !errors.Is(err, models.ErrDuplicateName) {
		t.Errorf("error = %v, want ErrDuplicateName", err)
	}
}

func TestRenameTopicUnknownID(t *testing.T) {
	m, _ := seedManager(t)

	if err := m.RenameTopic(42, "Anything"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	m, load := seedManager(t)

	if err := m.DeleteCategory(1); err != nil {
		t.Fatalf("DeleteCategory() error: %v", err)
	}

	doc := load()
	if doc.FindCategory(1) != nil {
		t.Error("category 1 still present")
	}
	// Topics 1 and 2 belonged to category 1, and their groups go with them.
	if doc.FindTopic(1) != nil || doc.FindTopic(2) != nil {
		t.Error("topics of deleted category still present")
	}
	if doc.FindGroup(1) != nil || doc.FindGroup(2) != nil {
		t.Error("groups of deleted topics still present")
	}
	// The unrelated branch survives.
	if doc.FindTopic(3) == nil || doc.FindGroup(3) == nil {
		t.Error("unrelated topic or group was removed")
	}
}

func TestDeleteCategoryInUse(t *testing.T) {
	ts, ps := testStores(t)
	if err := ts.Save(models.Taxonomy{
		Categories: []models.Category{{ID: 1, Name: "Tech"}},
		Topics:     []models.Topic{{ID: 1, Name: "Go", CategoryID: 1}},
		Groups:     []models.Group{{ID: 1, Name: "Basics", TopicID: 1}},
	}); err != nil {
		t.Fatal(err)
	}
	// A draft post referencing the category still blocks deletion.
	if err := ps.Save([]models.Post{{ID: 1, Title: "P", CategoryID: 1, TopicID: 1, GroupID: 1, Status: models.StatusDraft, CreatedAt: "2026-01-01 00:00"}}); err != nil {
		t.Fatal(err)
	}

	m := NewManager(ts, ps)
	if err := m.DeleteCategory(1); !errors.Is(err, models.ErrInUse) {
		t.Errorf("error = %v, want ErrInUse", err)
	}
	doc := ts.Load()
	if doc.FindCategory(1) == nil {
		t.Error("category was deleted despite being in use")
	}
}

func TestDeleteTopicCascadesGroups(t *testing.T) {
	m, load := seedManager(t)

	if err := m.DeleteTopic(1); err != nil {
		t.Fatalf("DeleteTopic() error: %v", err)
	}

	doc := load()
	if doc.FindTopic(1) != nil || doc.FindGroup(1) != nil {
		t.Error("topic 1 or its group still present")
	}
	if doc.FindGroup(2) == nil {
		t.Error("group of another topic was removed")
	}
}

func TestDeleteGroup(t *testing.T) {
	m, load := seedManager(t)

	if err := m.DeleteGroup(3); err != nil {
		t.Fatalf("DeleteGroup() error: %v", err)
	}
	doc := load()
	if doc.FindGroup(3) != nil {
		t.Error("group 3 still present")
	}
}

func TestTopicsByCategory(t *testing.T) {
	m, _ := seedManager(t)

	topics := m.TopicsByCategory(1)
	if len(topics) != 2 {
		t.Fatalf("TopicsByCategory(1) = %d topics, want 2", len(topics))
	}
	for _, topic := range topics {
		if topic.CategoryID != 1 {
			t.Errorf("topic %q has category %d", topic.Name, topic.CategoryID)
		}
	}
}

func TestGroupsByTopic(t *testing.T) {
	m, _ := seedManager(t)

	groups := m.GroupsByTopic(3)
	if len(groups) != 1 || groups[0].Name != "Recipes" {
		t.Errorf("GroupsByTopic(3) = %+v", groups)
	}
}
