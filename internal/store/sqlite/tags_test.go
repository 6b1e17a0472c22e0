package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/store"
)

// insertTestTag creates a tag row for the user and returns it.
func insertTestTag(t *testing.T, s *Store, userID int64, name string) *domain.Tag {
	t.Helper()
	now := time.Now()
	tag := &domain.Tag{UserID: userID, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("CreateTag(%s): %v", name, err)
	}
	return tag
}

func TestCreateAndGetTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "tags@example.com")
	tag := insertTestTag(t, s, userID, "Vegan")
	if tag.ID == 0 {
		t.Fatal("CreateTag did not assign an ID")
	}

	got, err := s.GetTag(ctx, tag.ID, userID)
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "Vegan" {
		t.Errorf("Name: got %q, want %q", got.Name, "Vegan")
	}
	if got.UserID != userID {
		t.Errorf("UserID: got %d, want %d", got.UserID, userID)
	}
}

func TestGetTag_OtherOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ownerID := insertTestUser(t, s, "owner@example.com")
	otherID := insertTestUser(t, s, "other@example.com")
	tag := insertTestTag(t, s, ownerID, "Dessert")

	// Another user's scope sees the row as missing, not forbidden.
	_, err := s.GetTag(ctx, tag.ID, otherID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound across owners, got %v", err)
	}
}

func TestListTags_OrderAndScope(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "list@example.com")
	otherID := insertTestUser(t, s, "noise@example.com")

	insertTestTag(t, s, userID, "Breakfast")
	insertTestTag(t, s, userID, "Vegan")
	insertTestTag(t, s, userID, "Dessert")
	insertTestTag(t, s, otherID, "Zesty")

	tags, err := s.ListTags(ctx, userID, false)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(tags))
	}
	want := []string{"Vegan", "Dessert", "Breakfast"}
	for i, tag := range tags {
		if tag.Name != want[i] {
			t.Errorf("tags[%d]: got %q, want %q", i, tag.Name, want[i])
		}
	}
}

func TestListTags_Empty(t *testing.T) {
	s := newTestStore(t)

	userID := insertTestUser(t, s, "empty@example.com")
	tags, err := s.ListTags(context.Background(), userID, false)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if tags == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(tags) != 0 {
		t.Errorf("expected no tags, got %d", len(tags))
	}
}

func TestListTags_AssignedOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "assigned@example.com")
	assigned := insertTestTag(t, s, userID, "Dinner")
	insertTestTag(t, s, userID, "Unused")

	// Reference the assigned tag from two recipes; the listing must still
	// return it once.
	for _, title := range []string{"Curry", "Stew"} {
		r := makeTestRecipe(userID, title)
		r.Tags = []domain.Tag{*assigned}
		if err := s.CreateRecipe(ctx, r); err != nil {
			t.Fatalf("CreateRecipe(%s): %v", title, err)
		}
	}

	tags, err := s.ListTags(ctx, userID, true)
	if err != nil {
		t.Fatalf("ListTags assignedOnly: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("expected 1 assigned tag, got %d", len(tags))
	}
	if tags[0].ID != assigned.ID {
		t.Errorf("got tag %d, want %d", tags[0].ID, assigned.ID)
	}
}

func TestUpdateTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "rename@example.com")
	tag := insertTestTag(t, s, userID, "Old Name")

	tag.Name = "New Name"
	tag.Touch()
	if err := s.UpdateTag(ctx, tag); err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}

	got, err := s.GetTag(ctx, tag.ID, userID)
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "New Name" {
		t.Errorf("Name: got %q, want %q", got.Name, "New Name")
	}
}

func TestUpdateTag_OtherOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ownerID := insertTestUser(t, s, "owner2@example.com")
	otherID := insertTestUser(t, s, "other2@example.com")
	tag := insertTestTag(t, s, ownerID, "Protected")

	hijacked := *tag
	hijacked.UserID = otherID
	hijacked.Name = "Hacked"
	err := s.UpdateTag(ctx, &hijacked)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound across owners, got %v", err)
	}

	got, err := s.GetTag(ctx, tag.ID, ownerID)
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "Protected" {
		t.Errorf("tag was modified across owner scope: %q", got.Name)
	}
}

func TestGetTagsByIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "byids@example.com")
	otherID := insertTestUser(t, s, "byids-other@example.com")

	a := insertTestTag(t, s, userID, "A")
	b := insertTestTag(t, s, userID, "B")
	foreign := insertTestTag(t, s, otherID, "Foreign")

	tags, err := s.GetTagsByIDs(ctx, userID, []int64{a.ID, b.ID, foreign.ID, 9999})
	if err != nil {
		t.Fatalf("GetTagsByIDs: %v", err)
	}
	// Foreign and missing IDs are silently absent.
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}

	none, err := s.GetTagsByIDs(ctx, userID, nil)
	if err != nil {
		t.Fatalf("GetTagsByIDs(nil): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected empty result for no IDs, got %d", len(none))
	}
}
