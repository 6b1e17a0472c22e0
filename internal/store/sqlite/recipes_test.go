package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/store"
)

// makeTestRecipe builds a domain.Recipe with sensible defaults. Callers attach
// tags and ingredients before passing it to CreateRecipe.
func makeTestRecipe(userID int64, title string) *domain.Recipe {
	now := time.Now()
	return &domain.Recipe{
		UserID:      userID,
		Title:       title,
		TimeMinutes: 30,
		Price:       domain.Price(525),
		Link:        "https://example.com/" + title,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func insertTestRecipe(t *testing.T, s *Store, userID int64, title string) *domain.Recipe {
	t.Helper()
	r := makeTestRecipe(userID, title)
	if err := s.CreateRecipe(context.Background(), r); err != nil {
		t.Fatalf("CreateRecipe(%s): %v", title, err)
	}
	return r
}

func TestCreateAndGetRecipe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "recipes@example.com")
	tag := insertTestTag(t, s, userID, "Dinner")
	ing := insertTestIngredient(t, s, userID, "Garlic")

	r := makeTestRecipe(userID, "Garlic Pasta")
	r.Tags = []domain.Tag{*tag}
	r.Ingredients = []domain.Ingredient{*ing}
	if err := s.CreateRecipe(ctx, r); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	if r.ID == 0 {
		t.Fatal("CreateRecipe did not assign an ID")
	}

	got, err := s.GetRecipe(ctx, r.ID, userID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got.Title != "Garlic Pasta" {
		t.Errorf("Title: got %q, want %q", got.Title, "Garlic Pasta")
	}
	if got.TimeMinutes != 30 {
		t.Errorf("TimeMinutes: got %d, want 30", got.TimeMinutes)
	}
	if got.Price != domain.Price(525) {
		t.Errorf("Price: got %v, want 5.25", got.Price)
	}
	if len(got.Tags) != 1 || got.Tags[0].ID != tag.ID {
		t.Errorf("Tags: got %+v, want tag %d", got.Tags, tag.ID)
	}
	if len(got.Ingredients) != 1 || got.Ingredients[0].ID != ing.ID {
		t.Errorf("Ingredients: got %+v, want ingredient %d", got.Ingredients, ing.ID)
	}
}

func TestGetRecipe_OtherOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ownerID := insertTestUser(t, s, "r-owner@example.com")
	otherID := insertTestUser(t, s, "r-other@example.com")
	r := insertTestRecipe(t, s, ownerID, "Secret Sauce")

	_, err := s.GetRecipe(ctx, r.ID, otherID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound across owners, got %v", err)
	}
}

func TestListRecipes_OrderAndScope(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "r-list@example.com")
	otherID := insertTestUser(t, s, "r-noise@example.com")

	first := insertTestRecipe(t, s, userID, "First")
	second := insertTestRecipe(t, s, userID, "Second")
	insertTestRecipe(t, s, otherID, "Foreign")

	recipes, err := s.ListRecipes(ctx, userID, store.RecipeFilter{})
	if err != nil {
		t.Fatalf("ListRecipes: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(recipes))
	}
	// Newest first.
	if recipes[0].ID != second.ID || recipes[1].ID != first.ID {
		t.Errorf("order: got [%d %d], want [%d %d]",
			recipes[0].ID, recipes[1].ID, second.ID, first.ID)
	}
	// Relations are always populated, empty slices rather than nil.
	if recipes[0].Tags == nil || recipes[0].Ingredients == nil {
		t.Error("expected empty relation slices, got nil")
	}
}

func TestListRecipes_Filter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "r-filter@example.com")
	vegan := insertTestTag(t, s, userID, "Vegan")
	quick := insertTestTag(t, s, userID, "Quick")
	tofu := insertTestIngredient(t, s, userID, "Tofu")

	curry := makeTestRecipe(userID, "Tofu Curry")
	curry.Tags = []domain.Tag{*vegan}
	curry.Ingredients = []domain.Ingredient{*tofu}
	if err := s.CreateRecipe(ctx, curry); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	toast := makeTestRecipe(userID, "Toast")
	toast.Tags = []domain.Tag{*quick}
	if err := s.CreateRecipe(ctx, toast); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	plain := insertTestRecipe(t, s, userID, "Plain")

	cases := []struct {
		name   string
		filter store.RecipeFilter
		want   []int64
	}{
		{"single tag", store.RecipeFilter{TagIDs: []int64{vegan.ID}}, []int64{curry.ID}},
		{"tags are OR-ed", store.RecipeFilter{TagIDs: []int64{vegan.ID, quick.ID}}, []int64{toast.ID, curry.ID}},
		{"ingredient", store.RecipeFilter{IngredientIDs: []int64{tofu.ID}}, []int64{curry.ID}},
		{"tag and ingredient are AND-ed", store.RecipeFilter{TagIDs: []int64{quick.ID}, IngredientIDs: []int64{tofu.ID}}, nil},
		{"no filter", store.RecipeFilter{}, []int64{plain.ID, toast.ID, curry.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recipes, err := s.ListRecipes(ctx, userID, tc.filter)
			if err != nil {
				t.Fatalf("ListRecipes: %v", err)
			}
			if len(recipes) != len(tc.want) {
				t.Fatalf("got %d recipes, want %d", len(recipes), len(tc.want))
			}
			for i, r := range recipes {
				if r.ID != tc.want[i] {
					t.Errorf("recipes[%d]: got %d, want %d", i, r.ID, tc.want[i])
				}
			}
		})
	}
}

func TestUpdateRecipe_ReplaceRelations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "r-update@example.com")
	old := insertTestTag(t, s, userID, "Old")
	new1 := insertTestTag(t, s, userID, "New")
	ing := insertTestIngredient(t, s, userID, "Onion")

	r := makeTestRecipe(userID, "Stew")
	r.Tags = []domain.Tag{*old}
	r.Ingredients = []domain.Ingredient{*ing}
	if err := s.CreateRecipe(ctx, r); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	// Replace tags, leave ingredients untouched.
	r.Title = "Hearty Stew"
	r.Tags = []domain.Tag{*new1}
	r.Touch()
	if err := s.UpdateRecipe(ctx, r, true, false); err != nil {
		t.Fatalf("UpdateRecipe: %v", err)
	}

	got, err := s.GetRecipe(ctx, r.ID, userID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got.Title != "Hearty Stew" {
		t.Errorf("Title: got %q", got.Title)
	}
	if len(got.Tags) != 1 || got.Tags[0].ID != new1.ID {
		t.Errorf("Tags: got %+v, want tag %d", got.Tags, new1.ID)
	}
	if len(got.Ingredients) != 1 || got.Ingredients[0].ID != ing.ID {
		t.Errorf("Ingredients were modified: %+v", got.Ingredients)
	}

	// Replacing with an empty set clears the relation.
	r.Tags = nil
	r.Ingredients = nil
	if err := s.UpdateRecipe(ctx, r, true, true); err != nil {
		t.Fatalf("UpdateRecipe clear: %v", err)
	}
	got, err = s.GetRecipe(ctx, r.ID, userID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if len(got.Tags) != 0 || len(got.Ingredients) != 0 {
		t.Errorf("relations not cleared: tags=%d ingredients=%d", len(got.Tags), len(got.Ingredients))
	}
}

func TestUpdateRecipe_OtherOwner(t *testing.T) {
	s := newTestStore(t)

	ownerID := insertTestUser(t, s, "r-owner2@example.com")
	otherID := insertTestUser(t, s, "r-other2@example.com")
	r := insertTestRecipe(t, s, ownerID, "Original")

	hijacked := *r
	hijacked.UserID = otherID
	hijacked.Title = "Hacked"
	err := s.UpdateRecipe(context.Background(), &hijacked, false, false)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound across owners, got %v", err)
	}
}

func TestDeleteRecipe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "r-delete@example.com")
	tag := insertTestTag(t, s, userID, "Keep Me")

	r := makeTestRecipe(userID, "Doomed")
	r.Tags = []domain.Tag{*tag}
	if err := s.CreateRecipe(ctx, r); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	if err := s.DeleteRecipe(ctx, r.ID, userID); err != nil {
		t.Fatalf("DeleteRecipe: %v", err)
	}
	_, err := s.GetRecipe(ctx, r.ID, userID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Join rows cascade but the tag itself survives.
	var joins int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM recipe_tags WHERE recipe_id = ?", r.ID).Scan(&joins); err != nil {
		t.Fatalf("count joins: %v", err)
	}
	if joins != 0 {
		t.Errorf("expected 0 join rows, got %d", joins)
	}
	if _, err := s.GetTag(ctx, tag.ID, userID); err != nil {
		t.Errorf("tag deleted with recipe: %v", err)
	}
}

func TestDeleteRecipe_OtherOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ownerID := insertTestUser(t, s, "r-owner3@example.com")
	otherID := insertTestUser(t, s, "r-other3@example.com")
	r := insertTestRecipe(t, s, ownerID, "Safe")

	err := s.DeleteRecipe(ctx, r.ID, otherID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound across owners, got %v", err)
	}
	if _, err := s.GetRecipe(ctx, r.ID, ownerID); err != nil {
		t.Errorf("recipe deleted across owner scope: %v", err)
	}
}

func TestSetRecipeImage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "r-image@example.com")
	r := insertTestRecipe(t, s, userID, "Photogenic")

	if err := s.SetRecipeImage(ctx, r.ID, userID, "recipe-abc123.jpg", "LEHV6nWB2yk8"); err != nil {
		t.Fatalf("SetRecipeImage: %v", err)
	}

	got, err := s.GetRecipe(ctx, r.ID, userID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got.ImagePath != "recipe-abc123.jpg" {
		t.Errorf("ImagePath: got %q", got.ImagePath)
	}
	if got.BlurHash != "LEHV6nWB2yk8" {
		t.Errorf("BlurHash: got %q", got.BlurHash)
	}

	err = s.SetRecipeImage(ctx, r.ID, userID+1, "x.jpg", "")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound across owners, got %v", err)
	}
}
