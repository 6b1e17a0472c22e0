package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/platefulapp/plateful-server/internal/domain"
	domainerrors "github.com/platefulapp/plateful-server/internal/errors"
	"github.com/platefulapp/plateful-server/internal/media/images"
	"github.com/platefulapp/plateful-server/internal/store"
)

// RecipeService manages a user's recipes and their tag/ingredient relations.
type RecipeService struct {
	store   store.Store
	storage *images.Storage
	logger  *slog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(store store.Store, storage *images.Storage, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:   store,
		storage: storage,
		logger:  logger,
	}
}

// CreateRecipeRequest contains data for a new recipe. Tags and ingredients
// reference existing entities of the same user by ID.
type CreateRecipeRequest struct {
	Title         string       `json:"title" validate:"required,max=255"`
	TimeMinutes   int          `json:"time_minutes" validate:"gte=0"`
	Price         domain.Price `json:"price"`
	Link          string       `json:"link,omitempty" validate:"max=255"`
	TagIDs        []int64      `json:"tags,omitempty"`
	IngredientIDs []int64      `json:"ingredients,omitempty"`
}

// UpdateRecipeRequest contains recipe updates. Nil fields are left unchanged
// on a partial update; on a full update the handler fills every field and nil
// relation lists clear the relation.
type UpdateRecipeRequest struct {
	Title         *string       `json:"title,omitempty" validate:"omitnil,min=1,max=255"`
	TimeMinutes   *int          `json:"time_minutes,omitempty" validate:"omitnil,gte=0"`
	Price         *domain.Price `json:"price,omitempty"`
	Link          *string       `json:"link,omitempty" validate:"omitnil,max=255"`
	TagIDs        *[]int64      `json:"tags,omitempty"`
	IngredientIDs *[]int64      `json:"ingredients,omitempty"`
}

// List returns the user's recipes, newest first, optionally filtered by
// related tag/ingredient IDs.
func (s *RecipeService) List(ctx context.Context, userID int64, filter store.RecipeFilter) ([]*domain.Recipe, error) {
	recipes, err := s.store.ListRecipes(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Get retrieves one of the user's recipes with relations attached.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID int64) (*domain.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

// Create adds a recipe with its relations in one transaction.
func (s *RecipeService) Create(ctx context.Context, userID int64, req CreateRecipeRequest) (*domain.Recipe, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, userID, req.TagIDs)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.resolveIngredients(ctx, userID, req.IngredientIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	recipe := &domain.Recipe{
		UserID:      userID,
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Link:        req.Link,
		Tags:        tags,
		Ingredients: ingredients,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Recipe created", "recipe_id", recipe.ID, "user_id", userID)
	}

	return recipe, nil
}

// Update modifies one of the user's recipes. With full set, omitted relation
// lists clear the relation; otherwise omitted fields are left untouched.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID int64, req UpdateRecipeRequest, full bool) (*domain.Recipe, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		recipe.Title = *req.Title
	}
	if req.TimeMinutes != nil {
		recipe.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		recipe.Price = *req.Price
	}
	if req.Link != nil {
		recipe.Link = *req.Link
	}

	replaceTags := full || req.TagIDs != nil
	if replaceTags {
		var ids []int64
		if req.TagIDs != nil {
			ids = *req.TagIDs
		}
		recipe.Tags, err = s.resolveTags(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
	}

	replaceIngredients := full || req.IngredientIDs != nil
	if replaceIngredients {
		var ids []int64
		if req.IngredientIDs != nil {
			ids = *req.IngredientIDs
		}
		recipe.Ingredients, err = s.resolveIngredients(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
	}

	recipe.Touch()
	if err := s.store.UpdateRecipe(ctx, recipe, replaceTags, replaceIngredients); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	return recipe, nil
}

// Delete removes one of the user's recipes. The stored image blob, if any,
// is deleted after the row.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID int64) error {
	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteRecipe(ctx, recipeID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("recipe not found")
		}
		return fmt.Errorf("delete recipe: %w", err)
	}

	if recipe.HasImage() {
		if err := s.storage.Delete(recipe.ImagePath); err != nil && s.logger != nil {
			s.logger.Warn("Failed to delete recipe image", "recipe_id", recipeID, "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("Recipe deleted", "recipe_id", recipeID, "user_id", userID)
	}

	return nil
}

// UploadImage validates and stores a recipe photo. The payload must fully
// decode as an image before anything is written; on success the row points at
// the new blob and the previous blob is removed.
func (s *RecipeService) UploadImage(ctx context.Context, userID, recipeID int64, data []byte) (*domain.Recipe, error) {
	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	img, format, err := images.Decode(data)
	if err != nil {
		return nil, domainerrors.Validation("uploaded file is not a valid image")
	}

	name := "recipe-" + uuid.NewString() + images.Extension(format)
	if err := s.storage.Save(name, data); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	blurHash, err := images.ComputeBlurHash(img)
	if err != nil {
		// Placeholder generation is best effort, the upload still counts.
		if s.logger != nil {
			s.logger.Warn("Failed to compute blurhash", "recipe_id", recipeID, "error", err)
		}
		blurHash = ""
	}

	if err := s.store.SetRecipeImage(ctx, recipeID, userID, name, blurHash); err != nil {
		// Roll back the blob so nothing references it.
		if delErr := s.storage.Delete(name); delErr != nil && s.logger != nil {
			s.logger.Warn("Failed to remove orphaned image", "name", name, "error", delErr)
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("set recipe image: %w", err)
	}

	// Old blob is unreferenced now.
	if recipe.HasImage() && recipe.ImagePath != name {
		if err := s.storage.Delete(recipe.ImagePath); err != nil && s.logger != nil {
			s.logger.Warn("Failed to delete previous image", "recipe_id", recipeID, "error", err)
		}
	}

	recipe.ImagePath = name
	recipe.BlurHash = blurHash
	recipe.Touch()

	if s.logger != nil {
		s.logger.Info("Recipe image uploaded", "recipe_id", recipeID, "format", format)
	}

	return recipe, nil
}

// resolveTags loads the user's tags for the given IDs. Any ID that does not
// resolve inside the user's scope fails validation without revealing whether
// it exists elsewhere.
func (s *RecipeService) resolveTags(ctx context.Context, userID int64, ids []int64) ([]domain.Tag, error) {
	ids = dedupeIDs(ids)
	tags, err := s.store.GetTagsByIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}
	if len(tags) != len(ids) {
		return nil, domainerrors.Validation("tags contains invalid IDs")
	}
	return tags, nil
}

// resolveIngredients is the ingredient counterpart of resolveTags.
func (s *RecipeService) resolveIngredients(ctx context.Context, userID int64, ids []int64) ([]domain.Ingredient, error) {
	ids = dedupeIDs(ids)
	ingredients, err := s.store.GetIngredientsByIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve ingredients: %w", err)
	}
	if len(ingredients) != len(ids) {
		return nil, domainerrors.Validation("ingredients contains invalid IDs")
	}
	return ingredients, nil
}

// dedupeIDs removes duplicates while preserving order. Attaching the same
// relation twice is a no-op rather than an error.
func dedupeIDs(ids []int64) []int64 {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
