package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/platefulapp/plateful-server/internal/domain"
	domainerrors "github.com/platefulapp/plateful-server/internal/errors"
	"github.com/platefulapp/plateful-server/internal/store"
)

// IngredientService manages a user's private ingredient vocabulary.
type IngredientService struct {
	store  store.Store
	logger *slog.Logger
}

// NewIngredientService creates a new ingredient service.
func NewIngredientService(store store.Store, logger *slog.Logger) *IngredientService {
	return &IngredientService{
		store:  store,
		logger: logger,
	}
}

// CreateIngredientRequest contains data for a new ingredient.
type CreateIngredientRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// UpdateIngredientRequest contains partial ingredient updates.
type UpdateIngredientRequest struct {
	Name *string `json:"name,omitempty" validate:"omitnil,min=1,max=255"`
}

// List returns the user's ingredients, newest name first. With assignedOnly,
// only ingredients attached to at least one recipe are returned.
func (s *IngredientService) List(ctx context.Context, userID int64, assignedOnly bool) ([]*domain.Ingredient, error) {
	ingredients, err := s.store.ListIngredients(ctx, userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

// Create adds an ingredient to the user's vocabulary.
func (s *IngredientService) Create(ctx context.Context, userID int64, req CreateIngredientRequest) (*domain.Ingredient, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	ing := &domain.Ingredient{
		UserID:    userID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateIngredient(ctx, ing); err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}

	return ing, nil
}

// Get retrieves one of the user's ingredients.
func (s *IngredientService) Get(ctx context.Context, userID, ingredientID int64) (*domain.Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, ingredientID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("ingredient not found")
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}

// Update applies partial updates to one of the user's ingredients.
func (s *IngredientService) Update(ctx context.Context, userID, ingredientID int64, req UpdateIngredientRequest) (*domain.Ingredient, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	ing, err := s.Get(ctx, userID, ingredientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		ing.Name = *req.Name
	}
	ing.Touch()

	if err := s.store.UpdateIngredient(ctx, ing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("ingredient not found")
		}
		return nil, fmt.Errorf("update ingredient: %w", err)
	}

	return ing, nil
}
