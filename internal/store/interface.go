// Package store defines the persistence interface for the Plateful server.
package store

import (
	"context"

	"github.com/platefulapp/plateful-server/internal/domain"
)

// Store defines the interface for all persistence operations.
//
// Catalog operations (tags, ingredients, recipes) take the owner's user ID and
// operate strictly within that scope. A row owned by another user behaves
// exactly like a missing row and surfaces as ErrNotFound.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, tagID, userID int64) (*domain.Tag, error)
	ListTags(ctx context.Context, userID int64, assignedOnly bool) ([]*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	GetTagsByIDs(ctx context.Context, userID int64, ids []int64) ([]domain.Tag, error)

	// Ingredients
	CreateIngredient(ctx context.Context, ingredient *domain.Ingredient) error
	GetIngredient(ctx context.Context, ingredientID, userID int64) (*domain.Ingredient, error)
	ListIngredients(ctx context.Context, userID int64, assignedOnly bool) ([]*domain.Ingredient, error)
	UpdateIngredient(ctx context.Context, ingredient *domain.Ingredient) error
	GetIngredientsByIDs(ctx context.Context, userID int64, ids []int64) ([]domain.Ingredient, error)

	// Recipes
	CreateRecipe(ctx context.Context, recipe *domain.Recipe) error
	GetRecipe(ctx context.Context, recipeID, userID int64) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, userID int64, filter RecipeFilter) ([]*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe, replaceTags, replaceIngredients bool) error
	DeleteRecipe(ctx context.Context, recipeID, userID int64) error
	SetRecipeImage(ctx context.Context, recipeID, userID int64, imagePath, blurHash string) error
}
