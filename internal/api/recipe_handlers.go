package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/service"
	"github.com/platefulapp/plateful-server/internal/store"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes",
		Summary:     "List recipes",
		Description: "Lists the caller's recipes, newest first, optionally filtered by tag/ingredient IDs",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes",
		Summary:       "Create recipe",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Get recipe",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "patchRecipe",
		Method:      http.MethodPatch,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Partially update recipe",
		Description: "Updates only the provided fields, omitted relations are left as-is",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePatchRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceRecipe",
		Method:      http.MethodPut,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Replace recipe",
		Description: "Full update, omitted relation lists are cleared",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplaceRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteRecipe",
		Method:        http.MethodDelete,
		Path:          "/api/v1/recipes/{id}",
		Summary:       "Delete recipe",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteRecipe)
}

// === DTOs ===

// RecipeSummary is the list representation. Relations appear as bare IDs.
type RecipeSummary struct {
	ID          int64        `json:"id" doc:"Recipe ID"`
	Title       string       `json:"title" doc:"Recipe title"`
	TimeMinutes int          `json:"time_minutes" doc:"Preparation time in minutes"`
	Price       domain.Price `json:"price" doc:"Price as a decimal string"`
	Link        string       `json:"link" doc:"External link"`
	Tags        []int64      `json:"tags" doc:"IDs of attached tags"`
	Ingredients []int64      `json:"ingredients" doc:"IDs of attached ingredients"`
}

// RecipeDetail is the single-recipe representation. Relations are embedded
// as objects and image fields are included.
type RecipeDetail struct {
	ID          int64                `json:"id" doc:"Recipe ID"`
	Title       string               `json:"title" doc:"Recipe title"`
	TimeMinutes int                  `json:"time_minutes" doc:"Preparation time in minutes"`
	Price       domain.Price         `json:"price" doc:"Price as a decimal string"`
	Link        string               `json:"link" doc:"External link"`
	Tags        []TagResponse        `json:"tags" doc:"Attached tags"`
	Ingredients []IngredientResponse `json:"ingredients" doc:"Attached ingredients"`
	Image       string               `json:"image,omitempty" doc:"Stored image name"`
	BlurHash    string               `json:"blur_hash,omitempty" doc:"Blurhash placeholder for the image"`
}

func toRecipeSummary(r *domain.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        r.TagIDs(),
		Ingredients: r.IngredientIDs(),
	}
}

func toRecipeDetail(r *domain.Recipe) RecipeDetail {
	tags := make([]TagResponse, 0, len(r.Tags))
	for i := range r.Tags {
		tags = append(tags, toTagResponse(&r.Tags[i]))
	}
	ingredients := make([]IngredientResponse, 0, len(r.Ingredients))
	for i := range r.Ingredients {
		ingredients = append(ingredients, toIngredientResponse(&r.Ingredients[i]))
	}
	return RecipeDetail{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        tags,
		Ingredients: ingredients,
		Image:       r.ImagePath,
		BlurHash:    r.BlurHash,
	}
}

// ListRecipesInput carries the optional relation filters as raw strings so
// malformed values produce a validation error instead of huma's default
// coercion behavior.
type ListRecipesInput struct {
	Tags        string `query:"tags" doc:"Comma-separated tag IDs, recipes matching any are included"`
	Ingredients string `query:"ingredients" doc:"Comma-separated ingredient IDs, recipes matching any are included"`
}

// RecipeListOutput wraps a recipe list for Huma.
type RecipeListOutput struct {
	Body []RecipeSummary
}

// RecipeOutput wraps a single recipe for Huma.
type RecipeOutput struct {
	Body RecipeDetail
}

// CreateRecipeInput wraps the create request for Huma.
type CreateRecipeInput struct {
	Body service.CreateRecipeRequest
}

// GetRecipeInput identifies a recipe by path.
type GetRecipeInput struct {
	ID int64 `path:"id" doc:"Recipe ID"`
}

// UpdateRecipeInput wraps the update request for Huma. It serves both PATCH
// and PUT, the handlers differ in how omitted fields are treated.
type UpdateRecipeInput struct {
	ID   int64 `path:"id" doc:"Recipe ID"`
	Body service.UpdateRecipeRequest
}

// DeleteRecipeOutput is an empty 204 response.
type DeleteRecipeOutput struct{}

// === Handlers ===

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*RecipeListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tagIDs, err := parseIDList("tags", input.Tags)
	if err != nil {
		return nil, err
	}
	ingredientIDs, err := parseIDList("ingredients", input.Ingredients)
	if err != nil {
		return nil, err
	}

	recipes, err := s.services.Recipe.List(ctx, userID, store.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		return nil, err
	}

	body := make([]RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		body = append(body, toRecipeSummary(r))
	}
	return &RecipeListOutput{Body: body}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Create(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: toRecipeDetail(recipe)}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *GetRecipeInput) (*RecipeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: toRecipeDetail(recipe)}, nil
}

func (s *Server) handlePatchRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Update(ctx, userID, input.ID, input.Body, false)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: toRecipeDetail(recipe)}, nil
}

func (s *Server) handleReplaceRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Update(ctx, userID, input.ID, input.Body, true)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: toRecipeDetail(recipe)}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *GetRecipeInput) (*DeleteRecipeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recipe.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &DeleteRecipeOutput{}, nil
}
