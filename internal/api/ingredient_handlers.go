package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/service"
)

func (s *Server) registerIngredientRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listIngredients",
		Method:      http.MethodGet,
		Path:        "/api/v1/ingredients",
		Summary:     "List ingredients",
		Description: "Lists the caller's ingredients ordered by name descending",
		Tags:        []string{"Ingredients"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListIngredients)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createIngredient",
		Method:        http.MethodPost,
		Path:          "/api/v1/ingredients",
		Summary:       "Create ingredient",
		Tags:          []string{"Ingredients"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateIngredient)

	huma.Register(s.api, huma.Operation{
		OperationID: "getIngredient",
		Method:      http.MethodGet,
		Path:        "/api/v1/ingredients/{id}",
		Summary:     "Get ingredient",
		Tags:        []string{"Ingredients"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetIngredient)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateIngredient",
		Method:      http.MethodPatch,
		Path:        "/api/v1/ingredients/{id}",
		Summary:     "Update ingredient",
		Tags:        []string{"Ingredients"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateIngredient)
}

// === DTOs ===

// IngredientResponse is the public representation of an ingredient.
type IngredientResponse struct {
	ID   int64  `json:"id" doc:"Ingredient ID"`
	Name string `json:"name" doc:"Ingredient name"`
}

func toIngredientResponse(i *domain.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name}
}

// ListIngredientsInput carries the optional relation filter.
type ListIngredientsInput struct {
	AssignedOnly string `query:"assigned_only" doc:"When 1, only ingredients assigned to at least one recipe"`
}

// IngredientListOutput wraps an ingredient list for Huma.
type IngredientListOutput struct {
	Body []IngredientResponse
}

// IngredientOutput wraps a single ingredient for Huma.
type IngredientOutput struct {
	Body IngredientResponse
}

// CreateIngredientInput wraps the create request for Huma.
type CreateIngredientInput struct {
	Body struct {
		Name string `json:"name" maxLength:"255" doc:"Ingredient name"`
	}
}

// UpdateIngredientInput wraps the update request for Huma.
type UpdateIngredientInput struct {
	ID   int64 `path:"id" doc:"Ingredient ID"`
	Body struct {
		Name *string `json:"name,omitempty" maxLength:"255" doc:"New ingredient name"`
	}
}

// GetIngredientInput identifies an ingredient by path.
type GetIngredientInput struct {
	ID int64 `path:"id" doc:"Ingredient ID"`
}

// === Handlers ===

func (s *Server) handleListIngredients(ctx context.Context, input *ListIngredientsInput) (*IngredientListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	assignedOnly, err := parseBoolish("assigned_only", input.AssignedOnly)
	if err != nil {
		return nil, err
	}

	ingredients, err := s.services.Ingredient.List(ctx, userID, assignedOnly)
	if err != nil {
		return nil, err
	}

	body := make([]IngredientResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		body = append(body, toIngredientResponse(ing))
	}
	return &IngredientListOutput{Body: body}, nil
}

func (s *Server) handleCreateIngredient(ctx context.Context, input *CreateIngredientInput) (*IngredientOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	ing, err := s.services.Ingredient.Create(ctx, userID, service.CreateIngredientRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &IngredientOutput{Body: toIngredientResponse(ing)}, nil
}

func (s *Server) handleGetIngredient(ctx context.Context, input *GetIngredientInput) (*IngredientOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	ing, err := s.services.Ingredient.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &IngredientOutput{Body: toIngredientResponse(ing)}, nil
}

func (s *Server) handleUpdateIngredient(ctx context.Context, input *UpdateIngredientInput) (*IngredientOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	ing, err := s.services.Ingredient.Update(ctx, userID, input.ID, service.UpdateIngredientRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &IngredientOutput{Body: toIngredientResponse(ing)}, nil
}
