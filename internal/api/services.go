package api

import (
	"github.com/platefulapp/plateful-server/internal/media/images"
	"github.com/platefulapp/plateful-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth       *service.AuthService
	User       *service.UserService
	Tag        *service.TagService
	Ingredient *service.IngredientService
	Recipe     *service.RecipeService

	// RecipeImages serves stored recipe photos directly.
	RecipeImages *images.Storage
}
