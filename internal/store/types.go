package store

// RecipeFilter narrows a recipe listing. ID sets are OR-ed within a set
// and AND-ed across sets: a recipe matches when it carries at least one
// of the requested tags AND at least one of the requested ingredients.
// An empty set applies no constraint.
type RecipeFilter struct {
	TagIDs        []int64
	IngredientIDs []int64
}
