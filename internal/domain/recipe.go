package domain

import "time"

// Recipe is the core catalog object. Tags and Ingredients carry the full
// related rows so callers can project either bare IDs (list view) or
// embedded objects (detail view) without another query.
type Recipe struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"-"`
	Title       string       `json:"title"`
	TimeMinutes int          `json:"time_minutes"`
	Price       Price        `json:"price"`
	Link        string       `json:"link"`
	ImagePath   string       `json:"image,omitempty"`
	BlurHash    string       `json:"blur_hash,omitempty"`
	Tags        []Tag        `json:"tags"`
	Ingredients []Ingredient `json:"ingredients"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (r *Recipe) Touch() {
	r.UpdatedAt = time.Now()
}

// TagIDs returns the IDs of the recipe's tags.
func (r *Recipe) TagIDs() []int64 {
	ids := make([]int64, len(r.Tags))
	for i, t := range r.Tags {
		ids[i] = t.ID
	}
	return ids
}

// IngredientIDs returns the IDs of the recipe's ingredients.
func (r *Recipe) IngredientIDs() []int64 {
	ids := make([]int64, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ids[i] = ing.ID
	}
	return ids
}

// HasImage reports whether an uploaded image is attached.
func (r *Recipe) HasImage() bool {
	return r.ImagePath != ""
}
