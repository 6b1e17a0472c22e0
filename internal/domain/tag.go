package domain

import "time"

// Tag is a user-owned label for categorizing recipes.
// Tags are private to their owner; two users can each have a "Vegan" tag
// and never see each other's.
type Tag struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"` // owner, stamped from the authenticated user
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now()
}
