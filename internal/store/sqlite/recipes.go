package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/store"
)

// recipeColumns is the ordered list of columns selected in recipe queries.
// Must match the scan order in scanRecipe.
const recipeColumns = `id, user_id, title, time_minutes, price_cents, link, image_path, blur_hash, created_at, updated_at`

// scanRecipe scans a sql.Row (or sql.Rows via its Scan method) into a domain.Recipe.
// Tags and Ingredients are left nil; callers attach them separately.
func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var r domain.Recipe

	var (
		priceCents int64
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&r.ID,
		&r.UserID,
		&r.Title,
		&r.TimeMinutes,
		&priceCents,
		&r.Link,
		&r.ImagePath,
		&r.BlurHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Price = domain.Price(priceCents)

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// CreateRecipe inserts a recipe and its relation rows in one transaction.
// The recipe's Tags and Ingredients must already be resolved to owned rows.
func (s *Store) CreateRecipe(ctx context.Context, r *domain.Recipe) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO recipes (user_id, title, time_minutes, price_cents, link, image_path, blur_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.UserID,
		r.Title,
		r.TimeMinutes,
		int64(r.Price),
		r.Link,
		r.ImagePath,
		r.BlurHash,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}

	r.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	if err := replaceRecipeTags(ctx, tx, r.ID, r.TagIDs()); err != nil {
		return err
	}
	if err := replaceRecipeIngredients(ctx, tx, r.ID, r.IngredientIDs()); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateRecipe persists the recipe row and, when requested, replaces its
// relation sets, all in one transaction. replaceTags/replaceIngredients
// distinguish "set to this list" from "leave untouched" so partial updates
// can omit either set.
// Returns store.ErrNotFound for missing rows and rows owned by someone else.
func (s *Store) UpdateRecipe(ctx context.Context, r *domain.Recipe, replaceTags, replaceIngredients bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE recipes
		SET title = ?, time_minutes = ?, price_cents = ?, link = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		r.Title,
		r.TimeMinutes,
		int64(r.Price),
		r.Link,
		formatTime(r.UpdatedAt),
		r.ID,
		r.UserID,
	)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	if replaceTags {
		if err := replaceRecipeTags(ctx, tx, r.ID, r.TagIDs()); err != nil {
			return err
		}
	}
	if replaceIngredients {
		if err := replaceRecipeIngredients(ctx, tx, r.ID, r.IngredientIDs()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// replaceRecipeTags swaps the recipe's tag set for the given IDs.
func replaceRecipeTags(ctx context.Context, tx *sql.Tx, recipeID int64, tagIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("delete recipe_tags: %w", err)
	}

	now := formatTime(time.Now().UTC())
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO recipe_tags (recipe_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			recipeID, tagID, now)
		if err != nil {
			return fmt.Errorf("insert recipe_tag: %w", err)
		}
	}
	return nil
}

// replaceRecipeIngredients swaps the recipe's ingredient set for the given IDs.
func replaceRecipeIngredients(ctx context.Context, tx *sql.Tx, recipeID int64, ingredientIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("delete recipe_ingredients: %w", err)
	}

	now := formatTime(time.Now().UTC())
	for _, ingredientID := range ingredientIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO recipe_ingredients (recipe_id, ingredient_id, created_at)
			VALUES (?, ?, ?)`,
			recipeID, ingredientID, now)
		if err != nil {
			return fmt.Errorf("insert recipe_ingredient: %w", err)
		}
	}
	return nil
}

// GetRecipe retrieves a recipe with its relations within the owner's scope.
// Returns store.ErrNotFound for missing rows and rows owned by someone else.
func (s *Store) GetRecipe(ctx context.Context, recipeID, userID int64) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND user_id = ?`, recipeID, userID)

	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachRelations(ctx, []*domain.Recipe{r}); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRecipes returns the owner's recipes ordered by ID descending.
// Relation ID filters are applied via IN-subqueries on the join tables.
func (s *Store) ListRecipes(ctx context.Context, userID int64, filter store.RecipeFilter) ([]*domain.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE user_id = ?`
	args := []any{userID}

	if len(filter.TagIDs) > 0 {
		query += ` AND id IN (SELECT recipe_id FROM recipe_tags WHERE tag_id IN (` + placeholders(len(filter.TagIDs)) + `))`
		args = append(args, int64Args(filter.TagIDs)...)
	}
	if len(filter.IngredientIDs) > 0 {
		query += ` AND id IN (SELECT recipe_id FROM recipe_ingredients WHERE ingredient_id IN (` + placeholders(len(filter.IngredientIDs)) + `))`
		args = append(args, int64Args(filter.IngredientIDs)...)
	}

	query += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*domain.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if recipes == nil {
		recipes = []*domain.Recipe{}
	}

	if err := s.attachRelations(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// DeleteRecipe removes a recipe within the owner's scope.
// Relation rows go with it via ON DELETE CASCADE.
// Returns store.ErrNotFound for missing rows and rows owned by someone else.
func (s *Store) DeleteRecipe(ctx context.Context, recipeID, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = ? AND user_id = ?`, recipeID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SetRecipeImage updates the stored image reference within the owner's scope.
// Returns store.ErrNotFound for missing rows and rows owned by someone else.
func (s *Store) SetRecipeImage(ctx context.Context, recipeID, userID int64, imagePath, blurHash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET image_path = ?, blur_hash = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		imagePath,
		blurHash,
		formatTime(time.Now().UTC()),
		recipeID,
		userID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// attachRelations loads tags and ingredients for the given recipes in two
// batched queries and assigns them in place.
func (s *Store) attachRelations(ctx context.Context, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, len(recipes))
	byID := make(map[int64]*domain.Recipe, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
		byID[r.ID] = r
		r.Tags = []domain.Tag{}
		r.Ingredients = []domain.Ingredient{}
	}

	tagRows, err := s.db.QueryContext(ctx, `
		SELECT rt.recipe_id, t.id, t.user_id, t.name, t.created_at, t.updated_at
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id IN (`+placeholders(len(ids))+`)
		ORDER BY t.id`,
		int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("query recipe tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var recipeID int64
		var t domain.Tag
		var createdAt, updatedAt string
		if err := tagRows.Scan(&recipeID, &t.ID, &t.UserID, &t.Name, &createdAt, &updatedAt); err != nil {
			return err
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return err
		}
		if r, ok := byID[recipeID]; ok {
			r.Tags = append(r.Tags, t)
		}
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	ingRows, err := s.db.QueryContext(ctx, `
		SELECT ri.recipe_id, i.id, i.user_id, i.name, i.created_at, i.updated_at
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id IN (`+placeholders(len(ids))+`)
		ORDER BY i.id`,
		int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("query recipe ingredients: %w", err)
	}
	defer ingRows.Close()

	for ingRows.Next() {
		var recipeID int64
		var ing domain.Ingredient
		var createdAt, updatedAt string
		if err := ingRows.Scan(&recipeID, &ing.ID, &ing.UserID, &ing.Name, &createdAt, &updatedAt); err != nil {
			return err
		}
		if ing.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		if ing.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return err
		}
		if r, ok := byID[recipeID]; ok {
			r.Ingredients = append(r.Ingredients, ing)
		}
	}
	return ingRows.Err()
}
