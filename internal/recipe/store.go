package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ListFilter narrows a catalog listing. Zero-value fields are ignored.
type ListFilter struct {
	Cuisine    string
	Difficulty string
	Dietary    string
	Query      string
}

// Store defines the interface for recipe data operations.
type Store interface {
	CreateRecipe(ctx context.Context, r *Recipe) error
	GetRecipeByID(ctx context.Context, id int64) (*Recipe, error)
	ListRecipes(ctx context.Context, filter ListFilter) ([]*Recipe, error)
	ListRecipesByAuthor(ctx context.Context, authorID int64) ([]*Recipe, error)
	GetIngredients(ctx context.Context, recipeID int64) ([]Ingredient, error)
	SetImagePath(ctx context.Context, id int64, path string) error
}

// PostgresStore implements the Store interface for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore on an existing connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema creates the recipes table. Called once at process startup.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS recipes (
		id BIGSERIAL PRIMARY KEY,
		author_id BIGINT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		tags JSONB NOT NULL DEFAULT '[]',
		cuisine TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL DEFAULT 'easy',
		dietary JSONB NOT NULL DEFAULT '[]',
		ingredients JSONB NOT NULL DEFAULT '[]',
		instructions JSONB NOT NULL DEFAULT '[]',
		image_path TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS recipes_author_idx ON recipes (author_id);
	CREATE INDEX IF NOT EXISTS recipes_cuisine_idx ON recipes (cuisine);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create recipes table: %w", err)
	}
	return nil
}

const recipeColumns = "id, author_id, title, description, tags, cuisine, difficulty, dietary, ingredients, instructions, image_path, created_at"

// CreateRecipe saves a new recipe. Display fields are derived from the tags
// before the write so listings can filter on them in SQL. The generated id is
// written back onto the recipe.
func (s *PostgresStore) CreateRecipe(ctx context.Context, r *Recipe) error {
	r.DeriveDisplayFields()

	tagsJSON, err := json.Marshal(r.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}
	dietaryJSON, err := json.Marshal(r.Dietary)
	if err != nil {
		return fmt.Errorf("failed to marshal dietary labels: %w", err)
	}
	ingredientsJSON, err := json.Marshal(r.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	instructionsJSON, err := json.Marshal(r.Instructions)
	if err != nil {
		return fmt.Errorf("failed to marshal instructions: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		"INSERT INTO recipes (author_id, title, description, tags, cuisine, difficulty, dietary, ingredients, instructions, image_path) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at",
		r.AuthorID,
		r.Title,
		r.Description,
		tagsJSON,
		r.Cuisine,
		r.Difficulty,
		dietaryJSON,
		ingredientsJSON,
		instructionsJSON,
		r.ImagePath,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}

	return nil
}

// GetRecipeByID retrieves a single recipe, or (nil, nil) when absent.
func (s *PostgresStore) GetRecipeByID(ctx context.Context, id int64) (*Recipe, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT "+recipeColumns+" FROM recipes WHERE id = $1", id)
	r, err := scanRecipe(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Recipe not found
		}
		return nil, fmt.Errorf("failed to get recipe by id: %w", err)
	}
	return r, nil
}

// ListRecipes retrieves catalog recipes matching the filter, newest first.
func (s *PostgresStore) ListRecipes(ctx context.Context, filter ListFilter) ([]*Recipe, error) {
	query := "SELECT " + recipeColumns + " FROM recipes WHERE 1=1"
	var args []interface{}

	paramCount := 1
	if filter.Cuisine != "" {
		query += fmt.Sprintf(" AND cuisine = $%d", paramCount)
		args = append(args, filter.Cuisine)
		paramCount++
	}
	if filter.Difficulty != "" {
		query += fmt.Sprintf(" AND difficulty = $%d", paramCount)
		args = append(args, filter.Difficulty)
		paramCount++
	}
	if filter.Dietary != "" {
		query += fmt.Sprintf(" AND dietary ? $%d", paramCount)
		args = append(args, filter.Dietary)
		paramCount++
	}
	if filter.Query != "" {
		query += fmt.Sprintf(" AND title ILIKE '%%' || $%d || '%%'", paramCount)
		args = append(args, filter.Query)
		paramCount++
	}
	query += " ORDER BY created_at DESC"

	return s.listRecipes(ctx, query, args...)
}

// ListRecipesByAuthor retrieves recipes authored by one user, newest first.
func (s *PostgresStore) ListRecipesByAuthor(ctx context.Context, authorID int64) ([]*Recipe, error) {
	return s.listRecipes(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE author_id = $1 ORDER BY created_at DESC",
		authorID,
	)
}

// GetIngredients retrieves just the ingredient rows of one recipe. Used by
// shopping list consolidation, which does not need the rest of the recipe.
func (s *PostgresStore) GetIngredients(ctx context.Context, recipeID int64) ([]Ingredient, error) {
	var ingredientsJSON []byte
	err := s.db.QueryRowContext(ctx, "SELECT ingredients FROM recipes WHERE id = $1", recipeID).Scan(&ingredientsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("recipe %d not found", recipeID)
		}
		return nil, fmt.Errorf("failed to get ingredients: %w", err)
	}

	var ingredients []Ingredient
	if err := json.Unmarshal(ingredientsJSON, &ingredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}
	return ingredients, nil
}

// SetImagePath records the served path of a recipe's uploaded image.
func (s *PostgresStore) SetImagePath(ctx context.Context, id int64, path string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE recipes SET image_path = $1 WHERE id = $2", path, id)
	if err != nil {
		return fmt.Errorf("failed to set image path: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("recipe %d not found", id)
	}
	return nil
}

func (s *PostgresStore) listRecipes(ctx context.Context, query string, args ...interface{}) ([]*Recipe, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]*Recipe, 0)
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		recipes = append(recipes, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return recipes, nil
}

// rowScanner is satisfied by both *sqlx.Row and *sqlx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecipe(row rowScanner) (*Recipe, error) {
	var r Recipe
	var tagsJSON, dietaryJSON, ingredientsJSON, instructionsJSON []byte

	err := row.Scan(
		&r.ID,
		&r.AuthorID,
		&r.Title,
		&r.Description,
		&tagsJSON,
		&r.Cuisine,
		&r.Difficulty,
		&dietaryJSON,
		&ingredientsJSON,
		&instructionsJSON,
		&r.ImagePath,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tagsJSON, &r.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if err := json.Unmarshal(dietaryJSON, &r.Dietary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dietary labels: %w", err)
	}
	if err := json.Unmarshal(ingredientsJSON, &r.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}
	if err := json.Unmarshal(instructionsJSON, &r.Instructions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instructions: %w", err)
	}

	return &r, nil
}
