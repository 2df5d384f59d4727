package mealplan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for meal plan persistence.
type Store interface {
	UpsertPlan(ctx context.Context, plan *MealPlan) error
	GetPlanByUser(ctx context.Context, userID int64) (*MealPlan, error)
	DeletePlanByUser(ctx context.Context, userID int64) error
}

// PostgresStore implements the Store interface for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore on an existing connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema creates the meal plans table. Called once at process startup.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS meal_plans (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		entries JSONB NOT NULL DEFAULT '[]',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create meal_plans table: %w", err)
	}
	return nil
}

// UpsertPlan saves the user's current plan, replacing any existing one. The
// plan id is written back.
func (s *PostgresStore) UpsertPlan(ctx context.Context, plan *MealPlan) error {
	entriesJSON, err := json.Marshal(plan.Entries)
	if err != nil {
		return fmt.Errorf("failed to marshal plan entries: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		"INSERT INTO meal_plans (user_id, name, entries, updated_at) VALUES ($1, $2, $3, now()) ON CONFLICT (user_id) DO UPDATE SET name = $2, entries = $3, updated_at = now() RETURNING id, updated_at",
		plan.UserID,
		plan.Name,
		entriesJSON,
	).Scan(&plan.ID, &plan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save meal plan: %w", err)
	}

	return nil
}

// GetPlanByUser retrieves the user's current plan, or (nil, nil) when absent.
func (s *PostgresStore) GetPlanByUser(ctx context.Context, userID int64) (*MealPlan, error) {
	var plan MealPlan
	var entriesJSON []byte

	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, entries, updated_at FROM meal_plans WHERE user_id = $1",
		userID,
	).Scan(&plan.ID, &plan.UserID, &plan.Name, &entriesJSON, &plan.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No plan yet
		}
		return nil, fmt.Errorf("failed to get meal plan: %w", err)
	}

	if err := json.Unmarshal(entriesJSON, &plan.Entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan entries: %w", err)
	}

	return &plan, nil
}

// DeletePlanByUser removes the user's current plan if one exists.
func (s *PostgresStore) DeletePlanByUser(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM meal_plans WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	return nil
}
