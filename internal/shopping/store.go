package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store errors surfaced to handlers.
var (
	ErrListNotFound    = errors.New("shopping list not found")
	ErrIndexOutOfRange = errors.New("item index out of range")
)

// Store defines the interface for shopping list persistence.
type Store interface {
	SaveList(ctx context.Context, list *ShoppingList) error
	GetListByUser(ctx context.Context, userID int64) (*ShoppingList, error)
	UpdateItem(ctx context.Context, listID string, userID int64, index int, item ShoppingItem) error
	DeleteItem(ctx context.Context, listID string, userID int64, index int) error
}

// PostgresStore implements Store for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore on an existing connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema creates the shopping list table. Called once at process startup.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS shopping_lists (
		id TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		meal_plan_id BIGINT,
		items JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS shopping_lists_user_idx ON shopping_lists (user_id, created_at DESC);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create shopping_lists table: %w", err)
	}
	return nil
}

// SaveList persists a freshly consolidated list under a generated id. The id
// is written back onto the list.
func (s *PostgresStore) SaveList(ctx context.Context, list *ShoppingList) error {
	itemsJSON, err := json.Marshal(list.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	if list.ID == "" {
		list.ID = uuid.New().String()
	}

	err = s.db.QueryRowContext(ctx,
		"INSERT INTO shopping_lists (id, user_id, meal_plan_id, items) VALUES ($1, $2, $3, $4) RETURNING created_at",
		list.ID,
		list.UserID,
		list.MealPlanID,
		itemsJSON,
	).Scan(&list.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save shopping list: %w", err)
	}

	return nil
}

// GetListByUser retrieves the user's most recent shopping list.
func (s *PostgresStore) GetListByUser(ctx context.Context, userID int64) (*ShoppingList, error) {
	var list ShoppingList
	var itemsJSON []byte

	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, meal_plan_id, items, created_at FROM shopping_lists WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1",
		userID,
	).Scan(&list.ID, &list.UserID, &list.MealPlanID, &itemsJSON, &list.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No shopping list yet
		}
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &list.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}

	return &list, nil
}

// UpdateItem replaces one item by position on a persisted list. The list is
// loaded and rewritten inside a transaction so concurrent edits cannot drop
// each other's changes.
func (s *PostgresStore) UpdateItem(ctx context.Context, listID string, userID int64, index int, item ShoppingItem) error {
	return s.mutateItems(ctx, listID, userID, func(items []ShoppingItem) ([]ShoppingItem, error) {
		if index < 0 || index >= len(items) {
			return nil, ErrIndexOutOfRange
		}
		items[index] = item
		return items, nil
	})
}

// DeleteItem removes one item by position on a persisted list.
func (s *PostgresStore) DeleteItem(ctx context.Context, listID string, userID int64, index int) error {
	return s.mutateItems(ctx, listID, userID, func(items []ShoppingItem) ([]ShoppingItem, error) {
		if index < 0 || index >= len(items) {
			return nil, ErrIndexOutOfRange
		}
		return append(items[:index], items[index+1:]...), nil
	})
}

// mutateItems runs a read-modify-write of a list's items, scoped to the owning
// user so one user cannot edit another's list.
func (s *PostgresStore) mutateItems(ctx context.Context, listID string, userID int64, mutate func([]ShoppingItem) ([]ShoppingItem, error)) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var itemsJSON []byte
	err = tx.QueryRowContext(ctx,
		"SELECT items FROM shopping_lists WHERE id = $1 AND user_id = $2 FOR UPDATE",
		listID, userID,
	).Scan(&itemsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrListNotFound
		}
		return fmt.Errorf("failed to load shopping list for update: %w", err)
	}

	var items []ShoppingItem
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		return fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}

	items, err = mutate(items)
	if err != nil {
		return err
	}

	updatedJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE shopping_lists SET items = $1 WHERE id = $2 AND user_id = $3",
		updatedJSON, listID, userID,
	); err != nil {
		return fmt.Errorf("failed to update shopping list: %w", err)
	}

	return tx.Commit()
}
