package social

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for social interaction persistence.
type Store interface {
	UpsertReaction(ctx context.Context, userID, recipeID int64, kind string) error
	DeleteReaction(ctx context.Context, userID, recipeID int64) error
	AddComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, recipeID int64) ([]Comment, error)
	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	GetFeed(ctx context.Context, userID int64, limit int) ([]FeedEvent, error)
}

// PostgresStore implements the Store interface for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore on an existing connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema creates the social tables. Called once at process startup.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reactions (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		recipe_id BIGINT NOT NULL,
		kind TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, recipe_id)
	);
	CREATE TABLE IF NOT EXISTS comments (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		recipe_id BIGINT NOT NULL,
		body TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS comments_recipe_idx ON comments (recipe_id, created_at);
	CREATE TABLE IF NOT EXISTS follows (
		follower_id BIGINT NOT NULL,
		followee_id BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (follower_id, followee_id)
	);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create social tables: %w", err)
	}
	return nil
}

// UpsertReaction records a user's reaction to a recipe, replacing any previous
// kind. Reacting twice with the same kind is a no-op.
func (s *PostgresStore) UpsertReaction(ctx context.Context, userID, recipeID int64, kind string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO reactions (user_id, recipe_id, kind) VALUES ($1, $2, $3) ON CONFLICT (user_id, recipe_id) DO UPDATE SET kind = $3, created_at = now()",
		userID, recipeID, kind,
	)
	if err != nil {
		return fmt.Errorf("failed to save reaction: %w", err)
	}
	return nil
}

// DeleteReaction removes a user's reaction to a recipe if one exists.
func (s *PostgresStore) DeleteReaction(ctx context.Context, userID, recipeID int64) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM reactions WHERE user_id = $1 AND recipe_id = $2",
		userID, recipeID,
	); err != nil {
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	return nil
}

// AddComment saves a comment. The generated id is written back.
func (s *PostgresStore) AddComment(ctx context.Context, c *Comment) error {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO comments (user_id, recipe_id, body) VALUES ($1, $2, $3) RETURNING id, created_at",
		c.UserID, c.RecipeID, c.Body,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	return nil
}

// ListComments retrieves a recipe's comments oldest first, with author names
// resolved.
func (s *PostgresStore) ListComments(ctx context.Context, recipeID int64) ([]Comment, error) {
	comments := make([]Comment, 0)
	err := s.db.SelectContext(ctx, &comments,
		`SELECT c.id, c.user_id, u.name AS author_name, c.recipe_id, c.body, c.created_at
		 FROM comments c JOIN users u ON u.id = c.user_id
		 WHERE c.recipe_id = $1 ORDER BY c.created_at`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Follow records that follower follows followee. Following twice is a no-op.
func (s *PostgresStore) Follow(ctx context.Context, followerID, followeeID int64) error {
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		followerID, followeeID,
	); err != nil {
		return fmt.Errorf("failed to save follow: %w", err)
	}
	return nil
}

// Unfollow removes a follow relationship if one exists.
func (s *PostgresStore) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2",
		followerID, followeeID,
	); err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

// GetFeed retrieves recent activity (new recipes, comments, reactions) from
// the users that userID follows, newest first.
func (s *PostgresStore) GetFeed(ctx context.Context, userID int64, limit int) ([]FeedEvent, error) {
	events := make([]FeedEvent, 0)
	err := s.db.SelectContext(ctx, &events,
		`SELECT * FROM (
			SELECT 'recipe' AS kind, r.author_id AS actor_id, u.name AS actor_name,
			       r.id AS recipe_id, r.title AS recipe_title, '' AS detail, r.created_at
			FROM recipes r
			JOIN follows f ON f.followee_id = r.author_id AND f.follower_id = $1
			JOIN users u ON u.id = r.author_id
			UNION ALL
			SELECT 'comment' AS kind, c.user_id AS actor_id, u.name AS actor_name,
			       r.id AS recipe_id, r.title AS recipe_title, c.body AS detail, c.created_at
			FROM comments c
			JOIN follows f ON f.followee_id = c.user_id AND f.follower_id = $1
			JOIN users u ON u.id = c.user_id
			JOIN recipes r ON r.id = c.recipe_id
			UNION ALL
			SELECT 'reaction' AS kind, re.user_id AS actor_id, u.name AS actor_name,
			       r.id AS recipe_id, r.title AS recipe_title, re.kind AS detail, re.created_at
			FROM reactions re
			JOIN follows f ON f.followee_id = re.user_id AND f.follower_id = $1
			JOIN users u ON u.id = re.user_id
			JOIN recipes r ON r.id = re.recipe_id
		) feed
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build activity feed: %w", err)
	}
	return events, nil
}
