package postgres

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
)

type followRepo struct {
	db Querier
}

func newFollowRepo(db Querier) Follow {
	return &followRepo{
		db: db,
	}
}

// Create is idempotent: the UNIQUE(user_id, author_id) constraint resolves
// concurrent duplicates and the existing edge is returned either way.
func (r *followRepo) Create(ctx context.Context, userID uuid.UUID, authorID uuid.UUID) (*model.Follow, error) {
	if _, err := r.db.Exec(
		ctx,
		"INSERT INTO follows(user_id, author_id) VALUES($1, $2) ON CONFLICT (user_id, author_id) DO NOTHING",
		userID,
		authorID,
	); err != nil {
		return nil, err
	}

	follow := model.Follow{
		UserID:   userID,
		AuthorID: authorID,
	}
	if err := r.db.QueryRow(
		ctx,
		"SELECT f.id FROM follows f WHERE f.user_id = $1 AND f.author_id = $2",
		userID,
		authorID,
	).Scan(&follow.ID); err != nil {
		return nil, err
	}

	return &follow, nil
}

func (r *followRepo) Delete(ctx context.Context, userID uuid.UUID, authorID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM follows WHERE user_id = $1 AND author_id = $2", userID, authorID)
	return err
}

func (r *followRepo) Exists(ctx context.Context, userID uuid.UUID, authorID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM follows f WHERE f.user_id = $1 AND f.author_id = $2)",
		userID,
		authorID,
	).Scan(&exists)
	return exists, err
}

func (r *followRepo) CountFollowers(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM follows WHERE author_id = $1", authorID).Scan(&count)
	return count, err
}

func (r *followRepo) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM follows WHERE user_id = $1", userID).Scan(&count)
	return count, err
}
