package service

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type followService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newFollowService(logger *zap.Logger, repo *repository.Repository) Follow {
	return &followService{
		logger: logger,
		repo:   repo,
	}
}

// Follow is idempotent: following an already-followed author returns the
// existing edge. Self-follow is rejected here, not at the storage layer.
func (s *followService) Follow(ctx context.Context, userID uuid.UUID, username string) (*model.Follow, error) {
	author, err := s.repo.Postgres.UserCache.FindByUsername(ctx, username)
	if err == pgx.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s): %s", username, err.Error())
		return nil, ErrInternal
	}

	if author.ID == userID {
		return nil, ErrSelfFollow
	}

	follow, err := s.repo.Postgres.Follow.Create(ctx, userID, author.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create follow(%s -> %s): %s", userID.String(), username, err.Error())
		return nil, ErrInternal
	}

	return follow, nil
}

// Unfollow is idempotent: absence of the edge is not an error.
func (s *followService) Unfollow(ctx context.Context, userID uuid.UUID, username string) error {
	author, err := s.repo.Postgres.UserCache.FindByUsername(ctx, username)
	if err == pgx.ErrNoRows {
		return ErrUserNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s): %s", username, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.Follow.Delete(ctx, userID, author.ID); err != nil {
		s.logger.Sugar().Errorf("failed to delete follow(%s -> %s): %s", userID.String(), username, err.Error())
		return ErrInternal
	}

	return nil
}
