package service

import (
	"context"
	"errors"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const pgUniqueViolationCode = "23505"

type groupService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newGroupService(logger *zap.Logger, repo *repository.Repository) Group {
	return &groupService{
		logger: logger,
		repo:   repo,
	}
}

func (s *groupService) Create(ctx context.Context, input dto.CreateGroupRequest) (*model.Group, error) {
	group := model.Group{
		Title:       input.Title,
		Slug:        input.Slug,
		Description: input.Description,
	}

	createdGroup, err := s.repo.Postgres.Group.Create(ctx, group)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return nil, newValidationError("slug", "slug is already taken")
		}

		s.logger.Sugar().Errorf("failed to create group(%s): %s", input.Slug, err.Error())
		return nil, ErrInternal
	}

	return createdGroup, nil
}

func (s *groupService) List(ctx context.Context) ([]*model.Group, error) {
	groups, err := s.repo.Postgres.Group.FindAll(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list groups: %s", err.Error())
		return nil, ErrInternal
	}

	return groups, nil
}
