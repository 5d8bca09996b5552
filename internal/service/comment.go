package service

import (
	"context"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type commentService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newCommentService(logger *zap.Logger, repo *repository.Repository) Comment {
	return &commentService{
		logger: logger,
		repo:   repo,
	}
}

// Create resolves the post by (username, postID) so a comment can never land
// under another author's post with the same id.
func (s *commentService) Create(ctx context.Context, username string, postID int64, authorID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, newValidationError("text", "text must not be empty")
	}

	post, err := s.repo.Postgres.Post.FindByAuthorAndID(ctx, username, postID)
	if err == pgx.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%s/%d): %s", username, postID, err.Error())
		return nil, ErrInternal
	}

	comment := model.Comment{
		PostID:   post.Post.ID,
		AuthorID: authorID,
		Text:     input.Text,
	}

	createdComment, err := s.repo.Postgres.Comment.Create(ctx, comment)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) comment: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	return createdComment, nil
}
