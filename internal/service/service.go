package service

import (
	"context"
	"mime/multipart"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/rabbitmq"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Post interface {
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest, image *multipart.FileHeader) (*model.Post, error)
	Update(ctx context.Context, username string, postID int64, editorID uuid.UUID, input dto.EditPostRequest, image *multipart.FileHeader) (*model.FeedPost, error)
	GetGlobalFeed(ctx context.Context, page int) (*dto.PostsPage, error)
	GetGroupFeed(ctx context.Context, slug string, page int) (*dto.PostsPage, error)
	GetProfileFeed(ctx context.Context, username string, viewerID *uuid.UUID, page int) (*dto.ProfilePage, error)
	GetFollowFeed(ctx context.Context, userID uuid.UUID, page int) (*dto.PostsPage, error)
	GetPost(ctx context.Context, username string, postID int64) (*dto.GetPost, error)
}

type Group interface {
	Create(ctx context.Context, input dto.CreateGroupRequest) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
}

type Comment interface {
	Create(ctx context.Context, username string, postID int64, authorID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error)
}

type Follow interface {
	Follow(ctx context.Context, userID uuid.UUID, username string) (*model.Follow, error)
	Unfollow(ctx context.Context, userID uuid.UUID, username string) error
}

type UserCache interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	FindByUsername(ctx context.Context, username string) (*model.CachedUser, error)
	StartConsume(ctx context.Context)
}

type Service struct {
	Post
	Group
	Comment
	Follow
	UserCache
}

func New(logger *zap.Logger, repo *repository.Repository, mq *rabbitmq.RabbitMQ) *Service {
	media := newMediaStore(viper.GetString("media.dir"))

	return &Service{
		Post:      newPostService(logger, repo, mq, media),
		Group:     newGroupService(logger, repo),
		Comment:   newCommentService(logger, repo),
		Follow:    newFollowService(logger, repo),
		UserCache: newUserCacheService(logger, repo, mq),
	}
}

func (s *Service) StartConsumeAll(ctx context.Context) {
	s.UserCache.StartConsume(ctx)
}
