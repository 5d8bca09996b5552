package service

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"strings"
	"time"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/rabbitmq"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const DEFAULT_FEED_TTL = time.Second * 20

type postService struct {
	logger *zap.Logger
	repo   *repository.Repository
	mq     *rabbitmq.RabbitMQ
	media  *mediaStore
}

func newPostService(logger *zap.Logger, repo *repository.Repository, mq *rabbitmq.RabbitMQ, media *mediaStore) Post {
	return &postService{
		logger: logger,
		repo:   repo,
		mq:     mq,
		media:  media,
	}
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest, image *multipart.FileHeader) (*model.Post, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, newValidationError("text", "text must not be empty")
	}

	post := model.Post{
		AuthorID: authorID,
		GroupID:  input.GroupID,
		Text:     input.Text,
	}

	if image != nil {
		imagePath, err := s.media.Save(image)
		if err == ErrFileMustBeImage {
			return nil, newValidationError("image", ErrFileMustBeImage.Error())
		}
		if err != nil {
			s.logger.Sugar().Errorf("failed to save image for user(%s): %s", authorID.String(), err.Error())
			return nil, ErrInternal
		}
		post.ImagePath = &imagePath
	}

	createdPost, err := s.repo.Postgres.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	s.invalidateFeedCache(ctx)
	s.publishPostCreated(ctx, createdPost)

	return createdPost, nil
}

func (s *postService) Update(ctx context.Context, username string, postID int64, editorID uuid.UUID, input dto.EditPostRequest, image *multipart.FileHeader) (*model.FeedPost, error) {
	post, err := s.repo.Postgres.Post.FindByAuthorAndID(ctx, username, postID)
	if err == pgx.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%s/%d): %s", username, postID, err.Error())
		return nil, ErrInternal
	}

	if post.Post.AuthorID != editorID {
		return nil, ErrNotPostAuthor
	}

	updates := make(map[string]interface{})

	if input.Text != nil {
		if strings.TrimSpace(*input.Text) == "" {
			return nil, newValidationError("text", "text must not be empty")
		}
		updates["text"] = *input.Text
		post.Post.Text = *input.Text
	}

	if input.GroupID != nil {
		updates["group_id"] = *input.GroupID
		post.Post.GroupID = input.GroupID
	}

	if image != nil {
		imagePath, err := s.media.Save(image)
		if err == ErrFileMustBeImage {
			return nil, newValidationError("image", ErrFileMustBeImage.Error())
		}
		if err != nil {
			s.logger.Sugar().Errorf("failed to save image for post(%d): %s", postID, err.Error())
			return nil, ErrInternal
		}
		updates["image_path"] = imagePath
		post.Post.ImagePath = &imagePath
	}

	if len(updates) == 0 {
		return post, nil
	}

	if err := s.repo.Postgres.Post.Update(ctx, postID, updates); err != nil {
		s.logger.Sugar().Errorf("failed to update post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	s.invalidateFeedCache(ctx)

	return post, nil
}

func (s *postService) GetGlobalFeed(ctx context.Context, page int) (*dto.PostsPage, error) {
	cachedPage, err := redisrepo.Get[dto.PostsPage](s.repo.Redis.Default, ctx, redisrepo.GlobalFeedKey(page))
	if err == nil && cachedPage != nil {
		return cachedPage, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get global feed page(%d) from redis: %s", page, err.Error())
	}

	result, err := s.feedPage(
		ctx,
		page,
		s.repo.Postgres.Post.CountAll,
		func(ctx context.Context, limit int, offset int) ([]*model.FeedPost, error) {
			return s.repo.Postgres.Post.FindAll(ctx, limit, offset)
		},
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.GlobalFeedKey(page), result, s.feedTTL()); err != nil {
		s.logger.Sugar().Errorf("failed to set global feed page(%d) in redis: %s", page, err.Error())
	}

	return result, nil
}

func (s *postService) GetGroupFeed(ctx context.Context, slug string, page int) (*dto.PostsPage, error) {
	group, err := s.repo.Postgres.Group.FindBySlug(ctx, slug)
	if err == pgx.ErrNoRows {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find group(%s): %s", slug, err.Error())
		return nil, ErrInternal
	}

	return s.feedPage(
		ctx,
		page,
		func(ctx context.Context) (int64, error) {
			return s.repo.Postgres.Post.CountByGroupID(ctx, group.ID)
		},
		func(ctx context.Context, limit int, offset int) ([]*model.FeedPost, error) {
			return s.repo.Postgres.Post.FindByGroupID(ctx, group.ID, limit, offset)
		},
	)
}

func (s *postService) GetProfileFeed(ctx context.Context, username string, viewerID *uuid.UUID, page int) (*dto.ProfilePage, error) {
	author, err := s.repo.Postgres.UserCache.FindByUsername(ctx, username)
	if err == pgx.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s): %s", username, err.Error())
		return nil, ErrInternal
	}

	postsPage, err := s.feedPage(
		ctx,
		page,
		func(ctx context.Context) (int64, error) {
			return s.repo.Postgres.Post.CountByAuthorID(ctx, author.ID)
		},
		func(ctx context.Context, limit int, offset int) ([]*model.FeedPost, error) {
			return s.repo.Postgres.Post.FindByAuthorID(ctx, author.ID, limit, offset)
		},
	)
	if err != nil {
		return nil, err
	}

	result := dto.ProfilePage{
		PostsPage: *postsPage,
		Author: model.UserAuthor{
			Username:    author.Username,
			DisplayName: author.DisplayName,
			AvatarURL:   author.AvatarURL,
		},
	}

	if viewerID != nil {
		following, err := s.repo.Postgres.Follow.Exists(ctx, *viewerID, author.ID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to check follow state for user(%s): %s", username, err.Error())
			return nil, ErrInternal
		}
		result.Following = following
	}

	followerCount, err := s.repo.Postgres.Follow.CountFollowers(ctx, author.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count followers of user(%s): %s", username, err.Error())
		return nil, ErrInternal
	}
	result.FollowerCount = followerCount

	followingCount, err := s.repo.Postgres.Follow.CountFollowing(ctx, author.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count following of user(%s): %s", username, err.Error())
		return nil, ErrInternal
	}
	result.FollowingCount = followingCount

	return &result, nil
}

func (s *postService) GetFollowFeed(ctx context.Context, userID uuid.UUID, page int) (*dto.PostsPage, error) {
	return s.feedPage(
		ctx,
		page,
		func(ctx context.Context) (int64, error) {
			return s.repo.Postgres.Post.CountFollowed(ctx, userID)
		},
		func(ctx context.Context, limit int, offset int) ([]*model.FeedPost, error) {
			return s.repo.Postgres.Post.FindFollowed(ctx, userID, limit, offset)
		},
	)
}

func (s *postService) GetPost(ctx context.Context, username string, postID int64) (*dto.GetPost, error) {
	post, err := s.repo.Postgres.Post.FindByAuthorAndID(ctx, username, postID)
	if err == pgx.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%s/%d): %s", username, postID, err.Error())
		return nil, ErrInternal
	}

	comments, err := s.repo.Postgres.Comment.FindPostComments(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d) comments: %s", postID, err.Error())
		return nil, ErrInternal
	}

	return &dto.GetPost{
		Post:     *post,
		Comments: comments,
	}, nil
}

func (s *postService) feedPage(
	ctx context.Context,
	page int,
	count func(ctx context.Context) (int64, error),
	find func(ctx context.Context, limit int, offset int) ([]*model.FeedPost, error),
) (*dto.PostsPage, error) {
	total, err := count(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count posts: %s", err.Error())
		return nil, ErrInternal
	}

	page, numPages, offset := clampPage(total, page)

	items, err := find(ctx, PAGE_SIZE, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find posts: %s", err.Error())
		return nil, ErrInternal
	}

	return &dto.PostsPage{
		Items:      items,
		TotalCount: total,
		Page:       page,
		NumPages:   numPages,
	}, nil
}

func (s *postService) feedTTL() time.Duration {
	ttl := viper.GetDuration("cache.feed_ttl")
	if ttl <= 0 {
		ttl = DEFAULT_FEED_TTL
	}
	return ttl
}

// invalidateFeedCache drops every cached global feed page; readers rebuild
// them on the next request.
func (s *postService) invalidateFeedCache(ctx context.Context) {
	keys, err := s.repo.Redis.Default.Keys(ctx, redisrepo.GLOBAL_FEED_PATTERN).Result()
	if err != nil {
		s.logger.Sugar().Errorf("failed to list feed cache keys: %s", err.Error())
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := s.repo.Redis.Default.Del(ctx, keys...).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate feed cache: %s", err.Error())
	}
}

func (s *postService) publishPostCreated(ctx context.Context, post *model.Post) {
	if s.mq == nil {
		return
	}

	msg := dto.MQPostCreatedMsg{
		PostID:   post.ID,
		AuthorID: post.AuthorID,
		PubDate:  post.PubDate,
	}
	msgJSON, err := json.Marshal(msg)
	if err != nil {
		s.logger.Sugar().Errorf("failed to marshal post created message: %s", err.Error())
		return
	}

	if err := s.mq.Publish(ctx, rabbitmq.POST_CREATED_QUEUE, msgJSON); err != nil {
		s.logger.Sugar().Errorf("failed to publish post created message: %s", err.Error())
	}
}
