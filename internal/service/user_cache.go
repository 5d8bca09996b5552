package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/rabbitmq"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const userCacheTTL = time.Hour

type userCacheService struct {
	logger *zap.Logger
	repo   *repository.Repository
	mq     *rabbitmq.RabbitMQ
}

func newUserCacheService(logger *zap.Logger, repo *repository.Repository, mq *rabbitmq.RabbitMQ) UserCache {
	return &userCacheService{
		logger: logger,
		repo:   repo,
		mq:     mq,
	}
}

func (s *userCacheService) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	cachedUser, err := redisrepo.Get[model.CachedUser](s.repo.Redis.Default, ctx, redisrepo.UserCacheKey(id.String()))
	if err == nil && cachedUser != nil {
		return cachedUser, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get user(%s) from redis: %s", id.String(), err.Error())
	}

	user, err := s.repo.Postgres.UserCache.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UserCacheKey(id.String()), user, userCacheTTL); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", id.String(), err.Error())
	}

	return user, nil
}

func (s *userCacheService) FindByUsername(ctx context.Context, username string) (*model.CachedUser, error) {
	return s.repo.Postgres.UserCache.FindByUsername(ctx, username)
}

// StartConsume keeps the local user replica in sync with the user service.
func (s *userCacheService) StartConsume(ctx context.Context) {
	if s.mq == nil {
		return
	}

	go s.consumeUserCreated(ctx)
	go s.consumeUserUpdated(ctx)
}

func (s *userCacheService) consumeUserCreated(ctx context.Context) {
	deliveries, err := s.mq.Consume(rabbitmq.USER_CREATED_QUEUE)
	if err != nil {
		s.logger.Sugar().Errorf("failed to consume from queue(%s): %s", rabbitmq.USER_CREATED_QUEUE, err.Error())
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}

			var msg dto.MQUserCreatedMsg
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				s.logger.Sugar().Errorf("failed to unmarshal user created message: %s", err.Error())
				d.Nack(false, false)
				continue
			}

			user := model.CachedUser{
				ID:          msg.ID,
				Username:    msg.Username,
				DisplayName: msg.DisplayName,
				AvatarURL:   msg.AvatarURL,
			}
			if err := s.repo.Postgres.UserCache.Upsert(ctx, user); err != nil {
				s.logger.Sugar().Errorf("failed to upsert user(%s): %s", msg.ID.String(), err.Error())
				d.Nack(false, true)
				continue
			}

			d.Ack(false)
		}
	}
}

func (s *userCacheService) consumeUserUpdated(ctx context.Context) {
	deliveries, err := s.mq.Consume(rabbitmq.USER_UPDATED_QUEUE)
	if err != nil {
		s.logger.Sugar().Errorf("failed to consume from queue(%s): %s", rabbitmq.USER_UPDATED_QUEUE, err.Error())
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}

			var msg dto.MQUserUpdatedMsg
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				s.logger.Sugar().Errorf("failed to unmarshal user updated message: %s", err.Error())
				d.Nack(false, false)
				continue
			}

			if err := s.repo.Postgres.UserCache.Update(ctx, msg.ID, msg.Updates); err != nil {
				s.logger.Sugar().Errorf("failed to update user(%s): %s", msg.ID.String(), err.Error())
				d.Nack(false, true)
				continue
			}

			if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserCacheKey(msg.ID.String())).Err(); err != nil {
				s.logger.Sugar().Errorf("failed to invalidate user(%s) cache: %s", msg.ID.String(), err.Error())
			}

			d.Ack(false)
		}
	}
}
