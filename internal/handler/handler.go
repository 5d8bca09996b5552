package handler

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/BloggingApp/feed-service/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type Handler struct {
	services *service.Service
}

func New(services *service.Service) *Handler {
	return &Handler{
		services: services,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.GET("", h.postsGlobalFeed)
			posts.POST("", h.authMiddleware, h.postsCreate)
		}

		groups := v1.Group("/groups")
		{
			groups.GET("", h.groupsList)
			groups.POST("", h.authMiddleware, h.groupsCreate)
			groups.GET("/:slug/posts", h.groupsFeed)
		}

		users := v1.Group("/users/:username")
		{
			users.GET("/posts", h.notRequiredAuthMiddleware, h.postsProfileFeed)
			users.GET("/posts/:postID", h.postsGetByID)
			users.PATCH("/posts/:postID", h.authMiddleware, h.postsEdit)
			users.POST("/posts/:postID/comments", h.authMiddleware, h.commentsCreate)
			users.POST("/follow", h.authMiddleware, h.followsCreate)
			users.DELETE("/follow", h.authMiddleware, h.followsDelete)
		}

		v1.GET("/feed", h.authMiddleware, h.postsFollowFeed)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, "page not found"))
	})

	return r
}

func (h *Handler) getUserDataFromClaims(ctx context.Context, claims jwt.MapClaims) (*model.CachedUser, error) {
	idString, ok := claims["id"].(string)
	if !ok {
		return nil, errNotAuthorized
	}

	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, err
	}

	user, err := h.services.UserCache.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (h *Handler) getUserDataFromAccessTokenClaims(ctx context.Context, accessToken string) (*model.CachedUser, error) {
	claims, err := utils.DecodeJWT(accessToken, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		return nil, err
	}

	return h.getUserDataFromClaims(ctx, claims)
}

func (h *Handler) getUserFromRequest(c *gin.Context) *model.CachedUser {
	userReq, _ := c.Get("user")

	user, ok := userReq.(model.CachedUser)
	if !ok {
		return nil
	}

	return &user
}

// pageFromQuery mirrors paginator semantics: a missing or malformed page
// parameter falls back to the first page.
func pageFromQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
