package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errNotAuthorized = errors.New("user is not authorized")
	errInvalidPostID = errors.New("invalid post ID")
)

// respondServiceError maps service sentinels onto HTTP statuses; input (when
// non-nil) is echoed back with validation failures for redisplay.
func respondServiceError(c *gin.Context, err error, input interface{}) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, dto.NewValidationResponse(validationErr.Field, validationErr.Message, input))
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, err.Error()))
	case errors.Is(err, service.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, dto.NewValidationResponse("author", err.Error(), input))
	case errors.Is(err, service.ErrNotPostAuthor):
		c.JSON(http.StatusForbidden, dto.NewBasicResponse(false, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
	}
}
