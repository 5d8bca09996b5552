package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) groupsList(c *gin.Context) {
	groups, err := h.services.Group.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, groups)
}

func (h *Handler) groupsCreate(c *gin.Context) {
	var input dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdGroup, err := h.services.Group.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, input)
		return
	}

	c.JSON(http.StatusCreated, *createdGroup)
}

func (h *Handler) groupsFeed(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	feed, err := h.services.Post.GetGroupFeed(c.Request.Context(), slug, pageFromQuery(c))
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, feed)
}
