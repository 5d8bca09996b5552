package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) followsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)
	username := strings.TrimSpace(c.Param("username"))

	follow, err := h.services.Follow.Follow(c.Request.Context(), user.ID, username)
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusCreated, *follow)
}

func (h *Handler) followsDelete(c *gin.Context) {
	user := h.getUserFromRequest(c)
	username := strings.TrimSpace(c.Param("username"))

	if err := h.services.Follow.Unfollow(c.Request.Context(), user.ID, username); err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "unfollowed"))
}
