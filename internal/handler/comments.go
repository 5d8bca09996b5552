package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)
	username := strings.TrimSpace(c.Param("username"))

	postID, err := postIDFromParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	var input dto.CreateCommentRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdComment, err := h.services.Comment.Create(c.Request.Context(), username, postID, user.ID, input)
	if err != nil {
		respondServiceError(c, err, input)
		return
	}

	c.JSON(http.StatusCreated, *createdComment)
}
