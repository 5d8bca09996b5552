package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) postsGlobalFeed(c *gin.Context) {
	feed, err := h.services.Post.GetGlobalFeed(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *Handler) postsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), user.ID, input, formImage(c))
	if err != nil {
		respondServiceError(c, err, input)
		return
	}

	c.JSON(http.StatusCreated, *createdPost)
}

func (h *Handler) postsProfileFeed(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))

	var viewerID *uuid.UUID
	if user := h.getUserFromRequest(c); user != nil {
		viewerID = &user.ID
	}

	profile, err := h.services.Post.GetProfileFeed(c.Request.Context(), username, viewerID, pageFromQuery(c))
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) postsGetByID(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))

	postID, err := postIDFromParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	post, err := h.services.Post.GetPost(c.Request.Context(), username, postID)
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsEdit(c *gin.Context) {
	user := h.getUserFromRequest(c)
	username := strings.TrimSpace(c.Param("username"))

	postID, err := postIDFromParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	var input dto.EditPostRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	updatedPost, err := h.services.Post.Update(c.Request.Context(), username, postID, user.ID, input, formImage(c))
	if err != nil {
		respondServiceError(c, err, input)
		return
	}

	c.JSON(http.StatusOK, *updatedPost)
}

func (h *Handler) postsFollowFeed(c *gin.Context) {
	user := h.getUserFromRequest(c)

	feed, err := h.services.Post.GetFollowFeed(c.Request.Context(), user.ID, pageFromQuery(c))
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, feed)
}

func postIDFromParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(c.Param("postID")), 10, 64)
}

func formImage(c *gin.Context) *multipart.FileHeader {
	file, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return file
}
