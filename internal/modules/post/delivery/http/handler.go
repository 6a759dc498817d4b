package handler

import (
	"net/http"

	postDto "anoa.com/squadhub/internal/modules/post/dto"
	post "anoa.com/squadhub/internal/modules/post/service"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/dto"
	"anoa.com/squadhub/pkg/response"
	"anoa.com/squadhub/pkg/validator"
	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	service post.PostService
}

func NewPostHandler(service post.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req postDto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.InvalidInput(validator.FormatValidationError(err)))
		return
	}

	resp, err := h.service.CreatePost(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *PostHandler) GetPostByID(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	postID, err := response.ParamUUID(c, "post_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.service.GetPostByID(c.Request.Context(), postID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PostHandler) CreateComment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	postID, err := response.ParamUUID(c, "post_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req postDto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.InvalidInput(validator.FormatValidationError(err)))
		return
	}

	resp, err := h.service.CreateComment(c.Request.Context(), userID, postID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *PostHandler) GetComments(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	postID, err := response.ParamUUID(c, "post_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.InvalidInput(validator.FormatValidationError(err)))
		return
	}

	resp, err := h.service.GetComments(c.Request.Context(), postID, userID, query)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
