package handler

import (
	"net/http"

	"anoa.com/squadhub/internal/entity"
	relationDto "anoa.com/squadhub/internal/modules/relation/dto"
	relation "anoa.com/squadhub/internal/modules/relation/service"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/response"
	"anoa.com/squadhub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RelationHandler struct {
	service relation.RelationService
}

func NewRelationHandler(service relation.RelationService) *RelationHandler {
	return &RelationHandler{service: service}
}

func (h *RelationHandler) Toggle(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req relationDto.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.InvalidInput(validator.FormatValidationError(err)))
		return
	}

	resp, err := h.service.Toggle(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RelationHandler) Status(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var query relationDto.StatusQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.InvalidInput(validator.FormatValidationError(err)))
		return
	}

	resp, err := h.service.Status(c.Request.Context(), userID, uuid.MustParse(query.TargetID), entity.RelationKind(query.Kind))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
