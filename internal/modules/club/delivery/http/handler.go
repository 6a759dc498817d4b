package handler

import (
	"net/http"

	clubDto "anoa.com/squadhub/internal/modules/club/dto"
	club "anoa.com/squadhub/internal/modules/club/service"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/response"
	"anoa.com/squadhub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClubHandler struct {
	service club.ClubService
}

func NewClubHandler(service club.ClubService) *ClubHandler {
	return &ClubHandler{service: service}
}

// bind resolves the caller and decodes the JSON body, writing the error response itself on failure.
func bind(c *gin.Context, req interface{}) (uuid.UUID, bool) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return uuid.Nil, false
	}
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperror.InvalidInput(validator.FormatValidationError(err)))
		return uuid.Nil, false
	}
	return userID, true
}

func (h *ClubHandler) CreateClub(c *gin.Context) {
	var req clubDto.CreateClubRequest
	userID, ok := bind(c, &req)
	if !ok {
		return
	}

	resp, err := h.service.CreateClub(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ClubHandler) AddMember(c *gin.Context) {
	clubID, err := response.ParamUUID(c, "club_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req clubDto.AddMemberRequest
	userID, ok := bind(c, &req)
	if !ok {
		return
	}

	resp, err := h.service.AddMember(c.Request.Context(), userID, clubID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ClubHandler) PublishNews(c *gin.Context) {
	clubID, err := response.ParamUUID(c, "club_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req clubDto.PublishNewsRequest
	userID, ok := bind(c, &req)
	if !ok {
		return
	}

	resp, err := h.service.PublishNews(c.Request.Context(), userID, clubID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ClubHandler) CreateMatch(c *gin.Context) {
	clubID, err := response.ParamUUID(c, "club_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req clubDto.CreateMatchRequest
	userID, ok := bind(c, &req)
	if !ok {
		return
	}

	resp, err := h.service.CreateMatch(c.Request.Context(), userID, clubID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ClubHandler) PostMatchUpdate(c *gin.Context) {
	matchID, err := response.ParamUUID(c, "match_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req clubDto.MatchUpdateRequest
	userID, ok := bind(c, &req)
	if !ok {
		return
	}

	resp, err := h.service.PostMatchUpdate(c.Request.Context(), userID, matchID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ClubHandler) ListPlayer(c *gin.Context) {
	var req clubDto.ListPlayerRequest
	userID, ok := bind(c, &req)
	if !ok {
		return
	}

	resp, err := h.service.ListPlayer(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
