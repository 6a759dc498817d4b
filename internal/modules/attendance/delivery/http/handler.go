package handler

import (
	"net/http"

	attendanceDto "anoa.com/squadhub/internal/modules/attendance/dto"
	attendance "anoa.com/squadhub/internal/modules/attendance/service"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/response"
	"anoa.com/squadhub/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	service attendance.AttendanceService
}

func NewAttendanceHandler(service attendance.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

func (h *AttendanceHandler) CreateTraining(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	clubID, err := response.ParamUUID(c, "club_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req attendanceDto.CreateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.InvalidInput(validator.FormatValidationError(err)))
		return
	}

	resp, err := h.service.CreateTraining(c.Request.Context(), userID, clubID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AttendanceHandler) SetStatus(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	trainingID, err := response.ParamUUID(c, "training_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	playerID, err := response.ParamUUID(c, "player_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req attendanceDto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.InvalidInput(validator.FormatValidationError(err)))
		return
	}

	resp, err := h.service.SetStatus(c.Request.Context(), userID, trainingID, playerID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AttendanceHandler) Summary(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	trainingID, err := response.ParamUUID(c, "training_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.service.Summary(c.Request.Context(), userID, trainingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
