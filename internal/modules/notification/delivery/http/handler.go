package handler

import (
	"net/http"

	"anoa.com/squadhub/internal/entity"
	notifDto "anoa.com/squadhub/internal/modules/notification/dto"
	notifService "anoa.com/squadhub/internal/modules/notification/service"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/dto"
	"anoa.com/squadhub/pkg/response"
	"anoa.com/squadhub/pkg/timeago"
	"anoa.com/squadhub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type NotificationHandler struct {
	service     notifService.NotificationService
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

func NewNotificationHandler(service notifService.NotificationService, redisClient *redis.Client) *NotificationHandler {
	return &NotificationHandler{
		service:     service,
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser origins are enforced by the CORS layer and the token check.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.InvalidInput(validator.FormatValidationError(err)))
		return
	}

	tag := timeago.Match(c.Query("lang"), c.GetHeader("Accept-Language"))
	resp, err := h.service.List(c.Request.Context(), userID, query, tag)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, notifDto.UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req notifDto.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.InvalidInput(validator.FormatValidationError(err)))
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), req.NotificationID, userID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, notifDto.MarkReadResponse{Success: true})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.service.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, notifDto.MarkAllReadResponse{Success: true, Updated: updated})
}

func (h *NotificationHandler) GetSettings(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	settings, err := h.service.GetSettings(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var patch entity.NotificationSettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, apperror.InvalidInput("settings must be an object of boolean toggles"))
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), userID, patch)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Stream upgrades to a websocket and forwards every notification published for the caller until
// either side goes away.
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.redisClient == nil {
		response.Error(c, apperror.New(http.StatusServiceUnavailable, apperror.CodeBackendUnavailable, "realtime updates are unavailable", apperror.ErrBackend))
		return
	}

	ctx := c.Request.Context()
	pubsub := h.redisClient.Subscribe(ctx, notifService.ChannelFor(userID))
	defer pubsub.Close()

	// Wait for confirmation that subscription is created
	if _, err := pubsub.Receive(ctx); err != nil {
		response.Error(c, apperror.Backend(err))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("failed to upgrade websocket")
		return
	}
	defer conn.Close()

	log := logrus.WithField("user_id", userID)
	ch := pubsub.Channel()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.WithError(err).Debug("websocket write failed")
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
