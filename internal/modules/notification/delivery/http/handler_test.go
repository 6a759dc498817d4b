package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/squadhub/internal/entity"
	notifDto "anoa.com/squadhub/internal/modules/notification/dto"
	notifService "anoa.com/squadhub/internal/modules/notification/service"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/dto"
	"anoa.com/squadhub/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type stubService struct {
	notifService.NotificationService

	markErr   error
	marked    []uuid.UUID
	markedAll int64
	unread    int64
	patch     entity.NotificationSettingsPatch
	listQuery dto.PageQuery
	listTag   language.Tag
}

func (s *stubService) MarkAsRead(_ context.Context, id, _ uuid.UUID) error {
	s.marked = append(s.marked, id)
	return s.markErr
}

func (s *stubService) MarkAllAsRead(context.Context, uuid.UUID) (int64, error) {
	return s.markedAll, nil
}

func (s *stubService) UnreadCount(context.Context, uuid.UUID) (int64, error) {
	return s.unread, nil
}

func (s *stubService) List(_ context.Context, _ uuid.UUID, q dto.PageQuery, tag language.Tag) (*notifDto.NotificationListResponse, error) {
	s.listQuery, s.listTag = q, tag
	return &notifDto.NotificationListResponse{Data: []notifDto.NotificationResponse{}}, nil
}

func (s *stubService) UpdateSettings(_ context.Context, userID uuid.UUID, patch entity.NotificationSettingsPatch) (*entity.NotificationSettings, error) {
	s.patch = patch
	settings := entity.DefaultNotificationSettings(userID)
	settings.Apply(patch)
	return &settings, nil
}

func newTestRouter(svc notifService.NotificationService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewNotificationHandler(svc, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(response.UserIDKey, userID.String())
		c.Next()
	})
	r.GET("/notifications", h.GetNotifications)
	r.GET("/notifications/unread-count", h.UnreadCount)
	r.POST("/notifications/mark-read", h.MarkAsRead)
	r.POST("/notifications/mark-all-read", h.MarkAllAsRead)
	r.PUT("/notifications/settings", h.UpdateSettings)
	r.GET("/notifications/ws", h.Stream)
	return r
}

func perform(r *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMarkAsReadHandler(t *testing.T) {
	svc := &stubService{}
	id := uuid.New()

	w := perform(newTestRouter(svc, uuid.New()), http.MethodPost, "/notifications/mark-read", `{"notification_id":"`+id.String()+`"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, []uuid.UUID{id}, svc.marked)
}

func TestMarkAllAsReadHandler(t *testing.T) {
	w := perform(newTestRouter(&stubService{markedAll: 4}, uuid.New()), http.MethodPost, "/notifications/mark-all-read", `{}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"updated":4}`, w.Body.String())
}

func TestMarkAsReadHandlerNotFound(t *testing.T) {
	svc := &stubService{markErr: apperror.NotFound(apperror.CodeNotificationNotFound, "notification not found")}

	w := perform(newTestRouter(svc, uuid.New()), http.MethodPost, "/notifications/mark-read", `{"notification_id":"`+uuid.NewString()+`"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeNotificationNotFound, body["code"])
}

func TestMarkAsReadHandlerRequiresID(t *testing.T) {
	svc := &stubService{}

	w := perform(newTestRouter(svc, uuid.New()), http.MethodPost, "/notifications/mark-read", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "notification_id is required")
	assert.Empty(t, svc.marked)
}

func TestUnreadCountHandler(t *testing.T) {
	w := perform(newTestRouter(&stubService{unread: 7}, uuid.New()), http.MethodGet, "/notifications/unread-count", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":7}`, w.Body.String())
}

func TestGetNotificationsHandlerPagingAndLanguage(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/notifications?page=2&limit=10", nil)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.PageQuery{Page: 2, Limit: 10}, svc.listQuery)
	base, _ := svc.listTag.Base()
	assert.Equal(t, "de", base.String())

	w = perform(r, http.MethodGet, "/notifications?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateSettingsHandler(t *testing.T) {
	svc := &stubService{}

	w := perform(newTestRouter(svc, uuid.New()), http.MethodPut, "/notifications/settings", `{"followers":false}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.patch.Followers)
	assert.Nil(t, svc.patch.Messages)
	assert.JSONEq(t, `{"messages":true,"followers":false,"market":true,"post_reactions":true,"match_updates":true,"club_news":true,"system":true,"updated_at":"0001-01-01T00:00:00Z"}`, w.Body.String())
}

func TestUpdateSettingsHandlerRejectsNonBoolean(t *testing.T) {
	w := perform(newTestRouter(&stubService{}, uuid.New()), http.MethodPut, "/notifications/settings", `{"followers":"off"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreamWithoutRedis(t *testing.T) {
	w := perform(newTestRouter(&stubService{}, uuid.New()), http.MethodGet, "/notifications/ws", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
