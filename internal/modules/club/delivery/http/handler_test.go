package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	clubDto "anoa.com/squadhub/internal/modules/club/dto"
	club "anoa.com/squadhub/internal/modules/club/service"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	club.ClubService
	update clubDto.MatchUpdateRequest
}

func (s *stubService) PublishNews(_ context.Context, _, _ uuid.UUID, _ clubDto.PublishNewsRequest) (*clubDto.BroadcastResponse, error) {
	return nil, apperror.Forbidden("only coaches and admins can do this")
}

func (s *stubService) PostMatchUpdate(_ context.Context, _, matchID uuid.UUID, req clubDto.MatchUpdateRequest) (*clubDto.MatchResponse, error) {
	s.update = req
	resp := &clubDto.MatchResponse{ID: matchID}
	if req.HomeScore != nil {
		resp.HomeScore = *req.HomeScore
	}
	return resp, nil
}

func newTestRouter(svc club.ClubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewClubHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(response.UserIDKey, uuid.NewString())
		c.Next()
	})
	r.POST("/clubs/:club_id/news", h.PublishNews)
	r.POST("/matches/:match_id/updates", h.PostMatchUpdate)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostMatchUpdateHandler(t *testing.T) {
	svc := &stubService{}
	w := post(newTestRouter(svc), "/matches/"+uuid.NewString()+"/updates", `{"home_score":2,"status":"live"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"home_score":2`)
	if assert.NotNil(t, svc.update.Status) {
		assert.Equal(t, "live", *svc.update.Status)
	}
	assert.Nil(t, svc.update.AwayScore)
}

func TestPostMatchUpdateHandlerRejectsBadStatus(t *testing.T) {
	w := post(newTestRouter(&stubService{}), "/matches/"+uuid.NewString()+"/updates", `{"status":"abandoned"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"invalid_input"`)
}

func TestPublishNewsHandlerForbidden(t *testing.T) {
	w := post(newTestRouter(&stubService{}), "/clubs/"+uuid.NewString()+"/news", `{"title":"Kit launch","message":"On sale now"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"forbidden"`)
}

func TestPublishNewsHandlerMissingTitle(t *testing.T) {
	w := post(newTestRouter(&stubService{}), "/clubs/"+uuid.NewString()+"/news", `{"message":"On sale now"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
