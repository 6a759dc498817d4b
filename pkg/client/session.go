package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"anoa.com/squadhub/internal/entity"
	attendanceDto "anoa.com/squadhub/internal/modules/attendance/dto"
	notifDto "anoa.com/squadhub/internal/modules/notification/dto"
	profileDto "anoa.com/squadhub/internal/modules/profile/dto"
	relationDto "anoa.com/squadhub/internal/modules/relation/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// StartOptions are registered with the profile when a session starts.
type StartOptions struct {
	Language    string
	DeviceToken string
}

// Session carries one signed-in user's credential and state between Start and End. Every
// mutation of its Store comes from a confirmed server response.
type Session struct {
	client *Client
	store  *Store

	mu       sync.RWMutex
	token    string
	subject  uuid.UUID
	language string
}

func (c *Client) NewSession() *Session {
	return &Session{client: c, store: NewStore()}
}

func (s *Session) Store() *Store {
	return s.store
}

func (s *Session) Subject() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subject
}

func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *Session) auth() requestAuth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return requestAuth{token: s.token, language: s.language}
}

// Start adopts token, registers the device and language, then loads the unread count and settings.
// The token signature is checked by the server; here only its subject is read.
func (s *Session) Start(ctx context.Context, token string, opts StartOptions) error {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return errors.Wrap(ErrAuthenticationRequired, "malformed session token")
	}
	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return errors.Wrap(ErrAuthenticationRequired, "session token has no user subject")
	}

	s.mu.Lock()
	s.token = token
	s.subject = subject
	s.language = opts.Language
	s.mu.Unlock()

	if opts.Language != "" || opts.DeviceToken != "" {
		input := profileDto.UpdateProfileInput{}
		if opts.Language != "" {
			input.Language = &opts.Language
		}
		if opts.DeviceToken != "" {
			input.FCMToken = &opts.DeviceToken
		}
		if err := s.client.do(ctx, s.auth(), http.MethodPut, "/profile/me", input, nil); err != nil {
			s.End()
			return err
		}
	}

	if err := s.Refresh(ctx); err != nil {
		s.End()
		return err
	}
	return nil
}

// End drops the credential and clears all derived state.
func (s *Session) End() {
	s.mu.Lock()
	s.token = ""
	s.subject = uuid.Nil
	s.language = ""
	s.mu.Unlock()

	s.store.Dispatch(SessionEnded{})
}

// Refresh reloads the unread count and settings.
func (s *Session) Refresh(ctx context.Context) error {
	if _, err := s.UnreadCount(ctx); err != nil {
		return err
	}
	_, err := s.Settings(ctx)
	return err
}

func (s *Session) Notifications(ctx context.Context, page, limit int) (*notifDto.NotificationListResponse, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	path := "/notifications"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out notifDto.NotificationListResponse
	if err := s.client.do(ctx, s.auth(), http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	s.store.Dispatch(NotificationsLoaded{Items: out.Data})
	return &out, nil
}

func (s *Session) UnreadCount(ctx context.Context) (int64, error) {
	var out notifDto.UnreadCountResponse
	if err := s.client.do(ctx, s.auth(), http.MethodGet, "/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	s.store.Dispatch(UnreadCountLoaded{Count: out.Count})
	return out.Count, nil
}

// MarkAsRead marks id read and reloads the unread count once the server confirms.
func (s *Session) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	body := notifDto.MarkReadRequest{NotificationID: id}
	if err := s.client.do(ctx, s.auth(), http.MethodPost, "/notifications/mark-read", body, nil); err != nil {
		return err
	}
	s.store.Dispatch(NotificationRead{ID: id})

	// The read item may not be loaded locally, so the count comes from the server.
	_, err := s.UnreadCount(ctx)
	return err
}

func (s *Session) MarkAllAsRead(ctx context.Context) error {
	if err := s.client.do(ctx, s.auth(), http.MethodPost, "/notifications/mark-all-read", struct{}{}, nil); err != nil {
		return err
	}
	s.store.Dispatch(AllNotificationsRead{})
	return nil
}

func (s *Session) Settings(ctx context.Context) (*entity.NotificationSettings, error) {
	var out entity.NotificationSettings
	if err := s.client.do(ctx, s.auth(), http.MethodGet, "/notifications/settings", nil, &out); err != nil {
		return nil, err
	}
	s.store.Dispatch(SettingsLoaded{Settings: out})
	return &out, nil
}

// UpdateSettings sends only the keys set in patch; the server keeps the rest.
func (s *Session) UpdateSettings(ctx context.Context, patch entity.NotificationSettingsPatch) (*entity.NotificationSettings, error) {
	var out entity.NotificationSettings
	if err := s.client.do(ctx, s.auth(), http.MethodPut, "/notifications/settings", patch, &out); err != nil {
		return nil, err
	}
	s.store.Dispatch(SettingsLoaded{Settings: out})
	return &out, nil
}

func (s *Session) Toggle(ctx context.Context, targetID uuid.UUID, kind entity.RelationKind) (*relationDto.ToggleResponse, error) {
	actorID := s.Subject()
	body := relationDto.ToggleRequest{ActorID: &actorID, TargetID: targetID, Kind: kind}

	var out relationDto.ToggleResponse
	if err := s.client.do(ctx, s.auth(), http.MethodPost, "/relations/toggle", body, &out); err != nil {
		return nil, err
	}
	s.store.Dispatch(RelationToggled{Kind: kind, TargetID: targetID, Active: out.Active})
	return &out, nil
}

func (s *Session) SetAttendance(ctx context.Context, trainingID, playerID uuid.UUID, status entity.AttendanceStatus) (*attendanceDto.AttendanceResponse, error) {
	path := fmt.Sprintf("/attendance/%s/%s", trainingID, playerID)
	body := attendanceDto.SetStatusRequest{Status: status}

	var out attendanceDto.AttendanceResponse
	if err := s.client.do(ctx, s.auth(), http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
