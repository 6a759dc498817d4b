package service

import (
	"context"
	"encoding/json"
	"time"

	"anoa.com/squadhub/internal/entity"
	notifDto "anoa.com/squadhub/internal/modules/notification/dto"
	notifRepo "anoa.com/squadhub/internal/modules/notification/repository"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/dto"
	"anoa.com/squadhub/pkg/push"
	"anoa.com/squadhub/pkg/sanitize"
	"anoa.com/squadhub/pkg/timeago"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

const maxTitleLength = 197

// Publisher delivers a serialized notification to the recipient's live connections.
type Publisher interface {
	Publish(ctx context.Context, recipientID uuid.UUID, payload []byte) error
}

// Pusher delivers a push message to a device.
type Pusher interface {
	Send(ctx context.Context, msg push.Message) error
}

// DeviceDirectory resolves registered push tokens. Users without one are absent from the map.
type DeviceDirectory interface {
	DeviceTokens(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

// NotifyInput describes one event fanned out to several recipients. A nil SenderID marks a
// system-originated event.
type NotifyInput struct {
	SenderID   *uuid.UUID
	Recipients []uuid.UUID
	Kind       entity.NotificationKind
	Title      string
	Message    string
	TargetID   *uuid.UUID
	TargetKind *entity.TargetKind
}

type NotificationService interface {
	Notify(ctx context.Context, input NotifyInput) ([]entity.Notification, error)
	List(ctx context.Context, recipientID uuid.UUID, query dto.PageQuery, tag language.Tag) (*notifDto.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
	GetSettings(ctx context.Context, userID uuid.UUID) (*entity.NotificationSettings, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, patch entity.NotificationSettingsPatch) (*entity.NotificationSettings, error)
}

type notificationService struct {
	repo      notifRepo.NotificationRepository
	publisher Publisher
	pusher    Pusher
	devices   DeviceDirectory
	now       func() time.Time
}

// NewNotificationService wires the store with realtime and push delivery. publisher and pusher may
// be nil, which disables that channel.
func NewNotificationService(repo notifRepo.NotificationRepository, publisher Publisher, pusher Pusher, devices DeviceDirectory) NotificationService {
	return &notificationService{
		repo:      repo,
		publisher: publisher,
		pusher:    pusher,
		devices:   devices,
		now:       time.Now,
	}
}

func (s *notificationService) Notify(ctx context.Context, input NotifyInput) ([]entity.Notification, error) {
	if !input.Kind.Valid() {
		return nil, apperror.InvalidInput("unknown notification kind")
	}

	title := sanitize.Truncate(sanitize.Text(input.Title), maxTitleLength)
	if title == "" {
		return nil, apperror.InvalidInput("notification title is required")
	}
	message := sanitize.Text(input.Message)

	recipients := uniqueRecipients(input.Recipients, input.SenderID)
	if len(recipients) == 0 {
		return []entity.Notification{}, nil
	}

	createdAt := s.now().UTC()
	rows := make([]*entity.Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, errors.Wrap(err, "unable to generate a notification id")
		}
		rows = append(rows, &entity.Notification{
			ID:          id,
			RecipientID: recipientID,
			SenderID:    input.SenderID,
			Kind:        input.Kind,
			Title:       title,
			Message:     message,
			TargetID:    input.TargetID,
			TargetKind:  input.TargetKind,
			CreatedAt:   createdAt,
		})
	}

	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		return nil, err
	}

	s.deliver(ctx, rows)

	created := make([]entity.Notification, 0, len(rows))
	for _, row := range rows {
		created = append(created, *row)
	}
	return created, nil
}

// deliver publishes each stored row and pushes it where the recipient's settings allow. Failures
// here never undo the stored notification.
func (s *notificationService) deliver(ctx context.Context, rows []*entity.Notification) {
	now := s.now()

	if s.publisher != nil {
		for _, n := range rows {
			payload, err := json.Marshal(notifDto.ToNotificationResponse(*n, now, timeago.Default))
			if err != nil {
				logrus.WithError(err).WithField("notification_id", n.ID).Error("unable to encode notification")
				continue
			}
			if err := s.publisher.Publish(ctx, n.RecipientID, payload); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"recipient_id": n.RecipientID,
					"kind":         n.Kind,
				}).Warn("realtime publish failed")
			}
		}
	}

	if s.pusher == nil || s.devices == nil {
		return
	}

	recipientIDs := make([]uuid.UUID, 0, len(rows))
	for _, n := range rows {
		recipientIDs = append(recipientIDs, n.RecipientID)
	}

	tokens, err := s.devices.DeviceTokens(ctx, recipientIDs)
	if err != nil {
		logrus.WithError(err).Warn("unable to resolve device tokens")
		return
	}
	if len(tokens) == 0 {
		return
	}

	settings, err := s.repo.FindSettings(ctx, recipientIDs)
	if err != nil {
		logrus.WithError(err).Warn("unable to load notification settings for push")
		return
	}

	for _, n := range rows {
		token := tokens[n.RecipientID]
		if token == "" {
			continue
		}
		prefs, ok := settings[n.RecipientID]
		if !ok {
			prefs = entity.DefaultNotificationSettings(n.RecipientID)
		}
		if !prefs.Allows(n.Kind) {
			continue
		}

		if err := s.pusher.Send(ctx, pushMessage(n, token)); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"recipient_id": n.RecipientID,
				"kind":         n.Kind,
			}).Warn("push delivery failed")
		}
	}
}

func pushMessage(n *entity.Notification, token string) push.Message {
	data := map[string]string{
		"notification_id": n.ID.String(),
		"kind":            string(n.Kind),
	}
	if n.TargetID != nil {
		data["target_id"] = n.TargetID.String()
	}
	if n.TargetKind != nil {
		data["target_kind"] = string(*n.TargetKind)
	}
	return push.Message{
		Token: token,
		Title: n.Title,
		Body:  n.Message,
		Data:  data,
	}
}

// uniqueRecipients keeps first occurrences in order and drops the sender and nil ids.
func uniqueRecipients(recipients []uuid.UUID, sender *uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(recipients))
	out := make([]uuid.UUID, 0, len(recipients))
	for _, id := range recipients {
		if id == uuid.Nil {
			continue
		}
		if sender != nil && id == *sender {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *notificationService) List(ctx context.Context, recipientID uuid.UUID, query dto.PageQuery, tag language.Tag) (*notifDto.NotificationListResponse, error) {
	query = query.Normalize()

	items, total, err := s.repo.ListByRecipient(ctx, recipientID, query.Limit, query.Offset())
	if err != nil {
		return nil, err
	}

	now := s.now()
	data := make([]notifDto.NotificationResponse, 0, len(items))
	for _, n := range items {
		data = append(data, notifDto.ToNotificationResponse(n, now, tag))
	}

	return &notifDto.NotificationListResponse{
		Data: data,
		Meta: dto.NewPaginationMeta(query, total),
	}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id, recipientID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

// GetSettings returns the stored settings or the defaults. It never creates a row.
func (s *notificationService) GetSettings(ctx context.Context, userID uuid.UUID) (*entity.NotificationSettings, error) {
	found, err := s.repo.FindSettings(ctx, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if settings, ok := found[userID]; ok {
		return &settings, nil
	}
	defaults := entity.DefaultNotificationSettings(userID)
	return &defaults, nil
}

func (s *notificationService) UpdateSettings(ctx context.Context, userID uuid.UUID, patch entity.NotificationSettingsPatch) (*entity.NotificationSettings, error) {
	if patch.Empty() {
		return s.GetSettings(ctx, userID)
	}
	return s.repo.UpdateSettings(ctx, userID, patch)
}
