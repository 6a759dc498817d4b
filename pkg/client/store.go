package client

import (
	"sync"

	"anoa.com/squadhub/internal/entity"
	notifDto "anoa.com/squadhub/internal/modules/notification/dto"
	"github.com/google/uuid"
)

// RelationKey identifies one toggle relation held by the session user.
type RelationKey struct {
	Kind     entity.RelationKind
	TargetID uuid.UUID
}

// NotificationState is everything the UI derives from confirmed server responses.
type NotificationState struct {
	Unread   int64
	Items    []notifDto.NotificationResponse
	Settings *entity.NotificationSettings
	Liked    map[RelationKey]bool
}

// Result is a confirmed server response the store can fold into its state.
type Result interface {
	result()
}

type NotificationsLoaded struct {
	Items []notifDto.NotificationResponse
}

type UnreadCountLoaded struct {
	Count int64
}

// NotificationRead marks a loaded item read. Session.MarkAsRead follows it with UnreadCountLoaded.
type NotificationRead struct {
	ID uuid.UUID
}

type AllNotificationsRead struct{}

type SettingsLoaded struct {
	Settings entity.NotificationSettings
}

type RelationToggled struct {
	Kind     entity.RelationKind
	TargetID uuid.UUID
	Active   bool
}

// SessionEnded clears everything.
type SessionEnded struct{}

func (NotificationsLoaded) result()  {}
func (UnreadCountLoaded) result()    {}
func (NotificationRead) result()     {}
func (AllNotificationsRead) result() {}
func (SettingsLoaded) result()       {}
func (RelationToggled) result()      {}
func (SessionEnded) result()         {}

// Reduce returns the state after r. It never mutates state.
func Reduce(state NotificationState, r Result) NotificationState {
	next := state.clone()

	switch r := r.(type) {
	case NotificationsLoaded:
		next.Items = append([]notifDto.NotificationResponse{}, r.Items...)

	case UnreadCountLoaded:
		next.Unread = r.Count

	case NotificationRead:
		for i := range next.Items {
			if next.Items[i].ID != r.ID || next.Items[i].IsRead {
				continue
			}
			next.Items[i].IsRead = true
			if next.Unread > 0 {
				next.Unread--
			}
		}

	case AllNotificationsRead:
		for i := range next.Items {
			next.Items[i].IsRead = true
		}
		next.Unread = 0

	case SettingsLoaded:
		settings := r.Settings
		next.Settings = &settings

	case RelationToggled:
		key := RelationKey{Kind: r.Kind, TargetID: r.TargetID}
		if r.Active {
			next.Liked[key] = true
		} else {
			delete(next.Liked, key)
		}

	case SessionEnded:
		return NotificationState{Liked: map[RelationKey]bool{}}
	}

	return next
}

func (s NotificationState) clone() NotificationState {
	out := NotificationState{
		Unread: s.Unread,
		Liked:  make(map[RelationKey]bool, len(s.Liked)),
	}
	if s.Items != nil {
		out.Items = append([]notifDto.NotificationResponse{}, s.Items...)
	}
	if s.Settings != nil {
		settings := *s.Settings
		out.Settings = &settings
	}
	for k, v := range s.Liked {
		out.Liked[k] = v
	}
	return out
}

// Store holds the current state and notifies subscribers after every dispatch.
type Store struct {
	mu          sync.RWMutex
	state       NotificationState
	subscribers []func(NotificationState)
}

func NewStore() *Store {
	return &Store{state: NotificationState{Liked: map[RelationKey]bool{}}}
}

// State returns a copy that callers may keep.
func (s *Store) State() NotificationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) Dispatch(r Result) {
	s.mu.Lock()
	s.state = Reduce(s.state, r)
	snapshot := s.state.clone()
	subscribers := append([]func(NotificationState){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

// Subscribe registers fn for state changes.
func (s *Store) Subscribe(fn func(NotificationState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
