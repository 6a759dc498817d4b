package club

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/squadhub/internal/entity"
	clubDto "anoa.com/squadhub/internal/modules/club/dto"
	notifService "anoa.com/squadhub/internal/modules/notification/service"
	"anoa.com/squadhub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memberKey struct {
	club, user uuid.UUID
}

type memoryClubs struct {
	clubs   map[uuid.UUID]*entity.Club
	members map[memberKey]*entity.ClubMember
	order   []memberKey
	matches map[uuid.UUID]*entity.Match
	players []*entity.Player
}

func newMemoryClubs() *memoryClubs {
	return &memoryClubs{
		clubs:   map[uuid.UUID]*entity.Club{},
		members: map[memberKey]*entity.ClubMember{},
		matches: map[uuid.UUID]*entity.Match{},
	}
}

func (r *memoryClubs) CreateClub(ctx context.Context, club *entity.Club) error {
	club.ID = uuid.New()
	r.clubs[club.ID] = club
	return r.UpsertMember(ctx, &entity.ClubMember{ClubID: club.ID, UserID: club.CreatedBy, Role: entity.ClubRoleAdmin})
}

func (r *memoryClubs) FindClub(_ context.Context, id uuid.UUID) (*entity.Club, error) {
	c, ok := r.clubs[id]
	if !ok {
		return nil, apperror.NotFound(apperror.CodeClubNotFound, "club not found")
	}
	return c, nil
}

func (r *memoryClubs) FindMember(_ context.Context, clubID, userID uuid.UUID) (*entity.ClubMember, error) {
	return r.members[memberKey{clubID, userID}], nil
}

func (r *memoryClubs) UpsertMember(_ context.Context, m *entity.ClubMember) error {
	key := memberKey{m.ClubID, m.UserID}
	if _, ok := r.members[key]; !ok {
		r.order = append(r.order, key)
	}
	r.members[key] = m
	return nil
}

func (r *memoryClubs) MemberIDs(_ context.Context, clubID uuid.UUID, roles ...string) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, key := range r.order {
		if key.club != clubID {
			continue
		}
		m := r.members[key]
		if len(roles) == 0 || contains(roles, m.Role) {
			out = append(out, m.UserID)
		}
	}
	return out, nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func (r *memoryClubs) CreateMatch(_ context.Context, m *entity.Match) error {
	m.ID = uuid.New()
	r.matches[m.ID] = m
	return nil
}

func (r *memoryClubs) FindMatch(_ context.Context, id uuid.UUID) (*entity.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, apperror.NotFound(apperror.CodeMatchNotFound, "match not found")
	}
	copied := *m
	return &copied, nil
}

func (r *memoryClubs) UpdateMatchState(_ context.Context, m *entity.Match) error {
	stored := *m
	r.matches[m.ID] = &stored
	return nil
}

func (r *memoryClubs) CreatePlayer(_ context.Context, p *entity.Player) error {
	p.ID = uuid.New()
	r.players = append(r.players, p)
	return nil
}

type staticFollowers map[uuid.UUID][]uuid.UUID

func (f staticFollowers) Actors(_ context.Context, targetID uuid.UUID, _ entity.RelationKind) ([]uuid.UUID, error) {
	return f[targetID], nil
}

type names map[uuid.UUID]string

func (n names) DisplayName(_ context.Context, id uuid.UUID) string {
	if name, ok := n[id]; ok {
		return name
	}
	return "Someone"
}

type recordingNotifier struct {
	notifService.NotificationService
	inputs []notifService.NotifyInput
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, input notifService.NotifyInput) ([]entity.Notification, error) {
	if n.err != nil {
		return nil, n.err
	}
	n.inputs = append(n.inputs, input)
	created := make([]entity.Notification, len(input.Recipients))
	return created, nil
}

type fixture struct {
	repo     *memoryClubs
	notifier *recordingNotifier
	svc      ClubService
	admin    uuid.UUID
	club     *clubDto.ClubResponse
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     newMemoryClubs(),
		notifier: &recordingNotifier{},
		admin:    uuid.New(),
	}
	f.svc = NewClubService(f.repo, staticFollowers{}, names{}, f.notifier, nil, 0)

	club, err := f.svc.CreateClub(context.Background(), f.admin, clubDto.CreateClubRequest{Name: "Riverside FC"})
	require.NoError(t, err)
	f.club = club
	return f
}

func (f *fixture) addMember(t *testing.T, role string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := f.svc.AddMember(context.Background(), f.admin, f.club.ID, clubDto.AddMemberRequest{UserID: id, Role: role})
	require.NoError(t, err)
	return id
}

func TestCreateClubMakesCreatorAdmin(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, entity.ClubRoleAdmin, f.club.Role)
	member, _ := f.repo.FindMember(context.Background(), f.club.ID, f.admin)
	require.NotNil(t, member)
	assert.Equal(t, entity.ClubRoleAdmin, member.Role)

	_, err := f.svc.CreateClub(context.Background(), f.admin, clubDto.CreateClubRequest{Name: "<b></b>"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestAddMemberRequiresAdmin(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t)
	coach := f.addMember(t, entity.ClubRoleCoach)

	_, err := f.svc.AddMember(context.Background(), coach, f.club.ID, clubDto.AddMemberRequest{UserID: uuid.New(), Role: entity.ClubRolePlayer})
	assert.ErrorIs(err, apperror.ErrForbidden)

	_, err = f.svc.AddMember(context.Background(), uuid.New(), f.club.ID, clubDto.AddMemberRequest{UserID: uuid.New(), Role: entity.ClubRoleFan})
	assert.ErrorIs(err, apperror.ErrForbidden)

	_, err = f.svc.AddMember(context.Background(), f.admin, f.club.ID, clubDto.AddMemberRequest{UserID: f.admin, Role: entity.ClubRoleFan})
	assert.ErrorIs(err, apperror.ErrInvalidInput)

	_, err = f.svc.AddMember(context.Background(), f.admin, uuid.New(), clubDto.AddMemberRequest{UserID: uuid.New(), Role: entity.ClubRoleFan})
	assert.Equal(apperror.CodeClubNotFound, apperror.CodeOf(err))
}

func TestPublishNewsFansOutWithoutSender(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t)
	player := f.addMember(t, entity.ClubRolePlayer)
	fan := f.addMember(t, entity.ClubRoleFan)

	resp, err := f.svc.PublishNews(context.Background(), f.admin, f.club.ID, clubDto.PublishNewsRequest{Title: "Kit launch", Message: "New home kit on sale"})
	require.NoError(t, err)
	assert.Equal(2, resp.Recipients)

	require.Len(t, f.notifier.inputs, 1)
	input := f.notifier.inputs[0]
	assert.Nil(input.SenderID)
	assert.Equal(entity.KindClubNews, input.Kind)
	assert.Equal([]uuid.UUID{player, fan}, input.Recipients)
	assert.Equal(f.club.ID, *input.TargetID)
	assert.Equal(entity.TargetClub, *input.TargetKind)
}

func TestPublishNewsForbiddenForPlayers(t *testing.T) {
	f := newFixture(t)
	player := f.addMember(t, entity.ClubRolePlayer)

	_, err := f.svc.PublishNews(context.Background(), player, f.club.ID, clubDto.PublishNewsRequest{Title: "x", Message: "y"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, f.notifier.inputs)
}

func TestPublishNewsSurfacesStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = apperror.Backend(errors.New("connection reset"))

	_, err := f.svc.PublishNews(context.Background(), f.admin, f.club.ID, clubDto.PublishNewsRequest{Title: "x", Message: "y"})
	assert.ErrorIs(t, err, apperror.ErrBackend)
}

func TestPostMatchUpdate(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t)
	coach := f.addMember(t, entity.ClubRoleCoach)
	player := f.addMember(t, entity.ClubRolePlayer)

	match, err := f.svc.CreateMatch(context.Background(), coach, f.club.ID, clubDto.CreateMatchRequest{
		Opponent:  "Harbour Town",
		KickoffAt: time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(entity.MatchScheduled, match.Status)

	home, status := 2, entity.MatchLive
	updated, err := f.svc.PostMatchUpdate(context.Background(), coach, match.ID, clubDto.MatchUpdateRequest{HomeScore: &home, Status: &status})
	require.NoError(t, err)
	assert.Equal(2, updated.HomeScore)
	assert.Equal(0, updated.AwayScore)
	assert.Equal(entity.MatchLive, updated.Status)

	require.Len(t, f.notifier.inputs, 1)
	input := f.notifier.inputs[0]
	assert.Nil(input.SenderID)
	assert.Equal(entity.KindMatchUpdate, input.Kind)
	assert.Equal([]uuid.UUID{f.admin, player}, input.Recipients)
	assert.Equal("Riverside FC 2 - 0 Harbour Town (live)", input.Message)
	assert.Equal(entity.TargetMatch, *input.TargetKind)
}

func TestPostMatchUpdateValidation(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t)
	fan := f.addMember(t, entity.ClubRoleFan)

	_, err := f.svc.PostMatchUpdate(context.Background(), f.admin, uuid.New(), clubDto.MatchUpdateRequest{})
	assert.ErrorIs(err, apperror.ErrInvalidInput)

	away := 1
	_, err = f.svc.PostMatchUpdate(context.Background(), f.admin, uuid.New(), clubDto.MatchUpdateRequest{AwayScore: &away})
	assert.Equal(apperror.CodeMatchNotFound, apperror.CodeOf(err))

	match, err := f.svc.CreateMatch(context.Background(), f.admin, f.club.ID, clubDto.CreateMatchRequest{Opponent: "Harbour Town", KickoffAt: time.Now()})
	require.NoError(t, err)
	_, err = f.svc.PostMatchUpdate(context.Background(), fan, match.ID, clubDto.MatchUpdateRequest{AwayScore: &away})
	assert.ErrorIs(err, apperror.ErrForbidden)
	assert.Empty(f.notifier.inputs)
}

func TestPostMatchUpdateKeepsScoreWhenFanOutFails(t *testing.T) {
	f := newFixture(t)
	match, err := f.svc.CreateMatch(context.Background(), f.admin, f.club.ID, clubDto.CreateMatchRequest{Opponent: "Harbour Town", KickoffAt: time.Now()})
	require.NoError(t, err)
	f.notifier.err = errors.New("redis down")

	home := 3
	resp, err := f.svc.PostMatchUpdate(context.Background(), f.admin, match.ID, clubDto.MatchUpdateRequest{HomeScore: &home})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.HomeScore)
	assert.Equal(t, 3, f.repo.matches[match.ID].HomeScore)
}

func TestListPlayerNotifiesFollowers(t *testing.T) {
	assert := assert.New(t)
	owner, follower := uuid.New(), uuid.New()
	notifier := &recordingNotifier{}
	svc := NewClubService(newMemoryClubs(), staticFollowers{owner: {follower}}, names{owner: "scout_9"}, notifier, nil, 0)

	resp, err := svc.ListPlayer(context.Background(), owner, clubDto.ListPlayerRequest{Name: "J. Silva", Position: "ST", MarketValue: 1500000})
	require.NoError(t, err)
	assert.Equal("J. Silva", resp.Name)

	require.Len(t, notifier.inputs, 1)
	input := notifier.inputs[0]
	assert.Equal(entity.KindMarketActivity, input.Kind)
	assert.Equal(owner, *input.SenderID)
	assert.Equal([]uuid.UUID{follower}, input.Recipients)
	assert.Equal("scout_9 listed J. Silva", input.Message)
	assert.Equal(resp.ID, *input.TargetID)
}

func TestListPlayerWithoutFollowersStaysQuiet(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewClubService(newMemoryClubs(), staticFollowers{}, names{}, notifier, nil, 0)

	_, err := svc.ListPlayer(context.Background(), uuid.New(), clubDto.ListPlayerRequest{Name: "J. Silva"})
	require.NoError(t, err)
	assert.Empty(t, notifier.inputs)
}
