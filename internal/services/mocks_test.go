package services

import (
	"context"
	"time"

	"bridgegen/internal/models"
	"bridgegen/internal/repositories"

	"github.com/lib/pq"
)

// ===============================
// REPOSITORY MOCKS
// ===============================

type mockUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return &pq.Error{Code: "23505"}
		}
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type mockProgressRepo struct {
	stats            *models.UserStats
	statsErr         error
	achievementsHeld map[int64]bool
	badgesHeld       map[int64]bool
	activityDates    []time.Time
}

func newMockProgressRepo(stats *models.UserStats) *mockProgressRepo {
	return &mockProgressRepo{
		stats:            stats,
		achievementsHeld: make(map[int64]bool),
		badgesHeld:       make(map[int64]bool),
	}
}

func (m *mockProgressRepo) GetUserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return m.stats, nil
}

func (m *mockProgressRepo) HasAchievement(ctx context.Context, userID, achievementID int64) (bool, error) {
	return m.achievementsHeld[achievementID], nil
}

func (m *mockProgressRepo) AwardAchievement(ctx context.Context, userID, achievementID int64) (bool, error) {
	if m.achievementsHeld[achievementID] {
		return false, nil
	}
	m.achievementsHeld[achievementID] = true
	return true, nil
}

func (m *mockProgressRepo) AwardBadge(ctx context.Context, userID, badgeID int64) (bool, error) {
	if m.badgesHeld[badgeID] {
		return false, nil
	}
	m.badgesHeld[badgeID] = true
	return true, nil
}

func (m *mockProgressRepo) ListUserBadges(ctx context.Context, userID int64, sortBy string) ([]*models.UserBadge, error) {
	out := make([]*models.UserBadge, 0, len(m.badgesHeld))
	for badgeID := range m.badgesHeld {
		out = append(out, &models.UserBadge{UserID: userID, BadgeID: badgeID})
	}
	return out, nil
}

func (m *mockProgressRepo) ListUserAchievements(ctx context.Context, userID int64) ([]*models.UserAchievement, error) {
	out := make([]*models.UserAchievement, 0, len(m.achievementsHeld))
	for achievementID := range m.achievementsHeld {
		out = append(out, &models.UserAchievement{UserID: userID, AchievementID: achievementID})
	}
	return out, nil
}

func (m *mockProgressRepo) RecordActivityDate(ctx context.Context, userID int64, day time.Time) error {
	m.activityDates = append(m.activityDates, day)
	return nil
}

func (m *mockProgressRepo) BadgeHolderCounts(ctx context.Context) (map[int64]int64, error) {
	counts := make(map[int64]int64)
	for badgeID := range m.badgesHeld {
		counts[badgeID] = 1
	}
	return counts, nil
}

type mockAchievementRepo struct {
	active []*models.Achievement
}

func (m *mockAchievementRepo) Create(ctx context.Context, a *models.Achievement, badgeIDs []int64) error {
	a.ID = int64(len(m.active) + 1)
	a.BadgeIDs = badgeIDs
	m.active = append(m.active, a)
	return nil
}

func (m *mockAchievementRepo) GetByID(ctx context.Context, id int64) (*models.Achievement, error) {
	for _, a := range m.active {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockAchievementRepo) ListActive(ctx context.Context) ([]*models.Achievement, error) {
	out := make([]*models.Achievement, 0, len(m.active))
	for _, a := range m.active {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAchievementRepo) ListAll(ctx context.Context) ([]*models.Achievement, error) {
	return m.active, nil
}

func (m *mockAchievementRepo) Update(ctx context.Context, a *models.Achievement, badgeIDs []int64) error {
	a.BadgeIDs = badgeIDs
	return nil
}

func (m *mockAchievementRepo) Delete(ctx context.Context, id int64) error { return nil }

type mockBadgeRepo struct {
	badges map[int64]*models.Badge
}

func newMockBadgeRepo(badges ...*models.Badge) *mockBadgeRepo {
	m := &mockBadgeRepo{badges: make(map[int64]*models.Badge)}
	for _, b := range badges {
		m.badges[b.ID] = b
	}
	return m
}

func (m *mockBadgeRepo) Create(ctx context.Context, b *models.Badge) error {
	b.ID = int64(len(m.badges) + 1)
	m.badges[b.ID] = b
	return nil
}

func (m *mockBadgeRepo) GetByID(ctx context.Context, id int64) (*models.Badge, error) {
	return m.badges[id], nil
}

func (m *mockBadgeRepo) List(ctx context.Context) ([]*models.Badge, error) {
	out := make([]*models.Badge, 0, len(m.badges))
	for _, b := range m.badges {
		out = append(out, b)
	}
	return out, nil
}

func (m *mockBadgeRepo) Update(ctx context.Context, b *models.Badge) error { return nil }
func (m *mockBadgeRepo) Delete(ctx context.Context, id int64) error       { return nil }

type mockStoryRepo struct {
	stories map[int64]*models.Story
	nextID  int64
}

func newMockStoryRepo(stories ...*models.Story) *mockStoryRepo {
	m := &mockStoryRepo{stories: make(map[int64]*models.Story), nextID: 1}
	for _, s := range stories {
		m.stories[s.ID] = s
		if s.ID >= m.nextID {
			m.nextID = s.ID + 1
		}
	}
	return m
}

func (m *mockStoryRepo) Create(ctx context.Context, s *models.Story) error {
	s.ID = m.nextID
	m.nextID++
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	m.stories[s.ID] = s
	return nil
}

func (m *mockStoryRepo) GetByID(ctx context.Context, id int64) (*models.Story, error) {
	return m.stories[id], nil
}

func (m *mockStoryRepo) List(ctx context.Context, filter *repositories.StoryFilter) (*models.PaginatedResponse[models.Story], error) {
	out := make([]models.Story, 0)
	for _, s := range m.stories {
		if !s.IsDeleted {
			out = append(out, *s)
		}
	}
	return &models.PaginatedResponse[models.Story]{Data: out}, nil
}

func (m *mockStoryRepo) Update(ctx context.Context, s *models.Story) error {
	m.stories[s.ID] = s
	return nil
}

func (m *mockStoryRepo) SoftDelete(ctx context.Context, id int64) error {
	s := m.stories[id]
	s.IsDeleted = true
	now := time.Now()
	s.DeletedAt = &now
	return nil
}

func (m *mockStoryRepo) Restore(ctx context.Context, id int64) error {
	s := m.stories[id]
	s.IsDeleted = false
	s.DeletedAt = nil
	return nil
}

func (m *mockStoryRepo) ListDeleted(ctx context.Context, authorID int64) ([]*models.Story, error) {
	out := make([]*models.Story, 0)
	for _, s := range m.stories {
		if s.IsDeleted && s.AuthorID != nil && *s.AuthorID == authorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStoryRepo) PurgeExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	var purged int64
	for id, s := range m.stories {
		if s.IsDeleted && s.DeletedAt != nil && s.DeletedAt.Before(olderThan) {
			delete(m.stories, id)
			purged++
		}
	}
	return purged, nil
}

func (m *mockStoryRepo) IncrementLikes(ctx context.Context, id int64, delta int) (int, error) {
	s := m.stories[id]
	s.LikesCount += delta
	if s.LikesCount < 0 {
		s.LikesCount = 0
	}
	return s.LikesCount, nil
}

func (m *mockStoryRepo) IncrementShares(ctx context.Context, id int64) (int, error) {
	s := m.stories[id]
	s.SharesCount++
	return s.SharesCount, nil
}

func (m *mockStoryRepo) IncrementComments(ctx context.Context, id int64, delta int) error {
	s := m.stories[id]
	s.CommentsCount += delta
	return nil
}

func (m *mockStoryRepo) Flag(ctx context.Context, id int64, reason string) error {
	s := m.stories[id]
	s.Flagged = true
	s.FlagReason = &reason
	return nil
}

func (m *mockStoryRepo) Unflag(ctx context.Context, id int64) error {
	s := m.stories[id]
	s.Flagged = false
	s.FlagReason = nil
	return nil
}

func (m *mockStoryRepo) ListFlagged(ctx context.Context) ([]*models.Story, error) {
	out := make([]*models.Story, 0)
	for _, s := range m.stories {
		if s.Flagged && !s.IsDeleted {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockCommentRepo struct {
	comments map[int64]*models.Comment
	nextID   int64
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: make(map[int64]*models.Comment), nextID: 1}
}

func (m *mockCommentRepo) Create(ctx context.Context, c *models.Comment) error {
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	m.comments[c.ID] = c
	return nil
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	return m.comments[id], nil
}

func (m *mockCommentRepo) ListByStory(ctx context.Context, storyID int64) ([]*models.Comment, error) {
	out := make([]*models.Comment, 0)
	for _, c := range m.comments {
		if c.StoryID == storyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	delete(m.comments, id)
	return nil
}

type mockEventRepo struct {
	events      map[int64]*models.Event
	registered  map[[2]int64]bool
	regs        []*models.Registration
	nextEventID int64
	nextRegID   int64
}

func newMockEventRepo(evts ...*models.Event) *mockEventRepo {
	m := &mockEventRepo{
		events:      make(map[int64]*models.Event),
		registered:  make(map[[2]int64]bool),
		nextEventID: 1,
		nextRegID:   1,
	}
	for _, e := range evts {
		m.events[e.ID] = e
		if e.ID >= m.nextEventID {
			m.nextEventID = e.ID + 1
		}
	}
	return m
}

func (m *mockEventRepo) Create(ctx context.Context, e *models.Event) error {
	e.ID = m.nextEventID
	m.nextEventID++
	e.CreatedAt = time.Now()
	m.events[e.ID] = e
	return nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	return m.events[id], nil
}

func (m *mockEventRepo) List(ctx context.Context, filter *repositories.EventFilter) (*models.PaginatedResponse[models.Event], error) {
	out := make([]models.Event, 0)
	for _, e := range m.events {
		out = append(out, *e)
	}
	return &models.PaginatedResponse[models.Event]{Data: out}, nil
}

func (m *mockEventRepo) Update(ctx context.Context, e *models.Event) error {
	m.events[e.ID] = e
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id int64) error {
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) SetImageURL(ctx context.Context, id int64, url string) error {
	m.events[id].ImageURL = &url
	return nil
}

func (m *mockEventRepo) Dashboard(ctx context.Context) (*models.EventDashboard, error) {
	return &models.EventDashboard{
		TotalEvents:        int64(len(m.events)),
		TotalRegistrations: int64(len(m.regs)),
	}, nil
}

func (m *mockEventRepo) Register(ctx context.Context, reg *models.Registration) (bool, error) {
	key := [2]int64{reg.UserID, reg.EventID}
	if m.registered[key] {
		return false, nil
	}
	m.registered[key] = true
	reg.ID = m.nextRegID
	m.nextRegID++
	reg.RegisteredAt = time.Now()
	m.regs = append(m.regs, reg)
	if e, ok := m.events[reg.EventID]; ok {
		e.RegistrationCount++
	}
	return true, nil
}

func (m *mockEventRepo) Unregister(ctx context.Context, userID, eventID int64) error {
	delete(m.registered, [2]int64{userID, eventID})
	return nil
}

func (m *mockEventRepo) RegistrationCount(ctx context.Context, eventID int64) (int, error) {
	return m.events[eventID].RegistrationCount, nil
}

func (m *mockEventRepo) IsRegistered(ctx context.Context, userID, eventID int64) (bool, error) {
	return m.registered[[2]int64{userID, eventID}], nil
}

func (m *mockEventRepo) ListRegistrations(ctx context.Context, eventID int64) ([]*models.Registration, error) {
	out := make([]*models.Registration, 0)
	for _, reg := range m.regs {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (m *mockEventRepo) ListRegisteredEvents(ctx context.Context, userID int64) ([]*models.Event, error) {
	out := make([]*models.Event, 0)
	for key := range m.registered {
		if key[0] == userID {
			if e, ok := m.events[key[1]]; ok {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

// ===============================
// SERVICE MOCKS
// ===============================

// mockGamification lets story/comment tests control award outcomes
type mockGamification struct {
	GamificationService
	evaluateFn func(ctx context.Context, userID int64) ([]*models.Badge, error)
	recorded   []int64
}

func (m *mockGamification) EvaluateAndAward(ctx context.Context, userID int64) ([]*models.Badge, error) {
	if m.evaluateFn != nil {
		return m.evaluateFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockGamification) RecordActivity(ctx context.Context, userID int64) error {
	m.recorded = append(m.recorded, userID)
	return nil
}
