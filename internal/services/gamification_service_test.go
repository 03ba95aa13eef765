package services

import (
	"context"
	"testing"
	"time"

	"bridgegen/internal/config"
	"bridgegen/internal/models"
	"bridgegen/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testGamificationConfig() *config.GamificationConfig {
	return &config.GamificationConfig{
		EditLockHours:     24,
		SoftDeleteDays:    7,
		ValidCategories:   []string{"Life Lessons", "Travel Adventures"},
		ValidPrivacy:      []string{"Public", "Friends Only", "Specific Groups"},
		MaxCaptionLength:  200,
		MaxContentLength:  5000,
		MaxCommentLength:  2000,
		BadgeCacheTTL:     time.Minute,
		UserStatsCacheTTL: time.Second,
	}
}

func newTestGamificationService(
	progress *mockProgressRepo,
	achievements *mockAchievementRepo,
	badges *mockBadgeRepo,
) GamificationService {
	repos := &repositories.Collection{
		Progress:    progress,
		Achievement: achievements,
		Badge:       badges,
	}
	return NewGamificationService(repos, nil, nil, testGamificationConfig(), zap.NewNop())
}

func TestEvaluateAndAwardGrantsBadgeAtThreshold(t *testing.T) {
	badge := &models.Badge{ID: 1, Title: "First Story"}
	achievements := &mockAchievementRepo{active: []*models.Achievement{
		{ID: 10, Title: "Storyteller", RuleType: models.RuleStoriesCreated, RuleValue: 1, Active: true, BadgeIDs: []int64{1}},
	}}
	progress := newMockProgressRepo(&models.UserStats{StoriesCreated: 1})
	service := newTestGamificationService(progress, achievements, newMockBadgeRepo(badge))

	earned, err := service.EvaluateAndAward(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, "First Story", earned[0].Title)
}

func TestEvaluateAndAwardBelowThreshold(t *testing.T) {
	achievements := &mockAchievementRepo{active: []*models.Achievement{
		{ID: 10, RuleType: models.RuleStoriesCreated, RuleValue: 5, Active: true, BadgeIDs: []int64{1}},
	}}
	progress := newMockProgressRepo(&models.UserStats{StoriesCreated: 4})
	service := newTestGamificationService(progress, achievements, newMockBadgeRepo(&models.Badge{ID: 1}))

	earned, err := service.EvaluateAndAward(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, earned)
}

func TestEvaluateAndAwardIsIdempotent(t *testing.T) {
	badge := &models.Badge{ID: 1, Title: "Regular"}
	achievements := &mockAchievementRepo{active: []*models.Achievement{
		{ID: 10, RuleType: models.RuleCommentsWritten, RuleValue: 3, Active: true, BadgeIDs: []int64{1}},
	}}
	progress := newMockProgressRepo(&models.UserStats{CommentsWritten: 3})
	service := newTestGamificationService(progress, achievements, newMockBadgeRepo(badge))

	first, err := service.EvaluateAndAward(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Counter keeps growing; the award must not repeat
	progress.stats.CommentsWritten = 10
	second, err := service.EvaluateAndAward(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestEvaluateAndAwardSkipsUnknownRuleType(t *testing.T) {
	achievements := &mockAchievementRepo{active: []*models.Achievement{
		{ID: 10, RuleType: "stories_flagged_total", RuleValue: 1, Active: true, BadgeIDs: []int64{1}},
		{ID: 11, RuleType: models.RuleLikesReceived, RuleValue: 2, Active: true, BadgeIDs: []int64{2}},
	}}
	progress := newMockProgressRepo(&models.UserStats{LikesReceived: 2})
	service := newTestGamificationService(progress, achievements,
		newMockBadgeRepo(&models.Badge{ID: 1, Title: "Unknown"}, &models.Badge{ID: 2, Title: "Liked"}))

	earned, err := service.EvaluateAndAward(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, "Liked", earned[0].Title)
}

func TestEvaluateAndAwardMultipleBadgesPerAchievement(t *testing.T) {
	achievements := &mockAchievementRepo{active: []*models.Achievement{
		{ID: 10, RuleType: models.RuleSharesReceived, RuleValue: 1, Active: true, BadgeIDs: []int64{1, 2}},
	}}
	progress := newMockProgressRepo(&models.UserStats{SharesReceived: 1})
	// Badge 2 already held from an earlier rule
	progress.badgesHeld[2] = true
	service := newTestGamificationService(progress, achievements,
		newMockBadgeRepo(&models.Badge{ID: 1, Title: "A"}, &models.Badge{ID: 2, Title: "B"}))

	earned, err := service.EvaluateAndAward(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, earned, 1, "already-held badge must not be returned again")
	assert.Equal(t, "A", earned[0].Title)
}

func TestCreateAchievementRejectsUnknownRule(t *testing.T) {
	service := newTestGamificationService(
		newMockProgressRepo(&models.UserStats{}),
		&mockAchievementRepo{},
		newMockBadgeRepo(),
	)

	_, err := service.CreateAchievement(context.Background(), &AchievementRequest{
		Title:     "Bad Rule",
		RuleType:  "not_a_rule",
		RuleValue: 1,
		BadgeIDs:  []int64{1},
	})
	require.Error(t, err)

	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", se.Type)
}

func TestCreateAchievementRequiresBadgeLink(t *testing.T) {
	service := newTestGamificationService(
		newMockProgressRepo(&models.UserStats{}),
		&mockAchievementRepo{},
		newMockBadgeRepo(),
	)

	_, err := service.CreateAchievement(context.Background(), &AchievementRequest{
		Title:     "No Badges",
		RuleType:  string(models.RuleStoriesCreated),
		RuleValue: 1,
	})
	require.Error(t, err)
}

func TestListAchievementsActiveOnly(t *testing.T) {
	achievements := &mockAchievementRepo{active: []*models.Achievement{
		{ID: 10, Title: "Live", RuleType: models.RuleStoriesCreated, RuleValue: 1, Active: true, BadgeIDs: []int64{1}},
		{ID: 11, Title: "Retired", RuleType: models.RuleStoriesCreated, RuleValue: 5, Active: false, BadgeIDs: []int64{1}},
	}}
	service := newTestGamificationService(
		newMockProgressRepo(&models.UserStats{}),
		achievements,
		newMockBadgeRepo(),
	)

	active, err := service.ListAchievements(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Live", active[0].Title)

	all, err := service.ListAchievements(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetBadgeCatalogIncludesHolderCounts(t *testing.T) {
	progress := newMockProgressRepo(&models.UserStats{})
	progress.badgesHeld[1] = true
	service := newTestGamificationService(progress, &mockAchievementRepo{},
		newMockBadgeRepo(&models.Badge{ID: 1, Title: "Held"}, &models.Badge{ID: 2, Title: "Unclaimed"}))

	catalog, err := service.GetBadgeCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	byID := make(map[int64]*models.Badge, len(catalog))
	for _, b := range catalog {
		byID[b.ID] = b
	}
	assert.Equal(t, int64(1), byID[1].HolderCount)
	assert.Zero(t, byID[2].HolderCount)
}

func TestGetUserBadgesRejectsUnknownSort(t *testing.T) {
	service := newTestGamificationService(
		newMockProgressRepo(&models.UserStats{}),
		&mockAchievementRepo{},
		newMockBadgeRepo(),
	)

	_, err := service.GetUserBadges(context.Background(), 1, "shiniest")
	require.Error(t, err)

	_, err = service.GetUserBadges(context.Background(), 1, repositories.BadgeSortRarity)
	assert.NoError(t, err)
}
