package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"bridgegen/internal/models"
	"bridgegen/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStoryService(stories *mockStoryRepo, gamification GamificationService) StoryService {
	repos := &repositories.Collection{Story: stories}
	return NewStoryService(repos, gamification, nil, testGamificationConfig(), zap.NewNop())
}

func validCreateRequest(authorID int64) *CreateStoryRequest {
	return &CreateStoryRequest{
		AuthorID:    authorID,
		Caption:     "Grandma's kitchen",
		Description: "The smell of fresh bread every Sunday morning.",
		Category:    "Life Lessons",
		Privacy:     "Public",
		Tags:        []string{"#family", "family", "  "},
	}
}

func TestCreateStoryReturnsNewBadges(t *testing.T) {
	stories := newMockStoryRepo()
	gamification := &mockGamification{
		evaluateFn: func(ctx context.Context, userID int64) ([]*models.Badge, error) {
			return []*models.Badge{{ID: 1, Title: "First Story"}}, nil
		},
	}
	service := newTestStoryService(stories, gamification)

	result, err := service.CreateStory(context.Background(), validCreateRequest(5))
	require.NoError(t, err)
	require.NotNil(t, result.Story)
	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, []int64{5}, gamification.recorded)
	assert.Equal(t, []string{"family"}, result.Story.Tags, "tags deduplicated and stripped")
}

func TestCreateStorySucceedsWhenAwardsFail(t *testing.T) {
	stories := newMockStoryRepo()
	gamification := &mockGamification{
		evaluateFn: func(ctx context.Context, userID int64) ([]*models.Badge, error) {
			return nil, fmt.Errorf("gamification store down")
		},
	}
	service := newTestStoryService(stories, gamification)

	result, err := service.CreateStory(context.Background(), validCreateRequest(5))
	require.NoError(t, err, "award failure must never block the story")
	assert.NotZero(t, result.Story.ID)
	assert.Empty(t, result.NewBadges)
}

func TestCreateStoryRejectsUnknownCategory(t *testing.T) {
	service := newTestStoryService(newMockStoryRepo(), &mockGamification{})

	req := validCreateRequest(5)
	req.Category = "Gossip"
	_, err := service.CreateStory(context.Background(), req)
	require.Error(t, err)
}

func TestCreateStoryRejectsOverlongCaption(t *testing.T) {
	service := newTestStoryService(newMockStoryRepo(), &mockGamification{})

	req := validCreateRequest(5)
	req.Caption = strings.Repeat("x", 201)
	_, err := service.CreateStory(context.Background(), req)
	require.Error(t, err)
}

func TestCreateStoryRequiresGroupsForGroupPrivacy(t *testing.T) {
	service := newTestStoryService(newMockStoryRepo(), &mockGamification{})

	req := validCreateRequest(5)
	req.Privacy = "Specific Groups"
	_, err := service.CreateStory(context.Background(), req)
	require.Error(t, err)

	req.AllowedGroups = []string{"book-club"}
	_, err = service.CreateStory(context.Background(), req)
	assert.NoError(t, err)
}

func TestUpdateStoryTextLockedAfterWindow(t *testing.T) {
	author := int64(5)
	old := &models.Story{
		ID:        1,
		Caption:   "Old caption",
		Category:  "Life Lessons",
		Privacy:   "Public",
		CreatedAt: time.Now().Add(-25 * time.Hour),
		AuthorID:  &author,
	}
	service := newTestStoryService(newMockStoryRepo(old), &mockGamification{})

	caption := "New caption"
	_, err := service.UpdateStory(context.Background(), &UpdateStoryRequest{
		StoryID: 1,
		UserID:  author,
		Caption: &caption,
	})
	require.Error(t, err)

	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "EDIT_WINDOW_CLOSED", se.Code)

	// Non-text fields stay editable after the window
	category := "Travel Adventures"
	updated, err := service.UpdateStory(context.Background(), &UpdateStoryRequest{
		StoryID:  1,
		UserID:   author,
		Category: &category,
	})
	require.NoError(t, err)
	assert.Equal(t, "Travel Adventures", updated.Category)
	assert.Equal(t, "Old caption", updated.Caption)
}

func TestUpdateStoryTextInsideWindow(t *testing.T) {
	author := int64(5)
	recent := &models.Story{
		ID:        1,
		Caption:   "Old",
		Category:  "Life Lessons",
		Privacy:   "Public",
		CreatedAt: time.Now().Add(-1 * time.Hour),
		AuthorID:  &author,
	}
	service := newTestStoryService(newMockStoryRepo(recent), &mockGamification{})

	caption := "Fresh caption"
	updated, err := service.UpdateStory(context.Background(), &UpdateStoryRequest{
		StoryID: 1,
		UserID:  author,
		Caption: &caption,
	})
	require.NoError(t, err)
	assert.Equal(t, "Fresh caption", updated.Caption)
}

func TestUpdateStoryForbiddenForOtherUsers(t *testing.T) {
	author := int64(5)
	story := &models.Story{
		ID: 1, Category: "Life Lessons", Privacy: "Public",
		CreatedAt: time.Now(), AuthorID: &author,
	}
	service := newTestStoryService(newMockStoryRepo(story), &mockGamification{})

	caption := "Hijack"
	_, err := service.UpdateStory(context.Background(), &UpdateStoryRequest{
		StoryID: 1,
		UserID:  99,
		Caption: &caption,
	})
	require.Error(t, err)

	se, _ := AsServiceError(err)
	assert.Equal(t, "FORBIDDEN", se.Type)
}

func TestRestoreStoryInsideWindow(t *testing.T) {
	author := int64(5)
	deletedAt := time.Now().Add(-48 * time.Hour)
	story := &models.Story{
		ID: 1, Category: "Life Lessons", Privacy: "Public",
		IsDeleted: true, DeletedAt: &deletedAt, AuthorID: &author,
	}
	service := newTestStoryService(newMockStoryRepo(story), &mockGamification{})

	restored, err := service.RestoreStory(context.Background(), author, 1)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
}

func TestRestoreStoryAfterWindowFails(t *testing.T) {
	author := int64(5)
	deletedAt := time.Now().Add(-8 * 24 * time.Hour)
	story := &models.Story{
		ID: 1, Category: "Life Lessons", Privacy: "Public",
		IsDeleted: true, DeletedAt: &deletedAt, AuthorID: &author,
	}
	service := newTestStoryService(newMockStoryRepo(story), &mockGamification{})

	_, err := service.RestoreStory(context.Background(), author, 1)
	require.Error(t, err)

	se, _ := AsServiceError(err)
	assert.Equal(t, "RESTORE_WINDOW_CLOSED", se.Code)
}

func TestUnlikeNeverGoesNegative(t *testing.T) {
	author := int64(5)
	story := &models.Story{
		ID: 1, Category: "Life Lessons", Privacy: "Public",
		CreatedAt: time.Now(), AuthorID: &author, LikesCount: 0,
	}
	service := newTestStoryService(newMockStoryRepo(story), &mockGamification{})

	result, err := service.UnlikeStory(context.Background(), 9, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
}

func TestLikeAwardsAuthorNotLiker(t *testing.T) {
	author := int64(5)
	story := &models.Story{
		ID: 1, Category: "Life Lessons", Privacy: "Public",
		CreatedAt: time.Now(), AuthorID: &author,
	}

	var evaluatedFor []int64
	gamification := &mockGamification{
		evaluateFn: func(ctx context.Context, userID int64) ([]*models.Badge, error) {
			evaluatedFor = append(evaluatedFor, userID)
			return nil, nil
		},
	}
	service := newTestStoryService(newMockStoryRepo(story), gamification)

	_, err := service.LikeStory(context.Background(), 9, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{author}, evaluatedFor)
}

func TestDeletedStoryHiddenFromGet(t *testing.T) {
	author := int64(5)
	deletedAt := time.Now()
	story := &models.Story{
		ID: 1, IsDeleted: true, DeletedAt: &deletedAt, AuthorID: &author,
	}
	service := newTestStoryService(newMockStoryRepo(story), &mockGamification{})

	_, err := service.GetStory(context.Background(), 1)
	require.Error(t, err)

	se, _ := AsServiceError(err)
	assert.Equal(t, "NOT_FOUND", se.Type)
}
