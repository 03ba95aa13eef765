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

func newTestCommentService(
	comments *mockCommentRepo,
	stories *mockStoryRepo,
	gamification GamificationService,
) CommentService {
	repos := &repositories.Collection{Comment: comments, Story: stories}
	return NewCommentService(repos, gamification, nil, testGamificationConfig(), zap.NewNop())
}

func visibleStory(id, authorID int64) *models.Story {
	author := authorID
	return &models.Story{
		ID: id, Category: "Life Lessons", Privacy: "Public",
		CreatedAt: time.Now(), AuthorID: &author,
	}
}

func TestCreateCommentBumpsCounterAndAwardsCommenter(t *testing.T) {
	stories := newMockStoryRepo(visibleStory(1, 5))
	gamification := &mockGamification{
		evaluateFn: func(ctx context.Context, userID int64) ([]*models.Badge, error) {
			return []*models.Badge{{ID: 1, Title: "Conversationalist"}}, nil
		},
	}
	service := newTestCommentService(newMockCommentRepo(), stories, gamification)

	result, err := service.CreateComment(context.Background(), &CreateCommentRequest{
		StoryID:    1,
		AuthorID:   9,
		AuthorName: "amina",
		Content:    "  What a lovely memory!  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "What a lovely memory!", result.Comment.Content, "content trimmed")
	assert.Len(t, result.NewBadges, 1)
	assert.Equal(t, []int64{9}, gamification.recorded, "commenter gets the activity credit")
	assert.Equal(t, 1, stories.stories[1].CommentsCount)
}

func TestCreateCommentSucceedsWhenAwardsFail(t *testing.T) {
	stories := newMockStoryRepo(visibleStory(1, 5))
	gamification := &mockGamification{
		evaluateFn: func(ctx context.Context, userID int64) ([]*models.Badge, error) {
			return nil, fmt.Errorf("gamification store down")
		},
	}
	service := newTestCommentService(newMockCommentRepo(), stories, gamification)

	result, err := service.CreateComment(context.Background(), &CreateCommentRequest{
		StoryID: 1, AuthorID: 9, Content: "still posts",
	})
	require.NoError(t, err, "award failure must never block the comment")
	assert.NotZero(t, result.Comment.ID)
	assert.Empty(t, result.NewBadges)
}

func TestCreateCommentRejectsBlankContent(t *testing.T) {
	service := newTestCommentService(newMockCommentRepo(), newMockStoryRepo(visibleStory(1, 5)), &mockGamification{})

	_, err := service.CreateComment(context.Background(), &CreateCommentRequest{
		StoryID: 1, AuthorID: 9, Content: "   ",
	})
	require.Error(t, err)
}

func TestCreateCommentRejectsOverlongContent(t *testing.T) {
	service := newTestCommentService(newMockCommentRepo(), newMockStoryRepo(visibleStory(1, 5)), &mockGamification{})

	_, err := service.CreateComment(context.Background(), &CreateCommentRequest{
		StoryID: 1, AuthorID: 9, Content: strings.Repeat("x", 2001),
	})
	require.Error(t, err)
}

func TestCreateCommentOnDeletedStoryFails(t *testing.T) {
	story := visibleStory(1, 5)
	story.IsDeleted = true
	service := newTestCommentService(newMockCommentRepo(), newMockStoryRepo(story), &mockGamification{})

	_, err := service.CreateComment(context.Background(), &CreateCommentRequest{
		StoryID: 1, AuthorID: 9, Content: "hello",
	})
	require.Error(t, err)

	se, _ := AsServiceError(err)
	assert.Equal(t, "NOT_FOUND", se.Type)
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	comments := newMockCommentRepo()
	stories := newMockStoryRepo(visibleStory(1, 5))
	service := newTestCommentService(comments, stories, &mockGamification{})

	result, err := service.CreateComment(context.Background(), &CreateCommentRequest{
		StoryID: 1, AuthorID: 9, Content: "mine",
	})
	require.NoError(t, err)

	err = service.DeleteComment(context.Background(), 10, result.Comment.ID, false)
	require.Error(t, err)
	se, _ := AsServiceError(err)
	assert.Equal(t, "FORBIDDEN", se.Type)

	require.NoError(t, service.DeleteComment(context.Background(), 9, result.Comment.ID, false))
	assert.Zero(t, stories.stories[1].CommentsCount, "counter decremented back")
}

func TestDeleteCommentAdminOverride(t *testing.T) {
	comments := newMockCommentRepo()
	service := newTestCommentService(comments, newMockStoryRepo(visibleStory(1, 5)), &mockGamification{})

	result, err := service.CreateComment(context.Background(), &CreateCommentRequest{
		StoryID: 1, AuthorID: 9, Content: "flag me",
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteComment(context.Background(), 99, result.Comment.ID, true))
	assert.Empty(t, comments.comments)
}
