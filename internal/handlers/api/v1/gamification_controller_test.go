package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bridgegen/internal/models"
	"bridgegen/internal/response"
	"bridgegen/internal/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGamificationService struct {
	services.GamificationService
	listAchievementsFn func(ctx context.Context, activeOnly bool) ([]*models.Achievement, error)
	userBadgesFn       func(ctx context.Context, userID int64, sortBy string) ([]*models.UserBadge, error)
}

func (s *stubGamificationService) ListAchievements(ctx context.Context, activeOnly bool) ([]*models.Achievement, error) {
	return s.listAchievementsFn(ctx, activeOnly)
}

func (s *stubGamificationService) GetUserBadges(ctx context.Context, userID int64, sortBy string) ([]*models.UserBadge, error) {
	return s.userBadgesFn(ctx, userID, sortBy)
}

func newGamificationTestRouter(stub *stubGamificationService) *mux.Router {
	builder := response.NewBuilder(zap.NewNop(), false)
	controller := NewGamificationController(stub, builder)

	r := mux.NewRouter()
	r.HandleFunc("/achievements", controller.Achievements).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}/badges", controller.UserBadges).Methods(http.MethodGet)
	return r
}

func TestPublicAchievementsListsActiveOnly(t *testing.T) {
	var gotActiveOnly bool
	stub := &stubGamificationService{
		listAchievementsFn: func(ctx context.Context, activeOnly bool) ([]*models.Achievement, error) {
			gotActiveOnly = activeOnly
			return []*models.Achievement{{ID: 1, Title: "Storyteller"}}, nil
		},
	}

	rec := httptest.NewRecorder()
	newGamificationTestRouter(stub).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/achievements", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotActiveOnly, "public listing only exposes active rules")

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Contains(t, string(envelope.Data), "Storyteller")
}

func TestPublicUserBadgesPassesPathIDAndSort(t *testing.T) {
	var gotUserID int64
	var gotSort string
	stub := &stubGamificationService{
		userBadgesFn: func(ctx context.Context, userID int64, sortBy string) ([]*models.UserBadge, error) {
			gotUserID = userID
			gotSort = sortBy
			return []*models.UserBadge{{UserID: userID, BadgeID: 7}}, nil
		},
	}

	rec := httptest.NewRecorder()
	newGamificationTestRouter(stub).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/users/3/badges?sort=rarity", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), gotUserID)
	assert.Equal(t, "rarity", gotSort)
}

func TestPublicUserBadgesRejectsBadID(t *testing.T) {
	stub := &stubGamificationService{
		userBadgesFn: func(ctx context.Context, userID int64, sortBy string) ([]*models.UserBadge, error) {
			t.Fatal("service must not be called for an invalid ID")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	newGamificationTestRouter(stub).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/users/abc/badges", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code, "non-numeric ID never matches the route")
}
