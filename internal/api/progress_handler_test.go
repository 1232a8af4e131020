package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingualabs/lingua-api/internal/api"
	"github.com/lingualabs/lingua-api/internal/domain"
	"github.com/lingualabs/lingua-api/internal/mocks"
	"github.com/lingualabs/lingua-api/internal/service"
)

func progressRouter(svc service.ProgressService, userID uuid.UUID) *chi.Mux {
	handler := api.NewProgressHandler(svc, nil)
	return newAuthedRouter(userID, func(r chi.Router) {
		r.Get("/users/{user_id}/progress", handler.GetProgress)
	})
}

func TestGetProgressEndpoint(t *testing.T) {
	userID := uuid.New()
	lastDate := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

	svc := &mocks.MockProgressService{
		Progress: &service.Progress{
			TotalConversations:   4,
			AverageOverallScore:  58.25,
			CurrentLevel:         domain.LevelC1,
			LastConversationDate: &lastDate,
			Trends: service.ScoreTrends{
				Overall: []float64{41, 52, 60, 80},
				Grammar: []float64{12, 15, 18, 22},
			},
		},
	}

	router := progressRouter(svc, userID)
	rr := doJSON(t, router, http.MethodGet, "/users/"+userID.String()+"/progress", nil)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp service.Progress
	decodeBody(t, rr, &resp)
	assert.Equal(t, 4, resp.TotalConversations)
	assert.Equal(t, 58.25, resp.AverageOverallScore)
	assert.Equal(t, domain.LevelC1, resp.CurrentLevel)
	assert.Equal(t, []float64{41, 52, 60, 80}, resp.Trends.Overall)
}

func TestGetProgressEndpoint_OtherUserForbidden(t *testing.T) {
	authUser := uuid.New()
	otherUser := uuid.New()

	router := progressRouter(&mocks.MockProgressService{}, authUser)
	rr := doJSON(t, router, http.MethodGet, "/users/"+otherUser.String()+"/progress", nil)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGetProgressEndpoint_InvalidUserID(t *testing.T) {
	router := progressRouter(&mocks.MockProgressService{}, uuid.New())
	rr := doJSON(t, router, http.MethodGet, "/users/not-a-uuid/progress", nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetProgressEndpoint_ServiceFailure(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockProgressService{Err: errors.New("query failed")}

	router := progressRouter(svc, userID)
	rr := doJSON(t, router, http.MethodGet, "/users/"+userID.String()+"/progress", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
