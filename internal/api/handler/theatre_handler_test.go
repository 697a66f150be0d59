package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"watchroom/internal/api/dto"
	"watchroom/internal/api/models"
	"watchroom/internal/api/service"
	"watchroom/internal/merge"
)

type MockTheatreService struct {
	mock.Mock
}

func (m *MockTheatreService) Create(ctx context.Context, hostID, name, mergeMode string) (*models.Theatre, error) {
	args := m.Called(ctx, hostID, name, mergeMode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Theatre), args.Error(1)
}

func (m *MockTheatreService) ListForUser(ctx context.Context, userID string) ([]service.TheatreSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.TheatreSummary), args.Error(1)
}

func (m *MockTheatreService) View(ctx context.Context, inviteCode, userID string) (*service.TheatreView, error) {
	args := m.Called(ctx, inviteCode, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TheatreView), args.Error(1)
}

func (m *MockTheatreService) Join(ctx context.Context, inviteCode, userID string) error {
	args := m.Called(ctx, inviteCode, userID)
	return args.Error(0)
}

func (m *MockTheatreService) Leave(ctx context.Context, inviteCode, userID string) error {
	args := m.Called(ctx, inviteCode, userID)
	return args.Error(0)
}

func (m *MockTheatreService) Delete(ctx context.Context, inviteCode, userID string) error {
	args := m.Called(ctx, inviteCode, userID)
	return args.Error(0)
}

func (m *MockTheatreService) SetMergeMode(ctx context.Context, inviteCode, userID, mergeMode string) error {
	args := m.Called(ctx, inviteCode, userID, mergeMode)
	return args.Error(0)
}

func (m *MockTheatreService) Shuffle(ctx context.Context, inviteCode, userID string) (string, error) {
	args := m.Called(ctx, inviteCode, userID)
	return args.String(0), args.Error(1)
}

func newTheatreRouter(svc service.TheatreService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1/theatres")
	group.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	})
	NewTheatreHandler(svc).RegisterRoutes(group)
	return router
}

func TestCreateTheatre(t *testing.T) {
	svc := new(MockTheatreService)
	router := newTheatreRouter(svc, "host-1")

	svc.On("Create", mock.Anything, "host-1", "Friday Night", "union").Return(&models.Theatre{
		ID:         "theatre-1",
		Name:       "Friday Night",
		InviteCode: "abc123",
		MergeMode:  "union",
		HostID:     "host-1",
	}, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/theatres", dto.CreateTheatreRequest{
		Name:      "Friday Night",
		MergeMode: "union",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.TheatreResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc123", resp.InviteCode)
	assert.Equal(t, "union", resp.MergeMode)
}

func TestCreateTheatreBadMode(t *testing.T) {
	svc := new(MockTheatreService)
	router := newTheatreRouter(svc, "host-1")

	svc.On("Create", mock.Anything, "host-1", "Friday Night", "everything").
		Return(nil, service.ErrInvalidMergeMode)

	w := doJSON(router, http.MethodPost, "/api/v1/theatres", dto.CreateTheatreRequest{
		Name:      "Friday Night",
		MergeMode: "everything",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestViewTheatre(t *testing.T) {
	svc := new(MockTheatreService)
	router := newTheatreRouter(svc, "user-2")

	pick := "tt0068646"
	svc.On("View", mock.Anything, "abc123", "user-2").Return(&service.TheatreView{
		Theatre: &models.Theatre{
			ID:               "theatre-1",
			Name:             "Friday Night",
			InviteCode:       "abc123",
			MergeMode:        "union",
			HostID:           "host-1",
			LastPickedImdbID: &pick,
		},
		Members: []models.User{
			{ID: "host-1", Username: "host"},
			{ID: "user-2", Username: "guest"},
		},
		Movies: []merge.Entry{
			{ImdbID: "tt0068646", Title: "The Godfather", Year: "1972", AddedBy: []string{"host-1", "user-2"}},
			{ImdbID: "tt0111161", Title: "The Shawshank Redemption", Year: "1994", AddedBy: []string{"user-2"}},
		},
	}, nil)

	w := doJSON(router, http.MethodGet, "/api/v1/theatres/abc123", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.TheatreViewResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Members, 2)
	assert.True(t, resp.Members[0].IsHost)
	assert.False(t, resp.Members[1].IsHost)
	assert.Len(t, resp.Movies, 2)
	assert.Equal(t, []string{"host-1", "user-2"}, resp.Movies[0].AddedBy)
}

func TestViewAsOutsiderIsForbidden(t *testing.T) {
	svc := new(MockTheatreService)
	router := newTheatreRouter(svc, "stranger")

	svc.On("View", mock.Anything, "abc123", "stranger").Return(nil, service.ErrNotMember)

	w := doJSON(router, http.MethodGet, "/api/v1/theatres/abc123", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestViewUnknownTheatre(t *testing.T) {
	svc := new(MockTheatreService)
	router := newTheatreRouter(svc, "user-2")

	svc.On("View", mock.Anything, "nope", "user-2").Return(nil, service.ErrTheatreNotFound)

	w := doJSON(router, http.MethodGet, "/api/v1/theatres/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJoinTheatre(t *testing.T) {
	svc := new(MockTheatreService)
	router := newTheatreRouter(svc, "user-2")

	svc.On("Join", mock.Anything, "abc123", "user-2").Return(nil)

	w := doJSON(router, http.MethodPost, "/api/v1/theatres/abc123/join", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHostLeaveReturnsConflict(t *testing.T) {
	svc := new(MockTheatreService)
	router := newTheatreRouter(svc, "host-1")

	svc.On("Leave", mock.Anything, "abc123", "host-1").Return(service.ErrHostCannotLeave)

	w := doJSON(router, http.MethodPost, "/api/v1/theatres/abc123/leave", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteTheatreHostOnly(t *testing.T) {
	svc := new(MockTheatreService)
	router := newTheatreRouter(svc, "user-2")

	svc.On("Delete", mock.Anything, "abc123", "user-2").Return(service.ErrHostOnly)

	w := doJSON(router, http.MethodDelete, "/api/v1/theatres/abc123", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteTheatre(t *testing.T) {
	svc := new(MockTheatreService)
	router := newTheatreRouter(svc, "host-1")

	svc.On("Delete", mock.Anything, "abc123", "host-1").Return(nil)

	w := doJSON(router, http.MethodDelete, "/api/v1/theatres/abc123", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSetMergeMode(t *testing.T) {
	svc := new(MockTheatreService)
	router := newTheatreRouter(svc, "host-1")

	svc.On("SetMergeMode", mock.Anything, "abc123", "host-1", "xor").Return(nil)

	w := doJSON(router, http.MethodPatch, "/api/v1/theatres/abc123/merge-mode", dto.SetMergeModeRequest{
		MergeMode: "xor",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestShuffleReturnsPick(t *testing.T) {
	svc := new(MockTheatreService)
	router := newTheatreRouter(svc, "user-2")

	svc.On("Shuffle", mock.Anything, "abc123", "user-2").Return("tt0111161", nil)

	w := doJSON(router, http.MethodPost, "/api/v1/theatres/abc123/shuffle", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.ShuffleResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tt0111161", resp.PickedImdbID)
}

func TestShuffleWithNoCandidates(t *testing.T) {
	svc := new(MockTheatreService)
	router := newTheatreRouter(svc, "user-2")

	svc.On("Shuffle", mock.Anything, "abc123", "user-2").Return("", merge.ErrEmptyCandidates)

	w := doJSON(router, http.MethodPost, "/api/v1/theatres/abc123/shuffle", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
