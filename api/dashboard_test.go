package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carhive/carbooking/internal/dashboard"
	"github.com/carhive/carbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDashboardUseCase struct {
	mock.Mock
}

func (m *MockDashboardUseCase) BookingsForActor(ctx context.Context, actorID int64, role dashboard.Role, filter string) (*dashboard.View, error) {
	args := m.Called(ctx, actorID, role, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.View), args.Error(1)
}

func newDashboardRouter(service *MockDashboardUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewDashboardHandler(service).Register(router.Group("/bookings"))
	return router
}

func TestDashboardHandler_List(t *testing.T) {
	service := &MockDashboardUseCase{}
	router := newDashboardRouter(service)

	view := &dashboard.View{
		Items: []domain.Booking{
			{ID: "b1", CustomerID: 21, IsStarted: true, StartDate: time.Now().AddDate(0, 0, -1), EndDate: time.Now().AddDate(0, 0, 2)},
		},
		Counts: map[string]int{"all": 1, "active": 1, "upcoming": 0, "pending": 0, "completed": 0, "cancelled": 0},
	}
	service.On("BookingsForActor", mock.Anything, int64(21), dashboard.RoleCustomer, "active").Return(view, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings?actor_id=21&role=customer&filter=active", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items  []bookingResponse `json:"items"`
		Counts map[string]int    `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "ACTIVE", resp.Items[0].Status)
	assert.Equal(t, 1, resp.Counts["active"])
	service.AssertExpectations(t)
}

func TestDashboardHandler_List_DefaultsToAll(t *testing.T) {
	service := &MockDashboardUseCase{}
	router := newDashboardRouter(service)

	service.On("BookingsForActor", mock.Anything, int64(5), dashboard.RoleDriver, dashboard.FilterAll).
		Return(&dashboard.View{Counts: map[string]int{"all": 0}}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings?actor_id=5&role=driver", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestDashboardHandler_List_UnknownRole(t *testing.T) {
	service := &MockDashboardUseCase{}
	router := newDashboardRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings?actor_id=5&role=tenant", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	service.AssertNotCalled(t, "BookingsForActor", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardHandler_List_BadActorID(t *testing.T) {
	service := &MockDashboardUseCase{}
	router := newDashboardRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings?actor_id=abc&role=customer", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
