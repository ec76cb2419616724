package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/service/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRouteUseCase is a mock implementation of routes.RouteUseCase
type MockRouteUseCase struct {
	mock.Mock
}

func (m *MockRouteUseCase) List(ctx context.Context) ([]domain.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *MockRouteUseCase) Search(ctx context.Context, q routes.SearchQuery) ([]domain.Route, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *MockRouteUseCase) FilterByType(ctx context.Context, vehicleType string) ([]domain.Route, error) {
	args := m.Called(ctx, vehicleType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *MockRouteUseCase) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Route), args.Error(1)
}

func (m *MockRouteUseCase) BookedSeats(ctx context.Context, scheduleID string) ([]int, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockRouteUseCase) SeatMap(ctx context.Context, scheduleID string) (*routes.SeatMapView, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*routes.SeatMapView), args.Error(1)
}

var sampleRoute = domain.Route{
	ID: "12", ScheduleID: "12", From: "Mumbai", To: "Pune", Type: "sleeper",
	Name: "Mumbai to Pune Express", DepartureTime: "06:00", ArrivalTime: "10:30",
	Duration: "4h 30m", Price: 375, AvailableSeats: 20, TotalSeats: 32,
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouteHandler_list(t *testing.T) {
	mockService := &MockRouteUseCase{}
	mockService.On("List", mock.Anything).Return([]domain.Route{sampleRoute}, nil)
	mockService.On("FilterByType", mock.Anything, "sleeper").Return([]domain.Route{}, nil)
	r := newTestRouter(nil, NewRouteHandler(mockService).Register)

	w := get(r, "/api/routes")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"from":"Mumbai"`)

	w = get(r, "/api/routes?type=sleeper")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	mockService.AssertExpectations(t)
}

func TestRouteHandler_list_Unavailable(t *testing.T) {
	mockService := &MockRouteUseCase{}
	mockService.On("List", mock.Anything).Return(nil, &domain.Error{Kind: domain.KindNetwork, Message: "booking service unavailable"})
	r := newTestRouter(nil, NewRouteHandler(mockService).Register)

	w := get(r, "/api/routes")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "booking service unavailable")
}

func TestRouteHandler_search(t *testing.T) {
	mockService := &MockRouteUseCase{}
	q := routes.SearchQuery{From: "Mumbai", To: "Pune", Date: "2026-02-20", VehicleType: "sleeper"}
	mockService.On("Search", mock.Anything, q).Return([]domain.Route{sampleRoute}, nil)
	r := newTestRouter(nil, NewRouteHandler(mockService).Register)

	w := get(r, "/api/routes/search?from=Mumbai&to=Pune&date=2026-02-20&type=sleeper")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"scheduleId":"12"`)
	mockService.AssertExpectations(t)
}

func TestRouteHandler_get(t *testing.T) {
	mockService := &MockRouteUseCase{}
	route := sampleRoute
	mockService.On("GetByID", mock.Anything, "12").Return(&route, nil)
	mockService.On("GetByID", mock.Anything, "undefined").Return(nil, domain.NotFound("route undefined not found"))
	r := newTestRouter(nil, NewRouteHandler(mockService).Register)

	w := get(r, "/api/routes/12")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"duration":"4h 30m"`)

	w = get(r, "/api/routes/undefined")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"not_found"`)
}

func TestRouteHandler_seats(t *testing.T) {
	mockService := &MockRouteUseCase{}
	view := &routes.SeatMapView{
		Route:       sampleRoute,
		Layout:      domain.SeatLayout{Class: domain.ClassSleeper, Rows: 8, SeatsPerRow: 4, ColumnPattern: []int{1, 0, 2, 1}},
		BookedSeats: []int{3, 4},
	}
	mockService.On("SeatMap", mock.Anything, "12").Return(view, nil)
	r := newTestRouter(nil, NewRouteHandler(mockService).Register)

	w := get(r, "/api/routes/12/seats")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bookedSeats":[3,4]`)
}
