package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/schedule"
	"github.com/Domenick1991/busbooking/internal/session"
	"github.com/Domenick1991/busbooking/internal/ticket"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) SubmitBooking(ctx context.Context, routeID string, seatNumbers []int) (*domain.BookingResult, error) {
	args := m.Called(ctx, routeID, seatNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingResult), args.Error(1)
}

func (m *MockBookingUseCase) ListUserBookings(ctx context.Context) ([]schedule.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schedule.Record), args.Error(1)
}

type MockTicketStore struct {
	mock.Mock
}

func (m *MockTicketStore) GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockTicketStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, nil, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewBufferString(`{"routeId":1,"seatNumbers":[14,15]}`))
	c.Request.Header.Set("Content-Type", "application/json")

	result := &domain.BookingResult{
		Success:   true,
		BookingID: "501",
		Message:   "Booking confirmed",
		Raw:       json.RawMessage(`{"id":501}`),
	}
	mockService.On("SubmitBooking", c.Request.Context(), "1", []int{14, 15}).Return(result, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"bookingId":"501","message":"Booking confirmed","data":{"id":501}}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_StringRouteID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, nil, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewBufferString(`{"routeId":"sch-9","seatNumbers":[1]}`))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("SubmitBooking", mock.Anything, "sch-9", []int{1}).
		Return(&domain.BookingResult{Success: true, BookingID: "x"}, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"missing route", `{"seatNumbers":[1]}`, nil, http.StatusBadRequest},
		{"bad route type", `{"routeId":true,"seatNumbers":[1]}`, nil, http.StatusBadRequest},
		{"seats taken", `{"routeId":1,"seatNumbers":[1]}`, domain.NewError(domain.KindForbidden, "Seats unavailable"), http.StatusForbidden},
		{"duplicate submit", `{"routeId":1,"seatNumbers":[1]}`, domain.NewError(domain.KindConflict, "This booking is already being submitted"), http.StatusConflict},
		{"too many seats", `{"routeId":1,"seatNumbers":[1,2,3,4]}`, domain.Validation("You can only book up to 3 seats at once"), http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			if tc.err != nil {
				mockService.On("SubmitBooking", mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)
			}
			handler := NewBookingHandler(mockService, nil, nil)

			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewBufferString(tc.body))
			c.Request.Header.Set("Content-Type", "application/json")

			handler.create(c)

			assert.Equal(t, tc.status, w.Code)
			if tc.err != nil {
				assert.Contains(t, w.Body.String(), tc.err.Error())
			} else {
				mockService.AssertNotCalled(t, "SubmitBooking", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestBookingHandler_RequiresSession(t *testing.T) {
	mockService := &MockBookingUseCase{}
	r := newTestRouter(session.NewMemoryStore(0), NewBookingHandler(mockService, nil, nil).Register)

	w := postJSON(r, "/api/bookings", `{"routeId":1,"seatNumbers":[1]}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/api/bookings")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "ListUserBookings", mock.Anything)
}

func TestBookingHandler_list(t *testing.T) {
	store := session.NewMemoryStore(0)
	sess := newStoredSession(t, store, "tok")
	mockService := &MockBookingUseCase{}
	mockService.On("ListUserBookings", mock.Anything).Return([]schedule.Record{{"bookingId": "501"}}, nil)
	r := newTestRouter(store, NewBookingHandler(mockService, nil, nil).Register)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+sess.ID)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"bookingId":"501"}]`, w.Body.String())
}

func TestBookingHandler_ticket(t *testing.T) {
	store := session.NewMemoryStore(0)
	owner := newStoredSession(t, store, "tok-a")
	relogin := newStoredSession(t, store, "tok-c")
	other := session.New("tok-b", session.Profile{UserID: "8"})
	require.NoError(t, store.Save(context.Background(), other))

	ledger := &MockTicketStore{}
	ledger.On("GetByBookingID", mock.Anything, "501").Return(&domain.Booking{
		BookingID:   "501",
		SessionID:   owner.ID,
		OwnerID:     owner.OwnerID(),
		RouteID:     "12",
		RouteName:   "Mumbai to Pune Express",
		From:        "Mumbai",
		To:          "Pune",
		SeatNumbers: []int{14, 15},
		TotalMinor:  75000,
		Status:      domain.BookingStatusConfirmed,
	}, nil)
	ledger.On("GetByBookingID", mock.Anything, "404").Return(nil, domain.NotFound("booking 404 not found"))

	handler := NewBookingHandler(&MockBookingUseCase{}, ledger, ticket.NewRenderer("", "Busbooking"))
	r := newTestRouter(store, handler.Register)

	fetch := func(id string, sess *session.Session) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+id+"/ticket", nil)
		req.Header.Set("Authorization", "Bearer "+sess.ID)
		r.ServeHTTP(w, req)
		return w
	}

	w := fetch("501", owner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ticket-501.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = fetch("501", relogin)
	assert.Equal(t, http.StatusOK, w.Code)

	w = fetch("501", other)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = fetch("404", owner)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_ledgerList(t *testing.T) {
	store := session.NewMemoryStore(0)
	sess := newStoredSession(t, store, "tok")
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		renderer   *ticket.Renderer
		result     []domain.Booking
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:     "with tickets",
			renderer: ticket.NewRenderer("", "Busbooking"),
			result: []domain.Booking{{
				BookingID:   "501",
				SessionID:   sess.ID,
				OwnerID:     "7",
				RouteID:     "12",
				RouteName:   "Mumbai to Pune Express",
				From:        "Mumbai",
				To:          "Pune",
				SeatNumbers: []int{14},
				TotalMinor:  37500,
				Status:      domain.BookingStatusConfirmed,
				CreatedAt:   created,
			}},
			wantStatus: http.StatusOK,
			wantBody: `[{"bookingId":"501","routeId":"12","routeName":"Mumbai to Pune Express","from":"Mumbai","to":"Pune",
				"seatNumbers":[14],"totalMinor":37500,"status":"CONFIRMED","createdAt":"2026-03-01T09:30:00Z",
				"ticketUrl":"/api/bookings/501/ticket"}]`,
		},
		{
			name:       "empty ledger",
			result:     []domain.Booking{},
			wantStatus: http.StatusOK,
			wantBody:   `[]`,
		},
		{
			name:       "store failure",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &MockTicketStore{}
			if tt.err != nil {
				ledger.On("ListByOwner", mock.Anything, "7").Return(nil, tt.err)
			} else {
				ledger.On("ListByOwner", mock.Anything, "7").Return(tt.result, nil)
			}
			r := newTestRouter(store, NewBookingHandler(&MockBookingUseCase{}, ledger, tt.renderer).Register)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/bookings/tickets", nil)
			req.Header.Set("Authorization", "Bearer "+sess.ID)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
			ledger.AssertExpectations(t)
		})
	}
}

func TestBookingHandler_NoTicketRouteWithoutLedger(t *testing.T) {
	store := session.NewMemoryStore(0)
	sess := newStoredSession(t, store, "tok")
	r := newTestRouter(store, NewBookingHandler(&MockBookingUseCase{}, nil, nil).Register)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/501/ticket", nil)
	req.Header.Set("Authorization", "Bearer "+sess.ID)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
