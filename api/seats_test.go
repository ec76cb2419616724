package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/busbooking/internal/seats"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seatRouter() *gin.Engine {
	return newTestRouter(nil, NewSeatHandler(nil, 3).Register)
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSeatHandler_layout(t *testing.T) {
	testCases := []struct {
		class    string
		total    int
		fallback bool
	}{
		{"sleeper", 32, false},
		{"Semi-Sleeper", 36, false},
		{"seater", 40, false},
		{"luxury", 40, true},
	}

	r := seatRouter()
	for _, tc := range testCases {
		t.Run(tc.class, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/layouts/"+tc.class, nil))

			require.Equal(t, http.StatusOK, w.Code)
			var resp layoutResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.total, resp.TotalSeats)
			assert.Equal(t, tc.fallback, resp.Fallback)
			assert.Len(t, resp.Rows, resp.Layout.Rows)
		})
	}
}

func TestSeatHandler_validate(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want seats.Validation
	}{
		{"empty", `{"seatNumbers":[]}`, seats.Validation{Message: "Please select at least one seat"}},
		{"within cap", `{"seatNumbers":[1,2,3]}`, seats.Validation{Valid: true, Message: "Valid selection"}},
		{"over cap", `{"seatNumbers":[1,2,3,4]}`, seats.Validation{Message: "You can only book up to 3 seats at once"}},
		{"caller cap", `{"seatNumbers":[1,2,3,4],"maxSeats":5}`, seats.Validation{Valid: true, Message: "Valid selection"}},
	}

	r := seatRouter()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(r, "/api/selections/validate", tc.body)

			require.Equal(t, http.StatusOK, w.Code)
			var got seats.Validation
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSeatHandler_quote(t *testing.T) {
	r := seatRouter()

	w := postJSON(r, "/api/quotes", `{"pricePerSeat":375,"seatNumbers":[14,15]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pricePerSeatMinor":37500,"seatCount":2,"totalMinor":75000,"pricePerSeat":375,"total":750}`, w.Body.String())

	w = postJSON(r, "/api/quotes", `{"pricePerSeat":-1,"seatNumbers":[1]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/api/quotes", `{"pricePerSeat":"cheap"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"validation_failed"`)
}
