package schedule

import (
	"encoding/json"
	"testing"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDuration(t *testing.T) {
	testCases := []struct {
		start, end string
		want       string
	}{
		{"06:00", "10:30", "4h 30m"},
		{"23:00", "01:00", "2h 0m"},
		{"06:00:00", "10:30:00", "4h 30m"},
		{"9:15 PM", "6:45 AM", "9h 30m"},
		{"12:00 AM", "12:30 PM", "12h 30m"},
		{"11:00 am", "1:00 pm", "2h 0m"},
		{"08:00", "08:00", "0h 0m"},
		{"", "10:00", DurationUnavailable},
		{"abc", "10:00", DurationUnavailable},
		{"10", "11:00", DurationUnavailable},
		{"25:00", "11:00", DurationUnavailable},
		{"10:75", "11:00", DurationUnavailable},
		{"13:00 PM", "11:00", DurationUnavailable},
		{"10:00 XM", "11:00", DurationUnavailable},
		{"10:00", "11:00:99", DurationUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.start+"-"+tc.end, func(t *testing.T) {
			assert.Equal(t, tc.want, CalculateDuration(tc.start, tc.end))
		})
	}
}

func TestNormalizeRoute_BackendFields(t *testing.T) {
	rec := Record{
		"scheduleId":     json.Number("12"),
		"vehicleId":      json.Number("3"),
		"vehicleName":    "Mumbai to Pune Express",
		"vehicleNumber":  "MH-12-AB-1234",
		"vehicleType":    "Sleeper",
		"busType":        "AC",
		"fromLocation":   "Mumbai",
		"toLocation":     "Pune",
		"scheduleDate":   "2026-02-20",
		"departureTime":  "06:00",
		"arrivalTime":    "10:30",
		"price":          json.Number("375"),
		"availableSeats": json.Number("20"),
		"ownerName":      "Ravi",
		"agencyName":     "Sahyadri Travels",
	}

	r := NormalizeRoute(rec)

	assert.Equal(t, domain.Route{
		ID:             "12",
		ScheduleID:     "12",
		VehicleID:      "3",
		From:           "Mumbai",
		To:             "Pune",
		Type:           "sleeper",
		Name:           "Mumbai to Pune Express",
		VehicleNumber:  "MH-12-AB-1234",
		BusType:        "AC",
		DepartureTime:  "06:00",
		ArrivalTime:    "10:30",
		Duration:       "4h 30m",
		ScheduleDate:   "2026-02-20",
		Price:          375,
		AvailableSeats: 20,
		TotalSeats:     32,
		OwnerName:      "Ravi",
		AgencyName:     "Sahyadri Travels",
	}, r)
}

func TestNormalizeRoute_Defaults(t *testing.T) {
	r := NormalizeRoute(Record{})

	assert.Equal(t, "", r.ID)
	assert.Equal(t, "bus", r.Type)
	assert.Equal(t, "Unknown", r.From)
	assert.Equal(t, "Unknown", r.To)
	assert.Equal(t, "Express Service", r.Name)
	assert.Equal(t, "09:00", r.DepartureTime)
	assert.Equal(t, "17:00", r.ArrivalTime)
	assert.Equal(t, "8h 0m", r.Duration)
	assert.Equal(t, 0.0, r.Price)
	assert.Equal(t, 0, r.AvailableSeats)
	assert.Equal(t, 40, r.TotalSeats)

	assert.Equal(t, r, NormalizeRoute(nil))
	assert.Equal(t, "bus", RouteDefault("type"))
}

func TestNormalizeRoute_AliasPriority(t *testing.T) {
	r := NormalizeRoute(Record{
		"id":           "7",
		"scheduleId":   "",
		"from":         "Goa",
		"fromLocation": "Panaji",
		"to":           "Hubli",
		"type":         "SEMI-SLEEPER",
		"name":         "Night Rider",
		"price":        "450.5",
		"totalSeats":   json.Number("30"),
	})

	assert.Equal(t, "7", r.ID)
	assert.Equal(t, "Panaji", r.From)
	assert.Equal(t, "Hubli", r.To)
	assert.Equal(t, "semi-sleeper", r.Type)
	assert.Equal(t, "Night Rider", r.Name)
	assert.Equal(t, 450.5, r.Price)
	assert.Equal(t, 30, r.TotalSeats)
}

func TestNormalizeRoute_BadValuesFallBack(t *testing.T) {
	r := NormalizeRoute(Record{
		"price":         "free",
		"departureTime": "soon",
		"vehicleType":   true,
		"scheduleId":    json.Number("0"),
	})

	assert.Equal(t, 0.0, r.Price)
	assert.Equal(t, "bus", r.Type)
	assert.Equal(t, "", r.ID)
	assert.Equal(t, DurationUnavailable, r.Duration)
}

func TestNormalizeRoute_Idempotent(t *testing.T) {
	inputs := []Record{
		{},
		{"scheduleId": json.Number("12"), "vehicleType": "Seater", "fromLocation": "A", "toLocation": "B", "price": json.Number("99.5")},
		{"id": "x-1", "type": "luxury", "departureTime": "9:15 PM", "arrivalTime": "6:45 AM", "availableSeats": 4.0},
		{"departureTime": "nope"},
		{"vehicleType": "   "},
		{"scheduleId": " 7 ", "fromLocation": "  Pune ", "vehicleType": " Sleeper "},
	}

	for _, in := range inputs {
		once := NormalizeRoute(in)
		twice := NormalizeRoute(RouteRecord(once))
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeRoute_BlankValuesAreAbsent(t *testing.T) {
	r := NormalizeRoute(Record{"vehicleType": "   ", "scheduleId": " 7 ", "id": "9", "fromLocation": "\t", "from": "Mumbai"})

	assert.Equal(t, "bus", r.Type)
	assert.Equal(t, "7", r.ID)
	assert.Equal(t, "7", r.ScheduleID)
	assert.Equal(t, "Mumbai", r.From)
	assert.Equal(t, "Unknown", r.To)
}

func TestDecodeListing_Shapes(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want int
	}{
		{"bare array", `[{"scheduleId":1},{"scheduleId":2}]`, 2},
		{"page envelope", `{"content":[{"scheduleId":1}],"totalElements":1,"totalPages":1}`, 1},
		{"data envelope", `{"data":[{"id":1},{"id":2},{"id":3}]}`, 3},
		{"null entries skipped", `[null,{"id":1},3]`, 1},
		{"object without list", `{"message":"ok"}`, 0},
		{"null", `null`, 0},
		{"empty", ``, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := DecodeListing(json.RawMessage(tc.raw))
			require.NoError(t, err)
			assert.Len(t, records, tc.want)
		})
	}
}

func TestDecodeListing_InvalidJSON(t *testing.T) {
	_, err := DecodeListing(json.RawMessage(`<html>`))
	assert.True(t, domain.IsKind(err, domain.KindMalformed))
}

func TestDecodeRoutes(t *testing.T) {
	routes, err := DecodeRoutes(json.RawMessage(`{"content":[{"scheduleId":5,"fromLocation":"Delhi","toLocation":"Agra","vehicleType":"seater","price":500}]}`))
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "5", routes[0].ID)
	assert.Equal(t, "Delhi", routes[0].From)
	assert.Equal(t, 500.0, routes[0].Price)
	assert.Equal(t, 40, routes[0].TotalSeats)
}
