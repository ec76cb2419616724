package schedule

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/seats"
)

// Record is one route/schedule object as the booking API sends it.
type Record map[string]any

type field struct {
	aliases  []string
	fallback any
}

// routeFields lists, per canonical field, the upstream names accepted (first
// present wins) and the value substituted when none is present.
var routeFields = map[string]field{
	"id":             {aliases: []string{"scheduleId", "id"}, fallback: ""},
	"vehicleId":      {aliases: []string{"vehicleId"}, fallback: ""},
	"from":           {aliases: []string{"fromLocation", "from"}, fallback: "Unknown"},
	"to":             {aliases: []string{"toLocation", "to"}, fallback: "Unknown"},
	"type":           {aliases: []string{"vehicleType", "type"}, fallback: "bus"},
	"name":           {aliases: []string{"vehicleName", "name"}, fallback: "Express Service"},
	"vehicleNumber":  {aliases: []string{"vehicleNumber"}, fallback: ""},
	"busType":        {aliases: []string{"busType"}, fallback: ""},
	"departureTime":  {aliases: []string{"departureTime"}, fallback: "09:00"},
	"arrivalTime":    {aliases: []string{"arrivalTime"}, fallback: "17:00"},
	"scheduleDate":   {aliases: []string{"scheduleDate"}, fallback: ""},
	"ownerName":      {aliases: []string{"ownerName"}, fallback: ""},
	"agencyName":     {aliases: []string{"agencyName"}, fallback: ""},
	"price":          {aliases: []string{"price"}, fallback: 0.0},
	"availableSeats": {aliases: []string{"availableSeats"}, fallback: 0.0},
	"totalSeats":     {aliases: []string{"totalSeats"}, fallback: 0.0},
}

// RouteDefault returns the substitute used for an absent canonical field.
func RouteDefault(name string) any {
	return routeFields[name].fallback
}

// NormalizeRoute maps a backend record onto the canonical route shape. It
// never fails: every absent field gets its default. Applying it to the
// output of Route.Record yields the same route.
func NormalizeRoute(rec Record) domain.Route {
	id := rec.text("id")
	kind := strings.ToLower(rec.text("type"))
	departure := rec.text("departureTime")
	arrival := rec.text("arrivalTime")

	total := int(rec.number("totalSeats"))
	if total == 0 {
		total = seats.LayoutFor(kind).TotalSeats()
	}

	return domain.Route{
		ID:             id,
		ScheduleID:     id,
		VehicleID:      rec.text("vehicleId"),
		From:           rec.text("from"),
		To:             rec.text("to"),
		Type:           kind,
		Name:           rec.text("name"),
		VehicleNumber:  rec.text("vehicleNumber"),
		BusType:        rec.text("busType"),
		DepartureTime:  departure,
		ArrivalTime:    arrival,
		Duration:       CalculateDuration(departure, arrival),
		ScheduleDate:   rec.text("scheduleDate"),
		Price:          rec.number("price"),
		AvailableSeats: int(rec.number("availableSeats")),
		TotalSeats:     total,
		OwnerName:      rec.text("ownerName"),
		AgencyName:     rec.text("agencyName"),
	}
}

// RouteRecord renders a canonical route back into record form.
func RouteRecord(r domain.Route) Record {
	return Record{
		"id":             r.ID,
		"scheduleId":     r.ScheduleID,
		"vehicleId":      r.VehicleID,
		"from":           r.From,
		"to":             r.To,
		"type":           r.Type,
		"name":           r.Name,
		"vehicleNumber":  r.VehicleNumber,
		"busType":        r.BusType,
		"departureTime":  r.DepartureTime,
		"arrivalTime":    r.ArrivalTime,
		"duration":       r.Duration,
		"scheduleDate":   r.ScheduleDate,
		"price":          r.Price,
		"availableSeats": r.AvailableSeats,
		"totalSeats":     r.TotalSeats,
		"ownerName":      r.OwnerName,
		"agencyName":     r.AgencyName,
	}
}

func (rec Record) text(name string) string {
	f := routeFields[name]
	for _, key := range f.aliases {
		if s, ok := asText(rec[key]); ok {
			return s
		}
	}
	s, _ := f.fallback.(string)
	return s
}

func (rec Record) number(name string) float64 {
	f := routeFields[name]
	for _, key := range f.aliases {
		if n, ok := asNumber(rec[key]); ok {
			return n
		}
	}
	n, _ := f.fallback.(float64)
	return n
}

// asText reports a usable value: blank strings and zero numbers count as absent.
func asText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	case json.Number:
		n, err := t.Float64()
		if err != nil || n == 0 {
			return "", false
		}
		return t.String(), true
	case float64:
		if t == 0 || math.IsNaN(t) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), t != 0
	case int64:
		return strconv.FormatInt(t, 10), t != 0
	}
	return "", false
}

func asNumber(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case float64:
		n = t
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
