package routes

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/schedule"
	"github.com/Domenick1991/busbooking/internal/seats"
	"github.com/Domenick1991/busbooking/internal/transport"
)

const (
	routesPath = "/public/routes"
	searchPath = "/public/search"
	seatsPath  = "/public/seats/"
)

type RouteUseCase interface {
	List(ctx context.Context) ([]domain.Route, error)
	Search(ctx context.Context, q SearchQuery) ([]domain.Route, error)
	FilterByType(ctx context.Context, vehicleType string) ([]domain.Route, error)
	GetByID(ctx context.Context, id string) (*domain.Route, error)
	BookedSeats(ctx context.Context, scheduleID string) ([]int, error)
	SeatMap(ctx context.Context, scheduleID string) (*SeatMapView, error)
}

// RouteCache keeps normalized listings. A nil slice from GetRoutes is a miss.
type RouteCache interface {
	GetRoutes(ctx context.Context, variant string) ([]domain.Route, error)
	SetRoutes(ctx context.Context, variant string, routes []domain.Route) error
}

type SearchQuery struct {
	From        string `form:"from" json:"from"`
	To          string `form:"to" json:"to"`
	Date        string `form:"date" json:"date"`
	VehicleType string `form:"type" json:"type"`
}

// SeatMapView is everything a seat picker needs for one schedule.
type SeatMapView struct {
	Route       domain.Route        `json:"route"`
	Layout      domain.SeatLayout   `json:"layout"`
	BookedSeats []int               `json:"bookedSeats"`
	Rows        [][]domain.SeatCell `json:"rows"`
}

type RouteService struct {
	api     transport.Sender
	cache   RouteCache
	layouts *seats.Table
	log     *slog.Logger
}

func NewRouteService(api transport.Sender, cache RouteCache, layouts *seats.Table) *RouteService {
	if layouts == nil {
		layouts = seats.DefaultTable()
	}
	return &RouteService{api: api, cache: cache, layouts: layouts, log: slog.Default()}
}

func (s *RouteService) List(ctx context.Context) ([]domain.Route, error) {
	return s.cached(ctx, "", routesPath)
}

func (s *RouteService) FilterByType(ctx context.Context, vehicleType string) ([]domain.Route, error) {
	t := strings.ToLower(strings.TrimSpace(vehicleType))
	if t == "" || t == "all" {
		return s.List(ctx)
	}
	return s.cached(ctx, "type="+t, routesPath+"?"+url.Values{"type": {t}}.Encode())
}

// Search queries the API and re-applies the type filter locally in case the
// API ignores it.
func (s *RouteService) Search(ctx context.Context, q SearchQuery) ([]domain.Route, error) {
	params := url.Values{}
	if from := strings.TrimSpace(q.From); from != "" {
		params.Set("from", from)
	}
	if to := strings.TrimSpace(q.To); to != "" {
		params.Set("to", to)
	}
	if q.Date != "" {
		params.Set("date", q.Date)
	}
	vehicleType := strings.ToLower(strings.TrimSpace(q.VehicleType))
	if vehicleType == "all" {
		vehicleType = ""
	}
	if vehicleType != "" {
		params.Set("type", vehicleType)
	}

	path := searchPath
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	raw, err := s.api.Send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	found, err := schedule.DecodeRoutes(raw)
	if err != nil {
		return nil, err
	}
	return filterByType(found, vehicleType), nil
}

// GetByID finds a route by schedule id or route id. The API has no
// single-route endpoint, so this scans the listing.
func (s *RouteService) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == "undefined" || id == "null" {
		return nil, domain.NotFound("route not found")
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ScheduleID == id || all[i].ID == id {
			r := all[i]
			return &r, nil
		}
	}
	return nil, domain.NotFound("route %s not found", id)
}

// BookedSeats lists the seats already taken on a schedule. A schedule the API
// does not know has none.
func (s *RouteService) BookedSeats(ctx context.Context, scheduleID string) ([]int, error) {
	raw, err := s.api.Send(ctx, http.MethodGet, seatsPath+url.PathEscape(scheduleID), nil)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			s.log.Debug("[routes] no booked seats endpoint for schedule", "schedule_id", scheduleID)
			return []int{}, nil
		}
		return nil, err
	}

	items, err := schedule.DecodeItems(raw)
	if err != nil {
		return nil, err
	}
	booked := make([]int, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			item = obj["seatNumber"]
		}
		if n, ok := seatNumber(item); ok {
			booked = append(booked, n)
		}
	}
	return booked, nil
}

func (s *RouteService) SeatMap(ctx context.Context, scheduleID string) (*SeatMapView, error) {
	route, err := s.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	booked, err := s.BookedSeats(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	layout := s.layouts.LayoutFor(route.Type)
	return &SeatMapView{
		Route:       *route,
		Layout:      layout,
		BookedSeats: booked,
		Rows:        seats.SeatMap(layout, booked),
	}, nil
}

func (s *RouteService) cached(ctx context.Context, variant, path string) ([]domain.Route, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRoutes(ctx, variant); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.log.Warn("[routes] cache read failed", "variant", variant, "error", err)
		}
	}

	raw, err := s.api.Send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	found, err := schedule.DecodeRoutes(raw)
	if err != nil {
		return nil, err
	}
	if found == nil {
		found = []domain.Route{}
	}

	if s.cache != nil {
		if err := s.cache.SetRoutes(ctx, variant, found); err != nil {
			s.log.Warn("[routes] cache write failed", "variant", variant, "error", err)
		}
	}
	return found, nil
}

func filterByType(list []domain.Route, vehicleType string) []domain.Route {
	out := make([]domain.Route, 0, len(list))
	for _, r := range list {
		if vehicleType == "" || r.Type == vehicleType {
			out = append(out, r)
		}
	}
	return out
}

func seatNumber(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil {
			return int(f), true
		}
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	return 0, false
}

var _ RouteUseCase = (*RouteService)(nil)
