package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/kafka"
	"github.com/Domenick1991/busbooking/internal/schedule"
	"github.com/Domenick1991/busbooking/internal/seats"
	"github.com/Domenick1991/busbooking/internal/session"
	"github.com/Domenick1991/busbooking/internal/transport"
)

const (
	bookingsPath     = "/user/bookings"
	confirmedMessage = "Booking confirmed"
)

type BookingUseCase interface {
	SubmitBooking(ctx context.Context, routeID string, seatNumbers []int) (*domain.BookingResult, error)
	ListUserBookings(ctx context.Context) ([]schedule.Record, error)
}

// SubmitGuard stops one session from sending the same selection twice.
type SubmitGuard interface {
	AcquireSubmitGuard(ctx context.Context, sessionID, routeID string, seats []int, ttl time.Duration) (bool, error)
	ReleaseSubmitGuard(ctx context.Context, sessionID, routeID string, seats []int) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type RouteLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Route, error)
}

type BookingService struct {
	api          transport.Sender
	guard        SubmitGuard
	guardTTL     time.Duration
	producer     Producer
	bookingTopic string
	routes       RouteLookup
	maxSeats     int
	log          *slog.Logger
}

type BookingServiceOption func(*BookingService)

func WithSubmitGuard(g SubmitGuard, ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.guard = g
		s.guardTTL = ttl
	}
}

func WithEvents(p Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = p
		s.bookingTopic = topic
	}
}

func WithRouteLookup(r RouteLookup) BookingServiceOption {
	return func(s *BookingService) {
		s.routes = r
	}
}

func WithMaxSeats(n int) BookingServiceOption {
	return func(s *BookingService) {
		s.maxSeats = n
	}
}

func WithLogger(l *slog.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = l
	}
}

func NewBookingService(api transport.Sender, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		api:      api,
		maxSeats: seats.DefaultMaxSeats,
		guardTTL: 30 * time.Second,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// SubmitBooking validates the selection, posts it to the booking API and
// interprets the answer. Nothing is sent when the selection is invalid.
func (s *BookingService) SubmitBooking(ctx context.Context, routeID string, seatNumbers []int) (*domain.BookingResult, error) {
	if v := seats.Validate(seatNumbers, s.maxSeats); !v.Valid {
		return nil, v.Err()
	}
	routeID = strings.TrimSpace(routeID)
	if routeID == "" {
		return nil, domain.Validation("Please choose a route")
	}

	sess, _ := session.FromContext(ctx)
	sessionID := ""
	if sess != nil {
		sessionID = sess.ID
	}

	guarded := false
	if s.guard != nil && sessionID != "" {
		ok, err := s.guard.AcquireSubmitGuard(ctx, sessionID, routeID, seatNumbers, s.guardTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.NewError(domain.KindConflict, "This booking is already being submitted")
		}
		guarded = true
	}

	req := domain.BookingRequest{RouteID: routeIDValue(routeID), SeatNumbers: seatNumbers}
	raw, err := s.api.Send(ctx, http.MethodPost, bookingsPath, req)
	if err != nil {
		if guarded {
			if rerr := s.guard.ReleaseSubmitGuard(ctx, sessionID, routeID, seatNumbers); rerr != nil {
				s.log.Warn("[booking] release submit guard", "route_id", routeID, "error", rerr)
			}
		}
		return nil, err
	}

	bookingID := bookingIdentifier(raw)
	if bookingID == "" {
		s.log.Warn("[booking] response without booking id", "route_id", routeID, "request_id", transport.RequestID(ctx))
		return nil, domain.Malformed("booking response carries no booking id")
	}

	result := &domain.BookingResult{
		Success:   true,
		BookingID: bookingID,
		Message:   confirmedMessage,
		Raw:       raw,
	}

	route := s.lookupRoute(ctx, routeID)
	if route != nil && route.Price > 0 {
		if q, err := seats.QuoteFor(route.Price, seatNumbers); err == nil {
			result.Quote = &q
		}
	}

	s.log.Info("[booking] confirmed", "booking_id", bookingID, "route_id", routeID, "seats", seatNumbers)
	s.publish(ctx, sess, routeID, route, result, seatNumbers)
	return result, nil
}

// ListUserBookings returns the caller's bookings as the API reports them.
func (s *BookingService) ListUserBookings(ctx context.Context) ([]schedule.Record, error) {
	raw, err := s.api.Send(ctx, http.MethodGet, bookingsPath, nil)
	if err != nil {
		return nil, err
	}
	records, err := schedule.DecodeListing(raw)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []schedule.Record{}
	}
	return records, nil
}

func (s *BookingService) lookupRoute(ctx context.Context, routeID string) *domain.Route {
	if s.routes == nil {
		return nil
	}
	route, err := s.routes.GetByID(ctx, routeID)
	if err != nil {
		s.log.Debug("[booking] route lookup failed", "route_id", routeID, "error", err)
		return nil
	}
	return route
}

func (s *BookingService) publish(ctx context.Context, sess *session.Session, routeID string, route *domain.Route, result *domain.BookingResult, seatNumbers []int) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}

	event := kafka.BookingEvent{
		Type:        kafka.EventBookingConfirmed,
		BookingID:   result.BookingID,
		RouteID:     routeID,
		SeatNumbers: seatNumbers,
		Status:      string(domain.BookingStatusConfirmed),
		CreatedAt:   time.Now().UTC(),
	}
	if sess != nil {
		event.SessionID = sess.ID
		event.OwnerID = sess.OwnerID()
		event.Email = sess.Profile.Email
	}
	if route != nil {
		event.RouteName = route.Name
		event.From = route.From
		event.To = route.To
		event.TravelDate = route.ScheduleDate
		event.Departure = route.DepartureTime
	}
	if result.Quote != nil {
		event.TotalMinor = result.Quote.TotalMinor
	}

	if err := s.producer.Publish(ctx, s.bookingTopic, result.BookingID, event); err != nil {
		s.log.Warn("[booking] publish booking event", "booking_id", result.BookingID, "error", err)
	}
}

// routeIDValue keeps numeric ids numeric on the wire.
func routeIDValue(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

// bookingIdentifier reads id, then bookingId, from a response object. Zero
// and blank values count as absent.
func bookingIdentifier(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return ""
	}
	for _, key := range []string{"id", "bookingId"} {
		switch v := body[key].(type) {
		case json.Number:
			if n, err := v.Float64(); err == nil && n != 0 {
				return v.String()
			}
		case string:
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

var _ BookingUseCase = (*BookingService)(nil)
