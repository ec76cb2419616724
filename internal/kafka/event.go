package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const EventBookingConfirmed = "booking_confirmed"

// BookingEvent is published once the remote API has accepted a booking.
type BookingEvent struct {
	Type        string    `json:"type"`
	BookingID   string    `json:"booking_id"`
	SessionID   string    `json:"session_id"`
	OwnerID     string    `json:"owner_id,omitempty"`
	RouteID     string    `json:"route_id"`
	RouteName   string    `json:"route_name,omitempty"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
	TravelDate  string    `json:"travel_date,omitempty"`
	Departure   string    `json:"departure,omitempty"`
	SeatNumbers []int     `json:"seat_numbers"`
	TotalMinor  int64     `json:"total_minor"`
	Email       string    `json:"email,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// DecodeBookingEvent reads a BookingEvent out of a consumed message.
func DecodeBookingEvent(msg kafka.Message) (BookingEvent, error) {
	var ev BookingEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event at offset %d: %w", msg.Offset, err)
	}
	if ev.BookingID == "" {
		return BookingEvent{}, fmt.Errorf("booking event at offset %d has no booking id", msg.Offset)
	}
	return ev, nil
}
