package domain

import (
	"encoding/json"
	"time"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Quote is the computed price of a candidate selection. Amounts are in minor units.
type Quote struct {
	PricePerSeatMinor int64 `json:"pricePerSeatMinor"`
	SeatCount         int   `json:"seatCount"`
	TotalMinor        int64 `json:"totalMinor"`
}

func (q Quote) Total() float64 {
	return float64(q.TotalMinor) / 100
}

func (q Quote) PricePerSeat() float64 {
	return float64(q.PricePerSeatMinor) / 100
}

// BookingRequest is the body sent to the remote booking endpoint.
type BookingRequest struct {
	RouteID     any   `json:"routeId"`
	SeatNumbers []int `json:"seatNumbers"`
}

type BookingResult struct {
	Success   bool            `json:"success"`
	BookingID string          `json:"bookingId"`
	Message   string          `json:"message"`
	Quote     *Quote          `json:"quote,omitempty"`
	Raw       json.RawMessage `json:"data"`
}

// Booking is a confirmed reservation as kept in the local ledger.
type Booking struct {
	ID          int64
	BookingID   string
	SessionID   string
	OwnerID     string
	RouteID     string
	RouteName   string
	From        string
	To          string
	TravelDate  string
	Departure   string
	SeatNumbers []int
	TotalMinor  int64
	Email       string
	Status      BookingStatus
	CreatedAt   time.Time
}
