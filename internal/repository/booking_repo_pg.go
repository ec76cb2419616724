package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Domenick1991/busbooking/internal/domain"
)

// BookingRepository is the local ledger of bookings the remote API confirmed.
type BookingRepository interface {
	Save(ctx context.Context, booking *domain.Booking) (bool, error)
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *PGBookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, booking_id, session_id, owner_id, route_id, route_name, from_city, to_city, travel_date, departure, seat_numbers, total_minor, email, status, created_at`

// Save records booking once; a second delivery of the same booking id is a
// no-op and reports false.
func (r *PGBookingRepository) Save(ctx context.Context, booking *domain.Booking) (bool, error) {
	seats, err := json.Marshal(booking.SeatNumbers)
	if err != nil {
		return false, err
	}

	row := r.db.QueryRowContext(ctx, `INSERT INTO bookings
		(booking_id, session_id, owner_id, route_id, route_name, from_city, to_city, travel_date, departure, seat_numbers, total_minor, email, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (booking_id) DO NOTHING
		RETURNING id, created_at`,
		booking.BookingID, booking.SessionID, booking.OwnerID, booking.RouteID, booking.RouteName, booking.From, booking.To,
		booking.TravelDate, booking.Departure, string(seats), booking.TotalMinor, booking.Email, booking.Status)

	if err := row.Scan(&booking.ID, &booking.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("save booking %s: %w", booking.BookingID, err)
	}
	return true, nil
}

func (r *PGBookingRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id=$1`, bookingID)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("booking %s not found", bookingID)
		}
		return nil, err
	}
	return b, nil
}

// ListByOwner returns the owner's bookings, newest first.
func (r *PGBookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE owner_id=$1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(s scanner) (*domain.Booking, error) {
	var (
		b     domain.Booking
		seats []byte
	)
	if err := s.Scan(&b.ID, &b.BookingID, &b.SessionID, &b.OwnerID, &b.RouteID, &b.RouteName, &b.From, &b.To,
		&b.TravelDate, &b.Departure, &seats, &b.TotalMinor, &b.Email, &b.Status, &b.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(seats, &b.SeatNumbers); err != nil {
		return nil, fmt.Errorf("decode seat numbers of booking %s: %w", b.BookingID, err)
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
