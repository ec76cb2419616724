package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/kafka"
)

// Ledger records confirmed bookings. Save reports false for an id it already holds.
type Ledger interface {
	Save(ctx context.Context, b *domain.Booking) (bool, error)
}

type TicketWriter interface {
	WriteFile(dir string, b domain.Booking) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, event kafka.BookingEvent, ticketPath string) error
}

// Fulfillment turns booking events into a ledger row, a ticket file and a
// mail. Redelivered events are recognized by the ledger and skipped.
type Fulfillment struct {
	ledger    Ledger
	tickets   TicketWriter
	mail      Mailer
	ticketDir string
	log       *slog.Logger
}

func NewFulfillment(ledger Ledger, tickets TicketWriter, mail Mailer, ticketDir string) *Fulfillment {
	return &Fulfillment{
		ledger:    ledger,
		tickets:   tickets,
		mail:      mail,
		ticketDir: ticketDir,
		log:       slog.Default(),
	}
}

func (f *Fulfillment) Handle(ctx context.Context, ev kafka.BookingEvent) error {
	if ev.Type != "" && ev.Type != kafka.EventBookingConfirmed {
		f.log.Debug("[worker] ignoring event", "type", ev.Type, "booking_id", ev.BookingID)
		return nil
	}

	b := BookingFromEvent(ev)
	if f.ledger != nil {
		created, err := f.ledger.Save(ctx, &b)
		if err != nil {
			return fmt.Errorf("save booking %s: %w", ev.BookingID, err)
		}
		if !created {
			f.log.Info("[worker] duplicate booking event", "booking_id", ev.BookingID)
			return nil
		}
	}

	var path string
	if f.tickets != nil {
		p, err := f.tickets.WriteFile(f.ticketDir, b)
		if err != nil {
			f.log.Error("[worker] ticket render failed", "booking_id", ev.BookingID, "error", err)
		} else {
			path = p
		}
	}

	if f.mail != nil {
		if err := f.mail.Send(ctx, ev, path); err != nil {
			f.log.Error("[worker] mail failed", "booking_id", ev.BookingID, "error", err)
		}
	}
	f.log.Info("[worker] booking fulfilled", "booking_id", ev.BookingID, "ticket", path)
	return nil
}

// Skip logs a message that could not be decoded.
func (f *Fulfillment) Skip(offset int64, err error) {
	f.log.Warn("[worker] skipping undecodable message", "offset", offset, "error", err)
}

func BookingFromEvent(ev kafka.BookingEvent) domain.Booking {
	status := domain.BookingStatus(ev.Status)
	if status == "" {
		status = domain.BookingStatusConfirmed
	}
	owner := ev.OwnerID
	if owner == "" {
		owner = ev.SessionID
	}
	return domain.Booking{
		BookingID:   ev.BookingID,
		SessionID:   ev.SessionID,
		OwnerID:     owner,
		RouteID:     ev.RouteID,
		RouteName:   ev.RouteName,
		From:        ev.From,
		To:          ev.To,
		TravelDate:  ev.TravelDate,
		Departure:   ev.Departure,
		SeatNumbers: ev.SeatNumbers,
		TotalMinor:  ev.TotalMinor,
		Email:       ev.Email,
		Status:      status,
		CreatedAt:   ev.CreatedAt,
	}
}
