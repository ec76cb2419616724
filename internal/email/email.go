package email

import (
	"context"
	"log/slog"

	"github.com/Domenick1991/busbooking/internal/kafka"
)

// Sender hands booking notifications to the mail relay. It only logs until a
// relay is configured.
type Sender struct {
	from string
	log  *slog.Logger
}

func NewSender(from string) *Sender {
	return &Sender{from: from, log: slog.Default()}
}

// Send notifies the passenger of event, with the rendered ticket attached when
// ticketPath is set. Events without an address are skipped.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent, ticketPath string) error {
	if event.Email == "" {
		s.log.Debug("[email] no recipient", "booking_id", event.BookingID)
		return nil
	}
	s.log.InfoContext(ctx, "[email] send",
		"from", s.from,
		"to", event.Email,
		"type", event.Type,
		"booking_id", event.BookingID,
		"seats", event.SeatNumbers,
		"attachment", ticketPath,
	)
	return nil
}
