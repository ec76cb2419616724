package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/service/booking"
	"github.com/Domenick1991/busbooking/internal/ticket"
	"github.com/gin-gonic/gin"
)

// TicketStore is the read side of the booking ledger.
type TicketStore interface {
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error)
}

type BookingHandler struct {
	service booking.BookingUseCase
	ledger  TicketStore
	tickets *ticket.Renderer
}

type createBookingRequest struct {
	RouteID     flexID `json:"routeId" binding:"required"`
	SeatNumbers []int  `json:"seatNumbers"`
}

type ticketView struct {
	BookingID   string    `json:"bookingId"`
	RouteID     string    `json:"routeId"`
	RouteName   string    `json:"routeName"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	TravelDate  string    `json:"travelDate,omitempty"`
	Departure   string    `json:"departureTime,omitempty"`
	SeatNumbers []int     `json:"seatNumbers"`
	TotalMinor  int64     `json:"totalMinor"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	TicketURL   string    `json:"ticketUrl,omitempty"`
}

// flexID accepts an identifier sent as a JSON number or string.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.New("must be a number or a string")
	}
	*f = flexID(s)
	return nil
}

func NewBookingHandler(service booking.BookingUseCase, ledger TicketStore, tickets *ticket.Renderer) *BookingHandler {
	return &BookingHandler{service: service, ledger: ledger, tickets: tickets}
}

// Register mounts the booking routes; all of them need a session.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	group := router.Group("/bookings", RequireSession())
	group.POST("", h.create)
	group.GET("", h.list)
	if h.ledger != nil && h.tickets != nil {
		group.GET("/:id/ticket", h.ticket)
	}
	if h.ledger != nil {
		group.GET("/tickets", h.ledgerList)
	}
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.SubmitBooking(c.Request.Context(), string(req.RouteID), req.SeatNumbers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *BookingHandler) list(c *gin.Context) {
	list, err := h.service.ListUserBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ledgerList lists the ledger entries of the signed-in passenger, across logins.
func (h *BookingHandler) ledgerList(c *gin.Context) {
	sess := CurrentSession(c)
	list, err := h.ledger.ListByOwner(c.Request.Context(), sess.OwnerID())
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]ticketView, 0, len(list))
	for _, b := range list {
		v := ticketView{
			BookingID:   b.BookingID,
			RouteID:     b.RouteID,
			RouteName:   b.RouteName,
			From:        b.From,
			To:          b.To,
			TravelDate:  b.TravelDate,
			Departure:   b.Departure,
			SeatNumbers: b.SeatNumbers,
			TotalMinor:  b.TotalMinor,
			Status:      string(b.Status),
			CreatedAt:   b.CreatedAt,
		}
		if h.tickets != nil {
			v.TicketURL = "/api/bookings/" + b.BookingID + "/ticket"
		}
		views = append(views, v)
	}
	c.JSON(http.StatusOK, views)
}

// ticket streams the e-ticket of a booking owned by the signed-in passenger.
func (h *BookingHandler) ticket(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	b, err := h.ledger.GetByBookingID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if sess := CurrentSession(c); sess == nil || b.OwnerID != sess.OwnerID() {
		respondError(c, domain.NotFound("booking %s not found", id))
		return
	}

	pdf, err := h.tickets.Render(*b)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+ticket.FileName(b.BookingID)+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
