package api

import (
	"net/http"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/seats"
	"github.com/gin-gonic/gin"
)

// SeatHandler serves the pure seat computations: layouts, selection checks
// and price quotes.
type SeatHandler struct {
	layouts  *seats.Table
	maxSeats int
}

type layoutResponse struct {
	Layout     domain.SeatLayout   `json:"layout"`
	TotalSeats int                 `json:"totalSeats"`
	Fallback   bool                `json:"fallback"`
	Rows       [][]domain.SeatCell `json:"rows"`
}

type validateSelectionRequest struct {
	SeatNumbers []int `json:"seatNumbers"`
	MaxSeats    int   `json:"maxSeats"`
}

type quoteRequest struct {
	PricePerSeat float64 `json:"pricePerSeat"`
	SeatNumbers  []int   `json:"seatNumbers"`
}

type quoteResponse struct {
	domain.Quote
	PricePerSeat float64 `json:"pricePerSeat"`
	Total        float64 `json:"total"`
}

func NewSeatHandler(layouts *seats.Table, maxSeats int) *SeatHandler {
	if layouts == nil {
		layouts = seats.DefaultTable()
	}
	return &SeatHandler{layouts: layouts, maxSeats: maxSeats}
}

func (h *SeatHandler) Register(router *gin.RouterGroup) {
	router.GET("/layouts/:class", h.layout)
	router.POST("/selections/validate", h.validate)
	router.POST("/quotes", h.quote)
}

func (h *SeatHandler) layout(c *gin.Context) {
	class := c.Param("class")
	l := h.layouts.LayoutFor(class)
	c.JSON(http.StatusOK, layoutResponse{
		Layout:     l,
		TotalSeats: l.TotalSeats(),
		Fallback:   !h.layouts.Known(class),
		Rows:       seats.SeatMap(l, nil),
	})
}

// validate always answers 200; the verdict is in the body.
func (h *SeatHandler) validate(c *gin.Context) {
	var req validateSelectionRequest
	if !bindJSON(c, &req) {
		return
	}
	limit := h.maxSeats
	if req.MaxSeats > 0 {
		limit = req.MaxSeats
	}
	c.JSON(http.StatusOK, seats.Validate(req.SeatNumbers, limit))
}

func (h *SeatHandler) quote(c *gin.Context) {
	var req quoteRequest
	if !bindJSON(c, &req) {
		return
	}
	q, err := seats.QuoteFor(req.PricePerSeat, req.SeatNumbers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quoteResponse{Quote: q, PricePerSeat: q.PricePerSeat(), Total: q.Total()})
}
