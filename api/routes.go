package api

import (
	"net/http"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/service/routes"
	"github.com/gin-gonic/gin"
)

type RouteHandler struct {
	service routes.RouteUseCase
}

func NewRouteHandler(service routes.RouteUseCase) *RouteHandler {
	return &RouteHandler{service: service}
}

func (h *RouteHandler) Register(router *gin.RouterGroup) {
	router.GET("/routes", h.list)
	router.GET("/routes/search", h.search)
	router.GET("/routes/:id", h.get)
	router.GET("/routes/:id/seats", h.seats)
}

func (h *RouteHandler) list(c *gin.Context) {
	var (
		list []domain.Route
		err  error
	)
	if t := c.Query("type"); t != "" {
		list, err = h.service.FilterByType(c.Request.Context(), t)
	} else {
		list, err = h.service.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *RouteHandler) search(c *gin.Context) {
	var q routes.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, domain.Validation("invalid search query: %v", err))
		return
	}
	list, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *RouteHandler) get(c *gin.Context) {
	route, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

func (h *RouteHandler) seats(c *gin.Context) {
	view, err := h.service.SeatMap(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
