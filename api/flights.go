package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type FlightHandler struct {
	service flights.FlightUseCase
}

type createFlightRequest struct {
	AirlineID     int64     `json:"airline_id" binding:"required"`
	FlightNumber  string    `json:"flight_number" binding:"required"`
	Source        string    `json:"source" binding:"required"`
	Destination   string    `json:"destination" binding:"required"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	BaseFare      float64   `json:"base_fare" binding:"required"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights", h.search)
	router.POST("/flights", h.create)
	router.GET("/flights/:id", h.get)
	router.GET("/flights/:id/seats", h.seats)
	router.GET("/dynamic-price", h.quoteAll)
	router.GET("/dynamic-price/:id", h.get)
}

func parseSearchFilter(c *gin.Context) (flights.SearchFilter, error) {
	filter := flights.SearchFilter{
		From:   c.Query("from"),
		To:     c.Query("to"),
		SortBy: c.DefaultQuery("sort", "price"),
	}
	if raw := c.Query("date"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, err
		}
		filter.Date = d
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return filter, strconv.ErrSyntax
		}
		filter.MaxPriceCents = int64(math.Round(v * 100))
	}
	return filter, nil
}

func (h *FlightHandler) search(c *gin.Context) {
	filter, err := parseSearchFilter(c)
	if err != nil {
		badRequest(c, "invalid search parameters")
		return
	}
	if filter.SortBy != "price" && filter.SortBy != "duration" {
		badRequest(c, "sort must be price or duration")
		return
	}

	quotes, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]quoteResponse, len(quotes))
	for i := range quotes {
		out[i] = toQuoteResponse(&quotes[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	quote, err := h.service.Quote(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

func (h *FlightHandler) quoteAll(c *gin.Context) {
	quotes, err := h.service.QuoteAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]quoteResponse, len(quotes))
	for i := range quotes {
		out[i] = toQuoteResponse(&quotes[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *FlightHandler) seats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	seats, err := h.service.Seats(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]seatResponse, len(seats))
	for i, s := range seats {
		out[i] = seatResponse{SeatID: s.ID, SeatNumber: s.SeatNumber, SeatClass: s.SeatClass, IsBooked: s.IsBooked}
	}
	c.JSON(http.StatusOK, out)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	flight, err := h.service.CreateFlight(c.Request.Context(), flights.CreateFlightInput{
		AirlineID:     req.AirlineID,
		FlightNumber:  req.FlightNumber,
		Source:        req.Source,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		BaseFareCents: int64(math.Round(req.BaseFare * 100)),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(flight))
}
