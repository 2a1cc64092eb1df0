package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/payment"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookings booking.BookingUseCase
	payments payment.PaymentUseCase
}

type createBookingRequest struct {
	FlightID    int64  `json:"flight_id" binding:"required"`
	PassengerID int64  `json:"passenger_id" binding:"required"`
	SeatNumber  string `json:"seat_number"`
}

type roundtripRequest struct {
	PassengerID      int64  `json:"passenger_id" binding:"required"`
	OutboundFlightID int64  `json:"outbound_flight_id" binding:"required"`
	OutboundSeat     string `json:"outbound_seat"`
	ReturnFlightID   int64  `json:"return_flight_id" binding:"required"`
	ReturnSeat       string `json:"return_seat"`
}

type payRequest struct {
	PassengerID   int64  `json:"passenger_id" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

type paymentDeclinedResponse struct {
	errorResponse
	Booking bookingResponse `json:"booking"`
}

type cancelResponse struct {
	Booking          bookingResponse `json:"booking"`
	AlreadyCancelled bool            `json:"already_cancelled"`
}

func NewBookingHandler(bookings booking.BookingUseCase, payments payment.PaymentUseCase) *BookingHandler {
	return &BookingHandler{bookings: bookings, payments: payments}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings", h.create)
	router.POST("/bookings/roundtrip", h.roundtrip)
	router.POST("/bookings/:id/pay", h.pay)
	router.POST("/bookings/:id/cancel", h.cancelByID)
	router.DELETE("/bookings/code/:code", h.cancelByCode)
	router.GET("/bookings/:ref", h.get)
	router.GET("/debug/bookings/recent", h.recent)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	b, err := h.bookings.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		FlightID:    req.FlightID,
		PassengerID: req.PassengerID,
		SeatNumber:  req.SeatNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(b))
}

func (h *BookingHandler) roundtrip(c *gin.Context) {
	var req roundtripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	legs, err := h.bookings.CreateRoundtrip(c.Request.Context(), booking.RoundtripInput{
		PassengerID:      req.PassengerID,
		OutboundFlightID: req.OutboundFlightID,
		OutboundSeat:     req.OutboundSeat,
		ReturnFlightID:   req.ReturnFlightID,
		ReturnSeat:       req.ReturnSeat,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponses(legs))
}

func (h *BookingHandler) pay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	b, err := h.payments.Pay(c.Request.Context(), id, &req.PassengerID)
	if errors.Is(err, domain.ErrPaymentDeclined) && b != nil {
		_ = c.Error(err)
		c.JSON(http.StatusPaymentRequired, paymentDeclinedResponse{
			errorResponse: errorResponse{Error: err.Error(), Code: "payment_declined"},
			Booking:       toBookingResponse(b),
		})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) cancelByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	passengerID, err := optionalPassengerID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	h.cancel(c, booking.CancelInput{Ref: domain.BookingRef{ID: id}, PassengerID: passengerID})
}

// cancelByCode requires the owner to identify themselves.
func (h *BookingHandler) cancelByCode(c *gin.Context) {
	passengerID, err := optionalPassengerID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if passengerID == nil {
		badRequest(c, "passenger_id is required")
		return
	}
	h.cancel(c, booking.CancelInput{Ref: domain.BookingRef{Code: c.Param("code")}, PassengerID: passengerID})
}

func (h *BookingHandler) cancel(c *gin.Context, input booking.CancelInput) {
	res, err := h.bookings.CancelBooking(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelResponse{
		Booking:          toBookingResponse(res.Booking),
		AlreadyCancelled: res.AlreadyCancelled,
	})
}

func (h *BookingHandler) get(c *gin.Context) {
	passengerID, err := optionalPassengerID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	b, err := h.bookings.GetBooking(c.Request.Context(), domain.ParseBookingRef(c.Param("ref")), passengerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) recent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "invalid limit")
			return
		}
		limit = n
	}
	bookings, err := h.bookings.RecentBookings(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}
