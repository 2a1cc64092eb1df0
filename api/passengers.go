package api

import (
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/passengers"
	"github.com/gin-gonic/gin"
)

type PassengerHandler struct {
	passengers passengers.PassengerUseCase
	bookings   booking.BookingUseCase
}

type registerPassengerRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

func NewPassengerHandler(p passengers.PassengerUseCase, b booking.BookingUseCase) *PassengerHandler {
	return &PassengerHandler{passengers: p, bookings: b}
}

func (h *PassengerHandler) Register(router *gin.RouterGroup) {
	router.POST("/passengers", h.register)
	router.GET("/passengers/:id", h.get)
	router.GET("/passengers/:id/bookings", h.listBookings)
}

func (h *PassengerHandler) register(c *gin.Context) {
	var req registerPassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := h.passengers.Register(c.Request.Context(), passengers.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPassengerResponse(p))
}

func (h *PassengerHandler) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.passengers.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPassengerResponse(p))
}

func (h *PassengerHandler) listBookings(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	bookings, err := h.bookings.ListByPassenger(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}
