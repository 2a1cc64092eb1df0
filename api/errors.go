package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrAlreadyBooked, http.StatusConflict, "already_booked"},
	{domain.ErrNoSeatsAvailable, http.StatusConflict, "no_seats_available"},
	{domain.ErrInvalidSchedule, http.StatusBadRequest, "invalid_schedule"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrPaymentDeclined, http.StatusPaymentRequired, "payment_declined"},
	{domain.ErrBookingClosed, http.StatusConflict, "booking_closed"},
	{domain.ErrCodeGenerationExhausted, http.StatusInternalServerError, "code_generation_exhausted"},
	{domain.ErrStorage, http.StatusInternalServerError, "storage_failure"},
}

func statusFor(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

// writeError maps a core error to its response. Internal failures do not
// leak driver messages to the client.
func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	_ = c.Error(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, errorResponse{Error: msg, Code: code})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Code: "invalid_input"})
}
