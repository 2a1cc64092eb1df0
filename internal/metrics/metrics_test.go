package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestReason(t *testing.T) {
	assert.Equal(t, "not_found", Reason(fmt.Errorf("get flight: %w", domain.ErrNotFound)))
	assert.Equal(t, "already_booked", Reason(domain.ErrAlreadyBooked))
	assert.Equal(t, "no_seats", Reason(domain.ErrNoSeatsAvailable))
	assert.Equal(t, "invalid_schedule", Reason(domain.ErrInvalidSchedule))
	assert.Equal(t, "forbidden", Reason(domain.ErrForbidden))
	assert.Equal(t, "internal", Reason(errors.New("boom")))
}
