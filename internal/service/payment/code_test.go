package payment

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/mocks"
	"github.com/Domenick1991/flightbooking/internal/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCodeGenerator_Format(t *testing.T) {
	ctx := context.Background()
	checker := &mocks.BookingRepository{}
	checker.On("CodeExists", ctx, mock.Anything).Return(false, nil)

	gen := NewCodeGenerator(random.New(7), checker, 8, 10)
	pattern := regexp.MustCompile(`^[A-Z0-9]{8}$`)
	for i := 0; i < 50; i++ {
		code, err := gen.Generate(ctx)
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		assert.Regexp(t, `[A-Z]`, code)
	}
}

// lastSource always picks the last option.
type lastSource struct{}

func (lastSource) Float64() float64 { return 0.99 }
func (lastSource) IntN(n int) int   { return n - 1 }

func TestCodeGenerator_AllDigitsGetsALetter(t *testing.T) {
	ctx := context.Background()
	checker := &mocks.BookingRepository{}
	checker.On("CodeExists", ctx, "9999999Z").Return(false, nil)

	code, err := NewCodeGenerator(lastSource{}, checker, 8, 1).Generate(ctx)

	require.NoError(t, err)
	assert.Equal(t, "9999999Z", code)
	// код не должен читаться как номер брони
	assert.Equal(t, domain.BookingRef{Code: code}, domain.ParseBookingRef(code))
	checker.AssertExpectations(t)
}

func TestCodeGenerator_Defaults(t *testing.T) {
	gen := NewCodeGenerator(random.New(1), &mocks.BookingRepository{}, 0, 0)
	assert.Equal(t, 8, gen.length)
	assert.Equal(t, 10, gen.attempts)
}

func TestCodeGenerator_CheckerError(t *testing.T) {
	ctx := context.Background()
	checker := &mocks.BookingRepository{}
	checker.On("CodeExists", ctx, mock.Anything).Return(false, errors.New("db down"))

	_, err := NewCodeGenerator(random.New(1), checker, 8, 3).Generate(ctx)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCodeGenerationExhausted)
	checker.AssertNumberOfCalls(t, "CodeExists", 1)
}
