package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func sampleQuote() domain.FlightQuote {
	dep := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)
	return domain.FlightQuote{
		Flight: domain.Flight{
			ID: 1, AirlineID: 2, AirlineName: "Air India", FlightNumber: "AI101",
			Source: "Delhi", Destination: "Mumbai",
			DepartureTime: dep, ArrivalTime: dep.Add(2 * time.Hour),
			BaseFareCents: 450000,
		},
		Seats:        domain.SeatCounts{Total: 25, Booked: 5},
		DynamicCents: 522050,
	}
}

func TestFlightHandler_search(t *testing.T) {
	mockService := &MockFlightUseCase{}
	r := newTestRouter(NewFlightHandler(mockService))

	expected := flights.SearchFilter{
		From:          "Delhi",
		To:            "Mumbai",
		Date:          time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		MaxPriceCents: 500050,
		SortBy:        "duration",
	}
	mockService.On("Search", mock.Anything, expected).Return([]domain.FlightQuote{sampleQuote()}, nil)

	w := perform(r, http.MethodGet, "/flights?from=Delhi&to=Mumbai&date=2026-11-01&max_price=5000.50&sort=duration", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeList(t, w)
	if assert.Len(t, body, 1) {
		assert.Equal(t, "AI101", body[0]["flight_number"])
		assert.Equal(t, 5220.5, body[0]["dynamic_price"])
		assert.Equal(t, 4500.0, body[0]["base_fare"])
		assert.Equal(t, 20.0, body[0]["seats_available"])
		assert.Equal(t, 25.0, body[0]["total_seats"])
	}
	mockService.AssertExpectations(t)
}

func TestFlightHandler_search_defaultsToPrice(t *testing.T) {
	mockService := &MockFlightUseCase{}
	r := newTestRouter(NewFlightHandler(mockService))

	mockService.On("Search", mock.Anything, flights.SearchFilter{SortBy: "price"}).Return([]domain.FlightQuote{}, nil)

	w := perform(r, http.MethodGet, "/flights", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
	mockService.AssertExpectations(t)
}

func TestFlightHandler_search_badParams(t *testing.T) {
	testCases := []string{
		"/flights?sort=name",
		"/flights?date=01-11-2026",
		"/flights?max_price=cheap",
		"/flights?max_price=-5",
	}
	for _, path := range testCases {
		t.Run(path, func(t *testing.T) {
			mockService := &MockFlightUseCase{}
			r := newTestRouter(NewFlightHandler(mockService))

			w := perform(r, http.MethodGet, path, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockService.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
		})
	}
}

func TestFlightHandler_get(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/flights/1", nil)

	q := sampleQuote()
	mockService.On("Quote", c.Request.Context(), int64(1)).Return(&q, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Air India", body["airline"])
	assert.Equal(t, "Delhi", body["origin"])

	mockService.AssertExpectations(t)
}

func TestFlightHandler_get_errors(t *testing.T) {
	mockService := &MockFlightUseCase{}
	r := newTestRouter(NewFlightHandler(mockService))

	mockService.On("Quote", mock.Anything, int64(99)).Return(nil, fmt.Errorf("get flight 99: %w", domain.ErrNotFound))

	w := perform(r, http.MethodGet, "/dynamic-price/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode(t, w)["code"])

	w = perform(r, http.MethodGet, "/flights/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertExpectations(t)
}

func TestFlightHandler_quoteAll(t *testing.T) {
	mockService := &MockFlightUseCase{}
	r := newTestRouter(NewFlightHandler(mockService))

	mockService.On("QuoteAll", mock.Anything).Return([]domain.FlightQuote{sampleQuote(), sampleQuote()}, nil)

	w := perform(r, http.MethodGet, "/dynamic-price", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_seats(t *testing.T) {
	mockService := &MockFlightUseCase{}
	r := newTestRouter(NewFlightHandler(mockService))

	mockService.On("Seats", mock.Anything, int64(1)).Return([]domain.Seat{
		{ID: 10, FlightID: 1, SeatNumber: "1A", SeatClass: domain.SeatClassBusiness, IsBooked: true},
		{ID: 11, FlightID: 1, SeatNumber: "1B", SeatClass: domain.SeatClassBusiness},
	}, nil)

	w := perform(r, http.MethodGet, "/flights/1/seats", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeList(t, w)
	if assert.Len(t, body, 2) {
		assert.Equal(t, "1A", body[0]["seat_number"])
		assert.Equal(t, true, body[0]["is_booked"])
		assert.Equal(t, false, body[1]["is_booked"])
	}
	mockService.AssertExpectations(t)
}

func TestFlightHandler_create(t *testing.T) {
	mockService := &MockFlightUseCase{}
	r := newTestRouter(NewFlightHandler(mockService))

	dep := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)
	created := &domain.Flight{
		ID: 7, AirlineID: 2, FlightNumber: "AI202", Source: "Delhi", Destination: "Goa",
		DepartureTime: dep, ArrivalTime: dep.Add(150 * time.Minute), BaseFareCents: 450050,
	}
	mockService.On("CreateFlight", mock.Anything, mock.MatchedBy(func(in flights.CreateFlightInput) bool {
		return in.FlightNumber == "AI202" && in.BaseFareCents == 450050 && in.DepartureTime.Equal(dep)
	})).Return(created, nil)

	w := perform(r, http.MethodPost, "/flights", map[string]interface{}{
		"airline_id":     2,
		"flight_number":  "AI202",
		"source":         "Delhi",
		"destination":    "Goa",
		"departure_time": "2026-11-01T10:00:00Z",
		"arrival_time":   "2026-11-01T12:30:00Z",
		"base_fare":      4500.50,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, 7.0, body["flight_id"])
	assert.Equal(t, 4500.5, body["base_fare"])
	mockService.AssertExpectations(t)
}

func TestFlightHandler_create_invalid(t *testing.T) {
	mockService := &MockFlightUseCase{}
	r := newTestRouter(NewFlightHandler(mockService))

	w := perform(r, http.MethodPost, "/flights", `{"flight_number": "AI202"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.On("CreateFlight", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: arrival must be after departure", domain.ErrInvalidInput))

	w = perform(r, http.MethodPost, "/flights", map[string]interface{}{
		"airline_id":     2,
		"flight_number":  "AI202",
		"source":         "Delhi",
		"destination":    "Goa",
		"departure_time": "2026-11-01T10:00:00Z",
		"arrival_time":   "2026-11-01T09:00:00Z",
		"base_fare":      100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_input", decode(t, w)["code"])
}
