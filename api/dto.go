package api

import (
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

func money(cents int64) float64 {
	return float64(cents) / 100
}

type flightResponse struct {
	FlightID      int64     `json:"flight_id"`
	FlightNumber  string    `json:"flight_number"`
	AirlineID     int64     `json:"airline_id"`
	Airline       string    `json:"airline"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	BaseFare      float64   `json:"base_fare"`
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		FlightID:      f.ID,
		FlightNumber:  f.FlightNumber,
		AirlineID:     f.AirlineID,
		Airline:       f.AirlineName,
		Origin:        f.Source,
		Destination:   f.Destination,
		DepartureTime: f.DepartureTime,
		ArrivalTime:   f.ArrivalTime,
		BaseFare:      money(f.BaseFareCents),
	}
}

type quoteResponse struct {
	flightResponse
	DynamicPrice   float64 `json:"dynamic_price"`
	SeatsAvailable int     `json:"seats_available"`
	TotalSeats     int     `json:"total_seats"`
}

func toQuoteResponse(q *domain.FlightQuote) quoteResponse {
	return quoteResponse{
		flightResponse: toFlightResponse(&q.Flight),
		DynamicPrice:   money(q.DynamicCents),
		SeatsAvailable: q.Seats.Available(),
		TotalSeats:     q.Seats.Total,
	}
}

type seatResponse struct {
	SeatID     int64  `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	SeatClass  string `json:"seat_class"`
	IsBooked   bool   `json:"is_booked"`
}

type passengerResponse struct {
	PassengerID int64  `json:"passenger_id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

func toPassengerResponse(p *domain.Passenger) passengerResponse {
	return passengerResponse{PassengerID: p.ID, FullName: p.FullName, Email: p.Email, Phone: p.Phone}
}

type bookingResponse struct {
	BookingID       int64     `json:"booking_id"`
	ReservationCode *string   `json:"reservation_code"`
	FlightID        int64     `json:"flight_id"`
	FlightNumber    string    `json:"flight_number"`
	PassengerID     int64     `json:"passenger_id"`
	PassengerName   string    `json:"passenger_name"`
	SeatID          int64     `json:"seat_id"`
	SeatNumber      string    `json:"seat_number"`
	AmountPaid      float64   `json:"amount_paid"`
	Status          string    `json:"status"`
	BookedAt        time.Time `json:"booked_at"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		BookingID:       b.ID,
		ReservationCode: b.ReservationCode,
		FlightID:        b.FlightID,
		FlightNumber:    b.FlightNumber,
		PassengerID:     b.PassengerID,
		PassengerName:   b.PassengerName,
		SeatID:          b.SeatID,
		SeatNumber:      b.SeatNumber,
		AmountPaid:      money(b.AmountCents),
		Status:          string(b.Status),
		BookedAt:        b.BookedAt,
	}
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, len(bookings))
	for i := range bookings {
		out[i] = toBookingResponse(&bookings[i])
	}
	return out
}
