package domain

import "fmt"

type Seat struct {
	ID         int64
	FlightID   int64
	SeatNumber string
	SeatClass  string
	IsBooked   bool
}

type SeatCounts struct {
	Total  int
	Booked int
}

func (c SeatCounts) Available() int {
	return c.Total - c.Booked
}

const (
	SeatClassBusiness = "Business"
	SeatClassEconomy  = "Economy"
)

// StandardSeatLayout returns the seat map every new flight starts with:
// rows 1-2 Business and rows 3-5 Economy, columns A to E.
func StandardSeatLayout() []Seat {
	seats := make([]Seat, 0, 25)
	for row := 1; row <= 5; row++ {
		class := SeatClassEconomy
		if row <= 2 {
			class = SeatClassBusiness
		}
		for _, col := range "ABCDE" {
			seats = append(seats, Seat{SeatNumber: fmt.Sprintf("%d%c", row, col), SeatClass: class})
		}
	}
	return seats
}
