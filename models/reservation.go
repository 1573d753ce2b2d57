package models

import (
	"time"
)

// Seat numbering for a screening. Seat 1 belongs to the host and never has a
// stored record; it is synthesized as taken everywhere a seat map is built.
const (
	HostSeat       = 1
	FirstGuestSeat = 2
	SeatCount      = 5
)

type SeatReservation struct {
	ID          string    `json:"id"`
	ScreeningID string    `json:"screening_id"`
	Seat        int       `json:"seat"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Created     time.Time `json:"created"`
}
