package models

import (
	"time"
)

// Screening is one scheduled showing. Date is a calendar date ("2006-01-02")
// and Time is a 12-hour clock label like "7 PM"; the two are combined into an
// absolute instant by the schedule helpers in the services package.
type Screening struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Date     string    `json:"date"`
	Time     string    `json:"time"`
	Pairing  string    `json:"pairing,omitempty"`
	Poster   string    `json:"poster,omitempty"`
	Synopsis string    `json:"synopsis,omitempty"`
	Genre    string    `json:"genre,omitempty"`
	Runtime  int       `json:"runtime,omitempty"`
	IMDB     string    `json:"imdb,omitempty"`
	Rating   int       `json:"rating,omitempty"`
	Created  time.Time `json:"created"`
}

const (
	tensionFloor   = 60
	tensionCeiling = 160
)

// TensionLevel maps a runtime in minutes onto the 0-100 household tension
// gauge. Runtimes at or below 60 minutes read 0, at or above 160 read 100.
func TensionLevel(runtime int) float64 {
	clamped := runtime
	if clamped < tensionFloor {
		clamped = tensionFloor
	}
	if clamped > tensionCeiling {
		clamped = tensionCeiling
	}
	return float64(clamped-tensionFloor) / float64(tensionCeiling-tensionFloor) * 100
}

// TensionMood is the emoji companion to TensionLevel.
func TensionMood(runtime int) string {
	if runtime <= 100 {
		return "😊"
	}
	if runtime <= 120 {
		return "😐"
	}
	return "😠"
}
