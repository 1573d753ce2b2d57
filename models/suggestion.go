package models

import (
	"time"
)

// Suggestion is a guest-proposed movie identified by its TMDB id. Votes may go
// negative; there is deliberately no floor.
type Suggestion struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	TMDBID  int64     `json:"tmdb_id"`
	Votes   int       `json:"votes"`
	Created time.Time `json:"created"`
}
