package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"

	"movie-night/config"
	"movie-night/models"
)

// seatHoldValue is what a Redis seat hold stores; only the key matters.
const seatHoldValue = "held"

// ReservationService decides whether a guest's seat request succeeds and
// maintains the resulting reservation set.
//
// The original system checked for an existing reservation and then wrote a
// new one with nothing in between, so two concurrent requests for the same
// empty seat could both pass the check. That race is closed here twice over:
// a short-lived Redis SETNX hold serializes concurrent reserves per
// (screening, seat), and the store carries a unique index on the same pair as
// the authoritative backstop.
type ReservationService struct {
	app   core.App
	Redis *redis.Client
	cfg   *config.Config
}

func NewReservationService(app core.App, redisClient *redis.Client, cfg *config.Config) *ReservationService {
	return &ReservationService{app: app, Redis: redisClient, cfg: cfg}
}

// ValidateSeatRequest applies the reservation preconditions in order: the
// seat must be a guest seat (seat 1 belongs to the host and is never
// reservable), then name and email must be present and the email well-formed.
func ValidateSeatRequest(seat int, name, email string) error {
	if seat < models.FirstGuestSeat || seat > models.SeatCount {
		return models.ErrSeatUnavailable
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", models.ErrValidation)
	}
	if !govalidator.IsEmail(email) {
		return fmt.Errorf("%w: email address is not valid", models.ErrValidation)
	}
	return nil
}

// Reserve attempts to claim a seat for a guest. Within a single call the hold
// precedes the existence check which precedes the write; no ordering holds
// across concurrent calls, which is exactly why the hold exists.
func (s *ReservationService) Reserve(ctx context.Context, screeningID string, seat int, name, email string) (*models.SeatReservation, error) {
	if err := ValidateSeatRequest(seat, name, email); err != nil {
		return nil, err
	}

	if _, err := s.app.FindRecordById("screenings", screeningID); err != nil {
		return nil, models.ErrScreeningNotFound
	}

	acquired, err := s.acquireHold(ctx, screeningID, seat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	if !acquired {
		return nil, models.ErrSeatTaken
	}
	// The hold TTL covers the case where this request dies mid-flight.
	defer s.releaseHold(ctx, screeningID, seat)

	_, err = s.app.FindFirstRecordByFilter(
		"reservations",
		"screening = {:screening} && seat = {:seat}",
		dbx.Params{"screening": screeningID, "seat": seat},
	)
	switch {
	case err == nil:
		return nil, models.ErrSeatTaken
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	collection, err := s.app.FindCollectionByNameOrId("reservations")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	record := core.NewRecord(collection)
	record.Set("screening", screeningID)
	record.Set("seat", seat)
	record.Set("name", name)
	record.Set("email", email)

	if err := s.app.Save(record); err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrSeatTaken
		}
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	reservation := reservationFromRecord(record)
	return &reservation, nil
}

// Release frees a seat. Releasing an empty seat is a no-op, not an error.
func (s *ReservationService) Release(ctx context.Context, screeningID string, seat int) error {
	record, err := s.app.FindFirstRecordByFilter(
		"reservations",
		"screening = {:screening} && seat = {:seat}",
		dbx.Params{"screening": screeningID, "seat": seat},
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

// Reservations lists a screening's stored reservations ordered by seat.
func (s *ReservationService) Reservations(ctx context.Context, screeningID string) ([]models.SeatReservation, error) {
	records, err := s.app.FindRecordsByFilter(
		"reservations",
		"screening = {:screening}",
		"seat",
		0,
		0,
		dbx.Params{"screening": screeningID},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	reservations := make([]models.SeatReservation, 0, len(records))
	for _, record := range records {
		reservations = append(reservations, reservationFromRecord(record))
	}
	return reservations, nil
}

func (s *ReservationService) acquireHold(ctx context.Context, screeningID string, seat int) (bool, error) {
	return s.Redis.SetNX(ctx, seatHoldKey(screeningID, seat), seatHoldValue, s.cfg.SeatHoldTTL).Result()
}

func (s *ReservationService) releaseHold(ctx context.Context, screeningID string, seat int) {
	s.Redis.Del(ctx, seatHoldKey(screeningID, seat))
}

func seatHoldKey(screeningID string, seat int) string {
	return fmt.Sprintf("hold:seat:%s:%d", screeningID, seat)
}

// SeatMap builds the per-seat occupancy view. Seat 1 always shows the host;
// guests show as their first name, matching what the seat grid displays.
func SeatMap(reservations []models.SeatReservation, hostName string) map[int]string {
	taken := map[int]string{models.HostSeat: hostName}
	for _, r := range reservations {
		taken[r.Seat] = firstName(r.Name)
	}
	return taken
}

// IsSoldOut reports whether every seat is taken. Seat 1 counts as taken by
// convention, so this reduces to all guest seats having reservations.
func IsSoldOut(reservations []models.SeatReservation) bool {
	taken := make(map[int]bool, len(reservations))
	for _, r := range reservations {
		taken[r.Seat] = true
	}
	for seat := models.FirstGuestSeat; seat <= models.SeatCount; seat++ {
		if !taken[seat] {
			return false
		}
	}
	return true
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return name
}

func reservationFromRecord(record *core.Record) models.SeatReservation {
	return models.SeatReservation{
		ID:          record.Id,
		ScreeningID: record.GetString("screening"),
		Seat:        record.GetInt("seat"),
		Name:        record.GetString("name"),
		Email:       record.GetString("email"),
		Created:     record.GetDateTime("created").Time(),
	}
}
