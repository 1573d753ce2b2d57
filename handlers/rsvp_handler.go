package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"movie-night/models"
	"movie-night/monitoring"
	"movie-night/services"
)

type RSVPHandler struct {
	reservations *services.ReservationService
	screenings   *services.ScreeningService
	calendar     *services.CalendarService
}

func NewRSVPHandler(reservations *services.ReservationService, screenings *services.ScreeningService, calendar *services.CalendarService) *RSVPHandler {
	return &RSVPHandler{
		reservations: reservations,
		screenings:   screenings,
		calendar:     calendar,
	}
}

// Reserve - claim a guest seat for a screening
func (h *RSVPHandler) Reserve(e *core.RequestEvent) error {
	screeningID := e.Request.PathValue("id")

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Seat  int    `json:"seat"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	reservation, err := h.reservations.Reserve(e.Request.Context(), screeningID, req.Seat, req.Name, req.Email)
	switch {
	case errors.Is(err, models.ErrSeatUnavailable):
		monitoring.TrackReservation("seat_unavailable")
		return apis.NewBadRequestError(fmt.Sprintf("Seat %d is not available for guests.", req.Seat), err)
	case errors.Is(err, models.ErrSeatTaken):
		monitoring.TrackReservation("seat_taken")
		return apis.NewBadRequestError(fmt.Sprintf("Oops! Seat %d was just taken. Try another one.", req.Seat), err)
	case errors.Is(err, models.ErrValidation):
		monitoring.TrackReservation("invalid")
		return apis.NewBadRequestError("Please complete all fields including seat selection.", err)
	case errors.Is(err, models.ErrScreeningNotFound):
		return apis.NewNotFoundError("Screening not found", err)
	case err != nil:
		monitoring.TrackReservation("error")
		return apis.NewApiError(http.StatusServiceUnavailable, "Something went wrong. Please try again.", err)
	}

	monitoring.TrackReservation("accepted")

	screening, err := h.screenings.Get(e.Request.Context(), screeningID)
	if err != nil {
		// The seat is already claimed; respond without calendar links.
		return e.JSON(http.StatusOK, map[string]any{
			"message":     fmt.Sprintf("You're in, %s! 🎉", req.Name),
			"reservation": reservation,
		})
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message":     fmt.Sprintf("You're in, %s! 🎉", req.Name),
		"reservation": reservation,
		"calendar": map[string]any{
			"google": h.calendar.GoogleLink(*screening),
			"ics":    fmt.Sprintf("/api/screenings/%s/calendar.ics", screeningID),
		},
	})
}
