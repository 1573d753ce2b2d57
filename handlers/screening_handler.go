package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"movie-night/config"
	"movie-night/models"
	"movie-night/services"
)

type ScreeningHandler struct {
	screenings   *services.ScreeningService
	reservations *services.ReservationService
	calendar     *services.CalendarService
	cfg          *config.Config
}

func NewScreeningHandler(screenings *services.ScreeningService, reservations *services.ReservationService, calendar *services.CalendarService, cfg *config.Config) *ScreeningHandler {
	return &ScreeningHandler{
		screenings:   screenings,
		reservations: reservations,
		calendar:     calendar,
		cfg:          cfg,
	}
}

// List - all screenings partitioned into upcoming and past
func (h *ScreeningHandler) List(e *core.RequestEvent) error {
	ctx := e.Request.Context()

	all, err := h.screenings.List(ctx)
	if err != nil {
		return apis.NewBadRequestError("Failed to load screenings", err)
	}

	upcoming, past := services.Partition(all, time.Now())

	upcomingData := make([]map[string]any, 0, len(upcoming))
	for _, screening := range upcoming {
		reservations, err := h.reservations.Reservations(ctx, screening.ID)
		if err != nil {
			return apis.NewBadRequestError("Failed to load reservations", err)
		}

		upcomingData = append(upcomingData, map[string]any{
			"id":             screening.ID,
			"title":          screening.Title,
			"date":           screening.Date,
			"time":           screening.Time,
			"formatted_date": services.FormatScreeningDate(screening.Date, screening.Time),
			"pairing":        screening.Pairing,
			"poster":         screening.Poster,
			"synopsis":       screening.Synopsis,
			"genre":          screening.Genre,
			"runtime":        screening.Runtime,
			"imdb":           screening.IMDB,
			"tension": map[string]any{
				"level": models.TensionLevel(screening.Runtime),
				"mood":  models.TensionMood(screening.Runtime),
			},
			"seats":    services.SeatMap(reservations, h.cfg.HostName),
			"sold_out": services.IsSoldOut(reservations),
		})
	}

	pastData := make([]map[string]any, 0, len(past))
	for _, screening := range past {
		pastData = append(pastData, map[string]any{
			"id":             screening.ID,
			"title":          screening.Title,
			"date":           screening.Date,
			"time":           screening.Time,
			"formatted_date": services.FormatScreeningDate(screening.Date, screening.Time),
			"poster":         screening.Poster,
			"rating":         screening.Rating,
		})
	}

	return e.JSON(http.StatusOK, map[string]any{
		"upcoming": upcomingData,
		"past":     pastData,
	})
}

// Rate - store a rating for a screening that has already happened
func (h *ScreeningHandler) Rate(e *core.RequestEvent) error {
	id := e.Request.PathValue("id")

	var req struct {
		Rating int `json:"rating"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	err := h.screenings.Rate(e.Request.Context(), id, req.Rating, time.Now())
	switch {
	case errors.Is(err, models.ErrScreeningNotFound):
		return apis.NewNotFoundError("Screening not found", err)
	case errors.Is(err, models.ErrValidation):
		return apis.NewBadRequestError(err.Error(), err)
	case err != nil:
		return apis.NewBadRequestError("Failed to save rating", err)
	}

	return e.JSON(http.StatusOK, map[string]any{"rating": req.Rating})
}

// CalendarLinks - calendar-invite links for a screening
func (h *ScreeningHandler) CalendarLinks(e *core.RequestEvent) error {
	screening, err := h.screenings.Get(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Screening not found", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"google":   h.calendar.GoogleLink(*screening),
		"ics_file": h.calendar.ICSFileName(*screening),
	})
}

// CalendarFile - downloadable ICS payload for a screening
func (h *ScreeningHandler) CalendarFile(e *core.RequestEvent) error {
	screening, err := h.screenings.Get(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Screening not found", err)
	}

	e.Response.Header().Set("Content-Disposition", `attachment; filename="`+h.calendar.ICSFileName(*screening)+`"`)
	return e.Blob(http.StatusOK, "text/calendar", []byte(h.calendar.ICS(*screening)))
}
