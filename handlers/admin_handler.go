package handlers

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"movie-night/config"
	"movie-night/models"
	"movie-night/services"
	"movie-night/utils"
)

const adminSessionPrefix = "admin:session:"

// AdminHandler covers the host-only surface: login plus screening, seat and
// suggestion management.
type AdminHandler struct {
	redis        *redis.Client
	cfg          *config.Config
	screenings   *services.ScreeningService
	reservations *services.ReservationService
	suggestions  *services.SuggestionService
}

func NewAdminHandler(redisClient *redis.Client, cfg *config.Config, screenings *services.ScreeningService, reservations *services.ReservationService, suggestions *services.SuggestionService) *AdminHandler {
	return &AdminHandler{
		redis:        redisClient,
		cfg:          cfg,
		screenings:   screenings,
		reservations: reservations,
		suggestions:  suggestions,
	}
}

// Login - exchange the shared passphrase for a session token
func (h *AdminHandler) Login(e *core.RequestEvent) error {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if !h.verifyPassphrase(req.Passphrase) {
		return apis.NewUnauthorizedError("Incorrect password", nil)
	}

	token, err := utils.GenerateCode(16)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Login is unavailable right now.", err)
	}

	if err := h.redis.Set(e.Request.Context(), adminSessionPrefix+token, "1", h.cfg.AdminSessionTTL).Err(); err != nil {
		return apis.NewApiError(http.StatusServiceUnavailable, "Login is unavailable right now.", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"token":      token,
		"expires_in": int(h.cfg.AdminSessionTTL.Seconds()),
	})
}

func (h *AdminHandler) verifyPassphrase(passphrase string) bool {
	if passphrase == "" {
		return false
	}
	if h.cfg.AdminPassphraseHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPassphraseHash), []byte(passphrase)) == nil
	}
	if h.cfg.AdminPassphrase == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(h.cfg.AdminPassphrase), []byte(passphrase)) == 1
}

// RequireAdmin gates a route behind a live admin session.
func (h *AdminHandler) RequireAdmin(e *core.RequestEvent) error {
	token := bearerToken(e.Request)
	if token == "" {
		return apis.NewUnauthorizedError("Admin login required", nil)
	}

	found, err := h.redis.Exists(e.Request.Context(), adminSessionPrefix+token).Result()
	if err != nil {
		return apis.NewApiError(http.StatusServiceUnavailable, "Something went wrong. Please try again.", err)
	}
	if found == 0 {
		return apis.NewUnauthorizedError("Session expired, log in again", nil)
	}

	return e.Next()
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return r.Header.Get("X-Admin-Token")
}

// CreateScreening - schedule a new movie night
func (h *AdminHandler) CreateScreening(e *core.RequestEvent) error {
	var req struct {
		Title   string `json:"title"`
		Date    string `json:"date"`
		Time    string `json:"time"`
		Pairing string `json:"pairing"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	screening, err := h.screenings.Create(e.Request.Context(), req.Title, req.Date, req.Time, req.Pairing)
	switch {
	case errors.Is(err, models.ErrValidation):
		return apis.NewBadRequestError("Title, date and time are required", err)
	case err != nil:
		return apis.NewBadRequestError("Failed to create screening", err)
	}

	return e.JSON(http.StatusOK, screening)
}

// UpdateScreening - edit an existing screening
func (h *AdminHandler) UpdateScreening(e *core.RequestEvent) error {
	var req struct {
		Title   *string `json:"title"`
		Date    *string `json:"date"`
		Time    *string `json:"time"`
		Pairing *string `json:"pairing"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	screening, err := h.screenings.Update(e.Request.Context(), e.Request.PathValue("id"), services.ScreeningPatch{
		Title:   req.Title,
		Date:    req.Date,
		Time:    req.Time,
		Pairing: req.Pairing,
	})
	switch {
	case errors.Is(err, models.ErrScreeningNotFound):
		return apis.NewNotFoundError("Screening not found", err)
	case err != nil:
		return apis.NewBadRequestError("Failed to update screening", err)
	}

	return e.JSON(http.StatusOK, screening)
}

// DeleteScreening - remove a screening and its reservations
func (h *AdminHandler) DeleteScreening(e *core.RequestEvent) error {
	err := h.screenings.Delete(e.Request.Context(), e.Request.PathValue("id"))
	switch {
	case errors.Is(err, models.ErrScreeningNotFound):
		return apis.NewNotFoundError("Screening not found", err)
	case err != nil:
		return apis.NewBadRequestError("Failed to delete screening", err)
	}

	return e.NoContent(http.StatusNoContent)
}

// ReleaseSeat - free a guest seat so someone else can take it
func (h *AdminHandler) ReleaseSeat(e *core.RequestEvent) error {
	seat, err := strconv.Atoi(e.Request.PathValue("seat"))
	if err != nil || seat < models.FirstGuestSeat || seat > models.SeatCount {
		return apis.NewBadRequestError("Invalid seat number", err)
	}

	if err := h.reservations.Release(e.Request.Context(), e.Request.PathValue("id"), seat); err != nil {
		return apis.NewBadRequestError("Failed to release seat", err)
	}

	return e.NoContent(http.StatusNoContent)
}

// DeleteSuggestion - remove a suggestion from the ballot
func (h *AdminHandler) DeleteSuggestion(e *core.RequestEvent) error {
	err := h.suggestions.Delete(e.Request.Context(), e.Request.PathValue("id"))
	switch {
	case errors.Is(err, models.ErrSuggestionNotFound):
		return apis.NewNotFoundError("Suggestion not found", err)
	case err != nil:
		return apis.NewBadRequestError("Failed to delete suggestion", err)
	}

	return e.NoContent(http.StatusNoContent)
}

// ScheduleSuggestion - promote a suggestion into a screening
func (h *AdminHandler) ScheduleSuggestion(e *core.RequestEvent) error {
	var req struct {
		Date    string `json:"date"`
		Time    string `json:"time"`
		Pairing string `json:"pairing"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	ctx := e.Request.Context()

	suggestion, err := h.suggestions.Get(ctx, e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Suggestion not found", err)
	}

	screening, err := h.screenings.Create(ctx, suggestion.Title, req.Date, req.Time, req.Pairing)
	switch {
	case errors.Is(err, models.ErrValidation):
		return apis.NewBadRequestError("Date and time are required", err)
	case err != nil:
		return apis.NewBadRequestError("Failed to schedule screening", err)
	}

	if err := h.suggestions.Delete(ctx, suggestion.ID); err != nil {
		log.Printf("Scheduled suggestion %s but could not remove it from the ballot: %v", suggestion.ID, err)
	}

	return e.JSON(http.StatusOK, screening)
}
