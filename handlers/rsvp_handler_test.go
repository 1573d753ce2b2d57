package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tests"
	"github.com/pocketbase/pocketbase/tools/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-night/config"
	"movie-night/services"
)

func newTestRSVPHandler(t *testing.T) *RSVPHandler {
	app, err := tests.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(app.Cleanup)

	db, _ := redismock.NewClientMock()
	cfg := &config.Config{SeatHoldTTL: 10 * time.Second, HostName: "Jim"}

	metadata := services.NewMetadataService(&config.Config{})
	screenings := services.NewScreeningService(app, metadata)
	reservations := services.NewReservationService(app, db, cfg)
	calendar := services.NewCalendarService(cfg)

	return NewRSVPHandler(reservations, screenings, calendar)
}

func newRSVPRequest(body string) *core.RequestEvent {
	req := httptest.NewRequest(http.MethodPost, "/api/screenings/scr1/rsvp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", "scr1")

	event := &core.RequestEvent{}
	event.Request = req
	event.Response = httptest.NewRecorder()
	return event
}

func TestRSVPHandler_HostSeatMessage(t *testing.T) {
	handler := newTestRSVPHandler(t)

	err := handler.Reserve(newRSVPRequest(`{"name":"Alice","email":"alice@example.com","seat":1}`))

	var apiErr *router.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Seat 1 is not available for guests.", apiErr.Message)
}

func TestRSVPHandler_MissingFieldsMessage(t *testing.T) {
	handler := newTestRSVPHandler(t)

	err := handler.Reserve(newRSVPRequest(`{"name":"","email":"","seat":3}`))

	var apiErr *router.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Please complete all fields including seat selection.", apiErr.Message)
}

func TestRSVPHandler_UnknownScreening(t *testing.T) {
	handler := newTestRSVPHandler(t)

	err := handler.Reserve(newRSVPRequest(`{"name":"Alice","email":"alice@example.com","seat":3}`))

	var apiErr *router.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestRSVPHandler_MalformedBody(t *testing.T) {
	handler := newTestRSVPHandler(t)

	err := handler.Reserve(newRSVPRequest(`not json`))

	var apiErr *router.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}
