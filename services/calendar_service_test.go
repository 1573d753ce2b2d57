package services

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-night/config"
	"movie-night/models"
)

func testCalendarService() *CalendarService {
	return NewCalendarService(&config.Config{
		VenueName:    "Reels & Rye",
		VenueAddress: "6760 Woodland Reserve Ct. Cincinnati, OH 45243",
	})
}

func testScreening() models.Screening {
	return models.Screening{
		ID:    "scr123",
		Title: "Heat",
		Date:  "2025-06-10",
		Time:  "7 PM",
	}
}

func TestGoogleLink_Contents(t *testing.T) {
	service := testCalendarService()
	link := service.GoogleLink(testScreening())

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "calendar.google.com", parsed.Host)

	q := parsed.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "Heat - Reels & Rye", q.Get("text"))
	assert.Equal(t, "6760 Woodland Reserve Ct. Cincinnati, OH 45243", q.Get("location"))

	start := ParseScreeningInstant("2025-06-10", "7 PM")
	end := ScreeningEndInstant(start)
	wantDates := start.UTC().Format(calendarStampLayout) + "/" + end.UTC().Format(calendarStampLayout)
	assert.Equal(t, wantDates, q.Get("dates"))
}

func TestICS_Payload(t *testing.T) {
	service := testCalendarService()
	payload := service.ICS(testScreening())

	assert.True(t, strings.HasPrefix(payload, "BEGIN:VCALENDAR"))
	assert.Contains(t, payload, "SUMMARY:Heat - Reels & Rye")
	assert.Contains(t, payload, "LOCATION:6760 Woodland Reserve Ct. Cincinnati")
	assert.Contains(t, payload, "BEGIN:VEVENT")
	assert.Contains(t, payload, "END:VCALENDAR")

	start := ParseScreeningInstant("2025-06-10", "7 PM")
	assert.Contains(t, payload, "DTSTART:"+start.UTC().Format(calendarStampLayout))
}

func TestICSFileName_Sanitized(t *testing.T) {
	service := testCalendarService()
	name := service.ICSFileName(models.Screening{Title: "Mission: Impossible"})
	assert.Equal(t, "Mission- Impossible.ics", name)
}
