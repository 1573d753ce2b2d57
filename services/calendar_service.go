package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"movie-night/config"
	"movie-night/models"
)

const (
	calendarStampLayout = "20060102T150405Z"
	eventDescription    = "Join us for movies, bourbon, and bonding."
)

// CalendarService builds calendar-invite artifacts for a screening: a Google
// Calendar link and a downloadable ICS payload covering the fixed three-hour
// slot. Both carry the venue name and address as fixed literal fields.
type CalendarService struct {
	venueName    string
	venueAddress string
}

func NewCalendarService(cfg *config.Config) *CalendarService {
	return &CalendarService{
		venueName:    cfg.VenueName,
		venueAddress: cfg.VenueAddress,
	}
}

// GoogleLink returns a prefilled Google Calendar event URL.
func (s *CalendarService) GoogleLink(screening models.Screening) string {
	start := ParseScreeningInstant(screening.Date, screening.Time)
	end := ScreeningEndInstant(start)

	return "https://calendar.google.com/calendar/render?action=TEMPLATE" +
		"&text=" + url.QueryEscape(s.eventTitle(screening)) +
		"&dates=" + calendarStamp(start) + "/" + calendarStamp(end) +
		"&details=" + url.QueryEscape(eventDescription) +
		"&location=" + url.QueryEscape(s.venueAddress) +
		"&sf=true&output=xml"
}

// ICS returns an iCalendar payload for the screening.
func (s *CalendarService) ICS(screening models.Screening) string {
	start := ParseScreeningInstant(screening.Date, screening.Time)
	end := ScreeningEndInstant(start)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	event := cal.AddEvent(fmt.Sprintf("%s@movie-night", screening.ID))
	event.SetSummary(s.eventTitle(screening))
	event.SetDescription(eventDescription)
	event.SetLocation(s.venueAddress)
	event.SetStartAt(start.UTC())
	event.SetEndAt(end.UTC())

	return cal.Serialize()
}

// ICSFileName is the suggested download name for the ICS payload.
func (s *CalendarService) ICSFileName(screening models.Screening) string {
	title := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '"':
			return '-'
		}
		return r
	}, screening.Title)
	return title + ".ics"
}

func (s *CalendarService) eventTitle(screening models.Screening) string {
	return screening.Title + " - " + s.venueName
}

func calendarStamp(t time.Time) string {
	return t.UTC().Format(calendarStampLayout)
}
