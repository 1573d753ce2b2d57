package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"movie-night/models"
)

const dateLayout = "2006-01-02"

// ScreeningDuration is the fixed runtime assumption used for calendar export,
// independent of the movie's actual runtime.
const ScreeningDuration = 3 * time.Hour

// ParseScreeningInstant combines a calendar date with a 12-hour clock label
// ("7 PM", "7:30 PM") into an absolute instant. All instants are zone-naive
// local times; the venue has exactly one clock and the source data carries no
// zone information.
//
// Malformed input never fails: any label that does not parse under the
// <hour>[:<minute>] <AM|PM> grammar falls back to noon on the given date, and
// a malformed date falls back to noon on the zero date. The fallback also
// drives sort ordering, so broken entries sort at noon instead of
// disappearing. Minutes are accepted by the grammar but normalized to zero.
func ParseScreeningInstant(date, label string) time.Time {
	day, dayErr := time.ParseInLocation(dateLayout, date, time.Local)

	hour, ok := parseClockLabel(label)
	if dayErr != nil || !ok {
		hour = 12
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.Local)
}

// ScreeningEndInstant is the start plus the fixed three-hour screening slot.
func ScreeningEndInstant(start time.Time) time.Time {
	return start.Add(ScreeningDuration)
}

// parseClockLabel converts a 12-hour label into a 24-hour hour. PM adds 12
// unless the hour is 12; 12 AM becomes 0.
func parseClockLabel(label string) (int, bool) {
	fields := strings.Fields(strings.TrimSpace(label))
	if len(fields) != 2 {
		return 0, false
	}

	marker := strings.ToUpper(fields[1])
	if marker != "AM" && marker != "PM" {
		return 0, false
	}

	hourPart, _, _ := strings.Cut(fields[0], ":")
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}

	if marker == "PM" && hour != 12 {
		hour += 12
	}
	if marker == "AM" && hour == 12 {
		hour = 0
	}
	return hour, true
}

// FormatScreeningDate renders "Friday, June 10th at 7 PM" for display. When
// the date or label does not parse it degrades to the raw "date at label"
// form rather than failing.
func FormatScreeningDate(date, label string) string {
	day, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return date + " at " + label
	}
	if _, ok := parseClockLabel(label); !ok {
		return date + " at " + label
	}
	return fmt.Sprintf("%s, %s %d%s at %s",
		day.Weekday(), day.Month(), day.Day(), ordinalSuffix(day.Day()), label)
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// Partition splits screenings into upcoming (instant strictly after now,
// ascending) and past (descending, most recent first). Both halves are stable
// sorts, so screenings with identical instants keep their store order. The
// result is purely a function of the inputs; callers re-partition on every
// request instead of caching.
func Partition(screenings []models.Screening, now time.Time) (upcoming, past []models.Screening) {
	for _, s := range screenings {
		if ParseScreeningInstant(s.Date, s.Time).After(now) {
			upcoming = append(upcoming, s)
		} else {
			past = append(past, s)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return ParseScreeningInstant(upcoming[i].Date, upcoming[i].Time).
			Before(ParseScreeningInstant(upcoming[j].Date, upcoming[j].Time))
	})
	sort.SliceStable(past, func(i, j int) bool {
		return ParseScreeningInstant(past[j].Date, past[j].Time).
			Before(ParseScreeningInstant(past[i].Date, past[i].Time))
	})
	return upcoming, past
}

// ScreeningPatch carries admin edits; nil fields are left untouched. A title
// change re-resolves catalog metadata for the new movie.
type ScreeningPatch struct {
	Title   *string
	Date    *string
	Time    *string
	Pairing *string
}

type ScreeningService struct {
	app      core.App
	metadata *MetadataService
}

func NewScreeningService(app core.App, metadata *MetadataService) *ScreeningService {
	return &ScreeningService{app: app, metadata: metadata}
}

// List returns all screenings in store order.
func (s *ScreeningService) List(ctx context.Context) ([]models.Screening, error) {
	records, err := s.app.FindAllRecords("screenings")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	screenings := make([]models.Screening, 0, len(records))
	for _, record := range records {
		screenings = append(screenings, screeningFromRecord(record))
	}
	return screenings, nil
}

func (s *ScreeningService) Get(ctx context.Context, id string) (*models.Screening, error) {
	record, err := s.app.FindRecordById("screenings", id)
	if err != nil {
		return nil, models.ErrScreeningNotFound
	}
	screening := screeningFromRecord(record)
	return &screening, nil
}

// Create schedules a screening, enriching it with catalog metadata. Resolver
// failures degrade to empty enrichment fields; they never block scheduling.
func (s *ScreeningService) Create(ctx context.Context, title, date, timeLabel, pairing string) (*models.Screening, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(date) == "" || strings.TrimSpace(timeLabel) == "" {
		return nil, fmt.Errorf("%w: title, date and time are required", models.ErrValidation)
	}

	detail := s.resolveOrDegrade(ctx, title)

	collection, err := s.app.FindCollectionByNameOrId("screenings")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	record := core.NewRecord(collection)
	record.Set("title", title)
	record.Set("date", date)
	record.Set("time", timeLabel)
	record.Set("pairing", pairing)
	applyDetail(record, detail)

	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	screening := screeningFromRecord(record)
	return &screening, nil
}

// Update applies an admin patch. Only date, time, pairing and title are
// mutable; guests never reach this path.
func (s *ScreeningService) Update(ctx context.Context, id string, patch ScreeningPatch) (*models.Screening, error) {
	record, err := s.app.FindRecordById("screenings", id)
	if err != nil {
		return nil, models.ErrScreeningNotFound
	}

	if patch.Date != nil {
		record.Set("date", *patch.Date)
	}
	if patch.Time != nil {
		record.Set("time", *patch.Time)
	}
	if patch.Pairing != nil {
		record.Set("pairing", *patch.Pairing)
	}
	if patch.Title != nil && *patch.Title != record.GetString("title") {
		record.Set("title", *patch.Title)
		applyDetail(record, s.resolveOrDegrade(ctx, *patch.Title))
	}

	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	screening := screeningFromRecord(record)
	return &screening, nil
}

func (s *ScreeningService) Delete(ctx context.Context, id string) error {
	record, err := s.app.FindRecordById("screenings", id)
	if err != nil {
		return models.ErrScreeningNotFound
	}
	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

// Rate stores a 0-5 rating on a screening that has already happened.
func (s *ScreeningService) Rate(ctx context.Context, id string, rating int, now time.Time) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", models.ErrValidation)
	}

	record, err := s.app.FindRecordById("screenings", id)
	if err != nil {
		return models.ErrScreeningNotFound
	}

	start := ParseScreeningInstant(record.GetString("date"), record.GetString("time"))
	if start.After(now) {
		return fmt.Errorf("%w: cannot rate an upcoming screening", models.ErrValidation)
	}

	record.Set("rating", rating)
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *ScreeningService) resolveOrDegrade(ctx context.Context, title string) *MovieDetail {
	detail, err := s.metadata.Resolve(ctx, title)
	if err != nil {
		log.Printf("Metadata lookup for %q degraded: %v", title, err)
		return nil
	}
	return detail
}

func applyDetail(record *core.Record, detail *MovieDetail) {
	if detail == nil {
		return
	}
	record.Set("poster", detail.Poster)
	record.Set("synopsis", detail.Synopsis)
	record.Set("genre", detail.Genre)
	record.Set("runtime", detail.Runtime)
	record.Set("imdb", detail.IMDB)
}

func screeningFromRecord(record *core.Record) models.Screening {
	return models.Screening{
		ID:       record.Id,
		Title:    record.GetString("title"),
		Date:     record.GetString("date"),
		Time:     record.GetString("time"),
		Pairing:  record.GetString("pairing"),
		Poster:   record.GetString("poster"),
		Synopsis: record.GetString("synopsis"),
		Genre:    record.GetString("genre"),
		Runtime:  record.GetInt("runtime"),
		IMDB:     record.GetString("imdb"),
		Rating:   record.GetInt("rating"),
		Created:  record.GetDateTime("created").Time(),
	}
}
