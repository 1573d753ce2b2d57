package services

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tests"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStoreTestApp spins up a throwaway PocketBase app with the three domain
// collections, mirroring what the migrations create.
func newStoreTestApp(t *testing.T) *tests.TestApp {
	app, err := tests.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(app.Cleanup)

	screenings := core.NewBaseCollection("screenings")
	screenings.Fields.Add(
		&core.TextField{Name: "title", Required: true},
		&core.TextField{Name: "date", Required: true},
		&core.TextField{Name: "time", Required: true},
		&core.TextField{Name: "pairing"},
		&core.URLField{Name: "poster"},
		&core.TextField{Name: "synopsis"},
		&core.TextField{Name: "genre"},
		&core.NumberField{Name: "runtime", OnlyInt: true},
		&core.URLField{Name: "imdb"},
		&core.NumberField{Name: "rating", OnlyInt: true, Min: types.Pointer(0.0), Max: types.Pointer(5.0)},
		&core.AutodateField{Name: "created", OnCreate: true},
	)
	require.NoError(t, app.Save(screenings))

	reservations := core.NewBaseCollection("reservations")
	reservations.Fields.Add(
		&core.RelationField{
			Name:          "screening",
			Required:      true,
			CollectionId:  screenings.Id,
			MaxSelect:     1,
			CascadeDelete: true,
		},
		&core.NumberField{
			Name:     "seat",
			Required: true,
			OnlyInt:  true,
			Min:      types.Pointer(2.0),
			Max:      types.Pointer(5.0),
		},
		&core.TextField{Name: "name", Required: true},
		&core.EmailField{Name: "email", Required: true},
		&core.AutodateField{Name: "created", OnCreate: true},
	)
	reservations.AddIndex("idx_reservations_screening_seat", true, "screening, seat", "")
	require.NoError(t, app.Save(reservations))

	suggestions := core.NewBaseCollection("suggestions")
	suggestions.Fields.Add(
		&core.TextField{Name: "title", Required: true},
		&core.NumberField{Name: "tmdb_id", Required: true, OnlyInt: true},
		&core.NumberField{Name: "votes", OnlyInt: true},
		&core.AutodateField{Name: "created", OnCreate: true},
	)
	suggestions.AddIndex("idx_suggestions_tmdb_id", true, "tmdb_id", "")
	require.NoError(t, app.Save(suggestions))

	return app
}

func createTestScreening(t *testing.T, app *tests.TestApp, title string) *core.Record {
	collection, err := app.FindCollectionByNameOrId("screenings")
	require.NoError(t, err)

	record := core.NewRecord(collection)
	record.Set("title", title)
	record.Set("date", "2025-06-10")
	record.Set("time", "7 PM")
	require.NoError(t, app.Save(record))

	return record
}

func TestIsUniqueViolation_ValidationNotUnique(t *testing.T) {
	err := validation.Errors{
		"seat": validation.NewError("validation_not_unique", "Value must be unique"),
	}
	assert.True(t, isUniqueViolation(err))
}

func TestIsUniqueViolation_RawSQLiteText(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: reservations.screening, reservations.seat")
	assert.True(t, isUniqueViolation(err))
}

func TestIsUniqueViolation_OtherErrors(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("disk I/O error")))
	assert.False(t, isUniqueViolation(validation.Errors{
		"seat": validation.NewError("validation_required", "Missing required value"),
	}))
}
