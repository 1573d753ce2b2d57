package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("screenings")

		collection.Fields.Add(
			&core.TextField{Name: "title", Required: true},
			// Calendar date (2006-01-02) and 12-hour clock label are kept as
			// entered; parsing happens at read time with a noon fallback.
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
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("screenings")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
