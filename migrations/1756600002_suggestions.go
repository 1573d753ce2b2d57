package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("suggestions")

		collection.Fields.Add(
			&core.TextField{Name: "title", Required: true},
			&core.NumberField{Name: "tmdb_id", Required: true, OnlyInt: true},
			// No Min: downvotes below zero are allowed.
			&core.NumberField{Name: "votes", OnlyInt: true},
			&core.AutodateField{Name: "created", OnCreate: true},
		)

		collection.AddIndex("idx_suggestions_tmdb_id", true, "tmdb_id", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("suggestions")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
