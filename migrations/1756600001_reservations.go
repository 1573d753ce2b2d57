package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		screenings, err := app.FindCollectionByNameOrId("screenings")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("reservations")

		collection.Fields.Add(
			&core.RelationField{
				Name:          "screening",
				Required:      true,
				CollectionId:  screenings.Id,
				MaxSelect:     1,
				CascadeDelete: true,
			},
			// Seat 1 is the host's and never stored; guests get 2 through 5.
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

		// Authoritative backstop for concurrent reserves of the same seat.
		collection.AddIndex("idx_reservations_screening_seat", true, "screening, seat", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("reservations")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
