// Package seed populates a fresh SQLite store from embedded CSV fixtures, so a
// local checkout can serve real reports without the production database.
package seed

import (
	"context"
	"embed"
	"log/slog"

	"hermannm.dev/devlog/log"
	"hermannm.dev/wrap"

	"ecomreports/reports/sqlite"
	"ecomreports/schema"
)

//go:embed fixtures/*.csv
var fixtures embed.FS

// Insertion order respects foreign-key dependencies.
var fixtureOrder = []string{
	"categories",
	"subcategories",
	"brands",
	"products",
	"groups",
	"customers",
	"carts",
	"cart_items",
	"payment_options",
	"orders",
	"order_items",
	"payment_plans",
	"payment_methods",
	"payments",
}

// Database creates the schema's tables and loads every fixture into them.
func Database(ctx context.Context, db sqlite.SQLiteDB, reportSchema *schema.Schema) error {
	if err := db.CreateTables(ctx); err != nil {
		return wrap.Error(err, "failed to create tables before seeding")
	}

	for _, modelName := range fixtureOrder {
		model, ok := reportSchema.Model(modelName)
		if !ok {
			return wrap.Errorf(
				schema.ErrUnknownField, "fixture '%s' has no model in schema", modelName,
			)
		}

		file, err := fixtures.Open("fixtures/" + modelName + ".csv")
		if err != nil {
			return wrap.Errorf(err, "failed to open fixture for '%s'", modelName)
		}

		rows, err := readFixture(file, model)
		file.Close()
		if err != nil {
			return wrap.Errorf(err, "failed to parse fixture for '%s'", modelName)
		}

		if err := db.InsertRows(ctx, modelName, rows); err != nil {
			return wrap.Errorf(err, "failed to insert fixture rows for '%s'", modelName)
		}

		log.Debug("seeded table", slog.String("model", modelName), slog.Int("rows", len(rows)))
	}

	return nil
}
