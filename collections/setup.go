package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

const (
	QuoteSessions = "quote_sessions"
	ItemMargins   = "item_margins"
)

// Setup programmatically creates/ensures the quote_sessions and item_margins
// collections exist. BOM items, categories and labor types live in the remote
// API; only state the API cannot hold is kept locally.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, QuoteSessions, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "session_key", Required: true})
		c.Fields.Add(&core.TextField{Name: "project_id", Required: false})
		c.Fields.Add(&core.TextField{Name: "state", Required: false})
		c.Fields.Add(&core.JSONField{Name: "data", MaxSize: 1 << 20})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_quote_sessions_key", true, "session_key", "")
	})

	ensureCollection(app, ItemMargins, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "project_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "bom_item_id", Required: true})
		// Not required: PocketBase treats 0 as blank for required numbers.
		c.Fields.Add(&core.NumberField{Name: "margin_percent", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_item_margins_item", true, "project_id, bom_item_id", "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
