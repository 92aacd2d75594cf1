package collections_test

import (
	"testing"
	"time"

	"quotebuilder/collections"
	"quotebuilder/testhelpers"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

var expectedCollections = []string{
	collections.QuoteSessions,
	collections.ItemMargins,
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_QuoteSessionsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId(collections.QuoteSessions)

	for _, name := range []string{"session_key", "project_id", "state", "data", "created", "updated"} {
		if col.Fields.GetByName(name) == nil {
			t.Errorf("quote_sessions missing field %q", name)
		}
	}
	if f, ok := col.Fields.GetByName("data").(*core.JSONField); !ok || f == nil {
		t.Error("data should be a JSON field")
	}
}

func TestSetup_ItemMarginsUniquePerItem(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestMargin(t, app, "proj-1", "item-1", 40)

	col, _ := app.FindCollectionByNameOrId(collections.ItemMargins)
	dup := core.NewRecord(col)
	dup.Set("project_id", "proj-1")
	dup.Set("bom_item_id", "item-1")
	dup.Set("margin_percent", 10)
	if err := app.Save(dup); err == nil {
		t.Error("expected unique index to reject a second margin for the same item")
	}

	other := core.NewRecord(col)
	other.Set("project_id", "proj-2")
	other.Set("bom_item_id", "item-1")
	other.Set("margin_percent", 0)
	if err := app.Save(other); err != nil {
		t.Errorf("zero margin for another project should save: %v", err)
	}
}

func TestPruneQuoteSessions(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId(collections.QuoteSessions)

	fresh := core.NewRecord(col)
	fresh.Set("session_key", "fresh")
	if err := app.Save(fresh); err != nil {
		t.Fatalf("save fresh: %v", err)
	}

	stale := core.NewRecord(col)
	stale.Set("session_key", "stale")
	if err := app.Save(stale); err != nil {
		t.Fatalf("save stale: %v", err)
	}
	// Backdate directly; autodate fields are reset by app.Save.
	old, _ := types.ParseDateTime(time.Now().UTC().Add(-48 * time.Hour))
	if _, err := app.DB().NewQuery("UPDATE quote_sessions SET updated = {:updated} WHERE id = {:id}").
		Bind(map[string]any{"updated": old.String(), "id": stale.Id}).Execute(); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	removed, err := collections.PruneQuoteSessions(app, 24*time.Hour)
	if err != nil {
		t.Fatalf("PruneQuoteSessions() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := app.FindFirstRecordByData(col, "session_key", "fresh"); err != nil {
		t.Error("fresh session should remain")
	}
	if _, err := app.FindFirstRecordByData(col, "session_key", "stale"); err == nil {
		t.Error("stale session should be removed")
	}

	if n, _ := collections.PruneQuoteSessions(app, 0); n != 0 {
		t.Errorf("zero ttl should prune nothing, got %d", n)
	}
}
