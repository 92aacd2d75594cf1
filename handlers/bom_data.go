package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/collections"
	"quotebuilder/services"
	"quotebuilder/templates"
)

// loadItems fetches the project's BOM and applies locally stored margins.
// The API keeps no margin, so items without an override use the default.
func loadItems(ctx context.Context, app *pocketbase.PocketBase, deps *Deps, token, projectID string) ([]services.LineItem, error) {
	items, err := deps.API.ListBOM(ctx, token, projectID)
	if err != nil {
		return nil, err
	}
	margins, err := loadMargins(app, projectID)
	if err != nil {
		log.Printf("bom: margins for project %s unavailable, using defaults: %v", projectID, err)
	}
	for i := range items {
		if m, ok := margins[items[i].ID]; ok {
			items[i].MarginPercent = m
		}
	}
	return items, nil
}

func loadMargins(app *pocketbase.PocketBase, projectID string) (map[string]float64, error) {
	records, err := app.FindRecordsByFilter(
		collections.ItemMargins,
		"project_id = {:projectId}",
		"", 0, 0,
		map[string]any{"projectId": projectID},
	)
	if err != nil {
		return nil, fmt.Errorf("query item margins: %w", err)
	}
	out := make(map[string]float64, len(records))
	for _, rec := range records {
		out[rec.GetString("bom_item_id")] = rec.GetFloat("margin_percent")
	}
	return out, nil
}

func findMargin(app *pocketbase.PocketBase, projectID, itemID string) (*core.Record, error) {
	rec, err := app.FindFirstRecordByFilter(
		collections.ItemMargins,
		"project_id = {:projectId} && bom_item_id = {:itemId}",
		map[string]any{"projectId": projectID, "itemId": itemID},
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// saveMargin creates or updates the margin override for one BOM item.
func saveMargin(app *pocketbase.PocketBase, projectID, itemID string, margin float64) error {
	rec, err := findMargin(app, projectID, itemID)
	if err != nil {
		return fmt.Errorf("find margin for %s: %w", itemID, err)
	}
	if rec == nil {
		col, err := app.FindCollectionByNameOrId(collections.ItemMargins)
		if err != nil {
			return fmt.Errorf("item margins collection: %w", err)
		}
		rec = core.NewRecord(col)
		rec.Set("project_id", projectID)
		rec.Set("bom_item_id", itemID)
	}
	rec.Set("margin_percent", margin)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save margin for %s: %w", itemID, err)
	}
	return nil
}

func deleteMargin(app *pocketbase.PocketBase, projectID, itemID string) {
	rec, err := findMargin(app, projectID, itemID)
	if err != nil {
		log.Printf("bom: find margin for %s: %v", itemID, err)
		return
	}
	if rec == nil {
		return
	}
	if err := app.Delete(rec); err != nil {
		log.Printf("bom: delete margin for %s: %v", itemID, err)
	}
}

func deleteProjectMargins(app *pocketbase.PocketBase, projectID string) {
	records, err := app.FindRecordsByFilter(
		collections.ItemMargins,
		"project_id = {:projectId}",
		"", 0, 0,
		map[string]any{"projectId": projectID},
	)
	if err != nil {
		log.Printf("bom: query margins for project %s: %v", projectID, err)
		return
	}
	for _, rec := range records {
		if err := app.Delete(rec); err != nil {
			log.Printf("bom: delete margin %s: %v", rec.Id, err)
		}
	}
}

// buildBOMPageData loads items and the category catalog, then derives the
// rollups and the requested page. An unknown or blank category falls back to
// the first one; the page is clamped into range.
func buildBOMPageData(ctx context.Context, app *pocketbase.PocketBase, deps *Deps, token, projectID, category string, page int) (templates.BOMPageData, error) {
	items, err := loadItems(ctx, app, deps, token, projectID)
	if err != nil {
		return templates.BOMPageData{}, err
	}
	catalog, err := deps.API.ListCategories(ctx, token, projectID)
	if err != nil {
		return templates.BOMPageData{}, err
	}

	store := services.NewItemStore(items)
	categories := store.Categories()
	if _, ok := services.FindCategory(categories, category); !ok {
		category = ""
		if len(categories) > 0 {
			category = categories[0].Name
		}
	}

	all := store.Items()
	pageSize := deps.pageSize()
	totalPages := services.TotalPages(all, category, pageSize)
	page = services.ClampPage(page, totalPages)

	return templates.BOMPageData{
		ProjectID:        projectID,
		Categories:       categories,
		Totals:           store.Totals(),
		SelectedCategory: category,
		Items:            services.Paginate(all, category, page, pageSize),
		Page:             page,
		TotalPages:       totalPages,
		Catalog:          catalog,
		ItemCount:        store.Len(),
	}, nil
}
