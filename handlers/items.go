package handlers

import (
	"fmt"
	"log"
	"math"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
	"quotebuilder/templates"
)

// renderBOM writes the BOM partial for HTMX requests and the full page
// otherwise.
func renderBOM(e *core.RequestEvent, data templates.BOMPageData) error {
	if isHTMX(e) {
		return templates.BOMContent(data).Render(e.Request.Context(), e.Response)
	}
	header := headerData(e, data.ProjectID, projectPath(data.ProjectID, "bom"))
	return templates.BOMPage(data, header).Render(e.Request.Context(), e.Response)
}

// rerenderBOM reloads the BOM after a mutation and renders it.
func rerenderBOM(e *core.RequestEvent, app *pocketbase.PocketBase, deps *Deps, op, projectID, category string, page int) error {
	data, err := buildBOMPageData(e.Request.Context(), app, deps, GetToken(e.Request), projectID, category, page)
	if err != nil {
		return APIErrorToast(e, op, err)
	}
	return renderBOM(e, data)
}

// HandleBOMPage shows category rollups, totals and one page of the selected
// category.
// Route: GET /projects/{projectId}/bom?category=&page=
func HandleBOMPage(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if projectID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing project ID")
		}
		rememberProject(e, projectID)

		q := e.Request.URL.Query()
		return rerenderBOM(e, app, deps, "bom_page", projectID, q.Get("category"), formPage(e.Request))
	}
}

// HandleBOMAdd validates an item locally, then creates it remotely. Nothing
// changes when either step fails.
// Route: POST /projects/{projectId}/bom
func HandleBOMAdd(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		item, err := lineItemFromForm(e.Request)
		if err != nil {
			return APIErrorToast(e, "bom_add", err)
		}
		if err := services.ValidateLineItem(item); err != nil {
			return APIErrorToast(e, "bom_add", err)
		}

		created, err := deps.API.CreateBOM(e.Request.Context(), GetToken(e.Request), projectID, item)
		if err != nil {
			return APIErrorToast(e, "bom_add", err)
		}
		if created.MarginPercent != services.DefaultMarginPercent && created.ID != "" {
			if err := saveMargin(app, projectID, created.ID, created.MarginPercent); err != nil {
				log.Printf("bom_add: %v", err)
			}
		}

		SetToast(e, "success", "Item added")
		// Land on the last page of the item's category, where it was appended.
		return rerenderBOM(e, app, deps, "bom_add", projectID, created.Category, math.MaxInt32)
	}
}

// HandleBOMDelete removes one item and its margin override.
// Route: DELETE /projects/{projectId}/bom/{itemId}
func HandleBOMDelete(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		itemID := e.Request.PathValue("itemId")
		if itemID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing item ID")
		}

		if err := deps.API.DeleteBOM(e.Request.Context(), GetToken(e.Request), itemID); err != nil {
			return APIErrorToast(e, "bom_delete", err)
		}
		deleteMargin(app, projectID, itemID)

		SetToast(e, "success", "Item deleted")
		q := e.Request.URL.Query()
		return rerenderBOM(e, app, deps, "bom_delete", projectID, q.Get("category"), formPage(e.Request))
	}
}

// HandleBOMDeleteAll empties the project's bill of materials.
// Route: DELETE /projects/{projectId}/bom
func HandleBOMDeleteAll(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		if err := deps.API.DeleteAllBOM(e.Request.Context(), GetToken(e.Request), projectID); err != nil {
			return APIErrorToast(e, "bom_delete_all", err)
		}
		deleteProjectMargins(app, projectID)

		SetToast(e, "success", "All items deleted")
		return rerenderBOM(e, app, deps, "bom_delete_all", projectID, "", 1)
	}
}

// HandleBOMMargin stores a margin override for one item.
// Route: POST /projects/{projectId}/bom/{itemId}/margin
func HandleBOMMargin(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		itemID := e.Request.PathValue("itemId")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		margin, err := formNumber(e.Request, "margin_percent", services.DefaultMarginPercent)
		if err != nil {
			return APIErrorToast(e, "bom_margin", err)
		}
		if err := services.ValidateMargin(margin); err != nil {
			return APIErrorToast(e, "bom_margin", err)
		}

		items, err := deps.API.ListBOM(e.Request.Context(), GetToken(e.Request), projectID)
		if err != nil {
			return APIErrorToast(e, "bom_margin", err)
		}
		if _, ok := services.NewItemStore(items).Get(itemID); !ok {
			return APIErrorToast(e, "bom_margin", services.ErrItemNotFound)
		}

		if err := saveMargin(app, projectID, itemID, margin); err != nil {
			return APIErrorToast(e, "bom_margin", err)
		}

		SetToast(e, "success", fmt.Sprintf("Margin set to %s", services.FormatPercent(margin)))
		return rerenderBOM(e, app, deps, "bom_margin", projectID, formText(e.Request, "category"), formPage(e.Request))
	}
}
