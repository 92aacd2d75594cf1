package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
)

// HandleCategoryCreate adds a catalog category. Names are unique regardless
// of case.
// Route: POST /projects/{projectId}/categories
func HandleCategoryCreate(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		ctx := e.Request.Context()
		token := GetToken(e.Request)

		records, err := deps.API.ListCategories(ctx, token, projectID)
		if err != nil {
			return APIErrorToast(e, "category_create", err)
		}
		name, err := services.NewCategoryCatalog(records).CheckCreate(formText(e.Request, "category_name"))
		if err != nil {
			return APIErrorToast(e, "category_create", err)
		}

		rec, err := deps.API.CreateCategory(ctx, token, projectID, name)
		if err != nil {
			return APIErrorToast(e, "category_create", err)
		}

		SetToast(e, "success", fmt.Sprintf("Category %q created", rec.Name))
		return rerenderBOM(e, app, deps, "category_create", projectID, formText(e.Request, "category"), formPage(e.Request))
	}
}

// HandleCategoryDelete removes a catalog category unless items still use it.
// Route: DELETE /projects/{projectId}/categories/{categoryId}
func HandleCategoryDelete(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		categoryID := e.Request.PathValue("categoryId")
		ctx := e.Request.Context()
		token := GetToken(e.Request)

		records, err := deps.API.ListCategories(ctx, token, projectID)
		if err != nil {
			return APIErrorToast(e, "category_delete", err)
		}
		items, err := deps.API.ListBOM(ctx, token, projectID)
		if err != nil {
			return APIErrorToast(e, "category_delete", err)
		}

		rec, err := services.NewCategoryCatalog(records).CheckDelete(categoryID, items)
		if err != nil {
			return APIErrorToast(e, "category_delete", err)
		}
		if err := deps.API.DeleteCategory(ctx, token, categoryID); err != nil {
			return APIErrorToast(e, "category_delete", err)
		}

		SetToast(e, "success", fmt.Sprintf("Category %q deleted", rec.Name))
		return rerenderBOM(e, app, deps, "category_delete", projectID, e.Request.URL.Query().Get("category"), formPage(e.Request))
	}
}
