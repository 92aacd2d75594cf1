package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
	"quotebuilder/templates"
)

func renderLabor(e *core.RequestEvent, deps *Deps, op, projectID string) error {
	labor, err := deps.API.ListLabor(e.Request.Context(), GetToken(e.Request), projectID)
	if err != nil {
		return APIErrorToast(e, op, err)
	}
	data := templates.LaborPageData{ProjectID: projectID, Labor: labor}
	if isHTMX(e) {
		return templates.LaborContent(data).Render(e.Request.Context(), e.Response)
	}
	header := headerData(e, projectID, projectPath(projectID, "labor"))
	return templates.LaborPage(data, header).Render(e.Request.Context(), e.Response)
}

// Route: GET /projects/{projectId}/labor
func HandleLaborPage(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		rememberProject(e, projectID)
		return renderLabor(e, deps, "labor_page", projectID)
	}
}

// HandleLaborCreate adds a labor type. A blank hours adjustment means none.
// Route: POST /projects/{projectId}/labor
func HandleLaborCreate(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		rate, err := formNumber(e.Request, "hourly_rate", 0)
		if err != nil {
			return APIErrorToast(e, "labor_create", err)
		}
		adjustment, err := services.ParseOptionalNumber(e.Request.FormValue("labor_hours_adjustment"))
		if err != nil {
			return APIErrorToast(e, "labor_create", &services.ValidationError{Field: "labor_hours_adjustment", Message: "must be a number"})
		}
		labor := services.LaborType{
			ProjectID:       projectID,
			Name:            formText(e.Request, "labor_name"),
			HourlyRate:      rate,
			HoursAdjustment: adjustment,
		}
		if err := services.ValidateLaborType(labor); err != nil {
			return APIErrorToast(e, "labor_create", err)
		}

		created, err := deps.API.CreateLabor(e.Request.Context(), GetToken(e.Request), GetUserID(e.Request), labor)
		if err != nil {
			return APIErrorToast(e, "labor_create", err)
		}

		SetToast(e, "success", fmt.Sprintf("%s added", created.Name))
		return renderLabor(e, deps, "labor_create", projectID)
	}
}

// HandleLaborDelete removes a labor type remotely and from this browser's
// quote if it was selected there.
// Route: DELETE /projects/{projectId}/labor/{laborId}
func HandleLaborDelete(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		laborID := e.Request.PathValue("laborId")
		if laborID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing labor ID")
		}

		if err := deps.API.DeleteLabor(e.Request.Context(), GetToken(e.Request), laborID); err != nil {
			return APIErrorToast(e, "labor_delete", err)
		}
		err := deps.Quotes.RemoveLabor(e.Request.Context(), GetQuoteSessionKey(e.Request), laborID)
		if err != nil && !errors.Is(err, services.ErrLaborNotFound) {
			log.Printf("labor_delete: could not drop %s from quote: %v", laborID, err)
		}

		SetToast(e, "success", "Labor type deleted")
		return renderLabor(e, deps, "labor_delete", projectID)
	}
}
