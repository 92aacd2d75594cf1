package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/templates"
)

// HandleHome opens the current project, or asks for one.
func HandleHome(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if projectID := GetCurrentProject(e.Request); projectID != "" && e.Request.URL.Query().Get("switch") == "" {
			return e.Redirect(http.StatusFound, projectPath(projectID, "bom"))
		}
		data := templates.ProjectSelectData{CurrentProject: GetCurrentProject(e.Request)}
		return templates.ProjectSelectPage(data, headerData(e, "", "/")).Render(e.Request.Context(), e.Response)
	}
}

// HandleProjectSelect makes the posted project current and binds the quote
// session to it. Switching projects starts a fresh quote.
func HandleProjectSelect(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		projectID := strings.TrimSpace(e.Request.FormValue("project_id"))
		if projectID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Project ID is required")
		}

		if _, err := deps.Quotes.BindProject(e.Request.Context(), GetQuoteSessionKey(e.Request), projectID); err != nil {
			log.Printf("project_select: %v", err)
		}
		rememberProject(e, projectID)
		return redirect(e, projectPath(projectID, "bom"))
	}
}

func projectPath(projectID string, parts ...string) string {
	p := "/projects/" + url.PathEscape(projectID)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}
