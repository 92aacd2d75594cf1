package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
)

// buildExportData fetches the project's BOM with margins applied and groups
// it by category for export.
func buildExportData(ctx context.Context, app *pocketbase.PocketBase, deps *Deps, token, projectID string) (services.ExportData, error) {
	items, err := loadItems(ctx, app, deps, token, projectID)
	if err != nil {
		return services.ExportData{}, err
	}
	priced := services.NewItemStore(items).Items()
	title := fmt.Sprintf("Project %s Bill of Materials", projectID)
	return services.BuildExportData(title, projectID, time.Now().Format("02 Jan 2006"), priced), nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	return strings.NewReplacer(
		" ", "-",
		"/", "-",
		"\\", "-",
		":", "-",
		`"`, "",
	).Replace(s)
}

// Route: GET /projects/{projectId}/bom/export/excel
func HandleBOMExportExcel(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		data, err := buildExportData(e.Request.Context(), app, deps, GetToken(e.Request), projectID)
		if err != nil {
			return APIErrorToast(e, "export_excel", err)
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("BOM_%s_%s.xlsx", sanitizeFilename(projectID), time.Now().Format("2006-01-02"))

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// Route: GET /projects/{projectId}/bom/export/pdf
func HandleBOMExportPDF(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		data, err := buildExportData(e.Request.Context(), app, deps, GetToken(e.Request), projectID)
		if err != nil {
			return APIErrorToast(e, "export_pdf", err)
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("BOM_%s_%s.pdf", sanitizeFilename(projectID), time.Now().Format("2006-01-02"))

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
