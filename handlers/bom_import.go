package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
	"quotebuilder/templates"
)

// importedItem is the hidden-field form of a validated row carried from
// validation to commit.
type importedItem struct {
	Description   string  `json:"description"`
	Category      string  `json:"category_name"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	UnitPrice     float64 `json:"unit_price"`
	Vendor        string  `json:"vendor"`
	PartNumber    string  `json:"part_number"`
	Manufacturer  string  `json:"manufacturer"`
	ModelNumber   string  `json:"model_number"`
	Notes         string  `json:"notes"`
	MarginPercent float64 `json:"margin_percent"`
}

func toImported(it services.LineItem) importedItem {
	return importedItem{
		Description:   it.Description,
		Category:      it.Category,
		Quantity:      it.Quantity,
		Unit:          it.Unit,
		UnitPrice:     it.UnitPrice,
		Vendor:        it.Vendor,
		PartNumber:    it.PartNumber,
		Manufacturer:  it.Manufacturer,
		ModelNumber:   it.ModelNumber,
		Notes:         it.Notes,
		MarginPercent: it.MarginPercent,
	}
}

func (i importedItem) lineItem() services.LineItem {
	return services.LineItem{
		Description:   i.Description,
		Category:      i.Category,
		Quantity:      i.Quantity,
		Unit:          i.Unit,
		UnitPrice:     i.UnitPrice,
		Vendor:        i.Vendor,
		PartNumber:    i.PartNumber,
		Manufacturer:  i.Manufacturer,
		ModelNumber:   i.ModelNumber,
		Notes:         i.Notes,
		MarginPercent: i.MarginPercent,
	}
}

// HandleBOMTemplateDownload serves the Excel import template.
// Route: GET /projects/{projectId}/bom/import/template
func HandleBOMTemplateDownload(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateBOMTemplate()
		if err != nil {
			log.Printf("bom_template: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}

		filename := fmt.Sprintf("BOM_Template_%d.xlsx", time.Now().Year())

		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleBOMImportValidate parses an uploaded CSV or XLSX file and returns
// the validation results as an HTMX partial. Nothing is created yet.
// Route: POST /projects/{projectId}/bom/import
func HandleBOMImportValidate(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ParseBOMFile(file, header.Filename)
		if err != nil {
			log.Printf("bom_import_validate: %v", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		data := templates.BOMImportResultData{ProjectID: projectID, Result: result}
		if result.ErrorRows > 0 {
			b, err := json.Marshal(result.Errors)
			if err != nil {
				log.Printf("bom_import_validate: marshal errors: %v", err)
			} else {
				data.ErrorsJSON = string(b)
			}
		} else {
			rows := make([]importedItem, 0, len(result.Items))
			for _, it := range result.Items {
				rows = append(rows, toImported(it))
			}
			b, err := json.Marshal(rows)
			if err != nil {
				log.Printf("bom_import_validate: marshal items: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
			}
			data.ItemsJSON = string(b)
		}

		return templates.BOMImportResults(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleBOMImportCommit re-validates the carried rows and creates them one
// by one. Creation stops at the first failure; rows created before it stay.
// Route: POST /projects/{projectId}/bom/import/commit
func HandleBOMImportCommit(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		raw := e.Request.FormValue("items_json")
		if raw == "" {
			return ErrorToast(e, http.StatusBadRequest, "File data missing. Please re-upload and try again.")
		}
		var rows []importedItem
		if err := json.Unmarshal([]byte(raw), &rows); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid import data")
		}

		items := make([]services.LineItem, 0, len(rows))
		for i, row := range rows {
			it := row.lineItem()
			if err := services.ValidateLineItem(it); err != nil {
				return ErrorToast(e, http.StatusBadRequest, fmt.Sprintf("Row %d: %v", i+1, err))
			}
			items = append(items, it)
		}

		ctx := e.Request.Context()
		token := GetToken(e.Request)
		imported := 0
		for _, it := range items {
			created, err := deps.API.CreateBOM(ctx, token, projectID, it)
			if err != nil {
				if imported > 0 {
					log.Printf("bom_import_commit: stopped after %d of %d items", imported, len(items))
				}
				return APIErrorToast(e, "bom_import_commit", err)
			}
			if created.MarginPercent != services.DefaultMarginPercent && created.ID != "" {
				if err := saveMargin(app, projectID, created.ID, created.MarginPercent); err != nil {
					log.Printf("bom_import_commit: %v", err)
				}
			}
			imported++
		}

		SetToast(e, "success", fmt.Sprintf("%d items imported successfully", imported))
		return redirect(e, projectPath(projectID, "bom"))
	}
}

// HandleBOMImportErrorReport downloads the row errors as an Excel file.
// Route: POST /projects/{projectId}/bom/import/errors
func HandleBOMImportErrorReport(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		var rowErrors []services.RowError
		if err := json.Unmarshal([]byte(e.Request.FormValue("errors_json")), &rowErrors); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(rowErrors)
		if err != nil {
			log.Printf("bom_import_errors: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		filename := fmt.Sprintf("BOM_Import_Errors_%s.xlsx", time.Now().Format("2006-01-02"))

		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
