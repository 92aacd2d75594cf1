package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
	"quotebuilder/templates"
)

// quoteDocument builds the export input from the session. It fails when the
// session belongs to another project or has no generated content yet.
func quoteDocument(e *core.RequestEvent, deps *Deps, projectID string) (services.QuoteDocument, bool) {
	sess, err := deps.Quotes.Session(e.Request.Context(), GetQuoteSessionKey(e.Request))
	if err != nil {
		log.Printf("quote_export: %v", err)
		return services.QuoteDocument{}, false
	}
	if sess.ProjectID != projectID || sess.Content == "" {
		return services.QuoteDocument{}, false
	}
	return services.NewQuoteDocument(deps.companyName(), "", time.Now().Format("02 Jan 2006"), sess), true
}

func quoteFilename(projectID, ext string) string {
	return fmt.Sprintf("Quote_%s_%s.%s", sanitizeFilename(projectID), time.Now().Format("2006-01-02"), ext)
}

// Route: GET /projects/{projectId}/quote/export/pdf
func HandleQuoteExportPDF(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		doc, ok := quoteDocument(e, deps, projectID)
		if !ok {
			return ErrorToast(e, http.StatusConflict, "Generate a quote preview first")
		}

		pdfBytes, err := deps.Renderer.RenderQuotePDF(e.Request.Context(), doc)
		if err != nil {
			log.Printf("quote_export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, quoteFilename(projectID, "pdf")))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// Route: GET /projects/{projectId}/quote/export/html
func HandleQuoteExportHTML(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		doc, ok := quoteDocument(e, deps, projectID)
		if !ok {
			return ErrorToast(e, http.StatusConflict, "Generate a quote preview first")
		}

		page, err := templates.QuoteDocumentHTML(e.Request.Context(), doc)
		if err != nil {
			log.Printf("quote_export_html: failed to render: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate HTML file")
		}

		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, quoteFilename(projectID, "html")))
		e.Response.Write([]byte(page))
		return nil
	}
}
