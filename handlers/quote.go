package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
	"quotebuilder/templates"
)

// quoteSession binds the browser's quote session to projectID and returns it.
func quoteSession(ctx context.Context, deps *Deps, key, projectID string) (services.QuoteSession, error) {
	return deps.Quotes.BindProject(ctx, key, projectID)
}

// renderQuote loads the project's labor types and the session and renders
// the quote view.
func renderQuote(e *core.RequestEvent, deps *Deps, op, projectID string) error {
	ctx := e.Request.Context()
	key := GetQuoteSessionKey(e.Request)

	labor, err := deps.API.ListLabor(ctx, GetToken(e.Request), projectID)
	if err != nil {
		return APIErrorToast(e, op, err)
	}
	sess, err := quoteSession(ctx, deps, key, projectID)
	if err != nil {
		return APIErrorToast(e, op, err)
	}

	data := templates.QuotePageData{
		ProjectID: projectID,
		Available: labor,
		Session:   sess,
		InFlight:  deps.Quotes.InFlight(key),
	}
	if isHTMX(e) {
		return templates.QuoteContent(data).Render(ctx, e.Response)
	}
	header := headerData(e, projectID, projectPath(projectID, "quote"))
	return templates.QuotePage(data, header).Render(ctx, e.Response)
}

// Route: GET /projects/{projectId}/quote
func HandleQuotePage(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		rememberProject(e, projectID)
		return renderQuote(e, deps, "quote_page", projectID)
	}
}

// HandleQuoteAddLabor adds one of the project's labor types to the quote.
// Adding the same labor type twice is refused.
// Route: POST /projects/{projectId}/quote/labor/{laborId}
func HandleQuoteAddLabor(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		laborID := e.Request.PathValue("laborId")
		ctx := e.Request.Context()
		key := GetQuoteSessionKey(e.Request)

		available, err := deps.API.ListLabor(ctx, GetToken(e.Request), projectID)
		if err != nil {
			return APIErrorToast(e, "quote_add_labor", err)
		}
		var labor *services.LaborType
		for i := range available {
			if available[i].ID == laborID {
				labor = &available[i]
				break
			}
		}
		if labor == nil {
			return ErrorToast(e, http.StatusNotFound, "Labor type not found")
		}

		if _, err := quoteSession(ctx, deps, key, projectID); err != nil {
			return APIErrorToast(e, "quote_add_labor", err)
		}
		if err := deps.Quotes.AddLabor(ctx, key, *labor); err != nil {
			return APIErrorToast(e, "quote_add_labor", err)
		}

		SetToast(e, "success", fmt.Sprintf("%s added to quote", labor.Name))
		return renderQuote(e, deps, "quote_add_labor", projectID)
	}
}

// Route: DELETE /projects/{projectId}/quote/labor/{laborId}
func HandleQuoteRemoveLabor(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		laborID := e.Request.PathValue("laborId")

		if err := deps.Quotes.RemoveLabor(e.Request.Context(), GetQuoteSessionKey(e.Request), laborID); err != nil {
			return APIErrorToast(e, "quote_remove_labor", err)
		}
		SetToast(e, "success", "Labor removed from quote")
		return renderQuote(e, deps, "quote_remove_labor", projectID)
	}
}

// HandleQuoteAddItem adds a quote-only custom item.
// Route: POST /projects/{projectId}/quote/items
func HandleQuoteAddItem(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		ctx := e.Request.Context()
		key := GetQuoteSessionKey(e.Request)

		qty, err := formNumber(e.Request, "quantity", 0)
		if err != nil {
			return APIErrorToast(e, "quote_add_item", err)
		}
		price, err := formNumber(e.Request, "unit_price", 0)
		if err != nil {
			return APIErrorToast(e, "quote_add_item", err)
		}

		if _, err := quoteSession(ctx, deps, key, projectID); err != nil {
			return APIErrorToast(e, "quote_add_item", err)
		}
		item, err := deps.Quotes.AddCustomItem(ctx, key, services.CustomItem{
			Description: formText(e.Request, "description"),
			Quantity:    qty,
			UnitPrice:   price,
			Category:    formText(e.Request, "category"),
		})
		if err != nil {
			return APIErrorToast(e, "quote_add_item", err)
		}

		SetToast(e, "success", fmt.Sprintf("%s added (%s)", item.Description, services.FormatMoney(item.TotalPrice)))
		return renderQuote(e, deps, "quote_add_item", projectID)
	}
}

// Route: DELETE /projects/{projectId}/quote/items/{itemId}
func HandleQuoteRemoveItem(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		itemID := e.Request.PathValue("itemId")

		if err := deps.Quotes.RemoveCustomItem(e.Request.Context(), GetQuoteSessionKey(e.Request), itemID); err != nil {
			return APIErrorToast(e, "quote_remove_item", err)
		}
		SetToast(e, "success", "Item removed from quote")
		return renderQuote(e, deps, "quote_remove_item", projectID)
	}
}

// Route: POST /projects/{projectId}/quote/clear
func HandleQuoteClear(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		if err := deps.Quotes.Clear(e.Request.Context(), GetQuoteSessionKey(e.Request)); err != nil {
			return APIErrorToast(e, "quote_clear", err)
		}
		SetToast(e, "success", "Quote cleared")
		return renderQuote(e, deps, "quote_clear", projectID)
	}
}

// HandleQuotePreview asks the API to generate quote content from the
// session's selections. A preview already running for this browser answers
// 409. A failed generation is shown in the quote view with an error toast.
// Route: POST /projects/{projectId}/quote/preview
func HandleQuotePreview(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		ctx := e.Request.Context()
		key := GetQuoteSessionKey(e.Request)
		token := GetToken(e.Request)

		if _, err := quoteSession(ctx, deps, key, projectID); err != nil {
			return APIErrorToast(e, "quote_preview", err)
		}

		_, err := deps.Quotes.Preview(ctx, key, deps.API.WithToken(token))
		var vErr *services.ValidationError
		var netErr *services.NetworkError
		switch {
		case err == nil:
			SetToast(e, "success", "Quote preview ready")
		case services.IsAuthError(err), errors.Is(err, services.ErrBusy), errors.Is(err, services.ErrSessionCleared), errors.As(err, &vErr):
			return APIErrorToast(e, "quote_preview", err)
		case errors.As(err, &netErr):
			log.Printf("quote_preview: %v", err)
			SetToast(e, "error", "Quote generation failed: "+netErr.Message)
		default:
			log.Printf("quote_preview: %v", err)
			SetToast(e, "error", "Quote generation failed")
		}
		return renderQuote(e, deps, "quote_preview", projectID)
	}
}
