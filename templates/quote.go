package templates

import (
	"net/url"

	"quotebuilder/services"
)

// QuotePageData pairs the project's labor types with the session's picks.
type QuotePageData struct {
	ProjectID string
	Available []services.LaborType
	Session   services.QuoteSession
	InFlight  bool
}

var stateLabels = map[services.QuoteState]string{
	services.QuoteEmpty:            "Empty",
	services.QuoteBuilding:         "Building",
	services.QuotePreviewRequested: "Generating…",
	services.QuotePreviewReady:     "Preview ready",
	services.QuotePreviewFailed:    "Preview failed",
}

func (d QuotePageData) base() string {
	return "/projects/" + d.ProjectID + "/quote"
}

func (d QuotePageData) stateLabel() string {
	if d.Session.State == "" {
		return stateLabels[services.QuoteEmpty]
	}
	return stateLabels[d.Session.State]
}

func (d QuotePageData) laborURL(id string) string {
	return d.base() + "/labor/" + url.PathEscape(id)
}

func (d QuotePageData) customItemURL(id string) string {
	return d.base() + "/items/" + url.PathEscape(id)
}
