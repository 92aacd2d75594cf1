package templates

import (
	"net/url"

	"quotebuilder/services"
)

type LaborPageData struct {
	ProjectID string
	Labor     []services.LaborType
}

func (d LaborPageData) base() string {
	return "/projects/" + d.ProjectID + "/labor"
}

func (d LaborPageData) laborURL(id string) string {
	return d.base() + "/" + url.PathEscape(id)
}
