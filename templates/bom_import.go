package templates

import "quotebuilder/services"

// BOMImportResultData holds a validated upload. ItemsJSON is set only when
// every row is valid; ErrorsJSON only when some are not.
type BOMImportResultData struct {
	ProjectID  string
	Result     *services.ImportResult
	ItemsJSON  string
	ErrorsJSON string
}

func (d BOMImportResultData) base() string {
	return "/projects/" + d.ProjectID + "/bom/import"
}
