package handlers

import (
	"quotebuilder/apiclient"
	"quotebuilder/config"
	"quotebuilder/services"
)

// Deps are the collaborators shared by the dashboard handlers.
type Deps struct {
	API      *apiclient.Client
	Quotes   *services.QuoteAssembler
	Renderer services.PDFRenderer
	Config   *config.Config
}

func (d *Deps) pageSize() int {
	if d.Config == nil || d.Config.BOMPageSize <= 0 {
		return services.DefaultPageSize
	}
	return d.Config.BOMPageSize
}

func (d *Deps) companyName() string {
	if d.Config == nil {
		return ""
	}
	return d.Config.CompanyName
}
