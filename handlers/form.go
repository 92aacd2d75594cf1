package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"quotebuilder/services"
)

// formNumber reads a numeric form field; blank yields def.
func formNumber(r *http.Request, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &services.ValidationError{Field: name, Message: "must be a number"}
	}
	return v, nil
}

func formText(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// formPage reads the 1-based page from the query or form; anything invalid is 1.
func formPage(r *http.Request) int {
	page, err := strconv.Atoi(strings.TrimSpace(r.FormValue("page")))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// lineItemFromForm builds an unpriced line item from the add-item form.
func lineItemFromForm(r *http.Request) (services.LineItem, error) {
	qty, err := formNumber(r, "quantity", 0)
	if err != nil {
		return services.LineItem{}, err
	}
	price, err := formNumber(r, "unit_price", 0)
	if err != nil {
		return services.LineItem{}, err
	}
	margin, err := formNumber(r, "margin_percent", services.DefaultMarginPercent)
	if err != nil {
		return services.LineItem{}, err
	}
	unit, _ := services.NormalizeUnit(r.FormValue("unit"))
	return services.LineItem{
		Description:   formText(r, "description"),
		Category:      formText(r, "category_name"),
		Quantity:      qty,
		Unit:          unit,
		UnitPrice:     price,
		Vendor:        formText(r, "vendor"),
		PartNumber:    formText(r, "part_number"),
		Manufacturer:  formText(r, "manufacturer"),
		ModelNumber:   formText(r, "model_number"),
		Notes:         formText(r, "notes"),
		MarginPercent: margin,
	}, nil
}
