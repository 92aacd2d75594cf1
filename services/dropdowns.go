package services

import "strings"

// UnitOptions lists the units of measure offered for BOM line items.
var UnitOptions = []string{
	"Each",
	"Box",
	"Case",
	"Pack",
	"Pair",
	"Set",
	"Roll",
	"Foot",
	"Meter",
	"Hour",
	"License",
	"Lot",
}

const (
	CustomCategoryMaterials = "materials"
	CustomCategoryLabor     = "labor"
	CustomCategoryShipping  = "shipping"
)

// CustomItemCategories are the only categories a quote custom item may use.
var CustomItemCategories = []string{
	CustomCategoryMaterials,
	CustomCategoryLabor,
	CustomCategoryShipping,
}

// NormalizeUnit returns the UnitOptions spelling of u, ignoring case and
// surrounding space. Blank maps to the first option.
func NormalizeUnit(u string) (string, bool) {
	u = strings.TrimSpace(u)
	if u == "" {
		return UnitOptions[0], true
	}
	for _, opt := range UnitOptions {
		if strings.EqualFold(opt, u) {
			return opt, true
		}
	}
	return u, false
}

func IsUnitOption(u string) bool {
	for _, opt := range UnitOptions {
		if opt == u {
			return true
		}
	}
	return false
}

func IsCustomItemCategory(c string) bool {
	for _, v := range CustomItemCategories {
		if v == c {
			return true
		}
	}
	return false
}
