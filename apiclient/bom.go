package apiclient

import (
	"context"

	"quotebuilder/services"
)

// bomRecord is a bill-of-materials row as the API sends and receives it.
type bomRecord struct {
	BillOfMaterialID ID              `json:"bill_of_material_id,omitempty"`
	ProjectID        string          `json:"project_id,omitempty"`
	CategoryName     string          `json:"category_name"`
	Description      string          `json:"description"`
	Quantity         services.Amount `json:"quantity"`
	Unit             string          `json:"unit"`
	UnitPrice        services.Amount `json:"unit_price"`
	Vendor           string          `json:"vendor"`
	PartNumber       string          `json:"part_number"`
	Manufacturer     string          `json:"manufacturer"`
	ModelNumber      string          `json:"model_number"`
	Notes            string          `json:"notes"`
	TotalPrice       services.Amount `json:"total_price,omitempty"`
}

// lineItem converts the record; the API stores no margin, so the default applies.
func (r bomRecord) lineItem() services.LineItem {
	return services.LineItem{
		ID:            string(r.BillOfMaterialID),
		Description:   r.Description,
		Category:      r.CategoryName,
		Quantity:      float64(r.Quantity),
		Unit:          r.Unit,
		UnitPrice:     float64(r.UnitPrice),
		Vendor:        r.Vendor,
		PartNumber:    r.PartNumber,
		Manufacturer:  r.Manufacturer,
		ModelNumber:   r.ModelNumber,
		Notes:         r.Notes,
		MarginPercent: services.DefaultMarginPercent,
	}
}

type projectRequest struct {
	ProjectID string `json:"project_id"`
}

// ListBOM fetches the project's bill of materials in API order.
func (c *Client) ListBOM(ctx context.Context, token, projectID string) ([]services.LineItem, error) {
	var resp struct {
		BillOfMaterials []bomRecord `json:"bill_of_materials"`
	}
	if err := c.post(ctx, token, "/get-all-bill-of-materials", projectRequest{ProjectID: projectID}, &resp); err != nil {
		return nil, err
	}
	items := make([]services.LineItem, 0, len(resp.BillOfMaterials))
	for _, r := range resp.BillOfMaterials {
		items = append(items, r.lineItem())
	}
	return items, nil
}

// CreateBOM stores a line item and returns it with the id the API assigned.
// The margin of it is carried over, since the API does not keep it.
func (c *Client) CreateBOM(ctx context.Context, token, projectID string, it services.LineItem) (services.LineItem, error) {
	req := bomRecord{
		ProjectID:    projectID,
		CategoryName: it.Category,
		Description:  it.Description,
		Quantity:     services.Amount(it.Quantity),
		Unit:         it.Unit,
		UnitPrice:    services.Amount(it.UnitPrice),
		Vendor:       it.Vendor,
		PartNumber:   it.PartNumber,
		Manufacturer: it.Manufacturer,
		ModelNumber:  it.ModelNumber,
		Notes:        it.Notes,
	}
	var resp struct {
		BillOfMaterial bomRecord `json:"bill_of_material"`
	}
	if err := c.post(ctx, token, "/create-bill-of-materials", req, &resp); err != nil {
		return services.LineItem{}, err
	}
	created := resp.BillOfMaterial.lineItem()
	created.MarginPercent = it.MarginPercent
	return created, nil
}

func (c *Client) DeleteBOM(ctx context.Context, token, itemID string) error {
	body := struct {
		BillOfMaterialID string `json:"bill_of_material_id"`
	}{itemID}
	return c.post(ctx, token, "/delete-bill-of-materials", body, nil)
}

func (c *Client) DeleteAllBOM(ctx context.Context, token, projectID string) error {
	return c.post(ctx, token, "/delete-all-bill-of-materials", projectRequest{ProjectID: projectID}, nil)
}
