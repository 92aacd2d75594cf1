package apiclient

import (
	"context"

	"quotebuilder/services"
)

type categoryRecord struct {
	CategoryID   ID     `json:"category_id"`
	CategoryName string `json:"category_name"`
}

func (c *Client) ListCategories(ctx context.Context, token, projectID string) ([]services.CategoryRecord, error) {
	var resp struct {
		Categories []categoryRecord `json:"categories"`
	}
	if err := c.post(ctx, token, "/get-all-categories", projectRequest{ProjectID: projectID}, &resp); err != nil {
		return nil, err
	}
	out := make([]services.CategoryRecord, 0, len(resp.Categories))
	for _, r := range resp.Categories {
		out = append(out, services.CategoryRecord{ID: string(r.CategoryID), Name: r.CategoryName})
	}
	return out, nil
}

// CreateCategory accepts either {"category": {...}} or a bare record in reply.
func (c *Client) CreateCategory(ctx context.Context, token, projectID, name string) (services.CategoryRecord, error) {
	body := struct {
		CategoryName string `json:"category_name"`
		ProjectID    string `json:"project_id"`
	}{name, projectID}

	var resp struct {
		Category *categoryRecord `json:"category"`
		categoryRecord
	}
	if err := c.post(ctx, token, "/create-category", body, &resp); err != nil {
		return services.CategoryRecord{}, err
	}
	rec := resp.categoryRecord
	if resp.Category != nil {
		rec = *resp.Category
	}
	if rec.CategoryName == "" {
		rec.CategoryName = name
	}
	return services.CategoryRecord{ID: string(rec.CategoryID), Name: rec.CategoryName}, nil
}

func (c *Client) DeleteCategory(ctx context.Context, token, categoryID string) error {
	body := struct {
		CategoryID string `json:"category_id"`
	}{categoryID}
	return c.post(ctx, token, "/delete-category", body, nil)
}
