package apiclient

import (
	"context"

	"quotebuilder/services"
)

type laborRecord struct {
	LaborID              ID                      `json:"labor_id,omitempty"`
	ProjectID            string                  `json:"project_id,omitempty"`
	UserID               string                  `json:"user_id,omitempty"`
	LaborName            string                  `json:"labor_name"`
	HourlyRate           services.Amount         `json:"hourly_rate"`
	LaborHoursAdjustment services.OptionalNumber `json:"labor_hours_adjustment"`
}

func (r laborRecord) laborType(projectID string) services.LaborType {
	if r.ProjectID != "" {
		projectID = r.ProjectID
	}
	return services.LaborType{
		ID:              string(r.LaborID),
		ProjectID:       projectID,
		Name:            r.LaborName,
		HourlyRate:      float64(r.HourlyRate),
		HoursAdjustment: r.LaborHoursAdjustment,
	}
}

func (c *Client) ListLabor(ctx context.Context, token, projectID string) ([]services.LaborType, error) {
	var resp struct {
		Labors []laborRecord `json:"labors"`
	}
	if err := c.post(ctx, token, "/get-all-labors", projectRequest{ProjectID: projectID}, &resp); err != nil {
		return nil, err
	}
	out := make([]services.LaborType, 0, len(resp.Labors))
	for _, r := range resp.Labors {
		out = append(out, r.laborType(projectID))
	}
	return out, nil
}

// CreateLabor stores a labor type for the project. userID may be empty when
// the login response did not include one.
func (c *Client) CreateLabor(ctx context.Context, token, userID string, l services.LaborType) (services.LaborType, error) {
	req := laborRecord{
		ProjectID:            l.ProjectID,
		UserID:               userID,
		LaborName:            l.Name,
		HourlyRate:           services.Amount(l.HourlyRate),
		LaborHoursAdjustment: l.HoursAdjustment,
	}
	var resp struct {
		Labor *laborRecord `json:"labor"`
		laborRecord
	}
	if err := c.post(ctx, token, "/create-labor", req, &resp); err != nil {
		return services.LaborType{}, err
	}
	rec := resp.laborRecord
	if resp.Labor != nil {
		rec = *resp.Labor
	}
	created := rec.laborType(l.ProjectID)
	if created.Name == "" {
		created.Name = l.Name
		created.HourlyRate = l.HourlyRate
		created.HoursAdjustment = l.HoursAdjustment
	}
	return created, nil
}

func (c *Client) DeleteLabor(ctx context.Context, token, laborID string) error {
	body := struct {
		LaborID string `json:"labor_id"`
	}{laborID}
	return c.post(ctx, token, "/delete-labor", body, nil)
}
