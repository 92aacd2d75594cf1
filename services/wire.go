package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Amount is a float that decodes from either a JSON number or a numeric string,
// since the API is not consistent about which it sends. It always encodes as a
// number.
type Amount float64

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'f', -1, 64)), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	d, ok, err := parseLooseNumber(b)
	if err != nil {
		return err
	}
	if !ok {
		*a = 0
		return nil
	}
	*a = Amount(d.InexactFloat64())
	return nil
}

// OptionalNumber is a number that may be left blank. Blank encodes as "" and
// decodes from "", null or a missing field.
type OptionalNumber struct {
	Value float64
	Valid bool
}

func SomeNumber(v float64) OptionalNumber {
	return OptionalNumber{Value: v, Valid: true}
}

func (n OptionalNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte(`""`), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

func (n *OptionalNumber) UnmarshalJSON(b []byte) error {
	d, ok, err := parseLooseNumber(b)
	if err != nil {
		return err
	}
	if !ok {
		*n = OptionalNumber{}
		return nil
	}
	*n = OptionalNumber{Value: d.InexactFloat64(), Valid: true}
	return nil
}

// ParseOptionalNumber reads a form value; blank means no value.
func ParseOptionalNumber(s string) (OptionalNumber, error) {
	d, ok, err := parseLooseNumber([]byte(strconv.Quote(s)))
	if err != nil || !ok {
		return OptionalNumber{}, err
	}
	return SomeNumber(d.InexactFloat64()), nil
}

func parseLooseNumber(b []byte) (decimal.Decimal, bool, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return decimal.Decimal{}, false, nil
	}
	s := string(b)
	if b[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return decimal.Decimal{}, false, fmt.Errorf("invalid number %s: %w", s, err)
		}
		s = string(bytes.TrimSpace([]byte(unq)))
		if s == "" {
			return decimal.Decimal{}, false, nil
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return d, true, nil
}

// QuotePreviewWire is the body of /preview-and-generate-report. Labor and
// custom items travel as JSON strings, not nested objects.
type QuotePreviewWire struct {
	ProjectID  string `json:"project_id"`
	LaborData  string `json:"labor_data"`
	CustomData string `json:"custom_data"`
}

type laborWire struct {
	LaborID         string         `json:"labor_id"`
	LaborName       string         `json:"labor_name"`
	HourlyRate      Amount         `json:"hourly_rate"`
	HoursAdjustment OptionalNumber `json:"labor_hours_adjustment"`
}

type customItemWire struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    Amount `json:"quantity"`
	UnitPrice   Amount `json:"unit_price"`
	Category    string `json:"category"`
	TotalPrice  Amount `json:"total_price"`
}

// EncodeForWire converts a preview request to the API's string-embedded form.
func EncodeForWire(req QuotePreviewRequest) (QuotePreviewWire, error) {
	labor := make([]laborWire, 0, len(req.Labor))
	for _, l := range req.Labor {
		labor = append(labor, laborWire{
			LaborID:         l.ID,
			LaborName:       l.Name,
			HourlyRate:      Amount(l.HourlyRate),
			HoursAdjustment: l.HoursAdjustment,
		})
	}
	custom := make([]customItemWire, 0, len(req.CustomItems))
	for _, c := range req.CustomItems {
		custom = append(custom, customItemWire{
			ID:          c.ID,
			Description: c.Description,
			Quantity:    Amount(c.Quantity),
			UnitPrice:   Amount(c.UnitPrice),
			Category:    c.Category,
			TotalPrice:  Amount(c.TotalPrice),
		})
	}

	laborJSON, err := json.Marshal(labor)
	if err != nil {
		return QuotePreviewWire{}, fmt.Errorf("encode labor data: %w", err)
	}
	customJSON, err := json.Marshal(custom)
	if err != nil {
		return QuotePreviewWire{}, fmt.Errorf("encode custom data: %w", err)
	}
	return QuotePreviewWire{
		ProjectID:  req.ProjectID,
		LaborData:  string(laborJSON),
		CustomData: string(customJSON),
	}, nil
}

// DecodeFromWire is the inverse of EncodeForWire. Blank data strings decode
// to empty lists.
func DecodeFromWire(w QuotePreviewWire) (QuotePreviewRequest, error) {
	req := QuotePreviewRequest{ProjectID: w.ProjectID}

	var labor []laborWire
	if w.LaborData != "" {
		if err := json.Unmarshal([]byte(w.LaborData), &labor); err != nil {
			return QuotePreviewRequest{}, fmt.Errorf("decode labor data: %w", err)
		}
	}
	for _, l := range labor {
		req.Labor = append(req.Labor, LaborType{
			ID:              l.LaborID,
			Name:            l.LaborName,
			HourlyRate:      float64(l.HourlyRate),
			HoursAdjustment: l.HoursAdjustment,
		})
	}

	var custom []customItemWire
	if w.CustomData != "" {
		if err := json.Unmarshal([]byte(w.CustomData), &custom); err != nil {
			return QuotePreviewRequest{}, fmt.Errorf("decode custom data: %w", err)
		}
	}
	for _, c := range custom {
		req.CustomItems = append(req.CustomItems, CustomItem{
			ID:          c.ID,
			Description: c.Description,
			Quantity:    float64(c.Quantity),
			UnitPrice:   float64(c.UnitPrice),
			Category:    c.Category,
			TotalPrice:  float64(c.TotalPrice),
		})
	}
	return req, nil
}
