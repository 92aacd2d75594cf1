package services

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEncodeForWire_StringEmbedded(t *testing.T) {
	req := QuotePreviewRequest{
		ProjectID: "proj-1",
		Labor: []LaborType{
			{ID: "l1", Name: "Installer", HourlyRate: 85.5, HoursAdjustment: SomeNumber(10)},
			{ID: "l2", Name: "Engineer", HourlyRate: 140},
		},
		CustomItems: []CustomItem{
			{ID: "c1", Description: "Freight", Quantity: 3, UnitPrice: 10, Category: CustomCategoryShipping, TotalPrice: 30},
		},
	}

	wire, err := EncodeForWire(req)
	if err != nil {
		t.Fatalf("EncodeForWire() error = %v", err)
	}

	body, _ := json.Marshal(wire)
	var top map[string]any
	if err := json.Unmarshal(body, &top); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	for _, k := range []string{"project_id", "labor_data", "custom_data"} {
		if _, ok := top[k].(string); !ok {
			t.Errorf("%s should be a JSON string, got %T", k, top[k])
		}
	}

	if !strings.Contains(wire.LaborData, `"labor_hours_adjustment":""`) {
		t.Errorf("blank adjustment should encode as empty string, got %s", wire.LaborData)
	}
	if !strings.Contains(wire.LaborData, `"hourly_rate":85.5`) {
		t.Errorf("hourly rate should be numeric, got %s", wire.LaborData)
	}

	back, err := DecodeFromWire(wire)
	if err != nil {
		t.Fatalf("DecodeFromWire() error = %v", err)
	}
	if back.ProjectID != "proj-1" || len(back.Labor) != 2 || len(back.CustomItems) != 1 {
		t.Fatalf("unexpected round trip %+v", back)
	}
	if back.Labor[0] != req.Labor[0] || back.Labor[1] != req.Labor[1] {
		t.Errorf("labor mismatch: %+v", back.Labor)
	}
	if back.CustomItems[0] != req.CustomItems[0] {
		t.Errorf("custom item mismatch: %+v", back.CustomItems[0])
	}
}

func TestEncodeForWire_EmptyLists(t *testing.T) {
	wire, err := EncodeForWire(QuotePreviewRequest{ProjectID: "p"})
	if err != nil {
		t.Fatalf("EncodeForWire() error = %v", err)
	}
	if wire.LaborData != "[]" || wire.CustomData != "[]" {
		t.Errorf("expected [] for empty lists, got %q / %q", wire.LaborData, wire.CustomData)
	}
}

func TestDecodeFromWire_LooseNumbers(t *testing.T) {
	wire := QuotePreviewWire{
		ProjectID:  "p",
		LaborData:  `[{"labor_id":"l1","labor_name":"Tech","hourly_rate":"75.25","labor_hours_adjustment":"-5"}]`,
		CustomData: `[{"id":"c1","description":"Box","quantity":"2","unit_price":4.5,"category":"Materials","total_price":null}]`,
	}
	req, err := DecodeFromWire(wire)
	if err != nil {
		t.Fatalf("DecodeFromWire() error = %v", err)
	}
	if req.Labor[0].HourlyRate != 75.25 {
		t.Errorf("HourlyRate = %v, want 75.25", req.Labor[0].HourlyRate)
	}
	if req.Labor[0].HoursAdjustment != SomeNumber(-5) {
		t.Errorf("HoursAdjustment = %+v, want -5", req.Labor[0].HoursAdjustment)
	}
	if req.CustomItems[0].Quantity != 2 || req.CustomItems[0].TotalPrice != 0 {
		t.Errorf("unexpected custom item %+v", req.CustomItems[0])
	}
}

func TestDecodeFromWire_Invalid(t *testing.T) {
	if _, err := DecodeFromWire(QuotePreviewWire{LaborData: "{not json"}); err == nil {
		t.Error("expected error for malformed labor data")
	}
	if _, err := DecodeFromWire(QuotePreviewWire{LaborData: `[{"hourly_rate":"abc"}]`}); err == nil {
		t.Error("expected error for non-numeric rate")
	}
}

func TestParseOptionalNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    OptionalNumber
		wantErr bool
	}{
		{"", OptionalNumber{}, false},
		{"   ", OptionalNumber{}, false},
		{"12.5", SomeNumber(12.5), false},
		{"-10", SomeNumber(-10), false},
		{"ten", OptionalNumber{}, true},
	}
	for _, tt := range tests {
		got, err := ParseOptionalNumber(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOptionalNumber(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOptionalNumber(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var v struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"1,5","b":2}`), &v); err == nil {
		t.Error("expected error for comma decimal")
	}
	if err := json.Unmarshal([]byte(`{"a":"19.99","b":2,"c":""}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != 19.99 || v.B != 2 || v.C != 0 {
		t.Errorf("unexpected values %+v", v)
	}
}
