package services

import (
	"context"
	"strings"
	"testing"
)

func TestGeneratePDF_BasicBOM(t *testing.T) {
	result, err := GeneratePDF(sampleExportData(t, "Test BOM PDF"))
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
	if len(result) > 4 && string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGeneratePDF_EmptyItems(t *testing.T) {
	result, err := GeneratePDF(BuildExportData("Empty BOM PDF", "p", "2025-01-15", nil))
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
}

func TestGenerateQuotePDF(t *testing.T) {
	sess := QuoteSession{
		ProjectID: "proj-1",
		Labor: []LaborType{
			{ID: "l1", Name: "Installer", HourlyRate: 85, HoursAdjustment: SomeNumber(10)},
			{ID: "l2", Name: "Engineer", HourlyRate: 140},
		},
		CustomItems: []CustomItem{
			{ID: "c1", Description: "Freight", Quantity: 3, UnitPrice: 10, Category: CustomCategoryShipping, TotalPrice: 30},
		},
		Content: "Scope of work\n\nInstall and configure the network.\n" + strings.Repeat("word ", 80),
	}
	doc := NewQuoteDocument("Acme", "", "2025-01-15", sess)
	if doc.CustomTotal != 30 {
		t.Errorf("CustomTotal = %v, want 30", doc.CustomTotal)
	}

	result, err := MarotoRenderer{}.RenderQuotePDF(context.Background(), doc)
	if err != nil {
		t.Fatalf("RenderQuotePDF() error = %v", err)
	}
	if string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGenerateQuotePDF_EmptySession(t *testing.T) {
	doc := NewQuoteDocument("Acme", "Office Fitout", "2025-01-15", QuoteSession{ProjectID: "p"})
	if _, err := GenerateQuotePDF(doc); err != nil {
		t.Fatalf("GenerateQuotePDF() error = %v", err)
	}
}

func TestFormatAdjustment(t *testing.T) {
	tests := []struct {
		in   OptionalNumber
		want string
	}{
		{OptionalNumber{}, "—"},
		{SomeNumber(10), "+10%"},
		{SomeNumber(-5), "-5%"},
		{SomeNumber(0), "+0%"},
	}
	for _, tt := range tests {
		if got := FormatAdjustment(tt.in); got != tt.want {
			t.Errorf("FormatAdjustment(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWrapLines(t *testing.T) {
	got := wrapLines("alpha beta gamma\r\n\ndelta", 11)
	want := []string{"alpha beta", "gamma", " ", "delta"}
	if len(got) != len(want) {
		t.Fatalf("wrapLines() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
