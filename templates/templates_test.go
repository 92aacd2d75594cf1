package templates

import (
	"context"
	"strings"
	"testing"

	"quotebuilder/services"
)

func TestLayout_EscapesAndMarksActiveLink(t *testing.T) {
	header := HeaderData{ProjectID: "p1", ActivePath: "/projects/p1/quote", LoggedIn: true}
	out, err := RenderString(context.Background(), Layout("<Quote>", header, nil))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<Quote>") {
		t.Error("title was not escaped")
	}
	if !strings.Contains(out, `href="/projects/p1/quote" class="active"`) {
		t.Error("expected the quote link to be active")
	}
	if !strings.Contains(out, `action="/logout"`) {
		t.Error("expected logout form for logged-in header")
	}
}

func TestLayout_LoggedOut(t *testing.T) {
	out, err := RenderString(context.Background(), LoginPage(LoginData{Email: `a"b@example.com`, Error: "bad password"}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "/logout") {
		t.Error("login page should not offer logout")
	}
	if !strings.Contains(out, "a&#34;b@example.com") && !strings.Contains(out, "a&quot;b@example.com") {
		t.Errorf("email attribute not escaped: %s", out)
	}
	if !strings.Contains(out, "bad password") {
		t.Error("expected error message")
	}
}

func TestBOMContent(t *testing.T) {
	items := []services.LineItem{
		{ID: "1", Description: "Widget <b>", Category: "Hardware", Quantity: 2, UnitPrice: 50, MarginPercent: 35},
		{ID: "2", Description: "License", Category: "Software", Quantity: 1, UnitPrice: 50, MarginPercent: 35},
	}
	store := services.NewItemStore(items)
	data := BOMPageData{
		ProjectID:        "p1",
		Categories:       store.Categories(),
		Totals:           store.Totals(),
		SelectedCategory: "Hardware",
		Items:            services.Paginate(store.Items(), "Hardware", 1, 10),
		Page:             1,
		TotalPages:       1,
		Catalog:          []services.CategoryRecord{{ID: "c1", Name: "Cabling"}},
		ItemCount:        store.Len(),
	}

	out, err := RenderString(context.Background(), BOMContent(data))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`id="bom-content"`,
		"Widget &lt;b&gt;",
		"$153.85",
		"66.7%",
		"33.3%",
		`hx-delete="/projects/p1/categories/c1"`,
		`<option value="Cabling"`,
		`<option value="Software"`,
		"/projects/p1/bom/export/excel",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Contains(out, "Page 1 of 1") {
		t.Error("single page should not render a pager")
	}
}

func TestBOMContent_Empty(t *testing.T) {
	out, err := RenderString(context.Background(), BOMContent(BOMPageData{ProjectID: "p1", Page: 1, TotalPages: 1}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "No items yet") {
		t.Error("expected empty state")
	}
}

func TestBOMPageURL(t *testing.T) {
	d := BOMPageData{ProjectID: "p1"}
	if got := d.PageURL("A & B", 2); got != "/projects/p1/bom?category=A+%26+B&page=2" {
		t.Errorf("PageURL = %q", got)
	}
}

func TestPager(t *testing.T) {
	d := BOMPageData{ProjectID: "p1", SelectedCategory: "Hardware", Page: 2, TotalPages: 3}
	out, err := RenderString(context.Background(), pager(d))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Page 2 of 3", "page=1", "page=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected pager to contain %q, got %s", want, out)
		}
	}
}

func TestQuoteContent(t *testing.T) {
	sess := services.QuoteSession{
		ProjectID:   "p1",
		Labor:       []services.LaborType{{ID: "l1", Name: "Installer", HourlyRate: 85}},
		CustomItems: []services.CustomItem{{ID: "c1", Description: "Freight", Quantity: 3, UnitPrice: 10, Category: "shipping", TotalPrice: 30}},
		State:       services.QuotePreviewReady,
		Content:     "Line one\n<script>alert(1)</script>",
	}
	data := QuotePageData{
		ProjectID: "p1",
		Available: []services.LaborType{{ID: "l1", Name: "Installer", HourlyRate: 85}, {ID: "l2", Name: "Engineer", HourlyRate: 140}},
		Session:   sess,
		InFlight:  true,
	}

	out, err := RenderString(context.Background(), QuoteContent(data))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("quote content must be escaped")
	}
	for _, want := range []string{
		"Preview ready",
		`hx-post="/projects/p1/quote/labor/l2"`,
		`hx-delete="/projects/p1/quote/labor/l1"`,
		`hx-delete="/projects/p1/quote/items/c1"`,
		"$30.00",
		"/projects/p1/quote/export/pdf",
		" disabled>Generate preview",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Contains(out, `hx-post="/projects/p1/quote/labor/l1"`) {
		t.Error("labor already in the quote should not offer Add")
	}
}

func TestQuoteContent_Failed(t *testing.T) {
	data := QuotePageData{
		ProjectID: "p1",
		Session:   services.QuoteSession{State: services.QuotePreviewFailed, LastError: "api error (HTTP 500): boom"},
	}
	out, err := RenderString(context.Background(), QuoteContent(data))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Preview failed") || !strings.Contains(out, "boom") {
		t.Errorf("expected failure state, got %s", out)
	}
	if strings.Contains(out, "Download PDF") {
		t.Error("failed preview must not offer downloads")
	}
}

func TestQuoteDocumentHTML(t *testing.T) {
	doc := services.QuoteDocument{
		CompanyName: "Acme & Co",
		ProjectID:   "p1",
		Date:        "2026-01-02",
		Labor:       []services.LaborType{{ID: "l1", Name: "Installer", HourlyRate: 85, HoursAdjustment: services.SomeNumber(10)}},
		CustomItems: []services.CustomItem{{Description: "Freight", Quantity: 1, UnitPrice: 25, Category: "shipping", TotalPrice: 25}},
		CustomTotal: 25,
		Content:     "Scope of work",
	}
	out, err := QuoteDocumentHTML(context.Background(), doc)
	if err != nil {
		t.Fatalf("QuoteDocumentHTML() error = %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "Acme &amp; Co", "Project: p1", "+10%", "$25.00", "Scope of work"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected document to contain %q", want)
		}
	}
}

func TestBOMImportResults(t *testing.T) {
	withErrors := BOMImportResultData{
		ProjectID: "p1",
		Result: &services.ImportResult{
			FileName:  "bom.csv",
			TotalRows: 2,
			ValidRows: 1,
			ErrorRows: 1,
			Errors:    []services.RowError{{Row: 3, Field: "Quantity", Message: "must be zero or greater"}},
		},
		ErrorsJSON: `[{"row":3}]`,
	}
	out, err := RenderString(context.Background(), BOMImportResults(withErrors))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "/projects/p1/bom/import/errors") || strings.Contains(out, "/import/commit") {
		t.Errorf("rows with errors should offer the report only: %s", out)
	}

	valid := BOMImportResultData{
		ProjectID: "p1",
		Result:    &services.ImportResult{FileName: "bom.csv", TotalRows: 2, ValidRows: 2},
		ItemsJSON: `[{"Description":"Widget"}]`,
	}
	out, err = RenderString(context.Background(), BOMImportResults(valid))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "/projects/p1/bom/import/commit") || !strings.Contains(out, "Import 2 items") {
		t.Errorf("valid upload should offer commit: %s", out)
	}
	if strings.Contains(out, `"Description"`) {
		t.Error("items JSON must be attribute-escaped")
	}
}
