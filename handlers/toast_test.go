package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pocketbase/pocketbase/core"
)

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}

func TestSetToast_Basic(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec

	SetToast(e, "success", "Item added")

	var parsed map[string]map[string]string
	if err := jsonUnmarshal(rec.Header().Get("HX-Trigger"), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	toast, ok := parsed["showToast"]
	if !ok {
		t.Fatal("expected showToast key in HX-Trigger JSON")
	}
	if toast["message"] != "Item added" || toast["type"] != "success" {
		t.Errorf("unexpected toast %v", toast)
	}
}

func TestSetToast_FlashCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec

	SetToast(e, "error", `Category "A & B" exists`)

	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash_toast" {
			flash = c
		}
	}
	if flash == nil {
		t.Fatal("expected flash_toast cookie")
	}
	raw, err := url.QueryUnescape(flash.Value)
	if err != nil {
		t.Fatalf("cookie not query-escaped: %v", err)
	}
	var toast map[string]string
	if err := jsonUnmarshal(raw, &toast); err != nil {
		t.Fatalf("cookie is not JSON: %v", err)
	}
	if toast["message"] != `Category "A & B" exists` {
		t.Errorf("message = %q", toast["message"])
	}
	if flash.MaxAge != 10 {
		t.Errorf("MaxAge = %d, want 10", flash.MaxAge)
	}
}

func TestTriggerEvent_Merge(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		wantKeys []string
	}{
		{"empty", "", []string{"showToast"}},
		{"merges object", `{"bomChanged":true}`, []string{"bomChanged", "showToast"}},
		{"replaces invalid", "not-json", []string{"showToast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if tt.existing != "" {
				rec.Header().Set("HX-Trigger", tt.existing)
			}
			e := &core.RequestEvent{}
			e.Response = rec

			TriggerEvent(e, "showToast", map[string]string{"message": "x"})

			var parsed map[string]json.RawMessage
			if err := jsonUnmarshal(rec.Header().Get("HX-Trigger"), &parsed); err != nil {
				t.Fatalf("HX-Trigger is not valid JSON: %v", err)
			}
			if len(parsed) != len(tt.wantKeys) {
				t.Errorf("got %d keys, want %d", len(parsed), len(tt.wantKeys))
			}
			for _, k := range tt.wantKeys {
				if _, ok := parsed[k]; !ok {
					t.Errorf("missing key %q", k)
				}
			}
		})
	}
}

func TestErrorToast_StatusCodes(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusBadGateway} {
		rec := httptest.NewRecorder()
		e := &core.RequestEvent{}
		e.Response = rec

		if err := ErrorToast(e, code, "nope"); err != nil {
			t.Fatalf("ErrorToast error: %v", err)
		}
		if rec.Code != code {
			t.Errorf("status = %d, want %d", rec.Code, code)
		}
		if rec.Header().Get("HX-Reswap") != "none" {
			t.Error("expected HX-Reswap none")
		}
		if rec.Body.String() != "nope" {
			t.Errorf("body = %q", rec.Body.String())
		}
	}
}
