package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
)

func TestAPIErrorToast(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", &services.ValidationError{Field: "unit_price", Message: "must be zero or greater"}, http.StatusBadRequest, "Unit price must be zero or greater"},
		{"validation name suffix", &services.ValidationError{Field: "category_name", Message: "is required"}, http.StatusBadRequest, "Category is required"},
		{"duplicate", &services.DuplicateNameError{Name: "Hardware"}, http.StatusConflict, `Category "Hardware" already exists`},
		{"in use", &services.InUseError{Name: "Hardware", Count: 3}, http.StatusConflict, `Category "Hardware" is used by 3 items`},
		{"already added", &services.AlreadyAddedError{Name: "Installer"}, http.StatusConflict, "Installer is already added to the quote"},
		{"busy", services.ErrBusy, http.StatusConflict, "A quote preview is already being generated"},
		{"cleared during preview", services.ErrSessionCleared, http.StatusConflict, "The quote was cleared before the preview finished"},
		{"wrapped not found", fmt.Errorf("lookup: %w", services.ErrItemNotFound), http.StatusNotFound, "Item not found"},
		{"remote not found", &services.NetworkError{Status: 404, Message: "labor not found"}, http.StatusNotFound, "Labor not found"},
		{"network", &services.NetworkError{Status: 500, Message: "boom"}, http.StatusBadGateway, "Request failed: boom"},
		{"unknown", errors.New("disk full"), http.StatusInternalServerError, genericErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e := &core.RequestEvent{}
			e.Request = httptest.NewRequest(http.MethodPost, "/", nil)
			e.Response = rec

			if err := APIErrorToast(e, "test", tt.err); err != nil {
				t.Fatalf("APIErrorToast error: %v", err)
			}
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if rec.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestAPIErrorToast_AuthLogsOut(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Request = httptest.NewRequest(http.MethodGet, "/projects/42/bom", nil)
	e.Response = rec

	if err := APIErrorToast(e, "test", &services.AuthError{Message: "401: expired"}); err != nil {
		t.Fatalf("APIErrorToast error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Errorf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if v, ok := cookieValue(rec, "token"); !ok || v != "" {
		t.Error("expected token cookie cleared")
	}
}
