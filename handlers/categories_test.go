package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"quotebuilder/testhelpers"
)

func TestHandleCategoryCreate(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		input    string
		status   int
		want     []string
	}{
		{"new name", nil, "  Cabling ", http.StatusOK, []string{"Cabling"}},
		{"duplicate ignores case", []string{"Hardware"}, "hardware", http.StatusConflict, []string{"Hardware"}},
		{"blank", nil, "   ", http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			for _, n := range tt.existing {
				env.api.SeedCategory(testProject, n)
			}

			req := htmx(env.form("/projects/42/categories", url.Values{"category_name": {tt.input}}, "projectId", testProject))
			rec := env.serve(t, HandleCategoryCreate(env.app, env.deps), req)

			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			got := env.api.CategoryNames(testProject)
			if len(got) != len(tt.want) {
				t.Fatalf("categories = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("categories[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestHandleCategoryCreate_DuplicateMessage(t *testing.T) {
	env := newTestEnv(t)
	env.api.SeedCategory(testProject, "Hardware")

	req := htmx(env.form("/projects/42/categories", url.Values{"category_name": {"HARDWARE"}}, "projectId", testProject))
	rec := env.serve(t, HandleCategoryCreate(env.app, env.deps), req)

	testhelpers.AssertHTMLContains(t, rec.Body.String(), `Category "Hardware" already exists`)
}

func TestHandleCategoryDelete_Unused(t *testing.T) {
	env := newTestEnv(t)
	id := env.api.SeedCategory(testProject, "Spare")

	req := htmx(env.request(http.MethodDelete, "/projects/42/categories/"+id, nil, "projectId", testProject, "categoryId", id))
	rec := env.serve(t, HandleCategoryDelete(env.app, env.deps), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(env.api.CategoryNames(testProject)) != 0 {
		t.Error("expected category to be deleted")
	}
}

func TestHandleCategoryDelete_InUse(t *testing.T) {
	env := newTestEnv(t)
	id := env.api.SeedCategory(testProject, "Hardware")
	seedTwoCategories(env)

	req := htmx(env.request(http.MethodDelete, "/projects/42/categories/"+id, nil, "projectId", testProject, "categoryId", id))
	rec := env.serve(t, HandleCategoryDelete(env.app, env.deps), req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `Category "Hardware" is used by 1 item`)
	if len(env.api.CategoryNames(testProject)) != 1 {
		t.Error("expected category to remain")
	}
}

func TestHandleCategoryDelete_NotFound(t *testing.T) {
	env := newTestEnv(t)

	req := htmx(env.request(http.MethodDelete, "/projects/42/categories/cat-1", nil, "projectId", testProject, "categoryId", "cat-1"))
	rec := env.serve(t, HandleCategoryDelete(env.app, env.deps), req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
