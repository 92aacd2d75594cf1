package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"quotebuilder/services"
	"quotebuilder/testhelpers"
)

func TestHandleHome(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(t, HandleHome(env.app, env.deps), env.request(http.MethodGet, "/", nil))
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `name="project_id"`)

	req := env.request(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), CurrentProjectKey, "42"))
	rec = env.serve(t, HandleHome(env.app, env.deps), req)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/projects/42/bom" {
		t.Errorf("expected redirect to BOM, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	// ?switch=1 shows the picker even with a current project.
	req = env.request(http.MethodGet, "/?switch=1", nil)
	req = req.WithContext(context.WithValue(req.Context(), CurrentProjectKey, "42"))
	rec = env.serve(t, HandleHome(env.app, env.deps), req)
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `value="42"`)
}

func TestHandleProjectSelect(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.deps.Quotes.BindProject(ctx, testSessionKey, "41")
	env.deps.Quotes.AddCustomItem(ctx, testSessionKey, services.CustomItem{
		Description: "Freight", Quantity: 1, UnitPrice: 10, Category: services.CustomCategoryShipping,
	})

	rec := env.serve(t, HandleProjectSelect(env.app, env.deps), env.form("/projects/select", url.Values{"project_id": {" 42 "}}))

	if rec.Header().Get("Location") != "/projects/42/bom" {
		t.Errorf("Location = %q", rec.Header().Get("Location"))
	}
	if v, _ := cookieValue(rec, "current_project"); v != "42" {
		t.Errorf("current_project cookie = %q", v)
	}
	sess, _ := env.deps.Quotes.Session(ctx, testSessionKey)
	if sess.ProjectID != "42" || len(sess.CustomItems) != 0 {
		t.Errorf("expected a fresh session for project 42, got %+v", sess)
	}
}

func TestHandleProjectSelect_Blank(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(t, HandleProjectSelect(env.app, env.deps), env.form("/projects/select", url.Values{"project_id": {" "}}))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestProjectPath(t *testing.T) {
	if got := projectPath("a b", "bom"); got != "/projects/a%20b/bom" {
		t.Errorf("projectPath = %q", got)
	}
}
