package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"quotebuilder/services"
	"quotebuilder/testhelpers"
)

func loginRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func cookieValue(rec *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestHandleLoginPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(t, HandleLoginPage(env.app, env.deps), httptest.NewRequest(http.MethodGet, "/login", nil))
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `name="email"`, `name="password"`)

	// Already logged in goes home.
	rec = env.serve(t, HandleLoginPage(env.app, env.deps), env.request(http.MethodGet, "/login", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Errorf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestHandleLogin_Success(t *testing.T) {
	env := newTestEnv(t)

	req := loginRequest(url.Values{"email": {" Estimator@Example.com "}, "password": {"secret"}})
	rec := env.serve(t, HandleLogin(env.app, env.deps), req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Errorf("expected redirect to /, got %d", rec.Code)
	}
	if tok, ok := cookieValue(rec, "token"); !ok || tok != env.api.Token {
		t.Errorf("token cookie = %q", tok)
	}
	if uid, ok := cookieValue(rec, "user_id"); !ok || uid != "7" {
		t.Errorf("user_id cookie = %q", uid)
	}
}

func TestHandleLogin_Failures(t *testing.T) {
	tests := []struct {
		name   string
		fail   func(env *testEnv)
		form   url.Values
		status int
		want   string
	}{
		{
			name:   "wrong password",
			form:   url.Values{"email": {"estimator@example.com"}, "password": {"nope"}},
			status: http.StatusUnauthorized,
			want:   "Invalid email or password",
		},
		{
			name:   "server error",
			fail:   func(env *testEnv) { env.api.FailNext("/login", http.StatusInternalServerError, "down for maintenance") },
			form:   url.Values{"email": {"estimator@example.com"}, "password": {"secret"}},
			status: http.StatusBadGateway,
			want:   "Login failed: down for maintenance",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.fail != nil {
				tt.fail(env)
			}
			rec := env.serve(t, HandleLogin(env.app, env.deps), loginRequest(tt.form))

			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			testhelpers.AssertHTMLContains(t, rec.Body.String(), tt.want, `value="`+tt.form.Get("email")+`"`)
			if _, ok := cookieValue(rec, "token"); ok {
				t.Error("expected no token cookie")
			}
		})
	}
}

func TestHandleLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, err := env.deps.Quotes.BindProject(ctx, testSessionKey, testProject); err != nil {
		t.Fatal(err)
	}
	if _, err := env.deps.Quotes.AddCustomItem(ctx, testSessionKey, services.CustomItem{
		Description: "Travel", Quantity: 1, UnitPrice: 100, Category: services.CustomItemCategories[0],
	}); err != nil {
		t.Fatal(err)
	}

	rec := env.serve(t, HandleLogout(env.app, env.deps), env.request(http.MethodPost, "/logout", nil))

	if rec.Header().Get("Location") != "/login" {
		t.Errorf("expected redirect to /login, got %q", rec.Header().Get("Location"))
	}
	for _, name := range []string{"token", "user_id", "current_project", "quote_session"} {
		if v, ok := cookieValue(rec, name); !ok || v != "" {
			t.Errorf("expected %s cookie cleared", name)
		}
	}
	sess, err := env.deps.Quotes.Session(ctx, testSessionKey)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.CustomItems) != 0 || sess.ProjectID != "" {
		t.Errorf("expected quote session cleared, got %+v", sess)
	}
}
