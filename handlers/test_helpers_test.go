package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/apiclient"
	"quotebuilder/config"
	"quotebuilder/services"
	"quotebuilder/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// testEnv wires a PocketBase test app and the fake remote API into Deps.
type testEnv struct {
	app  *pocketbase.PocketBase
	api  *testhelpers.FakeAPI
	deps *Deps
}

const (
	testProject    = "42"
	testSessionKey = "session-1"
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	api := testhelpers.NewFakeAPI(t)
	cfg := config.FromEnv()
	cfg.APIURL = api.URL
	cfg.BOMPageSize = 10
	cfg.CompanyName = "Test Co"
	return &testEnv{
		app: app,
		api: api,
		deps: &Deps{
			API:      apiclient.New(api.URL, 5*time.Second),
			Quotes:   services.NewQuoteAssembler(services.NewMemorySessionStore()),
			Renderer: services.MarotoRenderer{},
			Config:   cfg,
		},
	}
}

// request builds a logged-in request with the given path values set.
// pathValues alternate name and value.
func (env *testEnv) request(method, target string, body io.Reader, pathValues ...string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), TokenKey, env.api.Token)
	ctx = context.WithValue(ctx, UserIDKey, "7")
	ctx = context.WithValue(ctx, QuoteSessionKey, testSessionKey)
	req = req.WithContext(ctx)
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	return req
}

// form builds a logged-in url-encoded POST.
func (env *testEnv) form(target string, values url.Values, pathValues ...string) *http.Request {
	req := env.request(http.MethodPost, target, strings.NewReader(values.Encode()), pathValues...)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// serve runs handler against req and returns the recorder.
func (env *testEnv) serve(t *testing.T, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(env.app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func htmx(req *http.Request) *http.Request {
	req.Header.Set("HX-Request", "true")
	return req
}

// toastMessage returns the showToast message from the HX-Trigger header.
func toastMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	trigger := rec.Header().Get("HX-Trigger")
	if trigger == "" {
		return ""
	}
	var parsed map[string]map[string]string
	if err := jsonUnmarshal(trigger, &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	return parsed["showToast"]["message"]
}
