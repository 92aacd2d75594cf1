package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakeAPI is an in-memory stand-in for the remote BOM/quote API. IDs for BOM
// items and labor types are returned as JSON numbers and prices as strings,
// like the real service.
type FakeAPI struct {
	*httptest.Server

	Token    string
	UserID   int
	Email    string
	Password string

	// PreviewContent overrides the generated quote text when set.
	PreviewContent func(projectID, laborData, customData string) string

	mu         sync.Mutex
	nextID     int
	boms       map[string][]map[string]any
	categories map[string][]map[string]any
	labors     map[string][]map[string]any
	previews   []map[string]string
	failures   map[string]fakeFailure
	expired    bool
	gate       chan struct{}
	entered    chan struct{}
}

type fakeFailure struct {
	status int
	body   map[string]any
}

// FakeBOM is the seed shape for a bill-of-materials row.
type FakeBOM struct {
	Description string
	Category    string
	Quantity    float64
	Unit        string
	UnitPrice   float64
	Vendor      string
	PartNumber  string
}

// NewFakeAPI starts the fake and stops it when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		Token:      "test-token",
		UserID:     7,
		Email:      "estimator@example.com",
		Password:   "secret",
		nextID:     100,
		boms:       make(map[string][]map[string]any),
		categories: make(map[string][]map[string]any),
		labors:     make(map[string][]map[string]any),
		failures:   make(map[string]fakeFailure),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", f.handleLogin)
	mux.HandleFunc("POST /get-all-bill-of-materials", f.authed(f.handleListBOM))
	mux.HandleFunc("POST /create-bill-of-materials", f.authed(f.handleCreateBOM))
	mux.HandleFunc("POST /delete-bill-of-materials", f.authed(f.handleDeleteBOM))
	mux.HandleFunc("POST /delete-all-bill-of-materials", f.authed(f.handleDeleteAllBOM))
	mux.HandleFunc("POST /get-all-categories", f.authed(f.handleListCategories))
	mux.HandleFunc("POST /create-category", f.authed(f.handleCreateCategory))
	mux.HandleFunc("POST /delete-category", f.authed(f.handleDeleteCategory))
	mux.HandleFunc("POST /get-all-labors", f.authed(f.handleListLabor))
	mux.HandleFunc("POST /create-labor", f.authed(f.handleCreateLabor))
	mux.HandleFunc("POST /delete-labor", f.authed(f.handleDeleteLabor))
	mux.HandleFunc("POST /preview-and-generate-report", f.authed(f.handlePreview))

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// FailNext makes the next call to path fail with status and a detail message.
func (f *FakeAPI) FailNext(path string, status int, detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = fakeFailure{status: status, body: map[string]any{"detail": detail}}
}

// ExpireToken makes every authenticated call answer with a 403 whose detail
// mentions 401, the way the real service reports expired tokens.
func (f *FakeAPI) ExpireToken() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = true
}

// BlockPreview holds preview calls until release is called. entered receives
// once per call that reaches the fake.
func (f *FakeAPI) BlockPreview() (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	f.entered = make(chan struct{}, 8)
	gate := f.gate
	var once sync.Once
	return f.entered, func() { once.Do(func() { close(gate) }) }
}

func (f *FakeAPI) SeedBOM(projectID string, items ...FakeBOM) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, it := range items {
		id := f.newID()
		f.boms[projectID] = append(f.boms[projectID], bomJSON(id, projectID, it))
		ids = append(ids, strconv.Itoa(id))
	}
	return ids
}

func (f *FakeAPI) SeedCategory(projectID, name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("cat-%d", f.newID())
	f.categories[projectID] = append(f.categories[projectID], map[string]any{
		"category_id":   id,
		"category_name": name,
	})
	return id
}

// SeedLabor adds a labor type. adjustment may be "" for none.
func (f *FakeAPI) SeedLabor(projectID, name string, rate float64, adjustment string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID()
	f.labors[projectID] = append(f.labors[projectID], map[string]any{
		"labor_id":               id,
		"project_id":             projectID,
		"user_id":                f.UserID,
		"labor_name":             name,
		"hourly_rate":            fmt.Sprintf("%.2f", rate),
		"labor_hours_adjustment": adjustment,
	})
	return strconv.Itoa(id)
}

func (f *FakeAPI) BOMCount(projectID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.boms[projectID])
}

func (f *FakeAPI) CategoryNames(projectID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, c := range f.categories[projectID] {
		names = append(names, fmt.Sprint(c["category_name"]))
	}
	return names
}

func (f *FakeAPI) LaborCount(projectID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.labors[projectID])
}

// Previews returns the bodies of every preview request received.
func (f *FakeAPI) Previews() []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]string, len(f.previews))
	copy(out, f.previews)
	return out
}

func (f *FakeAPI) newID() int {
	f.nextID++
	return f.nextID
}

func bomJSON(id int, projectID string, it FakeBOM) map[string]any {
	return map[string]any{
		"bill_of_material_id": id,
		"project_id":          projectID,
		"category_name":       it.Category,
		"description":         it.Description,
		"quantity":            it.Quantity,
		"unit":                it.Unit,
		"unit_price":          fmt.Sprintf("%.2f", it.UnitPrice),
		"vendor":              it.Vendor,
		"part_number":         it.PartNumber,
		"manufacturer":        "",
		"model_number":        "",
		"notes":               "",
		"total_price":         fmt.Sprintf("%.2f", it.Quantity*it.UnitPrice),
	}
}

func (f *FakeAPI) authed(next func(http.ResponseWriter, *http.Request, map[string]any)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("token") != f.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Not authenticated"})
			return
		}

		f.mu.Lock()
		expired := f.expired
		failure, failing := f.failures[r.URL.Path]
		delete(f.failures, r.URL.Path)
		f.mu.Unlock()

		if expired {
			writeJSON(w, http.StatusForbidden, map[string]any{"detail": "401: token has expired"})
			return
		}
		if failing {
			writeJSON(w, failure.status, failure.body)
			return
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "invalid JSON body"})
			return
		}
		next(w, r, body)
	}
}

func (f *FakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	failure, failing := f.failures[r.URL.Path]
	delete(f.failures, r.URL.Path)
	f.mu.Unlock()
	if failing {
		writeJSON(w, failure.status, failure.body)
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&body)
	if !strings.EqualFold(body.Email, f.Email) || body.Password != f.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": f.Token, "user_id": f.UserID})
}

func (f *FakeAPI) handleListBOM(w http.ResponseWriter, _ *http.Request, body map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.boms[str(body["project_id"])]
	if items == nil {
		items = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bill_of_materials": items})
}

func (f *FakeAPI) handleCreateBOM(w http.ResponseWriter, _ *http.Request, body map[string]any) {
	projectID := str(body["project_id"])
	if projectID == "" || str(body["description"]) == "" || str(body["category_name"]) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "project_id, description and category_name are required"})
		return
	}
	qty, _ := body["quantity"].(float64)
	price, _ := body["unit_price"].(float64)

	f.mu.Lock()
	defer f.mu.Unlock()
	rec := bomJSON(f.newID(), projectID, FakeBOM{
		Description: str(body["description"]),
		Category:    str(body["category_name"]),
		Quantity:    qty,
		Unit:        str(body["unit"]),
		UnitPrice:   price,
		Vendor:      str(body["vendor"]),
		PartNumber:  str(body["part_number"]),
	})
	rec["manufacturer"] = str(body["manufacturer"])
	rec["model_number"] = str(body["model_number"])
	rec["notes"] = str(body["notes"])
	f.boms[projectID] = append(f.boms[projectID], rec)
	writeJSON(w, http.StatusOK, map[string]any{"bill_of_material": rec})
}

func (f *FakeAPI) handleDeleteBOM(w http.ResponseWriter, _ *http.Request, body map[string]any) {
	id := str(body["bill_of_material_id"])
	f.mu.Lock()
	defer f.mu.Unlock()
	for pid, items := range f.boms {
		for i, it := range items {
			if str(it["bill_of_material_id"]) == id {
				f.boms[pid] = append(items[:i], items[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
				return
			}
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Bill of material not found"})
}

func (f *FakeAPI) handleDeleteAllBOM(w http.ResponseWriter, _ *http.Request, body map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.boms, str(body["project_id"]))
	writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
}

func (f *FakeAPI) handleListCategories(w http.ResponseWriter, _ *http.Request, body map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cats := f.categories[str(body["project_id"])]
	if cats == nil {
		cats = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (f *FakeAPI) handleCreateCategory(w http.ResponseWriter, _ *http.Request, body map[string]any) {
	projectID := str(body["project_id"])
	name := str(body["category_name"])
	if name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "category_name is required"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := map[string]any{"category_id": fmt.Sprintf("cat-%d", f.newID()), "category_name": name}
	f.categories[projectID] = append(f.categories[projectID], rec)
	writeJSON(w, http.StatusOK, map[string]any{"category": rec})
}

func (f *FakeAPI) handleDeleteCategory(w http.ResponseWriter, _ *http.Request, body map[string]any) {
	id := str(body["category_id"])
	f.mu.Lock()
	defer f.mu.Unlock()
	for pid, cats := range f.categories {
		for i, c := range cats {
			if str(c["category_id"]) == id {
				f.categories[pid] = append(cats[:i], cats[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
				return
			}
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Category not found"})
}

func (f *FakeAPI) handleListLabor(w http.ResponseWriter, _ *http.Request, body map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	labors := f.labors[str(body["project_id"])]
	if labors == nil {
		labors = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"labors": labors})
}

func (f *FakeAPI) handleCreateLabor(w http.ResponseWriter, _ *http.Request, body map[string]any) {
	projectID := str(body["project_id"])
	if projectID == "" || str(body["labor_name"]) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "project_id and labor_name are required"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := map[string]any{
		"labor_id":               f.newID(),
		"project_id":             projectID,
		"user_id":                body["user_id"],
		"labor_name":             body["labor_name"],
		"hourly_rate":            body["hourly_rate"],
		"labor_hours_adjustment": body["labor_hours_adjustment"],
	}
	f.labors[projectID] = append(f.labors[projectID], rec)
	writeJSON(w, http.StatusOK, map[string]any{"labor": rec})
}

func (f *FakeAPI) handleDeleteLabor(w http.ResponseWriter, _ *http.Request, body map[string]any) {
	id := str(body["labor_id"])
	f.mu.Lock()
	defer f.mu.Unlock()
	for pid, labors := range f.labors {
		for i, l := range labors {
			if str(l["labor_id"]) == id {
				f.labors[pid] = append(labors[:i], labors[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
				return
			}
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Labor not found"})
}

func (f *FakeAPI) handlePreview(w http.ResponseWriter, _ *http.Request, body map[string]any) {
	req := map[string]string{}
	for _, k := range []string{"project_id", "labor_data", "custom_data"} {
		s, ok := body[k].(string)
		if !ok {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": k + " must be a string"})
			return
		}
		req[k] = s
	}

	f.mu.Lock()
	f.previews = append(f.previews, req)
	gate, entered := f.gate, f.entered
	render := f.PreviewContent
	f.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		<-gate
	}

	content := fmt.Sprintf("Quote for project %s\nLabor: %s\nAdditional items: %s",
		req["project_id"], req["labor_data"], req["custom_data"])
	if render != nil {
		content = render(req["project_id"], req["labor_data"], req["custom_data"])
	}
	writeJSON(w, http.StatusOK, map[string]any{"quote_content": content})
}

// str renders a decoded JSON value as a string; numbers keep no trailing ".0".
func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
