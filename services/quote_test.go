package services

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type stubGenerator struct {
	content string
	err     error
	got     []QuotePreviewWire

	// block, when set, holds GenerateQuote until it is closed.
	block   chan struct{}
	started chan struct{}
}

func (g *stubGenerator) GenerateQuote(ctx context.Context, req QuotePreviewWire) (string, error) {
	g.got = append(g.got, req)
	if g.started != nil {
		close(g.started)
	}
	if g.block != nil {
		<-g.block
	}
	return g.content, g.err
}

func newTestAssembler(t *testing.T, project string) (*QuoteAssembler, string) {
	t.Helper()
	a := NewQuoteAssembler(NewMemorySessionStore())
	key := "sess-1"
	if project != "" {
		if _, err := a.BindProject(context.Background(), key, project); err != nil {
			t.Fatalf("BindProject() error = %v", err)
		}
	}
	return a, key
}

func TestAddLabor_Idempotent(t *testing.T) {
	ctx := context.Background()
	a, key := newTestAssembler(t, "proj-1")

	installer := LaborType{ID: "l1", Name: "Installer", HourlyRate: 85}
	if err := a.AddLabor(ctx, key, installer); err != nil {
		t.Fatalf("AddLabor() error = %v", err)
	}
	err := a.AddLabor(ctx, key, installer)
	var already *AlreadyAddedError
	if !errors.As(err, &already) {
		t.Fatalf("second AddLabor() = %v, want AlreadyAddedError", err)
	}

	sess, _ := a.Session(ctx, key)
	if len(sess.Labor) != 1 {
		t.Errorf("expected 1 labor entry, got %d", len(sess.Labor))
	}
	if sess.State != QuoteBuilding {
		t.Errorf("State = %q, want %q", sess.State, QuoteBuilding)
	}
}

func TestRemoveLabor(t *testing.T) {
	ctx := context.Background()
	a, key := newTestAssembler(t, "proj-1")
	a.AddLabor(ctx, key, LaborType{ID: "l1", Name: "Installer"})

	if err := a.RemoveLabor(ctx, key, "l1"); err != nil {
		t.Fatalf("RemoveLabor() error = %v", err)
	}
	if err := a.RemoveLabor(ctx, key, "l1"); !errors.Is(err, ErrLaborNotFound) {
		t.Errorf("second RemoveLabor() = %v, want ErrLaborNotFound", err)
	}
	sess, _ := a.Session(ctx, key)
	if sess.State != QuoteEmpty {
		t.Errorf("State = %q, want %q", sess.State, QuoteEmpty)
	}
}

func TestAddCustomItem(t *testing.T) {
	ctx := context.Background()
	a, key := newTestAssembler(t, "proj-1")

	item, err := a.AddCustomItem(ctx, key, CustomItem{
		Description: "  Freight  ",
		Quantity:    3,
		UnitPrice:   10,
		Category:    CustomCategoryShipping,
	})
	if err != nil {
		t.Fatalf("AddCustomItem() error = %v", err)
	}
	if item.TotalPrice != 30 {
		t.Errorf("TotalPrice = %v, want 30", item.TotalPrice)
	}
	if item.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if item.Description != "Freight" {
		t.Errorf("Description = %q, want trimmed", item.Description)
	}
}

func TestAddCustomItem_Invalid(t *testing.T) {
	ctx := context.Background()
	a, key := newTestAssembler(t, "proj-1")
	a.AddCustomItem(ctx, key, CustomItem{Description: "Keep", Quantity: 1, UnitPrice: 1, Category: CustomCategoryMaterials})

	tests := []struct {
		name  string
		item  CustomItem
		field string
	}{
		{"zero quantity", CustomItem{Description: "Freight", Quantity: 0, UnitPrice: 10, Category: CustomCategoryShipping}, "quantity"},
		{"negative price", CustomItem{Description: "Freight", Quantity: 1, UnitPrice: -1, Category: CustomCategoryShipping}, "unit_price"},
		{"blank description", CustomItem{Description: "   ", Quantity: 1, UnitPrice: 1, Category: CustomCategoryShipping}, "description"},
		{"unknown category", CustomItem{Description: "Freight", Quantity: 1, UnitPrice: 1, Category: "Hardware"}, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.AddCustomItem(ctx, key, tt.item)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}

	sess, _ := a.Session(ctx, key)
	if len(sess.CustomItems) != 1 {
		t.Errorf("custom items changed after invalid adds: %d", len(sess.CustomItems))
	}
}

func TestRemoveCustomItem(t *testing.T) {
	ctx := context.Background()
	a, key := newTestAssembler(t, "proj-1")
	item, _ := a.AddCustomItem(ctx, key, CustomItem{Description: "X", Quantity: 1, UnitPrice: 1, Category: CustomCategoryLabor})

	if err := a.RemoveCustomItem(ctx, key, item.ID); err != nil {
		t.Fatalf("RemoveCustomItem() error = %v", err)
	}
	if err := a.RemoveCustomItem(ctx, key, item.ID); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("second RemoveCustomItem() = %v, want ErrItemNotFound", err)
	}
}

func TestBindProject_SwitchClearsSelections(t *testing.T) {
	ctx := context.Background()
	a, key := newTestAssembler(t, "proj-1")
	a.AddLabor(ctx, key, LaborType{ID: "l1", Name: "Installer"})

	sess, err := a.BindProject(ctx, key, "proj-1")
	if err != nil {
		t.Fatalf("BindProject() error = %v", err)
	}
	if len(sess.Labor) != 1 {
		t.Error("rebinding the same project should keep selections")
	}

	sess, _ = a.BindProject(ctx, key, "proj-2")
	if len(sess.Labor) != 0 || sess.ProjectID != "proj-2" {
		t.Errorf("expected a fresh session for proj-2, got %+v", sess)
	}
}

func TestPreview_Success(t *testing.T) {
	ctx := context.Background()
	a, key := newTestAssembler(t, "proj-1")
	a.AddLabor(ctx, key, LaborType{ID: "l1", Name: "Installer", HourlyRate: 85})

	gen := &stubGenerator{content: "Quote body"}
	content, err := a.Preview(ctx, key, gen)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if content != "Quote body" {
		t.Errorf("content = %q", content)
	}
	if len(gen.got) != 1 || gen.got[0].ProjectID != "proj-1" {
		t.Fatalf("unexpected generator calls %+v", gen.got)
	}
	if gen.got[0].CustomData != "[]" {
		t.Errorf("CustomData = %q, want []", gen.got[0].CustomData)
	}

	sess, _ := a.Session(ctx, key)
	if sess.State != QuotePreviewReady || sess.Content != "Quote body" {
		t.Errorf("unexpected session after preview: %+v", sess)
	}

	// Any edit invalidates the preview.
	a.AddLabor(ctx, key, LaborType{ID: "l2", Name: "Engineer"})
	sess, _ = a.Session(ctx, key)
	if sess.State != QuoteBuilding || sess.Content != "" {
		t.Errorf("edit should reset preview, got state %q content %q", sess.State, sess.Content)
	}
}

func TestPreview_Failure(t *testing.T) {
	ctx := context.Background()
	a, key := newTestAssembler(t, "proj-1")
	a.AddLabor(ctx, key, LaborType{ID: "l1", Name: "Installer"})

	_, err := a.Preview(ctx, key, &stubGenerator{err: &NetworkError{Status: 502, Message: "bad gateway"}})
	var nErr *NetworkError
	if !errors.As(err, &nErr) {
		t.Fatalf("Preview() = %v, want NetworkError", err)
	}

	sess, _ := a.Session(ctx, key)
	if sess.State != QuotePreviewFailed {
		t.Errorf("State = %q, want %q", sess.State, QuotePreviewFailed)
	}
	if sess.Content != "" || sess.LastError == "" {
		t.Errorf("failed preview should keep no content and record the error, got %+v", sess)
	}
	if len(sess.Labor) != 1 {
		t.Error("failed preview should keep selections")
	}
}

func TestPreview_RequiresProject(t *testing.T) {
	a, key := newTestAssembler(t, "")
	_, err := a.Preview(context.Background(), key, &stubGenerator{})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Preview() = %v, want ValidationError", err)
	}
}

func TestPreview_Busy(t *testing.T) {
	ctx := context.Background()
	a, key := newTestAssembler(t, "proj-1")

	gen := &stubGenerator{content: "done", block: make(chan struct{}), started: make(chan struct{})}

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = a.Preview(ctx, key, gen)
	}()
	<-gen.started

	if !a.InFlight(key) {
		t.Error("expected preview to be in flight")
	}
	sess, _ := a.Session(ctx, key)
	if sess.State != QuotePreviewRequested {
		t.Errorf("State = %q, want %q", sess.State, QuotePreviewRequested)
	}

	if _, err := a.Preview(ctx, key, &stubGenerator{}); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Preview() = %v, want ErrBusy", err)
	}

	close(gen.block)
	wg.Wait()
	if firstErr != nil {
		t.Fatalf("first Preview() error = %v", firstErr)
	}
	if a.InFlight(key) {
		t.Error("in-flight flag should be cleared")
	}
}

func TestPreview_ClearedWhileInFlight(t *testing.T) {
	tests := []struct {
		name   string
		change func(a *QuoteAssembler, key string) error
		want   QuoteSession
	}{
		{
			name:   "cleared",
			change: func(a *QuoteAssembler, key string) error { return a.Clear(context.Background(), key) },
			want:   QuoteSession{State: QuoteEmpty},
		},
		{
			name: "project switched",
			change: func(a *QuoteAssembler, key string) error {
				_, err := a.BindProject(context.Background(), key, "proj-2")
				return err
			},
			want: QuoteSession{ProjectID: "proj-2", State: QuoteEmpty},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			a, key := newTestAssembler(t, "proj-1")
			a.AddLabor(ctx, key, LaborType{ID: "l1", Name: "Installer"})

			gen := &stubGenerator{content: "content", block: make(chan struct{}), started: make(chan struct{})}
			done := make(chan error, 1)
			go func() {
				_, err := a.Preview(ctx, key, gen)
				done <- err
			}()
			<-gen.started

			if err := tt.change(a, key); err != nil {
				t.Fatalf("change error = %v", err)
			}
			close(gen.block)

			if err := <-done; !errors.Is(err, ErrSessionCleared) {
				t.Errorf("Preview() error = %v, want ErrSessionCleared", err)
			}
			sess, _ := a.Session(ctx, key)
			if sess.ProjectID != tt.want.ProjectID || sess.State != tt.want.State || sess.Content != "" || len(sess.Labor) != 0 {
				t.Errorf("session = project %q state %q content %q labor %d, want project %q state %q and no content",
					sess.ProjectID, sess.State, sess.Content, len(sess.Labor), tt.want.ProjectID, tt.want.State)
			}
			if a.InFlight(key) {
				t.Error("in-flight flag should be cleared")
			}
		})
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	a, key := newTestAssembler(t, "proj-1")
	a.AddLabor(ctx, key, LaborType{ID: "l1", Name: "Installer"})

	if err := a.Clear(ctx, key); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	sess, _ := a.Session(ctx, key)
	if len(sess.Labor) != 0 || sess.State != QuoteEmpty || sess.ProjectID != "" {
		t.Errorf("expected empty session, got %+v", sess)
	}
}

func TestAssembleQuote_CopiesSelections(t *testing.T) {
	labor := []LaborType{{ID: "l1"}}
	req, err := AssembleQuote("p", labor, nil)
	if err != nil {
		t.Fatalf("AssembleQuote() error = %v", err)
	}
	labor[0].ID = "changed"
	if req.Labor[0].ID != "l1" {
		t.Error("request should not alias the caller's slice")
	}
	if req.CustomItems == nil {
		t.Error("expected non-nil custom items")
	}
}

func TestMemorySessionStore_Isolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore()
	s.Save(ctx, "k", QuoteSession{ProjectID: "p", Labor: []LaborType{{ID: "l1"}}})

	got, _ := s.Load(ctx, "k")
	got.Labor[0].ID = "mutated"

	again, _ := s.Load(ctx, "k")
	if again.Labor[0].ID != "l1" {
		t.Error("Load should return a copy")
	}

	empty, _ := s.Load(ctx, "missing")
	if empty.State != QuoteEmpty {
		t.Errorf("unknown key state = %q, want empty", empty.State)
	}
}
