package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LaborType is a billable role and rate that can be added to quotes.
type LaborType struct {
	ID              string         `json:"id"`
	ProjectID       string         `json:"projectId,omitempty"`
	Name            string         `json:"name"`
	HourlyRate      float64        `json:"hourlyRate"`
	HoursAdjustment OptionalNumber `json:"hoursAdjustmentPercent"`
}

// ValidateLaborType checks a labor type before it is created.
func ValidateLaborType(l LaborType) error {
	if strings.TrimSpace(l.Name) == "" {
		return newValidationError("labor_name", "is required")
	}
	if l.HourlyRate < 0 {
		return newValidationError("hourly_rate", "must be zero or greater")
	}
	return nil
}

// CustomItem is a quote-only line that is not part of the BOM.
type CustomItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Category    string  `json:"category"`
	TotalPrice  float64 `json:"totalPrice"`
}

func ValidateCustomItem(c CustomItem) error {
	if strings.TrimSpace(c.Description) == "" {
		return newValidationError("description", "is required")
	}
	if !(c.Quantity > 0) {
		return newValidationError("quantity", "must be greater than 0")
	}
	if !(c.UnitPrice > 0) {
		return newValidationError("unit_price", "must be greater than 0")
	}
	if !IsCustomItemCategory(c.Category) {
		return newValidationError("category", fmt.Sprintf("must be one of %s", strings.Join(CustomItemCategories, ", ")))
	}
	return nil
}

type QuoteState string

const (
	QuoteEmpty            QuoteState = "empty"
	QuoteBuilding         QuoteState = "building"
	QuotePreviewRequested QuoteState = "preview_requested"
	QuotePreviewReady     QuoteState = "preview_ready"
	QuotePreviewFailed    QuoteState = "preview_failed"
)

// QuoteSession holds the labor and custom items picked for one project's quote
// during a browser session.
type QuoteSession struct {
	ProjectID   string       `json:"currentProject"`
	Labor       []LaborType  `json:"quoteLaborTypes"`
	CustomItems []CustomItem `json:"quoteCustomItems"`
	State       QuoteState   `json:"state"`
	Content     string       `json:"quoteContent,omitempty"`
	LastError   string       `json:"lastError,omitempty"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (s QuoteSession) HasLabor(id string) bool {
	for _, l := range s.Labor {
		if l.ID == id {
			return true
		}
	}
	return false
}

// CustomTotal sums the custom items' total prices.
func (s QuoteSession) CustomTotal() float64 {
	var total float64
	for _, c := range s.CustomItems {
		total += c.TotalPrice
	}
	return total
}

// touch moves the session back to building (or empty) after an edit and
// drops any preview content, which no longer matches the selections.
func (s *QuoteSession) touch() {
	if len(s.Labor) == 0 && len(s.CustomItems) == 0 {
		s.State = QuoteEmpty
	} else {
		s.State = QuoteBuilding
	}
	s.Content = ""
	s.LastError = ""
	s.UpdatedAt = time.Now().UTC()
}

// QuoteSessionStore persists quote sessions by key. Load returns an empty
// session for unknown keys.
type QuoteSessionStore interface {
	Load(ctx context.Context, key string) (QuoteSession, error)
	Save(ctx context.Context, key string, session QuoteSession) error
	Clear(ctx context.Context, key string) error
}

// QuoteGenerator renders quote content remotely from the wire request.
type QuoteGenerator interface {
	GenerateQuote(ctx context.Context, req QuotePreviewWire) (string, error)
}

// QuotePreviewRequest is the domain form of a preview call.
type QuotePreviewRequest struct {
	ProjectID   string
	Labor       []LaborType
	CustomItems []CustomItem
}

// AssembleQuote combines the selections into a preview request.
func AssembleQuote(projectID string, labor []LaborType, custom []CustomItem) (QuotePreviewRequest, error) {
	if strings.TrimSpace(projectID) == "" {
		return QuotePreviewRequest{}, newValidationError("project_id", "is required")
	}
	req := QuotePreviewRequest{
		ProjectID:   projectID,
		Labor:       make([]LaborType, len(labor)),
		CustomItems: make([]CustomItem, len(custom)),
	}
	copy(req.Labor, labor)
	copy(req.CustomItems, custom)
	return req, nil
}

// QuoteAssembler edits quote sessions and runs previews. Edits are serialized
// per process; separate processes (or browser tabs sharing a store key) can
// still overwrite each other.
type QuoteAssembler struct {
	store QuoteSessionStore

	mu       sync.Mutex
	inFlight map[string]bool
	// clears counts Clear calls per key so a preview that outlives a clear
	// can tell its session is gone.
	clears map[string]uint64
}

func NewQuoteAssembler(store QuoteSessionStore) *QuoteAssembler {
	return &QuoteAssembler{
		store:    store,
		inFlight: make(map[string]bool),
		clears:   make(map[string]uint64),
	}
}

func (a *QuoteAssembler) Session(ctx context.Context, key string) (QuoteSession, error) {
	return a.store.Load(ctx, key)
}

// InFlight reports whether a preview is running for the session.
func (a *QuoteAssembler) InFlight(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight[key]
}

func (a *QuoteAssembler) update(ctx context.Context, key string, fn func(*QuoteSession) error) (QuoteSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sess, err := a.store.Load(ctx, key)
	if err != nil {
		return QuoteSession{}, fmt.Errorf("load quote session: %w", err)
	}
	if err := fn(&sess); err != nil {
		return QuoteSession{}, err
	}
	if err := a.store.Save(ctx, key, sess); err != nil {
		return QuoteSession{}, fmt.Errorf("save quote session: %w", err)
	}
	return sess, nil
}

// BindProject points the session at a project. Switching projects starts a
// fresh selection.
func (a *QuoteAssembler) BindProject(ctx context.Context, key, projectID string) (QuoteSession, error) {
	return a.update(ctx, key, func(s *QuoteSession) error {
		if s.ProjectID == projectID {
			return nil
		}
		if s.ProjectID != "" {
			log.Printf("quote: session switched from project %s to %s, clearing selections", s.ProjectID, projectID)
		}
		*s = QuoteSession{ProjectID: projectID}
		s.touch()
		return nil
	})
}

// AddLabor appends the labor type unless the session already has it.
func (a *QuoteAssembler) AddLabor(ctx context.Context, key string, labor LaborType) error {
	if strings.TrimSpace(labor.ID) == "" {
		return newValidationError("labor_id", "is required")
	}
	_, err := a.update(ctx, key, func(s *QuoteSession) error {
		if s.HasLabor(labor.ID) {
			return &AlreadyAddedError{LaborID: labor.ID, Name: labor.Name}
		}
		s.Labor = append(s.Labor, labor)
		s.touch()
		return nil
	})
	return err
}

func (a *QuoteAssembler) RemoveLabor(ctx context.Context, key, laborID string) error {
	_, err := a.update(ctx, key, func(s *QuoteSession) error {
		for i, l := range s.Labor {
			if l.ID == laborID {
				s.Labor = append(s.Labor[:i], s.Labor[i+1:]...)
				s.touch()
				return nil
			}
		}
		return ErrLaborNotFound
	})
	return err
}

// AddCustomItem validates the item, assigns an id and computes its total.
func (a *QuoteAssembler) AddCustomItem(ctx context.Context, key string, item CustomItem) (CustomItem, error) {
	item.Description = strings.TrimSpace(item.Description)
	if err := ValidateCustomItem(item); err != nil {
		return CustomItem{}, err
	}
	item.ID = uuid.NewString()
	item.TotalPrice = item.Quantity * item.UnitPrice

	_, err := a.update(ctx, key, func(s *QuoteSession) error {
		s.CustomItems = append(s.CustomItems, item)
		s.touch()
		return nil
	})
	if err != nil {
		return CustomItem{}, err
	}
	return item, nil
}

func (a *QuoteAssembler) RemoveCustomItem(ctx context.Context, key, itemID string) error {
	_, err := a.update(ctx, key, func(s *QuoteSession) error {
		for i, c := range s.CustomItems {
			if c.ID == itemID {
				s.CustomItems = append(s.CustomItems[:i], s.CustomItems[i+1:]...)
				s.touch()
				return nil
			}
		}
		return ErrItemNotFound
	})
	return err
}

func (a *QuoteAssembler) Clear(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clears[key]++
	return a.store.Clear(ctx, key)
}

// Preview assembles the session's selections, asks gen for quote content and
// records the outcome. A failed preview keeps no content. Only one preview per
// session may be in flight; if the selections change meanwhile, the response
// still wins. If the session is cleared or moved to another project meanwhile,
// the response is dropped and ErrSessionCleared returned.
func (a *QuoteAssembler) Preview(ctx context.Context, key string, gen QuoteGenerator) (string, error) {
	a.mu.Lock()
	if a.inFlight[key] {
		a.mu.Unlock()
		return "", ErrBusy
	}
	sess, err := a.store.Load(ctx, key)
	if err != nil {
		a.mu.Unlock()
		return "", fmt.Errorf("load quote session: %w", err)
	}
	req, err := AssembleQuote(sess.ProjectID, sess.Labor, sess.CustomItems)
	if err != nil {
		a.mu.Unlock()
		return "", err
	}
	sess.State = QuotePreviewRequested
	sess.Content = ""
	sess.LastError = ""
	if err := a.store.Save(ctx, key, sess); err != nil {
		a.mu.Unlock()
		return "", fmt.Errorf("save quote session: %w", err)
	}
	a.inFlight[key] = true
	epoch := a.clears[key]
	a.mu.Unlock()

	content, genErr := a.generate(ctx, req, gen)

	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.inFlight, key)

	sess, err = a.store.Load(ctx, key)
	if err != nil {
		return "", fmt.Errorf("load quote session: %w", err)
	}
	if a.clears[key] != epoch || sess.ProjectID != req.ProjectID {
		log.Printf("quote: session %s changed during preview for project %s, dropping response", key, req.ProjectID)
		return "", ErrSessionCleared
	}
	sess.UpdatedAt = time.Now().UTC()
	if genErr != nil {
		sess.State = QuotePreviewFailed
		sess.Content = ""
		sess.LastError = genErr.Error()
	} else {
		sess.State = QuotePreviewReady
		sess.Content = content
	}
	if err := a.store.Save(ctx, key, sess); err != nil {
		return "", fmt.Errorf("save quote session: %w", err)
	}
	if genErr != nil {
		return "", genErr
	}
	return content, nil
}

func (a *QuoteAssembler) generate(ctx context.Context, req QuotePreviewRequest, gen QuoteGenerator) (string, error) {
	wire, err := EncodeForWire(req)
	if err != nil {
		return "", err
	}
	return gen.GenerateQuote(ctx, wire)
}

// MemorySessionStore keeps sessions in process memory.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]QuoteSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]QuoteSession)}
}

func (m *MemorySessionStore) Load(_ context.Context, key string) (QuoteSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[key]
	if !ok {
		return QuoteSession{State: QuoteEmpty}, nil
	}
	return cloneSession(sess), nil
}

func (m *MemorySessionStore) Save(_ context.Context, key string, session QuoteSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = cloneSession(session)
	return nil
}

func (m *MemorySessionStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
	return nil
}

func cloneSession(s QuoteSession) QuoteSession {
	s.Labor = append([]LaborType(nil), s.Labor...)
	s.CustomItems = append([]CustomItem(nil), s.CustomItems...)
	return s
}
