// Package sessionstore persists quote sessions outside process memory: in a
// PocketBase collection or in Redis.
package sessionstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"quotebuilder/collections"
	"quotebuilder/services"
)

// RecordStore keeps one quote_sessions record per session key.
type RecordStore struct {
	app *pocketbase.PocketBase
}

func NewRecordStore(app *pocketbase.PocketBase) *RecordStore {
	return &RecordStore{app: app}
}

func (s *RecordStore) find(key string) (*core.Record, error) {
	rec, err := s.app.FindFirstRecordByData(collections.QuoteSessions, "session_key", key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find quote session: %w", err)
	}
	return rec, nil
}

func (s *RecordStore) Load(_ context.Context, key string) (services.QuoteSession, error) {
	rec, err := s.find(key)
	if err != nil {
		return services.QuoteSession{}, err
	}
	if rec == nil {
		return services.QuoteSession{State: services.QuoteEmpty}, nil
	}

	var sess services.QuoteSession
	if err := rec.UnmarshalJSONField("data", &sess); err != nil {
		return services.QuoteSession{}, fmt.Errorf("decode quote session %s: %w", key, err)
	}
	if sess.State == "" {
		sess.State = services.QuoteEmpty
	}
	return sess, nil
}

func (s *RecordStore) Save(_ context.Context, key string, session services.QuoteSession) error {
	rec, err := s.find(key)
	if err != nil {
		return err
	}
	if rec == nil {
		col, err := s.app.FindCollectionByNameOrId(collections.QuoteSessions)
		if err != nil {
			return fmt.Errorf("find %s collection: %w", collections.QuoteSessions, err)
		}
		rec = core.NewRecord(col)
		rec.Set("session_key", key)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode quote session: %w", err)
	}
	rec.Set("project_id", session.ProjectID)
	rec.Set("state", string(session.State))
	rec.Set("data", types.JSONRaw(data))

	if err := s.app.Save(rec); err != nil {
		return fmt.Errorf("save quote session: %w", err)
	}
	return nil
}

func (s *RecordStore) Clear(_ context.Context, key string) error {
	rec, err := s.find(key)
	if err != nil || rec == nil {
		return err
	}
	if err := s.app.Delete(rec); err != nil {
		return fmt.Errorf("delete quote session: %w", err)
	}
	return nil
}
