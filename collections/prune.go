package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/tools/types"
)

// PruneQuoteSessions deletes quote sessions that have not been updated within
// ttl. Safe to call on every startup; returns the number removed.
func PruneQuoteSessions(app *pocketbase.PocketBase, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}

	col, err := app.FindCollectionByNameOrId(QuoteSessions)
	if err != nil {
		return 0, fmt.Errorf("prune: could not find %s collection: %w", QuoteSessions, err)
	}

	cutoff, err := types.ParseDateTime(time.Now().UTC().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("prune: cutoff: %w", err)
	}

	stale, err := app.FindRecordsByFilter(col, "updated < {:cutoff}", "", 0, 0,
		map[string]any{"cutoff": cutoff.String()},
	)
	if err != nil {
		return 0, fmt.Errorf("prune: could not query stale sessions: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	log.Printf("prune: removing %d quote session(s) idle for more than %s\n", len(stale), ttl)

	removed := 0
	for _, rec := range stale {
		if err := app.Delete(rec); err != nil {
			log.Printf("prune: failed to delete quote session %s: %v\n", rec.Id, err)
			continue
		}
		removed++
	}
	return removed, nil
}
