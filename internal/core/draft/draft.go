// Package draft defines the persisted response cache contract. One draft per
// marketplace item, keyed by the item ID, holding the last generated or
// operator-selected response text.
package draft

import "context"

// Store persists response drafts keyed by marketplace item ID.
// Get on a missing item returns an error wrapping sql.ErrNoRows.
type Store interface {
	Upsert(ctx context.Context, itemID, response string) error
	Get(ctx context.Context, itemID string) (string, error)
	Delete(ctx context.Context, itemID string) error
	IDs(ctx context.Context) ([]string, error)
	All(ctx context.Context) (map[string]string, error)
	PruneExcept(ctx context.Context, keep []string) (int64, error)
}
