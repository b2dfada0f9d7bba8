package stores

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/quill/internal/core/draft"
	"github.com/colonyops/quill/internal/data/db"
)

// DraftStore implements draft.Store using SQLite.
type DraftStore struct {
	db *db.DB
}

var _ draft.Store = (*DraftStore)(nil)

// NewDraftStore creates a new SQLite-backed draft store.
func NewDraftStore(db *db.DB) *DraftStore {
	return &DraftStore{db: db}
}

// Upsert creates or replaces the draft for an item.
func (s *DraftStore) Upsert(ctx context.Context, itemID, response string) error {
	now := time.Now().UnixNano()
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO drafts (item_id, response, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET
			response   = excluded.response,
			updated_at = excluded.updated_at`,
		itemID, response, now, now,
	)
	if err != nil {
		return fmt.Errorf("draft upsert %q: %w", itemID, err)
	}
	return nil
}

// Get returns the stored draft for an item.
// Returns an error wrapping sql.ErrNoRows if no draft exists.
func (s *DraftStore) Get(ctx context.Context, itemID string) (string, error) {
	var response string
	err := s.db.Conn().QueryRowContext(ctx,
		"SELECT response FROM drafts WHERE item_id = ?", itemID,
	).Scan(&response)
	if err != nil {
		return "", fmt.Errorf("draft get %q: %w", itemID, err)
	}
	return response, nil
}

// Delete removes the draft for an item.
func (s *DraftStore) Delete(ctx context.Context, itemID string) error {
	if _, err := s.db.Conn().ExecContext(ctx, "DELETE FROM drafts WHERE item_id = ?", itemID); err != nil {
		return fmt.Errorf("draft delete %q: %w", itemID, err)
	}
	return nil
}

// IDs returns all item IDs that have a stored draft, in sorted order.
func (s *DraftStore) IDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Conn().QueryContext(ctx, "SELECT item_id FROM drafts ORDER BY item_id")
	if err != nil {
		return nil, fmt.Errorf("draft ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("draft ids scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// All returns every stored draft keyed by item ID.
func (s *DraftStore) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.Conn().QueryContext(ctx, "SELECT item_id, response FROM drafts")
	if err != nil {
		return nil, fmt.Errorf("draft all: %w", err)
	}
	defer func() { _ = rows.Close() }()

	all := make(map[string]string)
	for rows.Next() {
		var id, response string
		if err := rows.Scan(&id, &response); err != nil {
			return nil, fmt.Errorf("draft all scan: %w", err)
		}
		all[id] = response
	}
	return all, rows.Err()
}

// PruneExcept deletes all drafts whose item ID is not in keep and returns
// the number of rows removed. An empty keep list clears the table.
func (s *DraftStore) PruneExcept(ctx context.Context, keep []string) (int64, error) {
	var (
		res sql.Result
		err error
	)

	if len(keep) == 0 {
		res, err = s.db.Conn().ExecContext(ctx, "DELETE FROM drafts")
	} else {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keep)), ", ")
		args := make([]any, len(keep))
		for i, id := range keep {
			args[i] = id
		}
		res, err = s.db.Conn().ExecContext(ctx,
			"DELETE FROM drafts WHERE item_id NOT IN ("+placeholders+")", args...,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("draft prune: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("draft prune rows: %w", err)
	}
	return removed, nil
}
