package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/colonyops/quill/internal/data/db"
)

// legacyCacheFile is the flat JSON response cache written by earlier
// releases, mapping item ID to response text.
const legacyCacheFile = "responses_cache.json"

// MigrateFromJSON imports the legacy JSON response cache into the drafts
// table if conditions are met:
// - responses_cache.json exists in the data directory
// - The drafts table is empty
// Skips the import if the table is already populated to avoid overwrites.
func MigrateFromJSON(ctx context.Context, database *db.DB, dataDir string) error {
	cachePath := filepath.Join(dataDir, legacyCacheFile)

	if _, err := os.Stat(cachePath); os.IsNotExist(err) {
		// No legacy cache to migrate
		return nil
	}

	drafts := NewDraftStore(database)

	ids, err := drafts.IDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing drafts: %w", err)
	}
	if len(ids) > 0 {
		// Table already populated, skip migration
		return nil
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		return fmt.Errorf("failed to read legacy cache: %w", err)
	}

	var cache map[string]string
	if err := json.Unmarshal(data, &cache); err != nil {
		return fmt.Errorf("failed to parse legacy cache: %w", err)
	}

	for id, response := range cache {
		if strings.TrimSpace(id) == "" || strings.TrimSpace(response) == "" {
			continue
		}
		if err := drafts.Upsert(ctx, id, response); err != nil {
			return fmt.Errorf("failed to import draft %s: %w", id, err)
		}
	}

	return nil
}
