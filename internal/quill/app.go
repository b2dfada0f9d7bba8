// Package quill wires the application services consumed by the CLI commands
// and the TUI.
package quill

import (
	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/data/db"
	"github.com/colonyops/quill/internal/data/stores"
)

// App is the central entry point for all quill operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Feed      *FeedService
	Responder *Responder

	Config  *config.Config
	DB      *db.DB
	KV      *stores.KVStore
	Version string
}

// NewApp constructs an App from explicit dependencies.
func NewApp(
	feed *FeedService,
	responder *Responder,
	cfg *config.Config,
	database *db.DB,
	kvStore *stores.KVStore,
	version string,
) *App {
	return &App{
		Feed:      feed,
		Responder: responder,
		Config:    cfg,
		DB:        database,
		KV:        kvStore,
		Version:   version,
	}
}
