// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"fmt"

	"github.com/pdiddy/docparse/pkg/types"
)

// Store persists the collection state. Load returns an empty state with
// NextID 1 when nothing has been saved yet, and also when the saved state
// cannot be parsed (the corruption is logged, not returned). Save failures
// are *types.IOError.
type Store interface {
	Load() (types.CollectionState, error)
	Save(state types.CollectionState) error
	Close() error
}

// NewStore opens the store selected by cfg.Backend at cfg.Path.
func NewStore(cfg types.StoreConfig) (Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	switch cfg.Backend {
	case types.StoreJSON, "":
		return NewJSONStore(path), nil
	case types.StoreSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unsupported store backend %q: use json or sqlite", cfg.Backend)
	}
}
