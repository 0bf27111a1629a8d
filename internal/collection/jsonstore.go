// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/docparse/pkg/types"
)

// DefaultPath is the flat-file location used when none is configured.
const DefaultPath = "papers_data.json"

// JSONStore keeps the collection in a single JSON document of the form
// {"papers": [...], "next_id": n}.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by the file at path. The file is not
// touched until Load or Save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string { return s.path }

// Load reads the backing file. A missing file yields an empty state; an
// unparseable one is logged as corrupt and also yields an empty state.
func (s *JSONStore) Load() (types.CollectionState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return types.EmptyState(), nil
	}
	if err != nil {
		return types.CollectionState{}, &types.IOError{Op: "reading", Path: s.path, Err: err}
	}

	var state types.CollectionState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Warn().
			Err(fmt.Errorf("%w: %v", types.ErrStorageCorrupt, err)).
			Str("path", s.path).
			Msg("starting with an empty collection")
		return types.EmptyState(), nil
	}
	state.Normalize()
	return state, nil
}

// Save writes state to a temporary file in the same directory and renames
// it over the backing file, so readers never observe a partial write.
func (s *JSONStore) Save(state types.CollectionState) error {
	if state.Papers == nil {
		state.Papers = []types.Paper{}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return &types.IOError{Op: "encoding", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &types.IOError{Op: "creating directory", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &types.IOError{Op: "writing", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return &types.IOError{Op: "writing", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &types.IOError{Op: "writing", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &types.IOError{Op: "replacing", Path: s.path, Err: err}
	}
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (s *JSONStore) Close() error { return nil }
