// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docparse/pkg/types"
)

func sampleState() types.CollectionState {
	return types.CollectionState{
		Papers: []types.Paper{
			{ID: 1, URL: "https://example.org/a", Title: "A", Abstract: "abs", AddedDate: fixedTime, FullText: "# A\n\n## Abstract\n\nabs"},
			{ID: 4, URL: "b.md", Title: "b.md", Abstract: types.NoAbstract, AddedDate: fixedTime.Add(time.Minute), FullText: "text"},
		},
		NextID: 5,
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })
	return &buf
}

func TestStores_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		open func(t *testing.T, path string) Store
	}{
		{"json", func(t *testing.T, path string) Store { return NewJSONStore(path) }},
		{"sqlite", func(t *testing.T, path string) Store {
			s, err := NewSQLiteStore(path)
			require.NoError(t, err)
			return s
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "papers."+tt.name)

			s := tt.open(t, path)
			empty, err := s.Load()
			require.NoError(t, err)
			assert.Equal(t, types.EmptyState(), empty)

			want := sampleState()
			require.NoError(t, s.Save(want))
			require.NoError(t, s.Close())

			s = tt.open(t, path)
			defer s.Close()
			got, err := s.Load()
			require.NoError(t, err)
			assert.Equal(t, want.NextID, got.NextID)
			require.Len(t, got.Papers, len(want.Papers))
			for i := range want.Papers {
				assert.Equal(t, want.Papers[i].ID, got.Papers[i].ID)
				assert.Equal(t, want.Papers[i].FullText, got.Papers[i].FullText)
				assert.True(t, want.Papers[i].AddedDate.Equal(got.Papers[i].AddedDate))
			}

			require.NoError(t, s.Save(types.CollectionState{Papers: want.Papers[1:], NextID: 5}))
			got, err = s.Load()
			require.NoError(t, err)
			require.Len(t, got.Papers, 1)
			assert.Equal(t, 4, got.Papers[0].ID)
			assert.Equal(t, 5, got.NextID)
		})
	}
}

func TestJSONStore_Layout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers_data.json")
	require.NoError(t, NewJSONStore(path).Save(sampleState()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"papers\": [")
	assert.Contains(t, string(data), "\"next_id\": 5")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	first := raw["papers"].([]any)[0].(map[string]any)
	for _, key := range []string{"id", "url", "title", "abstract", "added_date", "markdown"} {
		assert.Contains(t, first, key)
	}
	assert.Equal(t, "2026-03-04T05:06:07Z", first["added_date"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestJSONStore_EmptyStateWritesEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers_data.json")
	require.NoError(t, NewJSONStore(path).Save(types.CollectionState{NextID: 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"papers": [], "next_id": 1}`, string(data))
}

func TestJSONStore_CorruptFile(t *testing.T) {
	buf := captureLog(t)
	path := filepath.Join(t.TempDir(), "papers_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	state, err := NewJSONStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, types.EmptyState(), state)
	assert.Contains(t, buf.String(), "stored collection is corrupt")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestJSONStore_RepairsNextID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"papers":[{"id":9,"url":"x"}]}`), 0o644))

	state, err := NewJSONStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 10, state.NextID)
}

func TestJSONStore_LoadsOffsetFreeTimestamps(t *testing.T) {
	buf := captureLog(t)
	path := filepath.Join(t.TempDir(), "papers_data.json")
	legacy := `{
  "papers": [
    {"id": 1, "url": "https://example.org/a", "title": "A", "abstract": "abs",
     "added_date": "2025-01-15T10:30:00.123456", "markdown": "# A"},
    {"id": 3, "url": "https://example.org/b", "title": "B", "abstract": "No abstract found",
     "added_date": "2025-01-16T08:00:00", "markdown": "# B"}
  ],
  "next_id": 4
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s := NewJSONStore(path)
	state, err := s.Load()
	require.NoError(t, err)
	require.Len(t, state.Papers, 2)
	assert.Equal(t, 4, state.NextID)
	assert.True(t, time.Date(2025, 1, 15, 10, 30, 0, 123456000, time.Local).Equal(state.Papers[0].AddedDate))
	assert.NotContains(t, buf.String(), "corrupt")

	// A collection opened on the file keeps numbering after the stored ids.
	c, err := New(s, nil)
	require.NoError(t, err)
	p, err := c.AddText("https://example.org/c", "# C")
	require.NoError(t, err)
	assert.Equal(t, 4, p.ID)

	reloaded, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, reloaded.Papers, 3)
}

func TestSQLiteStore_LoadsOffsetFreeTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec(`INSERT INTO papers (id, position, url, title, abstract, added_date, markdown)
		VALUES (2, 0, 'u', 't', 'a', '2025-01-15T10:30:00.123456', 'm')`)
	require.NoError(t, err)

	state, err := s.Load()
	require.NoError(t, err)
	require.Len(t, state.Papers, 1)
	assert.Equal(t, 3, state.NextID)
	assert.True(t, time.Date(2025, 1, 15, 10, 30, 0, 123456000, time.Local).Equal(state.Papers[0].AddedDate))
}

func TestJSONStore_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := NewJSONStore(filepath.Join(blocker, "papers.json")).Save(sampleState())
	var ioErr *types.IOError
	require.ErrorAs(t, err, &ioErr)
}

func TestSQLiteStore_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.db")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("garbage "), 200), 0o644))

	_, err := NewSQLiteStore(path)
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStore(types.StoreConfig{Path: filepath.Join(dir, "p.json")})
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, s)

	s, err = NewStore(types.StoreConfig{Backend: types.StoreSQLite, Path: filepath.Join(dir, "p.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = NewStore(types.StoreConfig{Backend: "mongo"})
	assert.Error(t, err)
}
