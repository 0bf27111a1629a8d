// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2026-01-02T15:04:05Z", time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), false},
		{"2026-01-02T15:04:05.5+02:00", time.Date(2026, 1, 2, 13, 4, 5, 500000000, time.UTC), false},
		{"2025-01-15T10:30:00.123456", time.Date(2025, 1, 15, 10, 30, 0, 123456000, time.Local), false},
		{"2025-01-15T10:30:00", time.Date(2025, 1, 15, 10, 30, 0, 0, time.Local), false},
		{"2025-01-15 10:30:00.123456", time.Date(2025, 1, 15, 10, 30, 0, 123456000, time.Local), false},
		{"yesterday", time.Time{}, true},
		{"2025-01-15", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestPaperUnmarshalJSON(t *testing.T) {
	var p Paper
	err := json.Unmarshal([]byte(`{
		"id": 3,
		"url": "https://example.org/a",
		"title": "A",
		"abstract": "abs",
		"added_date": "2025-01-15T10:30:00.123456",
		"markdown": "# A"
	}`), &p)
	require.NoError(t, err)
	assert.Equal(t, 3, p.ID)
	assert.Equal(t, "https://example.org/a", p.URL)
	assert.Equal(t, "# A", p.FullText)
	assert.True(t, time.Date(2025, 1, 15, 10, 30, 0, 123456000, time.Local).Equal(p.AddedDate))

	var missing Paper
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"url":"u"}`), &missing))
	assert.True(t, missing.AddedDate.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"id":1,"added_date":"soon"}`), &Paper{}))
}

func TestPaperJSONRoundTrip(t *testing.T) {
	want := Paper{ID: 1, URL: "u", Title: "T", Abstract: NoAbstract, AddedDate: time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC), FullText: "x"}
	data, err := json.Marshal(want)
	require.NoError(t, err)

	var got Paper
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, want.AddedDate.Equal(got.AddedDate))
	got.AddedDate = want.AddedDate
	assert.Equal(t, want, got)
}
