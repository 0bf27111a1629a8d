// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// NoAbstract is the sentinel stored when a document has no Abstract section.
const NoAbstract = "No abstract found"

// Paper is one record in the collection. Records are immutable after they are
// added; the only transition is deletion.
type Paper struct {
	// ID is unique within the collection and never reused.
	ID int `json:"id" yaml:"id"`

	// URL is the locator the paper was added from, as submitted.
	URL string `json:"url" yaml:"url"`

	// Title is the first level-1 heading, or URL when the document has none.
	Title string `json:"title" yaml:"title"`

	// Abstract is the body of the Abstract section, or NoAbstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// AddedDate is when the record was created.
	AddedDate time.Time `json:"added_date" yaml:"added_date"`

	// FullText is the complete normalized markdown of the document.
	FullText string `json:"markdown" yaml:"markdown"`
}

// UnmarshalJSON decodes a record, accepting added dates with or without a
// UTC offset (see ParseTimestamp).
func (p *Paper) UnmarshalJSON(data []byte) error {
	type plain Paper
	aux := struct {
		*plain
		AddedDate string `json:"added_date"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.AddedDate == "" {
		p.AddedDate = time.Time{}
		return nil
	}
	t, err := ParseTimestamp(aux.AddedDate)
	if err != nil {
		return err
	}
	p.AddedDate = t
	return nil
}

// timestampLayouts are tried in order by ParseTimestamp. The offset-free
// forms are what Python's datetime.isoformat() writes for naive times.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without a UTC offset
// are read as local time.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing timestamp %q: not ISO-8601", s)
}

// Summary projects the record without its full text.
func (p Paper) Summary() PaperSummary {
	return PaperSummary{
		ID:        p.ID,
		URL:       p.URL,
		Title:     p.Title,
		Abstract:  p.Abstract,
		AddedDate: p.AddedDate,
	}
}

// PaperSummary is the listing view of a Paper.
type PaperSummary struct {
	ID        int       `json:"id" yaml:"id"`
	URL       string    `json:"url" yaml:"url"`
	Title     string    `json:"title" yaml:"title"`
	Abstract  string    `json:"abstract" yaml:"abstract"`
	AddedDate time.Time `json:"added_date" yaml:"added_date"`
}

// CollectionState is the persisted form of the collection: the ordered
// records plus the id counter. NextID is always greater than every id ever
// assigned.
type CollectionState struct {
	Papers []Paper `json:"papers" yaml:"papers"`
	NextID int     `json:"next_id" yaml:"next_id"`
}

// EmptyState returns a collection with no papers and NextID 1.
func EmptyState() CollectionState {
	return CollectionState{Papers: []Paper{}, NextID: 1}
}

// Normalize repairs a loaded state so that NextID exceeds every stored id
// and Papers is non-nil.
func (s *CollectionState) Normalize() {
	if s.Papers == nil {
		s.Papers = []Paper{}
	}
	if s.NextID < 1 {
		s.NextID = 1
	}
	for _, p := range s.Papers {
		if p.ID >= s.NextID {
			s.NextID = p.ID + 1
		}
	}
}
