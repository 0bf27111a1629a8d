// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collection manages the persistent set of papers: adding documents
// by locator, removing them by id, listing, and exporting. All mutations are
// serialized and persisted before they become visible.
package collection

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/docparse/internal/convert"
	"github.com/pdiddy/docparse/internal/export"
	"github.com/pdiddy/docparse/internal/section"
	"github.com/pdiddy/docparse/pkg/types"
)

// Collection is the in-memory view of the stored papers. It is safe for
// concurrent use. The lock is held across each mutation and its persist;
// document conversion happens outside it.
type Collection struct {
	mu    sync.Mutex
	state types.CollectionState

	store     Store
	converter convert.Converter
	now       func() time.Time
	exportDir string
}

// Option configures a Collection.
type Option func(*Collection)

// WithClock sets the time source used for added dates and export names.
func WithClock(now func() time.Time) Option {
	return func(c *Collection) { c.now = now }
}

// WithExportDir sets the directory export files are written to.
func WithExportDir(dir string) Option {
	return func(c *Collection) { c.exportDir = dir }
}

// New loads the collection from store. converter may be nil for callers
// that never Add by locator.
func New(store Store, converter convert.Converter, opts ...Option) (*Collection, error) {
	c := &Collection{
		store:     store,
		converter: converter,
		now:       time.Now,
		exportDir: ".",
	}
	for _, opt := range opts {
		opt(c)
	}

	state, err := store.Load()
	if err != nil {
		return nil, err
	}
	state.Normalize()
	c.state = state

	log.Debug().Int("papers", len(state.Papers)).Int("next_id", state.NextID).Msg("collection loaded")
	return c, nil
}

// Close closes the underlying store.
func (c *Collection) Close() error {
	return c.store.Close()
}

// Add converts the document at locator and adds it to the collection. A
// blank locator is a *types.ValidationError; conversion failures are
// *types.ConversionError and leave the collection unchanged.
func (c *Collection) Add(ctx context.Context, locator string) (types.Paper, error) {
	if err := validateLocator(locator); err != nil {
		return types.Paper{}, err
	}
	if c.converter == nil {
		return types.Paper{}, &types.ConversionError{Source: locator, Err: errors.New("no converter configured")}
	}

	text, err := c.converter.Convert(ctx, locator)
	if err != nil {
		var convErr *types.ConversionError
		if !errors.As(err, &convErr) {
			err = &types.ConversionError{Source: locator, Err: err}
		}
		log.Warn().Err(err).Str("url", locator).Msg("conversion failed")
		return types.Paper{}, err
	}
	return c.AddText(locator, text)
}

// AddText adds a paper whose normalized markdown is already known. The title
// is the first level-1 heading (or url), and the abstract is the Abstract
// section (or types.NoAbstract). If persisting fails the collection is left
// as it was and the store's *types.IOError is returned.
func (c *Collection) AddText(url, text string) (types.Paper, error) {
	if err := validateLocator(url); err != nil {
		return types.Paper{}, err
	}

	abstract, ok := section.ExtractAbstract(text)
	if !ok {
		abstract = types.NoAbstract
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := types.Paper{
		ID:        c.state.NextID,
		URL:       url,
		Title:     section.ExtractTitle(text, url),
		Abstract:  abstract,
		AddedDate: c.now(),
		FullText:  text,
	}

	next := types.CollectionState{
		Papers: append(slices.Clone(c.state.Papers), p),
		NextID: c.state.NextID + 1,
	}
	if err := c.store.Save(next); err != nil {
		log.Error().Err(err).Str("url", url).Msg("saving collection")
		return types.Paper{}, err
	}
	c.state = next

	log.Info().Int("id", p.ID).Str("url", url).Str("title", p.Title).Msg("paper added")
	return p, nil
}

// Remove deletes the paper with the given id. It reports false, with no
// error, when no such paper exists. The store is only written when a paper
// is actually removed.
func (c *Collection) Remove(id int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := types.CollectionState{
		Papers: slices.Delete(slices.Clone(c.state.Papers), i, i+1),
		NextID: c.state.NextID,
	}
	if err := c.store.Save(next); err != nil {
		log.Error().Err(err).Int("id", id).Msg("saving collection")
		return false, err
	}
	c.state = next

	log.Info().Int("id", id).Msg("paper removed")
	return true, nil
}

// List returns summaries of all papers in insertion order.
func (c *Collection) List() []types.PaperSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]types.PaperSummary, len(c.state.Papers))
	for i, p := range c.state.Papers {
		out[i] = p.Summary()
	}
	return out
}

// Get returns the full record for id.
func (c *Collection) Get(id int) (types.Paper, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(id); i >= 0 {
		return c.state.Papers[i], true
	}
	return types.Paper{}, false
}

// Len returns the number of papers.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.state.Papers)
}

// Snapshot returns a copy of the current state.
func (c *Collection) Snapshot() types.CollectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return types.CollectionState{
		Papers: slices.Clone(c.state.Papers),
		NextID: c.state.NextID,
	}
}

// Export writes the collection in format to name inside the export
// directory and returns the written path. An empty name selects
// papers_export_YYYYMMDD_HHMMSS.<ext>.
func (c *Collection) Export(format types.ExportFormat, name string) (string, error) {
	now := c.now()
	papers := c.Snapshot().Papers

	path, err := export.WriteFile(c.exportDir, name, format, papers, now)
	if err != nil {
		return "", err
	}
	log.Info().Str("path", path).Str("format", string(format)).Int("papers", len(papers)).Msg("collection exported")
	return path, nil
}

func (c *Collection) indexOf(id int) int {
	return slices.IndexFunc(c.state.Papers, func(p types.Paper) bool { return p.ID == id })
}

func validateLocator(locator string) error {
	if strings.TrimSpace(locator) == "" {
		return &types.ValidationError{Field: "url", Reason: "URL is required"}
	}
	return nil
}
