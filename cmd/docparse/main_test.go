// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docparse/pkg/types"
)

func TestLoadConfig_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, types.StoreJSON, cfg.Store.Backend)
	assert.Equal(t, "papers_data.json", cfg.Store.Path)
	assert.Equal(t, 60*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, int64(50<<20), cfg.Fetch.MaxBytes)
	assert.False(t, cfg.Server.AllowFiles)
	assert.Equal(t, types.BackendNative, cfg.Convert.Backend)
	assert.Equal(t, "auto", cfg.Convert.Runtime)
	assert.Equal(t, types.ExportMarkdown, cfg.Export.Format)
	assert.Equal(t, ".", cfg.Export.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("DOCPARSE_STORE_BACKEND", "sqlite")
	t.Setenv("DOCPARSE_FETCH_TIMEOUT", "5s")
	t.Setenv("DOCPARSE_SERVER_ADDR", "127.0.0.1:8080")
	t.Setenv("DOCPARSE_SERVER_ALLOW_FILES", "true")
	t.Setenv("DOCPARSE_FETCH_MAX_BYTES", "1024")

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("DOCPARSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, types.StoreSQLite, cfg.Store.Backend)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.True(t, cfg.Server.AllowFiles)
	assert.Equal(t, int64(1024), cfg.Fetch.MaxBytes)
}

func TestSetupLogging(t *testing.T) {
	orig, origLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = orig
		zerolog.SetGlobalLevel(origLevel)
	})

	require.NoError(t, setupLogging("warn", "json", false))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	require.NoError(t, setupLogging("warn", "console", true))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	require.NoError(t, setupLogging("", "", false))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	assert.Error(t, setupLogging("loud", "console", false))
	assert.Error(t, setupLogging("info", "xml", false))
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"1", "42"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 42}, ids)

	_, err = parseIDs([]string{"1", "abc"})
	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "id", vErr.Field)
}

func TestPrintSummaries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSummaries(&buf, nil, false))
	assert.Equal(t, "No papers in the collection.\n", buf.String())

	papers := []types.PaperSummary{{
		ID: 7, URL: "https://example.org/a", Title: "A Paper",
		AddedDate: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
	}}

	buf.Reset()
	require.NoError(t, printSummaries(&buf, papers, false))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "2026-02-03")
	assert.Contains(t, lines[1], "A Paper")

	buf.Reset()
	require.NoError(t, printSummaries(&buf, papers, true))
	assert.Contains(t, buf.String(), `"title": "A Paper"`)
}

// fakeAdder implements adder for testing.
type fakeAdder struct {
	mu     sync.Mutex
	next   int
	active int
	peak   int
}

func (f *fakeAdder) Add(_ context.Context, locator string) (types.Paper, error) {
	f.mu.Lock()
	f.active++
	if f.active > f.peak {
		f.peak = f.active
	}
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.active--
	if strings.HasPrefix(locator, "bad") {
		return types.Paper{}, &types.ConversionError{Source: locator, Err: errors.New("boom")}
	}
	f.next++
	return types.Paper{ID: f.next, URL: locator, Title: locator, Abstract: "x"}, nil
}

func TestAddAll(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &fakeAdder{}

	failed := addAll(context.Background(), f, []string{"a", "bad1", "b", "c", "bad2", "d"}, 2, &out, &errOut)
	assert.Equal(t, 2, failed)
	assert.Equal(t, 4, strings.Count(out.String(), "\n"))
	assert.Contains(t, errOut.String(), "failed: bad1")
	assert.Contains(t, errOut.String(), "failed: bad2")
	assert.LessOrEqual(t, f.peak, 2)
}

func TestReadInput(t *testing.T) {
	text, err := readInput(strings.NewReader("# T\n"), "-")
	require.NoError(t, err)
	assert.Equal(t, "# T\n", text)

	_, err = readInput(nil, "/does/not/exist.md")
	assert.Error(t, err)
}

// recordingPapers implements server.Papers and records export formats.
type recordingPapers struct {
	formats []types.ExportFormat
}

func (r *recordingPapers) Add(context.Context, string) (types.Paper, error) { return types.Paper{}, nil }
func (r *recordingPapers) Remove(int) (bool, error) { return false, nil }
func (r *recordingPapers) List() []types.PaperSummary { return nil }
func (r *recordingPapers) Get(int) (types.Paper, bool) { return types.Paper{}, false }
func (r *recordingPapers) Len() int { return 0 }

func (r *recordingPapers) Export(format types.ExportFormat, _ string) (string, error) {
	r.formats = append(r.formats, format)
	return "out." + string(format), nil
}

func TestNewServer_ExportFormat(t *testing.T) {
	tests := []struct {
		configured string
		want       types.ExportFormat
	}{
		{"md", types.ExportMarkdown},
		{"Markdown", types.ExportMarkdown},
		{"yml", types.ExportYAML},
		{"JSON", types.ExportJSON},
		{"", types.ExportMarkdown},
	}
	for _, tt := range tests {
		t.Run(tt.configured, func(t *testing.T) {
			papers := &recordingPapers{}
			srv, err := newServer(papers, types.ServerConfig{Mode: "test"}, types.ExportFormat(tt.configured))
			require.NoError(t, err)

			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/export", nil))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, []types.ExportFormat{tt.want}, papers.formats)
		})
	}

	_, err := newServer(&recordingPapers{}, types.ServerConfig{Mode: "test"}, "docx")
	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, err.Error(), "export.format")
}
