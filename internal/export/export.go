// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes the paper collection to a file as a markdown report,
// YAML or JSON summaries, or a PDF rendering of the report.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docparse/pkg/types"
)

// namePrefix and nameLayout form the default export file name,
// e.g. papers_export_20260102_150405.md.
const (
	namePrefix = "papers_export_"
	nameLayout = "20060102_150405"
)

// ParseFormat maps a user-supplied format name to an ExportFormat. The empty
// string selects markdown; "md" and "yml" are accepted as aliases.
func ParseFormat(s string) (types.ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return types.ExportMarkdown, nil
	case "yaml", "yml":
		return types.ExportYAML, nil
	case "json":
		return types.ExportJSON, nil
	case "pdf":
		return types.ExportPDF, nil
	default:
		return "", &types.ValidationError{Field: "format", Reason: fmt.Sprintf("unsupported export format %q", s)}
	}
}

// Extension returns the file extension, without the dot, for format.
func Extension(format types.ExportFormat) string {
	switch format {
	case types.ExportYAML:
		return "yaml"
	case types.ExportJSON:
		return "json"
	case types.ExportPDF:
		return "pdf"
	default:
		return "md"
	}
}

// DefaultName returns papers_export_YYYYMMDD_HHMMSS.<ext> for now.
func DefaultName(format types.ExportFormat, now time.Time) string {
	return namePrefix + now.Format(nameLayout) + "." + Extension(format)
}

// Document is the structured form written by the YAML and JSON formats.
type Document struct {
	ExportedAt time.Time            `json:"exported_at" yaml:"exported_at"`
	Total      int                  `json:"total" yaml:"total"`
	Papers     []types.PaperSummary `json:"papers" yaml:"papers"`
}

// Write renders papers in format to w. now is the export timestamp shown in
// the output.
func Write(w io.Writer, format types.ExportFormat, papers []types.Paper, now time.Time) error {
	switch format {
	case types.ExportMarkdown, "":
		_, err := io.WriteString(w, MarkdownReport(papers, now))
		return err
	case types.ExportYAML:
		data, err := yaml.Marshal(newDocument(papers, now))
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case types.ExportJSON:
		data, err := json.MarshalIndent(newDocument(papers, now), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case types.ExportPDF:
		return renderPDF(w, MarkdownReport(papers, now))
	default:
		return &types.ValidationError{Field: "format", Reason: fmt.Sprintf("unsupported export format %q", format)}
	}
}

// WriteFile renders papers into dir/name and returns the written path. An
// empty name selects DefaultName. The file is only created once rendering
// has succeeded; write failures are *types.IOError.
func WriteFile(dir, name string, format types.ExportFormat, papers []types.Paper, now time.Time) (string, error) {
	if name == "" {
		name = DefaultName(format, now)
	}
	path := name
	if dir != "" && !filepath.IsAbs(name) {
		path = filepath.Join(dir, name)
	}

	var buf bytes.Buffer
	if err := Write(&buf, format, papers, now); err != nil {
		return "", err
	}

	if d := filepath.Dir(path); d != "." {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return "", &types.IOError{Op: "creating directory", Path: d, Err: err}
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", &types.IOError{Op: "writing export", Path: path, Err: err}
	}
	return path, nil
}

func newDocument(papers []types.Paper, now time.Time) Document {
	summaries := make([]types.PaperSummary, len(papers))
	for i, p := range papers {
		summaries[i] = p.Summary()
	}
	return Document{ExportedAt: now, Total: len(papers), Papers: summaries}
}
