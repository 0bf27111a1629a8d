// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns document locators (URLs, arXiv IDs, DOIs, local
// paths) into normalized, heading-annotated markdown text.
package convert

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/docparse/internal/container"
	"github.com/pdiddy/docparse/internal/httputil"
	"github.com/pdiddy/docparse/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "docparse/0.1"
	defaultMaxBytes  = 50 << 20

	acceptHeader = "text/html,application/xhtml+xml,application/pdf,text/markdown,text/plain;q=0.9,*/*;q=0.5"
)

// Converter fetches the document behind a locator and returns its markdown.
// Failures are *types.ConversionError.
type Converter interface {
	Convert(ctx context.Context, locator string) (string, error)
}

// DocumentConverter transforms raw document bytes of a known format into
// markdown. Different backends (native, markitdown) implement this
// interface.
type DocumentConverter interface {
	ConvertDocument(ctx context.Context, data []byte, format Format) (string, error)
}

// NativeConverter converts HTML, PDF, markdown, and plain text in-process.
type NativeConverter struct{}

// ConvertDocument dispatches on format.
func (NativeConverter) ConvertDocument(_ context.Context, data []byte, format Format) (string, error) {
	switch format {
	case FormatHTML:
		return HTMLToMarkdown(data)
	case FormatPDF:
		return PDFToText(data)
	case FormatMarkdown, FormatText:
		return string(data), nil
	default:
		return "", errors.New("unsupported document format")
	}
}

// Gateway resolves locators, fetches or reads the document bytes, and hands
// them to a DocumentConverter.
type Gateway struct {
	client     *http.Client
	userAgent  string
	maxRetries int
	maxBytes   int64
	docs       DocumentConverter
}

// NewGateway creates a Gateway using the HTTP settings in cfg and the given
// document backend.
func NewGateway(cfg types.HTTPConfig, docs DocumentConverter) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &Gateway{
		client:     &http.Client{Timeout: timeout},
		userAgent:  ua,
		maxRetries: cfg.MaxRetries,
		maxBytes:   maxBytes,
		docs:       docs,
	}
}

// New builds a Gateway whose document backend is selected by
// convCfg.Backend. The markitdown backend requires an operational container
// runtime with the image present.
func New(ctx context.Context, httpCfg types.HTTPConfig, convCfg types.ConversionConfig) (*Gateway, error) {
	switch convCfg.Backend {
	case types.BackendNative, "":
		return NewGateway(httpCfg, NativeConverter{}), nil
	case types.BackendMarkitdown:
		rt, err := container.Select(ctx, convCfg.Runtime)
		if err != nil {
			return nil, err
		}
		mc, err := NewMarkitdownConverter(ctx, rt, convCfg.Image)
		if err != nil {
			return nil, err
		}
		return NewGateway(httpCfg, mc), nil
	default:
		return nil, fmt.Errorf("unsupported conversion backend %q: use native or markitdown", convCfg.Backend)
	}
}

// Convert implements Converter.
func (g *Gateway) Convert(ctx context.Context, locator string) (string, error) {
	kind, normalized := Classify(locator)

	var (
		data        []byte
		contentType string
		name        string
		err         error
	)
	switch kind {
	case SourceUnknown:
		return "", conversionError(locator, fmt.Errorf("unrecognized source: expected an http(s) URL, arXiv ID, DOI, or file path"))
	case SourceFile:
		name = normalized
		data, err = os.ReadFile(normalized)
		if err != nil {
			return "", conversionError(locator, fmt.Errorf("reading file: %w", err))
		}
	default:
		fetchURL := FetchURL(kind, normalized)
		name = urlPath(fetchURL)
		log.Debug().Str("source", kind.String()).Str("url", fetchURL).Msg("fetching document")
		data, contentType, err = httputil.Get(ctx, g.client, fetchURL, g.userAgent, acceptHeader, g.maxRetries, g.maxBytes)
		if err != nil {
			return "", conversionError(locator, fmt.Errorf("fetching %s: %w", fetchURL, err))
		}
	}

	format := DetectFormat(contentType, name, data)
	if format == FormatUnknown {
		return "", conversionError(locator, fmt.Errorf("unsupported format (content type %q)", contentType))
	}

	text, err := g.docs.ConvertDocument(ctx, data, format)
	if err != nil {
		return "", conversionError(locator, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", conversionError(locator, errors.New("document produced no text"))
	}

	log.Debug().Str("source", locator).Str("format", string(format)).Int("chars", len(text)).Msg("converted document")
	return text, nil
}

func conversionError(source string, err error) error {
	return &types.ConversionError{Source: source, Err: err}
}

func urlPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Path
}
