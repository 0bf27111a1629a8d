// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// SourceKind classifies a document locator.
type SourceKind int

const (
	SourceUnknown SourceKind = iota
	SourceArxiv
	SourceDOI
	SourceURL
	SourceFile
)

func (k SourceKind) String() string {
	switch k {
	case SourceArxiv:
		return "arxiv"
	case SourceDOI:
		return "doi"
	case SourceURL:
		return "url"
	case SourceFile:
		return "file"
	default:
		return "unknown"
	}
}

// Base URLs for identifier resolution. Declared as vars so tests can
// substitute httptest servers.
var (
	arxivPDFBase = "https://arxiv.org/pdf/"
	doiBase      = "https://doi.org/"
)

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// doiPattern matches DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// Classify determines the locator kind and returns its normalized form.
// arXiv IDs lose their "arXiv:" prefix, file:// URLs become local paths,
// and anything that is not an identifier or http(s) URL is treated as a
// local path.
func Classify(locator string) (SourceKind, string) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return SourceUnknown, ""
	}

	if m := arxivPattern.FindStringSubmatch(locator); m != nil {
		return SourceArxiv, m[1]
	}

	if doiPattern.MatchString(locator) {
		return SourceDOI, locator
	}

	if u, err := url.Parse(locator); err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			if u.Host == "" {
				return SourceUnknown, locator
			}
			return SourceURL, locator
		case "file":
			return SourceFile, filepath.FromSlash(u.Path)
		}
		// Windows drive letters parse as a one-letter scheme.
		if len(u.Scheme) > 1 {
			return SourceUnknown, locator
		}
	}

	return SourceFile, locator
}

// FetchURL returns the download URL for a remote locator: the arxiv.org PDF
// endpoint for arXiv IDs, the doi.org resolver for DOIs (the HTTP client
// follows redirects), and the URL itself otherwise. Local and unknown
// sources have no URL.
func FetchURL(kind SourceKind, normalized string) string {
	switch kind {
	case SourceArxiv:
		return arxivPDFBase + normalized
	case SourceDOI:
		return doiBase + normalized
	case SourceURL:
		return normalized
	default:
		return ""
	}
}
