// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"mime"
	"net/http"
	"path"
	"strings"
)

// Format is the detected content format of a fetched document.
type Format string

const (
	FormatUnknown  Format = ""
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

var pdfMagic = []byte("%PDF-")

// DetectFormat picks the document format from the Content-Type header, then
// the file extension of name, then the leading bytes of data.
func DetectFormat(contentType, name string, data []byte) Format {
	if f := formatFromMediaType(contentType); f != FormatUnknown {
		return f
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	case ".pdf":
		return FormatPDF
	case ".md", ".markdown":
		return FormatMarkdown
	case ".txt":
		return FormatText
	}

	if bytes.HasPrefix(data, pdfMagic) {
		return FormatPDF
	}
	if len(data) == 0 {
		return FormatUnknown
	}
	return formatFromMediaType(http.DetectContentType(data))
}

func formatFromMediaType(contentType string) Format {
	if contentType == "" {
		return FormatUnknown
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	switch mt {
	case "text/html", "application/xhtml+xml":
		return FormatHTML
	case "application/pdf", "application/x-pdf":
		return FormatPDF
	case "text/markdown", "text/x-markdown":
		return FormatMarkdown
	case "text/plain":
		return FormatText
	}
	return FormatUnknown
}
