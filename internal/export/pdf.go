// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/pdiddy/docparse/internal/section"
)

// headingSizes maps heading level to font size; deeper levels use the last.
var headingSizes = []float64{18, 14, 12}

// renderPDF lays out markdown line by line: headings in bold at a size that
// shrinks with level, "---" as a horizontal rule, everything else as
// wrapped paragraphs. It does not attempt full markdown layout.
func renderPDF(w io.Writer, markdown string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Paper Collection", true)
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		switch {
		case s == "":
			pdf.Ln(3)
		case s == "---":
			left, _, right, _ := pdf.GetMargins()
			pageW, _ := pdf.GetPageSize()
			y := pdf.GetY()
			pdf.Line(left, y, pageW-right, y)
			pdf.Ln(2)
		default:
			if h, ok := section.ParseHeading(s); ok && h.Label != "" {
				size := headingSizes[len(headingSizes)-1]
				if h.Level <= len(headingSizes) {
					size = headingSizes[h.Level-1]
				}
				pdf.SetFont("Helvetica", "B", size)
				pdf.MultiCell(0, size*0.5, tr(h.Label), "", "L", false)
				pdf.SetFont("Helvetica", "", 11)
				continue
			}
			pdf.MultiCell(0, 5, tr(stripEmphasis(s)), "", "L", false)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// stripEmphasis removes the bold markers used by the report's field labels.
func stripEmphasis(s string) string {
	return strings.ReplaceAll(s, "**", "")
}
