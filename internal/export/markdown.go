// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/docparse/pkg/types"
)

const exportedLayout = "2006-01-02 15:04:05"

// MarkdownReport renders the collection report: a header with the export
// time and paper count, then one block per paper in collection order.
func MarkdownReport(papers []types.Paper, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Paper Collection\n\n")
	fmt.Fprintf(&b, "Exported: %s\n\n", now.Format(exportedLayout))
	fmt.Fprintf(&b, "Total papers: %d\n\n", len(papers))
	b.WriteString("---\n\n")

	for i, p := range papers {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, p.Title)
		fmt.Fprintf(&b, "**URL:** %s\n\n", p.URL)
		fmt.Fprintf(&b, "**Added:** %s\n\n", p.AddedDate.Format(time.RFC3339))
		b.WriteString("### Abstract\n\n")
		fmt.Fprintf(&b, "%s\n\n", p.Abstract)
		b.WriteString("---\n\n")
	}
	return b.String()
}
