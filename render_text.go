// render_text.go - plain-text output adapter
//
// Shape grounded on spec.md §6: "Sub Directories" section, then
// "Summaries" section with a trailing Total line. Human-readable sizing
// (-h) uses code.cloudfoundry.org/bytefmt, pulled in from the
// direktiv-vorteil example's go.mod for exactly this purpose.
package dug

import (
	"fmt"
	"strings"

	"code.cloudfoundry.org/bytefmt"
)

const ownerColumnWidth = 24

// RenderText writes tree as the two-section plain-text report described
// in spec.md §6. human selects -h formatting; owner/names resolve owner
// keys the same way RenderJSON does.
func RenderText(tree *ResultTree, human bool, owner OwnerMode, names *NameCache) string {
	var b strings.Builder

	if tree.Failed {
		for _, e := range tree.Errors {
			fmt.Fprintf(&b, "error: %s\n", e)
		}
		return b.String()
	}

	if len(tree.Errors) > 0 {
		b.WriteString("Errors\n")
		for _, e := range tree.Errors {
			fmt.Fprintf(&b, "  %s\n", e)
		}
		b.WriteString("\n")
	}

	b.WriteString("Sub Directories\n")
	for _, sd := range tree.Subdirs {
		fmt.Fprintf(&b, "%s\n", sd.Path)
		writeTextPairs(&b, sd.Pairs, human, owner, names)
	}

	b.WriteString("\nSummaries\n")
	writeTextPairs(&b, tree.Summary.Pairs, human, owner, names)
	fmt.Fprintf(&b, "%*s  %s\n", ownerColumnWidth, "Total", formatSize(tree.Total(), human))

	return b.String()
}

func writeTextPairs(b *strings.Builder, pairs []Pair, human bool, owner OwnerMode, names *NameCache) {
	for _, p := range pairs {
		fmt.Fprintf(b, "%*s  %s\n", ownerColumnWidth, ownerKey(p.Owner, owner, names), formatSize(p.Bytes, human))
	}
}

func formatSize(n uint64, human bool) string {
	if human {
		return bytefmt.ByteSize(n)
	}
	return fmt.Sprintf("%d", n)
}
