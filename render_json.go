// render_json.go - JSON output adapter
//
// Shape grounded on the reference output_json (original_source/
// dug_fts_mt.c): errors array, subdirs map, summary map, grand total (or,
// on failure, {"failure": true, "errors": [...]}) -- spec.md §6.
package dug

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderJSON writes tree as the success or failure JSON shape described
// in spec.md §6. names resolves owner ids to display strings (decimal if
// nil or lookup fails).
func RenderJSON(tree *ResultTree, owner OwnerMode, names *NameCache) string {
	var b strings.Builder

	if tree.Failed {
		b.WriteString("{\"failure\": true, \"errors\": [")
		writeJSONStrings(&b, tree.Errors)
		b.WriteString("]}\n")
		return b.String()
	}

	b.WriteString("{\n  \"errors\": [\n")
	for i, e := range tree.Errors {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "    %s", jsonQuote(e))
	}
	b.WriteString("\n  ],\n  \"subdirs\": {\n")

	for i, sd := range tree.Subdirs {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "    %s: {\n", jsonQuote(sd.Path))
		writePairs(&b, sd.Pairs, owner, names, "      ")
		b.WriteString("\n    }")
	}
	b.WriteString("\n  },\n  \"summary\": {\n")
	writePairs(&b, tree.Summary.Pairs, owner, names, "    ")
	fmt.Fprintf(&b, "\n  },\n  \"total\": %d\n}\n", tree.Total())

	return b.String()
}

func writePairs(b *strings.Builder, pairs []Pair, owner OwnerMode, names *NameCache, indent string) {
	for i, p := range pairs {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(b, "%s%s: %d", indent, jsonQuote(ownerKey(p.Owner, owner, names)), p.Bytes)
	}
}

func writeJSONStrings(b *strings.Builder, ss []string) {
	for i, s := range ss {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(jsonQuote(s))
	}
}

// ownerKey renders an owner id as a display string: its resolved name
// under -n, or the decimal id otherwise.
func ownerKey(owner uint32, mode OwnerMode, names *NameCache) string {
	if names == nil {
		return strconv.FormatUint(uint64(owner), 10)
	}
	return names.Resolve(owner, mode)
}

// jsonQuote wraps s in double quotes after applying jsonEscape. It does
// not use fmt's %q verb, which implements Go string-literal escaping
// (every control character, all non-ASCII) rather than the spec's
// deliberately minimal rule.
func jsonQuote(s string) string {
	return "\"" + jsonEscape(s) + "\""
}

// jsonEscape implements spec.md §6's minimum escaping rule: backslash
// doubled, CR/LF/BS replaced with "_"; no other characters are escaped.
func jsonEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\r', '\n':
			b.WriteByte('_')
		case 0x08: // backspace
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
