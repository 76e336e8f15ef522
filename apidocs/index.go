package apidocs

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// IndexEntry is one line of the navigation index.
type IndexEntry struct {
	URI  string
	Link string
}

// IndexEntries pairs each resource URI with a link under prefix.
func IndexEntries(prefix string, uris []string) []IndexEntry {
	prefix = strings.TrimSuffix(prefix, "/")
	entries := make([]IndexEntry, 0, len(uris))
	for _, uri := range uris {
		entries = append(entries, IndexEntry{URI: uri, Link: prefix + uri})
	}
	return entries
}

// BuildIndex renders entries as a navigation list, sorted by URI. The entry
// matching current is marked with class "current". No entries yield "".
func BuildIndex(entries []IndexEntry, current string) string {
	if len(entries) == 0 {
		return ""
	}
	sorted := append([]IndexEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].URI < sorted[j].URI
	})

	var buf strings.Builder
	buf.WriteString("<ul class=\"index\">\n")
	for _, e := range sorted {
		class := ""
		if e.URI == current {
			class = ` class="current"`
		}
		fmt.Fprintf(&buf, " <li%s><a href=\"%s\">%s</a></li>\n",
			class, html.EscapeString(e.Link), html.EscapeString(e.URI))
	}
	buf.WriteString("</ul>")
	return buf.String()
}
