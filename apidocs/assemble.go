package apidocs

import (
	"fmt"
	"html"
	"strings"

	"github.com/agentflare-ai/go-restdoc/resource"
	"github.com/agentflare-ai/go-restdoc/routepattern"
)

// VerbContent is the raw material for one verb of a resource.
type VerbContent struct {
	Verb resource.Verb
	// Comment is the markdown body of the handler's structured comment.
	Comment string
	Pattern routepattern.Pattern
}

// Inputs is everything Assemble needs. Empty strings mean absent fragments.
type Inputs struct {
	URI       string
	Verbs     []VerbContent
	Summary   string
	Footnotes string
	Page      string
}

const singleEntrypointHTML = `<h2>%s</h2>
<dl id="entrypoints" class="single-entrypoint">
 <dt>%s</dt>
 <dd>%s</dd>
</dl>`

const multipleEntrypointsHTML = `<h2>%s</h2>
<dl id="entrypoints" class="multiple-entrypoints">
%s
</dl>`

const verbDocsHTML = `<h2>%s</h2>
<dl id="verbs">
%s
</dl>`

type verbEntry struct {
	verb       string
	entrypoint string
	html       string
}

// Assemble renders in into a Bundle. It performs no I/O.
func (a *Assembler) Assemble(in Inputs) *Bundle {
	entries := make([]verbEntry, 0, len(in.Verbs))
	for _, v := range in.Verbs {
		entries = append(entries, verbEntry{
			verb:       html.EscapeString(string(v.Verb)),
			entrypoint: html.EscapeString(v.Pattern.String()),
			html:       a.renderer.Render(v.Comment),
		})
	}

	b := &Bundle{
		uri:         in.URI,
		entrypoints: a.entrypoints(in.URI, entries),
		verbDocs:    a.verbDocs(entries),
		page:        a.renderer.Render(in.Page),
		localizer:   a.localizer,
	}
	if s := a.renderer.Render(in.Summary); s != "" {
		b.summary = fmt.Sprintf(`<div id="summary"><h2>%s</h2>%s</div>`, a.label(LabelSummary), s)
	}
	if f := a.renderer.Render(in.Footnotes); f != "" {
		b.footnotes = fmt.Sprintf(`<div id="footnotes">%s</div>`, f)
	}
	return b
}

func (a *Assembler) entrypoints(uri string, entries []verbEntry) string {
	if sharedEntrypoint(entries) {
		label := a.label(LabelAllVerbs)
		if len(entries) == 1 {
			label = entries[0].verb
		}
		pattern := html.EscapeString(uri)
		if len(entries) > 0 {
			pattern = entries[0].entrypoint
		}
		return fmt.Sprintf(singleEntrypointHTML, a.label(LabelEntrypoint), label, pattern)
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf(" <dt>%s</dt><dd>%s</dd>", e.verb, e.entrypoint))
	}
	return fmt.Sprintf(multipleEntrypointsHTML, a.label(LabelEntrypoints), strings.Join(lines, "\n"))
}

func (a *Assembler) verbDocs(entries []verbEntry) string {
	if len(entries) == 0 {
		return ""
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf(
			` <dt>%s</dt><dd><span class="entrypoint">%s</span><span class="description">%s</span></dd>`,
			e.verb, e.entrypoint, e.html))
	}
	return fmt.Sprintf(verbDocsHTML, a.label(LabelHTTPVerbs), strings.Join(lines, "\n"))
}

// sharedEntrypoint reports whether every entry has the same entrypoint.
// Zero or one entry trivially does.
func sharedEntrypoint(entries []verbEntry) bool {
	for _, e := range entries[min(1, len(entries)):] {
		if e.entrypoint != entries[0].entrypoint {
			return false
		}
	}
	return true
}

func (a *Assembler) label(key string) string {
	return html.EscapeString(localize(a.localizer, key))
}

var defaultLocalizer = NewLocalizer(supportedLanguages[0])

func localize(l Localizer, key string) string {
	if l == nil {
		l = defaultLocalizer
	}
	return l.Sprintf(key)
}
