package apidocs

import (
	"html"
	"strings"
)

// DefaultCSS is the stylesheet linked when Bundle.CSS is empty.
const DefaultCSS = "/stylesheets/documentation.css"

// DefaultTemplate is the page skeleton used when no template is given.
// Placeholders have the form %<name>.
const DefaultTemplate = `<!DOCTYPE html>
<html>
 <head>
  <meta charset="utf-8" />
  <title>%<title></title>
  <link href="%<css>" media="screen, projection" rel="stylesheet" type="text/css" />
 </head>
 <body>
<div id="index">%<index></div>
<div id="content">%<entrypoints> %<summary> %<verbDocs> %<footnotes></div>
<div id="footer">%<footer></div>
 </body>
</html>
`

// Placeholders lists the names Render substitutes.
var Placeholders = []string{"title", "css", "index", "entrypoints", "summary", "verbDocs", "footnotes", "footer"}

// Bundle holds the generated HTML blocks for one resource plus the
// presentation fields a caller may set before rendering.
type Bundle struct {
	// Title is plain text; it is escaped on output.
	Title string
	CSS   string
	// Index and Footer are HTML inserted as is.
	Index  string
	Footer string
	// Template overrides DefaultTemplate for GeneratePage.
	Template string

	uri         string
	entrypoints string
	summary     string
	verbDocs    string
	footnotes   string
	page        string
	localizer   Localizer
}

// URI returns the resource URI the bundle was assembled for.
func (b *Bundle) URI() string { return b.uri }

// Entrypoints returns the entrypoint definition list.
func (b *Bundle) Entrypoints() string { return b.entrypoints }

// Summary returns the wrapped summary block, or "".
func (b *Bundle) Summary() string { return b.summary }

// VerbDocs returns the per-verb documentation list, or "" without verbs.
func (b *Bundle) VerbDocs() string { return b.verbDocs }

// Footnotes returns the wrapped footnotes block, or "".
func (b *Bundle) Footnotes() string { return b.footnotes }

// Page returns the rendered page fragment, or "".
func (b *Bundle) Page() string { return b.page }

// GeneratePage renders the bundle into b.Template.
func (b *Bundle) GeneratePage() string {
	return b.Render(b.Template)
}

// Render substitutes every placeholder of tpl in a single pass, so text
// inserted for one placeholder is never expanded again. An empty tpl means
// DefaultTemplate.
func (b *Bundle) Render(tpl string) string {
	if tpl == "" {
		tpl = DefaultTemplate
	}
	return b.replacer().Replace(tpl)
}

// Fields returns the value each placeholder expands to.
func (b *Bundle) Fields() map[string]string {
	title := b.Title
	if title == "" {
		title = localize(b.localizer, LabelDocumentation)
	}
	css := b.CSS
	if css == "" {
		css = DefaultCSS
	}
	fields := map[string]string{
		"title":       html.EscapeString(title),
		"css":         html.EscapeString(css),
		"index":       b.Index,
		"entrypoints": b.entrypoints,
		"summary":     b.summary,
		"verbDocs":    b.verbDocs,
		"footnotes":   b.footnotes,
		"footer":      b.Footer,
	}
	if b.page != "" {
		fields["entrypoints"] = ""
		fields["summary"] = b.page
		fields["verbDocs"] = ""
	}
	return fields
}

func (b *Bundle) replacer() *strings.Replacer {
	fields := b.Fields()
	pairs := make([]string, 0, 2*len(Placeholders))
	for _, name := range Placeholders {
		pairs = append(pairs, "%<"+name+">", fields[name])
	}
	return strings.NewReplacer(pairs...)
}
