package apidocs

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/agentflare-ai/go-restdoc/internal/docerr"
	"github.com/agentflare-ai/go-restdoc/resource"
	"github.com/agentflare-ai/go-restdoc/routepattern"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func handler(verb, body string) string {
	return "package widgets\n\n/* api-documents\n" + body + "\n*/\nfunc " + verb + "() {}\n"
}

func literal(segments ...string) routepattern.Pattern {
	var p routepattern.Pattern
	for _, s := range segments {
		p.Components = append(p.Components, routepattern.Component{Text: s})
	}
	return p
}

// widgetsTree builds a resource with GET and POST under an "id" descriptor.
func widgetsTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "widgets")
	writeFile(t, filepath.Join(dir, "get.go"), handler("Get", "Lists **widgets**."))
	writeFile(t, filepath.Join(dir, "post.go"), handler("Post", "Creates a widget."))
	writeFile(t, filepath.Join(dir, routepattern.AllDescriptor), "/(?<id>[0-9]+)/")
	writeFile(t, filepath.Join(dir, resource.SummaryFragment), "Widgets are *things*.")
	writeFile(t, filepath.Join(dir, resource.FootnotesFragment), "See also gadgets.")
	return root
}

var tagPattern = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9]*)[^>]*?(/?)>`)

var voidElements = map[string]bool{"meta": true, "link": true, "br": true, "hr": true, "img": true, "input": true}

// assertBalanced checks that every opened element is closed in order.
func assertBalanced(t *testing.T, doc string) {
	t.Helper()
	doc = strings.Replace(doc, "<!DOCTYPE html>", "", 1)
	var stack []string
	for _, m := range tagPattern.FindAllStringSubmatch(doc, -1) {
		closing, name, selfClosing := m[1] == "/", strings.ToLower(m[2]), m[3] == "/"
		switch {
		case selfClosing || voidElements[name]:
		case closing:
			if assert.NotEmpty(t, stack, "unexpected </%s>", name) {
				assert.Equal(t, stack[len(stack)-1], name, "mismatched close tag")
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, name)
		}
	}
	assert.Empty(t, stack, "unclosed tags")
}

func TestAssembleWithoutVerbs(t *testing.T) {
	b := New(t.TempDir()).Assemble(Inputs{URI: "/empty/<x>/"})

	assert.Contains(t, b.Entrypoints(), `class="single-entrypoint"`)
	assert.Contains(t, b.Entrypoints(), "<dt>All verbs</dt>")
	assert.Contains(t, b.Entrypoints(), "<dd>/empty/&lt;x&gt;/</dd>")
	assert.Empty(t, b.VerbDocs())
	assert.Empty(t, b.Summary())
	assert.Empty(t, b.Footnotes())

	page := b.GeneratePage()
	assert.NotEmpty(t, page)
	assert.NotContains(t, page, "%<")
	assertBalanced(t, page)
}

func TestAssembleSingleVerbUsesVerbLabel(t *testing.T) {
	b := New(t.TempDir()).Assemble(Inputs{
		URI:   "/widgets/",
		Verbs: []VerbContent{{Verb: resource.GET, Comment: "Lists.", Pattern: literal("widgets")}},
	})
	assert.Contains(t, b.Entrypoints(), "<dt>GET</dt>")
	assert.Contains(t, b.Entrypoints(), "<dd>/widgets</dd>")
}

func TestAssembleCollapsesSharedEntrypoint(t *testing.T) {
	p := literal("widgets")
	b := New(t.TempDir()).Assemble(Inputs{
		URI: "/widgets/",
		Verbs: []VerbContent{
			{Verb: resource.GET, Comment: "Lists.", Pattern: p},
			{Verb: resource.PUT, Comment: "Replaces.", Pattern: p},
		},
	})
	assert.Equal(t, 1, strings.Count(b.Entrypoints(), "<dt>"))
	assert.Contains(t, b.Entrypoints(), "<dt>All verbs</dt>")
	assert.Contains(t, b.Entrypoints(), "single-entrypoint")
}

func TestAssembleListsDistinctEntrypoints(t *testing.T) {
	b := New(t.TempDir()).Assemble(Inputs{
		URI: "/widgets/",
		Verbs: []VerbContent{
			{Verb: resource.GET, Pattern: literal("widgets", "id")},
			{Verb: resource.POST, Pattern: literal("widgets")},
		},
	})
	entry := b.Entrypoints()
	assert.Contains(t, entry, "multiple-entrypoints")
	assert.Equal(t, 2, strings.Count(entry, "<dt>"))
	assert.Equal(t, 2, strings.Count(entry, "<dd>"))
	assert.Contains(t, entry, "<dt>GET</dt><dd>/widgets/id</dd>")
	assert.Contains(t, entry, "<dt>POST</dt><dd>/widgets</dd>")
	assert.Less(t, strings.Index(entry, "GET"), strings.Index(entry, "POST"))
}

func TestAssembleVerbDocs(t *testing.T) {
	b := New(t.TempDir()).Assemble(Inputs{
		URI: "/widgets/",
		Verbs: []VerbContent{
			{Verb: resource.GET, Comment: "Lists **all**.", Pattern: literal("widgets")},
		},
	})
	docs := b.VerbDocs()
	assert.Contains(t, docs, `<dl id="verbs">`)
	assert.Contains(t, docs, `<span class="entrypoint">/widgets</span>`)
	assert.Contains(t, docs, "<strong>all</strong>")
	assertBalanced(t, docs)
}

func TestCreateForURI(t *testing.T) {
	root := widgetsTree(t)

	b, err := CreateForURI(root, "/widgets/")
	require.NoError(t, err)

	assert.Contains(t, b.Entrypoints(), "<dt>GET</dt><dd>/widgets/id</dd>")
	assert.Contains(t, b.Entrypoints(), "<dt>POST</dt><dd>/widgets</dd>")
	assert.Contains(t, b.VerbDocs(), "<strong>widgets</strong>")
	assert.Contains(t, b.VerbDocs(), "Creates a widget.")
	assert.Contains(t, b.Summary(), `<div id="summary"><h2>Summary</h2>`)
	assert.Contains(t, b.Summary(), "<em>things</em>")
	assert.Contains(t, b.Footnotes(), `<div id="footnotes">`)
	assert.Equal(t, "/widgets/", b.URI())

	page := b.GeneratePage()
	assertBalanced(t, page)
	assert.Contains(t, page, "<title>Documentation</title>")
	assert.Contains(t, page, DefaultCSS)
}

func TestCreateForURIEscapingResourceHasNoVerbs(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "rest")
	require.NoError(t, os.MkdirAll(root, 0o755))
	writeFile(t, filepath.Join(base, "secret", "get.go"), handler("Get", "Leaked."))
	writeFile(t, filepath.Join(base, "secret", resource.SummaryFragment), "Leaked summary.")

	b, err := CreateForURI(root, "/../secret/")
	require.NoError(t, err)
	assert.Empty(t, b.VerbDocs())
	assert.Empty(t, b.Summary())
	assert.NotContains(t, b.GeneratePage(), "Leaked")
}

func TestCreateForURIUnreadableOutsideRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "rest")
	require.NoError(t, os.MkdirAll(root, 0o755))
	loop := filepath.Join(base, "loop")
	if err := os.Symlink(loop, loop); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	b, err := CreateForURI(root, "/../loop/")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Empty(t, b.VerbDocs())
	assert.NotContains(t, b.GeneratePage(), base)
}

func TestCollectVerbRechecksContainment(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "rest")
	writeFile(t, filepath.Join(root, "widgets", "get.go"), handler("Get", "Inside."))
	outside := filepath.Join(base, "moved.go")
	writeFile(t, outside, handler("Get", "Leaked."))
	a := New(root)

	_, ok, err := a.collectVerb("/widgets/", resource.VerbDocument{Verb: resource.GET, Path: outside})
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := a.collectVerb("/widgets/", resource.VerbDocument{Verb: resource.GET, Path: filepath.Join(root, "widgets", "get.go")})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Inside.", v.Comment)
}

func TestCreateForURIKeepsRawMarkdown(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes", "get.go"), handler("Get", "Line one  \nLine two\n\n```\na\n\n\nb\n```"))

	b, err := CreateForURI(root, "/notes/")
	require.NoError(t, err)
	assert.Contains(t, b.VerbDocs(), "Line one<br />")
	assert.Contains(t, b.VerbDocs(), "<code>a\n\n\nb\n</code>")
}

func TestCreateForURIMalformedDescriptor(t *testing.T) {
	root := widgetsTree(t)
	writeFile(t, filepath.Join(root, "widgets", routepattern.AllDescriptor), "(?<id>")

	_, err := CreateForURI(root, "/widgets/")
	require.Error(t, err)
	assert.Equal(t, docerr.KindMalformed, docerr.GetKind(err))
}

func TestCreateForURIParseError(t *testing.T) {
	root := widgetsTree(t)
	writeFile(t, filepath.Join(root, "widgets", "get.go"), "package widgets\nfunc {")

	_, err := CreateForURI(root, "/widgets/")
	require.Error(t, err)
	assert.Equal(t, docerr.KindParse, docerr.GetKind(err))
}

func TestCreateForURICustomVerbTable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "jobs", "list.go"), handler("List", "Lists jobs."))

	b, err := CreateForURI(root, "/jobs/", WithVerbTable(resource.VerbTable{{Verb: "LIST", File: "list.go"}}))
	require.NoError(t, err)
	assert.Contains(t, b.Entrypoints(), "<dt>LIST</dt>")
	assert.Contains(t, b.VerbDocs(), "Lists jobs.")
}

func TestPageFragmentReplacesGeneratedBlocks(t *testing.T) {
	root := widgetsTree(t)
	writeFile(t, filepath.Join(root, "widgets", resource.PageFragment), "# Handwritten\n\nFull page.")

	b, err := CreateForURI(root, "/widgets/")
	require.NoError(t, err)

	page := b.GeneratePage()
	assert.Contains(t, page, "Full page.")
	assert.NotContains(t, page, `id="entrypoints"`)
	assert.NotContains(t, page, `id="verbs"`)
	assert.NotContains(t, page, `id="summary"`)
	assert.Contains(t, page, `id="footnotes"`)
	assertBalanced(t, page)
}

func TestRenderSinglePass(t *testing.T) {
	b := New(t.TempDir()).Assemble(Inputs{URI: "/"})
	b.Title = "T"
	b.Footer = "%<title> and %<css>"

	out := b.Render("<p>%<title></p><p>%<footer></p><p>%<unknown></p>")
	assert.Equal(t, "<p>T</p><p>%<title> and %<css></p><p>%<unknown></p>", out)
}

func TestRenderFields(t *testing.T) {
	b := New(t.TempDir()).Assemble(Inputs{URI: "/"})
	b.Title = "Widgets & Co"
	b.CSS = "/custom.css"
	b.Index = "<ul><li>i</li></ul>"
	b.Footer = "<em>f</em>"

	out := b.Render("%<title>|%<css>|%<index>|%<footer>")
	assert.Equal(t, "Widgets &amp; Co|/custom.css|<ul><li>i</li></ul>|<em>f</em>", out)

	b.Template = "[%<css>]"
	assert.Equal(t, "[/custom.css]", b.GeneratePage())
}

func TestLocalizedLabels(t *testing.T) {
	root := widgetsTree(t)
	pt := NewLocalizer(language.Portuguese)

	b, err := CreateForURI(root, "/widgets/", WithLocalizer(pt))
	require.NoError(t, err)
	assert.Contains(t, b.Summary(), "<h2>Resumo</h2>")
	assert.Contains(t, b.VerbDocs(), "<h2>Verbos HTTP</h2>")
	assert.Contains(t, b.GeneratePage(), "<title>Documentação</title>")

	empty := New(root, WithLocalizer(pt)).Assemble(Inputs{URI: "/"})
	assert.Contains(t, empty.Entrypoints(), "<dt>Todos os verbos</dt>")
}

func TestMatchLanguage(t *testing.T) {
	assert.Equal(t, language.Portuguese, MatchLanguage("pt-BR,pt;q=0.9,en;q=0.5"))
	assert.Equal(t, language.English, MatchLanguage("en-US"))
	assert.Equal(t, language.English, MatchLanguage("fr"))
	assert.Equal(t, language.English, MatchLanguage(""))
	assert.Equal(t, language.Portuguese, ParseLanguage("pt"))
	assert.Equal(t, language.English, ParseLanguage(""))

	assert.Equal(t, language.Portuguese, NegotiateLanguage("en;q=nope", language.Portuguese))
	assert.Equal(t, language.Portuguese, NegotiateLanguage("fr", language.Portuguese))
	assert.Equal(t, language.English, NegotiateLanguage("en-GB", language.Portuguese))
}

func TestBuildIndex(t *testing.T) {
	entries := IndexEntries("/docs/", []string{"/widgets/", "/", "/gadgets/"})
	out := BuildIndex(entries, "/widgets/")

	assert.Contains(t, out, `<li><a href="/docs/">/</a></li>`)
	assert.Contains(t, out, `<li class="current"><a href="/docs/widgets/">/widgets/</a></li>`)
	assert.Less(t, strings.Index(out, "/gadgets/"), strings.Index(out, "/widgets/"))
	assertBalanced(t, out)

	assert.Empty(t, BuildIndex(nil, "/"))
}

func TestExportOpenAPI(t *testing.T) {
	root := widgetsTree(t)

	doc, err := ExportOpenAPI(context.Background(), root, OpenAPIOptions{Title: "Widgets", Version: "1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "Widgets", doc.Info.Title)

	item := doc.Paths.Value("/widgets/{id}")
	require.NotNil(t, item)
	require.NotNil(t, item.Get)
	assert.Equal(t, "Lists **widgets**.", item.Get.Description)
	assert.Equal(t, "get_widgets_id", item.Get.OperationID)
	require.Len(t, item.Get.Parameters, 1)
	assert.Equal(t, "id", item.Get.Parameters[0].Value.Name)
	assert.Equal(t, "path", item.Get.Parameters[0].Value.In)

	collection := doc.Paths.Value("/widgets")
	require.NotNil(t, collection)
	require.NotNil(t, collection.Post)
	assert.Empty(t, collection.Post.Parameters)
}

func TestExportOpenAPIRepeatedParamNames(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "shops", routepattern.AllDescriptor), "/(?<id>[0-9]+)/")
	writeFile(t, filepath.Join(root, "shops", "widgets", routepattern.AllDescriptor), "/(?<id>[0-9]+)/")
	writeFile(t, filepath.Join(root, "shops", "widgets", "get.go"), handler("Get", "One widget of a shop."))

	doc, err := ExportOpenAPI(context.Background(), root, OpenAPIOptions{})
	require.NoError(t, err)

	item := doc.Paths.Value("/shops/{id}/widgets/{id_2}")
	require.NotNil(t, item)
	require.NotNil(t, item.Get)
	var names []string
	for _, p := range item.Get.Parameters {
		names = append(names, p.Value.Name)
	}
	assert.Equal(t, []string{"id", "id_2"}, names)
}

func TestExportOpenAPICanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ExportOpenAPI(ctx, widgetsTree(t), OpenAPIOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMarshalOpenAPI(t *testing.T) {
	doc, err := ExportOpenAPI(context.Background(), widgetsTree(t), OpenAPIOptions{})
	require.NoError(t, err)

	data, err := MarshalOpenAPI(doc, "yaml")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "3.0.3", decoded["openapi"])
	paths, ok := decoded["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/widgets/{id}")

	data, err = MarshalOpenAPI(doc, "json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"openapi": "3.0.3"`)

	_, err = MarshalOpenAPI(doc, "toml")
	assert.Equal(t, docerr.KindUsage, docerr.GetKind(err))
}
