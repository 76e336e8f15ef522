// Package apidocs assembles the HTML documentation page of a REST resource.
//
// A resource is a directory under a REST root holding one Go handler file per
// HTTP verb. The page combines the structured comment of each handler, the
// route pattern rebuilt from regex descriptors, and optional markdown
// fragments (docs.summary.rst, docs.footnotes.rst, docs.page.rst) that sit
// next to the handlers.
package apidocs

import (
	"go.uber.org/zap"

	"github.com/agentflare-ai/go-restdoc/doccomment"
	"github.com/agentflare-ai/go-restdoc/markdown"
	"github.com/agentflare-ai/go-restdoc/resource"
	"github.com/agentflare-ai/go-restdoc/routepattern"
)

// Renderer converts markdown to HTML. *markdown.Renderer satisfies it.
type Renderer interface {
	Render(src string) string
}

// Assembler builds documentation bundles for resources under one root.
// It is safe for concurrent use.
type Assembler struct {
	locator   *resource.Locator
	resolver  *routepattern.Resolver
	renderer  Renderer
	localizer Localizer
	logger    *zap.Logger
	verbs     resource.VerbTable
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithVerbTable replaces the default verb table.
func WithVerbTable(t resource.VerbTable) Option {
	return func(a *Assembler) { a.verbs = t }
}

// WithRenderer replaces the default markdown renderer.
func WithRenderer(r Renderer) Option {
	return func(a *Assembler) { a.renderer = r }
}

// WithLocalizer sets the localizer for labels and the default title.
func WithLocalizer(l Localizer) Option {
	return func(a *Assembler) { a.localizer = l }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// New returns an Assembler for the REST tree at root.
func New(root string, opts ...Option) *Assembler {
	a := &Assembler{}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.renderer == nil {
		a.renderer = markdown.New(markdown.Options{})
	}
	if a.localizer == nil {
		a.localizer = defaultLocalizer
	}
	a.locator = resource.NewLocator(root, a.verbs, a.logger)
	a.resolver = routepattern.NewResolver(a.locator)
	return a
}

// Locator returns the locator the assembler reads through.
func (a *Assembler) Locator() *resource.Locator { return a.locator }

// CreateForURI returns the documentation bundle of the resource at restRoot
// and uri.
func CreateForURI(restRoot, uri string, opts ...Option) (*Bundle, error) {
	return New(restRoot, opts...).CreateForURI(uri)
}

// CreateForURI collects the inputs of uri and assembles them.
func (a *Assembler) CreateForURI(uri string) (*Bundle, error) {
	in, err := a.Collect(uri)
	if err != nil {
		return nil, err
	}
	b := a.Assemble(in)
	a.logger.Debug("bundle assembled",
		zap.String("uri", uri),
		zap.Int("verbs", len(in.Verbs)),
		zap.Bool("page", in.Page != ""))
	return b, nil
}

// Collect gathers everything the page of uri is built from: the verb files
// in table order with their comments and route patterns, then the markdown
// fragments. A parse error or malformed descriptor aborts collection.
func (a *Assembler) Collect(uri string) (Inputs, error) {
	in := Inputs{URI: uri}

	docs, err := a.locator.Locate(uri)
	if err != nil {
		return Inputs{}, err
	}
	for _, d := range docs.Documents() {
		v, ok, err := a.collectVerb(uri, d)
		if err != nil {
			return Inputs{}, err
		}
		if ok {
			in.Verbs = append(in.Verbs, v)
		}
	}

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{resource.SummaryFragment, &in.Summary},
		{resource.FootnotesFragment, &in.Footnotes},
		{resource.PageFragment, &in.Page},
	} {
		text, _, err := a.locator.ReadFragment(uri, f.name)
		if err != nil {
			return Inputs{}, err
		}
		*f.dst = text
	}
	return in, nil
}

// collectVerb re-checks d against the root right before its source is read.
// A handler that vanished or now resolves outside the root is left out.
func (a *Assembler) collectVerb(uri string, d resource.VerbDocument) (VerbContent, bool, error) {
	path, ok, err := a.locator.ResolveFile(d.Path)
	if err != nil || !ok {
		return VerbContent{}, false, err
	}
	c, ok, err := doccomment.Extract(path)
	if err != nil {
		return VerbContent{}, false, err
	}
	if !ok {
		a.logger.Debug("no structured comment", zap.String("path", path))
	}
	p, err := a.resolver.Resolve(uri, d.Verb)
	if err != nil {
		return VerbContent{}, false, err
	}
	return VerbContent{Verb: d.Verb, Comment: c.Body, Pattern: p}, true, nil
}
