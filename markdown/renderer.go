// Package markdown converts documentation fragments and comments to HTML.
package markdown

import (
	"io"

	"github.com/russross/blackfriday/v2"
)

// DefaultMaxSlugLength caps generated heading ids.
const DefaultMaxSlugLength = 255

// Extensions enabled for every conversion: GitHub-style tables, fenced code,
// autolinks, strikethrough, definition lists, footnotes and heading ids.
const Extensions = blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs | blackfriday.Footnotes

// Options configures a Renderer.
type Options struct {
	// MaxSlugLength truncates auto-generated heading ids. Zero means
	// DefaultMaxSlugLength.
	MaxSlugLength int
}

// Renderer converts markdown to HTML. Raw HTML is passed through and links
// are not sanitized. A Renderer holds no per-call state and may be shared
// between goroutines.
type Renderer struct {
	maxSlug int
}

// New returns a Renderer configured by opts.
func New(opts Options) *Renderer {
	maxSlug := opts.MaxSlugLength
	if maxSlug <= 0 {
		maxSlug = DefaultMaxSlugLength
	}
	return &Renderer{maxSlug: maxSlug}
}

// Render converts src to HTML.
func (r *Renderer) Render(src string) string {
	if src == "" {
		return ""
	}
	html := &slugCappingRenderer{
		HTMLRenderer: blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: blackfriday.UseXHTML,
		}),
		maxSlug: r.maxSlug,
	}
	return string(blackfriday.Run([]byte(src),
		blackfriday.WithExtensions(Extensions),
		blackfriday.WithRenderer(html),
	))
}

type slugCappingRenderer struct {
	*blackfriday.HTMLRenderer
	maxSlug int
}

func (r *slugCappingRenderer) RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	if entering && node.Type == blackfriday.Heading && len(node.HeadingID) > r.maxSlug {
		node.HeadingID = node.HeadingID[:r.maxSlug]
	}
	return r.HTMLRenderer.RenderNode(w, node, entering)
}
