package main

import (
	"context"
	"fmt"
	"io"

	"github.com/bndr/gotabulate"

	"github.com/agentflare-ai/go-restdoc/apidocs"
	"github.com/agentflare-ai/go-restdoc/internal/config"
	"github.com/agentflare-ai/go-restdoc/internal/server"
	"github.com/agentflare-ai/go-restdoc/markdown"
)

func newRenderer(cfg *config.Config) *markdown.Renderer {
	return markdown.New(markdown.Options{MaxSlugLength: cfg.MaxSlugLength})
}

func (s *session) pageServer() (*server.Server, error) {
	tpl, err := s.cfg.Template()
	if err != nil {
		return nil, err
	}
	return server.New(server.Options{
		Root:     s.cfg.Root,
		Verbs:    s.cfg.Verbs,
		Renderer: newRenderer(s.cfg),
		Title:    s.cfg.Title,
		CSS:      s.cfg.CSS,
		Footer:   s.cfg.Footer,
		Template: tpl,
		Index:    s.cfg.Index,
		Language: apidocs.ParseLanguage(s.cfg.Language),
		Logger:   s.logger,
	}), nil
}

func (s *session) renderPage(w io.Writer, uri, output string) error {
	srv, err := s.pageServer()
	if err != nil {
		return err
	}
	page, err := srv.RenderPage(uri, apidocs.ParseLanguage(s.cfg.Language))
	if err != nil {
		return err
	}
	return writeOutput(output, w, []byte(page))
}

var routeHeaders = []string{"URI", "VERB", "PATTERN", "TEMPLATE"}

// routeRows lists every verb of every resource under the root.
func routeRows(asm *apidocs.Assembler) ([][]string, error) {
	uris, err := asm.Locator().Discover()
	if err != nil {
		return nil, err
	}
	var rows [][]string
	for _, uri := range uris {
		in, err := asm.Collect(uri)
		if err != nil {
			return nil, err
		}
		for _, v := range in.Verbs {
			rows = append(rows, []string{uri, string(v.Verb), v.Pattern.String(), v.Pattern.Template()})
		}
	}
	return rows, nil
}

func (s *session) printRoutes(w io.Writer) error {
	rows, err := routeRows(s.assembler())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintf(w, "no resources under %s\n", s.cfg.Root)
		return err
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(routeHeaders)
	t.SetAlign("left")
	_, err = fmt.Fprint(w, t.Render("grid"))
	return err
}

func (s *session) exportOpenAPI(ctx context.Context, w io.Writer, format, output string) error {
	title := s.cfg.OpenAPITitle
	if title == "" {
		title = s.cfg.Title
	}
	doc, err := s.assembler().ExportOpenAPI(ctx, apidocs.OpenAPIOptions{Title: title, Version: s.cfg.OpenAPIVersion})
	if err != nil {
		return err
	}
	data, err := apidocs.MarshalOpenAPI(doc, format)
	if err != nil {
		return err
	}
	return writeOutput(output, w, data)
}
