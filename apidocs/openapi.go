package apidocs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/agentflare-ai/go-restdoc/internal/docerr"
	"github.com/agentflare-ai/go-restdoc/routepattern"
)

// OpenAPIOptions fills the info block of an exported document.
type OpenAPIOptions struct {
	Title   string
	Version string
}

var openAPIMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPut:     true,
	http.MethodPost:    true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodHead:    true,
	http.MethodPatch:   true,
	http.MethodTrace:   true,
}

// ExportOpenAPI builds an OpenAPI document describing every resource under
// root.
func ExportOpenAPI(ctx context.Context, root string, opts OpenAPIOptions, options ...Option) (*openapi3.T, error) {
	return New(root, options...).ExportOpenAPI(ctx, opts)
}

// ExportOpenAPI builds an OpenAPI document with one path item per resource
// pattern and one operation per verb. Verbs OpenAPI cannot express are
// skipped.
func (a *Assembler) ExportOpenAPI(ctx context.Context, opts OpenAPIOptions) (*openapi3.T, error) {
	if opts.Title == "" {
		opts.Title = localize(a.localizer, LabelDocumentation)
	}
	if opts.Version == "" {
		opts.Version = "0.0.0"
	}
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: opts.Title, Version: opts.Version},
		Paths:   openapi3.NewPaths(),
	}

	uris, err := a.locator.Discover()
	if err != nil {
		return nil, err
	}
	for _, uri := range uris {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in, err := a.Collect(uri)
		if err != nil {
			return nil, err
		}
		for _, v := range in.Verbs {
			method := strings.ToUpper(string(v.Verb))
			if !openAPIMethods[method] {
				a.logger.Debug("verb skipped in openapi export",
					zap.String("uri", uri), zap.String("verb", method))
				continue
			}
			path, params := openAPIPath(v.Pattern)
			item := doc.Paths.Value(path)
			if item == nil {
				item = &openapi3.PathItem{Description: in.Summary}
				doc.Paths.Set(path, item)
			}
			item.SetOperation(method, operation(method, path, params, v))
		}
	}
	return doc, nil
}

func operation(method, path string, params []string, v VerbContent) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = operationID(method, path)
	op.Summary = firstLine(v.Comment)
	op.Description = v.Comment
	op.Responses = openapi3.NewResponses(openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(http.StatusText(http.StatusOK)),
	}))
	for _, name := range params {
		op.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()))
	}
	return op
}

// openAPIPath renders p as an OpenAPI path template and lists its path
// parameters. A capture name already used by an earlier component gets a
// numeric suffix, since OpenAPI path parameters must be unique.
func openAPIPath(p routepattern.Pattern) (string, []string) {
	if len(p.Components) == 0 {
		return "/", nil
	}
	var (
		b     strings.Builder
		names []string
		seen  = map[string]int{}
	)
	for _, c := range p.Components {
		b.WriteByte('/')
		if !c.IsParam() {
			b.WriteString(c.Text)
			continue
		}
		name := c.Params[0]
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
			seen[name]++
		}
		names = append(names, name)
		b.WriteString("{" + name + "}")
	}
	return b.String(), names
}

func operationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, seg := range strings.Split(path, "/") {
		seg = strings.Trim(seg, "{}")
		if seg == "" {
			continue
		}
		b.WriteByte('_')
		for _, r := range seg {
			if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
				b.WriteRune(r)
			} else {
				b.WriteByte('_')
			}
		}
	}
	return b.String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimLeft(line, "# ")
}

// MarshalOpenAPI encodes doc as "json" or "yaml".
func MarshalOpenAPI(doc *openapi3.T, format string) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, docerr.Wrap(err, docerr.KindParse, "", "encode openapi")
	}
	switch strings.ToLower(format) {
	case "", "json":
		return append(data, '\n'), nil
	case "yaml", "yml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, docerr.Wrap(err, docerr.KindParse, "", "convert openapi to yaml")
		}
		blockStyle(&node)
		return yaml.Marshal(&node)
	default:
		return nil, docerr.Errorf(docerr.KindUsage, "", "unknown openapi format %q", format)
	}
}

// blockStyle clears the flow and quoting styles yaml.v3 keeps from JSON input.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
