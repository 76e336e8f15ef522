// Package doccomment pulls the API documentation comment out of a Go handler
// source file.
//
// A documentation comment is any doc comment group attached to a node of the
// file (the package clause, a declaration, a spec or a struct field) whose
// text starts with the marker "api-documents". Both comment styles qualify:
//
//	/* api-documents
//	Lists every widget.
//	*/
//
//	// api-documents
//	// Lists every widget.
//
// When several nodes carry a qualifying comment, the last one in source
// traversal order is used.
package doccomment

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/agentflare-ai/go-restdoc/internal/docerr"
)

// Marker prefixes every documentation comment.
const Marker = "api-documents"

// Comment is an extracted documentation comment. Body is raw markdown with
// the comment delimiters and the marker removed.
type Comment struct {
	Body string
	Pos  token.Position
}

// Extract parses the Go file at path and returns its documentation comment.
// It reports false when no comment qualifies. Read failures are KindIO
// errors and syntax errors are KindParse errors.
func Extract(path string) (Comment, bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Comment{}, false, docerr.Wrap(err, docerr.KindIO, path, "read handler source")
	}
	return ExtractSource(path, src)
}

// ExtractSource is Extract for source held in memory.
func ExtractSource(filename string, src []byte) (Comment, bool, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return Comment{}, false, docerr.Wrap(err, docerr.KindParse, filename, "parse handler source")
	}
	c, ok := FromFile(fset, file)
	return c, ok, nil
}

// FromFile selects the documentation comment of an already parsed file. The
// file is not modified.
func FromFile(fset *token.FileSet, file *ast.File) (Comment, bool) {
	var last *ast.CommentGroup
	for _, n := range Traverse(file) {
		cg := docGroup(n)
		if cg == nil {
			continue
		}
		if _, ok := markedText(cg); ok {
			last = cg
		}
	}
	if last == nil {
		return Comment{}, false
	}
	text, _ := markedText(last)
	return Comment{
		Body: cleanBody(text[len(Marker):]),
		Pos:  fset.Position(last.Pos()),
	}, true
}

// Traverse lists every node under root in pre-order: a node first, then its
// children from left to right.
func Traverse(root ast.Node) []ast.Node {
	var nodes []ast.Node
	astutil.Apply(root, func(c *astutil.Cursor) bool {
		if n := c.Node(); n != nil {
			nodes = append(nodes, n)
		}
		return true
	}, nil)
	return nodes
}

func docGroup(n ast.Node) *ast.CommentGroup {
	switch n := n.(type) {
	case *ast.File:
		return n.Doc
	case *ast.FuncDecl:
		return n.Doc
	case *ast.GenDecl:
		return n.Doc
	case *ast.TypeSpec:
		return n.Doc
	case *ast.ValueSpec:
		return n.Doc
	case *ast.ImportSpec:
		return n.Doc
	case *ast.Field:
		return n.Doc
	}
	return nil
}

// markedText returns the group's text starting at the marker.
func markedText(cg *ast.CommentGroup) (string, bool) {
	text := strings.TrimLeft(rawText(cg), " \t\n")
	if !strings.HasPrefix(text, Marker) {
		return "", false
	}
	return text, true
}

// rawText joins the comments of cg with only their delimiters removed. Unlike
// CommentGroup.Text it keeps trailing spaces, blank line runs and directive
// lines, which are significant in markdown.
func rawText(cg *ast.CommentGroup) string {
	lines := make([]string, 0, len(cg.List))
	for _, c := range cg.List {
		switch {
		case strings.HasPrefix(c.Text, "//"):
			lines = append(lines, strings.TrimPrefix(c.Text[2:], " "))
		case strings.HasPrefix(c.Text, "/*"):
			lines = append(lines, strings.TrimSuffix(c.Text[2:], "*/"))
		}
	}
	return strings.Join(lines, "\n")
}

func cleanBody(rest string) string {
	rest = strings.TrimLeft(rest, " \t")
	first, tail, found := strings.Cut(rest, "\n")
	first = strings.TrimRight(first, " \t")
	if !found {
		return first
	}
	tail = strings.TrimRight(dedentMarkdown(tail), " \t\n")
	if tail == "" {
		return first
	}
	if first == "" {
		return strings.TrimLeft(tail, "\n")
	}
	return first + "\n" + tail
}
