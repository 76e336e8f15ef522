// # go-restdoc
//
// `go-restdoc` turns a tree of REST handler sources into HTML documentation
// pages. Every directory under the REST root is a resource; the Go files named
// in the verb table (`get.go`, `post.go`, `put.go`, `delete.go` by default)
// are its handlers.
//
// A handler documents itself with a comment whose text starts with
// `api-documents`. The rest of the comment is markdown:
//
//	/*
//	api-documents
//	Returns the widget identified by `id`.
//	*/
//	func Get(w http.ResponseWriter, r *http.Request) { ... }
//
// Other files next to the handlers shape the page:
//
//   - `all.regex` or `<verb>.regex` holds a delimited regex describing the
//     parameter that follows the directory, e.g. `/(?<id>[0-9]+)/`. Named
//     captures become parameter names in the rendered route pattern.
//   - `docs.summary.rst` and `docs.footnotes.rst` are markdown wrapped around
//     the generated blocks.
//   - `docs.page.rst` replaces the generated entrypoint and verb blocks.
//
// ## Usage
//
//	go-restdoc render --root ./rest /widgets/
//	go-restdoc serve --root ./rest --addr :8080
//	go-restdoc routes --root ./rest
//	go-restdoc openapi --root ./rest --format json -o openapi.json
//
// Settings resolve from defaults, then a YAML or JSON `--config` file, then
// `RESTDOC_*` environment variables (a `.env` file in the working directory is
// loaded first), then flags. Long flags are also accepted with a single dash
// (`-root ./rest`).
//
// Page labels are available in English and Portuguese. `--lang` picks the
// language for `render`; `serve` negotiates it from `Accept-Language`.
//
// ## CLI helpers
//
//   - `go-restdoc completion [bash|zsh|fish|powershell]` prints shell
//     completion scripts.
//   - `go-restdoc gen-docs ./docs/cli` writes Markdown reference docs for
//     every command.
package main
