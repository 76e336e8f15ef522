// Package resource finds the files that document a REST resource under a
// root directory.
//
// Resources are directories below the root. Each one may hold a handler
// source file per verb (see VerbTable), markdown fragments named
// docs.summary.rst, docs.footnotes.rst and docs.page.rst, and regex
// descriptors consumed by the routepattern package. Every path derived from a
// resource URI is resolved and checked against the root on each access.
package resource

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/agentflare-ai/go-restdoc/internal/docerr"
)

// Markdown fragment file names looked up in a resource directory.
const (
	SummaryFragment   = "docs.summary.rst"
	FootnotesFragment = "docs.footnotes.rst"
	PageFragment      = "docs.page.rst"
)

// VerbDocument is a verb paired with its resolved handler source path.
type VerbDocument struct {
	Verb Verb
	Path string
}

// VerbDocumentSet holds the handler files found for one resource, in verb
// table order. Only verbs whose file exists inside the root are present.
type VerbDocumentSet struct {
	docs []VerbDocument
}

// NewVerbDocumentSet builds a set from docs, keeping their order.
func NewVerbDocumentSet(docs ...VerbDocument) VerbDocumentSet {
	return VerbDocumentSet{docs: append([]VerbDocument(nil), docs...)}
}

// Len returns the number of verbs with a handler file.
func (s VerbDocumentSet) Len() int { return len(s.docs) }

// Verbs returns the verbs present, in table order.
func (s VerbDocumentSet) Verbs() []Verb {
	verbs := make([]Verb, 0, len(s.docs))
	for _, d := range s.docs {
		verbs = append(verbs, d.Verb)
	}
	return verbs
}

// Path returns the handler file for verb.
func (s VerbDocumentSet) Path(verb Verb) (string, bool) {
	for _, d := range s.docs {
		if d.Verb == verb {
			return d.Path, true
		}
	}
	return "", false
}

// Documents returns a copy of the entries.
func (s VerbDocumentSet) Documents() []VerbDocument {
	return append([]VerbDocument(nil), s.docs...)
}

// Locator resolves resource files below Root.
type Locator struct {
	Root   string
	Verbs  VerbTable
	Logger *zap.Logger
}

// NewLocator returns a Locator. A nil verbs table means DefaultVerbTable and
// a nil logger discards output.
func NewLocator(root string, verbs VerbTable, logger *zap.Logger) *Locator {
	if verbs == nil {
		verbs = DefaultVerbTable()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{Root: root, Verbs: verbs, Logger: logger}
}

// Dir returns the filesystem directory for uri. The result is lexically
// cleaned but not checked for containment.
func (l *Locator) Dir(uri string) string {
	return filepath.Join(l.Root, filepath.FromSlash(uri))
}

// Locate returns the handler files present for uri. Missing files and files
// resolving outside the root are left out without error; a file that exists
// but cannot be inspected is an IO error.
func (l *Locator) Locate(uri string) (VerbDocumentSet, error) {
	dir := l.Dir(uri)
	var docs []VerbDocument
	for _, vf := range l.Verbs {
		path, ok, err := l.resolveFile(filepath.Join(dir, vf.File))
		if err != nil {
			return VerbDocumentSet{}, err
		}
		if !ok {
			continue
		}
		docs = append(docs, VerbDocument{Verb: vf.Verb, Path: path})
	}
	return VerbDocumentSet{docs: docs}, nil
}

// ReadFragment reads the named markdown fragment of uri. It reports false
// when the fragment is absent or resolves outside the root.
func (l *Locator) ReadFragment(uri, name string) (string, bool, error) {
	path, ok, err := l.resolveFile(filepath.Join(l.Dir(uri), name))
	if err != nil || !ok {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, docerr.Wrap(err, docerr.KindIO, path, "read fragment")
	}
	return string(data), true, nil
}

// ResolveFile is the lookup used for every file derived from a resource URI:
// it reports the canonical path of candidate when it is a regular file inside
// the root.
func (l *Locator) ResolveFile(candidate string) (string, bool, error) {
	return l.resolveFile(candidate)
}

func (l *Locator) resolveFile(candidate string) (string, bool, error) {
	if !l.lexicallyContained(candidate) {
		l.omit(candidate)
		return "", false, nil
	}
	info, err := os.Stat(candidate)
	if err != nil {
		if isAbsent(err) {
			return "", false, nil
		}
		if !IsContained(l.Root, filepath.Dir(candidate)) {
			l.omit(candidate)
			return "", false, nil
		}
		return "", false, docerr.Wrap(err, docerr.KindIO, candidate, "stat")
	}
	if info.IsDir() {
		return "", false, nil
	}
	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		if isAbsent(err) {
			return "", false, nil
		}
		return "", false, docerr.Wrap(err, docerr.KindIO, candidate, "resolve")
	}
	if !IsContained(l.Root, resolved) {
		l.omit(candidate)
		return "", false, nil
	}
	return resolved, true, nil
}

// lexicallyContained checks candidate against the root before the filesystem
// is touched, so nothing outside the root is ever stat'ed.
func (l *Locator) lexicallyContained(candidate string) bool {
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return false
	}
	abs = filepath.Clean(abs)
	if root, err := filepath.Abs(l.Root); err == nil && within(root, abs) {
		return true
	}
	if root, err := canonical(l.Root); err == nil && within(root, abs) {
		return true
	}
	return false
}

func (l *Locator) omit(candidate string) {
	l.Logger.Debug("path outside rest root omitted",
		zap.String("root", l.Root),
		zap.String("candidate", candidate))
}

func isAbsent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
