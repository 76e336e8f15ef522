package resource

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/agentflare-ai/go-restdoc/internal/docerr"
)

// Discover walks the root and returns the URI of every directory holding at
// least one handler file, sorted. URIs carry a trailing slash ("/" for the
// root itself). Symlinked directories are not followed and dot-directories
// are skipped.
func (l *Locator) Discover() ([]string, error) {
	root, err := canonical(l.Root)
	if err != nil {
		return nil, docerr.Wrap(err, docerr.KindIO, l.Root, "resolve rest root")
	}
	var uris []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		uri := dirURI(root, path)
		docs, err := l.Locate(uri)
		if err != nil {
			return err
		}
		if docs.Len() > 0 {
			uris = append(uris, uri)
		}
		return nil
	})
	if err != nil {
		if docerr.GetKind(err) != docerr.KindUnknown {
			return nil, err
		}
		return nil, docerr.Wrap(err, docerr.KindIO, root, "walk rest root")
	}
	sort.Strings(uris)
	l.Logger.Debug("discovered resources", zap.Int("count", len(uris)))
	return uris, nil
}

func dirURI(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel) + "/"
}
