// Package routepattern rebuilds the parameterized route of a resource from
// the regex descriptor files found along its directory path.
//
// While walking a resource URI segment by segment, each directory may hold
// "<verb>.regex" (lower-case verb) or "all.regex". The verb-specific file wins
// when both exist. A descriptor adds one component after the segment it
// lives in; descriptors at several depths all contribute.
package routepattern

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/agentflare-ai/go-restdoc/internal/docerr"
	"github.com/agentflare-ai/go-restdoc/resource"
)

const (
	// AllDescriptor applies to every verb without its own descriptor.
	AllDescriptor = "all.regex"
	// DescriptorSuffix follows the lower-case verb in verb-specific names.
	DescriptorSuffix = ".regex"
)

// Resolver computes route patterns for resources under a Locator's root.
type Resolver struct {
	locator *resource.Locator
	logger  *zap.Logger
}

// NewResolver returns a Resolver reading descriptors through loc, which also
// enforces root containment on every descriptor access.
func NewResolver(loc *resource.Locator) *Resolver {
	logger := loc.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{locator: loc, logger: logger}
}

// Resolve returns the route pattern of verb on uri. For POST a trailing
// parameter component is dropped, since POST addresses the collection.
func (r *Resolver) Resolve(uri string, verb resource.Verb) (Pattern, error) {
	var p Pattern
	dir := r.locator.Root
	for _, seg := range strings.Split(uri, "/") {
		if seg == "" {
			continue
		}
		dir = filepath.Join(dir, seg)
		p.Components = append(p.Components, Component{Text: seg})

		d, ok, err := r.descriptor(dir, verb)
		if err != nil {
			return Pattern{}, err
		}
		if ok {
			p.Components = append(p.Components, d.Component())
		}
	}
	if verb == resource.POST {
		p = p.TrimTrailingParam()
	}
	return p, nil
}

func (r *Resolver) descriptor(dir string, verb resource.Verb) (Descriptor, bool, error) {
	for _, name := range []string{verb.Lower() + DescriptorSuffix, AllDescriptor} {
		path, ok, err := r.locator.ResolveFile(filepath.Join(dir, name))
		if err != nil {
			return Descriptor{}, false, err
		}
		if !ok {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Descriptor{}, false, docerr.Wrap(err, docerr.KindIO, path, "read descriptor")
		}
		d, err := ParseDescriptor(string(data))
		if err != nil {
			return Descriptor{}, false, docerr.Wrap(err, docerr.KindMalformed, path, "descriptor")
		}
		r.logger.Debug("descriptor applied",
			zap.String("path", path),
			zap.String("verb", string(verb)),
			zap.Strings("tokens", d.Tokens()))
		return d, true, nil
	}
	return Descriptor{}, false, nil
}
