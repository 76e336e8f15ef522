package resource

import (
	"path/filepath"
	"strings"

	"github.com/agentflare-ai/go-restdoc/internal/docerr"
)

// Verb is an HTTP method name in upper case.
type Verb string

const (
	GET    Verb = "GET"
	POST   Verb = "POST"
	PUT    Verb = "PUT"
	DELETE Verb = "DELETE"
)

// Lower returns the verb in lower case, as used in descriptor file names.
func (v Verb) Lower() string {
	return strings.ToLower(string(v))
}

// VerbFile maps a verb to the handler source file documenting it.
type VerbFile struct {
	Verb Verb   `yaml:"verb" json:"verb"`
	File string `yaml:"file" json:"file"`
}

// VerbTable is the ordered set of recognized verbs. Order is preserved in
// every rendered listing.
type VerbTable []VerbFile

// DefaultVerbTable returns GET, POST, PUT and DELETE mapped to get.go,
// post.go, put.go and delete.go.
func DefaultVerbTable() VerbTable {
	return VerbTable{
		{Verb: GET, File: "get.go"},
		{Verb: POST, File: "post.go"},
		{Verb: PUT, File: "put.go"},
		{Verb: DELETE, File: "delete.go"},
	}
}

// Normalize upper-cases verbs and trims file names in place.
func (t VerbTable) Normalize() {
	for i := range t {
		t[i].Verb = Verb(strings.ToUpper(strings.TrimSpace(string(t[i].Verb))))
		t[i].File = strings.TrimSpace(t[i].File)
	}
}

// Validate rejects empty entries, duplicate verbs and file names that are
// not plain base names.
func (t VerbTable) Validate() error {
	if len(t) == 0 {
		return docerr.Errorf(docerr.KindUsage, "", "verb table is empty")
	}
	seen := make(map[Verb]struct{}, len(t))
	for _, vf := range t {
		if vf.Verb == "" {
			return docerr.Errorf(docerr.KindUsage, "", "verb table: entry for %q has no verb", vf.File)
		}
		if vf.File == "" {
			return docerr.Errorf(docerr.KindUsage, "", "verb table: %s has no file", vf.Verb)
		}
		if filepath.Base(vf.File) != vf.File || vf.File == "." || vf.File == ".." {
			return docerr.Errorf(docerr.KindUsage, "", "verb table: %s file %q must be a plain file name", vf.Verb, vf.File)
		}
		if _, ok := seen[vf.Verb]; ok {
			return docerr.Errorf(docerr.KindUsage, "", "verb table: duplicate verb %s", vf.Verb)
		}
		seen[vf.Verb] = struct{}{}
	}
	return nil
}
