package routepattern

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agentflare-ai/go-restdoc/internal/docerr"
)

// captureName matches the opening of a named capture group in either the
// PCRE form (?<name>...) or the Go form (?P<name>...).
var captureName = regexp.MustCompile(`\(\?P?<([A-Za-z_][A-Za-z0-9_]*)>`)

var bracketPairs = map[rune]rune{
	'(': ')',
	'[': ']',
	'{': '}',
	'<': '>',
}

// Alternative is one '|'-separated branch of a descriptor body.
type Alternative struct {
	Raw   string
	Token string
}

// String returns the capture token when there is one, the raw text otherwise.
func (a Alternative) String() string {
	if a.Token != "" {
		return a.Token
	}
	return a.Raw
}

// Descriptor is a parsed pattern-descriptor file.
type Descriptor struct {
	Alternatives []Alternative
}

// Tokens lists the capture tokens, in order.
func (d Descriptor) Tokens() []string {
	var tokens []string
	for _, a := range d.Alternatives {
		if a.Token != "" {
			tokens = append(tokens, a.Token)
		}
	}
	return tokens
}

// String rejoins the alternatives with '|', named captures replaced by
// their token.
func (d Descriptor) String() string {
	parts := make([]string, len(d.Alternatives))
	for i, a := range d.Alternatives {
		parts[i] = a.String()
	}
	return strings.Join(parts, "|")
}

// Component converts the descriptor into a route component.
func (d Descriptor) Component() Component {
	return Component{Text: d.String(), Params: d.Tokens()}
}

// CaptureName returns the name of the first named capture group in alt.
func CaptureName(alt string) (string, bool) {
	m := captureName.FindStringSubmatch(alt)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseDescriptor parses descriptor file content: a delimiter, a
// '|'-separated list of regex alternatives, and the closing delimiter.
// Trailing whitespace is ignored. The closing delimiter must repeat the
// opening one, or close it when the opening one is a bracket. Anything else
// is a KindMalformed error.
func ParseDescriptor(content string) (Descriptor, error) {
	content = strings.TrimRightFunc(content, unicode.IsSpace)
	if utf8.RuneCountInString(content) < 2 {
		return Descriptor{}, docerr.New(docerr.KindMalformed, "", "descriptor shorter than its delimiters")
	}
	open, openSize := utf8.DecodeRuneInString(content)
	closing, closeSize := utf8.DecodeLastRuneInString(content)
	if !validDelimiter(open) {
		return Descriptor{}, docerr.Errorf(docerr.KindMalformed, "", "invalid descriptor delimiter %q", open)
	}
	want := open
	if pair, ok := bracketPairs[open]; ok {
		want = pair
	}
	if closing != want {
		return Descriptor{}, docerr.Errorf(docerr.KindMalformed, "", "descriptor opened with %q but closed with %q", open, closing)
	}

	body := content[openSize : len(content)-closeSize]
	raw := strings.Split(body, "|")
	alts := make([]Alternative, len(raw))
	for i, r := range raw {
		alts[i] = Alternative{Raw: r}
		if name, ok := CaptureName(r); ok {
			alts[i].Token = name
		}
	}
	return Descriptor{Alternatives: alts}, nil
}

func validDelimiter(r rune) bool {
	return r != '\\' && r != utf8.RuneError && !unicode.IsSpace(r) && !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
