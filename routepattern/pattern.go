package routepattern

import "strings"

// Component is one step of a route pattern: a literal URI segment, or the
// rewritten body of a descriptor. Params holds the capture tokens the
// descriptor contributed.
type Component struct {
	Text   string
	Params []string
}

// IsParam reports whether the component came from a descriptor holding at
// least one named capture.
func (c Component) IsParam() bool {
	return len(c.Params) > 0
}

// Pattern is the parameterized route of one verb of one resource.
type Pattern struct {
	Components []Component
}

// String renders the pattern as "/" followed by each component. The empty
// pattern renders as "".
func (p Pattern) String() string {
	var b strings.Builder
	for _, c := range p.Components {
		b.WriteByte('/')
		b.WriteString(c.Text)
	}
	return b.String()
}

// TrimTrailingParam drops the last component when it is a parameter.
func (p Pattern) TrimTrailingParam() Pattern {
	n := len(p.Components)
	if n == 0 || !p.Components[n-1].IsParam() {
		return p
	}
	return Pattern{Components: append([]Component(nil), p.Components[:n-1]...)}
}

// Params lists every capture token in the pattern, in order.
func (p Pattern) Params() []string {
	var params []string
	for _, c := range p.Components {
		params = append(params, c.Params...)
	}
	return params
}

// Template renders the pattern as a path template where each parameter
// component becomes "{token}" using its first capture token.
func (p Pattern) Template() string {
	if len(p.Components) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, c := range p.Components {
		b.WriteByte('/')
		if c.IsParam() {
			b.WriteString("{" + c.Params[0] + "}")
			continue
		}
		b.WriteString(c.Text)
	}
	return b.String()
}
