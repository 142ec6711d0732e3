package shape

import "strings"

type (
	TypeParam struct {
		Name       string
		Constraint string
	}

	TypeParams []TypeParam
)

// Receiver projects the parameters for use on a method receiver or an instantiated type: names only, `[K, V]`.
// Returns the empty string for a non-generic type.
func (ps TypeParams) Receiver() string {
	if len(ps) == 0 {
		return ""
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// Declaration projects the parameters for use on a generic function declaration: `[K comparable, V any]`.
func (ps TypeParams) Declaration() string {
	if len(ps) == 0 {
		return ""
	}
	decls := make([]string, len(ps))
	for i, p := range ps {
		constraint := p.Constraint
		if constraint == "" {
			constraint = "any"
		}
		decls[i] = p.Name + " " + constraint
	}
	return "[" + strings.Join(decls, ", ") + "]"
}
