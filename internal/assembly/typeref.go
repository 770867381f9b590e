package assembly

import (
	"errors"
	"fmt"
	"strings"
)

// TypeRef is a structured reference to a .NET type name in canonical
// form: full CLR names with backtick arity suffixes for generic
// definitions ("System.Collections.Generic.List`1"), curly-brace
// argument lists for instantiations ("List`1{System.String}"), "[]"
// suffixes for arrays, and a trailing "@" for by-reference parameters.
//
// The canonical rendering is what symbol ids embed, so two refs are the
// same type exactly when their String() forms are equal.
type TypeRef struct {
	// Name is the full type name without generic arguments. Empty for
	// array refs.
	Name string

	// Args holds generic arguments when the ref is an instantiation.
	Args []TypeRef

	// Elem is the element type of an array ref.
	Elem *TypeRef

	// ByRef marks ref/out parameter types.
	ByRef bool
}

// IsZero reports whether the ref is unset.
func (r TypeRef) IsZero() bool {
	return r.Name == "" && r.Elem == nil
}

// String renders the canonical form.
func (r TypeRef) String() string {
	var s string
	switch {
	case r.Elem != nil:
		s = r.Elem.String() + "[]"
	case len(r.Args) > 0:
		parts := make([]string, len(r.Args))
		for i, a := range r.Args {
			parts[i] = a.String()
		}
		s = r.Name + "{" + strings.Join(parts, ",") + "}"
	default:
		s = r.Name
	}
	if r.ByRef {
		s += "@"
	}
	return s
}

// ParseTypeRef parses a canonical type reference. It accepts "&" as an
// alias for the "@" by-reference marker since reflection-style dumps
// commonly use it.
func ParseTypeRef(s string) (TypeRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TypeRef{}, errors.New("empty type reference")
	}

	byRef := false
	if strings.HasSuffix(s, "@") || strings.HasSuffix(s, "&") {
		byRef = true
		s = s[:len(s)-1]
	}

	// Peel array suffixes from the right; each adds one level of nesting.
	arrays := 0
	for strings.HasSuffix(s, "[]") {
		arrays++
		s = s[:len(s)-2]
	}

	ref, err := parseCore(s)
	if err != nil {
		return TypeRef{}, err
	}

	for i := 0; i < arrays; i++ {
		elem := ref
		ref = TypeRef{Elem: &elem}
	}
	ref.ByRef = byRef
	return ref, nil
}

func parseCore(s string) (TypeRef, error) {
	if s == "" {
		return TypeRef{}, errors.New("empty type reference")
	}

	i := strings.IndexByte(s, '{')
	if i < 0 {
		if strings.ContainsAny(s, "}[],@&") {
			return TypeRef{}, fmt.Errorf("malformed type reference %q", s)
		}
		return TypeRef{Name: s}, nil
	}

	name := s[:i]
	if name == "" || strings.ContainsAny(name, "}[],@&") {
		return TypeRef{}, fmt.Errorf("malformed generic instantiation %q", s)
	}
	if !strings.HasSuffix(s, "}") {
		return TypeRef{}, fmt.Errorf("unterminated generic instantiation %q", s)
	}

	parts, err := splitArgs(s[i+1 : len(s)-1])
	if err != nil {
		return TypeRef{}, fmt.Errorf("generic instantiation %q: %w", s, err)
	}

	args := make([]TypeRef, 0, len(parts))
	for _, p := range parts {
		arg, err := ParseTypeRef(p)
		if err != nil {
			return TypeRef{}, fmt.Errorf("generic instantiation %q: %w", s, err)
		}
		args = append(args, arg)
	}
	return TypeRef{Name: name, Args: args}, nil
}

// splitArgs splits a generic argument list on commas at brace depth zero.
func splitArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("empty argument list")
	}

	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return nil, errors.New("unbalanced braces")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, errors.New("unbalanced braces")
	}
	parts = append(parts, strings.TrimSpace(s[start:]))

	for _, p := range parts {
		if p == "" {
			return nil, errors.New("empty argument")
		}
	}
	return parts, nil
}
