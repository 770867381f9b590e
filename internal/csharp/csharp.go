// Package csharp renders .NET metadata names as C# source text.
package csharp

import (
	"strings"
	"unicode"

	"github.com/ilprobe/ilprobe/internal/assembly"
)

// keywords maps CLR primitive names onto their C# keyword forms.
var keywords = map[string]string{
	"System.Boolean": "bool",
	"System.Byte":    "byte",
	"System.SByte":   "sbyte",
	"System.Char":    "char",
	"System.Decimal": "decimal",
	"System.Double":  "double",
	"System.Single":  "float",
	"System.Int32":   "int",
	"System.UInt32":  "uint",
	"System.Int64":   "long",
	"System.UInt64":  "ulong",
	"System.Int16":   "short",
	"System.UInt16":  "ushort",
	"System.Object":  "object",
	"System.String":  "string",
	"System.Void":    "void",
}

// PlaceholderIdentifier is emitted when sanitizing a name leaves
// nothing usable.
const PlaceholderIdentifier = "Member"

// TypeName renders a type reference the way it appears in C# source:
// keyword forms for primitives, angle-bracket generic arguments, "[]"
// array suffixes. Namespaces are dropped; generated files carry using
// directives instead. Generic parameter placeholders ("`0") render as
// object since generated hook classes are not generic. The by-ref
// marker is ignored here; callers prepend ref/out modifiers themselves.
func TypeName(ref assembly.TypeRef) string {
	if ref.Elem != nil {
		return TypeName(*ref.Elem) + "[]"
	}
	if strings.HasPrefix(ref.Name, "`") {
		return "object"
	}
	if len(ref.Args) == 0 {
		if kw, ok := keywords[ref.Name]; ok {
			return kw
		}
		return SimpleName(ref.Name)
	}

	parts := make([]string, len(ref.Args))
	for i, a := range ref.Args {
		parts[i] = TypeName(a)
	}
	return SimpleName(ref.Name) + "<" + strings.Join(parts, ", ") + ">"
}

// SimpleName strips the namespace and generic arity suffixes from a
// full CLR type name and renders nested-type separators the C# way:
// "Acme.Outer`1+Inner" becomes "Outer.Inner".
func SimpleName(full string) string {
	_, rest := assembly.SplitNamespace(full)

	segs := strings.Split(rest, "+")
	for i, seg := range segs {
		if j := strings.IndexByte(seg, '`'); j > 0 {
			segs[i] = seg[:j]
		}
	}
	return strings.Join(segs, ".")
}

// Namespaces collects the namespaces a type ref tree needs using
// directives for. Keyword-rendered primitives and generic parameter
// placeholders need none.
func Namespaces(ref assembly.TypeRef, into map[string]struct{}) {
	if ref.Elem != nil {
		Namespaces(*ref.Elem, into)
		return
	}
	if ref.Name != "" && !strings.HasPrefix(ref.Name, "`") {
		if _, isKeyword := keywords[ref.Name]; !isKeyword {
			if ns, _ := assembly.SplitNamespace(ref.Name); ns != "" {
				into[ns] = struct{}{}
			}
		}
	}
	for _, a := range ref.Args {
		Namespaces(a, into)
	}
}

// HasGenericParams reports whether the ref tree mentions a generic
// parameter placeholder.
func HasGenericParams(ref assembly.TypeRef) bool {
	if ref.Elem != nil {
		return HasGenericParams(*ref.Elem)
	}
	if strings.HasPrefix(ref.Name, "`") {
		return true
	}
	for _, a := range ref.Args {
		if HasGenericParams(a) {
			return true
		}
	}
	return false
}

// Identifier sanitizes an arbitrary symbol name into a legal C#
// identifier: every run of characters outside [letters, digits, '_']
// collapses to a single underscore, leading underscores are dropped,
// and an empty result falls back to PlaceholderIdentifier.
func Identifier(name string) string {
	var b strings.Builder
	inRun := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
			inRun = false
			continue
		}
		if !inRun {
			b.WriteByte('_')
			inRun = true
		}
	}

	out := strings.TrimLeft(b.String(), "_")
	if out == "" {
		return PlaceholderIdentifier
	}
	return out
}
