// Package resolver assigns stable ids to the symbols of a loaded
// assembly and resolves those ids back to symbols in constant time.
package resolver

import (
	"fmt"
	"strings"

	"github.com/ilprobe/ilprobe/internal/assembly"
)

// ID returns the stable address of a symbol. Ids follow the .NET
// documentation-comment convention:
//
//	N:Acme                                namespace
//	T:Acme.Widget.Inner                   type (nested '+' renders as '.')
//	M:Acme.Widget.Compute(System.String)  method (no parens when parameterless)
//	M:Acme.Widget.#ctor(System.String)    constructor ('.' in member names
//	                                      escapes to '#')
//	M:Acme.Widget.Tag``1(System.String)   generic method definition
//	F:Acme.Widget.count                   field
//	P:Acme.Widget.Name                    property
//	E:Acme.Widget.Changed                 event
//
// Generic type definitions keep their backtick arity ("T:Acme.Bag`1").
// Parameter types use the canonical form of assembly.TypeRef, so two
// overloads always produce distinct ids.
func ID(sym *assembly.Symbol) string {
	switch sym.Kind {
	case assembly.KindNamespace:
		return "N:" + sym.FullName
	case assembly.KindType:
		return "T:" + typePart(sym.FullName)
	case assembly.KindMethod:
		return "M:" + memberPart(sym) + methodSuffix(sym)
	case assembly.KindField:
		return "F:" + memberPart(sym)
	case assembly.KindProperty:
		return "P:" + memberPart(sym)
	default:
		return "E:" + memberPart(sym)
	}
}

// typePart renders a type full name for use inside an id. Nested types
// are stored with '+' separators but addressed with '.'.
func typePart(fullName string) string {
	return strings.ReplaceAll(fullName, "+", ".")
}

func memberPart(sym *assembly.Symbol) string {
	prefix := ""
	if sym.Declaring != nil {
		prefix = typePart(sym.Declaring.FullName) + "."
	}
	return prefix + escapeMemberName(sym.Name)
}

// escapeMemberName keeps member ids unambiguous: dots inside a member
// name become '#', so ".ctor" addresses as "#ctor" and an explicit
// interface implementation like "System.IDisposable.Dispose" as
// "System#IDisposable#Dispose".
func escapeMemberName(name string) string {
	return strings.ReplaceAll(name, ".", "#")
}

func methodSuffix(sym *assembly.Symbol) string {
	var b strings.Builder
	if sym.GenericArity > 0 {
		fmt.Fprintf(&b, "``%d", sym.GenericArity)
	}
	if len(sym.Params) > 0 {
		b.WriteByte('(')
		for i, p := range sym.Params {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.Type.String())
		}
		b.WriteByte(')')
	}
	return b.String()
}
