package resolver

import (
	"fmt"
	"strings"

	"github.com/ilprobe/ilprobe/internal/assembly"
	"github.com/ilprobe/ilprobe/internal/csharp"
)

// Summary is the wire shape describing one symbol.
type Summary struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Namespace   string `json:"namespace,omitempty"`
	Signature   string `json:"signature"`
	Visibility  string `json:"visibility,omitempty"`
	Static      bool   `json:"static,omitempty"`
	Abstract    bool   `json:"abstract,omitempty"`
	Virtual     bool   `json:"virtual,omitempty"`
	DeclaringID string `json:"declaring_id,omitempty"`
}

// Summarize renders the wire summary for a symbol.
func Summarize(sym *assembly.Symbol) Summary {
	s := Summary{
		ID:         ID(sym),
		Kind:       sym.Kind.String(),
		Name:       sym.Name,
		FullName:   sym.FullName,
		Namespace:  sym.Namespace,
		Signature:  Signature(sym),
		Visibility: sym.Visibility,
		Static:     sym.Static,
		Abstract:   sym.Abstract,
		Virtual:    sym.Virtual,
	}
	if sym.Declaring != nil {
		s.DeclaringID = ID(sym.Declaring)
	}
	return s
}

// SummarizeAll renders summaries for a slice of symbols, preserving
// order.
func SummarizeAll(syms []*assembly.Symbol) []Summary {
	out := make([]Summary, len(syms))
	for i, sym := range syms {
		out[i] = Summarize(sym)
	}
	return out
}

// Signature renders a one-line C# declaration for a symbol, the way a
// reader would see it in source.
func Signature(sym *assembly.Symbol) string {
	switch sym.Kind {
	case assembly.KindNamespace:
		return "namespace " + sym.FullName
	case assembly.KindType:
		return typeSignature(sym)
	case assembly.KindMethod:
		return methodSignature(sym)
	case assembly.KindField:
		return modifiers(sym) + csharp.TypeName(sym.Type) + " " + sym.Name
	case assembly.KindProperty:
		return modifiers(sym) + csharp.TypeName(sym.Type) + " " + sym.Name + " " + accessors(sym)
	default:
		return modifiers(sym) + "event " + csharp.TypeName(sym.Type) + " " + sym.Name
	}
}

// modifiers renders the leading visibility and static keywords,
// including a trailing space when non-empty.
func modifiers(sym *assembly.Symbol) string {
	var b strings.Builder
	if sym.Visibility != "" {
		b.WriteString(sym.Visibility)
		b.WriteByte(' ')
	}
	if sym.Static {
		b.WriteString("static ")
	}
	return b.String()
}

func typeSignature(sym *assembly.Symbol) string {
	var b strings.Builder
	b.WriteString(modifiers(sym))
	if sym.Abstract && sym.Category == "class" && !sym.Static {
		b.WriteString("abstract ")
	}
	category := sym.Category
	if category == "" {
		category = "class"
	}
	b.WriteString(category)
	b.WriteByte(' ')
	b.WriteString(csharp.SimpleName(sym.FullName))
	b.WriteString(typeParams(sym.GenericArity))
	if !sym.Base.IsZero() && sym.Base.Name != "System.Object" {
		b.WriteString(" : ")
		b.WriteString(csharp.TypeName(sym.Base))
	}
	return b.String()
}

func methodSignature(sym *assembly.Symbol) string {
	if sym.IsConstructor() {
		return ctorSignature(sym)
	}

	var b strings.Builder
	b.WriteString(modifiers(sym))
	switch {
	case sym.Abstract:
		b.WriteString("abstract ")
	case sym.Virtual:
		b.WriteString("virtual ")
	}
	b.WriteString(csharp.TypeName(sym.Return))
	b.WriteByte(' ')
	b.WriteString(sym.Name)
	b.WriteString(typeParams(sym.GenericArity))
	b.WriteByte('(')
	b.WriteString(paramList(sym.Params))
	b.WriteByte(')')
	return b.String()
}

func ctorSignature(sym *assembly.Symbol) string {
	name := sym.Name
	if sym.Declaring != nil {
		name = bareTypeName(sym.Declaring)
	}
	if sym.IsStaticConstructor() {
		return "static " + name + "()"
	}
	return modifiers(sym) + name + "(" + paramList(sym.Params) + ")"
}

// bareTypeName returns just the type's own name with any backtick
// arity stripped: "Bag`1" renders as "Bag", nested "Inner" stays
// "Inner".
func bareTypeName(typ *assembly.Symbol) string {
	name := typ.Name
	if i := strings.IndexByte(name, '`'); i > 0 {
		name = name[:i]
	}
	return name
}

func paramList(params []assembly.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		var b strings.Builder
		if p.Type.ByRef {
			b.WriteString("ref ")
		}
		b.WriteString(csharp.TypeName(p.Type))
		if p.Name != "" {
			b.WriteByte(' ')
			b.WriteString(p.Name)
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, ", ")
}

// typeParams renders placeholder generic parameters for a definition
// with the given arity. Real parameter names are not part of the dump,
// so the conventional T / T1..Tn stand in.
func typeParams(arity int) string {
	switch {
	case arity <= 0:
		return ""
	case arity == 1:
		return "<T>"
	default:
		parts := make([]string, arity)
		for i := range parts {
			parts[i] = fmt.Sprintf("T%d", i+1)
		}
		return "<" + strings.Join(parts, ", ") + ">"
	}
}

func accessors(sym *assembly.Symbol) string {
	switch {
	case sym.CanRead && !sym.CanWrite:
		return "{ get; }"
	case sym.CanWrite && !sym.CanRead:
		return "{ set; }"
	default:
		return "{ get; set; }"
	}
}
