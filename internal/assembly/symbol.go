// Package assembly models the symbol graph of a loaded .NET assembly.
//
// A Snapshot is built once from a metadata dump and never mutated
// afterwards; everything downstream (the resolver index, the skeleton
// generator) reads it concurrently without locks.
package assembly

// Kind identifies which variety of symbol a Symbol carries.
type Kind int

const (
	KindNamespace Kind = iota
	KindType
	KindMethod
	KindField
	KindProperty
	KindEvent
)

var kindNames = map[Kind]string{
	KindNamespace: "namespace",
	KindType:      "type",
	KindMethod:    "method",
	KindField:     "field",
	KindProperty:  "property",
	KindEvent:     "event",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Prefix returns the one-letter symbol id prefix for the kind, following
// the .NET documentation-comment id convention.
func (k Kind) Prefix() string {
	switch k {
	case KindNamespace:
		return "N"
	case KindType:
		return "T"
	case KindMethod:
		return "M"
	case KindField:
		return "F"
	case KindProperty:
		return "P"
	case KindEvent:
		return "E"
	}
	return "?"
}

// ParseKind maps a kind name ("method", "field", ...) back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Param is one formal parameter of a method.
type Param struct {
	// Name is empty when the exporter could not recover a parameter name.
	Name string
	Type TypeRef
}

// Symbol is one named entity from a loaded assembly: a namespace, a
// type, or a type member. It is a tagged variant: Kind selects which of
// the remaining fields are meaningful.
type Symbol struct {
	Kind Kind

	// Name is the simple name ("Compute", "Widget", "Collections").
	// Constructors keep their metadata names ".ctor" / ".cctor".
	Name string

	// FullName is the fully qualified name. Nested types keep the CLR
	// '+' separator ("Acme.Widget+Inner"); members append their simple
	// name to the declaring type's FullName.
	FullName string

	// Namespace is the containing namespace, empty for the global one.
	Namespace string

	// Declaring is the declaring type for members and nested types,
	// nil for namespaces and top-level types.
	Declaring *Symbol

	Visibility string
	Static     bool
	Abstract   bool
	Virtual    bool

	// Category distinguishes class/struct/interface/enum/delegate for
	// type symbols.
	Category string

	// Base is the base type of a type symbol; zero when absent.
	Base TypeRef

	// GenericArity is the number of generic parameters declared by a
	// type or method definition.
	GenericArity int

	// Params and Return carry a method's signature.
	Params []Param
	Return TypeRef

	// Type is the field, property, or event type.
	Type TypeRef

	// CanRead and CanWrite report property accessors.
	CanRead  bool
	CanWrite bool

	// Members lists the symbols declared by a type, in dump order.
	Members []*Symbol
}

// IsVoid reports whether a method symbol returns void.
func (s *Symbol) IsVoid() bool {
	return s.Return.Name == "System.Void"
}

// IsConstructor reports whether a method symbol is an instance or
// static constructor.
func (s *Symbol) IsConstructor() bool {
	return s.Kind == KindMethod && (s.Name == ".ctor" || s.Name == ".cctor")
}

// IsStaticConstructor reports whether a method symbol is a type
// initializer.
func (s *Symbol) IsStaticConstructor() bool {
	return s.Kind == KindMethod && s.Name == ".cctor"
}
