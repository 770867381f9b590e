package testutil

import (
	"testing"

	"github.com/ilprobe/ilprobe/internal/assembly"
)

// SampleDump returns a dump document for a small fictional assembly.
// The fixture exercises the shapes the tooling cares about: overloaded
// methods, instance and static constructors, by-ref and unnamed
// parameters, generic types and methods, nested types, and non-method
// members. Acme.Widget carries decompiled source, Acme.Collections.Special.Sorter
// deliberately does not.
func SampleDump() []byte {
	return []byte(sampleDump)
}

// NewTestSnapshot parses SampleDump into a loaded snapshot.
func NewTestSnapshot(t *testing.T) *assembly.Snapshot {
	t.Helper()
	snap, err := assembly.Parse(SampleDump())
	if err != nil {
		t.Fatalf("parse sample dump: %v", err)
	}
	return snap
}

// FindType returns the fixture type with the given full name.
func FindType(t *testing.T, snap *assembly.Snapshot, fullName string) *assembly.Symbol {
	t.Helper()
	for _, typ := range snap.Types() {
		if typ.FullName == fullName {
			return typ
		}
	}
	t.Fatalf("type %s not in fixture", fullName)
	return nil
}

// FindNamespace returns the fixture namespace with the given full name.
func FindNamespace(t *testing.T, snap *assembly.Snapshot, fullName string) *assembly.Symbol {
	t.Helper()
	for _, ns := range snap.Namespaces() {
		if ns.FullName == fullName {
			return ns
		}
	}
	t.Fatalf("namespace %s not in fixture", fullName)
	return nil
}

// FindMember returns the first member of the given kind and name.
func FindMember(t *testing.T, typ *assembly.Symbol, kind assembly.Kind, name string) *assembly.Symbol {
	t.Helper()
	for _, m := range typ.Members {
		if m.Kind == kind && m.Name == name {
			return m
		}
	}
	t.Fatalf("%s %s not on %s", kind, name, typ.FullName)
	return nil
}

// FindMethod returns a method by name, using the parameter count to
// pick between overloads.
func FindMethod(t *testing.T, typ *assembly.Symbol, name string, paramCount int) *assembly.Symbol {
	t.Helper()
	for _, m := range typ.Members {
		if m.Kind == assembly.KindMethod && m.Name == name && len(m.Params) == paramCount {
			return m
		}
	}
	t.Fatalf("method %s/%d not on %s", name, paramCount, typ.FullName)
	return nil
}

const sampleDump = `{
  "format": 1,
  "assembly": {
    "name": "Acme.Widgets",
    "version": "1.2.3.0",
    "runtime": "v4.0.30319",
    "path": "Managed/Acme.Widgets.dll"
  },
  "types": [
    {
      "full_name": "Acme.Widget",
      "category": "class",
      "visibility": "public",
      "base": "System.Object",
      "source": "using System;\n\nnamespace Acme\n{\n    public class Widget\n    {\n        private int count;\n\n        public string Name { get; set; }\n\n        public event EventHandler Changed;\n\n        public Widget(string name)\n        {\n            Name = name;\n        }\n\n        public int Compute(string name)\n        {\n            return name.Length + count;\n        }\n\n        public int Compute(string name, int count)\n        {\n            return name.Length + count;\n        }\n\n        public void Reset()\n        {\n            count = 0;\n        }\n\n        public static string Describe()\n        {\n            return \"widget\";\n        }\n    }\n}\n",
      "methods": [
        {
          "name": ".ctor",
          "visibility": "public",
          "returns": "System.Void",
          "params": [
            { "name": "name", "type": "System.String" }
          ]
        },
        {
          "name": ".cctor",
          "visibility": "private",
          "static": true,
          "returns": "System.Void"
        },
        {
          "name": "Compute",
          "visibility": "public",
          "returns": "System.Int32",
          "params": [
            { "name": "name", "type": "System.String" }
          ]
        },
        {
          "name": "Compute",
          "visibility": "public",
          "returns": "System.Int32",
          "params": [
            { "name": "name", "type": "System.String" },
            { "name": "count", "type": "System.Int32" }
          ]
        },
        {
          "name": "Reset",
          "visibility": "public",
          "returns": "System.Void"
        },
        {
          "name": "Describe",
          "visibility": "public",
          "static": true,
          "returns": "System.String"
        },
        {
          "name": "TryParse",
          "visibility": "public",
          "static": true,
          "returns": "System.Boolean",
          "params": [
            { "name": "text", "type": "System.String" },
            { "name": "result", "type": "System.Int32@" }
          ]
        },
        {
          "name": "Tag",
          "visibility": "public",
          "generic_arity": 1,
          "returns": "System.Void",
          "params": [
            { "name": "label", "type": "System.String" }
          ]
        },
        {
          "name": "Blend",
          "visibility": "internal",
          "returns": "System.Double",
          "params": [
            { "type": "System.Double" },
            { "type": "System.Double" }
          ]
        }
      ],
      "fields": [
        { "name": "count", "visibility": "private", "type": "System.Int32" }
      ],
      "properties": [
        { "name": "Name", "visibility": "public", "type": "System.String", "get": true, "set": true }
      ],
      "events": [
        { "name": "Changed", "visibility": "public", "type": "System.EventHandler" }
      ]
    },
    {
      "full_name": "Acme.Widget+Inner",
      "category": "class",
      "visibility": "public",
      "methods": [
        {
          "name": "Run",
          "visibility": "public",
          "returns": "System.Void"
        }
      ]
    },
    {
      "full_name": "Acme.Shape",
      "category": "class",
      "visibility": "public",
      "abstract": true,
      "methods": [
        {
          "name": "Area",
          "visibility": "public",
          "abstract": true,
          "returns": "System.Double"
        },
        {
          "name": "Scale",
          "visibility": "public",
          "virtual": true,
          "returns": "System.Void",
          "params": [
            { "name": "factor", "type": "System.Double" }
          ]
        }
      ]
    },
    {
      "full_name": "Acme.Collections.Bag` + "`1" + `",
      "category": "class",
      "visibility": "public",
      "generic_arity": 1,
      "methods": [
        {
          "name": "Add",
          "visibility": "public",
          "returns": "System.Void",
          "params": [
            { "name": "item", "type": "` + "`0" + `" }
          ]
        },
        {
          "name": "Count",
          "visibility": "public",
          "returns": "System.Int32"
        }
      ]
    },
    {
      "full_name": "Acme.Collections.Special.Sorter",
      "category": "class",
      "visibility": "public",
      "methods": [
        {
          "name": "Arrange",
          "visibility": "public",
          "returns": "System.Collections.Generic.Dictionary` + "`2" + `{System.String,System.Int32}",
          "params": [
            { "name": "items", "type": "System.Collections.Generic.List` + "`1" + `{System.String}" }
          ]
        }
      ]
    }
  ]
}`
