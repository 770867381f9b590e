package harmony

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ilprobe/ilprobe/internal/assembly"
	"github.com/ilprobe/ilprobe/internal/constants"
	"github.com/ilprobe/ilprobe/internal/csharp"
	"github.com/ilprobe/ilprobe/internal/errs"
	"github.com/ilprobe/ilprobe/internal/resolver"
	"github.com/ilprobe/ilprobe/pkg/version"
)

// Options configure the generated code.
type Options struct {
	// Namespace is the C# namespace the patch class lives in.
	Namespace string

	// Domain is the Harmony instance id the Apply helper uses.
	Domain string
}

// Generator emits patch skeletons for methods.
type Generator struct {
	opts   Options
	logger zerolog.Logger
}

// NewGenerator creates a generator. Empty options fall back to the
// package defaults.
func NewGenerator(opts Options, logger zerolog.Logger) *Generator {
	if opts.Namespace == "" {
		opts.Namespace = constants.DefaultPatchNamespace
	}
	if opts.Domain == "" {
		opts.Domain = constants.DefaultHarmonyDomain
	}
	return &Generator{
		opts:   opts,
		logger: logger.With().Str("component", "harmony").Logger(),
	}
}

// Result describes one generated skeleton.
type Result struct {
	TargetID  string   `json:"target_id"`
	Target    string   `json:"target"`
	ClassName string   `json:"class_name"`
	FileName  string   `json:"file_name"`
	Hooks     []string `json:"hooks"`
	Notes     []string `json:"notes,omitempty"`
	Source    string   `json:"source"`
}

// Generate emits a patch skeleton for a method symbol. The skeleton
// compiles as-is against HarmonyLib; hook bodies are left for the
// caller to fill in. With precise targeting the class binds its target
// in TargetMethod() through AccessTools, which disambiguates overloads;
// otherwise a [HarmonyPatch(typeof(T), "Name")] attribute matches by
// name alone.
func (g *Generator) Generate(sym *assembly.Symbol, hooks []HookKind, precise bool) (*Result, error) {
	if sym.Kind != assembly.KindMethod {
		return nil, fmt.Errorf("cannot patch a %s, only methods: %w", sym.Kind, errs.ErrWrongSymbolKind)
	}
	if sym.Declaring == nil {
		return nil, fmt.Errorf("method %s has no declaring type: %w", sym.FullName, errs.ErrGenerationFailed)
	}
	if len(hooks) == 0 {
		return nil, fmt.Errorf("no recognized hook kinds: %w", errs.ErrGenerationFailed)
	}

	className := csharp.Identifier(csharp.SimpleName(sym.Declaring.FullName)) +
		"_" + csharp.Identifier(sym.Name) + "_Patch"

	res := &Result{
		TargetID:  resolver.ID(sym),
		Target:    resolver.Signature(sym),
		ClassName: className,
		FileName:  className + ".cs",
		Hooks:     HookNames(hooks),
		Notes:     g.notes(sym, hooks, precise),
		Source:    g.render(sym, hooks, precise, className),
	}

	g.logger.Debug().
		Str("target", res.TargetID).
		Str("class", className).
		Strs("hooks", res.Hooks).
		Bool("precise", precise).
		Msg("Generated patch skeleton")

	return res, nil
}

// notes collects advisory lines: one per generated hook, then lines
// describing how the skeleton was shaped by the target's signature.
func (g *Generator) notes(sym *assembly.Symbol, hooks []HookKind, precise bool) []string {
	var notes []string

	for _, hook := range hooks {
		notes = append(notes, "generated "+string(hook)+" hook")
	}

	switch {
	case sym.IsStaticConstructor():
		notes = append(notes, "static constructor: hooks run around the type initializer")
	case sym.IsConstructor():
		notes = append(notes, "constructor: hooks run around instance construction")
	}

	if sym.Static {
		notes = append(notes, "static method: no __instance parameter is injected")
	} else {
		notes = append(notes, fmt.Sprintf(
			"instance method: hooks receive the receiver as %s __instance",
			receiverType(sym.Declaring)))
	}

	if !sym.IsVoid() {
		notes = append(notes, fmt.Sprintf(
			"non-void return: Postfix may rewrite the result through ref %s __result",
			csharp.TypeName(sym.Return)))
	}

	if names := positionalNames(sym.Params); len(names) > 0 {
		notes = append(notes, "unnamed parameters are injected by position: "+strings.Join(names, ", "))
	}

	if isGenericTarget(sym) {
		notes = append(notes, "generic target: Harmony binds the generic definition, confirm type arguments at runtime")
	}

	if precise {
		notes = append(notes, "precise targeting: TargetMethod() binds the exact overload by parameter types")
	} else if overloaded(sym) {
		notes = append(notes, fmt.Sprintf(
			"%s is overloaded: name-only targeting is ambiguous, prefer precise targeting", sym.Name))
	}

	return notes
}

func isGenericTarget(sym *assembly.Symbol) bool {
	if sym.GenericArity > 0 || sym.Declaring.GenericArity > 0 {
		return true
	}
	for _, p := range sym.Params {
		if csharp.HasGenericParams(p.Type) {
			return true
		}
	}
	return csharp.HasGenericParams(sym.Return)
}

// positionalNames returns the injected names for parameters the dump
// carries without names.
func positionalNames(params []assembly.Param) []string {
	var names []string
	for i, p := range params {
		if p.Name == "" {
			names = append(names, "__"+strconv.Itoa(i))
		}
	}
	return names
}

func overloaded(sym *assembly.Symbol) bool {
	count := 0
	for _, m := range sym.Declaring.Members {
		if m.Kind == assembly.KindMethod && m.Name == sym.Name {
			count++
		}
	}
	return count > 1
}

func (g *Generator) render(sym *assembly.Symbol, hooks []HookKind, precise bool, className string) string {
	var b strings.Builder

	b.WriteString("// <auto-generated>\n")
	fmt.Fprintf(&b, "// Harmony patch skeleton generated by %s.\n", version.Short())
	fmt.Fprintf(&b, "// Target: %s in %s\n", resolver.Signature(sym), declaringDisplay(sym.Declaring))
	b.WriteString("// </auto-generated>\n\n")

	for _, ns := range g.usings(sym, hooks, precise) {
		fmt.Fprintf(&b, "using %s;\n", ns)
	}

	fmt.Fprintf(&b, "\nnamespace %s\n{\n", g.opts.Namespace)
	if precise {
		b.WriteString("    [HarmonyPatch]\n")
	} else {
		b.WriteString("    " + attributeTargeting(sym) + "\n")
	}
	fmt.Fprintf(&b, "    public static class %s\n    {\n", className)

	b.WriteString("        // Call once from the mod entry point.\n")
	b.WriteString("        public static void Apply()\n")
	b.WriteString("        {\n")
	fmt.Fprintf(&b, "            new Harmony(\"%s\").CreateClassProcessor(typeof(%s)).Patch();\n",
		g.opts.Domain, className)
	b.WriteString("        }\n")

	if precise {
		b.WriteString("\n        static MethodBase TargetMethod()\n")
		b.WriteString("        {\n")
		fmt.Fprintf(&b, "            return %s;\n", accessToolsLookup(sym))
		b.WriteString("        }\n")
	}

	for _, hook := range hooks {
		b.WriteString("\n")
		writeHook(&b, sym, hook)
	}

	b.WriteString("    }\n}\n")
	return b.String()
}

// usings collects the namespaces the generated file needs, System
// namespaces first, each group sorted.
func (g *Generator) usings(sym *assembly.Symbol, hooks []HookKind, precise bool) []string {
	set := map[string]struct{}{
		"System":     {},
		"HarmonyLib": {},
	}
	if precise {
		set["System.Reflection"] = struct{}{}
	}
	for _, hook := range hooks {
		if hook == HookTranspiler {
			set["System.Collections.Generic"] = struct{}{}
		}
	}
	if ns := sym.Declaring.Namespace; ns != "" {
		set[ns] = struct{}{}
	}
	for _, p := range sym.Params {
		csharp.Namespaces(p.Type, set)
	}
	if !sym.IsVoid() {
		csharp.Namespaces(sym.Return, set)
	}
	delete(set, g.opts.Namespace)

	var system, rest []string
	for ns := range set {
		if ns == "System" || strings.HasPrefix(ns, "System.") {
			system = append(system, ns)
		} else {
			rest = append(rest, ns)
		}
	}
	sort.Strings(system)
	sort.Strings(rest)
	return append(system, rest...)
}

func attributeTargeting(sym *assembly.Symbol) string {
	typeExpr := "typeof(" + openTypeName(sym.Declaring) + ")"
	switch {
	case sym.IsStaticConstructor():
		return fmt.Sprintf("[HarmonyPatch(%s, MethodType.StaticConstructor)]", typeExpr)
	case sym.IsConstructor():
		return fmt.Sprintf("[HarmonyPatch(%s, MethodType.Constructor)]", typeExpr)
	default:
		return fmt.Sprintf("[HarmonyPatch(%s, %q)]", typeExpr, sym.Name)
	}
}

func accessToolsLookup(sym *assembly.Symbol) string {
	typeExpr := "typeof(" + openTypeName(sym.Declaring) + ")"
	switch {
	case sym.IsStaticConstructor():
		return fmt.Sprintf("AccessTools.Constructor(%s, searchForStatic: true)", typeExpr)
	case sym.IsConstructor():
		return fmt.Sprintf("AccessTools.Constructor(%s, %s)", typeExpr, typeArray(sym.Params))
	default:
		return fmt.Sprintf("AccessTools.Method(%s, %q, %s)", typeExpr, sym.Name, typeArray(sym.Params))
	}
}

// openTypeName renders the typeof operand for a declaring type.
// Generic definitions use the open form: Bag`1 becomes Bag<>, Pair`2
// becomes Pair<,>.
func openTypeName(typ *assembly.Symbol) string {
	name := csharp.SimpleName(typ.FullName)
	if typ.GenericArity > 0 {
		name += "<" + strings.Repeat(",", typ.GenericArity-1) + ">"
	}
	return name
}

// declaringDisplay is the namespace-qualified form used in the header
// comment.
func declaringDisplay(typ *assembly.Symbol) string {
	name := openTypeName(typ)
	if typ.Namespace != "" {
		return typ.Namespace + "." + name
	}
	return name
}

func typeArray(params []assembly.Param) string {
	if len(params) == 0 {
		return "Type.EmptyTypes"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		expr := "typeof(" + csharp.TypeName(p.Type) + ")"
		if p.Type.ByRef {
			expr += ".MakeByRefType()"
		}
		parts[i] = expr
	}
	return "new Type[] { " + strings.Join(parts, ", ") + " }"
}

func writeHook(b *strings.Builder, sym *assembly.Symbol, hook HookKind) {
	switch hook {
	case HookPrefix:
		fmt.Fprintf(b, "        static bool Prefix(%s)\n", strings.Join(hookParams(sym, false), ", "))
		b.WriteString("        {\n")
		b.WriteString("            // Return false to skip the original method.\n")
		b.WriteString("            return true;\n")
		b.WriteString("        }\n")
	case HookPostfix:
		fmt.Fprintf(b, "        static void Postfix(%s)\n", strings.Join(hookParams(sym, true), ", "))
		b.WriteString("        {\n")
		b.WriteString("        }\n")
	case HookTranspiler:
		b.WriteString("        static IEnumerable<CodeInstruction> Transpiler(IEnumerable<CodeInstruction> instructions)\n")
		b.WriteString("        {\n")
		b.WriteString("            // Rewrite the instruction stream here.\n")
		b.WriteString("            return instructions;\n")
		b.WriteString("        }\n")
	case HookFinalizer:
		fmt.Fprintf(b, "        static Exception Finalizer(%s)\n", strings.Join(finalizerParams(sym), ", "))
		b.WriteString("        {\n")
		b.WriteString("            // Return null to suppress a thrown exception.\n")
		b.WriteString("            return __exception;\n")
		b.WriteString("        }\n")
	}
}

// hookParams renders the parameter list for a Prefix or Postfix hook:
// the receiver (instance targets only), the target's own parameters,
// and for Postfix on a non-void target the writable result.
func hookParams(sym *assembly.Symbol, withResult bool) []string {
	var parts []string
	if !sym.Static {
		parts = append(parts, receiverType(sym.Declaring)+" __instance")
	}
	for i, p := range sym.Params {
		name := "__" + strconv.Itoa(i)
		if p.Name != "" {
			name = csharp.Identifier(p.Name)
		}
		decl := csharp.TypeName(p.Type) + " " + name
		if p.Type.ByRef {
			decl = "ref " + decl
		}
		parts = append(parts, decl)
	}
	if withResult && !sym.IsVoid() {
		parts = append(parts, "ref "+csharp.TypeName(sym.Return)+" __result")
	}
	return parts
}

// finalizerParams renders the parameter list for a Finalizer hook: the
// receiver (instance targets only), the writable result (non-void
// targets only), and always the thrown exception.
func finalizerParams(sym *assembly.Symbol) []string {
	var parts []string
	if !sym.Static {
		parts = append(parts, receiverType(sym.Declaring)+" __instance")
	}
	if !sym.IsVoid() {
		parts = append(parts, "ref "+csharp.TypeName(sym.Return)+" __result")
	}
	return append(parts, "Exception __exception")
}

// receiverType renders the __instance parameter type. A generic
// declaring type has no closed name the patch class could utter, so
// object stands in.
func receiverType(typ *assembly.Symbol) string {
	if typ.GenericArity > 0 {
		return "object"
	}
	return csharp.SimpleName(typ.FullName)
}
