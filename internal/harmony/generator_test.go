package harmony

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilprobe/ilprobe/internal/assembly"
	"github.com/ilprobe/ilprobe/internal/errs"
	"github.com/ilprobe/ilprobe/internal/testutil"
	"github.com/ilprobe/ilprobe/pkg/version"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	return NewGenerator(Options{}, testutil.NewTestLogger(t))
}

const computeSkeleton = `// <auto-generated>
// Harmony patch skeleton generated by %s.
// Target: public int Compute(string name) in Acme.Widget
// </auto-generated>

using System;
using System.Reflection;
using Acme;
using HarmonyLib;

namespace IlprobePatches
{
    [HarmonyPatch]
    public static class Widget_Compute_Patch
    {
        // Call once from the mod entry point.
        public static void Apply()
        {
            new Harmony("com.ilprobe.patch").CreateClassProcessor(typeof(Widget_Compute_Patch)).Patch();
        }

        static MethodBase TargetMethod()
        {
            return AccessTools.Method(typeof(Widget), "Compute", new Type[] { typeof(string) });
        }

        static bool Prefix(Widget __instance, string name)
        {
            // Return false to skip the original method.
            return true;
        }

        static void Postfix(Widget __instance, string name, ref int __result)
        {
        }
    }
}
`

func TestGenerateInstanceMethod(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	compute := testutil.FindMethod(t, widget, "Compute", 1)

	res, err := newTestGenerator(t).Generate(compute, ParseHooks("Prefix,Postfix"), true)
	require.NoError(t, err)

	assert.Equal(t, "M:Acme.Widget.Compute(System.String)", res.TargetID)
	assert.Equal(t, "public int Compute(string name)", res.Target)
	assert.Equal(t, "Widget_Compute_Patch", res.ClassName)
	assert.Equal(t, "Widget_Compute_Patch.cs", res.FileName)
	assert.Equal(t, []string{"Prefix", "Postfix"}, res.Hooks)

	assert.Equal(t, fmt.Sprintf(computeSkeleton, version.Short()), res.Source)

	// One note per generated hook, ahead of the signature-driven ones.
	require.GreaterOrEqual(t, len(res.Notes), 2)
	assert.Equal(t, "generated Prefix hook", res.Notes[0])
	assert.Equal(t, "generated Postfix hook", res.Notes[1])

	notes := strings.Join(res.Notes, "\n")
	assert.Contains(t, notes, "instance method")
	assert.Contains(t, notes, "non-void return")
	assert.Contains(t, notes, "precise targeting")
	assert.NotContains(t, notes, "static method")
}

func TestGenerateStaticMethod(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	describe := testutil.FindMethod(t, widget, "Describe", 0)

	res, err := newTestGenerator(t).Generate(describe, []HookKind{HookPrefix}, true)
	require.NoError(t, err)

	// No receiver, no parameters.
	assert.Contains(t, res.Source, "static bool Prefix()")
	assert.NotContains(t, res.Source, "__instance")
	assert.Contains(t, res.Source, `AccessTools.Method(typeof(Widget), "Describe", Type.EmptyTypes)`)

	notes := strings.Join(res.Notes, "\n")
	assert.Contains(t, notes, "static method")
	assert.NotContains(t, notes, "instance method")
}

func TestGenerateVoidMethod(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	reset := testutil.FindMethod(t, widget, "Reset", 0)

	res, err := newTestGenerator(t).Generate(reset, []HookKind{HookPostfix}, true)
	require.NoError(t, err)

	assert.Contains(t, res.Source, "static void Postfix(Widget __instance)")
	assert.NotContains(t, res.Source, "__result")
	assert.NotContains(t, strings.Join(res.Notes, "\n"), "non-void")
}

func TestGenerateByRefParameter(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	tryParse := testutil.FindMethod(t, widget, "TryParse", 2)

	res, err := newTestGenerator(t).Generate(tryParse, []HookKind{HookPostfix}, true)
	require.NoError(t, err)

	assert.Contains(t, res.Source, "static void Postfix(string text, ref int result, ref bool __result)")
	assert.Contains(t, res.Source, "typeof(int).MakeByRefType()")
}

func TestGenerateUnnamedParameters(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	blend := testutil.FindMethod(t, widget, "Blend", 2)

	res, err := newTestGenerator(t).Generate(blend, []HookKind{HookPrefix}, true)
	require.NoError(t, err)

	assert.Contains(t, res.Source, "static bool Prefix(Widget __instance, double __0, double __1)")
	assert.Contains(t, strings.Join(res.Notes, "\n"), "__0, __1")
}

func TestGenerateConstructor(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	ctor := testutil.FindMethod(t, widget, ".ctor", 1)
	g := newTestGenerator(t)

	precise, err := g.Generate(ctor, []HookKind{HookPostfix}, true)
	require.NoError(t, err)
	assert.Equal(t, "Widget_ctor_Patch", precise.ClassName)
	assert.Contains(t, precise.Source, "AccessTools.Constructor(typeof(Widget), new Type[] { typeof(string) })")
	assert.Contains(t, precise.Source, "static void Postfix(Widget __instance, string name)")

	simple, err := g.Generate(ctor, []HookKind{HookPostfix}, false)
	require.NoError(t, err)
	assert.Contains(t, simple.Source, "[HarmonyPatch(typeof(Widget), MethodType.Constructor)]")
	assert.NotContains(t, simple.Source, "TargetMethod")

	assert.Contains(t, strings.Join(precise.Notes, "\n"), "constructor")
}

func TestGenerateStaticConstructor(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	cctor := testutil.FindMethod(t, widget, ".cctor", 0)
	g := newTestGenerator(t)

	precise, err := g.Generate(cctor, []HookKind{HookPrefix}, true)
	require.NoError(t, err)
	assert.Equal(t, "Widget_cctor_Patch", precise.ClassName)
	assert.Contains(t, precise.Source, "AccessTools.Constructor(typeof(Widget), searchForStatic: true)")
	assert.Contains(t, precise.Source, "static bool Prefix()")

	simple, err := g.Generate(cctor, []HookKind{HookPrefix}, false)
	require.NoError(t, err)
	assert.Contains(t, simple.Source, "[HarmonyPatch(typeof(Widget), MethodType.StaticConstructor)]")
}

func TestGenerateGenericDeclaringType(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	bag := testutil.FindType(t, snap, "Acme.Collections.Bag`1")
	add := testutil.FindMethod(t, bag, "Add", 1)

	res, err := newTestGenerator(t).Generate(add, ParseHooks("Prefix"), true)
	require.NoError(t, err)

	assert.Equal(t, "Bag_Add_Patch", res.ClassName)
	assert.Contains(t, res.Source, "typeof(Bag<>)")
	// A generic parameter type cannot be named in the patch class.
	assert.Contains(t, res.Source, "static bool Prefix(object __instance, object item)")
	assert.Contains(t, strings.Join(res.Notes, "\n"), "generic target")
}

func TestGenerateGenericMethod(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	tag := testutil.FindMethod(t, widget, "Tag", 1)

	res, err := newTestGenerator(t).Generate(tag, []HookKind{HookPrefix}, true)
	require.NoError(t, err)

	assert.Contains(t, res.Source, `AccessTools.Method(typeof(Widget), "Tag", new Type[] { typeof(string) })`)
	assert.Contains(t, strings.Join(res.Notes, "\n"), "generic target")
}

func TestGenerateSimpleTargeting(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	compute := testutil.FindMethod(t, widget, "Compute", 2)

	res, err := newTestGenerator(t).Generate(compute, []HookKind{HookPrefix}, false)
	require.NoError(t, err)

	assert.Contains(t, res.Source, `[HarmonyPatch(typeof(Widget), "Compute")]`)
	assert.NotContains(t, res.Source, "TargetMethod")
	assert.NotContains(t, res.Source, "using System.Reflection;")
	assert.Contains(t, strings.Join(res.Notes, "\n"), "overloaded")
}

func TestGenerateTranspilerAndFinalizer(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	reset := testutil.FindMethod(t, widget, "Reset", 0)

	res, err := newTestGenerator(t).Generate(reset, ParseHooks("Transpiler,Finalizer"), true)
	require.NoError(t, err)

	assert.Contains(t, res.Source,
		"static IEnumerable<CodeInstruction> Transpiler(IEnumerable<CodeInstruction> instructions)")
	// Reset is an instance method with a void return: the finalizer
	// receives the receiver but no result slot.
	assert.Contains(t, res.Source, "static Exception Finalizer(Widget __instance, Exception __exception)")
	assert.Contains(t, res.Source, "using System.Collections.Generic;")
}

func TestGenerateFinalizerResultSlot(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	compute := testutil.FindMethod(t, widget, "Compute", 1)

	res, err := newTestGenerator(t).Generate(compute, []HookKind{HookFinalizer}, true)
	require.NoError(t, err)

	assert.Contains(t, res.Source,
		"static Exception Finalizer(Widget __instance, ref int __result, Exception __exception)")

	describe := testutil.FindMethod(t, widget, "Describe", 0)
	res, err = newTestGenerator(t).Generate(describe, []HookKind{HookFinalizer}, true)
	require.NoError(t, err)

	// Static non-void target: result slot but no receiver.
	assert.Contains(t, res.Source, "static Exception Finalizer(ref string __result, Exception __exception)")
}

func TestGenerateDropsUnknownHookKinds(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	reset := testutil.FindMethod(t, widget, "Reset", 0)

	res, err := newTestGenerator(t).Generate(reset, ParseHooks("Prefix,Bogus,Postfix"), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Prefix", "Postfix"}, res.Hooks)
}

func TestGenerateWrongKind(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	g := newTestGenerator(t)

	_, err := g.Generate(widget, []HookKind{HookPrefix}, true)
	assert.ErrorIs(t, err, errs.ErrWrongSymbolKind)

	prop := testutil.FindMember(t, widget, assembly.KindProperty, "Name")
	_, err = g.Generate(prop, []HookKind{HookPrefix}, true)
	assert.ErrorIs(t, err, errs.ErrWrongSymbolKind)
}

func TestGenerateNoRecognizedHooks(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	reset := testutil.FindMethod(t, widget, "Reset", 0)

	_, err := newTestGenerator(t).Generate(reset, ParseHooks("Bogus,Nonsense"), true)
	assert.ErrorIs(t, err, errs.ErrGenerationFailed)
}

func TestGenerateCustomOptions(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")
	reset := testutil.FindMethod(t, widget, "Reset", 0)

	g := NewGenerator(Options{Namespace: "MyPatches", Domain: "dev.mymod"}, testutil.NewTestLogger(t))
	res, err := g.Generate(reset, []HookKind{HookPrefix}, true)
	require.NoError(t, err)

	assert.Contains(t, res.Source, "namespace MyPatches")
	assert.Contains(t, res.Source, `new Harmony("dev.mymod")`)
	assert.NotContains(t, res.Source, "IlprobePatches")
}

// Every method in the fixture should yield source that at least looks
// compilable: balanced braces, no leaked IL names, a patch attribute.
func TestGeneratedSourceShape(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	g := newTestGenerator(t)
	all := []HookKind{HookPrefix, HookPostfix, HookTranspiler, HookFinalizer}

	for _, typ := range snap.Types() {
		for _, m := range typ.Members {
			if m.Kind != assembly.KindMethod {
				continue
			}
			for _, precise := range []bool{true, false} {
				res, err := g.Generate(m, all, precise)
				require.NoError(t, err, "%s precise=%v", m.FullName, precise)

				assert.Equal(t,
					strings.Count(res.Source, "{"), strings.Count(res.Source, "}"),
					"unbalanced braces for %s", res.TargetID)
				assert.NotContains(t, res.Source, "`", "IL name leaked for %s", res.TargetID)
				assert.Contains(t, res.Source, "[HarmonyPatch")
				assert.Contains(t, res.Source, "namespace IlprobePatches")
				assert.True(t, strings.HasSuffix(res.FileName, ".cs"))
			}
		}
	}
}
