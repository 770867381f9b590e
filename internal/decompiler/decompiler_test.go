package decompiler

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilprobe/ilprobe/internal/assembly"
	"github.com/ilprobe/ilprobe/internal/errs"
	"github.com/ilprobe/ilprobe/internal/testutil"
)

func TestDecompileType(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")

	res, err := Decompile(snap, widget)
	require.NoError(t, err)

	assert.Equal(t, "T:Acme.Widget", res.TypeID)
	assert.Equal(t, "Acme.Widget", res.TypeName)
	assert.Contains(t, res.Source, "public class Widget")

	want, ok := snap.Source("Acme.Widget")
	require.True(t, ok)
	assert.Equal(t, want, res.Source)
	assert.Equal(t, strings.Count(want, "\n"), res.Lines)
	assert.Equal(t, Hash(want), res.Hash)
}

func TestDecompileMemberMapsToDeclaringType(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	widget := testutil.FindType(t, snap, "Acme.Widget")

	for _, sym := range []*assembly.Symbol{
		testutil.FindMethod(t, widget, "Compute", 2),
		testutil.FindMember(t, widget, assembly.KindField, "count"),
		testutil.FindMember(t, widget, assembly.KindProperty, "Name"),
		testutil.FindMember(t, widget, assembly.KindEvent, "Changed"),
	} {
		res, err := Decompile(snap, sym)
		require.NoError(t, err, sym.FullName)
		assert.Equal(t, "Acme.Widget", res.TypeName, sym.FullName)
	}
}

func TestDecompileNestedTypeFallsBackToOuter(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	inner := testutil.FindType(t, snap, "Acme.Widget+Inner")

	res, err := Decompile(snap, inner)
	require.NoError(t, err)
	assert.Equal(t, "T:Acme.Widget", res.TypeID)
	assert.Equal(t, "Acme.Widget", res.TypeName)

	// Members of the nested type take the same route.
	run := testutil.FindMethod(t, inner, "Run", 0)
	res, err = Decompile(snap, run)
	require.NoError(t, err)
	assert.Equal(t, "Acme.Widget", res.TypeName)
}

func TestDecompileNamespace(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	ns := testutil.FindNamespace(t, snap, "Acme")

	_, err := Decompile(snap, ns)
	assert.ErrorIs(t, err, errs.ErrWrongSymbolKind)
}

func TestDecompileMissingSource(t *testing.T) {
	snap := testutil.NewTestSnapshot(t)
	sorter := testutil.FindType(t, snap, "Acme.Collections.Special.Sorter")

	_, err := Decompile(snap, sorter)
	assert.ErrorIs(t, err, errs.ErrNoSource)

	// Same for its members.
	arrange := testutil.FindMethod(t, sorter, "Arrange", 1)
	_, err = Decompile(snap, arrange)
	assert.ErrorIs(t, err, errs.ErrNoSource)
}

func TestHash(t *testing.T) {
	format := regexp.MustCompile(`^xxh3:[0-9a-f]{16}$`)

	a := Hash("using System;")
	b := Hash("using System.IO;")
	assert.Regexp(t, format, a)
	assert.Regexp(t, format, b)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Hash("using System;"))
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines(""))
	assert.Equal(t, 1, countLines("one"))
	assert.Equal(t, 1, countLines("one\n"))
	assert.Equal(t, 3, countLines("a\nb\nc\n"))
	assert.Equal(t, 3, countLines("a\nb\nc"))
}
