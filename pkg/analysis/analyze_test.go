package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrolabs/ferroscope/pkg/lang"
)

func parse(t *testing.T, src string) *lang.File {
	t.Helper()
	file, err := lang.Parse(src)
	require.Nil(t, err)
	return file
}

func TestCollectFunctions_Simple(t *testing.T) {
	file := parse(t, `fn f() { print("hi") }`)
	funcs := CollectFunctions("f.rs", file)
	require.Len(t, funcs, 1)
	f := funcs[0]
	assert.Equal(t, "f", f.Name)
	assert.Equal(t, 0, f.ParameterCount)
	assert.Equal(t, 1, f.LineCount)
	assert.Equal(t, 1, f.CyclomaticComplexity)
	assert.True(t, f.Callees["print"])
}

func TestCollectFunctions_ComplexityCounts(t *testing.T) {
	file := parse(t, `
fn classify(n: i32) -> i32 {
	if n > 0 && n < 10 {
		return 1;
	} else if n == 0 {
		return 0;
	} else {
		return -1;
	}
}
`)
	funcs := CollectFunctions("f.rs", file)
	require.Len(t, funcs, 1)
	// if (+1) + && (+1) + else-if (+1) = 3, base 1 => 4
	assert.Equal(t, 4, funcs[0].CyclomaticComplexity)
}

func TestCollectFunctions_MatchArms(t *testing.T) {
	file := parse(t, `
fn f(n: i32) -> i32 {
	match n {
		0 => 0,
		1 => 1,
		_ => -1,
	}
}
`)
	funcs := CollectFunctions("f.rs", file)
	// base 1 + 2 arms beyond the first = 3
	assert.Equal(t, 3, funcs[0].CyclomaticComplexity)
}

func TestCollectFunctions_DeclarationOnly(t *testing.T) {
	file := parse(t, `fn external(x: i32) -> i32;`)
	funcs := CollectFunctions("f.rs", file)
	require.Len(t, funcs, 1)
	assert.Equal(t, 0, funcs[0].LineCount)
	assert.Equal(t, 1, funcs[0].CyclomaticComplexity)
}

func TestCollectFunctions_ClosureNotItsOwnNode(t *testing.T) {
	file := parse(t, `
fn outer() {
	let adder = |x| helper(x);
	adder(1);
}
`)
	funcs := CollectFunctions("f.rs", file)
	require.Len(t, funcs, 1)
	assert.Equal(t, "outer", funcs[0].Name)
	assert.True(t, funcs[0].Callees["helper"])
	assert.True(t, funcs[0].Callees["adder"])
}

func TestCollectFunctions_NestedFunctionIsFirstClass(t *testing.T) {
	file := parse(t, `
fn outer() {
	fn inner() {
		helper();
	}
	inner();
}
`)
	funcs := CollectFunctions("f.rs", file)
	require.Len(t, funcs, 2)
	names := map[string]*funcRecordView{}
	for _, f := range funcs {
		names[f.Name] = &funcRecordView{callees: f.Callees}
	}
	require.Contains(t, names, "outer")
	require.Contains(t, names, "inner")
	assert.True(t, names["outer"].callees["inner"])
	assert.False(t, names["outer"].callees["helper"], "inner's call should not leak into outer")
	assert.True(t, names["inner"].callees["helper"])
}

type funcRecordView struct {
	callees map[string]bool
}

func TestCollectStructsAndEnums(t *testing.T) {
	file := parse(t, `
struct Point { x: i32, y: i32 }
enum Shape { Circle(f64), Empty }
`)
	structs := CollectStructs("f.rs", file)
	enums := CollectEnums("f.rs", file)
	require.Len(t, structs, 1)
	require.Len(t, enums, 1)
	assert.Equal(t, 2, structs[0].FieldCount)
	assert.Equal(t, 2, enums[0].VariantCount)
}

func TestCollectModule_Imports(t *testing.T) {
	file := parse(t, `
use crate::util::helper;
mod inner {
	use crate::other::thing;
}
`)
	mod := CollectModule("f.rs", file)
	assert.True(t, mod.Imports["crate::util::helper"])
	assert.True(t, mod.Imports["crate::other::thing"])
}

func TestCollectTypeUses_FieldAndParam(t *testing.T) {
	file := parse(t, `
struct Engine { cylinders: i32 }
fn build(e: Engine) -> Engine {
	let x: Engine = e;
	e
}
`)
	uses := CollectTypeUses("f.rs", file)
	var fieldUses, paramUses, returnUses, letUses int
	for _, u := range uses {
		if u.Name != "Engine" {
			continue
		}
		switch u.Context {
		case "field":
			fieldUses++
		case "param":
			paramUses++
			assert.Equal(t, "build", u.OwnerFunction)
		case "return":
			returnUses++
			assert.Equal(t, "build", u.OwnerFunction)
		case "let":
			letUses++
			assert.Equal(t, "build", u.OwnerFunction)
		}
	}
	assert.Equal(t, 0, fieldUses) // Engine's own field is "cylinders: i32", not itself
	assert.Equal(t, 1, paramUses)
	assert.Equal(t, 1, returnUses)
	assert.Equal(t, 1, letUses)
}

func TestCollectCallSites_ScopedToEnclosingFunction(t *testing.T) {
	file := parse(t, `
fn a() { b(); }
fn c() { b(); }
`)
	sites := CollectCallSites("f.rs", file)
	require.Len(t, sites, 2)
	callers := map[string]bool{}
	for _, s := range sites {
		assert.Equal(t, "b", s.Callee)
		callers[s.Caller] = true
	}
	assert.True(t, callers["a"])
	assert.True(t, callers["c"])
}
