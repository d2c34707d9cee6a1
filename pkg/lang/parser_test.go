package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleFunction(t *testing.T) {
	src := `fn f() { print("hi") }`
	file, err := Parse(src)
	require.Nil(t, err)
	require.Len(t, file.Items, 1)

	fn, ok := file.Items[0].(*FnItem)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)
	assert.False(t, fn.Public)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Stmts, 1)

	exprStmt, ok := fn.Body.Stmts[0].(*ExprStmt)
	require.True(t, ok)
	call, ok := exprStmt.X.(*CallExpr)
	require.True(t, ok)
	assert.Equal(t, "print", CallHead(call.Callee))
}

func TestParse_StructAndEnum(t *testing.T) {
	src := `
pub struct Point { x: i32, y: i32 }
enum Shape { Circle(f64), Square(f64), Empty }
`
	file, err := Parse(src)
	require.Nil(t, err)
	require.Len(t, file.Items, 2)

	s := file.Items[0].(*StructItem)
	assert.Equal(t, "Point", s.Name)
	assert.True(t, s.Public)
	assert.Len(t, s.Fields, 2)

	e := file.Items[1].(*EnumItem)
	assert.Equal(t, "Shape", e.Name)
	assert.Len(t, e.Variants, 3)
	require.Len(t, e.Variants[0].Types, 1)
	assert.Equal(t, "f64", e.Variants[0].Types[0].Text)
	assert.Empty(t, e.Variants[2].Types)
}

func TestParse_ModAndUse(t *testing.T) {
	src := `
use crate::util::helper;
mod inner {
	fn g() {}
}
`
	file, err := Parse(src)
	require.Nil(t, err)
	require.Len(t, file.Items, 2)

	use := file.Items[0].(*UseItem)
	assert.Equal(t, "crate::util::helper", use.Path)

	mod := file.Items[1].(*ModItem)
	assert.Equal(t, "inner", mod.Name)
	require.Len(t, mod.Items, 1)
	assert.Equal(t, "g", mod.Items[0].(*FnItem).Name)
}

func TestParse_ControlFlowAndMatch(t *testing.T) {
	src := `
fn classify(n: i32) -> i32 {
	if n > 0 && n < 10 {
		return 1;
	} else if n == 0 || n < 0 {
		return 0;
	}
	match n {
		0 => 0,
		1 => 1,
		_ => -1,
	}
}
`
	file, err := Parse(src)
	require.Nil(t, err)
	fn := file.Items[0].(*FnItem)
	assert.Len(t, fn.Body.Stmts, 2)

	ifExpr := fn.Body.Stmts[0].(*ExprStmt).X.(*IfExpr)
	require.NotNil(t, ifExpr.Else)
	elseIf, ok := ifExpr.Else.(*IfExpr)
	require.True(t, ok)
	assert.NotNil(t, elseIf.Cond)

	match := fn.Body.Stmts[1].(*ExprStmt).X.(*MatchExpr)
	assert.Len(t, match.Arms, 3)
}

func TestParse_ClosureCallAttribution(t *testing.T) {
	src := `
fn outer() {
	let adder = |x| helper(x);
	adder(1);
}
`
	file, err := Parse(src)
	require.Nil(t, err)
	fn := file.Items[0].(*FnItem)
	letStmt := fn.Body.Stmts[0].(*LetStmt)
	closure, ok := letStmt.Value.(*ClosureExpr)
	require.True(t, ok)
	call := closure.Body.(*CallExpr)
	assert.Equal(t, "helper", CallHead(call.Callee))
}

func TestParse_DeclarationOnlyFunction(t *testing.T) {
	src := `fn external(x: i32) -> i32;`
	file, err := Parse(src)
	require.Nil(t, err)
	fn := file.Items[0].(*FnItem)
	assert.Nil(t, fn.Body)
}

func TestParse_SyntaxError(t *testing.T) {
	src := `fn broken( {`
	_, err := Parse(src)
	require.NotNil(t, err)
	assert.Greater(t, err.Line, 0)
}

func TestParse_CommentsAndStringsDontLeakIdentifiers(t *testing.T) {
	src := `
// calls helper() but this is a comment
fn f() {
	let s = "calls helper() too";
	real_call();
}
`
	file, err := Parse(src)
	require.Nil(t, err)
	fn := file.Items[0].(*FnItem)
	require.Len(t, fn.Body.Stmts, 2)
	call := fn.Body.Stmts[1].(*ExprStmt).X.(*CallExpr)
	assert.Equal(t, "real_call", CallHead(call.Callee))
}

func TestBaseTypeName(t *testing.T) {
	assert.Equal(t, "Vec", BaseTypeName("Vec<Thing>"))
	assert.Equal(t, "Thing", BaseTypeName("&Thing"))
	assert.Equal(t, "Thing", BaseTypeName("Thing"))
}
