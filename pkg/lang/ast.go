// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lang implements a lexer, recursive-descent parser, and AST for
// Ferroscope's target grammar: a small Rust-like, block-structured language
// with functions, structs, enums, modules, and pattern matching.
//
// The grammar intentionally omits macro expansion, generics resolution, and
// cross-module name resolution — Ferroscope's analysis is lexical, not
// semantic (see the workspace analysis engine's non-goals).
package lang

// Pos is a 1-based line/column pair, stamped onto every AST node from the
// lexer's token stream.
type Pos struct {
	Line   int
	Column int
}

// Node is implemented by every AST node that carries a source position.
type Node interface {
	Pos() Pos
}

// File is the root of one parsed source file.
type File struct {
	Items []Item
}

func (f *File) Pos() Pos {
	if len(f.Items) == 0 {
		return Pos{Line: 1, Column: 1}
	}
	return f.Items[0].Pos()
}

// Item is any top-level (or module-nested) declaration.
type Item interface {
	Node
	itemNode()
}

// FnItem is a function or method declaration.
type FnItem struct {
	NamePos    Pos
	Name       string
	Public     bool
	Params     []Param
	ReturnType *TypeRef // nil when the function has no return type
	Body       *Block   // nil for a declaration-only function (no body)
}

func (n *FnItem) Pos() Pos { return n.NamePos }
func (*FnItem) itemNode()  {}

// TypeRef is a type reference in a type position (parameter, return type,
// struct field, enum variant payload), stamped with the Location the
// TypeUseCollector reports it at.
type TypeRef struct {
	TypePos Pos
	Text    string
}

func (n TypeRef) Pos() Pos { return n.TypePos }

// Param is one function parameter.
type Param struct {
	Name string
	Type TypeRef
}

// StructItem is a struct declaration.
type StructItem struct {
	NamePos Pos
	Name    string
	Public  bool
	Fields  []StructField
}

func (n *StructItem) Pos() Pos { return n.NamePos }
func (*StructItem) itemNode()  {}

// StructField is one field of a struct.
type StructField struct {
	Name string
	Type TypeRef
}

// EnumItem is an enum declaration.
type EnumItem struct {
	NamePos  Pos
	Name     string
	Public   bool
	Variants []EnumVariant
}

func (n *EnumItem) Pos() Pos { return n.NamePos }
func (*EnumItem) itemNode()  {}

// EnumVariant is one variant of an enum; Types is non-empty for tuple-style
// variants such as `Some(T)`.
type EnumVariant struct {
	Name  string
	Types []TypeRef
}

// ModItem is a nested module block: `mod name { ...items... }`.
type ModItem struct {
	NamePos Pos
	Name    string
	Public  bool
	Items   []Item
}

func (n *ModItem) Pos() Pos { return n.NamePos }
func (*ModItem) itemNode()  {}

// UseItem is an import declaration: `use a::b::c;`.
type UseItem struct {
	ItemPos Pos
	Path    string // raw path as written, e.g. "a::b::c"
}

func (n *UseItem) Pos() Pos { return n.ItemPos }
func (*UseItem) itemNode()  {}

// Block is a brace-delimited sequence of statements.
type Block struct {
	OpenPos Pos
	EndLine int // line of the closing brace, for line-count computation
	Stmts   []Stmt
}

func (n *Block) Pos() Pos { return n.OpenPos }

// Stmt is any statement inside a block. Item declarations nested inside a
// function body (local structs, local fns) are also statements.
type Stmt interface {
	Node
	stmtNode()
}

// ExprStmt wraps an expression used as a statement (e.g. a bare call, or a
// control-flow construct used for its side effects).
type ExprStmt struct {
	X Expr
}

func (n *ExprStmt) Pos() Pos { return n.X.Pos() }
func (*ExprStmt) stmtNode()  {}

// LetStmt is a local binding: `let name = expr;` or `let name: T = expr;`.
type LetStmt struct {
	StmtPos    Pos
	Name       string
	Annotation *TypeRef // non-nil when the binding carries an explicit type
	Value      Expr     // may be nil
}

func (n *LetStmt) Pos() Pos { return n.StmtPos }
func (*LetStmt) stmtNode()  {}

// ItemStmt wraps a nested item declaration (fn/struct/enum) used as a
// statement inside a function body.
type ItemStmt struct {
	It Item
}

func (n *ItemStmt) Pos() Pos { return n.It.Pos() }
func (*ItemStmt) stmtNode()  {}

// Expr is any expression.
type Expr interface {
	Node
	exprNode()
}

// Ident is a bare identifier reference.
type Ident struct {
	IdentPos Pos
	Name     string
}

func (n *Ident) Pos() Pos { return n.IdentPos }
func (*Ident) exprNode()  {}

// Literal is any literal: integer, float, string, bool.
type Literal struct {
	LitPos Pos
	Kind   string // "int", "float", "string", "bool"
	Value  string
}

func (n *Literal) Pos() Pos { return n.LitPos }
func (*Literal) exprNode()  {}

// PathExpr is a qualified path such as `Type::assoc` or `module::item`.
// Segments holds each `::`-separated component in order.
type PathExpr struct {
	PathPos  Pos
	Segments []string
}

func (n *PathExpr) Pos() Pos { return n.PathPos }
func (*PathExpr) exprNode()  {}

// FieldExpr is a dotted member access: `recv.field`.
type FieldExpr struct {
	Receiver Expr
	Field    string
}

func (n *FieldExpr) Pos() Pos { return n.Receiver.Pos() }
func (*FieldExpr) exprNode()  {}

// CallExpr is a function/method call. Callee is the expression being
// called; for `a.b.c(...)` that is a FieldExpr chain, for `Type::f(...)`
// that is a PathExpr, for `f(...)` that is an Ident.
type CallExpr struct {
	CallPos Pos
	Callee  Expr
	Args    []Expr
}

func (n *CallExpr) Pos() Pos { return n.CallPos }
func (*CallExpr) exprNode()  {}

// BinaryExpr is a binary operator expression. Op is the literal operator
// token text ("&&", "||", "+", "==", ...).
type BinaryExpr struct {
	OpPos Pos
	Op    string
	Left  Expr
	Right Expr
}

func (n *BinaryExpr) Pos() Pos { return n.OpPos }
func (*BinaryExpr) exprNode()  {}

// UnaryExpr is a prefix unary operator: `!x`, `-x`, `&x`.
type UnaryExpr struct {
	OpPos Pos
	Op    string
	X     Expr
}

func (n *UnaryExpr) Pos() Pos { return n.OpPos }
func (*UnaryExpr) exprNode()  {}

// IfExpr is an if/else-if/else chain. Else is nil, an *IfExpr (else-if), or
// a *Block (else).
type IfExpr struct {
	IfPos Pos
	Cond  Expr
	Then  *Block
	Else  Node // nil | *IfExpr | *Block
}

func (n *IfExpr) Pos() Pos { return n.IfPos }
func (*IfExpr) exprNode()  {}

// WhileExpr is a `while cond { ... }` loop.
type WhileExpr struct {
	WhilePos Pos
	Cond     Expr
	Body     *Block
}

func (n *WhileExpr) Pos() Pos { return n.WhilePos }
func (*WhileExpr) exprNode()  {}

// ForExpr is a `for binder in iter { ... }` loop.
type ForExpr struct {
	ForPos Pos
	Binder string
	Iter   Expr
	Body   *Block
}

func (n *ForExpr) Pos() Pos { return n.ForPos }
func (*ForExpr) exprNode()  {}

// LoopExpr is an unconditional `loop { ... }`.
type LoopExpr struct {
	LoopPos Pos
	Body    *Block
}

func (n *LoopExpr) Pos() Pos { return n.LoopPos }
func (*LoopExpr) exprNode()  {}

// MatchExpr is a `match scrutinee { pat => body, ... }` expression.
type MatchExpr struct {
	MatchPos  Pos
	Scrutinee Expr
	Arms      []MatchArm
}

func (n *MatchExpr) Pos() Pos { return n.MatchPos }
func (*MatchExpr) exprNode()  {}

// MatchArm is one `pattern => expr` arm of a match.
type MatchArm struct {
	Pattern string // raw pattern text, lexically captured (no destructuring semantics)
	Body    Expr
}

// ClosureExpr is a `|params| body` closure literal. Its calls are
// attributed to the enclosing named function; the closure itself is never
// a call-graph node.
type ClosureExpr struct {
	PipePos Pos
	Params  []string
	Body    Expr
}

func (n *ClosureExpr) Pos() Pos { return n.PipePos }
func (*ClosureExpr) exprNode()  {}

// BlockExpr wraps a bare `{ ... }` block used as an expression.
type BlockExpr struct {
	B *Block
}

func (n *BlockExpr) Pos() Pos { return n.B.Pos() }
func (*BlockExpr) exprNode()  {}
