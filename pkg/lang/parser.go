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

package lang

import (
	"fmt"
	"strings"
)

// Parse turns source text into an AST, or reports a SyntaxError. Parse is
// pure: the same text always yields an equal AST (P2).
func Parse(text string) (*File, *SyntaxError) {
	toks, lexErr := newLexer(text).lexAll()
	if lexErr != nil {
		return nil, lexErr
	}
	p := &parser{toks: toks}
	file, err := p.parseFile()
	if err != nil {
		return nil, err
	}
	return file, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) atEOF() bool { return p.cur().kind == tokEOF }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) is(kind tokenKind, text string) bool {
	t := p.cur()
	return t.kind == kind && t.text == text
}

func (p *parser) isPunct(text string) bool { return p.is(tokPunct, text) }
func (p *parser) isKeyword(kw string) bool { return p.is(tokIdent, kw) }

func (p *parser) expectPunct(text string) (token, *SyntaxError) {
	if !p.isPunct(text) {
		return token{}, newSyntaxError(fmt.Sprintf("expected %q, found %q", text, p.cur().text), p.cur().pos)
	}
	return p.advance(), nil
}

func (p *parser) expectIdent() (token, *SyntaxError) {
	if p.cur().kind != tokIdent {
		return token{}, newSyntaxError(fmt.Sprintf("expected identifier, found %q", p.cur().text), p.cur().pos)
	}
	return p.advance(), nil
}

func (p *parser) parseFile() (*File, *SyntaxError) {
	f := &File{}
	for !p.atEOF() {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		f.Items = append(f.Items, item)
	}
	return f, nil
}

func (p *parser) parseItem() (Item, *SyntaxError) {
	pub := false
	if p.isKeyword("pub") {
		p.advance()
		pub = true
	}
	switch {
	case p.isKeyword("fn"):
		return p.parseFn(pub)
	case p.isKeyword("struct"):
		return p.parseStruct(pub)
	case p.isKeyword("enum"):
		return p.parseEnum(pub)
	case p.isKeyword("mod"):
		return p.parseMod(pub)
	case p.isKeyword("use"):
		return p.parseUse()
	default:
		return nil, newSyntaxError(fmt.Sprintf("expected item declaration, found %q", p.cur().text), p.cur().pos)
	}
}

func (p *parser) parseUse() (Item, *SyntaxError) {
	kw := p.advance() // "use"
	var sb strings.Builder
	for !p.isPunct(";") {
		if p.atEOF() {
			return nil, newSyntaxError("unterminated use declaration", kw.pos)
		}
		sb.WriteString(p.advance().text)
	}
	p.advance() // ";"
	return &UseItem{ItemPos: kw.pos, Path: sb.String()}, nil
}

func (p *parser) parseFn(pub bool) (Item, *SyntaxError) {
	p.advance() // "fn"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var params []Param
	for !p.isPunct(")") {
		pname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, Param{Name: pname.text, Type: typ})
		if p.isPunct(",") {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	var retType *TypeRef
	if p.isPunct("->") {
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		retType = &t
	}
	fn := &FnItem{NamePos: name.pos, Name: name.text, Public: pub, Params: params, ReturnType: retType}
	if p.isPunct(";") {
		p.advance()
		return fn, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

// parseType consumes a raw type expression, tracking <...> and [...] nesting
// so that generics like "Vec<Option<T>>" and "[T; 4]" are consumed whole.
// The returned TypeRef's position is the type's first token, which is where
// the TypeUseCollector reports this type-position use.
func (p *parser) parseType() (TypeRef, *SyntaxError) {
	startPos := p.cur().pos
	var sb strings.Builder
	depth := 0
	if p.isPunct("&") {
		sb.WriteString(p.advance().text)
	}
	for {
		if p.atEOF() {
			return TypeRef{}, newSyntaxError("unterminated type", p.cur().pos)
		}
		t := p.cur()
		if depth == 0 && (t.text == "," || t.text == ")" || t.text == "{" || t.text == ";" || t.text == "->" || t.text == "=") && t.kind == tokPunct {
			break
		}
		if t.kind == tokPunct && t.text == "<" {
			depth++
		}
		if t.kind == tokPunct && t.text == ">" {
			depth--
		}
		if t.kind == tokPunct && t.text == "[" {
			depth++
		}
		if t.kind == tokPunct && t.text == "]" {
			depth--
		}
		sb.WriteString(p.advance().text)
		if depth <= 0 && (t.text == ">" || t.text == "]") {
			break
		}
	}
	return TypeRef{TypePos: startPos, Text: sb.String()}, nil
}

func (p *parser) parseStruct(pub bool) (Item, *SyntaxError) {
	p.advance() // "struct"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if p.isPunct(";") {
		p.advance()
		return &StructItem{NamePos: name.pos, Name: name.text, Public: pub}, nil
	}
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var fields []StructField
	for !p.isPunct("}") {
		if p.isKeyword("pub") {
			p.advance()
		}
		fname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, StructField{Name: fname.text, Type: typ})
		if p.isPunct(",") {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &StructItem{NamePos: name.pos, Name: name.text, Public: pub, Fields: fields}, nil
}

func (p *parser) parseEnum(pub bool) (Item, *SyntaxError) {
	p.advance() // "enum"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var variants []EnumVariant
	for !p.isPunct("}") {
		vname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		v := EnumVariant{Name: vname.text}
		if p.isPunct("(") {
			p.advance()
			for !p.isPunct(")") {
				typ, err := p.parseType()
				if err != nil {
					return nil, err
				}
				v.Types = append(v.Types, typ)
				if p.isPunct(",") {
					p.advance()
				} else {
					break
				}
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
		}
		variants = append(variants, v)
		if p.isPunct(",") {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &EnumItem{NamePos: name.pos, Name: name.text, Public: pub, Variants: variants}, nil
}

func (p *parser) parseMod(pub bool) (Item, *SyntaxError) {
	p.advance() // "mod"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var items []Item
	for !p.isPunct("}") {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &ModItem{NamePos: name.pos, Name: name.text, Public: pub, Items: items}, nil
}

func (p *parser) parseBlock() (*Block, *SyntaxError) {
	open, err := p.expectPunct("{")
	if err != nil {
		return nil, err
	}
	b := &Block{OpenPos: open.pos}
	for !p.isPunct("}") {
		if p.atEOF() {
			return nil, newSyntaxError("unterminated block", open.pos)
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, stmt)
	}
	close := p.advance() // "}"
	b.EndLine = close.pos.Line
	return b, nil
}

func (p *parser) parseStmt() (Stmt, *SyntaxError) {
	switch {
	case p.isKeyword("let"):
		return p.parseLet()
	case p.isKeyword("fn") || p.isKeyword("struct") || p.isKeyword("enum"):
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		return &ItemStmt{It: item}, nil
	case p.isKeyword("pub"):
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		return &ItemStmt{It: item}, nil
	default:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.isPunct(";") {
			p.advance()
		}
		return &ExprStmt{X: expr}, nil
	}
}

func (p *parser) parseLet() (Stmt, *SyntaxError) {
	kw := p.advance() // "let"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	var annotation *TypeRef
	if p.isPunct(":") {
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		annotation = &t
	}
	var value Expr
	if p.isPunct("=") {
		p.advance()
		value, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if p.isPunct(";") {
		p.advance()
	}
	return &LetStmt{StmtPos: kw.pos, Name: name.text, Annotation: annotation, Value: value}, nil
}

// --- expressions, precedence-climbing ---

func (p *parser) parseExpr() (Expr, *SyntaxError) {
	return p.parseOr()
}

func (p *parser) parseOr() (Expr, *SyntaxError) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isPunct("||") {
		op := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{OpPos: op.pos, Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, *SyntaxError) {
	left, err := p.parseCompare()
	if err != nil {
		return nil, err
	}
	for p.isPunct("&&") {
		op := p.advance()
		right, err := p.parseCompare()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{OpPos: op.pos, Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

var compareOps = map[string]bool{"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true}

func (p *parser) parseCompare() (Expr, *SyntaxError) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokPunct && compareOps[p.cur().text] {
		op := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{OpPos: op.pos, Op: op.text, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAdditive() (Expr, *SyntaxError) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.isPunct("+") || p.isPunct("-") {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{OpPos: op.pos, Op: op.text, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (Expr, *SyntaxError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("*") || p.isPunct("/") || p.isPunct("%") {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{OpPos: op.pos, Op: op.text, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, *SyntaxError) {
	if p.isPunct("!") || p.isPunct("-") || p.isPunct("&") {
		op := p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{OpPos: op.pos, Op: op.text, X: x}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, *SyntaxError) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isPunct("("):
			callPos := p.cur().pos
			p.advance()
			var args []Expr
			for !p.isPunct(")") {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.isPunct(",") {
					p.advance()
				} else {
					break
				}
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			expr = &CallExpr{CallPos: callPos, Callee: expr, Args: args}
		case p.isPunct("."):
			p.advance()
			field, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			expr = &FieldExpr{Receiver: expr, Field: field.text}
		default:
			return expr, nil
		}
	}
}

func (p *parser) parsePrimary() (Expr, *SyntaxError) {
	t := p.cur()
	switch {
	case t.kind == tokInt:
		p.advance()
		return &Literal{LitPos: t.pos, Kind: "int", Value: t.text}, nil
	case t.kind == tokFloat:
		p.advance()
		return &Literal{LitPos: t.pos, Kind: "float", Value: t.text}, nil
	case t.kind == tokString:
		p.advance()
		return &Literal{LitPos: t.pos, Kind: "string", Value: t.text}, nil
	case t.kind == tokIdent && (t.text == "true" || t.text == "false"):
		p.advance()
		return &Literal{LitPos: t.pos, Kind: "bool", Value: t.text}, nil
	case t.kind == tokIdent && t.text == "if":
		return p.parseIf()
	case t.kind == tokIdent && t.text == "while":
		return p.parseWhile()
	case t.kind == tokIdent && t.text == "for":
		return p.parseFor()
	case t.kind == tokIdent && t.text == "loop":
		return p.parseLoop()
	case t.kind == tokIdent && t.text == "match":
		return p.parseMatch()
	case p.isPunct("|"):
		return p.parseClosure()
	case p.isPunct("("):
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return inner, nil
	case p.isPunct("{"):
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &BlockExpr{B: b}, nil
	case t.kind == tokIdent:
		p.advance()
		if p.isPunct("::") {
			segs := []string{t.text}
			for p.isPunct("::") {
				p.advance()
				seg, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				segs = append(segs, seg.text)
			}
			return &PathExpr{PathPos: t.pos, Segments: segs}, nil
		}
		return &Ident{IdentPos: t.pos, Name: t.text}, nil
	default:
		return nil, newSyntaxError(fmt.Sprintf("unexpected token %q", t.text), t.pos)
	}
}

func (p *parser) parseIf() (Expr, *SyntaxError) {
	kw := p.advance() // "if"
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	ifExpr := &IfExpr{IfPos: kw.pos, Cond: cond, Then: then}
	if p.isKeyword("else") {
		p.advance()
		if p.isKeyword("if") {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			ifExpr.Else = elseIf.(*IfExpr)
		} else {
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			ifExpr.Else = elseBlock
		}
	}
	return ifExpr, nil
}

func (p *parser) parseWhile() (Expr, *SyntaxError) {
	kw := p.advance() // "while"
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileExpr{WhilePos: kw.pos, Cond: cond, Body: body}, nil
}

func (p *parser) parseFor() (Expr, *SyntaxError) {
	kw := p.advance() // "for"
	binder, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("in") {
		return nil, newSyntaxError(fmt.Sprintf("expected 'in', found %q", p.cur().text), p.cur().pos)
	}
	p.advance()
	iter, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ForExpr{ForPos: kw.pos, Binder: binder.text, Iter: iter, Body: body}, nil
}

func (p *parser) parseLoop() (Expr, *SyntaxError) {
	kw := p.advance() // "loop"
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &LoopExpr{LoopPos: kw.pos, Body: body}, nil
}

func (p *parser) parseMatch() (Expr, *SyntaxError) {
	kw := p.advance() // "match"
	scrutinee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var arms []MatchArm
	for !p.isPunct("}") {
		pattern, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct("=>"); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arms = append(arms, MatchArm{Pattern: pattern, Body: body})
		if p.isPunct(",") {
			p.advance()
		}
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &MatchExpr{MatchPos: kw.pos, Scrutinee: scrutinee, Arms: arms}, nil
}

// parsePattern consumes raw pattern tokens up to the matching "=>",
// tracking paren depth so tuple/variant patterns like "Some(x)" parse whole.
func (p *parser) parsePattern() (string, *SyntaxError) {
	var sb strings.Builder
	depth := 0
	for {
		if p.atEOF() {
			return "", newSyntaxError("unterminated match arm pattern", p.cur().pos)
		}
		if depth == 0 && p.isPunct("=>") {
			break
		}
		t := p.advance()
		if t.text == "(" || t.text == "[" {
			depth++
		}
		if t.text == ")" || t.text == "]" {
			depth--
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.text)
	}
	return sb.String(), nil
}

func (p *parser) parseClosure() (Expr, *SyntaxError) {
	pipe := p.advance() // "|"
	var params []string
	for !p.isPunct("|") {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if p.isPunct(":") {
			p.advance()
			if _, err := p.parseType(); err != nil {
				return nil, err
			}
		}
		params = append(params, name.text)
		if p.isPunct(",") {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expectPunct("|"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ClosureExpr{PipePos: pipe.pos, Params: params, Body: body}, nil
}
