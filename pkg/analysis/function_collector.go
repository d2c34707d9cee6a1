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

package analysis

import (
	"github.com/ferrolabs/ferroscope/pkg/index"
	"github.com/ferrolabs/ferroscope/pkg/lang"
)

// CollectFunctions produces one FunctionRecord per fn item in the file,
// including fn items nested inside modules or inside other function
// bodies. A function with no body has line_count 0 and complexity 1.
// Closures are never collected as FunctionRecords; their calls are folded
// into the enclosing named function's callee set (see scanBody).
func CollectFunctions(path string, file *lang.File) []*index.FunctionRecord {
	var out []*index.FunctionRecord
	lang.WalkFile(file, func(n lang.Node) {
		fn, ok := n.(*lang.FnItem)
		if !ok {
			return
		}
		out = append(out, buildFunctionRecord(path, fn))
	})
	return out
}

func buildFunctionRecord(path string, fn *lang.FnItem) *index.FunctionRecord {
	rec := &index.FunctionRecord{
		Name:           fn.Name,
		Location:       locAt(path, fn.NamePos),
		ParameterCount: len(fn.Params),
		IsPublic:       fn.Public,
		Callees:        make(map[string]bool),
	}
	if fn.Body == nil {
		rec.LineCount = 0
		rec.CyclomaticComplexity = 1
		return rec
	}
	rec.LineCount = fn.Body.EndLine - fn.Body.OpenPos.Line + 1
	complexity, callees := scanBody(fn.Body)
	rec.CyclomaticComplexity = 1 + complexity
	rec.Callees = callees
	return rec
}

// scanBody walks one function body computing its cyclomatic complexity
// decision-point count and its callee set. It recurses into closures (their
// calls belong to the enclosing function) but treats nested item
// declarations (a fn/struct/enum defined inside this body) as opaque: their
// own decision points and calls are counted separately, under their own
// FunctionRecord, by the top-level CollectFunctions walk.
func scanBody(b *lang.Block) (int, map[string]bool) {
	s := &bodyScanner{callees: make(map[string]bool)}
	s.scanBlock(b)
	return s.complexity, s.callees
}

type bodyScanner struct {
	complexity int
	callees    map[string]bool
}

func (s *bodyScanner) scanBlock(b *lang.Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Stmts {
		s.scanStmt(stmt)
	}
}

func (s *bodyScanner) scanStmt(stmt lang.Stmt) {
	switch st := stmt.(type) {
	case *lang.ExprStmt:
		s.scanExpr(st.X)
	case *lang.LetStmt:
		if st.Value != nil {
			s.scanExpr(st.Value)
		}
	case *lang.ItemStmt:
		// Opaque: a nested fn/struct/enum is analyzed under its own
		// FunctionRecord, not folded into this one.
	}
}

func (s *bodyScanner) scanExpr(expr lang.Expr) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *lang.Ident, *lang.Literal, *lang.PathExpr:
		// leaves
	case *lang.FieldExpr:
		s.scanExpr(e.Receiver)
	case *lang.CallExpr:
		if head := lang.CallHead(e.Callee); head != "" {
			s.callees[head] = true
		}
		s.scanExpr(e.Callee)
		for _, arg := range e.Args {
			s.scanExpr(arg)
		}
	case *lang.BinaryExpr:
		if e.Op == "&&" || e.Op == "||" {
			s.complexity++
		}
		s.scanExpr(e.Left)
		s.scanExpr(e.Right)
	case *lang.UnaryExpr:
		s.scanExpr(e.X)
	case *lang.IfExpr:
		s.complexity++
		s.scanExpr(e.Cond)
		s.scanBlock(e.Then)
		s.scanElse(e.Else)
	case *lang.WhileExpr:
		s.complexity++
		s.scanExpr(e.Cond)
		s.scanBlock(e.Body)
	case *lang.ForExpr:
		s.complexity++
		s.scanExpr(e.Iter)
		s.scanBlock(e.Body)
	case *lang.LoopExpr:
		s.complexity++
		s.scanBlock(e.Body)
	case *lang.MatchExpr:
		s.scanExpr(e.Scrutinee)
		for i, arm := range e.Arms {
			if i > 0 {
				s.complexity++
			}
			s.scanExpr(arm.Body)
		}
	case *lang.ClosureExpr:
		// Closures are not call-graph nodes; their calls fold into the
		// enclosing function's callee set via this same scanner.
		s.scanExpr(e.Body)
	case *lang.BlockExpr:
		s.scanBlock(e.B)
	}
}

// scanElse handles an if-expression's Else field, which is nil, *IfExpr
// (an "else if" link), or *Block (a plain "else").
func (s *bodyScanner) scanElse(n lang.Node) {
	switch els := n.(type) {
	case nil:
		return
	case *lang.IfExpr:
		s.complexity++
		s.scanExpr(els.Cond)
		s.scanBlock(els.Then)
		s.scanElse(els.Else)
	case *lang.Block:
		s.scanBlock(els)
	}
}
