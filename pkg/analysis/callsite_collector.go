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

import "github.com/ferrolabs/ferroscope/pkg/lang"

// CollectCallSites records every (caller_name, callee_name) pair in the
// file, with the call expression's own Location, scoped to the enclosing
// named function. A call inside a closure is attributed to the closure's
// enclosing named function, never to the closure itself.
func CollectCallSites(path string, file *lang.File) []CallSite {
	var out []CallSite
	lang.WalkFile(file, func(n lang.Node) {
		fn, ok := n.(*lang.FnItem)
		if !ok || fn.Body == nil {
			return
		}
		out = append(out, scanCallSites(path, fn.Name, fn.Body)...)
	})
	return out
}

func scanCallSites(path, caller string, b *lang.Block) []CallSite {
	var out []CallSite
	var walkBlock func(*lang.Block)
	var walkStmt func(lang.Stmt)
	var walkExpr func(lang.Expr)

	walkBlock = func(b *lang.Block) {
		if b == nil {
			return
		}
		for _, s := range b.Stmts {
			walkStmt(s)
		}
	}
	walkStmt = func(s lang.Stmt) {
		switch st := s.(type) {
		case *lang.ExprStmt:
			walkExpr(st.X)
		case *lang.LetStmt:
			if st.Value != nil {
				walkExpr(st.Value)
			}
		case *lang.ItemStmt:
			// opaque: collected under its own FnItem visit
		}
	}
	walkExpr = func(e lang.Expr) {
		switch ex := e.(type) {
		case *lang.FieldExpr:
			walkExpr(ex.Receiver)
		case *lang.CallExpr:
			if head := lang.CallHead(ex.Callee); head != "" {
				out = append(out, CallSite{Caller: caller, Callee: head, Loc: locAt(path, ex.CallPos)})
			}
			walkExpr(ex.Callee)
			for _, a := range ex.Args {
				walkExpr(a)
			}
		case *lang.BinaryExpr:
			walkExpr(ex.Left)
			walkExpr(ex.Right)
		case *lang.UnaryExpr:
			walkExpr(ex.X)
		case *lang.IfExpr:
			walkExpr(ex.Cond)
			walkBlock(ex.Then)
			walkElseCalls(ex.Else, walkExpr, walkBlock)
		case *lang.WhileExpr:
			walkExpr(ex.Cond)
			walkBlock(ex.Body)
		case *lang.ForExpr:
			walkExpr(ex.Iter)
			walkBlock(ex.Body)
		case *lang.LoopExpr:
			walkBlock(ex.Body)
		case *lang.MatchExpr:
			walkExpr(ex.Scrutinee)
			for _, arm := range ex.Arms {
				walkExpr(arm.Body)
			}
		case *lang.ClosureExpr:
			walkExpr(ex.Body)
		case *lang.BlockExpr:
			walkBlock(ex.B)
		}
	}

	walkBlock(b)
	return out
}

func walkElseCalls(n lang.Node, walkExpr func(lang.Expr), walkBlock func(*lang.Block)) {
	switch els := n.(type) {
	case *lang.IfExpr:
		walkExpr(els.Cond)
		walkBlock(els.Then)
		walkElseCalls(els.Else, walkExpr, walkBlock)
	case *lang.Block:
		walkBlock(els)
	}
}
