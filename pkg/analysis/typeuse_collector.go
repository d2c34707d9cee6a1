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

// CollectTypeUses records every type-position identifier in the file along
// with its Location: struct field types and enum variant payload types
// (composition declarations), and parameter/return/let-annotation types
// reached from inside a function (tagged with the owning function's name).
// The Index Builder joins this output, across every file, into
// StructRecord.UsedIn and the type-usage graph.
func CollectTypeUses(path string, file *lang.File) []TypeUse {
	var out []TypeUse
	lang.WalkFile(file, func(n lang.Node) {
		switch it := n.(type) {
		case *lang.StructItem:
			for _, f := range it.Fields {
				out = append(out, TypeUse{
					Name:    lang.BaseTypeName(f.Type.Text),
					Loc:     locAt(path, f.Type.TypePos),
					Context: "field",
				})
			}
		case *lang.EnumItem:
			for _, v := range it.Variants {
				for _, t := range v.Types {
					out = append(out, TypeUse{
						Name:    lang.BaseTypeName(t.Text),
						Loc:     locAt(path, t.TypePos),
						Context: "variant",
					})
				}
			}
		case *lang.FnItem:
			for _, p := range it.Params {
				out = append(out, TypeUse{
					Name:          lang.BaseTypeName(p.Type.Text),
					Loc:           locAt(path, p.Type.TypePos),
					Context:       "param",
					OwnerFunction: it.Name,
				})
			}
			if it.ReturnType != nil {
				out = append(out, TypeUse{
					Name:          lang.BaseTypeName(it.ReturnType.Text),
					Loc:           locAt(path, it.ReturnType.TypePos),
					Context:       "return",
					OwnerFunction: it.Name,
				})
			}
			if it.Body != nil {
				out = append(out, scanBodyTypeUses(path, it.Name, it.Body)...)
			}
		}
	})
	return out
}

// scanBodyTypeUses walks one function body collecting let-annotation type
// uses, treating nested item declarations as opaque (their own
// param/return/let uses are collected under their own FnItem visit by the
// outer CollectTypeUses walk).
func scanBodyTypeUses(path, owner string, b *lang.Block) []TypeUse {
	var out []TypeUse
	var walkBlock func(b *lang.Block)
	var walkStmt func(s lang.Stmt)
	var walkExpr func(e lang.Expr)

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
			if st.Annotation != nil {
				out = append(out, TypeUse{
					Name:          lang.BaseTypeName(st.Annotation.Text),
					Loc:           locAt(path, st.Annotation.TypePos),
					Context:       "let",
					OwnerFunction: owner,
				})
			}
			if st.Value != nil {
				walkExpr(st.Value)
			}
		case *lang.ItemStmt:
			// opaque: owned by its own FnItem visit
		}
	}
	walkExpr = func(e lang.Expr) {
		switch ex := e.(type) {
		case *lang.FieldExpr:
			walkExpr(ex.Receiver)
		case *lang.CallExpr:
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
			walkElseNode(ex.Else, walkExpr, walkBlock)
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

func walkElseNode(n lang.Node, walkExpr func(lang.Expr), walkBlock func(*lang.Block)) {
	switch els := n.(type) {
	case *lang.IfExpr:
		walkExpr(els.Cond)
		walkBlock(els.Then)
		walkElseNode(els.Else, walkExpr, walkBlock)
	case *lang.Block:
		walkBlock(els)
	}
}
