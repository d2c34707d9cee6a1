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

// Package analysis implements the visitor kit: single-pass AST walkers,
// each producing one slice of analysis data for one file. Every visitor
// stamps Locations from the AST node's start position and recurses into
// every child that may contain items of interest, including nested
// definitions (a function inside a function, a struct inside a module).
package analysis

import "github.com/ferrolabs/ferroscope/pkg/index"

// TypeUse is one occurrence of a type name in a type position, as recorded
// by TypeUseCollector. Context distinguishes a composition declaration
// ("field", "variant" — the type is itself part of another type's shape)
// from a use inside a function's signature or body ("param", "return",
// "let" — OwnerFunction names the enclosing function).
type TypeUse struct {
	Name          string
	Loc           index.Location
	Context       string
	OwnerFunction string
}

// CallSite is one call expression scoped to its enclosing named function,
// as recorded by CallSiteCollector.
type CallSite struct {
	Caller string
	Callee string
	Loc    index.Location
}

// ImportUse is one `use` declaration, as recorded by CollectImportUses. Path is
// the raw import string; Last is its final path segment, used to answer
// find_references for an unqualified name.
type ImportUse struct {
	Path string
	Last string
	Loc  index.Location
}

// FileResult is the union of every visitor's output for one file.
type FileResult struct {
	Path       string
	Functions  []*index.FunctionRecord
	Structs    []*index.StructRecord
	Enums      []*index.EnumRecord
	Module     *index.ModuleRecord
	TypeUses   []TypeUse
	CallSites  []CallSite
	ImportUses []ImportUse
}
