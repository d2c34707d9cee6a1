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

// Package heuristics implements the pure, deterministic code-smell
// detectors and refactoring suggestions layered on top of a completed
// WorkspaceIndex. Every Suggestion's rationale is generated from the
// triggering record's own fields — never copied placeholder text.
package heuristics

import (
	"fmt"
	"sort"

	"github.com/ferrolabs/ferroscope/pkg/index"
)

const (
	maxLineCount      = 50
	maxComplexity     = 10
	maxParameterCount = 5
	maxFieldCount     = 10
	maxVariantCount   = 10
	maxCallees        = 10
	maxCallers        = 10
	maxStructUses     = 10
)

// Kinds of Suggestion, one per row of spec.md §4.6's threshold table.
const (
	KindLongFunction     = "long_function"
	KindHighComplexity   = "high_complexity"
	KindTooManyParams    = "too_many_parameters"
	KindWideStruct       = "wide_struct"
	KindWideEnum         = "wide_enum"
	KindExcessiveCallees = "excessive_callees"
	KindExcessiveCallers = "excessive_callers"
	KindGodObject        = "god_object"
	KindUnusedFunction   = "unused_function"
)

// Evaluate runs every heuristic over idx and returns a deterministically
// sorted suggestion list: sorted by (kind, target, location), one
// Suggestion per triggered condition.
func Evaluate(idx *index.WorkspaceIndex) []index.Suggestion {
	var out []index.Suggestion

	functionNames := make([]string, 0, len(idx.Functions))
	for name := range idx.Functions {
		functionNames = append(functionNames, name)
	}
	sort.Strings(functionNames)

	for _, name := range functionNames {
		for _, fn := range idx.Functions[name] {
			out = append(out, functionSuggestions(idx, fn)...)
		}
	}

	structNames := make([]string, 0, len(idx.Structs))
	for name := range idx.Structs {
		structNames = append(structNames, name)
	}
	sort.Strings(structNames)
	for _, name := range structNames {
		out = append(out, structSuggestions(idx.Structs[name])...)
	}

	enumNames := make([]string, 0, len(idx.Enums))
	for name := range idx.Enums {
		enumNames = append(enumNames, name)
	}
	sort.Strings(enumNames)
	for _, name := range enumNames {
		if s := wideEnumSuggestion(idx.Enums[name]); s != nil {
			out = append(out, *s)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Location.Less(b.Location)
	})
	return out
}

func functionSuggestions(idx *index.WorkspaceIndex, fn *index.FunctionRecord) []index.Suggestion {
	var out []index.Suggestion

	if fn.LineCount > maxLineCount {
		out = append(out, index.Suggestion{
			Kind: KindLongFunction, Target: fn.Name, Location: fn.Location,
			Rationale: fmt.Sprintf("has %d lines (>%d)", fn.LineCount, maxLineCount),
		})
	}
	if fn.CyclomaticComplexity > maxComplexity {
		out = append(out, index.Suggestion{
			Kind: KindHighComplexity, Target: fn.Name, Location: fn.Location,
			Rationale: fmt.Sprintf("has cyclomatic complexity %d (>%d)", fn.CyclomaticComplexity, maxComplexity),
		})
	}
	if fn.ParameterCount > maxParameterCount {
		out = append(out, index.Suggestion{
			Kind: KindTooManyParams, Target: fn.Name, Location: fn.Location,
			Rationale: fmt.Sprintf("has %d parameters (>%d)", fn.ParameterCount, maxParameterCount),
		})
	}
	outDeg := idx.CallGraph.OutDegree(fn.Name)
	if outDeg > maxCallees {
		out = append(out, index.Suggestion{
			Kind: KindExcessiveCallees, Target: fn.Name, Location: fn.Location,
			Rationale: fmt.Sprintf("calls %d distinct functions (>%d)", outDeg, maxCallees),
		})
	}
	inDeg := idx.CallGraph.InDegree(fn.Name)
	if inDeg > maxCallers {
		out = append(out, index.Suggestion{
			Kind: KindExcessiveCallers, Target: fn.Name, Location: fn.Location,
			Rationale: fmt.Sprintf("is called by %d distinct functions (>%d)", inDeg, maxCallers),
		})
	}
	if !fn.IsPublic && inDeg == 0 {
		out = append(out, index.Suggestion{
			Kind: KindUnusedFunction, Target: fn.Name, Location: fn.Location,
			Rationale: "is private and has no callers in the workspace",
		})
	}
	return out
}

func structSuggestions(s *index.StructRecord) []index.Suggestion {
	var out []index.Suggestion
	if s.FieldCount > maxFieldCount {
		out = append(out, index.Suggestion{
			Kind: KindWideStruct, Target: s.Name, Location: s.Location,
			Rationale: fmt.Sprintf("has %d fields (>%d)", s.FieldCount, maxFieldCount),
		})
	}
	if len(s.UsedIn) > maxStructUses {
		out = append(out, index.Suggestion{
			Kind: KindGodObject, Target: s.Name, Location: s.Location,
			Rationale: fmt.Sprintf("is used in %d locations (>%d)", len(s.UsedIn), maxStructUses),
		})
	}
	return out
}

func wideEnumSuggestion(e *index.EnumRecord) *index.Suggestion {
	if e.VariantCount > maxVariantCount {
		return &index.Suggestion{
			Kind: KindWideEnum, Target: e.Name, Location: e.Location,
			Rationale: fmt.Sprintf("has %d variants (>%d)", e.VariantCount, maxVariantCount),
		}
	}
	return nil
}
