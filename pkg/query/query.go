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

// Package query implements the Query Surface (C7): the four entry points
// exposed to both the CLI and the MCP tool registry. Each function here
// composes lower packages exactly the way the CLI and the MCP transport
// call them, so both surfaces see identical behavior.
package query

import (
	"context"
	"encoding/json"
	"os"
	"sort"

	"github.com/ferrolabs/ferroscope/pkg/builder"
	"github.com/ferrolabs/ferroscope/pkg/cache"
	"github.com/ferrolabs/ferroscope/pkg/index"
	"github.com/ferrolabs/ferroscope/pkg/lang"
	"github.com/ferrolabs/ferroscope/pkg/metrics"
)

// CheckFile runs C1.get-or-read then C2.parse over one file, per spec.md
// §4.2. It returns the message verbatim: a success sentence on a clean
// parse, or the syntax error text on failure.
func CheckFile(path string, c *cache.SourceCache) (string, error) {
	stop := metrics.ObserveQuery("check_file")
	defer stop()

	text, ok := c.Get(path)
	if !ok {
		data, err := os.ReadFile(path) //nolint:gosec // path is operator-supplied, not attacker data
		if err != nil {
			return "", err
		}
		text = string(data)
		c.Insert(path, text)
	}

	if _, syntaxErr := lang.Parse(text); syntaxErr != nil {
		return syntaxErr.Error(), nil
	}
	return "File parsed successfully with no syntax errors.", nil
}

// IndexWorkspace runs C4 over root and returns the freshly built index.
func IndexWorkspace(ctx context.Context, root string, c *cache.SourceCache, opts builder.Options) (*index.WorkspaceIndex, error) {
	return builder.Build(ctx, root, c, opts)
}

// Report is the serialized form of a WorkspaceIndex returned by
// index_workspace: graphs flatten to adjacency lists, and a Summary gives
// quick counts without the caller needing to measure every map.
type Report struct {
	Functions   map[string][]*index.FunctionRecord `json:"functions"`
	Structs     map[string]*index.StructRecord     `json:"structs"`
	Enums       map[string]*index.EnumRecord       `json:"enums"`
	Modules     map[string][]string                `json:"modules"` // path -> sorted imports
	CallGraph   map[string][]string                `json:"call_graph"`
	TypeGraph   map[string][]string                `json:"type_graph"`
	ModuleGraph map[string][]string                `json:"module_graph"`
	Smells      index.SmellReport                  `json:"smells"`
	Suggestions []index.Suggestion                 `json:"suggestions"`
	Summary     Summary                             `json:"summary"`
}

// Summary gives the reportable entity counts for a WorkspaceIndex.
type Summary struct {
	FileCount       int `json:"file_count"`
	FunctionCount   int `json:"function_count"`
	StructCount     int `json:"struct_count"`
	EnumCount       int `json:"enum_count"`
	SuggestionCount int `json:"suggestion_count"`
}

// BuildReport flattens idx into its serialized reportable form.
func BuildReport(idx *index.WorkspaceIndex) Report {
	modules := make(map[string][]string, len(idx.Modules))
	for path, rec := range idx.Modules {
		modules[path] = rec.ImportKeys()
	}

	functionCount := 0
	for _, overloads := range idx.Functions {
		functionCount += len(overloads)
	}

	return Report{
		Functions:   idx.Functions,
		Structs:     idx.Structs,
		Enums:       idx.Enums,
		Modules:     modules,
		CallGraph:   idx.CallGraph.Adjacency(),
		TypeGraph:   idx.TypeGraph.Adjacency(),
		ModuleGraph: idx.ModuleGraph.Adjacency(),
		Smells:      idx.Smells,
		Suggestions: idx.Suggestions,
		Summary: Summary{
			FileCount:       len(idx.Modules),
			FunctionCount:   functionCount,
			StructCount:     len(idx.Structs),
			EnumCount:       len(idx.Enums),
			SuggestionCount: len(idx.Suggestions),
		},
	}
}

// NotFound is the sentinel goto_definition returns when a name has no
// declaration site in the index. find_references returns an empty list
// instead.
const NotFound = "not found"

// DefinitionResult is one resolved declaration site, or IsNotFound when no
// definition exists anywhere in the index.
type DefinitionResult struct {
	Location   index.Location
	IsNotFound bool
}

// GotoDefinition implements spec.md's tie-break rule: the first Location,
// in lexicographic (file, then line) order, across functions, structs,
// and enums sharing name. Modules contribute no candidate. Functions and
// structs/enums are compared against each other too — only the winning
// Location is reported, not which map it came from.
func GotoDefinition(idx *index.WorkspaceIndex, name string) DefinitionResult {
	stop := metrics.ObserveQuery("goto_definition")
	defer stop()

	var candidates []index.Location
	for _, fn := range idx.Functions[name] {
		candidates = append(candidates, fn.Location)
	}
	if st, ok := idx.Structs[name]; ok {
		candidates = append(candidates, st.Location)
	}
	if en, ok := idx.Enums[name]; ok {
		candidates = append(candidates, en.Location)
	}
	// ModuleRecord has no declaration-site location of its own (Path is a
	// file path, not a symbol position), so module names never contribute
	// a goto_definition candidate beyond what their file's own functions
	// and types already offer.

	if len(candidates) == 0 {
		return DefinitionResult{IsNotFound: true}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Less(candidates[j]) })
	return DefinitionResult{Location: candidates[0]}
}

// Reference is one site where a name is used, tagged with the kind of use.
type Reference struct {
	Location index.Location
	Kind     string // "call", "type_use", "import"
}

// referenceJSON is Reference's wire shape: file/line/column flattened
// alongside kind, per spec.md §6's find_references result shape.
type referenceJSON struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Kind   string `json:"kind"`
}

// MarshalJSON flattens Location's fields alongside Kind.
func (r Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(referenceJSON{
		File:   r.Location.File,
		Line:   r.Location.Line,
		Column: r.Location.Column,
		Kind:   r.Kind,
	})
}

// FindReferences returns every site in idx where name appears as a call
// callee, a type use, or an import target (by its last path segment),
// sorted by (file, line, column) and deduplicated by location+kind.
func FindReferences(idx *index.WorkspaceIndex, name string) []Reference {
	stop := metrics.ObserveQuery("find_references")
	defer stop()

	var refs []Reference
	for _, loc := range idx.CallSites[name] {
		refs = append(refs, Reference{Location: loc, Kind: "call"})
	}
	if st, ok := idx.Structs[name]; ok {
		for _, loc := range st.UsedIn {
			refs = append(refs, Reference{Location: loc, Kind: "type_use"})
		}
	}
	for _, rec := range idx.Imports[name] {
		refs = append(refs, Reference{Location: rec.Location, Kind: "import"})
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Location != refs[j].Location {
			return refs[i].Location.Less(refs[j].Location)
		}
		return refs[i].Kind < refs[j].Kind
	})

	out := refs[:0]
	var prevLoc index.Location
	var prevKind string
	for i, r := range refs {
		if i == 0 || r.Location != prevLoc || r.Kind != prevKind {
			out = append(out, r)
		}
		prevLoc, prevKind = r.Location, r.Kind
	}
	return out
}
