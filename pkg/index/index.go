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

// Package index holds the merged, immutable workspace data model produced
// by one indexing run: entities (functions, structs, enums, modules), the
// derived graphs (call, type-usage, module-dependency), and the heuristic
// reports layered on top of them.
//
// A WorkspaceIndex, once built, is never mutated; it is safe to share
// across concurrent readers without synchronization.
package index

import "sort"

// Location pinpoints one place in one source file. Locations form a total
// order on (File, Line, Column), used for deterministic sorting everywhere
// the spec requires reproducible output.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Less reports whether l sorts before other under the (file, line, column)
// order.
func (l Location) Less(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

// SortLocations sorts locs in place by (file, line, column) and removes
// exact duplicates.
func SortLocations(locs []Location) []Location {
	sort.Slice(locs, func(i, j int) bool { return locs[i].Less(locs[j]) })
	out := locs[:0]
	var prev Location
	for i, l := range locs {
		if i == 0 || l != prev {
			out = append(out, l)
		}
		prev = l
	}
	return out
}

// FunctionRecord describes one function or method definition.
type FunctionRecord struct {
	Name                  string          `json:"name"`
	Location              Location        `json:"location"`
	ParameterCount        int             `json:"parameter_count"`
	LineCount             int             `json:"line_count"`
	CyclomaticComplexity  int             `json:"cyclomatic_complexity"`
	Callees               map[string]bool `json:"-"`
	IsPublic              bool            `json:"is_public"`
}

// CalleeNames returns the function's callees as a sorted slice, for
// deterministic serialization.
func (f *FunctionRecord) CalleeNames() []string {
	names := make([]string, 0, len(f.Callees))
	for n := range f.Callees {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StructRecord describes one struct definition and every location where its
// name is used in a type position across the workspace.
type StructRecord struct {
	Name       string     `json:"name"`
	Location   Location   `json:"location"`
	FieldCount int        `json:"field_count"`
	UsedIn     []Location `json:"used_in"`
}

// EnumRecord describes one enum definition.
type EnumRecord struct {
	Name         string   `json:"name"`
	Location     Location `json:"location"`
	VariantCount int      `json:"variant_count"`
}

// ModuleRecord describes one source file and the modules it imports.
type ModuleRecord struct {
	Path    string          `json:"path"`
	Imports map[string]bool `json:"-"`
}

// ImportKeys returns the module's imports as a sorted slice.
func (m *ModuleRecord) ImportKeys() []string {
	keys := make([]string, 0, len(m.Imports))
	for k := range m.Imports {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Graph is a directed graph keyed by node name; Edges[a] is the set of
// nodes a has an edge to.
type Graph struct {
	Edges map[string]map[string]bool
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{Edges: make(map[string]map[string]bool)}
}

// AddEdge records an edge from -> to, creating both endpoints as nodes.
func (g *Graph) AddEdge(from, to string) {
	if g.Edges[from] == nil {
		g.Edges[from] = make(map[string]bool)
	}
	g.Edges[from][to] = true
	if _, ok := g.Edges[to]; !ok {
		g.Edges[to] = make(map[string]bool)
	}
}

// AddNode ensures name exists as a node, even with no edges.
func (g *Graph) AddNode(name string) {
	if _, ok := g.Edges[name]; !ok {
		g.Edges[name] = make(map[string]bool)
	}
}

// OutDegree returns the number of distinct successors of name.
func (g *Graph) OutDegree(name string) int {
	return len(g.Edges[name])
}

// InDegree returns the number of distinct predecessors of name.
func (g *Graph) InDegree(name string) int {
	count := 0
	for _, succs := range g.Edges {
		if succs[name] {
			count++
		}
	}
	return count
}

// Adjacency returns a deterministic adjacency list: node -> sorted
// successor names, including nodes with no outgoing edges.
func (g *Graph) Adjacency() map[string][]string {
	out := make(map[string][]string, len(g.Edges))
	for node, succs := range g.Edges {
		names := make([]string, 0, len(succs))
		for s := range succs {
			names = append(names, s)
		}
		sort.Strings(names)
		out[node] = names
	}
	return out
}

// Suggestion is one heuristic finding over a completed WorkspaceIndex.
type Suggestion struct {
	Kind      string   `json:"kind"`
	Target    string   `json:"target"`
	Location  Location `json:"location"`
	Rationale string   `json:"rationale"`
}

// SmellReport groups a workspace's diagnostics unrelated to syntax errors:
// files that failed to read or parse, and duplicate-definition notices.
type SmellReport struct {
	UnreadableFiles  []string `json:"unreadable_files"`
	UnparseableFiles []string `json:"unparseable_files"`
	DuplicateNotices []string `json:"duplicate_notices"`
}

// ImportRecord is one `use` declaration site, kept for find_references.
type ImportRecord struct {
	Path     string   `json:"path"`
	Location Location `json:"location"`
}

// WorkspaceIndex is the immutable merged result of one indexing run.
// Functions is a multi-map because overloads across files share one name.
type WorkspaceIndex struct {
	Functions   map[string][]*FunctionRecord
	Structs     map[string]*StructRecord
	Enums       map[string]*EnumRecord
	Modules     map[string]*ModuleRecord
	CallGraph   *Graph
	TypeGraph   *Graph
	ModuleGraph *Graph
	Smells      SmellReport
	Suggestions []Suggestion
	// Imports indexes every use-declaration site by its last path segment,
	// so find_references can answer "where is X imported" under the same
	// unqualified-name semantics it uses for calls and type uses.
	Imports map[string][]ImportRecord
	// CallSites indexes every call expression's location by its callee
	// name, for find_references.
	CallSites map[string][]Location
}

// New returns an empty WorkspaceIndex ready for the Index Builder to
// populate.
func New() *WorkspaceIndex {
	return &WorkspaceIndex{
		Functions:   make(map[string][]*FunctionRecord),
		Structs:     make(map[string]*StructRecord),
		Enums:       make(map[string]*EnumRecord),
		Modules:     make(map[string]*ModuleRecord),
		CallGraph:   NewGraph(),
		TypeGraph:   NewGraph(),
		ModuleGraph: NewGraph(),
		Imports:     make(map[string][]ImportRecord),
		CallSites:   make(map[string][]Location),
	}
}
