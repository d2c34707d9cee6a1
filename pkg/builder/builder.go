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

// Package builder implements the Index Builder: it enumerates source files
// under a workspace root, drives the source cache, parser, and visitor kit
// over each one, and merges the per-file results into one immutable
// WorkspaceIndex.
package builder

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/ferrolabs/ferroscope/pkg/analysis"
	"github.com/ferrolabs/ferroscope/pkg/cache"
	"github.com/ferrolabs/ferroscope/pkg/heuristics"
	"github.com/ferrolabs/ferroscope/pkg/index"
	"github.com/ferrolabs/ferroscope/pkg/lang"
	"github.com/ferrolabs/ferroscope/pkg/metrics"
)

// Options controls one Build invocation.
type Options struct {
	// Workers is the number of parallel parse+visit tasks. A value <= 1,
	// or fewer than sequentialThreshold files, forces the sequential path
	// so small workspaces never pay worker-pool overhead.
	Workers int
	// MaxFileSize is the largest file, in bytes, that will be read; larger
	// files are recorded as unreadable.
	MaxFileSize int64
	// ExcludeGlobs are glob patterns (relative to root) to skip during
	// discovery.
	ExcludeGlobs []string
	// OnFileDone, if set, is called once per file after it finishes
	// processing, with the number of files done so far and the total file
	// count. Build serializes these calls itself, so callers never need
	// their own locking even when Workers drives the parallel path.
	OnFileDone func(done, total int)
}

// sequentialThreshold mirrors the teacher pipeline's own cutover: below
// this many files, worker-pool setup costs more than it saves.
const sequentialThreshold = 10

// fileOutcome is the caller-local result of processing one file; nothing
// here touches shared state, so a cancelled run can simply be discarded.
type fileOutcome struct {
	path        string
	result      analysis.FileResult
	unreadable  bool
	unparseable bool
	syntaxErr   *lang.SyntaxError
}

// Build runs the full C4 algorithm: discover, read, parse, visit, merge,
// and evaluate heuristics. It returns a freshly assembled, immutable
// WorkspaceIndex. A cancelled context aborts before any merge happens, so
// no caller ever observes a partially merged index.
func Build(ctx context.Context, root string, c *cache.SourceCache, opts Options) (*index.WorkspaceIndex, error) {
	start := metrics.ObserveQuery("index_workspace")
	defer start()
	began := time.Now()
	defer func() { metrics.IndexDuration.Observe(time.Since(began).Seconds()) }()

	files, err := DiscoverFiles(root, opts.ExcludeGlobs)
	if err != nil {
		metrics.IndexRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	workers := opts.Workers
	var outcomes []fileOutcome
	if workers <= 1 || len(files) < sequentialThreshold {
		outcomes = processSequential(ctx, files, c, opts.MaxFileSize, opts.OnFileDone)
	} else {
		outcomes = processParallel(ctx, files, c, opts.MaxFileSize, workers, opts.OnFileDone)
	}

	if ctx.Err() != nil {
		metrics.IndexRuns.WithLabelValues("error").Inc()
		return nil, ctx.Err()
	}

	idx := merge(outcomes)
	idx.Suggestions = heuristics.Evaluate(idx)

	metrics.IndexRuns.WithLabelValues("ok").Inc()
	return idx, nil
}

func readAndAnalyze(path string, c *cache.SourceCache, maxFileSize int64) fileOutcome {
	text, ok := c.Get(path)
	if !ok {
		info, statErr := os.Stat(path)
		if statErr != nil {
			metrics.FilesProcessed.WithLabelValues("unreadable").Inc()
			return fileOutcome{path: path, unreadable: true}
		}
		if maxFileSize > 0 && info.Size() > maxFileSize {
			metrics.FilesProcessed.WithLabelValues("unreadable").Inc()
			return fileOutcome{path: path, unreadable: true}
		}
		data, readErr := os.ReadFile(path) //nolint:gosec // path comes from workspace discovery
		if readErr != nil {
			metrics.FilesProcessed.WithLabelValues("unreadable").Inc()
			return fileOutcome{path: path, unreadable: true}
		}
		text = string(data)
		c.Insert(path, text)
	}

	file, syntaxErr := lang.Parse(text)
	if syntaxErr != nil {
		metrics.FilesProcessed.WithLabelValues("unparseable").Inc()
		return fileOutcome{path: path, unparseable: true, syntaxErr: syntaxErr}
	}

	metrics.FilesProcessed.WithLabelValues("parsed").Inc()
	return fileOutcome{path: path, result: analysis.AnalyzeFile(path, file)}
}

func processSequential(ctx context.Context, files []string, c *cache.SourceCache, maxFileSize int64, onDone func(done, total int)) []fileOutcome {
	outcomes := make([]fileOutcome, 0, len(files))
	for _, path := range files {
		select {
		case <-ctx.Done():
			return outcomes
		default:
		}
		outcomes = append(outcomes, readAndAnalyze(path, c, maxFileSize))
		if onDone != nil {
			onDone(len(outcomes), len(files))
		}
	}
	return outcomes
}

func processParallel(ctx context.Context, files []string, c *cache.SourceCache, maxFileSize int64, workers int, onDone func(done, total int)) []fileOutcome {
	jobs := make(chan int, len(files))
	results := make(chan fileOutcome, len(files))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				results <- readAndAnalyze(files[i], c, maxFileSize)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]fileOutcome, 0, len(files))
	for r := range results {
		outcomes = append(outcomes, r)
		if onDone != nil {
			onDone(len(outcomes), len(files))
		}
	}
	return outcomes
}

// merge folds every file outcome into one WorkspaceIndex. This is the
// serial phase: no concurrent access from here on.
func merge(outcomes []fileOutcome) *index.WorkspaceIndex {
	// Sort by path first so duplicate-definition overwrites and diagnostic
	// ordering are deterministic regardless of which worker finished first.
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].path < outcomes[j].path })

	idx := index.New()
	var allTypeUses []analysis.TypeUse
	var allCallSites []analysis.CallSite

	for _, o := range outcomes {
		if o.unreadable {
			idx.Smells.UnreadableFiles = append(idx.Smells.UnreadableFiles, o.path)
			continue
		}
		if o.unparseable {
			idx.Smells.UnparseableFiles = append(idx.Smells.UnparseableFiles, o.path)
			continue
		}

		r := o.result
		for _, fn := range r.Functions {
			idx.Functions[fn.Name] = append(idx.Functions[fn.Name], fn)
			idx.CallGraph.AddNode(fn.Name)
			for callee := range fn.Callees {
				idx.CallGraph.AddEdge(fn.Name, callee)
			}
		}
		for _, st := range r.Structs {
			if _, dup := idx.Structs[st.Name]; dup {
				idx.Smells.DuplicateNotices = append(idx.Smells.DuplicateNotices,
					fmt.Sprintf("duplicate struct %q redefined at %s:%d", st.Name, st.Location.File, st.Location.Line))
			}
			idx.Structs[st.Name] = st
		}
		for _, en := range r.Enums {
			if _, dup := idx.Enums[en.Name]; dup {
				idx.Smells.DuplicateNotices = append(idx.Smells.DuplicateNotices,
					fmt.Sprintf("duplicate enum %q redefined at %s:%d", en.Name, en.Location.File, en.Location.Line))
			}
			idx.Enums[en.Name] = en
		}
		if r.Module != nil {
			if _, dup := idx.Modules[r.Module.Path]; dup {
				idx.Smells.DuplicateNotices = append(idx.Smells.DuplicateNotices,
					fmt.Sprintf("duplicate module record for %q", r.Module.Path))
			}
			idx.Modules[r.Module.Path] = r.Module
			idx.ModuleGraph.AddNode(r.Module.Path)
			for imp := range r.Module.Imports {
				idx.ModuleGraph.AddEdge(r.Module.Path, imp)
			}
		}

		allTypeUses = append(allTypeUses, r.TypeUses...)
		allCallSites = append(allCallSites, r.CallSites...)
		for _, u := range r.ImportUses {
			idx.Imports[u.Last] = append(idx.Imports[u.Last], index.ImportRecord{Path: u.Path, Location: u.Loc})
		}
	}

	mergeTypeUses(idx, allTypeUses)
	mergeCallSites(idx, allCallSites)

	sort.Strings(idx.Smells.UnreadableFiles)
	sort.Strings(idx.Smells.UnparseableFiles)
	for name, recs := range idx.Imports {
		sort.Slice(recs, func(i, j int) bool { return recs[i].Location.Less(recs[j].Location) })
		idx.Imports[name] = recs
	}
	for name, locs := range idx.CallSites {
		idx.CallSites[name] = index.SortLocations(locs)
	}
	return idx
}

// mergeTypeUses joins TypeUseCollector output into StructRecord.UsedIn and
// the type-usage graph. A struct's own field/variant-position uses always
// append to UsedIn (they describe composition). A function-scoped use
// (param/return/let) becomes a type-graph edge from the owning function to
// the struct only when that struct is itself used as a field type
// somewhere in the workspace; otherwise it too appends to UsedIn.
func mergeTypeUses(idx *index.WorkspaceIndex, uses []analysis.TypeUse) {
	usedAsFieldType := make(map[string]bool)
	for _, u := range uses {
		if u.Context == "field" || u.Context == "variant" {
			usedAsFieldType[u.Name] = true
		}
	}

	for _, u := range uses {
		st, ok := idx.Structs[u.Name]
		if !ok {
			continue
		}
		switch u.Context {
		case "field", "variant":
			st.UsedIn = append(st.UsedIn, u.Loc)
		default: // param, return, let
			if usedAsFieldType[u.Name] {
				idx.TypeGraph.AddEdge(u.OwnerFunction, u.Name)
			} else {
				st.UsedIn = append(st.UsedIn, u.Loc)
			}
		}
	}

	for _, st := range idx.Structs {
		st.UsedIn = index.SortLocations(st.UsedIn)
	}
}

// mergeCallSites joins CallSiteCollector output into the call graph. Most
// edges were already added from each FunctionRecord's own Callees set
// during the per-file fold; call sites additionally ensure a call to a
// name with no FunctionRecord in this workspace (e.g. a library function)
// still becomes a graph node, so its in-degree is visible.
func mergeCallSites(idx *index.WorkspaceIndex, sites []analysis.CallSite) {
	for _, s := range sites {
		idx.CallGraph.AddEdge(s.Caller, s.Callee)
		idx.CallSites[s.Callee] = append(idx.CallSites[s.Callee], s.Loc)
	}
}
