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

package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrolabs/ferroscope/pkg/index"
)

func TestEvaluate_EmptyIndexProducesNoSuggestions(t *testing.T) {
	idx := index.New()
	assert.Empty(t, Evaluate(idx))
}

func TestEvaluate_LongFunctionAndHighComplexity(t *testing.T) {
	idx := index.New()
	fn := &index.FunctionRecord{
		Name:                 "doEverything",
		Location:             index.Location{File: "a.rs", Line: 1},
		LineCount:            maxLineCount + 1,
		CyclomaticComplexity: maxComplexity + 1,
		IsPublic:             true,
	}
	idx.Functions["doEverything"] = []*index.FunctionRecord{fn}
	idx.CallGraph.AddNode("doEverything")

	out := Evaluate(idx)
	kinds := make(map[string]bool)
	for _, s := range out {
		kinds[s.Kind] = true
		assert.Equal(t, "doEverything", s.Target)
	}
	assert.True(t, kinds[KindLongFunction])
	assert.True(t, kinds[KindHighComplexity])
}

func TestEvaluate_UnusedPrivateFunctionFlagged(t *testing.T) {
	idx := index.New()
	fn := &index.FunctionRecord{
		Name:     "helper",
		Location: index.Location{File: "a.rs", Line: 3},
		IsPublic: false,
	}
	idx.Functions["helper"] = []*index.FunctionRecord{fn}
	idx.CallGraph.AddNode("helper")

	out := Evaluate(idx)
	require.Len(t, out, 1)
	assert.Equal(t, KindUnusedFunction, out[0].Kind)
}

func TestEvaluate_PublicUncalledFunctionNotFlagged(t *testing.T) {
	idx := index.New()
	fn := &index.FunctionRecord{
		Name:     "exported",
		Location: index.Location{File: "a.rs", Line: 3},
		IsPublic: true,
	}
	idx.Functions["exported"] = []*index.FunctionRecord{fn}
	idx.CallGraph.AddNode("exported")

	assert.Empty(t, Evaluate(idx))
}

func TestEvaluate_CalledPrivateFunctionNotFlagged(t *testing.T) {
	idx := index.New()
	fn := &index.FunctionRecord{
		Name:     "helper",
		Location: index.Location{File: "a.rs", Line: 3},
		IsPublic: false,
	}
	idx.Functions["helper"] = []*index.FunctionRecord{fn}
	idx.CallGraph.AddEdge("caller", "helper")

	assert.Empty(t, Evaluate(idx))
}

func TestEvaluate_ExcessiveCalleesAndCallers(t *testing.T) {
	idx := index.New()
	hub := &index.FunctionRecord{Name: "hub", Location: index.Location{File: "a.rs", Line: 1}, IsPublic: true}
	idx.Functions["hub"] = []*index.FunctionRecord{hub}
	for i := 0; i < maxCallees+1; i++ {
		idx.CallGraph.AddEdge("hub", "callee"+itoa(i))
	}
	for i := 0; i < maxCallers+1; i++ {
		idx.CallGraph.AddEdge("caller"+itoa(i), "hub")
	}

	out := Evaluate(idx)
	kinds := make(map[string]bool)
	for _, s := range out {
		if s.Target == "hub" {
			kinds[s.Kind] = true
		}
	}
	assert.True(t, kinds[KindExcessiveCallees])
	assert.True(t, kinds[KindExcessiveCallers])
}

func TestEvaluate_WideStructAndGodObject(t *testing.T) {
	idx := index.New()
	usedIn := make([]index.Location, 0, maxStructUses+1)
	for i := 0; i < maxStructUses+1; i++ {
		usedIn = append(usedIn, index.Location{File: "a.rs", Line: i + 1})
	}
	idx.Structs["Big"] = &index.StructRecord{
		Name:       "Big",
		Location:   index.Location{File: "a.rs", Line: 1},
		FieldCount: maxFieldCount + 1,
		UsedIn:     usedIn,
	}

	out := Evaluate(idx)
	kinds := make(map[string]bool)
	for _, s := range out {
		kinds[s.Kind] = true
	}
	assert.True(t, kinds[KindWideStruct])
	assert.True(t, kinds[KindGodObject])
}

func TestEvaluate_WideEnumFlagged(t *testing.T) {
	idx := index.New()
	idx.Enums["Big"] = &index.EnumRecord{
		Name:         "Big",
		Location:     index.Location{File: "a.rs", Line: 1},
		VariantCount: maxVariantCount + 1,
	}

	out := Evaluate(idx)
	require.Len(t, out, 1)
	assert.Equal(t, KindWideEnum, out[0].Kind)
}

func TestEvaluate_SortedByKindThenTargetThenLocation(t *testing.T) {
	idx := index.New()
	idx.Enums["Zeta"] = &index.EnumRecord{Name: "Zeta", Location: index.Location{File: "a.rs", Line: 1}, VariantCount: maxVariantCount + 1}
	idx.Enums["Alpha"] = &index.EnumRecord{Name: "Alpha", Location: index.Location{File: "b.rs", Line: 1}, VariantCount: maxVariantCount + 1}
	idx.Structs["Wide"] = &index.StructRecord{Name: "Wide", Location: index.Location{File: "a.rs", Line: 1}, FieldCount: maxFieldCount + 1}

	out := Evaluate(idx)
	require.Len(t, out, 3)
	assert.Equal(t, KindWideEnum, out[0].Kind)
	assert.Equal(t, "Alpha", out[0].Target)
	assert.Equal(t, KindWideEnum, out[1].Kind)
	assert.Equal(t, "Zeta", out[1].Target)
	assert.Equal(t, KindWideStruct, out[2].Kind)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
