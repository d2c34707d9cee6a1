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
	"strings"

	"github.com/ferrolabs/ferroscope/pkg/index"
	"github.com/ferrolabs/ferroscope/pkg/lang"
)

// CollectModule produces the one ModuleRecord for this file: its import
// set, gathered from every use declaration anywhere in the file (including
// inside nested mod blocks). Unresolved import paths are kept as opaque
// strings — this engine does not resolve imports across files.
func CollectModule(path string, file *lang.File) *index.ModuleRecord {
	rec := &index.ModuleRecord{Path: path, Imports: make(map[string]bool)}
	lang.WalkFile(file, func(n lang.Node) {
		use, ok := n.(*lang.UseItem)
		if !ok {
			return
		}
		rec.Imports[use.Path] = true
	})
	return rec
}

// CollectImportUses produces one ImportUse per `use` declaration in the
// file, preserving its source location so find_references can report
// import sites alongside calls and type uses.
func CollectImportUses(path string, file *lang.File) []ImportUse {
	var uses []ImportUse
	lang.WalkFile(file, func(n lang.Node) {
		use, ok := n.(*lang.UseItem)
		if !ok {
			return
		}
		uses = append(uses, ImportUse{
			Path: use.Path,
			Last: lastSegment(use.Path),
			Loc:  index.Location{File: path, Line: use.ItemPos.Line, Column: use.ItemPos.Column},
		})
	})
	return uses
}

func lastSegment(path string) string {
	idx := strings.LastIndex(path, "::")
	if idx < 0 {
		return path
	}
	return path[idx+2:]
}
