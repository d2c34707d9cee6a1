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

// AnalyzeFile runs every visitor over one parsed file and returns the
// combined per-file result. Each visitor below is an independent,
// single-pass traversal producing its own data slice (spec.md §4.3); they
// are called in sequence from the Index Builder's per-file task.
func AnalyzeFile(path string, file *lang.File) FileResult {
	return FileResult{
		Path:       path,
		Functions:  CollectFunctions(path, file),
		Structs:    CollectStructs(path, file),
		Enums:      CollectEnums(path, file),
		Module:     CollectModule(path, file),
		TypeUses:   CollectTypeUses(path, file),
		CallSites:  CollectCallSites(path, file),
		ImportUses: CollectImportUses(path, file),
	}
}
