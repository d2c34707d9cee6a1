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
	"github.com/ferrolabs/ferroscope/pkg/index"
	"github.com/ferrolabs/ferroscope/pkg/lang"
)

// CollectEnums produces one EnumRecord per enum item in the file, including
// enums nested inside modules or function bodies.
func CollectEnums(path string, file *lang.File) []*index.EnumRecord {
	var out []*index.EnumRecord
	lang.WalkFile(file, func(n lang.Node) {
		en, ok := n.(*lang.EnumItem)
		if !ok {
			return
		}
		out = append(out, &index.EnumRecord{
			Name:         en.Name,
			Location:     locAt(path, en.NamePos),
			VariantCount: len(en.Variants),
		})
	})
	return out
}
