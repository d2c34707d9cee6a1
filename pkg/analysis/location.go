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

// locAt stamps a Location from an AST node's start position, converting
// lang.Pos (already 1-based) into an index.Location for path.
func locAt(path string, pos lang.Pos) index.Location {
	return index.Location{File: path, Line: pos.Line, Column: pos.Column}
}
