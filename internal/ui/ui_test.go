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

package ui

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestInitColors_NoColorForcesPlainOutput(t *testing.T) {
	prev := color.NoColor
	defer func() { color.NoColor = prev }()

	InitColors(true)
	assert.True(t, color.NoColor)
}

func TestLabel_ContentSurvivesColorStripping(t *testing.T) {
	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = true

	assert.Equal(t, "files:", Label("files:"))
	assert.Equal(t, "skipped", DimText("skipped"))
	assert.Equal(t, "42", CountText(42))
}
