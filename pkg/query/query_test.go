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

package query

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrolabs/ferroscope/pkg/builder"
	"github.com/ferrolabs/ferroscope/pkg/cache"
)

func write(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestCheckFile_CleanParse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.rs")
	write(t, path, "fn main() {}\n")

	msg, err := CheckFile(path, cache.New())
	require.NoError(t, err)
	assert.Equal(t, "File parsed successfully with no syntax errors.", msg)
}

func TestCheckFile_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.rs")
	write(t, path, "fn broken( {\n")

	msg, err := CheckFile(path, cache.New())
	require.NoError(t, err)
	assert.NotEqual(t, "File parsed successfully with no syntax errors.", msg)
	assert.NotEmpty(t, msg)
}

func TestCheckFile_UnreadableFile(t *testing.T) {
	dir := t.TempDir()
	_, err := CheckFile(filepath.Join(dir, "missing.rs"), cache.New())
	assert.Error(t, err)
}

func TestGotoDefinition_TieBreakByFileThenLine(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a.rs"), "\n\n\n\n\n\n\n\n\nfn target() {}\n")
	write(t, filepath.Join(dir, "b.rs"), "\n\n\n\nfn target() {}\n")

	idx, err := builder.Build(context.Background(), dir, cache.New(), builder.Options{Workers: 4, MaxFileSize: 1 << 20})
	require.NoError(t, err)

	res := GotoDefinition(idx, "target")
	require.False(t, res.IsNotFound)
	assert.Equal(t, filepath.Join(dir, "a.rs"), res.Location.File)
}

func TestGotoDefinition_NotFound(t *testing.T) {
	dir := t.TempDir()
	idx, err := builder.Build(context.Background(), dir, cache.New(), builder.Options{Workers: 4, MaxFileSize: 1 << 20})
	require.NoError(t, err)

	res := GotoDefinition(idx, "nope")
	assert.True(t, res.IsNotFound)
}

func TestFindReferences_CallsTypeUsesAndImports(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "main.rs"), `
use util::helper;

struct Config { value: i32 }

fn run(c: Config) {
	helper();
}
`)
	idx, err := builder.Build(context.Background(), dir, cache.New(), builder.Options{Workers: 4, MaxFileSize: 1 << 20})
	require.NoError(t, err)

	refs := FindReferences(idx, "helper")
	require.Len(t, refs, 2)
	kinds := map[string]bool{}
	for _, r := range refs {
		kinds[r.Kind] = true
	}
	assert.True(t, kinds["call"])
	assert.True(t, kinds["import"])

	typeRefs := FindReferences(idx, "Config")
	require.NotEmpty(t, typeRefs)
	assert.Equal(t, "type_use", typeRefs[0].Kind)
}
