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

package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrolabs/ferroscope/internal/config"
	"github.com/ferrolabs/ferroscope/pkg/cache"
)

func newTestServer() *mcpServer {
	return &mcpServer{cache: cache.New(), cfg: config.Default()}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(context.Background(), jsonRPCRequest{JSONRPC: "2.0", ID: float64(1), Method: "initialize"})
	require.Nil(t, resp.Error)
	result, ok := resp.Result.(mcpInitializeResult)
	require.True(t, ok)
	assert.Equal(t, mcpServerName, result.ServerInfo.Name)
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(context.Background(), jsonRPCRequest{JSONRPC: "2.0", ID: float64(1), Method: "tools/list"})
	require.Nil(t, resp.Error)
	result, ok := resp.Result.(mcpToolsListResult)
	require.True(t, ok)
	names := make(map[string]bool)
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"check_file", "index_workspace", "goto_definition", "find_references"} {
		assert.True(t, names[want], "expected tool %s in tools/list", want)
	}
}

func TestHandleRequest_UnknownMethod(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(context.Background(), jsonRPCRequest{JSONRPC: "2.0", ID: float64(1), Method: "bogus"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
}

func TestHandleRequest_ToolsCall_CheckFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn main() {}\n"), 0644))

	s := newTestServer()
	params := mcpToolCallParams{Name: "check_file", Arguments: map[string]any{"path": path}}
	raw, err := json.Marshal(params)
	require.NoError(t, err)

	resp := s.handleRequest(context.Background(), jsonRPCRequest{JSONRPC: "2.0", ID: float64(1), Method: "tools/call", Params: raw})
	require.Nil(t, resp.Error)
	result, ok := resp.Result.(*mcpToolResult)
	require.True(t, ok)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "File parsed successfully with no syntax errors.", result.Content[0].Text)
}

func TestHandleRequest_ToolsCall_UnknownTool(t *testing.T) {
	s := newTestServer()
	params := mcpToolCallParams{Name: "nope", Arguments: map[string]any{}}
	raw, err := json.Marshal(params)
	require.NoError(t, err)

	resp := s.handleRequest(context.Background(), jsonRPCRequest{JSONRPC: "2.0", ID: float64(1), Method: "tools/call", Params: raw})
	require.Nil(t, resp.Error)
	result, ok := resp.Result.(*mcpToolResult)
	require.True(t, ok)
	assert.True(t, result.IsError)
}

func TestHandleRequest_ToolsCall_IndexWorkspace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rs"), []byte("fn main() {}\n"), 0644))

	s := newTestServer()
	params := mcpToolCallParams{Name: "index_workspace", Arguments: map[string]any{"root": dir}}
	raw, err := json.Marshal(params)
	require.NoError(t, err)

	resp := s.handleRequest(context.Background(), jsonRPCRequest{JSONRPC: "2.0", ID: float64(1), Method: "tools/call", Params: raw})
	require.Nil(t, resp.Error)
	result, ok := resp.Result.(*mcpToolResult)
	require.True(t, ok)
	require.False(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "\"functions\"")
}
