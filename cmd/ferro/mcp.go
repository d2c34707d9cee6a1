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
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ferrolabs/ferroscope/internal/config"
	"github.com/ferrolabs/ferroscope/internal/errors"
	"github.com/ferrolabs/ferroscope/pkg/builder"
	"github.com/ferrolabs/ferroscope/pkg/cache"
	"github.com/ferrolabs/ferroscope/pkg/query"
)

const (
	mcpVersion    = "0.1.0"
	mcpServerName = "ferro"
)

// ferroInstructions is the MCP instructions text sent to agents on
// initialize: it describes Ferroscope's four tools and when to use each.
const ferroInstructions = `Ferroscope indexes a workspace of source files and answers structural
questions about it: syntax checking, symbol navigation, and refactoring
suggestions.

## Tools

- check_file(path) — parse one file, report whether it is syntactically
  clean or return the parse error text verbatim. Use this before trusting
  any other result for a file you just edited.
- index_workspace(root) — walk root, parse every source file, and return
  functions, structs, enums, modules, the call/type/module graphs, files
  that failed to read or parse, and refactoring suggestions (long
  functions, high complexity, god objects, unused private functions, and
  more).
- goto_definition(root, name) — index root, then return the first
  declaration site for name, in (file, then line) order. Returns
  "not found" if name is undefined.
- find_references(root, name) — index root, then return every site where
  name appears as a call callee, a type use, or an import target, sorted
  by (file, line, column).

## Recommended workflow

1. Run index_workspace once per session to build a baseline.
2. Use goto_definition/find_references to navigate from there.
3. Re-run check_file after edits to confirm a file still parses before
   re-indexing the whole workspace.
`

// jsonRPCRequest is one JSON-RPC 2.0 request read from stdin.
type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// jsonRPCResponse is one JSON-RPC 2.0 response written to stdout.
type jsonRPCResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id,omitempty"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type mcpServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type mcpCapabilities struct {
	Tools map[string]any `json:"tools,omitempty"`
}

type mcpInitializeResult struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Capabilities    mcpCapabilities `json:"capabilities"`
	ServerInfo      mcpServerInfo   `json:"serverInfo"`
	Instructions    string          `json:"instructions"`
}

type mcpTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type mcpToolsListResult struct {
	Tools []mcpTool `json:"tools"`
}

type mcpToolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type mcpToolResult struct {
	Content []mcpContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

type mcpContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// mcpServer holds the state shared across tool calls for one server
// lifetime: the source cache (so check_file and index_workspace within
// the same session share parsed text) and the loaded configuration.
type mcpServer struct {
	cache *cache.SourceCache
	cfg   *config.Config
}

// serveMCPLoop reads JSON-RPC requests from stdin, one per line, and
// writes responses to stdout.
func serveMCPLoop(server *mcpServer) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var req jsonRPCRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			ue := errors.NewInputError(
				"Invalid JSON in MCP request",
				"The request does not conform to JSON-RPC 2.0 format",
				"Check your MCP client configuration.",
			)
			fmt.Fprintf(os.Stderr, "%s\n", ue.Format(false))
			continue
		}

		fmt.Fprintf(os.Stderr, "-> %s\n", req.Method)

		ctx := context.Background()
		resp := server.handleRequest(ctx, req)

		if resp.ID == nil && resp.Result == nil && resp.Error == nil {
			continue
		}

		respBytes, err := json.Marshal(resp)
		if err != nil {
			ue := errors.NewInternalError(
				"Cannot encode MCP response",
				"Failed to marshal response to JSON",
				"This is a bug, please report it.",
				err,
			)
			fmt.Fprintf(os.Stderr, "%s\n", ue.Format(false))
			continue
		}

		_, _ = fmt.Fprintf(os.Stdout, "%s\n", respBytes)
		_ = os.Stdout.Sync()
	}

	if err := scanner.Err(); err != nil {
		errors.FatalError(errors.NewInternalError(
			"MCP server input error",
			"Failed to read from stdin",
			"Check whether stdin was closed unexpectedly.",
			err,
		), false)
	}
}

func (s *mcpServer) getTools() []mcpTool {
	return []mcpTool{
		{
			Name:        "check_file",
			Description: "Parse one source file and report whether it is syntactically clean, or return the parse error text.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path": map[string]any{"type": "string", "description": "Path to the source file."},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "index_workspace",
			Description: "Walk a workspace root, parse every source file, and return functions, structs, enums, modules, graphs, smells, and refactoring suggestions.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"root": map[string]any{"type": "string", "description": "Workspace root directory."},
				},
				"required": []string{"root"},
			},
		},
		{
			Name:        "goto_definition",
			Description: "Find the first declaration site for a name, in (file, line) order, after indexing root.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"root": map[string]any{"type": "string", "description": "Workspace root to index."},
					"name": map[string]any{"type": "string", "description": "Symbol name to look up."},
				},
				"required": []string{"root", "name"},
			},
		},
		{
			Name:        "find_references",
			Description: "Find every call, type-use, and import site for a name, after indexing root.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"root": map[string]any{"type": "string", "description": "Workspace root to index."},
					"name": map[string]any{"type": "string", "description": "Symbol name to look up."},
				},
				"required": []string{"root", "name"},
			},
		},
	}
}

type toolHandler func(ctx context.Context, s *mcpServer, args map[string]any) (string, error)

var toolHandlers = map[string]toolHandler{
	"check_file":      handleCheckFile,
	"index_workspace": handleIndexWorkspace,
	"goto_definition": handleGotoDefinition,
	"find_references": handleFindReferences,
}

func (s *mcpServer) handleToolCall(ctx context.Context, params mcpToolCallParams) *mcpToolResult {
	handler, ok := toolHandlers[params.Name]
	if !ok {
		return &mcpToolResult{
			Content: []mcpContent{{Type: "text", Text: fmt.Sprintf("Unknown tool: %s", params.Name)}},
			IsError: true,
		}
	}

	text, err := handler(ctx, s, params.Arguments)
	if err != nil {
		return s.formatError(params.Name, err)
	}
	return &mcpToolResult{Content: []mcpContent{{Type: "text", Text: text}}}
}

func buildOpts(cfg *config.Config) builder.Options {
	return builder.Options{
		Workers:      cfg.Index.Workers,
		MaxFileSize:  cfg.Index.MaxFileSize,
		ExcludeGlobs: cfg.Index.Exclude,
	}
}

func handleCheckFile(_ context.Context, s *mcpServer, args map[string]any) (string, error) {
	path, _ := args["path"].(string)
	if path == "" {
		return "", errors.NewInputError("Missing path argument", "check_file requires a path", "Pass { \"path\": \"...\" }")
	}
	return query.CheckFile(path, s.cache)
}

func handleIndexWorkspace(ctx context.Context, s *mcpServer, args map[string]any) (string, error) {
	root, _ := args["root"].(string)
	if root == "" {
		return "", errors.NewInputError("Missing root argument", "index_workspace requires a root", "Pass { \"root\": \"...\" }")
	}
	idx, err := query.IndexWorkspace(ctx, root, s.cache, buildOpts(s.cfg))
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(query.BuildReport(idx))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func handleGotoDefinition(ctx context.Context, s *mcpServer, args map[string]any) (string, error) {
	root, _ := args["root"].(string)
	name, _ := args["name"].(string)
	if root == "" || name == "" {
		return "", errors.NewInputError("Missing arguments", "goto_definition requires root and name", "Pass { \"root\": \"...\", \"name\": \"...\" }")
	}
	idx, err := query.IndexWorkspace(ctx, root, s.cache, buildOpts(s.cfg))
	if err != nil {
		return "", err
	}
	res := query.GotoDefinition(idx, name)
	if res.IsNotFound {
		return fmt.Sprintf("%q", query.NotFound), nil
	}
	data, err := json.Marshal(res.Location)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func handleFindReferences(ctx context.Context, s *mcpServer, args map[string]any) (string, error) {
	root, _ := args["root"].(string)
	name, _ := args["name"].(string)
	if root == "" || name == "" {
		return "", errors.NewInputError("Missing arguments", "find_references requires root and name", "Pass { \"root\": \"...\", \"name\": \"...\" }")
	}
	idx, err := query.IndexWorkspace(ctx, root, s.cache, buildOpts(s.cfg))
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(query.FindReferences(idx, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError renders a tool failure using the engine's error taxonomy,
// so agents see the same title/detail/suggestion shape the CLI prints.
func (s *mcpServer) formatError(toolName string, err error) *mcpToolResult {
	ee, ok := err.(*errors.EngineError)
	if !ok {
		ee = errors.NewInternalError(
			fmt.Sprintf("Unexpected error in %s", toolName),
			err.Error(),
			"This is a bug, please report it.",
			err,
		)
	}
	return &mcpToolResult{
		Content: []mcpContent{{Type: "text", Text: ee.Format(true)}},
		IsError: true,
	}
}

func (s *mcpServer) handleRequest(ctx context.Context, req jsonRPCRequest) jsonRPCResponse {
	switch req.Method {
	case "initialize":
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpInitializeResult{
				ProtocolVersion: "2024-11-05",
				Capabilities:    mcpCapabilities{Tools: map[string]any{"listChanged": true}},
				ServerInfo:      mcpServerInfo{Name: mcpServerName, Version: mcpVersion},
				Instructions:    ferroInstructions,
			},
		}

	case "notifications/initialized":
		return jsonRPCResponse{}

	case "tools/list":
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  mcpToolsListResult{Tools: s.getTools()},
		}

	case "tools/call":
		var params mcpToolCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return jsonRPCResponse{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error:   &rpcError{Code: -32602, Message: "Invalid params", Data: err.Error()},
			}
		}
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  s.handleToolCall(ctx, params),
		}

	default:
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: -32601, Message: "Method not found", Data: req.Method},
		}
	}
}
