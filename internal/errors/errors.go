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

// Package errors provides the engine's user-facing error type: a title,
// a cause, and an actionable suggestion, renderable either as colored
// terminal text or as a plain JSON-friendly string.
package errors

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Kind classifies an EngineError for JSON-RPC error-code mapping.
type Kind string

const (
	KindInput    Kind = "input"    // malformed request, bad tool arguments
	KindIO       Kind = "io"       // filesystem/workspace access failure
	KindParse    Kind = "parse"    // source file failed to parse
	KindInternal Kind = "internal" // bug: unexpected nil, invariant violation
)

// RPCCode returns the JSON-RPC 2.0 error code associated with k.
// Input maps to -32602 (Invalid params); everything else the engine cannot
// itself recover from maps to -32603 (Internal error). Parse failures are
// reported as soft diagnostics (SmellReport), not RPC errors, so they never
// reach this mapping in practice.
func (k Kind) RPCCode() int {
	if k == KindInput {
		return -32602
	}
	return -32603
}

// EngineError is the single error type surfaced to users and to MCP
// clients. Title is the one-line summary, Detail explains what happened,
// Suggestion tells the user what to do next, and Cause (if any) is the
// underlying error being wrapped.
type EngineError struct {
	Kind       Kind
	Title      string
	Detail     string
	Suggestion string
	Cause      error
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, title, detail, suggestion string, cause error) *EngineError {
	return &EngineError{Kind: kind, Title: title, Detail: detail, Suggestion: suggestion, Cause: cause}
}

// NewInputError reports a malformed request: bad tool arguments, an
// unparsable path, an unknown query kind.
func NewInputError(title, detail, suggestion string) *EngineError {
	return newError(KindInput, title, detail, suggestion, nil)
}

// NewIOError reports a failure reading the workspace: a missing root, a
// file that vanished between discovery and read, a permission error.
func NewIOError(title, detail, suggestion string, cause error) *EngineError {
	return newError(KindIO, title, detail, suggestion, cause)
}

// NewParseError reports a source file that failed to parse.
func NewParseError(title, detail, suggestion string, cause error) *EngineError {
	return newError(KindParse, title, detail, suggestion, cause)
}

// NewInternalError reports a bug in the engine itself.
func NewInternalError(title, detail, suggestion string, cause error) *EngineError {
	return newError(KindInternal, title, detail, suggestion, cause)
}

// Format renders the error either as colored terminal text (json=false) or
// as a single plain line suitable for embedding in a JSON error payload.
func (e *EngineError) Format(json bool) string {
	if json {
		return e.Error()
	}
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	dim := color.New(color.Faint)

	out := red.Sprintf("Error: %s", e.Title) + "\n"
	out += fmt.Sprintf("  %s\n", e.Detail)
	if e.Cause != nil {
		out += dim.Sprintf("  cause: %v", e.Cause) + "\n"
	}
	if e.Suggestion != "" {
		out += yellow.Sprintf("  %s", e.Suggestion) + "\n"
	}
	return out
}

// rpcErrorPayload is the shape written to stderr when FatalError is
// invoked in JSON mode, mirroring the engine's JSON-RPC error object.
type rpcErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// FatalError prints err (as an EngineError if possible) and exits the
// process with status 1. jsonMode controls whether the message is a
// colored human report or a single-line JSON object on stderr.
func FatalError(err error, jsonMode bool) {
	ee, ok := err.(*EngineError)
	if !ok {
		ee = NewInternalError("Unexpected error", err.Error(), "This is a bug, please report it.", err)
	}

	if jsonMode {
		payload := rpcErrorPayload{Code: ee.Kind.RPCCode(), Message: ee.Title, Data: ee.Detail}
		data, _ := json.Marshal(payload)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprint(os.Stderr, ee.Format(false))
	}
	os.Exit(1)
}
