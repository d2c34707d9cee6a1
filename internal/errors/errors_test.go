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

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_RPCCode(t *testing.T) {
	assert.Equal(t, -32602, KindInput.RPCCode())
	assert.Equal(t, -32603, KindIO.RPCCode())
	assert.Equal(t, -32603, KindParse.RPCCode())
	assert.Equal(t, -32603, KindInternal.RPCCode())
}

func TestEngineError_ErrorWithoutCause(t *testing.T) {
	e := NewInputError("Bad input", "missing name argument", "pass a name")
	assert.Equal(t, "Bad input: missing name argument", e.Error())
}

func TestEngineError_ErrorWithCause(t *testing.T) {
	cause := errors.New("permission denied")
	e := NewIOError("Cannot read file", "failed to read a.rs", "check permissions", cause)
	assert.Equal(t, "Cannot read file: failed to read a.rs: permission denied", e.Error())
}

func TestEngineError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	e := NewInternalError("Internal error", "unexpected state", "please report", cause)
	assert.Same(t, cause, errors.Unwrap(e))
}

func TestEngineError_FormatJSON(t *testing.T) {
	e := NewParseError("Syntax error", "unexpected token", "fix the source", nil)
	assert.Equal(t, e.Error(), e.Format(true))
}

func TestEngineError_FormatPlainContainsSuggestion(t *testing.T) {
	e := NewInputError("Bad input", "missing name", "pass --name")
	out := e.Format(false)
	assert.Contains(t, out, "Bad input")
	assert.Contains(t, out, "missing name")
	assert.Contains(t, out, "pass --name")
}
