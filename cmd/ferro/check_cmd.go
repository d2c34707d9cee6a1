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
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/ferrolabs/ferroscope/internal/errors"
	"github.com/ferrolabs/ferroscope/pkg/cache"
	"github.com/ferrolabs/ferroscope/pkg/query"
)

// runCheck executes 'ferro check <path>': parses one file and reports
// whether it is syntactically clean.
func runCheck(args []string, _ string, globals GlobalFlags) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ferro check <path>

Parses a single source file through the cache and parser and reports
whether it is syntactically clean, or the parse error text verbatim.
`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)
	logDebug(globals, "check.start path=%s", path)

	msg, err := query.CheckFile(path, cache.New())
	if err != nil {
		errors.FatalError(errors.NewIOError(
			"Cannot read source file",
			fmt.Sprintf("Failed to read %s", path),
			"Check that the path exists and is readable.",
			err,
		), globals.JSON)
	}

	if globals.JSON {
		data, _ := json.Marshal(map[string]string{"path": path, "message": msg})
		fmt.Println(string(data))
		return
	}
	fmt.Println(msg)
}
