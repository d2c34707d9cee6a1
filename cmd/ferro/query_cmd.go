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
	"context"
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/ferrolabs/ferroscope/internal/config"
	"github.com/ferrolabs/ferroscope/internal/errors"
	"github.com/ferrolabs/ferroscope/pkg/builder"
	"github.com/ferrolabs/ferroscope/pkg/cache"
	"github.com/ferrolabs/ferroscope/pkg/query"
)

// runQuery executes 'ferro query def <name>' or 'ferro query refs <name>':
// builds a fresh index rooted at --root (default: current directory) and
// answers goto_definition or find_references against it.
func runQuery(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	root := fs.String("root", ".", "Workspace root to index before querying")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ferro query def <name> [--root path]
       ferro query refs <name> [--root path]

def   Print the first declaration site for <name>, in (file, line) order.
refs  Print every call, type-use, and import site for <name>.
`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(1)
	}
	sub, name := fs.Arg(0), fs.Arg(1)

	cfg, err := config.Load(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	idx, err := query.IndexWorkspace(context.Background(), *root, cache.New(), builder.Options{
		Workers:      cfg.Index.Workers,
		MaxFileSize:  cfg.Index.MaxFileSize,
		ExcludeGlobs: cfg.Index.Exclude,
	})
	if err != nil {
		errors.FatalError(errors.NewIOError(
			"Cannot index workspace",
			fmt.Sprintf("Failed to build index for %s", *root),
			"Check that --root exists and is readable.",
			err,
		), globals.JSON)
	}

	switch sub {
	case "def":
		printDefinition(query.GotoDefinition(idx, name), globals)
	case "refs":
		printReferences(query.FindReferences(idx, name), globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown query subcommand: %s (expected def or refs)\n", sub)
		os.Exit(1)
	}
}

func printDefinition(res query.DefinitionResult, globals GlobalFlags) {
	if res.IsNotFound {
		if globals.JSON {
			fmt.Println(`"not found"`)
		} else {
			fmt.Println(query.NotFound)
		}
		return
	}
	if globals.JSON {
		data, _ := json.Marshal(res.Location)
		fmt.Println(string(data))
		return
	}
	fmt.Printf("%s:%d:%d\n", res.Location.File, res.Location.Line, res.Location.Column)
}

func printReferences(refs []query.Reference, globals GlobalFlags) {
	if globals.JSON {
		data, _ := json.Marshal(refs)
		fmt.Println(string(data))
		return
	}
	for _, r := range refs {
		fmt.Printf("%s:%d:%d\t%s\n", r.Location.File, r.Location.Line, r.Location.Column, r.Kind)
	}
}
