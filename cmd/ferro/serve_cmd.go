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
	"fmt"
	"net/http"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/ferrolabs/ferroscope/internal/config"
	"github.com/ferrolabs/ferroscope/pkg/cache"
	"github.com/ferrolabs/ferroscope/pkg/metrics"
)

// runServe executes 'ferro serve': starts the MCP JSON-RPC stdio loop, with
// an optional Prometheus exposition endpoint running alongside it.
func runServe(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ferro serve [options]

Starts Ferroscope as an MCP server, speaking JSON-RPC 2.0 over stdio.
Exposes check_file, index_workspace, goto_definition, and find_references
as MCP tools.

Options:
`)
		fs.PrintDefaults()
	}
	if args != nil {
		if err := fs.Parse(args); err != nil {
			os.Exit(1)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.Default()
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
			fmt.Fprintf(os.Stderr, "metrics: listening on %s\n", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "metrics: %v\n", err)
			}
		}()
	}

	server := &mcpServer{
		cache: cache.New(),
		cfg:   cfg,
	}
	fmt.Fprintf(os.Stderr, "ferro MCP server v%s starting...\n", mcpVersion)
	serveMCPLoop(server)
}
