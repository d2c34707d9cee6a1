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
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"

	"github.com/ferrolabs/ferroscope/internal/config"
	"github.com/ferrolabs/ferroscope/internal/errors"
	"github.com/ferrolabs/ferroscope/internal/ui"
	"github.com/ferrolabs/ferroscope/pkg/builder"
	"github.com/ferrolabs/ferroscope/pkg/cache"
	"github.com/ferrolabs/ferroscope/pkg/metrics"
	"github.com/ferrolabs/ferroscope/pkg/query"
)

// runIndexCmd executes 'ferro index <root>': runs the full C4 build and
// prints either a colored summary or the full JSON report.
func runIndexCmd(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	workers := fs.Int("workers", 0, "Override the configured worker count (0 = use config)")
	jsonOut := fs.Bool("json", false, "Print the full JSON report instead of a summary")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ferro index <root> [options]

Walks root, parses every source file, and builds a WorkspaceIndex: function,
struct, enum, and module records plus the call/type/module graphs, smells,
and refactoring suggestions.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	root := fs.Arg(0)
	if *jsonOut {
		globals.JSON = true
		globals.Quiet = true
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	if *workers > 0 {
		cfg.Index.Workers = *workers
	}

	logLevel := slog.LevelInfo
	if globals.Verbose >= 2 {
		logLevel = slog.LevelDebug
	}
	if lvl, ok := parseLogLevel(cfg.Log.Level); ok {
		logLevel = lvl
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
			logger.Info("metrics.http.start", "addr", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics.http.error", "err", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutdown.signal", "signal", sig.String())
		cancel()
	}()

	opts := builder.Options{
		Workers:      cfg.Index.Workers,
		MaxFileSize:  cfg.Index.MaxFileSize,
		ExcludeGlobs: cfg.Index.Exclude,
	}

	var bar *progressbar.ProgressBar
	if !globals.JSON && !globals.Quiet {
		opts.OnFileDone = func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Parsing files"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(done)
		}
	}

	logInfo(globals, "index.start root=%s workers=%d", root, opts.Workers)
	idx, err := query.IndexWorkspace(ctx, root, cache.New(), opts)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		errors.FatalError(errors.NewIOError(
			"Cannot index workspace",
			fmt.Sprintf("Failed to build index for %s", root),
			"Check that the path exists and is readable, and that the run was not cancelled.",
			err,
		), globals.JSON)
	}

	report := query.BuildReport(idx)

	if globals.JSON {
		data, marshalErr := json.Marshal(report)
		if marshalErr != nil {
			errors.FatalError(errors.NewInternalError(
				"Cannot encode index report",
				"Failed to marshal the workspace index to JSON",
				"This is a bug, please report it.",
				marshalErr,
			), globals.JSON)
		}
		fmt.Println(string(data))
		return
	}

	printIndexSummary(report)
}

func printIndexSummary(report query.Report) {
	ui.Header("Ferroscope index")
	fmt.Printf("%s %s\n", ui.Label("files:"), ui.CountText(report.Summary.FileCount))
	fmt.Printf("%s %s\n", ui.Label("functions:"), ui.CountText(report.Summary.FunctionCount))
	fmt.Printf("%s %s\n", ui.Label("structs:"), ui.CountText(report.Summary.StructCount))
	fmt.Printf("%s %s\n", ui.Label("enums:"), ui.CountText(report.Summary.EnumCount))
	fmt.Printf("%s %s\n", ui.Label("suggestions:"), ui.CountText(report.Summary.SuggestionCount))

	if len(report.Smells.UnreadableFiles) > 0 {
		ui.SubHeader(fmt.Sprintf("unreadable files (%d)", len(report.Smells.UnreadableFiles)))
		for _, f := range report.Smells.UnreadableFiles {
			fmt.Println("  " + f)
		}
	}
	if len(report.Smells.UnparseableFiles) > 0 {
		ui.SubHeader(fmt.Sprintf("unparseable files (%d)", len(report.Smells.UnparseableFiles)))
		for _, f := range report.Smells.UnparseableFiles {
			fmt.Println("  " + f)
		}
	}
	if len(report.Suggestions) > 0 {
		ui.SubHeader(fmt.Sprintf("suggestions (%d)", len(report.Suggestions)))
		for _, s := range report.Suggestions {
			fmt.Printf("  [%s] %s: %s (%s:%d)\n", s.Kind, s.Target, s.Rationale, s.Location.File, s.Location.Line)
		}
	}
}

func parseLogLevel(level string) (slog.Level, bool) {
	switch level {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
