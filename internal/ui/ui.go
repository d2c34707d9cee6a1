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

// Package ui provides the CLI's colored terminal output helpers. Color is
// disabled automatically on non-TTY stdout, and can be force-disabled via
// --no-color or NO_COLOR.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	Red    = color.New(color.FgRed)
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Cyan   = color.New(color.FgCyan)
	Dim    = color.New(color.Faint)
)

// InitColors enables or disables colored output. It respects an explicit
// --no-color flag, and otherwise disables color when stdout is not a
// terminal (e.g. piped into a file or another process).
func InitColors(noColor bool) {
	if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// Header prints a bold section header.
func Header(title string) {
	bold := color.New(color.Bold)
	_, _ = bold.Println(title)
}

// SubHeader prints a dim sub-section header.
func SubHeader(title string) {
	_, _ = Dim.Println(title)
}

// Label renders text in bold, meant to prefix a value on the same line.
func Label(text string) string {
	return color.New(color.Bold).Sprint(text)
}

// DimText renders text in the dim/faint style, as a string rather than
// printing it directly.
func DimText(text string) string {
	return Dim.Sprint(text)
}

// CountText renders a count, highlighted, as a string.
func CountText(n int) string {
	return color.New(color.FgCyan, color.Bold).Sprintf("%d", n)
}

// Info prints an informational line prefixed with a cyan marker.
func Info(msg string) {
	_, _ = Cyan.Print("info: ")
	fmt.Println(msg)
}

// Infof is Info with Printf-style formatting.
func Infof(format string, args ...interface{}) {
	Info(fmt.Sprintf(format, args...))
}

// Success prints a green success line.
func Success(msg string) {
	_, _ = Green.Print("✓ ")
	fmt.Println(msg)
}

// Successf is Success with Printf-style formatting.
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Warning prints a yellow warning line to stderr.
func Warning(msg string) {
	_, _ = Yellow.Fprint(os.Stderr, "warning: ")
	fmt.Fprintln(os.Stderr, msg)
}

// Warningf is Warning with Printf-style formatting.
func Warningf(format string, args ...interface{}) {
	Warning(fmt.Sprintf(format, args...))
}
