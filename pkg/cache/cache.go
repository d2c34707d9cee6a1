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

// Package cache implements the source cache: the single shared mutable
// structure in the workspace analysis engine. It maps absolute file paths
// to the text most recently read for them by this process.
//
// Entries are value-replaced, never mutated in place, so a concurrent
// reader never observes a torn entry (path mismatched with its text). A
// single reader-writer lock guards the map; there is no per-entry locking.
package cache

import "sync"

// entry pairs a path with the text most recently inserted for it.
type entry struct {
	path string
	text string
}

// SourceCache maps absolute file paths to source text. The zero value is
// not usable; construct with New.
type SourceCache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New returns an empty SourceCache.
func New() *SourceCache {
	return &SourceCache{entries: make(map[string]entry)}
}

// Get returns the cached text for path and true, or "" and false if absent.
// Get never blocks a concurrent Get.
func (c *SourceCache) Get(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	if !ok {
		return "", false
	}
	return e.text, true
}

// Insert replaces (or installs) the cached text for path. A Get that
// happens-after an Insert for the same path observes the inserted text,
// unless another Insert for that path intervenes.
func (c *SourceCache) Insert(path, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry{path: path, text: text}
}

// Invalidate drops the cached entry for path, if any.
func (c *SourceCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Len reports the number of cached entries, mainly for diagnostics/tests.
func (c *SourceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
