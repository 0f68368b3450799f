// Copyright 2025 The sqlite-dist Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pip

import (
	"fmt"
	"strings"

	"github.com/google/sqlite-dist/pkg/dist"
)

func distInfoMetadata(p *Package) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Metadata-Version: 2.1\n")
	fmt.Fprintf(&b, "Name: %s\n", p.name)
	fmt.Fprintf(&b, "Version: %s\n", p.version)
	if p.Meta.Homepage != "" {
		fmt.Fprintf(&b, "Home-page: %s\n", p.Meta.Homepage)
	}
	if p.Meta.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", p.Meta.Author)
	}
	if p.Meta.License != "" {
		fmt.Fprintf(&b, "License: %s\n", p.Meta.License)
	}
	// The description is the Markdown body, separated from the
	// headers by a blank line.
	if p.Meta.Description != "" {
		fmt.Fprintf(&b, "Description-Content-Type: text/markdown\n\n%s\n", p.Meta.Description)
	}
	return b.String()
}

func distInfoWheel(tag string) string {
	return fmt.Sprintf("Wheel-Version: 1.0\nGenerator: %s %s\nRoot-Is-Purelib: false\nTag: py3-none-%s\n", dist.ToolName, dist.ToolVersion, tag)
}

func distInfoRecord(entries []recordEntry, recordPath string) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s,sha256=%s,%d\n", e.path, e.hash, e.size)
	}
	// The record cannot carry its own hash or size.
	fmt.Fprintf(&b, "%s,,\n", recordPath)
	return b.String()
}

// baseInit is the module written into each binary wheel. entrypoint is
// the artifact's file stem: sqlite3_load_extension appends the
// platform's shared library suffix itself.
func baseInit(version, entrypoint string) string {
	return fmt.Sprintf(`
import os
import sqlite3

__version__ = "%s"
__version_info__ = tuple(__version__.split("."))

def loadable_path():
  path = os.path.join(os.path.dirname(__file__), "%s")
  return os.path.normpath(path)

def load(conn: sqlite3.Connection) -> None:
  conn.load_extension(loadable_path())
`, version, entrypoint)
}

// datasetteInit is the module written into the Datasette wrapper wheel.
// depLibrary is the import name of the binary package it delegates to.
func datasetteInit(version, depLibrary string) string {
	return fmt.Sprintf(`
from datasette import hookimpl
import %[2]s

__version__ = "%[1]s"
__version_info__ = tuple(__version__.split("."))

@hookimpl
def prepare_connection(conn):
  conn.enable_load_extension(True)
  %[2]s.load(conn)
  conn.enable_load_extension(False)
`, version, depLibrary)
}

// sqliteUtilsInit mirrors datasetteInit for the sqlite-utils plugin
// hook of the same name.
func sqliteUtilsInit(version, depLibrary string) string {
	return fmt.Sprintf(`
from sqlite_utils import hookimpl
import %[2]s

__version__ = "%[1]s"
__version_info__ = tuple(__version__.split("."))

@hookimpl
def prepare_connection(conn):
  conn.enable_load_extension(True)
  %[2]s.load(conn)
  conn.enable_load_extension(False)
`, version, depLibrary)
}
