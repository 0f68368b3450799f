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

// sqlite-dist packages compiled SQLite extensions into installable
// Python wheels plus Datasette and sqlite-utils plugin wheels.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/google/sqlite-dist/pkg/dist"
	"github.com/google/sqlite-dist/pkg/dist/pip"
	"github.com/google/sqlite-dist/pkg/platform"
	"github.com/google/sqlite-dist/pkg/spec"
)

var (
	specPath  = flag.String("spec", "sqlite-dist.toml", "path to the package manifest")
	inputDir  = flag.String("input", "dist", "directory with one subdirectory of compiled artifacts per build target")
	outputDir = flag.String("output", "dist/sqlite-dist", "directory to write wheels and the build manifest into")
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	white = color.New(color.FgWhite).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "sqlite-dist [subcommand]",
	Short: "A CLI tool for distributing compiled SQLite extensions",
}

var buildCmd = &cobra.Command{
	Use:   "build [-spec=path] [-input=dir] [-output=dir]",
	Short: "Build wheels for every compiled build target.",
	Long: `Build reads the package manifest and the per-target artifact directories,
then writes one binary wheel per target plus the Datasette and sqlite-utils
plugin wheels and a JSON manifest of everything produced.`,
	Args: cobra.NoArgs,
	// Silence errors because we will print the error ourselves in main.
	SilenceErrors: true,
	// Don't show usage for every error.
	SilenceUsage: true,
	// RunE because we want errors to affect the return status.
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(*specPath)
		if err != nil {
			return errors.Wrap(err, "opening spec")
		}
		defer f.Close()
		s, err := spec.Load(f)
		if err != nil {
			return err
		}
		v, err := s.Package.Semver()
		if err != nil {
			return err
		}
		targets, err := platform.ScanDir(osfs.New(*inputDir), ".")
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return errors.Errorf("no build targets found under %s", *inputDir)
		}
		if err := os.MkdirAll(*outputDir, 0755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}
		store := dist.NewStore(osfs.New(*outputDir))
		log.Printf("building %s %s for %d targets", s.Package.Name, v, len(targets))
		if err := pip.WriteBasePackages(store, "pip", targets, s); err != nil {
			return err
		}
		if err := pip.WriteDatasettePackage(store, "datasette", s); err != nil {
			return err
		}
		if err := pip.WriteSqliteUtilsPackage(store, "sqlite_utils", s); err != nil {
			return err
		}
		m, err := store.WriteManifest(s.Package.Name, v)
		if err != nil {
			return err
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("Kind", "Platform", "Path", "Size", "SHA256")
		for _, a := range m.Assets {
			table.Append(string(a.Kind), a.Platform, a.Path, strconv.FormatInt(a.Size, 10), a.SHA256[:12])
		}
		table.Render()
		fmt.Fprintln(cmd.OutOrStdout(), green("OK:"), white(fmt.Sprintf("wrote %d assets and %s to %s", len(m.Assets), dist.ManifestName, *outputDir)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().AddGoFlag(flag.Lookup("spec"))
	buildCmd.Flags().AddGoFlag(flag.Lookup("input"))
	buildCmd.Flags().AddGoFlag(flag.Lookup("output"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
