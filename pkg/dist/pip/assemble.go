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
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/google/sqlite-dist/pkg/dist"
	"github.com/google/sqlite-dist/pkg/platform"
	"github.com/google/sqlite-dist/pkg/spec"
)

func metadataFor(s *spec.Spec) Metadata {
	return Metadata{
		Description: s.Package.Description,
		Homepage:    s.Package.Homepage,
		Author:      strings.Join(s.Package.Authors, ", "),
		License:     s.Package.License,
	}
}

// WriteBasePackages builds one binary wheel per build target under dir
// in the store. Each wheel carries the target's compiled artifacts and
// a generated init module that locates and loads the first of them.
func WriteBasePackages(store *dist.Store, dir string, targets []platform.Directory, s *spec.Spec) error {
	v, err := s.Package.Semver()
	if err != nil {
		return err
	}
	for _, target := range targets {
		if len(target.Files) == 0 {
			return errors.Wrap(ErrNoLoadableFiles, target.Platform.String())
		}
		pkg, err := NewPackage(s.Package.Name, v)
		if err != nil {
			return err
		}
		pkg.Meta = metadataFor(s)
		entrypoint := target.Files[0].Stem
		if err := pkg.WriteLibraryFile("__init__.py", []byte(baseInit(pkg.version, entrypoint))); err != nil {
			return err
		}
		for _, f := range target.Files {
			if err := pkg.WriteLibraryFile(f.Name, f.Data); err != nil {
				return err
			}
		}
		name, err := pkg.WheelName(&target.Platform)
		if err != nil {
			return err
		}
		data, err := pkg.Finalize(&target.Platform)
		if err != nil {
			return err
		}
		if _, err := store.Write(dist.PipWheelAsset, target.Platform.String(), path.Join(dir, name), data); err != nil {
			return err
		}
	}
	return nil
}

// WriteDatasettePackage builds the pure wheel that registers the
// extension with Datasette at connection setup.
func WriteDatasettePackage(store *dist.Store, dir string, s *spec.Spec) error {
	return writeWrapperPackage(store, dist.DatasetteWheelAsset, dir, "datasette-"+s.Package.Name, datasetteInit, s)
}

// WriteSqliteUtilsPackage builds the pure wheel that registers the
// extension with sqlite-utils at connection setup.
func WriteSqliteUtilsPackage(store *dist.Store, dir string, s *spec.Spec) error {
	return writeWrapperPackage(store, dist.SqliteUtilsWheelAsset, dir, "sqlite-utils-"+s.Package.Name, sqliteUtilsInit, s)
}

// writeWrapperPackage builds a pure wheel holding a single generated
// module that delegates loading to the binary package.
func writeWrapperPackage(store *dist.Store, kind dist.AssetKind, dir, name string, init func(version, depLibrary string) string, s *spec.Spec) error {
	v, err := s.Package.Semver()
	if err != nil {
		return err
	}
	pkg, err := NewPackage(name, v)
	if err != nil {
		return err
	}
	pkg.Meta = metadataFor(s)
	depLibrary := pythonPackageName(s.Package.Name)
	if err := pkg.WriteLibraryFile("__init__.py", []byte(init(pkg.version, depLibrary))); err != nil {
		return err
	}
	wheelName, err := pkg.WheelName(nil)
	if err != nil {
		return err
	}
	data, err := pkg.Finalize(nil)
	if err != nil {
		return err
	}
	_, err = store.Write(kind, "", path.Join(dir, wheelName), data)
	return err
}
