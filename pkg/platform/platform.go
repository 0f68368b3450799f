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

// Package platform models the build targets that compiled SQLite
// extensions are produced for and discovers their artifacts on disk.
package platform

import (
	"path"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"
)

// OS is an operating system a loadable extension was compiled for.
type OS string

const (
	MacOS   OS = "macos"
	Linux   OS = "linux"
	Windows OS = "windows"
)

// CPU is a processor architecture, named as compiler toolchains name
// them rather than as Go does.
type CPU string

const (
	AMD64 CPU = "x86_64"
	ARM64 CPU = "aarch64"
)

// Platform is a single (OS, CPU) build target.
type Platform struct {
	OS  OS
	CPU CPU
}

func (p Platform) String() string {
	return string(p.OS) + "-" + string(p.CPU)
}

// ErrUnknownPlatform is returned when a target name does not match any
// supported OS/CPU pair.
var ErrUnknownPlatform = errors.New("unknown platform")

// Parse interprets a target directory name like "linux-x86_64".
func Parse(name string) (Platform, error) {
	osName, cpuName, found := strings.Cut(name, "-")
	if !found {
		return Platform{}, errors.Wrap(ErrUnknownPlatform, name)
	}
	var p Platform
	switch OS(osName) {
	case MacOS, Linux, Windows:
		p.OS = OS(osName)
	default:
		return Platform{}, errors.Wrap(ErrUnknownPlatform, name)
	}
	switch CPU(cpuName) {
	case AMD64, ARM64:
		p.CPU = CPU(cpuName)
	default:
		return Platform{}, errors.Wrap(ErrUnknownPlatform, name)
	}
	return p, nil
}

// LoadableFile is one compiled extension artifact.
type LoadableFile struct {
	Name string // base name including extension, e.g. "ext0.so"
	Stem string // Name with its extension removed
	Data []byte
}

// Directory holds the loadable artifacts built for one Platform.
type Directory struct {
	Platform Platform
	Files    []LoadableFile
}

var loadableExts = map[string]bool{
	".so":    true,
	".dylib": true,
	".dll":   true,
}

// ScanDir reads the per-target layout under dir: one subdirectory per
// build target, each named as Parse expects and containing the
// compiled artifacts for that target. Regular files directly under dir
// are ignored. Targets and the files within them are ordered by name.
func ScanDir(fsys billy.Filesystem, dir string) ([]Directory, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	var dirs []Directory
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := Parse(entry.Name())
		if err != nil {
			return nil, err
		}
		files, err := fsys.ReadDir(fsys.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", entry.Name())
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
		d := Directory{Platform: p}
		for _, f := range files {
			if f.IsDir() || !loadableExts[path.Ext(f.Name())] {
				continue
			}
			data, err := util.ReadFile(fsys, fsys.Join(dir, entry.Name(), f.Name()))
			if err != nil {
				return nil, errors.Wrapf(err, "reading %s", f.Name())
			}
			d.Files = append(d.Files, LoadableFile{
				Name: f.Name(),
				Stem: strings.TrimSuffix(f.Name(), path.Ext(f.Name())),
				Data: data,
			})
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}
