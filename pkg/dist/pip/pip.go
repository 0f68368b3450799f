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

// Package pip assembles Python wheels for compiled SQLite extensions:
// one binary wheel per build target plus pure wrapper wheels that plug
// the extension into Datasette and sqlite-utils.
package pip

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/google/sqlite-dist/internal/semver"
	"github.com/google/sqlite-dist/pkg/platform"
)

var (
	// ErrUnsupportedVersion is returned for source versions that have no
	// wheel version encoding.
	ErrUnsupportedVersion = errors.New("version not expressible as a wheel version")
	// ErrUnsupportedPlatform is returned for build targets that no wheel
	// platform tag covers.
	ErrUnsupportedPlatform = errors.New("platform not expressible as a wheel tag")
	// ErrNoLoadableFiles is returned when a build target provides no
	// compiled artifacts to package.
	ErrNoLoadableFiles = errors.New("no loadable files for target")
	// ErrFinalized is returned on any use of a Package after Finalize.
	ErrFinalized = errors.New("wheel already finalized")
)

// WheelVersion renders v in the version dialect used in wheel file
// names. Only alpha.N, beta.N, and rc.N pre-releases have an encoding;
// build metadata is dropped on plain releases and rejected on
// pre-releases.
func WheelVersion(v semver.Semver) (string, error) {
	base := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease == "" {
		return base, nil
	}
	if v.Build != "" {
		return "", errors.Wrapf(ErrUnsupportedVersion, "pre-release %q with build metadata %q", v.Prerelease, v.Build)
	}
	kind, n, found := strings.Cut(v.Prerelease, ".")
	if !found {
		return "", errors.Wrapf(ErrUnsupportedVersion, "pre-release %q", v.Prerelease)
	}
	switch kind {
	case "alpha":
		return base + "a" + n, nil
	case "beta":
		return base + "b" + n, nil
	case "rc":
		return base + "rc" + n, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedVersion, "pre-release %q", v.Prerelease)
	}
}

// PlatformTag maps a build target to its wheel platform compatibility
// tag. Linux tags are compound so that installers predating the
// PEP 600 manylinux_x_y scheme still match.
func PlatformTag(p platform.Platform) (string, error) {
	switch p.OS {
	case platform.MacOS:
		switch p.CPU {
		case platform.AMD64:
			return "macosx_10_6_x86_64", nil
		case platform.ARM64:
			return "macosx_11_0_arm64", nil
		}
	case platform.Linux:
		switch p.CPU {
		case platform.AMD64:
			return "manylinux_2_17_x86_64.manylinux2014_x86_64.manylinux1_x86_64", nil
		case platform.ARM64:
			return "manylinux_2_17_aarch64.manylinux2014_aarch64", nil
		}
	case platform.Windows:
		if p.CPU == platform.AMD64 {
			return "win_amd64", nil
		}
	}
	return "", errors.Wrap(ErrUnsupportedPlatform, p.String())
}

// targetTag resolves the tag for a build target, nil meaning a pure
// wheel installable anywhere.
func targetTag(p *platform.Platform) (string, error) {
	if p == nil {
		return "any", nil
	}
	return PlatformTag(*p)
}

// pythonPackageName converts a distribution name to the module name
// Python imports, e.g. "my-ext" to "my_ext".
func pythonPackageName(distName string) string {
	return strings.ReplaceAll(distName, "-", "_")
}

// recordEntry is one line of the dist-info RECORD file.
type recordEntry struct {
	path string
	hash string // sha256, base64url without padding
	size int
}

// Package is an in-progress wheel archive. Payload files are staged
// with WriteLibraryFile; Finalize appends the dist-info directory and
// returns the finished archive. A Package is single-use: after
// Finalize, successful or not, it accepts no further writes.
type Package struct {
	// Meta is the descriptive copy for the METADATA file; set it any
	// time before Finalize.
	Meta Metadata

	name       string // distribution name, e.g. "my-ext"
	importName string // Python module name, derived from name
	version    string // wheel-dialect version, e.g. "1.2.0a3"

	buf       bytes.Buffer
	zw        *zip.Writer
	manifest  []recordEntry
	finalized bool
}

// Metadata is the descriptive copy rendered into the wheel's METADATA
// file. Empty fields are omitted. Description becomes the Markdown
// body after the header block.
type Metadata struct {
	Description string
	Homepage    string
	Author      string
	License     string
}

// NewPackage starts a wheel for the given distribution name and source
// version.
func NewPackage(name string, version semver.Semver) (*Package, error) {
	wv, err := WheelVersion(version)
	if err != nil {
		return nil, err
	}
	p := &Package{
		name:       name,
		importName: pythonPackageName(name),
		version:    wv,
	}
	p.zw = zip.NewWriter(&p.buf)
	return p, nil
}

func (p *Package) distInfoPath(name string) string {
	return fmt.Sprintf("%s-%s.dist-info/%s", p.importName, p.version, name)
}

// writeEntry adds one Stored entry with a zeroed timestamp so the
// archive bytes depend only on the contents written.
func (p *Package) writeEntry(name string, data []byte) error {
	w, err := p.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
	if err != nil {
		return errors.Wrapf(err, "creating entry %s", name)
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrapf(err, "writing entry %s", name)
	}
	return nil
}

// write stages a payload entry and tracks it for the RECORD file.
func (p *Package) write(name string, data []byte) error {
	if p.finalized {
		return errors.Wrap(ErrFinalized, name)
	}
	for _, e := range p.manifest {
		if e.path == name {
			return errors.Errorf("duplicate entry %s", name)
		}
	}
	if err := p.writeEntry(name, data); err != nil {
		return err
	}
	sum := sha256.Sum256(data)
	p.manifest = append(p.manifest, recordEntry{
		path: name,
		hash: base64.RawURLEncoding.EncodeToString(sum[:]),
		size: len(data),
	})
	return nil
}

// WriteLibraryFile stages a payload file under the import package
// directory, so "ext0.so" lands at "my_ext/ext0.so".
func (p *Package) WriteLibraryFile(name string, data []byte) error {
	return p.write(path.Join(p.importName, name), data)
}

// WheelName returns the file name for this wheel when built for target,
// nil meaning a pure wheel.
func (p *Package) WheelName(target *platform.Platform) (string, error) {
	tag, err := targetTag(target)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-py3-none-%s.whl", p.importName, p.version, tag), nil
}

// Finalize writes the dist-info directory and closes the archive,
// returning the wheel bytes. The receiver is consumed even on failure;
// a failed wheel must be rebuilt from scratch.
func (p *Package) Finalize(target *platform.Platform) ([]byte, error) {
	if p.finalized {
		return nil, errors.Wrap(ErrFinalized, p.name)
	}
	p.finalized = true
	tag, err := targetTag(target)
	if err != nil {
		return nil, err
	}
	files := []struct {
		name string
		data string
	}{
		{"METADATA", distInfoMetadata(p)},
		{"WHEEL", distInfoWheel(tag)},
		{"top_level.txt", p.importName + "\n"},
		{"RECORD", distInfoRecord(p.manifest, p.distInfoPath("RECORD"))},
	}
	for _, f := range files {
		if err := p.writeEntry(p.distInfoPath(f.name), []byte(f.data)); err != nil {
			return nil, err
		}
	}
	if err := p.zw.Close(); err != nil {
		return nil, errors.Wrap(err, "closing archive")
	}
	return p.buf.Bytes(), nil
}
