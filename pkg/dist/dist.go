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

// Package dist records the artifacts a distribution build produces and
// writes the build manifest that describes them.
package dist

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/google/sqlite-dist/internal/semver"
)

const (
	ToolName    = "sqlite-dist"
	ToolVersion = "0.1.0"
)

// AssetKind identifies the distribution channel an artifact belongs to.
type AssetKind string

const (
	PipWheelAsset         AssetKind = "pip"
	DatasetteWheelAsset   AssetKind = "datasette"
	SqliteUtilsWheelAsset AssetKind = "sqlite-utils"
)

// GeneratedAsset describes one artifact written during a build.
type GeneratedAsset struct {
	Kind     AssetKind `json:"kind"`
	Platform string    `json:"platform,omitempty"`
	Path     string    `json:"path"`
	SHA256   string    `json:"sha256"`
	Size     int64     `json:"size"`
}

// Store writes build artifacts under a single output root and keeps a
// record of everything written there.
type Store struct {
	fs     billy.Filesystem
	runID  string
	assets []GeneratedAsset
}

// NewStore creates a Store over fs with a fresh run ID.
func NewStore(fs billy.Filesystem) *Store {
	return &Store{fs: fs, runID: uuid.NewString()}
}

// RunID identifies this build in the manifest.
func (s *Store) RunID() string {
	return s.runID
}

// Assets returns every asset written so far, in write order.
func (s *Store) Assets() []GeneratedAsset {
	return s.assets
}

func (s *Store) writeFile(path string, data []byte) error {
	f, err := s.fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating writer for %s", path)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

// Write stores data at path under the output root and records it as a
// kind asset built for platform. platform is empty for artifacts that
// are not target-specific.
func (s *Store) Write(kind AssetKind, platform, path string, data []byte) (GeneratedAsset, error) {
	if err := s.writeFile(path, data); err != nil {
		return GeneratedAsset{}, err
	}
	sum := sha256.Sum256(data)
	a := GeneratedAsset{
		Kind:     kind,
		Platform: platform,
		Path:     path,
		SHA256:   hex.EncodeToString(sum[:]),
		Size:     int64(len(data)),
	}
	s.assets = append(s.assets, a)
	return a, nil
}

// Manifest is the machine-readable summary written at the end of a
// successful build.
type Manifest struct {
	Tool        string           `json:"tool"`
	ToolVersion string           `json:"tool_version"`
	RunID       string           `json:"run_id"`
	Package     string           `json:"package"`
	Version     string           `json:"version"`
	BuiltAt     time.Time        `json:"built_at"`
	Assets      []GeneratedAsset `json:"assets"`
}

// ManifestName is the manifest's file name under the output root.
const ManifestName = "sqlite-dist-manifest.json"

// WriteManifest serializes the record of written assets for the given
// package. The source version is rendered in its canonical form. The
// manifest describes the assets but is not recorded as one.
func (s *Store) WriteManifest(pkg string, version semver.Semver) (Manifest, error) {
	m := Manifest{
		Tool:        ToolName,
		ToolVersion: ToolVersion,
		RunID:       s.runID,
		Package:     pkg,
		Version:     version.String(),
		BuiltAt:     time.Now().UTC(),
		Assets:      s.assets,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return Manifest{}, errors.Wrap(err, "encoding manifest")
	}
	data = append(data, '\n')
	if err := s.writeFile(ManifestName, data); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
