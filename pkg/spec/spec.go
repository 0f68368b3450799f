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

// Package spec loads the package manifest that drives a distribution build.
package spec

import (
	"io"
	"regexp"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/google/sqlite-dist/internal/semver"
)

// ErrInvalidSpec is returned when a manifest is missing required fields
// or holds values no distribution can be built from.
var ErrInvalidSpec = errors.New("invalid spec")

// Spec is the parsed sqlite-dist.toml manifest.
type Spec struct {
	Package Package `toml:"package"`
}

// Package describes the extension being distributed.
type Package struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Description string   `toml:"description"`
	Authors     []string `toml:"authors"`
	License     string   `toml:"license"`
	Homepage    string   `toml:"homepage"`
	Repository  string   `toml:"repository"`
}

var nameRE = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Load decodes and validates a manifest.
func Load(r io.Reader) (*Spec, error) {
	contents, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading spec")
	}
	var s Spec
	if err := toml.Unmarshal(contents, &s); err != nil {
		return nil, errors.Wrap(err, "decoding spec")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the fields every build requires.
func (s *Spec) Validate() error {
	if s.Package.Name == "" {
		return errors.Wrap(ErrInvalidSpec, "package.name is required")
	}
	if !nameRE.MatchString(s.Package.Name) {
		return errors.Wrapf(ErrInvalidSpec, "package.name %q", s.Package.Name)
	}
	if s.Package.Version == "" {
		return errors.Wrap(ErrInvalidSpec, "package.version is required")
	}
	if _, err := semver.New(s.Package.Version); err != nil {
		return errors.Wrapf(ErrInvalidSpec, "package.version %q", s.Package.Version)
	}
	return nil
}

// Semver returns the parsed package version.
func (p Package) Semver() (semver.Semver, error) {
	return semver.New(p.Version)
}
