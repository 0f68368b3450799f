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

package platform

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Platform
		wantErr  bool
	}{
		{"linux-x86_64", Platform{Linux, AMD64}, false},
		{"linux-aarch64", Platform{Linux, ARM64}, false},
		{"macos-x86_64", Platform{MacOS, AMD64}, false},
		{"macos-aarch64", Platform{MacOS, ARM64}, false},
		{"windows-x86_64", Platform{Windows, AMD64}, false},
		{"windows-aarch64", Platform{Windows, ARM64}, false},
		{"linux", Platform{}, true},           // No CPU
		{"linux-mips", Platform{}, true},      // Unknown CPU
		{"freebsd-x86_64", Platform{}, true},  // Unknown OS
		{"linux-x86_64-v2", Platform{}, true}, // Trailing segment
		{"", Platform{}, true},
	}

	for _, tt := range tests {
		actual, err := Parse(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownPlatform) {
			t.Errorf("Parse(%q) error = %v, expected ErrUnknownPlatform", tt.input, err)
		}
		if actual != tt.expected {
			t.Errorf("Parse(%q) = %v, expected %v", tt.input, actual, tt.expected)
		}
	}
}

func TestPlatformString(t *testing.T) {
	if s := (Platform{Linux, AMD64}).String(); s != "linux-x86_64" {
		t.Errorf("String() = %q, expected %q", s, "linux-x86_64")
	}
	if s := (Platform{MacOS, ARM64}).String(); s != "macos-aarch64" {
		t.Errorf("String() = %q, expected %q", s, "macos-aarch64")
	}
}

func TestScanDir(t *testing.T) {
	fs := memfs.New()
	files := []struct {
		path, content string
	}{
		{"dist/macos-aarch64/ext0.dylib", "mac bytes"},
		{"dist/linux-x86_64/ext0.so", "linux bytes"},
		{"dist/linux-x86_64/libextra.so", "extra bytes"},
		{"dist/linux-x86_64/README.md", "not loadable"},
		{"dist/linux-x86_64/debug/ext0.so", "nested, not scanned"},
		{"dist/windows-x86_64/ext0.dll", "windows bytes"},
		{"dist/windows-x86_64/ext0.pdb", "not loadable"},
		{"dist/checksums.txt", "ignored top-level file"},
	}
	for _, f := range files {
		if err := util.WriteFile(fs, f.path, []byte(f.content), 0644); err != nil {
			t.Fatalf("WriteFile(%q) error = %v", f.path, err)
		}
	}

	dirs, err := ScanDir(fs, "dist")
	if err != nil {
		t.Fatalf("ScanDir() error = %v", err)
	}
	expected := []Directory{
		{
			Platform: Platform{Linux, AMD64},
			Files: []LoadableFile{
				{Name: "ext0.so", Stem: "ext0", Data: []byte("linux bytes")},
				{Name: "libextra.so", Stem: "libextra", Data: []byte("extra bytes")},
			},
		},
		{
			Platform: Platform{MacOS, ARM64},
			Files: []LoadableFile{
				{Name: "ext0.dylib", Stem: "ext0", Data: []byte("mac bytes")},
			},
		},
		{
			Platform: Platform{Windows, AMD64},
			Files: []LoadableFile{
				{Name: "ext0.dll", Stem: "ext0", Data: []byte("windows bytes")},
			},
		},
	}
	if diff := cmp.Diff(expected, dirs); diff != "" {
		t.Errorf("ScanDir() mismatch (-want +got):\n%s", diff)
	}
}

func TestScanDirEmptyTarget(t *testing.T) {
	fs := memfs.New()
	if err := fs.MkdirAll("dist/linux-aarch64", 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	dirs, err := ScanDir(fs, "dist")
	if err != nil {
		t.Fatalf("ScanDir() error = %v", err)
	}
	expected := []Directory{{Platform: Platform{Linux, ARM64}}}
	if diff := cmp.Diff(expected, dirs); diff != "" {
		t.Errorf("ScanDir() mismatch (-want +got):\n%s", diff)
	}
}

func TestScanDirUnknownTarget(t *testing.T) {
	fs := memfs.New()
	if err := util.WriteFile(fs, "dist/solaris-sparc/ext0.so", []byte("bytes"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := ScanDir(fs, "dist"); !errors.Is(err, ErrUnknownPlatform) {
		t.Errorf("ScanDir() error = %v, expected ErrUnknownPlatform", err)
	}
}
