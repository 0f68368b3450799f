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

package semver

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		input    string
		expected Semver
		wantErr  bool
	}{
		{"1.2.3", Semver{1, 2, 3, "", ""}, false},                       // Basic version
		{"v1.0.0", Semver{1, 0, 0, "", ""}, false},                      // Leading 'v'
		{"0.10.0", Semver{0, 10, 0, "", ""}, false},                     // Multi-digit component
		{"1.2", Semver{}, true},                                         // Missing patch
		{"1", Semver{}, true},                                           // Missing minor and patch
		{"1.2.3-alpha", Semver{1, 2, 3, "alpha", ""}, false},            // Prerelease
		{"1.2.3-alpha.1", Semver{1, 2, 3, "alpha.1", ""}, false},        // Complex prerelease
		{"1.2.3-rc.2", Semver{1, 2, 3, "rc.2", ""}, false},              // Release candidate
		{"1.2.3+build", Semver{1, 2, 3, "", "build"}, false},            // Build metadata
		{"1.2.3-alpha+build", Semver{1, 2, 3, "alpha", "build"}, false}, // Both
		{"", Semver{}, true},                                            // Empty string
		{"1.2.x", Semver{}, true},                                       // Non-numeric component
		{"1.2.3-alpha.", Semver{}, true},                                // Empty prerelease
		{"1.2.3+", Semver{}, true},                                      // Empty build metadata
		{"01.2.3", Semver{}, true},                                      // Leading zero
	}

	for _, tt := range tests {
		actual, err := New(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && actual != tt.expected {
			t.Errorf("New(%q) = %v, expected %v", tt.input, actual, tt.expected)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		input    Semver
		expected string
	}{
		{Semver{1, 2, 3, "", ""}, "1.2.3"},
		{Semver{1, 2, 3, "alpha.1", ""}, "1.2.3-alpha.1"},
		{Semver{1, 2, 3, "", "build"}, "1.2.3+build"},
		{Semver{1, 2, 3, "rc.1", "5f2a"}, "1.2.3-rc.1+5f2a"},
		{Semver{0, 0, 1, "", ""}, "0.0.1"},
	}

	for _, tt := range tests {
		if actual := tt.input.String(); actual != tt.expected {
			t.Errorf("String(%#v) = %q, expected %q", tt.input, actual, tt.expected)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"1.2.3", "1.2.3-alpha.1", "1.2.3+build", "1.2.3-rc.1+5f2a"} {
		v, err := New(s)
		if err != nil {
			t.Fatalf("New(%q) error = %v", s, err)
		}
		if v.String() != s {
			t.Errorf("New(%q).String() = %q, expected %q", s, v.String(), s)
		}
	}
}
