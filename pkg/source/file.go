// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package source

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// utf8BOM is the three-byte UTF-8 encoding of U+FEFF, tolerated (and
// stripped) at the start of a source file per spec.md §6.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// File holds the full contents of one source file, decoded to runes once
// at load time so every later pass can index by rune position without
// re-decoding UTF-8.
type File struct {
	name     string
	contents []rune
}

// NewFile constructs a File directly from already-decoded contents. Used
// by tests that want to avoid going through the filesystem.
func NewFile(name string, contents string) *File {
	return &File{name: name, contents: []rune(contents)}
}

// ReadFile reads a source file from disk as UTF-8, tolerating a leading
// byte-order mark. An invalid encoding is reported as an error the caller
// is expected to wrap into a DRV-0040 diagnostic; this package itself
// knows nothing of diagnostic codes.
func ReadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = stripBOM(raw)
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%s: invalid UTF-8 encoding", path)
	}
	return &File{name: path, contents: []rune(string(raw))}, nil
}

func stripBOM(raw []byte) []byte {
	if len(raw) >= 3 && raw[0] == utf8BOM[0] && raw[1] == utf8BOM[1] && raw[2] == utf8BOM[2] {
		return raw[3:]
	}
	return raw
}

// Name returns the filename this source text was read from (or given).
func (f *File) Name() string {
	return f.name
}

// Contents returns the full decoded rune sequence of this file.
func (f *File) Contents() []rune {
	return f.contents
}

// Line renders the single source line beginning at the given 1-indexed
// line number, with no trailing newline.
func (f *File) Line(number int) string {
	line, start := 1, 0
	for i, r := range f.contents {
		if line == number {
			start = i
			break
		}
		if r == '\n' {
			line++
		}
	}
	if line != number {
		return ""
	}
	end := start
	for end < len(f.contents) && f.contents[end] != '\n' {
		end++
	}
	return string(f.contents[start:end])
}
