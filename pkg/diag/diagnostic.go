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

// Package diag is the shared diagnostic model used by every compiler pass
// (spec.md §6–7): a two-level error model of recoverable Diagnostic values
// that are collected rather than unwound, plus an ICE type for the rare
// case of an internal invariant violation.
package diag

import "fmt"

// Kind distinguishes a hard error (blocks code generation) from a warning
// (informational only).
type Kind int

const (
	// Warning is informational; it never blocks code emission.
	Warning Kind = iota
	// Error blocks code emission: generation only runs when the final
	// diagnostic buffer contains zero Error-kind entries.
	Error
)

// String renders "error" or "warning".
func (k Kind) String() string {
	if k == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is one recoverable, user-visible finding produced by a pass.
// Every field but Code is optional, matching spec.md §6's "Diagnostic
// format": a diagnostic may be raised before a module or filename is even
// known (e.g. a loader failure resolving a dotted name).
type Diagnostic struct {
	Kind     Kind
	Code     string // stable "[FAMILY-NNNN]" identifier, e.g. "TYP-0104"
	Message  string
	Module   string // dotted module name, if known
	Filename string // source path, if known
	Start    Pos    // primary position; zero value means "unknown"
	End      Pos    // end position; zero value means "unknown" or single-point
}

// Pos is a minimal (line,column) pair, independent of pkg/source so that
// diag has no import-cycle risk with the packages that report into it.
type Pos struct {
	Line int
	Col  int
}

// HasPos reports whether a primary position was recorded.
func (d Diagnostic) HasPos() bool {
	return d.Start.Line != 0
}

// String renders the stable code and message, e.g. "[TYP-0104] ...".
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}

// Render produces the single-line, caret-free summary described in
// SPEC_FULL.md §12: "file:line:col: [CODE] message". The pretty-printer
// itself (with source snippets and carets) is out of scope (spec.md §1);
// this is only a convenience for a caller with no printer of its own.
func (d Diagnostic) Render() string {
	if d.Filename == "" || !d.HasPos() {
		return d.String()
	}
	return fmt.Sprintf("%s:%d:%d: %s", d.Filename, d.Start.Line, d.Start.Col, d.String())
}

// Errorf builds an Error-kind diagnostic.
func Errorf(code, module, filename string, start, end Pos, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind: Error, Code: code, Message: fmt.Sprintf(format, args...),
		Module: module, Filename: filename, Start: start, End: end,
	}
}

// Warningf builds a Warning-kind diagnostic.
func Warningf(code, module, filename string, start, end Pos, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind: Warning, Code: code, Message: fmt.Sprintf(format, args...),
		Module: module, Filename: filename, Start: start, End: end,
	}
}

// SortKey is the deterministic ordering key fixed by SPEC_FULL.md §12:
// (filename, start line, start column, code).
func SortKey(d Diagnostic) (string, int, int, string) {
	return d.Filename, d.Start.Line, d.Start.Col, d.Code
}
