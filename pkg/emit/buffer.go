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

// Package emit implements spec.md §4.8: the deterministic, single-pass C99
// back end. Its buffer style generalizes the teacher pack's assembly
// Emitter (gmofishsauce-wut4/lang/ygen/emit.go): a thin wrapper over an
// output writer with line-at-a-time helpers, here carrying an indentation
// level instead of assembly's flat label/instruction stream, since C text
// needs nested block indentation that assembly line emission does not.
package emit

import (
	"fmt"
	"strings"
)

// Buffer accumulates the generated C source text, tracking the current
// indentation depth so statement/expression lowering can emit nested
// blocks without threading an indent string through every call.
type Buffer struct {
	out    strings.Builder
	indent int
}

// Line emits one line at the current indentation.
func (b *Buffer) Line(format string, args ...any) {
	b.out.WriteString(strings.Repeat("    ", b.indent))
	fmt.Fprintf(&b.out, format, args...)
	b.out.WriteByte('\n')
}

// Raw emits text with no indentation or trailing newline of its own beyond
// what format already supplies; used for blank separator lines.
func (b *Buffer) Raw(format string, args ...any) {
	fmt.Fprintf(&b.out, format, args...)
}

func (b *Buffer) Indent()   { b.indent++ }
func (b *Buffer) Dedent()   { b.indent-- }
func (b *Buffer) String() string { return b.out.String() }
