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
package diag

import "fmt"

// ICE is an internal compiler error: raised only from invariants that
// indicate a bug in the compiler itself, never from user input (spec.md
// §7.2). It implements error so it can travel the normal Go error path,
// but callers must never add it to a Diagnostic buffer — it terminates
// the run.
type ICE struct {
	Code     string // "ICE-NNNN"
	Message  string
	Filename string
	Span     string // pre-rendered span text; ICE sites rarely have a Span value in scope
}

// NewICE constructs an internal compiler error.
func NewICE(code, format string, args ...any) *ICE {
	return &ICE{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithLocation attaches filename/span context, matching spec.md's
// "Emitted with filename/span when available."
func (e *ICE) WithLocation(filename, span string) *ICE {
	e.Filename = filename
	e.Span = span
	return e
}

// Error implements the error interface. Every rendering begins with the
// fixed prefix "internal compiler error:" required by spec.md §7.2.
func (e *ICE) Error() string {
	msg := fmt.Sprintf("internal compiler error: [%s] %s", e.Code, e.Message)
	if e.Filename != "" {
		msg = fmt.Sprintf("%s (%s", msg, e.Filename)
		if e.Span != "" {
			msg = fmt.Sprintf("%s:%s", msg, e.Span)
		}
		msg += ")"
	}
	return msg
}
