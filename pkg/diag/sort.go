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

import "sort"

// Bag accumulates diagnostics across a compilation run and exposes the
// deterministic view required by SPEC_FULL.md §12.
type Bag struct {
	entries []Diagnostic
}

// Add appends one diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.entries = append(b.entries, d)
}

// HasErrors reports whether any Error-kind diagnostic was recorded. Code
// generation is gated on this being false (spec.md §7.1).
func (b *Bag) HasErrors() bool {
	for _, d := range b.entries {
		if d.Kind == Error {
			return true
		}
	}
	return false
}

// Sorted returns all diagnostics ordered by (filename, start line, start
// column, code), stable and independent of any map iteration order.
func (b *Bag) Sorted() []Diagnostic {
	out := make([]Diagnostic, len(b.entries))
	copy(out, b.entries)
	sort.SliceStable(out, func(i, j int) bool {
		fi, li, ci, codei := SortKey(out[i])
		fj, lj, cj, codej := SortKey(out[j])
		if fi != fj {
			return fi < fj
		}
		if li != lj {
			return li < lj
		}
		if ci != cj {
			return ci < cj
		}
		return codei < codej
	})
	return out
}

// Len returns the number of diagnostics recorded so far.
func (b *Bag) Len() int {
	return len(b.entries)
}
