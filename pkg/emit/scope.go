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
package emit

import "github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"

// ownedVar is one ARC-relevant local tracked by a scope for automatic
// cleanup (spec.md §4.8's "owned variables"); non-ARC locals (int, bool,
// Pointer(T) awaiting an explicit `drop`, ...) are never added here.
type ownedVar struct {
	cName string
	typ   ast.Type
}

// funcScope is one entry of the emitter's scope-context stack (spec.md
// §4.8's "Cleanup scheduling": "strict last-in-first-out acquisition/
// release" per §5). declared holds every local's C type for lookups;
// owned holds, in declaration order, only the ones that need a release
// call on exit. withCleanup holds, in declaration order, one closure per
// `with` item's inline cleanup; unwindTo runs them last-registered first.
type funcScope struct {
	declared    map[string]ast.Type
	owned       []ownedVar
	withCleanup []func()
	isLoop      bool
}

func newFuncScope(isLoop bool) *funcScope {
	return &funcScope{declared: make(map[string]ast.Type), isLoop: isLoop}
}

// varTypeLookup walks the emitter's live scope stack to find a local's
// resolved type, innermost scope first — the emitter's analogue of
// pkg/check's localEnv.find, rebuilt here since emission runs after
// checking has already validated every reference.
func (fc *funcCtx) varTypeLookup(name string) (ast.Type, bool) {
	for i := len(fc.scopes) - 1; i >= 0; i-- {
		if t, ok := fc.scopes[i].declared[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (fc *funcCtx) pushScope(isLoop bool) *funcScope {
	s := newFuncScope(isLoop)
	fc.scopes = append(fc.scopes, s)
	return s
}

func (fc *funcCtx) popScope() {
	fc.scopes = fc.scopes[:len(fc.scopes)-1]
}

func (fc *funcCtx) current() *funcScope {
	return fc.scopes[len(fc.scopes)-1]
}

// declareLocal registers a local in the current scope, marking it owned
// when its type carries ARC data.
func (fc *funcCtx) declareLocal(cName string, t ast.Type) {
	s := fc.current()
	s.declared[cName] = t
	if hasArcData(t, fc.arcSigs) {
		s.owned = append(s.owned, ownedVar{cName: cName, typ: t})
	}
}

// releaseScope emits the release call for every owned var of one scope,
// in reverse declaration order (spec.md: "reverse declaration order for
// this scope's owned vars"), skipping any name in `except` (the variable
// whose ownership is moving out as a return value).
func (fc *funcCtx) releaseScope(s *funcScope, except map[string]bool) {
	for i := len(s.owned) - 1; i >= 0; i-- {
		ov := s.owned[i]
		if except[ov.cName] {
			continue
		}
		fc.emitRelease(ov.cName, ov.typ)
	}
}

// unwindTo emits cleanup for every scope from the innermost up to and
// including stopAt (spec.md's return/break/continue walk): each scope's
// with-cleanup statements run first, last-registered first, then its
// owned-var releases.
func (fc *funcCtx) unwindTo(stopAt int, except map[string]bool) {
	for i := len(fc.scopes) - 1; i >= stopAt; i-- {
		s := fc.scopes[i]
		for j := len(s.withCleanup) - 1; j >= 0; j-- {
			s.withCleanup[j]()
		}
		fc.releaseScope(s, except)
	}
}

// innermostLoopIndex finds the scope-stack index of the innermost loop
// scope, used by break/continue's unwind walk ("up to and including the
// innermost loop scope").
func (fc *funcCtx) innermostLoopIndex() int {
	for i := len(fc.scopes) - 1; i >= 0; i-- {
		if fc.scopes[i].isLoop {
			return i
		}
	}
	return 0
}
