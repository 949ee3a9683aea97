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
package check

import "github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"

// localEnv is the type checker's own lexical scope stack: name → type
// plus a parallel alive map used for drop/liveness tracking (spec.md
// §4.7). It is independent of pkg/resolve's Scope tree, which only
// records binding sites — this one carries the resolved types the
// checker itself computes.
type localEnv struct {
	parent *localEnv
	vars   map[string]ast.Type
	alive  map[string]bool
}

func newLocalEnv(parent *localEnv) *localEnv {
	return &localEnv{parent: parent, vars: make(map[string]ast.Type), alive: make(map[string]bool)}
}

// declare introduces name as alive in this scope frame (not a parent's),
// so a block-local shadowing an outer local is visible only within the
// block, per spec.md §4.6.
func (e *localEnv) declare(name string, t ast.Type) {
	e.vars[name] = t
	e.alive[name] = true
}

// declaredLocally reports whether name was declared directly in this
// frame (used for TYP-0020 duplicate-local detection).
func (e *localEnv) declaredLocally(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// lookup walks outward from e and returns the frame owning name, or nil.
func (e *localEnv) find(name string) *localEnv {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			return s
		}
	}
	return nil
}

// lookupType returns name's declared type and whether it was found at all.
func (e *localEnv) lookupType(name string) (ast.Type, bool) {
	s := e.find(name)
	if s == nil {
		return nil, false
	}
	return s.vars[name], true
}

// isAlive reports whether name, if found, is currently alive (not yet
// dropped). A name not found at all is reported as not alive.
func (e *localEnv) isAlive(name string) bool {
	s := e.find(name)
	if s == nil {
		return false
	}
	return s.alive[name]
}

// setAlive updates name's liveness in the frame that owns it. A
// subsequent assignment re-enlivens a dropped local (spec.md §4.7).
func (e *localEnv) setAlive(name string, alive bool) {
	s := e.find(name)
	if s == nil {
		return
	}
	s.alive[name] = alive
}
