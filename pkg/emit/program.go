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

import (
	"strconv"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/check"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
)

// progCtx is shared, whole-program emission state: the structural tables
// signature resolution and type checking produced, plus the running type
// context that accumulates nullable wrappers as they are discovered.
type progCtx struct {
	sigs *resolve.Result
	envs map[string]*resolve.ModuleEnv
	chk  *check.Result
	tc   *typeCtx
	arc  sigsAdapter
}

// funcCtx is the per-function emission state: the teacher-pack-grounded
// line buffer (Buffer), the live scope stack driving ARC cleanup, and a
// counter for compiler-introduced temporaries.
type funcCtx struct {
	prog    *progCtx
	buf     *Buffer
	module  string
	tmp     int
	scopes  []*funcScope
	arcSigs structInfoSource
	retType ast.Type
}

func newFuncCtx(prog *progCtx, module string, retType ast.Type) *funcCtx {
	return &funcCtx{
		prog:    prog,
		buf:     &Buffer{},
		module:  module,
		arcSigs: prog.arc,
		retType: retType,
	}
}

// newTemp mints a fresh compiler temporary name; spec.md's "temporary
// hoisting" (ARC materialization, complex-lvalue evaluation) all funnel
// through this single counter so generated names never collide.
func (fc *funcCtx) newTemp() string {
	fc.tmp++
	return "_t" + strconv.Itoa(fc.tmp)
}
