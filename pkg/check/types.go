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

import (
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
)

// resolveTypeExprChecked resolves a TypeExpr found inside a function body
// (a let annotation, a with-item annotation) against the same module
// environments and structural tables the signature resolver built.
func resolveTypeExprChecked(c *checker, te *ast.TypeExpr) (ast.Type, bool) {
	return resolve.ResolveTypeExpr(te, c.module, c.envs, c.sigs)
}

// lookupEnumInfoRaw fetches the signature resolver's EnumInfo for a
// resolved enum type, used by match exhaustiveness checking.
func lookupEnumInfoRaw(c *checker, module, name string) *resolve.EnumInfo {
	return c.sigs.EnumInfos[resolve.Key{Module: module, Name: name}]
}
