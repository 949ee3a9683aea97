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

// canAssign implements spec.md §4.7's can_assign(target, source): exact
// equality, byte→int widening, T→T? lifting, Pointer(void)↔Pointer(T)
// compatibility, recursive matching under Nullable and Pointer, and, when
// allowPromotion is set (cast contexts only), int→byte and T?→T.
func canAssign(target, source ast.Type, allowPromotion bool) bool {
	if target == nil || source == nil {
		return false
	}
	if ast.TypeEquals(target, source) {
		return true
	}
	if _, ok := source.(ast.NullType); ok {
		_, nullable := target.(ast.NullableType)
		return nullable
	}
	if isIntKind(source, ast.Byte) && isIntKind(target, ast.Int) {
		return true
	}
	if tn, ok := target.(ast.NullableType); ok {
		if canAssign(tn.Inner, source, false) {
			return true
		}
		if sn, ok2 := source.(ast.NullableType); ok2 {
			return canAssign(tn.Inner, sn.Inner, allowPromotion)
		}
	}
	if tp, ok := target.(ast.PointerType); ok {
		if sp, ok2 := source.(ast.PointerType); ok2 {
			if isVoidPointer(tp) || isVoidPointer(sp) {
				return true
			}
			return canAssign(tp.Inner, sp.Inner, false)
		}
	}
	if allowPromotion {
		if isIntKind(target, ast.Byte) && isIntKind(source, ast.Int) {
			return true
		}
		if sn, ok := source.(ast.NullableType); ok {
			return canAssign(target, sn.Inner, false)
		}
	}
	return false
}

func isIntKind(t ast.Type, k ast.BuiltinKind) bool {
	bt, ok := t.(ast.BuiltinType)
	return ok && bt.Kind == k
}

func isVoidPointer(p ast.PointerType) bool {
	return isIntKind(p.Inner, ast.Void)
}
