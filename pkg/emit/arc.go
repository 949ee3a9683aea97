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

// hasArcData reports whether a value of type t carries a reference-counted
// string anywhere in its representation — directly, through a value-typed
// struct/enum field, or through Nullable wrapping — per spec.md §4.8's
// "the emitter classifies every expression ... as ARC-relevant" rule. A
// Pointer(T) does not itself carry ARC data: the pointee is a separate heap
// allocation cleaned up by `drop`, not by scope exit.
func hasArcData(t ast.Type, sigs structInfoSource) bool {
	return hasArcDataVisited(t, sigs, make(map[string]bool))
}

// structInfoSource is the slice of *resolve.Result that ARC classification
// needs; declared locally so arc.go does not import pkg/resolve just for a
// field lookup (kept for readability of the dependency direction, not
// avoidance of the import — decls.go and expr.go already import it).
type structInfoSource interface {
	fieldTypesOf(module, name string) ([]ast.Type, bool)
	enumVariantTypesOf(module, name string) ([][]ast.Type, bool)
}

func hasArcDataVisited(t ast.Type, sigs structInfoSource, visiting map[string]bool) bool {
	switch v := t.(type) {
	case ast.BuiltinType:
		return v.Kind == ast.StringK
	case ast.NullableType:
		return hasArcDataVisited(v.Inner, sigs, visiting)
	case ast.PointerType:
		return false
	case ast.StructType:
		key := "s_" + v.Module + "." + v.Name
		if visiting[key] {
			return false
		}
		visiting[key] = true
		fields, ok := sigs.fieldTypesOf(v.Module, v.Name)
		if !ok {
			return false
		}
		for _, ft := range fields {
			if hasArcDataVisited(ft, sigs, visiting) {
				return true
			}
		}
		return false
	case ast.EnumType:
		key := "e_" + v.Module + "." + v.Name
		if visiting[key] {
			return false
		}
		visiting[key] = true
		variants, ok := sigs.enumVariantTypesOf(v.Module, v.Name)
		if !ok {
			return false
		}
		for _, fields := range variants {
			for _, ft := range fields {
				if hasArcDataVisited(ft, sigs, visiting) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}
