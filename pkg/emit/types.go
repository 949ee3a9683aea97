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
	"fmt"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
)

// wrapper describes one synthesized Nullable(T) wrapper struct
// ("{ has_value: bool; value: T; }", spec.md §4.8) that is not eligible for
// the pointer-niche optimization.
type wrapper struct {
	name  string
	inner ast.Type
}

// typeCtx accumulates the whole-program set of synthesized nullable
// wrapper structs (spec.md: "collected across the whole program ... in two
// passes"); builtinWrappers covers Nullable(builtin) and is safe to emit
// before any struct/enum definition, userWrappers covers Nullable(struct |
// enum) and must be emitted only once its inner type definition exists.
type typeCtx struct {
	seen            map[string]string
	builtinWrappers []wrapper
	userWrappers    []wrapper
}

func newTypeCtx() *typeCtx {
	return &typeCtx{seen: make(map[string]string)}
}

// isNiche reports whether a Nullable(T) uses the pointer-niche optimization
// (T is itself a Pointer), per spec.md §4.8.
func isNiche(inner ast.Type) bool {
	_, ok := inner.(ast.PointerType)
	return ok
}

// cTypeKey produces a stable, collision-free string key for a semantic
// type, used both as a wrapper-cache key and inside generated wrapper
// struct names.
func cTypeKey(t ast.Type) string {
	switch v := t.(type) {
	case ast.BuiltinType:
		return "b_" + v.Kind.String()
	case ast.StructType:
		return "s_" + moduleSlug(v.Module) + "_" + v.Name
	case ast.EnumType:
		return "e_" + moduleSlug(v.Module) + "_" + v.Name
	case ast.PointerType:
		return "p_" + cTypeKey(v.Inner)
	case ast.NullableType:
		return "n_" + cTypeKey(v.Inner)
	default:
		return "x"
	}
}

// isBuiltinLike reports whether a type's C representation never needs a
// preceding user type definition (builtins and pointers to anything).
func isBuiltinLike(t ast.Type) bool {
	switch t.(type) {
	case ast.BuiltinType, ast.PointerType:
		return true
	default:
		return false
	}
}

// cType renders a semantic type's C spelling, registering any Nullable(T)
// wrapper it needs along the way.
func (tc *typeCtx) cType(t ast.Type) string {
	switch v := t.(type) {
	case ast.BuiltinType:
		switch v.Kind {
		case ast.Int:
			return "l0_int"
		case ast.Byte:
			return "l0_byte"
		case ast.Bool:
			return "l0_bool"
		case ast.StringK:
			return "l0_string"
		default:
			return "void"
		}
	case ast.StructType:
		return "struct " + MangleType(v.Module, v.Name)
	case ast.EnumType:
		return "struct " + MangleType(v.Module, v.Name)
	case ast.PointerType:
		return tc.cType(v.Inner) + "*"
	case ast.NullableType:
		if isNiche(v.Inner) {
			return tc.cType(v.Inner)
		}
		return "struct " + tc.wrapperFor(v.Inner)
	case ast.NullType:
		return "void*"
	default:
		return "void"
	}
}

// wrapperFor returns (synthesizing if necessary) the struct name for the
// Nullable(inner) wrapper, registering it into the builtin- or user-type
// emission pass according to whether inner needs a prior definition.
func (tc *typeCtx) wrapperFor(inner ast.Type) string {
	key := cTypeKey(inner)
	if name, ok := tc.seen[key]; ok {
		return name
	}
	name := fmt.Sprintf("l0_opt_%s", key)
	tc.seen[key] = name
	w := wrapper{name: name, inner: inner}
	if isBuiltinLike(inner) {
		tc.builtinWrappers = append(tc.builtinWrappers, w)
	} else {
		tc.userWrappers = append(tc.userWrappers, w)
	}
	return name
}

// emitWrapper writes one wrapper struct's definition.
func (tc *typeCtx) emitWrapper(b *Buffer, w wrapper) {
	b.Line("struct %s {", w.name)
	b.Indent()
	b.Line("l0_bool has_value;")
	b.Line("%s value;", tc.cType(w.inner))
	b.Dedent()
	b.Line("};")
	b.Raw("\n")
}
