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
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
)

// structKey builds a resolve.Key from a module/name pair; a one-line
// helper kept local to pkg/emit so call sites (arcemit.go in particular)
// don't spell out the resolve.Key{...} literal at every lookup.
func structKey(module, name string) resolve.Key {
	return resolve.Key{Module: module, Name: name}
}

// sigsAdapter exposes the fields of *resolve.Result that ARC classification
// needs through the narrow structInfoSource interface.
type sigsAdapter struct{ sigs *resolve.Result }

func (a sigsAdapter) fieldTypesOf(module, name string) ([]ast.Type, bool) {
	fields, ok := a.sigs.StructInfos[resolve.Key{Module: module, Name: name}]
	if !ok {
		return nil, false
	}
	out := make([]ast.Type, len(fields))
	for i, f := range fields {
		out[i] = f.Type
	}
	return out, true
}

func (a sigsAdapter) enumVariantTypesOf(module, name string) ([][]ast.Type, bool) {
	info, ok := a.sigs.EnumInfos[resolve.Key{Module: module, Name: name}]
	if !ok {
		return nil, false
	}
	out := make([][]ast.Type, 0, len(info.VariantOrder))
	for _, vn := range info.VariantOrder {
		out = append(out, info.Variants[vn])
	}
	return out, true
}

// emitStructDecl writes "struct l0_<mod>_<Name> { field... };"; an empty
// struct gets a single char filler, since C99 forbids an empty struct body.
func emitStructDecl(b *Buffer, tc *typeCtx, key resolve.Key, fields []resolve.FieldInfo) {
	b.Line("struct %s {", MangleType(key.Module, key.Name))
	b.Indent()
	if len(fields) == 0 {
		b.Line("char _l0_filler;")
	}
	for _, f := range fields {
		b.Line("%s %s;", tc.cType(f.Type), MangleLocal(f.Name))
	}
	b.Dedent()
	b.Line("};")
	b.Raw("\n")
}

// variantStructName names a tagged-union's per-variant payload struct,
// nested inside the enum's data union.
func variantStructName(module, enumName, variant string) string {
	return MangleType(module, enumName) + "_" + variant
}

// emitEnumDecl writes the tag enum plus the tagged-union struct, per
// spec.md §4.8: "a tag enum plus a struct { tag; union { variant_structs }
// data; }".
func emitEnumDecl(b *Buffer, tc *typeCtx, key resolve.Key, info *resolve.EnumInfo) {
	tagType := MangleEnumTag(key.Module, key.Name)
	b.Line("enum %s {", tagType)
	b.Indent()
	for _, vn := range info.VariantOrder {
		b.Line("%s_%s,", tagType, vn)
	}
	b.Dedent()
	b.Line("};")
	b.Raw("\n")

	b.Line("struct %s {", MangleType(key.Module, key.Name))
	b.Indent()
	b.Line("enum %s tag;", tagType)
	b.Line("union {")
	b.Indent()
	for _, vn := range info.VariantOrder {
		fields := info.Variants[vn]
		b.Line("struct {")
		b.Indent()
		if len(fields) == 0 {
			b.Line("char _l0_filler;")
		}
		for i, ft := range fields {
			b.Line("%s f%d;", tc.cType(ft), i)
		}
		b.Dedent()
		b.Line("} %s;", vn)
	}
	b.Dedent()
	b.Line("} data;")
	b.Dedent()
	b.Line("};")
	b.Raw("\n")
}

// funcReturnAndParams renders a function's C parameter list and return
// type, shared by prototype declarations and definitions.
func funcReturnAndParams(tc *typeCtx, ft ast.FuncType, paramNames []string) (string, string) {
	ret := tc.cType(ft.Result)
	if len(ft.Params) == 0 {
		return ret, "void"
	}
	parts := make([]string, len(ft.Params))
	for i, p := range ft.Params {
		name := fmt.Sprintf("a%d", i)
		if i < len(paramNames) && paramNames[i] != "" {
			name = MangleLocal(paramNames[i])
		}
		parts[i] = fmt.Sprintf("%s %s", tc.cType(p), name)
	}
	params := ""
	for i, p := range parts {
		if i > 0 {
			params += ", "
		}
		params += p
	}
	return ret, params
}
