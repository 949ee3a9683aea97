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
	"strings"
	"testing"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
)

func TestEmitStructDeclFillsEmptyBody(t *testing.T) {
	b := &Buffer{}
	emitStructDecl(b, newTypeCtx(), resolve.Key{Module: "app", Name: "Unit"}, nil)
	out := b.String()
	if !strings.Contains(out, "struct l0_app_Unit {") {
		t.Fatalf("expected mangled struct header, got:\n%s", out)
	}
	if !strings.Contains(out, "char _l0_filler;") {
		t.Fatalf("expected filler member for an empty struct, got:\n%s", out)
	}
}

func TestEmitStructDeclMangleFieldsAndTypes(t *testing.T) {
	b := &Buffer{}
	fields := []resolve.FieldInfo{{Name: "int", Type: ast.IntType}}
	emitStructDecl(b, newTypeCtx(), resolve.Key{Module: "app", Name: "Box"}, fields)
	out := b.String()
	if !strings.Contains(out, "l0_int int__v;") {
		t.Fatalf("expected keyword-colliding field name to be escaped, got:\n%s", out)
	}
}

func TestEmitEnumDeclProducesTagAndUnion(t *testing.T) {
	b := &Buffer{}
	info := &resolve.EnumInfo{
		VariantOrder: []string{"Circle", "Square"},
		Variants: map[string][]ast.Type{
			"Circle": {ast.IntType},
			"Square": {ast.IntType, ast.IntType},
		},
	}
	emitEnumDecl(b, newTypeCtx(), resolve.Key{Module: "app", Name: "Shape"}, info)
	out := b.String()
	for _, want := range []string{
		"enum l0_app_Shape_tag {",
		"l0_app_Shape_tag_Circle,",
		"l0_app_Shape_tag_Square,",
		"struct l0_app_Shape {",
		"enum l0_app_Shape_tag tag;",
		"union {",
		"} data;",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in enum output, got:\n%s", want, out)
		}
	}
}

func TestEmitEnumDeclEmptyVariantGetsFiller(t *testing.T) {
	b := &Buffer{}
	info := &resolve.EnumInfo{
		VariantOrder: []string{"None"},
		Variants:     map[string][]ast.Type{"None": {}},
	}
	emitEnumDecl(b, newTypeCtx(), resolve.Key{Module: "app", Name: "Opt"}, info)
	if !strings.Contains(b.String(), "char _l0_filler;") {
		t.Fatalf("expected filler member for an empty variant payload, got:\n%s", b.String())
	}
}

func TestFuncReturnAndParamsUsesParamNames(t *testing.T) {
	tc := newTypeCtx()
	ft := ast.FuncType{Params: []ast.Type{ast.IntType, ast.BoolType}, Result: ast.IntType}
	ret, params := funcReturnAndParams(tc, ft, []string{"a", "flag"})
	if ret != "l0_int" {
		t.Fatalf("return type = %q, want l0_int", ret)
	}
	if !strings.Contains(params, "l0_int a") || !strings.Contains(params, "l0_bool flag") {
		t.Fatalf("params = %q, want both named parameters present", params)
	}
}

func TestFuncReturnAndParamsVoidParamsList(t *testing.T) {
	tc := newTypeCtx()
	ft := ast.FuncType{Result: ast.VoidType}
	_, params := funcReturnAndParams(tc, ft, nil)
	if params != "void" {
		t.Fatalf("params = %q, want void for a no-argument function", params)
	}
}
