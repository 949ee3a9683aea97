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
	"testing"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
)

type fakeSigs struct {
	structs map[string][]ast.Type
	enums   map[string][][]ast.Type
}

func (f fakeSigs) fieldTypesOf(module, name string) ([]ast.Type, bool) {
	fs, ok := f.structs[module+"."+name]
	return fs, ok
}

func (f fakeSigs) enumVariantTypesOf(module, name string) ([][]ast.Type, bool) {
	vs, ok := f.enums[module+"."+name]
	return vs, ok
}

func TestHasArcDataScalarsAreFalse(t *testing.T) {
	sigs := fakeSigs{}
	for _, ty := range []ast.Type{ast.IntType, ast.ByteType, ast.BoolType, ast.VoidType} {
		if hasArcData(ty, sigs) {
			t.Errorf("hasArcData(%v) = true, want false", ty)
		}
	}
}

func TestHasArcDataStringIsTrue(t *testing.T) {
	if !hasArcData(ast.StringType, fakeSigs{}) {
		t.Fatal("hasArcData(string) = false, want true")
	}
}

func TestHasArcDataPointerIsAlwaysFalse(t *testing.T) {
	pt := ast.PointerType{Inner: ast.StringType}
	if hasArcData(pt, fakeSigs{}) {
		t.Fatal("hasArcData(Pointer(string)) = true, want false: the pointee is cleaned up by drop, not scope ARC")
	}
}

func TestHasArcDataStructWithStringField(t *testing.T) {
	sigs := fakeSigs{structs: map[string][]ast.Type{
		"app.Pair": {ast.IntType, ast.StringType},
	}}
	st := ast.StructType{Module: "app", Name: "Pair"}
	if !hasArcData(st, sigs) {
		t.Fatal("expected a struct with a string field to be ARC-relevant")
	}
}

func TestHasArcDataStructWithoutStringField(t *testing.T) {
	sigs := fakeSigs{structs: map[string][]ast.Type{
		"app.Point": {ast.IntType, ast.IntType},
	}}
	st := ast.StructType{Module: "app", Name: "Point"}
	if hasArcData(st, sigs) {
		t.Fatal("expected an all-scalar struct not to be ARC-relevant")
	}
}

func TestHasArcDataEnumWithStringVariant(t *testing.T) {
	sigs := fakeSigs{enums: map[string][][]ast.Type{
		"app.Result": {{ast.IntType}, {ast.StringType}},
	}}
	et := ast.EnumType{Module: "app", Name: "Result"}
	if !hasArcData(et, sigs) {
		t.Fatal("expected an enum with a string-carrying variant to be ARC-relevant")
	}
}

func TestHasArcDataNullableRecursesIntoInner(t *testing.T) {
	nt := ast.NullableType{Inner: ast.StringType}
	if !hasArcData(nt, fakeSigs{}) {
		t.Fatal("expected Nullable(string) to be ARC-relevant")
	}
}

func TestHasArcDataSelfReferentialStructDoesNotRecurseForever(t *testing.T) {
	sigs := fakeSigs{structs: map[string][]ast.Type{
		// A struct cannot actually contain itself by value (SIG-0040
		// rejects that), but the cycle-guard must still terminate if
		// something upstream ever hands the classifier a bogus graph.
		"app.Self": {ast.StructType{Module: "app", Name: "Self"}},
	}}
	st := ast.StructType{Module: "app", Name: "Self"}
	if hasArcData(st, sigs) {
		t.Fatal("expected the cycle guard to stop recursion and report false")
	}
}
