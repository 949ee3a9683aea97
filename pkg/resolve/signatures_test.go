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
package resolve

import (
	"testing"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
)

func TestResolveSignaturesStructAndEnum(t *testing.T) {
	unit := loadUnit(t, "app", map[string]string{
		"app": `module app;
struct Point { x: int; y: int; }
enum Shape { Circle(int); Square(int, int); }
func area(s: Shape) -> int { return 0; }`,
	})
	envs, nameDiags := ResolveNames(unit)
	if len(nameDiags) != 0 {
		t.Fatalf("unexpected name diagnostics: %v", nameDiags)
	}
	res, diags := ResolveSignatures(unit, envs)
	if len(diags) != 0 {
		t.Fatalf("unexpected signature diagnostics: %v", diags)
	}
	fields := res.StructInfos[Key{"app", "Point"}]
	if len(fields) != 2 || !ast.TypeEquals(fields[0].Type, ast.IntType) {
		t.Fatalf("got Point fields %+v", fields)
	}
	info := res.EnumInfos[Key{"app", "Shape"}]
	if info == nil || len(info.VariantOrder) != 2 || info.VariantOrder[0] != "Circle" {
		t.Fatalf("got Shape info %+v", info)
	}
	ctor := res.FuncTypes[Key{"app", "Square"}]
	if len(ctor.Params) != 2 || !ast.TypeEquals(ctor.Result, ast.EnumType{Module: "app", Name: "Shape"}) {
		t.Fatalf("got Square constructor type %+v", ctor)
	}
	fn := res.FuncTypes[Key{"app", "area"}]
	if len(fn.Params) != 1 || !ast.TypeEquals(fn.Params[0], ast.EnumType{Module: "app", Name: "Shape"}) {
		t.Fatalf("got area signature %+v", fn)
	}
}

func TestResolveSignaturesPointerAndNullable(t *testing.T) {
	unit := loadUnit(t, "app", map[string]string{
		"app": `module app;
struct Node { value: int; }
func f(n: Node*?) -> int { return 0; }`,
	})
	envs, _ := ResolveNames(unit)
	res, diags := ResolveSignatures(unit, envs)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	fn := res.FuncTypes[Key{"app", "f"}]
	nullable, ok := fn.Params[0].(ast.NullableType)
	if !ok {
		t.Fatalf("expected NullableType, got %T", fn.Params[0])
	}
	if _, ok := nullable.Inner.(ast.PointerType); !ok {
		t.Fatalf("expected Nullable(Pointer(_)), got %+v", nullable)
	}
}

func TestResolveSignaturesAlias(t *testing.T) {
	unit := loadUnit(t, "app", map[string]string{
		"app": `module app;
struct Point { x: int; }
type PointAlias = Point;
func f(p: PointAlias) -> int { return 0; }`,
	})
	envs, _ := ResolveNames(unit)
	res, diags := ResolveSignatures(unit, envs)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	target := res.AliasTypes[Key{"app", "PointAlias"}]
	if !ast.TypeEquals(target, ast.StructType{Module: "app", Name: "Point"}) {
		t.Fatalf("got alias target %+v", target)
	}
	fn := res.FuncTypes[Key{"app", "f"}]
	if !ast.TypeEquals(fn.Params[0], ast.StructType{Module: "app", Name: "Point"}) {
		t.Fatalf("expected alias resolved through to struct type, got %+v", fn.Params[0])
	}
}

func TestResolveSignaturesAliasCycle(t *testing.T) {
	unit := loadUnit(t, "app", map[string]string{
		"app": `module app;
type A = B;
type B = A;`,
	})
	envs, _ := ResolveNames(unit)
	_, diags := ResolveSignatures(unit, envs)
	found := false
	for _, d := range diags {
		if d.Code == "SIG-0020" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SIG-0020, got %v", diags)
	}
}

func TestResolveSignaturesValueTypeCycle(t *testing.T) {
	unit := loadUnit(t, "app", map[string]string{
		"app": `module app;
struct A { b: B; }
struct B { a: A; }`,
	})
	envs, _ := ResolveNames(unit)
	_, diags := ResolveSignatures(unit, envs)
	found := false
	for _, d := range diags {
		if d.Code == "SIG-0040" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SIG-0040, got %v", diags)
	}
}

func TestResolveSignaturesValueTypeCycleAllowedThroughPointer(t *testing.T) {
	unit := loadUnit(t, "app", map[string]string{
		"app": `module app;
struct A { b: B*; }
struct B { a: A; }`,
	})
	envs, _ := ResolveNames(unit)
	_, diags := ResolveSignatures(unit, envs)
	for _, d := range diags {
		if d.Code == "SIG-0040" {
			t.Fatalf("did not expect SIG-0040 when one edge is a pointer, got %v", diags)
		}
	}
}

func TestResolveSignaturesLetInference(t *testing.T) {
	unit := loadUnit(t, "app", map[string]string{
		"app": `module app;
let count = 1;
let label = "hi";`,
	})
	envs, _ := ResolveNames(unit)
	res, diags := ResolveSignatures(unit, envs)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !ast.TypeEquals(res.LetTypes[Key{"app", "count"}], ast.IntType) {
		t.Fatalf("got count type %+v", res.LetTypes[Key{"app", "count"}])
	}
	if !ast.TypeEquals(res.LetTypes[Key{"app", "label"}], ast.StringType) {
		t.Fatalf("got label type %+v", res.LetTypes[Key{"app", "label"}])
	}
}

func TestResolveSignaturesLetUninferable(t *testing.T) {
	unit := loadUnit(t, "app", map[string]string{
		"app": `module app;
func one() -> int { return 1; }
let doubled = one() + one();`,
	})
	envs, _ := ResolveNames(unit)
	_, diags := ResolveSignatures(unit, envs)
	found := false
	for _, d := range diags {
		if d.Code == "SIG-0030" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SIG-0030 for a non-literal-form initializer, got %v", diags)
	}
}
