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
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
)

func newTestResult() *resolve.Result {
	return &resolve.Result{
		FuncTypes:   make(map[resolve.Key]ast.FuncType),
		StructInfos: make(map[resolve.Key][]resolve.FieldInfo),
		EnumInfos:   make(map[resolve.Key]*resolve.EnumInfo),
		LetTypes:    make(map[resolve.Key]ast.Type),
		AliasTypes:  make(map[resolve.Key]ast.Type),
	}
}

func indexOf(order []orderedType, module, name string) int {
	for i, ot := range order {
		if ot.Module == module && ot.Name == name {
			return i
		}
	}
	return -1
}

func TestTypeDeclOrderRespectsValueDependency(t *testing.T) {
	sigs := newTestResult()
	innerKey := resolve.Key{Module: "app", Name: "Inner"}
	outerKey := resolve.Key{Module: "app", Name: "Outer"}
	sigs.StructInfos[innerKey] = []resolve.FieldInfo{{Name: "v", Type: ast.IntType}}
	sigs.StructInfos[outerKey] = []resolve.FieldInfo{{Name: "i", Type: ast.StructType{Module: "app", Name: "Inner"}}}

	order, ice := typeDeclOrder(sigs)
	if ice != nil {
		t.Fatalf("unexpected ICE: %v", ice)
	}
	innerPos := indexOf(order, "app", "Inner")
	outerPos := indexOf(order, "app", "Outer")
	if innerPos < 0 || outerPos < 0 {
		t.Fatalf("expected both types in order, got %+v", order)
	}
	if innerPos >= outerPos {
		t.Fatalf("Inner must be emitted before Outer, got order %+v", order)
	}
}

func TestTypeDeclOrderIsDeterministicAcrossRuns(t *testing.T) {
	sigs := newTestResult()
	for _, name := range []string{"Z", "A", "M"} {
		sigs.StructInfos[resolve.Key{Module: "app", Name: name}] = []resolve.FieldInfo{{Name: "v", Type: ast.IntType}}
	}
	first, ice := typeDeclOrder(sigs)
	if ice != nil {
		t.Fatalf("unexpected ICE: %v", ice)
	}
	second, ice := typeDeclOrder(sigs)
	if ice != nil {
		t.Fatalf("unexpected ICE: %v", ice)
	}
	if len(first) != len(second) {
		t.Fatalf("order length changed across runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("order is not deterministic at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestTypeDeclOrderPointerBreaksDependencyCycle(t *testing.T) {
	// A self-referential struct via Pointer(Self) is legal (spec.md §4.3:
	// only *value* cycles are rejected); Pointer edges must not be added to
	// the value-dependency graph typeDeclOrder walks.
	sigs := newTestResult()
	key := resolve.Key{Module: "app", Name: "Node"}
	sigs.StructInfos[key] = []resolve.FieldInfo{
		{Name: "next", Type: ast.PointerType{Inner: ast.StructType{Module: "app", Name: "Node"}}},
	}
	order, ice := typeDeclOrder(sigs)
	if ice != nil {
		t.Fatalf("unexpected ICE for a pointer-mediated self-reference: %v", ice)
	}
	if len(order) != 1 {
		t.Fatalf("expected exactly one ordered type, got %+v", order)
	}
}
