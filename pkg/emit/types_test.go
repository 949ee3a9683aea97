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
)

func TestCTypeBuiltins(t *testing.T) {
	tc := newTypeCtx()
	cases := []struct {
		t    ast.Type
		want string
	}{
		{ast.IntType, "l0_int"},
		{ast.ByteType, "l0_byte"},
		{ast.BoolType, "l0_bool"},
		{ast.StringType, "l0_string"},
		{ast.VoidType, "void"},
	}
	for _, c := range cases {
		if got := tc.cType(c.t); got != c.want {
			t.Errorf("cType(%v) = %q, want %q", c.t, got, c.want)
		}
	}
}

func TestNullablePointerUsesNicheNoWrapper(t *testing.T) {
	tc := newTypeCtx()
	inner := ast.PointerType{Inner: ast.StructType{Module: "app", Name: "Node"}}
	nt := ast.NullableType{Inner: inner}
	got := tc.cType(nt)
	if got != tc.cType(inner) {
		t.Fatalf("Nullable(Pointer) should reuse the pointer's own C type, got %q", got)
	}
	if len(tc.builtinWrappers)+len(tc.userWrappers) != 0 {
		t.Fatalf("Nullable(Pointer) must not synthesize a wrapper, got %d", len(tc.builtinWrappers)+len(tc.userWrappers))
	}
}

func TestNullableBuiltinSynthesizesBuiltinWrapper(t *testing.T) {
	tc := newTypeCtx()
	nt := ast.NullableType{Inner: ast.IntType}
	got := tc.cType(nt)
	if !strings.HasPrefix(got, "struct l0_opt_") {
		t.Fatalf("Nullable(int) should lower to a synthesized wrapper struct, got %q", got)
	}
	if len(tc.builtinWrappers) != 1 || len(tc.userWrappers) != 0 {
		t.Fatalf("expected exactly one builtin-pass wrapper, got builtin=%d user=%d", len(tc.builtinWrappers), len(tc.userWrappers))
	}
}

func TestNullableStructSynthesizesUserWrapper(t *testing.T) {
	tc := newTypeCtx()
	nt := ast.NullableType{Inner: ast.StructType{Module: "app", Name: "Point"}}
	tc.cType(nt)
	if len(tc.userWrappers) != 1 || len(tc.builtinWrappers) != 0 {
		t.Fatalf("expected exactly one user-pass wrapper, got builtin=%d user=%d", len(tc.builtinWrappers), len(tc.userWrappers))
	}
}

func TestWrapperForIsIdempotent(t *testing.T) {
	tc := newTypeCtx()
	first := tc.wrapperFor(ast.IntType)
	second := tc.wrapperFor(ast.IntType)
	if first != second {
		t.Fatalf("wrapperFor should return the same name for the same inner type, got %q and %q", first, second)
	}
	if len(tc.builtinWrappers) != 1 {
		t.Fatalf("repeated lookups should not register duplicate wrappers, got %d", len(tc.builtinWrappers))
	}
}

func TestEmitWrapperRendersHasValueAndValue(t *testing.T) {
	tc := newTypeCtx()
	b := &Buffer{}
	tc.emitWrapper(b, wrapper{name: "l0_opt_b_int", inner: ast.IntType})
	out := b.String()
	for _, want := range []string{"struct l0_opt_b_int {", "l0_bool has_value;", "l0_int value;"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in wrapper output, got:\n%s", want, out)
		}
	}
}
