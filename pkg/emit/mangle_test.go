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

import "testing"

func TestMangleType(t *testing.T) {
	if got, want := MangleType("geo", "Point"), "l0_geo_Point"; got != want {
		t.Fatalf("MangleType = %q, want %q", got, want)
	}
	if got, want := MangleType("a.b", "Point"), "l0_a_b_Point"; got != want {
		t.Fatalf("MangleType with dotted module = %q, want %q", got, want)
	}
}

func TestMangleEnumTag(t *testing.T) {
	if got, want := MangleEnumTag("geo", "Shape"), "l0_geo_Shape_tag"; got != want {
		t.Fatalf("MangleEnumTag = %q, want %q", got, want)
	}
}

func TestMangleFunc(t *testing.T) {
	if got, want := MangleFunc("app", "main"), "l0_app_main"; got != want {
		t.Fatalf("MangleFunc = %q, want %q", got, want)
	}
}

func TestMangleExternFuncKeepsBareName(t *testing.T) {
	if got, want := MangleExternFunc("printf"), "printf"; got != want {
		t.Fatalf("MangleExternFunc = %q, want %q", got, want)
	}
}

func TestMangleLetPrefixAvoidsKeywordCollision(t *testing.T) {
	got := MangleLet("app", "int")
	if got != "l0_app_int" {
		t.Fatalf("MangleLet with non-colliding mangled form = %q, want l0_app_int", got)
	}
}

func TestMangleLocalPassesThroughOrdinaryNames(t *testing.T) {
	if got, want := MangleLocal("count"), "count"; got != want {
		t.Fatalf("MangleLocal(count) = %q, want %q", got, want)
	}
}

func TestMangleLocalEscapesReservedKeyword(t *testing.T) {
	if got, want := MangleLocal("int"), "int__v"; got != want {
		t.Fatalf("MangleLocal(int) = %q, want %q", got, want)
	}
	if got, want := MangleLocal("struct"), "struct__v"; got != want {
		t.Fatalf("MangleLocal(struct) = %q, want %q", got, want)
	}
}

func TestMangleLocalEscapesEmitterPrefixCollision(t *testing.T) {
	if got, want := MangleLocal("_t1"), "_t1__v"; got != want {
		t.Fatalf("MangleLocal(_t1) = %q, want %q", got, want)
	}
	if got, want := MangleLocal("l0_x"), "l0_x__v"; got != want {
		t.Fatalf("MangleLocal(l0_x) = %q, want %q", got, want)
	}
}

func TestMangleLocalEscapesSuffixCollision(t *testing.T) {
	if got, want := MangleLocal("foo__v"), "foo__v__v"; got != want {
		t.Fatalf("MangleLocal(foo__v) = %q, want %q", got, want)
	}
}
