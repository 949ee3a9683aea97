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

func newTestFuncCtx() *funcCtx {
	return &funcCtx{buf: &Buffer{}, arcSigs: fakeSigs{}}
}

func TestDeclareLocalOnlyTracksArcRelevantAsOwned(t *testing.T) {
	fc := newTestFuncCtx()
	fc.pushScope(false)
	fc.declareLocal("x", ast.IntType)
	fc.declareLocal("s", ast.StringType)
	owned := fc.current().owned
	if len(owned) != 1 || owned[0].cName != "s" {
		t.Fatalf("expected only the string local to be tracked as owned, got %+v", owned)
	}
}

func TestReleaseScopeRunsInReverseDeclarationOrder(t *testing.T) {
	fc := newTestFuncCtx()
	fc.pushScope(false)
	fc.declareLocal("a", ast.StringType)
	fc.declareLocal("b", ast.StringType)
	fc.releaseScope(fc.current(), nil)
	out := fc.buf.String()
	bPos := strings.Index(out, "rt_string_release(b)")
	aPos := strings.Index(out, "rt_string_release(a)")
	if bPos < 0 || aPos < 0 || bPos > aPos {
		t.Fatalf("expected b released before a (reverse declaration order), got:\n%s", out)
	}
}

func TestReleaseScopeSkipsExceptSet(t *testing.T) {
	fc := newTestFuncCtx()
	fc.pushScope(false)
	fc.declareLocal("moved", ast.StringType)
	fc.releaseScope(fc.current(), map[string]bool{"moved": true})
	if strings.Contains(fc.buf.String(), "rt_string_release") {
		t.Fatalf("expected the except-listed variable to be skipped, got:\n%s", fc.buf.String())
	}
}

func TestUnwindToRunsWithCleanupBeforeReleases(t *testing.T) {
	fc := newTestFuncCtx()
	fc.pushScope(false)
	ran := false
	fc.current().withCleanup = append(fc.current().withCleanup, func() { ran = true; fc.buf.Line("/* cleanup */") })
	fc.declareLocal("s", ast.StringType)
	fc.unwindTo(0, nil)
	if !ran {
		t.Fatal("expected the with-cleanup closure to run")
	}
	out := fc.buf.String()
	cleanupPos := strings.Index(out, "/* cleanup */")
	releasePos := strings.Index(out, "rt_string_release")
	if cleanupPos < 0 || releasePos < 0 || cleanupPos > releasePos {
		t.Fatalf("expected with-cleanup to run before the owned-var release, got:\n%s", out)
	}
}

func TestInnermostLoopIndexFindsNearestLoopScope(t *testing.T) {
	fc := newTestFuncCtx()
	fc.pushScope(false) // function root
	fc.pushScope(true)  // while
	fc.pushScope(false) // if-block inside the loop
	if got, want := fc.innermostLoopIndex(), 1; got != want {
		t.Fatalf("innermostLoopIndex = %d, want %d", got, want)
	}
}

func TestVarTypeLookupWalksOuterScopes(t *testing.T) {
	fc := newTestFuncCtx()
	fc.pushScope(false)
	fc.declareLocal("x", ast.IntType)
	fc.pushScope(false)
	typ, ok := fc.varTypeLookup("x")
	if !ok || typ != ast.IntType {
		t.Fatalf("expected to find x declared in an outer scope, got %v, %v", typ, ok)
	}
}
