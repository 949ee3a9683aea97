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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/check"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/loader"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/util"
)

func writeTestModule(t *testing.T, root, name, body string) {
	t.Helper()
	path := util.ParseModulePath(name).FilePath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// emitProgram runs the full loader/resolve/check/emit pipeline over a
// single-module "app" program and returns the generated C text. It fails
// the test immediately on any diagnostic from an earlier pass, since the
// emitter itself is only ever exercised on an already-accepted program.
func emitProgram(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	writeTestModule(t, root, "app", body)
	unit, loadDiags, err := loader.Load("app", loader.Config{ProjectRoots: []string{root}})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loadDiags) != 0 {
		t.Fatalf("unexpected load diagnostics: %v", loadDiags)
	}
	envs, nameDiags := resolve.ResolveNames(unit)
	if len(nameDiags) != 0 {
		t.Fatalf("unexpected name-resolution diagnostics: %v", nameDiags)
	}
	sigs, sigDiags := resolve.ResolveSignatures(unit, envs)
	if len(sigDiags) != 0 {
		t.Fatalf("unexpected signature diagnostics: %v", sigDiags)
	}
	chk, checkDiags := check.CheckUnit(unit, envs, sigs)
	if len(checkDiags) != 0 {
		t.Fatalf("unexpected check diagnostics: %v", checkDiags)
	}
	out, ice := Emit(unit, envs, sigs, chk, "app", Options{})
	if ice != nil {
		t.Fatalf("unexpected ICE: %v", ice)
	}
	return out
}

func TestEmitMinimalProgram(t *testing.T) {
	out := emitProgram(t, `module app;
func main() -> int { return 0; }`)
	if !strings.Contains(out, "l0_app_main") {
		t.Fatalf("expected mangled main function, got:\n%s", out)
	}
	if !strings.Contains(out, "int main(int argc, char **argv)") {
		t.Fatalf("expected generated C main entrypoint, got:\n%s", out)
	}
}

func TestEmitArithmeticLowersToCheckedHelpers(t *testing.T) {
	out := emitProgram(t, `module app;
func add(a: int, b: int) -> int { return a + b; }
func main() -> int { return add(1, 2); }`)
	for _, want := range []string{"_rt_iadd", "l0_app_add"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestEmitStringCopyRetainsAndReleases(t *testing.T) {
	out := emitProgram(t, `module app;
func greet(name: string) -> string {
    let msg = name;
    return msg;
}
func main() -> int {
    let s = greet("hi");
    return 0;
}`)
	if !strings.Contains(out, "rt_string_retain") {
		t.Fatalf("expected a retain call for the place-sourced copy, got:\n%s", out)
	}
	if !strings.Contains(out, "rt_string_release") {
		t.Fatalf("expected a release call for the discarded/owned result, got:\n%s", out)
	}
}

func TestEmitStructLowersToPlainStruct(t *testing.T) {
	out := emitProgram(t, `module app;
struct Point { x: int; y: int; }
func main() -> int {
    let p = Point(1, 2);
    return p.x;
}`)
	if !strings.Contains(out, "struct l0_app_Point {") {
		t.Fatalf("expected a mangled struct declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "l0_int x;") || !strings.Contains(out, "l0_int y;") {
		t.Fatalf("expected mangled field declarations, got:\n%s", out)
	}
}

func TestEmitEnumLowersToTaggedUnion(t *testing.T) {
	out := emitProgram(t, `module app;
enum Shape { Circle(int); Square(int); }
func main() -> int {
    let s = Circle(4);
    match (s) {
        Circle(r) => { return r; }
        Square(side) => { return side; }
    }
}`)
	if !strings.Contains(out, "enum l0_app_Shape_tag {") {
		t.Fatalf("expected a mangled tag enum, got:\n%s", out)
	}
	if !strings.Contains(out, "union {") {
		t.Fatalf("expected a tagged-union data member, got:\n%s", out)
	}
	if !strings.Contains(out, "switch (") {
		t.Fatalf("expected the match to lower to a C switch, got:\n%s", out)
	}
}

func TestEmitNullablePointerUsesNicheRepresentation(t *testing.T) {
	out := emitProgram(t, `module app;
struct Node { val: int; }
func find() -> Node*? {
    return null;
}
func main() -> int {
    let n = find();
    return 0;
}`)
	if strings.Contains(out, "l0_opt_p_") {
		t.Fatalf("expected no synthesized wrapper for a Nullable(Pointer), got:\n%s", out)
	}
}

func TestEmitNullableValueSynthesizesWrapper(t *testing.T) {
	out := emitProgram(t, `module app;
func maybeInt() -> int? {
    return null;
}
func main() -> int {
    let n = maybeInt();
    return 0;
}`)
	if !strings.Contains(out, "has_value") {
		t.Fatalf("expected a synthesized {has_value, value} wrapper, got:\n%s", out)
	}
}

func TestEmitCaseOverStringUsesRuntimeEquals(t *testing.T) {
	out := emitProgram(t, `module app;
func classify(s: string) -> int {
    case (s) {
        "a" => { return 1; }
        else => { return 0; }
    }
}
func main() -> int {
    return classify("a");
}`)
	if !strings.Contains(out, "rt_string_equals") {
		t.Fatalf("expected string case dispatch to use rt_string_equals, got:\n%s", out)
	}
}
