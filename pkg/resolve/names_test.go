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

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/loader"
)

func loadUnit(t *testing.T, entry string, modules map[string]string) *loader.Unit {
	t.Helper()
	root := t.TempDir()
	for name, body := range modules {
		writeTestModule(t, root, name, body)
	}
	unit, diags, err := loader.Load(entry, loader.Config{ProjectRoots: []string{root}})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected load diagnostics: %v", diags)
	}
	return unit
}

func TestResolveNamesLocalsAndVariants(t *testing.T) {
	unit := loadUnit(t, "app", map[string]string{
		"app": `module app;
struct Point { x: int; y: int; }
enum Shape { Circle(int); Square(int, int); }
func main() -> int { return 0; }`,
	})
	envs, diags := ResolveNames(unit)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	env := envs["app"]
	for _, name := range []string{"Point", "Shape", "Circle", "Square", "main"} {
		if _, ok := env.Locals[name]; !ok {
			t.Fatalf("expected %q in locals, got %v", name, env.Locals)
		}
	}
	if env.Locals["Circle"].Kind != SymVariant || env.Locals["Circle"].EnumOf != "Shape" {
		t.Fatalf("got Circle symbol %+v", env.Locals["Circle"])
	}
}

func TestResolveNamesDuplicateLocal(t *testing.T) {
	unit := loadUnit(t, "app", map[string]string{
		"app": `module app;
struct Point { x: int; }
struct Point { y: int; }`,
	})
	_, diags := ResolveNames(unit)
	if len(diags) != 1 || diags[0].Code != "RES-0010" {
		t.Fatalf("expected RES-0010, got %v", diags)
	}
}

func TestResolveNamesImportMerge(t *testing.T) {
	unit := loadUnit(t, "app", map[string]string{
		"util": `module util; func helper() -> int { return 1; }`,
		"app":  `module app; import util; func main() -> int { return 0; }`,
	})
	envs, diags := ResolveNames(unit)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	env := envs["app"]
	if _, ok := env.All["helper"]; !ok {
		t.Fatalf("expected 'helper' merged into app's symbol table, got %v", env.All)
	}
}

func TestResolveNamesAmbiguousImport(t *testing.T) {
	unit := loadUnit(t, "app", map[string]string{
		"a":   `module a; func helper() -> int { return 1; }`,
		"b":   `module b; func helper() -> int { return 2; }`,
		"app": `module app; import a; import b; func main() -> int { return 0; }`,
	})
	envs, diags := ResolveNames(unit)
	found := false
	for _, d := range diags {
		if d.Code == "RES-0022" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected RES-0022, got %v", diags)
	}
	if _, ambiguous := envs["app"].AmbiguousImports["helper"]; !ambiguous {
		t.Fatalf("expected 'helper' recorded as ambiguous")
	}
	if _, inAll := envs["app"].All["helper"]; inAll {
		t.Fatalf("ambiguous import must not appear in All")
	}
}

func TestResolveNamesLocalShadowsImport(t *testing.T) {
	unit := loadUnit(t, "app", map[string]string{
		"util": `module util; func helper() -> int { return 1; }`,
		"app": `module app; import util;
func helper() -> int { return 2; }`,
	})
	_, diags := ResolveNames(unit)
	found := false
	for _, d := range diags {
		if d.Code == "RES-0021" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected RES-0021, got %v", diags)
	}
}
