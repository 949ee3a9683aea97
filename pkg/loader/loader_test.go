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
package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/util"
)

func writeModule(t *testing.T, root, name, body string) {
	t.Helper()
	path := util.ParseModulePath(name).FilePath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSingleModule(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "app", "module app; func main() -> int { return 0; }")

	unit, diags, err := Load("app", Config{ProjectRoots: []string{root}})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if _, ok := unit.Modules["app"]; !ok {
		t.Fatalf("expected module 'app' loaded, got %v", unit.Modules)
	}
}

func TestLoadTransitiveImports(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "util", "module util; func helper() -> int { return 1; }")
	writeModule(t, root, "app", "module app; import util; func main() -> int { return 0; }")

	unit, diags, err := Load("app", Config{ProjectRoots: []string{root}})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(unit.Modules) != 2 {
		t.Fatalf("expected 2 modules loaded, got %d: %v", len(unit.Modules), unit.Order)
	}
	if unit.Order[0] != "util" || unit.Order[1] != "app" {
		t.Fatalf("expected import to precede importer in load order, got %v", unit.Order)
	}
}

func TestLoadMissingModule(t *testing.T) {
	root := t.TempDir()
	_, diags, err := Load("nope", Config{ProjectRoots: []string{root}})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(diags) != 1 || diags[0].Code != "DRV-0010" {
		t.Fatalf("expected DRV-0010, got %v", diags)
	}
}

func TestLoadImportCycle(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "a", "module a; import b; func fa() -> int { return 0; }")
	writeModule(t, root, "b", "module b; import a; func fb() -> int { return 0; }")

	_, diags, err := Load("a", Config{ProjectRoots: []string{root}})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	found := false
	for _, d := range diags {
		if d.Code == "DRV-0030" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DRV-0030 among diagnostics, got %v", diags)
	}
}

func TestLoadSystemRootBeforeProjectRoot(t *testing.T) {
	sysRoot := t.TempDir()
	projRoot := t.TempDir()
	writeModule(t, sysRoot, "app", "module app; func main() -> int { return 1; }")
	writeModule(t, projRoot, "app", "module app; func main() -> int { return 2; }")

	unit, _, err := Load("app", Config{SystemRoots: []string{sysRoot}, ProjectRoots: []string{projRoot}})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if unit.Modules["app"].Filename != util.ParseModulePath("app").FilePath(sysRoot) {
		t.Fatalf("expected system root to win, got %s", unit.Modules["app"].Filename)
	}
}
