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

// Package l0c wires the whole pipeline (loader -> name resolution ->
// signature resolution -> type checking -> C emission) behind the single library entrypoint SPEC_FULL.md §12 calls
// for: Compile(entry string, cfg Config) (*CompileResult, error).
package l0c

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/check"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/diag"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/emit"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/loader"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
)

// Config is Compile's input: the entry module's search roots, plus the
// back-end options forwarded verbatim to pkg/emit.
type Config struct {
	Loader loader.Config
	Emit   emit.Options
}

// CompileResult threads every pass's output, per SPEC_FULL.md §12: a
// caller that only wants the generated C reads .C; one that wants to
// report diagnostics reads .Diagnostics; one writing tooling (an LSP, a
// REPL) can reach into the intermediate .Unit/.Envs/.Sigs/.Check tables
// directly rather than re-running the pipeline itself.
type CompileResult struct {
	Unit        *loader.Unit
	Envs        map[string]*resolve.ModuleEnv
	Sigs        *resolve.Result
	Check       *check.Result
	C           string
	Diagnostics []diag.Diagnostic
}

// Compile runs the full pipeline over entry and its transitive imports.
// It never returns a non-nil error for a source-level problem — those are
// reported through CompileResult.Diagnostics, sorted per diag.SortKey
// (spec.md §9's determinism requirement) — reserving the error return for
// entry itself being unreadable, and an ICE-returning error for an
// internal invariant violation that should never happen for a program
// with zero Error-kind diagnostics.
func Compile(entry string, cfg Config) (*CompileResult, error) {
	log := logrus.WithFields(logrus.Fields{"pass": "l0c", "entry": entry})
	log.Debug("compile: start")

	unit, loadDiags, err := loader.Load(entry, cfg.Loader)
	if err != nil {
		return nil, err
	}
	result := &CompileResult{Unit: unit, Diagnostics: append([]diag.Diagnostic{}, loadDiags...)}
	if _, ok := unit.Modules[entry]; !ok {
		return finish(result), fmt.Errorf("entry module %q could not be loaded", entry)
	}
	if hasError(loadDiags) {
		return finish(result), nil
	}

	envs, nameDiags := resolve.ResolveNames(unit)
	result.Envs = envs
	result.Diagnostics = append(result.Diagnostics, nameDiags...)
	if hasError(nameDiags) {
		return finish(result), nil
	}

	sigs, sigDiags := resolve.ResolveSignatures(unit, envs)
	result.Sigs = sigs
	result.Diagnostics = append(result.Diagnostics, sigDiags...)
	if hasError(sigDiags) {
		return finish(result), nil
	}

	chk, checkDiags := check.CheckUnit(unit, envs, sigs)
	result.Check = chk
	result.Diagnostics = append(result.Diagnostics, checkDiags...)
	if hasError(checkDiags) {
		return finish(result), nil
	}

	out, ice := emit.Emit(unit, envs, sigs, chk, entry, cfg.Emit)
	if ice != nil {
		log.WithField("ice", ice.Error()).Error("compile: internal compiler error during emission")
		return result, ice
	}
	result.C = out
	log.Debug("compile: done")
	return finish(result), nil
}

func hasError(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Kind == diag.Error {
			return true
		}
	}
	return false
}

// finish sorts the accumulated diagnostics per diag.SortKey before
// returning, so CompileResult.Diagnostics is deterministic across runs
// regardless of which pass reported in what internal order.
func finish(result *CompileResult) *CompileResult {
	sort.SliceStable(result.Diagnostics, func(i, j int) bool {
		fi, li, ci, ki := diag.SortKey(result.Diagnostics[i])
		fj, lj, cj, kj := diag.SortKey(result.Diagnostics[j])
		if fi != fj {
			return fi < fj
		}
		if li != lj {
			return li < lj
		}
		if ci != cj {
			return ci < cj
		}
		return ki < kj
	})
	return result
}
