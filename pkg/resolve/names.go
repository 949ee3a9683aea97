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

// Package resolve implements the three middle passes of spec.md §4.4–4.6:
// the per-module name resolver, the cross-module signature resolver, and
// the per-function local scope resolver. The shape of Environment mirrors
// the teacher's own module/column registries (pkg/corset/environment.go):
// plain maps with Lookup/Has accessors, built once and read thereafter.
package resolve

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/diag"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/loader"
)

// SymbolKind is the closed sum of symbol kinds named in spec.md §3.
type SymbolKind int

const (
	SymFunc SymbolKind = iota
	SymStruct
	SymEnum
	SymVariant
	SymAlias
	SymLet
)

func (k SymbolKind) String() string {
	switch k {
	case SymFunc:
		return "function"
	case SymStruct:
		return "struct"
	case SymEnum:
		return "enum"
	case SymVariant:
		return "enum-variant"
	case SymAlias:
		return "type-alias"
	case SymLet:
		return "top-level-let"
	default:
		return "symbol"
	}
}

// Symbol is "(name, kind, owning_module, defining_ast_node,
// optional_resolved_type)" from spec.md §3. ResolvedType is filled in by
// the signature resolver; it is nil until then.
type Symbol struct {
	Name         string
	Kind         SymbolKind
	Module       string
	Decl         ast.Decl
	EnumOf       string // for SymVariant: the owning enum's declared name
	ResolvedType ast.Type
}

// ModuleEnv is the per-module symbol environment of spec.md §3: a `locals`
// table from this module's own declarations, an `imported` table merged in
// from direct imports, `all` (their non-ambiguous union), and the set of
// names that turned out ambiguous across more than one import.
type ModuleEnv struct {
	Module           string
	Locals           map[string]*Symbol
	Imported         map[string]*Symbol
	All              map[string]*Symbol
	AmbiguousImports map[string][]string
}

func newModuleEnv(name string) *ModuleEnv {
	return &ModuleEnv{
		Module:           name,
		Locals:           make(map[string]*Symbol),
		Imported:         make(map[string]*Symbol),
		All:              make(map[string]*Symbol),
		AmbiguousImports: make(map[string][]string),
	}
}

// ResolveNames builds a ModuleEnv for every module in unit, in unit.Order
// (imports before importers, though locals collection itself does not
// depend on order).
func ResolveNames(unit *loader.Unit) (map[string]*ModuleEnv, []diag.Diagnostic) {
	var diags []diag.Diagnostic
	envs := make(map[string]*ModuleEnv, len(unit.Modules))

	for _, name := range unit.Order {
		m := unit.Modules[name]
		env := newModuleEnv(name)
		collectLocals(m, env, &diags)
		envs[name] = env
	}
	for _, name := range unit.Order {
		m := unit.Modules[name]
		env := envs[name]
		mergeImports(m, env, envs, &diags)
		logrus.WithFields(logrus.Fields{
			"pass": "resolve-names", "module": name,
			"locals": len(env.Locals), "imported": len(env.Imported), "ambiguous": len(env.AmbiguousImports),
		}).Debug("resolve-names: module done")
	}
	return envs, diags
}

func collectLocals(m *ast.Module, env *ModuleEnv, diags *[]diag.Diagnostic) {
	declare := func(name string, kind SymbolKind, decl ast.Decl, enumOf string) {
		if _, exists := env.Locals[name]; exists {
			*diags = append(*diags, diag.Errorf("RES-0010", m.Name, m.Filename, declPos(decl), declPos(decl),
				"%q is already declared in module %q", name, m.Name))
			return
		}
		env.Locals[name] = &Symbol{Name: name, Kind: kind, Module: m.Name, Decl: decl, EnumOf: enumOf}
	}
	for _, d := range m.Decls {
		switch v := d.(type) {
		case *ast.FuncDecl:
			declare(v.Name, SymFunc, v, "")
		case *ast.StructDecl:
			declare(v.Name, SymStruct, v, "")
		case *ast.EnumDecl:
			declare(v.Name, SymEnum, v, "")
			for i := range v.Variants {
				declare(v.Variants[i].Name, SymVariant, v, v.Name)
			}
		case *ast.AliasDecl:
			declare(v.Name, SymAlias, v, "")
		case *ast.LetDecl:
			declare(v.Name, SymLet, v, "")
		}
	}
}

func declPos(d ast.Decl) diag.Pos {
	if d == nil {
		return diag.Pos{}
	}
	sp := d.DeclSpan()
	return diag.Pos{Line: sp.Start.Line, Col: sp.Start.Col}
}

// mergeImports implements spec.md §4.4's merge semantics for one module's
// direct imports, processed in declared order so that "ambiguous once per
// pair" warnings are emitted deterministically.
func mergeImports(m *ast.Module, env *ModuleEnv, envs map[string]*ModuleEnv, diags *[]diag.Diagnostic) {
	sourceOf := make(map[string][]string) // name -> every import module that defines it

	for _, imp := range m.Imports {
		impEnv, ok := envs[imp]
		if !ok {
			*diags = append(*diags, diag.Errorf("RES-0029", m.Name, m.Filename, diag.Pos{}, diag.Pos{},
				"import %q could not be resolved within the compilation unit", imp))
			continue
		}
		names := make([]string, 0, len(impEnv.Locals))
		for name := range impEnv.Locals {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sym := impEnv.Locals[name]
			sourceOf[name] = append(sourceOf[name], imp)
			if existing, already := env.Imported[name]; already {
				if existing.Module != sym.Module {
					if len(sourceOf[name]) == 2 {
						*diags = append(*diags, diag.Warningf("RES-0022", m.Name, m.Filename, diag.Pos{}, diag.Pos{},
							"%q is ambiguously imported from modules %v", name, sourceOf[name]))
					}
					env.AmbiguousImports[name] = append([]string{}, sourceOf[name]...)
				}
				continue
			}
			env.Imported[name] = sym
		}
	}

	for name, sym := range env.Imported {
		if _, ambiguous := env.AmbiguousImports[name]; ambiguous {
			continue
		}
		if local, exists := env.Locals[name]; exists {
			if local.Kind == SymFunc && sym.Kind == SymFunc &&
				local.Decl.(*ast.FuncDecl).Extern && sym.Decl.(*ast.FuncDecl).Extern &&
				externPrototypesEqual(local.Decl.(*ast.FuncDecl), sym.Decl.(*ast.FuncDecl)) {
				*diags = append(*diags, diag.Warningf("RES-0020", m.Name, m.Filename, declPos(local.Decl), declPos(local.Decl),
					"local extern %q shadows an identically-typed imported extern from %q", name, sym.Module))
			} else {
				*diags = append(*diags, diag.Warningf("RES-0021", m.Name, m.Filename, declPos(local.Decl), declPos(local.Decl),
					"local %q shadows an imported symbol from %q", name, sym.Module))
			}
		}
	}

	env.All = make(map[string]*Symbol, len(env.Locals)+len(env.Imported))
	for name, sym := range env.Locals {
		env.All[name] = sym
	}
	for name, sym := range env.Imported {
		if _, ambiguous := env.AmbiguousImports[name]; ambiguous {
			continue
		}
		if _, local := env.Locals[name]; local {
			continue
		}
		env.All[name] = sym
	}
}

func externPrototypesEqual(a, b *ast.FuncDecl) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !typeExprEqual(a.Params[i].Type, b.Params[i].Type) {
			return false
		}
	}
	return typeExprEqual(a.ResultType, b.ResultType)
}

// typeExprEqual is a syntactic (pre-resolution) equality check over
// TypeExpr trees, used only to compare two extern prototypes before any
// symbol has a resolved ast.Type.
func typeExprEqual(a, b *ast.TypeExpr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Name != b.Name || len(a.ModulePath) != len(b.ModulePath) {
		return false
	}
	for i := range a.ModulePath {
		if a.ModulePath[i] != b.ModulePath[i] {
			return false
		}
	}
	return typeExprEqual(a.Inner, b.Inner)
}
