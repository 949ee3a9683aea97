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
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/diag"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/loader"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/source"
)

// Key identifies a declaration by its owning module and declared name —
// the key shape spec.md §3 names for every structural table.
type Key struct {
	Module string
	Name   string
}

// FieldInfo is one resolved struct field or enum variant payload slot.
type FieldInfo struct {
	Name string
	Type ast.Type
}

// EnumInfo is "an ordered map of variant_name → list of field types"
// (spec.md §3); VariantOrder preserves declaration order for deterministic
// emission and exhaustiveness checking.
type EnumInfo struct {
	VariantOrder []string
	Variants     map[string][]ast.Type
}

// Result holds the four structural tables signature resolution produces.
type Result struct {
	FuncTypes   map[Key]ast.FuncType
	StructInfos map[Key][]FieldInfo
	EnumInfos   map[Key]*EnumInfo
	LetTypes    map[Key]ast.Type
	AliasTypes  map[Key]ast.Type
}

func newResult() *Result {
	return &Result{
		FuncTypes:   make(map[Key]ast.FuncType),
		StructInfos: make(map[Key][]FieldInfo),
		EnumInfos:   make(map[Key]*EnumInfo),
		LetTypes:    make(map[Key]ast.Type),
		AliasTypes:  make(map[Key]ast.Type),
	}
}

// ResolveSignatures implements spec.md §4.5: struct fields, enum variants,
// function signatures, type aliases (with cycle detection), top-level
// lets, and finally whole-program value-type cycle detection.
func ResolveSignatures(unit *loader.Unit, envs map[string]*ModuleEnv) (*Result, []diag.Diagnostic) {
	var diags []diag.Diagnostic
	res := newResult()

	// Aliases first: struct/enum field resolution needs alias targets
	// available so a field of alias-to-struct type resolves transparently.
	for _, name := range unit.Order {
		m := unit.Modules[name]
		for _, d := range m.Decls {
			if ad, ok := d.(*ast.AliasDecl); ok {
				resolveAlias(Key{name, ad.Name}, unit, envs, res, make(map[Key]bool), &diags)
			}
		}
	}

	for _, name := range unit.Order {
		m := unit.Modules[name]
		for _, d := range m.Decls {
			switch v := d.(type) {
			case *ast.StructDecl:
				resolveStruct(name, v, unit, envs, res, &diags)
			case *ast.EnumDecl:
				resolveEnum(name, v, unit, envs, res, &diags)
			case *ast.FuncDecl:
				resolveFunc(name, v, unit, envs, res, &diags)
			case *ast.LetDecl:
				resolveLet(name, v, unit, envs, res, &diags)
			}
		}
		logrus.WithField("pass", "resolve-signatures").WithField("module", name).Debug("resolve-signatures: module done")
	}

	detectValueTypeCycles(res, &diags)
	return res, diags
}

func resolveStruct(module string, d *ast.StructDecl, unit *loader.Unit, envs map[string]*ModuleEnv, res *Result, diags *[]diag.Diagnostic) {
	key := Key{module, d.Name}
	fields := make([]FieldInfo, 0, len(d.Fields))
	for _, f := range d.Fields {
		t, ok := resolveTypeExpr(f.Type, module, envs, res)
		if !ok {
			*diags = append(*diags, diag.Errorf("SIG-0010", module, unit.Modules[module].Filename,
				pos(f.Span), pos(f.Span), "could not resolve type of field %q in struct %q", f.Name, d.Name))
			continue
		}
		fields = append(fields, FieldInfo{Name: f.Name, Type: t})
	}
	res.StructInfos[key] = fields
}

func resolveEnum(module string, d *ast.EnumDecl, unit *loader.Unit, envs map[string]*ModuleEnv, res *Result, diags *[]diag.Diagnostic) {
	key := Key{module, d.Name}
	info := &EnumInfo{Variants: make(map[string][]ast.Type, len(d.Variants))}
	for _, v := range d.Variants {
		fieldTypes := make([]ast.Type, 0, len(v.Fields))
		for _, ft := range v.Fields {
			t, ok := resolveTypeExpr(ft, module, envs, res)
			if !ok {
				*diags = append(*diags, diag.Errorf("SIG-0011", module, unit.Modules[module].Filename,
					pos(v.Span), pos(v.Span), "could not resolve a field type of variant %q in enum %q", v.Name, d.Name))
				continue
			}
			fieldTypes = append(fieldTypes, t)
		}
		info.VariantOrder = append(info.VariantOrder, v.Name)
		info.Variants[v.Name] = fieldTypes
		// Every variant also gets a synthesized constructor FuncType, per
		// spec.md §4.5, so the checker treats variant construction like any
		// other call.
		res.FuncTypes[Key{module, v.Name}] = ast.FuncType{Params: fieldTypes, Result: ast.EnumType{Module: module, Name: d.Name}}
	}
	res.EnumInfos[key] = info
}

func resolveFunc(module string, d *ast.FuncDecl, unit *loader.Unit, envs map[string]*ModuleEnv, res *Result, diags *[]diag.Diagnostic) {
	params := make([]ast.Type, 0, len(d.Params))
	for _, p := range d.Params {
		t, ok := resolveTypeExpr(p.Type, module, envs, res)
		if !ok {
			*diags = append(*diags, diag.Errorf("SIG-0012", module, unit.Modules[module].Filename,
				pos(p.Span), pos(p.Span), "could not resolve type of parameter %q in function %q", p.Name, d.Name))
			continue
		}
		params = append(params, t)
	}
	result, ok := resolveTypeExpr(d.ResultType, module, envs, res)
	if !ok {
		*diags = append(*diags, diag.Errorf("SIG-0013", module, unit.Modules[module].Filename,
			pos(d.Span), pos(d.Span), "could not resolve result type of function %q", d.Name))
		result = ast.VoidType
	}
	res.FuncTypes[Key{module, d.Name}] = ast.FuncType{Params: params, Result: result}
}

// resolveLet implements spec.md §4.5's let-resolution rule: an annotation
// is always trusted as-is; absent one, the initializer must be a
// compile-time literal form.
func resolveLet(module string, d *ast.LetDecl, unit *loader.Unit, envs map[string]*ModuleEnv, res *Result, diags *[]diag.Diagnostic) {
	key := Key{module, d.Name}
	if d.Type != nil {
		t, ok := resolveTypeExpr(d.Type, module, envs, res)
		if !ok {
			*diags = append(*diags, diag.Errorf("SIG-0014", module, unit.Modules[module].Filename,
				pos(d.Span), pos(d.Span), "could not resolve declared type of let %q", d.Name))
			return
		}
		res.LetTypes[key] = t
		return
	}
	t, ok := inferLiteralType(d.Init, module, res)
	if !ok {
		*diags = append(*diags, diag.Errorf("SIG-0030", module, unit.Modules[module].Filename,
			pos(d.Span), pos(d.Span), "top-level let %q has no type annotation and its initializer is not a compile-time literal form", d.Name))
		return
	}
	res.LetTypes[key] = t
}

func inferLiteralType(e ast.Expr, module string, res *Result) (ast.Type, bool) {
	switch v := e.(type) {
	case *ast.IntLitExpr:
		return ast.IntType, true
	case *ast.ByteLitExpr:
		return ast.ByteType, true
	case *ast.BoolLitExpr:
		return ast.BoolType, true
	case *ast.StringLitExpr:
		return ast.StringType, true
	case *ast.NewExpr:
		ft, ok := lookupConstructorResult(v.Target, module, res)
		if !ok {
			return nil, false
		}
		return ast.PointerType{Inner: ft}, true
	case *ast.CallExpr:
		callee, ok := v.Callee.(*ast.VarRefExpr)
		if !ok {
			return nil, false
		}
		key := Key{module, callee.Name}
		if ft, ok := res.FuncTypes[key]; ok {
			return ft.Result, true
		}
		return nil, false
	default:
		return nil, false
	}
}

func lookupConstructorResult(te *ast.TypeExpr, module string, res *Result) (ast.Type, bool) {
	if te.Kind != ast.TENamed {
		return nil, false
	}
	if _, ok := res.StructInfos[Key{module, te.Name}]; ok {
		return ast.StructType{Module: module, Name: te.Name}, true
	}
	return nil, false
}

// resolveAlias memoizes a single alias's resolved target, following a
// visited set so a cycle reports SIG-0020 and leaves the alias unresolved
// (it is simply absent from res.AliasTypes afterward).
func resolveAlias(key Key, unit *loader.Unit, envs map[string]*ModuleEnv, res *Result, visiting map[Key]bool, diags *[]diag.Diagnostic) (ast.Type, bool) {
	if t, ok := res.AliasTypes[key]; ok {
		return t, true
	}
	if visiting[key] {
		*diags = append(*diags, diag.Errorf("SIG-0020", key.Module, unit.Modules[key.Module].Filename,
			diag.Pos{}, diag.Pos{}, "type alias %q has a cyclic definition", key.Name))
		return nil, false
	}
	m := unit.Modules[key.Module]
	var decl *ast.AliasDecl
	for _, d := range m.Decls {
		if ad, ok := d.(*ast.AliasDecl); ok && ad.Name == key.Name {
			decl = ad
			break
		}
	}
	if decl == nil {
		return nil, false
	}
	visiting[key] = true
	defer delete(visiting, key)

	t, ok := resolveAliasAwareTypeExpr(decl.Target, key.Module, unit, envs, res, visiting, diags)
	if !ok {
		return nil, false
	}
	res.AliasTypes[key] = t
	return t, true
}

// resolveAliasAwareTypeExpr resolves a TypeExpr the same way resolveTypeExpr
// does, but is able to chase an alias target that has not been memoized yet
// (used only while resolving aliases themselves, before the first full
// resolveTypeExpr pass over struct/enum/func signatures runs).
func resolveAliasAwareTypeExpr(te *ast.TypeExpr, module string, unit *loader.Unit, envs map[string]*ModuleEnv, res *Result, visiting map[Key]bool, diags *[]diag.Diagnostic) (ast.Type, bool) {
	switch te.Kind {
	case ast.TEPointer:
		inner, ok := resolveAliasAwareTypeExpr(te.Inner, module, unit, envs, res, visiting, diags)
		if !ok {
			return nil, false
		}
		return ast.PointerType{Inner: inner}, true
	case ast.TENullable:
		inner, ok := resolveAliasAwareTypeExpr(te.Inner, module, unit, envs, res, visiting, diags)
		if !ok {
			return nil, false
		}
		return ast.NullableType{Inner: inner}, true
	case ast.TEArray:
		return nil, false
	}
	if bt, ok := builtinByName(te.Name); ok {
		return bt, true
	}
	targetModule, ok := qualifiedModule(te, module, envs)
	if !ok {
		return nil, false
	}
	env := envs[targetModule]
	sym, ok := lookupSymbol(te, module, env)
	if !ok {
		return nil, false
	}
	switch sym.Kind {
	case SymStruct:
		return ast.StructType{Module: sym.Module, Name: sym.Name}, true
	case SymEnum:
		return ast.EnumType{Module: sym.Module, Name: sym.Name}, true
	case SymAlias:
		return resolveAlias(Key{sym.Module, sym.Name}, unit, envs, res, visiting, diags)
	default:
		return nil, false
	}
}

// resolveTypeExpr resolves a parsed TypeExpr to a semantic ast.Type,
// transparently following an already-resolved alias to its target.
func resolveTypeExpr(te *ast.TypeExpr, module string, envs map[string]*ModuleEnv, res *Result) (ast.Type, bool) {
	if te == nil {
		return ast.VoidType, true
	}
	switch te.Kind {
	case ast.TEPointer:
		inner, ok := resolveTypeExpr(te.Inner, module, envs, res)
		if !ok {
			return nil, false
		}
		return ast.PointerType{Inner: inner}, true
	case ast.TENullable:
		inner, ok := resolveTypeExpr(te.Inner, module, envs, res)
		if !ok {
			return nil, false
		}
		return ast.NullableType{Inner: inner}, true
	case ast.TEArray:
		return nil, false
	}
	if bt, ok := builtinByName(te.Name); ok {
		return bt, true
	}
	targetModule, ok := qualifiedModule(te, module, envs)
	if !ok {
		return nil, false
	}
	env := envs[targetModule]
	sym, ok := lookupSymbol(te, module, env)
	if !ok {
		return nil, false
	}
	switch sym.Kind {
	case SymStruct:
		return ast.StructType{Module: sym.Module, Name: sym.Name}, true
	case SymEnum:
		return ast.EnumType{Module: sym.Module, Name: sym.Name}, true
	case SymAlias:
		t, ok := res.AliasTypes[Key{sym.Module, sym.Name}]
		return t, ok
	default:
		return nil, false
	}
}

// ResolveTypeExpr exposes resolveTypeExpr to later passes (pkg/check's
// cast/new/sizeof targets, pkg/emit's type emission) that need to resolve
// a TypeExpr found outside a declaration signature, against the same
// module environments and structural tables signature resolution built.
func ResolveTypeExpr(te *ast.TypeExpr, module string, envs map[string]*ModuleEnv, res *Result) (ast.Type, bool) {
	return resolveTypeExpr(te, module, envs, res)
}

func builtinByName(name string) (ast.Type, bool) {
	switch name {
	case "int":
		return ast.IntType, true
	case "byte":
		return ast.ByteType, true
	case "bool":
		return ast.BoolType, true
	case "string":
		return ast.StringType, true
	case "void":
		return ast.VoidType, true
	default:
		return nil, false
	}
}

// qualifiedModule returns the module a (possibly qualified) TypeExpr
// should be looked up in: the current module when unqualified, or the
// first qualifier segment when qualified (any further segments are an
// overqualification the checker reports on, per TYP-0158; the signature
// resolver itself just uses the first).
func qualifiedModule(te *ast.TypeExpr, currentModule string, envs map[string]*ModuleEnv) (string, bool) {
	if len(te.ModulePath) == 0 {
		return currentModule, true
	}
	target := te.ModulePath[0]
	if _, ok := envs[target]; !ok {
		return "", false
	}
	return target, true
}

func lookupSymbol(te *ast.TypeExpr, currentModule string, env *ModuleEnv) (*Symbol, bool) {
	if len(te.ModulePath) == 0 {
		sym, ok := env.All[te.Name]
		return sym, ok
	}
	sym, ok := env.Locals[te.Name]
	return sym, ok
}

func pos(s source.Span) diag.Pos {
	return diag.Pos{Line: s.Start.Line, Col: s.Start.Col}
}

// detectValueTypeCycles implements spec.md §4.5's Kahn-style topological
// sort over the value-field graph: an edge X -> Y exists iff X has a
// non-pointer field whose type is Y, recursing through Nullable but never
// through Pointer.
func detectValueTypeCycles(res *Result, diags *[]diag.Diagnostic) {
	edges := make(map[Key][]Key)
	indeg := make(map[Key]int)
	nodes := make([]Key, 0, len(res.StructInfos)+len(res.EnumInfos))

	addNode := func(k Key) {
		if _, ok := indeg[k]; !ok {
			indeg[k] = 0
			nodes = append(nodes, k)
		}
	}
	addEdge := func(from, to Key) {
		edges[from] = append(edges[from], to)
		indeg[to]++
	}
	valueTargets := func(t ast.Type) []Key {
		var out []Key
		var walk func(ast.Type)
		walk = func(t ast.Type) {
			switch v := t.(type) {
			case ast.StructType:
				out = append(out, Key{v.Module, v.Name})
			case ast.EnumType:
				out = append(out, Key{v.Module, v.Name})
			case ast.NullableType:
				walk(v.Inner)
			}
		}
		walk(t)
		return out
	}

	for k := range res.StructInfos {
		addNode(k)
	}
	for k := range res.EnumInfos {
		addNode(k)
	}
	for k, fields := range res.StructInfos {
		for _, f := range fields {
			for _, to := range valueTargets(f.Type) {
				addNode(to)
				addEdge(k, to)
			}
		}
	}
	for k, info := range res.EnumInfos {
		for _, fieldTypes := range info.Variants {
			for _, ft := range fieldTypes {
				for _, to := range valueTargets(ft) {
					addNode(to)
					addEdge(k, to)
				}
			}
		}
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Module != nodes[j].Module {
			return nodes[i].Module < nodes[j].Module
		}
		return nodes[i].Name < nodes[j].Name
	})

	queue := make([]Key, 0, len(nodes))
	for _, n := range nodes {
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}
	visited := 0
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		visited++
		targets := append([]Key{}, edges[n]...)
		sort.Slice(targets, func(i, j int) bool {
			if targets[i].Module != targets[j].Module {
				return targets[i].Module < targets[j].Module
			}
			return targets[i].Name < targets[j].Name
		})
		for _, to := range targets {
			indeg[to]--
			if indeg[to] == 0 {
				queue = append(queue, to)
			}
		}
	}
	if visited == len(nodes) {
		return
	}
	var remaining []string
	for _, n := range nodes {
		if indeg[n] > 0 {
			remaining = append(remaining, fmt.Sprintf("%s.%s", n.Module, n.Name))
		}
	}
	sort.Strings(remaining)
	if len(remaining) == 0 {
		return
	}
	first := nodes[0]
	for _, n := range nodes {
		if indeg[n] > 0 {
			first = n
			break
		}
	}
	*diags = append(*diags, diag.Errorf("SIG-0040", first.Module, "", diag.Pos{}, diag.Pos{},
		"value-type cycle detected among: %v", remaining))
}
