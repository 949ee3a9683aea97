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
	"fmt"
	"strings"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
)

// lookupCallSymbol resolves a call/new target name the same "locals-first,
// then unambiguous imports" way pkg/resolve's own environments do; emission
// only ever runs on a program the checker already accepted. A miss returns
// nil; no ICE or diagnostic is raised here.
func (fc *funcCtx) lookupCallSymbol(modulePath []string, name string) *resolve.Symbol {
	module := fc.module
	if len(modulePath) > 0 {
		module = modulePath[0]
	}
	env := fc.prog.envs[module]
	if env == nil {
		return nil
	}
	if len(modulePath) > 0 {
		return env.Locals[name]
	}
	return env.All[name]
}

// ownedValue renders e's value for storage into a fresh owned slot of
// static type target — a let binding, an assignment's new value, a
// struct/enum-variant field, a call argument, or a return value. Per
// spec.md §4.8: a place expression copied into a new owner is structurally
// retained; a non-place ARC expression is already fresh and is simply
// materialized into the owning temporary with no extra retain.
func (fc *funcCtx) ownedValue(e ast.Expr, target ast.Type) string {
	if _, isNull := e.(*ast.NullLitExpr); isNull {
		return fc.nullValueFor(target)
	}
	if !hasArcData(target, fc.arcSigs) {
		return fc.value(e)
	}
	if ast.IsPlaceExpr(e) {
		tmp := fc.newTemp()
		fc.buf.Line("%s %s = %s;", fc.prog.tc.cType(target), tmp, fc.value(e))
		fc.emitRetain(tmp, target)
		return tmp
	}
	tmp := fc.newTemp()
	fc.buf.Line("%s %s = %s;", fc.prog.tc.cType(target), tmp, fc.value(e))
	return tmp
}

// nullValueFor renders the `null` literal as whichever of the two Nullable
// representations target actually is.
func (fc *funcCtx) nullValueFor(target ast.Type) string {
	nt, ok := target.(ast.NullableType)
	if !ok {
		return "NULL"
	}
	if isNiche(nt.Inner) {
		return "NULL"
	}
	return fmt.Sprintf("(struct %s){ .has_value = 0 }", fc.prog.tc.wrapperFor(nt.Inner))
}

func (fc *funcCtx) callValue(v *ast.CallExpr) string {
	callee, ok := v.Callee.(*ast.VarRefExpr)
	if !ok {
		return "0"
	}
	sym := fc.lookupCallSymbol(callee.ModulePath, callee.Name)
	if sym == nil {
		return "0"
	}
	switch sym.Kind {
	case resolve.SymStruct:
		return fc.constructStruct(sym.Module, callee.Name, v.Args)
	case resolve.SymAlias:
		if st, ok := sym.ResolvedType.(ast.StructType); ok {
			return fc.constructStruct(st.Module, st.Name, v.Args)
		}
		return "0"
	case resolve.SymVariant:
		return fc.constructVariant(sym.Module, sym.EnumOf, callee.Name, v.Args)
	default: // SymFunc
		module := sym.Module
		fd, _ := sym.Decl.(*ast.FuncDecl)
		ft := fc.prog.sigs.FuncTypes[structKey(module, callee.Name)]
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			var pt ast.Type = ast.VoidType
			if i < len(ft.Params) {
				pt = ft.Params[i]
			}
			args[i] = fc.ownedValue(a, pt)
		}
		name := MangleFunc(module, callee.Name)
		if fd != nil && fd.Extern {
			name = MangleExternFunc(callee.Name)
		}
		return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
	}
}

// constructStruct builds a C compound literal for `StructName(args...)`,
// retaining any place-sourced ARC arguments via ownedValue per field.
func (fc *funcCtx) constructStruct(module, name string, args []ast.Expr) string {
	fields := fc.prog.sigs.StructInfos[structKey(module, name)]
	parts := make([]string, len(fields))
	for i, f := range fields {
		var argText string
		if i < len(args) {
			argText = fc.ownedValue(args[i], f.Type)
		} else {
			argText = fc.nullValueFor(f.Type)
		}
		parts[i] = fmt.Sprintf(".%s = %s", MangleLocal(f.Name), argText)
	}
	return fmt.Sprintf("(struct %s){ %s }", MangleType(module, name), strings.Join(parts, ", "))
}

// constructVariant builds a tagged-union compound literal for
// `Variant(args...)`.
func (fc *funcCtx) constructVariant(module, enumName, variant string, args []ast.Expr) string {
	info := fc.prog.sigs.EnumInfos[structKey(module, enumName)]
	fieldTypes := info.Variants[variant]
	parts := make([]string, len(fieldTypes))
	for i, ft := range fieldTypes {
		var argText string
		if i < len(args) {
			argText = fc.ownedValue(args[i], ft)
		} else {
			argText = fc.nullValueFor(ft)
		}
		parts[i] = fmt.Sprintf(".f%d = %s", i, argText)
	}
	tag := MangleEnumTag(module, enumName)
	return fmt.Sprintf("(struct %s){ .tag = %s_%s, .data.%s = { %s } }",
		MangleType(module, enumName), tag, variant, variant, strings.Join(parts, ", "))
}

// newValue builds `new T(args...)`: it heap-allocates via `_rt_alloc_obj`
// and initializes the pointee in place with the same field-construction
// logic constructStruct/constructVariant use for value construction.
func (fc *funcCtx) newValue(v *ast.NewExpr) string {
	sym := fc.typeNameSymbol(v.Target)
	if sym == nil {
		return "NULL"
	}
	switch sym.Kind {
	case resolve.SymStruct:
		return fc.allocAndInit(sym.Module, sym.Name, "struct "+MangleType(sym.Module, sym.Name), fc.constructStruct(sym.Module, sym.Name, v.Args))
	case resolve.SymVariant:
		return fc.allocAndInit(sym.Module, sym.EnumOf, "struct "+MangleType(sym.Module, sym.EnumOf), fc.constructVariant(sym.Module, sym.EnumOf, sym.Name, v.Args))
	default: // bare scalar/alias target, e.g. `new int(5)`
		target := fc.resolveType(v.Target)
		cType := fc.prog.tc.cType(target)
		var init string
		if len(v.Args) == 1 {
			init = fc.ownedValue(v.Args[0], target)
		} else {
			init = "0"
		}
		tmp := fc.newTemp()
		fc.buf.Line("%s *%s = (%s*)_rt_alloc_obj(sizeof(%s));", cType, tmp, cType, cType)
		fc.buf.Line("*%s = %s;", tmp, init)
		return tmp
	}
}

func (fc *funcCtx) allocAndInit(module, name, cType, initText string) string {
	tmp := fc.newTemp()
	fc.buf.Line("%s *%s = (%s*)_rt_alloc_obj(sizeof(%s));", cType, tmp, cType, cType)
	fc.buf.Line("*%s = %s;", tmp, initText)
	return tmp
}

// typeNameSymbol resolves a `new`/sizeof target's leading name to its
// declaring symbol (struct, enum, or enum-variant), the way pkg/check's
// own lookupTypeNameSymbol does for the same syntactic position.
func (fc *funcCtx) typeNameSymbol(te *ast.TypeExpr) *resolve.Symbol {
	if te.Kind != ast.TENamed {
		return nil
	}
	module := fc.module
	if len(te.ModulePath) > 0 {
		module = te.ModulePath[0]
	}
	env := fc.prog.envs[module]
	if env == nil {
		return nil
	}
	if len(te.ModulePath) > 0 {
		return env.Locals[te.Name]
	}
	return env.All[te.Name]
}
