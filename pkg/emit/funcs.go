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
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
)

// emitExternPrototype writes a C prototype for an extern function, under
// its bare source name (spec.md: "emitted with their bare source-language
// name (ABI boundary)").
func emitExternPrototype(out *Buffer, tc *typeCtx, module string, d *ast.FuncDecl, ft ast.FuncType) {
	paramNames := make([]string, len(d.Params))
	for i, p := range d.Params {
		paramNames[i] = p.Name
	}
	ret, params := funcReturnAndParams(tc, ft, paramNames)
	out.Line("extern %s %s(%s);", ret, MangleExternFunc(d.Name), params)
	out.Raw("\n")
}

// emitFuncPrototype writes a regular (non-extern) function's forward
// declaration, so call sites anywhere in module order can reference it.
func emitFuncPrototype(out *Buffer, tc *typeCtx, module string, d *ast.FuncDecl, ft ast.FuncType) {
	paramNames := make([]string, len(d.Params))
	for i, p := range d.Params {
		paramNames[i] = p.Name
	}
	ret, params := funcReturnAndParams(tc, ft, paramNames)
	out.Line("static %s %s(%s);", ret, MangleFunc(module, d.Name), params)
}

// emitFuncDef writes a regular function's full definition.
func emitFuncDef(out *Buffer, prog *progCtx, module string, d *ast.FuncDecl, ft ast.FuncType) {
	paramNames := make([]string, len(d.Params))
	for i, p := range d.Params {
		paramNames[i] = p.Name
	}
	ret, params := funcReturnAndParams(prog.tc, ft, paramNames)
	out.Line("static %s %s(%s) {", ret, MangleFunc(module, d.Name), params)
	out.Indent()

	fc := newFuncCtx(prog, module, ft.Result)
	fc.buf = out
	fc.pushScope(false)
	for i, p := range d.Params {
		fc.current().declared[MangleLocal(p.Name)] = ft.Params[i]
		// Parameters are treated as owned from entry (a deliberate
		// simplification of spec.md's borrowed/promoted-on-reassignment
		// model, recorded in DESIGN.md): a parameter that is never
		// reassigned is released once at scope exit, which is correct;
		// the "borrowed until first store" refinement is not implemented.
		if hasArcData(ft.Params[i], fc.arcSigs) {
			fc.current().owned = append(fc.current().owned, ownedVar{cName: MangleLocal(p.Name), typ: ft.Params[i]})
		}
	}
	for _, st := range d.Body.Stmts {
		fc.emitStmt(st)
	}
	if isVoidResult(ft.Result) {
		fc.releaseScope(fc.current(), nil)
	}
	// A non-void function is only reachable here if every path already
	// returned (pkg/check's TYP-0010 rejected the program otherwise), so
	// its root scope's cleanup was already run by the return statement(s).
	fc.popScope()
	out.Dedent()
	out.Line("}")
	out.Raw("\n")
}

func isVoidResult(t ast.Type) bool {
	bt, ok := t.(ast.BuiltinType)
	return ok && bt.Kind == ast.Void
}

// emitMainEntrypoint appends the C `main`, per spec.md §4.8: call
// `_rt_init_args`, invoke the mangled entry-module `main`, and convert its
// result to a process exit code.
func emitMainEntrypoint(out *Buffer, entryModule string, ft ast.FuncType) {
	out.Line("int main(int argc, char **argv) {")
	out.Indent()
	out.Line("_rt_init_args(argc, argv);")
	mangled := MangleFunc(entryModule, "main")
	if bt, ok := ft.Result.(ast.BuiltinType); ok {
		switch bt.Kind {
		case ast.Void:
			out.Line("%s();", mangled)
			out.Line("return 0;")
		case ast.Bool:
			out.Line("return %s() ? 0 : 1;", mangled)
		default: // int
			out.Line("return (int)%s();", mangled)
		}
	} else {
		out.Line("return (int)%s();", mangled)
	}
	out.Dedent()
	out.Line("}")
}

// entryMainFunc looks the entry module's `main` function up, if any.
func entryMainFunc(envs map[string]*resolve.ModuleEnv, sigs *resolve.Result, entryModule string) (*ast.FuncDecl, ast.FuncType, bool) {
	env := envs[entryModule]
	if env == nil {
		return nil, ast.FuncType{}, false
	}
	sym, ok := env.Locals["main"]
	if !ok || sym.Kind != resolve.SymFunc {
		return nil, ast.FuncType{}, false
	}
	fd := sym.Decl.(*ast.FuncDecl)
	if fd.Extern {
		return nil, ast.FuncType{}, false
	}
	return fd, sigs.FuncTypes[resolve.Key{Module: entryModule, Name: "main"}], true
}
