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
	"github.com/sirupsen/logrus"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/check"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/diag"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/loader"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
)

// Options controls optional emitter behavior.
type Options struct {
	// LineDirectives, when true, is a placeholder flag for spec.md's
	// "#line N \"file\"" preservation; concrete line emission is left to a
	// follow-up since spec.md marks it as enhancing debugger/backtrace
	// output rather than gating correctness (see DESIGN.md).
	LineDirectives bool
}

// Emit runs the full back end over a type-checked compilation unit and
// returns the generated C99 source text. An *diag.ICE is returned only for
// an internal invariant violation (spec.md §7.2); by construction this
// should never happen for a unit the checker already accepted.
func Emit(unit *loader.Unit, envs map[string]*resolve.ModuleEnv, sigs *resolve.Result, chk *check.Result, entryModule string, opts Options) (string, *diag.ICE) {
	prog := &progCtx{sigs: sigs, envs: envs, chk: chk, tc: newTypeCtx(), arc: sigsAdapter{sigs: sigs}}
	prescan(prog)

	order, ice := typeDeclOrder(sigs)
	if ice != nil {
		return "", ice
	}

	out := &Buffer{}
	out.Line("/* Generated by the l0 compiler. Do not edit. */")
	out.Line("#include \"l0_runtime.h\"")
	out.Raw("\n")

	for _, w := range prog.tc.builtinWrappers {
		prog.tc.emitWrapper(out, w)
	}

	for _, ot := range order {
		switch ot.Kind {
		case kindStruct:
			emitStructDecl(out, prog.tc, ot.Key, sigs.StructInfos[ot.Key])
		case kindEnum:
			emitEnumDecl(out, prog.tc, ot.Key, sigs.EnumInfos[ot.Key])
		}
	}

	for _, w := range prog.tc.userWrappers {
		prog.tc.emitWrapper(out, w)
	}

	funcs := collectFuncs(unit, sigs)
	for _, fr := range funcs {
		if fr.decl.Extern {
			emitExternPrototype(out, prog.tc, fr.module, fr.decl, fr.ft)
		} else {
			emitFuncPrototype(out, prog.tc, fr.module, fr.decl, fr.ft)
		}
	}
	out.Raw("\n")

	for _, fr := range funcs {
		if fr.decl.Extern {
			continue
		}
		emitFuncDef(out, prog, fr.module, fr.decl, fr.ft)
		logrus.WithFields(logrus.Fields{"pass": "emit", "module": fr.module, "func": fr.decl.Name}).Debug("emit: function done")
	}

	if fd, ft, ok := entryMainFunc(envs, sigs, entryModule); ok {
		_ = fd
		emitMainEntrypoint(out, entryModule, ft)
	}

	return out.String(), nil
}

type funcRef struct {
	module string
	decl   *ast.FuncDecl
	ft     ast.FuncType
}

// collectFuncs walks the unit in load order, so prototype/definition order
// is deterministic across runs.
func collectFuncs(unit *loader.Unit, sigs *resolve.Result) []funcRef {
	var out []funcRef
	for _, name := range unit.Order {
		m := unit.Modules[name]
		for _, d := range m.Decls {
			if fd, ok := d.(*ast.FuncDecl); ok {
				ft := sigs.FuncTypes[resolve.Key{Module: name, Name: fd.Name}]
				out = append(out, funcRef{module: name, decl: fd, ft: ft})
			}
		}
	}
	return out
}

// prescan registers every Nullable(T) wrapper the program could possibly
// need before any section is written, since spec.md's two-pass wrapper
// scheme requires the full program-wide set to be known up front: once
// section emission starts, a type discovered only later (e.g. inside a
// function body) would have no earlier place left to define its wrapper.
func prescan(prog *progCtx) {
	for _, fields := range prog.sigs.StructInfos {
		for _, f := range fields {
			prog.tc.cType(f.Type)
		}
	}
	for _, info := range prog.sigs.EnumInfos {
		for _, fieldTypes := range info.Variants {
			for _, ft := range fieldTypes {
				prog.tc.cType(ft)
			}
		}
	}
	for _, ft := range prog.sigs.FuncTypes {
		for _, p := range ft.Params {
			prog.tc.cType(p)
		}
		prog.tc.cType(ft.Result)
	}
	for _, t := range prog.sigs.LetTypes {
		prog.tc.cType(t)
	}
	for _, t := range prog.chk.ExprTypes {
		prog.tc.cType(t)
	}
	for _, t := range prog.chk.IntrinsicTargets {
		prog.tc.cType(t)
	}
}
