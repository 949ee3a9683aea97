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

// Package check implements spec.md §4.7: the per-function expression and
// statement type checker. It runs after pkg/resolve has produced name
// environments and structural signatures, and is the last analysis pass
// before pkg/emit. Each function is checked independently, in the style
// of the teacher's own typeChecker (pkg/corset/compiler/typing.go): one
// recursive-descent pass threading an "expected type" downward and a
// resolved type back up, accumulating diagnostics rather than aborting on
// the first one.
package check

import (
	"github.com/sirupsen/logrus"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/diag"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/loader"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/source"
)

func pos(s source.Span) diag.Pos {
	return diag.Pos{Line: s.Start.Line, Col: s.Start.Col}
}

// Result holds the per-expression facts the checker produces: the
// resolved type of every expression node, and the resolved type argument
// of every sizeof/ord intrinsic call (spec.md §4.7's `intrinsic_targets`).
type Result struct {
	ExprTypes        map[ast.ExprID]ast.Type
	IntrinsicTargets map[ast.ExprID]ast.Type
}

func newResult() *Result {
	return &Result{
		ExprTypes:        make(map[ast.ExprID]ast.Type),
		IntrinsicTargets: make(map[ast.ExprID]ast.Type),
	}
}

// CheckUnit type-checks every non-extern function across every module in
// unit, in unit.Order.
func CheckUnit(unit *loader.Unit, envs map[string]*resolve.ModuleEnv, sigs *resolve.Result) (*Result, []diag.Diagnostic) {
	res := newResult()
	var diags []diag.Diagnostic

	for _, name := range unit.Order {
		m := unit.Modules[name]
		for _, d := range m.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok || fd.Extern {
				continue
			}
			c := &checker{
				module: name, filename: m.Filename,
				envs: envs, sigs: sigs, res: res,
			}
			c.checkFunc(fd)
			diags = append(diags, c.diags...)
		}
		logrus.WithFields(logrus.Fields{"pass": "check", "module": name}).Debug("check: module done")
	}
	return res, diags
}

// checker holds the state of one function's type-check: its expected
// return type, loop nesting depth, and the running diagnostic buffer.
// A fresh checker is built per function (spec.md §4.7: "runs per
// function").
type checker struct {
	module     string
	filename   string
	envs       map[string]*resolve.ModuleEnv
	sigs       *resolve.Result
	res        *Result
	diags      []diag.Diagnostic
	returnType ast.Type
	loopDepth  int
}

func (c *checker) errorf(code string, sp source.Span, format string, args ...any) {
	c.diags = append(c.diags, diag.Errorf(code, c.module, c.filename, pos(sp), pos(sp), format, args...))
}

func (c *checker) warnf(code string, sp source.Span, format string, args ...any) {
	c.diags = append(c.diags, diag.Warningf(code, c.module, c.filename, pos(sp), pos(sp), format, args...))
}

func (c *checker) checkFunc(d *ast.FuncDecl) {
	sig := c.sigs.FuncTypes[resolve.Key{Module: c.module, Name: d.Name}]
	c.returnType = sig.Result
	if c.returnType == nil {
		c.returnType = ast.VoidType
	}

	env := newLocalEnv(nil)
	for i, p := range d.Params {
		if i < len(sig.Params) {
			env.declare(p.Name, sig.Params[i])
		}
	}
	returned := c.checkBlock(d.Body, env)
	if !returned && !ast.TypeEquals(c.returnType, ast.VoidType) {
		c.errorf("TYP-0010", d.Span, "function %q does not guarantee a return on every path", d.Name)
	}
}

// checkBlock checks each statement of b in sequence, returning whether
// every path through b is guaranteed to return. Statements located after
// a guaranteed-return point are dead and skipped (no further diagnostics
// are generated for them at this layer beyond the TYP-0031 notice).
func (c *checker) checkBlock(b *ast.Block, parent *localEnv) bool {
	env := newLocalEnv(parent)
	returned := false
	for _, st := range b.Stmts {
		if returned {
			c.warnf("TYP-0031", st.StmtSpan(), "unreachable statement")
			break
		}
		returned = c.checkStmt(st, env)
	}
	return returned
}
