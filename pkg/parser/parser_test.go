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
package parser

import (
	"testing"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/lex"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/source"
)

// parseModuleOnly lexes and parses text, returning the diagnostic codes
// from both stages (lexer errors first, in order, then parser errors).
func parseModuleOnly(t *testing.T, text string) (*ast.Module, []string) {
	t.Helper()
	toks, lexDiags := lex.Lex(source.NewFile("t.l0", text), "t")
	m, parseDiags := Parse(toks, "t", "t.l0")
	var codes []string
	for _, d := range lexDiags {
		codes = append(codes, d.Code)
	}
	for _, d := range parseDiags {
		codes = append(codes, d.Code)
	}
	return m, codes
}

func TestParseModuleAndImports(t *testing.T) {
	m, diags := parseModuleOnly(t, "module app; import util; func main() -> int { return 0; }")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if m.Name != "app" {
		t.Fatalf("got module name %q", m.Name)
	}
	if len(m.Imports) != 1 || m.Imports[0] != "util" {
		t.Fatalf("got imports %v", m.Imports)
	}
	if len(m.Decls) != 1 {
		t.Fatalf("got %d decls, want 1", len(m.Decls))
	}
	fd, ok := m.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("decl 0 is %T, want *ast.FuncDecl", m.Decls[0])
	}
	if fd.Name != "main" || fd.ResultType.Name != "int" {
		t.Fatalf("got func %+v", fd)
	}
}

func TestParseStructDecl(t *testing.T) {
	m, diags := parseModuleOnly(t, "module app; struct Point { x: int; y: int; }")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	sd, ok := m.Decls[0].(*ast.StructDecl)
	if !ok {
		t.Fatalf("decl 0 is %T, want *ast.StructDecl", m.Decls[0])
	}
	if len(sd.Fields) != 2 || sd.Fields[0].Name != "x" || sd.Fields[1].Name != "y" {
		t.Fatalf("got fields %+v", sd.Fields)
	}
}

func TestParseEmptyStructRejected(t *testing.T) {
	_, diags := parseModuleOnly(t, "module app; struct Empty { }")
	if len(diags) != 1 || diags[0] != "PAR-0034" {
		t.Fatalf("expected PAR-0034, got %v", diags)
	}
}

func TestParseEnumDecl(t *testing.T) {
	m, diags := parseModuleOnly(t, "module app; enum Shape { Circle(int); Square(int, int); }")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	ed, ok := m.Decls[0].(*ast.EnumDecl)
	if !ok {
		t.Fatalf("decl 0 is %T, want *ast.EnumDecl", m.Decls[0])
	}
	if len(ed.Variants) != 2 || len(ed.Variants[1].Fields) != 2 {
		t.Fatalf("got variants %+v", ed.Variants)
	}
}

func TestParseEmptyEnumRejected(t *testing.T) {
	_, diags := parseModuleOnly(t, "module app; enum Empty { }")
	if len(diags) != 1 || diags[0] != "PAR-0045" {
		t.Fatalf("expected PAR-0045, got %v", diags)
	}
}

func TestParseReservedArraySyntaxRejected(t *testing.T) {
	_, diags := parseModuleOnly(t, "module app; func f(x: int[]) -> void { }")
	found := false
	for _, c := range diags {
		if c == "PAR-9401" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected PAR-9401 among %v", diags)
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	m, diags := parseModuleOnly(t, "module app; func f() -> int { return 1 + 2 * 3; }")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	fd := m.Decls[0].(*ast.FuncDecl)
	ret := fd.Body.Stmts[0].(*ast.ReturnStmt)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.BAdd {
		t.Fatalf("expected top-level '+', got %+v", ret.Value)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.BMul {
		t.Fatalf("expected right operand to be '*', got %+v", bin.Right)
	}
}

func TestParseCastAndTryAndNew(t *testing.T) {
	m, diags := parseModuleOnly(t, `module app;
func f(p: Point*?) -> int? {
	let b = 1 as byte;
	let q = new Point(1, 2);
	return p?.x;
}`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	fd := m.Decls[0].(*ast.FuncDecl)
	letB := fd.Body.Stmts[0].(*ast.LetStmt)
	if _, ok := letB.Init.(*ast.CastExpr); !ok {
		t.Fatalf("expected CastExpr, got %T", letB.Init)
	}
	letQ := fd.Body.Stmts[1].(*ast.LetStmt)
	if _, ok := letQ.Init.(*ast.NewExpr); !ok {
		t.Fatalf("expected NewExpr, got %T", letQ.Init)
	}
	ret := fd.Body.Stmts[2].(*ast.ReturnStmt)
	fld, ok := ret.Value.(*ast.FieldExpr)
	if !ok {
		t.Fatalf("expected FieldExpr, got %T", ret.Value)
	}
	if _, ok := fld.Base.(*ast.TryExpr); !ok {
		t.Fatalf("expected try applied before field access, got %T", fld.Base)
	}
}

func TestParseMatchStmt(t *testing.T) {
	m, diags := parseModuleOnly(t, `module app;
func f(s: Shape) -> int {
	match (s) {
		Circle(r) => { return r; }
		else => { return 0; }
	}
}`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	fd := m.Decls[0].(*ast.FuncDecl)
	ms, ok := fd.Body.Stmts[0].(*ast.MatchStmt)
	if !ok {
		t.Fatalf("expected MatchStmt, got %T", fd.Body.Stmts[0])
	}
	if len(ms.Arms) != 2 || ms.Arms[0].Variant != "Circle" || !ms.Arms[1].Wildcard {
		t.Fatalf("got arms %+v", ms.Arms)
	}
}

func TestParseMatchRequiresArm(t *testing.T) {
	_, diags := parseModuleOnly(t, `module app;
func f(s: Shape) -> int {
	match (s) { }
}`)
	found := false
	for _, c := range diags {
		if c == "PAR-0189" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected PAR-0189, got %v", diags)
	}
}

func TestParseCaseStmt(t *testing.T) {
	m, diags := parseModuleOnly(t, `module app;
func f(x: int) -> int {
	case (x) {
		1 => { return 10; }
		else => { return 0; }
	}
}`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	fd := m.Decls[0].(*ast.FuncDecl)
	cs, ok := fd.Body.Stmts[0].(*ast.CaseStmt)
	if !ok {
		t.Fatalf("expected CaseStmt, got %T", fd.Body.Stmts[0])
	}
	if len(cs.Arms) != 2 || cs.Arms[1].IsElse != true {
		t.Fatalf("got arms %+v", cs.Arms)
	}
}

func TestParseWithStmt(t *testing.T) {
	m, diags := parseModuleOnly(t, `module app;
func f() -> void {
	with (h = new Point(1, 2)) {
		drop h;
	} cleanup {
	}
}`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	fd := m.Decls[0].(*ast.FuncDecl)
	ws, ok := fd.Body.Stmts[0].(*ast.WithStmt)
	if !ok {
		t.Fatalf("expected WithStmt, got %T", fd.Body.Stmts[0])
	}
	if len(ws.Items) != 1 || ws.Items[0].Name != "h" {
		t.Fatalf("got items %+v", ws.Items)
	}
	if ws.Cleanup == nil {
		t.Fatalf("expected explicit cleanup block")
	}
	if _, ok := ws.Body.Stmts[0].(*ast.DropStmt); !ok {
		t.Fatalf("expected DropStmt inside body, got %T", ws.Body.Stmts[0])
	}
}

func TestParseLoopsAndControlFlow(t *testing.T) {
	m, diags := parseModuleOnly(t, `module app;
func f() -> void {
	let i = 0;
	while (i < 10) {
		if (i == 5) {
			break;
		} else {
			continue;
		}
	}
	for (let j = 0; j < 10; j = j + 1) {
	}
}`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	fd := m.Decls[0].(*ast.FuncDecl)
	if _, ok := fd.Body.Stmts[1].(*ast.WhileStmt); !ok {
		t.Fatalf("expected WhileStmt, got %T", fd.Body.Stmts[1])
	}
	if _, ok := fd.Body.Stmts[2].(*ast.ForStmt); !ok {
		t.Fatalf("expected ForStmt, got %T", fd.Body.Stmts[2])
	}
}

func TestParseSizeofIntrinsic(t *testing.T) {
	m, diags := parseModuleOnly(t, `module app;
func f(x: int) -> int {
	return sizeof(int) + sizeof(x);
}`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	fd := m.Decls[0].(*ast.FuncDecl)
	ret := fd.Body.Stmts[0].(*ast.ReturnStmt)
	bin := ret.Value.(*ast.BinaryExpr)
	left := bin.Left.(*ast.IntrinsicExpr)
	if _, ok := left.Arg.(*ast.TypeExprArg); !ok {
		t.Fatalf("expected sizeof(int) to carry a TypeExprArg, got %T", left.Arg)
	}
	right := bin.Right.(*ast.IntrinsicExpr)
	if _, ok := right.Arg.(*ast.VarRefExpr); !ok {
		t.Fatalf("expected sizeof(x) to carry a VarRefExpr, got %T", right.Arg)
	}
}
