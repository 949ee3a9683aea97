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

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
)

// emitBlock opens a fresh (non-loop) scope, emits every statement, and
// runs fall-through cleanup for anything this block owns.
func (fc *funcCtx) emitBlock(b *ast.Block) {
	fc.pushScope(false)
	for _, st := range b.Stmts {
		fc.emitStmt(st)
	}
	fc.releaseScope(fc.current(), nil)
	fc.popScope()
}

// emitStmt dispatches over every concrete ast.Stmt form.
func (fc *funcCtx) emitStmt(st ast.Stmt) {
	switch v := st.(type) {
	case *ast.Block:
		fc.emitBlock(v)
	case *ast.LetStmt:
		fc.emitLet(v)
	case *ast.AssignStmt:
		fc.emitAssign(v)
	case *ast.ExprStmt:
		fc.emitExprStmt(v)
	case *ast.IfStmt:
		fc.emitIf(v)
	case *ast.WhileStmt:
		fc.emitWhile(v)
	case *ast.ForStmt:
		fc.emitFor(v)
	case *ast.ReturnStmt:
		fc.emitReturn(v)
	case *ast.MatchStmt:
		fc.emitMatch(v)
	case *ast.CaseStmt:
		fc.emitCase(v)
	case *ast.WithStmt:
		fc.emitWith(v)
	case *ast.DropStmt:
		fc.emitDrop(v)
	case *ast.BreakStmt:
		fc.unwindTo(fc.innermostLoopIndex(), nil)
		fc.buf.Line("break;")
	case *ast.ContinueStmt:
		fc.unwindTo(fc.innermostLoopIndex(), nil)
		fc.buf.Line("continue;")
	}
}

func (fc *funcCtx) letType(v *ast.LetStmt) ast.Type {
	if v.Type != nil {
		return fc.resolveType(v.Type)
	}
	return fc.exprType(v.Init)
}

func (fc *funcCtx) emitLet(v *ast.LetStmt) {
	t := fc.letType(v)
	cName := MangleLocal(v.Name)
	init := fc.ownedValue(v.Init, t)
	fc.buf.Line("%s %s = %s;", fc.prog.tc.cType(t), cName, init)
	fc.declareLocal(cName, t)
}

// emitAssign implements spec.md §4.8's reassignment sequence: release the
// old value, store, then retain the new value when it is place-sourced.
// Complex lvalues with side-effecting sub-expressions are not hoisted into
// a temporary (documented simplification, see DESIGN.md).
func (fc *funcCtx) emitAssign(v *ast.AssignStmt) {
	targetType := fc.exprType(v.Target)
	targetText := fc.value(v.Target)
	if !hasArcData(targetType, fc.arcSigs) {
		fc.buf.Line("%s = %s;", targetText, fc.value(v.Value))
		return
	}
	if _, isNull := v.Value.(*ast.NullLitExpr); isNull {
		fc.emitRelease(targetText, targetType)
		fc.buf.Line("%s = %s;", targetText, fc.nullValueFor(targetType))
		return
	}
	newVal := fc.value(v.Value)
	fc.emitRelease(targetText, targetType)
	fc.buf.Line("%s = %s;", targetText, newVal)
	if ast.IsPlaceExpr(v.Value) {
		fc.emitRetain(targetText, targetType)
	}
}

// emitExprStmt evaluates an expression for effect; a discarded ARC-bearing
// result is still materialized and immediately released (spec.md: "the
// owning scope's ... discarded result").
func (fc *funcCtx) emitExprStmt(v *ast.ExprStmt) {
	t := fc.exprType(v.Expr)
	if hasArcData(t, fc.arcSigs) {
		tmp := fc.newTemp()
		fc.buf.Line("%s %s = %s;", fc.prog.tc.cType(t), tmp, fc.value(v.Expr))
		fc.emitRelease(tmp, t)
		return
	}
	fc.buf.Line("%s;", fc.value(v.Expr))
}

func (fc *funcCtx) emitIf(v *ast.IfStmt) {
	fc.buf.Line("if (%s) {", fc.value(v.Cond))
	fc.buf.Indent()
	fc.emitBlock(v.Then)
	fc.buf.Dedent()
	if v.Else == nil {
		fc.buf.Line("}")
		return
	}
	fc.buf.Line("} else {")
	fc.buf.Indent()
	fc.emitStmt(v.Else)
	fc.buf.Dedent()
	fc.buf.Line("}")
}

func (fc *funcCtx) emitWhile(v *ast.WhileStmt) {
	fc.buf.Line("while (%s) {", fc.value(v.Cond))
	fc.buf.Indent()
	fc.pushScope(true)
	for _, st := range v.Body.Stmts {
		fc.emitStmt(st)
	}
	fc.releaseScope(fc.current(), nil)
	fc.popScope()
	fc.buf.Dedent()
	fc.buf.Line("}")
}

func (fc *funcCtx) emitFor(v *ast.ForStmt) {
	fc.pushScope(false) // outer scope for the init clause's local, per scope.go
	if v.Init != nil {
		fc.emitStmt(v.Init)
	}
	cond := "1"
	if v.Cond != nil {
		cond = fc.value(v.Cond)
	}
	fc.buf.Line("while (%s) {", cond)
	fc.buf.Indent()
	fc.pushScope(true)
	for _, st := range v.Body.Stmts {
		fc.emitStmt(st)
	}
	fc.releaseScope(fc.current(), nil)
	fc.popScope()
	if v.Update != nil {
		fc.emitStmt(v.Update)
	}
	fc.buf.Dedent()
	fc.buf.Line("}")
	fc.releaseScope(fc.current(), nil)
	fc.popScope()
}

// emitReturn implements spec.md §4.8's return-unwind rule: the returned
// value is evaluated first (a direct local-variable return moves
// ownership out and is excluded from that scope's cleanup; anything else
// goes through ownedValue's normal retain-or-materialize path), then every
// enclosing scope up to the function root runs its cleanup.
func (fc *funcCtx) emitReturn(v *ast.ReturnStmt) {
	if v.Value == nil {
		fc.unwindTo(0, nil)
		fc.buf.Line("return;")
		return
	}
	var valText string
	except := map[string]bool{}
	if ref, ok := v.Value.(*ast.VarRefExpr); ok && len(ref.ModulePath) == 0 {
		if _, isLocal := fc.varTypeLookup(ref.Name); isLocal {
			cName := MangleLocal(ref.Name)
			valText = cName
			except[cName] = true
		}
	}
	if valText == "" {
		valText = fc.ownedValue(v.Value, fc.retType)
	}
	fc.unwindTo(0, except)
	fc.buf.Line("return %s;", valText)
}

// emitEarlyNullReturn implements the `?` operator's early-exit, identical
// to a `return null;` against the enclosing function's (Nullable) result
// type.
func (fc *funcCtx) emitEarlyNullReturn() {
	fc.unwindTo(0, nil)
	fc.buf.Line("return %s;", fc.nullValueFor(fc.retType))
}

// emitMatch lowers an enum match into a C switch on the tag field, binding
// each arm's positional pattern variables from the active variant's data
// union.
func (fc *funcCtx) emitMatch(v *ast.MatchStmt) {
	scrutType := fc.exprType(v.Scrutinee)
	et, _ := scrutType.(ast.EnumType)
	info := fc.prog.sigs.EnumInfos[structKey(et.Module, et.Name)]
	scrutText := fc.value(v.Scrutinee)
	tmp := fc.newTemp()
	fc.buf.Line("%s %s = %s;", fc.prog.tc.cType(scrutType), tmp, scrutText)
	fc.buf.Line("switch (%s.tag) {", tmp)
	fc.buf.Indent()
	tag := MangleEnumTag(et.Module, et.Name)
	var wildcard *ast.MatchArm
	for i := range v.Arms {
		arm := &v.Arms[i]
		if arm.Wildcard {
			wildcard = arm
			continue
		}
		fieldTypes := info.Variants[arm.Variant]
		fc.buf.Line("case %s_%s: {", tag, arm.Variant)
		fc.buf.Indent()
		fc.pushScope(false)
		for i, bindName := range arm.Bindings {
			if i >= len(fieldTypes) {
				break
			}
			ft := fieldTypes[i]
			place := fmt.Sprintf("%s.data.%s.f%d", tmp, arm.Variant, i)
			fc.bindFromPlace(MangleLocal(bindName), place, ft)
		}
		for _, s := range arm.Body.Stmts {
			fc.emitStmt(s)
		}
		fc.releaseScope(fc.current(), nil)
		fc.popScope()
		fc.buf.Line("break;")
		fc.buf.Dedent()
		fc.buf.Line("}")
	}
	fc.buf.Line("default:")
	fc.buf.Indent()
	if wildcard != nil {
		fc.pushScope(false)
		for _, s := range wildcard.Body.Stmts {
			fc.emitStmt(s)
		}
		fc.releaseScope(fc.current(), nil)
		fc.popScope()
	}
	fc.buf.Line("break;")
	fc.buf.Dedent()
	fc.buf.Dedent()
	fc.buf.Line("}")
}

// bindFromPlace declares a new local copying a value read out of an
// existing place (a match arm's pattern variable, a struct/enum field
// projection), retaining it when ARC-relevant exactly as a let-copy would.
func (fc *funcCtx) bindFromPlace(cName, placeText string, t ast.Type) {
	fc.buf.Line("%s %s = %s;", fc.prog.tc.cType(t), cName, placeText)
	if hasArcData(t, fc.arcSigs) {
		fc.emitRetain(cName, t)
	}
	fc.declareLocal(cName, t)
}

// literalCText renders a case-arm literal's C value text, used as the
// right-hand side of the arm's comparison in emitCase's if/else-if chain
// (for every scalar kind and for string alike; no switch label is emitted).
func (fc *funcCtx) literalCText(e ast.Expr) string {
	return fc.value(e)
}

// emitCase lowers a scalar/string `case` dispatch into an if/else-if
// chain (uniform across scalar kinds and string, since string equality
// needs a runtime call rather than a switch label).
func (fc *funcCtx) emitCase(v *ast.CaseStmt) {
	scrutType := fc.exprType(v.Scrutinee)
	bt, isBuiltin := scrutType.(ast.BuiltinType)
	isString := isBuiltin && bt.Kind == ast.StringK
	tmp := fc.newTemp()
	fc.buf.Line("%s %s = %s;", fc.prog.tc.cType(scrutType), tmp, fc.value(v.Scrutinee))
	first := true
	for i := range v.Arms {
		arm := &v.Arms[i]
		if arm.IsElse {
			fc.buf.Line("} else {")
			fc.buf.Indent()
			fc.emitBlock(arm.Body)
			fc.buf.Dedent()
			continue
		}
		var cond string
		if isString {
			cond = fmt.Sprintf("rt_string_equals(%s, %s)", tmp, fc.literalCText(arm.Literal))
		} else {
			cond = fmt.Sprintf("(%s) == (%s)", tmp, fc.literalCText(arm.Literal))
		}
		if first {
			fc.buf.Line("if (%s) {", cond)
			first = false
		} else {
			fc.buf.Line("} else if (%s) {", cond)
		}
		fc.buf.Indent()
		fc.emitBlock(arm.Body)
		fc.buf.Dedent()
	}
	fc.buf.Line("}")
}

// emitWith lowers `with (items) { body } [cleanup {...}]`: items are
// declared in order; an item's inline Cleanup is registered so it reruns
// (LIFO, i.e. innermost-declared-first since unwindTo walks owned/cleanup
// entries back to front) at the with-scope's normal exit and at every
// unwind point reached from inside the with-scope. The explicit block-cleanup form runs against the *outer*
// scope, mirroring pkg/resolve/scope.go's own with-statement scope split.
func (fc *funcCtx) emitWith(v *ast.WithStmt) {
	fc.pushScope(false)
	for i := range v.Items {
		item := &v.Items[i]
		t := ast.VoidType
		if item.Type != nil {
			t = fc.resolveType(item.Type)
		} else {
			t = fc.exprType(item.Init)
		}
		cName := MangleLocal(item.Name)
		init := fc.ownedValue(item.Init, t)
		fc.buf.Line("%s %s = %s;", fc.prog.tc.cType(t), cName, init)
		fc.declareLocal(cName, t)
		if item.Cleanup != nil {
			cleanupStmt := item.Cleanup
			s := fc.current()
			s.withCleanup = append(s.withCleanup, func() { fc.emitStmt(cleanupStmt) })
		}
	}
	for _, st := range v.Body.Stmts {
		fc.emitStmt(st)
	}
	fc.unwindTo(len(fc.scopes)-1, nil)
	fc.popScope()
	if v.Cleanup != nil {
		fc.emitBlock(v.Cleanup)
	}
}

// emitDrop releases an owned pointer's pointee (when its type carries ARC
// data) and then frees the heap block via `_rt_drop`.
func (fc *funcCtx) emitDrop(v *ast.DropStmt) {
	t, _ := fc.varTypeLookup(v.Name)
	cName := MangleLocal(v.Name)
	var pointee ast.Type
	nullableNiche := false
	switch pt := t.(type) {
	case ast.PointerType:
		pointee = pt.Inner
	case ast.NullableType:
		if inner, ok := pt.Inner.(ast.PointerType); ok {
			pointee = inner.Inner
			nullableNiche = true
		}
	}
	body := func() {
		if pointee != nil && hasArcData(pointee, fc.arcSigs) {
			fc.walkArc("(*"+cName+")", pointee, false)
		}
		fc.buf.Line("_rt_drop(%s);", cName)
	}
	if nullableNiche {
		fc.buf.Line("if (%s != NULL) {", cName)
		fc.buf.Indent()
		body()
		fc.buf.Dedent()
		fc.buf.Line("}")
		return
	}
	body()
}
