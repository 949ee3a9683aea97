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
package check

import (
	"strconv"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
)

// checkStmt type-checks st and reports whether every path through it is
// guaranteed to return (spec.md §4.7's `return_path`).
func (c *checker) checkStmt(st ast.Stmt, env *localEnv) bool {
	switch v := st.(type) {
	case *ast.LetStmt:
		c.checkLet(v, env)
		return false
	case *ast.AssignStmt:
		c.checkAssign(v, env)
		return false
	case *ast.ExprStmt:
		c.checkExpr(v.Expr, env, nil)
		return false
	case *ast.IfStmt:
		return c.checkIf(v, env)
	case *ast.WhileStmt:
		c.checkWhile(v, env)
		return false
	case *ast.ForStmt:
		c.checkFor(v, env)
		return false
	case *ast.ReturnStmt:
		c.checkReturn(v, env)
		return true
	case *ast.MatchStmt:
		return c.checkMatch(v, env)
	case *ast.CaseStmt:
		return c.checkCase(v, env)
	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			c.errorf("TYP-0110", v.Span, "'break' outside an enclosing loop")
		}
		return false
	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.errorf("TYP-0120", v.Span, "'continue' outside an enclosing loop")
		}
		return false
	case *ast.DropStmt:
		c.checkDrop(v, env)
		return false
	case *ast.WithStmt:
		return c.checkWith(v, env)
	case *ast.Block:
		return c.checkBlock(v, env)
	default:
		return false
	}
}

func (c *checker) checkLet(v *ast.LetStmt, env *localEnv) {
	if env.declaredLocally(v.Name) {
		c.errorf("TYP-0020", v.Span, "duplicate local %q in this scope", v.Name)
	} else if shadowed := c.describeShadow(v.Name, env); shadowed != "" {
		c.warnf("TYP-0021", v.Span, "local %q shadows %s", v.Name, shadowed)
	}

	if v.Type != nil {
		declared, ok := c.resolveLocalType(v.Type, v.Span)
		if !ok {
			env.declare(v.Name, nil)
			return
		}
		if ast.TypeEquals(declared, ast.VoidType) {
			c.errorf("TYP-0050", v.Span, "local %q cannot have type void", v.Name)
		}
		if v.Init != nil {
			it := c.checkExpr(v.Init, env, declared)
			if it != nil {
				if _, isNull := it.(ast.NullType); isNull {
					if _, nullable := declared.(ast.NullableType); !nullable {
						c.errorf("TYP-0050", v.Span, "null initializer requires a nullable type for %q", v.Name)
					}
				} else if !canAssign(declared, it, false) {
					c.errorf("TYP-0050", v.Span, "cannot initialize %q of type %s with %s", v.Name, describeType(declared), describeType(it))
				}
			}
		}
		env.declare(v.Name, declared)
		return
	}

	if v.Init == nil {
		env.declare(v.Name, nil)
		return
	}
	it := c.checkExpr(v.Init, env, nil)
	if it == nil {
		env.declare(v.Name, nil)
		return
	}
	if ast.TypeEquals(it, ast.VoidType) {
		c.errorf("TYP-0053", v.Span, "cannot infer the type of %q from a void-valued initializer", v.Name)
		env.declare(v.Name, nil)
		return
	}
	if _, isNull := it.(ast.NullType); isNull {
		c.errorf("TYP-0052", v.Span, "cannot infer the type of %q from 'null'; add a type annotation", v.Name)
		env.declare(v.Name, nil)
		return
	}
	env.declare(v.Name, it)
}

// describeShadow reports spec.md §4.7's TYP-002x shadowing family: an
// outer local, or a same-module/imported function/struct/enum/variant/
// alias of the same name. Returns "" when name introduces no shadow.
func (c *checker) describeShadow(name string, env *localEnv) string {
	if s := env.find(name); s != nil {
		return "an outer local"
	}
	sym, ok, ambiguous := c.lookupSymbol(nil, name)
	if ambiguous {
		return "an ambiguously-imported name"
	}
	if ok {
		return sym.Kind.String() + " " + sym.Name
	}
	return ""
}

func (c *checker) resolveLocalType(te *ast.TypeExpr, sp ast.Stmt) (ast.Type, bool) {
	t, ok := resolveTypeExprChecked(c, te)
	if !ok {
		c.errorf("TYP-0050", sp.StmtSpan(), "could not resolve local's declared type")
	}
	return t, ok
}

func (c *checker) checkAssign(v *ast.AssignStmt, env *localEnv) {
	tt := c.checkExpr(v.Target, env, nil)
	vt := c.checkExpr(v.Value, env, tt)
	if tt == nil || vt == nil {
		return
	}
	if !canAssign(tt, vt, false) {
		c.errorf("TYP-0050", v.Span, "cannot assign %s to target of type %s", describeType(vt), describeType(tt))
	}
	if vr, ok := v.Target.(*ast.VarRefExpr); ok && len(vr.ModulePath) == 0 {
		env.setAlive(vr.Name, true)
	}
}

func (c *checker) checkIf(v *ast.IfStmt, env *localEnv) bool {
	ct := c.checkExpr(v.Cond, env, ast.BoolType)
	if ct != nil && !ast.TypeEquals(ct, ast.BoolType) {
		c.errorf("TYP-0070", v.Span, "'if' condition must be bool, got %s", describeType(ct))
	}
	thenReturns := c.checkBlock(v.Then, env)
	if v.Else == nil {
		return false
	}
	elseReturns := c.checkStmt(v.Else, env)
	return thenReturns && elseReturns
}

func (c *checker) checkWhile(v *ast.WhileStmt, env *localEnv) {
	ct := c.checkExpr(v.Cond, env, ast.BoolType)
	if ct != nil && !ast.TypeEquals(ct, ast.BoolType) {
		c.errorf("TYP-0080", v.Span, "'while' condition must be bool, got %s", describeType(ct))
	}
	c.loopDepth++
	c.checkBlock(v.Body, env)
	c.loopDepth--
}

func (c *checker) checkFor(v *ast.ForStmt, env *localEnv) {
	outer := newLocalEnv(env)
	if v.Init != nil {
		c.checkStmt(v.Init, outer)
	}
	if v.Cond != nil {
		ct := c.checkExpr(v.Cond, outer, ast.BoolType)
		if ct != nil && !ast.TypeEquals(ct, ast.BoolType) {
			c.errorf("TYP-0090", v.Span, "'for' condition must be bool, got %s", describeType(ct))
		}
	}
	if v.Update != nil {
		c.checkStmt(v.Update, outer)
	}
	c.loopDepth++
	c.checkBlock(v.Body, outer)
	c.loopDepth--
}

func (c *checker) checkReturn(v *ast.ReturnStmt, env *localEnv) {
	if v.Value == nil {
		if !ast.TypeEquals(c.returnType, ast.VoidType) {
			c.errorf("TYP-0010", v.Span, "missing return value in a function returning %s", describeType(c.returnType))
		}
		return
	}
	vt := c.checkExpr(v.Value, env, c.returnType)
	if vt == nil {
		return
	}
	if !canAssign(c.returnType, vt, false) {
		c.errorf("TYP-0010", v.Span, "cannot return %s from a function declared to return %s", describeType(vt), describeType(c.returnType))
	}
}

func (c *checker) checkMatch(v *ast.MatchStmt, env *localEnv) bool {
	st := c.checkExpr(v.Scrutinee, env, nil)
	var enumKey string
	var enumModule string
	var info *enumInfoLookup
	if st != nil {
		et, ok := st.(ast.EnumType)
		if !ok {
			c.errorf("TYP-0100", v.Span, "'match' scrutinee must be an enum, got %s", describeType(st))
		} else {
			enumModule, enumKey = et.Module, et.Name
			info = c.lookupEnumInfo(enumModule, enumKey)
		}
	}

	seen := make(map[string]bool)
	hasWildcard := false
	allReturn := true
	for i := range v.Arms {
		arm := &v.Arms[i]
		if arm.Wildcard {
			hasWildcard = true
			armReturns := c.checkBlock(arm.Body, env)
			allReturn = allReturn && armReturns
			continue
		}
		seen[arm.Variant] = true
		if info != nil {
			fieldTypes, ok := info.fields[arm.Variant]
			if !ok {
				c.errorf("TYP-0101", arm.Span, "%s has no variant %q", describeType(ast.EnumType{Module: enumModule, Name: enumKey}), arm.Variant)
			} else if len(arm.Bindings) != len(fieldTypes) {
				c.errorf("TYP-0101", arm.Span, "variant %q expects %d binding(s), got %d", arm.Variant, len(fieldTypes), len(arm.Bindings))
			}
		}
		armEnv := newLocalEnv(env)
		if info != nil {
			if fieldTypes, ok := info.fields[arm.Variant]; ok {
				for i, b := range arm.Bindings {
					if i < len(fieldTypes) {
						armEnv.declare(b, fieldTypes[i])
					}
				}
			}
		}
		armReturns := c.checkBlock(arm.Body, armEnv)
		allReturn = allReturn && armReturns
	}

	if info != nil {
		if !hasWildcard {
			var missing []string
			for _, name := range info.order {
				if !seen[name] {
					missing = append(missing, name)
				}
			}
			if len(missing) > 0 {
				c.errorf("TYP-0104", v.Span, "match is not exhaustive; missing variant(s): %v", missing)
			}
		} else {
			allCovered := true
			for _, name := range info.order {
				if !seen[name] {
					allCovered = false
					break
				}
			}
			if allCovered {
				c.warnf("TYP-0105", v.Span, "wildcard arm matches no remaining variant")
			}
		}
	}
	return allReturn
}

type enumInfoLookup struct {
	order  []string
	fields map[string][]ast.Type
}

func (c *checker) lookupEnumInfo(module, name string) *enumInfoLookup {
	info := lookupEnumInfoRaw(c, module, name)
	if info == nil {
		return nil
	}
	return &enumInfoLookup{order: info.VariantOrder, fields: info.Variants}
}

func (c *checker) checkCase(v *ast.CaseStmt, env *localEnv) bool {
	st := c.checkExpr(v.Scrutinee, env, nil)
	if st != nil && !isCaseScrutineeKind(st) {
		c.errorf("TYP-0100", v.Span, "'case' scrutinee must be int/byte/bool/string, got %s", describeType(st))
	}

	seen := make(map[string]bool)
	allReturn := true
	hasElse := false
	for i := range v.Arms {
		arm := &v.Arms[i]
		if arm.IsElse {
			hasElse = true
			allReturn = allReturn && c.checkBlock(arm.Body, env)
			continue
		}
		c.checkExpr(arm.Literal, env, st)
		key := literalKey(arm.Literal)
		if key != "" {
			if seen[key] {
				c.errorf("TYP-0108", arm.Span, "duplicate case literal")
			}
			seen[key] = true
		}
		allReturn = allReturn && c.checkBlock(arm.Body, env)
	}
	return allReturn && hasElse
}

func isCaseScrutineeKind(t ast.Type) bool {
	bt, ok := t.(ast.BuiltinType)
	if !ok {
		return false
	}
	return bt.Kind == ast.Int || bt.Kind == ast.Byte || bt.Kind == ast.Bool || bt.Kind == ast.StringK
}

func literalKey(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.IntLitExpr:
		return "i:" + strconv.FormatInt(int64(v.Value), 10)
	case *ast.ByteLitExpr:
		return "b:" + strconv.FormatInt(int64(v.Value), 10)
	case *ast.BoolLitExpr:
		if v.Value {
			return "t"
		}
		return "f"
	case *ast.StringLitExpr:
		return "s:" + v.Raw
	default:
		return ""
	}
}

func (c *checker) checkDrop(v *ast.DropStmt, env *localEnv) {
	t, ok := env.lookupType(v.Name)
	if !ok {
		c.errorf("TYP-0061", v.Span, "'drop' target %q is not a local", v.Name)
		return
	}
	if t == nil {
		return
	}
	if !ast.IsPointerLike(t) {
		c.errorf("TYP-0061", v.Span, "'drop' requires a pointer or nullable-pointer local, got %s", describeType(t))
		return
	}
	if !env.isAlive(v.Name) {
		c.errorf("TYP-0062", v.Span, "%q has already been dropped", v.Name)
		return
	}
	env.setAlive(v.Name, false)
}

func (c *checker) checkWith(v *ast.WithStmt, env *localEnv) bool {
	withEnv := newLocalEnv(env)
	for i := range v.Items {
		item := &v.Items[i]
		var declared ast.Type
		if item.Type != nil {
			declared, _ = resolveTypeExprChecked(c, item.Type)
		}
		it := c.checkExpr(item.Init, withEnv, declared)
		if declared == nil {
			declared = it
		} else if it != nil && !canAssign(declared, it, false) {
			c.errorf("TYP-0050", item.Span, "cannot initialize %q of type %s with %s", item.Name, describeType(declared), describeType(it))
		}
		withEnv.declare(item.Name, declared)
		if item.Cleanup != nil {
			c.checkStmt(item.Cleanup, withEnv)
		}
	}
	bodyReturns := c.checkBlock(v.Body, withEnv)
	if v.Cleanup != nil {
		c.checkBlock(v.Cleanup, env)
	}
	return bodyReturns
}
