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
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
)

func describeType(t ast.Type) string {
	if t == nil {
		return "<error>"
	}
	return t.String()
}

func exprID(e ast.Expr) ast.ExprID {
	switch v := e.(type) {
	case *ast.IntLitExpr:
		return v.ID
	case *ast.ByteLitExpr:
		return v.ID
	case *ast.BoolLitExpr:
		return v.ID
	case *ast.StringLitExpr:
		return v.ID
	case *ast.NullLitExpr:
		return v.ID
	case *ast.VarRefExpr:
		return v.ID
	case *ast.UnaryExpr:
		return v.ID
	case *ast.BinaryExpr:
		return v.ID
	case *ast.CallExpr:
		return v.ID
	case *ast.IndexExpr:
		return v.ID
	case *ast.FieldExpr:
		return v.ID
	case *ast.CastExpr:
		return v.ID
	case *ast.NewExpr:
		return v.ID
	case *ast.TryExpr:
		return v.ID
	case *ast.TypeExprArg:
		return v.ID
	case *ast.IntrinsicExpr:
		return v.ID
	case *ast.ParenExpr:
		return v.ID
	default:
		return 0
	}
}

// checkExpr resolves e's type, recording it in c.res.ExprTypes. expected
// is used only where spec.md §4.7 calls for a widening context (let
// initializers); most expression forms ignore it and simply report their
// natural type back up.
func (c *checker) checkExpr(e ast.Expr, env *localEnv, expected ast.Type) ast.Type {
	t := c.checkExprKind(e, env, expected)
	if t != nil {
		c.res.ExprTypes[exprID(e)] = t
	}
	return t
}

func (c *checker) checkExprKind(e ast.Expr, env *localEnv, expected ast.Type) ast.Type {
	switch v := e.(type) {
	case *ast.IntLitExpr:
		return ast.IntType
	case *ast.ByteLitExpr:
		return ast.ByteType
	case *ast.BoolLitExpr:
		return ast.BoolType
	case *ast.StringLitExpr:
		return ast.StringType
	case *ast.NullLitExpr:
		return ast.NullType{}
	case *ast.VarRefExpr:
		return c.checkVarRef(v, env)
	case *ast.UnaryExpr:
		return c.checkUnary(v, env)
	case *ast.BinaryExpr:
		return c.checkBinary(v, env)
	case *ast.CallExpr:
		return c.checkCall(v, env)
	case *ast.IndexExpr:
		return c.checkIndex(v, env)
	case *ast.FieldExpr:
		return c.checkField(v, env)
	case *ast.CastExpr:
		return c.checkCast(v, env)
	case *ast.NewExpr:
		return c.checkNew(v, env)
	case *ast.TryExpr:
		return c.checkTry(v, env)
	case *ast.IntrinsicExpr:
		return c.checkIntrinsic(v, env)
	case *ast.ParenExpr:
		return c.checkExpr(v.Inner, env, expected)
	case *ast.TypeExprArg:
		// Reachable only if a TypeExprArg escapes its intrinsic-argument
		// position, which the parser never produces; nothing sensible to
		// report here.
		return nil
	default:
		return nil
	}
}

// lookupSymbol resolves an unqualified or single-segment-qualified name
// against c.envs, mirroring pkg/resolve's own qualifier rule: a qualified
// reference sees only the target module's locals, never its re-exports.
func (c *checker) lookupSymbol(path []string, name string) (*resolve.Symbol, bool, bool) {
	target := c.module
	if len(path) >= 1 {
		target = path[0]
	}
	env := c.envs[target]
	if env == nil {
		return nil, false, false
	}
	if len(path) == 0 {
		if _, ambiguous := env.AmbiguousImports[name]; ambiguous {
			return nil, false, true
		}
		sym, ok := env.All[name]
		return sym, ok, false
	}
	sym, ok := env.Locals[name]
	return sym, ok, false
}

func (c *checker) checkVarRef(v *ast.VarRefExpr, env *localEnv) ast.Type {
	if len(v.ModulePath) > 1 {
		c.errorf("TYP-0158", v.Span, "overqualified name %q", v.Name)
		return nil
	}
	if len(v.ModulePath) == 0 {
		if t, ok := env.lookupType(v.Name); ok {
			return t
		}
	}
	sym, ok, ambiguous := c.lookupSymbol(v.ModulePath, v.Name)
	if ambiguous {
		c.errorf("TYP-0189", v.Span, "%q is ambiguously imported", v.Name)
		return nil
	}
	if !ok {
		c.errorf("TYP-0030", v.Span, "undefined name %q", v.Name)
		return nil
	}
	key := resolve.Key{Module: sym.Module, Name: sym.Name}
	switch sym.Kind {
	case resolve.SymFunc, resolve.SymVariant:
		return c.sigs.FuncTypes[key]
	case resolve.SymLet:
		return c.sigs.LetTypes[key]
	default:
		c.errorf("TYP-0032", v.Span, "%q names a type, not a value", sym.Name)
		return nil
	}
}

func (c *checker) checkUnary(v *ast.UnaryExpr, env *localEnv) ast.Type {
	ot := c.checkExpr(v.Operand, env, nil)
	if ot == nil {
		return nil
	}
	switch v.Op {
	case ast.UNeg:
		if !ast.IsIntegerKind(ot) {
			c.errorf("TYP-0150", v.Span, "unary '-' requires an integer operand, got %s", describeType(ot))
			return nil
		}
		return ast.IntType
	case ast.UNot:
		if !ast.TypeEquals(ot, ast.BoolType) {
			c.errorf("TYP-0151", v.Span, "unary '!' requires a bool operand, got %s", describeType(ot))
			return nil
		}
		return ast.BoolType
	case ast.UDeref:
		pt, ok := ot.(ast.PointerType)
		if !ok {
			if nt, isNullable := ot.(ast.NullableType); isNullable {
				if _, isPtr := nt.Inner.(ast.PointerType); isPtr {
					c.errorf("TYP-0162", v.Span, "cannot dereference a nullable pointer directly; check or unwrap it first")
					return nil
				}
			}
			c.errorf("TYP-0161", v.Span, "unary '*' requires a pointer operand, got %s", describeType(ot))
			return nil
		}
		return pt.Inner
	default:
		return nil
	}
}

func (c *checker) checkBinary(v *ast.BinaryExpr, env *localEnv) ast.Type {
	lt := c.checkExpr(v.Left, env, nil)
	rt := c.checkExpr(v.Right, env, nil)
	switch v.Op {
	case ast.BAdd, ast.BSub, ast.BMul, ast.BDiv, ast.BMod:
		if lt == nil || rt == nil {
			return nil
		}
		if !ast.IsIntegerKind(lt) || !ast.IsIntegerKind(rt) {
			c.errorf("TYP-0140", v.Span, "arithmetic requires integer operands, got %s and %s", describeType(lt), describeType(rt))
			return nil
		}
		return ast.IntType
	case ast.BLt, ast.BLtEq, ast.BGt, ast.BGtEq:
		if lt == nil || rt == nil {
			return nil
		}
		if !ast.IsIntegerKind(lt) || !ast.IsIntegerKind(rt) {
			c.errorf("TYP-0141", v.Span, "comparison requires integer operands, got %s and %s", describeType(lt), describeType(rt))
			return nil
		}
		return ast.BoolType
	case ast.BEq, ast.BNotEq:
		return c.checkEquality(v, lt, rt)
	case ast.BAnd, ast.BOr:
		if lt == nil || rt == nil {
			return nil
		}
		if !ast.TypeEquals(lt, ast.BoolType) || !ast.TypeEquals(rt, ast.BoolType) {
			c.errorf("TYP-0172", v.Span, "logical operator requires bool operands, got %s and %s", describeType(lt), describeType(rt))
			return nil
		}
		return ast.BoolType
	default:
		return nil
	}
}

func (c *checker) checkEquality(v *ast.BinaryExpr, lt, rt ast.Type) ast.Type {
	if lt == nil || rt == nil {
		return nil
	}
	_, leftNull := lt.(ast.NullType)
	_, rightNull := rt.(ast.NullType)
	if leftNull != rightNull {
		other := rt
		if rightNull {
			other = lt
		}
		if ast.IsPointerLike(other) {
			return ast.BoolType
		}
		if _, nullable := other.(ast.NullableType); nullable {
			return ast.BoolType
		}
		c.errorf("TYP-0173", v.Span, "null check requires a pointer-like or nullable operand, got %s", describeType(other))
		return nil
	}
	if leftNull && rightNull {
		return ast.BoolType
	}
	switch {
	case ast.TypeEquals(lt, ast.IntType) && ast.TypeEquals(rt, ast.IntType),
		ast.TypeEquals(lt, ast.ByteType) && ast.TypeEquals(rt, ast.ByteType),
		ast.TypeEquals(lt, ast.BoolType) && ast.TypeEquals(rt, ast.BoolType):
		return ast.BoolType
	default:
		c.errorf("TYP-0173", v.Span, "equality is not defined for %s and %s", describeType(lt), describeType(rt))
		return nil
	}
}

// checkArg type-checks one call/constructor argument against its
// expected parameter type and reports argCode when widening fails.
func (c *checker) checkArg(arg ast.Expr, env *localEnv, expected ast.Type, argCode string) {
	at := c.checkExpr(arg, env, expected)
	if at == nil || expected == nil {
		return
	}
	if !canAssign(expected, at, false) {
		c.errorf(argCode, arg.ExprSpan(), "cannot pass %s where %s is expected", describeType(at), describeType(expected))
	}
}

// checkPositionalArgs implements the shared arity+widening rule used by
// struct constructors, enum-variant constructors, and plain function
// calls (spec.md §4.7's TYP-0191/0201/0183 arity families).
func (c *checker) checkPositionalArgs(sp func() ast.Expr, args []ast.Expr, env *localEnv, paramTypes []ast.Type, arityCode, argCode, label string) {
	if len(args) != len(paramTypes) {
		c.errorf(arityCode, sp().ExprSpan(), "%s expects %d argument(s), got %d", label, len(paramTypes), len(args))
	}
	n := len(args)
	if len(paramTypes) < n {
		n = len(paramTypes)
	}
	for i := 0; i < n; i++ {
		c.checkArg(args[i], env, paramTypes[i], argCode)
	}
	for i := n; i < len(args); i++ {
		c.checkExpr(args[i], env, nil)
	}
}

func fieldTypesOf(fields []resolve.FieldInfo) []ast.Type {
	out := make([]ast.Type, len(fields))
	for i, f := range fields {
		out[i] = f.Type
	}
	return out
}

func (c *checker) checkCall(e *ast.CallExpr, env *localEnv) ast.Type {
	callee, ok := e.Callee.(*ast.VarRefExpr)
	if !ok {
		c.errorf("TYP-0180", e.Span, "call target must be a plain identifier")
		for _, a := range e.Args {
			c.checkExpr(a, env, nil)
		}
		return nil
	}
	if len(callee.ModulePath) > 1 {
		c.errorf("TYP-0158", callee.Span, "overqualified call target %q", callee.Name)
		return nil
	}
	sym, ok, ambiguous := c.lookupSymbol(callee.ModulePath, callee.Name)
	if ambiguous {
		c.errorf("TYP-0189", e.Span, "%q is ambiguously imported", callee.Name)
		return nil
	}
	if !ok {
		c.errorf("TYP-0030", e.Span, "undefined name %q", callee.Name)
		for _, a := range e.Args {
			c.checkExpr(a, env, nil)
		}
		return nil
	}
	self := func() ast.Expr { return e }
	switch sym.Kind {
	case resolve.SymStruct:
		fields := c.sigs.StructInfos[resolve.Key{Module: sym.Module, Name: sym.Name}]
		c.checkPositionalArgs(self, e.Args, env, fieldTypesOf(fields), "TYP-0191", "TYP-0192", "constructor "+sym.Name)
		return ast.StructType{Module: sym.Module, Name: sym.Name}
	case resolve.SymAlias:
		target, ok := c.sigs.AliasTypes[resolve.Key{Module: sym.Module, Name: sym.Name}]
		if !ok {
			return nil
		}
		st, ok := target.(ast.StructType)
		if !ok {
			c.errorf("TYP-0191", e.Span, "%q does not name a struct", sym.Name)
			return nil
		}
		fields := c.sigs.StructInfos[resolve.Key{Module: st.Module, Name: st.Name}]
		c.checkPositionalArgs(self, e.Args, env, fieldTypesOf(fields), "TYP-0191", "TYP-0192", "constructor "+sym.Name)
		return st
	case resolve.SymVariant:
		ft := c.sigs.FuncTypes[resolve.Key{Module: sym.Module, Name: sym.Name}]
		c.checkPositionalArgs(self, e.Args, env, ft.Params, "TYP-0201", "TYP-0202", "variant "+sym.Name)
		return ft.Result
	case resolve.SymFunc:
		ft := c.sigs.FuncTypes[resolve.Key{Module: sym.Module, Name: sym.Name}]
		c.checkPositionalArgs(self, e.Args, env, ft.Params, "TYP-0183", "TYP-0184", "function "+sym.Name)
		return ft.Result
	default:
		c.errorf("TYP-0180", e.Span, "%q does not name a callable symbol", callee.Name)
		return nil
	}
}

func (c *checker) checkIndex(e *ast.IndexExpr, env *localEnv) ast.Type {
	baseType := c.checkExpr(e.Base, env, nil)
	idxType := c.checkExpr(e.Idx, env, nil)
	if idxType != nil && !ast.IsIntegerKind(idxType) {
		c.errorf("TYP-0213", e.Span, "index must be an integer, got %s", describeType(idxType))
	}
	if baseType == nil {
		return nil
	}
	if nt, ok := baseType.(ast.NullableType); ok {
		if _, isPtr := nt.Inner.(ast.PointerType); isPtr {
			c.errorf("TYP-0211", e.Span, "cannot index a nullable pointer")
			return nil
		}
	}
	c.errorf("TYP-0212", e.Span, "indexing is not supported for type %s", describeType(baseType))
	return nil
}

// structFieldsOf auto-derefs through Pointer(Struct), per spec.md §4.7's
// field-access rule.
func (c *checker) structFieldsOf(t ast.Type) ([]resolve.FieldInfo, bool) {
	switch v := t.(type) {
	case ast.StructType:
		fields, ok := c.sigs.StructInfos[resolve.Key{Module: v.Module, Name: v.Name}]
		return fields, ok
	case ast.PointerType:
		return c.structFieldsOf(v.Inner)
	default:
		return nil, false
	}
}

func (c *checker) checkField(e *ast.FieldExpr, env *localEnv) ast.Type {
	baseType := c.checkExpr(e.Base, env, nil)
	if baseType == nil {
		return nil
	}
	if nt, ok := baseType.(ast.NullableType); ok {
		if _, isStruct := nt.Inner.(ast.StructType); isStruct {
			c.errorf("TYP-0220", e.Span, "cannot access a field through a nullable struct; unwrap it first")
			return nil
		}
	}
	fields, ok := c.structFieldsOf(baseType)
	if !ok {
		c.errorf("TYP-0222", e.Span, "field access on non-struct type %s", describeType(baseType))
		return nil
	}
	for _, f := range fields {
		if f.Name == e.Field {
			return f.Type
		}
	}
	c.errorf("TYP-0221", e.Span, "struct has no field %q", e.Field)
	return nil
}

func (c *checker) checkCast(e *ast.CastExpr, env *localEnv) ast.Type {
	at := c.checkExpr(e.Base, env, nil)
	target, ok := resolve.ResolveTypeExpr(e.Target, c.module, c.envs, c.sigs)
	if !ok {
		c.errorf("TYP-0230", e.Span, "could not resolve cast target type")
		return nil
	}
	if at == nil {
		return target
	}
	if !canAssign(target, at, true) {
		c.errorf("TYP-0230", e.Span, "cannot cast %s to %s", describeType(at), describeType(target))
	}
	return target
}

// lookupTypeNameSymbol resolves a bare TypeExpr name against the symbol
// table directly, used by `new` to recognise enum-variant targets (which
// are not registered as Types themselves) ahead of falling back to
// ordinary type resolution.
func (c *checker) lookupTypeNameSymbol(te *ast.TypeExpr) (*resolve.Symbol, bool) {
	if te.Kind != ast.TENamed {
		return nil, false
	}
	sym, ok, _ := c.lookupSymbol(te.ModulePath, te.Name)
	return sym, ok
}

func (c *checker) checkNew(e *ast.NewExpr, env *localEnv) ast.Type {
	if len(e.Target.ModulePath) > 1 {
		c.errorf("TYP-0158", e.Span, "overqualified 'new' target %q", e.Target.Name)
		return nil
	}
	self := func() ast.Expr { return e }
	if sym, found := c.lookupTypeNameSymbol(e.Target); found && sym.Kind == resolve.SymVariant {
		ft := c.sigs.FuncTypes[resolve.Key{Module: sym.Module, Name: sym.Name}]
		c.checkPositionalArgs(self, e.Args, env, ft.Params, "TYP-0201", "TYP-0202", "variant "+sym.Name)
		return ast.PointerType{Inner: ft.Result}
	}

	target, ok := resolve.ResolveTypeExpr(e.Target, c.module, c.envs, c.sigs)
	if !ok {
		c.errorf("TYP-0281", e.Span, "could not resolve 'new' target type")
		for _, a := range e.Args {
			c.checkExpr(a, env, nil)
		}
		return nil
	}
	switch tt := target.(type) {
	case ast.StructType:
		fields := c.sigs.StructInfos[resolve.Key{Module: tt.Module, Name: tt.Name}]
		c.checkPositionalArgs(self, e.Args, env, fieldTypesOf(fields), "TYP-0191", "TYP-0192", "constructor "+tt.Name)
		return ast.PointerType{Inner: target}
	case ast.EnumType:
		c.errorf("TYP-0281", e.Span, "'new' on enum type %s requires a variant constructor", tt.Name)
		for _, a := range e.Args {
			c.checkExpr(a, env, nil)
		}
		return nil
	default:
		if len(e.Args) > 1 {
			c.errorf("TYP-0191", e.Span, "'new %s' takes at most one argument", describeType(target))
		}
		for i, a := range e.Args {
			if i == 0 {
				c.checkArg(a, env, target, "TYP-0192")
			} else {
				c.checkExpr(a, env, nil)
			}
		}
		return ast.PointerType{Inner: target}
	}
}

func (c *checker) checkTry(e *ast.TryExpr, env *localEnv) ast.Type {
	ot := c.checkExpr(e.Operand, env, nil)
	if ot == nil {
		return nil
	}
	nt, ok := ot.(ast.NullableType)
	if !ok {
		c.errorf("TYP-0250", e.Span, "'?' requires a nullable operand, got %s", describeType(ot))
		return nil
	}
	if _, resultNullable := c.returnType.(ast.NullableType); !resultNullable {
		c.errorf("TYP-0251", e.Span, "'?' requires the enclosing function's result type to be nullable")
	}
	return nt.Inner
}

func (c *checker) checkIntrinsic(e *ast.IntrinsicExpr, env *localEnv) ast.Type {
	switch e.Kind {
	case ast.ISizeof:
		t := c.resolveIntrinsicArgType(e.Arg, env)
		if t == nil {
			return nil
		}
		if ast.TypeEquals(t, ast.VoidType) {
			c.errorf("TYP-0240", e.Span, "sizeof(void) is not allowed")
			return nil
		}
		c.res.IntrinsicTargets[e.ID] = t
		return ast.IntType
	case ast.IOrd:
		t := c.checkExpr(e.Arg, env, nil)
		if t == nil {
			return nil
		}
		if _, ok := t.(ast.EnumType); !ok {
			c.errorf("TYP-0260", e.Span, "ord() requires an enum-valued argument, got %s", describeType(t))
			return nil
		}
		c.res.IntrinsicTargets[e.ID] = t
		return ast.IntType
	default:
		return nil
	}
}

// resolveIntrinsicArgType implements sizeof's three accepted argument
// shapes: an explicit TypeExprArg, a bare identifier that names a type,
// or any ordinary expression (whose natural type is used).
func (c *checker) resolveIntrinsicArgType(arg ast.Expr, env *localEnv) ast.Type {
	switch a := arg.(type) {
	case *ast.TypeExprArg:
		t, ok := resolve.ResolveTypeExpr(a.Type, c.module, c.envs, c.sigs)
		if !ok {
			c.errorf("TYP-0240", a.Span, "could not resolve sizeof argument type")
			return nil
		}
		return t
	case *ast.VarRefExpr:
		if len(a.ModulePath) <= 1 {
			if sym, ok := c.lookupTypeNameSymbol(&ast.TypeExpr{Kind: ast.TENamed, ModulePath: a.ModulePath, Name: a.Name}); ok {
				switch sym.Kind {
				case resolve.SymStruct:
					return ast.StructType{Module: sym.Module, Name: sym.Name}
				case resolve.SymEnum:
					return ast.EnumType{Module: sym.Module, Name: sym.Name}
				case resolve.SymAlias:
					if t, ok := c.sigs.AliasTypes[resolve.Key{Module: sym.Module, Name: sym.Name}]; ok {
						return t
					}
				}
			}
		}
		return c.checkExpr(arg, env, nil)
	default:
		return c.checkExpr(arg, env, nil)
	}
}
