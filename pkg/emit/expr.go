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
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
)

// resolveType resolves a syntactic TypeExpr (a cast/new/sizeof target)
// against this function's module environment, using the same
// alias-transparent resolution pkg/check already validated it with.
func (fc *funcCtx) resolveType(te *ast.TypeExpr) ast.Type {
	t, ok := resolve.ResolveTypeExpr(te, fc.module, fc.prog.envs, fc.prog.sigs)
	if !ok {
		return ast.VoidType
	}
	return t
}

// exprType looks an already-checked expression's type up by its ExprID.
// When no type is recorded it returns ast.VoidType; no ICE is raised here.
// Emission only ever runs once the checker reported zero errors (spec.md
// §5: "code generation runs only when diagnostics contain zero error-kind
// entries").
func (fc *funcCtx) exprType(e ast.Expr) ast.Type {
	if t, ok := fc.prog.chk.ExprTypes[exprID(e)]; ok {
		return t
	}
	return ast.VoidType
}

// value renders e's C expression text for reading an existing value: it
// never performs ARC retain on its own account (that is ownedValue's job)
// but does recurse through ownedValue for any sub-position that becomes a
// new owner (struct/enum/new field values, call arguments).
func (fc *funcCtx) value(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.IntLitExpr:
		return fmt.Sprintf("%d", v.Value)
	case *ast.ByteLitExpr:
		return fmt.Sprintf("((l0_byte)%d)", v.Value)
	case *ast.BoolLitExpr:
		if v.Value {
			return "1"
		}
		return "0"
	case *ast.StringLitExpr:
		return fmt.Sprintf("_rt_l0_string_from_const_literal(%s, sizeof(%s) - 1)", v.Raw, v.Raw)
	case *ast.NullLitExpr:
		return "NULL"
	case *ast.VarRefExpr:
		return fc.varRefValue(v)
	case *ast.UnaryExpr:
		return fc.unaryValue(v)
	case *ast.BinaryExpr:
		return fc.binaryValue(v)
	case *ast.CallExpr:
		return fc.callValue(v)
	case *ast.IndexExpr:
		return fmt.Sprintf("(%s)[(%s)]", fc.value(v.Base), fc.value(v.Idx))
	case *ast.FieldExpr:
		return fc.fieldValue(v)
	case *ast.CastExpr:
		return fc.castValue(v)
	case *ast.NewExpr:
		return fc.newValue(v)
	case *ast.TryExpr:
		return fc.tryValue(v)
	case *ast.IntrinsicExpr:
		return fc.intrinsicValue(v)
	case *ast.ParenExpr:
		return "(" + fc.value(v.Inner) + ")"
	default:
		return "0"
	}
}

func (fc *funcCtx) varRefValue(v *ast.VarRefExpr) string {
	if len(v.ModulePath) == 0 {
		if _, ok := fc.varTypeLookup(v.Name); ok {
			return MangleLocal(v.Name)
		}
		return MangleLet(fc.module, v.Name)
	}
	return MangleLet(v.ModulePath[0], v.Name)
}

func (fc *funcCtx) unaryValue(v *ast.UnaryExpr) string {
	switch v.Op {
	case ast.UNeg:
		return "(-(" + fc.value(v.Operand) + "))"
	case ast.UNot:
		return "(!(" + fc.value(v.Operand) + "))"
	default: // UDeref
		return "(*(" + fc.value(v.Operand) + "))"
	}
}

func (fc *funcCtx) binaryValue(v *ast.BinaryExpr) string {
	l, r := fc.value(v.Left), fc.value(v.Right)
	switch v.Op {
	case ast.BAdd:
		return fmt.Sprintf("_rt_iadd(%s, %s)", l, r)
	case ast.BSub:
		return fmt.Sprintf("_rt_isub(%s, %s)", l, r)
	case ast.BMul:
		return fmt.Sprintf("_rt_imul(%s, %s)", l, r)
	case ast.BDiv:
		return fmt.Sprintf("_rt_idiv(%s, %s)", l, r)
	case ast.BMod:
		return fmt.Sprintf("_rt_imod(%s, %s)", l, r)
	case ast.BLt:
		return fmt.Sprintf("((%s) < (%s))", l, r)
	case ast.BLtEq:
		return fmt.Sprintf("((%s) <= (%s))", l, r)
	case ast.BGt:
		return fmt.Sprintf("((%s) > (%s))", l, r)
	case ast.BGtEq:
		return fmt.Sprintf("((%s) >= (%s))", l, r)
	case ast.BAnd:
		return fmt.Sprintf("((%s) && (%s))", l, r)
	case ast.BOr:
		return fmt.Sprintf("((%s) || (%s))", l, r)
	case ast.BEq, ast.BNotEq:
		return fc.equalityValue(v, l, r)
	default:
		return "0"
	}
}

// equalityValue implements spec.md §4.8's special-cased null-equality
// lowering: "(x==NULL)"/"(x!=NULL)" for pointer-like operands, and
// "!x.has_value"/"x.has_value" for value-optionals; an equality with no
// null-literal operand lowers to a native "==" / "!=" (struct/enum equality is not part of this
// language's surface, so every reachable equality here is over a scalar or
// a nullable-of-scalar-or-pointer).
func (fc *funcCtx) equalityValue(v *ast.BinaryExpr, l, r string) string {
	_, leftNull := v.Left.(*ast.NullLitExpr)
	_, rightNull := v.Right.(*ast.NullLitExpr)
	op := "=="
	if v.Op == ast.BNotEq {
		op = "!="
	}
	if leftNull || rightNull {
		operandType, operandText := fc.exprType(v.Right), r
		if rightNull {
			operandType, operandText = fc.exprType(v.Left), l
		}
		if ast.IsPointerLike(operandType) {
			return fmt.Sprintf("((%s) %s NULL)", operandText, op)
		}
		if v.Op == ast.BEq {
			return fmt.Sprintf("(!(%s).has_value)", operandText)
		}
		return fmt.Sprintf("((%s).has_value)", operandText)
	}
	return fmt.Sprintf("((%s) %s (%s))", l, op, r)
}

func (fc *funcCtx) fieldValue(v *ast.FieldExpr) string {
	baseType := fc.exprType(v.Base)
	base := fc.value(v.Base)
	if _, ok := baseType.(ast.PointerType); ok {
		return fmt.Sprintf("(%s)->%s", base, MangleLocal(v.Field))
	}
	return fmt.Sprintf("(%s).%s", base, MangleLocal(v.Field))
}

func (fc *funcCtx) castValue(v *ast.CastExpr) string {
	target := fc.resolveType(v.Target)
	base := v.Base
	baseType := fc.exprType(base)
	val := fc.value(base)
	if bt, ok := target.(ast.BuiltinType); ok && bt.Kind == ast.Byte {
		if bbt, ok := baseType.(ast.BuiltinType); ok && bbt.Kind == ast.Int {
			return fmt.Sprintf("_rt_narrow_l0_byte(%s)", val)
		}
	}
	return fmt.Sprintf("((%s)(%s))", fc.prog.tc.cType(target), val)
}

func (fc *funcCtx) tryValue(v *ast.TryExpr) string {
	operandType := fc.exprType(v.Operand)
	val := fc.value(v.Operand)
	nt, _ := operandType.(ast.NullableType)
	if isNiche(nt.Inner) {
		tmp := fc.newTemp()
		fc.buf.Line("%s %s = %s;", fc.prog.tc.cType(operandType), tmp, val)
		fc.buf.Line("if ((%s) == NULL) {", tmp)
		fc.buf.Indent()
		fc.emitEarlyNullReturn()
		fc.buf.Dedent()
		fc.buf.Line("}")
		return tmp
	}
	tmp := fc.newTemp()
	fc.buf.Line("%s %s = %s;", fc.prog.tc.cType(operandType), tmp, val)
	fc.buf.Line("if (!%s.has_value) {", tmp)
	fc.buf.Indent()
	fc.emitEarlyNullReturn()
	fc.buf.Dedent()
	fc.buf.Line("}")
	return tmp + ".value"
}

func (fc *funcCtx) intrinsicValue(v *ast.IntrinsicExpr) string {
	switch v.Kind {
	case ast.ISizeof:
		t, ok := fc.prog.chk.IntrinsicTargets[v.ID]
		if !ok {
			t = ast.VoidType
		}
		return fmt.Sprintf("((l0_int)sizeof(%s))", fc.prog.tc.cType(t))
	default: // IOrd
		return fmt.Sprintf("((l0_int)(%s).tag)", fc.value(v.Arg))
	}
}
