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
package ast

import "github.com/googlielmo/dea-lang-l0-sub000/pkg/source"

// Expr is the closed sum of expression forms named in spec.md §3.
// Concrete types below are switched on via Go's type switch, per the
// "match on tag" design note (spec.md §9); ExprID gives every expression
// a stable identity so pkg/check can key `expr_types` by something other
// than a pointer when convenient.
type Expr interface {
	ExprSpan() source.Span
}

// ExprID is a process-unique small integer assigned to every expression
// node at parse time, used as the key of the type checker's `expr_types`
// table (spec.md §3's "Expression tables").
type ExprID uint32

// IntLitExpr is a (possibly negative, via lexer absorption) integer
// literal.
type IntLitExpr struct {
	ID    ExprID
	Value int32
	Span  source.Span
}

func (e *IntLitExpr) ExprSpan() source.Span { return e.Span }

// ByteLitExpr is a single-byte literal.
type ByteLitExpr struct {
	ID    ExprID
	Value byte
	Span  source.Span
}

func (e *ByteLitExpr) ExprSpan() source.Span { return e.Span }

// BoolLitExpr is `true` or `false`.
type BoolLitExpr struct {
	ID    ExprID
	Value bool
	Span  source.Span
}

func (e *BoolLitExpr) ExprSpan() source.Span { return e.Span }

// StringLitExpr is a string literal; Raw keeps the verbatim token text
// (escape decoding is deferred, per spec.md §4.1).
type StringLitExpr struct {
	ID   ExprID
	Raw  string
	Span source.Span
}

func (e *StringLitExpr) ExprSpan() source.Span { return e.Span }

// NullLitExpr is the `null` literal.
type NullLitExpr struct {
	ID   ExprID
	Span source.Span
}

func (e *NullLitExpr) ExprSpan() source.Span { return e.Span }

// VarRefExpr is a variable/function/struct/enum-variant reference, with
// an optional module-path qualifier (`M::name` or bare `name`).
type VarRefExpr struct {
	ID         ExprID
	ModulePath []string // empty for an unqualified reference
	Name       string
	Span       source.Span
}

func (e *VarRefExpr) ExprSpan() source.Span { return e.Span }

// UnaryOp enumerates the unary operators (spec.md §4.2's precedence
// table: unary binds tighter than any binary operator).
type UnaryOp int

const (
	UNeg UnaryOp = iota // -
	UNot                // !
	UDeref              // *
)

type UnaryExpr struct {
	ID       ExprID
	Op       UnaryOp
	Operand  Expr
	Span     source.Span
}

func (e *UnaryExpr) ExprSpan() source.Span { return e.Span }

// BinaryOp enumerates the binary operators, grouped by the precedence
// tiers of spec.md §4.2.
type BinaryOp int

const (
	BAdd BinaryOp = iota
	BSub
	BMul
	BDiv
	BMod
	BLt
	BLtEq
	BGt
	BGtEq
	BEq
	BNotEq
	BAnd // &&
	BOr  // ||
)

type BinaryExpr struct {
	ID          ExprID
	Op          BinaryOp
	Left, Right Expr
	Span        source.Span
}

func (e *BinaryExpr) ExprSpan() source.Span { return e.Span }

// CallExpr is `callee(args...)`. The callee must be a plain identifier
// (spec.md TYP-0180); it is carried as an Expr here only because the
// parser builds it uniformly with postfix chaining, and the checker
// rejects anything but *VarRefExpr.
type CallExpr struct {
	ID     ExprID
	Callee Expr
	Args   []Expr
	Span   source.Span
}

func (e *CallExpr) ExprSpan() source.Span { return e.Span }

// IndexExpr is `base[index]`; reserved by spec.md (TYP-0211/0212) but
// still parsed so the checker can reject it with a precise diagnostic.
type IndexExpr struct {
	ID         ExprID
	Base, Idx Expr
	Span       source.Span
}

func (e *IndexExpr) ExprSpan() source.Span { return e.Span }

// FieldExpr is `base.field`.
type FieldExpr struct {
	ID    ExprID
	Base  Expr
	Field string
	Span  source.Span
}

func (e *FieldExpr) ExprSpan() source.Span { return e.Span }

// CastExpr is `base as T` (postfix cast).
type CastExpr struct {
	ID     ExprID
	Base   Expr
	Target *TypeExpr
	Span   source.Span
}

func (e *CastExpr) ExprSpan() source.Span { return e.Span }

// NewExpr is `new T(args...)`.
type NewExpr struct {
	ID     ExprID
	Target *TypeExpr
	Args   []Expr
	Span   source.Span
}

func (e *NewExpr) ExprSpan() source.Span { return e.Span }

// TryExpr is the postfix `?` operator.
type TryExpr struct {
	ID      ExprID
	Operand Expr
	Span    source.Span
}

func (e *TryExpr) ExprSpan() source.Span { return e.Span }

// TypeExprArg wraps a bare TypeExpr used as an argument to a type-taking
// intrinsic (`sizeof(T)`), per spec.md §3's "pattern-only TypeExpr form".
type TypeExprArg struct {
	ID   ExprID
	Type *TypeExpr
	Span source.Span
}

func (e *TypeExprArg) ExprSpan() source.Span { return e.Span }

// IntrinsicExpr is a call to a compiler intrinsic (`sizeof`, `ord`),
// distinguished from an ordinary CallExpr once the parser recognises the
// callee name, so the checker does not have to re-derive intrinsic-ness
// from an identifier string at every call site.
type IntrinsicKind int

const (
	ISizeof IntrinsicKind = iota
	IOrd
)

type IntrinsicExpr struct {
	ID   ExprID
	Kind IntrinsicKind
	Arg  Expr // either a TypeExprArg, a bare VarRefExpr, or any expression
	Span source.Span
}

func (e *IntrinsicExpr) ExprSpan() source.Span { return e.Span }

// ParenExpr preserves an explicit `(expr)` grouping. It is itself a
// place expression iff its inner expression is (spec.md's "parenthesized
// place" ARC rule), so the emitter must see through it rather than the
// parser discarding it.
type ParenExpr struct {
	ID    ExprID
	Inner Expr
	Span  source.Span
}

func (e *ParenExpr) ExprSpan() source.Span { return e.Span }

// IsPlaceExpr reports whether e denotes an existing binding (spec.md's
// ARC "place expression": variable reference, deref, field, index, or a
// parenthesized place) as opposed to a value materialised fresh by this
// expression.
func IsPlaceExpr(e Expr) bool {
	switch v := e.(type) {
	case *VarRefExpr:
		return true
	case *UnaryExpr:
		return v.Op == UDeref
	case *FieldExpr, *IndexExpr:
		return true
	case *ParenExpr:
		return IsPlaceExpr(v.Inner)
	default:
		return false
	}
}
