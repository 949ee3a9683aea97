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

// Package ast defines the typed syntax tree produced by pkg/parser and
// consumed by pkg/resolve, pkg/check and pkg/emit. Every "kind" carrier —
// types, expressions, statements, declarations, patterns — is a closed
// Go sum, switched on by Go's own type switch (spec.md §9: "match on the
// tag rather than dispatch through virtual calls").
package ast

import "github.com/googlielmo/dea-lang-l0-sub000/pkg/source"

// BuiltinKind enumerates the primitive types named directly in source.
type BuiltinKind int

const (
	Int BuiltinKind = iota
	Byte
	Bool
	StringK
	Void
)

func (b BuiltinKind) String() string {
	switch b {
	case Int:
		return "int"
	case Byte:
		return "byte"
	case Bool:
		return "bool"
	case StringK:
		return "string"
	case Void:
		return "void"
	default:
		return "?"
	}
}

// Type is the resolved semantic type of an expression or declaration
// (spec.md §3's "Types" data model): a sum of Builtin, Struct, Enum,
// Pointer, Nullable, Func, and the internal Null sentinel.
type Type interface {
	isType()
	String() string
}

// BuiltinType is one of int/byte/bool/string/void.
type BuiltinType struct{ Kind BuiltinKind }

func (BuiltinType) isType()          {}
func (b BuiltinType) String() string { return b.Kind.String() }

// StructType names a struct declared in a given module.
type StructType struct{ Module, Name string }

func (StructType) isType()          {}
func (s StructType) String() string { return s.Module + "." + s.Name }

// EnumType names an enum declared in a given module.
type EnumType struct{ Module, Name string }

func (EnumType) isType()          {}
func (e EnumType) String() string { return e.Module + "." + e.Name }

// PointerType is Pointer(Inner), e.g. the result of `new T(...)`.
type PointerType struct{ Inner Type }

func (PointerType) isType()          {}
func (p PointerType) String() string { return p.Inner.String() + "*" }

// NullableType is Nullable(Inner), i.e. source-level `T?`.
type NullableType struct{ Inner Type }

func (NullableType) isType()          {}
func (n NullableType) String() string { return n.Inner.String() + "?" }

// FuncType is the signature of a function, extern declaration, or
// (post signature-resolution) an enum variant constructor.
type FuncType struct {
	Params []Type
	Result Type
}

func (FuncType) isType() {}
func (f FuncType) String() string {
	s := "func("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	s += ") -> "
	if f.Result != nil {
		s += f.Result.String()
	}
	return s
}

// NullType is the internal type assigned to the `null` literal before it
// is used in a context that fixes its real Nullable(T) type (spec.md §3).
type NullType struct{}

func (NullType) isType()        {}
func (NullType) String() string { return "<null>" }

// Builtin type singletons, used throughout the checker and emitter.
var (
	IntType    = BuiltinType{Int}
	ByteType   = BuiltinType{Byte}
	BoolType   = BuiltinType{Bool}
	StringType = BuiltinType{StringK}
	VoidType   = BuiltinType{Void}
)

// IsIntegerKind reports whether t is int or byte (spec.md §4.7's
// "integer kind" used by arithmetic/comparison operators).
func IsIntegerKind(t Type) bool {
	b, ok := t.(BuiltinType)
	return ok && (b.Kind == Int || b.Kind == Byte)
}

// IsPointerLike reports whether t is Pointer(_) or niche-nullable
// Pointer — used by the null-equality-check rule (spec.md §4.7).
func IsPointerLike(t Type) bool {
	if _, ok := t.(PointerType); ok {
		return true
	}
	if n, ok := t.(NullableType); ok {
		_, inner := n.Inner.(PointerType)
		return inner
	}
	return false
}

// TypeEquals is structural equality over the Type sum.
func TypeEquals(a, b Type) bool {
	switch av := a.(type) {
	case BuiltinType:
		bv, ok := b.(BuiltinType)
		return ok && av.Kind == bv.Kind
	case StructType:
		bv, ok := b.(StructType)
		return ok && av.Module == bv.Module && av.Name == bv.Name
	case EnumType:
		bv, ok := b.(EnumType)
		return ok && av.Module == bv.Module && av.Name == bv.Name
	case PointerType:
		bv, ok := b.(PointerType)
		return ok && TypeEquals(av.Inner, bv.Inner)
	case NullableType:
		bv, ok := b.(NullableType)
		return ok && TypeEquals(av.Inner, bv.Inner)
	case FuncType:
		bv, ok := b.(FuncType)
		if !ok || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !TypeEquals(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return TypeEquals(av.Result, bv.Result)
	case NullType:
		_, ok := b.(NullType)
		return ok
	default:
		return false
	}
}

// TypeExpr is the *syntactic* (pre-resolution) spelling of a type as
// written in source: a bare name (possibly module-qualified), a pointer
// suffix `*`, a nullable suffix `?`, or the reserved-and-rejected array
// suffix `[]`.
type TypeExprKind int

const (
	TENamed TypeExprKind = iota
	TEPointer
	TENullable
	TEArray // reserved, rejected by the parser with PAR-9401
)

// TypeExpr is produced by the parser and consumed by the signature
// resolver, which turns it into a resolved Type.
type TypeExpr struct {
	Kind       TypeExprKind
	ModulePath []string // qualifier segments before the final name, if any
	Name       string    // for TENamed
	Inner      *TypeExpr // for TEPointer/TENullable/TEArray
	Span       source.Span
}
