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

// Decl is the closed sum of top-level declaration forms (spec.md §3):
// function, struct, enum, type alias, top-level let.
type Decl interface {
	DeclName() string
	DeclSpan() source.Span
}

// Param is one function parameter.
type Param struct {
	Name string
	Type *TypeExpr
	Span source.Span
}

// FuncDecl is a function or `extern` function declaration. Extern
// functions have no Body and are emitted under their bare source name
// (spec.md §4.8's ABI-boundary mangling rule).
type FuncDecl struct {
	Name       string
	Extern     bool
	Params     []Param
	ResultType *TypeExpr
	Body       *Block // nil iff Extern
	Span       source.Span
}

func (d *FuncDecl) DeclName() string        { return d.Name }
func (d *FuncDecl) DeclSpan() source.Span   { return d.Span }

// Field is one struct field, in declaration order.
type Field struct {
	Name string
	Type *TypeExpr
	Span source.Span
}

// StructDecl declares a struct type with ordered named fields.
type StructDecl struct {
	Name   string
	Fields []Field
	Span   source.Span
}

func (d *StructDecl) DeclName() string      { return d.Name }
func (d *StructDecl) DeclSpan() source.Span { return d.Span }

// Variant is one ordered, named enum variant with positional fields.
type Variant struct {
	Name   string
	Fields []*TypeExpr
	Span   source.Span
}

// EnumDecl declares a tagged-union enum with ordered variants.
type EnumDecl struct {
	Name     string
	Variants []Variant
	Span     source.Span
}

func (d *EnumDecl) DeclName() string      { return d.Name }
func (d *EnumDecl) DeclSpan() source.Span { return d.Span }

// AliasDecl is `type Name = Target;`.
type AliasDecl struct {
	Name   string
	Target *TypeExpr
	Span   source.Span
}

func (d *AliasDecl) DeclName() string      { return d.Name }
func (d *AliasDecl) DeclSpan() source.Span { return d.Span }

// LetDecl is a top-level `let`, optionally annotated.
type LetDecl struct {
	Name string
	Type *TypeExpr // nil if uninferred
	Init Expr
	Span source.Span
}

func (d *LetDecl) DeclName() string      { return d.Name }
func (d *LetDecl) DeclSpan() source.Span { return d.Span }

// Module is one parsed source file (spec.md §3): its declared dotted
// name, its import list, and its ordered top-level declarations.
type Module struct {
	Name     string
	Imports  []string
	Decls    []Decl
	Filename string
	Span     source.Span
}
