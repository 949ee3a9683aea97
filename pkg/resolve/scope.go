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
package resolve

import (
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/loader"
)

// Scope is one node of the parent-linked scope tree built per function by
// BuildScopes (spec.md §4.6). Declarations within a single Scope are not
// checked for duplicates here — that is the type checker's job — this
// pass only records which names were introduced and where.
type Scope struct {
	Parent   *Scope
	Names    []string
	Children []*Scope
}

func newScope(parent *Scope) *Scope {
	return &Scope{Parent: parent}
}

func (s *Scope) declare(name string) {
	s.Names = append(s.Names, name)
}

func (s *Scope) child() *Scope {
	c := newScope(s)
	s.Children = append(s.Children, c)
	return c
}

// FuncScopes is the scope tree for one function: its root holds the
// parameters and the body's own top-level lets, and BlockScopes/MatchArms
// let later passes look up the scope belonging to a particular AST node.
type FuncScopes struct {
	Root        *Scope
	BlockScopes map[*ast.Block]*Scope
	MatchArms   map[*ast.MatchArm]*Scope
}

// BuildScopes walks every non-extern function in unit and returns its
// scope tree, keyed by (module, function name).
func BuildScopes(unit *loader.Unit) map[Key]*FuncScopes {
	out := make(map[Key]*FuncScopes)
	for name, m := range unit.Modules {
		for _, d := range m.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok || fd.Extern {
				continue
			}
			out[Key{name, fd.Name}] = BuildFuncScopes(fd)
		}
	}
	return out
}

// BuildFuncScopes builds the scope tree for a single function body. Params
// share the root scope with the body's direct lets, per spec.md §4.6.
func BuildFuncScopes(d *ast.FuncDecl) *FuncScopes {
	fs := &FuncScopes{
		BlockScopes: make(map[*ast.Block]*Scope),
		MatchArms:   make(map[*ast.MatchArm]*Scope),
	}
	if d.Extern || d.Body == nil {
		return fs
	}
	root := newScope(nil)
	for _, p := range d.Params {
		root.declare(p.Name)
	}
	fs.Root = root
	fs.BlockScopes[d.Body] = root
	walkBlockInto(d.Body, root, fs)
	return fs
}

// walkBlockInto populates scope with the block's own declarations and
// recurses into nested blocks/arms, each of which gets its own child
// scope rooted at scope.
func walkBlockInto(b *ast.Block, scope *Scope, fs *FuncScopes) {
	for _, st := range b.Stmts {
		walkStmt(st, scope, fs)
	}
}

func walkNestedBlock(b *ast.Block, parent *Scope, fs *FuncScopes) {
	if b == nil {
		return
	}
	child := parent.child()
	fs.BlockScopes[b] = child
	walkBlockInto(b, child, fs)
}

func walkStmt(st ast.Stmt, scope *Scope, fs *FuncScopes) {
	switch v := st.(type) {
	case *ast.LetStmt:
		scope.declare(v.Name)
	case *ast.AssignStmt, *ast.ExprStmt, *ast.BreakStmt, *ast.ContinueStmt, *ast.DropStmt:
		// no new bindings
	case *ast.IfStmt:
		walkNestedBlock(v.Then, scope, fs)
		switch e := v.Else.(type) {
		case *ast.Block:
			walkNestedBlock(e, scope, fs)
		case *ast.IfStmt:
			walkStmt(e, scope, fs)
		}
	case *ast.WhileStmt:
		walkNestedBlock(v.Body, scope, fs)
	case *ast.ForStmt:
		// The init/update clauses live in the loop's own child scope, per
		// spec.md §4.6's "each ... for body gets its own child scope" —
		// a `for (let i = 0; ...)` binds `i` visible to cond/update/body.
		loopScope := scope.child()
		if v.Init != nil {
			walkStmt(v.Init, loopScope, fs)
		}
		if v.Update != nil {
			walkStmt(v.Update, loopScope, fs)
		}
		fs.BlockScopes[v.Body] = loopScope.child()
		walkBlockInto(v.Body, fs.BlockScopes[v.Body], fs)
	case *ast.ReturnStmt:
		// no new bindings
	case *ast.MatchStmt:
		for i := range v.Arms {
			arm := &v.Arms[i]
			armScope := scope.child()
			for _, bind := range arm.Bindings {
				armScope.declare(bind)
			}
			fs.MatchArms[arm] = armScope
			if arm.Body != nil {
				fs.BlockScopes[arm.Body] = armScope
				walkBlockInto(arm.Body, armScope, fs)
			}
		}
	case *ast.CaseStmt:
		for i := range v.Arms {
			arm := &v.Arms[i]
			if arm.Body != nil {
				walkNestedBlock(arm.Body, scope, fs)
			}
		}
	case *ast.WithStmt:
		withScope := scope.child()
		for _, item := range v.Items {
			withScope.declare(item.Name)
			if item.Cleanup != nil {
				walkStmt(item.Cleanup, withScope, fs)
			}
		}
		fs.BlockScopes[v.Body] = withScope.child()
		walkBlockInto(v.Body, fs.BlockScopes[v.Body], fs)
		if v.Cleanup != nil {
			walkNestedBlock(v.Cleanup, scope, fs)
		}
	}
}
