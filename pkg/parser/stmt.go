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
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/lex"
)

func (p *Parser) parseBlock() (*ast.Block, bool) {
	start, ok := p.expect(lex.LBrace, "PAR-0100")
	if !ok {
		return nil, false
	}
	var stmts []ast.Stmt
	for !p.check(lex.RBrace) && !p.check(lex.EOF) && !p.failed {
		s := p.parseStmt()
		if s == nil {
			return nil, false
		}
		stmts = append(stmts, s)
	}
	end, ok := p.expect(lex.RBrace, "PAR-0101")
	if !ok {
		return nil, false
	}
	return &ast.Block{Stmts: stmts, Span: start.Span.Merge(end.Span)}, true
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.peek().Kind {
	case lex.LBrace:
		b, ok := p.parseBlock()
		if !ok {
			return nil
		}
		return b
	case lex.KwLet:
		return p.parseLetStmt()
	case lex.KwIf:
		return p.parseIfStmt()
	case lex.KwWhile:
		return p.parseWhileStmt()
	case lex.KwFor:
		return p.parseForStmt()
	case lex.KwReturn:
		return p.parseReturnStmt()
	case lex.KwMatch:
		return p.parseMatchStmt()
	case lex.KwCase:
		return p.parseCaseStmt()
	case lex.KwWith:
		return p.parseWithStmt()
	case lex.KwDrop:
		return p.parseDropStmt()
	case lex.KwBreak:
		t := p.advance()
		if _, ok := p.expect(lex.Semicolon, "PAR-0110"); !ok {
			return nil
		}
		return &ast.BreakStmt{Span: t.Span}
	case lex.KwContinue:
		t := p.advance()
		if _, ok := p.expect(lex.Semicolon, "PAR-0111"); !ok {
			return nil
		}
		return &ast.ContinueStmt{Span: t.Span}
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.peek().Span
	p.advance() // 'let'
	name, _, ok := p.expectBindableName("PAR-0011")
	if !ok {
		return nil
	}
	var typ *ast.TypeExpr
	if p.match(lex.Colon) {
		typ, ok = p.parseTypeExpr()
		if !ok {
			return nil
		}
	}
	if _, ok := p.expect(lex.Assign, "PAR-0120"); !ok {
		return nil
	}
	init := p.parseExpr()
	if p.failed {
		return nil
	}
	end, ok := p.expect(lex.Semicolon, "PAR-0121")
	if !ok {
		return nil
	}
	return &ast.LetStmt{Name: name, Type: typ, Init: init, Span: start.Merge(end.Span)}
}

func (p *Parser) parseExprOrAssignStmt() ast.Stmt {
	start := p.peek().Span
	e := p.parseExpr()
	if p.failed {
		return nil
	}
	if p.match(lex.Assign) {
		value := p.parseExpr()
		if p.failed {
			return nil
		}
		end, ok := p.expect(lex.Semicolon, "PAR-0130")
		if !ok {
			return nil
		}
		return &ast.AssignStmt{Target: e, Value: value, Span: start.Merge(end.Span)}
	}
	end, ok := p.expect(lex.Semicolon, "PAR-0131")
	if !ok {
		return nil
	}
	return &ast.ExprStmt{Expr: e, Span: start.Merge(end.Span)}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.peek().Span
	p.advance() // 'if'
	if _, ok := p.expect(lex.LParen, "PAR-0140"); !ok {
		return nil
	}
	cond := p.parseExpr()
	if p.failed {
		return nil
	}
	if _, ok := p.expect(lex.RParen, "PAR-0141"); !ok {
		return nil
	}
	then, ok := p.parseBlock()
	if !ok {
		return nil
	}
	span := start.Merge(then.Span)
	var elseStmt ast.Stmt
	if p.match(lex.KwElse) {
		if p.check(lex.KwIf) {
			elseStmt = p.parseIfStmt()
		} else {
			elseStmt, ok = p.parseBlock()
			if !ok {
				return nil
			}
		}
		if elseStmt == nil {
			return nil
		}
		span = span.Merge(elseStmt.StmtSpan())
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: elseStmt, Span: span}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.peek().Span
	p.advance() // 'while'
	if _, ok := p.expect(lex.LParen, "PAR-0150"); !ok {
		return nil
	}
	cond := p.parseExpr()
	if p.failed {
		return nil
	}
	if _, ok := p.expect(lex.RParen, "PAR-0151"); !ok {
		return nil
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Span: start.Merge(body.Span)}
}

func (p *Parser) parseForStmt() ast.Stmt {
	start := p.peek().Span
	p.advance() // 'for'
	if _, ok := p.expect(lex.LParen, "PAR-0160"); !ok {
		return nil
	}
	var init ast.Stmt
	if !p.check(lex.Semicolon) {
		if p.check(lex.KwLet) {
			init = p.parseLetStmt()
		} else {
			e := p.parseExpr()
			if p.failed {
				return nil
			}
			if p.match(lex.Assign) {
				v := p.parseExpr()
				if p.failed {
					return nil
				}
				init = &ast.AssignStmt{Target: e, Value: v, Span: e.ExprSpan().Merge(v.ExprSpan())}
			} else {
				init = &ast.ExprStmt{Expr: e, Span: e.ExprSpan()}
			}
		}
		if init == nil {
			return nil
		}
	} else {
		if _, ok := p.expect(lex.Semicolon, "PAR-0161"); !ok {
			return nil
		}
	}
	var cond ast.Expr
	if !p.check(lex.Semicolon) {
		cond = p.parseExpr()
		if p.failed {
			return nil
		}
	}
	if _, ok := p.expect(lex.Semicolon, "PAR-0162"); !ok {
		return nil
	}
	var update ast.Stmt
	if !p.check(lex.RParen) {
		e := p.parseExpr()
		if p.failed {
			return nil
		}
		if p.match(lex.Assign) {
			v := p.parseExpr()
			if p.failed {
				return nil
			}
			update = &ast.AssignStmt{Target: e, Value: v, Span: e.ExprSpan().Merge(v.ExprSpan())}
		} else {
			update = &ast.ExprStmt{Expr: e, Span: e.ExprSpan()}
		}
	}
	if _, ok := p.expect(lex.RParen, "PAR-0163"); !ok {
		return nil
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil
	}
	return &ast.ForStmt{Init: init, Cond: cond, Update: update, Body: body, Span: start.Merge(body.Span)}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.advance() // 'return'
	var value ast.Expr
	if !p.check(lex.Semicolon) {
		value = p.parseExpr()
		if p.failed {
			return nil
		}
	}
	end, ok := p.expect(lex.Semicolon, "PAR-0170")
	if !ok {
		return nil
	}
	return &ast.ReturnStmt{Value: value, Span: start.Span.Merge(end.Span)}
}

func (p *Parser) parseMatchStmt() ast.Stmt {
	start := p.peek().Span
	p.advance() // 'match'
	if _, ok := p.expect(lex.LParen, "PAR-0180"); !ok {
		return nil
	}
	scrutinee := p.parseExpr()
	if p.failed {
		return nil
	}
	if _, ok := p.expect(lex.RParen, "PAR-0181"); !ok {
		return nil
	}
	if _, ok := p.expect(lex.LBrace, "PAR-0182"); !ok {
		return nil
	}
	var arms []ast.MatchArm
	for !p.check(lex.RBrace) {
		armStart := p.peek().Span
		if p.check(lex.KwElse) {
			p.advance()
			if _, ok := p.expect(lex.FatArrow, "PAR-0183"); !ok {
				return nil
			}
			body, ok := p.parseBlock()
			if !ok {
				return nil
			}
			arms = append(arms, ast.MatchArm{Wildcard: true, Body: body, Span: armStart.Merge(body.Span)})
			continue
		}
		vname, _, ok := p.expectBindableName("PAR-0184")
		if !ok {
			return nil
		}
		if _, ok := p.expect(lex.LParen, "PAR-0185"); !ok {
			return nil
		}
		var bindings []string
		for !p.check(lex.RParen) {
			if len(bindings) > 0 {
				if _, ok := p.expect(lex.Comma, "PAR-0186"); !ok {
					return nil
				}
			}
			bname, _, ok := p.expectBindableName("PAR-0187")
			if !ok {
				return nil
			}
			bindings = append(bindings, bname)
		}
		p.advance() // ')'
		if _, ok := p.expect(lex.FatArrow, "PAR-0188"); !ok {
			return nil
		}
		body, ok := p.parseBlock()
		if !ok {
			return nil
		}
		arms = append(arms, ast.MatchArm{Variant: vname, Bindings: bindings, Body: body, Span: armStart.Merge(body.Span)})
	}
	end := p.advance() // '}'
	if len(arms) == 0 {
		p.errorAt("PAR-0189", start.Merge(end.Span), "match must have at least one arm")
		return nil
	}
	return &ast.MatchStmt{Scrutinee: scrutinee, Arms: arms, Span: start.Merge(end.Span)}
}

func (p *Parser) parseCaseStmt() ast.Stmt {
	start := p.peek().Span
	p.advance() // 'case'
	if _, ok := p.expect(lex.LParen, "PAR-0190"); !ok {
		return nil
	}
	scrutinee := p.parseExpr()
	if p.failed {
		return nil
	}
	if _, ok := p.expect(lex.RParen, "PAR-0191"); !ok {
		return nil
	}
	if _, ok := p.expect(lex.LBrace, "PAR-0192"); !ok {
		return nil
	}
	var arms []ast.CaseArm
	for !p.check(lex.RBrace) {
		armStart := p.peek().Span
		if p.check(lex.KwElse) {
			p.advance()
			if _, ok := p.expect(lex.FatArrow, "PAR-0193"); !ok {
				return nil
			}
			body, ok := p.parseBlock()
			if !ok {
				return nil
			}
			arms = append(arms, ast.CaseArm{IsElse: true, Body: body, Span: armStart.Merge(body.Span)})
			continue
		}
		lit := p.parseCaseLiteral()
		if p.failed {
			return nil
		}
		if _, ok := p.expect(lex.FatArrow, "PAR-0194"); !ok {
			return nil
		}
		body, ok := p.parseBlock()
		if !ok {
			return nil
		}
		arms = append(arms, ast.CaseArm{Literal: lit, Body: body, Span: armStart.Merge(body.Span)})
	}
	end := p.advance() // '}'
	if len(arms) == 0 {
		p.errorAt("PAR-0195", start.Merge(end.Span), "case must have at least one arm")
		return nil
	}
	return &ast.CaseStmt{Scrutinee: scrutinee, Arms: arms, Span: start.Merge(end.Span)}
}

// parseCaseLiteral accepts only the literal patterns spec.md §4.2 allows
// in a `case` arm (int/byte/bool/string), rejecting general expressions.
func (p *Parser) parseCaseLiteral() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case lex.IntLit, lex.ByteLit, lex.StringLit, lex.KwTrue, lex.KwFalse:
		return p.parsePrimary()
	default:
		p.errorAt("PAR-0196", tok.Span, "case arms accept only literal patterns, found %s", tok.Kind)
		return nil
	}
}

func (p *Parser) parseWithStmt() ast.Stmt {
	start := p.peek().Span
	p.advance() // 'with'
	if _, ok := p.expect(lex.LParen, "PAR-0200"); !ok {
		return nil
	}
	var items []ast.WithItem
	for !p.check(lex.RParen) {
		if len(items) > 0 {
			if _, ok := p.expect(lex.Comma, "PAR-0201"); !ok {
				return nil
			}
		}
		iname, ispan, ok := p.expectBindableName("PAR-0011")
		if !ok {
			return nil
		}
		var typ *ast.TypeExpr
		if p.match(lex.Colon) {
			typ, ok = p.parseTypeExpr()
			if !ok {
				return nil
			}
		}
		if _, ok := p.expect(lex.Assign, "PAR-0202"); !ok {
			return nil
		}
		init := p.parseExpr()
		if p.failed {
			return nil
		}
		item := ast.WithItem{Name: iname, Type: typ, Init: init, Span: ispan.Merge(init.ExprSpan())}
		if p.check(lex.KwCleanup) {
			p.advance()
			cleanup := p.parseStmt()
			if cleanup == nil {
				return nil
			}
			item.Cleanup = cleanup
			item.Span = item.Span.Merge(cleanup.StmtSpan())
		}
		items = append(items, item)
	}
	p.advance() // ')'
	body, ok := p.parseBlock()
	if !ok {
		return nil
	}
	span := start.Merge(body.Span)
	var cleanupBlock *ast.Block
	if p.check(lex.KwCleanup) {
		p.advance()
		cleanupBlock, ok = p.parseBlock()
		if !ok {
			return nil
		}
		span = span.Merge(cleanupBlock.Span)
	}
	return &ast.WithStmt{Items: items, Body: body, Cleanup: cleanupBlock, Span: span}
}

func (p *Parser) parseDropStmt() ast.Stmt {
	start := p.advance() // 'drop'
	name, _, ok := p.expectBindableName("PAR-0210")
	if !ok {
		return nil
	}
	end, ok := p.expect(lex.Semicolon, "PAR-0211")
	if !ok {
		return nil
	}
	return &ast.DropStmt{Name: name, Span: start.Span.Merge(end.Span)}
}
