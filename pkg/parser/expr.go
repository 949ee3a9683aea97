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
	"strconv"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/lex"
)

// parseExpr is the lowest-precedence entry point (spec.md §4.2's operator
// table): `||` binds loosest, down through `&&`, equality, comparison,
// additive, multiplicative, unary, and postfix.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for left != nil && p.check(lex.OrOr) {
		p.advance()
		right := p.parseAnd()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{ID: p.newID(), Op: ast.BOr, Left: left, Right: right, Span: left.ExprSpan().Merge(right.ExprSpan())}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for left != nil && p.check(lex.AndAnd) {
		p.advance()
		right := p.parseEquality()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{ID: p.newID(), Op: ast.BAnd, Left: left, Right: right, Span: left.ExprSpan().Merge(right.ExprSpan())}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for left != nil {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case lex.EqEq:
			op = ast.BEq
		case lex.NotEq:
			op = ast.BNotEq
		default:
			return left
		}
		p.advance()
		right := p.parseComparison()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{ID: p.newID(), Op: op, Left: left, Right: right, Span: left.ExprSpan().Merge(right.ExprSpan())}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for left != nil {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case lex.Lt:
			op = ast.BLt
		case lex.LtEq:
			op = ast.BLtEq
		case lex.Gt:
			op = ast.BGt
		case lex.GtEq:
			op = ast.BGtEq
		default:
			return left
		}
		p.advance()
		right := p.parseAdditive()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{ID: p.newID(), Op: op, Left: left, Right: right, Span: left.ExprSpan().Merge(right.ExprSpan())}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for left != nil {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case lex.Plus:
			op = ast.BAdd
		case lex.Minus:
			op = ast.BSub
		default:
			return left
		}
		p.advance()
		right := p.parseMultiplicative()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{ID: p.newID(), Op: op, Left: left, Right: right, Span: left.ExprSpan().Merge(right.ExprSpan())}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for left != nil {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case lex.Star:
			op = ast.BMul
		case lex.Slash:
			op = ast.BDiv
		case lex.Percent:
			op = ast.BMod
		default:
			return left
		}
		p.advance()
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{ID: p.newID(), Op: op, Left: left, Right: right, Span: left.ExprSpan().Merge(right.ExprSpan())}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.peek().Kind {
	case lex.Minus:
		tok := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{ID: p.newID(), Op: ast.UNeg, Operand: operand, Span: tok.Span.Merge(operand.ExprSpan())}
	case lex.Bang:
		tok := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{ID: p.newID(), Op: ast.UNot, Operand: operand, Span: tok.Span.Merge(operand.ExprSpan())}
	case lex.Star:
		tok := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{ID: p.newID(), Op: ast.UDeref, Operand: operand, Span: tok.Span.Merge(operand.ExprSpan())}
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles the postfix tier of spec.md §4.2's precedence
// table: call, index, field access, cast (`as`), and try (`?`), chained
// left-to-right onto a primary expression.
func (p *Parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	if e == nil {
		return nil
	}
	for {
		switch p.peek().Kind {
		case lex.LParen:
			p.advance()
			var args []ast.Expr
			for !p.check(lex.RParen) {
				if len(args) > 0 {
					if _, ok := p.expect(lex.Comma, "PAR-0300"); !ok {
						return nil
					}
				}
				arg := p.parseExpr()
				if arg == nil {
					return nil
				}
				args = append(args, arg)
			}
			end := p.advance() // ')'
			e = &ast.CallExpr{ID: p.newID(), Callee: e, Args: args, Span: e.ExprSpan().Merge(end.Span)}
		case lex.LBracket:
			p.advance()
			idx := p.parseExpr()
			if idx == nil {
				return nil
			}
			end, ok := p.expect(lex.RBracket, "PAR-0301")
			if !ok {
				return nil
			}
			e = &ast.IndexExpr{ID: p.newID(), Base: e, Idx: idx, Span: e.ExprSpan().Merge(end.Span)}
		case lex.Dot:
			p.advance()
			name, span, ok := p.expectBindableName("PAR-0302")
			if !ok {
				return nil
			}
			e = &ast.FieldExpr{ID: p.newID(), Base: e, Field: name, Span: e.ExprSpan().Merge(span)}
		case lex.KwAs:
			p.advance()
			target, ok := p.parseTypeExpr()
			if !ok {
				return nil
			}
			e = &ast.CastExpr{ID: p.newID(), Base: e, Target: target, Span: e.ExprSpan().Merge(target.Span)}
		case lex.Question:
			tok := p.advance()
			e = &ast.TryExpr{ID: p.newID(), Operand: e, Span: e.ExprSpan().Merge(tok.Span)}
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case lex.IntLit:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.errorAt("PAR-0310", tok.Span, "malformed integer literal %q", tok.Text)
			return nil
		}
		return &ast.IntLitExpr{ID: p.newID(), Value: int32(v), Span: tok.Span}
	case lex.ByteLit:
		p.advance()
		body := tok.Text[1 : len(tok.Text)-1]
		decoded, _ := lex.DecodeEscapes(body, p.module, p.filename, tok.Span)
		var v byte
		if len(decoded) > 0 {
			v = decoded[0]
		}
		return &ast.ByteLitExpr{ID: p.newID(), Value: v, Span: tok.Span}
	case lex.StringLit:
		p.advance()
		return &ast.StringLitExpr{ID: p.newID(), Raw: tok.Text, Span: tok.Span}
	case lex.KwTrue:
		p.advance()
		return &ast.BoolLitExpr{ID: p.newID(), Value: true, Span: tok.Span}
	case lex.KwFalse:
		p.advance()
		return &ast.BoolLitExpr{ID: p.newID(), Value: false, Span: tok.Span}
	case lex.KwNull:
		p.advance()
		return &ast.NullLitExpr{ID: p.newID(), Span: tok.Span}
	case lex.LParen:
		p.advance()
		inner := p.parseExpr()
		if inner == nil {
			return nil
		}
		end, ok := p.expect(lex.RParen, "PAR-0320")
		if !ok {
			return nil
		}
		return &ast.ParenExpr{ID: p.newID(), Inner: inner, Span: tok.Span.Merge(end.Span)}
	case lex.KwNew:
		return p.parseNewExpr()
	case lex.KwSizeof:
		p.advance()
		if _, ok := p.expect(lex.LParen, "PAR-0330"); !ok {
			return nil
		}
		arg := p.parseIntrinsicArg()
		if arg == nil {
			return nil
		}
		end, ok := p.expect(lex.RParen, "PAR-0331")
		if !ok {
			return nil
		}
		return &ast.IntrinsicExpr{ID: p.newID(), Kind: ast.ISizeof, Arg: arg, Span: tok.Span.Merge(end.Span)}
	case lex.KwOrd:
		p.advance()
		if _, ok := p.expect(lex.LParen, "PAR-0332"); !ok {
			return nil
		}
		arg := p.parseExpr()
		if arg == nil {
			return nil
		}
		end, ok := p.expect(lex.RParen, "PAR-0333")
		if !ok {
			return nil
		}
		return &ast.IntrinsicExpr{ID: p.newID(), Kind: ast.IOrd, Arg: arg, Span: tok.Span.Merge(end.Span)}
	case lex.Ident:
		qualifier, name, span, ok := p.parseModulePath()
		if !ok {
			return nil
		}
		return &ast.VarRefExpr{ID: p.newID(), ModulePath: qualifier, Name: name, Span: span}
	default:
		p.errorAt("PAR-0340", tok.Span, "expected an expression but found %s %q", tok.Kind, tok.Text)
		return nil
	}
}

// parseNewExpr parses `new T(args...)`.
func (p *Parser) parseNewExpr() ast.Expr {
	start := p.advance() // 'new'
	target, ok := p.parseTypeExpr()
	if !ok {
		return nil
	}
	if _, ok := p.expect(lex.LParen, "PAR-0350"); !ok {
		return nil
	}
	var args []ast.Expr
	for !p.check(lex.RParen) {
		if len(args) > 0 {
			if _, ok := p.expect(lex.Comma, "PAR-0351"); !ok {
				return nil
			}
		}
		a := p.parseExpr()
		if a == nil {
			return nil
		}
		args = append(args, a)
	}
	end := p.advance() // ')'
	return &ast.NewExpr{ID: p.newID(), Target: target, Args: args, Span: start.Span.Merge(end.Span)}
}

// parseIntrinsicArg implements spec.md §4.7's three accepted shapes for a
// `sizeof` argument. A builtin-keyword or pointer/nullable-suffixed name is
// unambiguously a type and is wrapped as a TypeExprArg; anything else is
// parsed as an ordinary expression, since a bare identifier is
// syntactically identical whether it names a type or a local (the checker
// resolves which it is).
func (p *Parser) parseIntrinsicArg() ast.Expr {
	if _, ok := builtinTypeKeywords[p.peek().Kind]; ok {
		te, ok := p.parseTypeExpr()
		if !ok {
			return nil
		}
		return &ast.TypeExprArg{ID: p.newID(), Type: te, Span: te.Span}
	}
	if p.check(lex.Ident) && (p.peekAt(1).Kind == lex.Star || p.peekAt(1).Kind == lex.Question) {
		te, ok := p.parseTypeExpr()
		if !ok {
			return nil
		}
		return &ast.TypeExprArg{ID: p.newID(), Type: te, Span: te.Span}
	}
	return p.parseExpr()
}
