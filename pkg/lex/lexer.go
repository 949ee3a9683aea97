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
package lex

import (
	"fmt"
	"strings"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/diag"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/source"
)

// identStart / identCont mirror the teacher's identifierStart /
// identifierRest split (pkg/asm/assembler/lexer.go), just without the
// single-quote alternative (the source language has no quoted
// identifiers).
var identStart = Or(Unit[rune]('_'), Within[rune]('a', 'z'), Within[rune]('A', 'Z'))
var identContChar = Or(Unit[rune]('_'), Within[rune]('a', 'z'), Within[rune]('A', 'Z'), Within[rune]('0', '9'))
var identCont = Many(identContChar)
var identifier = And(identStart, identCont)
var digit = Within[rune]('0', '9')

// cannotPrecedeBinaryMinus classifies tokens after which a following '-'
// cannot be a binary operator: start-of-file, any open punctuation, or
// any other operator (spec.md §4.1's context-sensitive minus rule).
func cannotPrecedeBinaryMinus(k Kind, have bool) bool {
	if !have {
		return true
	}
	switch k {
	case Ident, IntLit, ByteLit, StringLit, RParen, RBracket, RBrace,
		KwTrue, KwFalse, KwNull, KwInt, KwByte, KwBool, KwString, KwVoid:
		return false
	default:
		return true
	}
}

// lineIndex precomputes, for a file, the rune offset at which each
// 1-indexed line begins, so offsets can be converted to (line,column) in
// O(log n) without re-walking the file per token.
type lineIndex struct {
	starts []int
}

func newLineIndex(contents []rune) *lineIndex {
	starts := []int{0}
	for i, r := range contents {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts}
}

func (li *lineIndex) position(offset int) source.Position {
	// Linear scan is fine here: called only when materialising token
	// spans, a small multiple of the token count, never re-entered per
	// character.
	line := 1
	for i := len(li.starts) - 1; i >= 0; i-- {
		if li.starts[i] <= offset {
			line = i + 1
			return source.Position{Line: line, Col: offset - li.starts[i] + 1}
		}
	}
	return source.Position{Line: 1, Col: offset + 1}
}

func (li *lineIndex) span(startOff, endOff int) source.Span {
	return source.Span{Start: li.position(startOff), End: li.position(endOff)}
}

// Lex tokenises an entire source.File, returning the non-comment,
// non-whitespace token stream plus any lexical diagnostics encountered.
// Errors do not stop tokenisation of the rest of the file; per spec.md
// §7.1 it is the parser that short-circuits a module on a lexer/parser
// error, not the lexer itself on a per-token basis.
func Lex(file *source.File, module string) ([]Token, []diag.Diagnostic) {
	contents := file.Contents()
	li := newLineIndex(contents)
	var tokens []Token
	var diags []diag.Diagnostic
	i := 0
	haveLast := false
	var lastKind Kind

	emit := func(kind Kind, start, end int) {
		tokens = append(tokens, Token{Kind: kind, Text: string(contents[start:end]), Span: li.span(start, end)})
		lastKind = kind
		haveLast = true
	}
	reportAt := func(code string, start, end int, format string, args ...any) {
		sp := li.span(start, end)
		diags = append(diags, diag.Errorf(code, module, file.Name(),
			diag.Pos{Line: sp.Start.Line, Col: sp.Start.Col}, diag.Pos{Line: sp.End.Line, Col: sp.End.Col},
			format, args...))
	}

	for i < len(contents) {
		rest := contents[i:]
		c := rest[0]

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
			continue
		case c == '/' && len(rest) > 1 && rest[1] == '/':
			i += int(Until[rune]('\n')(rest))
			continue
		case c == '/' && len(rest) > 1 && rest[1] == '*':
			n, ok := scanBlockComment(rest)
			if !ok {
				reportAt("LEX-0070", i, i+int(n), "unterminated block comment")
			}
			i += int(n)
			continue
		case c == '"':
			start := i
			n, ok := scanStringLiteral(rest)
			i += int(n)
			if !ok {
				reportAt("LEX-0010", start, i, "unterminated string literal")
				continue
			}
			emit(StringLit, start, i)
			continue
		case c == '\'':
			start := i
			n, kind := scanByteLiteral(rest)
			i += int(n)
			switch kind {
			case byteLitOK:
				emitByteLiteral(contents, start, i, reportAt, emit)
			case byteLitEmpty:
				reportAt("LEX-0020", start, i, "empty byte literal")
			case byteLitUnterminated:
				reportAt("LEX-0021", start, i, "unterminated byte literal")
			}
			continue
		case digit(rest) > 0 || (c == '-' && cannotPrecedeBinaryMinus(lastKind, haveLast) && len(rest) > 1 && digit(rest[1:]) > 0):
			start := i
			neg := false
			body := rest
			if c == '-' {
				neg = true
				body = rest[1:]
			}
			n := int(scanDigitRun(body))
			total := n
			if neg {
				total++
			}
			// Malformed digit run: a digit run glued directly to an
			// identifier-shaped continuation, e.g. "123abc".
			if rest2 := contents[i+total:]; len(rest2) > 0 && identContChar(rest2) > 0 {
				extra := int(identCont(rest2))
				total += extra
				i += total
				reportAt("LEX-0061", start, i, "malformed integer literal %q", string(contents[start:i]))
				continue
			}
			i += total
			if !checkIntRange(string(contents[start:i])) {
				reportAt("LEX-0060", start, i, "integer literal %q out of range for a 32-bit signed integer", string(contents[start:i]))
			}
			emit(IntLit, start, i)
			continue
		case identStart(rest) > 0:
			start := i
			n := int(identifier(rest))
			i += n
			text := string(contents[start:i])
			if kw, ok := keywordKinds[text]; ok {
				emit(kw, start, i)
			} else {
				emit(Ident, start, i)
			}
			continue
		default:
			n, kind := scanPunctuation(rest)
			if n == 0 {
				reportAt("LEX-0001", i, i+1, "unrecognised character %q", c)
				i++
				continue
			}
			emit(kind, i, i+int(n))
			i += int(n)
			continue
		}
	}
	emit(EOF, len(contents), len(contents))
	return tokens, diags
}

func scanDigitRun(items []rune) uint {
	return Many1(digit)(items)
}

// checkIntRange reports whether a decimal literal's text (possibly
// '-'-prefixed, from context-sensitive absorption) fits a 32-bit signed
// integer; spec.md's boundary test: 2^31-1 accepted, 2^31 rejected.
func checkIntRange(text string) bool {
	neg := strings.HasPrefix(text, "-")
	digits := strings.TrimPrefix(text, "-")
	// Strip leading zeros for magnitude comparison, but keep at least one.
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	const maxPos = "2147483647" // 2^31-1
	const maxNeg = "2147483648" // 2^31, only valid magnitude when negated
	limit := maxPos
	if neg {
		limit = maxNeg
	}
	if len(trimmed) != len(limit) {
		return len(trimmed) < len(limit)
	}
	return trimmed <= limit
}

func scanBlockComment(items []rune) (uint, bool) {
	if len(items) < 2 || items[0] != '/' || items[1] != '*' {
		return 0, true
	}
	for i := 2; i+1 < len(items); i++ {
		if items[i] == '*' && items[i+1] == '/' {
			return uint(i + 2), true
		}
	}
	return uint(len(items)), false
}

func scanStringLiteral(items []rune) (uint, bool) {
	if len(items) == 0 || items[0] != '"' {
		return 0, true
	}
	i := 1
	for i < len(items) {
		if items[i] == '\\' && i+1 < len(items) {
			i += 2
			continue
		}
		if items[i] == '"' {
			return uint(i + 1), true
		}
		if items[i] == '\n' {
			return uint(i), false
		}
		i++
	}
	return uint(i), false
}

type byteLitResult int

const (
	byteLitOK byteLitResult = iota
	byteLitEmpty
	byteLitUnterminated
)

func scanByteLiteral(items []rune) (uint, byteLitResult) {
	if len(items) == 0 || items[0] != '\'' {
		return 0, byteLitUnterminated
	}
	if len(items) >= 2 && items[1] == '\'' {
		return 2, byteLitEmpty
	}
	i := 1
	if i < len(items) && items[i] == '\\' && i+1 < len(items) {
		i += 2
	} else if i < len(items) {
		i++
	} else {
		return uint(i), byteLitUnterminated
	}
	if i < len(items) && items[i] == '\'' {
		return uint(i + 1), byteLitOK
	}
	return uint(i), byteLitUnterminated
}

func emitByteLiteral(contents []rune, start, end int, reportAt func(string, int, int, string, ...any), emit func(Kind, int, int)) {
	// Content is contents[start+1:end-1], either one rune or a backslash
	// escape pair; ASCII-ness is checked on the literal (unescaped) rune,
	// deferring full escape decoding to the LEX-005x decoder.
	body := contents[start+1 : end-1]
	check := body
	if len(body) == 2 && body[0] == '\\' {
		check = body[1:]
	}
	if len(check) > 0 && check[0] > 127 {
		reportAt("LEX-0030", start, end, "non-ASCII character in byte literal")
	}
	emit(ByteLit, start, end)
}

func scanPunctuation(items []rune) (uint, Kind) {
	type rule struct {
		text string
		kind Kind
	}
	// Longest-match-first, exactly as the teacher orders multi-char
	// operators before their single-char prefixes.
	rules := []rule{
		{"::", ColonColon}, {"->", Arrow}, {"=>", FatArrow},
		{"==", EqEq}, {"!=", NotEq}, {"<=", LtEq}, {">=", GtEq},
		{"&&", AndAnd}, {"||", OrOr}, {"<<", Shl}, {">>", Shr},
		{"(", LParen}, {")", RParen}, {"{", LBrace}, {"}", RBrace},
		{"[", LBracket}, {"]", RBracket}, {";", Semicolon}, {":", Colon},
		{",", Comma}, {".", Dot}, {"=", Assign}, {"<", Lt}, {">", Gt},
		{"+", Plus}, {"-", Minus}, {"*", Star}, {"/", Slash}, {"%", Percent},
		{"!", Bang}, {"?", Question}, {"&", Amp}, {"|", Pipe}, {"^", Caret}, {"~", Tilde},
	}
	for _, r := range rules {
		if n := Unit([]rune(r.text)...)(items); n > 0 {
			return n, r.kind
		}
	}
	return 0, EOF
}

// DecodeEscapes decodes the standard C-like escapes allowed inside string
// and byte literal bodies (spec.md §4.1's "dedicated decoder, LEX-005x
// family"), applied on demand rather than at tokenisation time.
func DecodeEscapes(raw string, module, filename string, span source.Span) (string, []diag.Diagnostic) {
	var out strings.Builder
	var diags []diag.Diagnostic
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' {
			out.WriteRune(runes[i])
			continue
		}
		if i+1 >= len(runes) {
			diags = append(diags, diag.Errorf("LEX-0051", module, filename,
				diag.Pos{Line: span.Start.Line, Col: span.Start.Col}, diag.Pos{Line: span.End.Line, Col: span.End.Col},
				"trailing backslash in literal"))
			break
		}
		i++
		switch runes[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case '0':
			out.WriteByte(0)
		case '\\':
			out.WriteByte('\\')
		case '\'':
			out.WriteByte('\'')
		case '"':
			out.WriteByte('"')
		default:
			diags = append(diags, diag.Errorf("LEX-0050", module, filename,
				diag.Pos{Line: span.Start.Line, Col: span.Start.Col}, diag.Pos{Line: span.End.Line, Col: span.End.Col},
				"unknown escape sequence %s", fmt.Sprintf("\\%c", runes[i])))
		}
	}
	return out.String(), diags
}
