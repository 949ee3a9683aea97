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
	"testing"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/source"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func equalKinds(t *testing.T, got []Kind, want ...Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v vs %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexEmpty(t *testing.T) {
	toks, diags := Lex(source.NewFile("t.l0", ""), "t")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	equalKinds(t, kinds(toks), EOF)
}

func TestLexKeywordsAndPunctuation(t *testing.T) {
	toks, diags := Lex(source.NewFile("t.l0", "func main() -> int { return 0; }"), "t")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	equalKinds(t, kinds(toks),
		KwFunc, Ident, LParen, RParen, Arrow, KwInt, LBrace, KwReturn, IntLit, Semicolon, RBrace, EOF)
}

func TestLexContextSensitiveMinus(t *testing.T) {
	// After an operator, '-1' is a single negative literal.
	toks, _ := Lex(source.NewFile("t.l0", "x = -1;"), "t")
	equalKinds(t, kinds(toks), Ident, Assign, IntLit, Semicolon, EOF)
	if toks[2].Text != "-1" {
		t.Fatalf("expected absorbed negative literal, got %q", toks[2].Text)
	}
	// After an identifier, '-1' is subtraction: MINUS then INT.
	toks2, _ := Lex(source.NewFile("t.l0", "x - 1;"), "t")
	equalKinds(t, kinds(toks2), Ident, Minus, IntLit, Semicolon, EOF)
}

func TestLexIntegerOverflow(t *testing.T) {
	_, diags := Lex(source.NewFile("t.l0", "2147483648;"), "t")
	if len(diags) != 1 || diags[0].Code != "LEX-0060" {
		t.Fatalf("expected LEX-0060, got %v", diags)
	}
	_, diags = Lex(source.NewFile("t.l0", "2147483647;"), "t")
	if len(diags) != 0 {
		t.Fatalf("boundary literal should be accepted, got %v", diags)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	_, diags := Lex(source.NewFile("t.l0", "\"abc"), "t")
	if len(diags) != 1 || diags[0].Code != "LEX-0010" {
		t.Fatalf("expected LEX-0010, got %v", diags)
	}
}

func TestLexEmptyByteLiteral(t *testing.T) {
	_, diags := Lex(source.NewFile("t.l0", "''"), "t")
	if len(diags) != 1 || diags[0].Code != "LEX-0020" {
		t.Fatalf("expected LEX-0020, got %v", diags)
	}
}

func TestLexUnterminatedByteLiteral(t *testing.T) {
	_, diags := Lex(source.NewFile("t.l0", "'a"), "t")
	if len(diags) != 1 || diags[0].Code != "LEX-0021" {
		t.Fatalf("expected LEX-0021, got %v", diags)
	}
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	_, diags := Lex(source.NewFile("t.l0", "/* forgot to close"), "t")
	if len(diags) != 1 || diags[0].Code != "LEX-0070" {
		t.Fatalf("expected LEX-0070, got %v", diags)
	}
}

func TestLexReservedPunctuation(t *testing.T) {
	toks, diags := Lex(source.NewFile("t.l0", "a & b | c ^ d ~e a << b >> c"), "t")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	for _, want := range []Kind{Amp, Pipe, Caret, Tilde, Shl, Shr} {
		found := false
		for _, tok := range toks {
			if tok.Kind == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected reserved token %v to be lexed", want)
		}
		if !want.IsReservedPunctuation() {
			t.Fatalf("%v should report itself reserved", want)
		}
	}
}

func TestDecodeEscapes(t *testing.T) {
	got, diags := DecodeEscapes(`a\nb\tc`, "t", "t.l0", source.Span{})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if got != "a\nb\tc" {
		t.Fatalf("got %q", got)
	}
	_, diags = DecodeEscapes(`\q`, "t", "t.l0", source.Span{})
	if len(diags) != 1 || diags[0].Code != "LEX-0050" {
		t.Fatalf("expected LEX-0050, got %v", diags)
	}
}
