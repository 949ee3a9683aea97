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

// Package lex turns a source.File into a flat token sequence (spec.md
// §3–4.1). The scanner combinators below are a direct generalisation of
// the rune-matching combinators our teacher built for its own hand-rolled
// lexers (pkg/util/source/lex, pkg/asm/assembler/lexer.go): a Scanner is
// "how many items matched, or zero for no match", and larger scanners
// compose smaller ones.
package lex

import "cmp"

// Scanner is a function which reports how many leading items of its input
// it accepts, or zero for "no match".
type Scanner[T any] func(items []T) uint

// And succeeds only if every scanner succeeds, reporting the length of
// the longest individual match (matching the teacher's own And, which is
// used to combine "shape" scanners where sub-matches may overlap).
func And[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := uint(0)
		for _, s := range scanners {
			m := s(items)
			if m == 0 {
				return 0
			}
			n = max(n, m)
		}
		return n
	}
}

// Or succeeds if any scanner succeeds, trying each in turn.
func Or[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		for _, s := range scanners {
			if n := s(items); n > 0 {
				return n
			}
		}
		return 0
	}
}

// Unit matches a literal fixed sequence of items.
func Unit[T comparable](items ...T) Scanner[T] {
	return func(in []T) uint {
		if len(in) < len(items) {
			return 0
		}
		for i := range items {
			if in[i] != items[i] {
				return 0
			}
		}
		return uint(len(items))
	}
}

// Within accepts any single item in the inclusive range [lowest,highest].
func Within[T cmp.Ordered](lowest, highest T) Scanner[T] {
	return func(items []T) uint {
		if len(items) != 0 && lowest <= items[0] && items[0] <= highest {
			return 1
		}
		return 0
	}
}

// Any matches exactly one item, unconditionally (used for the character
// following a backslash inside escaped literal bodies, where validation
// is deferred to the dedicated decoder per spec.md §4.1).
func Any[T any]() Scanner[T] {
	return func(items []T) uint {
		if len(items) != 0 {
			return 1
		}
		return 0
	}
}

// NoneOf matches exactly one item, provided it is none of the excluded
// values.
func NoneOf[T comparable](excluded ...T) Scanner[T] {
	return func(items []T) uint {
		if len(items) == 0 {
			return 0
		}
		for _, e := range excluded {
			if items[0] == e {
				return 0
			}
		}
		return 1
	}
}

// Many matches zero or more repetitions of the given scanner.
func Many[T any](s Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)
		for index < uint(len(items)) {
			n := s(items[index:])
			if n == 0 {
				break
			}
			index += n
		}
		return index
	}
}

// Many1 matches one or more repetitions of the given scanner.
func Many1[T any](s Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := s(items)
		if n == 0 {
			return 0
		}
		return n + Many(s)(items[n:])
	}
}

// Until matches everything up to (but not including) the next occurrence
// of item, or the whole remaining input if item never occurs.
func Until[T comparable](item T) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)
		for index < uint(len(items)) {
			if items[index] == item {
				break
			}
			index++
		}
		return index
	}
}

// Eof matches only the empty input.
func Eof[T any]() Scanner[T] {
	return func(items []T) uint {
		if len(items) == 0 {
			return 1
		}
		return 0
	}
}

// Sequence matches each scanner in turn, each consuming where the
// previous left off; every stage (including the last) must match at
// least one item.
func Sequence[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := uint(0)
		for _, s := range scanners {
			if n == uint(len(items)) {
				return 0
			}
			m := s(items[n:])
			if m == 0 {
				return 0
			}
			n += m
		}
		return n
	}
}

// SequenceNullableLast is Sequence except the final stage is allowed to
// match zero items. Used for "unterminated" fallback scanners: everything
// up to the point of failure still counts as a match.
func SequenceNullableLast[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := uint(0)
		for i, s := range scanners {
			last := i == len(scanners)-1
			if n == uint(len(items)) && !last {
				return 0
			}
			m := s(items[n:])
			if m == 0 && !last {
				return 0
			}
			n += m
		}
		return n
	}
}
