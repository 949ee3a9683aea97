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

import "strings"

// reservedCIdents are the C99 keywords (plus the handful of identifiers the
// runtime header reserves) that a local identifier must never collide with
// verbatim.
var reservedCIdents = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "return": true, "short": true, "signed": true,
	"sizeof": true, "static": true, "struct": true, "switch": true,
	"typedef": true, "union": true, "unsigned": true, "void": true,
	"volatile": true, "while": true, "_Bool": true, "_Complex": true,
	"_Imaginary": true, "main": true, "NULL": true,
}

// moduleSlug turns a dotted module path into the underscore-joined form
// name mangling uses, e.g. "a.b.c" -> "a_b_c".
func moduleSlug(module string) string {
	return strings.ReplaceAll(module, ".", "_")
}

// MangleType names a struct's C type, per spec.md §4.8:
// "struct l0_<module-with-underscores>_<TypeName>".
func MangleType(module, name string) string {
	return "l0_" + moduleSlug(module) + "_" + name
}

// MangleEnumTag names an enum's discriminant-enum type.
func MangleEnumTag(module, name string) string {
	return MangleType(module, name) + "_tag"
}

// MangleFunc names a regular (non-extern) function: "l0_<module>_<name>".
func MangleFunc(module, name string) string {
	return "l0_" + moduleSlug(module) + "_" + name
}

// MangleExternFunc returns an extern function's bare source name: extern
// functions are emitted under their original spelling since they cross the
// C ABI boundary and must match a hand-written or linked declaration.
func MangleExternFunc(name string) string {
	return name
}

// MangleLet names a top-level let. The "l0_<module>_" prefix keeps the
// name clear of C keywords, so a keyword-named let needs no escape; "__v"
// is appended only if the prefixed form is itself a reserved C identifier.
func MangleLet(module, name string) string {
	mangled := "l0_" + moduleSlug(module) + "_" + name
	if reservedCIdents[mangled] {
		mangled += "__v"
	}
	return mangled
}

// MangleLocal names a local identifier (parameter or let-bound variable):
// unescaped unless it collides with a reserved C keyword, already begins
// with an escape prefix this emitter itself uses ("_" or "l0_"), or already
// ends with the escape suffix — in any of those cases "__v" is appended so
// repeated mangling of the same name stays stable and collision-free.
func MangleLocal(name string) string {
	if reservedCIdents[name] || strings.HasPrefix(name, "_") || strings.HasPrefix(name, "l0_") || strings.HasSuffix(name, "__v") {
		return name + "__v"
	}
	return name
}
