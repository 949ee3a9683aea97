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

import (
	"strconv"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
)

// emitRetain emits the statement(s) that structurally retain the
// ARC-relevant data reachable from the C lvalue named by cExpr (an
// identifier, a dereference such as "(*p)", or a field-access chain built
// on either), per spec.md's "copying one
// into a new owner triggers a structural retain over all ARC-relevant
// subfields". A plain string retains directly; a struct/enum/nullable
// recurses into whichever parts actually carry string data.
func (fc *funcCtx) emitRetain(cExpr string, t ast.Type) {
	fc.walkArc(cExpr, t, true)
}

// emitRelease is emitRetain's mirror, used at scope exit and on
// reassignment of an ARC destination's old value.
func (fc *funcCtx) emitRelease(cExpr string, t ast.Type) {
	fc.walkArc(cExpr, t, false)
}

func (fc *funcCtx) walkArc(cExpr string, t ast.Type, retain bool) {
	if !hasArcData(t, fc.arcSigs) {
		return
	}
	switch v := t.(type) {
	case ast.BuiltinType:
		if v.Kind == ast.StringK {
			if retain {
				fc.buf.Line("rt_string_retain(%s);", cExpr)
			} else {
				fc.buf.Line("rt_string_release(%s);", cExpr)
			}
		}
	case ast.NullableType:
		if isNiche(v.Inner) {
			return // pointee cleanup is explicit drop, not scope ARC
		}
		fc.buf.Line("if (%s.has_value) {", cExpr)
		fc.buf.Indent()
		fc.walkArc(cExpr+".value", v.Inner, retain)
		fc.buf.Dedent()
		fc.buf.Line("}")
	case ast.StructType:
		fields, ok := fc.prog.arc.fieldTypesOf(v.Module, v.Name)
		if !ok {
			return
		}
		infoFields := fc.prog.sigs.StructInfos[structKey(v.Module, v.Name)]
		for i, ft := range fields {
			if !hasArcData(ft, fc.arcSigs) {
				continue
			}
			fc.walkArc(cExpr+"."+MangleLocal(infoFields[i].Name), ft, retain)
		}
	case ast.EnumType:
		info := fc.prog.sigs.EnumInfos[structKey(v.Module, v.Name)]
		if info == nil {
			return
		}
		tag := MangleEnumTag(v.Module, v.Name)
		fc.buf.Line("switch (%s.tag) {", cExpr)
		fc.buf.Indent()
		for _, vn := range info.VariantOrder {
			fieldTypes := info.Variants[vn]
			arcFields := false
			for _, ft := range fieldTypes {
				if hasArcData(ft, fc.arcSigs) {
					arcFields = true
					break
				}
			}
			if !arcFields {
				continue
			}
			fc.buf.Line("case %s_%s:", tag, vn)
			fc.buf.Indent()
			for i, ft := range fieldTypes {
				if !hasArcData(ft, fc.arcSigs) {
					continue
				}
				field := cExpr + ".data." + vn + ".f" + strconv.Itoa(i)
				fc.walkArc(field, ft, retain)
			}
			fc.buf.Line("break;")
			fc.buf.Dedent()
		}
		fc.buf.Line("default: break;")
		fc.buf.Dedent()
		fc.buf.Line("}")
	}
}
