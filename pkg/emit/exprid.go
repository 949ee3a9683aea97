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

import "github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"

// exprID extracts the ExprID every concrete ast.Expr carries, mirroring
// pkg/check's own private helper of the same name and shape — the emitter
// needs it to look its expressions' resolved types up in check.Result.
func exprID(e ast.Expr) ast.ExprID {
	switch v := e.(type) {
	case *ast.VarRefExpr:
		return v.ID
	case *ast.IntLitExpr:
		return v.ID
	case *ast.ByteLitExpr:
		return v.ID
	case *ast.BoolLitExpr:
		return v.ID
	case *ast.StringLitExpr:
		return v.ID
	case *ast.NullLitExpr:
		return v.ID
	case *ast.UnaryExpr:
		return v.ID
	case *ast.BinaryExpr:
		return v.ID
	case *ast.CallExpr:
		return v.ID
	case *ast.IndexExpr:
		return v.ID
	case *ast.FieldExpr:
		return v.ID
	case *ast.CastExpr:
		return v.ID
	case *ast.NewExpr:
		return v.ID
	case *ast.TryExpr:
		return v.ID
	case *ast.TypeExprArg:
		return v.ID
	case *ast.IntrinsicExpr:
		return v.ID
	case *ast.ParenExpr:
		return v.ID
	default:
		return 0
	}
}
