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
	"sort"

	"github.com/googlielmo/dea-lang-l0-sub000/pkg/ast"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/diag"
	"github.com/googlielmo/dea-lang-l0-sub000/pkg/resolve"
)

// typeKind distinguishes a struct from an enum declaration in the emission
// order, since both share the resolve.Key namespace of (module, name).
type typeKind int

const (
	kindStruct typeKind = iota
	kindEnum
)

// orderedType is one entry of the whole-program type-definition order.
type orderedType struct {
	resolve.Key
	Kind typeKind
}

// typeDeclOrder implements spec.md §4.8's "all type definitions are
// emitted in value-type-dependency order (Kahn topological sort)", the
// same value-field graph pkg/resolve's own cycle detector walks, here
// producing the order itself rather than merely checking for cycles — by
// construction this never fails, since pkg/resolve already rejected any
// program with a cycle (SIG-0040) before the emitter runs; an unexpected
// leftover cycle here is an ICE, not a diagnostic.
func typeDeclOrder(sigs *resolve.Result) ([]orderedType, *diag.ICE) {
	edges := make(map[resolve.Key][]resolve.Key)
	indeg := make(map[resolve.Key]int)
	kinds := make(map[resolve.Key]typeKind)
	var nodes []resolve.Key

	addNode := func(k resolve.Key, kind typeKind) {
		if _, ok := indeg[k]; !ok {
			indeg[k] = 0
			nodes = append(nodes, k)
			kinds[k] = kind
		}
	}
	addEdge := func(from, to resolve.Key) {
		edges[from] = append(edges[from], to)
		indeg[to]++
	}
	valueTargets := func(t ast.Type) []resolve.Key {
		var out []resolve.Key
		var walk func(ast.Type)
		walk = func(t ast.Type) {
			switch v := t.(type) {
			case ast.StructType:
				out = append(out, resolve.Key{Module: v.Module, Name: v.Name})
			case ast.EnumType:
				out = append(out, resolve.Key{Module: v.Module, Name: v.Name})
			case ast.NullableType:
				walk(v.Inner)
			}
		}
		walk(t)
		return out
	}

	for k := range sigs.StructInfos {
		addNode(k, kindStruct)
	}
	for k := range sigs.EnumInfos {
		addNode(k, kindEnum)
	}
	for k, fields := range sigs.StructInfos {
		for _, f := range fields {
			for _, to := range valueTargets(f.Type) {
				addEdge(to, k) // to must be defined before k
			}
		}
	}
	for k, info := range sigs.EnumInfos {
		for _, fieldTypes := range info.Variants {
			for _, ft := range fieldTypes {
				for _, to := range valueTargets(ft) {
					addEdge(to, k)
				}
			}
		}
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Module != nodes[j].Module {
			return nodes[i].Module < nodes[j].Module
		}
		return nodes[i].Name < nodes[j].Name
	})

	queue := make([]resolve.Key, 0, len(nodes))
	for _, n := range nodes {
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}
	var order []orderedType
	for len(queue) > 0 {
		sort.Slice(queue, func(i, j int) bool {
			if queue[i].Module != queue[j].Module {
				return queue[i].Module < queue[j].Module
			}
			return queue[i].Name < queue[j].Name
		})
		n := queue[0]
		queue = queue[1:]
		order = append(order, orderedType{Key: n, Kind: kinds[n]})
		targets := append([]resolve.Key{}, edges[n]...)
		sort.Slice(targets, func(i, j int) bool {
			if targets[i].Module != targets[j].Module {
				return targets[i].Module < targets[j].Module
			}
			return targets[i].Name < targets[j].Name
		})
		for _, to := range targets {
			indeg[to]--
			if indeg[to] == 0 {
				queue = append(queue, to)
			}
		}
	}
	if len(order) != len(nodes) {
		return nil, diag.NewICE("ICE-0010", "value-type dependency graph has a cycle at emission time; this should have been rejected by SIG-0040")
	}
	return order, nil
}
