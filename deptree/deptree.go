// Copyright 2024 UDPARSE contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package deptree answers subtree and apposition queries over a
// finished parse. A Tree is a read-only view rebuilt per sentence -
// downstream entity/act extraction uses it to pull entity spans out
// of the dependency structure.
package deptree

import (
	"sort"

	"udparse/parser"
)

// entityBoundaryLabels are the relations an entity subtree never
// crosses. Without the boundary a plain noun-phrase query would
// swallow an attached relative clause, copular predicate, apposition
// or stray punctuation.
var entityBoundaryLabels = map[string]bool{
	"acl":       true,
	"acl:relcl": true,
	"advcl":     true,
	"appos":     true,
	"ccomp":     true,
	"cop":       true,
	"mark":      true,
	"parataxis": true,
	"punct":     true,
}

// Subtree is an entity span: token surface forms plus their 1-based
// indexes, both in sentence order.
type Subtree struct {
	Tokens  []string `json:"tokens"`
	Indices []int    `json:"indices"`
}

type Tree struct {
	tokens   []string
	tags     []string
	children map[int][]int
	labels   map[int]string
}

// NewTree wraps a parse result. The arc set is indexed once; the tree
// itself never mutates afterwards.
func NewTree(arcs []parser.Arc, tokens []string, tags []string) *Tree {
	ans := &Tree{
		tokens:   tokens,
		tags:     tags,
		children: make(map[int][]int, len(arcs)),
		labels:   make(map[int]string, len(arcs)),
	}
	for _, arc := range arcs {
		ans.children[arc.Head] = append(ans.children[arc.Head], arc.Dependent)
		ans.labels[arc.Dependent] = arc.Label
	}
	for _, deps := range ans.children {
		sort.Ints(deps)
	}
	return ans
}

// Token returns the surface form of a 1-based token index, or the
// empty string for an index out of range.
func (t *Tree) Token(idx int) string {
	if idx < 1 || idx > len(t.tokens) {
		return ""
	}
	return t.tokens[idx-1]
}

// Tag returns the POS tag of a 1-based token index.
func (t *Tree) Tag(idx int) string {
	if idx < 1 || idx > len(t.tags) {
		return ""
	}
	return t.tags[idx-1]
}

// Label returns the dependency relation attaching a token to its
// head.
func (t *Tree) Label(idx int) string {
	return t.labels[idx]
}

// EntitySubtree collects headIndex and all its descendants without
// crossing the clause/punctuation boundary labels, so the result
// stays the bare entity phrase.
func (t *Tree) EntitySubtree(headIndex int) Subtree {
	var indices []int
	visited := make(map[int]bool)
	var collect func(idx int)
	collect = func(idx int) {
		// hand-built arc sets may contain cycles
		if visited[idx] {
			return
		}
		visited[idx] = true
		indices = append(indices, idx)
		for _, child := range t.children[idx] {
			if entityBoundaryLabels[t.labels[child]] {
				continue
			}
			collect(child)
		}
	}
	collect(headIndex)
	sort.Ints(indices)

	tokens := make([]string, len(indices))
	for i, idx := range indices {
		tokens[i] = t.Token(idx)
	}
	return Subtree{Tokens: tokens, Indices: indices}
}

// Appositions returns the surface form of every direct dependent of
// headIndex attached via `appos` - typically a bracketed alias or
// abbreviation - in sentence order.
func (t *Tree) Appositions(headIndex int) []string {
	var ans []string
	for _, child := range t.children[headIndex] {
		if t.labels[child] == "appos" {
			ans = append(ans, t.Token(child))
		}
	}
	return ans
}
