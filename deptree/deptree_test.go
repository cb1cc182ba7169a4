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

package deptree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"udparse/parser"
)

func TestEntitySubtreeExcludesApposition(t *testing.T) {
	// Customs and Border Protection ( CBP ) released the data
	tokens := []string{
		"Customs", "and", "Border", "Protection", "(", "CBP", ")",
		"released", "the", "data",
	}
	tags := []string{"NNP", "CC", "NNP", "NNP", "-LRB-", "NNP", "-RRB-", "VBD", "DT", "NNS"}
	arcs := []parser.Arc{
		{Dependent: 1, Head: 8, Label: "nsubj"},
		{Dependent: 2, Head: 4, Label: "cc"},
		{Dependent: 3, Head: 4, Label: "compound"},
		{Dependent: 4, Head: 1, Label: "conj"},
		{Dependent: 5, Head: 6, Label: "punct"},
		{Dependent: 6, Head: 1, Label: "appos"},
		{Dependent: 7, Head: 6, Label: "punct"},
		{Dependent: 8, Head: 0, Label: "root"},
		{Dependent: 9, Head: 10, Label: "det"},
		{Dependent: 10, Head: 8, Label: "obj"},
	}
	tree := NewTree(arcs, tokens, tags)

	sub := tree.EntitySubtree(1)
	assert.Equal(t, []string{"Customs", "and", "Border", "Protection"}, sub.Tokens)
	assert.Equal(t, []int{1, 2, 3, 4}, sub.Indices)
	assert.NotContains(t, sub.Tokens, "CBP")
	assert.NotContains(t, sub.Tokens, "(")
	assert.NotContains(t, sub.Tokens, ")")

	assert.Equal(t, []string{"CBP"}, tree.Appositions(1))
}

func TestEntitySubtreeStopsAtRelativeClause(t *testing.T) {
	// the doctor who treated the patient left
	tokens := []string{"the", "doctor", "who", "treated", "the", "patient", "left"}
	tags := []string{"DT", "NN", "WP", "VBD", "DT", "NN", "VBD"}
	arcs := []parser.Arc{
		{Dependent: 1, Head: 2, Label: "det"},
		{Dependent: 2, Head: 7, Label: "nsubj"},
		{Dependent: 3, Head: 4, Label: "nsubj"},
		{Dependent: 4, Head: 2, Label: "acl:relcl"},
		{Dependent: 5, Head: 6, Label: "det"},
		{Dependent: 6, Head: 4, Label: "obj"},
		{Dependent: 7, Head: 0, Label: "root"},
	}
	tree := NewTree(arcs, tokens, tags)

	sub := tree.EntitySubtree(2)
	assert.Equal(t, []string{"the", "doctor"}, sub.Tokens)
	assert.Equal(t, []int{1, 2}, sub.Indices)
}

func TestEntitySubtreeNestedDependents(t *testing.T) {
	// a component of DHS
	tokens := []string{"a", "component", "of", "DHS"}
	tags := []string{"DT", "NN", "IN", "NNP"}
	arcs := []parser.Arc{
		{Dependent: 1, Head: 2, Label: "det"},
		{Dependent: 2, Head: 0, Label: "root"},
		{Dependent: 3, Head: 4, Label: "case"},
		{Dependent: 4, Head: 2, Label: "nmod"},
	}
	tree := NewTree(arcs, tokens, tags)

	sub := tree.EntitySubtree(2)
	assert.Equal(t, []string{"a", "component", "of", "DHS"}, sub.Tokens)
}

func TestEntitySubtreeTerminatesOnCyclicArcs(t *testing.T) {
	// arcs built by hand, not by the parser, may form a cycle
	tokens := []string{"red", "tape"}
	tags := []string{"JJ", "NN"}
	arcs := []parser.Arc{
		{Dependent: 1, Head: 2, Label: "amod"},
		{Dependent: 2, Head: 1, Label: "nmod"},
	}
	tree := NewTree(arcs, tokens, tags)

	sub := tree.EntitySubtree(2)
	assert.Equal(t, []string{"red", "tape"}, sub.Tokens)
	assert.Equal(t, []int{1, 2}, sub.Indices)
}

func TestAppositionsEmpty(t *testing.T) {
	tokens := []string{"the", "doctor"}
	tags := []string{"DT", "NN"}
	arcs := []parser.Arc{
		{Dependent: 1, Head: 2, Label: "det"},
		{Dependent: 2, Head: 0, Label: "root"},
	}
	tree := NewTree(arcs, tokens, tags)
	assert.Empty(t, tree.Appositions(2))
}

func TestTokenAndTagLookups(t *testing.T) {
	tree := NewTree(
		[]parser.Arc{{Dependent: 1, Head: 0, Label: "root"}},
		[]string{"hello"},
		[]string{"UH"},
	)
	assert.Equal(t, "hello", tree.Token(1))
	assert.Equal(t, "UH", tree.Tag(1))
	assert.Equal(t, "root", tree.Label(1))
	assert.Equal(t, "", tree.Token(0))
	assert.Equal(t, "", tree.Token(2))
}
