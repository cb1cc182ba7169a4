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

package parser

import "udparse/ud"

// Arc attaches a dependent token to its head token under a UD
// relation. Head 0 is the virtual ROOT. ScoreMargin is the difference
// between the chosen and the runner-up transition score at the moment
// the arc was created (0 when there was a single legal option).
type Arc struct {
	Dependent   int     `json:"dependent"`
	Head        int     `json:"head"`
	Label       string  `json:"label"`
	ScoreMargin float64 `json:"scoreMargin"`
}

// Result is the complete arc set for one sentence - exactly one arc
// per real token, forming a tree rooted at the virtual ROOT.
type Result struct {
	Arcs []Arc `json:"arcs"`
}

// configuration is the incremental state of the arc-eager system:
// a stack of token indexes (ROOT at the bottom, top last), a buffer
// of not-yet-processed indexes (front first) and the arc set built
// so far.
type configuration struct {
	stack   []int
	buffer  []int
	arcs    []Arc
	hasHead []bool
	tags    []string
}

func newConfiguration(tags []string) *configuration {
	n := len(tags)
	buffer := make([]int, n)
	for i := range buffer {
		buffer[i] = i + 1
	}
	return &configuration{
		stack:   []int{0},
		buffer:  buffer,
		arcs:    make([]Arc, 0, n),
		hasHead: make([]bool, n+1),
		tags:    tags,
	}
}

func (c *configuration) stackTop() int {
	return c.stack[len(c.stack)-1]
}

func (c *configuration) stackPop() int {
	top := c.stackTop()
	c.stack = c.stack[:len(c.stack)-1]
	return top
}

func (c *configuration) stackPush(idx int) {
	c.stack = append(c.stack, idx)
}

func (c *configuration) bufferFront() int {
	return c.buffer[0]
}

func (c *configuration) bufferPop() int {
	front := c.buffer[0]
	c.buffer = c.buffer[1:]
	return front
}

func (c *configuration) bufferEmpty() bool {
	return len(c.buffer) == 0
}

func (c *configuration) addArc(dependent, head int, label string, margin float64) {
	c.arcs = append(c.arcs, Arc{
		Dependent:   dependent,
		Head:        head,
		Label:       label,
		ScoreMargin: margin,
	})
	c.hasHead[dependent] = true
}

// stackTopTag returns the POS tag of the stack top; the virtual ROOT
// reports the reserved tag "ROOT".
func (c *configuration) stackTopTag() string {
	if top := c.stackTop(); top > 0 {
		return c.tags[top-1]
	}
	return "ROOT"
}

func (c *configuration) hasRootArc() bool {
	for _, arc := range c.arcs {
		if arc.Head == 0 && arc.Label == ud.RootLabel {
			return true
		}
	}
	return false
}
