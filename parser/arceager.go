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

import (
	"strings"

	"udparse/ud"
)

// Transition names follow the model inventory convention:
// "SH" (shift), "RE" (reduce), "LA-<label>" (left attach + pop),
// "RA-<label>" (right attach + push).
const (
	transShift  = "SH"
	transReduce = "RE"
	laPrefix    = "LA-"
	raPrefix    = "RA-"
)

// isLegal tests the arc-eager precondition of a transition in the
// given configuration:
//
//	SH  buffer non-empty
//	RE  stack top has a head already (which also rules out ROOT)
//	LA  buffer non-empty, stack top is not ROOT and has no head yet
//	RA  buffer non-empty; the "root" relation additionally requires
//	    stack top == ROOT and no prior root arc
func isLegal(c *configuration, transition string) bool {
	switch {
	case transition == transShift:
		return !c.bufferEmpty()
	case transition == transReduce:
		top := c.stackTop()
		return top != 0 && c.hasHead[top]
	case strings.HasPrefix(transition, laPrefix):
		top := c.stackTop()
		if c.bufferEmpty() || top == 0 || c.hasHead[top] {
			return false
		}
		return transition[len(laPrefix):] != ud.RootLabel
	case strings.HasPrefix(transition, raPrefix):
		if c.bufferEmpty() {
			return false
		}
		if transition[len(raPrefix):] == ud.RootLabel {
			return c.stackTop() == 0 && !c.hasRootArc()
		}
		return true
	}
	return false
}

// apply advances the configuration by one transition, recording the
// margin on any arc created. Callers must check isLegal first.
func apply(c *configuration, transition string, margin float64) {
	switch {
	case transition == transShift:
		c.stackPush(c.bufferPop())
	case transition == transReduce:
		c.stackPop()
	case strings.HasPrefix(transition, laPrefix):
		dependent := c.stackPop()
		c.addArc(dependent, c.bufferFront(), transition[len(laPrefix):], margin)
	case strings.HasPrefix(transition, raPrefix):
		head := c.stackTop()
		dependent := c.bufferPop()
		c.addArc(dependent, head, transition[len(raPrefix):], margin)
		c.stackPush(dependent)
	}
}

// createsArc tells whether a transition adds an arc (and therefore
// whether the step margin must be recorded on it).
func createsArc(transition string) bool {
	return strings.HasPrefix(transition, laPrefix) || strings.HasPrefix(transition, raPrefix)
}
