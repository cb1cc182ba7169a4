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

// extractFeatures derives the active feature keys from the current
// configuration. The feature vocabulary is fixed: a combined
// stack-top/buffer-front tag pair, the two single tags, a flag for a
// stack top that already has a head, and a flag for an exhausted
// buffer. Trained models key their weights by these exact strings.
func extractFeatures(c *configuration) []string {
	s0tag := c.stackTopTag()
	feats := make([]string, 0, 5)
	if c.bufferEmpty() {
		feats = append(feats, "buffer.empty")

	} else {
		b0tag := c.tags[c.bufferFront()-1]
		feats = append(feats, "s0.b0:"+s0tag+"."+b0tag, "b0:"+b0tag)
	}
	feats = append(feats, "s0:"+s0tag)
	if top := c.stackTop(); top != 0 && c.hasHead[top] {
		feats = append(feats, "s0.hashead")
	}
	return feats
}
