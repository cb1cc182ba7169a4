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

package ud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidLabel(t *testing.T) {
	assert.True(t, IsValidLabel("nsubj"))
	assert.True(t, IsValidLabel("nsubj:pass"))
	assert.True(t, IsValidLabel("root"))
	assert.False(t, IsValidLabel("subj"))
	assert.False(t, IsValidLabel(""))
	assert.False(t, IsValidLabel("NSUBJ"))
}

func TestLabelFor(t *testing.T) {
	info, ok := LabelFor("nsubj")
	assert.True(t, ok)
	assert.Equal(t, "agent-like", info.Role)

	info, ok = LabelFor("obl:agent")
	assert.True(t, ok)
	assert.Equal(t, "agent-like", info.Role)

	info, ok = LabelFor("nsubj:pass")
	assert.True(t, ok)
	assert.Equal(t, "patient-like", info.Role)

	_, ok = LabelFor("not-a-label")
	assert.False(t, ok)
}

func TestObliqueRoleFor(t *testing.T) {
	role, ok := ObliqueRoleFor("with")
	assert.True(t, ok)
	assert.Equal(t, "instrument", role)

	role, ok = ObliqueRoleFor("by")
	assert.True(t, ok)
	assert.Equal(t, "agent", role)

	_, ok = ObliqueRoleFor("beneath")
	assert.False(t, ok)
}

func TestAllLabelsSortedAndDetached(t *testing.T) {
	labels := AllLabels()
	assert.True(t, len(labels) > 40)
	for i := 1; i < len(labels); i++ {
		assert.True(t, labels[i-1] < labels[i])
	}
	labels[0] = "zzz"
	assert.NotEqual(t, "zzz", AllLabels()[0])
}
