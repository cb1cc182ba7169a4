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

package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuotes(t *testing.T) {
	assert.Equal(t, "'hello'", Normalize("‘hello’"))
	assert.Equal(t, `"hello"`, Normalize("“hello”"))
	assert.Equal(t, `"low"`, Normalize("„low”"))
}

func TestNormalizeDashes(t *testing.T) {
	assert.Equal(t, "a -- b", Normalize("a—b"))
	assert.Equal(t, "1990-1995", Normalize("1990–1995"))
}

func TestNormalizeSpacesAndInvisibles(t *testing.T) {
	assert.Equal(t, "a b", Normalize("a b"))
	assert.Equal(t, "a b", Normalize("a b"))
	assert.Equal(t, "ab", Normalize("a​b"))
	assert.Equal(t, "ab", Normalize("a‌b"))
	assert.Equal(t, "ab", Normalize("a‍b"))
	assert.Equal(t, "ab", Normalize("\uFEFFab"))
	assert.Equal(t, "ab", Normalize("a­b"))
}

func TestNormalizeEllipsis(t *testing.T) {
	assert.Equal(t, "wait...", Normalize("wait…"))
}

func TestNormalizeASCIIPassThrough(t *testing.T) {
	input := `plain ASCII text with "quotes", (parens) and -- dashes.`
	assert.Equal(t, input, Normalize(input))
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"‘a’ — b…",
		"a b​",
		"already normalized -- text...",
	}
	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once))
	}
}
