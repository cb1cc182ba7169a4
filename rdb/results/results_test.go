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

package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udparse/rdb"
	"udparse/uderror"
)

func TestDeserializeParsedSentence(t *testing.T) {
	src := &ParsedSentence{
		Tokens: []string{"hello"},
		Arcs:   []Arc{{Dependent: 1, Head: 0, Label: "root", ScoreMargin: 0.5}},
	}
	wr, err := rdb.CreateWorkerResult(src)
	require.NoError(t, err)
	assert.Equal(t, rdb.ResultTypeParsedSentence, wr.ResultType)

	ans, err := DeserializeParsedSentence(wr)
	require.NoError(t, err)
	assert.Equal(t, src.Tokens, ans.Tokens)
	assert.Equal(t, src.Arcs, ans.Arcs)
	assert.Empty(t, ans.Error)
}

func TestDeserializeErrorResult(t *testing.T) {
	wr, err := rdb.CreateWorkerResult(&ErrorResult{Func: "parseSentence", Error: "worker panicked"})
	require.NoError(t, err)
	assert.True(t, wr.HasUserError)

	_, err = DeserializeParsedSentence(wr)
	assert.EqualError(t, err, "worker panicked")
}

func TestDeserializedResponseKeepsWorkerError(t *testing.T) {
	// a worker can reject a sentence its own config considers too
	// long; the error must survive the round trip so the API side
	// can answer with an error status
	src := &ParsedSentence{
		Tokens: []string{"hello"},
		Error:  uderror.InputError{Msg: "sentence too long: 5 tokens (max 3)"},
	}
	wr, err := rdb.CreateWorkerResult(src)
	require.NoError(t, err)
	assert.True(t, wr.HasUserError)

	ans, err := DeserializeParsedSentence(wr)
	require.NoError(t, err)
	require.Error(t, ans.Err())
	assert.EqualError(t, ans.Err(), "sentence too long: 5 tokens (max 3)")
}

func TestDeserializeTypeMismatch(t *testing.T) {
	wr, err := rdb.CreateWorkerResult(&TokenizedText{Tokens: []string{"a"}})
	require.NoError(t, err)

	_, err = DeserializeParsedSentence(wr)
	assert.ErrorContains(t, err, "unexpected result type")
}
