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

package worker

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udparse/model"
	"udparse/parser"
	"udparse/rdb"
	"udparse/rdb/results"
	"udparse/uderror"
)

// testModel builds a model whose tag-pair weights force the parser
// through a known transition sequence (weight 1 for the desired
// transition of each "s0tag.b0tag" pair, 0 elsewhere).
func testModel(pairActions map[string]string) *model.Model {
	transSet := map[string]bool{"SH": true, "RE": true}
	labelSet := map[string]bool{"root": true, "dep": true}
	weights := make(map[string]map[string]float64)
	for pair, action := range pairActions {
		transSet[action] = true
		if len(action) > 3 {
			labelSet[action[3:]] = true
		}
		weights["s0.b0:"+pair] = map[string]float64{action: 1.0}
	}
	transitions := make([]string, 0, len(transSet))
	for t := range transSet {
		transitions = append(transitions, t)
	}
	sort.Strings(transitions)
	labels := make([]string, 0, len(labelSet))
	for label := range labelSet {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return &model.Model{
		Version:   "test",
		Labelset:  "UD v2",
		TrainedOn: "UD_English-EWT",
		Provenance: model.Provenance{
			TrainCorpus:   "UD_English-EWT",
			CorpusVersion: "2.13",
			TrainDate:     "2024-03-18",
			UAS:           0.86,
			LAS:           0.83,
			OracleType:    "arc-eager static",
		},
		Labels:      labels,
		Transitions: transitions,
		Weights:     weights,
	}
}

func activeSentenceModel() *model.Model {
	return testModel(map[string]string{
		"ROOT.DT":  "SH",
		"DT.NN":    "LA-det",
		"ROOT.NN":  "SH",
		"NN.VBD":   "LA-nsubj",
		"ROOT.VBD": "RA-root",
		"VBD.DT":   "SH",
		"VBD.NN":   "RA-obj",
	})
}

func testWorker(m *model.Model, calibration *parser.CalibrationTable) *Worker {
	return &Worker{
		ID:             "worker-test",
		parser:         parser.NewParser(m, calibration),
		mdl:            m,
		maxSentenceLen: 64,
	}
}

func TestParseSentenceAction(t *testing.T) {
	w := testWorker(activeSentenceModel(), nil)
	ans := w.parseSentence(rdb.ParseSentenceArgs{
		Tokens: []string{"The", "doctor", "treated", "the", "patient"},
		Tags:   []string{"DT", "NN", "VBD", "DT", "NN"},
	})
	require.NoError(t, ans.Err())
	require.Len(t, ans.Arcs, 5)
	assert.Equal(t, results.Arc{Dependent: 3, Head: 0, Label: "root", ScoreMargin: 1.0}, ans.Arcs[2])
	for _, arc := range ans.Arcs {
		assert.Nil(t, arc.Probability)
	}
}

func TestParseSentenceWithProbabilities(t *testing.T) {
	calibration := &parser.CalibrationTable{
		Bins: []parser.CalibrationBin{
			{MarginLow: 0, MarginHigh: 0.5, Probability: 0.55},
			{MarginLow: 0.5, MarginHigh: 2, Probability: 0.9},
		},
	}
	w := testWorker(activeSentenceModel(), calibration)
	ans := w.parseSentence(rdb.ParseSentenceArgs{
		Tokens:            []string{"The", "doctor", "treated", "the", "patient"},
		Tags:              []string{"DT", "NN", "VBD", "DT", "NN"},
		WithProbabilities: true,
	})
	require.NoError(t, ans.Err())
	for _, arc := range ans.Arcs {
		require.NotNil(t, arc.Probability)
		assert.Equal(t, 0.9, *arc.Probability)
	}
}

func TestParseSentenceTooLong(t *testing.T) {
	w := testWorker(activeSentenceModel(), nil)
	w.maxSentenceLen = 3
	ans := w.parseSentence(rdb.ParseSentenceArgs{
		Tokens: []string{"The", "doctor", "treated", "the", "patient"},
		Tags:   []string{"DT", "NN", "VBD", "DT", "NN"},
	})
	assert.ErrorAs(t, ans.Err(), &uderror.InputError{})
}

func TestParseSentenceLengthMismatch(t *testing.T) {
	w := testWorker(activeSentenceModel(), nil)
	ans := w.parseSentence(rdb.ParseSentenceArgs{
		Tokens: []string{"The", "doctor"},
		Tags:   []string{"DT"},
	})
	assert.ErrorAs(t, ans.Err(), &uderror.InputError{})
}

func TestTokenizeTextAction(t *testing.T) {
	w := testWorker(activeSentenceModel(), nil)
	ans := w.tokenizeText(rdb.TokenizeTextArgs{Text: "The doctor didn't leave."})
	require.NoError(t, ans.Err())
	assert.Equal(t, []string{"The", "doctor", "did", "n't", "leave", "."}, ans.Tokens)
}

func TestTokenizeTextEmpty(t *testing.T) {
	w := testWorker(activeSentenceModel(), nil)
	ans := w.tokenizeText(rdb.TokenizeTextArgs{})
	assert.ErrorAs(t, ans.Err(), &uderror.InputError{})
}

func TestExtractEntitiesAction(t *testing.T) {
	w := testWorker(activeSentenceModel(), nil)
	ans := w.extractEntities(rdb.ExtractEntitiesArgs{
		Tokens: []string{"The", "doctor", "treated", "the", "patient"},
		Tags:   []string{"DT", "NN", "VBD", "DT", "NN"},
	})
	require.NoError(t, ans.Err())
	require.Len(t, ans.Entities, 2)
	assert.Equal(t, []string{"The", "doctor"}, ans.Entities[0].Tokens)
	assert.Equal(t, 2, ans.Entities[0].HeadIndex)
	assert.Equal(t, []string{"the", "patient"}, ans.Entities[1].Tokens)
	assert.Equal(t, 5, ans.Entities[1].HeadIndex)
}

func TestRunQueryProtectedRecoversPanic(t *testing.T) {
	// a worker without a parser panics inside the action, which must
	// surface as a recovered error, not crash the loop
	w := &Worker{ID: "worker-test", maxSentenceLen: 64}
	args, err := json.Marshal(rdb.ParseSentenceArgs{
		Tokens: []string{"The"},
		Tags:   []string{"DT"},
	})
	require.NoError(t, err)
	err = w.runQueryProtected(rdb.Query{Channel: "ch1", Func: "parseSentence", Args: args})
	var rcvErr uderror.RecoveredError
	require.ErrorAs(t, err, &rcvErr)
	assert.Contains(t, rcvErr.Msg, "recovered panic")
}

func TestModelInfoAction(t *testing.T) {
	m := activeSentenceModel()
	w := testWorker(m, nil)
	ans := w.modelInfo(rdb.ModelInfoArgs{})
	require.NoError(t, ans.Err())
	assert.Equal(t, "test", ans.Version)
	assert.Equal(t, "UD v2", ans.Labelset)
	assert.Equal(t, len(m.Labels), ans.NumLabels)
	assert.Equal(t, len(m.Transitions), ans.NumTransitions)
	assert.Equal(t, len(m.Weights), ans.NumFeatures)
	assert.False(t, ans.HasCalibration)
}
